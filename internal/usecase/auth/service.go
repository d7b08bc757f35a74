package auth

import (
	"context"
	stdErrors "errors"

	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
	"github.com/johnquangdev/sales-assistant/internal/domain/repositories"
)

// CredentialService registers and authenticates users. No session is issued.
type CredentialService struct {
	userRepo repositories.UserRepository
	hasher   PasswordHasher
	logger   *zap.Logger
}

// NewCredentialService creates a new credential service
func NewCredentialService(userRepo repositories.UserRepository, hasher PasswordHasher, logger *zap.Logger) *CredentialService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CredentialService{
		userRepo: userRepo,
		hasher:   hasher,
		logger:   logger,
	}
}

// Register stores a new user; a taken username is a client error.
// Usernames are stored exactly as given.
func (s *CredentialService) Register(ctx context.Context, username, password string) error {
	if username == "" || password == "" {
		return errors.ErrInvalidArgument("username and password are required")
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return errors.ErrInternal(err)
	}

	user := entities.NewUser(username, hash)
	if err := user.Validate(); err != nil {
		return errors.ErrInvalidArgument(err.Error())
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if stdErrors.Is(err, entities.ErrUserAlreadyExists) {
			return errors.ErrUsernameTaken(username)
		}
		return errors.ErrDBQueryFailed("create user", err)
	}

	s.logger.Info("auth.registered", zap.String("username", username))
	return nil
}

// Authenticate returns the username when the password matches
func (s *CredentialService) Authenticate(ctx context.Context, username, password string) (string, error) {
	user, err := s.userRepo.FindByUsername(ctx, username)
	if err != nil {
		if stdErrors.Is(err, entities.ErrUserNotFound) {
			return "", errors.ErrInvalidCredentials()
		}
		return "", errors.ErrDBQueryFailed("find user", err)
	}

	if !s.hasher.Verify(user.PasswordHash, password) {
		return "", errors.ErrInvalidCredentials()
	}
	return user.Username, nil
}
