package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

// PasswordHasher hashes and verifies passwords
type PasswordHasher interface {
	Hash(password string) (string, error)
	Verify(hash, password string) bool
}

var legacyDigest = regexp.MustCompile(`^[0-9a-f]{64}$`)

// BcryptHasher hashes with bcrypt and still accepts legacy sha256 hex digests.
// Passwords are reduced to their sha256 hex digest first so inputs longer than
// bcrypt's 72 byte limit are accepted and not silently truncated.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates a bcrypt hasher; cost 0 uses bcrypt.DefaultCost
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns a salted bcrypt hash
func (h *BcryptHasher) Hash(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword(prehash(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("failed to hash password: %w", err)
	}
	return string(b), nil
}

// Verify checks the password against a bcrypt hash or a legacy digest
func (h *BcryptHasher) Verify(hash, password string) bool {
	if legacyDigest.MatchString(hash) {
		return SHA256Hasher{}.Verify(hash, password)
	}
	return bcrypt.CompareHashAndPassword([]byte(hash), prehash(password)) == nil
}

func prehash(password string) []byte {
	sum := sha256.Sum256([]byte(password))
	out := make([]byte, hex.EncodedLen(len(sum)))
	hex.Encode(out, sum[:])
	return out
}

// SHA256Hasher stores the unsalted sha256 hex digest used by existing login records
type SHA256Hasher struct{}

// Hash returns the sha256 hex digest of the password
func (SHA256Hasher) Hash(password string) (string, error) {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:]), nil
}

// Verify compares digests in constant time
func (h SHA256Hasher) Verify(hash, password string) bool {
	digest, _ := h.Hash(password)
	return subtle.ConstantTimeCompare([]byte(digest), []byte(hash)) == 1
}

// NewPasswordHasher returns the hasher for the configured mode
func NewPasswordHasher(mode string) (PasswordHasher, error) {
	switch mode {
	case "", "bcrypt":
		return NewBcryptHasher(0), nil
	case "sha256":
		return SHA256Hasher{}, nil
	}
	return nil, fmt.Errorf("unknown password hash mode %q", mode)
}
