package repository

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// MongoUserRepository stores credentials in a MongoDB collection
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a new user repository backed by MongoDB
func NewMongoUserRepository(coll *mongo.Collection) *MongoUserRepository {
	return &MongoUserRepository{coll: coll}
}

// Create inserts the user if the username is free
func (r *MongoUserRepository) Create(ctx context.Context, user *entities.User) error {
	if _, err := r.FindByUsername(ctx, user.Username); err == nil {
		return entities.ErrUserAlreadyExists
	} else if !errors.Is(err, entities.ErrUserNotFound) {
		return err
	}

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		// unique index catches a concurrent signup between find and insert
		if mongo.IsDuplicateKeyError(err) {
			return entities.ErrUserAlreadyExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

// FindByUsername finds a user by username
func (r *MongoUserRepository) FindByUsername(ctx context.Context, username string) (*entities.User, error) {
	var user entities.User
	err := r.coll.FindOne(ctx, bson.M{"username": username}).Decode(&user)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, entities.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to find user by username: %w", err)
	}
	return &user, nil
}
