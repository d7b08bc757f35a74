// Package app opens the persistence backends selected by configuration
package app

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"github.com/johnquangdev/sales-assistant/internal/adapter/repository"
	"github.com/johnquangdev/sales-assistant/internal/domain/repositories"
	"github.com/johnquangdev/sales-assistant/internal/infrastructure/database"
	"github.com/johnquangdev/sales-assistant/pkg/config"
)

// OpenUserStore picks the relational or document backend from the URI scheme
func OpenUserStore(ctx context.Context, cfg *config.Config) (repositories.UserRepository, func(), error) {
	if config.IsRelational(cfg.Store.LoginURI) {
		db, err := OpenPostgres(cfg.Store.LoginURI, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewUserRepository(db), closeDB(db), nil
	}

	client, err := database.NewMongoClient(ctx, cfg.Store.LoginURI)
	if err != nil {
		return nil, nil, err
	}
	coll := client.Database(cfg.Store.LoginDatabase).Collection(cfg.Store.LoginCollection)
	database.EnsureUserIndexes(ctx, coll)
	return repository.NewMongoUserRepository(coll), closeMongo(client), nil
}

// OpenTranscriptStore picks the relational or document backend from the URI scheme
func OpenTranscriptStore(ctx context.Context, cfg *config.Config) (repositories.TranscriptRepository, func(), error) {
	if config.IsRelational(cfg.Store.TranscriptURI) {
		db, err := OpenPostgres(cfg.Store.TranscriptURI, cfg)
		if err != nil {
			return nil, nil, err
		}
		return repository.NewTranscriptRepository(db), closeDB(db), nil
	}

	client, err := database.NewMongoClient(ctx, cfg.Store.TranscriptURI)
	if err != nil {
		return nil, nil, err
	}
	coll := client.Database(cfg.Store.TranscriptDatabase).Collection(cfg.Store.TranscriptCollection)
	database.EnsureTranscriptIndexes(ctx, coll)
	return repository.NewMongoTranscriptRepository(coll), closeMongo(client), nil
}

// OpenPostgres connects and applies pending migrations
func OpenPostgres(dsn string, cfg *config.Config) (*gorm.DB, error) {
	db, err := database.NewPostgresDB(dsn, cfg)
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		_ = database.CloseDB(db)
		return nil, err
	}
	return db, nil
}

func closeDB(db *gorm.DB) func() {
	return func() {
		if err := database.CloseDB(db); err != nil {
			log.Printf("⚠️  %v", err)
		}
	}
}

func closeMongo(client *mongo.Client) func() {
	return func() {
		if err := database.CloseMongo(client); err != nil {
			log.Printf("⚠️  %v", err)
		}
	}
}
