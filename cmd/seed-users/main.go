package main

import (
	"context"
	stdErrors "errors"
	"log"

	"github.com/johnquangdev/sales-assistant/errors"
	"github.com/johnquangdev/sales-assistant/internal/app"
	"github.com/johnquangdev/sales-assistant/internal/usecase/auth"
	"github.com/johnquangdev/sales-assistant/pkg/config"
)

func main() {
	log.Println("🚀 Starting test users creation...")

	// Load configuration from .env
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	log.Println("📦 Connecting to login store...")
	users, closeUsers, err := app.OpenUserStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to login store: %v", err)
	}
	defer closeUsers()

	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHash)
	if err != nil {
		log.Fatalf("Failed to initialize password hasher: %v", err)
	}
	credentials := auth.NewCredentialService(users, hasher, nil)

	testUsers := []struct {
		Username string
		Password string
	}{
		{Username: "alice", Password: "alice-demo"},
		{Username: "bob", Password: "bob-demo"},
		{Username: "charlie", Password: "charlie-demo"},
	}

	created := 0
	for _, u := range testUsers {
		err := credentials.Register(ctx, u.Username, u.Password)
		var appErr errors.AppError
		switch {
		case err == nil:
			created++
			log.Printf("✅ Created %s", u.Username)
		case stdErrors.As(err, &appErr) && appErr.Code == errors.ErrorCode_AUTH_USER_ALREADY_EXISTS:
			log.Printf("ℹ️  %s already exists", u.Username)
		default:
			log.Printf("❌ Failed to create %s: %v", u.Username, err)
		}
	}

	log.Printf("🎉 Created %d test user(s)", created)
}
