package database

import (
	"fmt"
	"log"
	"time"

	migrate "github.com/rubenv/sql-migrate"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/johnquangdev/sales-assistant/pkg/config"
)

// migrations holds the relational schema for both logical stores.
// sql-migrate records applied ids per database, so running it against a
// database shared by both stores is a no-op the second time.
var migrations = &migrate.MemoryMigrationSource{
	Migrations: []*migrate.Migration{
		{
			Id: "0001_create_users",
			Up: []string{`CREATE TABLE IF NOT EXISTS users (
				username   VARCHAR(255) PRIMARY KEY,
				password   TEXT NOT NULL,
				created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
			)`},
			Down: []string{`DROP TABLE IF EXISTS users`},
		},
		{
			Id: "0002_create_transcript_records",
			Up: []string{
				`CREATE TABLE IF NOT EXISTS transcript_records (
					id          VARCHAR(36) PRIMARY KEY,
					text        TEXT NOT NULL,
					speaker     VARCHAR(20) NOT NULL,
					timestamp   DOUBLE PRECISION NOT NULL,
					room_id     VARCHAR(255) NOT NULL,
					received_at VARCHAR(64) NOT NULL,
					analysis    JSONB
				)`,
				`CREATE INDEX IF NOT EXISTS idx_transcript_records_room_speaker_ts
					ON transcript_records (room_id, speaker, timestamp DESC)`,
			},
			Down: []string{`DROP TABLE IF EXISTS transcript_records`},
		},
	},
}

// NewPostgresDB creates a new PostgreSQL database connection using GORM
func NewPostgresDB(dsn string, cfg *config.Config) (*gorm.DB, error) {
	// Configure GORM logger
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.IsProduction() {
		gormLogger = logger.Default.LogMode(logger.Error)
	}

	// Open connection
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger:         gormLogger,
		TranslateError: true,
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get generic database object to configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database object: %w", err)
	}

	// Connection pool settings
	sqlDB.SetMaxOpenConns(cfg.Store.MaxConns)
	sqlDB.SetMaxIdleConns(cfg.Store.MinConns)
	sqlDB.SetConnMaxLifetime(time.Hour)

	// Test connection
	if err := sqlDB.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Println("✅ PostgreSQL connected successfully")

	return db, nil
}

// Migrate applies the relational schema
func Migrate(db *gorm.DB) error {
	log.Println("🔄 Applying migrations using sql-migrate...")

	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get db connection during migrate up, error: %v", err)
	}

	n, err := migrate.Exec(sqlDB, "postgres", migrations, migrate.Up)
	if err != nil {
		return fmt.Errorf("failed to apply migration, error: %v", err)
	}

	log.Printf("✅ Applied %d migrations!\n", n)
	return nil
}

// Rollback reverts up to steps applied migrations
func Rollback(db *gorm.DB, steps int) (int, error) {
	sqlDB, err := db.DB()
	if err != nil {
		return 0, fmt.Errorf("failed to get db connection during migrate down, error: %v", err)
	}

	n, err := migrate.ExecMax(sqlDB, "postgres", migrations, migrate.Down, steps)
	if err != nil {
		return n, fmt.Errorf("failed to roll back migration, error: %v", err)
	}
	return n, nil
}

// CloseDB closes the database connection
func CloseDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return fmt.Errorf("failed to get database object: %w", err)
	}

	if err := sqlDB.Close(); err != nil {
		return fmt.Errorf("failed to close database: %w", err)
	}

	log.Println("✅ PostgreSQL connection closed")
	return nil
}
