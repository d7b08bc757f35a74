package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds application configuration
type Config struct {
	Server     ServerConfig
	Store      StoreConfig
	RoomState  RoomStateConfig
	Classifier ClassifierConfig
	Gemini     GeminiConfig
	Groq       GroqConfig
	Auth       AuthConfig
	LiveKit    LiveKitConfig
	Agent      AgentConfig
	Assembly   AssemblyAIConfig
	Storage    StorageConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            string        `envconfig:"PORT" default:"8000"`
	Host            string        `envconfig:"HOST" default:"0.0.0.0"`
	Environment     string        `envconfig:"ENVIRONMENT" default:"development"`
	AllowedOrigins  []string      `envconfig:"ALLOWED_ORIGINS" default:"*"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

// StoreConfig holds the two independent document store connections.
// A postgres:// URI selects the relational backend for that store.
type StoreConfig struct {
	LoginURI             string `envconfig:"MONGO_URI"`
	LoginDatabase        string `envconfig:"DB_NAME" default:"UserLogin"`
	LoginCollection      string `envconfig:"COLLECTION_NAME" default:"Login"`
	TranscriptURI        string `envconfig:"MONGO_URI_1"`
	TranscriptDatabase   string `envconfig:"TRANSCRIPT_DB_NAME" default:"Transcripts"`
	TranscriptCollection string `envconfig:"TRANSCRIPT_COLLECTION" default:"UserAI"`
	MaxConns             int    `envconfig:"DB_MAX_CONNS" default:"25"`
	MinConns             int    `envconfig:"DB_MIN_CONNS" default:"5"`
}

// RoomStateConfig holds the room latest-analysis cache configuration
type RoomStateConfig struct {
	MaxRooms      int           `envconfig:"ROOM_CACHE_MAX_ROOMS" default:"1000"`
	TTL           time.Duration `envconfig:"ROOM_CACHE_TTL" default:"2h"`
	BufferWindow  int           `envconfig:"ROOM_BUFFER_WINDOW" default:"50"`
	RedisAddr     string        `envconfig:"REDIS_ADDR"`
	RedisPassword string        `envconfig:"REDIS_PASSWORD"`
	RedisDB       int           `envconfig:"REDIS_DB" default:"0"`
}

// ClassifierConfig selects the sentiment classification provider
type ClassifierConfig struct {
	Provider string        `envconfig:"CLASSIFIER_PROVIDER" default:"gemini"`
	Timeout  time.Duration `envconfig:"CLASSIFIER_TIMEOUT" default:"15s"`
}

// GeminiConfig holds Google Gemini configuration
type GeminiConfig struct {
	APIKey     string `envconfig:"GOOGLE_API_KEY"`
	Model      string `envconfig:"GEMINI_MODEL" default:"gemini-2.5-flash"`
	ReplyModel string `envconfig:"GEMINI_REPLY_MODEL" default:"gemini-2.0-flash"`
}

// GroqConfig holds Groq configuration
type GroqConfig struct {
	APIKey  string `envconfig:"GROQ_API_KEY"`
	BaseURL string `envconfig:"GROQ_API_URL" default:"https://api.groq.com"`
	Model   string `envconfig:"GROQ_MODEL" default:"llama-3.1-8b-instant"`
}

// AuthConfig holds credential and relay authentication configuration
type AuthConfig struct {
	PasswordHash string `envconfig:"PASSWORD_HASH" default:"bcrypt"`
	RelaySecret  string `envconfig:"RELAY_SECRET"`
}

// LiveKitConfig holds LiveKit configuration
type LiveKitConfig struct {
	URL       string        `envconfig:"LIVEKIT_URL"`
	APIKey    string        `envconfig:"LIVEKIT_API_KEY"`
	APISecret string        `envconfig:"LIVEKIT_API_SECRET"`
	UseMock   bool          `envconfig:"LIVEKIT_USE_MOCK" default:"false"`
	TokenTTL  time.Duration `envconfig:"LIVEKIT_TOKEN_TTL" default:"15m"`
}

// AgentConfig holds voice agent configuration
type AgentConfig struct {
	BackendURL   string        `envconfig:"BACKEND_URL" default:"http://localhost:8000"`
	RelayTimeout time.Duration `envconfig:"RELAY_TIMEOUT" default:"10s"`
	QueueSize    int           `envconfig:"RELAY_QUEUE_SIZE" default:"64"`
	DrainTimeout time.Duration `envconfig:"RELAY_DRAIN_TIMEOUT" default:"15s"`
	JoinTimeout  time.Duration `envconfig:"AGENT_JOIN_TIMEOUT" default:"2m"`
	JoinPoll     time.Duration `envconfig:"AGENT_JOIN_POLL" default:"2s"`
}

// AssemblyAIConfig holds AssemblyAI configuration
type AssemblyAIConfig struct {
	APIKey       string `envconfig:"ASSEMBLYAI_API_KEY"`
	LanguageCode string `envconfig:"ASSEMBLYAI_LANGUAGE" default:"en"`
}

// StorageConfig holds object storage configuration
type StorageConfig struct {
	Endpoint        string `envconfig:"STORAGE_ENDPOINT"`
	AccessKeyID     string `envconfig:"STORAGE_ACCESS_KEY" default:"minioadmin"`
	SecretAccessKey string `envconfig:"STORAGE_SECRET_KEY" default:"minioadmin"`
	BucketName      string `envconfig:"STORAGE_BUCKET" default:"sales-assistant"`
	UseSSL          bool   `envconfig:"STORAGE_USE_SSL" default:"false"`
	PublicURL       string `envconfig:"STORAGE_PUBLIC_URL"`
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	cfg, err := load()
	if err != nil {
		return nil, err
	}

	// Validate required fields
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadAgent loads configuration for the voice agent, which does not need
// the document store connection strings.
func LoadAgent() (*Config, error) {
	return load()
}

func load() (*Config, error) {
	// Load .env file if exists (ignore error if file doesn't exist)
	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables or defaults")
	}

	cfg := &Config{}
	sections := []interface{}{
		&cfg.Server, &cfg.Store, &cfg.RoomState, &cfg.Classifier, &cfg.Gemini, &cfg.Groq,
		&cfg.Auth, &cfg.LiveKit, &cfg.Agent, &cfg.Assembly, &cfg.Storage,
	}
	for _, section := range sections {
		if err := envconfig.Process("", section); err != nil {
			return nil, fmt.Errorf("failed to read configuration: %w", err)
		}
	}

	return cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Store.LoginURI == "" || c.Store.TranscriptURI == "" {
		return fmt.Errorf("MONGO_URI and MONGO_URI_1 are required")
	}
	switch c.Classifier.Provider {
	case "gemini", "groq":
	default:
		return fmt.Errorf("CLASSIFIER_PROVIDER must be gemini or groq, got %q", c.Classifier.Provider)
	}
	switch c.Auth.PasswordHash {
	case "bcrypt", "sha256":
	default:
		return fmt.Errorf("PASSWORD_HASH must be bcrypt or sha256, got %q", c.Auth.PasswordHash)
	}
	if c.RoomState.MaxRooms <= 0 {
		return fmt.Errorf("ROOM_CACHE_MAX_ROOMS must be positive")
	}
	return nil
}

// IsProduction reports whether the server runs in production mode
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}

// GetServerAddr returns the HTTP listen address
func (c *Config) GetServerAddr() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// IsRelational reports whether a store connection string points at PostgreSQL
func IsRelational(uri string) bool {
	return strings.HasPrefix(uri, "postgres://") || strings.HasPrefix(uri, "postgresql://")
}
