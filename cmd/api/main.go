package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	_ "github.com/johnquangdev/sales-assistant/docs"
	"github.com/johnquangdev/sales-assistant/internal/adapter/handler"
	"github.com/johnquangdev/sales-assistant/internal/app"
	"github.com/johnquangdev/sales-assistant/internal/domain/repositories"
	"github.com/johnquangdev/sales-assistant/internal/infrastructure/cache"
	"github.com/johnquangdev/sales-assistant/internal/infrastructure/external/livekit"
	httpmw "github.com/johnquangdev/sales-assistant/internal/infrastructure/http/middleware"
	"github.com/johnquangdev/sales-assistant/internal/usecase/analysis"
	"github.com/johnquangdev/sales-assistant/internal/usecase/auth"
	"github.com/johnquangdev/sales-assistant/internal/usecase/call"
	pkgai "github.com/johnquangdev/sales-assistant/pkg/ai"
	"github.com/johnquangdev/sales-assistant/pkg/config"
	pkgvalidator "github.com/johnquangdev/sales-assistant/pkg/validator"
)

// @title           Sales Assistant API
// @version         1.0
// @description     Transcript ingestion, customer sentiment analysis and credential endpoints for the sales voice assistant

// @contact.name   API Support

// @BasePath  /

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	// Initialize Echo instance
	e := echo.New()

	// Register validator for request validation
	e.Validator = pkgvalidator.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = false

	// Custom logger format
	e.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "${time_rfc3339} | ${status} | ${method} ${uri} | ${latency_human}\n",
	}))

	// Recover from panics
	e.Use(middleware.Recover())
	e.Use(httpmw.RequestID())

	// CORS middleware, the browser frontend is served from any origin
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowedOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodPatch, http.MethodOptions},
		AllowHeaders: []string{"*"},
	}))

	ctx := context.Background()

	log.Println("🔧 Initializing dependencies...")

	// Credential store
	log.Println("📦 Connecting to login store...")
	users, closeUsers, err := app.OpenUserStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to login store: %v", err)
	}
	defer closeUsers()

	// Transcript store
	log.Println("📦 Connecting to transcript store...")
	transcripts, closeTranscripts, err := app.OpenTranscriptStore(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to transcript store: %v", err)
	}
	defer closeTranscripts()

	// Room state
	rooms, err := openRoomState(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize room state: %v", err)
	}
	defer rooms.Close()

	// Classifier
	log.Printf("🤖 Initializing %s classifier...", cfg.Classifier.Provider)
	completer, closeCompleter, err := newCompleter(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize classifier: %v", err)
	}
	defer closeCompleter()
	classifier := analysis.NewLLMClassifier(completer, cfg.Classifier.Timeout, logger)

	// Credentials
	log.Println("🔐 Initializing credential service...")
	hasher, err := auth.NewPasswordHasher(cfg.Auth.PasswordHash)
	if err != nil {
		log.Fatalf("Failed to initialize password hasher: %v", err)
	}
	credentials := auth.NewCredentialService(users, hasher, logger)

	// LiveKit
	log.Println("🎥 Initializing LiveKit client...")
	livekitClient := livekit.NewClient(
		cfg.LiveKit.URL,
		cfg.LiveKit.APIKey,
		cfg.LiveKit.APISecret,
		cfg.LiveKit.UseMock,
	)
	if cfg.LiveKit.UseMock {
		log.Println("⚠️  LiveKit running in MOCK mode (no real server needed)")
	} else {
		log.Printf("✅ LiveKit configured for: %s", cfg.LiveKit.URL)
	}
	callService := call.NewService(livekitClient, cfg.LiveKit.TokenTTL, logger)

	analysisService := analysis.NewService(transcripts, rooms, classifier, logger)

	if cfg.Auth.RelaySecret == "" {
		log.Println("⚠️  RELAY_SECRET not set, /process-transcription accepts unsigned requests")
	}

	// Setup router with handlers
	log.Println("🛣️  Setting up routes...")
	router := handler.NewRouter(cfg, logger,
		handler.NewAuth(credentials, logger),
		handler.NewTranscript(analysisService, logger),
		handler.NewCall(callService, logger),
	)
	router.Setup(e)

	// Start server
	go func() {
		addr := cfg.GetServerAddr()
		log.Printf("🚀 Starting server on %s", addr)
		log.Printf("📝 Environment: %s", cfg.Server.Environment)
		log.Printf("🔗 Health check: http://%s/health", addr)

		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server stopped gracefully")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

// openRoomState shares room state through Redis when configured, otherwise keeps it in process
func openRoomState(ctx context.Context, cfg *config.Config) (repositories.RoomState, error) {
	rc := cfg.RoomState
	if rc.RedisAddr == "" {
		log.Printf("🧠 Using in-memory room state (max %d rooms, idle ttl %s)", rc.MaxRooms, rc.TTL)
		return cache.NewMemoryRoomState(rc.MaxRooms, rc.TTL, rc.BufferWindow), nil
	}

	log.Println("📦 Connecting to Redis...")
	rdb, err := cache.NewRedisClient(ctx, rc)
	if err != nil {
		return nil, err
	}
	return cache.NewRedisRoomState(rdb, rc.TTL, rc.BufferWindow), nil
}

// newCompleter builds the LLM client behind the classifier
func newCompleter(ctx context.Context, cfg *config.Config) (analysis.Completer, func(), error) {
	switch cfg.Classifier.Provider {
	case "groq":
		return pkgai.NewGroqClient(&cfg.Groq), func() {}, nil
	case "gemini":
		gemini, err := pkgai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model)
		if err != nil {
			return nil, nil, err
		}
		return gemini, func() { _ = gemini.Close() }, nil
	default:
		return nil, nil, fmt.Errorf("unknown classifier provider %q", cfg.Classifier.Provider)
	}
}
