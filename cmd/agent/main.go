package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/internal/infrastructure/external/livekit"
	"github.com/johnquangdev/sales-assistant/internal/infrastructure/storage"
	"github.com/johnquangdev/sales-assistant/internal/usecase/call"
	"github.com/johnquangdev/sales-assistant/internal/voice"
	pkgai "github.com/johnquangdev/sales-assistant/pkg/ai"
	"github.com/johnquangdev/sales-assistant/pkg/config"
)

const customerName = "customer"

func main() {
	roomFlag := flag.String("room", "", "Room to join; generated when empty")
	backendFlag := flag.String("backend", "", "Analysis backend base URL (overrides BACKEND_URL)")
	replayFlag := flag.String("replay", "", "Comma separated audio files to transcribe as customer turns instead of reading stdin")
	debugFlag := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	cfg, err := config.LoadAgent()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	if *backendFlag != "" {
		cfg.Agent.BackendURL = *backendFlag
	}

	logger, err := newLogger(*debugFlag)
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	roomID, calls := resolveRoom(ctx, cfg, *roomFlag, logger)
	log.Printf("📞 Joining room %s", roomID)

	// Replies
	log.Println("🤖 Initializing Gemini replier...")
	gemini, err := pkgai.NewGeminiClient(ctx, cfg.Gemini.APIKey, cfg.Gemini.ReplyModel)
	if err != nil {
		log.Fatalf("Failed to initialize Gemini: %v", err)
	}
	defer gemini.Close()

	// Customer input
	var listener voice.Listener
	if *replayFlag != "" {
		listener = newReplayListener(ctx, cfg, strings.Split(*replayFlag, ","), logger)
	} else {
		log.Println("⌨️  Reading customer turns from stdin, one per line (Ctrl+D ends the call)")
		listener = voice.NewConsoleListener(os.Stdin)
	}

	// Transcript relay
	log.Printf("📤 Relaying transcripts to %s", cfg.Agent.BackendURL)
	relay := voice.NewRelay(voice.RelayConfig{
		BackendURL: cfg.Agent.BackendURL,
		Secret:     cfg.Auth.RelaySecret,
		Timeout:    cfg.Agent.RelayTimeout,
		QueueSize:  cfg.Agent.QueueSize,
	}, nil, logger)

	if calls != nil {
		waitForCustomer(ctx, cfg, calls, roomID)
	}

	session := voice.NewSession(roomID, listener, voice.NewGeminiReplier(gemini), voice.NewLogSpeaker(os.Stdout, logger), relay, logger)
	runErr := session.Run(ctx)

	log.Println("🛑 Call ended, draining transcript relay...")
	drainCtx, cancel := context.WithTimeout(context.Background(), cfg.Agent.DrainTimeout)
	defer cancel()
	if err := relay.Close(drainCtx); err != nil {
		log.Printf("⚠️  Relay drain incomplete: %v", err)
	}

	if runErr != nil && ctx.Err() == nil {
		log.Fatalf("❌ Session failed: %v", runErr)
	}
	log.Println("✅ Agent stopped")
}

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// resolveRoom creates the LiveKit room when LiveKit is configured and prints the customer's join token.
// The call service is nil when LiveKit is not configured.
func resolveRoom(ctx context.Context, cfg *config.Config, room string, logger *zap.Logger) (string, *call.Service) {
	if cfg.LiveKit.URL == "" && !cfg.LiveKit.UseMock {
		if room == "" {
			room = "sales_call_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:12]
		}
		return room, nil
	}

	client := livekit.NewClient(cfg.LiveKit.URL, cfg.LiveKit.APIKey, cfg.LiveKit.APISecret, cfg.LiveKit.UseMock)
	calls := call.NewService(client, cfg.LiveKit.TokenTTL, logger)
	details, err := calls.ConnectionDetails(ctx, call.ConnectionInput{
		RoomName:        room,
		ParticipantName: customerName,
	})
	if err != nil {
		log.Fatalf("Failed to prepare LiveKit room: %v", err)
	}
	log.Printf("🎥 Customer can join %s at %s", details.RoomName, details.ServerURL)
	logger.Debug("agent.customer_token", zap.String("token", details.ParticipantToken))
	return details.RoomName, calls
}

// waitForCustomer holds the greeting until the customer is in the room.
// The call goes ahead anyway when the wait times out.
func waitForCustomer(ctx context.Context, cfg *config.Config, calls *call.Service, roomID string) {
	log.Printf("⏳ Waiting up to %s for the customer to join...", cfg.Agent.JoinTimeout)
	p, err := calls.WaitForParticipant(ctx, roomID, customerName, cfg.Agent.JoinPoll, cfg.Agent.JoinTimeout)
	if err != nil {
		if ctx.Err() != nil {
			return
		}
		log.Printf("⚠️  Customer not seen in room, greeting anyway: %v", err)
		return
	}
	log.Printf("👋 Customer %s joined", p.Identity)
}

func newReplayListener(ctx context.Context, cfg *config.Config, files []string, logger *zap.Logger) voice.Listener {
	transcriber := pkgai.NewAssemblyAIClient(&cfg.Assembly)

	if cfg.Storage.Endpoint == "" {
		log.Println("🎙️  Replaying audio through AssemblyAI direct upload")
		return voice.NewReplayListener(files, transcriber, nil, logger)
	}

	log.Printf("🗄️  Staging replay audio in MinIO bucket %s", cfg.Storage.BucketName)
	stager, err := storage.NewMinIOClient(ctx, &cfg.Storage)
	if err != nil {
		log.Fatalf("Failed to initialize MinIO: %v", err)
	}
	return voice.NewReplayListener(files, transcriber, stager, logger)
}
