package voice

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ConsoleListener reads one customer utterance per input line
type ConsoleListener struct {
	lines chan string
	errc  chan error
}

// NewConsoleListener starts scanning r
func NewConsoleListener(r io.Reader) *ConsoleListener {
	l := &ConsoleListener{
		lines: make(chan string),
		errc:  make(chan error, 1),
	}
	go func() {
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			l.lines <- scanner.Text()
		}
		if err := scanner.Err(); err != nil {
			l.errc <- err
			return
		}
		l.errc <- io.EOF
	}()
	return l
}

// Next implements Listener
func (l *ConsoleListener) Next(ctx context.Context) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	case line := <-l.lines:
		return line, nil
	case err := <-l.errc:
		l.errc <- err
		return "", err
	}
}

// Transcriber turns recorded audio into text
type Transcriber interface {
	Upload(ctx context.Context, audio io.Reader) (string, error)
	TranscribeURL(ctx context.Context, url string) (string, error)
}

// AudioStager stores audio where the transcriber can fetch it
type AudioStager interface {
	UploadFile(ctx context.Context, objectName string, reader io.Reader, size int64, contentType string) error
	GetFileURL(ctx context.Context, objectName string, expiry time.Duration) (string, error)
	RemoveFile(ctx context.Context, objectName string) error
}

const stagedURLExpiry = 15 * time.Minute

// ReplayListener transcribes recorded customer utterances, one file per turn
type ReplayListener struct {
	files       []string
	next        int
	transcriber Transcriber
	stager      AudioStager
	logger      *zap.Logger
}

// NewReplayListener replays files in order. A nil stager uploads audio to the transcriber directly.
func NewReplayListener(files []string, transcriber Transcriber, stager AudioStager, logger *zap.Logger) *ReplayListener {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReplayListener{files: files, transcriber: transcriber, stager: stager, logger: logger}
}

// Next implements Listener
func (l *ReplayListener) Next(ctx context.Context) (string, error) {
	if l.next >= len(l.files) {
		return "", io.EOF
	}
	path := l.files[l.next]
	l.next++

	audioURL, cleanup, err := l.audioURL(ctx, path)
	if err != nil {
		return "", err
	}
	defer cleanup()

	text, err := l.transcriber.TranscribeURL(ctx, audioURL)
	if err != nil {
		return "", fmt.Errorf("failed to transcribe %s: %w", path, err)
	}
	l.logger.Debug("replay.transcribed", zap.String("file", path), zap.Int("chars", len(text)))
	return text, nil
}

func (l *ReplayListener) audioURL(ctx context.Context, path string) (string, func(), error) {
	f, err := os.Open(path)
	if err != nil {
		return "", nil, fmt.Errorf("failed to open audio: %w", err)
	}
	defer f.Close()

	if l.stager == nil {
		url, err := l.transcriber.Upload(ctx, f)
		if err != nil {
			return "", nil, err
		}
		return url, func() {}, nil
	}

	info, err := f.Stat()
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat audio: %w", err)
	}
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	objectName := fmt.Sprintf("utterances/%s%s", uuid.NewString(), filepath.Ext(path))
	if err := l.stager.UploadFile(ctx, objectName, f, info.Size(), contentType); err != nil {
		return "", nil, err
	}
	cleanup := func() {
		if err := l.stager.RemoveFile(context.Background(), objectName); err != nil {
			l.logger.Warn("replay.cleanup_failed", zap.String("object", objectName), zap.Error(err))
		}
	}

	url, err := l.stager.GetFileURL(ctx, objectName, stagedURLExpiry)
	if err != nil {
		cleanup()
		return "", nil, err
	}
	return url, cleanup, nil
}
