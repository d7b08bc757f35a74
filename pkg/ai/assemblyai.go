package ai

import (
	"context"
	"fmt"
	"io"
	"os"

	aai "github.com/AssemblyAI/assemblyai-go-sdk"

	"github.com/johnquangdev/sales-assistant/pkg/config"
)

// AssemblyAIClient transcribes recorded utterances with the AssemblyAI SDK
type AssemblyAIClient struct {
	client       *aai.Client
	languageCode string
}

// NewAssemblyAIClient creates an AssemblyAI client using the provided config.
// If cfg is nil, falls back to environment variables.
func NewAssemblyAIClient(cfg *config.AssemblyAIConfig) *AssemblyAIClient {
	var apiKey, lang string
	if cfg != nil {
		apiKey = cfg.APIKey
		lang = cfg.LanguageCode
	}
	if apiKey == "" {
		apiKey = os.Getenv("ASSEMBLYAI_API_KEY")
	}
	if lang == "" {
		lang = "en"
	}
	return &AssemblyAIClient{
		client:       aai.NewClient(apiKey),
		languageCode: lang,
	}
}

// Upload sends raw audio to AssemblyAI and returns a private URL usable for transcription
func (c *AssemblyAIClient) Upload(ctx context.Context, audio io.Reader) (string, error) {
	uploadURL, err := c.client.Upload(ctx, audio)
	if err != nil {
		return "", fmt.Errorf("failed to upload to AssemblyAI: %w", err)
	}
	return uploadURL, nil
}

// TranscribeURL transcribes the audio at url and waits for the final text
func (c *AssemblyAIClient) TranscribeURL(ctx context.Context, url string) (string, error) {
	params := &aai.TranscriptOptionalParams{
		LanguageCode: aai.TranscriptLanguageCode(c.languageCode),
		Punctuate:    aai.Bool(true),
		FormatText:   aai.Bool(true),
	}

	transcript, err := c.client.Transcripts.TranscribeFromURL(ctx, url, params)
	if err != nil {
		return "", fmt.Errorf("assemblyai transcription failed: %w", err)
	}
	if transcript.Status == aai.TranscriptStatusError {
		msg := "unknown error"
		if transcript.Error != nil {
			msg = *transcript.Error
		}
		return "", fmt.Errorf("assemblyai error: %s", msg)
	}
	if transcript.Text == nil {
		return "", nil
	}
	return *transcript.Text, nil
}
