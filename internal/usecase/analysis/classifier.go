package analysis

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

const classifierSystem = "You analyze what a customer says during a sales call. Reply with a single JSON object and nothing else."

const classifierPrompt = `Analyze this customer message for sentiment and key intent:
%q

Return JSON only:
{
  "sentiment": "positive" | "neutral" | "negative",
  "confidence": number between 0 and 1,
  "key_points": ["key summary 1", "key summary 2"],
  "recommendation_to_salesperson": "short recommendation"
}`

// Completer is a single-shot LLM call
type Completer interface {
	Complete(ctx context.Context, system, prompt string) (string, error)
}

// Classifier scores the sentiment of a customer utterance. It never fails:
// any provider or parse error yields the fallback analysis.
type Classifier interface {
	Classify(ctx context.Context, text string) entities.SentimentAnalysis
}

// LLMClassifier classifies through an LLM completion
type LLMClassifier struct {
	completer Completer
	parser    *Parser
	timeout   time.Duration
	logger    *zap.Logger
}

// NewLLMClassifier creates a classifier bounded by timeout per call
func NewLLMClassifier(completer Completer, timeout time.Duration, logger *zap.Logger) *LLMClassifier {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LLMClassifier{
		completer: completer,
		parser:    NewParser(),
		timeout:   timeout,
		logger:    logger,
	}
}

// Classify returns the parsed analysis or the fallback analysis
func (c *LLMClassifier) Classify(ctx context.Context, text string) entities.SentimentAnalysis {
	result, err := c.classify(ctx, text)
	if err != nil {
		c.logger.Warn("classifier.fallback", zap.Error(err))
		return entities.FallbackAnalysis()
	}
	return result
}

func (c *LLMClassifier) classify(ctx context.Context, text string) (result entities.SentimentAnalysis, err error) {
	if c.completer == nil {
		return result, fmt.Errorf("no classification provider configured")
	}

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("classification panicked: %v", r)
		}
	}()

	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	reply, err := c.completer.Complete(ctx, classifierSystem, fmt.Sprintf(classifierPrompt, text))
	if err != nil {
		return result, fmt.Errorf("classification call failed: %w", err)
	}
	return c.parser.ParseSentimentJSON(reply)
}
