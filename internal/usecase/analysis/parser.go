package analysis

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/johnquangdev/sales-assistant/internal/domain/entities"
)

// Parser turns classifier output into a SentimentAnalysis
type Parser struct{}

// NewParser creates a new Parser instance
func NewParser() *Parser {
	return &Parser{}
}

// ParseSentimentJSON parses the model reply field by field. Missing or mistyped
// fields take their defaults; only a reply that is not a JSON object is an error.
func (p *Parser) ParseSentimentJSON(content string) (entities.SentimentAnalysis, error) {
	content = extractJSON(content)

	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(content), &fields); err != nil {
		return entities.SentimentAnalysis{}, fmt.Errorf("failed to parse JSON response: %w", err)
	}
	if fields == nil {
		return entities.SentimentAnalysis{}, fmt.Errorf("response is not a JSON object")
	}

	return entities.SentimentAnalysis{
		Sentiment:      parseSentiment(fields["sentiment"]),
		Confidence:     parseConfidence(fields["confidence"]),
		KeyPoints:      parseKeyPoints(fields["key_points"]),
		Recommendation: parseRecommendation(fields["recommendation_to_salesperson"]),
	}, nil
}

func parseSentiment(raw json.RawMessage) entities.Sentiment {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return entities.SentimentNeutral
	}
	sentiment := entities.Sentiment(strings.ToLower(strings.TrimSpace(s)))
	if !sentiment.IsValid() {
		return entities.SentimentNeutral
	}
	return sentiment
}

func parseConfidence(raw json.RawMessage) float64 {
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0.0
	}
	switch {
	case f < 0:
		return 0.0
	case f > 1:
		return 1.0
	}
	return f
}

func parseKeyPoints(raw json.RawMessage) []string {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return []string{}
	}
	points := make([]string, 0, len(items))
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err != nil {
			continue
		}
		if s = strings.TrimSpace(s); s != "" {
			points = append(points, s)
		}
	}
	return points
}

func parseRecommendation(raw json.RawMessage) string {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil || strings.TrimSpace(s) == "" {
		return entities.RecommendationContinue
	}
	return strings.TrimSpace(s)
}

// extractJSON extracts JSON content from markdown code blocks or plain text
func extractJSON(content string) string {
	content = strings.TrimSpace(content)

	// Check if wrapped in markdown code block
	if strings.HasPrefix(content, "```json") {
		content = strings.TrimPrefix(content, "```json")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	} else if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```")
		if idx := strings.LastIndex(content, "```"); idx != -1 {
			content = content[:idx]
		}
	}

	return strings.TrimSpace(content)
}
