package entities

// Sentiment is the customer's attitude label
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNeutral  Sentiment = "neutral"
	SentimentNegative Sentiment = "negative"
)

// IsValid checks if the sentiment is one of the known labels
func (s Sentiment) IsValid() bool {
	switch s {
	case SentimentPositive, SentimentNeutral, SentimentNegative:
		return true
	}
	return false
}

// Recommendation texts used when the classifier or the store leaves a gap
const (
	RecommendationUnableToProcess = "Unable to process."
	RecommendationContinue        = "Continue the conversation."
	RecommendationKeepEngaging    = "Continue engaging."
	RecommendationStart           = "Start the conversation and engage with the customer."
	KeyPointWaiting               = "Waiting for customer input..."
)

// SentimentAnalysis is the classification of one customer utterance
type SentimentAnalysis struct {
	Sentiment      Sentiment `json:"sentiment" bson:"sentiment"`
	Confidence     float64   `json:"confidence" bson:"confidence"`
	KeyPoints      []string  `json:"key_points" bson:"key_points"`
	Recommendation string    `json:"recommendation_to_salesperson" bson:"recommendation_to_salesperson"`
}

// FallbackAnalysis is substituted whenever classification cannot complete
func FallbackAnalysis() SentimentAnalysis {
	return SentimentAnalysis{
		Sentiment:      SentimentNeutral,
		Confidence:     0.0,
		KeyPoints:      []string{},
		Recommendation: RecommendationUnableToProcess,
	}
}

// WaitingAnalysis is returned for a room that has no analysis yet
func WaitingAnalysis() SentimentAnalysis {
	return SentimentAnalysis{
		Sentiment:      SentimentNeutral,
		Confidence:     0.0,
		KeyPoints:      []string{KeyPointWaiting},
		Recommendation: RecommendationStart,
	}
}

// Normalized fills the gaps a persisted analysis may have
func (a SentimentAnalysis) Normalized() SentimentAnalysis {
	if a.Sentiment == "" {
		a.Sentiment = SentimentNeutral
	}
	if a.KeyPoints == nil {
		a.KeyPoints = []string{}
	}
	if a.Recommendation == "" {
		a.Recommendation = RecommendationKeepEngaging
	}
	return a
}

// LatestAnalysis is the room cache entry: the most recent analysis plus
// the user message that triggered it
type LatestAnalysis struct {
	SentimentAnalysis
	Timestamp   float64 `json:"timestamp"`
	UserMessage string  `json:"user_message"`
}
