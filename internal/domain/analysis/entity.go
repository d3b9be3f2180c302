package analysis

import "time"

// Language selects which prompt templates and error messages are used
type Language string

const (
	LanguageRU Language = "ru"
	LanguageEN Language = "en"

	// DefaultLanguage is applied when a request omits the language field
	DefaultLanguage = LanguageRU
)

// Sentiment is the overall classification returned by the model
type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
	SentimentMixed    Sentiment = "mixed"
)

// Request is a validated analysis request. Text length is measured in
// runes so Cyrillic input counts the same as Latin.
type Request struct {
	Text     string   `json:"text" validate:"required,min=10,max=2000"`
	Language Language `json:"language" validate:"required,oneof=ru en"`
}

// Entities groups the labels the model extracts from the text
type Entities struct {
	Emotions []string `json:"emotions"`
	Skills   []string `json:"skills"`
}

// Result is the validated model output for one request
type Result struct {
	Sentiment   Sentiment `json:"sentiment"`
	Entities    Entities  `json:"entities"`
	Distortions []string  `json:"distortions"`
	Confidence  float64   `json:"confidence_score"`
}

// RecordID identifier type
type RecordID string

// Record is the persisted form of a completed analysis.
// Ciphertext holds the encrypted original text as stored; Text is only
// populated on read, after the codec has decrypted it (or replaced it
// with the decryption-failed marker).
type Record struct {
	ID          RecordID  `json:"id"`
	UserID      int64     `json:"user_id"`
	Text        string    `json:"original_text"`
	Ciphertext  []byte    `json:"-"`
	Language    Language  `json:"language"`
	Sentiment   Sentiment `json:"sentiment"`
	Emotions    []string  `json:"emotions"`
	Skills      []string  `json:"skills"`
	Distortions []string  `json:"distortions"`
	Confidence  float64   `json:"confidence_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// DecryptionFailedMarker replaces Record.Text when a stored ciphertext
// cannot be decrypted. A corrupted row must not break listing the rest.
const DecryptionFailedMarker = "DECRYPTION_FAILED"
