package failures

import "time"

// Failure is a persisted record of a non-input pipeline failure, kept
// for diagnosing prompt drift. It stores the stage code and reply
// length, never raw user text or raw upstream bodies.
type Failure struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	Stage     string    `json:"stage"` // pipeline error code at the failing stage
	Detail    string    `json:"detail,omitempty"`
	ReplyLen  int       `json:"reply_len"`
	CreatedAt time.Time `json:"created_at"`
}
