package model

// SessionSnapshot is the queue payload for a conversation whose synchronous
// save failed: the full turn list plus the reconciliation inputs, enough to
// replay the save later.
type SessionSnapshot struct {
	UserID    uint          `json:"user_id"`
	SessionID uint          `json:"session_id"` // 0 when the conversation had no record yet
	Messages  []ChatMessage `json:"messages"`
}
