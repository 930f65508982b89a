package model

import (
	"encoding/json"
	"time"
)

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// ChatMessage is one turn of a conversation as stored inside a session
// document. Only user and assistant turns are ever persisted.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatSession is one persisted conversation. Messages holds the full turn
// list as a JSON array; every save replaces it wholesale, so the record
// behaves like a single document rather than a set of per-message rows.
type ChatSession struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"not null;index" json:"user_id"`
	Title     string    `gorm:"size:128;not null" json:"title"`
	Messages  string    `gorm:"type:text;not null" json:"-"` // JSON array of ChatMessage
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// MessageList returns the parsed message turns; empty on parse error.
func (s *ChatSession) MessageList() []ChatMessage {
	if s.Messages == "" {
		return nil
	}
	var msgs []ChatMessage
	_ = json.Unmarshal([]byte(s.Messages), &msgs)
	return msgs
}

// SetMessages stores the turn list as JSON.
func (s *ChatSession) SetMessages(msgs []ChatMessage) {
	if len(msgs) == 0 {
		s.Messages = "[]"
		return
	}
	b, _ := json.Marshal(msgs)
	s.Messages = string(b)
}

// EncodeMessages renders a turn list the way ChatSession stores it.
func EncodeMessages(msgs []ChatMessage) string {
	if len(msgs) == 0 {
		return "[]"
	}
	b, _ := json.Marshal(msgs)
	return string(b)
}

// ChatSessionSummary is the listing shape handed to callers: the session
// metadata plus the full decoded turn list, so no detail fetch is needed.
type ChatSessionSummary struct {
	ID        uint          `json:"id"`
	Title     string        `json:"title"`
	CreatedAt time.Time     `json:"created_at"`
	UpdatedAt time.Time     `json:"updated_at"`
	Messages  []ChatMessage `json:"messages"`
}

func (s *ChatSession) Summary() ChatSessionSummary {
	msgs := s.MessageList()
	if msgs == nil {
		msgs = []ChatMessage{}
	}
	return ChatSessionSummary{
		ID:        s.ID,
		Title:     s.Title,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
		Messages:  msgs,
	}
}
