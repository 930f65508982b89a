package app

import (
	"context"
	"errors"
	"strings"
	"time"

	"medilexica/internal/model"
	"medilexica/internal/pkg/logx"
)

var (
	ErrNotAuthenticated = errors.New("not authenticated")
	ErrMessagesEmpty    = errors.New("message list is empty")
	ErrBadMessageRole   = errors.New("message role must be user or assistant")
)

const (
	sessionListLimit = 50
	titleMaxRunes    = 30
	defaultTitle     = "New Chat"
)

type SessionRepository interface {
	Create(session *model.ChatSession) error
	GetByID(sessionID uint) (*model.ChatSession, error)
	ReplaceMessages(sessionID uint, messagesJSON string, updatedAt time.Time) error
	ListByUserID(userID uint, limit int) ([]model.ChatSession, error)
}

type SessionListCache interface {
	GetSessions(ctx context.Context, userID uint) ([]model.ChatSessionSummary, bool, error)
	SetSessions(ctx context.Context, userID uint, sessions []model.ChatSessionSummary) error
	Invalidate(ctx context.Context, userID uint) error
	MarkDirty(ctx context.Context, userID uint) error
	IsDirty(ctx context.Context, userID uint) (bool, error)
}

// SessionService owns the mapping from an in-progress conversation to a
// single persisted session record: at most one record per conversation, no
// matter how many turns are saved against it.
type SessionService struct {
	sessionRepo SessionRepository
	listCache   SessionListCache
}

func NewSessionService(sessionRepo SessionRepository, listCache SessionListCache) *SessionService {
	return &SessionService{
		sessionRepo: sessionRepo,
		listCache:   listCache,
	}
}

// Save persists the full turn list for one conversation and returns the id
// of the record it landed in.
//
// ownerID == 0 means no authenticated user: nothing is written and
// ErrNotAuthenticated is returned; callers treat this as a skip, not a
// failure. A sessionID that resolves to a record owned by ownerID is
// overwritten in place. A sessionID that is unknown, or that belongs to a
// different owner, falls through to creating a fresh record instead of
// failing, so a stale id never blocks the user.
func (s *SessionService) Save(ownerID uint, messages []model.ChatMessage, sessionID uint) (uint, error) {
	if ownerID == 0 {
		return 0, ErrNotAuthenticated
	}
	if len(messages) == 0 {
		return 0, ErrMessagesEmpty
	}
	for _, m := range messages {
		if m.Role != model.RoleUser && m.Role != model.RoleAssistant {
			return 0, ErrBadMessageRole
		}
	}

	payload := model.EncodeMessages(messages)
	now := time.Now()

	if sessionID != 0 {
		existing, err := s.sessionRepo.GetByID(sessionID)
		if err != nil {
			return 0, err
		}
		if existing != nil && existing.UserID == ownerID {
			if err := s.sessionRepo.ReplaceMessages(sessionID, payload, now); err != nil {
				return 0, err
			}
			s.invalidateList(ownerID)
			return sessionID, nil
		}
		// Unknown or foreign id: start a fresh record rather than failing.
		// Worth watching in logs; the user expected an update and silently
		// gets a new session instead.
		logx.Warnw("session id did not resolve for owner, creating new session",
			"session_id", sessionID,
			"owner_id", ownerID,
		)
	}

	session := &model.ChatSession{
		UserID:    ownerID,
		Title:     deriveTitle(messages),
		Messages:  payload,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sessionRepo.Create(session); err != nil {
		return 0, err
	}
	s.invalidateList(ownerID)
	return session.ID, nil
}

// List returns the owner's sessions, most recently updated first, capped at
// the listing page size. On a store failure the result is an empty slice
// plus the error so callers can render an empty history without a nil check.
func (s *SessionService) List(ownerID uint) ([]model.ChatSessionSummary, error) {
	if ownerID == 0 {
		return []model.ChatSessionSummary{}, ErrNotAuthenticated
	}

	ctx := context.Background()
	if s.listCache != nil {
		if dirty, err := s.listCache.IsDirty(ctx, ownerID); err == nil && !dirty {
			if cached, hit, cacheErr := s.listCache.GetSessions(ctx, ownerID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	sessions, err := s.sessionRepo.ListByUserID(ownerID, sessionListLimit)
	if err != nil {
		return []model.ChatSessionSummary{}, err
	}

	now := time.Now()
	summaries := make([]model.ChatSessionSummary, 0, len(sessions))
	for i := range sessions {
		summary := sessions[i].Summary()
		// Partially written records can come back with zero timestamps;
		// substitute now instead of failing the whole listing.
		if summary.CreatedAt.IsZero() {
			summary.CreatedAt = now
		}
		if summary.UpdatedAt.IsZero() {
			summary.UpdatedAt = now
		}
		summaries = append(summaries, summary)
	}

	if s.listCache != nil {
		if dirty, dirtyErr := s.listCache.IsDirty(ctx, ownerID); dirtyErr == nil && !dirty {
			_ = s.listCache.SetSessions(ctx, ownerID, summaries)
		}
	}
	return summaries, nil
}

func (s *SessionService) invalidateList(ownerID uint) {
	if s.listCache == nil {
		return
	}
	ctx := context.Background()
	_ = s.listCache.MarkDirty(ctx, ownerID)
	_ = s.listCache.Invalidate(ctx, ownerID)
}

// deriveTitle takes a short prefix of the first user turn; a conversation
// with no user turn gets the default title.
func deriveTitle(messages []model.ChatMessage) string {
	for _, m := range messages {
		if m.Role != model.RoleUser {
			continue
		}
		content := strings.TrimSpace(m.Content)
		if content == "" {
			continue
		}
		runes := []rune(content)
		if len(runes) > titleMaxRunes {
			return string(runes[:titleMaxRunes])
		}
		return content
	}
	return defaultTitle
}
