package repository

import (
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"medilexica/internal/model"
)

type SessionRepository struct {
	db *gorm.DB
}

func NewSessionRepository(db *gorm.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(session *model.ChatSession) error {
	if err := r.db.Create(session).Error; err != nil {
		return fmt.Errorf("create chat session failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) GetByID(sessionID uint) (*model.ChatSession, error) {
	var session model.ChatSession
	if err := r.db.First(&session, sessionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("get chat session failed: %w", err)
	}
	return &session, nil
}

// ReplaceMessages overwrites the stored turn list and refreshes updated_at.
func (r *SessionRepository) ReplaceMessages(sessionID uint, messagesJSON string, updatedAt time.Time) error {
	err := r.db.Model(&model.ChatSession{}).
		Where("id = ?", sessionID).
		Updates(map[string]interface{}{
			"messages":   messagesJSON,
			"updated_at": updatedAt,
		}).Error
	if err != nil {
		return fmt.Errorf("replace session messages failed: %w", err)
	}
	return nil
}

func (r *SessionRepository) ListByUserID(userID uint, limit int) ([]model.ChatSession, error) {
	var sessions []model.ChatSession
	err := r.db.Where("user_id = ?", userID).
		Order("updated_at DESC").
		Limit(limit).
		Find(&sessions).Error
	if err != nil {
		return nil, fmt.Errorf("list chat sessions failed: %w", err)
	}
	return sessions, nil
}
