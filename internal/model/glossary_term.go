package model

import "time"

// GlossaryTerm is one entry of the medical glossary shown in the side panel.
type GlossaryTerm struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	Slug       string    `gorm:"size:64;not null;uniqueIndex" json:"slug"`
	Term       string    `gorm:"size:128;not null" json:"term"`
	Definition string    `gorm:"type:text;not null" json:"definition"`
	ImageURL   string    `gorm:"size:512" json:"image_url,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}
