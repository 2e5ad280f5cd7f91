package entity

import (
	"time"

	"github.com/google/uuid"
)

// ThemeDetection is one detected theme on a dream, ordered by score.
type ThemeDetection struct {
	Code  string  `json:"code"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type Dream struct {
	Id            uuid.UUID `gorm:"type:uuid;primaryKey"`
	UserId        uuid.UUID `gorm:"type:uuid;index"`
	Transcription string
	Themes        []ThemeDetection
	CreatedAt     time.Time
	UpdatedAt     *time.Time
	DeletedAt     *time.Time
	IsDeleted     bool
}
