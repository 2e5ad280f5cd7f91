package dto

import (
	"time"

	"github.com/google/uuid"
)

type ThemeInput struct {
	Code  string  `json:"code" validate:"required"`
	Name  string  `json:"name"`
	Score float64 `json:"score"`
}

type SubmitDreamRequest struct {
	Transcription string       `json:"transcription" validate:"required,min=10"`
	Themes        []ThemeInput `json:"themes" validate:"dive"`
}

type DreamResponse struct {
	Id            uuid.UUID    `json:"id"`
	Transcription string       `json:"transcription"`
	Themes        []ThemeInput `json:"themes"`
	CreatedAt     time.Time    `json:"created_at"`
}
