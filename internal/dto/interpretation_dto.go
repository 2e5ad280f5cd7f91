package dto

import (
	"time"

	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/interpret/qa"

	"github.com/google/uuid"
)

type UserContextInput struct {
	Age            int    `json:"age" validate:"omitempty,gte=0,lte=130"`
	LifeSituation  string `json:"life_situation"`
	EmotionalState string `json:"emotional_state"`
}

type InterpretDreamRequest struct {
	DreamId     uuid.UUID         `json:"dream_id" validate:"required"`
	Persona     string            `json:"persona" validate:"required"`
	UserContext *UserContextInput `json:"user_context"`
	Debate      bool              `json:"debate"`
	NotifyEmail string            `json:"notify_email" validate:"omitempty,email"`
}

type InterpretationResponse struct {
	Id        uuid.UUID           `json:"id"`
	DreamId   uuid.UUID           `json:"dream_id"`
	Persona   string              `json:"persona"`
	Result    interpret.Canonical `json:"result"`
	Quality   *qa.Report          `json:"quality,omitempty"`
	Cached    bool                `json:"cached"`
	CreatedAt time.Time           `json:"created_at"`
}

type PersonaResponse struct {
	Key         string   `json:"key"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Strengths   []string `json:"strengths"`
	Limits      []string `json:"limits"`
}
