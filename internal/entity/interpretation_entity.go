package entity

import (
	"time"

	"github.com/google/uuid"

	"dream-insight-be/pkg/interpret"
)

// Interpretation is one persisted canonical interpretation of a dream.
// Result holds the full canonical payload; the scalar columns exist for
// listing and filtering without unmarshalling.
type Interpretation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey"`
	DreamId   uuid.UUID `gorm:"type:uuid;index"`
	UserId    uuid.UUID `gorm:"type:uuid;index"`
	Persona   string
	Topic     string
	QuickTake string
	Fallback  bool
	Result    interpret.Canonical
	CreatedAt time.Time
	UpdatedAt *time.Time
	DeletedAt *time.Time
	IsDeleted bool
}
