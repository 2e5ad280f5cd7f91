package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Interpretation struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	DreamId   uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index"`
	Persona   string    `gorm:"type:varchar(32);not null;index"`
	Topic     string    `gorm:"type:text"`
	QuickTake string    `gorm:"type:text"`
	Fallback  bool      `gorm:"default:false"`
	Result    datatypes.JSON
	CreatedAt time.Time      `gorm:"autoCreateTime"`
	UpdatedAt time.Time      `gorm:"autoUpdateTime"`
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (Interpretation) TableName() string {
	return "interpretations"
}
