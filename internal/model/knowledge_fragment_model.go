package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/pgvector/pgvector-go"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type KnowledgeFragment struct {
	Id             uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	SourceId       string    `gorm:"type:varchar(128);index"`
	Chapter        string    `gorm:"type:varchar(256)"`
	Content        string    `gorm:"type:text;not null"`
	PrimaryType    string    `gorm:"type:varchar(32);not null;index"`
	Confidence     float64
	Classification datatypes.JSON  // secondary types, topics, keywords, flags, theme codes, concepts
	EmbeddingValue pgvector.Vector `gorm:"type:vector(768)"` // Gemini text-embedding-004 uses 768 dimensions
	CreatedAt      time.Time       `gorm:"autoCreateTime"`
	UpdatedAt      time.Time       `gorm:"autoUpdateTime"`
	DeletedAt      gorm.DeletedAt  `gorm:"index"`
}

func (KnowledgeFragment) TableName() string {
	return "knowledge_fragments"
}
