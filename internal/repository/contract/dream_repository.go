package contract

import (
	"context"

	"dream-insight-be/internal/entity"

	"github.com/google/uuid"
)

type DreamRepository interface {
	Create(ctx context.Context, dream *entity.Dream) error
	Update(ctx context.Context, dream *entity.Dream) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Dream, error)
	FindByUserId(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Dream, error)
}
