package contract

import (
	"context"

	"dream-insight-be/internal/entity"

	"github.com/google/uuid"
)

type InterpretationRepository interface {
	Create(ctx context.Context, interpretation *entity.Interpretation) error
	FindById(ctx context.Context, id uuid.UUID) (*entity.Interpretation, error)
	FindByDreamId(ctx context.Context, dreamId uuid.UUID) ([]*entity.Interpretation, error)
	FindByDreamAndPersona(ctx context.Context, dreamId uuid.UUID, persona string) (*entity.Interpretation, error)
	FindByUserId(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*entity.Interpretation, error)
}
