package contract

import (
	"context"

	"dream-insight-be/pkg/knowledge"
)

// ThemeRepository stores the theme taxonomy rows. Satisfies the retriever's
// ThemeStore dependency.
type ThemeRepository interface {
	Upsert(ctx context.Context, theme knowledge.Theme) error
	FindByCodes(ctx context.Context, codes []string) ([]knowledge.Theme, error)
	FindAll(ctx context.Context) ([]knowledge.Theme, error)
}
