package integration

import (
	"context"
	"log"
	"os"
	"testing"

	"dream-insight-be/internal/entity"
	"dream-insight-be/internal/repository/implementation"
	"dream-insight-be/pkg/database"
	"dream-insight-be/pkg/knowledge"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGormConnection(t *testing.T) {
	// Load .env from root
	err := godotenv.Load("../../.env")
	if err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		t.Fatalf("Failed to connect to DB: %v", err)
	}

	sqlDB, _ := gormDB.DB()
	assert.NoError(t, sqlDB.Ping())

	dreamRepo := implementation.NewDreamRepository(gormDB)
	interpretationRepo := implementation.NewInterpretationRepository(gormDB)
	fragmentRepo := implementation.NewKnowledgeFragmentRepository(gormDB)
	themeRepo := implementation.NewThemeRepository(gormDB)

	ctx := context.Background()

	t.Run("Check Fragment Repository", func(t *testing.T) {
		count, err := fragmentRepo.Count(ctx)
		assert.NoError(t, err)
		t.Logf("Knowledge fragment count: %d", count)
	})

	t.Run("Check Theme Upsert Roundtrip", func(t *testing.T) {
		code := "integration-" + uuid.New().String()
		err := themeRepo.Upsert(ctx, knowledge.Theme{
			Code:        code,
			Label:       "Integration Theme",
			Description: "temporary row for the roundtrip check",
		})
		require.NoError(t, err)

		found, err := themeRepo.FindByCodes(ctx, []string{code})
		require.NoError(t, err)
		require.Len(t, found, 1)
		assert.Equal(t, "Integration Theme", found[0].Label)
	})

	t.Run("Check Dream And Interpretation Write Path", func(t *testing.T) {
		dream := &entity.Dream{
			Id:            uuid.New(),
			UserId:        uuid.New(),
			Transcription: "Integration test dream about an owl at the forest edge.",
			Themes: []entity.ThemeDetection{
				{Code: "owl", Name: "owl", Score: 0.9},
			},
		}
		require.NoError(t, dreamRepo.Create(ctx, dream))
		defer dreamRepo.Delete(ctx, dream.Id)

		got, err := dreamRepo.FindById(ctx, dream.Id)
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, dream.Transcription, got.Transcription)

		results, err := interpretationRepo.FindByDreamId(ctx, dream.Id)
		assert.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("Check Vector Search Access", func(t *testing.T) {
		// A zero-ish query vector still exercises the pgvector operator path
		vector := make([]float32, 768)
		vector[0] = 1

		_, err := fragmentRepo.SearchSimilarWithScore(ctx, vector, 3, 0.99)
		assert.NoError(t, err)
	})
}
