package main

import (
	"context"
	"log"
	"os"

	"dream-insight-be/internal/config"
	"dream-insight-be/internal/repository/implementation"
	"dream-insight-be/pkg/database"
	"dream-insight-be/pkg/embedding"
	"dream-insight-be/pkg/knowledge"
	"dream-insight-be/pkg/knowledge/classifier"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
)

// Seeds the theme taxonomy and a starter corpus of knowledge fragments.
// Embeddings are generated inline when an embedding provider is reachable;
// otherwise rows are stored unembedded and picked up later by the consumer.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Info: No .env file found, using system env")
	}
	cfg := config.Load()

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		color.Red("Error: DB_CONNECTION_STRING is not set")
		os.Exit(1)
	}

	db, err := database.NewGormDBFromDSN(dsn)
	if err != nil {
		color.Red("Error: Failed to connect to database: %v", err)
		os.Exit(1)
	}

	var embedder embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embedder = embedding.NewOllamaProvider(cfg.Ai.OllamaBaseURL, cfg.Ai.OllamaModel)
	} else {
		embedder = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
	}

	ctx := context.Background()
	themeRepo := implementation.NewThemeRepository(db)
	fragmentRepo := implementation.NewKnowledgeFragmentRepository(db)

	color.Cyan("🌱 Seeding Dream Theme Taxonomy\n")

	themes := []knowledge.Theme{
		{Code: "falling", Label: "Falling", Description: "Loss of control, fear of failure, letting go"},
		{Code: "flying", Label: "Flying", Description: "Freedom, transcendence, escape from constraint"},
		{Code: "water", Label: "Water", Description: "Emotions, the unconscious, cleansing and renewal"},
		{Code: "forest", Label: "Forest", Description: "The unknown, the unconscious wilderness, being lost"},
		{Code: "owl", Label: "Owl", Description: "Hidden wisdom, seeing in darkness, quiet observation"},
		{Code: "snake", Label: "Snake", Description: "Transformation, hidden threat, healing energy"},
		{Code: "death", Label: "Death", Description: "Endings, transformation, fear of loss"},
		{Code: "teeth", Label: "Teeth", Description: "Anxiety about appearance, power, communication"},
		{Code: "chase", Label: "Being Chased", Description: "Avoidance, unresolved pressure, fleeing a feeling"},
		{Code: "house", Label: "House", Description: "The self, the psyche's rooms, inner structure"},
		{Code: "wisdom", Label: "Wisdom", Description: "Guidance, inner knowing, encounters with mentors"},
		{Code: "shadow_figure", Label: "Shadow Figure", Description: "Disowned traits, the repressed, the unfamiliar self"},
		{Code: "birth", Label: "Birth", Description: "New beginnings, creative emergence, vulnerability"},
		{Code: "journey", Label: "Journey", Description: "Life path, transition, searching for direction"},
		{Code: "exam", Label: "Exam", Description: "Being judged, preparedness anxiety, self-evaluation"},
	}

	for _, t := range themes {
		if res, err := embedder.Generate(t.Label+". "+t.Description, "RETRIEVAL_DOCUMENT"); err == nil {
			t.Embedding = res.Embedding.Values
		} else {
			color.Yellow("Warn: theme %s stored without embedding: %v", t.Code, err)
		}
		if err := themeRepo.Upsert(ctx, t); err != nil {
			color.Red("Failed to upsert theme %s: %v", t.Code, err)
			continue
		}
		color.Green("Upserted theme: %s", t.Code)
	}

	color.Cyan("\n🌱 Seeding Starter Knowledge Fragments\n")

	cls := classifier.New(nil)
	starter := []struct {
		sourceId string
		chapter  string
		content  string
	}{
		{
			sourceId: "jung-man-and-his-symbols",
			chapter:  "Approaching the Unconscious",
			content:  "The symbol of the forest in dreams frequently points to the unexplored regions of the psyche. To enter the forest is to leave the lit clearing of consciousness; what the dreamer meets among the trees, whether guide or beast, is material the waking mind has not yet integrated.",
		},
		{
			sourceId: "jung-man-and-his-symbols",
			chapter:  "Archetypes in Dream Symbolism",
			content:  "The owl appears across mythologies as the companion of wisdom figures. In a dream it often signals that knowledge is available to the dreamer which cannot be reached by daylight reasoning; the owl sees precisely where the dreamer cannot.",
		},
		{
			sourceId: "freud-interpretation-of-dreams",
			chapter:  "The Dream-Work",
			content:  "Falling dreams commonly condense an anxiety about the loss of a position, whether social, professional or moral. The sensation revives the infantile experience of being dropped, and the affect attached to that memory is transferred onto a present worry. For example, a patient who dreamed nightly of falling from a staircase was found to be dreading a demotion he had told no one about.",
		},
		{
			sourceId: "hobson-dreaming-as-delirium",
			chapter:  "REM Physiology",
			content:  "During REM sleep the brain replays and recombines recent memory traces while prefrontal monitoring is suppressed. The felt strangeness of dream narrative reflects this neurochemical state rather than any encoded message; emotional memories are preferentially reactivated, which is why threat and pursuit scenarios recur.",
		},
		{
			sourceId: "contemplative-dream-practice",
			chapter:  "Discernment Exercises",
			content:  "Practice: on waking, sit quietly with the strongest image from the night and ask what it invites rather than what it means. Hold the image for three breaths. Write one sentence beginning with the words 'I am being asked to'. Repeat for seven mornings before drawing any conclusion.",
		},
	}

	for _, s := range starter {
		classification := cls.Classify(s.content)
		fragment := knowledge.Fragment{
			Id:             uuid.NewString(),
			SourceId:       s.sourceId,
			Chapter:        s.chapter,
			Content:        s.content,
			Classification: classification,
		}
		if res, err := embedder.Generate(s.content, "RETRIEVAL_DOCUMENT"); err == nil {
			fragment.Embedding = res.Embedding.Values
		} else {
			color.Yellow("Warn: fragment from %s stored without embedding: %v", s.sourceId, err)
		}
		if err := fragmentRepo.Create(ctx, &fragment); err != nil {
			color.Red("Failed to create fragment from %s: %v", s.sourceId, err)
			continue
		}
		color.Green("Created fragment: %s (%s, confidence %.2f)", s.sourceId, classification.PrimaryType, classification.Confidence)
	}

	color.Cyan("\n✅ Seeding completed")
}
