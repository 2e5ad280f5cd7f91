package bootstrap

import (
	"context"
	"log"
	"time"

	"dream-insight-be/internal/config"
	"dream-insight-be/internal/controller"
	"dream-insight-be/internal/handler"
	"dream-insight-be/internal/pkg/logger"
	"dream-insight-be/internal/pkg/mailer"
	"dream-insight-be/internal/repository/implementation"
	"dream-insight-be/internal/service"
	"dream-insight-be/internal/websocket"
	"dream-insight-be/pkg/embedding"
	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/interpret/persona"
	"dream-insight-be/pkg/interpret/qa"
	"dream-insight-be/pkg/interpret/style"
	"dream-insight-be/pkg/knowledge/classifier"
	"dream-insight-be/pkg/knowledge/retriever"
	"dream-insight-be/pkg/knowledge/themes"
	"dream-insight-be/pkg/llm/factory"

	pktNats "dream-insight-be/pkg/nats"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type Container struct {
	// Controllers
	DreamController          controller.IDreamController
	InterpretationController controller.IInterpretationController
	KnowledgeController      controller.IKnowledgeController

	// Background Services (Exposed for main.go to run)
	ConsumerService service.IConsumerService

	// WebSockets & Notification
	NotificationHandler *handler.NotificationHandler
	WebSocketHub        *websocket.Hub
}

func NewContainer(db *gorm.DB, cfg *config.Config) *Container {
	// 1. Core Facades
	sysLogger := logger.NewZapLogger(cfg.App.LogFilePath, cfg.App.Environment == "production")

	emailService := mailer.NewEmailService(
		cfg.SMTP.Host,
		cfg.SMTP.Port,
		cfg.SMTP.Email,
		cfg.SMTP.Password,
		cfg.SMTP.SenderName,
	)

	// 2. Event Bus
	watermillLogger := watermill.NewStdLogger(false, false)
	pubSub := gochannel.NewGoChannel(
		gochannel.Config{},
		watermillLogger,
	)

	// 3. AI Providers
	var embeddingProvider embedding.EmbeddingProvider
	if cfg.Ai.EmbeddingProvider == "ollama" {
		embeddingProvider = embedding.NewOllamaProvider(
			cfg.Ai.OllamaBaseURL,
			cfg.Ai.OllamaModel,
		)
		log.Printf("[INFO] Using Embedding Provider: OLLAMA (%s)", cfg.Ai.OllamaModel)
	} else {
		embeddingProvider = embedding.NewGeminiProvider(cfg.Keys.GoogleGemini)
		log.Printf("[INFO] Using Embedding Provider: GEMINI")
	}

	llmProvider, err := factory.NewLLMProvider(
		cfg.Ai.LLMProvider,
		cfg.Ai.LLMModel,
		cfg.Ai.OllamaBaseURL,
		cfg.Keys.GoogleGemini,
		cfg.Keys.HuggingFace,
	)
	if err != nil {
		log.Fatalf("[FATAL] Failed to initialize LLM Provider: %v", err)
	}
	log.Printf("[INFO] Using LLM Provider: %s (%s)", cfg.Ai.LLMProvider, cfg.Ai.LLMModel)

	// 3.5 Infrastructure
	// NATS
	natsPub, err := pktNats.NewPublisher(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Publisher: %v", err)
	}
	natsSub, err := pktNats.NewSubscriber(cfg.App.NatsURL)
	if err != nil {
		log.Printf("[WARN] Failed to connect to NATS Subscriber: %v", err)
	}

	// Redis
	opt, err := redis.ParseURL(cfg.App.RedisURL)
	if err != nil {
		log.Printf("[WARN] Failed to parse Redis URL: %v. Using direct Addr", err)
		opt = &redis.Options{
			Addr: cfg.App.RedisURL,
		}
	}
	rdb := redis.NewClient(opt)
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Printf("[WARN] Failed to connect to Redis: %v", err)
	}

	// WebSocket Hub
	wsLogger := logger.NewIsolatedLogger("logs/notification.log")
	wsHub := websocket.NewHub(rdb, wsLogger)
	go wsHub.Run()

	// 4. Repositories
	dreamRepo := implementation.NewDreamRepository(db)
	interpretationRepo := implementation.NewInterpretationRepository(db)
	fragmentRepo := implementation.NewKnowledgeFragmentRepository(db)
	themeRepo := implementation.NewThemeRepository(db)

	// 5. Pipeline Components
	themeMapper := themes.NewMapper()
	textClassifier := classifier.New(nil)
	fragmentRetriever := retriever.New(fragmentRepo, themeRepo, embeddingProvider, log.Default())

	chain := interpret.NewChain(llmProvider, append([]string{cfg.Ai.LLMModel}, cfg.Ai.FallbackModels...))
	registry := persona.BuildRegistry(chain, log.Default())
	styleTracker := style.NewTracker(0)
	orchestrator := interpret.NewOrchestrator(registry, fragmentRetriever, themeMapper, styleTracker, log.Default())
	scorer := qa.NewScorer()

	// 6. Services
	consumerService := service.NewConsumerService(
		pubSub,
		cfg.Pipeline.EmbedTopic,
		fragmentRepo,
		embeddingProvider,
	)

	dreamService := service.NewDreamService(dreamRepo, themeMapper, sysLogger)
	interpretationService := service.NewInterpretationService(
		orchestrator,
		scorer,
		dreamRepo,
		interpretationRepo,
		rdb,
		natsPub,
		time.Duration(cfg.Pipeline.CacheTTLMin)*time.Minute,
		interpret.Options{
			DebateEnabled: cfg.Pipeline.DebateEnabled,
			TopK:          cfg.Retrieval.TopK,
			Threshold:     cfg.Retrieval.Threshold,
		},
		sysLogger,
	)
	knowledgeService := service.NewKnowledgeService(
		textClassifier,
		themeMapper,
		fragmentRepo,
		pubSub,
		cfg.Pipeline.EmbedTopic,
		sysLogger,
	)

	// 7. Notification Bridge
	notifHandler := handler.NewNotificationHandler(natsSub, wsHub, emailService, wsLogger)
	if err := notifHandler.StartEventBridge(); err != nil {
		log.Printf("[WARN] Failed to start notification event bridge: %v", err)
	}

	return &Container{
		NotificationHandler: notifHandler,
		WebSocketHub:        wsHub,

		DreamController:          controller.NewDreamController(dreamService),
		InterpretationController: controller.NewInterpretationController(interpretationService),
		KnowledgeController:      controller.NewKnowledgeController(knowledgeService),

		ConsumerService: consumerService,
	}
}
