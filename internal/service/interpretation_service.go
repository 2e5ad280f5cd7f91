package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"dream-insight-be/internal/dto"
	"dream-insight-be/internal/entity"
	"dream-insight-be/internal/pkg/logger"
	"dream-insight-be/internal/repository/contract"
	"dream-insight-be/pkg/events"
	"dream-insight-be/pkg/interpret"
	"dream-insight-be/pkg/interpret/qa"
	pkgnats "dream-insight-be/pkg/nats"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type IInterpretationService interface {
	Interpret(ctx context.Context, userId uuid.UUID, req *dto.InterpretDreamRequest) (*dto.InterpretationResponse, error)
	Show(ctx context.Context, userId, id uuid.UUID) (*dto.InterpretationResponse, error)
	ListByDream(ctx context.Context, userId, dreamId uuid.UUID) ([]*dto.InterpretationResponse, error)
	ListPersonas() []dto.PersonaResponse
}

type interpretationService struct {
	orchestrator    *interpret.Orchestrator
	scorer          *qa.Scorer
	dreams          contract.DreamRepository
	interpretations contract.InterpretationRepository
	rdb             *redis.Client
	publisher       *pkgnats.Publisher
	cacheTTL        time.Duration
	defaultOpts     interpret.Options
	logger          logger.ILogger
}

func NewInterpretationService(
	orchestrator *interpret.Orchestrator,
	scorer *qa.Scorer,
	dreams contract.DreamRepository,
	interpretations contract.InterpretationRepository,
	rdb *redis.Client,
	publisher *pkgnats.Publisher,
	cacheTTL time.Duration,
	defaultOpts interpret.Options,
	log logger.ILogger,
) IInterpretationService {
	return &interpretationService{
		orchestrator:    orchestrator,
		scorer:          scorer,
		dreams:          dreams,
		interpretations: interpretations,
		rdb:             rdb,
		publisher:       publisher,
		cacheTTL:        cacheTTL,
		defaultOpts:     defaultOpts,
		logger:          log,
	}
}

func cacheKey(dreamId uuid.UUID, persona string) string {
	return fmt.Sprintf("interpretation:%s:%s", dreamId, persona)
}

// Interpret runs the full pipeline for one dream and persona. Repeated calls
// for the same pair are served from the Redis result cache.
func (s *interpretationService) Interpret(ctx context.Context, userId uuid.UUID, req *dto.InterpretDreamRequest) (*dto.InterpretationResponse, error) {
	dream, err := s.dreams.FindById(ctx, req.DreamId)
	if err != nil {
		return nil, err
	}
	if dream == nil || dream.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Dream not found")
	}

	if cached := s.fromCache(ctx, req.DreamId, req.Persona); cached != nil {
		s.logger.Info("InterpretationService", "Cache hit", map[string]interface{}{
			"dream_id": req.DreamId, "persona": req.Persona,
		})
		cached.Cached = true
		return cached, nil
	}

	pipelineReq := interpret.Request{
		DreamId:   dream.Id.String(),
		UserId:    userId.String(),
		DreamText: dream.Transcription,
		Persona:   req.Persona,
	}
	for _, t := range dream.Themes {
		pipelineReq.Themes = append(pipelineReq.Themes, interpret.ThemeRef{Code: t.Code, Name: t.Name, Score: t.Score})
	}
	if req.UserContext != nil {
		pipelineReq.UserContext = &interpret.UserContext{
			Age:            req.UserContext.Age,
			LifeSituation:  req.UserContext.LifeSituation,
			EmotionalState: req.UserContext.EmotionalState,
		}
	}

	opts := s.defaultOpts
	opts.DebateEnabled = req.Debate || s.defaultOpts.DebateEnabled
	result, err := s.orchestrator.Interpret(ctx, pipelineReq, opts)
	if err != nil {
		// Unknown persona is the only orchestration-entry error
		return nil, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	report := s.scorer.Score(result.Canonical)
	if !report.Passed {
		s.logger.Warn("InterpretationService", "Quality report below threshold", map[string]interface{}{
			"dream_id": req.DreamId, "persona": req.Persona,
			"score": report.Score, "failures": len(report.Failures),
		})
	}

	stored := &entity.Interpretation{
		Id:        uuid.New(),
		DreamId:   dream.Id,
		UserId:    userId,
		Persona:   req.Persona,
		Topic:     result.Canonical.Topic,
		QuickTake: result.Canonical.QuickTake,
		Fallback:  result.Canonical.GenerationMetadata.Fallback,
		Result:    result.Canonical,
		CreatedAt: time.Now(),
	}
	if err := s.interpretations.Create(ctx, stored); err != nil {
		s.logger.Error("InterpretationService", "Failed to persist interpretation", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.publishOutcome(ctx, stored, req.NotifyEmail)

	response := &dto.InterpretationResponse{
		Id:        stored.Id,
		DreamId:   stored.DreamId,
		Persona:   stored.Persona,
		Result:    stored.Result,
		Quality:   &report,
		CreatedAt: stored.CreatedAt,
	}
	s.toCache(ctx, req.DreamId, req.Persona, response)
	return response, nil
}

func (s *interpretationService) publishOutcome(ctx context.Context, stored *entity.Interpretation, notifyEmail string) {
	if s.publisher == nil {
		return
	}
	var evt events.Event
	if stored.Fallback {
		reason := ""
		if v, ok := stored.Result.AdditionalInfo["fallback_reason"].(string); ok {
			reason = v
		}
		evt = events.NewInterpretationFallback(stored.DreamId.String(), stored.UserId.String(), stored.Persona, reason)
	} else {
		evt = events.NewInterpretationCompleted(stored.Id.String(), stored.DreamId.String(), stored.UserId.String(), stored.Persona, stored.Topic, notifyEmail)
	}
	if err := s.publisher.Publish(ctx, evt); err != nil {
		s.logger.Warn("InterpretationService", "Failed to publish event", map[string]interface{}{
			"event": evt.EventType(), "error": err.Error(),
		})
	}
}

func (s *interpretationService) fromCache(ctx context.Context, dreamId uuid.UUID, persona string) *dto.InterpretationResponse {
	if s.rdb == nil {
		return nil
	}
	raw, err := s.rdb.Get(ctx, cacheKey(dreamId, persona)).Bytes()
	if err != nil {
		return nil
	}
	var response dto.InterpretationResponse
	if err := json.Unmarshal(raw, &response); err != nil {
		return nil
	}
	return &response
}

func (s *interpretationService) toCache(ctx context.Context, dreamId uuid.UUID, persona string, response *dto.InterpretationResponse) {
	if s.rdb == nil {
		return
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, cacheKey(dreamId, persona), raw, s.cacheTTL).Err(); err != nil {
		s.logger.Warn("InterpretationService", "Cache write failed", map[string]interface{}{"error": err.Error()})
	}
}

func (s *interpretationService) Show(ctx context.Context, userId, id uuid.UUID) (*dto.InterpretationResponse, error) {
	stored, err := s.interpretations.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if stored == nil || stored.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Interpretation not found")
	}
	return &dto.InterpretationResponse{
		Id:        stored.Id,
		DreamId:   stored.DreamId,
		Persona:   stored.Persona,
		Result:    stored.Result,
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (s *interpretationService) ListByDream(ctx context.Context, userId, dreamId uuid.UUID) ([]*dto.InterpretationResponse, error) {
	dream, err := s.dreams.FindById(ctx, dreamId)
	if err != nil {
		return nil, err
	}
	if dream == nil || dream.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Dream not found")
	}

	stored, err := s.interpretations.FindByDreamId(ctx, dreamId)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.InterpretationResponse, len(stored))
	for i, item := range stored {
		out[i] = &dto.InterpretationResponse{
			Id:        item.Id,
			DreamId:   item.DreamId,
			Persona:   item.Persona,
			Result:    item.Result,
			CreatedAt: item.CreatedAt,
		}
	}
	return out, nil
}

func (s *interpretationService) ListPersonas() []dto.PersonaResponse {
	keys := s.orchestrator.KnownPersonas()
	out := make([]dto.PersonaResponse, 0, len(keys))
	for _, key := range keys {
		it, ok := s.orchestrator.Interpreter(key)
		if !ok {
			continue
		}
		meta := it.Meta()
		out = append(out, dto.PersonaResponse{
			Key:         key,
			Name:        meta.Name,
			Description: meta.Description,
			Strengths:   meta.Strengths,
			Limits:      meta.Limits,
		})
	}
	return out
}
