package service

import (
	"context"
	"time"

	"dream-insight-be/internal/dto"
	"dream-insight-be/internal/entity"
	"dream-insight-be/internal/pkg/logger"
	"dream-insight-be/internal/repository/contract"
	"dream-insight-be/pkg/knowledge/themes"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDreamService interface {
	Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitDreamRequest) (*dto.DreamResponse, error)
	Show(ctx context.Context, userId, id uuid.UUID) (*dto.DreamResponse, error)
	List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.DreamResponse, error)
}

type dreamService struct {
	dreams contract.DreamRepository
	mapper *themes.Mapper
	logger logger.ILogger
}

func NewDreamService(dreams contract.DreamRepository, mapper *themes.Mapper, log logger.ILogger) IDreamService {
	return &dreamService{
		dreams: dreams,
		mapper: mapper,
		logger: log,
	}
}

// Submit stores a dream transcription. Themes the client did not supply are
// inferred from the transcription against the theme taxonomy.
func (s *dreamService) Submit(ctx context.Context, userId uuid.UUID, req *dto.SubmitDreamRequest) (*dto.DreamResponse, error) {
	detections := make([]entity.ThemeDetection, 0, len(req.Themes))
	seen := make(map[string]bool)
	for _, t := range req.Themes {
		detections = append(detections, entity.ThemeDetection{Code: t.Code, Name: t.Name, Score: t.Score})
		seen[t.Code] = true
	}

	for _, code := range s.mapper.InferThemes(req.Transcription) {
		if seen[code] {
			continue
		}
		detections = append(detections, entity.ThemeDetection{Code: code, Name: code, Score: 0.5})
		seen[code] = true
	}

	dream := &entity.Dream{
		Id:            uuid.New(),
		UserId:        userId,
		Transcription: req.Transcription,
		Themes:        detections,
		CreatedAt:     time.Now(),
	}

	if err := s.dreams.Create(ctx, dream); err != nil {
		s.logger.Error("DreamService", "Failed to store dream", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.logger.Info("DreamService", "Dream submitted", map[string]interface{}{
		"dream_id": dream.Id, "themes": len(dream.Themes),
	})
	return toDreamResponse(dream), nil
}

func (s *dreamService) Show(ctx context.Context, userId, id uuid.UUID) (*dto.DreamResponse, error) {
	dream, err := s.dreams.FindById(ctx, id)
	if err != nil {
		return nil, err
	}
	if dream == nil || dream.UserId != userId {
		return nil, fiber.NewError(fiber.StatusNotFound, "Dream not found")
	}
	return toDreamResponse(dream), nil
}

func (s *dreamService) List(ctx context.Context, userId uuid.UUID, limit, offset int) ([]*dto.DreamResponse, error) {
	dreams, err := s.dreams.FindByUserId(ctx, userId, limit, offset)
	if err != nil {
		return nil, err
	}
	out := make([]*dto.DreamResponse, len(dreams))
	for i, d := range dreams {
		out[i] = toDreamResponse(d)
	}
	return out, nil
}

func toDreamResponse(d *entity.Dream) *dto.DreamResponse {
	themes := make([]dto.ThemeInput, len(d.Themes))
	for i, t := range d.Themes {
		themes[i] = dto.ThemeInput{Code: t.Code, Name: t.Name, Score: t.Score}
	}
	return &dto.DreamResponse{
		Id:            d.Id,
		Transcription: d.Transcription,
		Themes:        themes,
		CreatedAt:     d.CreatedAt,
	}
}
