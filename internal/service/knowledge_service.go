package service

import (
	"context"
	"encoding/json"

	"dream-insight-be/internal/dto"
	"dream-insight-be/internal/pkg/logger"
	"dream-insight-be/internal/repository/contract"
	"dream-insight-be/pkg/knowledge"
	"dream-insight-be/pkg/knowledge/classifier"
	"dream-insight-be/pkg/knowledge/themes"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

type IKnowledgeService interface {
	Classify(text string) knowledge.Classification
	Ingest(ctx context.Context, req *dto.IngestFragmentRequest) (*dto.IngestFragmentResponse, error)
}

type knowledgeService struct {
	classifier *classifier.Classifier
	mapper     *themes.Mapper
	fragments  contract.KnowledgeFragmentRepository
	pubSub     *gochannel.GoChannel
	embedTopic string
	logger     logger.ILogger
}

func NewKnowledgeService(
	cls *classifier.Classifier,
	mapper *themes.Mapper,
	fragments contract.KnowledgeFragmentRepository,
	pubSub *gochannel.GoChannel,
	embedTopic string,
	log logger.ILogger,
) IKnowledgeService {
	return &knowledgeService{
		classifier: cls,
		mapper:     mapper,
		fragments:  fragments,
		pubSub:     pubSub,
		embedTopic: embedTopic,
		logger:     log,
	}
}

// Classify tags a piece of text without storing anything. Exposed for
// offline tooling and ingestion previews.
func (s *knowledgeService) Classify(text string) knowledge.Classification {
	classification := s.classifier.Classify(text)
	classification.ThemeCodes = s.mapper.InferThemes(text)

	concepts, _ := s.mapper.MapThemesToConcepts(classification.ThemeCodes)
	for _, c := range concepts {
		classification.Concepts = append(classification.Concepts, c.Name)
	}
	return classification
}

// Ingest classifies and stores a fragment, then queues the embedding job on
// the in-process bus. The fragment is searchable by keyword immediately and
// by vector once the consumer finishes.
func (s *knowledgeService) Ingest(ctx context.Context, req *dto.IngestFragmentRequest) (*dto.IngestFragmentResponse, error) {
	classification := s.Classify(req.Content)

	fragment := knowledge.Fragment{
		Id:             uuid.New().String(),
		SourceId:       req.SourceId,
		Chapter:        req.Chapter,
		Content:        req.Content,
		Classification: classification,
	}

	if err := s.fragments.Create(ctx, &fragment); err != nil {
		s.logger.Error("KnowledgeService", "Failed to store fragment", map[string]interface{}{"error": err.Error()})
		return nil, err
	}

	s.queueEmbedding(fragment.Id)

	s.logger.Info("KnowledgeService", "Fragment ingested", map[string]interface{}{
		"fragment_id": fragment.Id,
		"source_id":   fragment.SourceId,
		"type":        classification.PrimaryType,
	})

	return &dto.IngestFragmentResponse{
		FragmentId:     fragment.Id,
		Classification: classification,
	}, nil
}

func (s *knowledgeService) queueEmbedding(fragmentId string) {
	if s.pubSub == nil {
		return
	}
	payload, err := json.Marshal(dto.PublishEmbedFragmentMessage{FragmentId: fragmentId})
	if err != nil {
		return
	}
	msg := message.NewMessage(watermill.NewUUID(), payload)
	if err := s.pubSub.Publish(s.embedTopic, msg); err != nil {
		s.logger.Warn("KnowledgeService", "Failed to queue embedding job", map[string]interface{}{
			"fragment_id": fragmentId, "error": err.Error(),
		})
	}
}
