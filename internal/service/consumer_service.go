package service

import (
	"context"
	"encoding/json"
	"log"

	"dream-insight-be/internal/dto"
	"dream-insight-be/internal/repository/contract"
	"dream-insight-be/pkg/embedding"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// consumerService drains the embedding queue: fetch the fragment, embed its
// content, write the vector back. Embedding failures Nack for retry; missing
// fragments Ack since they were deleted after queueing.
type consumerService struct {
	pubSub            *gochannel.GoChannel
	topicName         string
	fragments         contract.KnowledgeFragmentRepository
	embeddingProvider embedding.EmbeddingProvider
}

func NewConsumerService(
	pubSub *gochannel.GoChannel,
	topicName string,
	fragments contract.KnowledgeFragmentRepository,
	embeddingProvider embedding.EmbeddingProvider,
) IConsumerService {
	return &consumerService{
		pubSub:            pubSub,
		topicName:         topicName,
		fragments:         fragments,
		embeddingProvider: embeddingProvider,
	}
}

func (cs *consumerService) Consume(ctx context.Context) error {
	messages, err := cs.pubSub.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

func (cs *consumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.PublishEmbedFragmentMessage
	err := json.Unmarshal(msg.Payload, &payload)
	if err != nil {
		log.Printf("[ERROR] Failed to unmarshal embedding job: %v", err)
		msg.Ack() // Ack invalid messages to prevent infinite retry
		return
	}

	log.Printf("[INFO] Embedding fragment %s", payload.FragmentId)

	fragment, err := cs.fragments.FindById(ctx, payload.FragmentId)
	if err != nil {
		log.Printf("[ERROR] Failed to load fragment %s: %v", payload.FragmentId, err)
		msg.Nack()
		return
	}
	if fragment == nil {
		log.Printf("[WARN] Fragment %s gone before embedding, skipping", payload.FragmentId)
		msg.Ack()
		return
	}

	res, err := cs.embeddingProvider.Generate(fragment.Content, "RETRIEVAL_DOCUMENT")
	if err != nil {
		log.Printf("[ERROR] Failed to embed fragment %s: %v", payload.FragmentId, err)
		msg.Nack()
		return
	}

	if err := cs.fragments.UpdateEmbedding(ctx, payload.FragmentId, res.Embedding.Values); err != nil {
		log.Printf("[ERROR] Failed to store embedding for fragment %s: %v", payload.FragmentId, err)
		msg.Nack()
		return
	}

	log.Printf("[SUCCESS] Fragment %s embedded (%d dims)", payload.FragmentId, len(res.Embedding.Values))
	msg.Ack()
}
