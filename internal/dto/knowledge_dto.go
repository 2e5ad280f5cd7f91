package dto

import "dream-insight-be/pkg/knowledge"

type IngestFragmentRequest struct {
	SourceId string `json:"source_id" validate:"required"`
	Chapter  string `json:"chapter"`
	Content  string `json:"content" validate:"required,min=20"`
}

type IngestFragmentResponse struct {
	FragmentId     string                   `json:"fragment_id"`
	Classification knowledge.Classification `json:"classification"`
}

type ClassifyTextRequest struct {
	Text string `json:"text" validate:"required,min=1"`
}

// PublishEmbedFragmentMessage is the async embedding job payload carried over
// the in-process bus.
type PublishEmbedFragmentMessage struct {
	FragmentId string `json:"fragment_id"`
}
