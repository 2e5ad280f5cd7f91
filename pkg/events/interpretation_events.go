package events

import "time"

// Event type codes emitted by the interpretation pipeline.
const (
	TypeInterpretationCompleted = "INTERPRETATION_COMPLETED"
	TypeInterpretationFallback  = "INTERPRETATION_FALLBACK"
	TypeFragmentIngested        = "FRAGMENT_INGESTED"
)

// NewInterpretationCompleted signals that a dream interpretation finished and
// was persisted. Consumers use it for notification delivery.
func NewInterpretationCompleted(interpretationId, dreamId, userId, persona, topic, notifyEmail string) Event {
	return BaseEvent{
		Type: TypeInterpretationCompleted,
		Data: map[string]interface{}{
			"interpretation_id": interpretationId,
			"dream_id":          dreamId,
			"user_id":           userId,
			"persona":           persona,
			"topic":             topic,
			"notify_email":      notifyEmail,
		},
		OccurredAt: time.Now(),
	}
}

// NewInterpretationFallback signals the pipeline was exhausted and the canned
// response was substituted. Consumers use it for alerting.
func NewInterpretationFallback(dreamId, userId, persona, reason string) Event {
	return BaseEvent{
		Type: TypeInterpretationFallback,
		Data: map[string]interface{}{
			"dream_id": dreamId,
			"user_id":  userId,
			"persona":  persona,
			"reason":   reason,
		},
		OccurredAt: time.Now(),
	}
}

// NewFragmentIngested signals a corpus fragment was classified, embedded and
// stored by the ingestion tooling.
func NewFragmentIngested(fragmentId, sourceId, primaryType string) Event {
	return BaseEvent{
		Type: TypeFragmentIngested,
		Data: map[string]interface{}{
			"fragment_id":  fragmentId,
			"source_id":    sourceId,
			"primary_type": primaryType,
		},
		OccurredAt: time.Now(),
	}
}
