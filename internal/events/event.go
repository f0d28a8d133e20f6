// Package events publishes domain events (analysis completed, data exported,
// data deleted) to an external broker. Nothing in this service consumes them.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"resume-analyzer/internal/shared/telemetry"
)

const (
	TypeAnalysisCompleted = "analysis.completed"
	TypeDataExported      = "privacy.exported"
	TypeDataDeleted       = "privacy.deleted"
)

// Event is the payload sent to downstream consumers.
type Event struct {
	ID         string         `json:"id"`
	Type       string         `json:"type"`
	UserID     string         `json:"userId"`
	SubjectID  string         `json:"subjectId,omitempty"`
	RequestID  string         `json:"requestId,omitempty"`
	OccurredAt string         `json:"occurredAt"`
	Version    int            `json:"version"`
	Data       map[string]any `json:"data,omitempty"`
}

// New stamps an event with an id and the current time.
func New(eventType, userID, subjectID string, data map[string]any) Event {
	return Event{
		ID:         uuid.NewString(),
		Type:       eventType,
		UserID:     userID,
		SubjectID:  subjectID,
		OccurredAt: time.Now().UTC().Format(time.RFC3339Nano),
		Version:    1,
		Data:       data,
	}
}

// Encode returns the JSON representation of an event.
func Encode(evt Event) ([]byte, error) {
	return json.Marshal(evt)
}

// Decode parses a JSON payload into an Event.
func Decode(payload []byte) (Event, error) {
	var evt Event
	if err := json.Unmarshal(payload, &evt); err != nil {
		return Event{}, err
	}
	return evt, nil
}

// Publisher sends events to a broker.
type Publisher interface {
	Publish(ctx context.Context, evt Event) error
}

// Nop discards events.
type Nop struct{}

func (Nop) Publish(context.Context, Event) error { return nil }

// PublishBestEffort publishes evt and logs failures instead of returning them.
func PublishBestEffort(ctx context.Context, p Publisher, evt Event) {
	if p == nil {
		return
	}
	if err := p.Publish(ctx, evt); err != nil {
		telemetry.Warn("events.publish_failed", map[string]any{
			"event_id":   evt.ID,
			"event_type": evt.Type,
			"user_id":    evt.UserID,
			"subject_id": evt.SubjectID,
			"request_id": evt.RequestID,
			"err":        err,
		})
	}
}
