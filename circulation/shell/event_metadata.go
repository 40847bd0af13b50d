package shell

import (
	"context"
	"errors"

	"github.com/google/uuid"
	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// ErrMappingToEventMetadataFailed is returned when metadata conversion fails.
var ErrMappingToEventMetadataFailed = errors.New("mapping to event metadata failed")

// MessageID represents a unique message identifier.
type MessageID = string

// CausationID represents the ID of the message that caused this event.
type CausationID = string

// CorrelationID represents the ID correlating all events of one request.
type CorrelationID = string

// EventMetadata contains event tracking information.
type EventMetadata struct {
	MessageID     MessageID
	CausationID   CausationID
	CorrelationID CorrelationID
	ActorID       string
}

type correlationIDKey struct{}

// WithCorrelationID stores the id of the inbound request so that handlers can stamp it on events.
func WithCorrelationID(ctx context.Context, correlationID CorrelationID) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, correlationID)
}

// CorrelationIDFrom returns the correlation id stored by WithCorrelationID, or "".
func CorrelationIDFrom(ctx context.Context) CorrelationID {
	correlationID, _ := ctx.Value(correlationIDKey{}).(CorrelationID)

	return correlationID
}

// BuildEventMetadata creates EventMetadata from UUID values and the acting staff user.
func BuildEventMetadata(messageID uuid.UUID, causationID uuid.UUID, correlationID uuid.UUID, actorID string) EventMetadata {
	return EventMetadata{
		MessageID:     messageID.String(),
		CausationID:   causationID.String(),
		CorrelationID: correlationID.String(),
		ActorID:       actorID,
	}
}

// NewEventMetadata creates metadata for a command executed by actorID.
// The correlation id comes from ctx if present, else it is the new message id.
func NewEventMetadata(ctx context.Context, actorID string) EventMetadata {
	messageID := uuid.NewString()

	correlationID := CorrelationIDFrom(ctx)
	if correlationID == "" {
		correlationID = messageID
	}

	return EventMetadata{
		MessageID:     messageID,
		CausationID:   correlationID,
		CorrelationID: correlationID,
		ActorID:       actorID,
	}
}

// EventMetadataFrom extracts EventMetadata from a StorableEvent.
func EventMetadataFrom(storableEvent eventstore.StorableEvent) (EventMetadata, error) {
	metadata := new(EventMetadata)

	err := jsoniter.ConfigFastest.Unmarshal(storableEvent.MetadataJSON, metadata)
	if err != nil {
		return EventMetadata{}, errors.Join(ErrMappingToEventMetadataFailed, err)
	}

	return *metadata, nil
}
