package eventstore_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

//nolint:funlen
func Test_BuildStorableEvent_RejectsInvalidJSON(t *testing.T) {
	occurredAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)
	validPayload := []byte(`{"CopyID":"1042"}`)
	validMetadata := []byte(`{"ActorID":"7"}`)

	tests := []struct {
		name         string
		payloadJSON  []byte
		metadataJSON []byte
		expectedErr  error
	}{
		{
			name:         "broken payload",
			payloadJSON:  []byte(`{"CopyID": 1042`),
			metadataJSON: validMetadata,
			expectedErr:  eventstore.ErrInvalidPayloadJSON,
		},
		{
			name:         "broken metadata",
			payloadJSON:  validPayload,
			metadataJSON: []byte(`{"ActorID":}`),
			expectedErr:  eventstore.ErrInvalidMetadataJSON,
		},
		{
			name:         "empty payload",
			payloadJSON:  []byte(``),
			metadataJSON: validMetadata,
			expectedErr:  eventstore.ErrInvalidPayloadJSON,
		},
		{
			name:         "empty metadata",
			payloadJSON:  validPayload,
			metadataJSON: []byte(``),
			expectedErr:  eventstore.ErrInvalidMetadataJSON,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			// act
			_, err := eventstore.BuildStorableEvent("CopyLentToMember", occurredAt, tc.payloadJSON, tc.metadataJSON)

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
		})
	}
}

func Test_BuildStorableEvent_KeepsAllFields(t *testing.T) {
	// arrange
	occurredAt := time.Date(2026, 3, 2, 9, 30, 0, 0, time.UTC)

	// act
	event, err := eventstore.BuildStorableEvent(
		"CopyLentToMember",
		occurredAt,
		[]byte(`{"CopyID":"1042"}`),
		[]byte(`{"ActorID":"7"}`),
	)

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "CopyLentToMember", event.EventType)
	assert.Equal(t, occurredAt, event.OccurredAt)
	assert.JSONEq(t, `{"CopyID":"1042"}`, string(event.PayloadJSON))
	assert.JSONEq(t, `{"ActorID":"7"}`, string(event.MetadataJSON))
	assert.Zero(t, event.SequenceNumber)
}

func Test_BuildStorableEventWithEmptyMetadata(t *testing.T) {
	// act
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("MemberRegistered", time.Now(), []byte(`{"MemberID":"7"}`))

	// assert
	assert.NoError(t, err)
	assert.Equal(t, "{}", string(event.MetadataJSON))
}

func Test_WithSequenceNumber_DoesNotMutateOriginal(t *testing.T) {
	// arrange
	event, err := eventstore.BuildStorableEventWithEmptyMetadata("MemberRegistered", time.Now(), []byte(`{}`))
	assert.NoError(t, err)

	// act
	stamped := event.WithSequenceNumber(42)

	// assert
	assert.Equal(t, uint(42), stamped.SequenceNumber)
	assert.Zero(t, event.SequenceNumber)
}
