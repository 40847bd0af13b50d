package shell

import (
	"errors"
	"fmt"

	jsoniter "github.com/json-iterator/go"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/eventstore"
)

var (
	// ErrMappingToDomainEventFailed is returned when domain event conversion fails.
	ErrMappingToDomainEventFailed = errors.New("mapping to domain event failed")

	// ErrMappingToDomainEventUnknownEventType is returned for unrecognized event types.
	ErrMappingToDomainEventUnknownEventType = errors.New("unknown event type")
)

// DomainEventsFrom converts multiple StorableEvents to DomainEvents.
func DomainEventsFrom(storableEvents eventstore.StorableEvents) (core.DomainEvents, error) {
	domainEvents := make(core.DomainEvents, 0, len(storableEvents))

	for _, storableEvent := range storableEvents {
		domainEvent, err := DomainEventFrom(storableEvent)
		if err != nil {
			return nil, err
		}

		domainEvents = append(domainEvents, domainEvent)
	}

	return domainEvents, nil
}

// DomainEventFrom converts a StorableEvent to its corresponding DomainEvent.
func DomainEventFrom(storableEvent eventstore.StorableEvent) (core.DomainEvent, error) {
	payload := storableEvent.PayloadJSON

	switch storableEvent.EventType {
	case core.BookRegisteredInCatalogEventType:
		return unmarshalAs[core.BookRegisteredInCatalog](payload)

	case core.CopyAddedToCirculationEventType:
		return unmarshalAs[core.CopyAddedToCirculation](payload)

	case core.CopyRetiredEventType:
		return unmarshalAs[core.CopyRetired](payload)

	case core.MemberRegisteredEventType:
		return unmarshalAs[core.MemberRegistered](payload)

	case core.CopyLentToMemberEventType:
		return unmarshalAs[core.CopyLentToMember](payload)

	case core.CopyReturnedByMemberEventType:
		return unmarshalAs[core.CopyReturnedByMember](payload)

	case core.OverdueFineSettledEventType:
		return unmarshalAs[core.OverdueFineSettled](payload)

	case core.StaffAccountOpenedEventType:
		return unmarshalAs[core.StaffAccountOpened](payload)

	case core.StaffAccountUpdatedEventType:
		return unmarshalAs[core.StaffAccountUpdated](payload)

	case core.StaffAccountClosedEventType:
		return unmarshalAs[core.StaffAccountClosed](payload)

	default:
		if core.IsFailedEventType(storableEvent.EventType) {
			return unmarshalAs[core.OperationFailed](payload)
		}
	}

	return nil, errors.Join(
		ErrMappingToDomainEventFailed,
		fmt.Errorf("%w: %s", ErrMappingToDomainEventUnknownEventType, storableEvent.EventType),
	)
}

func unmarshalAs[E core.DomainEvent](payload []byte) (core.DomainEvent, error) {
	event := new(E)

	if err := jsoniter.ConfigCompatibleWithStandardLibrary.Unmarshal(payload, event); err != nil {
		return nil, errors.Join(ErrMappingToDomainEventFailed, err)
	}

	return *event, nil
}
