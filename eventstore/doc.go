// Package eventstore holds the storage-agnostic building blocks of the circulation event store.
//
// Every state change of the library is recorded as an event. Commands read the events relevant
// to one decision through a Filter (event types combined with JSON payload predicates), decide,
// and append the outcome conditioned on the filtered stream not having grown in the meantime.
// That condition is the dynamic consistency boundary: two librarians lending the same copy
// conflict, while lending two different copies never do.
//
// Typical usage:
//
//	filter := eventstore.BuildEventFilter().
//		Matching().
//		AnyEventTypeOf(
//			core.CopyLentToMemberEventType,
//			core.CopyReturnedByMemberEventType).
//		AndAnyPredicateOf(eventstore.P("CopyID", copyID)).
//		Finalize()
//
//	events, maxSeq, err := store.Query(ctx, filter)
//	// decide ...
//	err = store.Append(ctx, filter, maxSeq, newEvent)
//
// Engines live in the sub packages postgresengine, sqliteengine and memengine.
package eventstore
