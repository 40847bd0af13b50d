package core

// DecisionResult represents the outcome of a business decision in a Decide function.
//
// Construct it only with IdempotentDecision, SuccessDecision, PendingDecision, or ErrorDecision.
type DecisionResult struct {
	Outcome string       // "idempotent", "success", "pending", or "error"
	Events  DomainEvents // appended together in one conditional append, empty for idempotent and pending
	Err     error
}

const (
	idempotentOutcome = "idempotent"
	successOutcome    = "success"
	pendingOutcome    = "pending"
	errorOutcome      = "error"
)

// IdempotentDecision creates a DecisionResult indicating no state change is needed.
func IdempotentDecision() DecisionResult {
	return DecisionResult{
		Outcome: idempotentOutcome,
	}
}

// SuccessDecision creates a DecisionResult with one or more events to append atomically.
func SuccessDecision(event DomainEvent, more ...DomainEvent) DecisionResult {
	events := make(DomainEvents, 0, 1+len(more))
	events = append(events, event)
	events = append(events, more...)

	return DecisionResult{
		Outcome: successOutcome,
		Events:  events,
	}
}

// PendingDecision creates a DecisionResult for a state change that waits for a confirmation.
// Nothing is appended.
func PendingDecision() DecisionResult {
	return DecisionResult{
		Outcome: pendingOutcome,
	}
}

// ErrorDecision creates a DecisionResult for a business rule violation with an error event to append.
func ErrorDecision(event DomainEvent, err error) DecisionResult {
	return DecisionResult{
		Outcome: errorOutcome,
		Events:  DomainEvents{event},
		Err:     err,
	}
}

// HasEventToAppend returns true if there are events to append to the event store.
func (r DecisionResult) HasEventToAppend() bool {
	return len(r.Events) > 0
}

// IsIdempotent returns true if nothing had to change.
func (r DecisionResult) IsIdempotent() bool {
	return r.Outcome == idempotentOutcome
}

// IsPending returns true if the decision waits for a confirmation.
func (r DecisionResult) IsPending() bool {
	return r.Outcome == pendingOutcome
}

// HasError returns the error if there is one, otherwise nil.
func (r DecisionResult) HasError() error {
	if r.Outcome == errorOutcome {
		return r.Err
	}

	return nil
}
