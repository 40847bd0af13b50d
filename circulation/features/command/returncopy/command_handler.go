package returncopy

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// Result is Returned, PaymentRequired carrying the fine, or Settled carrying the settled fine.
type Result struct {
	shell.HandlerResult
	Outcome  Outcome
	Fine     core.Fine
	Returned core.CopyReturnedByMember
}

// CommandHandler runs Query -> Decide -> Append with retries on concurrency conflicts.
type CommandHandler struct {
	eventStore   shell.EventStore
	finePolicy   core.FinePolicy
	retryOptions []shell.RetryOption
}

// Option configures a CommandHandler.
type Option func(*CommandHandler)

// WithRetryOptions sets a custom retry configuration for the handler.
func WithRetryOptions(opts ...shell.RetryOption) Option {
	return func(h *CommandHandler) {
		h.retryOptions = opts
	}
}

// NewCommandHandler creates a new CommandHandler that assesses fines with finePolicy.
func NewCommandHandler(eventStore shell.EventStore, finePolicy core.FinePolicy, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
		finePolicy: finePolicy,
	}

	for _, opt := range opts {
		opt(&handler)
	}

	return handler
}

// Handle validates the command and executes it with retry logic.
func (h CommandHandler) Handle(ctx context.Context, command Command) (Result, error) {
	if err := command.Validate(); err != nil {
		return Result{}, err
	}

	var decision Decision

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		decision, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	result := Result{
		Outcome:  decision.Outcome,
		Fine:     decision.Fine,
		Returned: decision.Returned,
	}

	if decision.Result.IsPending() {
		result.HandlerResult = shell.NewPendingResult(retryMetrics)
		return result, nil
	}

	result.HandlerResult = shell.NewSuccessResult(retryMetrics)

	return result, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (Decision, error) {
	filter := BuildEventFilter(command.CopyID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return Decision{}, err
	}

	decision := Decide(history, command, h.finePolicy)

	err = shell.AppendDecision(
		ctx,
		h.eventStore,
		filter,
		maxSequenceNumber,
		decision.Result,
		shell.NewEventMetadata(ctx, command.LibrarianID),
	)
	if err != nil {
		return Decision{}, err
	}

	return decision, nil
}
