package addcopies

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// Result carries the ids of the added copies.
type Result struct {
	shell.HandlerResult
	CopyIDs []string
}

// CommandHandler runs Query -> Decide -> Append with retries on concurrency conflicts.
type CommandHandler struct {
	eventStore   shell.EventStore
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

// NewCommandHandler creates a new CommandHandler with optional configuration.
func NewCommandHandler(eventStore shell.EventStore, opts ...Option) CommandHandler {
	handler := CommandHandler{
		eventStore: eventStore,
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

	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	if isIdempotent {
		return Result{HandlerResult: shell.NewIdempotentResult(retryMetrics), CopyIDs: command.CopyIDs}, nil
	}

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), CopyIDs: command.CopyIDs}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, error) {
	filter := BuildEventFilter(command.ISBN, command.CopyIDs)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, err
	}

	result := Decide(history, command)
	if result.IsIdempotent() {
		return true, nil
	}

	err = shell.AppendDecision(
		ctx,
		h.eventStore,
		filter,
		maxSequenceNumber,
		result,
		shell.NewEventMetadata(ctx, command.LibrarianID),
	)

	return false, err
}
