package addbook

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// Result carries the id of the added copy.
type Result struct {
	shell.HandlerResult
	CopyID string
	// BookRegistered is true when the ISBN was new to the catalog.
	BookRegistered bool
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

	var isIdempotent, bookRegistered bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		isIdempotent, bookRegistered, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	if isIdempotent {
		return Result{HandlerResult: shell.NewIdempotentResult(retryMetrics), CopyID: command.CopyID}, nil
	}

	return Result{
		HandlerResult:  shell.NewSuccessResult(retryMetrics),
		CopyID:         command.CopyID,
		BookRegistered: bookRegistered,
	}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (bool, bool, error) {
	filter := BuildEventFilter(command.ISBN, command.CopyID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return false, false, err
	}

	result := Decide(history, command)
	if result.IsIdempotent() {
		return true, false, nil
	}

	err = shell.AppendDecision(
		ctx,
		h.eventStore,
		filter,
		maxSequenceNumber,
		result,
		shell.NewEventMetadata(ctx, command.LibrarianID),
	)
	if err != nil {
		return false, false, err
	}

	return false, len(result.Events) == 2, nil
}
