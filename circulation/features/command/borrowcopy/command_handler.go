package borrowcopy

import (
	"context"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

// Result carries the opened borrow.
type Result struct {
	shell.HandlerResult
	Borrow core.CopyLentToMember
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

	var borrow core.CopyLentToMember
	var isIdempotent bool

	retryMetrics, err := shell.RetryWithExponentialBackoff(ctx, func(retryCtx context.Context) error {
		var execErr error
		borrow, isIdempotent, execErr = h.executeCommand(retryCtx, command)

		return execErr
	}, h.retryOptions...)

	if err != nil {
		return Result{HandlerResult: shell.NewErrorResult(retryMetrics)}, err
	}

	if isIdempotent {
		return Result{HandlerResult: shell.NewIdempotentResult(retryMetrics), Borrow: borrow}, nil
	}

	return Result{HandlerResult: shell.NewSuccessResult(retryMetrics), Borrow: borrow}, nil
}

func (h CommandHandler) executeCommand(ctx context.Context, command Command) (core.CopyLentToMember, bool, error) {
	filter := BuildEventFilter(command.CopyID, command.MemberID, command.BorrowID)

	history, maxSequenceNumber, err := shell.QueryHistory(ctx, h.eventStore, filter)
	if err != nil {
		return core.CopyLentToMember{}, false, err
	}

	result := Decide(history, command)

	if result.IsIdempotent() {
		return *project(history, command.CopyID, command.MemberID, command.BorrowID).openBorrow, true, nil
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
		return core.CopyLentToMember{}, false, err
	}

	borrow, _ := result.Events[0].(core.CopyLentToMember)

	return borrow, false, nil
}
