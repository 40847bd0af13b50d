package shell

import "time"

// HandlerResult represents the outcome of a command handler execution.
// It captures business outcomes (idempotent, pending) and retry metadata without coupling
// the handler to specific observability implementations.
type HandlerResult struct {
	// Idempotent indicates that no state change was needed.
	Idempotent bool

	// Pending indicates that the command was accepted but waits for a confirmation, so nothing was appended.
	Pending bool

	// RetryAttempts is the total number of attempts made (1 for no retries).
	RetryAttempts int

	// TotalRetryDelay is the cumulative time spent in backoff delays.
	TotalRetryDelay time.Duration

	// LastErrorType describes the final error encountered.
	// Values: "none", "concurrency_conflict", "context_canceled", "context_deadline_exceeded", "other"
	LastErrorType string

	// RetriesExhausted is true when all attempts failed with a retryable error.
	RetriesExhausted bool
}

// Handling returns the result itself, so that slice results embedding it satisfy CommandResult.
func (r HandlerResult) Handling() HandlerResult {
	return r
}

// NewSuccessResult creates a HandlerResult for operations that changed state.
func NewSuccessResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics)
}

// NewIdempotentResult creates a HandlerResult for idempotent operations.
func NewIdempotentResult(retryMetrics RetryMetrics) HandlerResult {
	result := fromRetryMetrics(retryMetrics)
	result.Idempotent = true

	return result
}

// NewPendingResult creates a HandlerResult for operations that wait for a confirmation.
func NewPendingResult(retryMetrics RetryMetrics) HandlerResult {
	result := fromRetryMetrics(retryMetrics)
	result.Pending = true

	return result
}

// NewErrorResult creates a HandlerResult for failed operations that still reports retry metadata.
func NewErrorResult(retryMetrics RetryMetrics) HandlerResult {
	return fromRetryMetrics(retryMetrics)
}

func fromRetryMetrics(retryMetrics RetryMetrics) HandlerResult {
	return HandlerResult{
		RetryAttempts:    retryMetrics.Attempts,
		TotalRetryDelay:  retryMetrics.TotalDelay,
		LastErrorType:    retryMetrics.LastErrorType,
		RetriesExhausted: retryMetrics.RetriesExhausted,
	}
}
