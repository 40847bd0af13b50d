package observable_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/circulation/shell/observable"
	"github.com/AntonStoeckl/library-circulation/eventstore"
	"github.com/AntonStoeckl/library-circulation/testutil/testdoubles"
)

type testCommand struct{}

func (testCommand) CommandType() string { return "TestCommand" }

type testResult struct {
	shell.HandlerResult
	Payload string
}

type stubCommandHandler struct {
	result testResult
	err    error
	calls  int
}

func (h *stubCommandHandler) Handle(_ context.Context, _ testCommand) (testResult, error) {
	h.calls++
	return h.result, h.err
}

type collectors struct {
	metrics *testdoubles.MetricsCollectorSpy
	tracing *testdoubles.TracingCollectorSpy
	logger  *testdoubles.ContextualLoggerSpy
}

func wrapCommand(t *testing.T, handler *stubCommandHandler) (*observable.CommandWrapper[testCommand, testResult], collectors) {
	t.Helper()

	c := collectors{
		metrics: testdoubles.NewMetricsCollectorSpy(),
		tracing: testdoubles.NewTracingCollectorSpy(),
		logger:  testdoubles.NewContextualLoggerSpy(),
	}

	wrapper, err := observable.WrapCommandHandler[testCommand, testResult](handler, observable.Observability{
		Metrics:          c.metrics,
		Tracing:          c.tracing,
		ContextualLogger: c.logger,
	})
	require.NoError(t, err)

	return wrapper, c
}

func Test_CommandWrapper_Success(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{result: testResult{HandlerResult: shell.HandlerResult{RetryAttempts: 1}, Payload: "done"}}
	wrapper, c := wrapCommand(t, handler)

	// act
	result, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, "done", result.Payload)
	assert.Equal(t, 1, handler.calls)
	assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).
		WithLabel(shell.LogAttrCommandType, "TestCommand").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, c.metrics.HasDurationRecordForMetric(shell.CommandHandlerDurationMetric).WithStatus(shell.StatusSuccess).Assert())
	assert.True(t, c.logger.HasInfoLog(shell.LogMsgCommandStarted))
	assert.True(t, c.logger.HasInfoLog(shell.LogMsgCommandCompleted))

	span, found := c.tracing.FindSpan(shell.SpanNameCommandHandle)
	require.True(t, found)
	assert.Equal(t, shell.StatusSuccess, span.Status)
	assert.Equal(t, "TestCommand", span.StartAttrs[shell.LogAttrCommandType])
}

func Test_CommandWrapper_IdempotentAndPendingOutcomes(t *testing.T) {
	testCases := []struct {
		name     string
		result   shell.HandlerResult
		expected string
	}{
		{"idempotent", shell.HandlerResult{Idempotent: true, RetryAttempts: 1}, shell.StatusIdempotent},
		{"pending", shell.HandlerResult{Pending: true, RetryAttempts: 1}, shell.StatusPending},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			wrapper, c := wrapCommand(t, &stubCommandHandler{result: testResult{HandlerResult: tc.result}})

			// act
			_, err := wrapper.Handle(context.Background(), testCommand{})

			// assert
			require.NoError(t, err)
			assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).WithStatus(tc.expected).Assert())
		})
	}
}

func Test_CommandWrapper_BusinessRejectionIsLoggedAtInfo(t *testing.T) {
	// arrange
	wrapper, c := wrapCommand(t, &stubCommandHandler{err: core.ErrCopyUnavailable})

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, core.ErrCopyUnavailable)
	assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerRejectedMetric).Assert())
	assert.False(t, c.logger.HasErrorLog(shell.LogMsgCommandFailed))

	record, found := c.logger.Find("info", shell.LogMsgCommandRejected)
	require.True(t, found)
	assert.Equal(t, "CopyUnavailable", record.Attr(shell.LogAttrFailureCode))
}

func Test_CommandWrapper_TechnicalErrorsAreLoggedAtError(t *testing.T) {
	// arrange
	wrapper, c := wrapCommand(t, &stubCommandHandler{err: errors.New("disk on fire")})

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.Error(t, err)
	assert.True(t, c.logger.HasErrorLog(shell.LogMsgCommandFailed))
	assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerCallsMetric).WithStatus(shell.StatusError).Assert())
}

func Test_CommandWrapper_RecordsRetriesAndExhaustion(t *testing.T) {
	// arrange
	handler := &stubCommandHandler{
		result: testResult{HandlerResult: shell.HandlerResult{
			RetryAttempts:    6,
			LastErrorType:    "concurrency_conflict",
			RetriesExhausted: true,
		}},
		err: eventstore.ErrConcurrencyConflict,
	}
	wrapper, c := wrapCommand(t, handler)

	// act
	_, err := wrapper.Handle(context.Background(), testCommand{})

	// assert
	assert.ErrorIs(t, err, eventstore.ErrConcurrencyConflict)
	assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerRetriesMetric).
		WithLabel(shell.LogAttrAttemptNumber, "5").
		Assert())
	assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerMaxRetriesReachedMetric).Assert())
	assert.True(t, c.metrics.HasCounterRecordForMetric(shell.CommandHandlerConcurrencyConflictMetric).Assert())
}
