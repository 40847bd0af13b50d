package observable_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
	"github.com/AntonStoeckl/library-circulation/circulation/shell/observable"
	"github.com/AntonStoeckl/library-circulation/testutil/testdoubles"
)

type testQuery struct{}

func (testQuery) QueryType() string { return "TestQuery" }

type stubQueryHandler struct {
	result []string
	err    error
}

func (h stubQueryHandler) Handle(_ context.Context, _ testQuery) ([]string, error) {
	return h.result, h.err
}

func Test_QueryWrapper_Success(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	logger := testdoubles.NewContextualLoggerSpy()

	wrapper, err := observable.WrapQueryHandler[testQuery, []string](
		stubQueryHandler{result: []string{"a", "b"}},
		observable.Observability{Metrics: metrics, Logger: logger},
	)
	require.NoError(t, err)

	// act
	result, err := wrapper.Handle(context.Background(), testQuery{})

	// assert
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, result)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).
		WithLabel(shell.LogAttrQueryType, "TestQuery").
		WithStatus(shell.StatusSuccess).
		Assert())
	assert.True(t, logger.HasInfoLog(shell.LogMsgQueryCompleted))
}

func Test_QueryWrapper_Rejection(t *testing.T) {
	// arrange
	metrics := testdoubles.NewMetricsCollectorSpy()
	tracing := testdoubles.NewTracingCollectorSpy()

	wrapper, err := observable.NewQueryWrapper[testQuery, []string](
		stubQueryHandler{err: core.ErrCopyNotFound},
		observable.WithQueryMetrics[testQuery, []string](metrics),
		observable.WithQueryTracing[testQuery, []string](tracing),
	)
	require.NoError(t, err)

	// act
	_, err = wrapper.Handle(context.Background(), testQuery{})

	// assert
	assert.ErrorIs(t, err, core.ErrCopyNotFound)
	assert.True(t, metrics.HasCounterRecordForMetric(shell.QueryHandlerCallsMetric).WithStatus(shell.StatusRejected).Assert())

	span, found := tracing.FindSpan(shell.SpanNameQueryHandle)
	require.True(t, found)
	assert.Equal(t, "CopyNotFound", span.EndAttrs[shell.LogAttrFailureCode])
}
