package oteladapters_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/AntonStoeckl/library-circulation/eventstore/oteladapters"
)

func givenMetricsCollector() (*oteladapters.MetricsCollector, *sdkmetric.ManualReader) {
	reader := sdkmetric.NewManualReader()
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))

	return oteladapters.NewMetricsCollector(provider.Meter("test")), reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) map[string]metricdata.Metrics {
	t.Helper()

	var resourceMetrics metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(context.Background(), &resourceMetrics))

	byName := make(map[string]metricdata.Metrics)
	for _, scope := range resourceMetrics.ScopeMetrics {
		for _, m := range scope.Metrics {
			byName[m.Name] = m
		}
	}

	return byName
}

func Test_MetricsCollector_RecordDuration_InSeconds(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordDuration("commandhandler_duration_seconds", 150*time.Millisecond, map[string]string{"command_type": "BorrowCopy"})

	// assert
	metrics := collect(t, reader)
	histogram, ok := metrics["commandhandler_duration_seconds"].Data.(metricdata.Histogram[float64])
	require.True(t, ok)
	require.Len(t, histogram.DataPoints, 1)
	assert.InDelta(t, 0.15, histogram.DataPoints[0].Sum, 0.001)
	expected := attribute.NewSet(attribute.String("command_type", "BorrowCopy"))
	assert.True(t, histogram.DataPoints[0].Attributes.Equals(&expected))
}

func Test_MetricsCollector_IncrementCounter_Concurrently(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()
	var wg sync.WaitGroup

	// act
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			collector.IncrementCounterContext(context.Background(), "eventstore_concurrency_conflicts_total", nil)
		}()
	}
	wg.Wait()

	// assert
	sum, ok := collect(t, reader)["eventstore_concurrency_conflicts_total"].Data.(metricdata.Sum[int64])
	require.True(t, ok)
	require.Len(t, sum.DataPoints, 1)
	assert.Equal(t, int64(50), sum.DataPoints[0].Value)
}

func Test_MetricsCollector_RecordValue_KeepsLastValue(t *testing.T) {
	// arrange
	collector, reader := givenMetricsCollector()

	// act
	collector.RecordValue("eventstore_events_queried_total", 3, nil)
	collector.RecordValue("eventstore_events_queried_total", 7, nil)

	// assert
	gauge, ok := collect(t, reader)["eventstore_events_queried_total"].Data.(metricdata.Gauge[float64])
	require.True(t, ok)
	require.Len(t, gauge.DataPoints, 1)
	assert.Equal(t, float64(7), gauge.DataPoints[0].Value)
}

func Test_TracingCollector_MapsStatuses(t *testing.T) {
	testCases := []struct {
		status   string
		expected codes.Code
	}{
		{status: "success", expected: codes.Ok},
		{status: "rejected", expected: codes.Ok},
		{status: "conflict", expected: codes.Error},
		{status: "error", expected: codes.Error},
	}

	for _, tc := range testCases {
		t.Run(tc.status, func(t *testing.T) {
			// arrange
			recorder := tracetest.NewSpanRecorder()
			provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(recorder))
			collector := oteladapters.NewTracingCollector(provider.Tracer("test"))

			// act
			_, span := collector.StartSpan(context.Background(), "eventstore.append", map[string]string{"operation": "append"})
			collector.FinishSpan(span, tc.status, map[string]string{"event_count": "1"})

			// assert
			ended := recorder.Ended()
			require.Len(t, ended, 1)
			assert.Equal(t, "eventstore.append", ended[0].Name())
			assert.Equal(t, tc.expected, ended[0].Status().Code)
			assert.Contains(t, ended[0].Attributes(), attribute.String("event_count", "1"))
		})
	}
}

func Test_SlogBridgeLogger_DoesNotPanicWithoutProvider(t *testing.T) {
	// arrange
	logger := oteladapters.NewSlogBridgeLogger("test")

	// act / assert
	assert.NotPanics(t, func() {
		logger.InfoContext(context.Background(), "hello", "key", "value")
	})
}
