// Package instrumentation holds the logging, metrics and tracing plumbing shared by the SQL engines.
package instrumentation

import (
	"context"
	"errors"
	"math"
	"strconv"
	"time"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

const (
	MetricQueryDuration       = "eventstore_query_duration_seconds"
	MetricAppendDuration      = "eventstore_append_duration_seconds"
	MetricEventsQueried       = "eventstore_events_queried_total"
	MetricEventsAppended      = "eventstore_events_appended_total"
	MetricConcurrencyConflict = "eventstore_concurrency_conflicts_total"
	MetricDatabaseErrors      = "eventstore_database_errors_total"

	SpanNameQuery  = "eventstore.query"
	SpanNameAppend = "eventstore.append"

	OperationQuery  = "query"
	OperationAppend = "append"

	StatusSuccess  = "success"
	StatusError    = "error"
	StatusConflict = "conflict"

	AttrOperation     = "operation"
	AttrStatus        = "status"
	AttrEngine        = "engine"
	AttrErrorType     = "error_type"
	AttrEventCount    = "event_count"
	AttrEventType     = "event_type"
	AttrExpectedSeq   = "expected_sequence"
	AttrMaxSequence   = "max_sequence"
	AttrRowsAffected  = "rows_affected"
	AttrDurationMS    = "duration_ms"
	AttrQuery         = "query"
	AttrError         = "error"
	AttrConsistency   = "consistency"
	LogMsgSQLExecuted = "eventstore executed sql"
	LogMsgQueried     = "eventstore query completed"
	LogMsgAppended    = "eventstore events appended"
	LogMsgConflict    = "eventstore concurrency conflict"
	LogMsgFailed      = "eventstore operation failed"
)

// Instrumentation is embedded by the engines. All collectors are optional.
type Instrumentation struct {
	Engine           string
	Logger           eventstore.Logger
	ContextualLogger eventstore.ContextualLogger
	Metrics          eventstore.MetricsCollector
	Tracing          eventstore.TracingCollector
}

// StartSpan opens a span if tracing is configured.
func (in Instrumentation) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	if in.Tracing == nil {
		return ctx, nil
	}

	attrs[AttrEngine] = in.Engine

	return in.Tracing.StartSpan(ctx, name, attrs)
}

// FinishSpan closes a span opened with StartSpan.
func (in Instrumentation) FinishSpan(span eventstore.SpanContext, status string, attrs map[string]string) {
	if in.Tracing == nil || span == nil {
		return
	}

	in.Tracing.FinishSpan(span, status, attrs)
}

// LogSQL logs a statement at debug level.
func (in Instrumentation) LogSQL(ctx context.Context, operation string, sqlQuery string, duration time.Duration) {
	in.debug(ctx, LogMsgSQLExecuted, AttrOperation, operation, AttrDurationMS, ToMilliseconds(duration), AttrQuery, sqlQuery)
}

// QuerySucceeded records a successful query.
func (in Instrumentation) QuerySucceeded(
	ctx context.Context,
	span eventstore.SpanContext,
	eventCount int,
	maxSeq eventstore.MaxSequenceNumberUint,
	duration time.Duration,
) {

	in.recordDuration(ctx, MetricQueryDuration, duration, OperationQuery, StatusSuccess)
	in.recordCount(ctx, MetricEventsQueried, OperationQuery, eventCount)
	in.FinishSpan(span, StatusSuccess, map[string]string{
		AttrEventCount:  strconv.Itoa(eventCount),
		AttrMaxSequence: strconv.FormatUint(uint64(maxSeq), 10),
		AttrDurationMS:  formatMilliseconds(duration),
	})
	in.info(ctx, LogMsgQueried, AttrEngine, in.Engine, AttrEventCount, eventCount, AttrDurationMS, ToMilliseconds(duration))
}

// AppendSucceeded records a successful append.
func (in Instrumentation) AppendSucceeded(ctx context.Context, span eventstore.SpanContext, eventCount int, duration time.Duration) {
	in.recordDuration(ctx, MetricAppendDuration, duration, OperationAppend, StatusSuccess)
	in.recordCount(ctx, MetricEventsAppended, OperationAppend, eventCount)
	in.FinishSpan(span, StatusSuccess, map[string]string{
		AttrEventCount: strconv.Itoa(eventCount),
		AttrDurationMS: formatMilliseconds(duration),
	})
	in.info(ctx, LogMsgAppended, AttrEngine, in.Engine, AttrEventCount, eventCount, AttrDurationMS, ToMilliseconds(duration))
}

// AppendConflicted records an append that lost the optimistic concurrency check.
func (in Instrumentation) AppendConflicted(
	ctx context.Context,
	span eventstore.SpanContext,
	expectedSeq eventstore.MaxSequenceNumberUint,
	rowsAffected int64,
	duration time.Duration,
) {

	in.recordDuration(ctx, MetricAppendDuration, duration, OperationAppend, StatusConflict)
	in.recordCount(ctx, MetricConcurrencyConflict, OperationAppend, 1)
	in.FinishSpan(span, StatusConflict, map[string]string{
		AttrExpectedSeq:  strconv.FormatUint(uint64(expectedSeq), 10),
		AttrRowsAffected: strconv.FormatInt(rowsAffected, 10),
	})
	in.info(ctx, LogMsgConflict, AttrEngine, in.Engine, AttrExpectedSeq, expectedSeq, AttrRowsAffected, rowsAffected)
}

// Failed records an operation that failed with an infrastructure error.
func (in Instrumentation) Failed(ctx context.Context, span eventstore.SpanContext, operation string, err error, duration time.Duration) {
	errorType := ErrorType(err)

	in.recordDuration(ctx, durationMetricFor(operation), duration, operation, StatusError)

	if in.Metrics != nil {
		labels := map[string]string{AttrOperation: operation, AttrStatus: StatusError, AttrErrorType: errorType, AttrEngine: in.Engine}
		if contextual, ok := in.Metrics.(eventstore.ContextualMetricsCollector); ok {
			contextual.IncrementCounterContext(ctx, MetricDatabaseErrors, labels)
		} else {
			in.Metrics.IncrementCounter(MetricDatabaseErrors, labels)
		}
	}

	in.FinishSpan(span, StatusError, map[string]string{AttrErrorType: errorType, AttrError: err.Error()})

	args := []any{AttrEngine, in.Engine, AttrOperation, operation, AttrError, err.Error()}
	if in.ContextualLogger != nil {
		in.ContextualLogger.ErrorContext(ctx, LogMsgFailed, args...)
	} else if in.Logger != nil {
		in.Logger.Error(LogMsgFailed, args...)
	}
}

// ErrorType classifies an error for metric labels.
func ErrorType(err error) string {
	switch {
	case errors.Is(err, context.Canceled):
		return "context_canceled"
	case errors.Is(err, context.DeadlineExceeded):
		return "context_deadline_exceeded"
	case errors.Is(err, eventstore.ErrBuildingQueryFailed):
		return "build_query"
	case errors.Is(err, eventstore.ErrScanningDBRowFailed), errors.Is(err, eventstore.ErrBuildingStorableEventFailed):
		return "scan"
	default:
		return "database"
	}
}

// ToMilliseconds converts d to milliseconds rounded to three decimals.
func ToMilliseconds(d time.Duration) float64 {
	return math.Round(float64(d.Nanoseconds())/1e6*1000) / 1000
}

func formatMilliseconds(d time.Duration) string {
	return strconv.FormatFloat(ToMilliseconds(d), 'f', 2, 64)
}

func durationMetricFor(operation string) string {
	if operation == OperationAppend {
		return MetricAppendDuration
	}

	return MetricQueryDuration
}

func (in Instrumentation) recordDuration(ctx context.Context, metric string, duration time.Duration, operation, status string) {
	if in.Metrics == nil {
		return
	}

	labels := map[string]string{AttrOperation: operation, AttrStatus: status, AttrEngine: in.Engine}

	if contextual, ok := in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordDurationContext(ctx, metric, duration, labels)
		return
	}

	in.Metrics.RecordDuration(metric, duration, labels)
}

func (in Instrumentation) recordCount(ctx context.Context, metric string, operation string, count int) {
	if in.Metrics == nil || count == 0 {
		return
	}

	labels := map[string]string{AttrOperation: operation, AttrEngine: in.Engine}

	if contextual, ok := in.Metrics.(eventstore.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, metric, float64(count), labels)
		return
	}

	in.Metrics.RecordValue(metric, float64(count), labels)
}

func (in Instrumentation) debug(ctx context.Context, msg string, args ...any) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.DebugContext(ctx, msg, args...)
	} else if in.Logger != nil {
		in.Logger.Debug(msg, args...)
	}
}

func (in Instrumentation) info(ctx context.Context, msg string, args ...any) {
	if in.ContextualLogger != nil {
		in.ContextualLogger.InfoContext(ctx, msg, args...)
	} else if in.Logger != nil {
		in.Logger.Info(msg, args...)
	}
}
