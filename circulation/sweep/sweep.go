package sweep

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/AntonStoeckl/library-circulation/circulation/core"
	"github.com/AntonStoeckl/library-circulation/circulation/features/query/analytics"
	"github.com/AntonStoeckl/library-circulation/circulation/shell"
)

const (
	DefaultSchedule = "0 6 * * *"

	MetricOverdueLoans = "library_overdue_loans"

	LogMsgSweepCompleted = "overdue sweep completed"
	LogMsgSweepFailed    = "overdue sweep failed"
	LogMsgCron           = "overdue sweep scheduler"

	LogAttrOverdueLoans   = "overdue_loans"
	LogAttrTotalFines     = "total_fines"
	LogAttrMaxDaysOverdue = "max_days_overdue"
	LogAttrToday          = "today"
	LogAttrDurationMS     = "duration_ms"
	LogAttrError          = "error"
)

// ReportReader builds analytics reports.
type ReportReader interface {
	Handle(ctx context.Context, query analytics.Query) (analytics.Report, error)
}

// Summary is what one sweep found.
type Summary struct {
	Today          core.CalendarDate
	OverdueLoans   int
	TotalFines     core.Money
	MaxDaysOverdue int
}

// Sweep projects the open overdue borrows of today.
type Sweep struct {
	reports ReportReader
	clock   shell.Clock
	logger  shell.ContextualLogger
	metrics shell.MetricsCollector
}

// Option configures a Sweep.
type Option func(*Sweep)

// WithContextualLogger sets the logger for sweep summaries.
func WithContextualLogger(logger shell.ContextualLogger) Option {
	return func(s *Sweep) {
		s.logger = logger
	}
}

// WithMetrics sets the collector receiving the overdue gauge.
func WithMetrics(collector shell.MetricsCollector) Option {
	return func(s *Sweep) {
		s.metrics = collector
	}
}

// New returns a Sweep reading reports as of clock's today.
func New(reports ReportReader, clock shell.Clock, opts ...Option) Sweep {
	sweep := Sweep{reports: reports, clock: clock}
	for _, opt := range opts {
		opt(&sweep)
	}

	return sweep
}

// Run builds the overdue report once.
func (s Sweep) Run(ctx context.Context) (Summary, error) {
	start := time.Now()
	today := s.clock.Today()

	report, err := s.reports.Handle(ctx, analytics.BuildQuery(string(analytics.ReportOverdueToday), today))
	if err != nil {
		if s.logger != nil {
			s.logger.ErrorContext(ctx, LogMsgSweepFailed, LogAttrToday, today.String(), LogAttrError, err.Error())
		}

		return Summary{}, fmt.Errorf("overdue sweep: %w", err)
	}

	summary := Summary{Today: today, OverdueLoans: len(report.OverdueToday)}
	for _, loan := range report.OverdueToday {
		summary.TotalFines += loan.FineAmount
		summary.MaxDaysOverdue = max(summary.MaxDaysOverdue, loan.DaysOverdue)
	}

	s.recordGauge(ctx, summary)

	if s.logger != nil {
		s.logger.InfoContext(ctx, LogMsgSweepCompleted,
			LogAttrToday, today.String(),
			LogAttrOverdueLoans, summary.OverdueLoans,
			LogAttrTotalFines, summary.TotalFines.String(),
			LogAttrMaxDaysOverdue, summary.MaxDaysOverdue,
			LogAttrDurationMS, shell.ToMilliseconds(time.Since(start)),
		)
	}

	return summary, nil
}

func (s Sweep) recordGauge(ctx context.Context, summary Summary) {
	if s.metrics == nil {
		return
	}

	value := float64(summary.OverdueLoans)
	if contextual, ok := s.metrics.(shell.ContextualMetricsCollector); ok {
		contextual.RecordValueContext(ctx, MetricOverdueLoans, value, nil)
		return
	}

	s.metrics.RecordValue(MetricOverdueLoans, value, nil)
}

// Schedule registers the sweep on a new cron scheduler in the clock's time zone.
// An empty schedule returns a nil scheduler: the sweep is disabled.
func Schedule(ctx context.Context, schedule string, sweep Sweep) (*cron.Cron, error) {
	if schedule == "" {
		return nil, nil
	}

	logger := cronLogger{ctx: ctx, logger: sweep.logger}
	scheduler := cron.New(
		cron.WithLocation(sweep.clock.Location()),
		cron.WithLogger(logger),
		cron.WithChain(cron.Recover(logger), cron.SkipIfStillRunning(logger)),
	)

	_, err := scheduler.AddFunc(schedule, func() {
		_, _ = sweep.Run(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("invalid overdue sweep schedule %q: %w", schedule, err)
	}

	return scheduler, nil
}

// cronLogger feeds the scheduler's own messages into the contextual logger.
type cronLogger struct {
	ctx    context.Context
	logger shell.ContextualLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	if l.logger == nil {
		return
	}

	l.logger.DebugContext(l.ctx, LogMsgCron, append([]any{"event", msg}, keysAndValues...)...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	if l.logger == nil {
		return
	}

	l.logger.ErrorContext(l.ctx, LogMsgCron, append([]any{"event", msg, LogAttrError, err.Error()}, keysAndValues...)...)
}
