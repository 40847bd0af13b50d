package testdoubles

import (
	"context"
	"slices"
	"sync"
)

// LogRecord is one recorded log call.
type LogRecord struct {
	Level   string
	Message string
	Args    []any
	Context context.Context
}

// Attr returns the value logged under key, or nil.
func (r LogRecord) Attr(key string) any {
	for i := 0; i+1 < len(r.Args); i += 2 {
		if k, ok := r.Args[i].(string); ok && k == key {
			return r.Args[i+1]
		}
	}

	return nil
}

// ContextualLoggerSpy records calls to both the ContextualLogger and the Logger interface.
type ContextualLoggerSpy struct {
	mu      sync.Mutex
	records []LogRecord
}

// NewContextualLoggerSpy creates an empty ContextualLoggerSpy.
func NewContextualLoggerSpy() *ContextualLoggerSpy {
	return &ContextualLoggerSpy{}
}

func (s *ContextualLoggerSpy) record(ctx context.Context, level, msg string, args []any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records = append(s.records, LogRecord{Level: level, Message: msg, Args: args, Context: ctx})
}

func (s *ContextualLoggerSpy) DebugContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "debug", msg, args)
}

func (s *ContextualLoggerSpy) InfoContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "info", msg, args)
}

func (s *ContextualLoggerSpy) WarnContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "warn", msg, args)
}

func (s *ContextualLoggerSpy) ErrorContext(ctx context.Context, msg string, args ...any) {
	s.record(ctx, "error", msg, args)
}

func (s *ContextualLoggerSpy) Debug(msg string, args ...any) {
	s.record(context.Background(), "debug", msg, args)
}

func (s *ContextualLoggerSpy) Info(msg string, args ...any) {
	s.record(context.Background(), "info", msg, args)
}

func (s *ContextualLoggerSpy) Warn(msg string, args ...any) {
	s.record(context.Background(), "warn", msg, args)
}

func (s *ContextualLoggerSpy) Error(msg string, args ...any) {
	s.record(context.Background(), "error", msg, args)
}

// Records returns a copy of all records.
func (s *ContextualLoggerSpy) Records() []LogRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// Find returns the first record with the given level and message.
func (s *ContextualLoggerSpy) Find(level, message string) (LogRecord, bool) {
	for _, record := range s.Records() {
		if record.Level == level && record.Message == message {
			return record, true
		}
	}

	return LogRecord{}, false
}

func (s *ContextualLoggerSpy) HasInfoLog(message string) bool {
	_, ok := s.Find("info", message)
	return ok
}

func (s *ContextualLoggerSpy) HasWarnLog(message string) bool {
	_, ok := s.Find("warn", message)
	return ok
}

func (s *ContextualLoggerSpy) HasErrorLog(message string) bool {
	_, ok := s.Find("error", message)
	return ok
}
