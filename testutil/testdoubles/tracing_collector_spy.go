package testdoubles

import (
	"context"
	"maps"
	"slices"
	"sync"

	"github.com/AntonStoeckl/library-circulation/eventstore"
)

// SpanRecord is one finished span.
type SpanRecord struct {
	Name       string
	Status     string
	StartAttrs map[string]string
	EndAttrs   map[string]string
}

// SpySpanContext is the span handed out by TracingCollectorSpy.
type SpySpanContext struct {
	mu         sync.Mutex
	name       string
	status     string
	startAttrs map[string]string
	attrs      map[string]string
}

func (c *SpySpanContext) SetStatus(status string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.status = status
}

func (c *SpySpanContext) AddAttribute(key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.attrs[key] = value
}

// TracingCollectorSpy records started and finished spans.
type TracingCollectorSpy struct {
	mu       sync.Mutex
	started  int
	finished []SpanRecord
}

// NewTracingCollectorSpy creates an empty TracingCollectorSpy.
func NewTracingCollectorSpy() *TracingCollectorSpy {
	return &TracingCollectorSpy{}
}

func (s *TracingCollectorSpy) StartSpan(ctx context.Context, name string, attrs map[string]string) (context.Context, eventstore.SpanContext) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.started++

	return ctx, &SpySpanContext{name: name, startAttrs: maps.Clone(attrs), attrs: map[string]string{}}
}

func (s *TracingCollectorSpy) FinishSpan(spanCtx eventstore.SpanContext, status string, attrs map[string]string) {
	span, ok := spanCtx.(*SpySpanContext)
	if !ok {
		return
	}

	span.mu.Lock()
	endAttrs := maps.Clone(span.attrs)
	maps.Copy(endAttrs, attrs)
	record := SpanRecord{Name: span.name, Status: status, StartAttrs: span.startAttrs, EndAttrs: endAttrs}
	span.mu.Unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	s.finished = append(s.finished, record)
}

// StartedCount returns how many spans were started.
func (s *TracingCollectorSpy) StartedCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.started
}

// FinishedSpans returns a copy of all finished spans.
func (s *TracingCollectorSpy) FinishedSpans() []SpanRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.finished)
}

// FindSpan returns the first finished span with the given name.
func (s *TracingCollectorSpy) FindSpan(name string) (SpanRecord, bool) {
	for _, span := range s.FinishedSpans() {
		if span.Name == name {
			return span, true
		}
	}

	return SpanRecord{}, false
}
