package testdoubles

import (
	"context"
	"maps"
	"slices"
	"sync"
	"time"
)

// MetricRecord is one recorded metric call. Exactly one of Duration and Value is meaningful,
// depending on Kind.
type MetricRecord struct {
	Kind     string // "duration", "counter", or "value"
	Metric   string
	Duration time.Duration
	Value    float64
	Labels   map[string]string
}

// MetricsCollectorSpy records all calls of the ContextualMetricsCollector interface.
type MetricsCollectorSpy struct {
	mu      sync.Mutex
	records []MetricRecord
}

// NewMetricsCollectorSpy creates an empty MetricsCollectorSpy.
func NewMetricsCollectorSpy() *MetricsCollectorSpy {
	return &MetricsCollectorSpy{}
}

func (s *MetricsCollectorSpy) record(r MetricRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r.Labels = maps.Clone(r.Labels)
	s.records = append(s.records, r)
}

func (s *MetricsCollectorSpy) RecordDuration(metric string, duration time.Duration, labels map[string]string) {
	s.record(MetricRecord{Kind: "duration", Metric: metric, Duration: duration, Labels: labels})
}

func (s *MetricsCollectorSpy) IncrementCounter(metric string, labels map[string]string) {
	s.record(MetricRecord{Kind: "counter", Metric: metric, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordValue(metric string, value float64, labels map[string]string) {
	s.record(MetricRecord{Kind: "value", Metric: metric, Value: value, Labels: labels})
}

func (s *MetricsCollectorSpy) RecordDurationContext(_ context.Context, metric string, duration time.Duration, labels map[string]string) {
	s.RecordDuration(metric, duration, labels)
}

func (s *MetricsCollectorSpy) IncrementCounterContext(_ context.Context, metric string, labels map[string]string) {
	s.IncrementCounter(metric, labels)
}

func (s *MetricsCollectorSpy) RecordValueContext(_ context.Context, metric string, value float64, labels map[string]string) {
	s.RecordValue(metric, value, labels)
}

// Records returns a copy of all records.
func (s *MetricsCollectorSpy) Records() []MetricRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	return slices.Clone(s.records)
}

// HasCounterRecordForMetric starts a matcher over counter records of metric.
func (s *MetricsCollectorSpy) HasCounterRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{spy: s, kind: "counter", metric: metric, labels: map[string]string{}}
}

// HasDurationRecordForMetric starts a matcher over duration records of metric.
func (s *MetricsCollectorSpy) HasDurationRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{spy: s, kind: "duration", metric: metric, labels: map[string]string{}}
}

// HasValueRecordForMetric starts a matcher over value records of metric.
func (s *MetricsCollectorSpy) HasValueRecordForMetric(metric string) *MetricRecordMatcher {
	return &MetricRecordMatcher{spy: s, kind: "value", metric: metric, labels: map[string]string{}}
}

// MetricRecordMatcher narrows records down by labels.
type MetricRecordMatcher struct {
	spy    *MetricsCollectorSpy
	kind   string
	metric string
	labels map[string]string
}

// WithLabel requires a label value.
func (m *MetricRecordMatcher) WithLabel(key, value string) *MetricRecordMatcher {
	m.labels[key] = value
	return m
}

// WithStatus requires the status label.
func (m *MetricRecordMatcher) WithStatus(status string) *MetricRecordMatcher {
	return m.WithLabel("status", status)
}

// Matches returns all matching records.
func (m *MetricRecordMatcher) Matches() []MetricRecord {
	var matches []MetricRecord

	for _, record := range m.spy.Records() {
		if record.Kind != m.kind || record.Metric != m.metric {
			continue
		}

		matching := true
		for key, value := range m.labels {
			if record.Labels[key] != value {
				matching = false
				break
			}
		}

		if matching {
			matches = append(matches, record)
		}
	}

	return matches
}

// Assert reports whether at least one record matches.
func (m *MetricRecordMatcher) Assert() bool {
	return len(m.Matches()) > 0
}
