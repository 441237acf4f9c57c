package observability

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics aggregates counters for the classification pipeline.
type Metrics struct {
	mu sync.Mutex

	classifyTotal  atomic.Int64
	classifyFailed atomic.Int64
	cacheHits      atomic.Int64
	llmRefinements atomic.Int64

	topicMetrics map[string]*TopicMetrics

	durations    []time.Duration
	maxDurations int
}

// TopicMetrics tracks per-topic classification counts and latency.
type TopicMetrics struct {
	classifyCount atomic.Int64
	totalDuration atomic.Int64 // milliseconds
	lowTierCount  atomic.Int64
}

// NewMetrics creates a metrics collector keeping at most maxDurations samples.
func NewMetrics(maxDurations int) *Metrics {
	if maxDurations <= 0 {
		maxDurations = 1000
	}
	return &Metrics{
		topicMetrics: make(map[string]*TopicMetrics),
		durations:    make([]time.Duration, 0, maxDurations),
		maxDurations: maxDurations,
	}
}

var globalMetrics = NewMetrics(1000)

// GlobalMetrics returns the process-wide metrics instance.
func GlobalMetrics() *Metrics {
	return globalMetrics
}

// RecordClassification records one classification for a topic.
func (m *Metrics) RecordClassification(topic string) {
	m.classifyTotal.Add(1)
	m.getTopicMetrics(topic).classifyCount.Add(1)
}

// RecordFailure records a failed classification request.
func (m *Metrics) RecordFailure() {
	m.classifyFailed.Add(1)
}

// RecordCacheHit records a classification served from cache.
func (m *Metrics) RecordCacheHit() {
	m.cacheHits.Add(1)
}

// RecordLLMRefinement records a heuristic result refined by the LLM.
func (m *Metrics) RecordLLMRefinement() {
	m.llmRefinements.Add(1)
}

// RecordLowTier records a classification that landed in the low tier.
func (m *Metrics) RecordLowTier(topic string) {
	m.getTopicMetrics(topic).lowTierCount.Add(1)
}

// RecordDuration records a classification duration for a topic.
func (m *Metrics) RecordDuration(topic string, duration time.Duration) {
	m.mu.Lock()
	if len(m.durations) >= m.maxDurations {
		m.durations = m.durations[1:]
	}
	m.durations = append(m.durations, duration)
	m.mu.Unlock()

	m.getTopicMetrics(topic).totalDuration.Add(duration.Milliseconds())
}

// GetClassifyTotal returns the total number of classifications.
func (m *Metrics) GetClassifyTotal() int64 {
	return m.classifyTotal.Load()
}

// GetClassifyFailed returns the number of failed classification requests.
func (m *Metrics) GetClassifyFailed() int64 {
	return m.classifyFailed.Load()
}

// GetCacheHits returns the number of cache hits.
func (m *Metrics) GetCacheHits() int64 {
	return m.cacheHits.Load()
}

func (m *Metrics) getTopicMetrics(topic string) *TopicMetrics {
	m.mu.Lock()
	defer m.mu.Unlock()

	tm, ok := m.topicMetrics[topic]
	if !ok {
		tm = &TopicMetrics{}
		m.topicMetrics[topic] = tm
	}
	return tm
}

// GetAverageDuration returns the average duration in milliseconds for a topic.
func (m *Metrics) GetAverageDuration(topic string) int64 {
	tm := m.getTopicMetrics(topic)
	count := tm.classifyCount.Load()
	if count == 0 {
		return 0
	}
	return tm.totalDuration.Load() / count
}

// Reset clears all metrics, for tests.
func (m *Metrics) Reset() {
	m.classifyTotal.Store(0)
	m.classifyFailed.Store(0)
	m.cacheHits.Store(0)
	m.llmRefinements.Store(0)

	m.mu.Lock()
	m.topicMetrics = make(map[string]*TopicMetrics)
	m.durations = make([]time.Duration, 0, m.maxDurations)
	m.mu.Unlock()
}

// Snapshot returns a point-in-time copy of the current metrics.
func (m *Metrics) Snapshot() *MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	topics := make(map[string]*TopicMetricsSnapshot, len(m.topicMetrics))
	for topic, tm := range m.topicMetrics {
		count := tm.classifyCount.Load()
		avg := int64(0)
		if count > 0 {
			avg = tm.totalDuration.Load() / count
		}
		topics[topic] = &TopicMetricsSnapshot{
			ClassifyCount:   count,
			TotalDuration:   tm.totalDuration.Load(),
			LowTierCount:    tm.lowTierCount.Load(),
			AverageDuration: avg,
		}
	}

	return &MetricsSnapshot{
		ClassifyTotal:  m.classifyTotal.Load(),
		ClassifyFailed: m.classifyFailed.Load(),
		CacheHits:      m.cacheHits.Load(),
		LLMRefinements: m.llmRefinements.Load(),
		TopicMetrics:   topics,
		DurationCount:  len(m.durations),
	}
}

// MetricsSnapshot is a point-in-time snapshot of metrics.
type MetricsSnapshot struct {
	ClassifyTotal  int64                            `json:"classify_total"`
	ClassifyFailed int64                            `json:"classify_failed"`
	CacheHits      int64                            `json:"cache_hits"`
	LLMRefinements int64                            `json:"llm_refinements"`
	TopicMetrics   map[string]*TopicMetricsSnapshot `json:"topic_metrics"`
	DurationCount  int                              `json:"duration_count"`
}

// TopicMetricsSnapshot is a snapshot of per-topic metrics.
type TopicMetricsSnapshot struct {
	ClassifyCount   int64 `json:"classify_count"`
	TotalDuration   int64 `json:"total_duration_ms"`
	LowTierCount    int64 `json:"low_tier_count"`
	AverageDuration int64 `json:"average_duration_ms"`
}

// CacheHitRate returns the cache hit rate as a percentage.
func (s *MetricsSnapshot) CacheHitRate() float64 {
	if s.ClassifyTotal == 0 {
		return 0
	}
	return float64(s.CacheHits) / float64(s.ClassifyTotal) * 100.0
}

// SuccessRate returns the success rate as a percentage.
func (s *MetricsSnapshot) SuccessRate() float64 {
	if s.ClassifyTotal == 0 {
		return 100.0
	}
	return float64(s.ClassifyTotal-s.ClassifyFailed) / float64(s.ClassifyTotal) * 100.0
}
