package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Counters(t *testing.T) {
	m := NewMetrics(10)

	m.RecordClassification("analytics")
	m.RecordClassification("analytics")
	m.RecordClassification("customer")
	m.RecordCacheHit()
	m.RecordFailure()
	m.RecordLowTier("customer")
	m.RecordDuration("analytics", 10*time.Millisecond)
	m.RecordDuration("analytics", 30*time.Millisecond)

	assert.Equal(t, int64(3), m.GetClassifyTotal())
	assert.Equal(t, int64(1), m.GetClassifyFailed())
	assert.Equal(t, int64(1), m.GetCacheHits())
	assert.Equal(t, int64(20), m.GetAverageDuration("analytics"))
	assert.Equal(t, int64(0), m.GetAverageDuration("unseen"))

	snapshot := m.Snapshot()
	assert.Equal(t, int64(3), snapshot.ClassifyTotal)
	assert.Equal(t, int64(1), snapshot.TopicMetrics["customer"].LowTierCount)
	assert.InDelta(t, 100.0/3.0, snapshot.CacheHitRate(), 1e-9)
	assert.InDelta(t, 200.0/3.0, snapshot.SuccessRate(), 1e-9)
}

func TestMetrics_EmptySnapshot(t *testing.T) {
	m := NewMetrics(0)
	snapshot := m.Snapshot()
	assert.Zero(t, snapshot.CacheHitRate())
	assert.Equal(t, 100.0, snapshot.SuccessRate())
}

func TestMetrics_Reset(t *testing.T) {
	m := NewMetrics(10)
	m.RecordClassification("analytics")
	m.RecordCacheHit()

	m.Reset()
	assert.Zero(t, m.GetClassifyTotal())
	assert.Zero(t, m.GetCacheHits())
	assert.Empty(t, m.Snapshot().TopicMetrics)
}
