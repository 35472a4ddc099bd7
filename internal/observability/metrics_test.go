package observability

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestMetrics_Snapshot(t *testing.T) {
	m := NewMetrics()
	m.RecordRequest("/api/news", "GET", 200, 10*time.Millisecond)
	m.RecordRequest("/api/news", "GET", 200, 30*time.Millisecond)
	m.RecordError("/api/news", "POST", "FORBIDDEN")

	snap := m.Snapshot()
	assert.Equal(t, int64(2), snap.Requests["/api/news|GET|200"])
	assert.Equal(t, int64(20), snap.AvgLatencyMS["/api/news|GET|200"])
	assert.Equal(t, int64(1), snap.Errors["/api/news|POST|FORBIDDEN"])

	// snapshots are copies
	snap.Requests["/api/news|GET|200"] = 99
	assert.Equal(t, int64(2), m.Snapshot().Requests["/api/news|GET|200"])
}

func TestMetrics_NilSafe(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.RecordRequest("/", "GET", 200, time.Millisecond)
		m.RecordError("/", "GET", "X")
	})
}
