package catalog

import (
	"net/http"
	"sync"
	"sync/atomic"
)

// Metrics counts HTTP activity of an HTTPSource.
type Metrics struct {
	Requests atomic.Int64
	Retries  atomic.Int64
	Reads    atomic.Int64 // GET
	Writes   atomic.Int64 // POST/DELETE

	mu        sync.Mutex
	status2xx int64
	status4xx int64
	status5xx int64
}

// MetricsSnapshot is a read-only copy of Metrics.
type MetricsSnapshot struct {
	Requests  int64
	Retries   int64
	Reads     int64
	Writes    int64
	Status2xx int64
	Status4xx int64
	Status5xx int64
}

// incRequest records one attempt; attempt 0 is the first try.
func (m *Metrics) incRequest(method string, attempt int) {
	m.Requests.Add(1)
	if attempt > 0 {
		m.Retries.Add(1)
	}
	switch method {
	case http.MethodGet, http.MethodHead:
		m.Reads.Add(1)
	default:
		m.Writes.Add(1)
	}
}

func (m *Metrics) incStatus(code int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch {
	case code >= 200 && code < 300:
		m.status2xx++
	case code >= 400 && code < 500:
		m.status4xx++
	case code >= 500:
		m.status5xx++
	}
}

func (m *Metrics) Snapshot() MetricsSnapshot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return MetricsSnapshot{
		Requests:  m.Requests.Load(),
		Retries:   m.Retries.Load(),
		Reads:     m.Reads.Load(),
		Writes:    m.Writes.Load(),
		Status2xx: m.status2xx,
		Status4xx: m.status4xx,
		Status5xx: m.status5xx,
	}
}
