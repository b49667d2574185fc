package catalog

import (
	"net/http"
	"sync"
	"testing"
)

func TestMetricsCounts(t *testing.T) {
	var m Metrics
	m.incRequest(http.MethodGet, 0)
	m.incRequest(http.MethodGet, 1)
	m.incRequest(http.MethodPost, 0)
	m.incStatus(200)
	m.incStatus(404)
	m.incStatus(503)
	m.incStatus(302)

	want := MetricsSnapshot{Requests: 3, Retries: 1, Reads: 2, Writes: 1, Status2xx: 1, Status4xx: 1, Status5xx: 1}
	if got := m.Snapshot(); got != want {
		t.Fatalf("snapshot = %+v, want %+v", got, want)
	}
}

func TestMetricsConcurrent(t *testing.T) {
	var m Metrics
	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			m.incRequest(http.MethodDelete, 0)
			m.incStatus(204)
		}()
	}
	wg.Wait()
	s := m.Snapshot()
	if s.Requests != 50 || s.Writes != 50 || s.Status2xx != 50 {
		t.Fatalf("unexpected snapshot %+v", s)
	}
}
