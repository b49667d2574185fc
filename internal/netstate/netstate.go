// Package netstate tracks whether the backing service is reachable.
package netstate

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/hashicorp/go-retryablehttp"

	"listkit/internal/infra/logx"
)

// Monitor holds the last known connectivity. It starts connected and is
// safe for concurrent use.
type Monitor struct {
	down    atomic.Bool
	offline atomic.Bool // manual override
}

func NewMonitor() *Monitor { return &Monitor{} }

// Connected reports the probed state unless the offline override is on.
func (m *Monitor) Connected() bool {
	return !m.offline.Load() && !m.down.Load()
}

// Set records a probe result and reports whether it differs from the last one.
func (m *Monitor) Set(connected bool) (changed bool) {
	return m.down.Swap(!connected) != !connected
}

// ToggleOffline flips the manual override and returns the new value.
func (m *Monitor) ToggleOffline() bool {
	for {
		old := m.offline.Load()
		if m.offline.CompareAndSwap(old, !old) {
			return !old
		}
	}
}

func (m *Monitor) Offline() bool { return m.offline.Load() }

// Checker reports whether the service is reachable.
type Checker interface {
	Check(ctx context.Context) error
}

// Prober checks a /healthz endpoint.
type Prober struct {
	url   string
	token string
	http  *http.Client
}

// NewProber probes baseURL + "/healthz" with one retry.
func NewProber(baseURL, token string, timeout time.Duration) *Prober {
	if timeout <= 0 {
		timeout = 2 * time.Second
	}
	rc := retryablehttp.NewClient()
	rc.HTTPClient.Timeout = timeout
	rc.RetryMax = 1
	rc.RetryWaitMin = 100 * time.Millisecond
	rc.RetryWaitMax = 500 * time.Millisecond
	rc.Logger = logx.Leveled{}
	return &Prober{
		url:   strings.TrimSuffix(baseURL, "/") + "/healthz",
		token: token,
		http:  rc.StandardClient(),
	}
}

func (p *Prober) Check(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return err
	}
	if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}
	res, err := p.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return fmt.Errorf("healthz status %s", res.Status)
	}
	return nil
}

// StatusMsg carries one probe result.
type StatusMsg struct {
	Connected bool
	Changed   bool
	Err       error
}

// ProbeCmd probes once, records the result on m and emits a StatusMsg.
func ProbeCmd(ctx context.Context, c Checker, m *Monitor) tea.Cmd {
	return func() tea.Msg {
		err := c.Check(ctx)
		changed := m.Set(err == nil)
		if changed {
			if err != nil {
				logx.Warnf("netstate: offline: %v", err)
			} else {
				logx.Infof("netstate: back online")
			}
		}
		return StatusMsg{Connected: err == nil, Changed: changed, Err: err}
	}
}

// WatchCmd waits interval and then probes. The host re-arms it on every
// StatusMsg.
func WatchCmd(ctx context.Context, interval time.Duration, c Checker, m *Monitor) tea.Cmd {
	probe := ProbeCmd(ctx, c, m)
	return tea.Tick(interval, func(time.Time) tea.Msg { return probe() })
}
