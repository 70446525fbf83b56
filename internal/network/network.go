// Package network tracks connectivity so the sync layer can choose
// between cached-first and fresh-first read policies.
package network

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"
)

// Checker answers the one-shot "are we online" question.
type Checker interface {
	Online(ctx context.Context) bool
}

// Monitor probes a well-known URL on an interval and publishes
// online/offline transitions to subscribers. The platform shell can
// override the probed state through Set when it has better signal,
// such as an OS connectivity event.
type Monitor struct {
	client   *http.Client
	probeURL string
	interval time.Duration
	logger   *slog.Logger

	mu     sync.Mutex
	online bool
	manual bool
	subs   map[int]chan bool
	nextID int
}

// NewMonitor creates a monitor probing probeURL every interval.
func NewMonitor(probeURL string, interval time.Duration, logger *slog.Logger) *Monitor {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Monitor{
		client:   &http.Client{Timeout: 5 * time.Second},
		probeURL: probeURL,
		interval: interval,
		logger:   logger,
		online:   true,
		subs:     make(map[int]chan bool),
	}
}

// Online reports current connectivity. When the shell has set the
// state manually that value wins; otherwise a live probe runs.
func (m *Monitor) Online(ctx context.Context) bool {
	m.mu.Lock()
	if m.manual {
		online := m.online
		m.mu.Unlock()
		return online
	}
	m.mu.Unlock()

	online := m.probe(ctx)
	m.publish(online)
	return online
}

// Set overrides the probed state. Used by tests and by platform glue
// that receives OS-level connectivity events.
func (m *Monitor) Set(online bool) {
	m.mu.Lock()
	m.manual = true
	m.mu.Unlock()
	m.publish(online)
}

// Subscribe returns a channel receiving connectivity transitions and a
// cancel func that must be called to release it. The channel only
// carries changes, not every probe result.
func (m *Monitor) Subscribe() (<-chan bool, func()) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := m.nextID
	m.nextID++
	ch := make(chan bool, 1)
	m.subs[id] = ch

	return ch, func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		delete(m.subs, id)
	}
}

// Run probes on the configured interval until ctx is cancelled.
func (m *Monitor) Run(ctx context.Context) {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.mu.Lock()
			manual := m.manual
			m.mu.Unlock()
			if manual {
				continue
			}
			m.publish(m.probe(ctx))
		}
	}
}

func (m *Monitor) probe(ctx context.Context) bool {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, m.probeURL, nil)
	if err != nil {
		return false
	}
	resp, err := m.client.Do(req)
	if err != nil {
		return false
	}
	_ = resp.Body.Close()
	return resp.StatusCode < http.StatusInternalServerError
}

// publish records the state and notifies subscribers on transitions.
func (m *Monitor) publish(online bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if online == m.online {
		return
	}
	m.online = online
	m.logger.Info("connectivity changed", "online", online)

	for _, ch := range m.subs {
		select {
		case ch <- online:
		default:
			// Slow subscriber keeps its stale notification slot.
		}
	}
}
