package session

import (
	"sync"
	"time"
)

// Ticker delivers discrete tick times until stopped.
type Ticker interface {
	// C returns the channel ticks are delivered on.
	C() <-chan time.Time
	// Stop releases the ticker. No ticks are delivered after Stop returns.
	Stop()
}

// Scheduler creates tickers.
type Scheduler interface {
	Every(interval time.Duration) Ticker
}

// ClockScheduler ticks on the wall clock.
type ClockScheduler struct{}

// Every returns a ticker backed by time.Ticker.
func (ClockScheduler) Every(interval time.Duration) Ticker {
	return &clockTicker{t: time.NewTicker(interval)}
}

type clockTicker struct {
	t *time.Ticker
}

func (c *clockTicker) C() <-chan time.Time { return c.t.C }
func (c *clockTicker) Stop()               { c.t.Stop() }

// ManualScheduler fires ticks only when Fire is called. Used by tests to step
// a task deterministically.
type ManualScheduler struct {
	mu      sync.Mutex
	tickers []*manualTicker
	created chan struct{}
}

// NewManualScheduler creates a ManualScheduler.
func NewManualScheduler() *ManualScheduler {
	return &ManualScheduler{created: make(chan struct{}, 1)}
}

// Every registers a new ticker. The interval is ignored.
func (m *ManualScheduler) Every(time.Duration) Ticker {
	t := &manualTicker{
		ch:   make(chan time.Time),
		done: make(chan struct{}),
	}
	m.mu.Lock()
	m.tickers = append(m.tickers, t)
	m.mu.Unlock()

	select {
	case m.created <- struct{}{}:
	default:
	}
	return t
}

// WaitForTicker blocks until at least one ticker has been created.
func (m *ManualScheduler) WaitForTicker() {
	m.mu.Lock()
	n := len(m.tickers)
	m.mu.Unlock()
	if n > 0 {
		return
	}
	<-m.created
}

// Fire delivers one tick to every live ticker and waits for each receiver to
// take it. It returns the number of tickers that received the tick.
func (m *ManualScheduler) Fire() int {
	m.mu.Lock()
	tickers := append([]*manualTicker(nil), m.tickers...)
	m.mu.Unlock()

	now := time.Now()
	delivered := 0
	for _, t := range tickers {
		select {
		case t.ch <- now:
			delivered++
		case <-t.done:
		}
	}
	return delivered
}

type manualTicker struct {
	ch       chan time.Time
	done     chan struct{}
	stopOnce sync.Once
}

func (t *manualTicker) C() <-chan time.Time { return t.ch }

func (t *manualTicker) Stop() {
	t.stopOnce.Do(func() { close(t.done) })
}
