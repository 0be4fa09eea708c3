package analytics

import (
	"sync"
	"time"
)

const (
	EventHeartbeat  = "time_on_page_heartbeat"
	EventTimeOnPage = "time_on_page"
)

// TimeOnPage emits a heartbeat every interval while running and one final
// event with the total when stopped.
type TimeOnPage struct {
	clock    Clock
	interval time.Duration
	emit     func(Event)

	mu      sync.Mutex
	started time.Time
	ticker  Ticker
	done    chan struct{}
	wg      sync.WaitGroup
	running bool
	ended   bool
}

func NewTimeOnPage(clock Clock, interval time.Duration, emit func(Event)) *TimeOnPage {
	return &TimeOnPage{clock: clock, interval: interval, emit: emit}
}

func (t *TimeOnPage) Start() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.running || t.ended {
		return
	}
	t.running = true
	t.started = t.clock.Now()
	t.ticker = t.clock.NewTicker(t.interval)
	t.done = make(chan struct{})

	t.wg.Add(1)
	go t.loop(t.ticker, t.done, t.started)
}

func (t *TimeOnPage) loop(ticker Ticker, done <-chan struct{}, started time.Time) {
	defer t.wg.Done()
	for {
		select {
		case <-done:
			return
		case <-ticker.C():
			secs := t.clock.Now().Sub(started).Seconds()
			t.emit(Event{
				Name:       EventHeartbeat,
				Category:   "engagement",
				Value:      secs,
				Properties: map[string]any{"seconds": secs},
			})
		}
	}
}

// Stop ends tracking and emits the total once. Later calls return zero.
func (t *TimeOnPage) Stop() time.Duration {
	return t.stop(true)
}

// Discard ends tracking without the final event.
func (t *TimeOnPage) Discard() {
	t.stop(false)
}

func (t *TimeOnPage) stop(report bool) time.Duration {
	t.mu.Lock()
	if !t.running {
		t.ended = true
		t.mu.Unlock()
		return 0
	}
	t.running = false
	t.ended = true
	t.ticker.Stop()
	close(t.done)
	started := t.started
	t.mu.Unlock()

	t.wg.Wait()
	total := t.clock.Now().Sub(started)
	if report {
		secs := total.Seconds()
		t.emit(Event{
			Name:       EventTimeOnPage,
			Category:   "engagement",
			Value:      secs,
			Properties: map[string]any{"seconds": secs},
		})
	}
	return total
}
