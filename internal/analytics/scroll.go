package analytics

import (
	"fmt"
	"sync"
	"time"
)

// Milestones are the scroll-depth percentages reported once each.
var Milestones = [...]int{25, 50, 75, 100}

const (
	EventScrollDepth   = "scroll_depth"
	EventScrollStopped = "scroll_stopped"
)

// ScrollPercent is how far through the scrollable part of the page the
// viewport is, clamped to [0, 100]. A page that does not scroll counts as
// fully read.
func ScrollPercent(scrollY, viewportHeight, documentHeight float64) float64 {
	scrollable := documentHeight - viewportHeight
	if scrollable <= 0 {
		return 100
	}
	pct := scrollY / scrollable * 100
	switch {
	case pct < 0:
		return 0
	case pct > 100:
		return 100
	default:
		return pct
	}
}

// ScrollDepth keeps the running maximum scroll depth of one page view.
// The maximum never decreases and each milestone fires at most once. After
// quiet elapses with no observation it emits a scroll_stopped event.
type ScrollDepth struct {
	clock Clock
	quiet time.Duration
	emit  func(Event)

	mu      sync.Mutex
	max     float64
	fired   [len(Milestones)]bool
	timer   Timer
	stopped bool
}

func NewScrollDepth(clock Clock, quiet time.Duration, emit func(Event)) *ScrollDepth {
	return &ScrollDepth{clock: clock, quiet: quiet, emit: emit}
}

// Observe feeds one scroll position and returns the milestones it crossed.
func (s *ScrollDepth) Observe(scrollY, viewportHeight, documentHeight float64) []int {
	pct := ScrollPercent(scrollY, viewportHeight, documentHeight)

	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	if pct > s.max {
		s.max = pct
	}
	var crossed []int
	for i, m := range Milestones {
		if !s.fired[i] && s.max >= float64(m) {
			s.fired[i] = true
			crossed = append(crossed, m)
		}
	}
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = s.clock.AfterFunc(s.quiet, s.quiesce)
	s.mu.Unlock()

	for _, m := range crossed {
		s.emit(Event{
			Name:       EventScrollDepth,
			Category:   "engagement",
			Label:      fmt.Sprintf("%d%%", m),
			Value:      float64(m),
			Properties: map[string]any{"depth": m},
		})
	}
	return crossed
}

func (s *ScrollDepth) quiesce() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.timer = nil
	depth := s.max
	s.mu.Unlock()

	s.emit(Event{
		Name:       EventScrollStopped,
		Category:   "engagement",
		Value:      depth,
		Properties: map[string]any{"max_depth": depth},
	})
}

func (s *ScrollDepth) MaxDepth() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.max
}

// Stop cancels a pending scroll_stopped event. Later observations are
// ignored.
func (s *ScrollDepth) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}
