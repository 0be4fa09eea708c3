package analytics

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

var ErrSessionNotFound = errors.New("page session not found")

type SessionConfig struct {
	ScrollQuiescence time.Duration
	Heartbeat        time.Duration
	Idle             time.Duration
}

// PageSession is one page view: a scroll-depth tracker and a time-on-page
// tracker sharing an id.
type PageSession struct {
	ID     string
	Path   string
	Scroll *ScrollDepth
	Time   *TimeOnPage

	mu       sync.Mutex
	lastSeen time.Time
}

func (p *PageSession) touch(now time.Time) {
	p.mu.Lock()
	p.lastSeen = now
	p.mu.Unlock()
}

func (p *PageSession) idleSince() time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.lastSeen
}

// Sessions owns the live page sessions. Each is torn down on End, when
// idle too long, or on Close.
type Sessions struct {
	tracker *Tracker
	cfg     SessionConfig
	log     *logger.Logger

	mu       sync.Mutex
	sessions map[string]*PageSession
}

func NewSessions(tracker *Tracker, cfg SessionConfig, log *logger.Logger) *Sessions {
	return &Sessions{
		tracker:  tracker,
		cfg:      cfg,
		log:      log.With("service", "PageSessions"),
		sessions: make(map[string]*PageSession),
	}
}

// Begin starts a page session. Without consent nothing is created and
// ErrConsentRequired is returned.
func (s *Sessions) Begin(consent Consent, path string) (*PageSession, error) {
	if !consent.Allows() {
		return nil, ErrConsentRequired
	}
	clock := s.tracker.Clock()
	ps := &PageSession{ID: uuid.NewString(), Path: path, lastSeen: clock.Now()}
	emit := s.emitter(ps.ID, path)
	ps.Scroll = NewScrollDepth(clock, s.cfg.ScrollQuiescence, emit)
	ps.Time = NewTimeOnPage(clock, s.cfg.Heartbeat, emit)

	s.mu.Lock()
	s.sessions[ps.ID] = ps
	s.mu.Unlock()

	ps.Time.Start()
	s.log.Debug("Page session started", "page_session_id", ps.ID, "path", path)
	return ps, nil
}

func (s *Sessions) emitter(id, path string) func(Event) {
	return func(ev Event) {
		ev.PageSessionID = id
		ev.Path = path
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.tracker.Track(ctx, ConsentGranted, ev); err != nil {
			s.log.Warn("Failed to record page session event", "event", ev.Name, "error", err)
		}
	}
}

func (s *Sessions) Get(id string) (*PageSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.sessions[id]
	return ps, ok
}

// Scroll feeds a scroll sample to the session and returns any milestones it
// crossed.
func (s *Sessions) Scroll(id string, scrollY, viewportHeight, documentHeight float64) ([]int, error) {
	ps, ok := s.Get(id)
	if !ok {
		return nil, ErrSessionNotFound
	}
	ps.touch(s.tracker.Clock().Now())
	return ps.Scroll.Observe(scrollY, viewportHeight, documentHeight), nil
}

// End tears the session down and reports total time on page.
func (s *Sessions) End(id string) (time.Duration, error) {
	ps, ok := s.remove(id)
	if !ok {
		return 0, ErrSessionNotFound
	}
	ps.Scroll.Stop()
	return ps.Time.Stop(), nil
}

// Discard tears the session down without recording anything further, for
// when consent is withdrawn mid-view.
func (s *Sessions) Discard(id string) {
	ps, ok := s.remove(id)
	if !ok {
		return
	}
	ps.Scroll.Stop()
	ps.Time.Discard()
}

func (s *Sessions) remove(id string) (*PageSession, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ps, ok := s.sessions[id]
	if ok {
		delete(s.sessions, id)
	}
	return ps, ok
}

// Reap discards every session idle longer than the configured window. An
// idle session never sent its unload beacon, so no final time is recorded.
func (s *Sessions) Reap() int {
	cutoff := s.tracker.Clock().Now().Add(-s.cfg.Idle)
	s.mu.Lock()
	var stale []string
	for id, ps := range s.sessions {
		if ps.idleSince().Before(cutoff) {
			stale = append(stale, id)
		}
	}
	s.mu.Unlock()

	for _, id := range stale {
		s.Discard(id)
	}
	if len(stale) > 0 {
		s.log.Debug("Reaped idle page sessions", "count", len(stale))
	}
	return len(stale)
}

// Run reaps idle sessions until ctx is done.
func (s *Sessions) Run(ctx context.Context) {
	interval := s.cfg.Idle / 2
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Reap()
		}
	}
}

func (s *Sessions) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// Close ends every live session.
func (s *Sessions) Close() {
	s.mu.Lock()
	ids := make([]string, 0, len(s.sessions))
	for id := range s.sessions {
		ids = append(ids, id)
	}
	s.mu.Unlock()
	for _, id := range ids {
		_, _ = s.End(id)
	}
}
