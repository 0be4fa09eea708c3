package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

func newTestSessions(clock Clock, sink Sink) *Sessions {
	cfg := SessionConfig{ScrollQuiescence: time.Second, Heartbeat: 30 * time.Second, Idle: 10 * time.Minute}
	return NewSessions(NewTracker(sink, clock, logger.Nop()), cfg, logger.Nop())
}

func TestSessionsRequireConsent(t *testing.T) {
	s := newTestSessions(newFakeClock(), &memorySink{})
	defer s.Close()

	for _, c := range []Consent{ConsentUnset, ConsentDenied} {
		ps, err := s.Begin(c, "/")
		assert.ErrorIs(t, err, ErrConsentRequired)
		assert.Nil(t, ps)
	}
	assert.Zero(t, s.Len())
}

func TestSessionLifecycle(t *testing.T) {
	clock := newFakeClock()
	sink := &memorySink{}
	s := newTestSessions(clock, sink)
	defer s.Close()

	ps, err := s.Begin(ConsentGranted, "/projects")
	require.NoError(t, err)
	assert.Equal(t, 1, s.Len())

	crossed, err := s.Scroll(ps.ID, 900, 100, 1000)
	require.NoError(t, err)
	assert.Equal(t, []int{25, 50, 75, 100}, crossed)

	clock.Advance(2 * time.Second)
	require.Len(t, sink.named(EventScrollStopped), 1)

	total, err := s.End(ps.ID)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, total)
	assert.Zero(t, s.Len())

	final := sink.named(EventTimeOnPage)
	require.Len(t, final, 1)
	assert.Equal(t, ps.ID, final[0].PageSessionID)
	assert.Equal(t, "/projects", final[0].Path)
	assert.Len(t, sink.named(EventScrollDepth), 4)

	_, err = s.End(ps.ID)
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = s.Scroll(ps.ID, 0, 0, 0)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}

func TestSessionDiscardRecordsNothingMore(t *testing.T) {
	clock := newFakeClock()
	sink := &memorySink{}
	s := newTestSessions(clock, sink)

	ps, err := s.Begin(ConsentGranted, "/")
	require.NoError(t, err)
	s.Discard(ps.ID)
	clock.Advance(time.Hour)

	assert.Empty(t, sink.all())
	assert.Zero(t, s.Len())
}

func TestReapDiscardsIdleSessions(t *testing.T) {
	clock := newFakeClock()
	sink := &memorySink{}
	s := newTestSessions(clock, sink)
	defer s.Close()

	idle, err := s.Begin(ConsentGranted, "/")
	require.NoError(t, err)
	clock.Advance(6 * time.Minute)
	active, err := s.Begin(ConsentGranted, "/about")
	require.NoError(t, err)

	clock.Advance(5 * time.Minute)
	assert.Equal(t, 1, s.Reap())

	_, ok := s.Get(idle.ID)
	assert.False(t, ok)
	_, ok = s.Get(active.ID)
	assert.True(t, ok)
	assert.Empty(t, sink.named(EventTimeOnPage))

	heartbeats := len(sink.named(EventHeartbeat))
	clock.Advance(time.Minute)
	for _, ev := range sink.named(EventHeartbeat)[heartbeats:] {
		assert.NotEqual(t, idle.ID, ev.PageSessionID)
	}
}
