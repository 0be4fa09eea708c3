package analytics

import (
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recorder struct {
	mu     sync.Mutex
	events []Event
}

func (r *recorder) emit(ev Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, ev)
}

func (r *recorder) count(name string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for _, ev := range r.events {
		if ev.Name == name {
			n++
		}
	}
	return n
}

func (r *recorder) last(name string) (Event, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := len(r.events) - 1; i >= 0; i-- {
		if r.events[i].Name == name {
			return r.events[i], true
		}
	}
	return Event{}, false
}

func TestScrollPercent(t *testing.T) {
	cases := []struct {
		y, vh, dh float64
		want      float64
	}{
		{0, 800, 1800, 0},
		{500, 800, 1800, 50},
		{1000, 800, 1800, 100},
		{1500, 800, 1800, 100},
		{-20, 800, 1800, 0},
		{0, 800, 600, 100},
	}
	for _, tc := range cases {
		assert.InDelta(t, tc.want, ScrollPercent(tc.y, tc.vh, tc.dh), 0.001)
	}
}

func TestScrollMilestonesFireOnce(t *testing.T) {
	rec := &recorder{}
	sd := NewScrollDepth(newFakeClock(), time.Second, rec.emit)
	defer sd.Stop()

	assert.Equal(t, []int{25}, sd.Observe(260, 0, 1000))
	assert.Nil(t, sd.Observe(100, 0, 1000), "scrolling back up fires nothing")
	assert.Nil(t, sd.Observe(260, 0, 1000), "re-crossing 25 fires nothing")
	assert.Equal(t, []int{50, 75}, sd.Observe(800, 0, 1000))
	assert.Equal(t, []int{100}, sd.Observe(1000, 0, 1000))
	assert.Nil(t, sd.Observe(1000, 0, 1000))

	assert.Equal(t, 4, rec.count(EventScrollDepth))
	assert.InDelta(t, 100, sd.MaxDepth(), 0.001)
}

func TestScrollMaxIsMonotonic(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	rec := &recorder{}
	sd := NewScrollDepth(newFakeClock(), time.Second, rec.emit)
	defer sd.Stop()

	fired := map[int]int{}
	prev := 0.0
	for i := 0; i < 2000; i++ {
		for _, m := range sd.Observe(rng.Float64()*3000-200, 700, 3000) {
			fired[m]++
		}
		cur := sd.MaxDepth()
		require.GreaterOrEqual(t, cur, prev)
		prev = cur
	}
	for _, m := range Milestones {
		assert.LessOrEqual(t, fired[m], 1, "milestone %d", m)
	}
}

func TestScrollStoppedAfterQuiescence(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	sd := NewScrollDepth(clock, time.Second, rec.emit)
	defer sd.Stop()

	sd.Observe(300, 0, 1000)
	clock.Advance(600 * time.Millisecond)
	sd.Observe(600, 0, 1000)
	clock.Advance(600 * time.Millisecond)
	assert.Equal(t, 0, rec.count(EventScrollStopped), "a new scroll re-arms the quiet window")

	clock.Advance(500 * time.Millisecond)
	require.Equal(t, 1, rec.count(EventScrollStopped))
	ev, _ := rec.last(EventScrollStopped)
	assert.InDelta(t, 60, ev.Properties["max_depth"].(float64), 0.001)

	clock.Advance(5 * time.Second)
	assert.Equal(t, 1, rec.count(EventScrollStopped), "only one event per pause")
}

func TestScrollStopCancelsPendingEvent(t *testing.T) {
	clock := newFakeClock()
	rec := &recorder{}
	sd := NewScrollDepth(clock, time.Second, rec.emit)

	sd.Observe(300, 0, 1000)
	sd.Stop()
	clock.Advance(2 * time.Second)
	assert.Equal(t, 0, rec.count(EventScrollStopped))
	assert.Nil(t, sd.Observe(1000, 0, 1000))
}
