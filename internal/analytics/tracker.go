package analytics

import (
	"context"
	"errors"
	"fmt"
	"maps"
	"time"

	"github.com/google/uuid"

	"github.com/Zachkp/cosmic-portfolio/internal/content"
	"github.com/Zachkp/cosmic-portfolio/internal/platform/logger"
)

var ErrConsentRequired = errors.New("analytics consent not granted")

// Event is a tracking call before it is stamped and stored.
type Event struct {
	Name          string         `json:"name"`
	Category      string         `json:"category,omitempty"`
	Label         string         `json:"label,omitempty"`
	Value         float64        `json:"value,omitempty"`
	PageSessionID string         `json:"page_session_id,omitempty"`
	Path          string         `json:"path,omitempty"`
	Properties    map[string]any `json:"properties,omitempty"`
}

// Sink persists recorded events.
type Sink interface {
	Record(ctx context.Context, ev content.AnalyticsEvent) error
}

// Tracker is the base tracking call every other tracker forwards to.
type Tracker struct {
	sink  Sink
	clock Clock
	log   *logger.Logger
}

func NewTracker(sink Sink, clock Clock, log *logger.Logger) *Tracker {
	if clock == nil {
		clock = SystemClock{}
	}
	return &Tracker{sink: sink, clock: clock, log: log.With("service", "AnalyticsTracker")}
}

func (t *Tracker) Clock() Clock { return t.clock }

// Track records ev when consent allows it and is a no-op otherwise.
func (t *Tracker) Track(ctx context.Context, consent Consent, ev Event) error {
	if !consent.Allows() {
		return nil
	}
	rec := content.AnalyticsEvent{
		ID:            uuid.NewString(),
		Name:          ev.Name,
		Category:      ev.Category,
		Label:         ev.Label,
		Value:         ev.Value,
		PageSessionID: ev.PageSessionID,
		Path:          ev.Path,
		Properties:    ev.Properties,
		OccurredAt:    t.clock.Now().UTC(),
	}
	if err := content.Validate(rec); err != nil {
		return fmt.Errorf("invalid analytics event %q: %w", ev.Name, err)
	}
	if err := t.sink.Record(ctx, rec); err != nil {
		return fmt.Errorf("record analytics event %q: %w", ev.Name, err)
	}
	return nil
}

// ClientInfo describes the browser an event came from.
type ClientInfo struct {
	ViewportWidth  int    `json:"viewport_width"`
	ViewportHeight int    `json:"viewport_height"`
	DocumentWidth  int    `json:"document_width"`
	DocumentHeight int    `json:"document_height"`
	UserAgent      string `json:"-"`
}

// ISOTimestamp matches the millisecond UTC form browsers produce.
const ISOTimestamp = "2006-01-02T15:04:05.000Z07:00"

// Enricher adds client dimensions, the user agent and a timestamp to every
// event before passing it to the Tracker.
type Enricher struct {
	tracker *Tracker
}

func NewEnricher(tracker *Tracker) *Enricher {
	return &Enricher{tracker: tracker}
}

func (e *Enricher) Track(ctx context.Context, consent Consent, ev Event, info ClientInfo) error {
	if !consent.Allows() {
		return nil
	}
	ev.Properties = Enrich(ev.Properties, info, e.tracker.clock.Now())
	return e.tracker.Track(ctx, consent, ev)
}

// Enrich returns a copy of props with the client fields set.
func Enrich(props map[string]any, info ClientInfo, now time.Time) map[string]any {
	out := make(map[string]any, len(props)+6)
	maps.Copy(out, props)
	out["viewport_width"] = info.ViewportWidth
	out["viewport_height"] = info.ViewportHeight
	out["document_width"] = info.DocumentWidth
	out["document_height"] = info.DocumentHeight
	out["user_agent"] = info.UserAgent
	out["timestamp"] = now.UTC().Format(ISOTimestamp)
	return out
}
