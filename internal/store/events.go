package store

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Zachkp/cosmic-portfolio/internal/analytics"
	"github.com/Zachkp/cosmic-portfolio/internal/content"
)

var _ analytics.Sink = (*Store)(nil)

// Record stores an analytics event.
func (s *Store) Record(ctx context.Context, ev content.AnalyticsEvent) error {
	props := "{}"
	if len(ev.Properties) > 0 {
		b, err := json.Marshal(ev.Properties)
		if err != nil {
			return fmt.Errorf("encode event properties: %w", err)
		}
		props = string(b)
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO analytics_events (id, name, category, label, value, page_session_id, path, properties, occurred_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		ev.ID, ev.Name, ev.Category, ev.Label, ev.Value, ev.PageSessionID, ev.Path, props, formatTime(ev.OccurredAt))
	if err != nil {
		return fmt.Errorf("insert analytics event: %w", err)
	}
	return nil
}

// EventCounts returns the most frequent event names.
func (s *Store) EventCounts(ctx context.Context, limit int) ([]EventCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT name, COUNT(*) AS n
		FROM analytics_events
		GROUP BY name
		ORDER BY n DESC, name
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query event counts: %w", err)
	}
	defer rows.Close()

	out := []EventCount{}
	for rows.Next() {
		var c EventCount
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, fmt.Errorf("scan event count: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

// RecentEvents returns the newest events, optionally only those of one
// page session.
func (s *Store) RecentEvents(ctx context.Context, pageSessionID string, limit int) ([]content.AnalyticsEvent, error) {
	query := `
		SELECT id, name, category, label, value, page_session_id, path, properties, occurred_at
		FROM analytics_events`
	args := []any{}
	if pageSessionID != "" {
		query += ` WHERE page_session_id = ?`
		args = append(args, pageSessionID)
	}
	query += ` ORDER BY occurred_at DESC LIMIT ?`
	args = append(args, limit)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query analytics events: %w", err)
	}
	defer rows.Close()

	out := []content.AnalyticsEvent{}
	for rows.Next() {
		var (
			ev           content.AnalyticsEvent
			props, occur string
		)
		if err := rows.Scan(&ev.ID, &ev.Name, &ev.Category, &ev.Label, &ev.Value, &ev.PageSessionID,
			&ev.Path, &props, &occur); err != nil {
			return nil, fmt.Errorf("scan analytics event: %w", err)
		}
		if props != "" && props != "{}" {
			if err := json.Unmarshal([]byte(props), &ev.Properties); err != nil {
				return nil, fmt.Errorf("decode properties for %s: %w", ev.ID, err)
			}
		}
		ev.OccurredAt = parseTime(occur)
		out = append(out, ev)
	}
	return out, rows.Err()
}
