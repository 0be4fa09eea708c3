package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

type ContactMessage struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Subject   string    `json:"subject"`
	Message   string    `json:"message"`
	HashedIP  string    `json:"hashed_ip,omitempty"`
	Delivered bool      `json:"delivered"`
	CreatedAt time.Time `json:"created_at"`
}

// SaveContactMessage stores m, assigning an id and creation time when they
// are missing, and returns the stored copy.
func (s *Store) SaveContactMessage(ctx context.Context, m ContactMessage) (ContactMessage, error) {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_messages (id, name, email, subject, message, hashed_ip, delivered, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.Name, m.Email, m.Subject, m.Message, m.HashedIP, boolInt(m.Delivered), formatTime(m.CreatedAt))
	if err != nil {
		return m, fmt.Errorf("save contact message: %w", err)
	}
	return m, nil
}

func (s *Store) MarkDelivered(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `UPDATE contact_messages SET delivered = 1 WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("mark message %s delivered: %w", id, err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("contact message %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *Store) ListContactMessages(ctx context.Context, limit int) ([]ContactMessage, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, email, subject, message, hashed_ip, delivered, created_at
		FROM contact_messages
		ORDER BY created_at DESC
		LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query contact messages: %w", err)
	}
	defer rows.Close()

	out := []ContactMessage{}
	for rows.Next() {
		var (
			m         ContactMessage
			delivered int
			created   string
		)
		if err := rows.Scan(&m.ID, &m.Name, &m.Email, &m.Subject, &m.Message, &m.HashedIP, &delivered, &created); err != nil {
			return nil, fmt.Errorf("scan contact message: %w", err)
		}
		m.Delivered = delivered == 1
		m.CreatedAt = parseTime(created)
		out = append(out, m)
	}
	return out, rows.Err()
}
