package store

import (
	"context"
	"fmt"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS contact_info (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		title TEXT NOT NULL DEFAULT '',
		email TEXT NOT NULL,
		phone TEXT NOT NULL DEFAULT '',
		location TEXT NOT NULL DEFAULT '',
		bio TEXT NOT NULL DEFAULT '',
		avatar_url TEXT NOT NULL DEFAULT '',
		resume_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS social_profiles (
		id TEXT PRIMARY KEY,
		contact_info_id TEXT NOT NULL REFERENCES contact_info(id) ON DELETE CASCADE,
		platform TEXT NOT NULL,
		url TEXT NOT NULL,
		username TEXT NOT NULL DEFAULT '',
		icon TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		visible INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS skill_categories (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		description TEXT NOT NULL DEFAULT '',
		sort_order INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS skills (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category_id TEXT NOT NULL REFERENCES skill_categories(id) ON DELETE CASCADE,
		proficiency INTEGER NOT NULL CHECK (proficiency BETWEEN 0 AND 100),
		years_of_experience REAL NOT NULL DEFAULT 0,
		icon TEXT NOT NULL DEFAULT '',
		featured INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS projects (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		summary TEXT NOT NULL,
		description TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL CHECK (status IN ('planning', 'in_progress', 'completed', 'archived')),
		repo_url TEXT NOT NULL DEFAULT '',
		demo_url TEXT NOT NULL DEFAULT '',
		image_url TEXT NOT NULL DEFAULT '',
		featured INTEGER NOT NULL DEFAULT 0,
		start_date TEXT,
		end_date TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS project_skills (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		skill_id TEXT NOT NULL REFERENCES skills(id) ON DELETE CASCADE,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, skill_id)
	)`,
	`CREATE TABLE IF NOT EXISTS related_projects (
		project_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		related_id TEXT NOT NULL REFERENCES projects(id) ON DELETE CASCADE,
		position INTEGER NOT NULL DEFAULT 0,
		PRIMARY KEY (project_id, related_id),
		CHECK (project_id <> related_id)
	)`,
	`CREATE TABLE IF NOT EXISTS experiences (
		id TEXT PRIMARY KEY,
		contact_info_id TEXT NOT NULL REFERENCES contact_info(id) ON DELETE CASCADE,
		company TEXT NOT NULL,
		role TEXT NOT NULL,
		employment_type TEXT NOT NULL,
		location TEXT NOT NULL DEFAULT '',
		start_date TEXT NOT NULL,
		end_date TEXT,
		current INTEGER NOT NULL DEFAULT 0,
		highlights TEXT NOT NULL DEFAULT '[]',
		logo_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS certifications (
		id TEXT PRIMARY KEY,
		contact_info_id TEXT NOT NULL REFERENCES contact_info(id) ON DELETE CASCADE,
		name TEXT NOT NULL,
		issuer TEXT NOT NULL,
		issued_at TEXT NOT NULL,
		expires_at TEXT,
		credential_id TEXT NOT NULL DEFAULT '',
		credential_url TEXT NOT NULL DEFAULT '',
		logo_url TEXT NOT NULL DEFAULT '',
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS blog_posts (
		id TEXT PRIMARY KEY,
		title TEXT NOT NULL,
		slug TEXT NOT NULL UNIQUE,
		excerpt TEXT NOT NULL DEFAULT '',
		body TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL CHECK (status IN ('draft', 'published', 'archived')),
		tags TEXT NOT NULL DEFAULT '[]',
		published_at TEXT,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS site_metadata (
		id INTEGER PRIMARY KEY CHECK (id = 1),
		site_name TEXT NOT NULL,
		site_url TEXT NOT NULL DEFAULT '',
		description TEXT NOT NULL DEFAULT '',
		keywords TEXT NOT NULL DEFAULT '[]',
		og_image_path TEXT NOT NULL DEFAULT '',
		owner_id TEXT NOT NULL REFERENCES contact_info(id),
		updated_at TEXT NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS analytics_events (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		category TEXT NOT NULL DEFAULT '',
		label TEXT NOT NULL DEFAULT '',
		value REAL NOT NULL DEFAULT 0,
		page_session_id TEXT NOT NULL DEFAULT '',
		path TEXT NOT NULL DEFAULT '',
		properties TEXT NOT NULL DEFAULT '{}',
		occurred_at TEXT NOT NULL
	)`,
	`CREATE INDEX IF NOT EXISTS idx_analytics_events_name ON analytics_events(name, occurred_at)`,
	`CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp TEXT NOT NULL,
		country TEXT
	)`,
	`CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp)`,
	`CREATE TABLE IF NOT EXISTS contact_messages (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL,
		subject TEXT NOT NULL,
		message TEXT NOT NULL,
		hashed_ip TEXT NOT NULL DEFAULT '',
		delivered INTEGER NOT NULL DEFAULT 0,
		created_at TEXT NOT NULL
	)`,
}

// columns added after the first release; applied to existing databases.
var addedColumns = []struct {
	table, column, ddl string
}{
	{"visitors", "referrer", `ALTER TABLE visitors ADD COLUMN referrer TEXT NOT NULL DEFAULT ''`},
}

// Migrate creates missing tables and columns. It is safe to run repeatedly.
func (s *Store) Migrate(ctx context.Context) error {
	for _, stmt := range schema {
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	for _, c := range addedColumns {
		exists, err := s.columnExists(ctx, c.table, c.column)
		if err != nil {
			return fmt.Errorf("migrate: inspect %s.%s: %w", c.table, c.column, err)
		}
		if exists {
			continue
		}
		if _, err := s.db.ExecContext(ctx, c.ddl); err != nil {
			return fmt.Errorf("migrate: add %s.%s: %w", c.table, c.column, err)
		}
		s.log.Info("Added column", "table", c.table, "column", c.column)
	}
	return nil
}

func (s *Store) columnExists(ctx context.Context, table, column string) (bool, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM pragma_table_info(?) WHERE name = ?`, table, column,
	).Scan(&n)
	return n > 0, err
}
