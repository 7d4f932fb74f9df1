package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"grantdraft/internal/document"

	_ "github.com/mattn/go-sqlite3"
)

type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates or opens a SQLite database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, err
	}

	s := &SQLiteStore{db: db}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to init schema: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) initSchema() error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS drafts (
			name TEXT PRIMARY KEY,
			sections JSON NOT NULL,
			active_step INTEGER NOT NULL DEFAULT 0,
			updated_at TEXT NOT NULL
		);`,
	}

	for _, q := range queries {
		if _, err := s.db.Exec(q); err != nil {
			return err
		}
	}
	return nil
}

func (s *SQLiteStore) SaveDraft(ctx context.Context, d Draft) error {
	name, err := draftName(d.Name)
	if err != nil {
		return err
	}
	payload, err := document.Encode(d.Sections)
	if err != nil {
		return fmt.Errorf("failed to encode sections: %w", err)
	}
	updated := d.UpdatedAt
	if updated.IsZero() {
		updated = time.Now()
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO drafts (name, sections, active_step, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(name) DO UPDATE SET
			sections=excluded.sections,
			active_step=excluded.active_step,
			updated_at=excluded.updated_at
	`, name, string(payload), d.ActiveStep, updated.UTC().Format(time.RFC3339Nano))
	return err
}

func (s *SQLiteStore) LoadDraft(ctx context.Context, name string) (Draft, error) {
	name, err := draftName(name)
	if err != nil {
		return Draft{}, err
	}
	row := s.db.QueryRowContext(ctx, "SELECT sections, active_step, updated_at FROM drafts WHERE name = ?", name)

	var payload, updated string
	d := Draft{Name: name}
	if err := row.Scan(&payload, &d.ActiveStep, &updated); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Draft{}, fmt.Errorf("%w: %s", ErrNotFound, name)
		}
		return Draft{}, fmt.Errorf("failed to scan draft: %w", err)
	}

	sections, err := document.Decode([]byte(payload))
	if err != nil {
		return Draft{}, fmt.Errorf("draft %s: %w", name, err)
	}
	d.Sections = sections
	if d.UpdatedAt, err = parseTimestamp(updated); err != nil {
		return Draft{}, fmt.Errorf("draft %s: %w", name, err)
	}
	return d, nil
}

func (s *SQLiteStore) DeleteDraft(ctx context.Context, name string) error {
	name, err := draftName(name)
	if err != nil {
		return err
	}
	_, err = s.db.ExecContext(ctx, "DELETE FROM drafts WHERE name = ?", name)
	return err
}

func (s *SQLiteStore) ListDrafts(ctx context.Context) ([]DraftInfo, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT name, sections, active_step, updated_at FROM drafts ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("failed to query drafts: %w", err)
	}
	defer rows.Close()

	var out []DraftInfo
	for rows.Next() {
		var info DraftInfo
		var payload, updated string
		if err := rows.Scan(&info.Name, &payload, &info.ActiveStep, &updated); err != nil {
			return nil, fmt.Errorf("failed to scan draft: %w", err)
		}
		// A corrupt row still lists, flagged.
		sections, err := document.Decode([]byte(payload))
		if err != nil {
			info.Corrupt = true
		}
		info.SectionCount = len(sections)
		if info.UpdatedAt, err = parseTimestamp(updated); err != nil {
			info.Corrupt = true
		}
		out = append(out, info)
	}
	return out, rows.Err()
}

func parseTimestamp(raw string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: bad updated_at %q: %v", document.ErrCorrupt, raw, err)
	}
	return t, nil
}
