package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
)

// Preference represents a row in the preferences table.
type Preference struct {
	VisitorID string    `db:"visitor_id"`
	Key       string    `db:"pref_key"`
	Value     string    `db:"value"`
	UpdatedAt time.Time `db:"updated_at"`
}

// PreferenceStore is the sqlx-backed store for visitor preferences.
type PreferenceStore struct {
	db *sqlx.DB
}

func NewPreferenceStore(db *sqlx.DB) *PreferenceStore {
	return &PreferenceStore{db: db}
}

// q rebinds ? placeholders to the driver's native format ($1,$2,... for PostgreSQL).
func (s *PreferenceStore) q(query string) string { return s.db.Rebind(query) }

// Get returns the value stored under key for the visitor, or ErrNotFound.
func (s *PreferenceStore) Get(ctx context.Context, visitorID, key string) (string, error) {
	var value string
	err := s.db.GetContext(ctx, &value, s.q(`
		SELECT value FROM preferences WHERE visitor_id = ? AND pref_key = ?
	`), visitorID, key)
	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get preference %q: %w", key, err)
	}
	return value, nil
}

// List returns every preference of the visitor ordered by key.
func (s *PreferenceStore) List(ctx context.Context, visitorID string) ([]*Preference, error) {
	var prefs []*Preference
	err := s.db.SelectContext(ctx, &prefs, s.q(`
		SELECT * FROM preferences WHERE visitor_id = ? ORDER BY pref_key ASC
	`), visitorID)
	if err != nil {
		return nil, fmt.Errorf("list preferences: %w", err)
	}
	return prefs, nil
}

// Set inserts or replaces the value stored under key for the visitor.
func (s *PreferenceStore) Set(ctx context.Context, visitorID, key, value string) error {
	now := time.Now().UTC()
	var upsert string
	switch s.db.DriverName() {
	case "mysql":
		upsert = `
		INSERT INTO preferences (visitor_id, pref_key, value, updated_at) VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE value = VALUES(value), updated_at = VALUES(updated_at)`
	default: // sqlite, postgres
		upsert = `
		INSERT INTO preferences (visitor_id, pref_key, value, updated_at) VALUES (?, ?, ?, ?)
		ON CONFLICT (visitor_id, pref_key) DO UPDATE SET value = excluded.value, updated_at = excluded.updated_at`
	}
	if _, err := s.db.ExecContext(ctx, s.q(upsert), visitorID, key, value, now); err != nil {
		return fmt.Errorf("set preference %q: %w", key, err)
	}
	return nil
}

// Delete removes the value stored under key. Returns ErrNotFound if absent.
func (s *PreferenceStore) Delete(ctx context.Context, visitorID, key string) error {
	result, err := s.db.ExecContext(ctx, s.q(`
		DELETE FROM preferences WHERE visitor_id = ? AND pref_key = ?
	`), visitorID, key)
	if err != nil {
		return fmt.Errorf("delete preference %q: %w", key, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrNotFound
	}
	return nil
}
