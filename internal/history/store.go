package history

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/reedfamily/a2sbot/internal/plugin"
)

const (
	DefaultLimit = 50
	MaxLimit     = 500
)

// Store keeps the invocation audit trail in sqlite.
type Store struct {
	db *sql.DB
}

func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Record(ctx context.Context, inv plugin.Invocation) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO invocations (id, kind, name, args, ok, error_kind, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		inv.ID, inv.Kind, inv.Name, inv.Args, inv.OK, inv.ErrorKind, inv.Millis,
	)
	if err != nil {
		return fmt.Errorf("insert invocation: %w", err)
	}
	return nil
}

// List returns the newest invocations first. limit is clamped to
// 1..MaxLimit; zero means DefaultLimit.
func (s *Store) List(ctx context.Context, limit int) ([]plugin.Invocation, error) {
	switch {
	case limit <= 0:
		limit = DefaultLimit
	case limit > MaxLimit:
		limit = MaxLimit
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT id, kind, name, args, ok, error_kind, duration_ms, created_at
		FROM invocations ORDER BY created_at DESC, rowid DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("query invocations: %w", err)
	}
	defer rows.Close()

	result := []plugin.Invocation{}
	for rows.Next() {
		var inv plugin.Invocation
		if err := rows.Scan(&inv.ID, &inv.Kind, &inv.Name, &inv.Args, &inv.OK, &inv.ErrorKind, &inv.Millis, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invocation: %w", err)
		}
		result = append(result, inv)
	}
	return result, rows.Err()
}

// Prune deletes invocations older than the retention window and reports how
// many were removed.
func (s *Store) Prune(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-retention).Format("2006-01-02 15:04:05")
	res, err := s.db.ExecContext(ctx, "DELETE FROM invocations WHERE created_at < ?", cutoff)
	if err != nil {
		return 0, fmt.Errorf("prune invocations: %w", err)
	}
	return res.RowsAffected()
}
