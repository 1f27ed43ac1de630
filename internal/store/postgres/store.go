// Package postgres stores documents in Postgres, one table per collection
// with the record fields in a jsonb column.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/msgtobala/user-story-generator/internal/store"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Migrate creates the tables backing the given collections.
func (s *Store) Migrate(ctx context.Context, collections ...string) error {
	for _, c := range collections {
		q := fmt.Sprintf(`
CREATE TABLE IF NOT EXISTS %s (
	id         TEXT PRIMARY KEY,
	data       JSONB NOT NULL DEFAULT '{}'::jsonb,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now(),
	updated_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS %s ON %s (updated_at DESC);
`, table(c), pq.QuoteIdentifier(c+"_updated_at_idx"), table(c))

		if _, err := s.db.ExecContext(ctx, q); err != nil {
			return fmt.Errorf("migrate %s: %w", c, err)
		}
	}
	return nil
}

func (s *Store) List(ctx context.Context, collection string) ([]store.Document, error) {
	q := fmt.Sprintf(`
SELECT id, data, created_at, updated_at
FROM %s
ORDER BY updated_at DESC;
`, table(collection))

	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("list %s: %w", collection, err)
	}
	defer rows.Close()

	out := make([]store.Document, 0, 16)
	for rows.Next() {
		var d store.Document
		var data []byte
		if err := rows.Scan(&d.ID, &data, &d.CreatedAt, &d.UpdatedAt); err != nil {
			return nil, err
		}
		d.Data = json.RawMessage(data)
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, collection, id string) (*store.Document, error) {
	q := fmt.Sprintf(`
SELECT id, data, created_at, updated_at
FROM %s
WHERE id = $1;
`, table(collection))

	var d store.Document
	var data []byte
	err := s.db.QueryRowContext(ctx, q, id).Scan(&d.ID, &data, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, store.ErrNotFound
		}
		return nil, fmt.Errorf("get %s/%s: %w", collection, id, err)
	}
	d.Data = json.RawMessage(data)
	return &d, nil
}

func (s *Store) Create(ctx context.Context, collection string, data json.RawMessage) (string, error) {
	if len(data) == 0 {
		data = json.RawMessage(`{}`)
	}

	q := fmt.Sprintf(`
INSERT INTO %s (id, data)
VALUES ($1, $2::jsonb)
RETURNING id;
`, table(collection))

	var id string
	if err := s.db.QueryRowContext(ctx, q, uuid.NewString(), string(data)).Scan(&id); err != nil {
		return "", fmt.Errorf("create %s: %w", collection, err)
	}
	return id, nil
}

func (s *Store) Update(ctx context.Context, collection, id string, patch json.RawMessage) error {
	if len(patch) == 0 {
		patch = json.RawMessage(`{}`)
	}

	q := fmt.Sprintf(`
UPDATE %s
SET data = data || $2::jsonb, updated_at = now()
WHERE id = $1;
`, table(collection))

	result, err := s.db.ExecContext(ctx, q, id, string(patch))
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", collection, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Delete(ctx context.Context, collection, id string) error {
	q := fmt.Sprintf(`DELETE FROM %s WHERE id = $1;`, table(collection))

	result, err := s.db.ExecContext(ctx, q, id)
	if err != nil {
		return fmt.Errorf("delete %s/%s: %w", collection, id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return store.ErrNotFound
	}
	return nil
}

func table(collection string) string {
	return pq.QuoteIdentifier(collection)
}

var _ store.Store = (*Store)(nil)
