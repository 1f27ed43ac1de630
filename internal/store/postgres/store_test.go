package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/msgtobala/user-story-generator/internal/store"
)

func setupStore(t *testing.T) (*Store, sqlmock.Sqlmock, *sql.DB) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	return New(db), mock, db
}

func TestStore_List(t *testing.T) {
	s, mock, db := setupStore(t)
	defer db.Close()

	now := time.Now()
	mock.ExpectQuery(`SELECT id, data, created_at, updated_at\s+FROM "templates"\s+ORDER BY updated_at DESC`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}).
			AddRow("t-2", []byte(`{"featureName":"Dashboard"}`), now, now).
			AddRow("t-1", []byte(`{"featureName":"Login"}`), now.Add(-time.Hour), now.Add(-time.Hour)))

	docs, err := s.List(context.Background(), store.CollectionTemplates)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "t-2", docs[0].ID)
	assert.JSONEq(t, `{"featureName":"Dashboard"}`, string(docs[0].Data))

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Get(t *testing.T) {
	s, mock, db := setupStore(t)
	defer db.Close()

	t.Run("returns the document", func(t *testing.T) {
		now := time.Now()
		mock.ExpectQuery(`FROM "projects"\s+WHERE id = \$1`).
			WithArgs("p-1").
			WillReturnRows(sqlmock.NewRows([]string{"id", "data", "created_at", "updated_at"}).
				AddRow("p-1", []byte(`{"name":"Portal"}`), now, now))

		doc, err := s.Get(context.Background(), store.CollectionProjects, "p-1")
		require.NoError(t, err)
		assert.Equal(t, "p-1", doc.ID)
	})

	t.Run("maps no rows to ErrNotFound", func(t *testing.T) {
		mock.ExpectQuery(`FROM "projects"\s+WHERE id = \$1`).
			WithArgs("missing").
			WillReturnError(sql.ErrNoRows)

		_, err := s.Get(context.Background(), store.CollectionProjects, "missing")
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Create(t *testing.T) {
	s, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectQuery(`INSERT INTO "templates" \(id, data\)`).
		WithArgs(sqlmock.AnyArg(), `{"featureName":"Login"}`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow("generated-id"))

	id, err := s.Create(context.Background(), store.CollectionTemplates, json.RawMessage(`{"featureName":"Login"}`))
	require.NoError(t, err)
	assert.Equal(t, "generated-id", id)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Update(t *testing.T) {
	s, mock, db := setupStore(t)
	defer db.Close()

	t.Run("merges the patch", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "templates"\s+SET data = data \|\| \$2::jsonb, updated_at = now\(\)`).
			WithArgs("t-1", `{"module":"Auth"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		err := s.Update(context.Background(), store.CollectionTemplates, "t-1", json.RawMessage(`{"module":"Auth"}`))
		require.NoError(t, err)
	})

	t.Run("reports missing documents", func(t *testing.T) {
		mock.ExpectExec(`UPDATE "templates"`).
			WithArgs("missing", `{}`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(context.Background(), store.CollectionTemplates, "missing", nil)
		assert.ErrorIs(t, err, store.ErrNotFound)
	})

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Delete(t *testing.T) {
	s, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectExec(`DELETE FROM "projects" WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "projects" WHERE id = \$1`).
		WithArgs("p-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Delete(context.Background(), store.CollectionProjects, "p-1"))
	assert.ErrorIs(t, s.Delete(context.Background(), store.CollectionProjects, "p-1"), store.ErrNotFound)

	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_Migrate(t *testing.T) {
	s, mock, db := setupStore(t)
	defer db.Close()

	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "templates"`).WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS "projects"`).WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, s.Migrate(context.Background(), store.CollectionTemplates, store.CollectionProjects))
	require.NoError(t, mock.ExpectationsWereMet())
}
