package storage

import (
	"context"
	"database/sql"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPostgresStore_Get(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	ctx := context.Background()
	query := regexp.QuoteMeta(`SELECT data FROM documents WHERE collection = $1 AND id = $2`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("users", "u1").
			WillReturnRows(sqlmock.NewRows([]string{"data"}).AddRow([]byte(`{"email":"a@x.com","isApproved":true}`)))

		doc, err := s.Get(ctx, "users", "u1")
		require.NoError(t, err)
		assert.Equal(t, "u1", doc.ID)
		assert.Equal(t, "a@x.com", doc.Data["email"])
		assert.Equal(t, true, doc.Data["isApproved"])
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectQuery(query).
			WithArgs("users", "u2").
			WillReturnError(sql.ErrNoRows)

		doc, err := s.Get(ctx, "users", "u2")
		assert.Nil(t, doc)
		assert.True(t, IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Put(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	ctx := context.Background()

	t.Run("Merge", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DO UPDATE SET data = documents.data || EXCLUDED.data`)).
			WithArgs("users", "u1", `{"isApproved":true}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Put(ctx, "users", "u1", map[string]any{"isApproved": true}, true))
	})

	t.Run("Replace", func(t *testing.T) {
		mock.ExpectExec(regexp.QuoteMeta(`DO UPDATE SET data = EXCLUDED.data`)).
			WithArgs("users", "u1", `{"email":"a@x.com"}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Put(ctx, "users", "u1", map[string]any{"email": "a@x.com"}, false))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Update(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)
	ctx := context.Background()
	query := regexp.QuoteMeta(`UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`)

	t.Run("Success", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("users", "u1", `{"showInMembers":false}`).
			WillReturnResult(sqlmock.NewResult(0, 1))

		assert.NoError(t, s.Update(ctx, "users", "u1", map[string]any{"showInMembers": false}))
	})

	t.Run("NotFound", func(t *testing.T) {
		mock.ExpectExec(query).
			WithArgs("users", "ghost", `{"showInMembers":false}`).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := s.Update(ctx, "users", "ghost", map[string]any{"showInMembers": false})
		assert.True(t, IsNotFound(err))
	})

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Add(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`)).
		WithArgs("workshops", sqlmock.AnyArg(), `{"title":"Intro"}`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	id, err := s.Add(context.Background(), "workshops", map[string]any{"title": "Intro"})
	require.NoError(t, err)
	assert.Len(t, id, 36)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgresStore_Query(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	s := NewPostgresStore(db)

	expected := `SELECT id, data FROM documents WHERE collection = $1` +
		` AND data->'email' = $2::jsonb` +
		` AND data->'status' = ANY($3::jsonb[])` +
		` AND data->'createdAt' IS NOT NULL ORDER BY data->'createdAt' DESC, id`

	mock.ExpectQuery(regexp.QuoteMeta(expected)).
		WithArgs("joinRequests", `"a@x.com"`, sqlmock.AnyArg()).
		WillReturnRows(sqlmock.NewRows([]string{"id", "data"}).
			AddRow("r2", []byte(`{"status":"approved"}`)).
			AddRow("r1", []byte(`{"status":"pending"}`)))

	q := Where("email", "a@x.com").In("status", []string{"pending", "approved"}).Order("createdAt", Desc)
	docs, err := s.Query(context.Background(), "joinRequests", q)
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "r2", docs[0].ID)
	assert.Equal(t, "pending", docs[1].Data["status"])
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBuildQuery_RejectsInvalidField(t *testing.T) {
	_, _, err := buildQuery("users", Where("email') OR true --", "x"))
	assert.Error(t, err)
}
