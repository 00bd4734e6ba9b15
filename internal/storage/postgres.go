package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"yamlrg-backend/internal/logger"
)

// PostgresStore keeps every collection in one JSONB table.
// It is an alternative to Firestore for self-hosted deployments.
type PostgresStore struct {
	db *sql.DB
}

const documentsSchema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id TEXT NOT NULL,
	data JSONB NOT NULL DEFAULT '{}'::jsonb,
	PRIMARY KEY (collection, id)
)`

func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// EnsureSchema creates the documents table when missing
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, documentsSchema)
	return err
}

func (s *PostgresStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	query := `SELECT data FROM documents WHERE collection = $1 AND id = $2`
	logger.StoreCall("get", collection, "id", id)

	var raw []byte
	err := s.db.QueryRowContext(ctx, query, collection, id).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		logger.StoreResult("get", collection, 0, err, "id", id)
		return nil, err
	}

	data, err := decodeData(raw)
	if err != nil {
		return nil, err
	}
	logger.StoreResult("get", collection, 1, nil, "id", id)
	return &Document{ID: id, Data: data}, nil
}

func (s *PostgresStore) Put(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	raw, err := encodeData(fields)
	if err != nil {
		return err
	}

	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
	          ON CONFLICT (collection, id) DO UPDATE SET data = EXCLUDED.data`
	if merge {
		query = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)
	          ON CONFLICT (collection, id) DO UPDATE SET data = documents.data || EXCLUDED.data`
	}
	logger.StoreCall("put", collection, "id", id, "merge", merge)
	_, err = s.db.ExecContext(ctx, query, collection, id, raw)
	logger.StoreResult("put", collection, 1, err, "id", id)
	return err
}

func (s *PostgresStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	raw, err := encodeData(fields)
	if err != nil {
		return err
	}

	query := `UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`
	logger.StoreCall("update", collection, "id", id)
	res, err := s.db.ExecContext(ctx, query, collection, id, raw)
	if err != nil {
		logger.StoreResult("update", collection, 0, err, "id", id)
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	logger.StoreResult("update", collection, int(n), nil, "id", id)
	return nil
}

func (s *PostgresStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	raw, err := encodeData(fields)
	if err != nil {
		return "", err
	}

	id := uuid.NewString()
	query := `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`
	logger.StoreCall("add", collection, "id", id)
	_, err = s.db.ExecContext(ctx, query, collection, id, raw)
	logger.StoreResult("add", collection, 1, err, "id", id)
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *PostgresStore) Delete(ctx context.Context, collection, id string) error {
	query := `DELETE FROM documents WHERE collection = $1 AND id = $2`
	logger.StoreCall("delete", collection, "id", id)
	_, err := s.db.ExecContext(ctx, query, collection, id)
	logger.StoreResult("delete", collection, 1, err, "id", id)
	return err
}

func (s *PostgresStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	query, args, err := buildQuery(collection, q)
	if err != nil {
		return nil, err
	}

	logger.StoreCall("query", collection, "filters", len(q.Filters), "order_by", q.OrderBy)
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		logger.StoreResult("query", collection, 0, err)
		return nil, err
	}
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		var id string
		var raw []byte
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := decodeData(raw)
		if err != nil {
			return nil, err
		}
		docs = append(docs, Document{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	logger.StoreResult("query", collection, len(docs), nil)
	return docs, nil
}

func (s *PostgresStore) Close() error {
	return s.db.Close()
}

// buildQuery renders q as SQL. Field names are validated and then quoted as
// literals for the jsonb -> operator; values are always bound parameters.
func buildQuery(collection string, q Query) (string, []any, error) {
	if err := validateQuery(q); err != nil {
		return "", nil, err
	}

	var sb strings.Builder
	args := []any{collection}
	sb.WriteString(`SELECT id, data FROM documents WHERE collection = $1`)

	for _, f := range q.Filters {
		field := pq.QuoteLiteral(f.Field)
		switch f.Op {
		case OpEqual:
			raw, err := json.Marshal(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("failed to encode filter on %s: %w", f.Field, err)
			}
			args = append(args, string(raw))
			fmt.Fprintf(&sb, ` AND data->%s = $%d::jsonb`, field, len(args))
		case OpIn:
			values, err := jsonElements(f.Value)
			if err != nil {
				return "", nil, fmt.Errorf("failed to encode filter on %s: %w", f.Field, err)
			}
			args = append(args, pq.Array(values))
			fmt.Fprintf(&sb, ` AND data->%s = ANY($%d::jsonb[])`, field, len(args))
		}
	}

	if q.OrderBy != "" {
		field := pq.QuoteLiteral(q.OrderBy)
		dir := "ASC"
		if q.Direction == Desc {
			dir = "DESC"
		}
		fmt.Fprintf(&sb, ` AND data->%s IS NOT NULL ORDER BY data->%s %s, id`, field, field, dir)
	}

	return sb.String(), args, nil
}

func jsonElements(v any) ([]string, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("in requires a list: %w", err)
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, string(item))
	}
	return out, nil
}

func encodeData(fields map[string]any) (string, error) {
	if fields == nil {
		fields = map[string]any{}
	}
	raw, err := json.Marshal(fields)
	if err != nil {
		return "", fmt.Errorf("failed to encode document: %w", err)
	}
	return string(raw), nil
}

func decodeData(raw []byte) (map[string]any, error) {
	data := map[string]any{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode document: %w", err)
	}
	return data, nil
}
