package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"yamlrg-backend/internal/domain"
)

// ErrNotFound is returned when a referenced document does not exist.
// It matches domain.ErrNotFound under errors.Is.
var ErrNotFound = fmt.Errorf("document %w", domain.ErrNotFound)

// Document is a stored record: an opaque id and its fields
type Document struct {
	ID   string
	Data map[string]any
}

type Operator string

const (
	OpEqual Operator = "=="
	OpIn    Operator = "in"
)

type Direction int

const (
	Asc Direction = iota
	Desc
)

// Filter restricts a query to documents whose field matches Value
type Filter struct {
	Field string
	Op    Operator
	Value any
}

// Query selects documents from one collection. An empty OrderBy leaves the
// order to the backend; documents lacking the OrderBy field are excluded.
type Query struct {
	Filters   []Filter
	OrderBy   string
	Direction Direction
}

// Where returns a query with a single equality filter
func Where(field string, value any) Query {
	return Query{Filters: []Filter{{Field: field, Op: OpEqual, Value: value}}}
}

// And adds an equality filter
func (q Query) And(field string, value any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: OpEqual, Value: value})
	return q
}

// In adds a membership filter; values must be a slice
func (q Query) In(field string, values any) Query {
	q.Filters = append(append([]Filter(nil), q.Filters...), Filter{Field: field, Op: OpIn, Value: values})
	return q
}

// Order sets the ordering field and direction
func (q Query) Order(field string, dir Direction) Query {
	q.OrderBy = field
	q.Direction = dir
	return q
}

// DocumentStore is a generic keyed document store over named collections.
// Implementations are safe for concurrent use. Writes are last-write-wins:
// there is no versioning and no cross-document transaction.
type DocumentStore interface {
	// Get returns the document or ErrNotFound
	Get(ctx context.Context, collection, id string) (*Document, error)

	// Put writes fields under id, replacing the document unless merge is set,
	// in which case top-level fields are merged into any existing document
	Put(ctx context.Context, collection, id string, fields map[string]any, merge bool) error

	// Update merges fields into an existing document and fails with ErrNotFound if it is absent
	Update(ctx context.Context, collection, id string, fields map[string]any) error

	// Add stores a new document under a store-assigned id
	Add(ctx context.Context, collection string, fields map[string]any) (string, error)

	// Delete removes the document; deleting a missing document is not an error
	Delete(ctx context.Context, collection, id string) error

	// Query returns every matching document
	Query(ctx context.Context, collection string, q Query) ([]Document, error)

	Close() error
}

var fieldNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)

func validateQuery(q Query) error {
	for _, f := range q.Filters {
		if !fieldNamePattern.MatchString(f.Field) {
			return fmt.Errorf("invalid filter field %q", f.Field)
		}
		if f.Op != OpEqual && f.Op != OpIn {
			return fmt.Errorf("unsupported operator %q", f.Op)
		}
	}
	if q.OrderBy != "" && !fieldNamePattern.MatchString(q.OrderBy) {
		return fmt.Errorf("invalid order field %q", q.OrderBy)
	}
	return nil
}

// IsNotFound reports whether err means the document does not exist
func IsNotFound(err error) bool {
	return errors.Is(err, domain.ErrNotFound)
}
