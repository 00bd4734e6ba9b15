package storage

import (
	"context"
	"fmt"
	"sort"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"yamlrg-backend/internal/logger"
)

// FirestoreStore is the production document store backed by Cloud Firestore
type FirestoreStore struct {
	client *firestore.Client
}

func NewFirestoreStore(client *firestore.Client) *FirestoreStore {
	return &FirestoreStore{client: client}
}

func mapFirestoreError(err error) error {
	if status.Code(err) == codes.NotFound {
		return ErrNotFound
	}
	return err
}

func (s *FirestoreStore) Get(ctx context.Context, collection, id string) (*Document, error) {
	logger.StoreCall("get", collection, "id", id)
	snap, err := s.client.Collection(collection).Doc(id).Get(ctx)
	if err != nil {
		err = mapFirestoreError(err)
		if !IsNotFound(err) {
			logger.StoreResult("get", collection, 0, err, "id", id)
		}
		return nil, err
	}
	logger.StoreResult("get", collection, 1, nil, "id", id)
	return &Document{ID: snap.Ref.ID, Data: snap.Data()}, nil
}

func (s *FirestoreStore) Put(ctx context.Context, collection, id string, fields map[string]any, merge bool) error {
	logger.StoreCall("put", collection, "id", id, "merge", merge)
	var opts []firestore.SetOption
	if merge {
		opts = append(opts, firestore.MergeAll)
	}
	_, err := s.client.Collection(collection).Doc(id).Set(ctx, fields, opts...)
	logger.StoreResult("put", collection, 1, err, "id", id)
	return err
}

func (s *FirestoreStore) Update(ctx context.Context, collection, id string, fields map[string]any) error {
	logger.StoreCall("update", collection, "id", id)
	if len(fields) == 0 {
		// Firestore rejects empty updates; still honour the existence check
		_, err := s.Get(ctx, collection, id)
		return err
	}

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]firestore.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, firestore.Update{Path: k, Value: fields[k]})
	}

	_, err := s.client.Collection(collection).Doc(id).Update(ctx, updates)
	err = mapFirestoreError(err)
	logger.StoreResult("update", collection, 1, err, "id", id)
	return err
}

func (s *FirestoreStore) Add(ctx context.Context, collection string, fields map[string]any) (string, error) {
	logger.StoreCall("add", collection)
	ref, _, err := s.client.Collection(collection).Add(ctx, fields)
	if err != nil {
		logger.StoreResult("add", collection, 0, err)
		return "", err
	}
	logger.StoreResult("add", collection, 1, nil, "id", ref.ID)
	return ref.ID, nil
}

func (s *FirestoreStore) Delete(ctx context.Context, collection, id string) error {
	logger.StoreCall("delete", collection, "id", id)
	_, err := s.client.Collection(collection).Doc(id).Delete(ctx)
	logger.StoreResult("delete", collection, 1, err, "id", id)
	return err
}

func (s *FirestoreStore) Query(ctx context.Context, collection string, q Query) ([]Document, error) {
	if err := validateQuery(q); err != nil {
		return nil, err
	}
	logger.StoreCall("query", collection, "filters", len(q.Filters), "order_by", q.OrderBy)

	query := s.client.Collection(collection).Query
	for _, f := range q.Filters {
		query = query.Where(f.Field, string(f.Op), f.Value)
	}
	if q.OrderBy != "" {
		dir := firestore.Asc
		if q.Direction == Desc {
			dir = firestore.Desc
		}
		query = query.OrderBy(q.OrderBy, dir)
	}

	iter := query.Documents(ctx)
	defer iter.Stop()

	var docs []Document
	for {
		snap, err := iter.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			logger.StoreResult("query", collection, len(docs), err)
			return nil, fmt.Errorf("failed to iterate %s: %w", collection, err)
		}
		docs = append(docs, Document{ID: snap.Ref.ID, Data: snap.Data()})
	}
	logger.StoreResult("query", collection, len(docs), nil)
	return docs, nil
}

func (s *FirestoreStore) Close() error {
	return s.client.Close()
}
