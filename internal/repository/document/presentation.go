package document

import (
	"context"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/storage"
)

type presentationRequestRepository struct {
	docs storage.DocumentStore
}

func NewPresentationRequestRepository(docs storage.DocumentStore) repository.PresentationRequestRepository {
	return &presentationRequestRepository{docs: docs}
}

func (r *presentationRequestRepository) Create(ctx context.Context, req *domain.PresentationRequest) error {
	stored := *req
	stored.ID = ""
	fields, err := toFields(stored)
	if err != nil {
		return err
	}
	id, err := r.docs.Add(ctx, PresentationRequestsCollection, fields)
	if err != nil {
		return err
	}
	req.ID = id
	return nil
}

func (r *presentationRequestRepository) GetByID(ctx context.Context, id string) (*domain.PresentationRequest, error) {
	doc, err := r.docs.Get(ctx, PresentationRequestsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodePresentationRequest(doc)
}

func (r *presentationRequestRepository) List(ctx context.Context) ([]domain.PresentationRequest, error) {
	docs, err := r.docs.Query(ctx, PresentationRequestsCollection, storage.Query{}.Order("createdAt", storage.Desc))
	if err != nil {
		return nil, err
	}
	reqs := make([]domain.PresentationRequest, 0, len(docs))
	for i := range docs {
		req, err := decodePresentationRequest(&docs[i])
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, nil
}

func (r *presentationRequestRepository) UpdateStatus(ctx context.Context, id string, status domain.PresentationStatus, completedAt, completedBy *string) error {
	return r.docs.Update(ctx, PresentationRequestsCollection, id, map[string]any{
		"status":      string(status),
		"completedAt": completedAt,
		"completedBy": completedBy,
	})
}
