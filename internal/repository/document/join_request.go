package document

import (
	"context"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/storage"
)

type joinRequestRepository struct {
	docs storage.DocumentStore
}

func NewJoinRequestRepository(docs storage.DocumentStore) repository.JoinRequestRepository {
	return &joinRequestRepository{docs: docs}
}

func (r *joinRequestRepository) Create(ctx context.Context, req *domain.JoinRequest) error {
	logger.EnterMethod("joinRequestRepository.Create", "email", req.Email)
	stored := *req
	stored.ID = ""
	fields, err := toFields(stored)
	if err != nil {
		logger.ExitMethodWithError("joinRequestRepository.Create", err, "email", req.Email)
		return err
	}
	id, err := r.docs.Add(ctx, JoinRequestsCollection, fields)
	if err != nil {
		logger.ExitMethodWithError("joinRequestRepository.Create", err, "email", req.Email)
		return err
	}
	req.ID = id
	logger.ExitMethod("joinRequestRepository.Create", "requestID", id)
	return nil
}

func (r *joinRequestRepository) GetByID(ctx context.Context, id string) (*domain.JoinRequest, error) {
	doc, err := r.docs.Get(ctx, JoinRequestsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodeJoinRequest(doc)
}

func (r *joinRequestRepository) ListByEmail(ctx context.Context, email string) ([]domain.JoinRequest, error) {
	return r.query(ctx, storage.Where("email", email))
}

func (r *joinRequestRepository) ListByStatus(ctx context.Context, status domain.JoinRequestStatus) ([]domain.JoinRequest, error) {
	return r.query(ctx, storage.Where("status", string(status)))
}

func (r *joinRequestRepository) List(ctx context.Context) ([]domain.JoinRequest, error) {
	return r.query(ctx, storage.Query{}.Order("createdAt", storage.Desc))
}

func (r *joinRequestRepository) UpdateDecision(ctx context.Context, id string, status domain.JoinRequestStatus, approvedAt, approvedBy *string) error {
	logger.EnterMethod("joinRequestRepository.UpdateDecision", "requestID", id, "status", status)
	err := r.docs.Update(ctx, JoinRequestsCollection, id, map[string]any{
		"status":     string(status),
		"approvedAt": approvedAt,
		"approvedBy": approvedBy,
	})
	if err != nil {
		if !storage.IsNotFound(err) {
			logger.ExitMethodWithError("joinRequestRepository.UpdateDecision", err, "requestID", id)
		}
		return err
	}
	logger.ExitMethod("joinRequestRepository.UpdateDecision", "requestID", id)
	return nil
}

func (r *joinRequestRepository) query(ctx context.Context, q storage.Query) ([]domain.JoinRequest, error) {
	docs, err := r.docs.Query(ctx, JoinRequestsCollection, q)
	if err != nil {
		return nil, err
	}
	reqs := make([]domain.JoinRequest, 0, len(docs))
	for i := range docs {
		req, err := decodeJoinRequest(&docs[i])
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, nil
}
