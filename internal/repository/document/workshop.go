package document

import (
	"context"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/storage"
)

type workshopRepository struct {
	docs storage.DocumentStore
}

func NewWorkshopRepository(docs storage.DocumentStore) repository.WorkshopRepository {
	return &workshopRepository{docs: docs}
}

func workshopFields(w *domain.Workshop) map[string]any {
	resources := make([]any, 0, len(w.Resources))
	for _, r := range w.Resources {
		resources = append(resources, r)
	}
	return map[string]any{
		"title":             w.Title,
		"presenterName":     w.PresenterName,
		"presenterLinkedIn": w.PresenterLinkedIn,
		"date":              w.Date,
		"description":       w.Description,
		"youtubeUrl":        w.YoutubeURL,
		"resources":         resources,
		"type":              string(w.Type),
	}
}

func (r *workshopRepository) Create(ctx context.Context, w *domain.Workshop) error {
	id, err := r.docs.Add(ctx, WorkshopsCollection, workshopFields(w))
	if err != nil {
		return err
	}
	w.ID = id
	return nil
}

func (r *workshopRepository) GetByID(ctx context.Context, id string) (*domain.Workshop, error) {
	doc, err := r.docs.Get(ctx, WorkshopsCollection, id)
	if err != nil {
		return nil, err
	}
	return decodeWorkshop(doc)
}

func (r *workshopRepository) Update(ctx context.Context, w *domain.Workshop) error {
	return r.docs.Update(ctx, WorkshopsCollection, w.ID, workshopFields(w))
}

func (r *workshopRepository) Delete(ctx context.Context, id string) error {
	return r.docs.Delete(ctx, WorkshopsCollection, id)
}

func (r *workshopRepository) List(ctx context.Context) ([]domain.Workshop, error) {
	docs, err := r.docs.Query(ctx, WorkshopsCollection, storage.Query{}.Order("date", storage.Desc))
	if err != nil {
		return nil, err
	}
	workshops := make([]domain.Workshop, 0, len(docs))
	for i := range docs {
		w, err := decodeWorkshop(&docs[i])
		if err != nil {
			return nil, err
		}
		workshops = append(workshops, *w)
	}
	return workshops, nil
}
