package document

import (
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/storage"
)

// Store bundles every repository over one document store
type Store struct {
	docs storage.DocumentStore
	repository.JoinRequestRepository
	repository.UserAccountRepository
	repository.WorkshopRepository
	repository.PresentationRequestRepository
}

func NewStore(docs storage.DocumentStore) *Store {
	return &Store{
		docs:                          docs,
		JoinRequestRepository:         NewJoinRequestRepository(docs),
		UserAccountRepository:         NewUserAccountRepository(docs),
		WorkshopRepository:            NewWorkshopRepository(docs),
		PresentationRequestRepository: NewPresentationRequestRepository(docs),
	}
}

func (s *Store) Close() error {
	return s.docs.Close()
}
