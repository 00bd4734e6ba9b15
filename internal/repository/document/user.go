package document

import (
	"context"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/logger"
	"yamlrg-backend/internal/repository"
	"yamlrg-backend/internal/storage"
)

// maxInFilterValues is the largest value list Firestore accepts in one "in" filter
const maxInFilterValues = 30

type userAccountRepository struct {
	docs storage.DocumentStore
}

func NewUserAccountRepository(docs storage.DocumentStore) repository.UserAccountRepository {
	return &userAccountRepository{docs: docs}
}

func (r *userAccountRepository) Create(ctx context.Context, account *domain.UserAccount) error {
	logger.EnterMethod("userAccountRepository.Create", "uid", account.UID)
	if account.JobListings == nil {
		account.JobListings = []domain.JobListing{}
	}
	fields, err := toFields(account)
	if err == nil {
		err = r.docs.Put(ctx, UsersCollection, account.UID, fields, false)
	}
	if err != nil {
		logger.ExitMethodWithError("userAccountRepository.Create", err, "uid", account.UID)
		return err
	}
	logger.ExitMethod("userAccountRepository.Create", "uid", account.UID)
	return nil
}

func (r *userAccountRepository) GetByUID(ctx context.Context, uid string) (*domain.UserAccount, error) {
	doc, err := r.docs.Get(ctx, UsersCollection, uid)
	if err != nil {
		return nil, err
	}
	return decodeUserAccount(doc)
}

func (r *userAccountRepository) Update(ctx context.Context, uid string, fields map[string]any) error {
	logger.EnterMethod("userAccountRepository.Update", "uid", uid, "fields", len(fields))
	if err := r.docs.Update(ctx, UsersCollection, uid, fields); err != nil {
		if !storage.IsNotFound(err) {
			logger.ExitMethodWithError("userAccountRepository.Update", err, "uid", uid)
		}
		return err
	}
	logger.ExitMethod("userAccountRepository.Update", "uid", uid)
	return nil
}

func (r *userAccountRepository) Delete(ctx context.Context, uid string) error {
	logger.EnterMethod("userAccountRepository.Delete", "uid", uid)
	if err := r.docs.Delete(ctx, UsersCollection, uid); err != nil {
		logger.ExitMethodWithError("userAccountRepository.Delete", err, "uid", uid)
		return err
	}
	logger.ExitMethod("userAccountRepository.Delete", "uid", uid)
	return nil
}

func (r *userAccountRepository) List(ctx context.Context) ([]domain.UserAccount, error) {
	return r.query(ctx, storage.Query{})
}

func (r *userAccountRepository) ListVisible(ctx context.Context) ([]domain.UserAccount, error) {
	return r.query(ctx, storage.Where("showInMembers", true))
}

func (r *userAccountRepository) ListByEmails(ctx context.Context, emails []string) ([]domain.UserAccount, error) {
	logger.EnterMethod("userAccountRepository.ListByEmails", "emails", len(emails))
	accounts := []domain.UserAccount{}
	for start := 0; start < len(emails); start += maxInFilterValues {
		end := min(start+maxInFilterValues, len(emails))
		batch, err := r.query(ctx, storage.Query{}.In("email", emails[start:end]))
		if err != nil {
			logger.ExitMethodWithError("userAccountRepository.ListByEmails", err, "offset", start)
			return nil, err
		}
		accounts = append(accounts, batch...)
	}
	logger.ExitMethod("userAccountRepository.ListByEmails", "accounts", len(accounts))
	return accounts, nil
}

func (r *userAccountRepository) query(ctx context.Context, q storage.Query) ([]domain.UserAccount, error) {
	docs, err := r.docs.Query(ctx, UsersCollection, q)
	if err != nil {
		return nil, err
	}
	accounts := make([]domain.UserAccount, 0, len(docs))
	for i := range docs {
		account, err := decodeUserAccount(&docs[i])
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, *account)
	}
	return accounts, nil
}
