package document

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/storage"
)

func TestJoinRequestRepository(t *testing.T) {
	ctx := context.Background()
	docs := storage.NewMemoryStore()
	repo := NewJoinRequestRepository(docs)

	first := &domain.JoinRequest{Email: "a@x.com", Name: "A", Status: domain.JoinRequestStatusPending, CreatedAt: "2024-01-01T00:00:00.000Z"}
	second := &domain.JoinRequest{Email: "b@x.com", Name: "B", Status: domain.JoinRequestStatusPending, CreatedAt: "2024-02-01T00:00:00.000Z"}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))
	assert.NotEmpty(t, first.ID)

	t.Run("Stored without id field", func(t *testing.T) {
		doc, err := docs.Get(ctx, JoinRequestsCollection, first.ID)
		require.NoError(t, err)
		_, ok := doc.Data["id"]
		assert.False(t, ok)
	})

	t.Run("List newest first", func(t *testing.T) {
		reqs, err := repo.List(ctx)
		require.NoError(t, err)
		require.Len(t, reqs, 2)
		assert.Equal(t, second.ID, reqs[0].ID)
	})

	t.Run("UpdateDecision", func(t *testing.T) {
		at := "2024-03-01T00:00:00.000Z"
		by := "admin@yamlrg.com"
		require.NoError(t, repo.UpdateDecision(ctx, first.ID, domain.JoinRequestStatusApproved, &at, &by))

		got, err := repo.GetByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusApproved, got.Status)
		assert.Equal(t, &by, got.ApprovedBy)
		assert.Equal(t, "2024-01-01T00:00:00.000Z", got.CreatedAt)

		approved, err := repo.ListByStatus(ctx, domain.JoinRequestStatusApproved)
		require.NoError(t, err)
		assert.Len(t, approved, 1)
	})

	t.Run("UpdateDecision missing", func(t *testing.T) {
		err := repo.UpdateDecision(ctx, "ghost", domain.JoinRequestStatusRejected, nil, nil)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("ListByEmail", func(t *testing.T) {
		reqs, err := repo.ListByEmail(ctx, "b@x.com")
		require.NoError(t, err)
		require.Len(t, reqs, 1)
		assert.Equal(t, "B", reqs[0].Name)
	})
}

func TestDecodeDefaults(t *testing.T) {
	t.Run("Join request without status", func(t *testing.T) {
		req, err := decodeJoinRequest(&storage.Document{ID: "r1", Data: map[string]any{"email": "a@x.com"}})
		require.NoError(t, err)
		assert.Equal(t, "r1", req.ID)
		assert.Equal(t, domain.JoinRequestStatusPending, req.Status)
		assert.Nil(t, req.ApprovedAt)
	})

	t.Run("Sparse user account", func(t *testing.T) {
		joined := time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)
		account, err := decodeUserAccount(&storage.Document{ID: "u1", Data: map[string]any{
			"email":    "a@x.com",
			"joinedAt": joined,
		}})
		require.NoError(t, err)
		assert.Equal(t, "u1", account.UID)
		assert.False(t, account.IsApproved)
		assert.False(t, account.ShowInMembers)
		assert.Equal(t, domain.UserStatus{}, account.Status)
		assert.NotNil(t, account.JobListings)
		assert.Equal(t, "2024-05-01T10:00:00.000Z", account.JoinedAt)
	})

	t.Run("Workshop defaults", func(t *testing.T) {
		w, err := decodeWorkshop(&storage.Document{ID: "w1", Data: map[string]any{"title": "T"}})
		require.NoError(t, err)
		assert.Equal(t, domain.WorkshopTypeOther, w.Type)
		assert.Equal(t, []string{}, w.Resources)
	})

	t.Run("Malformed field", func(t *testing.T) {
		_, err := decodeUserAccount(&storage.Document{ID: "u1", Data: map[string]any{"isApproved": "yes"}})
		assert.Error(t, err)
	})
}

func TestUserAccountRepository(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStore())

	admin := &domain.UserAccount{UID: "a1", Email: "admin@yamlrg.com", IsAdmin: true}
	visible := &domain.UserAccount{UID: "m1", Email: "m1@x.com", ShowInMembers: true, IsApproved: true}
	hidden := &domain.UserAccount{UID: "m2", Email: "m2@x.com"}
	for _, a := range []*domain.UserAccount{admin, visible, hidden} {
		require.NoError(t, store.UserAccountRepository.Create(ctx, a))
	}

	t.Run("ListVisible", func(t *testing.T) {
		accounts, err := store.ListVisible(ctx)
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "m1", accounts[0].UID)
	})

	t.Run("ListByEmails", func(t *testing.T) {
		accounts, err := store.ListByEmails(ctx, []string{"admin@yamlrg.com", "nobody@x.com"})
		require.NoError(t, err)
		require.Len(t, accounts, 1)
		assert.Equal(t, "a1", accounts[0].UID)

		none, err := store.ListByEmails(ctx, nil)
		require.NoError(t, err)
		assert.Empty(t, none)
	})

	t.Run("Update nulls approval stamp", func(t *testing.T) {
		require.NoError(t, store.UserAccountRepository.Update(ctx, "m1", map[string]any{
			"isApproved": false,
			"approvedAt": nil,
			"approvedBy": nil,
		}))
		got, err := store.GetByUID(ctx, "m1")
		require.NoError(t, err)
		assert.False(t, got.IsApproved)
		assert.True(t, got.ShowInMembers)
		assert.Nil(t, got.ApprovedAt)
	})

	t.Run("Update missing", func(t *testing.T) {
		err := store.UserAccountRepository.Update(ctx, "ghost", map[string]any{"isApproved": true})
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.UserAccountRepository.Delete(ctx, "m2"))
		_, err := store.GetByUID(ctx, "m2")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

// inFilterRecorder records the value count of every "in" filter it serves
type inFilterRecorder struct {
	*storage.MemoryStore
	sizes []int
}

func (r *inFilterRecorder) Query(ctx context.Context, collection string, q storage.Query) ([]storage.Document, error) {
	for _, f := range q.Filters {
		if f.Op == storage.OpIn {
			r.sizes = append(r.sizes, len(f.Value.([]string)))
		}
	}
	return r.MemoryStore.Query(ctx, collection, q)
}

func TestUserAccountRepository_ListByEmailsBatches(t *testing.T) {
	ctx := context.Background()
	docs := &inFilterRecorder{MemoryStore: storage.NewMemoryStore()}
	repo := NewUserAccountRepository(docs)

	emails := make([]string, 0, 65)
	for i := 0; i < 65; i++ {
		email := fmt.Sprintf("admin%d@yamlrg.com", i)
		emails = append(emails, email)
		require.NoError(t, repo.Create(ctx, &domain.UserAccount{UID: fmt.Sprintf("a%d", i), Email: email}))
	}

	accounts, err := repo.ListByEmails(ctx, emails)
	require.NoError(t, err)
	assert.Len(t, accounts, 65)
	assert.Equal(t, []int{30, 30, 5}, docs.sizes)
}

func TestWorkshopAndPresentationRepositories(t *testing.T) {
	ctx := context.Background()
	store := NewStore(storage.NewMemoryStore())

	w := &domain.Workshop{Title: "Intro", PresenterName: "P", Date: "2024-06-01", Type: domain.WorkshopTypePaper, YoutubeURL: "https://youtu.be/x"}
	require.NoError(t, store.WorkshopRepository.Create(ctx, w))
	require.NoError(t, store.WorkshopRepository.Create(ctx, &domain.Workshop{Title: "Later", Date: "2024-07-01", Type: domain.WorkshopTypeStartup}))

	w.YoutubeURL = ""
	require.NoError(t, store.WorkshopRepository.Update(ctx, w))
	got, err := store.WorkshopRepository.GetByID(ctx, w.ID)
	require.NoError(t, err)
	assert.Empty(t, got.YoutubeURL)

	list, err := store.WorkshopRepository.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Later", list[0].Title)

	req := &domain.PresentationRequest{UserID: "u1", Title: "Talk", Type: domain.PresentationTypePaper, Status: domain.PresentationStatusPending, CreatedAt: "2024-01-01T00:00:00.000Z"}
	require.NoError(t, store.PresentationRequestRepository.Create(ctx, req))

	at, by := "2024-01-02T00:00:00.000Z", "admin@yamlrg.com"
	require.NoError(t, store.UpdateStatus(ctx, req.ID, domain.PresentationStatusDone, &at, &by))
	pr, err := store.PresentationRequestRepository.GetByID(ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.PresentationStatusDone, pr.Status)
	assert.Equal(t, &by, pr.CompletedBy)
}
