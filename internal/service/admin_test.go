package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"yamlrg-backend/internal/domain"
	"yamlrg-backend/internal/utils"
)

func submitRequest(t *testing.T, f *fixture, email string) *domain.JoinRequest {
	t.Helper()
	req, err := f.auth.SubmitJoinRequest(context.Background(), email, "Applicant", "", "https://linkedin.com/in/applicant")
	require.NoError(t, err)
	return req
}

func TestAdminService_DecideJoinRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve notifies", func(t *testing.T) {
		f := newFixture(t)
		req := submitRequest(t, f, "a@x.com")
		f.notifier.On("NotifyApproved", ctx, mock.MatchedBy(func(r domain.JoinRequest) bool {
			return r.ID == req.ID && r.Email == "a@x.com" && r.Status == domain.JoinRequestStatusApproved
		})).Return(nil).Once()

		result, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusApproved)
		require.NoError(t, err)
		assert.NoError(t, result.NotificationErr)
		assert.Equal(t, domain.JoinRequestStatusApproved, result.Request.Status)

		stored, err := f.store.JoinRequestRepository.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusApproved, stored.Status)
		assert.Equal(t, adminEmail, *stored.ApprovedBy)
		require.NotNil(t, stored.ApprovedAt)
		assert.Equal(t, req.CreatedAt, stored.CreatedAt)
		f.notifier.AssertExpectations(t)
	})

	t.Run("Reject does not notify", func(t *testing.T) {
		f := newFixture(t)
		req := submitRequest(t, f, "a@x.com")

		result, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusRejected)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusRejected, result.Request.Status)
		f.notifier.AssertNotCalled(t, "NotifyApproved", mock.Anything, mock.Anything)
	})

	t.Run("Notification failure keeps the approval", func(t *testing.T) {
		f := newFixture(t)
		req := submitRequest(t, f, "a@x.com")
		sendErr := errors.New("provider down")
		f.notifier.On("NotifyApproved", ctx, mockAnyRequest()).Return(sendErr).Once()

		result, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusApproved)
		require.NoError(t, err)
		assert.ErrorIs(t, result.NotificationErr, sendErr)

		stored, err := f.store.JoinRequestRepository.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusApproved, stored.Status)
	})

	t.Run("Non-admin is refused before any write", func(t *testing.T) {
		f := newFixture(t)
		req := submitRequest(t, f, "a@x.com")

		_, err := f.admin.DecideJoinRequest(ctx, "Admin@yamlrg.com", req.ID, domain.JoinRequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)

		stored, err := f.store.JoinRequestRepository.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusPending, stored.Status)
		assert.Nil(t, stored.ApprovedBy)
	})

	t.Run("Only pending requests can be decided", func(t *testing.T) {
		f := newFixture(t)
		req := submitRequest(t, f, "a@x.com")
		_, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusRejected)
		require.NoError(t, err)

		_, err = f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Invalid outcome", func(t *testing.T) {
		f := newFixture(t)
		req := submitRequest(t, f, "a@x.com")
		_, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusPending)
		var verr *domain.ValidationError
		assert.ErrorAs(t, err, &verr)
	})

	t.Run("Unknown request", func(t *testing.T) {
		f := newFixture(t)
		_, err := f.admin.DecideJoinRequest(ctx, adminEmail, "ghost", domain.JoinRequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})
}

func TestAdminService_RevertJoinRequest(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.On("NotifyApproved", ctx, mockAnyRequest()).Return(nil)
	req := submitRequest(t, f, "a@x.com")

	_, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusApproved)
	require.NoError(t, err)

	t.Run("Non-admin refused", func(t *testing.T) {
		_, err := f.admin.RevertJoinRequest(ctx, "a@x.com", req.ID)
		assert.ErrorIs(t, err, domain.ErrUnauthorized)
	})

	t.Run("Back to pending then approved again", func(t *testing.T) {
		reverted, err := f.admin.RevertJoinRequest(ctx, "second.admin@yamlrg.com", req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusPending, reverted.Status)

		stored, err := f.store.JoinRequestRepository.GetByID(ctx, req.ID)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusPending, stored.Status)
		assert.Equal(t, "second.admin@yamlrg.com", *stored.ApprovedBy)
		require.NotNil(t, stored.ApprovedAt)

		again, err := f.admin.DecideJoinRequest(ctx, adminEmail, req.ID, domain.JoinRequestStatusApproved)
		require.NoError(t, err)
		assert.Equal(t, domain.JoinRequestStatusApproved, again.Request.Status)
	})
}

func TestAdminService_ListJoinRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	first := submitRequest(t, f, "a@x.com")
	second := submitRequest(t, f, "b@x.com")

	_, err := f.admin.ListJoinRequests(ctx, "a@x.com")
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	reqs, err := f.admin.ListJoinRequests(ctx, adminEmail)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, second.ID, reqs[0].ID)
	assert.Equal(t, first.ID, reqs[1].ID)
}

func TestAdminService_Approval(t *testing.T) {
	ctx := context.Background()

	t.Run("Approve and remove", func(t *testing.T) {
		f := newFixture(t)
		f.seedAccount(t, domain.UserAccount{UID: "u1", Email: "u1@x.com", ShowInMembers: true, ProfileCompleted: true})

		require.NoError(t, f.admin.ApproveUser(ctx, adminEmail, "u1"))
		got, err := f.store.GetByUID(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, got.IsApproved)
		assert.Equal(t, adminEmail, *got.ApprovedBy)
		assert.NotNil(t, got.ApprovedAt)

		require.NoError(t, f.admin.RemoveApproval(ctx, adminEmail, "u1"))
		got, err = f.store.GetByUID(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, got.IsApproved)
		assert.Nil(t, got.ApprovedAt)
		assert.Nil(t, got.ApprovedBy)
		assert.True(t, got.ShowInMembers)
		assert.True(t, got.ProfileCompleted)
	})

	t.Run("Non-admin refused", func(t *testing.T) {
		f := newFixture(t)
		f.seedAccount(t, domain.UserAccount{UID: "u1", Email: "u1@x.com"})

		assert.ErrorIs(t, f.admin.ApproveUser(ctx, "u1@x.com", "u1"), domain.ErrUnauthorized)
		assert.ErrorIs(t, f.admin.RemoveApproval(ctx, "u1@x.com", "u1"), domain.ErrUnauthorized)
		assert.ErrorIs(t, f.admin.SetMemberVisibility(ctx, "u1@x.com", "u1", true), domain.ErrUnauthorized)
		assert.ErrorIs(t, f.admin.SetProfileCompleted(ctx, "u1@x.com", "u1", true), domain.ErrUnauthorized)

		got, err := f.store.GetByUID(ctx, "u1")
		require.NoError(t, err)
		assert.False(t, got.IsApproved)
	})

	t.Run("Missing account", func(t *testing.T) {
		f := newFixture(t)
		assert.ErrorIs(t, f.admin.ApproveUser(ctx, adminEmail, "ghost"), domain.ErrNotFound)
		_, err := f.store.GetByUID(ctx, "ghost")
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("Visibility and profile flags", func(t *testing.T) {
		f := newFixture(t)
		f.seedAccount(t, domain.UserAccount{UID: "u1", Email: "u1@x.com"})

		require.NoError(t, f.admin.SetMemberVisibility(ctx, adminEmail, "u1", true))
		require.NoError(t, f.admin.SetProfileCompleted(ctx, adminEmail, "u1", true))

		got, err := f.store.GetByUID(ctx, "u1")
		require.NoError(t, err)
		assert.True(t, got.ShowInMembers)
		assert.True(t, got.ProfileCompleted)
	})

	t.Run("Concurrent approve and remove, last write wins", func(t *testing.T) {
		run := func(firstApprove bool) bool {
			f := newFixture(t)
			f.seedAccount(t, domain.UserAccount{UID: "u1", Email: "u1@x.com"})

			approve := func() { _ = f.admin.ApproveUser(ctx, adminEmail, "u1") }
			remove := func() { _ = f.admin.RemoveApproval(ctx, "second.admin@yamlrg.com", "u1") }
			first, later := remove, approve
			if firstApprove {
				first, later = approve, remove
			}

			var wg sync.WaitGroup
			wg.Add(2)
			go func() { defer wg.Done(); first() }()
			go func() { defer wg.Done(); time.Sleep(20 * time.Millisecond); later() }()
			wg.Wait()

			got, err := f.store.GetByUID(ctx, "u1")
			require.NoError(t, err)
			return got.IsApproved
		}

		assert.False(t, run(true))
		assert.True(t, run(false))
	})
}

func TestAdminService_ListUsers(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.seedAccount(t, domain.UserAccount{UID: "a", Email: adminEmail, DisplayName: "Root"})
	f.seedAccount(t, domain.UserAccount{UID: "m1", Email: "m1@x.com", DisplayName: "Zed", IsApproved: true})
	f.seedAccount(t, domain.UserAccount{UID: "m2", Email: "m2@x.com", DisplayName: "Amy"})

	_, err := f.admin.ListUsers(ctx, "m1@x.com", utils.SortByName)
	assert.ErrorIs(t, err, domain.ErrUnauthorized)

	users, err := f.admin.ListUsers(ctx, adminEmail, utils.SortByApproval)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "a", users[0].UID)
	assert.Equal(t, "m2", users[1].UID)
	assert.Equal(t, "m1", users[2].UID)
}
