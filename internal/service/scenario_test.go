package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlrg-backend/internal/domain"
)

func TestMembershipFlow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.notifier.On("NotifyApproved", ctx, mockAnyRequest()).Return(nil).Once()

	req, err := f.auth.SubmitJoinRequest(ctx, "a@x.com", "A", "LLM evals", "https://linkedin.com/in/a")
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestStatusPending, req.Status)

	identity := domain.Identity{UID: "uid-a", Email: "a@x.com", DisplayName: "A"}
	result, _, err := f.auth.ReconcileOnFirstLogin(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconcilePendingNotice, result)

	decided, err := f.admin.DecideJoinRequest(ctx, "admin@yamlrg.com", req.ID, domain.JoinRequestStatusApproved)
	require.NoError(t, err)
	assert.Equal(t, domain.JoinRequestStatusApproved, decided.Request.Status)
	assert.Equal(t, "admin@yamlrg.com", *decided.Request.ApprovedBy)

	result, account, err := f.auth.ReconcileOnFirstLogin(ctx, identity)
	require.NoError(t, err)
	assert.Equal(t, domain.ReconcileCreated, result)
	require.NotNil(t, account)
	assert.True(t, account.IsApproved)
	assert.Equal(t, "https://linkedin.com/in/a", account.LinkedinURL)

	members, err := f.users.ListDirectory(ctx, identity)
	require.NoError(t, err)
	assert.Empty(t, members)

	_, err = f.users.UpdateProfile(ctx, identity, "uid-a", domain.ProfileUpdate{ShowInMembers: ptr(true)})
	require.NoError(t, err)
	members, err = f.users.ListDirectory(ctx, identity)
	require.NoError(t, err)
	require.Len(t, members, 1)
	assert.Equal(t, "uid-a", members[0].UID)

	f.notifier.AssertExpectations(t)
}
