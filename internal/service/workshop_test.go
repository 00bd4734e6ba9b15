package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"yamlrg-backend/internal/domain"
)

func TestWorkshopService_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	older := &domain.Workshop{Title: "Attention", PresenterName: "Ada", Date: "2024-03-01", Resources: []string{" https://a.example ", ""}}
	newer := &domain.Workshop{Title: "Agents", PresenterName: "Bo", Date: "2024-06-01", Type: domain.WorkshopTypeStartup}

	require.ErrorIs(t, f.workshops.CreateWorkshop(ctx, "u1@x.com", older), domain.ErrUnauthorized)
	require.NoError(t, f.workshops.CreateWorkshop(ctx, adminEmail, older))
	require.NoError(t, f.workshops.CreateWorkshop(ctx, adminEmail, newer))
	assert.NotEmpty(t, older.ID)
	assert.Equal(t, domain.WorkshopTypeOther, older.Type)
	assert.Equal(t, []string{"https://a.example"}, older.Resources)

	list, err := f.workshops.ListWorkshops(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, newer.ID, list[0].ID)
	assert.Equal(t, older.ID, list[1].ID)

	older.Title = "Attention Is All You Need"
	require.NoError(t, f.workshops.UpdateWorkshop(ctx, adminEmail, older))
	got, err := f.workshops.GetWorkshop(ctx, older.ID)
	require.NoError(t, err)
	assert.Equal(t, "Attention Is All You Need", got.Title)

	missing := &domain.Workshop{ID: "ghost", Title: "X", PresenterName: "Y", Date: "2024-01-01"}
	assert.ErrorIs(t, f.workshops.UpdateWorkshop(ctx, adminEmail, missing), domain.ErrNotFound)

	require.ErrorIs(t, f.workshops.DeleteWorkshop(ctx, "u1@x.com", newer.ID), domain.ErrUnauthorized)
	require.NoError(t, f.workshops.DeleteWorkshop(ctx, adminEmail, newer.ID))
	_, err = f.workshops.GetWorkshop(ctx, newer.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestWorkshopService_Validation(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	cases := map[string]domain.Workshop{
		"title":             {PresenterName: "Ada", Date: "2024-03-01"},
		"presenterName":     {Title: "T", Date: "2024-03-01"},
		"date":              {Title: "T", PresenterName: "Ada", Date: "March"},
		"type":              {Title: "T", PresenterName: "Ada", Date: "2024-03-01", Type: "talk"},
		"youtubeUrl":        {Title: "T", PresenterName: "Ada", Date: "2024-03-01", YoutubeURL: "youtube"},
		"presenterLinkedIn": {Title: "T", PresenterName: "Ada", Date: "2024-03-01", PresenterLinkedIn: "ada"},
	}
	for field, w := range cases {
		t.Run(field, func(t *testing.T) {
			w := w
			err := f.workshops.CreateWorkshop(ctx, adminEmail, &w)
			var verr *domain.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, field, verr.Field)
		})
	}
}

func TestWorkshopService_PresentationRequests(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	member := domain.Identity{UID: "u1", Email: "u1@x.com", DisplayName: "Jane"}

	err := f.workshops.SubmitPresentationRequest(ctx, domain.Identity{}, &domain.PresentationRequest{Title: "T", Type: domain.PresentationTypePaper})
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	var verr *domain.ValidationError
	err = f.workshops.SubmitPresentationRequest(ctx, member, &domain.PresentationRequest{Title: "T", Type: "talk"})
	require.ErrorAs(t, err, &verr)

	first := &domain.PresentationRequest{Title: "Sparse attention", Type: domain.PresentationTypePaper, ProposedDate: "2024-07-01"}
	require.NoError(t, f.workshops.SubmitPresentationRequest(ctx, member, first))
	assert.Equal(t, "u1", first.UserID)
	assert.Equal(t, "Jane", first.UserName)
	assert.Equal(t, domain.PresentationStatusPending, first.Status)

	second := &domain.PresentationRequest{Title: "Please cover RLHF", Type: domain.PresentationTypeRequest}
	require.NoError(t, f.workshops.SubmitPresentationRequest(ctx, member, second))

	_, err = f.workshops.ListPresentationRequests(ctx, "u1@x.com")
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	reqs, err := f.workshops.ListPresentationRequests(ctx, adminEmail)
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, second.ID, reqs[0].ID)

	_, err = f.workshops.SetPresentationRequestStatus(ctx, "u1@x.com", first.ID, domain.PresentationStatusDone)
	require.ErrorIs(t, err, domain.ErrUnauthorized)

	done, err := f.workshops.SetPresentationRequestStatus(ctx, adminEmail, first.ID, domain.PresentationStatusDone)
	require.NoError(t, err)
	assert.Equal(t, domain.PresentationStatusDone, done.Status)
	require.NotNil(t, done.CompletedBy)
	assert.Equal(t, adminEmail, *done.CompletedBy)
	assert.NotNil(t, done.CompletedAt)

	reopened, err := f.workshops.SetPresentationRequestStatus(ctx, adminEmail, first.ID, domain.PresentationStatusPending)
	require.NoError(t, err)
	assert.Equal(t, domain.PresentationStatusPending, reopened.Status)
	assert.Nil(t, reopened.CompletedAt)
	assert.Nil(t, reopened.CompletedBy)

	_, err = f.workshops.SetPresentationRequestStatus(ctx, adminEmail, "ghost", domain.PresentationStatusDone)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
