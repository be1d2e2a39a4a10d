package services

import (
	"context"
	"testing"

	"github.com/scholarsknowledge/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func submitScholarship(t *testing.T, svc *ScholarshipService, title string) uint {
	t.Helper()
	id, err := svc.Submit(context.Background(), SubmitScholarshipInput{
		Title:        title,
		Provider:     "Example Foundation",
		Country:      "Germany",
		Level:        "Masters",
		FundingType:  "Full",
		PartnerEmail: "Partner@Example.org",
	})
	require.NoError(t, err)
	return id
}

func TestSubmitForcesPendingStatus(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarshipService(db)

	id := submitScholarship(t, svc, "DAAD Masters Grant")

	sch, err := svc.Get(context.Background(), id)
	require.NoError(t, err)
	assert.Equal(t, model.ScholarshipPending, sch.Status)
	assert.Equal(t, "partner@example.org", sch.PartnerEmail)
}

func TestSubmitRequiresTitleAndProvider(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarshipService(db)

	_, err := svc.Submit(context.Background(), SubmitScholarshipInput{Provider: "X"})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = svc.Submit(context.Background(), SubmitScholarshipInput{Title: "X"})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestModerationFlow(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarshipService(db)
	ctx := context.Background()

	approvedID := submitScholarship(t, svc, "Approved Grant")
	_ = submitScholarship(t, svc, "Still Pending Grant")

	require.NoError(t, svc.SetStatus(ctx, approvedID, model.ScholarshipApproved))

	public, total, err := svc.List(ctx, ListScholarshipsOptions{Status: string(model.ScholarshipApproved)})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, public, 1)
	assert.Equal(t, "Approved Grant", public[0].Title)

	pending, _, err := svc.List(ctx, ListScholarshipsOptions{Status: string(model.ScholarshipPending)})
	require.NoError(t, err)
	assert.Len(t, pending, 1)

	assert.ErrorIs(t, svc.SetStatus(ctx, 9999, model.ScholarshipApproved), ErrNotFound)
	assert.ErrorIs(t, svc.SetStatus(ctx, approvedID, "published"), ErrInvalidInput)
}

func TestListFiltersAndSearch(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarshipService(db)
	ctx := context.Background()

	inputs := []SubmitScholarshipInput{
		{Title: "Berlin AI Fellowship", Provider: "TU Berlin", Country: "Germany", Level: "PhD"},
		{Title: "Tokyo Robotics Grant", Provider: "Keio University", Country: "Japan", Level: "Masters"},
		{Title: "Munich Data Scholarship", Provider: "LMU", Country: "Germany", Level: "Masters"},
	}
	for _, in := range inputs {
		_, err := svc.Submit(ctx, in)
		require.NoError(t, err)
	}

	germany, total, err := svc.List(ctx, ListScholarshipsOptions{Country: "Germany"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, germany, 2)

	// Search is case-insensitive over title and provider.
	found, _, err := svc.List(ctx, ListScholarshipsOptions{Search: "robotics"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, "Tokyo Robotics Grant", found[0].Title)

	byProvider, _, err := svc.List(ctx, ListScholarshipsOptions{Search: "keio"})
	require.NoError(t, err)
	assert.Len(t, byProvider, 1)
}

func TestUpdateAndDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewScholarshipService(db)
	ctx := context.Background()

	id := submitScholarship(t, svc, "Original Title")

	err := svc.Update(ctx, id, SubmitScholarshipInput{
		Title:    "Revised Title",
		Provider: "Example Foundation",
		Amount:   "EUR 1200/month",
	})
	require.NoError(t, err)

	sch, err := svc.Get(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Revised Title", sch.Title)
	assert.Equal(t, "EUR 1200/month", sch.Amount)

	assert.ErrorIs(t, svc.Update(ctx, 9999, SubmitScholarshipInput{Title: "x", Provider: "y"}), ErrNotFound)

	require.NoError(t, svc.Delete(ctx, id))
	assert.ErrorIs(t, svc.Delete(ctx, id), ErrNotFound)

	_, err = svc.Get(ctx, id)
	assert.ErrorIs(t, err, ErrNotFound)
}
