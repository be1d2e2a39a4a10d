package services

import (
	"context"
	"testing"
	"time"

	"github.com/scholarsknowledge/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertCreatesProfile(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	ufKey, err := svc.Upsert(context.Background(), UpsertUserInput{
		UID:        "u1",
		Role:       model.RoleLecturer,
		Name:       "Dr. Aisha Rahman",
		Email:      "aisha@example.edu",
		University: "Université de Montréal",
		Faculty:    "Computer Science",
		Title:      "Dr.",
	})
	require.NoError(t, err)
	assert.Equal(t, "universite-de-montreal::computer-science", ufKey)

	user, err := svc.GetUser(context.Background(), "u1")
	require.NoError(t, err)
	assert.Equal(t, "Dr. Aisha Rahman", user.Name)
	assert.Equal(t, ufKey, user.UFKey)
	require.NotNil(t, user.Online)
	assert.False(t, *user.Online)
}

func TestUpsertPreservesLastSeen(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	seen := time.Now().UnixMilli()
	_, err := svc.Upsert(ctx, UpsertUserInput{
		UID:      "u1",
		Role:     model.RoleStudent,
		Name:     "First",
		LastSeen: &seen,
	})
	require.NoError(t, err)

	// A later upsert without a heartbeat must not wipe presence.
	_, err = svc.Upsert(ctx, UpsertUserInput{
		UID:  "u1",
		Role: model.RoleStudent,
		Name: "Renamed",
	})
	require.NoError(t, err)

	var user model.User
	require.NoError(t, db.Where("uid = ?", "u1").First(&user).Error)
	assert.Equal(t, "Renamed", user.Name)
	require.NotNil(t, user.LastSeen)
	assert.Equal(t, seen, *user.LastSeen)
}

func TestHeartbeat(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertUserInput{UID: "u1", Role: model.RoleStudent})
	require.NoError(t, err)

	at := time.Date(2025, 6, 1, 9, 30, 0, 0, time.UTC)
	svc.now = fixedClock(at)

	lastSeen, err := svc.Heartbeat(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, at.UnixMilli(), lastSeen)

	user, err := svc.GetUser(ctx, "u1")
	require.NoError(t, err)
	require.NotNil(t, user.Online)
	assert.True(t, *user.Online)
}

func TestHeartbeatUnknownUID(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)

	_, err := svc.Heartbeat(context.Background(), "ghost")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestPresenceWindowBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name   string
		ago    time.Duration
		online bool
	}{
		{"just inside window", model.PresenceWindow - time.Second, true},
		{"exactly at window", model.PresenceWindow, false},
		{"just outside window", model.PresenceWindow + time.Second, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			seen := now.Add(-tc.ago).UnixMilli()
			_, err := svc.Upsert(ctx, UpsertUserInput{
				UID:      "u-" + tc.name,
				Role:     model.RoleLecturer,
				LastSeen: &seen,
			})
			require.NoError(t, err)

			svc.now = fixedClock(now)
			user, err := svc.GetUser(ctx, "u-"+tc.name)
			require.NoError(t, err)
			require.NotNil(t, user.Online)
			assert.Equal(t, tc.online, *user.Online)
		})
	}
}

func TestListLecturersFiltersByGroupAndRole(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	profiles := []UpsertUserInput{
		{UID: "l1", Role: model.RoleLecturer, Name: "zeta", University: "State University", Faculty: "Physics"},
		{UID: "l2", Role: model.RoleLecturer, Name: "Alpha", University: "State University", Faculty: "Physics"},
		{UID: "l3", Role: model.RoleLecturer, Name: "Beta", University: "State University", Faculty: "Biology"},
		{UID: "s1", Role: model.RoleStudent, Name: "Student", University: "State University", Faculty: "Physics"},
	}
	for _, p := range profiles {
		_, err := svc.Upsert(ctx, p)
		require.NoError(t, err)
	}

	lecturers, err := svc.ListLecturers(ctx, "State University", "Physics")
	require.NoError(t, err)
	require.Len(t, lecturers, 2)

	// Case-insensitive name order.
	assert.Equal(t, "Alpha", lecturers[0].Name)
	assert.Equal(t, "zeta", lecturers[1].Name)
}

func TestListLecturersMatchesNormalizedGroup(t *testing.T) {
	db := newTestDB(t)
	svc := NewUserService(db)
	ctx := context.Background()

	_, err := svc.Upsert(ctx, UpsertUserInput{
		UID: "l1", Role: model.RoleLecturer, Name: "Prof",
		University: "École Polytechnique", Faculty: "Génie Informatique",
	})
	require.NoError(t, err)

	// Diacritics and casing differ from the stored profile but the
	// derived keys agree.
	lecturers, err := svc.ListLecturers(ctx, "ecole polytechnique", "GENIE INFORMATIQUE")
	require.NoError(t, err)
	assert.Len(t, lecturers, 1)
}
