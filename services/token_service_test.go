package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/scholarsknowledge/api/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rawTokenFromLink(t *testing.T, link string) string {
	t.Helper()
	parts := strings.SplitN(link, "token=", 2)
	require.Len(t, parts, 2, "reset link carries no token: %s", link)
	return parts[1]
}

func TestTokenIssueStoresHashOnly(t *testing.T) {
	db := newTestDB(t)
	svc := NewTokenService(db, "http://localhost:5174")

	result, err := svc.Issue(context.Background(), "Student@Example.COM", "10.0.0.1", "test-agent")
	require.NoError(t, err)
	assert.Equal(t, "student@example.com", result.Email)
	assert.Contains(t, result.ResetLink, "http://localhost:5174/login?mode=reset&token=")

	raw := rawTokenFromLink(t, result.ResetLink)
	assert.Len(t, raw, 64) // 32 bytes hex encoded

	var stored model.PasswordResetToken
	require.NoError(t, db.First(&stored).Error)
	assert.NotEqual(t, raw, stored.TokenHash)
	assert.Len(t, stored.TokenHash, 64)
	assert.Equal(t, "10.0.0.1", stored.IP)
	assert.Nil(t, stored.UsedAt)
}

func TestTokenVerifyConsumesOnce(t *testing.T) {
	db := newTestDB(t)
	svc := NewTokenService(db, "http://localhost:5174")

	result, err := svc.Issue(context.Background(), "someone@example.com", "", "")
	require.NoError(t, err)
	raw := rawTokenFromLink(t, result.ResetLink)

	email, err := svc.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "someone@example.com", email)

	_, err = svc.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrAlreadyUsed)
}

func TestTokenVerifyUnknown(t *testing.T) {
	db := newTestDB(t)
	svc := NewTokenService(db, "http://localhost:5174")

	_, err := svc.Verify(context.Background(), strings.Repeat("ab", 32))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestTokenVerifyExpired(t *testing.T) {
	db := newTestDB(t)
	svc := NewTokenService(db, "http://localhost:5174")

	issuedAt := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	svc.now = fixedClock(issuedAt)

	result, err := svc.Issue(context.Background(), "late@example.com", "", "")
	require.NoError(t, err)
	raw := rawTokenFromLink(t, result.ResetLink)

	// One second inside the window it still verifies.
	svc.now = fixedClock(issuedAt.Add(TokenTTL - time.Second))
	email, err := svc.Verify(context.Background(), raw)
	require.NoError(t, err)
	assert.Equal(t, "late@example.com", email)

	// A fresh token checked exactly at the deadline is already expired.
	svc.now = fixedClock(issuedAt)
	result2, err := svc.Issue(context.Background(), "late@example.com", "", "")
	require.NoError(t, err)
	raw2 := rawTokenFromLink(t, result2.ResetLink)

	svc.now = fixedClock(issuedAt.Add(TokenTTL))
	_, err = svc.Verify(context.Background(), raw2)
	assert.ErrorIs(t, err, ErrExpired)
}

func TestTokenIssueDoesNotProbeAccounts(t *testing.T) {
	db := newTestDB(t)
	svc := NewTokenService(db, "http://localhost:5174")

	// No user row exists for this address; issuance still succeeds.
	result, err := svc.Issue(context.Background(), "nobody@example.com", "", "")
	require.NoError(t, err)
	assert.NotEmpty(t, result.ResetLink)
}

func TestTokenPurgeStale(t *testing.T) {
	db := newTestDB(t)
	svc := NewTokenService(db, "http://localhost:5174")

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)

	svc.now = fixedClock(base.AddDate(0, 0, -8))
	_, err := svc.Issue(context.Background(), "old@example.com", "", "")
	require.NoError(t, err)

	svc.now = fixedClock(base.AddDate(0, 0, -1))
	fresh, err := svc.Issue(context.Background(), "fresh@example.com", "", "")
	require.NoError(t, err)

	svc.now = fixedClock(base)
	purged, err := svc.PurgeStale(context.Background(), 7*24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var remaining int64
	require.NoError(t, db.Model(&model.PasswordResetToken{}).Count(&remaining).Error)
	assert.Equal(t, int64(1), remaining)

	// The surviving token is still redeemable (expired, but present).
	raw := rawTokenFromLink(t, fresh.ResetLink)
	_, err = svc.Verify(context.Background(), raw)
	assert.ErrorIs(t, err, ErrExpired)
}
