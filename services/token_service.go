package services

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/scholarsknowledge/api/model"
	"gorm.io/gorm"
)

const (
	// TokenTTL bounds the exposure window of a leaked reset link.
	TokenTTL = 30 * time.Minute

	// TokenSecretBytes is the entropy of the raw secret (256 bits).
	TokenSecretBytes = 32
)

// TokenService issues and redeems single-use password-reset tokens. The
// database only ever sees the SHA-256 of the secret, so a leaked table
// cannot be replayed into reset links.
type TokenService struct {
	db      *gorm.DB
	baseURL string
	now     func() time.Time
}

// NewTokenService creates a new token service. baseURL is the frontend
// origin the reset link points at.
func NewTokenService(db *gorm.DB, baseURL string) *TokenService {
	return &TokenService{
		db:      db,
		baseURL: baseURL,
		now:     time.Now,
	}
}

// IssueResult carries the outcome of a token issuance.
type IssueResult struct {
	Email     string
	ResetLink string
}

// Issue creates a reset token for the given email and returns the link
// embedding the raw secret. It does not check that the email belongs to
// a known account: issuance succeeds uniformly so callers cannot probe
// which addresses exist.
func (s *TokenService) Issue(ctx context.Context, email, ip, userAgent string) (*IssueResult, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, fmt.Errorf("%w: email required", ErrInvalidInput)
	}

	secret := make([]byte, TokenSecretBytes)
	if _, err := rand.Read(secret); err != nil {
		return nil, fmt.Errorf("failed to generate token secret: %w", err)
	}
	rawToken := hex.EncodeToString(secret)

	now := s.now()
	token := model.PasswordResetToken{
		Email:     email,
		TokenHash: hashToken(rawToken),
		ExpiresAt: now.Add(TokenTTL),
		CreatedAt: now,
		IP:        ip,
		UserAgent: userAgent,
	}

	if err := s.db.WithContext(ctx).Create(&token).Error; err != nil {
		return nil, fmt.Errorf("failed to store reset token: %w", err)
	}

	return &IssueResult{
		Email:     email,
		ResetLink: fmt.Sprintf("%s/login?mode=reset&token=%s", s.baseURL, rawToken),
	}, nil
}

// Verify redeems a raw token. The first successful call consumes the
// token and returns the owning email; every later call fails with
// ErrAlreadyUsed. Consumption is a conditional update so two concurrent
// redemptions of the same secret cannot both win.
func (s *TokenService) Verify(ctx context.Context, rawToken string) (string, error) {
	if rawToken == "" {
		return "", fmt.Errorf("%w: token required", ErrInvalidInput)
	}

	var token model.PasswordResetToken
	err := s.db.WithContext(ctx).
		Where("token_hash = ?", hashToken(rawToken)).
		First(&token).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("failed to look up reset token: %w", err)
	}

	if token.IsUsed() {
		return "", ErrAlreadyUsed
	}

	now := s.now()
	if token.IsExpiredAt(now) {
		return "", ErrExpired
	}

	result := s.db.WithContext(ctx).
		Model(&model.PasswordResetToken{}).
		Where("id = ? AND used_at IS NULL", token.ID).
		Update("used_at", now)
	if result.Error != nil {
		return "", fmt.Errorf("failed to consume reset token: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		// Another redemption got there first.
		return "", ErrAlreadyUsed
	}

	return token.Email, nil
}

// PurgeStale deletes tokens created more than maxAge ago, used or not.
// Expired tokens are already unredeemable; this just keeps the table
// from growing without bound.
func (s *TokenService) PurgeStale(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.PasswordResetToken{})
	return result.RowsAffected, result.Error
}

func hashToken(rawToken string) string {
	sum := sha256.Sum256([]byte(rawToken))
	return hex.EncodeToString(sum[:])
}
