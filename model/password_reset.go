package model

import (
	"time"
)

// PasswordResetToken stores password reset tokens. Only the SHA-256 hash
// of the secret ever reaches the database; the raw secret lives in the
// reset link handed back to the requester.
type PasswordResetToken struct {
	ID        uint       `gorm:"primaryKey" json:"id"`
	Email     string     `gorm:"type:varchar(255);index;not null" json:"email"`
	TokenHash string     `gorm:"uniqueIndex;not null;type:varchar(64)" json:"-"`
	ExpiresAt time.Time  `gorm:"index;not null" json:"expires_at"`
	UsedAt    *time.Time `json:"used_at,omitempty"`
	CreatedAt time.Time  `json:"created_at"`

	// Advisory request metadata, not security critical.
	IP        string `gorm:"type:varchar(64)" json:"-"`
	UserAgent string `gorm:"type:varchar(512)" json:"-"`
}

// TableName specifies the table name for PasswordResetToken
func (PasswordResetToken) TableName() string {
	return "password_reset_tokens"
}

// IsExpiredAt checks if the reset token has expired at the given instant.
func (p *PasswordResetToken) IsExpiredAt(now time.Time) bool {
	return !now.Before(p.ExpiresAt)
}

// IsUsed checks if the reset token has been consumed. Consumption is
// terminal; a used token can never be revalidated.
func (p *PasswordResetToken) IsUsed() bool {
	return p.UsedAt != nil
}
