package model

import (
	"time"
)

// User roles
const (
	RoleStudent  = "student"
	RoleLecturer = "lecturer"
	RolePartner  = "partner"
	RoleAdmin    = "admin"
)

// PresenceWindow is how long after a heartbeat a user still counts as online.
const PresenceWindow = 120 * time.Second

// User represents a student or lecturer profile, upserted on login.
// The record is keyed by the auth provider's UID, not a serial ID, so
// repeated logins update the same row.
type User struct {
	UID        string    `gorm:"primaryKey;column:uid;type:varchar(128)" json:"uid"`
	Role       string    `gorm:"type:varchar(20);index" json:"role"`
	Name       string    `gorm:"type:varchar(255)" json:"name"`
	Email      string    `gorm:"type:varchar(255);index" json:"email"`
	University string    `gorm:"type:varchar(255)" json:"university"`
	Faculty    string    `gorm:"type:varchar(255)" json:"faculty"`
	UFKey      string    `gorm:"column:uf_key;type:varchar(512);index" json:"ufKey"`
	Title      string    `gorm:"type:varchar(80)" json:"title"`
	PhotoURL   string    `gorm:"type:varchar(1024)" json:"photoURL"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`

	// LastSeen is the last heartbeat, unix milliseconds. Nil until the
	// client pings for the first time.
	LastSeen *int64 `gorm:"column:last_seen" json:"lastSeen"`

	// Online is a legacy column kept for rows written before lastSeen
	// existed. Readers overwrite it with the computed presence value.
	Online *bool `gorm:"column:online" json:"online"`
}

// TableName specifies the table name for User
func (User) TableName() string {
	return "users"
}

// IsOnlineAt reports whether the user counts as online at the given
// instant. Presence is a heuristic: a client that stops pinging silently
// stays "online" until the window elapses.
func (u *User) IsOnlineAt(now time.Time) bool {
	if u.LastSeen == nil {
		return false
	}
	return now.UnixMilli()-*u.LastSeen < PresenceWindow.Milliseconds()
}
