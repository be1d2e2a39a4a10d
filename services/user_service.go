package services

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarsknowledge/api/model"
	"github.com/scholarsknowledge/api/utils/textkey"
	"gorm.io/gorm"
)

// UserService owns profile upserts, the lecturer directory and the
// heartbeat-based presence tracker.
type UserService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewUserService creates a new user service
func NewUserService(db *gorm.DB) *UserService {
	return &UserService{
		db:  db,
		now: time.Now,
	}
}

// UpsertUserInput is the profile payload sent on login.
type UpsertUserInput struct {
	UID        string
	Role       string
	Name       string
	Email      string
	University string
	Faculty    string
	Title      string
	PhotoURL   string
	LastSeen   *int64
}

// Upsert creates or refreshes the profile row keyed by UID and returns
// the derived ufKey. When the payload carries no heartbeat, an earlier
// lastSeen on the row is preserved.
func (s *UserService) Upsert(ctx context.Context, in UpsertUserInput) (string, error) {
	if in.UID == "" {
		return "", fmt.Errorf("%w: uid required", ErrInvalidInput)
	}

	ufKey := textkey.UFKey(in.University, in.Faculty)
	now := s.now()

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing model.User
		err := tx.Where("uid = ?", in.UID).First(&existing).Error
		if err != nil && err != gorm.ErrRecordNotFound {
			return err
		}

		online := in.LastSeen != nil
		user := model.User{
			UID:        in.UID,
			Role:       in.Role,
			Name:       in.Name,
			Email:      in.Email,
			University: in.University,
			Faculty:    in.Faculty,
			UFKey:      ufKey,
			Title:      in.Title,
			PhotoURL:   in.PhotoURL,
			UpdatedAt:  now,
			LastSeen:   in.LastSeen,
			Online:     &online,
		}

		if err == gorm.ErrRecordNotFound {
			user.CreatedAt = now
			return tx.Create(&user).Error
		}

		user.CreatedAt = existing.CreatedAt
		if user.LastSeen == nil {
			user.LastSeen = existing.LastSeen
			user.Online = existing.Online
		}
		return tx.Model(&model.User{}).Where("uid = ?", in.UID).
			Select("role", "name", "email", "university", "faculty",
				"uf_key", "title", "photo_url", "updated_at", "last_seen", "online").
			Updates(&user).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to upsert user: %w", err)
	}

	return ufKey, nil
}

// Heartbeat records "this user is active now" and returns the stored
// instant. Unknown uids fail with ErrNotFound; a heartbeat names a
// principal, so a miss is a client bug worth surfacing.
func (s *UserService) Heartbeat(ctx context.Context, uid string) (int64, error) {
	if uid == "" {
		return 0, fmt.Errorf("%w: uid required", ErrInvalidInput)
	}

	now := s.now()
	nowMs := now.UnixMilli()
	online := true

	result := s.db.WithContext(ctx).Model(&model.User{}).
		Where("uid = ?", uid).
		Updates(map[string]interface{}{
			"last_seen":  nowMs,
			"online":     &online,
			"updated_at": now,
		})
	if result.Error != nil {
		return 0, fmt.Errorf("failed to record heartbeat: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, ErrNotFound
	}

	return nowMs, nil
}

// ListLecturers returns lecturers grouped under the given university and
// faculty, name-ordered, with presence computed against the current
// clock.
func (s *UserService) ListLecturers(ctx context.Context, university, faculty string) ([]model.User, error) {
	ufKey := textkey.UFKey(university, faculty)

	var users []model.User
	err := s.db.WithContext(ctx).
		Where("role = ? AND uf_key = ?", model.RoleLecturer, ufKey).
		Order("LOWER(name) ASC").
		Limit(500).
		Find(&users).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list lecturers: %w", err)
	}

	now := s.now()
	for i := range users {
		s.applyPresence(&users[i], now)
	}
	return users, nil
}

// GetUser returns a single profile with computed presence.
func (s *UserService) GetUser(ctx context.Context, uid string) (*model.User, error) {
	if uid == "" {
		return nil, fmt.Errorf("%w: uid required", ErrInvalidInput)
	}

	var user model.User
	err := s.db.WithContext(ctx).Where("uid = ?", uid).First(&user).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch user: %w", err)
	}

	s.applyPresence(&user, s.now())
	return &user, nil
}

// applyPresence overwrites the legacy online column with the heartbeat
// heuristic. Rows that predate lastSeen keep their stored flag.
func (s *UserService) applyPresence(u *model.User, now time.Time) {
	if u.LastSeen == nil {
		if u.Online == nil {
			off := false
			u.Online = &off
		}
		return
	}
	online := u.IsOnlineAt(now)
	u.Online = &online
}
