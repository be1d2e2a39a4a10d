package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/scholarsknowledge/api/model"
	"gorm.io/gorm"
)

// ScholarshipService owns partner-submitted postings and their
// moderation lifecycle. Submissions land as pending and reach the public
// directory only after an admin approves them.
type ScholarshipService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewScholarshipService creates a new scholarship service
func NewScholarshipService(db *gorm.DB) *ScholarshipService {
	return &ScholarshipService{
		db:  db,
		now: time.Now,
	}
}

// SubmitScholarshipInput is a partner's posting payload.
type SubmitScholarshipInput struct {
	Title           string
	Provider        string
	Country         string
	Level           string
	Field           string
	FundingType     string
	Deadline        string
	Link            string
	PartnerApplyURL string
	Description     string
	Eligibility     string
	Benefits        string
	HowToApply      string
	Amount          string
	Notes           string
	PartnerEmail    string
}

// Submit stores a new posting in pending state regardless of what the
// caller claims.
func (s *ScholarshipService) Submit(ctx context.Context, in SubmitScholarshipInput) (uint, error) {
	if in.Title == "" || in.Provider == "" {
		return 0, fmt.Errorf("%w: title and provider required", ErrInvalidInput)
	}

	now := s.now()
	sch := model.Scholarship{
		Title:           in.Title,
		Provider:        in.Provider,
		Country:         in.Country,
		Level:           in.Level,
		Field:           in.Field,
		FundingType:     in.FundingType,
		Deadline:        in.Deadline,
		Link:            in.Link,
		PartnerApplyURL: in.PartnerApplyURL,
		Description:     in.Description,
		Eligibility:     in.Eligibility,
		Benefits:        in.Benefits,
		HowToApply:      in.HowToApply,
		Amount:          in.Amount,
		Notes:           in.Notes,
		PartnerEmail:    strings.ToLower(strings.TrimSpace(in.PartnerEmail)),
		Status:          model.ScholarshipPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err := s.db.WithContext(ctx).Create(&sch).Error; err != nil {
		return 0, fmt.Errorf("failed to store scholarship: %w", err)
	}
	return sch.ID, nil
}

// ListScholarshipsOptions filters the directory listing.
type ListScholarshipsOptions struct {
	Status      string // moderators may list any status; public sees approved only
	Country     string
	Level       string
	Field       string
	FundingType string
	Search      string
	Page        int
	Limit       int
}

// List returns matching postings and the total match count.
func (s *ScholarshipService) List(ctx context.Context, opts ListScholarshipsOptions) ([]model.Scholarship, int64, error) {
	query := s.db.WithContext(ctx).Model(&model.Scholarship{})

	if opts.Status != "" {
		query = query.Where("status = ?", opts.Status)
	}
	if opts.Country != "" {
		query = query.Where("country = ?", opts.Country)
	}
	if opts.Level != "" {
		query = query.Where("level = ?", opts.Level)
	}
	if opts.Field != "" {
		query = query.Where("field = ?", opts.Field)
	}
	if opts.FundingType != "" {
		query = query.Where("funding_type = ?", opts.FundingType)
	}
	if opts.Search != "" {
		pattern := "%" + strings.ToLower(opts.Search) + "%"
		query = query.Where("LOWER(title) LIKE ? OR LOWER(provider) LIKE ?", pattern, pattern)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count scholarships: %w", err)
	}

	page := opts.Page
	if page < 1 {
		page = 1
	}
	limit := opts.Limit
	if limit < 1 {
		limit = 10
	}
	if limit > 100 {
		limit = 100
	}

	var scholarships []model.Scholarship
	err := query.Order("created_at DESC").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&scholarships).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list scholarships: %w", err)
	}

	return scholarships, total, nil
}

// Get returns a single posting by id.
func (s *ScholarshipService) Get(ctx context.Context, id uint) (*model.Scholarship, error) {
	var sch model.Scholarship
	err := s.db.WithContext(ctx).First(&sch, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch scholarship: %w", err)
	}
	return &sch, nil
}

// SetStatus moves a posting through moderation.
func (s *ScholarshipService) SetStatus(ctx context.Context, id uint, status model.ScholarshipStatus) error {
	switch status {
	case model.ScholarshipPending, model.ScholarshipApproved, model.ScholarshipRejected:
	default:
		return fmt.Errorf("%w: unknown status %q", ErrInvalidInput, status)
	}

	result := s.db.WithContext(ctx).Model(&model.Scholarship{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"status":     status,
			"updated_at": s.now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update scholarship status: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Update replaces the editable fields of a posting.
func (s *ScholarshipService) Update(ctx context.Context, id uint, in SubmitScholarshipInput) error {
	if in.Title == "" || in.Provider == "" {
		return fmt.Errorf("%w: title and provider required", ErrInvalidInput)
	}

	result := s.db.WithContext(ctx).Model(&model.Scholarship{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"title":             in.Title,
			"provider":          in.Provider,
			"country":           in.Country,
			"level":             in.Level,
			"field":             in.Field,
			"funding_type":      in.FundingType,
			"deadline":          in.Deadline,
			"link":              in.Link,
			"partner_apply_url": in.PartnerApplyURL,
			"description":       in.Description,
			"eligibility":       in.Eligibility,
			"benefits":          in.Benefits,
			"how_to_apply":      in.HowToApply,
			"amount":            in.Amount,
			"notes":             in.Notes,
			"updated_at":        s.now(),
		})
	if result.Error != nil {
		return fmt.Errorf("failed to update scholarship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes a posting.
func (s *ScholarshipService) Delete(ctx context.Context, id uint) error {
	result := s.db.WithContext(ctx).Delete(&model.Scholarship{}, id)
	if result.Error != nil {
		return fmt.Errorf("failed to delete scholarship: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
