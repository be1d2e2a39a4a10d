package model

import (
	"time"
)

// ScholarshipStatus is the moderation state of a posting
type ScholarshipStatus string

const (
	ScholarshipPending  ScholarshipStatus = "pending"
	ScholarshipApproved ScholarshipStatus = "approved"
	ScholarshipRejected ScholarshipStatus = "rejected"
)

// Scholarship is a partner-submitted posting. Submissions enter as
// pending and only appear in the public directory once an admin approves
// them.
type Scholarship struct {
	ID              uint              `gorm:"primaryKey" json:"id"`
	Title           string            `gorm:"type:varchar(255);not null" json:"title"`
	Provider        string            `gorm:"type:varchar(255);not null" json:"provider"`
	Country         string            `gorm:"type:varchar(120)" json:"country"`
	Level           string            `gorm:"type:varchar(120)" json:"level"`
	Field           string            `gorm:"type:varchar(255)" json:"field"`
	FundingType     string            `gorm:"column:funding_type;type:varchar(120)" json:"fundingType"`
	Deadline        string            `gorm:"type:varchar(120)" json:"deadline"`
	Link            string            `gorm:"type:varchar(1024)" json:"link"`
	PartnerApplyURL string            `gorm:"column:partner_apply_url;type:varchar(1024)" json:"partnerApplyUrl"`
	Description     string            `gorm:"type:text" json:"description"`
	Eligibility     string            `gorm:"type:text" json:"eligibility"`
	Benefits        string            `gorm:"type:text" json:"benefits"`
	HowToApply      string            `gorm:"column:how_to_apply;type:text" json:"howToApply"`
	Amount          string            `gorm:"type:varchar(255)" json:"amount"`
	Notes           string            `gorm:"type:text" json:"notes"`
	PartnerEmail    string            `gorm:"column:partner_email;type:varchar(255);index" json:"partnerEmail"`
	Status          ScholarshipStatus `gorm:"type:varchar(20);default:'pending';index" json:"status"`
	CreatedAt       time.Time         `json:"createdAt"`
	UpdatedAt       time.Time         `json:"updatedAt"`
}

// TableName specifies the table name for Scholarship
func (Scholarship) TableName() string {
	return "scholarships"
}
