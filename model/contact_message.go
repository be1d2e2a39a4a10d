package model

import (
	"time"
)

// Size limits for contact messages. Oversized input is rejected with an
// explicit error, not truncated.
const (
	ContactSubjectMax        = 240
	ContactBodyMax           = 8000
	ContactAttachmentNameMax = 180
	ContactAttachmentMimeMax = 100
	ContactAttachmentDataMax = 2_000_000 // encoded payload, ~2MB
)

// ContactMessage is a one-shot message from a student to a lecturer,
// outside any thread. The sender and recipient display fields are a
// snapshot taken at send time and are not refreshed if the underlying
// user records change later.
type ContactMessage struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Sender snapshot
	StudentUID     string `gorm:"column:student_uid;type:varchar(128);index:idx_contact_student,priority:1" json:"studentUid"`
	StudentName    string `gorm:"type:varchar(140)" json:"studentName"`
	StudentProgram string `gorm:"type:varchar(140)" json:"studentProgram"`

	// Recipient snapshot
	LecturerUID     string `gorm:"column:lecturer_uid;type:varchar(128);index:idx_contact_lecturer,priority:1" json:"lecturerUid"`
	LecturerName    string `gorm:"type:varchar(140)" json:"lecturerName"`
	LecturerTitle   string `gorm:"type:varchar(40)" json:"lecturerTitle"`
	LecturerFaculty string `gorm:"type:varchar(200)" json:"lecturerFaculty"`

	// Content
	Subject        string  `gorm:"type:varchar(240)" json:"subject"`
	Body           string  `gorm:"type:text" json:"body"`
	AttachmentName *string `gorm:"type:varchar(180)" json:"attachmentName,omitempty"`
	AttachmentMime *string `gorm:"type:varchar(100)" json:"attachmentMime,omitempty"`
	AttachmentData *string `gorm:"type:text" json:"attachmentData,omitempty"`

	IsRead bool `gorm:"column:is_read;default:false" json:"isRead"`
}

// TableName specifies the table name for ContactMessage
func (ContactMessage) TableName() string {
	return "contact_messages"
}

// InvolvedParty reports whether the given uid is the sender or recipient.
func (m *ContactMessage) InvolvedParty(uid string) bool {
	return uid != "" && (uid == m.StudentUID || uid == m.LecturerUID)
}
