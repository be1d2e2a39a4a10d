package services

import (
	"context"
	"fmt"
	"time"

	"github.com/scholarsknowledge/api/model"
	"github.com/scholarsknowledge/api/utils/validation"
	"gorm.io/gorm"
)

// ContactRetentionMonths is the maximum age of a contact message before
// the sweep removes it. Calendar months, not a fixed day count.
const ContactRetentionMonths = 5

// ContactService is the one-shot student-to-lecturer mailbox.
type ContactService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewContactService creates a new contact service
func NewContactService(db *gorm.DB) *ContactService {
	return &ContactService{
		db:  db,
		now: time.Now,
	}
}

// ContactAttachment is the inline attachment payload on a send request.
type ContactAttachment struct {
	Name string `json:"name"`
	Mime string `json:"mime"`
	Data string `json:"data"`
}

// SendContactInput is the payload for sending a contact message. The
// display fields are a snapshot captured client-side at send time.
type SendContactInput struct {
	StudentUID      string
	StudentName     string
	StudentProgram  string
	LecturerUID     string
	LecturerName    string
	LecturerTitle   string
	LecturerFaculty string
	Subject         string
	Body            string
	Attachment      *ContactAttachment
}

// Send persists a new unread contact message. Oversized subject, body or
// attachment payloads are rejected outright rather than truncated;
// display-field snapshots are merely clamped since they are advisory.
func (s *ContactService) Send(ctx context.Context, in SendContactInput) (uint, error) {
	if in.StudentUID == "" || in.LecturerUID == "" {
		return 0, fmt.Errorf("%w: studentUid and lecturerUid required", ErrInvalidInput)
	}
	if len(in.Subject) > model.ContactSubjectMax {
		return 0, fmt.Errorf("%w: subject exceeds %d characters", ErrInvalidInput, model.ContactSubjectMax)
	}
	if len(in.Body) > model.ContactBodyMax {
		return 0, fmt.Errorf("%w: body exceeds %d characters", ErrInvalidInput, model.ContactBodyMax)
	}

	now := s.now()
	msg := model.ContactMessage{
		CreatedAt:       now,
		UpdatedAt:       now,
		StudentUID:      in.StudentUID,
		StudentName:     validation.Clamp(in.StudentName, 140),
		StudentProgram:  validation.Clamp(in.StudentProgram, 140),
		LecturerUID:     in.LecturerUID,
		LecturerName:    validation.Clamp(in.LecturerName, 140),
		LecturerTitle:   validation.Clamp(in.LecturerTitle, 40),
		LecturerFaculty: validation.Clamp(in.LecturerFaculty, 200),
		Subject:         in.Subject,
		Body:            in.Body,
		IsRead:          false,
	}

	if in.Attachment != nil {
		if len(in.Attachment.Data) > model.ContactAttachmentDataMax {
			return 0, fmt.Errorf("%w: attachment exceeds %d bytes encoded", ErrInvalidInput, model.ContactAttachmentDataMax)
		}
		name := validation.Clamp(in.Attachment.Name, model.ContactAttachmentNameMax)
		mime := validation.Clamp(in.Attachment.Mime, model.ContactAttachmentMimeMax)
		data := in.Attachment.Data
		msg.AttachmentName = &name
		msg.AttachmentMime = &mime
		msg.AttachmentData = &data
	}

	if err := s.db.WithContext(ctx).Create(&msg).Error; err != nil {
		return 0, fmt.Errorf("failed to store contact message: %w", err)
	}

	return msg.ID, nil
}

// ListInbox returns the lecturer's inbox: unread messages first, then
// newest first within each group, capped at 500.
func (s *ContactService) ListInbox(ctx context.Context, lecturerUID string) ([]model.ContactMessage, error) {
	if lecturerUID == "" {
		return nil, fmt.Errorf("%w: lecturerUid required", ErrInvalidInput)
	}

	var messages []model.ContactMessage
	err := s.db.WithContext(ctx).
		Where("lecturer_uid = ?", lecturerUID).
		Order("is_read ASC, created_at DESC").
		Limit(500).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list inbox: %w", err)
	}
	return messages, nil
}

// ListSent returns the student's sent messages, newest first, capped at
// 500. Read state is the same row the inbox sees, so a recipient opening
// a message flips it here too.
func (s *ContactService) ListSent(ctx context.Context, studentUID string) ([]model.ContactMessage, error) {
	if studentUID == "" {
		return nil, fmt.Errorf("%w: studentUid required", ErrInvalidInput)
	}

	var messages []model.ContactMessage
	err := s.db.WithContext(ctx).
		Where("student_uid = ?", studentUID).
		Order("created_at DESC").
		Limit(500).
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sent messages: %w", err)
	}
	return messages, nil
}

// MarkRead flags a message read. Only the recipient may do so; marking
// an already-read or absent message succeeds silently, the operation
// exists to converge client state, not to validate ids.
func (s *ContactService) MarkRead(ctx context.Context, id uint, callerUID string) error {
	var msg model.ContactMessage
	err := s.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to look up contact message: %w", err)
	}

	if msg.LecturerUID != callerUID {
		return ErrForbidden
	}

	err = s.db.WithContext(ctx).Model(&msg).Updates(map[string]interface{}{
		"is_read":    true,
		"updated_at": s.now(),
	}).Error
	if err != nil {
		return fmt.Errorf("failed to mark message read: %w", err)
	}
	return nil
}

// Delete removes a message. Either party may delete; anyone else is
// refused. Deleting an absent row succeeds.
func (s *ContactService) Delete(ctx context.Context, id uint, callerUID string) error {
	var msg model.ContactMessage
	err := s.db.WithContext(ctx).First(&msg, id).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil
		}
		return fmt.Errorf("failed to look up contact message: %w", err)
	}

	if !msg.InvolvedParty(callerUID) {
		return ErrForbidden
	}

	if err := s.db.WithContext(ctx).Delete(&msg).Error; err != nil {
		return fmt.Errorf("failed to delete contact message: %w", err)
	}
	return nil
}

// PurgeOld deletes messages created before the retention cutoff. The
// comparison is strict, so a row created exactly at the cutoff instant
// survives this run.
func (s *ContactService) PurgeOld(ctx context.Context) (int64, error) {
	cutoff := s.now().AddDate(0, -ContactRetentionMonths, 0)
	result := s.db.WithContext(ctx).
		Where("created_at < ?", cutoff).
		Delete(&model.ContactMessage{})
	return result.RowsAffected, result.Error
}
