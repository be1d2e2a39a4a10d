package services

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/scholarsknowledge/api/model"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// ThreadRetention is how long a thread may sit without a new message
// before the sweep removes it, messages and all.
const ThreadRetention = 150 * 24 * time.Hour

// MessageService owns student-lecturer conversation threads.
type MessageService struct {
	db  *gorm.DB
	now func() time.Time
}

// NewMessageService creates a new message service
func NewMessageService(db *gorm.DB) *MessageService {
	return &MessageService{
		db:  db,
		now: time.Now,
	}
}

// ThreadSummary is a thread annotated with the text of its most recent
// message for list views.
type ThreadSummary struct {
	model.Thread
	LastMessageText string `json:"lastMessageText"`
}

// MessageView is a message with its attachment collection decoded from
// storage into structured form.
type MessageView struct {
	ID          string             `json:"id"`
	ThreadID    string             `json:"threadId"`
	SenderUID   string             `json:"senderUid"`
	SenderRole  string             `json:"senderRole"`
	Text        string             `json:"text"`
	Attachments []model.Attachment `json:"attachments"`
	CreatedAt   time.Time          `json:"createdAt"`
}

// StartThread creates a thread and its first message as one transaction:
// either both rows exist afterwards or neither does. The first message
// is always from the student. Returns the new thread id.
func (s *MessageService) StartThread(ctx context.Context, studentUID, lecturerUID, subject, text string, attachments []model.Attachment) (string, error) {
	if studentUID == "" || lecturerUID == "" {
		return "", fmt.Errorf("%w: studentUid and lecturerUid required", ErrInvalidInput)
	}

	now := s.now()
	thread := model.Thread{
		ID:          uuid.NewString(),
		StudentUID:  studentUID,
		LecturerUID: lecturerUID,
		Subject:     subject,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	msg := model.Message{
		ID:          uuid.NewString(),
		ThreadID:    thread.ID,
		SenderUID:   studentUID,
		SenderRole:  model.RoleStudent,
		Text:        text,
		Attachments: encodeAttachments(attachments),
		CreatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&thread).Error; err != nil {
			return err
		}
		return tx.Create(&msg).Error
	})
	if err != nil {
		return "", fmt.Errorf("failed to start thread: %w", err)
	}

	return thread.ID, nil
}

// Reply appends a message and bumps the thread's updatedAt to the
// message's creation instant, in one transaction, so the thread's "last
// updated" time never lags its actual last message.
func (s *MessageService) Reply(ctx context.Context, threadID, senderUID, senderRole, text string, attachments []model.Attachment) (string, error) {
	if threadID == "" || senderUID == "" || senderRole == "" {
		return "", fmt.Errorf("%w: threadId, senderUid and senderRole required", ErrInvalidInput)
	}

	now := s.now()
	msg := model.Message{
		ID:          uuid.NewString(),
		ThreadID:    threadID,
		SenderUID:   senderUID,
		SenderRole:  strings.ToLower(senderRole),
		Text:        text,
		Attachments: encodeAttachments(attachments),
		CreatedAt:   now,
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var thread model.Thread
		if err := tx.Where("id = ?", threadID).First(&thread).Error; err != nil {
			if err == gorm.ErrRecordNotFound {
				return ErrNotFound
			}
			return err
		}

		if !thread.InvolvedParty(senderUID) {
			return ErrForbidden
		}

		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		return tx.Model(&model.Thread{}).
			Where("id = ?", threadID).
			Update("updated_at", now).Error
	})
	if err != nil {
		if err == ErrNotFound || err == ErrForbidden {
			return "", err
		}
		return "", fmt.Errorf("failed to append reply: %w", err)
	}

	return msg.ID, nil
}

// ListThreads returns up to 1000 threads for the given party, newest
// updated first, each annotated with its latest message text. The
// preview costs one point query per thread, fine at this scale.
func (s *MessageService) ListThreads(ctx context.Context, partyUID, asRole string) ([]ThreadSummary, error) {
	if partyUID == "" {
		return nil, fmt.Errorf("%w: studentUid or lecturerUid required", ErrInvalidInput)
	}

	column := "student_uid"
	if asRole == model.RoleLecturer {
		column = "lecturer_uid"
	}

	var threads []model.Thread
	err := s.db.WithContext(ctx).
		Where(column+" = ?", partyUID).
		Order("updated_at DESC").
		Limit(1000).
		Find(&threads).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list threads: %w", err)
	}

	summaries := make([]ThreadSummary, 0, len(threads))
	for _, t := range threads {
		var last model.Message
		text := ""
		err := s.db.WithContext(ctx).
			Select("text").
			Where("thread_id = ?", t.ID).
			Order("created_at DESC").
			First(&last).Error
		if err == nil {
			text = last.Text
		} else if err != gorm.ErrRecordNotFound {
			return nil, fmt.Errorf("failed to fetch thread preview: %w", err)
		}
		summaries = append(summaries, ThreadSummary{Thread: t, LastMessageText: text})
	}

	return summaries, nil
}

// GetThread returns the thread and its full message list, oldest first,
// attachments decoded. Only the two parties may read it.
func (s *MessageService) GetThread(ctx context.Context, threadID, callerUID string) (*model.Thread, []MessageView, error) {
	var thread model.Thread
	err := s.db.WithContext(ctx).Where("id = ?", threadID).First(&thread).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, nil, ErrNotFound
		}
		return nil, nil, fmt.Errorf("failed to fetch thread: %w", err)
	}

	if !thread.InvolvedParty(callerUID) {
		return nil, nil, ErrForbidden
	}

	var messages []model.Message
	err = s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("created_at ASC").
		Find(&messages).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to fetch thread messages: %w", err)
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		views = append(views, MessageView{
			ID:          m.ID,
			ThreadID:    m.ThreadID,
			SenderUID:   m.SenderUID,
			SenderRole:  m.SenderRole,
			Text:        m.Text,
			Attachments: decodeAttachments(m.Attachments),
			CreatedAt:   m.CreatedAt,
		})
	}

	return &thread, views, nil
}

// PurgeOld removes threads whose last activity predates the retention
// window. Messages are deleted before their threads inside one
// transaction, so the sweep never leaves orphans; a reply racing the
// sweep loses rather than resurrecting a half-deleted thread.
func (s *MessageService) PurgeOld(ctx context.Context) (int64, error) {
	cutoff := s.now().Add(-ThreadRetention)

	var purged int64
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ids []string
		if err := tx.Model(&model.Thread{}).
			Where("updated_at < ?", cutoff).
			Pluck("id", &ids).Error; err != nil {
			return err
		}
		if len(ids) == 0 {
			return nil
		}

		if err := tx.Where("thread_id IN ?", ids).Delete(&model.Message{}).Error; err != nil {
			return err
		}
		result := tx.Where("id IN ?", ids).Delete(&model.Thread{})
		purged = result.RowsAffected
		return result.Error
	})
	return purged, err
}

func encodeAttachments(attachments []model.Attachment) datatypes.JSON {
	if attachments == nil {
		attachments = []model.Attachment{}
	}
	encoded, err := json.Marshal(attachments)
	if err != nil {
		return datatypes.JSON([]byte("[]"))
	}
	return datatypes.JSON(encoded)
}

func decodeAttachments(raw datatypes.JSON) []model.Attachment {
	attachments := []model.Attachment{}
	if len(raw) == 0 {
		return attachments
	}
	if err := json.Unmarshal(raw, &attachments); err != nil {
		return []model.Attachment{}
	}
	return attachments
}
