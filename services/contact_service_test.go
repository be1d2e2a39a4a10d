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

func sampleContact() SendContactInput {
	return SendContactInput{
		StudentUID:     "stu-1",
		StudentName:    "Mina Park",
		StudentProgram: "MSc Data Science",
		LecturerUID:    "lec-1",
		LecturerName:   "Prof. Okafor",
		LecturerTitle:  "Prof.",
		Subject:        "Question about admissions",
		Body:           "Hello, I would like to ask about the spring intake.",
	}
}

func TestContactSendAndReadStateShared(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	ctx := context.Background()

	id, err := svc.Send(ctx, sampleContact())
	require.NoError(t, err)
	require.NotZero(t, id)

	inbox, err := svc.ListInbox(ctx, "lec-1")
	require.NoError(t, err)
	require.Len(t, inbox, 1)
	assert.False(t, inbox[0].IsRead)

	require.NoError(t, svc.MarkRead(ctx, id, "lec-1"))

	// The sender's view reflects the recipient's read flag; both sides
	// read the same row.
	sent, err := svc.ListSent(ctx, "stu-1")
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.True(t, sent[0].IsRead)
}

func TestContactInboxOrdering(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	ctx := context.Background()

	base := time.Date(2025, 5, 1, 10, 0, 0, 0, time.UTC)
	ids := make([]uint, 3)
	for i := range ids {
		svc.now = fixedClock(base.Add(time.Duration(i) * time.Hour))
		in := sampleContact()
		in.Subject = []string{"oldest", "middle", "newest"}[i]
		id, err := svc.Send(ctx, in)
		require.NoError(t, err)
		ids[i] = id
	}

	// Read the newest message; it must sink below the unread ones.
	require.NoError(t, svc.MarkRead(ctx, ids[2], "lec-1"))

	inbox, err := svc.ListInbox(ctx, "lec-1")
	require.NoError(t, err)
	require.Len(t, inbox, 3)
	assert.Equal(t, "middle", inbox[0].Subject)
	assert.Equal(t, "oldest", inbox[1].Subject)
	assert.Equal(t, "newest", inbox[2].Subject)
}

func TestContactSendRejectsOversizedInput(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	ctx := context.Background()

	t.Run("subject", func(t *testing.T) {
		in := sampleContact()
		in.Subject = strings.Repeat("s", model.ContactSubjectMax+1)
		_, err := svc.Send(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("body", func(t *testing.T) {
		in := sampleContact()
		in.Body = strings.Repeat("b", model.ContactBodyMax+1)
		_, err := svc.Send(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("attachment", func(t *testing.T) {
		in := sampleContact()
		in.Attachment = &ContactAttachment{
			Name: "slides.pdf",
			Mime: "application/pdf",
			Data: strings.Repeat("a", model.ContactAttachmentDataMax+1),
		}
		_, err := svc.Send(ctx, in)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})

	t.Run("at the limit passes", func(t *testing.T) {
		in := sampleContact()
		in.Subject = strings.Repeat("s", model.ContactSubjectMax)
		_, err := svc.Send(ctx, in)
		assert.NoError(t, err)
	})
}

func TestContactSendClampsSnapshotFields(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)

	in := sampleContact()
	in.StudentName = strings.Repeat("n", 300)
	id, err := svc.Send(context.Background(), in)
	require.NoError(t, err)

	var msg model.ContactMessage
	require.NoError(t, db.First(&msg, id).Error)
	assert.Len(t, msg.StudentName, 140)
}

func TestContactMarkRead(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	ctx := context.Background()

	id, err := svc.Send(ctx, sampleContact())
	require.NoError(t, err)

	// Only the recipient may mark read; the sender cannot.
	assert.ErrorIs(t, svc.MarkRead(ctx, id, "stu-1"), ErrForbidden)
	assert.ErrorIs(t, svc.MarkRead(ctx, id, "someone-else"), ErrForbidden)

	// Absent rows and repeats succeed silently.
	assert.NoError(t, svc.MarkRead(ctx, 99999, "lec-1"))
	assert.NoError(t, svc.MarkRead(ctx, id, "lec-1"))
	assert.NoError(t, svc.MarkRead(ctx, id, "lec-1"))
}

func TestContactDelete(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	ctx := context.Background()

	id, err := svc.Send(ctx, sampleContact())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Delete(ctx, id, "stranger"), ErrForbidden)

	// Either party may delete.
	require.NoError(t, svc.Delete(ctx, id, "stu-1"))

	// Gone now; deleting again is a no-op.
	assert.NoError(t, svc.Delete(ctx, id, "stu-1"))

	inbox, err := svc.ListInbox(ctx, "lec-1")
	require.NoError(t, err)
	assert.Empty(t, inbox)
}

func TestContactRetentionBoundary(t *testing.T) {
	db := newTestDB(t)
	svc := NewContactService(db)
	ctx := context.Background()

	now := time.Date(2025, 7, 15, 3, 0, 0, 0, time.UTC)
	cutoff := now.AddDate(0, -ContactRetentionMonths, 0)

	cases := []struct {
		subject   string
		createdAt time.Time
		kept      bool
	}{
		{"older than cutoff", cutoff.Add(-time.Second), false},
		{"exactly at cutoff", cutoff, true},
		{"newer than cutoff", cutoff.Add(time.Second), true},
	}

	for _, tc := range cases {
		svc.now = fixedClock(tc.createdAt)
		in := sampleContact()
		in.Subject = tc.subject
		_, err := svc.Send(ctx, in)
		require.NoError(t, err)
	}

	svc.now = fixedClock(now)
	purged, err := svc.PurgeOld(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), purged)

	var remaining []model.ContactMessage
	require.NoError(t, db.Find(&remaining).Error)
	require.Len(t, remaining, 2)
	for _, msg := range remaining {
		assert.NotEqual(t, "older than cutoff", msg.Subject)
	}
}
