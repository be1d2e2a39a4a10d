package model

import (
	"time"

	"gorm.io/datatypes"
)

// Thread is a conversation container between exactly one student and one
// lecturer. UpdatedAt is bumped to the creation instant of every message
// appended to the thread; both the thread list ordering and the retention
// sweep key off it.
type Thread struct {
	ID          string    `gorm:"primaryKey;type:varchar(64)" json:"id"`
	StudentUID  string    `gorm:"column:student_uid;type:varchar(128);index" json:"studentUid"`
	LecturerUID string    `gorm:"column:lecturer_uid;type:varchar(128);index" json:"lecturerUid"`
	Subject     string    `gorm:"type:varchar(240)" json:"subject"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `gorm:"index" json:"updatedAt"`

	Messages []Message `gorm:"foreignKey:ThreadID;constraint:OnDelete:CASCADE" json:"-"`
}

// TableName specifies the table name for Thread
func (Thread) TableName() string {
	return "threads"
}

// InvolvedParty reports whether the given uid is one of the two parties.
func (t *Thread) InvolvedParty(uid string) bool {
	return uid != "" && (uid == t.StudentUID || uid == t.LecturerUID)
}

// Attachment is an inline, self-describing attachment payload as carried
// on the wire: name, MIME type and the encoded content in one object.
type Attachment struct {
	Name    string `json:"name"`
	Mime    string `json:"mime"`
	DataURL string `json:"dataUrl"`
}

// Message is a single immutable entry in a thread. Messages are strictly
// ordered by CreatedAt within their thread and only ever removed by the
// thread cascade.
type Message struct {
	ID          string         `gorm:"primaryKey;type:varchar(64)" json:"id"`
	ThreadID    string         `gorm:"column:thread_id;type:varchar(64);index;not null" json:"threadId"`
	SenderUID   string         `gorm:"column:sender_uid;type:varchar(128)" json:"senderUid"`
	SenderRole  string         `gorm:"type:varchar(20)" json:"senderRole"`
	Text        string         `gorm:"type:text" json:"text"`
	Attachments datatypes.JSON `json:"attachments"`
	CreatedAt   time.Time      `gorm:"index" json:"createdAt"`
}

// TableName specifies the table name for Message
func (Message) TableName() string {
	return "messages"
}
