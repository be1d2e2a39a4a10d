package model

import (
	"time"
)

// CronJobLog records each run of a scheduled job so sweep history is
// inspectable after the fact.
type CronJobLog struct {
	ID          uint       `gorm:"primaryKey" json:"id"`
	JobName     string     `gorm:"column:job_name;type:varchar(100);index" json:"job_name"`
	Status      string     `gorm:"type:varchar(20)" json:"status"` // running, completed, failed
	StartedAt   time.Time  `gorm:"column:started_at" json:"started_at"`
	CompletedAt *time.Time `gorm:"column:completed_at" json:"completed_at,omitempty"`
	Message     string     `gorm:"type:text" json:"message"`
	ErrorMsg    string     `gorm:"column:error_msg;type:text" json:"error_msg,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// TableName specifies the table name for CronJobLog
func (CronJobLog) TableName() string {
	return "cron_job_logs"
}
