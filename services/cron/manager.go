package cron

import (
	"log"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/scholarsknowledge/api/model"
	"github.com/scholarsknowledge/api/services"
	"gorm.io/gorm"
)

// CronManager manages all scheduled cron jobs
type CronManager struct {
	cron *cron.Cron
	db   *gorm.DB

	contactService *services.ContactService
	messageService *services.MessageService
	tokenService   *services.TokenService
}

// NewCronManager creates a new cron manager
func NewCronManager(db *gorm.DB, contactService *services.ContactService, messageService *services.MessageService, tokenService *services.TokenService) *CronManager {
	// Create cron with seconds precision
	c := cron.New(cron.WithSeconds())

	return &CronManager{
		cron:           c,
		db:             db,
		contactService: contactService,
		messageService: messageService,
		tokenService:   tokenService,
	}
}

// Start registers all jobs, runs the sweeps once immediately and starts
// the scheduler.
func (m *CronManager) Start() error {
	log.Println("Starting cron jobs...")

	if err := m.registerJobs(); err != nil {
		return err
	}

	// Retention runs once at process start, then on schedule. A failed
	// cycle is not retried until the next scheduled run.
	go m.runStartupSweeps()

	m.cron.Start()

	log.Println("Cron jobs started successfully")
	return nil
}

// Stop stops all cron jobs
func (m *CronManager) Stop() {
	log.Println("Stopping cron jobs...")
	ctx := m.cron.Stop()
	<-ctx.Done()
	log.Println("Cron jobs stopped")
}

// registerJobs registers all cron jobs with their schedules
func (m *CronManager) registerJobs() error {
	// Daily at 2 AM: purge contact messages past retention
	_, err := m.cron.AddFunc("0 0 2 * * *", func() {
		m.logJobStart("purge_contact_messages")
		m.PurgeContactMessages()
	})
	if err != nil {
		return err
	}

	// Daily at 2:10 AM: purge inactive threads
	_, err = m.cron.AddFunc("0 10 2 * * *", func() {
		m.logJobStart("purge_stale_threads")
		m.PurgeStaleThreads()
	})
	if err != nil {
		return err
	}

	// Daily at 2:20 AM: purge old password reset tokens
	_, err = m.cron.AddFunc("0 20 2 * * *", func() {
		m.logJobStart("purge_reset_tokens")
		m.PurgeResetTokens()
	})
	if err != nil {
		return err
	}

	// Daily at 3 AM: trim old cron job logs
	_, err = m.cron.AddFunc("0 0 3 * * *", func() {
		m.logJobStart("trim_cron_logs")
		m.TrimCronLogs()
	})
	if err != nil {
		return err
	}

	log.Println("All cron jobs registered successfully")
	return nil
}

// runStartupSweeps runs every retention sweep once, immediately.
func (m *CronManager) runStartupSweeps() {
	m.logJobStart("purge_contact_messages")
	m.PurgeContactMessages()

	m.logJobStart("purge_stale_threads")
	m.PurgeStaleThreads()

	m.logJobStart("purge_reset_tokens")
	m.PurgeResetTokens()
}

// logJobStart logs the start of a cron job
func (m *CronManager) logJobStart(jobName string) {
	log.Printf("[CRON] Starting job: %s at %s", jobName, time.Now().Format(time.RFC3339))

	cronLog := model.CronJobLog{
		JobName:   jobName,
		Status:    "running",
		StartedAt: time.Now(),
	}
	m.db.Create(&cronLog)
}

// logJobComplete logs successful completion of a cron job
func (m *CronManager) logJobComplete(jobName string, message string) {
	log.Printf("[CRON] Completed job: %s - %s", jobName, message)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "completed",
			"completed_at": time.Now(),
			"message":      message,
		})
}

// logJobError logs a cron job error
func (m *CronManager) logJobError(jobName string, err error) {
	log.Printf("[CRON] Error in job: %s - %v", jobName, err)

	m.db.Model(&model.CronJobLog{}).
		Where("job_name = ? AND status = ?", jobName, "running").
		Order("started_at DESC").
		Limit(1).
		Updates(map[string]interface{}{
			"status":       "failed",
			"completed_at": time.Now(),
			"error_msg":    err.Error(),
		})
}
