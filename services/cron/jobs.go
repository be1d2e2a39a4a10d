package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/scholarsknowledge/api/model"
)

// ResetTokenMaxAge is how long stale reset tokens are kept around. They
// are unredeemable after 30 minutes either way; the sweep only keeps the
// table small.
const ResetTokenMaxAge = 7 * 24 * time.Hour

// PurgeContactMessages deletes contact messages older than the 5-month
// retention cutoff. Failures are logged and swallowed; the sweep heals
// on its next scheduled run.
func (m *CronManager) PurgeContactMessages() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "purge_contact_messages"

	purged, err := m.contactService.PurgeOld(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge contact messages: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d contact messages", purged))
}

// PurgeStaleThreads deletes threads with no activity inside the 150-day
// window, cascading their messages first.
func (m *CronManager) PurgeStaleThreads() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "purge_stale_threads"

	purged, err := m.messageService.PurgeOld(ctx)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge threads: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d threads", purged))
}

// PurgeResetTokens drops password reset tokens past their keep window.
func (m *CronManager) PurgeResetTokens() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	jobName := "purge_reset_tokens"

	purged, err := m.tokenService.PurgeStale(ctx, ResetTokenMaxAge)
	if err != nil {
		m.logJobError(jobName, fmt.Errorf("failed to purge reset tokens: %w", err))
		return
	}

	m.logJobComplete(jobName, fmt.Sprintf("Purged %d reset tokens", purged))
}

// TrimCronLogs keeps only the last 90 days of job run history.
func (m *CronManager) TrimCronLogs() {
	jobName := "trim_cron_logs"

	cutoff := time.Now().Add(-90 * 24 * time.Hour)
	result := m.db.Where("created_at < ?", cutoff).Delete(&model.CronJobLog{})
	if result.Error != nil {
		m.logJobError(jobName, result.Error)
		return
	}

	log.Printf("[CRON] Trimmed %d old cron logs", result.RowsAffected)
	m.logJobComplete(jobName, fmt.Sprintf("Trimmed %d log rows", result.RowsAffected))
}
