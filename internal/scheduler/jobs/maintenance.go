package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/wonny/chembridge/internal/audit"
	"github.com/wonny/chembridge/pkg/logger"
)

// AuditCleanupJob prunes combine-run records past their retention window
type AuditCleanupJob struct {
	auditRepo *audit.Repository
	retention time.Duration
	logger    *logger.Logger
}

// NewAuditCleanupJob creates a new audit cleanup job
func NewAuditCleanupJob(auditRepo *audit.Repository, retention time.Duration, log *logger.Logger) *AuditCleanupJob {
	return &AuditCleanupJob{
		auditRepo: auditRepo,
		retention: retention,
		logger:    log,
	}
}

// Name returns the job name
func (j *AuditCleanupJob) Name() string {
	return "audit_cleanup"
}

// Schedule returns the cron schedule (daily at 3 AM)
func (j *AuditCleanupJob) Schedule() string {
	return "0 0 3 * * *" // Daily at 3 AM, after the recombine run
}

// Run executes the audit cleanup
func (j *AuditCleanupJob) Run(ctx context.Context) error {
	j.logger.Debug("Starting scheduled audit cleanup")

	cutoff := time.Now().Add(-j.retention)
	count, err := j.auditRepo.DeleteRunsBefore(ctx, cutoff)
	if err != nil {
		return fmt.Errorf("audit cleanup failed: %w", err)
	}

	if count > 0 {
		j.logger.WithFields(map[string]interface{}{
			"removed": count,
			"cutoff":  cutoff.Format("2006-01-02"),
		}).Info("Audit cleanup completed")
	}

	return nil
}
