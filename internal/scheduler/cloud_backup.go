package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/events"
	"github.com/aristath/traderlens/internal/reliability"
)

// CloudBackupJob uploads a database backup archive to R2 and rotates old
// archives afterwards.
type CloudBackupJob struct {
	service       *reliability.R2BackupService
	bus           *events.Bus
	retentionDays int
	timeout       time.Duration
	log           zerolog.Logger
}

// NewCloudBackupJob creates a new CloudBackupJob
func NewCloudBackupJob(
	service *reliability.R2BackupService,
	bus *events.Bus,
	retentionDays int,
	log zerolog.Logger,
) *CloudBackupJob {
	return &CloudBackupJob{
		service:       service,
		bus:           bus,
		retentionDays: retentionDays,
		timeout:       10 * time.Minute,
		log:           log.With().Str("job", "cloud_backup").Logger(),
	}
}

// Name returns the job name
func (j *CloudBackupJob) Name() string {
	return "cloud_backup"
}

// Run creates and uploads a backup, then rotates old ones
func (j *CloudBackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	if err := j.service.CreateAndUploadBackup(ctx); err != nil {
		j.bus.Emit(events.ErrorOccurred, "scheduler", map[string]interface{}{
			"job":   j.Name(),
			"error": err.Error(),
		})
		return err
	}

	// Rotation failure is logged but does not fail the backup itself
	if err := j.service.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Warn().Err(err).Msg("Backup rotation failed")
	}

	j.bus.Emit(events.BackupCompleted, "scheduler", map[string]interface{}{
		"retention_days": j.retentionDays,
	})

	return nil
}
