package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/reliability"
)

// DBMaintenanceJob runs integrity checks and VACUUM on the databases
type DBMaintenanceJob struct {
	maintenance *reliability.Maintenance
	timeout     time.Duration
	log         zerolog.Logger
}

// NewDBMaintenanceJob creates a new DBMaintenanceJob
func NewDBMaintenanceJob(maintenance *reliability.Maintenance, log zerolog.Logger) *DBMaintenanceJob {
	return &DBMaintenanceJob{
		maintenance: maintenance,
		timeout:     5 * time.Minute,
		log:         log.With().Str("job", "db_maintenance").Logger(),
	}
}

// Name returns the job name
func (j *DBMaintenanceJob) Name() string {
	return "db_maintenance"
}

// Run executes one maintenance pass
func (j *DBMaintenanceJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), j.timeout)
	defer cancel()

	return j.maintenance.Run(ctx)
}
