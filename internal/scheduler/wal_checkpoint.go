package scheduler

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/aristath/traderlens/internal/database"
)

// WALCheckpointJob truncates the write-ahead logs so they cannot grow
// unbounded between restarts.
type WALCheckpointJob struct {
	databases []*database.DB
	log       zerolog.Logger
}

// NewWALCheckpointJob creates a new WALCheckpointJob
func NewWALCheckpointJob(databases []*database.DB, log zerolog.Logger) *WALCheckpointJob {
	return &WALCheckpointJob{
		databases: databases,
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints every database
func (j *WALCheckpointJob) Run() error {
	checkpointed := 0
	for _, db := range j.databases {
		if db == nil {
			continue
		}
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			return fmt.Errorf("checkpoint failed for %s: %w", db.Name(), err)
		}
		checkpointed++
	}

	j.log.Debug().Int("databases", checkpointed).Msg("WAL checkpoint completed")
	return nil
}
