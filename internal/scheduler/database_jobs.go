package scheduler

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
)

// CheckDatabasesJob runs integrity checks over the service databases
type CheckDatabasesJob struct {
	databases map[string]*database.DB
	log       zerolog.Logger
}

// NewCheckDatabasesJob creates a job checking every non-nil database in dbs
func NewCheckDatabasesJob(dbs map[string]*database.DB, log zerolog.Logger) *CheckDatabasesJob {
	return &CheckDatabasesJob{
		databases: dbs,
		log:       log.With().Str("job", "check_databases").Logger(),
	}
}

// Name returns the job name
func (j *CheckDatabasesJob) Name() string {
	return "check_databases"
}

// Run checks each database; the first corruption aborts with an error
func (j *CheckDatabasesJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	names := sortedNames(j.databases)
	for _, name := range names {
		if err := j.databases[name].HealthCheck(ctx); err != nil {
			j.log.Error().Err(err).Str("database", name).Msg("Database integrity check failed")
			return fmt.Errorf("database %s failed integrity check: %w", name, err)
		}
		j.log.Debug().Str("database", name).Msg("Database integrity OK")
	}

	j.log.Info().Int("checked", len(names)).Msg("Database integrity check completed")
	return nil
}

// WALCheckpointJob truncates SQLite WAL files so they stay bounded
type WALCheckpointJob struct {
	databases map[string]*database.DB
	log       zerolog.Logger
}

// NewWALCheckpointJob creates a checkpoint job for every non-nil database in dbs
func NewWALCheckpointJob(dbs map[string]*database.DB, log zerolog.Logger) *WALCheckpointJob {
	return &WALCheckpointJob{
		databases: dbs,
		log:       log.With().Str("job", "wal_checkpoint").Logger(),
	}
}

// Name returns the job name
func (j *WALCheckpointJob) Name() string {
	return "wal_checkpoint"
}

// Run checkpoints every SQLite database, logging failures and continuing
func (j *WALCheckpointJob) Run() error {
	checkpointed := 0
	for _, name := range sortedNames(j.databases) {
		db := j.databases[name]
		if db.Dialect() != database.DialectSQLite {
			continue
		}
		if err := db.WALCheckpoint("TRUNCATE"); err != nil {
			j.log.Warn().Err(err).Str("database", name).Msg("Failed to checkpoint WAL")
			continue
		}
		checkpointed++
	}

	j.log.Debug().Int("checkpointed", checkpointed).Msg("WAL checkpoint completed")
	return nil
}

func sortedNames(dbs map[string]*database.DB) []string {
	names := make([]string, 0, len(dbs))
	for name, db := range dbs {
		if db != nil {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
