package clientdata

import (
	"errors"
	"sort"
	"time"

	"github.com/rs/zerolog"
)

// Sweep reports one table's pass of the cleanup job
type Sweep struct {
	Table   string
	Window  time.Duration
	Deleted int64
}

// CleanupJob sweeps expired cache rows table by table.
// Each table carries the freshness window its rows were stored with, for the job log.
type CleanupJob struct {
	repo    *Repository
	windows map[string]time.Duration
	log     zerolog.Logger
}

// NewCleanupJob creates the cleanup job. Tables missing from windows are swept with DefaultWindows.
func NewCleanupJob(repo *Repository, windows map[string]time.Duration, log zerolog.Logger) *CleanupJob {
	merged := DefaultWindows()
	for table, window := range windows {
		merged[table] = window
	}
	return &CleanupJob{
		repo:    repo,
		windows: merged,
		log:     log.With().Str("job", "client_data_cleanup").Logger(),
	}
}

// DefaultWindows maps every cache table to its default TTL
func DefaultWindows() map[string]time.Duration {
	return map[string]time.Duration{
		TablePolygonClose: TTLPolygonClose,
	}
}

// Run sweeps every table. A failing table does not stop the others.
func (j *CleanupJob) Run() error {
	_, err := j.Sweep()
	return err
}

// Sweep deletes expired rows from each table in name order and reports what it removed
func (j *CleanupJob) Sweep() ([]Sweep, error) {
	tables := make([]string, 0, len(j.windows))
	for table := range j.windows {
		tables = append(tables, table)
	}
	sort.Strings(tables)

	var (
		sweeps []Sweep
		errs   []error
		total  int64
	)
	for _, table := range tables {
		window := j.windows[table]
		deleted, err := j.repo.DeleteExpired(table)
		if err != nil {
			j.log.Error().Err(err).Str("table", table).Dur("window", window).Msg("Failed to sweep cache table")
			errs = append(errs, err)
			continue
		}

		j.log.Debug().
			Str("table", table).
			Dur("window", window).
			Int64("deleted", deleted).
			Msg("Swept cache table")
		sweeps = append(sweeps, Sweep{Table: table, Window: window, Deleted: deleted})
		total += deleted
	}

	j.log.Info().
		Int("tables", len(sweeps)).
		Int64("deleted", total).
		Int("failed", len(errs)).
		Msg("Client data cleanup completed")

	return sweeps, errors.Join(errs...)
}

// Name returns the job name for scheduling and logging.
func (j *CleanupJob) Name() string {
	return "client_data_cleanup"
}
