package di

import (
	"fmt"
	"time"

	"github.com/aristath/bank/internal/clientdata"
	"github.com/aristath/bank/internal/config"
	"github.com/aristath/bank/internal/reliability"
	"github.com/aristath/bank/internal/scheduler"
	"github.com/rs/zerolog"
)

// Maintenance schedules (cron with seconds)
const (
	walCheckpointSchedule  = "0 0 * * * *"    // hourly
	checkDatabasesSchedule = "0 30 2 * * *"   // daily 02:30
	vacuumSchedule         = "0 0 4 * * 0"    // Sundays 04:00
	diskSpaceSchedule      = "0 */15 * * * *" // every 15 minutes
)

type scheduledJob struct {
	schedule string
	job      scheduler.Job
}

// RegisterJobs creates the scheduler and registers maintenance jobs on it
func RegisterJobs(container *Container, cfg *config.Config, log zerolog.Logger) error {
	if container == nil {
		return fmt.Errorf("container cannot be nil")
	}

	sched := scheduler.New(log)
	dbs := container.Databases()

	jobs := []scheduledJob{
		{cfg.CacheCleanupSchedule, clientdata.NewCleanupJob(container.ClientDataRepo, map[string]time.Duration{
			clientdata.TablePolygonClose: cfg.PriceCacheTTL,
		}, log)},
		{walCheckpointSchedule, scheduler.NewWALCheckpointJob(dbs, log)},
		{checkDatabasesSchedule, scheduler.NewCheckDatabasesJob(dbs, log)},
		{vacuumSchedule, reliability.NewVacuumJob(dbs, log)},
		{diskSpaceSchedule, reliability.NewDiskSpaceJob(cfg.DataDir, log)},
	}
	if container.BackupService != nil {
		jobs = append(jobs, scheduledJob{
			cfg.Backup.Schedule,
			reliability.NewBackupJob(container.BackupService, cfg.Backup.RetentionDays, log),
		})
	}

	for _, j := range jobs {
		if err := sched.AddJob(j.schedule, j.job); err != nil {
			return err
		}
	}

	container.Scheduler = sched
	log.Info().Int("jobs", sched.Entries()).Msg("Scheduler jobs registered")
	return nil
}
