package reliability

import (
	"context"
	"fmt"
	"time"

	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
	"github.com/shirou/gopsutil/v3/disk"
)

// BackupJob uploads a fresh backup and rotates old ones
type BackupJob struct {
	service       *BackupService
	retentionDays int
	log           zerolog.Logger
}

// NewBackupJob creates a new backup job
func NewBackupJob(service *BackupService, retentionDays int, log zerolog.Logger) *BackupJob {
	return &BackupJob{
		service:       service,
		retentionDays: retentionDays,
		log:           log.With().Str("job", "backup").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *BackupJob) Name() string {
	return "backup"
}

// Run uploads a backup; rotation failures are logged but do not fail the job
func (j *BackupJob) Run() error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
	defer cancel()

	if _, err := j.service.CreateAndUploadBackup(ctx); err != nil {
		return fmt.Errorf("backup failed: %w", err)
	}

	if _, err := j.service.RotateOldBackups(ctx, j.retentionDays); err != nil {
		j.log.Error().Err(err).Msg("Backup rotation failed")
	}
	return nil
}

// VacuumJob reclaims free pages in databases that see heavy delete churn
type VacuumJob struct {
	databases map[string]*database.DB
	log       zerolog.Logger
}

// NewVacuumJob creates a vacuum job for the given databases
func NewVacuumJob(databases map[string]*database.DB, log zerolog.Logger) *VacuumJob {
	return &VacuumJob{
		databases: databases,
		log:       log.With().Str("job", "vacuum").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *VacuumJob) Name() string {
	return "vacuum"
}

// Run vacuums each SQLite database, continuing past failures
func (j *VacuumJob) Run() error {
	for name, db := range j.databases {
		if db == nil || db.Dialect() != database.DialectSQLite {
			continue
		}
		if err := j.vacuum(db, name); err != nil {
			j.log.Error().Err(err).Str("database", name).Msg("VACUUM failed")
		}
	}
	return nil
}

func (j *VacuumJob) vacuum(db *database.DB, name string) error {
	before, err := db.GetStats()
	if err != nil {
		return err
	}

	if _, err := db.Conn().Exec("VACUUM"); err != nil {
		return fmt.Errorf("VACUUM failed: %w", err)
	}

	after, err := db.GetStats()
	if err != nil {
		return err
	}

	j.log.Info().
		Str("database", name).
		Int64("pages_before", before.PageCount).
		Int64("pages_after", after.PageCount).
		Int64("bytes_reclaimed", (before.PageCount-after.PageCount)*after.PageSize).
		Msg("VACUUM completed")
	return nil
}

// Disk space thresholds for DiskSpaceJob
const (
	criticalFreeBytes = 500 * 1024 * 1024
	warningFreeBytes  = 5 * 1024 * 1024 * 1024
)

// DiskSpaceJob watches free space on the data volume
type DiskSpaceJob struct {
	dataDir string
	usage   func(path string) (*disk.UsageStat, error)
	log     zerolog.Logger
}

// NewDiskSpaceJob creates a disk space check for the volume holding dataDir
func NewDiskSpaceJob(dataDir string, log zerolog.Logger) *DiskSpaceJob {
	return &DiskSpaceJob{
		dataDir: dataDir,
		usage:   disk.Usage,
		log:     log.With().Str("job", "disk_space").Logger(),
	}
}

// Name returns the job name for scheduler
func (j *DiskSpaceJob) Name() string {
	return "disk_space"
}

// Run fails when free space drops below the critical threshold and warns below the warning one
func (j *DiskSpaceJob) Run() error {
	usage, err := j.usage(j.dataDir)
	if err != nil {
		return fmt.Errorf("failed to stat filesystem: %w", err)
	}

	freeMB := usage.Free / 1024 / 1024
	switch {
	case usage.Free < criticalFreeBytes:
		j.log.Error().Uint64("free_mb", freeMB).Msg("CRITICAL: insufficient disk space")
		return fmt.Errorf("only %d MB free on %s", freeMB, j.dataDir)
	case usage.Free < warningFreeBytes:
		j.log.Warn().Uint64("free_mb", freeMB).Float64("used_percent", usage.UsedPercent).Msg("Disk space running low")
	default:
		j.log.Debug().Uint64("free_mb", freeMB).Msg("Disk space check")
	}
	return nil
}
