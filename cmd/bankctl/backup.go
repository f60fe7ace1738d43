package main

import (
	"fmt"

	"github.com/aristath/bank/internal/di"
	"github.com/spf13/cobra"
)

func newBackupCmd() *cobra.Command {
	var (
		rotate bool
		list   bool
	)

	cmd := &cobra.Command{
		Use:   "backup",
		Short: "Upload a snapshot of the SQLite databases to the backup bucket",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadEnv(cmd.ErrOrStderr())
			if err != nil {
				return err
			}

			container, err := openContainer(cfg, log)
			if err != nil {
				return err
			}
			defer container.Close()

			if err := di.InitializeBackups(cmd.Context(), container, cfg, log); err != nil {
				return err
			}
			if container.BackupService == nil {
				return fmt.Errorf("backups are not available: set BACKUP_S3_BUCKET and use the sqlite driver")
			}
			svc := container.BackupService
			out := cmd.OutOrStdout()

			if list {
				backups, err := svc.ListBackups(cmd.Context())
				if err != nil {
					return err
				}
				for _, b := range backups {
					fmt.Fprintf(out, "%s\t%d bytes\t%dh old\n", b.Filename, b.SizeBytes, b.AgeHours)
				}
				return nil
			}

			info, err := svc.CreateAndUploadBackup(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "uploaded %s (%d bytes)\n", info.Filename, info.SizeBytes)

			if rotate {
				deleted, err := svc.RotateOldBackups(cmd.Context(), cfg.Backup.RetentionDays)
				if err != nil {
					return err
				}
				fmt.Fprintf(out, "rotated %d old backups\n", deleted)
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&rotate, "rotate", false, "delete backups older than BACKUP_RETENTION_DAYS after uploading")
	cmd.Flags().BoolVar(&list, "list", false, "list existing backups instead of creating one")

	return cmd
}
