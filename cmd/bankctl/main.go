// Command bankctl runs administrative tasks against the bank databases.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aristath/bank/internal/config"
	"github.com/aristath/bank/internal/di"
	"github.com/aristath/bank/pkg/logger"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bankctl",
		Short: "Administrative tools for the bank service",
		Long: `bankctl works on the same databases as the bank server and reads the
same environment (BANK_DATA_DIR, DB_DRIVER, DATABASE_URL, BACKUP_S3_*).`,
		SilenceUsage: true,
	}

	cmd.AddCommand(
		newMigrateCmd(),
		newBackupCmd(),
		newAccountTypesCmd(),
	)

	return cmd
}

// loadEnv reads configuration and builds a logger writing to errOut
func loadEnv(errOut io.Writer) (*config.Config, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}
	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
		Output: errOut,
	})
	return cfg, log, nil
}

// openContainer opens and migrates the databases and builds the repositories on them
func openContainer(cfg *config.Config, log zerolog.Logger) (*di.Container, error) {
	container, err := di.InitializeDatabases(cfg, log)
	if err != nil {
		return nil, err
	}
	if err := di.InitializeRepositories(container, log); err != nil {
		container.Close()
		return nil, err
	}
	return container, nil
}
