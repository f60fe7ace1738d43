package di

import (
	"fmt"

	"github.com/aristath/bank/internal/config"
	"github.com/aristath/bank/internal/database"
	"github.com/rs/zerolog"
)

// InitializeDatabases opens the ledger and client data databases and applies their schemas
func InitializeDatabases(cfg *config.Config, log zerolog.Logger) (*Container, error) {
	container := &Container{}

	// 1. Ledger store - SQLite file by default, Postgres when DB_DRIVER=postgres
	ledgerDB, err := database.New(database.Config{
		Driver:  cfg.DBDriver,
		Path:    cfg.LedgerDBPath(),
		DSN:     cfg.DatabaseURL,
		Profile: database.ProfileLedger,
		Name:    "ledger",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize ledger database: %w", err)
	}
	if err := ledgerDB.Migrate(); err != nil {
		ledgerDB.Close()
		return nil, fmt.Errorf("failed to migrate ledger database: %w", err)
	}
	container.LedgerDB = ledgerDB

	// 2. client_data.db - cached oracle responses
	clientDataDB, err := database.New(database.Config{
		Driver:  config.DriverSQLite,
		Path:    cfg.ClientDataDBPath(),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		ledgerDB.Close()
		return nil, fmt.Errorf("failed to initialize client data database: %w", err)
	}
	if err := clientDataDB.Migrate(); err != nil {
		clientDataDB.Close()
		ledgerDB.Close()
		return nil, fmt.Errorf("failed to migrate client data database: %w", err)
	}
	container.ClientDataDB = clientDataDB

	log.Info().
		Str("driver", string(ledgerDB.Dialect())).
		Str("data_dir", cfg.DataDir).
		Msg("Databases initialized")

	return container, nil
}
