package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or upgrade the ledger and client data schemas",
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

			for _, db := range []string{container.LedgerDB.Name(), container.ClientDataDB.Name()} {
				fmt.Fprintf(cmd.OutOrStdout(), "migrated %s\n", db)
			}
			return nil
		},
	}
}
