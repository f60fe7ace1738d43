package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newAccountTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "account-types",
		Short: "List the configured account types",
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

			types, err := container.AccountTypeRepo.List(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tTYPE\tINTEREST RATE\tMIN BALANCE\tFUNDS PURCHASES")
			for _, t := range types {
				fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%t\n",
					t.ID, t.Type, t.InterestRate.String(), t.MinBalance.StringFixed(2),
					t.ID == cfg.CheckingAccountTypeID)
			}
			return tw.Flush()
		},
	}
}
