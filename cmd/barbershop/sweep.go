package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newSweepCmd(configPath *string) *cobra.Command {
	var batchSize int

	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Run one retention pass: delete appointments that started more than 24h ago",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(cmd.Context(), *configPath)
			if err != nil {
				return err
			}
			defer a.Close()

			report, err := a.cleanup().WithBatchSize(batchSize).Execute(cmd.Context())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "deleted=%d legacy_deleted=%d backfilled=%d skipped=%d\n",
				report.Deleted, report.LegacyDeleted, report.Backfilled, report.Skipped)
			return nil
		},
	}

	cmd.Flags().IntVar(&batchSize, "batch", 0, "rows per delete batch (0 = default)")
	return cmd
}
