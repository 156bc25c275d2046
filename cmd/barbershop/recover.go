package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/m04kA/barbershop-booking/internal/recovery"
)

func newRecoverCmd() *cobra.Command {
	var input string

	cmd := &cobra.Command{
		Use:   "recover",
		Short: "Rebuild appointment records from a JSON export of sent emails",
		Long: "Reads a JSON array of sent emails (id, to, subject, text, created_at) and prints\n" +
			"one JSON record per recovered appointment. Does not touch the database.",
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if input != "" && input != "-" {
				f, err := os.Open(input)
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}

			written, skipped, err := recovery.FromExport(r, cmd.OutOrStdout())
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "recovered=%d skipped=%d\n", written, skipped)
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "-", "export file, - for stdin")
	return cmd
}
