package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gostyle/internal/logging"
)

func newVersionCommand(info BuildInfo) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print the gostyle version with the commit and date it was built from.`,
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			if short {
				fmt.Fprintln(cmd.OutOrStdout(), info.Version)
				return
			}
			logging.NewWithOptions(logging.Options{Writer: cmd.OutOrStdout()}).
				Info("gostyle",
					logging.FieldVersion, info.Version,
					logging.FieldCommit, info.Commit,
					logging.FieldBuilt, info.Date,
				)
		},
	}
	cmd.Flags().BoolVar(&short, "short", false, "print only the version number")

	return cmd
}
