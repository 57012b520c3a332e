// Package cli provides the Cobra command tree for gostyle.
package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gostyle/internal/logging"
	"github.com/yaklabco/gostyle/internal/ui/pretty"
)

// BuildInfo holds build-time version information.
type BuildInfo struct {
	Version string
	Commit  string
	Date    string
}

// NewRootCommand creates the root gostyle command with all subcommands.
func NewRootCommand(info BuildInfo) *cobra.Command {
	var (
		debug bool
		color string
	)

	rootCmd := &cobra.Command{
		Use:   "gostyle",
		Short: "HTML and SCSS style linter with verified autofix",
		Long: `gostyle checks HTML and SCSS files against a house style guide:
indentation, quoting, BEM class naming, tag and attribute conventions,
SCSS nesting depth and declaration order.

Fixable findings can be repaired with --fix. Every fix is re-linted
before it is written, and a file is never left half-fixed.`,
		PersistentPreRun: func(cmd *cobra.Command, _ []string) {
			level := "info"
			if debug {
				level = "debug"
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			cmd.SetContext(logging.WithLogger(ctx, logging.New(level)))
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", ErrUsage, err)
	})

	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "path to config file")
	rootCmd.PersistentFlags().StringVar(&color, "color", pretty.ColorAuto,
		"colorize output: auto, always, never")

	rootCmd.AddCommand(newLintCommand(info))
	rootCmd.AddCommand(newRulesCommand())
	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newVersionCommand(info))

	NewHelpFormatter(color, os.Stdout).ApplyToCommand(rootCmd)

	return rootCmd
}
