package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/cobra"

	"github.com/yaklabco/gostyle/internal/configloader"
	"github.com/yaklabco/gostyle/internal/logging"
	"github.com/yaklabco/gostyle/pkg/config"
)

type initFlags struct {
	force  bool
	full   bool
	format string
	output string
}

// defaultConfigNames maps template formats to the file init writes.
var defaultConfigNames = map[string]string{
	config.TemplateYAML: ".gostyle.yml",
	config.TemplateTOML: ".gostyle.toml",
	config.TemplateJSON: ".gostyle.json",
}

func newInitCommand() *cobra.Command {
	flags := &initFlags{}

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create a gostyle configuration file",
		Long: `Write a commented configuration file with the default style guide
to the current directory.

Examples:
  gostyle init                      Create .gostyle.yml
  gostyle init --full               Also list every rule with its defaults
  gostyle init --format toml        Create .gostyle.toml
  gostyle init -o ci/gostyle.yml    Write to another path`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			return runInit(ctx, flags)
		},
	}

	cmd.Flags().BoolVar(&flags.force, "force", false, "overwrite an existing file")
	cmd.Flags().BoolVar(&flags.full, "full", false, "document every rule in the template")
	cmd.Flags().StringVar(&flags.format, "format", config.TemplateYAML, "file format: yaml, toml, json")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "output path (default .gostyle.<ext>)")

	return cmd
}

func runInit(ctx context.Context, flags *initFlags) error {
	logger := logging.FromContext(ctx)

	name, ok := defaultConfigNames[flags.format]
	if !ok {
		return fmt.Errorf("%w: --format must be yaml, toml or json, got %q", ErrUsage, flags.format)
	}
	path := flags.output
	if path == "" {
		path = name
	}

	content, err := config.GenerateTemplate(config.TemplateOptions{Full: flags.full, Format: flags.format})
	if err != nil {
		return fmt.Errorf("generate template: %w", err)
	}

	if err := configloader.WriteConfig(path, content, flags.force); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return fmt.Errorf("%w; use --force to overwrite", err)
		}
		return err
	}

	logger.Info("created configuration file", logging.FieldPath, path)
	return nil
}
