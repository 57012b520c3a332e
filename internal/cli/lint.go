package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gostyle/internal/configloader"
	"github.com/yaklabco/gostyle/internal/logging"
	"github.com/yaklabco/gostyle/pkg/cache"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/parser"
	"github.com/yaklabco/gostyle/pkg/reporter"
	"github.com/yaklabco/gostyle/pkg/runner"
)

const outputFilePermissions = 0o644

type lintFlags struct {
	format          string
	output          string
	failOn          string
	ruleFormat      string
	summaryOrder    string
	quoteStyle      string
	include         []string
	exclude         []string
	enable          []string
	disable         []string
	fixRules        []string
	quiet           bool
	noContext       bool
	compact         bool
	perFile         bool
	followSymlinks  bool
	includeVendored bool
}

func newLintCommand(info BuildInfo) *cobra.Command {
	var cfg config.Config
	flags := &lintFlags{}

	cmd := &cobra.Command{
		Use:   "lint [paths...]",
		Short: "Lint HTML and SCSS files",
		Long:  lintLongDescription + envHelp(),
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runLint(cmd, args, &cfg, flags, info)
		},
	}

	addLintFlags(cmd, &cfg, flags)

	return cmd
}

// envHelp lists the GOSTYLE_* overrides for the long help text.
func envHelp() string {
	var sb strings.Builder
	sb.WriteString("\n\nEnvironment:\n")
	for _, v := range configloader.EnvVars() {
		fmt.Fprintf(&sb, "  %-27s %s\n", v.Name, v.Description)
	}
	return strings.TrimRight(sb.String(), "\n")
}

const lintLongDescription = `Lint HTML and SCSS files against the configured style guide.

With no paths, every .html, .htm, .scss and .css file under the current
directory is checked. node_modules, vendor directories and minified
bundles are skipped unless --include-vendored is set.

Examples:
  gostyle lint                        # Lint the current directory
  gostyle lint templates/ styles/     # Lint two directories
  gostyle lint --fix                  # Lint and fix what can be fixed
  gostyle lint --fix --dry-run        # Preview fixes as a diff
  gostyle lint --format sarif -o out.sarif
  gostyle lint --fail-on error        # Only errors fail the run`

func addLintFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) {
	f := cmd.Flags()

	f.BoolVar(&cfg.Fix, "fix", false, "fix issues in place after verifying each fix")
	f.BoolVar(&cfg.DryRun, "dry-run", false, "show fixes as a diff without writing files")
	f.IntVar(&cfg.MaxFixPasses, "max-passes", 0,
		fmt.Sprintf("maximum fix passes per file (0 = %d)", config.DefaultMaxFixPasses))
	f.BoolVar(&cfg.Backups.Enabled, "backup", false, "write a .gostyle.bak copy before fixing a file")
	f.StringSliceVar(&flags.fixRules, "fix-rules", nil, "limit fixing to these rule IDs")

	f.StringVarP(&flags.format, "format", "f", string(config.FormatText),
		"output format: text, table, json, sarif, diff, summary")
	f.StringVarP(&flags.output, "output", "o", "", "write the report to a file instead of stdout")
	f.StringVar(&flags.failOn, "fail-on", "", "lowest severity that fails the run: error, warning, info (default warning)")
	f.StringVar(&flags.ruleFormat, "rule-format", string(config.RuleFormatID),
		"rule identifier format in output: name, id, or combined")
	f.StringVar(&flags.summaryOrder, "summary-order", string(config.SummaryOrderRules),
		"order of tables in summary output: rules, files")
	f.BoolVarP(&flags.quiet, "quiet", "q", false, "print findings only: no summary, spinner or warnings")
	f.BoolVar(&flags.noContext, "no-context", false, "hide source line context in text output")
	f.BoolVar(&flags.compact, "compact", false, "compact JSON output")
	f.BoolVar(&flags.perFile, "per-file", false, "one table per file (table format)")

	f.IntVarP(&cfg.Jobs, "jobs", "j", 0, "number of parallel workers (0 = number of CPUs)")
	f.StringSliceVar(&flags.include, "include", nil, "only lint files matching these globs")
	f.StringSliceVar(&flags.exclude, "exclude", nil, "skip files matching these globs")
	f.BoolVar(&flags.followSymlinks, "follow-symlinks", false, "descend into symlinked directories")
	f.BoolVar(&flags.includeVendored, "include-vendored", false, "also lint node_modules, vendor and *.min.* files")

	f.StringSliceVar(&flags.enable, "enable", nil, "rule IDs or names to enable")
	f.StringSliceVar(&flags.disable, "disable", nil, "rule IDs or names to disable")
	f.IntVar(&cfg.Style.IndentWidth, "indent-width", 0, "spaces per indentation level")
	f.StringVar(&flags.quoteStyle, "quote-style", "", "quote style: double, single")

	f.BoolVar(&cfg.Cache.Enabled, "cache", false, "reuse results for unchanged files (lint-only runs)")
	f.StringVar(&cfg.Cache.Dir, "cache-dir", "", "cache directory (default $XDG_CACHE_HOME/gostyle)")
}

// applyFlags copies string flags into cfg and rejects bad values. Only
// flags the user set are copied so file configuration still applies.
func applyFlags(cmd *cobra.Command, cfg *config.Config, flags *lintFlags) error {
	changed := cmd.Flags().Changed

	if changed("format") {
		format, err := reporter.ParseFormat(flags.format)
		if err != nil {
			return fmt.Errorf("%w: %w", ErrUsage, err)
		}
		cfg.Format = format
	}
	if changed("fail-on") {
		sev := config.Severity(flags.failOn)
		if !sev.IsValid() {
			return fmt.Errorf("%w: --fail-on must be error, warning or info, got %q", ErrUsage, flags.failOn)
		}
		cfg.FailOn = sev
	}
	if changed("rule-format") {
		rf, err := config.ParseRuleFormat(flags.ruleFormat)
		if err != nil {
			return fmt.Errorf("%w: --rule-format: %w", ErrUsage, err)
		}
		cfg.RuleFormat = rf
	}
	order, err := config.ParseSummaryOrder(flags.summaryOrder)
	if err != nil {
		return fmt.Errorf("%w: --summary-order: %w", ErrUsage, err)
	}
	flags.summaryOrder = string(order)
	if changed("quote-style") {
		cfg.Style.QuoteStyle = config.QuoteStyle(flags.quoteStyle)
	}
	if changed("indent-width") && cfg.Style.IndentWidth <= 0 {
		return fmt.Errorf("%w: --indent-width must be positive", config.ErrInvalidConfig)
	}
	if cfg.MaxFixPasses < 0 {
		return fmt.Errorf("%w: --max-passes must be >= 0", ErrUsage)
	}

	cfg.EnableRules = flags.enable
	cfg.DisableRules = flags.disable
	cfg.FixRules = flags.fixRules
	return nil
}

func runLint(cmd *cobra.Command, args []string, cfg *config.Config, flags *lintFlags, info BuildInfo) error {
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	logger := logging.FromContext(ctx)

	if err := applyFlags(cmd, cfg, flags); err != nil {
		return err
	}

	workDir, err := os.Getwd()
	if err != nil {
		return fmt.Errorf("get working directory: %w", err)
	}

	configPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return fmt.Errorf("get config flag: %w", err)
	}

	registry := lint.DefaultRegistry
	loaded, err := configloader.Load(ctx, configloader.LoadOptions{
		WorkingDir:   workDir,
		ExplicitPath: configPath,
		CLIConfig:    cfg,
		Registry:     registry,
	})
	if err != nil {
		return fmt.Errorf("load configuration: %w", err)
	}
	finalCfg := loaded.Config

	if !flags.quiet {
		for _, warning := range loaded.Warnings {
			logger.Warn(warning)
		}
	}
	if len(loaded.LoadedFrom) > 0 {
		logger.Debug("configuration loaded", logging.FieldFiles, loaded.LoadedFrom)
	}

	runOpts := runner.Options{
		Paths:           args,
		WorkingDir:      workDir,
		Extensions:      runner.DefaultExtensions(),
		IncludeGlobs:    flags.include,
		ExcludeGlobs:    append(append([]string(nil), finalCfg.Ignore...), flags.exclude...),
		FollowSymlinks:  flags.followSymlinks,
		IncludeVendored: flags.includeVendored,
		Jobs:            finalCfg.Jobs,
		Config:          finalCfg,
		Cache:           openCache(finalCfg, logger),
		Version:         info.Version,
	}

	logger.Debug("starting lint run",
		logging.FieldPaths, runOpts.Paths,
		logging.FieldWorkingDir, runOpts.WorkingDir,
		logging.FieldJobs, runOpts.Jobs,
		logging.FieldFix, finalCfg.Fix,
		logging.FieldDryRun, finalCfg.DryRun,
	)

	lintRunner := runner.New(lint.NewPipeline(lint.NewEngine(parser.New(), registry)))

	stop := func() {}
	if loaded.Interactive && !flags.quiet {
		stop = startSpinner(cmd.ErrOrStderr(), "linting")
	}
	result, runErr := lintRunner.Run(ctx, runOpts)
	stop()

	if result == nil {
		return fmt.Errorf("lint run: %w", runErr)
	}

	writer, closeOutput, err := openOutput(cmd.OutOrStdout(), flags.output)
	if err != nil {
		return err
	}

	colorMode, _ := cmd.Flags().GetString("color")
	format := finalCfg.Format
	if format == "" {
		format = config.FormatText
	}
	// A dry run without an explicit format previews the fixes.
	if finalCfg.DryRun && !cmd.Flags().Changed("format") {
		format = config.FormatDiff
	}

	rep, err := reporter.New(reporter.Options{
		Writer:       writer,
		Format:       format,
		Color:        colorMode,
		ShowContext:  !flags.noContext,
		ShowSummary:  !flags.quiet,
		GroupByFile:  true,
		Compact:      flags.compact,
		PerFile:      flags.perFile,
		RuleFormat:   finalCfg.RuleFormat,
		SummaryOrder: config.SummaryOrder(flags.summaryOrder),
		WorkingDir:   workDir,
		Registry:     registry,
		ToolVersion:  info.Version,
	})
	if err != nil {
		closeOutput()
		return fmt.Errorf("%w: %w", ErrUsage, err)
	}

	_, reportErr := rep.Report(ctx, result)
	if err := errors.Join(reportErr, closeOutput()); err != nil {
		return fmt.Errorf("report results: %w", err)
	}

	if runErr != nil {
		return fmt.Errorf("lint run: %w", runErr)
	}

	return ResultError(result, finalCfg.FailOn)
}

// openCache opens the result cache when enabled. A cache that cannot be
// opened only costs speed, so failures are logged and the run continues.
func openCache(cfg *config.Config, logger *log.Logger) *cache.Cache {
	if !cfg.Cache.Enabled {
		return nil
	}
	c, err := cache.Open(cfg.Cache.Dir)
	if err != nil {
		logger.Warn("cache disabled", logging.FieldError, err)
		return nil
	}
	logger.Debug("cache enabled", logging.FieldPath, c.Dir())
	return c
}

// openOutput returns the report destination and a function that closes it.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, outputFilePermissions)
	if err != nil {
		return nil, nil, fmt.Errorf("open output file: %w", err)
	}
	return f, f.Close, nil
}
