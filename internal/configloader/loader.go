// Package configloader finds, decodes, merges and validates gostyle
// configuration from system, user and project files, GOSTYLE_*
// environment variables and command-line flags.
package configloader

import (
	"context"
	"fmt"
	"maps"
	"os"
	"slices"

	"golang.org/x/term"

	"github.com/yaklabco/gostyle/internal/logging"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fsutil"
	"github.com/yaklabco/gostyle/pkg/lint"
)

const configFilePermissions = 0o644

// LoadOptions selects which sources Load consults.
type LoadOptions struct {
	// WorkingDir is where the project config search starts. Empty means
	// the process working directory.
	WorkingDir string

	// ExplicitPath comes from --config. When set, project discovery is
	// skipped.
	ExplicitPath string

	IgnoreSystemConfig  bool
	IgnoreUserConfig    bool
	IgnoreProjectConfig bool
	IgnoreEnv           bool

	// NonInteractive forces LoadResult.Interactive to false.
	NonInteractive bool

	// CLIConfig holds flag values and is merged last.
	CLIConfig *config.Config

	// Registry resolves rule names and aliases used as config keys.
	// Nil means lint.DefaultRegistry.
	Registry *lint.Registry
}

// LoadResult is the merged configuration with where it came from.
type LoadResult struct {
	Config *config.Config
	Paths  *ConfigPaths

	// LoadedFrom lists the files merged, lowest precedence first.
	LoadedFrom []string

	// Warnings are problems that did not stop loading, such as unknown
	// rule IDs.
	Warnings []string

	// Interactive is true when both stdin and stderr are terminals.
	Interactive bool
}

// source is one config file candidate in precedence order.
type source struct {
	name string
	path string
}

func (opts LoadOptions) fileSources(paths *ConfigPaths) []source {
	var out []source
	add := func(name, path string, skip bool) {
		if !skip && path != "" {
			out = append(out, source{name: name, path: path})
		}
	}
	add("system", paths.System, opts.IgnoreSystemConfig)
	add("user", paths.User, opts.IgnoreUserConfig)
	add("project", paths.Project, opts.IgnoreProjectConfig || opts.ExplicitPath != "")
	add("explicit", opts.ExplicitPath, false)
	return out
}

// Load merges, lowest precedence first: defaults, system file, user file,
// project file (or the --config file instead), GOSTYLE_* variables and
// flags. Rule keys are then normalised to IDs and the result validated.
//
// Every failure is a *ValidationError matching config.ErrInvalidConfig,
// and no partial configuration is returned.
func Load(ctx context.Context, opts LoadOptions) (*LoadResult, error) {
	logger := logging.FromContext(ctx)

	registry := opts.Registry
	if registry == nil {
		registry = lint.DefaultRegistry
	}

	workDir := opts.WorkingDir
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("get working directory: %w", err)
		}
		workDir = wd
	}

	paths, err := DiscoverPaths(ctx, workDir)
	if err != nil {
		return nil, fmt.Errorf("discover paths: %w", err)
	}
	if opts.ExplicitPath != "" {
		paths.Explicit = opts.ExplicitPath
	}

	result := &LoadResult{
		Paths:       paths,
		Interactive: !opts.NonInteractive && isInteractive(),
	}
	cfg := config.NewConfig()

	for _, src := range opts.fileSources(paths) {
		l, err := loadConfigFile(src.path)
		if err != nil {
			return nil, &ValidationError{
				FilePath: src.path,
				Message:  fmt.Sprintf("load %s config: %v", src.name, err),
				Err:      err,
			}
		}
		if verr := validateLayer(l); verr != nil {
			return nil, verr
		}
		cfg = merge(cfg, l.cfg)
		result.LoadedFrom = append(result.LoadedFrom, src.path)
		logger.Debug("loaded config", logging.FieldPath, src.path, logging.FieldSource, src.name)
	}

	if !opts.IgnoreEnv {
		if err := LoadFromEnv(cfg); err != nil {
			return nil, &ValidationError{Field: "env", Message: err.Error(), Err: err}
		}
	}

	if opts.CLIConfig != nil {
		if verr := validateCLI(opts.CLIConfig); verr != nil {
			return nil, verr
		}
		cfg = merge(cfg, opts.CLIConfig)
	}

	result.Warnings = append(result.Warnings, normalizeRuleKeys(cfg, registry)...)

	validation := ValidateWithRegistry(cfg, registry)
	if !validation.Valid() {
		return nil, &validation.Errors[0]
	}
	for _, w := range validation.Warnings {
		result.Warnings = append(result.Warnings, w.Error())
	}

	result.Config = cfg
	return result, nil
}

func isInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stderr.Fd()))
}

// WriteConfig atomically writes a starter config to path. An existing
// file is only replaced when force is set.
func WriteConfig(path string, content []byte, force bool) error {
	if !force && fileExists(path) {
		return fmt.Errorf("%w: %s already exists", os.ErrExist, path)
	}
	if err := fsutil.WriteFileAtomic(path, content, configFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// normalizeRuleKeys rewrites rule names and aliases in cfg.Rules to
// canonical IDs. Keys are visited in sorted order so that when two keys
// name one rule the outcome is stable; the later key wins and a warning
// is returned. Unknown keys are kept for validation to report.
func normalizeRuleKeys(cfg *config.Config, registry *lint.Registry) []string {
	if len(cfg.Rules) == 0 {
		return nil
	}

	keys := slices.Sorted(maps.Keys(cfg.Rules))
	normalized := make(map[string]config.RuleConfig, len(keys))
	origin := map[string]string{}
	var warnings []string

	for _, key := range keys {
		entry := cfg.Rules[key]
		id, _, ok := registry.Resolve(key)
		if !ok {
			normalized[key] = entry
			continue
		}
		if prev, dup := origin[id]; dup {
			warnings = append(warnings, fmt.Sprintf(
				"duplicate rule configuration: %q and %q both refer to %s; using %q",
				prev, key, id, key))
		}
		origin[id] = key
		normalized[id] = entry
	}

	cfg.Rules = normalized
	return warnings
}
