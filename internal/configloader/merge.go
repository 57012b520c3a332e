package configloader

import (
	"maps"

	"github.com/yaklabco/gostyle/pkg/config"
)

// overlay copies v into dst unless v is the zero value, so an unset field
// in a higher layer leaves the lower layer's value alone. A false boolean
// therefore cannot switch off a lower layer's true.
func overlay[T comparable](dst *T, v T) {
	var zero T
	if v != zero {
		*dst = v
	}
}

// overlaySlice replaces dst when v is non-nil. An explicit empty list in a
// higher layer clears the lower one.
func overlaySlice[T any](dst *[]T, v []T) {
	if v != nil {
		*dst = v
	}
}

// overlayPtr replaces dst when v is set.
func overlayPtr[T any](dst **T, v *T) {
	if v != nil {
		*dst = v
	}
}

// merge returns base with every field set in top laid over it. Neither
// input is modified.
func merge(base, top *config.Config) *config.Config {
	switch {
	case base == nil:
		return top
	case top == nil:
		return base
	}

	out := *base

	s := &out.Style
	overlay(&s.IndentWidth, top.Style.IndentWidth)
	overlay(&s.IndentStyle, top.Style.IndentStyle)
	overlay(&s.QuoteStyle, top.Style.QuoteStyle)
	overlay(&s.MaxNestingDepth, top.Style.MaxNestingDepth)
	overlaySlice(&s.AttributeOrder, top.Style.AttributeOrder)
	overlaySlice(&s.DeclarationOrder, top.Style.DeclarationOrder)

	overlay(&out.SeverityDefault, top.SeverityDefault)
	overlaySlice(&out.Ignore, top.Ignore)
	overlay(&out.Backups.Enabled, top.Backups.Enabled)
	overlay(&out.Backups.Mode, top.Backups.Mode)
	overlay(&out.Cache.Enabled, top.Cache.Enabled)
	overlay(&out.Cache.Dir, top.Cache.Dir)
	out.Rules = mergeRules(base.Rules, top.Rules)

	// Run options only ever come from the command line.
	overlay(&out.Fix, top.Fix)
	overlay(&out.DryRun, top.DryRun)
	overlay(&out.NoBackups, top.NoBackups)
	overlay(&out.Format, top.Format)
	overlay(&out.RuleFormat, top.RuleFormat)
	overlay(&out.Jobs, top.Jobs)
	overlay(&out.MaxFixPasses, top.MaxFixPasses)
	overlay(&out.FailOn, top.FailOn)
	overlaySlice(&out.EnableRules, top.EnableRules)
	overlaySlice(&out.DisableRules, top.DisableRules)
	overlaySlice(&out.FixRules, top.FixRules)

	return &out
}

// mergeRules merges per-rule settings key by key. Options maps are merged
// one level deep into a fresh map.
func mergeRules(base, top map[string]config.RuleConfig) map[string]config.RuleConfig {
	if base == nil && top == nil {
		return nil
	}
	out := maps.Clone(base)
	if out == nil {
		out = make(map[string]config.RuleConfig, len(top))
	}

	for id, rc := range top {
		prev, ok := out[id]
		if !ok {
			out[id] = rc
			continue
		}
		overlayPtr(&prev.Enabled, rc.Enabled)
		overlayPtr(&prev.Severity, rc.Severity)
		overlayPtr(&prev.AutoFix, rc.AutoFix)
		if rc.Options != nil {
			opts := maps.Clone(prev.Options)
			if opts == nil {
				opts = make(map[string]any, len(rc.Options))
			}
			maps.Copy(opts, rc.Options)
			prev.Options = opts
		}
		out[id] = prev
	}
	return out
}

// MergeAll folds configs left to right; later ones win.
func MergeAll(configs ...*config.Config) *config.Config {
	var out *config.Config
	for _, c := range configs {
		out = merge(out, c)
	}
	return out
}
