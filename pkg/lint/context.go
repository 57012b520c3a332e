package lint

import (
	"context"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// RuleContext is handed to Rule.Apply for one rule over one file. It is
// short-lived, so it carries the run's context.Context as a field.
type RuleContext struct {
	Ctx    context.Context
	File   *syntax.FileSnapshot
	Root   *syntax.Node
	Config *config.Config

	// RuleConfig is this rule's entry from Config.Rules, or nil.
	RuleConfig *config.RuleConfig

	nodes *NodeCache
}

// NewRuleContext binds a rule invocation to file and its configuration.
// file and both configs may be nil.
func NewRuleContext(
	ctx context.Context,
	file *syntax.FileSnapshot,
	cfg *config.Config,
	ruleCfg *config.RuleConfig,
) *RuleContext {
	rc := &RuleContext{Ctx: ctx, File: file, Config: cfg, RuleConfig: ruleCfg}
	if file != nil {
		rc.Root = file.Root
	}
	return rc
}

// Cancelled reports whether the run was interrupted. Rules poll it
// between top-level nodes.
func (rc *RuleContext) Cancelled() bool {
	return rc.Ctx.Err() != nil
}

func (rc *RuleContext) Dialect() syntax.Dialect {
	if rc.File != nil {
		return rc.File.Dialect
	}
	return syntax.DialectUnknown
}

// Style returns the configured style, or DefaultStyle without a config.
func (rc *RuleContext) Style() config.StyleConfig {
	if rc.Config != nil {
		return rc.Config.Style
	}
	return config.DefaultStyle()
}

// Nodes returns the per-file node index, building it on first use.
func (rc *RuleContext) Nodes() *NodeCache {
	if rc.nodes == nil {
		rc.nodes = NewNodeCache(rc.Root)
	}
	return rc.nodes
}

func (rc *RuleContext) rawOption(key string) (any, bool) {
	if rc.RuleConfig == nil {
		return nil, false
	}
	v, ok := rc.RuleConfig.Options[key]
	return v, ok
}

// option returns the value under key when it has type T.
func option[T any](rc *RuleContext, key string, def T) T {
	v, ok := rc.rawOption(key)
	if !ok {
		return def
	}
	if t, ok := v.(T); ok {
		return t
	}
	return def
}

// OptionInt accepts the integer shapes produced by the YAML, TOML and JSON
// decoders.
func (rc *RuleContext) OptionInt(key string, def int) int {
	v, ok := rc.rawOption(key)
	if !ok {
		return def
	}
	switch n := v.(type) {
	case int:
		return n
	case int64:
		return int(n)
	case float64:
		return int(n)
	}
	return def
}

func (rc *RuleContext) OptionString(key, def string) string {
	return option(rc, key, def)
}

func (rc *RuleContext) OptionBool(key string, def bool) bool {
	return option(rc, key, def)
}

// OptionStringSlice accepts []string or a decoded []any, keeping only the
// string elements. A list with no strings yields def.
func (rc *RuleContext) OptionStringSlice(key string, def []string) []string {
	v, ok := rc.rawOption(key)
	if !ok {
		return def
	}
	if ss, ok := v.([]string); ok {
		return ss
	}
	items, ok := v.([]any)
	if !ok {
		return def
	}
	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return def
	}
	return out
}
