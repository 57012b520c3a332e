package lint

import (
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// ResolvedRule is a rule with its effective settings for one run.
type ResolvedRule struct {
	Rule     Rule
	Enabled  bool
	Severity config.Severity

	// AutoFix is true only when the rule can fix, fixing was requested and
	// the rule survives the fix-rules filter.
	AutoFix bool

	// Config is the rule's entry in the config file, or nil.
	Config *config.RuleConfig
}

// ResolveRules returns the enabled rules in registration order.
func ResolveRules(registry *Registry, cfg *config.Config) []ResolvedRule {
	return resolveMatching(registry, cfg, func(Rule) bool { return true })
}

// ResolveRulesFor is ResolveRules limited to rules that apply to dialect.
func ResolveRulesFor(registry *Registry, cfg *config.Config, dialect syntax.Dialect) []ResolvedRule {
	return resolveMatching(registry, cfg, func(r Rule) bool { return AppliesTo(r, dialect) })
}

func resolveMatching(registry *Registry, cfg *config.Config, keep func(Rule) bool) []ResolvedRule {
	var out []ResolvedRule
	for _, rule := range registry.Ordered() {
		if !keep(rule) {
			continue
		}
		if rr := resolveRule(registry, rule, cfg); rr.Enabled {
			out = append(out, rr)
		}
	}
	return out
}

// resolveRule layers rule defaults, the rule's config entry and then the
// command-line enable, disable and fix-rules lists.
func resolveRule(registry *Registry, rule Rule, cfg *config.Config) ResolvedRule {
	rr := ResolvedRule{
		Rule:     rule,
		Enabled:  rule.DefaultEnabled(),
		Severity: rule.DefaultSeverity(),
	}
	if cfg == nil {
		return rr
	}

	canFix := rule.CanFix() && cfg.Fix
	if entry, ok := cfg.Rules[rule.ID()]; ok {
		rr.Config = &entry
		if entry.Enabled != nil {
			rr.Enabled = *entry.Enabled
		}
		if entry.Severity != nil {
			rr.Severity = config.Severity(*entry.Severity)
		}
		if entry.AutoFix != nil {
			canFix = canFix && *entry.AutoFix
		}
	}

	names := ruleMatcher{registry: registry, rule: rule}
	switch {
	case names.in(cfg.DisableRules):
		rr.Enabled = false
	case names.in(cfg.EnableRules):
		rr.Enabled = true
	}

	if len(cfg.FixRules) > 0 && !names.in(cfg.FixRules) {
		canFix = false
	}
	rr.AutoFix = canFix

	return rr
}

// ruleMatcher matches user-supplied keys against one rule by ID, name or
// registered alias.
type ruleMatcher struct {
	registry *Registry
	rule     Rule
}

func (m ruleMatcher) in(keys []string) bool {
	for _, key := range keys {
		if key == m.rule.ID() || key == m.rule.Name() {
			return true
		}
		if m.registry == nil {
			continue
		}
		if id, _, ok := m.registry.Resolve(key); ok && id == m.rule.ID() {
			return true
		}
	}
	return false
}
