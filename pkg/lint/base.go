package lint

import (
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/syntax"
)

// BaseRule carries the static metadata every rule reports. Rules embed it
// and supply Apply; DefaultEnabled and DefaultSeverity may be shadowed.
type BaseRule struct {
	id, name, desc string
	tags           []string
	fixable        bool
	dialects       []syntax.Dialect
}

// NewBaseRule builds rule metadata. Omitting dialects makes the rule apply
// to both HTML and SCSS.
func NewBaseRule(id, name, desc string, tags []string, fixable bool, dialects ...syntax.Dialect) BaseRule {
	return BaseRule{id: id, name: name, desc: desc, tags: tags, fixable: fixable, dialects: dialects}
}

func (r *BaseRule) ID() string                 { return r.id }
func (r *BaseRule) Name() string               { return r.name }
func (r *BaseRule) Description() string        { return r.desc }
func (r *BaseRule) Tags() []string             { return r.tags }
func (r *BaseRule) CanFix() bool               { return r.fixable }
func (r *BaseRule) Dialects() []syntax.Dialect { return r.dialects }

// DefaultEnabled is true; opt-in rules shadow it.
func (r *BaseRule) DefaultEnabled() bool { return true }

// DefaultSeverity is warning.
func (r *BaseRule) DefaultSeverity() config.Severity { return config.SeverityWarning }

// Apply finds nothing. Embedding rules always shadow it.
func (r *BaseRule) Apply(*RuleContext) ([]Diagnostic, error) { return nil, nil }
