package rules

import (
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

// RegisterAll registers all built-in rules with the given registry.
// Registration order breaks ties between diagnostics at the same position.
func RegisterAll(registry *lint.Registry) {
	// Rules for both dialects
	registry.Register(NewMalformedSyntaxRule())    // ST001
	registry.Register(NewIndentationRule())        // ST002
	registry.Register(NewQuoteStyleRule())         // ST003
	registry.Register(NewBEMClassNamingRule())     // ST004
	registry.Register(NewTrailingWhitespaceRule()) // ST005
	registry.Register(NewFinalNewlineRule())       // ST006

	// HTML rules
	registry.Register(NewLowercaseNamesRule())    // HT001
	registry.Register(NewImgAltRule())            // HT002
	registry.Register(NewClosingTagsRule())       // HT003
	registry.Register(NewBooleanAttributesRule()) // HT004
	registry.Register(NewAttributeOrderRule())    // HT005
	registry.Register(NewDoctypeRule())           // HT006

	// SCSS rules
	registry.Register(NewNestingDepthRule())     // SC001
	registry.Register(NewDeclarationOrderRule()) // SC002
	registry.Register(NewNoIDSelectorsRule())    // SC003
}

// RegisterAliases registers alternate names used by other style linters.
func RegisterAliases(registry *lint.Registry) {
	registry.RegisterAlias("no-trailing-whitespace", "ST005")
	registry.RegisterAlias("alt-require", "HT002")
	registry.RegisterAlias("order/order", "SC002")
	registry.RegisterAlias("max-nesting-depth", "SC001")
}

// RuleInfos describes the rules of registry in registration order.
func RuleInfos(registry *lint.Registry) []config.RuleInfo {
	ordered := registry.Ordered()
	infos := make([]config.RuleInfo, 0, len(ordered))
	for _, rule := range ordered {
		dialects := lint.RuleDialects(rule)
		names := make([]string, 0, len(dialects))
		for _, d := range dialects {
			names = append(names, d.String())
		}
		infos = append(infos, config.RuleInfo{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Dialects:    names,
			Enabled:     rule.DefaultEnabled(),
			Severity:    rule.DefaultSeverity(),
			Tags:        rule.Tags(),
			CanFix:      rule.CanFix(),
		})
	}
	return infos
}

// init registers all built-in rules with the default registry.
//
//nolint:gochecknoinits // Init is intentional for automatic rule registration
func init() {
	RegisterAll(lint.DefaultRegistry)
	RegisterAliases(lint.DefaultRegistry)
	config.DefaultRuleInfoProvider = func() []config.RuleInfo {
		return RuleInfos(lint.DefaultRegistry)
	}
}
