// Package rules provides the built-in style rules for gostyle.
//
// # Rule Domains
//
//   - Both dialects:
//
//   - ST001: malformed-syntax - Source must be well-formed
//
//   - ST002: indentation - Indent by nesting depth times the indent width, spaces only
//
//   - ST003: quote-style - Attribute values and strings use the configured quote
//
//   - ST004: bem-class-naming - Class names follow block__element--modifier
//
//   - ST005: no-trailing-spaces - Lines should not have trailing spaces
//
//   - ST006: final-newline - Files end with a single newline
//
//   - HTML:
//
//   - HT001: lowercase-names - Tag and attribute names are lowercase
//
//   - HT002: img-alt - Images have an alt attribute
//
//   - HT003: closing-tags - Void elements self-close, others have a closing tag
//
//   - HT004: boolean-attributes - No attribute whose value repeats its name
//
//   - HT005: attribute-order - Attributes follow the configured category order
//
//   - HT006: doctype - Documents start with <!DOCTYPE html>
//
//   - SCSS:
//
//   - SC001: nesting-depth - Selector nesting stays within the maximum
//
//   - SC002: declaration-order - Block contents follow the configured order
//
//   - SC003: no-id-selectors - Selectors avoid ids (disabled by default)
//
// # Rule IDs
//
// ST rules apply to every dialect, HT rules to HTML and SC rules to SCSS.
// Dialect-specific rules declare their dialects through lint.NewBaseRule and
// the engine skips them for other files.
//
// # Registration
//
// Rules are registered with the default registry via RegisterAll.
// Each rule follows the lint.Rule interface and uses the RuleContext,
// DiagnosticBuilder, and EditBuilder infrastructure.
package rules
