// Package pretty renders gostyle results for terminals with lipgloss.
package pretty

import (
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"

	"github.com/yaklabco/gostyle/pkg/config"
)

// Color modes accepted by IsColorEnabled.
const (
	ColorAuto   = "auto"
	ColorAlways = "always"
	ColorNever  = "never"
)

// Styles holds the renderers used by the text, table and diff output.
type Styles struct {
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style

	FilePath   lipgloss.Style
	Location   lipgloss.Style
	RuleID     lipgloss.Style
	Message    lipgloss.Style
	Suggestion lipgloss.Style
	SourceLine lipgloss.Style
	Caret      lipgloss.Style

	DiffHeader  lipgloss.Style
	DiffHunk    lipgloss.Style
	DiffAdd     lipgloss.Style
	DiffRemove  lipgloss.Style
	DiffContext lipgloss.Style

	SummaryTitle lipgloss.Style
	SummaryValue lipgloss.Style
	Success      lipgloss.Style
	Failure      lipgloss.Style

	TableHeader    lipgloss.Style
	TableBorder    lipgloss.Style
	TableErrorRow  lipgloss.Style
	TableWarnRow   lipgloss.Style
	TableInfoRow   lipgloss.Style
	TableFixable   lipgloss.Style
	TableLegend    lipgloss.Style
	TableSeparator lipgloss.Style

	Dim  lipgloss.Style
	Bold lipgloss.Style
}

// palette names the ANSI colors a Styles is built from. An empty color
// means "no color".
type palette struct {
	red, yellow, blue, green, cyan, grey, light lipgloss.Color
	bold, italic                                bool
}

var ansiPalette = palette{
	red: "9", yellow: "11", blue: "12", green: "10", cyan: "14", grey: "8", light: "7",
	bold: true, italic: true,
}

// NewStyles creates Styles, colored or plain.
func NewStyles(colorEnabled bool) *Styles {
	if colorEnabled {
		return newStyles(ansiPalette)
	}
	return newStyles(palette{})
}

func newStyles(p palette) *Styles {
	fg := func(c lipgloss.Color) lipgloss.Style {
		style := lipgloss.NewStyle()
		if c != "" {
			style = style.Foreground(c)
		}
		return style
	}
	bold := func(s lipgloss.Style) lipgloss.Style { return s.Bold(p.bold) }
	italic := func(s lipgloss.Style) lipgloss.Style { return s.Italic(p.italic) }
	// raw keeps tabs, which matter in source and diff lines.
	raw := func(s lipgloss.Style) lipgloss.Style { return s.TabWidth(lipgloss.NoTabConversion) }
	plain := lipgloss.NewStyle()

	return &Styles{
		Error:   bold(fg(p.red)),
		Warning: bold(fg(p.yellow)),
		Info:    bold(fg(p.blue)),

		FilePath:   bold(plain),
		Location:   fg(p.grey),
		RuleID:     fg(p.grey),
		Message:    plain,
		Suggestion: italic(fg(p.green)),
		SourceLine: raw(fg(p.light)),
		Caret:      fg(p.red),

		DiffHeader:  bold(plain),
		DiffHunk:    fg(p.cyan),
		DiffAdd:     raw(fg(p.green)),
		DiffRemove:  raw(fg(p.red)),
		DiffContext: raw(fg(p.grey)),

		SummaryTitle: bold(plain),
		SummaryValue: plain,
		Success:      bold(fg(p.green)),
		Failure:      bold(fg(p.red)),

		TableHeader:    bold(fg(p.light)),
		TableBorder:    fg(p.grey),
		TableErrorRow:  fg(p.red),
		TableWarnRow:   fg(p.yellow),
		TableInfoRow:   fg(p.blue),
		TableFixable:   fg(p.green),
		TableLegend:    italic(fg(p.grey)),
		TableSeparator: fg(p.grey),

		Dim:  fg(p.grey),
		Bold: bold(plain),
	}
}

// ForSeverity returns the label style for sev.
func (s *Styles) ForSeverity(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.Error
	case config.SeverityWarning:
		return s.Warning
	case config.SeverityInfo:
		return s.Info
	default:
		return s.Message
	}
}

// rowStyle returns the table row style for sev.
func (s *Styles) rowStyle(sev config.Severity) lipgloss.Style {
	switch sev {
	case config.SeverityError:
		return s.TableErrorRow
	case config.SeverityWarning:
		return s.TableWarnRow
	case config.SeverityInfo:
		return s.TableInfoRow
	default:
		return lipgloss.NewStyle()
	}
}

// IsColorEnabled resolves a color mode against writer. In auto mode color
// is used only on a terminal and only when NO_COLOR is unset.
func IsColorEnabled(mode string, writer io.Writer) bool {
	switch mode {
	case ColorAlways:
		return true
	case ColorNever:
		return false
	}

	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}
