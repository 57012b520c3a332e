package cli

import (
	"fmt"
	"io"
	"strings"
	"text/template"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
)

// HelpFormatter renders cobra help and usage with the pretty styles.
type HelpFormatter struct {
	heading lipgloss.Style
	command lipgloss.Style
	flag    lipgloss.Style
	dim     lipgloss.Style
}

// NewHelpFormatter creates a help formatter for the given color mode.
func NewHelpFormatter(colorMode string, writer io.Writer) *HelpFormatter {
	styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, writer))
	return &HelpFormatter{
		heading: styles.Warning,
		command: styles.Bold,
		flag:    styles.Info.UnsetBold(),
		dim:     styles.Dim,
	}
}

const usageTemplate = `{{ heading "Usage:" }}
{{- if .Runnable }}
  {{ command .UseLine }}
{{- end }}
{{- if .HasAvailableSubCommands }}
  {{ command .CommandPath }} [command]
{{- end }}
{{- if .HasExample }}

{{ heading "Examples:" }}
{{ dim .Example }}
{{- end }}
{{- if .HasAvailableSubCommands }}

{{ heading "Commands:" }}
{{- range .Commands }}{{ if (or .IsAvailableCommand (eq .Name "help")) }}
  {{ command (rpad .Name .NamePadding) }} {{ .Short }}
{{- end }}{{ end }}
{{- end }}
{{- if .HasAvailableLocalFlags }}

{{ heading "Flags:" }}
{{ flags .LocalFlags }}
{{- end }}
{{- if .HasAvailableInheritedFlags }}

{{ heading "Global Flags:" }}
{{ flags .InheritedFlags }}
{{- end }}
{{- if .HasAvailableSubCommands }}

Use "{{ command (print .CommandPath " [command] --help") }}" for more information about a command.
{{- end }}
`

const helpTemplate = `{{ with (or .Long .Short) }}{{ trimRight . }}

{{ end }}` + usageTemplate

func (h *HelpFormatter) funcs() template.FuncMap {
	return template.FuncMap{
		"heading":   h.heading.Render,
		"command":   h.command.Render,
		"dim":       h.dim.Render,
		"flags":     h.flagUsages,
		"rpad":      rpad,
		"trimRight": trimTrailingWhitespace,
	}
}

// flagUsages styles pflag's aligned usage block. Each line is split at the
// first run of two or more spaces into the flag spec and its description.
func (h *HelpFormatter) flagUsages(set *pflag.FlagSet) string {
	usages := strings.TrimRight(set.FlagUsages(), "\n")
	lines := strings.Split(usages, "\n")
	for i, line := range lines {
		trimmed := strings.TrimLeft(line, " ")
		indent := line[:len(line)-len(trimmed)]

		spec, desc, found := strings.Cut(trimmed, "  ")
		if !found {
			lines[i] = indent + h.styleSpec(trimmed)
			continue
		}
		gap := len(trimmed) - len(spec) - len(strings.TrimLeft(desc, " "))
		lines[i] = indent + h.styleSpec(spec) + strings.Repeat(" ", gap) + strings.TrimLeft(desc, " ")
	}
	return strings.Join(lines, "\n")
}

// styleSpec colors "-f, --flag type": flag names in the flag style, the
// value type dimmed.
func (h *HelpFormatter) styleSpec(spec string) string {
	fields := strings.Fields(spec)
	for i, field := range fields {
		name, comma := strings.CutSuffix(field, ",")
		if strings.HasPrefix(name, "-") {
			name = h.flag.Render(name)
		} else {
			name = h.dim.Render(name)
		}
		if comma {
			name += ","
		}
		fields[i] = name
	}
	return strings.Join(fields, " ")
}

// ApplyToCommand installs the styled templates on cmd. Subcommands inherit
// them.
func (h *HelpFormatter) ApplyToCommand(cmd *cobra.Command) {
	render := func(name, text string, command *cobra.Command) error {
		tmpl, err := template.New(name).Funcs(h.funcs()).Parse(text)
		if err != nil {
			return fmt.Errorf("parse %s template: %w", name, err)
		}
		return tmpl.Execute(command.OutOrStdout(), command)
	}

	cmd.SetUsageFunc(func(command *cobra.Command) error {
		return render("usage", usageTemplate, command)
	})
	cmd.SetHelpFunc(func(command *cobra.Command, _ []string) {
		if err := render("help", helpTemplate, command); err != nil {
			command.PrintErrln(err)
		}
	})
}

func rpad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

func trimTrailingWhitespace(s string) string {
	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimRight(line, " \t")
	}
	return strings.Join(lines, "\n")
}
