package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/yaklabco/gostyle/internal/ui/pretty"
	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
	"github.com/yaklabco/gostyle/pkg/lint/rules"
)

type rulesFlags struct {
	format  string
	dialect string
}

// ruleInfo is one rule in JSON output.
type ruleInfo struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Dialects    []string `json:"dialects"`
	Severity    string   `json:"severity"`
	Fixable     bool     `json:"fixable"`
	Enabled     bool     `json:"enabled"`
	Tags        []string `json:"tags,omitempty"`
}

func newRulesCommand() *cobra.Command {
	flags := &rulesFlags{}

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "List available lint rules",
		Long: `List the built-in rules with their IDs, names, dialects, default
severity, and whether they can be fixed automatically.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			infos := filterRules(rules.RuleInfos(lint.DefaultRegistry), flags.dialect)

			switch flags.format {
			case string(config.FormatJSON):
				return writeRulesJSON(cmd.OutOrStdout(), infos)
			case string(config.FormatText):
				colorMode, _ := cmd.Flags().GetString("color")
				styles := pretty.NewStyles(pretty.IsColorEnabled(colorMode, cmd.OutOrStdout()))
				writeRulesTable(cmd.OutOrStdout(), styles, infos)
				return nil
			default:
				return fmt.Errorf("%w: --format must be text or json, got %q", ErrUsage, flags.format)
			}
		},
	}

	cmd.Flags().StringVar(&flags.format, "format", string(config.FormatText), "output format: text, json")
	cmd.Flags().StringVar(&flags.dialect, "dialect", "", "only list rules for this dialect: html, scss")

	return cmd
}

func filterRules(infos []config.RuleInfo, dialect string) []config.RuleInfo {
	if dialect == "" {
		return infos
	}
	dialect = strings.ToLower(dialect)
	return slices.DeleteFunc(infos, func(info config.RuleInfo) bool {
		return !slices.Contains(info.Dialects, dialect)
	})
}

func writeRulesJSON(w io.Writer, infos []config.RuleInfo) error {
	out := make([]ruleInfo, 0, len(infos))
	for _, info := range infos {
		out = append(out, ruleInfo{
			ID:          info.ID,
			Name:        info.Name,
			Description: info.Description,
			Dialects:    info.Dialects,
			Severity:    string(info.Severity),
			Fixable:     info.CanFix,
			Enabled:     info.Enabled,
			Tags:        info.Tags,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encode rules: %w", err)
	}
	return nil
}

// writeRulesTable prints one row per rule. Column widths fit the longest
// value so the description starts at the same offset on every row.
func writeRulesTable(w io.Writer, styles *pretty.Styles, infos []config.RuleInfo) {
	header := []string{"ID", "NAME", "DIALECTS", "SEVERITY", "FIX", "ON"}
	rows := make([][]string, 0, len(infos))
	for _, info := range infos {
		fixable, enabled := "", "no"
		if info.CanFix {
			fixable = "✓"
		}
		if info.Enabled {
			enabled = "yes"
		}
		rows = append(rows, []string{
			info.ID, info.Name, strings.Join(info.Dialects, ","),
			string(info.Severity), fixable, enabled,
		})
	}

	widths := make([]int, len(header))
	for i, h := range header {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], runewidth.StringWidth(cell))
		}
	}

	pad := func(cells []string) []string {
		out := make([]string, len(cells))
		for i, cell := range cells {
			out[i] = runewidth.FillRight(cell, widths[i])
		}
		return out
	}

	fmt.Fprintln(w, styles.TableHeader.Render(strings.Join(pad(header), "  ")+"  DESCRIPTION"))
	for i, row := range rows {
		cells := pad(row)
		cells[3] = styles.ForSeverity(infos[i].Severity).Render(cells[3])
		cells[4] = styles.TableFixable.Render(cells[4])
		if !infos[i].Enabled {
			cells[5] = styles.Dim.Render(cells[5])
		}
		fmt.Fprintf(w, "%s  %s\n", strings.Join(cells, "  "), infos[i].Description)
	}
}
