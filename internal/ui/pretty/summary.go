package pretty

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/runner"
)

const summaryDividerWidth = 40

// plural returns "n word" or "n words".
func plural(n int, word string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, word)
	}
	return fmt.Sprintf("%d %ss", n, word)
}

// severityBreakdown returns the styled per-severity counts, most severe first.
func (s *Styles) severityBreakdown(stats runner.Stats) []string {
	var parts []string
	for _, sev := range []config.Severity{config.SeverityError, config.SeverityWarning, config.SeverityInfo} {
		count := stats.DiagnosticsBySeverity[string(sev)]
		if count == 0 {
			continue
		}
		label := plural(count, string(sev))
		if sev == config.SeverityInfo {
			label = fmt.Sprintf("%d info", count)
		}
		parts = append(parts, s.ForSeverity(sev).Render(label))
	}
	return parts
}

// fileNotes describes files that were not linted normally.
func (s *Styles) fileNotes(stats runner.Stats) []string {
	var notes []string
	if stats.FilesErrored > 0 {
		notes = append(notes, s.Failure.Render(plural(stats.FilesErrored, "file")+" failed"))
	}
	if stats.FilesCancelled > 0 {
		notes = append(notes, s.Warning.Render(plural(stats.FilesCancelled, "file")+" cancelled"))
	}
	if stats.FilesUnsupported > 0 {
		notes = append(notes, s.Dim.Render(plural(stats.FilesUnsupported, "file")+" unsupported"))
	}
	if stats.FilesCached > 0 {
		notes = append(notes, s.Dim.Render(fmt.Sprintf("%d cached", stats.FilesCached)))
	}
	return notes
}

// FormatSummaryOneLine formats run statistics as a single line, e.g.
// "12 issues (8 errors, 4 warnings) in 3 files, 6 fixable".
func (s *Styles) FormatSummaryOneLine(stats runner.Stats) string {
	var parts []string

	if stats.DiagnosticsTotal == 0 {
		parts = append(parts, s.Success.Render("No issues found")+
			s.Dim.Render(fmt.Sprintf(" (%s checked)", plural(stats.FilesProcessed, "file"))))
	} else {
		head := plural(stats.DiagnosticsTotal, "issue")
		if breakdown := s.severityBreakdown(stats); len(breakdown) > 0 {
			head += " (" + strings.Join(breakdown, ", ") + ")"
		}
		parts = append(parts, head+" in "+plural(stats.FilesWithIssues, "file"))

		if stats.DiagnosticsFixable > 0 {
			parts = append(parts, s.Success.Render(fmt.Sprintf("%d fixable", stats.DiagnosticsFixable)))
		}
	}

	if stats.DiagnosticsFixed > 0 {
		parts = append(parts, s.Success.Render(
			fmt.Sprintf("%d fixed in %s", stats.DiagnosticsFixed, plural(stats.FilesModified, "file"))))
	}

	parts = append(parts, s.fileNotes(stats)...)

	return strings.Join(parts, ", ") + "\n"
}

// FormatSummary formats run statistics as a block.
func (s *Styles) FormatSummary(stats runner.Stats) string {
	var builder strings.Builder

	row := func(label string, value string) {
		builder.WriteString(fmt.Sprintf("  %-19s%s\n", label+":", value))
	}

	builder.WriteString("\n" + s.SummaryTitle.Render("Summary") + "\n")
	builder.WriteString(strings.Repeat("-", summaryDividerWidth) + "\n")

	row("Files checked", s.SummaryValue.Render(strconv.Itoa(stats.FilesProcessed)))
	if stats.FilesWithIssues > 0 {
		row("Files with issues", s.Failure.Render(strconv.Itoa(stats.FilesWithIssues)))
	}
	if stats.FilesModified > 0 {
		row("Files modified", s.Success.Render(strconv.Itoa(stats.FilesModified)))
	}
	if stats.FilesCached > 0 {
		row("Files cached", s.Dim.Render(strconv.Itoa(stats.FilesCached)))
	}
	if stats.FilesErrored > 0 {
		row("Files failed", s.Failure.Render(strconv.Itoa(stats.FilesErrored)))
	}
	if stats.FilesCancelled > 0 {
		row("Files cancelled", s.Warning.Render(strconv.Itoa(stats.FilesCancelled)))
	}
	if stats.FilesUnsupported > 0 {
		row("Files unsupported", s.Dim.Render(strconv.Itoa(stats.FilesUnsupported)))
	}

	builder.WriteString("\n")
	row("Total issues", s.SummaryValue.Render(strconv.Itoa(stats.DiagnosticsTotal)))
	for _, sev := range []config.Severity{config.SeverityError, config.SeverityWarning, config.SeverityInfo} {
		if count := stats.DiagnosticsBySeverity[string(sev)]; count > 0 {
			label := "  " + strings.ToUpper(string(sev[:1])) + string(sev[1:])
			row(label, s.ForSeverity(sev).Render(strconv.Itoa(count)))
		}
	}
	if stats.DiagnosticsFixable > 0 {
		row("Fixable", s.Success.Render(strconv.Itoa(stats.DiagnosticsFixable)))
	}

	builder.WriteString("\n")
	switch {
	case stats.DiagnosticsBySeverity[string(config.SeverityError)] > 0 || stats.FilesErrored > 0:
		builder.WriteString(s.Failure.Render("Lint failed with errors"))
	case stats.DiagnosticsBySeverity[string(config.SeverityWarning)] > 0:
		builder.WriteString(s.Warning.Render("Lint completed with warnings"))
	default:
		builder.WriteString(s.Success.Render("Lint passed"))
	}
	builder.WriteString("\n")

	return builder.String()
}
