package cli_test

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/internal/cli"
	"github.com/yaklabco/gostyle/pkg/reporter"
)

const (
	// Trailing spaces on line 1 trigger ST005 (no-trailing-spaces), a warning.
	trailingSpacesHTML = "<div>  \n</div>\n"

	unorderedSCSS = ".a { color: red; @extend .b; }\n"
	orderedSCSS   = ".a { @extend .b; color: red; }\n"
)

// writeFile writes content to name inside a fresh temp dir.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

// configFile writes an explicit config, which also shuts out any project
// config found above the working directory.
func configFile(t *testing.T, content string) string {
	t.Helper()
	return writeFile(t, ".gostyle.yml", content)
}

// lintArgs prefixes the flags every lint test needs.
func lintArgs(t *testing.T, cfg string, args ...string) []string {
	t.Helper()
	if cfg == "" {
		cfg = "style:\n  indent_width: 4\n"
	}
	return append([]string{"lint", "--config", configFile(t, cfg), "--color", "never"}, args...)
}

func decodeJSON(t *testing.T, out string) reporter.JSONOutput {
	t.Helper()
	var doc reporter.JSONOutput
	require.NoError(t, json.Unmarshal([]byte(out), &doc), out)
	return doc
}

func TestLint_ReportsFindings(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)

	out, err := execute(t, lintArgs(t, "", "--format", "json", page)...)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Equal(t, cli.ExitLintIssues, cli.ExitCode(err))

	doc := decodeJSON(t, out)
	assert.Equal(t, "gostyle", doc.Tool)
	require.Len(t, doc.Diagnostics, 1)
	assert.Equal(t, "ST005", doc.Diagnostics[0].RuleID)
	assert.Equal(t, "no-trailing-spaces", doc.Diagnostics[0].RuleName)
	assert.Equal(t, "warning", doc.Diagnostics[0].Severity)
	assert.True(t, doc.Diagnostics[0].Fixable)
}

func TestLint_FailOn(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)

	_, err := execute(t, lintArgs(t, "", "--fail-on", "error", page)...)
	require.NoError(t, err)

	_, err = execute(t, lintArgs(t, "", "--fail-on", "info", page)...)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)

	_, err = execute(t, lintArgs(t, "", "--fail-on", "fatal", page)...)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestLint_RuleFormat(t *testing.T) {
	t.Parallel()

	tests := []struct {
		format     string
		want       string
		notWant    string
		wantErrUse bool
	}{
		{format: "name", want: "(no-trailing-spaces)", notWant: "(ST005"},
		{format: "id", want: "(ST005)", notWant: "no-trailing-spaces"},
		{format: "combined", want: "(ST005/no-trailing-spaces)"},
		{format: "bogus", wantErrUse: true},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			t.Parallel()

			page := writeFile(t, "page.html", trailingSpacesHTML)
			out, err := execute(t, lintArgs(t, "", "--no-context", "--rule-format", tt.format, page)...)
			if tt.wantErrUse {
				assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
				return
			}

			assert.Contains(t, out, tt.want)
			if tt.notWant != "" {
				assert.NotContains(t, out, tt.notWant)
			}
		})
	}
}

func TestLint_ConfigDisablesRuleByName(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)
	cfg := "rules:\n  no-trailing-spaces:\n    enabled: false\n"

	out, err := execute(t, lintArgs(t, cfg, "--format", "json", page)...)
	require.NoError(t, err)
	assert.Empty(t, decodeJSON(t, out).Diagnostics)
}

func TestLint_DisableFlag(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)

	out, err := execute(t, lintArgs(t, "", "--format", "json", "--disable", "ST005", page)...)
	require.NoError(t, err)
	assert.Empty(t, decodeJSON(t, out).Diagnostics)
}

func TestLint_InvalidConfig(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)

	_, err := execute(t, lintArgs(t, "style:\n  indent_width: -2\n", page)...)
	require.Error(t, err)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))

	_, err = execute(t, lintArgs(t, "", "--indent-width", "0", page)...)
	assert.Equal(t, cli.ExitConfigError, cli.ExitCode(err))
}

func TestLint_BadFormat(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)

	_, err := execute(t, lintArgs(t, "", "--format", "xml", page)...)
	require.ErrorIs(t, err, cli.ErrUsage)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestLint_MissingPath(t *testing.T) {
	t.Parallel()

	missing := filepath.Join(t.TempDir(), "nope.html")

	_, err := execute(t, lintArgs(t, "", missing)...)
	require.ErrorIs(t, err, cli.ErrFilesFailed)
	assert.Equal(t, cli.ExitFilesFailed, cli.ExitCode(err))
}

func TestLint_MissingPathDoesNotStopBatch(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", "<p>ok</p>\n")
	missing := page + ".nope"

	out, err := execute(t, lintArgs(t, "", "--format", "json", page, missing)...)
	require.ErrorIs(t, err, cli.ErrFilesFailed)
	assert.Equal(t, cli.ExitFilesFailed, cli.ExitCode(err))

	doc := decodeJSON(t, out)
	require.Len(t, doc.Files, 2)
	assert.Equal(t, "ok", doc.Files[0].Status)
	assert.Equal(t, "error", doc.Files[1].Status)
	assert.Contains(t, doc.Files[1].Error, "file not found")
	assert.Equal(t, 1, doc.Summary.FilesErrored)
}

func TestLint_Fix(t *testing.T) {
	t.Parallel()

	sheet := writeFile(t, "main.scss", unorderedSCSS)

	_, err := execute(t, lintArgs(t, "", "--fix", sheet)...)
	require.NoError(t, err)

	fixed, err := os.ReadFile(sheet)
	require.NoError(t, err)
	assert.Equal(t, orderedSCSS, string(fixed))

	_, statErr := os.Stat(sheet + ".gostyle.bak")
	assert.True(t, os.IsNotExist(statErr), "backups are off by default")
}

func TestLint_FixWithBackup(t *testing.T) {
	t.Parallel()

	sheet := writeFile(t, "main.scss", unorderedSCSS)

	_, err := execute(t, lintArgs(t, "", "--fix", "--backup", sheet)...)
	require.NoError(t, err)

	backup, err := os.ReadFile(sheet + ".gostyle.bak")
	require.NoError(t, err)
	assert.Equal(t, unorderedSCSS, string(backup))
}

func TestLint_DryRunShowsDiff(t *testing.T) {
	t.Parallel()

	sheet := writeFile(t, "main.scss", unorderedSCSS)

	out, _ := execute(t, lintArgs(t, "", "--dry-run", sheet)...)
	assert.Contains(t, out, "-"+strings.TrimSuffix(unorderedSCSS, "\n"))
	assert.Contains(t, out, "+"+strings.TrimSuffix(orderedSCSS, "\n"))

	unchanged, err := os.ReadFile(sheet)
	require.NoError(t, err)
	assert.Equal(t, unorderedSCSS, string(unchanged))
}

func TestLint_OutputFile(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)
	report := filepath.Join(t.TempDir(), "report.sarif")

	out, err := execute(t, lintArgs(t, "", "--format", "sarif", "-o", report, page)...)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
	assert.Empty(t, out)

	data, err := os.ReadFile(report)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"version": "2.1.0"`)
	assert.Contains(t, string(data), `"ruleId": "ST005"`)
}

func TestLint_SummaryFormat(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)

	out, _ := execute(t, lintArgs(t, "", "--format", "summary", "--summary-order", "files", page)...)
	assert.Contains(t, out, "Rules Summary")
	assert.Contains(t, out, "Files Summary")
	assert.Less(t, strings.Index(out, "Files Summary"), strings.Index(out, "Rules Summary"))
}

func TestLint_Cache(t *testing.T) {
	t.Parallel()

	page := writeFile(t, "page.html", trailingSpacesHTML)
	cacheDir := t.TempDir()

	for range 2 {
		out, err := execute(t, lintArgs(t, "", "--format", "json", "--cache", "--cache-dir", cacheDir, page)...)
		require.ErrorIs(t, err, cli.ErrLintIssuesFound)
		require.Len(t, decodeJSON(t, out).Diagnostics, 1)
	}

	entries, err := os.ReadDir(cacheDir)
	require.NoError(t, err)
	assert.NotEmpty(t, entries)
}

func TestRulesCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "rules", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "DESCRIPTION")
	assert.Contains(t, out, "img-alt")
	assert.Contains(t, out, "declaration-order")

	out, err = execute(t, "rules", "--dialect", "scss", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "SC001")
	assert.NotContains(t, out, "HT001")

	_, err = execute(t, "rules", "--format", "xml")
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}

func TestRulesCommand_JSON(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "rules", "--format", "json")
	require.NoError(t, err)

	var rules []struct {
		ID       string   `json:"id"`
		Name     string   `json:"name"`
		Dialects []string `json:"dialects"`
		Severity string   `json:"severity"`
		Fixable  bool     `json:"fixable"`
		Enabled  bool     `json:"enabled"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rules))
	require.Len(t, rules, 15)

	assert.Equal(t, "ST001", rules[0].ID)
	assert.Equal(t, "malformed-syntax", rules[0].Name)
	assert.Equal(t, []string{"html", "scss"}, rules[0].Dialects)
	assert.Equal(t, "error", rules[0].Severity)

	byID := make(map[string]bool)
	for _, r := range rules {
		byID[r.ID] = r.Enabled
	}
	assert.False(t, byID["SC003"], "no-id-selectors is opt-in")
}

func TestInitCommand(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := filepath.Join(dir, ".gostyle.yml")

	_, err := execute(t, "init", "-o", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "indent_width: 4")
	assert.Contains(t, string(data), "quote_style: double")

	_, err = execute(t, "init", "-o", path)
	require.Error(t, err)
	assert.Equal(t, cli.ExitIOError, cli.ExitCode(err))

	_, err = execute(t, "init", "-o", path, "--force", "--full")
	require.NoError(t, err)
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "HT002:")
}

func TestInitCommand_TOMLLoadsBack(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), ".gostyle.toml")
	_, err := execute(t, "init", "--format", "toml", "-o", cfgPath)
	require.NoError(t, err)

	page := writeFile(t, "page.html", trailingSpacesHTML)
	_, err = execute(t, "lint", "--config", cfgPath, "--quiet", page)
	require.ErrorIs(t, err, cli.ErrLintIssuesFound)
}
