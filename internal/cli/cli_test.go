package cli_test

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/internal/cli"
)

var testInfo = cli.BuildInfo{Version: "1.2.3", Commit: "abc123", Date: "2026-01-01"}

// execute runs the root command with args and returns combined output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := cli.NewRootCommand(testInfo)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)

	err := cmd.Execute()
	return out.String(), err
}

func TestNewRootCommand(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	require.NotNil(t, cmd)
	assert.Equal(t, "gostyle", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Long)

	for _, name := range []string{"lint", "rules", "init", "version"} {
		sub, _, err := cmd.Find([]string{name})
		require.NoError(t, err, name)
		assert.Equal(t, name, sub.Name())
	}

	for _, name := range []string{"debug", "config", "color"} {
		assert.NotNil(t, cmd.PersistentFlags().Lookup(name), name)
	}
}

func TestLintCommandFlags(t *testing.T) {
	t.Parallel()

	cmd := cli.NewRootCommand(testInfo)
	lintCmd, _, err := cmd.Find([]string{"lint"})
	require.NoError(t, err)

	for _, name := range []string{
		"fix", "dry-run", "max-passes", "backup", "fix-rules",
		"format", "output", "fail-on", "rule-format", "summary-order", "quiet",
		"jobs", "include", "exclude", "enable", "disable",
		"indent-width", "quote-style", "cache", "cache-dir",
	} {
		assert.NotNil(t, lintCmd.Flags().Lookup(name), name)
	}

	assert.Equal(t, "id", lintCmd.Flags().Lookup("rule-format").DefValue)
	assert.Equal(t, "rules", lintCmd.Flags().Lookup("summary-order").DefValue)
	assert.Contains(t, lintCmd.Flags().Lookup("format").Usage, "sarif")

	require.NoError(t, lintCmd.Args(lintCmd, []string{"a.html", "b.scss", "templates/"}))
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "gostyle")
	assert.Contains(t, out, "version=1.2.3")
	assert.Contains(t, out, "commit=abc123")

	out, err = execute(t, "version", "--short")
	require.NoError(t, err)
	assert.Equal(t, "1.2.3\n", out)
}

func TestHelpIsStyled(t *testing.T) {
	t.Parallel()

	out, err := execute(t, "lint", "--help", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "Lint HTML and SCSS files")
	assert.Contains(t, out, "Usage:")
	assert.Contains(t, out, "gostyle lint [paths...]")
	assert.Contains(t, out, "Global Flags:")
	assert.Contains(t, out, "--fail-on string")
	assert.Contains(t, out, "GOSTYLE_INDENT_WIDTH")
}

func TestUnknownFlagIsUsageError(t *testing.T) {
	t.Parallel()

	_, err := execute(t, "lint", "--no-such-flag")
	require.Error(t, err)
	assert.Equal(t, cli.ExitInvalidUsage, cli.ExitCode(err))
}
