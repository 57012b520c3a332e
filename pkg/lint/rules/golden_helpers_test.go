package rules

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

// GoldenTestCase is one testdata/<dir>/<base>.input.<ext> file with its
// expected outputs beside it.
type GoldenTestCase struct {
	Name          string // <dir>/<base>.<ext>
	InputPath     string
	GoldenPath    string // <base>.golden.<ext>, the fixed content
	DiagsJSONPath string // <base>.diags.json, findings before fixing

	// RuleID is set when dir is a rule ID; only that rule runs.
	RuleID string
}

// DiagExpectation is how a finding is stored in a .diags.json file.
type DiagExpectation struct {
	Rule     string `json:"rule"`
	Name     string `json:"name"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Message  string `json:"message"`
	Severity string `json:"severity"`
	Fixable  bool   `json:"fixable"`
}

func expectationOf(d lint.Diagnostic) DiagExpectation {
	return DiagExpectation{
		Rule:     d.RuleID,
		Name:     d.RuleName,
		Line:     d.StartLine,
		Column:   d.StartColumn,
		Message:  d.Message,
		Severity: string(d.Severity),
		Fixable:  d.HasFix(),
	}
}

var ruleIDPattern = regexp.MustCompile(`^(ST|HT|SC)[0-9]+$`)

func isRuleID(s string) bool {
	return ruleIDPattern.MatchString(s)
}

// discoverTestCases collects *.input.html and *.input.scss files one level
// below baseDir. A missing baseDir yields no cases.
func discoverTestCases(t *testing.T, baseDir string) []GoldenTestCase {
	t.Helper()

	cases := []GoldenTestCase{}
	matches, err := filepath.Glob(filepath.Join(baseDir, "*", "*.input.*"))
	require.NoError(t, err)

	for _, input := range matches {
		ext := filepath.Ext(input)
		if ext != ".html" && ext != ".scss" {
			continue
		}
		dir := filepath.Dir(input)
		dirName := filepath.Base(dir)
		base := strings.TrimSuffix(filepath.Base(input), ".input"+ext)

		tc := GoldenTestCase{
			Name:          dirName + "/" + base + ext,
			InputPath:     input,
			GoldenPath:    filepath.Join(dir, base+".golden"+ext),
			DiagsJSONPath: filepath.Join(dir, base+".diags.json"),
		}
		if isRuleID(dirName) {
			tc.RuleID = dirName
		}
		cases = append(cases, tc)
	}

	slices.SortFunc(cases, func(a, b GoldenTestCase) int { return strings.Compare(a.Name, b.Name) })
	return cases
}

// goldenConfig turns every rule but ruleID off. An empty ruleID keeps the
// defaults.
func goldenConfig(ruleID string) *config.Config {
	cfg := config.NewConfig()
	if ruleID == "" {
		return cfg
	}
	for _, id := range lint.DefaultRegistry.IDs() {
		on := id == ruleID
		cfg.Rules[id] = config.RuleConfig{Enabled: &on}
	}
	return cfg
}

func writeTestdata(t *testing.T, path string, content []byte) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, content, 0o644))
	t.Logf("updated %s", path)
}

// compareWithGolden checks actual against goldenPath, or rewrites the file
// when update is set.
func compareWithGolden(t *testing.T, actual []byte, goldenPath string, update bool) {
	t.Helper()

	if update {
		writeTestdata(t, goldenPath, actual)
		return
	}

	expected, err := os.ReadFile(goldenPath)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing %s; run with -update to create it\ngot:\n%s", goldenPath, actual)
		return
	}
	require.NoError(t, err)
	assert.Equal(t, string(expected), string(actual), goldenPath)
}

// compareDiags checks actual findings against tc.DiagsJSONPath, or
// rewrites it when update is set.
func compareDiags(t *testing.T, actual []lint.Diagnostic, tc GoldenTestCase, update bool) {
	t.Helper()

	got := make([]DiagExpectation, len(actual))
	for i, d := range actual {
		got[i] = expectationOf(d)
	}

	if update {
		data, err := json.MarshalIndent(got, "", "  ")
		require.NoError(t, err)
		writeTestdata(t, tc.DiagsJSONPath, append(data, '\n'))
		return
	}

	data, err := os.ReadFile(tc.DiagsJSONPath)
	if errors.Is(err, fs.ErrNotExist) {
		t.Errorf("missing %s; run with -update to create it", tc.DiagsJSONPath)
		logDiags(t, filepath.Base(tc.InputPath), actual)
		return
	}
	require.NoError(t, err)

	want := []DiagExpectation{}
	if len(strings.TrimSpace(string(data))) > 0 {
		require.NoError(t, json.Unmarshal(data, &want), tc.DiagsJSONPath)
	}

	if !assert.Len(t, got, len(want)) {
		logDiags(t, filepath.Base(tc.InputPath), actual)
		return
	}
	for i := range want {
		assert.Equal(t, want[i], got[i], "finding %d", i)
	}
}

func logDiags(t *testing.T, name string, diags []lint.Diagnostic) {
	t.Helper()
	for _, d := range diags {
		t.Logf("  %s:%d:%d [%s] %s: %s", name, d.StartLine, d.StartColumn, d.RuleID, d.Severity, d.Message)
	}
}

func countFixableDiags(diags []lint.Diagnostic) int {
	n := 0
	for i := range diags {
		if diags[i].HasFix() {
			n++
		}
	}
	return n
}
