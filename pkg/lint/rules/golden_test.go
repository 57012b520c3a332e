package rules

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/lint"
)

// update rewrites golden files instead of comparing.
// Usage: go test ./pkg/lint/rules/... -run TestGolden -update.
var update = flag.Bool("update", false, "update golden files")

func testdataDir(t *testing.T) string {
	t.Helper()

	_, filename, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("failed to get test file path")
	}
	return filepath.Join(filepath.Dir(filename), "testdata")
}

// TestGolden lints each testdata input, compares the diagnostics with
// <base>.diags.json and the fixed output with <base>.golden<ext>.
func TestGolden(t *testing.T) {
	cases := discoverTestCases(t, testdataDir(t))
	if len(cases) == 0 {
		t.Skip("No golden test cases found. Add testdata/<RULE_ID>/*.input.html or *.input.scss files.")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			runGoldenTest(t, tc, *update)
		})
	}
}

func runGoldenTest(t *testing.T, tc GoldenTestCase, updateGolden bool) {
	t.Helper()

	input, err := os.ReadFile(tc.InputPath)
	require.NoError(t, err)

	ctx := context.Background()
	pipeline := newTestPipeline()
	path := filepath.Base(tc.InputPath)

	cfg := goldenConfig(tc.RuleID)
	linted, err := pipeline.ProcessContent(ctx, path, input, cfg, lint.PipelineOptions{})
	require.NoError(t, err)
	compareDiags(t, linted.Diagnostics, tc, updateGolden)

	cfg.Fix = true
	fixed, err := pipeline.ProcessContent(ctx, path, input, cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)
	assert.Empty(t, fixed.Reverted, "fixes failed verification")

	output := input
	if fixed.Modified {
		output = fixed.ModifiedContent
	}
	compareWithGolden(t, output, tc.GoldenPath, updateGolden)
}

// TestGoldenRoundTrip checks that golden outputs have nothing left to fix.
func TestGoldenRoundTrip(t *testing.T) {
	cases := discoverTestCases(t, testdataDir(t))
	if len(cases) == 0 {
		t.Skip("No golden test cases found for round-trip testing.")
	}

	for _, tc := range cases {
		t.Run(tc.Name, func(t *testing.T) {
			golden, err := os.ReadFile(tc.GoldenPath)
			if os.IsNotExist(err) {
				t.Skip("golden file not generated yet")
			}
			require.NoError(t, err)

			result, err := newTestPipeline().ProcessContent(context.Background(),
				filepath.Base(tc.InputPath), golden, goldenConfig(tc.RuleID), lint.PipelineOptions{})
			require.NoError(t, err)

			if n := countFixableDiags(result.Diagnostics); n > 0 {
				t.Errorf("%d fixable diagnostics remain in %s", n, tc.GoldenPath)
				logDiags(t, filepath.Base(tc.GoldenPath), result.Diagnostics)
			}
		})
	}
}

func TestGoldenTestInfrastructure(t *testing.T) {
	t.Run("isRuleID", func(t *testing.T) {
		tests := []struct {
			input string
			want  bool
		}{
			{"ST001", true},
			{"HT006", true},
			{"SC002", true},
			{"project", false},
			{"", false},
			{"ST", false},
			{"MD001", false},
			{"STabc", false},
			{"st001", false},
		}

		for _, tt := range tests {
			t.Run(tt.input, func(t *testing.T) {
				assert.Equal(t, tt.want, isRuleID(tt.input))
			})
		}
	})

	t.Run("goldenConfig", func(t *testing.T) {
		cfg := goldenConfig("SC002")
		resolved := lint.ResolveRules(lint.DefaultRegistry, cfg)
		require.Len(t, resolved, 1)
		assert.Equal(t, "SC002", resolved[0].Rule.ID())

		assert.Empty(t, goldenConfig("").Rules)
	})

	t.Run("testdataDir", func(t *testing.T) {
		dir := testdataDir(t)
		assert.Contains(t, dir, "testdata")
		assert.True(t, filepath.IsAbs(dir))
	})

	t.Run("discoverTestCases", func(t *testing.T) {
		cases := discoverTestCases(t, testdataDir(t))
		assert.NotNil(t, cases)
		for _, tc := range cases {
			assert.FileExists(t, tc.InputPath)
		}
	})
}
