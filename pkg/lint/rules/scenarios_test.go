package rules

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/lint"
)

func TestPipelineScenarios(t *testing.T) {
	tests := []struct {
		name      string
		path      string
		input     string
		wantIDs   []string
		wantFixed string
		remaining []string
	}{
		{
			name:      "uppercase void image",
			path:      "page.html",
			input:     "<div class=\"x\" id=\"y\"><IMG SRC=\"a.png\"></div>\n",
			wantIDs:   []string{"HT003", "HT001", "HT002"},
			wantFixed: "<div class=\"x\" id=\"y\"><img src=\"a.png\"/></div>\n",
			remaining: []string{"HT002"},
		},
		{
			name:      "extend after property",
			path:      "style.scss",
			input:     ".a { color: red; @extend .b; }\n",
			wantIDs:   []string{"SC002"},
			wantFixed: ".a { @extend .b; color: red; }\n",
			remaining: []string{},
		},
		{
			name:      "tab indentation",
			path:      "style.scss",
			input:     ".a {\n\tcolor: red;\n}\n",
			wantIDs:   []string{"ST002"},
			wantFixed: ".a {\n    color: red;\n}\n",
			remaining: []string{},
		},
		{
			name:      "overlapping html fixes",
			path:      "page.html",
			input:     "<DIV ID=\"a\" CLASS=\"b\"></DIV>\n",
			wantIDs:   []string{"HT001", "HT005"},
			wantFixed: "<div class=\"b\" id=\"a\"></div>\n",
			remaining: []string{},
		},
		{
			name:      "trailing whitespace and blank lines",
			path:      "style.scss",
			input:     ".a {}  \n\n\n",
			wantIDs:   []string{"ST005", "ST006"},
			wantFixed: ".a {}\n",
			remaining: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pipeline := newTestPipeline()

			lintResult, err := pipeline.ProcessContent(ctx, tt.path, []byte(tt.input), config.NewConfig(), lint.PipelineOptions{})
			require.NoError(t, err)
			assert.Equal(t, tt.wantIDs, ruleIDs(lintResult.Diagnostics))
			assert.False(t, lintResult.Modified)

			cfg := fixConfig()
			fixResult, err := pipeline.ProcessContent(ctx, tt.path, []byte(tt.input), cfg, lint.PipelineOptionsFromConfig(cfg))
			require.NoError(t, err)
			require.True(t, fixResult.Modified)
			assert.Equal(t, tt.wantFixed, string(fixResult.ModifiedContent))
			assert.Equal(t, tt.remaining, ruleIDs(fixResult.Diagnostics))
			assert.Empty(t, fixResult.Reverted)
		})
	}
}

func TestPipelineScenario_Positions(t *testing.T) {
	result, err := newTestPipeline().ProcessContent(context.Background(), "page.html",
		[]byte("<div class=\"x\" id=\"y\"><IMG SRC=\"a.png\"></div>\n"), config.NewConfig(), lint.PipelineOptions{})
	require.NoError(t, err)
	require.Len(t, result.Diagnostics, 3)

	for _, d := range result.Diagnostics {
		assert.Equal(t, 1, d.StartLine, d.RuleID)
		assert.Equal(t, 23, d.StartColumn, d.RuleID)
	}
	assert.Equal(t, config.SeverityError, result.Diagnostics[0].Severity)
	assert.False(t, result.Diagnostics[2].HasFix())
}

func TestPipelineScenario_CleanFile(t *testing.T) {
	cfg := fixConfig()
	result, err := newTestPipeline().ProcessContent(context.Background(), "style.scss",
		[]byte(".card {\n    $gap: 4px;\n    margin: $gap;\n\n    &__title {\n        color: red;\n    }\n}\n"),
		cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)
	assert.False(t, result.Modified)
	assert.Empty(t, result.Diagnostics)
	assert.Equal(t, 0, result.FixPasses)
}

func TestPipelineFixIsIdempotent(t *testing.T) {
	tests := []struct {
		name  string
		path  string
		input string
	}{
		{"unquoted attribute without separator", "page.html", "<li clas=\"a b--c\"id=x>item</li>\n"},
		{"unterminated item with trailing comment", "style.scss", ".a {\n    color: red;\n    @extend .b // base\n}\n"},
		{"indented pre content", "page.html", "<div>\n    <pre>\ncode\n</pre>\n</div>\n"},
		{"indented textarea content", "page.html", "<div>\n    <textarea>\nvalue\n</textarea>\n</div>\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			pipeline := newTestPipeline()
			cfg := fixConfig()
			opts := lint.PipelineOptionsFromConfig(cfg)

			first, err := pipeline.ProcessContent(ctx, tt.path, []byte(tt.input), cfg, opts)
			require.NoError(t, err)
			assert.Empty(t, first.Reverted)

			fixed := []byte(tt.input)
			if first.Modified {
				fixed = first.ModifiedContent
			}

			second, err := pipeline.ProcessContent(ctx, tt.path, fixed, cfg, opts)
			require.NoError(t, err)
			assert.False(t, second.Modified, "second run changed %q", string(second.ModifiedContent))
		})
	}
}

func TestPipelineFix_SemicolonBeforeComment(t *testing.T) {
	cfg := fixConfig()
	result, err := newTestPipeline().ProcessContent(context.Background(), "style.scss",
		[]byte(".a {\n    color: red;\n    @extend .b // base\n}\n"), cfg, lint.PipelineOptionsFromConfig(cfg))
	require.NoError(t, err)
	require.True(t, result.Modified)
	assert.Equal(t, ".a {\n    @extend .b; // base\n    color: red;\n}\n", string(result.ModifiedContent))
}

func TestPipelineFix_PreservesPreformattedClose(t *testing.T) {
	cfg := fixConfig()
	for _, input := range []string{
		"<div>\n    <pre>\ncode\n</pre>\n</div>\n",
		"<div>\n    <textarea>\nvalue\n</textarea>\n</div>\n",
	} {
		result, err := newTestPipeline().ProcessContent(context.Background(), "page.html",
			[]byte(input), cfg, lint.PipelineOptionsFromConfig(cfg))
		require.NoError(t, err)
		assert.False(t, result.Modified, input)
	}
}
