package config_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/config"
)

func TestGenerateTemplate_MinimalYAMLParses(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{})
	require.NoError(t, err)

	cfg, err := config.FromYAML(data)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultStyle(), cfg.Style)
}

func TestGenerateTemplate_JSON(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateJSON})
	require.NoError(t, err)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(data, &decoded))
	style, ok := decoded["style"].(map[string]any)
	require.True(t, ok)
	assert.InDelta(t, 4, style["indent_width"], 0)
}

func TestGenerateTemplate_TOMLParses(t *testing.T) {
	data, err := config.GenerateTemplate(config.TemplateOptions{Format: config.TemplateTOML})
	require.NoError(t, err)

	cfg, _, err := config.FromTOML(data)
	require.NoError(t, err)
	assert.Equal(t, config.QuoteDouble, cfg.Style.QuoteStyle)
}

func TestGenerateTemplate_UnknownFormat(t *testing.T) {
	_, err := config.GenerateTemplate(config.TemplateOptions{Format: "ini"})
	require.ErrorIs(t, err, config.ErrInvalidConfig)
}
