package reporter

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"path/filepath"

	"github.com/yaklabco/gostyle/pkg/analysis"
	"github.com/yaklabco/gostyle/pkg/config"
)

const (
	sarifVersion   = "2.1.0"
	sarifSchemaURI = "https://json.schemastore.org/sarif-2.1.0.json"
	toolName       = "gostyle"
	toolURI        = "https://github.com/yaklabco/gostyle"
)

// SARIFOutput is the root SARIF document.
type SARIFOutput struct {
	Schema  string     `json:"$schema"`
	Version string     `json:"version"`
	Runs    []SARIFRun `json:"runs"`
}

// SARIFRun is a single analysis run.
type SARIFRun struct {
	Tool    SARIFTool     `json:"tool"`
	Results []SARIFResult `json:"results"`
}

// SARIFTool describes the analysis tool.
type SARIFTool struct {
	Driver SARIFDriver `json:"driver"`
}

// SARIFDriver carries tool metadata and the rule catalogue.
type SARIFDriver struct {
	Name           string      `json:"name"`
	Version        string      `json:"version,omitempty"`
	InformationURI string      `json:"informationUri"`
	Rules          []SARIFRule `json:"rules"`
}

// SARIFRule describes one rule.
type SARIFRule struct {
	ID               string               `json:"id"`
	Name             string               `json:"name,omitempty"`
	ShortDescription SARIFMultiformatText `json:"shortDescription"`
	DefaultConfig    *SARIFRuleConfig     `json:"defaultConfiguration,omitempty"`
	Properties       *SARIFRuleProperties `json:"properties,omitempty"`
}

// SARIFMultiformatText is a plain-text message.
type SARIFMultiformatText struct {
	Text string `json:"text"`
}

// SARIFRuleConfig is a rule's default configuration.
type SARIFRuleConfig struct {
	Level string `json:"level"`
}

// SARIFRuleProperties holds gostyle-specific rule metadata.
type SARIFRuleProperties struct {
	Tags    []string `json:"tags,omitempty"`
	Fixable bool     `json:"fixable"`
}

// SARIFResult is one diagnostic.
type SARIFResult struct {
	RuleID    string          `json:"ruleId"`
	RuleIndex int             `json:"ruleIndex"`
	Level     string          `json:"level"`
	Message   SARIFMessage    `json:"message"`
	Locations []SARIFLocation `json:"locations"`
	Fixes     []SARIFFix      `json:"fixes,omitempty"`
}

// SARIFMessage is the result message.
type SARIFMessage struct {
	Text string `json:"text"`
}

// SARIFLocation is a code location.
type SARIFLocation struct {
	PhysicalLocation SARIFPhysicalLocation `json:"physicalLocation"`
}

// SARIFPhysicalLocation names a file and a region of it.
type SARIFPhysicalLocation struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Region           SARIFRegion           `json:"region"`
}

// SARIFArtifactLocation is a file URI.
type SARIFArtifactLocation struct {
	URI string `json:"uri"`
}

// SARIFRegion is a line/column region.
type SARIFRegion struct {
	StartLine   int `json:"startLine"`
	StartColumn int `json:"startColumn,omitempty"`
	EndLine     int `json:"endLine,omitempty"`
	EndColumn   int `json:"endColumn,omitempty"`
}

// SARIFByteRegion is a byte-offset region, used for fix replacements.
type SARIFByteRegion struct {
	ByteOffset int `json:"byteOffset"`
	ByteLength int `json:"byteLength"`
}

// SARIFFix is a proposed fix.
type SARIFFix struct {
	Description     SARIFMessage          `json:"description"`
	ArtifactChanges []SARIFArtifactChange `json:"artifactChanges"`
}

// SARIFArtifactChange lists replacements in one file.
type SARIFArtifactChange struct {
	ArtifactLocation SARIFArtifactLocation `json:"artifactLocation"`
	Replacements     []SARIFReplacement    `json:"replacements"`
}

// SARIFReplacement replaces a byte region with new text.
type SARIFReplacement struct {
	DeletedRegion   SARIFByteRegion       `json:"deletedRegion"`
	InsertedContent *SARIFInsertedContent `json:"insertedContent,omitempty"`
}

// SARIFInsertedContent is replacement text.
type SARIFInsertedContent struct {
	Text string `json:"text"`
}

// SARIFRenderer writes a report as SARIF 2.1.0.
type SARIFRenderer struct {
	opts Options
}

var _ Renderer = (*SARIFRenderer)(nil)

// NewSARIFRenderer creates a SARIF renderer.
func NewSARIFRenderer(opts Options) *SARIFRenderer {
	return &SARIFRenderer{opts: opts}
}

// NewSARIFReporter creates a Reporter producing SARIF.
func NewSARIFReporter(opts Options) Reporter {
	return withAnalysis(NewSARIFRenderer(opts), opts)
}

// Render implements Renderer.
func (r *SARIFRenderer) Render(_ context.Context, report *analysis.Report) error {
	encoder := json.NewEncoder(r.opts.Writer)
	encoder.SetEscapeHTML(false)
	if !r.opts.Compact {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(r.build(report)); err != nil {
		return fmt.Errorf("encode SARIF: %w", err)
	}
	return nil
}

func (r *SARIFRenderer) build(report *analysis.Report) *SARIFOutput {
	run := SARIFRun{
		Tool: SARIFTool{Driver: SARIFDriver{
			Name:           toolName,
			Version:        r.opts.ToolVersion,
			InformationURI: toolURI,
			Rules:          []SARIFRule{},
		}},
		Results: []SARIFResult{},
	}

	index := make(map[string]int)
	addRule := func(rule SARIFRule) {
		index[rule.ID] = len(run.Tool.Driver.Rules)
		run.Tool.Driver.Rules = append(run.Tool.Driver.Rules, rule)
	}

	// The catalogue lists every registered rule when a registry is known,
	// so ruleIndex stays stable across runs.
	if r.opts.Registry != nil {
		for _, rule := range r.opts.Registry.Ordered() {
			addRule(SARIFRule{
				ID:               rule.ID(),
				Name:             rule.Name(),
				ShortDescription: SARIFMultiformatText{Text: rule.Description()},
				DefaultConfig:    &SARIFRuleConfig{Level: sarifLevel(string(rule.DefaultSeverity()))},
				Properties:       &SARIFRuleProperties{Tags: rule.Tags(), Fixable: rule.CanFix()},
			})
		}
	}

	for _, diag := range report.Diagnostics {
		if _, ok := index[diag.RuleID]; !ok {
			addRule(SARIFRule{
				ID:               diag.RuleID,
				Name:             diag.RuleName,
				ShortDescription: SARIFMultiformatText{Text: diag.RuleName},
			})
		}

		uri := artifactURI(diag.File)
		result := SARIFResult{
			RuleID:    diag.RuleID,
			RuleIndex: index[diag.RuleID],
			Level:     sarifLevel(diag.Severity),
			Message:   SARIFMessage{Text: diag.Message},
			Locations: []SARIFLocation{{PhysicalLocation: SARIFPhysicalLocation{
				ArtifactLocation: SARIFArtifactLocation{URI: uri},
				Region: SARIFRegion{
					StartLine:   diag.Line,
					StartColumn: diag.Column,
					EndLine:     diag.EndLine,
					EndColumn:   diag.EndColumn,
				},
			}}},
		}

		if len(diag.Fixes) > 0 {
			description := diag.Suggestion
			if description == "" {
				description = diag.Message
			}
			change := SARIFArtifactChange{ArtifactLocation: SARIFArtifactLocation{URI: uri}}
			for _, edit := range diag.Fixes {
				change.Replacements = append(change.Replacements, SARIFReplacement{
					DeletedRegion:   SARIFByteRegion{ByteOffset: edit.StartOffset, ByteLength: edit.EndOffset - edit.StartOffset},
					InsertedContent: &SARIFInsertedContent{Text: edit.NewText},
				})
			}
			result.Fixes = []SARIFFix{{
				Description:     SARIFMessage{Text: description},
				ArtifactChanges: []SARIFArtifactChange{change},
			}}
		}

		run.Results = append(run.Results, result)
	}

	return &SARIFOutput{Schema: sarifSchemaURI, Version: sarifVersion, Runs: []SARIFRun{run}}
}

// artifactURI turns a report path into a SARIF URI: relative paths stay
// relative, absolute ones become file URIs.
func artifactURI(path string) string {
	slashed := filepath.ToSlash(path)
	if !filepath.IsAbs(path) {
		return (&url.URL{Path: slashed}).String()
	}
	return (&url.URL{Scheme: "file", Path: slashed}).String()
}

func sarifLevel(severity string) string {
	switch config.Severity(severity) {
	case config.SeverityError:
		return "error"
	case config.SeverityInfo:
		return "note"
	default:
		return "warning"
	}
}
