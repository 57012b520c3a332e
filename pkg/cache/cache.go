// Package cache stores lint diagnostics on disk keyed by file content and
// the effective configuration, so unchanged files can skip parsing and rule
// evaluation on the next lint-only run.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"fortio.org/safecast"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/yaklabco/gostyle/pkg/config"
	"github.com/yaklabco/gostyle/pkg/fix"
	"github.com/yaklabco/gostyle/pkg/fsutil"
	"github.com/yaklabco/gostyle/pkg/lint"
)

// schemaVersion is bumped whenever the payload layout changes.
const schemaVersion uint16 = 1

// AppName names the cache subdirectory under the user cache root.
const AppName = "gostyle"

// ErrSchemaMismatch is returned by Get for entries written by another
// payload version. Callers treat it as a miss.
var ErrSchemaMismatch = errors.New("cache schema mismatch")

// Cache is a directory of msgpack payloads. Safe for concurrent use.
// A nil *Cache is valid and never hits.
type Cache struct {
	mu  sync.RWMutex
	dir string
}

// payload is the on-disk form of one file's diagnostics.
type payload struct {
	Schema      uint16
	Diagnostics []record
}

// record is a compact Diagnostic. Positions fit in uint32.
type record struct {
	RuleID      string
	RuleName    string
	Message     string
	Severity    string
	Suggestion  string
	StartLine   uint32
	StartColumn uint32
	EndLine     uint32
	EndColumn   uint32
	Unfixable   bool
	Edits       []editRecord
}

type editRecord struct {
	Start   uint32
	End     uint32
	NewText string
}

// DefaultDir returns $XDG_CACHE_HOME/gostyle, falling back to
// ~/.cache/gostyle.
func DefaultDir() (string, error) {
	base := os.Getenv("XDG_CACHE_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		base = filepath.Join(home, ".cache")
	}
	return filepath.Join(base, AppName), nil
}

// Open returns a cache rooted at dir, creating it if needed. An empty dir
// selects DefaultDir.
func Open(dir string) (*Cache, error) {
	if dir == "" {
		var err error
		if dir, err = DefaultDir(); err != nil {
			return nil, err
		}
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create cache directory: %w", err)
	}
	return &Cache{dir: dir}, nil
}

// Dir returns the cache root.
func (c *Cache) Dir() string {
	if c == nil {
		return ""
	}
	return c.dir
}

// Fingerprint digests the parts of cfg that change lint output, the build
// version and the rule catalogue of registry, so an upgrade that changes
// rule behaviour never serves old results. Map keys are sorted so equal
// configurations always produce the same value.
func Fingerprint(cfg *config.Config, version string, registry *lint.Registry) (string, error) {
	if cfg == nil {
		cfg = config.NewConfig()
	}

	view := struct {
		Schema          uint16
		Version         string
		Catalogue       []ruleStamp
		Style           config.StyleConfig
		SeverityDefault string
		Rules           map[string]config.RuleConfig
		EnableRules     []string
		DisableRules    []string
	}{
		Schema:          schemaVersion,
		Version:         version,
		Catalogue:       catalogue(registry),
		Style:           cfg.Style,
		SeverityDefault: cfg.SeverityDefault,
		Rules:           cfg.Rules,
		EnableRules:     cfg.EnableRules,
		DisableRules:    cfg.DisableRules,
	}

	hash := sha256.New()
	enc := msgpack.NewEncoder(hash)
	enc.SetSortMapKeys(true)
	if err := enc.Encode(&view); err != nil {
		return "", fmt.Errorf("fingerprint config: %w", err)
	}
	return hex.EncodeToString(hash.Sum(nil)), nil
}

// ruleStamp is the part of a registered rule that shapes its diagnostics.
type ruleStamp struct {
	ID          string
	Name        string
	Description string
	Severity    string
	Enabled     bool
	Fixable     bool
}

func catalogue(registry *lint.Registry) []ruleStamp {
	if registry == nil {
		return nil
	}
	rules := registry.Rules()
	stamps := make([]ruleStamp, 0, len(rules))
	for _, rule := range rules {
		stamps = append(stamps, ruleStamp{
			ID:          rule.ID(),
			Name:        rule.Name(),
			Description: rule.Description(),
			Severity:    string(rule.DefaultSeverity()),
			Enabled:     rule.DefaultEnabled(),
			Fixable:     rule.CanFix(),
		})
	}
	return stamps
}

// Key combines the file path, its content and a config fingerprint.
// The path is included because diagnostics carry dialect decisions made
// from the extension.
func Key(path string, content []byte, fingerprint string) string {
	hash := sha256.New()
	hash.Write([]byte(filepath.Ext(path)))
	hash.Write([]byte{0})
	hash.Write([]byte(fingerprint))
	hash.Write([]byte{0})
	hash.Write(content)
	return hex.EncodeToString(hash.Sum(nil))
}

func (c *Cache) pathFor(key string) string {
	if len(key) < 2 {
		return filepath.Join(c.dir, "diags", key+".mp")
	}
	return filepath.Join(c.dir, "diags", key[:2], key+".mp")
}

// Get returns the cached diagnostics for key. The bool is false on a miss.
// FilePath is not stored; callers set it.
func (c *Cache) Get(key string) ([]lint.Diagnostic, bool, error) {
	if c == nil {
		return nil, false, nil
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	data, err := os.ReadFile(c.pathFor(key))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read cache entry: %w", err)
	}

	var p payload
	if err := msgpack.Unmarshal(data, &p); err != nil {
		return nil, false, fmt.Errorf("decode cache entry: %w", err)
	}
	if p.Schema != schemaVersion {
		return nil, false, fmt.Errorf("%w: got %d, want %d", ErrSchemaMismatch, p.Schema, schemaVersion)
	}

	diags := make([]lint.Diagnostic, len(p.Diagnostics))
	for i, rec := range p.Diagnostics {
		diags[i] = rec.diagnostic()
	}
	return diags, true, nil
}

// Put stores diags under key, replacing any previous entry atomically.
func (c *Cache) Put(key string, diags []lint.Diagnostic) error {
	if c == nil {
		return nil
	}

	p := payload{Schema: schemaVersion, Diagnostics: make([]record, len(diags))}
	for i := range diags {
		rec, err := newRecord(&diags[i])
		if err != nil {
			return err
		}
		p.Diagnostics[i] = rec
	}

	data, err := msgpack.Marshal(&p)
	if err != nil {
		return fmt.Errorf("encode cache entry: %w", err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	target := c.pathFor(key)
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}

	if err := fsutil.WriteFileAtomic(target, data, 0o644); err != nil {
		return fmt.Errorf("write cache entry: %w", err)
	}
	return nil
}

// Clear removes every cached entry.
func (c *Cache) Clear() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := os.RemoveAll(filepath.Join(c.dir, "diags")); err != nil {
		return fmt.Errorf("clear cache: %w", err)
	}
	return nil
}

func newRecord(diag *lint.Diagnostic) (record, error) {
	rec := record{
		RuleID:     diag.RuleID,
		RuleName:   diag.RuleName,
		Message:    diag.Message,
		Severity:   string(diag.Severity),
		Suggestion: diag.Suggestion,
		Unfixable:  diag.Unfixable,
	}

	var err error
	if rec.StartLine, err = safecast.Conv[uint32](diag.StartLine); err != nil {
		return record{}, fmt.Errorf("start line: %w", err)
	}
	if rec.StartColumn, err = safecast.Conv[uint32](diag.StartColumn); err != nil {
		return record{}, fmt.Errorf("start column: %w", err)
	}
	if rec.EndLine, err = safecast.Conv[uint32](diag.EndLine); err != nil {
		return record{}, fmt.Errorf("end line: %w", err)
	}
	if rec.EndColumn, err = safecast.Conv[uint32](diag.EndColumn); err != nil {
		return record{}, fmt.Errorf("end column: %w", err)
	}

	for _, edit := range diag.FixEdits {
		start, err := safecast.Conv[uint32](edit.StartOffset)
		if err != nil {
			return record{}, fmt.Errorf("edit start: %w", err)
		}
		end, err := safecast.Conv[uint32](edit.EndOffset)
		if err != nil {
			return record{}, fmt.Errorf("edit end: %w", err)
		}
		rec.Edits = append(rec.Edits, editRecord{Start: start, End: end, NewText: edit.NewText})
	}
	return rec, nil
}

func (r record) diagnostic() lint.Diagnostic {
	diag := lint.Diagnostic{
		RuleID:      r.RuleID,
		RuleName:    r.RuleName,
		Message:     r.Message,
		Severity:    config.Severity(r.Severity),
		Suggestion:  r.Suggestion,
		StartLine:   int(r.StartLine),
		StartColumn: int(r.StartColumn),
		EndLine:     int(r.EndLine),
		EndColumn:   int(r.EndColumn),
		Unfixable:   r.Unfixable,
	}
	if len(r.Edits) > 0 {
		diag.FixEdits = make([]fix.TextEdit, len(r.Edits))
		for i, e := range r.Edits {
			diag.FixEdits[i] = fix.TextEdit{StartOffset: int(e.Start), EndOffset: int(e.End), NewText: e.NewText}
		}
	}
	return diag
}
