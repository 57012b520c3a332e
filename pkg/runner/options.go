// Package runner discovers HTML and SCSS files and lints them concurrently.
package runner

import (
	"github.com/yaklabco/gostyle/pkg/cache"
	"github.com/yaklabco/gostyle/pkg/config"
)

// Options describes one run over a set of paths.
type Options struct {
	// Paths may name files or directories. Empty means ".".
	Paths []string

	// WorkingDir anchors relative paths and globs. Empty means the
	// process working directory.
	WorkingDir string

	// Extensions selects which files a directory walk picks up, lowercase
	// with the leading dot. Explicitly named files bypass it.
	Extensions []string

	IncludeGlobs []string
	ExcludeGlobs []string

	FollowSymlinks bool

	// IncludeVendored turns off the node_modules, vendor and *.min.*
	// skip list.
	IncludeVendored bool

	// Jobs bounds concurrent files; <= 0 uses one per CPU.
	Jobs int

	Config *config.Config

	// Cache is consulted only when Config does not request fixes.
	Cache *cache.Cache

	// Version is the build version, mixed into cache keys.
	Version string
}

// DefaultExtensions returns the extensions picked up by a directory walk.
// Plain CSS is accepted because it parses as SCSS.
func DefaultExtensions() []string {
	return []string{".html", ".htm", ".scss", ".css"}
}

func (o Options) effectiveExtensions() []string {
	if len(o.Extensions) > 0 {
		return o.Extensions
	}
	return DefaultExtensions()
}

func (o Options) effectivePaths() []string {
	if len(o.Paths) > 0 {
		return o.Paths
	}
	return []string{"."}
}
