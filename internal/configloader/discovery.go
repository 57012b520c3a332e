package configloader

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// ConfigPaths are the candidate configuration files of each layer. An empty
// field means no file was found for that layer.
type ConfigPaths struct {
	System   string
	User     string
	Project  string
	Explicit string
}

// The four accepted encodings, in lookup preference order.
//
//nolint:gochecknoglobals // read-only tables
var (
	configExts        = []string{".yml", ".yaml", ".toml", ".json"}
	projectBaseName   = ".gostyle"
	dirBaseName       = "config"
	repositoryMarkers = []string{".git", ".hg", ".svn"}
)

// candidates expands a base name into one file name per accepted encoding.
func candidates(base string) []string {
	names := make([]string, len(configExts))
	for i, ext := range configExts {
		names[i] = base + ext
	}
	return names
}

// firstRegularFile returns the first of names that is a regular file in dir.
func firstRegularFile(dir string, names []string) string {
	for _, name := range names {
		p := filepath.Join(dir, name)
		if fileExists(p) {
			return p
		}
	}
	return ""
}

// systemConfigDir is /etc/gostyle, or %ProgramData%\gostyle on Windows.
func systemConfigDir() string {
	if runtime.GOOS != "windows" {
		return "/etc/gostyle"
	}
	base := os.Getenv("ProgramData")
	if base == "" {
		base = `C:\ProgramData`
	}
	return filepath.Join(base, "gostyle")
}

// userConfigDir honours XDG_CONFIG_HOME on every platform and otherwise
// falls back to the platform default from os.UserConfigDir.
func userConfigDir() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		var err error
		if base, err = os.UserConfigDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(base, "gostyle")
}

// DiscoverPaths locates the system, user and project configuration files
// for workDir. Only cancellation and an unresolvable workDir are errors.
func DiscoverPaths(ctx context.Context, workDir string) (*ConfigPaths, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("discover config: %w", err)
	}

	paths := &ConfigPaths{
		System: firstRegularFile(systemConfigDir(), candidates(dirBaseName)),
	}
	if dir := userConfigDir(); dir != "" {
		paths.User = firstRegularFile(dir, candidates(dirBaseName))
	}

	project, err := FindProjectConfig(ctx, workDir)
	if err != nil {
		return nil, err
	}
	paths.Project = project
	return paths, nil
}

// FindProjectConfig walks from startDir towards the root looking for a
// .gostyle.{yml,yaml,toml,json}. The walk ends after the first directory
// that is a repository root or the home directory, so a config outside the
// project never leaks in. It returns "" when nothing is found.
func FindProjectConfig(ctx context.Context, startDir string) (string, error) {
	if startDir == "" {
		startDir = "."
	}
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", startDir, err)
	}
	home, _ := os.UserHomeDir()
	names := candidates(projectBaseName)

	for {
		if err := ctx.Err(); err != nil {
			return "", fmt.Errorf("find project config: %w", err)
		}
		if found := firstRegularFile(dir, names); found != "" {
			return found, nil
		}
		parent := filepath.Dir(dir)
		if parent == dir || dir == home || isRepositoryRoot(dir) {
			return "", nil
		}
		dir = parent
	}
}

func isRepositoryRoot(dir string) bool {
	for _, marker := range repositoryMarkers {
		if st, err := os.Stat(filepath.Join(dir, marker)); err == nil && st.IsDir() {
			return true
		}
	}
	return false
}

func fileExists(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}

// Config file encodings, selected by extension.
const (
	formatYAML = "yaml"
	formatTOML = "toml"
	formatJSON = "json"
)

// configFormat maps a path to its decoder. Unknown extensions are YAML.
func configFormat(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return formatTOML
	case ".json":
		return formatJSON
	default:
		return formatYAML
	}
}
