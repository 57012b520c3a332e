package runner

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/yaklabco/gostyle/pkg/langdetect"
)

// Discover finds HTML and SCSS files matching opts.
// It returns a sorted, deduplicated list of absolute file paths.
//
// Files named explicitly in opts.Paths are always considered, and a named
// path that cannot be stat'ed is kept so its failure shows up as a file
// outcome. Directory walks skip hidden entries and, unless
// opts.IncludeVendored is set, vendored paths such as node_modules.
func Discover(ctx context.Context, opts Options) ([]string, error) {
	workDir, err := resolveWorkDir(opts.WorkingDir)
	if err != nil {
		return nil, fmt.Errorf("resolve working directory: %w", err)
	}

	d := &discoverer{
		workDir:    workDir,
		extensions: opts.effectiveExtensions(),
		opts:       opts,
		seen:       make(map[string]struct{}),
	}

	for _, inputPath := range opts.effectivePaths() {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("discovery cancelled: %w", err)
		}

		absPath := inputPath
		if !filepath.IsAbs(inputPath) {
			absPath = filepath.Join(workDir, inputPath)
		}
		absPath = filepath.Clean(absPath)

		info, err := os.Stat(absPath)
		if err != nil {
			// Processing reports the read failure for this path alone.
			d.add(absPath)
			continue
		}

		if info.IsDir() {
			if err := d.walk(ctx, absPath); err != nil {
				return nil, err
			}
			continue
		}

		if d.matches(absPath) {
			d.add(absPath)
		}
	}

	slices.Sort(d.files)
	return d.files, nil
}

// discoverer accumulates matching files across inputs.
type discoverer struct {
	workDir    string
	extensions []string
	opts       Options
	seen       map[string]struct{}
	files      []string
}

func (d *discoverer) add(path string) {
	if _, ok := d.seen[path]; ok {
		return
	}
	d.seen[path] = struct{}{}
	d.files = append(d.files, path)
}

func (d *discoverer) rel(path string) string {
	relPath, err := filepath.Rel(d.workDir, path)
	if err != nil {
		return path
	}
	return relPath
}

// walk adds matching files under root.
func (d *discoverer) walk(ctx context.Context, root string) error {
	err := filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		if walkErr != nil {
			if os.IsPermission(walkErr) {
				return nil
			}
			return walkErr
		}

		relPath := d.rel(path)
		name := entry.Name()

		if entry.IsDir() {
			if path == root {
				return nil
			}
			if strings.HasPrefix(name, ".") || matchesAny(relPath, d.opts.ExcludeGlobs) || d.vendored(relPath+"/") {
				return filepath.SkipDir
			}
			return nil
		}

		if strings.HasPrefix(name, ".") || d.vendored(relPath) {
			return nil
		}

		if entry.Type()&fs.ModeSymlink != 0 {
			return d.followSymlink(ctx, path)
		}

		if d.matches(path) {
			d.add(path)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("walk directory %s: %w", root, err)
	}
	return nil
}

// followSymlink handles a symlink met during a walk. Broken links are
// ignored, file links are matched as files and directory links are walked
// only when FollowSymlinks is set.
func (d *discoverer) followSymlink(ctx context.Context, path string) error {
	target, err := filepath.EvalSymlinks(path)
	if err != nil {
		return nil //nolint:nilerr // broken symlinks are skipped
	}
	info, err := os.Stat(target)
	if err != nil {
		return nil //nolint:nilerr // unreadable targets are skipped
	}

	if !info.IsDir() {
		if d.matches(path) {
			d.add(path)
		}
		return nil
	}
	if !d.opts.FollowSymlinks {
		return nil
	}
	// Walk the target: WalkDir does not descend through a symlinked root.
	return d.walk(ctx, target)
}

// vendored reports go-enry's verdict. Directory paths carry a trailing
// slash, which its patterns expect.
func (d *discoverer) vendored(relPath string) bool {
	return !d.opts.IncludeVendored && langdetect.IsVendored(filepath.ToSlash(relPath))
}

// matches applies the extension, exclude and include filters.
func (d *discoverer) matches(path string) bool {
	if !hasMatchingExtension(path, d.extensions) {
		return false
	}

	relPath := d.rel(path)
	if matchesAny(relPath, d.opts.ExcludeGlobs) {
		return false
	}
	return len(d.opts.IncludeGlobs) == 0 || matchesAny(relPath, d.opts.IncludeGlobs)
}

// resolveWorkDir resolves the working directory, defaulting to os.Getwd().
func resolveWorkDir(workDir string) (string, error) {
	if workDir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working directory: %w", err)
		}
		return wd, nil
	}
	absPath, err := filepath.Abs(workDir)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path: %w", err)
	}
	return absPath, nil
}

func hasMatchingExtension(path string, extensions []string) bool {
	ext := filepath.Ext(path)
	return slices.ContainsFunc(extensions, func(e string) bool {
		return strings.EqualFold(e, ext)
	})
}

func matchesAny(relPath string, patterns []string) bool {
	return slices.ContainsFunc(patterns, func(pattern string) bool {
		return matchGlob(relPath, pattern)
	})
}

// matchGlob matches a slash-separated relative path against a pattern.
// Supported forms: "*.css", "dist/**", "**/vendor", "src/**/*.scss".
// A pattern without a slash also matches the base name.
func matchGlob(path, pattern string) bool {
	path = filepath.ToSlash(path)
	pattern = filepath.ToSlash(pattern)

	if strings.Contains(pattern, "**") {
		return matchDoubleStar(path, pattern)
	}

	if ok, err := filepath.Match(pattern, path); err == nil && ok {
		return true
	}
	ok, err := filepath.Match(pattern, filepath.Base(path))
	return err == nil && ok
}

// matchDoubleStar handles patterns containing "**".
func matchDoubleStar(path, pattern string) bool {
	prefix, suffix, _ := strings.Cut(pattern, "**")
	prefix = strings.TrimSuffix(prefix, "/")
	suffix = strings.TrimPrefix(suffix, "/")

	if prefix != "" && path != prefix && !strings.HasPrefix(path, prefix+"/") {
		return false
	}
	if suffix == "" {
		return true
	}

	rest := strings.TrimPrefix(strings.TrimPrefix(path, prefix), "/")
	segments := strings.Split(rest, "/")

	// Try the suffix against every tail of the remaining segments, and
	// against every single segment so "**/vendor" matches directories.
	for i := range segments {
		tail := strings.Join(segments[i:], "/")
		if ok, err := filepath.Match(suffix, tail); err == nil && ok {
			return true
		}
		if ok, err := filepath.Match(suffix, segments[i]); err == nil && ok {
			return true
		}
	}
	return false
}
