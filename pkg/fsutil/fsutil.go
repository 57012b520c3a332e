// Package fsutil reads files with enough metadata to detect concurrent
// edits, writes them atomically and keeps sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"
)

var (
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrNilFileInfo      = errors.New("nil FileInfo")
)

// FileInfo records what a file looked like when it was read.
type FileInfo struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [sha256.Size]byte
}

// classify maps os errors onto the package sentinels, keeping the cause.
func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("%s: %w", path, err)
	}
}

// ReadFile returns the content of path and a FileInfo for it, taken from
// the same open file handle.
func ReadFile(ctx context.Context, path string) ([]byte, *FileInfo, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	defer f.Close()

	st, err := f.Stat()
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if st.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return content, &FileInfo{
		Path:    path,
		Mode:    st.Mode(),
		ModTime: st.ModTime(),
		Size:    st.Size(),
		Hash:    sha256.Sum256(content),
	}, nil
}

// Changed reports whether the file differs from when info was taken. A
// deleted file counts as changed. The quick check compares size and mtime;
// with strict set an unchanged stat is confirmed by re-hashing the content.
func (info *FileInfo) Changed(ctx context.Context, strict bool) (bool, error) {
	if info == nil {
		return false, ErrNilFileInfo
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("check %s: %w", info.Path, err)
	}

	st, err := os.Stat(info.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, classify(info.Path, err)
	}
	if st.Size() != info.Size || !st.ModTime().Equal(info.ModTime) {
		return true, nil
	}
	if !strict {
		return false, nil
	}

	content, err := os.ReadFile(info.Path)
	if err != nil {
		return false, classify(info.Path, err)
	}
	return sha256.Sum256(content) != info.Hash, nil
}
