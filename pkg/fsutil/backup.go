package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupMode selects where backups go.
type BackupMode string

const (
	// BackupModeSidecar writes path + BackupSuffix next to the file.
	BackupModeSidecar BackupMode = "sidecar"
	BackupModeNone    BackupMode = "none"
)

const BackupSuffix = ".gostyle.bak"

// BackupConfig is the backup policy for fix writes.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig has backups off; --backup turns them on.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Mode: BackupModeSidecar}
}

// active reports whether cfg asks for a backup at all.
func (cfg BackupConfig) active() bool {
	return cfg.Enabled && cfg.Mode != BackupModeNone
}

// BackupPath is the backup location for path, or "" when mode is none.
// Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	if mode == BackupModeNone {
		return ""
	}
	return path + BackupSuffix
}

// CreateBackup saves content as the backup of path. An existing backup is
// kept, so the backup always holds the content from before the first fix.
// It reports whether a new backup was written.
func CreateBackup(ctx context.Context, path string, content []byte, mode os.FileMode, cfg BackupConfig) (bool, error) {
	if !cfg.active() {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}
	if mode == 0 {
		mode = DefaultFileMode
	}

	target := BackupPath(path, cfg.Mode)
	f, err := os.OpenFile(target, os.O_WRONLY|os.O_CREATE|os.O_EXCL, mode.Perm())
	if errors.Is(err, fs.ErrExist) {
		return false, nil
	}
	if err != nil {
		return false, classify(target, err)
	}

	if _, err := f.Write(content); err != nil {
		_ = f.Close()
		_ = os.Remove(target)
		return false, fmt.Errorf("write %s: %w", target, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(target)
		return false, fmt.Errorf("close %s: %w", target, err)
	}
	return true, nil
}

// BackupExists reports whether a backup of path is on disk.
func BackupExists(path string, mode BackupMode) bool {
	target := BackupPath(path, mode)
	if target == "" {
		return false
	}
	_, err := os.Stat(target)
	return err == nil
}
