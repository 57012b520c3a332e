package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/fsutil"
)

func writeTemp(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestReadFile(t *testing.T) {
	t.Parallel()

	path := writeTemp(t, "index.html", "<p>hi</p>\n")

	content, info, err := fsutil.ReadFile(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "<p>hi</p>\n", string(content))
	assert.Equal(t, path, info.Path)
	assert.Equal(t, int64(len(content)), info.Size)
	assert.Equal(t, os.FileMode(0o600), info.Mode.Perm())
	assert.NotZero(t, info.Hash)
}

func TestReadFile_Errors(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()

	_, _, err := fsutil.ReadFile(context.Background(), filepath.Join(dir, "missing.scss"))
	require.ErrorIs(t, err, fsutil.ErrNotFound)
	assert.ErrorIs(t, err, os.ErrNotExist)

	_, _, err = fsutil.ReadFile(context.Background(), dir)
	assert.ErrorIs(t, err, fsutil.ErrIsDirectory)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err = fsutil.ReadFile(ctx, writeTemp(t, "a.scss", ""))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestFileInfoChanged(t *testing.T) {
	t.Parallel()

	ctx := context.Background()

	t.Run("untouched", func(t *testing.T) {
		t.Parallel()
		_, info, err := fsutil.ReadFile(ctx, writeTemp(t, "a.scss", ".a {}\n"))
		require.NoError(t, err)

		for _, strict := range []bool{false, true} {
			changed, err := info.Changed(ctx, strict)
			require.NoError(t, err)
			assert.False(t, changed)
		}
	})

	t.Run("size differs", func(t *testing.T) {
		t.Parallel()
		path := writeTemp(t, "a.scss", ".a {}\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte(".a { color: red; }\n"), 0o600))

		changed, err := info.Changed(ctx, false)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("same stat different bytes", func(t *testing.T) {
		t.Parallel()
		path := writeTemp(t, "a.scss", ".a {}\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.WriteFile(path, []byte(".b {}\n"), 0o600))
		require.NoError(t, os.Chtimes(path, time.Time{}, info.ModTime))

		quick, err := info.Changed(ctx, false)
		require.NoError(t, err)
		assert.False(t, quick)

		strict, err := info.Changed(ctx, true)
		require.NoError(t, err)
		assert.True(t, strict)
	})

	t.Run("deleted", func(t *testing.T) {
		t.Parallel()
		path := writeTemp(t, "a.scss", ".a {}\n")
		_, info, err := fsutil.ReadFile(ctx, path)
		require.NoError(t, err)
		require.NoError(t, os.Remove(path))

		changed, err := info.Changed(ctx, true)
		require.NoError(t, err)
		assert.True(t, changed)
	})

	t.Run("nil info", func(t *testing.T) {
		t.Parallel()
		var info *fsutil.FileInfo
		_, err := info.Changed(ctx, true)
		assert.ErrorIs(t, err, fsutil.ErrNilFileInfo)
	})
}
