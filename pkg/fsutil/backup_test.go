package fsutil_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gostyle/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "a.html.gostyle.bak", fsutil.BackupPath("a.html", fsutil.BackupModeSidecar))
	assert.Equal(t, "a.html.gostyle.bak", fsutil.BackupPath("a.html", "bogus"))
	assert.Empty(t, fsutil.BackupPath("a.html", fsutil.BackupModeNone))
}

func TestCreateBackup(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	on := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	t.Run("disabled", func(t *testing.T) {
		t.Parallel()
		path := writeTemp(t, "a.html", "<p>")

		for _, cfg := range []fsutil.BackupConfig{
			fsutil.DefaultBackupConfig(),
			{Enabled: true, Mode: fsutil.BackupModeNone},
		} {
			created, err := fsutil.CreateBackup(ctx, path, []byte("<p>"), 0, cfg)
			require.NoError(t, err)
			assert.False(t, created)
		}
		assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
	})

	t.Run("first backup wins", func(t *testing.T) {
		t.Parallel()
		path := writeTemp(t, "a.html", "<P>")

		created, err := fsutil.CreateBackup(ctx, path, []byte("<P>"), 0o600, on)
		require.NoError(t, err)
		assert.True(t, created)

		created, err = fsutil.CreateBackup(ctx, path, []byte("<p>"), 0o600, on)
		require.NoError(t, err)
		assert.False(t, created)

		got, err := os.ReadFile(path + fsutil.BackupSuffix)
		require.NoError(t, err)
		assert.Equal(t, "<P>", string(got))
		assert.True(t, fsutil.BackupExists(path, fsutil.BackupModeSidecar))
		assert.False(t, fsutil.BackupExists(path, fsutil.BackupModeNone))
	})

	t.Run("cancelled", func(t *testing.T) {
		t.Parallel()
		c, cancel := context.WithCancel(ctx)
		cancel()
		_, err := fsutil.CreateBackup(c, writeTemp(t, "a.html", ""), nil, 0, on)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
