package fsutil_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yaklabco/gotat/pkg/fsutil"
)

func TestBackupPath(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "dir/a.py.gotat.bak", fsutil.BackupPath("dir/a.py", fsutil.BackupModeSidecar))
	assert.Equal(t, "dir/a.py.gotat.bak", fsutil.BackupPath("dir/a.py", "unknown"))
	assert.Empty(t, fsutil.BackupPath("dir/a.py", fsutil.BackupModeNone))
}

func TestBackupPath_XDG(t *testing.T) {
	state := t.TempDir()
	t.Setenv("XDG_STATE_HOME", state)

	a := fsutil.BackupPath("/src/one/a.py", fsutil.BackupModeXDG)
	b := fsutil.BackupPath("/src/two/a.py", fsutil.BackupModeXDG)

	assert.True(t, strings.HasPrefix(a, filepath.Join(state, "gotat", "backups")))
	assert.Equal(t, "a.py"+fsutil.BackupSuffix, filepath.Base(a))
	assert.NotEqual(t, a, b, "same name in different directories must not collide")
}

func TestBackupLifecycle(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "a.py", "original\n")
	cfg := fsutil.BackupConfig{Enabled: true, Mode: fsutil.BackupModeSidecar}

	created, err := fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.True(t, created)
	assert.FileExists(t, path+fsutil.BackupSuffix)

	// A second backup keeps the first original.
	require.NoError(t, os.WriteFile(path, []byte("rewritten\n"), 0o600))
	created, err = fsutil.CreateBackup(ctx, path, cfg)
	require.NoError(t, err)
	assert.False(t, created)
	got, err := os.ReadFile(path + fsutil.BackupSuffix)
	require.NoError(t, err)
	assert.Equal(t, "original\n", string(got))

	removed, err := fsutil.RemoveBackup(path, cfg.Mode)
	require.NoError(t, err)
	assert.True(t, removed)
	assert.NoFileExists(t, path+fsutil.BackupSuffix)

	removed, err = fsutil.RemoveBackup(path, cfg.Mode)
	require.NoError(t, err)
	assert.False(t, removed)
}

func TestCreateBackup_Disabled(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	path := writeFile(t, t.TempDir(), "a.py", "x\n")

	for _, cfg := range []fsutil.BackupConfig{
		fsutil.DefaultBackupConfig(),
		{Enabled: true, Mode: fsutil.BackupModeNone},
	} {
		created, err := fsutil.CreateBackup(ctx, path, cfg)
		require.NoError(t, err)
		assert.False(t, created)
	}
	assert.NoFileExists(t, path+fsutil.BackupSuffix)
}

func TestCreateBackup_MissingOriginal(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "gone.py")
	created, err := fsutil.CreateBackup(context.Background(), path, fsutil.BackupConfig{Enabled: true})
	require.NoError(t, err)
	assert.False(t, created)
}
