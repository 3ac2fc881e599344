package fsutil

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// BackupMode specifies where backups are stored.
type BackupMode string

const (
	// BackupModeSidecar stores the backup next to the file.
	BackupModeSidecar BackupMode = "sidecar"

	// BackupModeXDG stores backups under $XDG_STATE_HOME/gotat/backups, in
	// a directory per source directory.
	BackupModeXDG BackupMode = "xdg"

	// BackupModeNone disables backups.
	BackupModeNone BackupMode = "none"
)

// BackupSuffix is appended to the name of a backup file.
const BackupSuffix = ".gotat.bak"

// BackupConfig controls backup behavior.
type BackupConfig struct {
	Enabled bool
	Mode    BackupMode
}

// DefaultBackupConfig returns the defaults: disabled, sidecar.
func DefaultBackupConfig() BackupConfig {
	return BackupConfig{Enabled: false, Mode: BackupModeSidecar}
}

// BackupPath returns where the backup of path is stored, or "" when mode
// disables backups. Unknown modes fall back to sidecar.
func BackupPath(path string, mode BackupMode) string {
	switch mode {
	case BackupModeNone:
		return ""
	case BackupModeXDG:
		abs, err := filepath.Abs(path)
		if err != nil {
			abs = path
		}
		sum := sha256.Sum256([]byte(filepath.Dir(abs)))
		dir := hex.EncodeToString(sum[:8])
		return filepath.Join(stateHome(), "gotat", "backups", dir, filepath.Base(path)+BackupSuffix)
	default:
		return path + BackupSuffix
	}
}

func stateHome() string {
	if dir := os.Getenv("XDG_STATE_HOME"); dir != "" {
		return dir
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".local", "state")
	}
	return os.TempDir()
}

// CreateBackup copies path to its backup location unless a backup already
// exists, so repeated runs keep the first original. It reports whether a
// backup was written.
func CreateBackup(ctx context.Context, path string, cfg BackupConfig) (bool, error) {
	if !cfg.Enabled {
		return false, nil
	}
	backup := BackupPath(path, cfg.Mode)
	if backup == "" {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("create backup: %w", err)
	}

	if _, err := os.Stat(backup); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	content, info, err := ReadFile(ctx, path)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("read original for backup: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(backup), 0o755); err != nil {
		return false, fmt.Errorf("create backup directory: %w", err)
	}
	if err := WriteAtomic(ctx, backup, content, info.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RemoveBackup deletes the backup of path. It reports false when there was
// none.
func RemoveBackup(path string, mode BackupMode) (bool, error) {
	backup := BackupPath(path, mode)
	if backup == "" {
		return false, nil
	}
	if err := os.Remove(backup); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("remove backup: %w", err)
	}
	return true, nil
}
