package fileutil

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// TempSibling returns a hidden, uniquely named temp path in the same
// directory as path. Staying on the same filesystem keeps the final
// os.Rename atomic.
func TempSibling(path string) string {
	dir, base := filepath.Split(path)
	return filepath.Join(dir, fmt.Sprintf(".%s.%s.tmp", base, uuid.NewString()))
}

// CreateTempSibling creates the temp file next to path with permissions
// matching the destination (0o644 when the destination does not exist yet).
func CreateTempSibling(path string) (*os.File, error) {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode().Perm()
	}
	f, err := os.OpenFile(TempSibling(path), os.O_CREATE|os.O_EXCL|os.O_WRONLY, mode)
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	return f, nil
}

// Commit atomically replaces dst with the fully written temp file. The temp
// file must already be synced and closed. After Commit returns nil the
// destination holds the new content; on error the destination is untouched
// and the temp file has been removed.
func Commit(temp, dst string) error {
	if err := os.Rename(temp, dst); err != nil {
		Discard(temp)
		return fmt.Errorf("replace %s: %w", dst, err)
	}
	return nil
}

// Discard removes a temp file, tolerating one that was never created or
// already renamed away.
func Discard(temp string) {
	if err := os.Remove(temp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		// Stray hidden temp files are annoying, not fatal.
		_ = err
	}
}
