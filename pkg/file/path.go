package file

import (
	"os"
	"path/filepath"
	"strings"
	"time"
)

// ReplaceExt swaps the extension of path for ext. A leading dot on ext
// is optional. Dotfiles such as ".env" are treated as having no
// extension.
func ReplaceExt(path, ext string) string {
	if path == "" {
		return path
	}
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}

	base := filepath.Base(path)
	if lastDot := strings.LastIndex(base, "."); lastDot > 0 {
		base = base[:lastDot]
	}
	return filepath.Join(filepath.Dir(path), base+ext)
}

// ModTime returns the modification time of path.
func ModTime(path string) (time.Time, error) {
	info, err := os.Stat(path)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// ChangedSince reports whether any of paths was modified after t. A path
// that cannot be stated counts as changed, so the caller reloads and
// sees the real error.
func ChangedSince(t time.Time, paths ...string) bool {
	for _, path := range paths {
		modTime, err := ModTime(path)
		if err != nil || modTime.After(t) {
			return true
		}
	}
	return false
}
