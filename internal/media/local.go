package media

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/starford/mannaz/internal/apperr"
)

var safeNameRe = regexp.MustCompile(`[^a-zA-Z0-9._-]`)

// SanitizeName reduces a client-supplied filename to a plain name safe to
// join under the media root: the base name with every character outside
// [a-zA-Z0-9._-] replaced and leading/trailing dots stripped. Returns an
// error when nothing usable remains.
func SanitizeName(name string) (string, error) {
	cleaned := safeNameRe.ReplaceAllString(filepath.Base(name), "_")
	cleaned = strings.Trim(cleaned, ".")
	if cleaned == "" || cleaned == "_" {
		return "", fmt.Errorf("media: unusable filename: %q", name)
	}
	return cleaned, nil
}

// Local implements Store backed by a directory on the local file system.
// Images are keyed by sanitized filename; two uploads with the same
// sanitized name overwrite one another.
type Local struct {
	root string // absolute path to the media directory
}

// NewLocal creates a Local store rooted at the given directory. The
// directory must already exist.
func NewLocal(root string) (*Local, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("media: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("media: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("media: root is not a directory: %s", abs)
	}
	return &Local{root: abs}, nil
}

// safePath joins a sanitized name under the root and rejects any result
// that escapes it.
func (l *Local) safePath(name string) (string, error) {
	cleaned, err := SanitizeName(name)
	if err != nil {
		return "", err
	}
	abs := filepath.Join(l.root, cleaned)
	if !strings.HasPrefix(abs, l.root+string(os.PathSeparator)) {
		return "", fmt.Errorf("media: path escapes root: %s", name)
	}
	return abs, nil
}

// Store atomically writes data under the sanitized name: tmp file → fsync →
// rename. The returned ref is the sanitized filename; the key is empty.
func (l *Local) Store(data []byte, name string) (string, string, error) {
	abs, err := l.safePath(name)
	if err != nil {
		return "", "", errors.Join(apperr.ErrStorage, err)
	}

	tmp, err := os.CreateTemp(l.root, ".mannaz-tmp-*")
	if err != nil {
		return "", "", errors.Join(apperr.ErrStorage, fmt.Errorf("media: create temp: %w", err))
	}
	tmpName := tmp.Name()

	// Clean up on any failure path.
	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return "", "", errors.Join(apperr.ErrStorage, fmt.Errorf("media: write temp: %w", err))
	}
	if err := tmp.Sync(); err != nil {
		return "", "", errors.Join(apperr.ErrStorage, fmt.Errorf("media: fsync: %w", err))
	}
	if err := tmp.Close(); err != nil {
		return "", "", errors.Join(apperr.ErrStorage, fmt.Errorf("media: close temp: %w", err))
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return "", "", errors.Join(apperr.ErrStorage, fmt.Errorf("media: rename: %w", err))
	}
	success = true
	return filepath.Base(abs), "", nil
}

// Replace removes the old file best-effort, then stores the new one.
func (l *Local) Replace(oldRef, oldKey string, data []byte, name string) (string, string, error) {
	return replace(l, oldRef, oldKey, data, name)
}

// Delete removes the file named by ref. An empty ref is a no-op; a missing
// file is not an error.
func (l *Local) Delete(ref, _ string) error {
	if ref == "" {
		return nil
	}
	abs, err := l.safePath(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(abs); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("media: delete %s: %w", ref, err)
	}
	return nil
}

// Verify Local satisfies Store at compile time.
var _ Store = (*Local)(nil)
