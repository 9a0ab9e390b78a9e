// Package filelock provides cross-process file locking and atomic writes,
// used for the one-run-per-root guarantee and for persisting rule files
// without readers ever seeing partial content.
package filelock

import (
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// FileLock wraps a flock-based advisory lock.
type FileLock struct {
	flock *flock.Flock
	path  string
}

// New creates a lock backed by the file at path. The file is created on
// first acquisition.
func New(path string) *FileLock {
	return &FileLock{flock: flock.New(path), path: path}
}

// ForRoot returns the lock guarding analysis runs of the given root. Lock
// files live under the user cache directory, keyed by a digest of the
// normalized root path, so the analyzed tree itself is never written to.
func ForRoot(root string) (*FileLock, error) {
	cache, err := os.UserCacheDir()
	if err != nil {
		cache = os.TempDir()
	}
	dir := filepath.Join(cache, "treescout", "locks")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create lock directory: %w", err)
	}
	sum := sha1.Sum([]byte(root))
	return New(filepath.Join(dir, hex.EncodeToString(sum[:])+".lock")), nil
}

// Path returns the lock file path.
func (fl *FileLock) Path() string { return fl.path }

// TryLock attempts to acquire the lock without blocking. It reports
// whether the lock was acquired.
func (fl *FileLock) TryLock() (bool, error) {
	ok, err := fl.flock.TryLock()
	if err != nil {
		return false, fmt.Errorf("try lock %s: %w", fl.path, err)
	}
	return ok, nil
}

// Lock blocks until the lock is acquired.
func (fl *FileLock) Lock() error {
	if err := fl.flock.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", fl.path, err)
	}
	return nil
}

// Unlock releases the lock.
func (fl *FileLock) Unlock() error {
	if err := fl.flock.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", fl.path, err)
	}
	return nil
}

// AtomicWrite writes data to path via a same-directory temp file and
// rename, so a crash mid-write leaves the previous content intact.
func AtomicWrite(path string, data []byte, perm os.FileMode) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create directory %s: %w", dir, err)
	}
	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("close temp file: %w", err)
	}
	if err := os.Chmod(tmpPath, perm); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("chmod temp file: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("rename into place: %w", err)
	}
	return nil
}
