package fsutil

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// FileLock is a held advisory lock backed by a lock file. Locks are
// process-scoped: they serialize concurrent wgb invocations, not goroutines.
type FileLock struct {
	f    *os.File
	path string
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// acquirePollInterval is how often Acquire retries on platforms without
// a native blocking lock primitive.
const acquirePollInterval = 10 * time.Millisecond

// Acquire takes an exclusive advisory lock on path, blocking until it is
// available. The parent directory is created if missing.
func Acquire(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, fmt.Errorf("fsutil: lock %s: %w", path, err)
	}
	return lockExclusive(path)
}

// TryAcquire attempts to take an exclusive advisory lock on path without
// blocking. It returns ok=false when the lock is held elsewhere.
func TryAcquire(path string) (*FileLock, bool, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, false, fmt.Errorf("fsutil: lock %s: %w", path, err)
	}
	return tryLockExclusive(path)
}
