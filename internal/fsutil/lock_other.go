//go:build !unix

package fsutil

import (
	"fmt"
	"os"
	"time"
)

// Fallback for platforms without flock(2): lock-file creation with O_EXCL.
// Weaker than flock (a crashed holder leaves the file behind), but the
// supported targets are unix; this keeps other platforms compiling.

func lockExclusive(path string) (*FileLock, error) {
	for {
		l, ok, err := tryLockExclusive(path)
		if err != nil {
			return nil, err
		}
		if ok {
			return l, nil
		}
		time.Sleep(acquirePollInterval)
	}
}

func tryLockExclusive(path string) (*FileLock, bool, error) {
	f, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_EXCL, 0o600)
	if err != nil {
		if os.IsExist(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("fsutil: lock %s: %w", path, err)
	}
	return &FileLock{f: f, path: path}, true, nil
}

// Release drops the lock by removing the lock file.
func (l *FileLock) Release() error {
	if l == nil || l.f == nil {
		return nil
	}
	closeErr := l.f.Close()
	l.f = nil
	if err := os.Remove(l.path); err != nil {
		return fmt.Errorf("fsutil: unlock %s: %w", l.path, err)
	}
	return closeErr
}
