// Package lock provides the single-instance guard for library processing.
package lock

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLockHeld is returned when another process holds the lock.
var ErrLockHeld = errors.New("process lock held by another instance")

// Run acquires the lock file at path, calls fn, then releases and removes
// the lock file. If the lock is held elsewhere fn is not called and
// ErrLockHeld is returned.
func Run(path string, fn func() error) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create lock dir: %w", err)
		}
	}

	l := flock.New(path)
	ok, err := l.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrLockHeld
	}
	defer func() {
		_ = l.Unlock()
		_ = os.Remove(path)
	}()

	return fn()
}
