package history

import (
	"context"
	"fmt"
	"time"

	"github.com/gofrs/flock"
)

// lockRetry is how often a blocked writer retries the lock.
const lockRetry = 50 * time.Millisecond

// writeLock serializes writers from concurrent jmhgate processes sharing one
// history database, such as parallel CI jobs on a shared volume.
// The lock file lives next to the database as <db>.lock.
type writeLock struct {
	flock *flock.Flock
}

func newWriteLock(dbPath string) *writeLock {
	return &writeLock{flock: flock.New(dbPath + ".lock")}
}

// lock blocks until the lock is held or ctx is done.
func (l *writeLock) lock(ctx context.Context) error {
	locked, err := l.flock.TryLockContext(ctx, lockRetry)
	if err != nil {
		return fmt.Errorf("acquire history lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("acquire history lock: %s is held by another process", l.flock.Path())
	}
	return nil
}

func (l *writeLock) unlock() error {
	if err := l.flock.Unlock(); err != nil {
		return fmt.Errorf("release history lock: %w", err)
	}
	return nil
}
