package store

import (
	"context"
	"time"

	"github.com/gofrs/flock"
)

const lockRetryDelay = 50 * time.Millisecond

// Lock takes the advisory lock beside the store file, waiting until ctx is
// done. The returned func releases it.
func (s *Store) Lock(ctx context.Context) (func(), error) {
	lockPath := s.path + ".lock"
	fl := flock.New(lockPath)

	ok, err := fl.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, &WriteError{Op: "locking", Path: lockPath, Err: err}
	}
	if !ok {
		return nil, &WriteError{Op: "locking", Path: lockPath, Err: ctx.Err()}
	}
	s.logger.Debug("acquired lock", "path", lockPath)

	return func() {
		if err := fl.Unlock(); err != nil {
			s.logger.Warn("releasing lock", "path", lockPath, "err", err)
		}
	}, nil
}
