package lockfile

import (
	"fmt"

	lockErrors "github.com/bashhack/flocker/pkg/errors"
)

// WithLock runs fn while holding the lock and guarantees a release attempt
// on every exit path, including panics. A release failure is never
// swallowed: it becomes the returned error when fn succeeded, and is
// attached to fn's error otherwise.
func (l *LockFile) WithLock(fn func() error) (err error) {
	if lockErr := l.Lock(); lockErr != nil {
		return lockErr
	}
	defer func() {
		releaseErr := l.Unlock()
		if releaseErr == nil {
			return
		}
		if err != nil {
			err = lockErrors.Wrap(err,
				fmt.Sprintf("lock release also failed: %v", releaseErr))
			return
		}
		err = releaseErr
	}()
	return fn()
}

// With opens the lock file at path, runs fn under the lock and closes the
// handle again. It is a convenience wrapper for one-shot critical sections.
func With(path string, fn func() error) error {
	l, err := Open(path)
	if err != nil {
		return err
	}
	runErr := l.WithLock(fn)
	if closeErr := l.Close(); closeErr != nil && runErr == nil {
		runErr = closeErr
	}
	return runErr
}
