package lockfile

import (
	"strconv"

	"github.com/bashhack/flocker/internal/sys"
	lockErrors "github.com/bashhack/flocker/pkg/errors"
)

// LockFile is a handle to a lockable file. The zero value is not usable;
// create instances with Open or OpenExcl.
type LockFile struct {
	path      string
	desc      sys.FileDesc
	locked    bool
	closed    bool
	multilock bool
	wrotePID  bool
}

// Open opens the file at path, creating it if it does not exist, and
// returns an unlocked handle bound to a single cached descriptor. The lock
// taken through this descriptor has the platform's native ownership
// semantics; see the package documentation for the divergence between Unix
// and Windows.
func Open(path string) (*LockFile, error) {
	desc, err := sys.Open(path)
	if err != nil {
		return nil, lockErrors.NewLockError(path, 0,
			lockErrors.Wrap(err, "failed to open lock file"))
	}
	return &LockFile{path: path, desc: desc}, nil
}

// OpenExcl opens the file at path in multilock mode: every lock attempt
// opens a fresh descriptor and locks it with a handle-scoped primitive, so
// two instances in the same process contend exactly as two processes
// would, on every platform. The backing file is created here so that Open
// and OpenExcl have the same filesystem effect.
//
// On Unix, multilock and non-multilock handles on the same path use
// independent native primitives and do not exclude each other.
func OpenExcl(path string) (*LockFile, error) {
	desc, err := sys.Open(path)
	if err != nil {
		return nil, lockErrors.NewLockError(path, 0,
			lockErrors.Wrap(err, "failed to open lock file"))
	}
	if err := sys.Close(desc); err != nil {
		return nil, lockErrors.NewLockError(path, 0,
			lockErrors.Wrap(err, "failed to close lock file"))
	}
	return &LockFile{path: path, desc: sys.InvalidDesc, multilock: true}, nil
}

// Lock acquires the exclusive lock, blocking until the OS grants it. If
// this handle already holds the lock, Lock is a no-op and returns nil.
func (l *LockFile) Lock() error {
	if l.closed {
		return lockErrors.NewLockError(l.path, 0, lockErrors.ErrClosed)
	}
	if l.locked {
		return nil
	}
	if l.multilock {
		desc, err := sys.Open(l.path)
		if err != nil {
			return lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to open lock file"))
		}
		if err := sys.LockHandle(desc); err != nil {
			_ = sys.Close(desc)
			return lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to acquire lock"))
		}
		l.desc = desc
	} else if err := sys.Lock(l.desc); err != nil {
		return lockErrors.NewLockError(l.path, 0,
			lockErrors.Wrap(err, "failed to acquire lock"))
	}
	l.locked = true
	return nil
}

// TryLock attempts to acquire the exclusive lock without blocking. It
// returns true when the lock was acquired, and false when it is held
// elsewhere; neither outcome is an error. If this handle already holds the
// lock, TryLock returns true immediately.
func (l *LockFile) TryLock() (bool, error) {
	if l.closed {
		return false, lockErrors.NewLockError(l.path, 0, lockErrors.ErrClosed)
	}
	if l.locked {
		return true, nil
	}
	if l.multilock {
		desc, err := sys.Open(l.path)
		if err != nil {
			return false, lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to open lock file"))
		}
		ok, err := sys.TryLockHandle(desc)
		if err != nil {
			_ = sys.Close(desc)
			return false, lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to acquire lock"))
		}
		if !ok {
			_ = sys.Close(desc)
			return false, nil
		}
		l.desc = desc
	} else {
		ok, err := sys.TryLock(l.desc)
		if err != nil {
			return false, lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to acquire lock"))
		}
		if !ok {
			return false, nil
		}
	}
	l.locked = true
	return true, nil
}

// Unlock releases the lock held by this handle. If the handle does not
// hold the lock, Unlock is a no-op and returns nil. On failure the handle
// remains in the locked state so the caller can retry.
func (l *LockFile) Unlock() error {
	if l.closed {
		return lockErrors.NewLockError(l.path, 0, lockErrors.ErrClosed)
	}
	if !l.locked {
		return nil
	}
	if l.wrotePID {
		// Erase the advisory PID while still holding the lock so readers
		// never observe our PID on an unlocked file.
		if err := sys.Truncate(l.desc); err != nil {
			return lockErrors.NewLockError(l.path, sys.Pid(),
				lockErrors.Wrap(err, "failed to erase PID from lock file"))
		}
		l.wrotePID = false
	}
	if l.multilock {
		if err := sys.UnlockHandle(l.desc); err != nil {
			return lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to release lock"))
		}
		closeErr := sys.Close(l.desc)
		l.desc = sys.InvalidDesc
		l.locked = false
		if closeErr != nil {
			return lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(closeErr, "failed to close lock file"))
		}
		return nil
	}
	if err := sys.Unlock(l.desc); err != nil {
		return lockErrors.NewLockError(l.path, 0,
			lockErrors.Wrap(err, "failed to release lock"))
	}
	l.locked = false
	return nil
}

// LockWithPID acquires the lock like Lock and then records this process's
// id in the file, replacing any previous contents. The id is erased again
// on Unlock. If recording fails and the lock was taken by this call, the
// lock is released before returning the error.
func (l *LockFile) LockWithPID() error {
	wasLocked := l.locked
	if err := l.Lock(); err != nil {
		return err
	}
	if err := l.writePID(); err != nil {
		if !wasLocked {
			_ = l.Unlock()
		}
		return err
	}
	return nil
}

// TryLockWithPID is the non-blocking variant of LockWithPID. A lock held
// elsewhere is reported as false, not as an error.
func (l *LockFile) TryLockWithPID() (bool, error) {
	wasLocked := l.locked
	ok, err := l.TryLock()
	if err != nil || !ok {
		return ok, err
	}
	if err := l.writePID(); err != nil {
		if !wasLocked {
			_ = l.Unlock()
		}
		return false, err
	}
	return true, nil
}

func (l *LockFile) writePID() error {
	pid := sys.Pid()
	if err := sys.Truncate(l.desc); err != nil {
		return lockErrors.NewLockError(l.path, pid,
			lockErrors.Wrap(err, "failed to truncate lock file"))
	}
	if err := sys.Write(l.desc, []byte(strconv.Itoa(pid)+"\n")); err != nil {
		return lockErrors.NewLockError(l.path, pid,
			lockErrors.Wrap(err, "failed to write PID to lock file"))
	}
	l.wrotePID = true
	return nil
}

// Locked reports whether this handle currently holds the lock. It has no
// side effects.
func (l *LockFile) Locked() bool {
	return l.locked
}

// Path returns the filesystem path this handle is bound to.
func (l *LockFile) Path() string {
	return l.path
}

// Fd exposes the underlying native descriptor for advanced interop. The
// handle retains ownership: the caller must not close the descriptor while
// the LockFile is open. In multilock mode a live descriptor exists only
// while the lock is held.
func (l *LockFile) Fd() uintptr {
	return uintptr(l.desc)
}

// Close releases any held lock, closes the descriptor and makes the handle
// terminal: every subsequent operation fails with errors.ErrClosed. Close
// on an already closed handle returns nil.
func (l *LockFile) Close() error {
	if l.closed {
		return nil
	}
	var firstErr error
	if l.locked {
		// Closing the descriptor below releases the lock at the OS level
		// even if the explicit release fails.
		firstErr = l.Unlock()
		l.locked = false
		l.wrotePID = false
	}
	if sys.Valid(l.desc) {
		if err := sys.Close(l.desc); err != nil && firstErr == nil {
			firstErr = lockErrors.NewLockError(l.path, 0,
				lockErrors.Wrap(err, "failed to close lock file"))
		}
		l.desc = sys.InvalidDesc
	}
	l.closed = true
	return firstErr
}
