//go:build !windows

package sys

import (
	"errors"

	"golang.org/x/sys/unix"
)

// FileDesc is the native file descriptor type on Unix.
type FileDesc = int

// InvalidDesc marks the absence of a descriptor.
const InvalidDesc FileDesc = -1

// Open opens the file at path for reading and writing, creating it if it
// does not exist.
func Open(path string) (FileDesc, error) {
	fd, err := unix.Open(path, unix.O_RDWR|unix.O_CREAT|unix.O_CLOEXEC, 0o644)
	if err != nil {
		return InvalidDesc, err
	}
	return fd, nil
}

func wholeFile(lockType int16) *unix.Flock_t {
	return &unix.Flock_t{
		Type:   lockType,
		Whence: 0,
		Start:  0,
		Len:    0, // zero length covers the whole file
	}
}

// Lock acquires an exclusive record lock on fd, blocking until granted.
// Record locks are owned by the process: descriptors opened by the same
// process never block each other here.
func Lock(fd FileDesc) error {
	for {
		err := unix.FcntlFlock(uintptr(fd), unix.F_SETLKW, wholeFile(unix.F_WRLCK))
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

// TryLock attempts the same acquisition without blocking. A lock held
// elsewhere is reported as false, not as an error.
func TryLock(fd FileDesc) (bool, error) {
	err := unix.FcntlFlock(uintptr(fd), unix.F_SETLK, wholeFile(unix.F_WRLCK))
	if err == nil {
		return true, nil
	}
	// POSIX permits either code for a held lock.
	if errors.Is(err, unix.EAGAIN) || errors.Is(err, unix.EACCES) {
		return false, nil
	}
	return false, err
}

// Unlock releases the record lock held through fd. Releasing a descriptor
// that holds no lock is not an error at this layer.
func Unlock(fd FileDesc) error {
	return unix.FcntlFlock(uintptr(fd), unix.F_SETLK, wholeFile(unix.F_UNLCK))
}

// LockHandle acquires an exclusive flock(2) lock on fd, blocking until
// granted. flock locks belong to the open file description, so two
// descriptors in the same process contend exactly as two processes would.
func LockHandle(fd FileDesc) error {
	for {
		err := unix.Flock(fd, unix.LOCK_EX)
		if !errors.Is(err, unix.EINTR) {
			return err
		}
	}
}

// TryLockHandle attempts the flock acquisition without blocking.
//
// Checks both EWOULDBLOCK and EAGAIN: on many older Unix systems these were
// distinct error codes, and portable code must treat them the same.
func TryLockHandle(fd FileDesc) (bool, error) {
	err := unix.Flock(fd, unix.LOCK_EX|unix.LOCK_NB)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, unix.EWOULDBLOCK) || errors.Is(err, unix.EAGAIN) {
		return false, nil
	}
	return false, err
}

// UnlockHandle releases the flock lock held on fd.
func UnlockHandle(fd FileDesc) error {
	return unix.Flock(fd, unix.LOCK_UN)
}

// Truncate discards the file's contents and rewinds the descriptor.
func Truncate(fd FileDesc) error {
	if err := unix.Ftruncate(fd, 0); err != nil {
		return err
	}
	_, err := unix.Seek(fd, 0, 0)
	return err
}

// Write writes buf through fd at the current offset.
func Write(fd FileDesc, buf []byte) error {
	_, err := unix.Write(fd, buf)
	return err
}

// Close closes fd. Any lock held through it is released by the OS.
func Close(fd FileDesc) error {
	return unix.Close(fd)
}

// Valid reports whether fd is a real descriptor rather than the
// InvalidDesc sentinel.
func Valid(fd FileDesc) bool {
	return fd != InvalidDesc
}

// Remove deletes the file at path. The locking layer never calls this
// itself; backing files are left in place for the next holder.
func Remove(path string) error {
	return unix.Unlink(path)
}

// Pid returns the calling process id.
func Pid() int {
	return unix.Getpid()
}
