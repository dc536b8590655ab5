//go:build windows

package sys

import (
	"errors"

	"golang.org/x/sys/windows"
)

// FileDesc is the native file handle type on Windows.
type FileDesc = windows.Handle

// InvalidDesc marks the absence of a handle.
const InvalidDesc FileDesc = windows.InvalidHandle

// allBytes spans the maximum lockable range, so the whole file is locked
// regardless of its size.
const allBytes = ^uint32(0)

// Open opens the file at path for reading and writing, creating it if it
// does not exist. The handle is opened with full sharing so that other
// handles can still open the file while a lock is held.
func Open(path string) (FileDesc, error) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return InvalidDesc, err
	}
	h, err := windows.CreateFile(
		p,
		windows.GENERIC_READ|windows.GENERIC_WRITE,
		windows.FILE_SHARE_READ|windows.FILE_SHARE_WRITE|windows.FILE_SHARE_DELETE,
		nil,
		windows.OPEN_ALWAYS,
		windows.FILE_ATTRIBUTE_NORMAL,
		0,
	)
	if err != nil {
		return InvalidDesc, err
	}
	return h, nil
}

func lockFileEx(h FileDesc, flags uint32) error {
	var ol windows.Overlapped
	return windows.LockFileEx(h, flags, 0, allBytes, allBytes, &ol)
}

// Lock acquires an exclusive lock on h, blocking until granted. Windows
// locks are owned by the handle used to acquire them: two handles in the
// same process contend like separate processes.
func Lock(h FileDesc) error {
	return lockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK)
}

// TryLock attempts the same acquisition without blocking. A lock held
// elsewhere is reported as false, not as an error.
func TryLock(h FileDesc) (bool, error) {
	err := lockFileEx(h, windows.LOCKFILE_EXCLUSIVE_LOCK|windows.LOCKFILE_FAIL_IMMEDIATELY)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, windows.ERROR_LOCK_VIOLATION) {
		return false, nil
	}
	return false, err
}

// Unlock releases the lock held on h.
func Unlock(h FileDesc) error {
	var ol windows.Overlapped
	return windows.UnlockFileEx(h, 0, allBytes, allBytes, &ol)
}

// Windows locks are handle-scoped natively, so the handle-scoped family
// maps to the same calls as the default one.

// LockHandle acquires an exclusive handle-scoped lock, blocking until
// granted.
func LockHandle(h FileDesc) error {
	return Lock(h)
}

// TryLockHandle attempts a handle-scoped acquisition without blocking.
func TryLockHandle(h FileDesc) (bool, error) {
	return TryLock(h)
}

// UnlockHandle releases the handle-scoped lock held on h.
func UnlockHandle(h FileDesc) error {
	return Unlock(h)
}

// Truncate discards the file's contents and rewinds the handle.
func Truncate(h FileDesc) error {
	if _, err := windows.Seek(h, 0, 0); err != nil {
		return err
	}
	return windows.Ftruncate(h, 0)
}

// Write writes buf through h at the current offset.
func Write(h FileDesc, buf []byte) error {
	var done uint32
	return windows.WriteFile(h, buf, &done, nil)
}

// Close closes h. Any lock held through it is released by the OS.
func Close(h FileDesc) error {
	return windows.Close(h)
}

// Valid reports whether h is a real handle rather than the InvalidDesc
// sentinel.
func Valid(h FileDesc) bool {
	return h != InvalidDesc
}

// Remove deletes the file at path. The locking layer never calls this
// itself; backing files are left in place for the next holder.
func Remove(path string) error {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return err
	}
	return windows.DeleteFile(p)
}

// Pid returns the calling process id.
func Pid() int {
	return int(windows.GetCurrentProcessId())
}
