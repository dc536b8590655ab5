// Package sys binds the logical locking operations to the native
// primitives of the target platform.
//
// Two lock families are exposed. Lock, TryLock and Unlock use the
// platform's default primitive: POSIX record locks (fcntl) on Unix, which
// are owned by the process, and LockFileEx on Windows, which is owned by
// the handle. LockHandle, TryLockHandle and UnlockHandle always provide
// handle-scoped ownership: flock(2) on Unix, and the same LockFileEx calls
// on Windows, where no distinction exists.
//
// Functions in this package return raw OS errors. A lock being held
// elsewhere is never an error: the non-blocking variants report it as a
// false return instead. Classification and wrapping happen in pkg/lockfile.
package sys
