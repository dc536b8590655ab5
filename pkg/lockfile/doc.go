// Package lockfile provides an advisory file lock bound to a filesystem
// path.
//
// A LockFile owns one native descriptor for a path, tracks whether it
// currently holds the exclusive lock, and exposes blocking and non-blocking
// acquisition. The backing file is created on open if absent and is never
// deleted by this package; its contents matter only as advisory metadata
// (LockWithPID records the holder's process id).
//
// # Core Components
//
// - LockFile: the handle; one per path per cooperating participant
//
// # Locking Semantics
//
// Lock blocks until the OS grants the lock; it is the only blocking call
// and has no timeout or cancellation. TryLock never blocks: a lock held
// elsewhere is a normal false result, not an error. Lock on a handle that
// already holds the lock is a no-op, as is Unlock on a handle that does
// not. When Unlock fails, the handle remains in the locked state so the
// caller can retry without losing track of ownership.
//
// The OS releases the lock automatically when the descriptor is closed or
// the holding process terminates, so Close (or process death) always
// releases.
//
// # Platform Divergence and Multilock Mode
//
// Handles created with Open bind to the platform's default primitive. On
// Unix that is a POSIX record lock, which is owned by the process: two
// LockFile instances in the same process do not exclude each other. On
// Windows the lock is owned by the handle, and they do. This divergence is
// documented behavior for Open, not a defect.
//
// OpenExcl creates a handle in multilock mode, which normalizes to
// per-handle ownership on every platform: each lock attempt opens a fresh
// descriptor and locks it with a handle-scoped primitive, so two instances
// in one process contend exactly as two processes would, at the cost of an
// extra open/close per lock cycle. On Unix, multilock and non-multilock
// handles use independent native primitives and do not exclude each other;
// pick one mode per path.
//
// # Error Handling
//
// Failures surface as *errors.LockError values wrapping the OS error.
// Operations on a closed handle fail with errors.ErrClosed.
//
// # Thread Safety
//
// A LockFile performs no internal synchronization. A single instance must
// only be used from one goroutine at a time; concurrent use requires
// external synchronization by the caller. Separate instances are
// independent.
package lockfile
