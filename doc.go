// Package flocker provides cross-platform advisory file locking.
//
// flocker exposes a lock file handle bound to a filesystem path that can be
// exclusively locked and unlocked, for use as an inter-process mutual
// exclusion mechanism - for example, to prevent two instances of a tool from
// running against the same resource at once. The backing file is created on
// open if it does not exist and is never deleted by this module.
//
// # Quick Start
//
//	lf, err := lockfile.Open("/tmp/myapp.lock")
//	if err != nil {
//	    // handle error
//	}
//	defer lf.Close()
//
//	if err := lf.Lock(); err != nil {
//	    // handle error
//	}
//	// ... protected work ...
//	if err := lf.Unlock(); err != nil {
//	    // handle error
//	}
//
// # Module Structure
//
// The module is organized into these packages:
//
//   - pkg/lockfile: The lock file handle and its locking operations
//   - pkg/errors: Error handling utilities
//   - pkg/logger: Logging facilities for the CLI
//   - internal/sys: Platform bindings to the native locking primitives
//   - cmd/flocker: Command-line wrapper in the style of flock(1)
//
// # Platform Semantics
//
// The native primitives differ in who owns a lock. On Unix the default
// binding uses POSIX record locks (fcntl), which are owned by the process:
// descriptors opened by the same process never block each other. On Windows,
// LockFileEx locks are owned by the individual handle: two handles in the
// same process do contend. The lockfile package exposes both behaviors
// through one interface and offers an opt-in multilock mode
// (lockfile.OpenExcl) that normalizes to per-handle semantics everywhere by
// issuing a fresh descriptor for each lock attempt.
//
// In every mode the operating system releases a held lock when the owning
// handle is closed or its process terminates, so a crashed holder never
// leaves the lock stuck.
//
// # Command-Line Usage
//
//	# Run a command while holding the lock
//	flocker /tmp/build.lock make all
//
//	# Fail immediately instead of waiting
//	flocker -n /tmp/build.lock make all
//
//	# Hold the lock until Enter is pressed
//	flocker /tmp/build.lock
//
// # Platform Support
//
// flocker supports Linux, macOS, BSDs and Windows. Locks are advisory: they
// coordinate cooperating processes and do not prevent raw access by
// processes that never take the lock.
package flocker
