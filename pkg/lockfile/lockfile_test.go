package lockfile

import (
	"os"
	"path/filepath"
	"testing"

	lockErrors "github.com/bashhack/flocker/pkg/errors"
)

// openFuncs enumerates both handle modes so shared behavior is verified in
// each.
var openFuncs = map[string]func(string) (*LockFile, error){
	"CachedHandle": Open,
	"Multilock":    OpenExcl,
}

func TestOpen_CreatesFile(t *testing.T) {
	t.Parallel()

	for name, open := range openFuncs {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "create.lock")
			if _, err := os.Stat(path); !os.IsNotExist(err) {
				t.Fatalf("Expected path to not exist before open, got %v", err)
			}

			lf, err := open(path)
			if err != nil {
				t.Fatalf("Failed to open lock file: %v", err)
			}
			defer func() { _ = lf.Close() }()

			if _, err := os.Stat(path); err != nil {
				t.Errorf("Expected backing file to exist after open: %v", err)
			}
			if lf.Locked() {
				t.Error("Expected a fresh handle to be unlocked")
			}
			if lf.Path() != path {
				t.Errorf("Expected path %q, got %q", path, lf.Path())
			}
		})
	}
}

func TestOpen_FailsOnBadPath(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "no-such-dir", "bad.lock")

	for name, open := range openFuncs {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			_, err := open(path)
			if err == nil {
				t.Fatal("Expected open to fail for a missing parent directory")
			}

			var lockErr *lockErrors.LockError
			if !lockErrors.As(err, &lockErr) {
				t.Fatalf("Expected a *LockError, got %T: %v", err, err)
			}
			if lockErr.Path != path {
				t.Errorf("Expected LockError path %q, got %q", path, lockErr.Path)
			}
		})
	}
}

func TestLock_IsIdempotent(t *testing.T) {
	t.Parallel()

	for name, open := range openFuncs {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lf, err := open(filepath.Join(t.TempDir(), "idem.lock"))
			if err != nil {
				t.Fatalf("Failed to open lock file: %v", err)
			}
			defer func() { _ = lf.Close() }()

			if err := lf.Lock(); err != nil {
				t.Fatalf("First Lock failed: %v", err)
			}
			if err := lf.Lock(); err != nil {
				t.Fatalf("Second Lock on held handle should be a no-op, got %v", err)
			}
			if !lf.Locked() {
				t.Error("Expected handle to report locked")
			}

			ok, err := lf.TryLock()
			if err != nil {
				t.Fatalf("TryLock on own held handle failed: %v", err)
			}
			if !ok {
				t.Error("Expected TryLock on own held handle to report true")
			}
		})
	}
}

func TestUnlock_IsIdempotent(t *testing.T) {
	t.Parallel()

	for name, open := range openFuncs {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lf, err := open(filepath.Join(t.TempDir(), "unlock.lock"))
			if err != nil {
				t.Fatalf("Failed to open lock file: %v", err)
			}
			defer func() { _ = lf.Close() }()

			if err := lf.Unlock(); err != nil {
				t.Fatalf("Unlock on unlocked handle should be a no-op, got %v", err)
			}

			if err := lf.Lock(); err != nil {
				t.Fatalf("Lock failed: %v", err)
			}
			if err := lf.Unlock(); err != nil {
				t.Fatalf("Unlock failed: %v", err)
			}
			if err := lf.Unlock(); err != nil {
				t.Fatalf("Second Unlock should be a no-op, got %v", err)
			}
			if lf.Locked() {
				t.Error("Expected handle to report unlocked")
			}
		})
	}
}

func TestLockUnlockRoundTrip(t *testing.T) {
	t.Parallel()

	for name, open := range openFuncs {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lf, err := open(filepath.Join(t.TempDir(), "roundtrip.lock"))
			if err != nil {
				t.Fatalf("Failed to open lock file: %v", err)
			}
			defer func() { _ = lf.Close() }()

			if err := lf.Lock(); err != nil {
				t.Fatalf("Lock failed: %v", err)
			}
			if err := lf.Unlock(); err != nil {
				t.Fatalf("Unlock failed: %v", err)
			}
			if err := lf.Lock(); err != nil {
				t.Fatalf("Re-lock after unlock failed: %v", err)
			}
			if !lf.Locked() {
				t.Error("Expected handle to report locked after round trip")
			}
		})
	}
}

func TestClosedHandle_RejectsOperations(t *testing.T) {
	t.Parallel()

	lf, err := Open(filepath.Join(t.TempDir(), "closed.lock"))
	if err != nil {
		t.Fatalf("Failed to open lock file: %v", err)
	}
	if err := lf.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := lf.Lock(); !lockErrors.Is(err, lockErrors.ErrClosed) {
		t.Errorf("Expected ErrClosed from Lock, got %v", err)
	}
	if _, err := lf.TryLock(); !lockErrors.Is(err, lockErrors.ErrClosed) {
		t.Errorf("Expected ErrClosed from TryLock, got %v", err)
	}
	if err := lf.Unlock(); !lockErrors.Is(err, lockErrors.ErrClosed) {
		t.Errorf("Expected ErrClosed from Unlock, got %v", err)
	}
	if lf.Locked() {
		t.Error("Expected closed handle to report unlocked")
	}

	if err := lf.Close(); err != nil {
		t.Errorf("Second Close should be a no-op, got %v", err)
	}
}

func TestClose_WhileLocked(t *testing.T) {
	t.Parallel()

	for name, open := range openFuncs {
		open := open
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			lf, err := open(filepath.Join(t.TempDir(), "closelocked.lock"))
			if err != nil {
				t.Fatalf("Failed to open lock file: %v", err)
			}
			if err := lf.Lock(); err != nil {
				t.Fatalf("Lock failed: %v", err)
			}
			if err := lf.Close(); err != nil {
				t.Fatalf("Close of a locked handle failed: %v", err)
			}
			if lf.Locked() {
				t.Error("Expected handle to report unlocked after Close")
			}
		})
	}
}
