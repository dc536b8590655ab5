package lockfile

import (
	"path/filepath"
	"testing"
	"time"
)

func TestConcurrentMultilockHandles_EnforceExclusivity(t *testing.T) {
	t.Parallel()

	tests := map[string]struct {
		skipInShortMode bool
		handleCount     int
		holdTime        time.Duration
		minSuccessCount int
	}{
		"FiveHandlesCompeteForLock": {
			skipInShortMode: true,
			handleCount:     5,
			holdTime:        100 * time.Millisecond,
			minSuccessCount: 1,
		},
		"QuickRelease": {
			skipInShortMode: false,
			handleCount:     3,
			holdTime:        10 * time.Millisecond,
			minSuccessCount: 1,
		},
	}

	for name, test := range tests {
		test := test
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			if test.skipInShortMode && testing.Short() {
				t.Skip("Skipping concurrency test in short mode")
			}

			path := filepath.Join(t.TempDir(), "competition.lock")
			done := make(chan bool, test.handleCount)

			for i := 0; i < test.handleCount; i++ {
				go func(id int) {
					lf, err := OpenExcl(path)
					if err != nil {
						t.Errorf("Handle %d: failed to open: %v", id, err)
						done <- false
						return
					}
					defer func() { _ = lf.Close() }()

					ok, err := lf.TryLock()
					if err != nil {
						t.Errorf("Handle %d: TryLock failed: %v", id, err)
						done <- false
						return
					}
					if !ok {
						// With several handles competing, losing the race
						// is the normal outcome for most of them.
						done <- false
						return
					}

					time.Sleep(test.holdTime)
					if err := lf.Unlock(); err != nil {
						t.Errorf("Handle %d: failed to unlock: %v", id, err)
					}
					done <- true
				}(i)
			}

			successCount := 0
			for i := 0; i < test.handleCount; i++ {
				if <-done {
					successCount++
				}
			}

			if successCount < test.minSuccessCount {
				t.Errorf("Expected at least %d handles to acquire the lock, but only %d succeeded",
					test.minSuccessCount, successCount)
			}
		})
	}
}
