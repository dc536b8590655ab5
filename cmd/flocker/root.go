package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	lockErrors "github.com/bashhack/flocker/pkg/errors"
	"github.com/bashhack/flocker/pkg/lockfile"
	"github.com/bashhack/flocker/pkg/logger"
)

var (
	nonblock     bool
	conflictExit int
	exclMode     bool
	recordPID    bool
	verbose      bool
	logFile      string
)

var rootCmd = &cobra.Command{
	Use:   "flocker [flags] <lockfile> [command [args...]]",
	Short: "Run a command, or wait, while holding an advisory file lock",
	Long: `flocker acquires an exclusive advisory lock on the given file,
creating it if necessary.

With a command, the command runs while the lock is held and its exit code
is propagated. Without a command, the lock is held until a newline arrives
on stdin.`,
	Args:          cobra.MinimumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          run,
}

func init() {
	rootCmd.Flags().BoolVarP(&nonblock, "nonblock", "n", false,
		"fail instead of waiting when the lock is held elsewhere")
	rootCmd.Flags().IntVarP(&conflictExit, "conflict-exit-code", "E", 1,
		"exit code when --nonblock is set and the lock is held")
	rootCmd.Flags().BoolVar(&exclMode, "excl", false,
		"use a fresh descriptor per lock attempt (per-handle semantics on every platform)")
	rootCmd.Flags().BoolVar(&recordPID, "pid", false,
		"record this process id in the lock file while the lock is held")
	rootCmd.Flags().BoolVarP(&verbose, "verbose", "v", envBool("FLOCKER_VERBOSE"),
		"show debug output")
	rootCmd.Flags().StringVar(&logFile, "log-file", os.Getenv("FLOCKER_LOG_FILE"),
		"append debug logs to this file")

	// Flags after the command name belong to the command being run.
	rootCmd.Flags().SetInterspersed(false)
}

// exitError carries an exit code through cobra without extra output.
type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return fmt.Sprintf("exit code %d", e.code)
}

func (e *exitError) Unwrap() error {
	return e.err
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	if err := rootCmd.Execute(); err != nil {
		var ee *exitError
		if lockErrors.As(err, &ee) {
			if ee.err != nil {
				_, _ = fmt.Fprintf(os.Stderr, "flocker: %v\n", ee.err)
			}
			return ee.code
		}
		_, _ = fmt.Fprintf(os.Stderr, "flocker: %v\n", err)
		return 1
	}
	return 0
}

func run(cmd *cobra.Command, args []string) error {
	log := logger.New(logFile != "", logFile, verbose)
	defer func() { _ = log.Close() }()

	path := args[0]

	var lf *lockfile.LockFile
	var err error
	if exclMode {
		lf, err = lockfile.OpenExcl(path)
	} else {
		lf, err = lockfile.Open(path)
	}
	if err != nil {
		return err
	}
	defer func() { _ = lf.Close() }()

	if err := acquire(lf, log); err != nil {
		return err
	}
	log.Info("acquired lock on %s (pid %d)", path, os.Getpid())

	// Signals are trapped only while the lock is held. A signal during a
	// blocked acquire kills the process and the OS drops nothing we own.
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	if len(args) == 1 {
		log.InfoToUser("holding lock on %s; press Enter to release", path)
		waitForNewline(ctx, os.Stdin)
	} else if code := runCommand(ctx, args[1:], log); code != 0 {
		// Release before propagating so the defer chain cannot mask the
		// command's exit code with a close error.
		if err := lf.Unlock(); err != nil {
			log.Error("releasing lock: %v", err)
		}
		return &exitError{code: code}
	}

	if err := lf.Unlock(); err != nil {
		return err
	}
	log.Success("released lock on %s", path)
	return nil
}

// acquire takes the lock according to the --nonblock and --pid flags.
func acquire(lf *lockfile.LockFile, log logger.Logger) error {
	if !nonblock {
		if recordPID {
			return lf.LockWithPID()
		}
		return lf.Lock()
	}

	var ok bool
	var err error
	if recordPID {
		ok, err = lf.TryLockWithPID()
	} else {
		ok, err = lf.TryLock()
	}
	if err != nil {
		return err
	}
	if !ok {
		log.Warning("lock on %s is held elsewhere", lf.Path())
		return &exitError{code: conflictExit, err: lockErrors.ErrLockHeld}
	}
	return nil
}

// runCommand runs the command under the lock with stdio passed through and
// returns its exit code.
func runCommand(ctx context.Context, argv []string, log logger.Logger) int {
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr

	log.Info("running command under lock: %v", argv)
	if err := cmd.Run(); err != nil {
		var ee *exec.ExitError
		if lockErrors.As(err, &ee) && ee.ExitCode() >= 0 {
			return ee.ExitCode()
		}
		// Killed by a signal (or never started); no exit code to forward.
		log.Error("running command: %v", err)
		return 1
	}
	return 0
}

// waitForNewline blocks until a newline or EOF arrives on r, or ctx is
// canceled by a signal.
func waitForNewline(ctx context.Context, r *os.File) {
	done := make(chan struct{})
	go func() {
		defer close(done)
		reader := bufio.NewReader(r)
		for {
			b, err := reader.ReadByte()
			if err != nil || b == '\n' {
				return
			}
		}
	}()

	select {
	case <-ctx.Done():
	case <-done:
	}
}

func envBool(name string) bool {
	v := os.Getenv(name)
	return v == "1" || v == "true"
}
