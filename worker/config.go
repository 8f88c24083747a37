package worker

import (
	"fmt"
	"io"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/ardnew/splitwork/pkg"
)

// Environment variables set for each worker.
const (
	EnvWorker  = "SPLITWORK_WORKER"
	EnvWorkers = "SPLITWORK_WORKERS"
	EnvRun     = "SPLITWORK_RUN"
)

// DefaultWaitDelay bounds how long Run waits for a stopped worker's
// output to drain.
const DefaultWaitDelay = 5 * time.Second

// Config describes the workers started by [Run].
type Config struct {
	// Workers is the number of worker processes. Zero selects
	// runtime.NumCPU().
	Workers int

	// Command and Args name the program each worker runs.
	Command string
	Args    []string

	// Env holds extra "KEY=value" entries added to each worker's
	// environment.
	Env []string

	// Stderr receives the workers' standard error. Nil selects os.Stderr.
	Stderr io.Writer

	// RunID tags the run in logs and in [EnvRun]. Empty generates a
	// random id.
	RunID string

	// WaitDelay is passed to exec.Cmd.WaitDelay. Zero selects
	// DefaultWaitDelay.
	WaitDelay time.Duration
}

// withDefaults returns a copy of c with unset fields filled in.
func (c Config) withDefaults() Config {
	if c.Workers == 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Stderr == nil {
		c.Stderr = os.Stderr
	}
	if c.RunID == "" {
		c.RunID = uuid.NewString()
	}
	if c.WaitDelay == 0 {
		c.WaitDelay = DefaultWaitDelay
	}
	return c
}

// validate reports configuration errors.
func (c Config) validate() error {
	switch {
	case c.Command == "":
		return fmt.Errorf("worker command is empty: %w", pkg.ErrInvalidParameter)
	case c.Workers < 1:
		return fmt.Errorf("worker count %d: %w", c.Workers, pkg.ErrInvalidParameter)
	}
	return nil
}

// environ returns the environment of the worker at index.
func (c Config) environ(index int) []string {
	env := append(os.Environ(), c.Env...)
	return append(env,
		EnvWorker+"="+strconv.Itoa(index),
		EnvWorkers+"="+strconv.Itoa(c.Workers),
		EnvRun+"="+c.RunID,
	)
}
