//go:build profile

package prof

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"runtime/pprof"
	"sync"
)

// ErrActive indicates a profiling session is already running.
var ErrActive = errors.New("profiling session already active")

var (
	// activeMu guards active.
	activeMu sync.Mutex

	// active is set while a session owns the CPU profiler.
	active bool
)

// Session owns the CPU profile file and the heap profile destination of
// one invocation.
type Session struct {
	cpu     *os.File
	memPath string
	once    sync.Once
	err     error
}

// Enabled reports whether profiling support is compiled in.
func Enabled() bool {
	return true
}

// Start begins CPU profiling into cpuPath and arranges for a heap profile
// to be written to memPath by [Session.Stop]. Either path may be empty.
// Returns [ErrActive] if another session is running.
func Start(cpuPath, memPath string) (*Session, error) {
	activeMu.Lock()
	defer activeMu.Unlock()

	if active {
		return nil, ErrActive
	}

	s := &Session{memPath: memPath}
	if cpuPath != "" {
		f, err := os.Create(cpuPath)
		if err != nil {
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			f.Close()
			return nil, fmt.Errorf("cpu profile: %w", err)
		}
		s.cpu = f
	}

	active = true
	return s, nil
}

// Stop ends CPU profiling and writes the heap profile. It is safe to call
// more than once; later calls return the first result.
func (s *Session) Stop() error {
	s.once.Do(func() {
		activeMu.Lock()
		defer activeMu.Unlock()

		if s.cpu != nil {
			pprof.StopCPUProfile()
			s.err = s.cpu.Close()
		}
		if s.memPath != "" {
			s.err = errors.Join(s.err, writeHeap(s.memPath))
		}
		active = false
	})
	return s.err
}

// writeHeap writes an up-to-date heap profile to path.
func writeHeap(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	defer f.Close()

	runtime.GC()
	if err := pprof.Lookup("heap").WriteTo(f, 0); err != nil {
		return fmt.Errorf("heap profile: %w", err)
	}
	return nil
}
