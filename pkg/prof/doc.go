// Package prof captures pprof profiles for a splitwork invocation.
//
// Profiling is compiled in only with the "profile" build tag:
//
//	go build -tags profile ./cmd/splitwork
//
// Without the tag every function is a no-op and [Enabled] reports false, so
// callers can keep the profiling hooks in place at no cost.
//
// # Usage
//
//	s, err := prof.Start("cpu.prof", "heap.prof")
//	if err != nil {
//	    return err
//	}
//	defer s.Stop()
//
// An empty path skips that profile. The heap profile is written when the
// session stops, after a forced garbage collection.
package prof
