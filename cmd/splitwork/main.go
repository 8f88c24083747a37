//go:build unix

// Command splitwork distributes the lines of a stream across several
// outputs in round-robin order, merges such outputs back, and runs a
// command as a pool of line-parallel workers.
//
// Usage:
//
//	splitwork split [--in SRC] [--mkfifo] [--flush-lines] DEST...
//	splitwork merge [--out DEST] SRC...
//	splitwork run [-n N] [--in SRC] [--out DEST] [--] COMMAND [ARG...]
//
// An endpoint is a path, "fd:N" for an inherited descriptor, or "-" for
// standard input or output.
//
// Global options:
//
//	-v, --verbose        Enable verbose (debug) logging
//	    --json           Use JSON log format
//	    --cpuprofile F   Write a CPU profile to F (profile builds only)
//	    --memprofile F   Write a heap profile to F (profile builds only)
//
// Exit status is 0 on success, 1 on an I/O error, 2 on a usage or
// configuration error, 3 when endpoint state cannot be allocated, 4 when a
// worker fails and 130 when interrupted.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := execute(ctx, os.Args[1:], os.Stderr)
	stop()
	os.Exit(code)
}
