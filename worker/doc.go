// Package worker runs a line-parallel pipeline: one input stream is split
// line by line across N copies of a command and their outputs are merged
// back, in the same rotation, into one output stream.
//
// Each worker is started with its standard input and standard output
// connected to pipes. [Run] feeds the input into the stdin pipes with
// [roundrobin.Split] while it concurrently drains the stdout pipes with
// [roundrobin.Merge]:
//
//	cfg := worker.Config{Workers: 4, Command: "tr", Args: []string{"a-z", "A-Z"}}
//	err := worker.Run(ctx, cfg, endpoint.NewFile(os.Stdin), endpoint.NewFile(os.Stdout))
//
// Workers see end of input as soon as the split finishes, and must write
// exactly one output line per input line for the rotation to line up.
//
// # Environment
//
// Every worker inherits the parent environment plus [EnvWorker] (its
// 0-based index), [EnvWorkers] (the worker count) and [EnvRun] (an id
// shared by all workers of one run).
//
// # Errors
//
// A failed split or merge stops every worker and is returned as is. When
// the pipeline succeeds, workers that exit unsuccessfully are reported
// with [pkg.ErrWorker].
package worker
