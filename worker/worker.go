//go:build unix

package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
	"github.com/ardnew/splitwork/roundrobin"
)

// proc is one running worker and the parent's ends of its pipes.
type proc struct {
	index  int
	cmd    *exec.Cmd
	stdin  *endpoint.File // write end, fed by the split
	stdout *endpoint.File // read end, drained by the merge
}

// startProc starts the worker at index with fresh stdin and stdout pipes.
func startProc(ctx context.Context, cfg Config, index int) (*proc, error) {
	inR, inW, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("worker %d: stdin pipe: %w", index, err)
	}
	outR, outW, err := os.Pipe()
	if err != nil {
		inR.Close()
		inW.Close()
		return nil, fmt.Errorf("worker %d: stdout pipe: %w", index, err)
	}

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Stdin = inR
	cmd.Stdout = outW
	cmd.Stderr = cfg.Stderr
	cmd.Env = cfg.environ(index)
	cmd.WaitDelay = cfg.WaitDelay

	err = cmd.Start()

	// The child holds its own copies; the parent must not keep the far
	// ends open or the worker never sees end of input.
	inR.Close()
	outW.Close()

	if err != nil {
		inW.Close()
		outR.Close()
		return nil, fmt.Errorf("worker %d: %w: %w", index, pkg.ErrWorker, err)
	}

	pkg.LogDebug(pkg.ComponentWorker, "worker started",
		"index", index, "pid", cmd.Process.Pid,
		"stdin", inW.Fd(), "stdout", outR.Fd())

	return &proc{
		index:  index,
		cmd:    cmd,
		stdin:  endpoint.NewFile(inW),
		stdout: endpoint.NewFile(outR),
	}, nil
}

// wait reaps the worker and reports an unsuccessful exit.
func (p *proc) wait() error {
	err := p.cmd.Wait()
	if err != nil {
		pkg.LogDebug(pkg.ComponentWorker, "worker failed",
			"index", p.index, "pid", p.cmd.Process.Pid, "error", err)
		return fmt.Errorf("worker %d: %w: %w", p.index, pkg.ErrWorker, err)
	}
	pkg.LogDebug(pkg.ComponentWorker, "worker exited",
		"index", p.index, "pid", p.cmd.Process.Pid)
	return nil
}

// pool is the set of workers of one run.
type pool []*proc

// sinks returns the stdin pipes in worker order.
func (ps pool) sinks() []endpoint.Sink {
	out := make([]endpoint.Sink, len(ps))
	for i, p := range ps {
		out[i] = p.stdin
	}
	return out
}

// sources returns the stdout pipes in worker order.
func (ps pool) sources() []endpoint.Source {
	out := make([]endpoint.Source, len(ps))
	for i, p := range ps {
		out[i] = p.stdout
	}
	return out
}

// closeInputs closes every stdin pipe so the workers see end of input.
func (ps pool) closeInputs() {
	for _, p := range ps {
		p.stdin.Close()
	}
}

// closeOutputs closes every stdout pipe.
func (ps pool) closeOutputs() {
	for _, p := range ps {
		p.stdout.Close()
	}
}

// wait reaps every worker and joins their failures.
func (ps pool) wait() error {
	var errs []error
	for _, p := range ps {
		if err := p.wait(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Run starts cfg.Workers copies of cfg.Command, splits in across their
// standard inputs and merges their standard outputs into out. It returns
// once every worker has exited. Run never closes in or out.
func Run(ctx context.Context, cfg Config, in endpoint.Source, out endpoint.Sink) error {
	cfg = cfg.withDefaults()
	if err := cfg.validate(); err != nil {
		return err
	}
	if in == nil || out == nil {
		return fmt.Errorf("worker input or output is nil: %w", pkg.ErrInvalidParameter)
	}
	if ctx.Err() != nil {
		return fmt.Errorf("%w: %w", pkg.ErrCancelled, context.Cause(ctx))
	}

	// Workers are stopped explicitly on failure rather than through the
	// errgroup context, which is also cancelled on success.
	procCtx, stop := context.WithCancel(ctx)
	defer stop()

	ps := make(pool, 0, cfg.Workers)
	for i := 0; i < cfg.Workers; i++ {
		p, err := startProc(procCtx, cfg, i)
		if err != nil {
			stop()
			ps.closeInputs()
			ps.closeOutputs()
			_ = ps.wait()
			return err
		}
		ps = append(ps, p)
	}

	pkg.LogInfo(pkg.ComponentWorker, "workers started",
		"run", cfg.RunID, "workers", cfg.Workers, "command", cfg.Command)

	// The first failure stops every worker, which unblocks the other side
	// of the pipeline.
	var (
		failOnce sync.Once
		failed   error
	)
	fail := func(err error) error {
		failOnce.Do(func() {
			failed = err
			stop()
		})
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	// Each line reaches its worker whole before the next line is sent, so
	// the merge never waits on a line that is still buffered here.
	g.Go(func() error {
		defer ps.closeInputs()
		if err := roundrobin.Split(gctx, in, ps.sinks(), roundrobin.WithLineFlush()); err != nil {
			return fail(fmt.Errorf("split: %w", err))
		}
		return nil
	})
	g.Go(func() error {
		if err := roundrobin.Merge(gctx, out, ps.sources()); err != nil {
			return fail(fmt.Errorf("merge: %w", err))
		}
		return nil
	})

	_ = g.Wait()
	ps.closeOutputs()
	werr := ps.wait()
	err := failed

	switch {
	case err != nil:
		pkg.LogError(pkg.ComponentWorker, "pipeline failed", "run", cfg.RunID, "error", err)
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %w", pkg.ErrCancelled, context.Cause(ctx))
	case werr != nil:
		pkg.LogError(pkg.ComponentWorker, "worker failed", "run", cfg.RunID, "error", werr)
		return werr
	}

	pkg.LogInfo(pkg.ComponentWorker, "workers finished", "run", cfg.RunID)
	return nil
}
