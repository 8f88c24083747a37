//go:build unix

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
	"github.com/ardnew/splitwork/pkg/prof"
)

// component identifies this executable for structured logging.
const component = pkg.ComponentCLI

// app holds the global options of one invocation.
type app struct {
	verbose    bool
	jsonLog    bool
	cpuProfile string
	memProfile string

	runID   string
	stderr  io.Writer
	session *prof.Session
}

// execute runs the command line args and returns the process exit status.
func execute(ctx context.Context, args []string, stderr io.Writer) int {
	a := &app{stderr: stderr}
	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stderr)
	cmd.SetErr(stderr)

	err := cmd.ExecuteContext(ctx)
	a.stopProfile()

	if err != nil {
		pkg.LogError(component, "command failed", "error", err)
		fmt.Fprintf(stderr, "splitwork: %v\n", err)
	}
	return pkg.KindOf(err).ExitCode()
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "splitwork",
		Short: "Split and merge newline-delimited streams in round-robin order",
		Long: `splitwork sends line k of its input to output k mod N and merges
N such streams back into one, taking one line from each in turn.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	flags := cmd.PersistentFlags()
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "enable verbose (debug) logging")
	flags.BoolVar(&a.jsonLog, "json", false, "use JSON log format")
	flags.StringVar(&a.cpuProfile, "cpuprofile", "", "write a CPU profile to `file`")
	flags.StringVar(&a.memProfile, "memprofile", "", "write a heap profile to `file`")

	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return fmt.Errorf("%w: %w", pkg.ErrInvalidParameter, err)
	})

	cmd.AddCommand(a.splitCmd(), a.mergeCmd(), a.runCmd())
	return cmd
}

// setup configures logging and profiling before any subcommand runs.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	level := slog.LevelWarn
	if a.verbose {
		level = slog.LevelDebug
	}
	pkg.SetLogLevel(level)
	format := pkg.LogFormatText
	if a.jsonLog {
		format = pkg.LogFormatJSON
	}
	pkg.Configure(a.stderr, format)

	a.runID = uuid.NewString()
	pkg.With("run", a.runID)

	if a.cpuProfile != "" || a.memProfile != "" {
		if !prof.Enabled() {
			pkg.LogWarn(component, "profiling not compiled in, rebuild with -tags profile")
		}
		s, err := prof.Start(a.cpuProfile, a.memProfile)
		if err != nil {
			return err
		}
		a.session = s
	}

	pkg.LogDebug(component, "starting", "command", cmd.Name())
	return nil
}

// stopProfile ends the profiling session, if any.
func (a *app) stopProfile() {
	if a.session == nil {
		return
	}
	if err := a.session.Stop(); err != nil {
		pkg.LogWarn(component, "failed to write profile", "error", err)
	}
	a.session = nil
}

// usageArgs marks argument validation failures as usage errors.
func usageArgs(check cobra.PositionalArgs) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := check(cmd, args); err != nil {
			return fmt.Errorf("%w: %w", pkg.ErrInvalidParameter, err)
		}
		return nil
	}
}

// owned reports whether the endpoint named by spec was opened by this
// process and must be closed by it.
func owned(spec string) bool {
	return spec != "-" && !endpoint.IsDescriptorSpec(spec)
}

// openErr classifies a failure to open an endpoint. Descriptor errors keep
// their configuration kind; anything else is an I/O error.
func openErr(spec string, err error) error {
	if pkg.KindOf(err) != pkg.KindUnknown {
		return fmt.Errorf("%s: %w", spec, err)
	}
	return fmt.Errorf("%s: %w: %w", spec, pkg.ErrIO, err)
}

// openSource opens spec for reading. The returned release func closes the
// file if this process opened it.
func openSource(spec string) (*endpoint.File, func(), error) {
	f, err := endpoint.OpenSource(spec)
	if err != nil {
		return nil, nil, openErr(spec, err)
	}
	return f, releaser(spec, f), nil
}

// openSink opens spec for writing.
func openSink(spec string, fifo bool) (*endpoint.File, func(), error) {
	f, err := endpoint.OpenSink(spec, fifo)
	if err != nil {
		return nil, nil, openErr(spec, err)
	}
	return f, releaser(spec, f), nil
}

func releaser(spec string, f *endpoint.File) func() {
	return func() {
		if !owned(spec) {
			return
		}
		if err := f.Close(); err != nil {
			pkg.LogWarn(component, "close failed", "endpoint", spec, "error", err)
		}
	}
}
