//go:build unix

package main

import (
	"github.com/spf13/cobra"

	"github.com/ardnew/splitwork/worker"
)

func (a *app) runCmd() *cobra.Command {
	var (
		workers int
		in, out string
		env     []string
	)
	cmd := &cobra.Command{
		Use:   "run [-n N] [--in SRC] [--out DEST] [--] COMMAND [ARG...]",
		Short: "Process input lines with N copies of a command",
		Long: `run starts N copies of COMMAND, sends input line k to copy k mod N
and writes their output lines in the same rotation. Each copy must write
exactly one line per line it reads.`,
		Args: usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, releaseIn, err := openSource(in)
			if err != nil {
				return err
			}
			defer releaseIn()

			dst, releaseOut, err := openSink(out, false)
			if err != nil {
				return err
			}
			defer releaseOut()

			cfg := worker.Config{
				Workers: workers,
				Command: args[0],
				Args:    args[1:],
				Env:     env,
				Stderr:  a.stderr,
				RunID:   a.runID,
			}
			return worker.Run(cmd.Context(), cfg, src, dst)
		},
	}
	cmd.Flags().SetInterspersed(false)
	cmd.Flags().IntVarP(&workers, "workers", "n", 0, "number of workers (0 selects the CPU count)")
	cmd.Flags().StringVarP(&in, "in", "i", "-", "input `endpoint`: path, fd:N or - for stdin")
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output `endpoint`: path, fd:N or - for stdout")
	cmd.Flags().StringArrayVarP(&env, "env", "e", nil, "extra worker environment `KEY=value` (repeatable)")
	return cmd
}
