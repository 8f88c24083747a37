//go:build unix

package main

import (
	"github.com/spf13/cobra"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
	"github.com/ardnew/splitwork/roundrobin"
)

func (a *app) splitCmd() *cobra.Command {
	var (
		in         string
		mkfifo     bool
		flushLines bool
	)
	cmd := &cobra.Command{
		Use:   "split [--in SRC] [--mkfifo] [--flush-lines] DEST...",
		Short: "Send input line k to destination k mod N",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, release, err := openSource(in)
			if err != nil {
				return err
			}
			defer release()

			dsts := make([]endpoint.Sink, 0, len(args))
			for _, spec := range args {
				dst, release, err := openSink(spec, mkfifo)
				if err != nil {
					return err
				}
				defer release()
				dsts = append(dsts, dst)
			}

			pkg.LogInfo(component, "splitting", "source", in, "destinations", len(dsts))
			var opts []roundrobin.SplitOption
			if flushLines {
				opts = append(opts, roundrobin.WithLineFlush())
			}
			return roundrobin.Split(cmd.Context(), src, dsts, opts...)
		},
	}
	cmd.Flags().StringVarP(&in, "in", "i", "-", "input `endpoint`: path, fd:N or - for stdin")
	cmd.Flags().BoolVar(&mkfifo, "mkfifo", false, "create missing destination paths as named pipes")
	cmd.Flags().BoolVar(&flushLines, "flush-lines", false, "write each line out as soon as it is complete")
	return cmd
}
