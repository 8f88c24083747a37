//go:build unix

package main

import (
	"github.com/spf13/cobra"

	"github.com/ardnew/splitwork/endpoint"
	"github.com/ardnew/splitwork/pkg"
	"github.com/ardnew/splitwork/roundrobin"
)

func (a *app) mergeCmd() *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "merge [--out DEST] SRC...",
		Short: "Interleave source lines, one from each in turn",
		Args:  usageArgs(cobra.MinimumNArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			srcs := make([]endpoint.Source, 0, len(args))
			for _, spec := range args {
				src, release, err := openSource(spec)
				if err != nil {
					return err
				}
				defer release()
				srcs = append(srcs, src)
			}

			dst, release, err := openSink(out, false)
			if err != nil {
				return err
			}
			defer release()

			pkg.LogInfo(component, "merging", "sources", len(srcs), "sink", out)
			return roundrobin.Merge(cmd.Context(), dst, srcs)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "-", "output `endpoint`: path, fd:N or - for stdout")
	return cmd
}
