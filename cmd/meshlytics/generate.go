// SPDX-License-Identifier: MIT

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meshlytics/source"
	"github.com/katalvlaran/meshlytics/topology"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		shape    string
		nodes    int
		weight   float64
		directed bool
		format   string
		out      string
	)
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Write a synthetic topology document (complete, cycle, path, star, wheel)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := topology.ShapeByName(shape, nodes)
			if err != nil {
				return err
			}
			var opts []topology.BuilderOption
			if directed {
				opts = append(opts, topology.WithDirected())
			}
			b, err := topology.Generate(s, nil, weight, opts...)
			if err != nil {
				return err
			}

			f := source.Format(format)
			if out != "" && !cmd.Flags().Changed("format") {
				if f, err = source.FormatFromPath(out); err != nil {
					return err
				}
			}
			raw, err := source.Encode(source.FromBuilder(b), f)
			if err != nil {
				return err
			}
			if out == "" {
				_, err = cmd.OutOrStdout().Write(raw)
				return err
			}
			if err = os.WriteFile(out, raw, 0o644); err != nil {
				return fmt.Errorf("write %s: %w", out, err)
			}
			a.logger.Info("topology document written", "path", out, "shape", shape, "nodes", b.NodeCount())

			return nil
		},
	}
	cmd.Flags().StringVar(&shape, "shape", "cycle", "complete|cycle|path|star|wheel")
	cmd.Flags().IntVarP(&nodes, "nodes", "n", 5, "node count")
	cmd.Flags().Float64Var(&weight, "weight", 1, "link weight")
	cmd.Flags().BoolVar(&directed, "directed", false, "one-way links for cycle and path")
	cmd.Flags().StringVar(&format, "format", "yaml", "yaml|toml|json (default from --out extension)")
	cmd.Flags().StringVarP(&out, "out", "f", "", "output file (default stdout)")

	return cmd
}
