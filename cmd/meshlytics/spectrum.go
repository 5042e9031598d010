// SPDX-License-Identifier: MIT

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/source"
)

func newSpectrumCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "spectrum",
		Short: "Print the eigenvalues and λmax of a topology document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.snapshotPath()
			if err != nil {
				return err
			}
			snap, err := source.Load(path, a.cfg.SpectrumOptions())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			eigs := snap.Eigenvalues()
			for i, v := range eigs {
				fmt.Fprintf(out, "λ%d\t%.10g\n", i+1, v)
			}
			lambda := centrality.LargestEigenvalue(eigs)
			fmt.Fprintf(out, "λmax\t%.10g\n", lambda)
			if lambda != 0 {
				fmt.Fprintf(out, "q\t%.10g\n", 1/lambda)
			}
			fmt.Fprintf(out, "components\t%d\n", len(snap.Components()))
			if iso := snap.Isolated(); len(iso) > 0 {
				fmt.Fprintf(out, "isolated\t%v\n", iso)
			}

			return nil
		},
	}
}
