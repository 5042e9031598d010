// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meshlytics/analytics"
	"github.com/katalvlaran/meshlytics/centrality"
	"github.com/katalvlaran/meshlytics/metrics"
	"github.com/katalvlaran/meshlytics/source"
)

func newComputeCmd(a *app) *cobra.Command {
	var (
		rawParams   []string
		output      string
		showMetrics bool
	)
	cmd := &cobra.Command{
		Use:   "compute",
		Short: "Compute diffusion centrality for one topology document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			path, err := a.snapshotPath()
			if err != nil {
				return err
			}
			params := a.cfg.Parameters()
			for _, raw := range rawParams {
				name, v, perr := centrality.ParseParameter(raw)
				if perr != nil {
					return perr
				}
				params[name] = v
			}
			if output != "json" && output != "table" {
				return fmt.Errorf("--output %q: want json or table", output)
			}

			snap, err := source.Load(path, a.cfg.SpectrumOptions())
			if err != nil {
				return err
			}
			var rec *metrics.Recorder
			if showMetrics {
				rec = metrics.New()
			}
			svc, err := analytics.NewService(params, analytics.WithLogger(a.logger), analytics.WithRecorder(rec))
			if err != nil {
				return err
			}
			entry, err := svc.Refresh(context.Background(), snap)
			if err != nil {
				return fmt.Errorf("compute %s: %w", path, err)
			}

			out := cmd.OutOrStdout()
			if output == "json" {
				err = writeJSON(out, entry)
			} else {
				err = writeTable(out, entry.Result)
			}
			if err != nil {
				return err
			}
			if showMetrics {
				return rec.WriteText(out)
			}

			return nil
		},
	}
	cmd.Flags().StringArrayVar(&rawParams, "param", nil, "engine option name=value, e.g. T=3 (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", "json", "output format: json|table")
	cmd.Flags().BoolVar(&showMetrics, "metrics", false, "append Prometheus metrics of this run")

	return cmd
}

type computeOutput struct {
	ID          string                `json:"id"`
	Algorithm   string                `json:"algorithm"`
	Fingerprint string                `json:"fingerprint"`
	Params      centrality.Parameters `json:"params"`
	Scores      *centrality.Result    `json:"scores"`
}

func writeJSON(w io.Writer, e analytics.Entry) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(computeOutput{
		ID:          e.ID.String(),
		Algorithm:   centrality.DiffusionAlgorithm,
		Fingerprint: e.Snapshot.Fingerprint(),
		Params:      e.Params,
		Scores:      e.Result,
	})
}

func writeTable(w io.Writer, res *centrality.Result) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	nodes := res.Nodes()

	fmt.Fprint(tw, "\t")
	for _, id := range nodes {
		fmt.Fprintf(tw, "%s\t", id)
	}
	fmt.Fprintln(tw)
	for _, from := range nodes {
		row, _ := res.Row(from)
		fmt.Fprintf(tw, "%s\t", from)
		for _, s := range row {
			fmt.Fprintf(tw, "%.4f\t", s.Value)
		}
		fmt.Fprintln(tw)
	}

	return tw.Flush()
}
