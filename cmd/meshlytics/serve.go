// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/meshlytics/analytics"
	"github.com/katalvlaran/meshlytics/api"
	"github.com/katalvlaran/meshlytics/metrics"
	"github.com/katalvlaran/meshlytics/source"
	"github.com/katalvlaran/meshlytics/topology"
)

func newServeCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the current analytics result over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return a.serve(ctx)
		},
	}
	cmd.Flags().String("addr", ":8088", "listen address")
	cmd.Flags().Bool("watch", false, "refresh on topology document changes")
	_ = a.v.BindPFlag("serve.addr", cmd.Flags().Lookup("addr"))
	_ = a.v.BindPFlag("snapshot.watch", cmd.Flags().Lookup("watch"))

	return cmd
}

func (a *app) serve(ctx context.Context) error {
	var rec *metrics.Recorder
	if a.cfg.Metrics.Enabled {
		rec = metrics.New()
	}
	svc, err := analytics.NewService(a.cfg.Parameters(),
		analytics.WithLogger(a.logger),
		analytics.WithRecorder(rec),
	)
	if err != nil {
		return err
	}

	if path := a.cfg.Snapshot.Path; path != "" {
		if snap, lerr := source.Load(path, a.cfg.SpectrumOptions()); lerr != nil {
			a.logger.Error("initial topology load failed", "path", path, "err", lerr)
		} else if _, rerr := svc.Refresh(ctx, snap); rerr != nil {
			a.logger.Error("initial computation failed", "path", path, "err", rerr)
		}

		if a.cfg.Snapshot.Watch {
			go a.watch(ctx, path, svc)
		}
	}

	srv := api.New(svc, api.Options{
		Recorder: rec,
		Spectrum: a.cfg.SpectrumOptions(),
		Logger:   a.logger,
	})

	return srv.Run(ctx, a.cfg.Serve.Addr)
}

func (a *app) watch(ctx context.Context, path string, svc *analytics.Service) {
	h := source.HandlerFuncs{
		Snapshot: func(snap *topology.Snapshot) {
			// failures are logged by the service; the previous entry stays
			_, _ = svc.Refresh(ctx, snap)
		},
		Removed: func() {
			svc.Invalidate("topology document removed")
		},
	}
	err := source.Watch(ctx, path, h, source.WatchOptions{
		Spectrum: a.cfg.SpectrumOptions(),
		Logger:   a.logger,
	})
	if err != nil {
		a.logger.Error("topology watcher stopped", "path", path, "err", err)
	}
}
