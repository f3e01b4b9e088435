// SPDX-License-Identifier: MIT

package main

import (
	"context"
	"errors"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/katalvlaran/mrio/dataset"
	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/server"
	"github.com/katalvlaran/mrio/telemetry"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		addr    string
		watch   bool
		warm    bool
		noWatch bool
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the decomposition HTTP API",
		Long: `Serve GET /health, GET /metrics, GET /v1/catalog, POST /v1/decompose and
POST /v1/reload. Tables load lazily on the first request unless --warm is set.
With --watch, local sources are watched and edits invalidate the cache.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if addr != "" {
				a.cfg.Server.Addr = addr
			}
			if watch {
				a.cfg.Data.Watch = true
			}
			if noWatch {
				a.cfg.Data.Watch = false
			}
			return a.runServe(cmd.Context(), warm)
		},
	}
	fl := cmd.Flags()
	fl.StringVar(&addr, "addr", "", "listen address (default from config)")
	fl.BoolVar(&watch, "watch", false, "reload when local source files change")
	fl.BoolVar(&noWatch, "no-watch", false, "disable watching even if the config enables it")
	fl.BoolVar(&warm, "warm", false, "load tables before accepting requests")
	cmd.MarkFlagsMutuallyExclusive("watch", "no-watch")

	return cmd
}

func (a *app) runServe(ctx context.Context, warm bool) error {
	shutdownTelemetry, err := telemetry.Init(ctx, a.cfg.Telemetry, telemetry.WithVersion(version))
	if err != nil {
		return err
	}
	defer func() {
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTelemetry(sctx); err != nil {
			a.logger.Warn("telemetry shutdown", zap.Error(err))
		}
	}()

	cache, cleanup, err := a.openCache(ctx)
	if err != nil {
		return err
	}
	defer cleanup()

	if warm {
		snap, err := cache.Get(ctx)
		if err != nil {
			return err
		}
		a.logger.Info("tables warmed",
			zap.String("origin", string(snap.Origin)),
			zap.Int("stressors", len(snap.Catalog.Stressors)),
			zap.Int("producers", snap.Tables.L.Producers().Len()),
		)
	}

	policy, err := decomp.ParsePolicy(a.cfg.Data.DefaultPolicy)
	if err != nil {
		return err
	}
	srv := server.New(cache,
		server.WithConfig(a.cfg.Server),
		server.WithLogger(a.logger.Named("http")),
		server.WithDefaultPolicy(policy),
		server.WithServiceName(a.cfg.Telemetry.ServiceName),
	)

	g, gctx := errgroup.WithContext(ctx)
	if a.cfg.Data.Watch {
		g.Go(func() error {
			err := cache.Watch(gctx)
			if errors.Is(err, dataset.ErrNothingToWatch) {
				a.logger.Warn("watch disabled: no local sources")
				return nil
			}
			return err
		})
	}
	g.Go(func() error { return srv.Run(gctx) })

	return g.Wait()
}
