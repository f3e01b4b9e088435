// SPDX-License-Identifier: MIT

// Command mrio decomposes MRIO stressor footprints into direct, domestic
// supply-chain and foreign supply-chain parts, from the terminal or over HTTP.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"cloud.google.com/go/storage"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/katalvlaran/mrio/config"
	"github.com/katalvlaran/mrio/dataset"
	"github.com/katalvlaran/mrio/ingest"
	"github.com/katalvlaran/mrio/snapshot"
)

// version is stamped at build time with -ldflags "-X main.version=...".
var version = "dev"

// app carries global flags and the state built from them.
type app struct {
	configPath string
	stressors  string
	leontief   string
	verbose    bool

	cfg    *config.Config
	logger *zap.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "mrio",
		Short: "MRIO stressor footprint decomposition",
		Long: `mrio splits the footprint of one (region, sector) for one stressor into
its direct on-site part, the domestic supply chain and the foreign supply
chain, using a stressor intensity table S and a Leontief inverse L.

Sources come from --stressors/--leontief, the config file, or the
MRIO_STRESSORS/MRIO_LEONTIEF environment variables. gs://bucket/object
URIs are read from Google Cloud Storage.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			return a.setup()
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a.logger != nil {
				_ = a.logger.Sync()
			}
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&a.configPath, "config", "c", "", "YAML config file")
	pf.StringVar(&a.stressors, "stressors", "", "stressor table S (path or gs:// URI)")
	pf.StringVar(&a.leontief, "leontief", "", "Leontief inverse L (path or gs:// URI)")
	pf.BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newDecomposeCmd(a),
		newCatalogCmd(a),
		newServeCmd(a),
		newVersionCmd(),
	)

	return root
}

// setup loads configuration, lets flags win over it, and builds the logger.
func (a *app) setup() error {
	overrides := map[string]string{}
	if a.stressors != "" {
		overrides[config.EnvPrefix+"STRESSORS"] = a.stressors
	}
	if a.leontief != "" {
		overrides[config.EnvPrefix+"LEONTIEF"] = a.leontief
	}
	cfg, err := config.LoadWith(a.configPath, func(k string) (string, bool) {
		if v, ok := overrides[k]; ok {
			return v, true
		}
		return os.LookupEnv(k)
	})
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.logger, err = buildLogger(cfg.Log, a.verbose)
	return err
}

func buildLogger(lc config.LogConfig, verbose bool) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if lc.Format == "console" {
		zc.Encoding = "console"
		zc.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	}
	level, err := zapcore.ParseLevel(lc.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", lc.Level, err)
	}
	if verbose {
		level = zapcore.DebugLevel
	}
	zc.Level = zap.NewAtomicLevelAt(level)

	logger, err := zc.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	return logger, nil
}

// openCache wires loader, optional GCS client and optional snapshot store
// into a dataset cache. cleanup releases whatever was opened.
func (a *app) openCache(ctx context.Context) (cache *dataset.Cache, cleanup func(), err error) {
	var closers []func()
	cleanup = func() {
		for i := len(closers) - 1; i >= 0; i-- {
			closers[i]()
		}
	}
	defer func() {
		if err != nil {
			cleanup()
		}
	}()

	data := a.cfg.Data
	loaderOpts := []ingest.Option{ingest.WithLogger(a.logger.Named("ingest"))}
	if strings.HasPrefix(data.Stressors, "gs://") || strings.HasPrefix(data.Leontief, "gs://") {
		var client *storage.Client
		client, err = ingest.NewGCSClient(ctx, data.GCSCredentials)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = client.Close() })
		loaderOpts = append(loaderOpts, ingest.WithGCS(client))
	}

	opts := []dataset.Option{
		dataset.WithLoader(ingest.NewLoader(loaderOpts...)),
		dataset.WithLogger(a.logger.Named("dataset")),
		dataset.WithDebounce(data.Debounce),
		dataset.WithEagerReload(data.EagerReload),
	}
	if a.cfg.Snapshot.Enabled {
		sc := snapshot.DefaultConfig(a.cfg.Snapshot.Path)
		sc.TTL = a.cfg.Snapshot.TTL
		sc.Logger = a.logger.Named("snapshot")
		var store *snapshot.Store
		store, err = snapshot.Open(sc)
		if err != nil {
			return nil, nil, err
		}
		closers = append(closers, func() { _ = store.Close() })
		opts = append(opts, dataset.WithStore(store))
	}

	cache, err = dataset.New(data.Stressors, data.Leontief, opts...)
	if err != nil {
		return nil, nil, err
	}

	return cache, cleanup, nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
