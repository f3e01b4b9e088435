// SPDX-License-Identifier: MIT

package config

import (
	"fmt"
	"strconv"
	"time"
)

// EnvPrefix prefixes every override variable.
const EnvPrefix = "MRIO_"

// applyEnv overlays MRIO_* variables onto cfg. Set-but-empty variables count
// as set, so MRIO_GCS_CREDENTIALS= clears a file value.
func applyEnv(cfg *Config, env LookupFunc) error {
	strs := []struct {
		key string
		dst *string
	}{
		{"STRESSORS", &cfg.Data.Stressors},
		{"LEONTIEF", &cfg.Data.Leontief},
		{"GCS_CREDENTIALS", &cfg.Data.GCSCredentials},
		{"DEFAULT_POLICY", &cfg.Data.DefaultPolicy},
		{"ADDR", &cfg.Server.Addr},
		{"SERVER_MODE", &cfg.Server.Mode},
		{"SNAPSHOT_PATH", &cfg.Snapshot.Path},
		{"TRACE_EXPORTER", &cfg.Telemetry.TraceExporter},
		{"METRIC_EXPORTER", &cfg.Telemetry.MetricExporter},
		{"OTLP_ENDPOINT", &cfg.Telemetry.OTLPEndpoint},
		{"LOG_LEVEL", &cfg.Log.Level},
		{"LOG_FORMAT", &cfg.Log.Format},
	}
	for _, s := range strs {
		if v, ok := env(EnvPrefix + s.key); ok {
			*s.dst = v
		}
	}

	bools := []struct {
		key string
		dst *bool
	}{
		{"WATCH", &cfg.Data.Watch},
		{"EAGER_RELOAD", &cfg.Data.EagerReload},
		{"SNAPSHOT_ENABLED", &cfg.Snapshot.Enabled},
	}
	for _, b := range bools {
		v, ok := env(EnvPrefix + b.key)
		if !ok {
			continue
		}
		parsed, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a boolean", ErrInvalid, EnvPrefix, b.key, v)
		}
		*b.dst = parsed
	}

	durs := []struct {
		key string
		dst *time.Duration
	}{
		{"DEBOUNCE", &cfg.Data.Debounce},
		{"SNAPSHOT_TTL", &cfg.Snapshot.TTL},
	}
	for _, d := range durs {
		v, ok := env(EnvPrefix + d.key)
		if !ok {
			continue
		}
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("%w: %s%s=%q is not a duration", ErrInvalid, EnvPrefix, d.key, v)
		}
		*d.dst = parsed
	}

	return nil
}
