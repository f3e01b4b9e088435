// SPDX-License-Identifier: MIT
package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/katalvlaran/mrio/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func envOf(kv map[string]string) config.LookupFunc {
	return func(k string) (string, bool) {
		v, ok := kv[k]
		return v, ok
	}
}

func writeYAML(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "mrio.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func TestLoadFileAndDefaults(t *testing.T) {
	t.Parallel()
	p := writeYAML(t, `
data:
  stressors: data/S.csv
  leontief: gs://mrio/L.csv
  watch: true
  debounce: 1s
server:
  addr: ":9000"
snapshot:
  enabled: true
  path: /var/lib/mrio
  ttl: 24h
`)
	cfg, err := config.LoadWith(p, envOf(nil))
	require.NoError(t, err)

	want := config.Default()
	want.Data.Stressors = "data/S.csv"
	want.Data.Leontief = "gs://mrio/L.csv"
	want.Data.Watch = true
	want.Data.Debounce = time.Second
	want.Server.Addr = ":9000"
	want.Snapshot = config.SnapshotConfig{Enabled: true, Path: "/var/lib/mrio", TTL: 24 * time.Hour}

	if diff := cmp.Diff(want, *cfg); diff != "" {
		t.Fatalf("config mismatch (-want +got):\n%s", diff)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Parallel()
	p := writeYAML(t, "data:\n  stressors: a.csv\n  leontief: b.csv\n")

	cfg, err := config.LoadWith(p, envOf(map[string]string{
		"MRIO_STRESSORS":        "env/S.csv",
		"MRIO_LOG_LEVEL":        "debug",
		"MRIO_WATCH":            "true",
		"MRIO_DEBOUNCE":         "2s",
		"MRIO_SNAPSHOT_ENABLED": "1",
		"MRIO_SNAPSHOT_PATH":    "/tmp/snap",
		"MRIO_TRACE_EXPORTER":   "stdout",
	}))
	require.NoError(t, err)
	assert.Equal(t, "env/S.csv", cfg.Data.Stressors)
	assert.Equal(t, "b.csv", cfg.Data.Leontief)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.True(t, cfg.Data.Watch)
	assert.Equal(t, 2*time.Second, cfg.Data.Debounce)
	assert.True(t, cfg.Snapshot.Enabled)
	assert.Equal(t, "stdout", cfg.Telemetry.TraceExporter)
}

func TestEnvOnly(t *testing.T) {
	t.Parallel()
	cfg, err := config.LoadWith("", envOf(map[string]string{
		"MRIO_STRESSORS": "S.csv",
		"MRIO_LEONTIEF":  "L.csv",
	}))
	require.NoError(t, err)
	assert.Equal(t, "minus_direct", cfg.Data.DefaultPolicy)
}

func TestInvalid(t *testing.T) {
	t.Parallel()

	base := map[string]string{"MRIO_STRESSORS": "S.csv", "MRIO_LEONTIEF": "L.csv"}
	with := func(k, v string) map[string]string {
		m := map[string]string{k: v}
		for bk, bv := range base {
			if bk != k {
				m[bk] = bv
			}
		}
		return m
	}

	tests := []struct {
		name    string
		env     map[string]string
		wantMsg string
	}{
		{"missing sources", map[string]string{}, "Config.Data.Stressors"},
		{"bad policy", with("MRIO_DEFAULT_POLICY", "bogus"), "Config.Data.DefaultPolicy"},
		{"bad level", with("MRIO_LOG_LEVEL", "loud"), "Config.Log.Level"},
		{"bad addr", with("MRIO_ADDR", "nowhere"), "Config.Server.Addr"},
		{"snapshot without path", with("MRIO_SNAPSHOT_ENABLED", "true"), "Config.Snapshot.Path"},
		{"otlp without endpoint", map[string]string{
			"MRIO_STRESSORS": "S.csv", "MRIO_LEONTIEF": "L.csv",
			"MRIO_TRACE_EXPORTER": "otlp", "MRIO_OTLP_ENDPOINT": "",
		}, "Config.Telemetry.OTLPEndpoint"},
		{"bad bool", with("MRIO_WATCH", "sometimes"), "MRIO_WATCH"},
		{"bad duration", with("MRIO_DEBOUNCE", "soon"), "MRIO_DEBOUNCE"},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := config.LoadWith("", envOf(tc.env))
			require.ErrorIs(t, err, config.ErrInvalid)
			assert.Contains(t, err.Error(), tc.wantMsg)
		})
	}
}

func TestUnknownKeyRejected(t *testing.T) {
	t.Parallel()
	p := writeYAML(t, "data:\n  stressors: a.csv\n  leontief: b.csv\n  stressor: typo.csv\n")
	_, err := config.LoadWith(p, envOf(nil))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "stressor")
}

func TestEmptyFileUsesDefaults(t *testing.T) {
	t.Parallel()
	p := writeYAML(t, "")
	cfg, err := config.LoadWith(p, envOf(map[string]string{"MRIO_STRESSORS": "S", "MRIO_LEONTIEF": "L"}))
	require.NoError(t, err)
	assert.Equal(t, config.Default().Server, cfg.Server)
}

func TestMarshalRoundTrip(t *testing.T) {
	t.Parallel()
	cfg := config.Default()
	cfg.Data.Stressors, cfg.Data.Leontief = "S.csv", "L.csv"
	raw, err := cfg.Marshal()
	require.NoError(t, err)

	p := writeYAML(t, string(raw))
	got, err := config.LoadWith(p, envOf(nil))
	require.NoError(t, err)
	assert.Equal(t, cfg, *got)
}
