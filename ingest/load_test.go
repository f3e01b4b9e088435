// SPDX-License-Identifier: MIT
package ingest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/katalvlaran/mrio/ingest"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
)

func writeFile(t *testing.T, dir, name, body string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))

	return p
}

func TestLoadReindexesStressors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	// S lists an extra producer and a different order.
	sPath := writeFile(t, dir, "S.csv", `region,CN,DE,US,US
sector,Construction,Construction,Steel,Construction
CO2,2,7,3,5
`)
	lPath := writeFile(t, dir, "L.csv", leontiefCSV)

	ld := ingest.NewLoader(ingest.WithLogger(zaptest.NewLogger(t)))
	tabs, err := ld.Load(context.Background(), sPath, "file://"+lPath)
	require.NoError(t, err)

	assert.True(t, tabs.S.Producers().Equal(tabs.L.Producers()))
	row, ok := tabs.S.Row("CO2")
	require.True(t, ok)
	assert.Equal(t, []float64{5, 3, 2}, row)
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	lPath := writeFile(t, dir, "L.csv", leontiefCSV)
	gapPath := writeFile(t, dir, "S_gap.csv", "region,US\nsector,Construction\nCO2,5\n")
	badPath := writeFile(t, dir, "S_bad.csv", "region,US\nsector,Construction\nCO2,x\n")

	ld := ingest.NewLoader()
	ctx := context.Background()

	_, err := ld.Load(ctx, gapPath, lPath)
	require.ErrorIs(t, err, ingest.ErrColumnGap)
	var gap *table.ColumnGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, 2, gap.Count)
	assert.Equal(t, []producer.Key{usSteel, cnCons}, gap.Missing)
	assert.Empty(t, gap.Stressor)

	_, err = ld.Load(ctx, badPath, lPath)
	require.ErrorIs(t, err, ingest.ErrParse)

	_, err = ld.Load(ctx, filepath.Join(dir, "missing.csv"), lPath)
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = ld.Load(ctx, "s3://bucket/S.csv", lPath)
	require.ErrorIs(t, err, ingest.ErrUnsupportedSource)

	_, err = ld.Load(ctx, "gs://bucket/S.csv", lPath)
	require.ErrorIs(t, err, ingest.ErrUnsupportedSource) // no client configured
}

func TestLoadCanceled(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sPath := writeFile(t, dir, "S.csv", stressorsCSV)
	lPath := writeFile(t, dir, "L.csv", leontiefCSV)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := ingest.NewLoader().Load(ctx, sPath, lPath)
	require.ErrorIs(t, err, context.Canceled)
}

func TestFingerprint(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	sPath := writeFile(t, dir, "S.csv", stressorsCSV)
	lPath := writeFile(t, dir, "L.csv", leontiefCSV)
	ld := ingest.NewLoader()
	ctx := context.Background()

	a, err := ld.Fingerprint(ctx, sPath, lPath)
	require.NoError(t, err)
	b, err := ld.Fingerprint(ctx, sPath, lPath)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Len(t, a, 64)

	writeFile(t, dir, "S.csv", stressorsCSV+"CH4,1,1,1\n")
	c, err := ld.Fingerprint(ctx, sPath, lPath)
	require.NoError(t, err)
	assert.NotEqual(t, a, c) // size changed

	_, err = ld.Fingerprint(ctx, filepath.Join(dir, "nope.csv"), lPath)
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestParseLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri     string
		want    ingest.Location
		wantErr bool
	}{
		{"data/S.csv", ingest.Location{URI: "data/S.csv", Path: "data/S.csv"}, false},
		{"file:///srv/S.csv", ingest.Location{URI: "file:///srv/S.csv", Path: "/srv/S.csv"}, false},
		{"gs://b/dir/S.csv", ingest.Location{URI: "gs://b/dir/S.csv", Bucket: "b", Object: "dir/S.csv"}, false},
		{"gs://b", ingest.Location{}, true},
		{"gs:///obj", ingest.Location{}, true},
		{"https://x/S.csv", ingest.Location{}, true},
		{"", ingest.Location{}, true},
	}
	for _, tc := range tests {
		tc := tc
		t.Run(tc.uri, func(t *testing.T) {
			t.Parallel()
			got, err := ingest.ParseLocation(tc.uri)
			if tc.wantErr {
				require.ErrorIs(t, err, ingest.ErrUnsupportedSource)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
			assert.Equal(t, tc.want.Bucket == "", got.Local())
		})
	}
}
