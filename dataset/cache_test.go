// SPDX-License-Identifier: MIT
package dataset_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/katalvlaran/mrio/dataset"
	"github.com/katalvlaran/mrio/decomp"
	"github.com/katalvlaran/mrio/ingest"
	"github.com/katalvlaran/mrio/producer"
	"github.com/katalvlaran/mrio/snapshot"
	"github.com/katalvlaran/mrio/table"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap/zaptest"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var usCons = producer.K("US", "Construction")

func tables(t *testing.T, co2 float64) *ingest.Tables {
	t.Helper()
	idx := producer.MustIndex(usCons, producer.K("CN", "Construction"))
	s, err := table.NewStressorTable([]string{"CO2"}, idx, [][]float64{{co2, 2}})
	require.NoError(t, err)
	l, err := table.NewLeontiefInverse(idx, idx, [][]float64{{1.2, 0.1}, {0.3, 1.05}})
	require.NoError(t, err)

	return &ingest.Tables{S: s, L: l}
}

// fakeLoader counts loads; gate, when set, blocks each load until closed.
type fakeLoader struct {
	t     *testing.T
	loads atomic.Int32
	gate  chan struct{}
	err   error
	fp    string
}

func (f *fakeLoader) Load(ctx context.Context, _, _ string) (*ingest.Tables, error) {
	n := f.loads.Add(1)
	if f.gate != nil {
		<-f.gate
	}
	if f.err != nil {
		return nil, f.err
	}

	return tables(f.t, float64(n)), nil
}

func (f *fakeLoader) Fingerprint(context.Context, string, string) (string, error) {
	return f.fp, nil
}

func TestNewRequiresSources(t *testing.T) {
	_, err := dataset.New("", "L.csv")
	require.ErrorIs(t, err, dataset.ErrNoSources)
}

func TestGetLoadsOnceAndReuses(t *testing.T) {
	fl := &fakeLoader{t: t}
	c, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(fl), dataset.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	assert.Nil(t, c.Current())

	a, err := c.Get(context.Background())
	require.NoError(t, err)
	b, err := c.Get(context.Background())
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.Same(t, a, c.Current())
	assert.EqualValues(t, 1, fl.loads.Load())
	assert.Equal(t, dataset.OriginCSV, a.Origin)
	assert.Equal(t, []string{"CO2"}, a.Catalog.Stressors)
}

func TestConcurrentGetSharesOneLoad(t *testing.T) {
	fl := &fakeLoader{t: t, gate: make(chan struct{})}
	c, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(fl))
	require.NoError(t, err)

	const callers = 16
	var wg sync.WaitGroup
	got := make([]*dataset.Snapshot, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			got[i], _ = c.Get(context.Background())
		}(i)
	}
	require.Eventually(t, func() bool { return fl.loads.Load() == 1 }, time.Second, time.Millisecond)
	close(fl.gate)
	wg.Wait()

	assert.EqualValues(t, 1, fl.loads.Load())
	for i := range got {
		require.NotNil(t, got[i])
		assert.Same(t, got[0], got[i])
	}
}

func TestInvalidateReloadsNewSnapshot(t *testing.T) {
	fl := &fakeLoader{t: t}
	c, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(fl))
	require.NoError(t, err)
	ctx := context.Background()

	old, err := c.Get(ctx)
	require.NoError(t, err)
	c.Invalidate()
	assert.Nil(t, c.Current())

	fresh, err := c.Get(ctx)
	require.NoError(t, err)
	assert.NotSame(t, old, fresh)
	assert.EqualValues(t, 2, fl.loads.Load())

	// The old snapshot is untouched and still answers queries.
	v, ok := old.Tables.S.Value("CO2", usCons)
	require.True(t, ok)
	assert.Equal(t, 1.0, v)
	v, _ = fresh.Tables.S.Value("CO2", usCons)
	assert.Equal(t, 2.0, v)
}

func TestLoadErrorIsNotCached(t *testing.T) {
	boom := errors.New("boom")
	fl := &fakeLoader{t: t, err: boom}
	c, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(fl))
	require.NoError(t, err)

	_, err = c.Get(context.Background())
	require.ErrorIs(t, err, boom)
	assert.Nil(t, c.Current())

	fl.err = nil
	_, err = c.Get(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 2, fl.loads.Load())
}

func TestGetHonorsCallerContext(t *testing.T) {
	fl := &fakeLoader{t: t, gate: make(chan struct{})}
	c, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(fl))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		_, err := c.Get(ctx)
		done <- err
	}()
	require.Eventually(t, func() bool { return fl.loads.Load() == 1 }, time.Second, time.Millisecond)
	cancel()
	require.ErrorIs(t, <-done, context.Canceled)

	// The detached load still completes and is installed.
	close(fl.gate)
	require.Eventually(t, func() bool { return c.Current() != nil }, time.Second, time.Millisecond)
}

func TestStoreShortCircuitsParsing(t *testing.T) {
	st, err := snapshot.Open(snapshot.InMemoryConfig())
	require.NoError(t, err)
	defer st.Close()

	first := &fakeLoader{t: t, fp: "abc"}
	c1, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(first), dataset.WithStore(st))
	require.NoError(t, err)
	s1, err := c1.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dataset.OriginCSV, s1.Origin)
	assert.Equal(t, "abc", s1.Fingerprint)

	second := &fakeLoader{t: t, fp: "abc"}
	c2, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(second), dataset.WithStore(st))
	require.NoError(t, err)
	s2, err := c2.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dataset.OriginStore, s2.Origin)
	assert.EqualValues(t, 0, second.loads.Load())
	assert.Equal(t, s1.Tables.S.Values(), s2.Tables.S.Values())

	// A different fingerprint misses and parses.
	third := &fakeLoader{t: t, fp: "def"}
	c3, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(third), dataset.WithStore(st))
	require.NoError(t, err)
	s3, err := c3.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dataset.OriginCSV, s3.Origin)
}

func TestSnapshotDecompose(t *testing.T) {
	fl := &fakeLoader{t: t}
	c, err := dataset.New("S.csv", "L.csv", dataset.WithLoader(fl))
	require.NoError(t, err)
	snap, err := c.Get(context.Background())
	require.NoError(t, err)

	res, err := snap.Decompose(context.Background(), decomp.Query{Stressor: "CO2", Target: usCons})
	require.NoError(t, err)
	assert.InDelta(t, 1.0, res.Direct, 1e-12)

	_, err = snap.Decompose(context.Background(), decomp.Query{Stressor: "N2O", Target: usCons})
	require.ErrorIs(t, err, decomp.ErrUnknownStressor)
	assert.Equal(t, "unknown_stressor", dataset.ErrorKind(err))
	assert.Equal(t, "invalid_policy", dataset.ErrorKind(decomp.ErrInvalidPolicy))
	assert.Equal(t, "internal", dataset.ErrorKind(errors.New("x")))
}

func TestWatchInvalidatesOnWrite(t *testing.T) {
	dir := t.TempDir()
	sPath := filepath.Join(dir, "S.csv")
	lPath := filepath.Join(dir, "L.csv")
	require.NoError(t, os.WriteFile(sPath, []byte("region,US\nsector,A\nCO2,1\n"), 0o600))
	require.NoError(t, os.WriteFile(lPath, []byte("region,,US\nsector,,A\nUS,A,1\n"), 0o600))

	c, err := dataset.New(sPath, lPath,
		dataset.WithDebounce(10*time.Millisecond),
		dataset.WithEagerReload(true),
		dataset.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	first, err := c.Get(context.Background())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- c.Watch(ctx) }()
	defer func() {
		cancel()
		require.NoError(t, <-done)
	}()

	// Keep rewriting until the watcher is registered and reacts.
	require.Eventually(t, func() bool {
		_ = os.WriteFile(sPath, []byte("region,US\nsector,A\nCO2,7\n"), 0o600)
		cur := c.Current()
		if cur == nil || cur == first {
			return false
		}
		v, _ := cur.Tables.S.Value("CO2", producer.K("US", "A"))
		return v == 7
	}, 5*time.Second, 50*time.Millisecond)
}

func TestWatchRemoteOnly(t *testing.T) {
	c, err := dataset.New("gs://b/S.csv", "gs://b/L.csv")
	require.NoError(t, err)
	require.ErrorIs(t, c.Watch(context.Background()), dataset.ErrNothingToWatch)
}

func TestLoadGapKind(t *testing.T) {
	dir := t.TempDir()
	sPath := filepath.Join(dir, "S.csv")
	lPath := filepath.Join(dir, "L.csv")
	require.NoError(t, os.WriteFile(sPath, []byte("region,US\nsector,Construction\nCO2,5\n"), 0o600))
	require.NoError(t, os.WriteFile(lPath, []byte("region,,US,DE\nsector,,Construction,Construction\nUS,Construction,1,0\nDE,Construction,0,1\n"), 0o600))

	c, err := dataset.New(sPath, lPath, dataset.WithLogger(zaptest.NewLogger(t)))
	require.NoError(t, err)
	_, err = c.Get(context.Background())
	require.ErrorIs(t, err, decomp.ErrAlignmentGap)
	assert.Equal(t, "alignment_gap", dataset.ErrorKind(err))

	var gap *decomp.AlignmentGapError
	require.ErrorAs(t, err, &gap)
	assert.Equal(t, []producer.Key{producer.K("DE", "Construction")}, gap.Missing)
	assert.Nil(t, c.Current())
}
