package loop_test

import (
	"bytes"
	"context"
	"errors"
	"math/rand"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/loop"
	"gifloop/internal/progress"
	"gifloop/internal/services"
)

type memoryCache struct {
	mu      sync.Mutex
	values  map[loop.Key]float64
	order   []loop.Key
	failOn  int
	upserts int
}

func newMemoryCache() *memoryCache {
	return &memoryCache{values: make(map[loop.Key]float64)}
}

func (c *memoryCache) LoadAll(context.Context) (map[loop.Key]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[loop.Key]float64, len(c.values))
	for k, v := range c.values {
		out[k] = v
	}
	return out, nil
}

func (c *memoryCache) Upsert(_ context.Context, from, to int, value float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.upserts++
	if c.failOn > 0 && c.upserts == c.failOn {
		return services.Wrap(services.ErrCacheIO, "test", "upsert", "disk full", nil)
	}
	key := loop.Key{From: from, To: to}
	if _, ok := c.values[key]; ok {
		return nil
	}
	c.values[key] = value
	c.order = append(c.order, key)
	return nil
}

func (c *memoryCache) len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.values)
}

type fakeScorer struct {
	calls   atomic.Int64
	value   func(loop.Pair) float64
	delay   func() time.Duration
	failAt  int64
	touched sync.Map
}

func (s *fakeScorer) Score(ctx context.Context, pair loop.Pair) (loop.Pair, error) {
	if pair.Scored() {
		return pair, nil
	}
	n := s.calls.Add(1)
	s.touched.Store(pair.Key(), true)
	if s.delay != nil {
		select {
		case <-time.After(s.delay()):
		case <-ctx.Done():
			return pair, ctx.Err()
		}
	}
	if s.failAt > 0 && n == s.failAt {
		return pair, services.Wrap(services.ErrExternalTool, "test", "compare", "ffmpeg exited 1", nil)
	}
	pair.Value = s.value(pair)
	return pair, nil
}

func distanceScore(p loop.Pair) float64 {
	return 1 / float64(1+p.To-p.From)
}

func baseParams() loop.Params {
	return loop.Params{SourceFPS: 30, AnalysisFPS: 10, SkipFrames: 3, MaxFrames: 4, Parallelism: 4}
}

type recordingProgress struct {
	total   int
	updates []int
}

func (r *recordingProgress) Update(count int) { r.updates = append(r.updates, count) }

func TestAnalyzerScoresAllPairsAndCommitsInOrder(t *testing.T) {
	cache := newMemoryCache()
	rng := rand.New(rand.NewSource(1))
	var rngMu sync.Mutex
	scorer := &fakeScorer{
		value: distanceScore,
		delay: func() time.Duration {
			rngMu.Lock()
			defer rngMu.Unlock()
			return time.Duration(rng.Intn(2000)) * time.Microsecond
		},
	}
	sink := &recordingProgress{}
	analyzer := loop.NewAnalyzer(baseParams(), cache, scorer, loop.WithProgress(func(total int) loop.Progress {
		sink.total = total
		return sink
	}))

	res, err := analyzer.Run(context.Background(), 20)
	require.NoError(t, err)

	expected, err := loop.Enumerate(20, 3, 4)
	require.NoError(t, err)
	require.Len(t, res.Pairs, len(expected))
	assert.Equal(t, int64(len(expected)), scorer.calls.Load())
	assert.Equal(t, len(expected), res.Computed)
	assert.Zero(t, res.Cached)

	// cache writes follow enumeration order regardless of completion order
	require.Len(t, cache.order, len(expected))
	for i, p := range expected {
		assert.Equal(t, p.Key(), cache.order[i])
	}

	assert.Equal(t, len(expected), sink.total)
	require.Len(t, sink.updates, len(expected)+1)
	assert.Equal(t, 0, sink.updates[0])
	assert.Equal(t, len(expected), sink.updates[len(sink.updates)-1])

	// shortest loop wins; first enumerated at distance 3 is (1,4)
	assert.Equal(t, loop.Key{From: 1, To: 4}, res.Best.Key())
	assert.InDelta(t, 3.0, res.Best.FromInput, 1e-9)
	assert.InDelta(t, 12.0, res.Best.ToInput, 1e-9)
}

func TestAnalyzerCachedPairsAreNotRescored(t *testing.T) {
	cache := newMemoryCache()
	require.NoError(t, cache.Upsert(context.Background(), 1, 5, 0.87))
	scorer := &fakeScorer{value: func(loop.Pair) float64 { return 0.1 }}

	res, err := loop.NewAnalyzer(baseParams(), cache, scorer).Run(context.Background(), 12)
	require.NoError(t, err)

	_, touched := scorer.touched.Load(loop.Key{From: 1, To: 5})
	assert.False(t, touched, "cached pair must not reach the scorer")
	assert.Equal(t, 1, res.Cached)
	assert.Equal(t, loop.PairCount(12, 3, 4)-1, res.Computed)
	assert.Equal(t, loop.Pair{From: 1, To: 5, Value: 0.87}, res.Best.Pair)

	values, err := cache.LoadAll(context.Background())
	require.NoError(t, err)
	assert.InDelta(t, 0.87, values[loop.Key{From: 1, To: 5}], 1e-12)

	// a second run against the same cache makes no engine calls at all
	again := &fakeScorer{value: func(loop.Pair) float64 { return 0.99 }}
	res, err = loop.NewAnalyzer(baseParams(), cache, again).Run(context.Background(), 12)
	require.NoError(t, err)
	assert.Zero(t, again.calls.Load())
	assert.Equal(t, loop.PairCount(12, 3, 4), res.Cached)
	assert.InDelta(t, 0.87, res.Best.Value, 1e-12)
}

func TestAnalyzerIsDeterministicUnderRandomDelays(t *testing.T) {
	values := map[loop.Key]float64{}
	rng := rand.New(rand.NewSource(99))
	pairs, err := loop.Enumerate(16, 2, 5)
	require.NoError(t, err)
	for _, p := range pairs {
		values[p.Key()] = float64(rng.Intn(5))
	}

	var first loop.BestLoop
	for run := 0; run < 5; run++ {
		delayRng := rand.New(rand.NewSource(int64(run)))
		var mu sync.Mutex
		scorer := &fakeScorer{
			value: func(p loop.Pair) float64 { return values[p.Key()] },
			delay: func() time.Duration {
				mu.Lock()
				defer mu.Unlock()
				return time.Duration(delayRng.Intn(1500)) * time.Microsecond
			},
		}
		params := baseParams()
		params.SkipFrames, params.MaxFrames, params.Parallelism = 2, 5, 6
		res, err := loop.NewAnalyzer(params, newMemoryCache(), scorer).Run(context.Background(), 16)
		require.NoError(t, err)
		if run == 0 {
			first = res.Best
			continue
		}
		assert.Equal(t, first, res.Best)
	}
}

func TestAnalyzerResumeAfterFailure(t *testing.T) {
	cache := newMemoryCache()
	params := baseParams()
	total := loop.PairCount(30, 3, 4)

	failing := &fakeScorer{value: distanceScore, failAt: 25}
	_, err := loop.NewAnalyzer(params, cache, failing).Run(context.Background(), 30)
	require.Error(t, err)
	assert.True(t, errors.Is(err, services.ErrExternalTool))

	committed := cache.len()
	assert.Less(t, committed, total)

	resumed := &fakeScorer{value: distanceScore}
	res, err := loop.NewAnalyzer(params, cache, resumed).Run(context.Background(), 30)
	require.NoError(t, err)
	assert.LessOrEqual(t, resumed.calls.Load(), int64(total-committed))
	assert.Equal(t, committed, res.Cached)
	assert.Equal(t, total, cache.len())
}

func TestAnalyzerFailureEndsProgressLine(t *testing.T) {
	var out bytes.Buffer
	var reporter *progress.Reporter
	failing := &fakeScorer{value: distanceScore, failAt: 5}
	analyzer := loop.NewAnalyzer(baseParams(), newMemoryCache(), failing,
		loop.WithProgress(func(total int) loop.Progress {
			reporter = progress.NewReporter(&out, "Comparing frames", total, progress.WithInteractive(true))
			return reporter
		}),
	)

	_, err := analyzer.Run(context.Background(), 20)
	require.ErrorIs(t, err, services.ErrExternalTool)
	require.NotNil(t, reporter)
	assert.True(t, reporter.Done())
	assert.True(t, strings.HasSuffix(out.String(), "\n"), "progress line left open: %q", out.String())
	assert.Equal(t, 1, strings.Count(out.String(), "\n"))
}

func TestAnalyzerCacheWriteFailureAborts(t *testing.T) {
	cache := newMemoryCache()
	cache.failOn = 3
	scorer := &fakeScorer{value: distanceScore}
	_, err := loop.NewAnalyzer(baseParams(), cache, scorer).Run(context.Background(), 12)
	require.ErrorIs(t, err, services.ErrCacheIO)
	assert.Equal(t, 2, cache.len())
}

func TestAnalyzerEmptyCandidateSet(t *testing.T) {
	params := baseParams()
	params.SkipFrames = 10
	scorer := &fakeScorer{value: distanceScore}
	_, err := loop.NewAnalyzer(params, newMemoryCache(), scorer).Run(context.Background(), 5)
	require.ErrorIs(t, err, services.ErrConfiguration)
	assert.Zero(t, scorer.calls.Load())
}

func TestAnalyzerRejectsInvalidParams(t *testing.T) {
	params := baseParams()
	params.AnalysisFPS = 0
	_, err := loop.NewAnalyzer(params, newMemoryCache(), &fakeScorer{value: distanceScore}).Run(context.Background(), 20)
	require.ErrorIs(t, err, services.ErrConfiguration)
}

func TestAnalyzerHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	scorer := &fakeScorer{value: distanceScore, delay: func() time.Duration { return time.Second }}
	_, err := loop.NewAnalyzer(baseParams(), newMemoryCache(), scorer).Run(ctx, 20)
	require.ErrorIs(t, err, context.Canceled)
}
