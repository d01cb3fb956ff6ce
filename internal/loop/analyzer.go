package loop

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"gifloop/internal/logging"
	"gifloop/internal/services"
	"gifloop/internal/workerpool"
)

// Cache is the persistent score store consulted and extended by a run.
type Cache interface {
	LoadAll(ctx context.Context) (map[Key]float64, error)
	Upsert(ctx context.Context, from, to int, value float64) error
}

// PairScorer resolves the value of a single pair.
type PairScorer interface {
	Score(ctx context.Context, pair Pair) (Pair, error)
}

// Progress receives the number of resolved pairs after each result. A sink
// with an Abort method is told when the run fails.
type Progress interface {
	Update(count int)
}

// ProgressFactory builds a progress sink once the total is known.
type ProgressFactory func(total int) Progress

// Result summarizes a completed run.
type Result struct {
	Best     BestLoop
	Pairs    []Pair
	Cached   int
	Computed int
	Elapsed  time.Duration
}

// Analyzer runs the enumerate, score and select pipeline for one video.
type Analyzer struct {
	params      Params
	cache       Cache
	scorer      PairScorer
	newProgress ProgressFactory
	logger      *slog.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithProgress installs a progress sink factory.
func WithProgress(factory ProgressFactory) Option {
	return func(a *Analyzer) {
		a.newProgress = factory
	}
}

// WithLogger sets the analyzer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(a *Analyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// NewAnalyzer constructs an analyzer for the given parameters.
func NewAnalyzer(params Params, cache Cache, scorer PairScorer, opts ...Option) *Analyzer {
	a := &Analyzer{
		params: params,
		cache:  cache,
		scorer: scorer,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.logger = logging.NewComponentLogger(a.logger, "analyzer")
	return a
}

// Params returns the parameters the analyzer was built with.
func (a *Analyzer) Params() Params {
	return a.params
}

// Run scores every candidate pair of frameCount analysis frames and returns
// the best loop. Scores already present in the cache are reused; each fresh
// score is committed to the cache in enumeration order before the next one is
// consumed, so an interrupted run resumes where it stopped.
func (a *Analyzer) Run(ctx context.Context, frameCount int) (Result, error) {
	start := time.Now()
	if err := a.params.Validate(); err != nil {
		return Result{}, err
	}
	if a.cache == nil || a.scorer == nil {
		return Result{}, services.Wrap(services.ErrConfiguration, "loop", "run", "analyzer requires a cache and a scorer", nil)
	}
	logger := logging.WithContext(ctx, a.logger)

	pairs, err := Enumerate(frameCount, a.params.SkipFrames, a.params.MaxFrames)
	if err != nil {
		return Result{}, err
	}

	known, err := a.cache.LoadAll(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("prefill from cache: %w", err)
	}

	pending := make([]Pair, 0, len(pairs))
	positions := make([]int, 0, len(pairs))
	for i := range pairs {
		if value, ok := known[pairs[i].Key()]; ok {
			pairs[i].Value = value
			continue
		}
		pending = append(pending, pairs[i])
		positions = append(positions, i)
	}
	cached := len(pairs) - len(pending)

	logger.Info("analysis started",
		logging.Int("frames", frameCount),
		logging.Int("skip_frames", a.params.SkipFrames),
		logging.Int("max_frames", a.params.MaxFrames),
		logging.Int("pairs", len(pairs)),
		logging.Int("cached", cached),
		logging.Int("pending", len(pending)),
		logging.Int("parallelism", a.parallelism()),
	)

	var progress Progress = noopProgress{}
	if a.newProgress != nil {
		if sink := a.newProgress(len(pairs)); sink != nil {
			progress = sink
		}
	}
	completed := cached
	progress.Update(completed)

	computed := 0
	err = workerpool.Ordered(ctx, a.params.Parallelism, pending,
		func(ctx context.Context, pair Pair) (Pair, error) {
			return a.scorer.Score(ctx, pair)
		},
		func(index int, scored Pair) error {
			if scored.Key() != pending[index].Key() || !scored.Scored() {
				return services.Wrap(services.ErrValidation, "loop", "collect score",
					fmt.Sprintf("scorer returned %s for pair %s", scored, pending[index]), nil)
			}
			pairs[positions[index]] = scored
			completed++
			progress.Update(completed)
			if err := a.cache.Upsert(ctx, scored.From, scored.To, scored.Value); err != nil {
				return err
			}
			computed++
			logger.Debug("pair scored",
				logging.Int("from", scored.From),
				logging.Int("to", scored.To),
				logging.Float64("value", scored.Value),
			)
			return nil
		},
	)
	if err != nil {
		if aborter, ok := progress.(interface{ Abort() }); ok {
			aborter.Abort()
		}
		logger.Error("analysis aborted",
			logging.Int("computed", computed),
			logging.Int("remaining", len(pending)-computed),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, services.Hint(err)),
		)
		return Result{}, err
	}

	best, err := SelectBest(pairs, a.params.SourceFPS, a.params.AnalysisFPS, a.params.OutputFPS)
	if err != nil {
		return Result{}, err
	}
	elapsed := time.Since(start)
	logger.Info("analysis complete",
		logging.Int("from", best.From),
		logging.Int("to", best.To),
		logging.Float64("value", best.Value),
		logging.Int("computed", computed),
		logging.Duration("elapsed", elapsed),
	)
	return Result{
		Best:     best,
		Pairs:    pairs,
		Cached:   cached,
		Computed: computed,
		Elapsed:  elapsed,
	}, nil
}

func (a *Analyzer) parallelism() int {
	if a.params.Parallelism > 0 {
		return a.params.Parallelism
	}
	return workerpool.DefaultSize()
}

type noopProgress struct{}

func (noopProgress) Update(int) {}
