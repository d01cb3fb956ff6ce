package scoring

import (
	"context"
	"fmt"

	"gifloop/internal/loop"
)

// FramePather maps a 1-based analysis frame index to its image file.
type FramePather interface {
	Path(index int) string
}

// Scorer resolves loop pairs with a fixed metric. It satisfies
// loop.PairScorer.
type Scorer struct {
	comparer Comparer
	frames   FramePather
	metric   Metric
}

// NewScorer binds a comparer, a frame store and a metric.
func NewScorer(comparer Comparer, frames FramePather, m Metric) *Scorer {
	return &Scorer{comparer: comparer, frames: frames, metric: m}
}

// Metric returns the metric the scorer computes.
func (s *Scorer) Metric() Metric {
	return s.metric
}

// Score returns pair with its value filled in. A pair that already carries a
// value is returned as is without running the comparer.
func (s *Scorer) Score(ctx context.Context, pair loop.Pair) (loop.Pair, error) {
	if pair.Scored() {
		return pair, nil
	}
	value, err := s.comparer.Compare(ctx, s.frames.Path(pair.From), s.frames.Path(pair.To), s.metric)
	if err != nil {
		return pair, fmt.Errorf("score pair %d-%d: %w", pair.From, pair.To, err)
	}
	pair.Value = value
	return pair, nil
}
