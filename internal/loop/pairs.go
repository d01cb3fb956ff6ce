package loop

import (
	"fmt"

	"gifloop/internal/services"
)

// Unscored marks a pair whose similarity has not been computed yet.
const Unscored = -1.0

// Key identifies a pair independent of its score.
type Key struct {
	From int
	To   int
}

// Pair is a candidate loop between two 1-based analysis frames.
type Pair struct {
	From  int
	To    int
	Value float64
}

// Key returns the (from, to) identity of the pair.
func (p Pair) Key() Key {
	return Key{From: p.From, To: p.To}
}

// Scored reports whether the pair carries a computed value.
func (p Pair) Scored() bool {
	return p.Value != Unscored
}

func (p Pair) String() string {
	if !p.Scored() {
		return fmt.Sprintf("(%d,%d)", p.From, p.To)
	}
	return fmt.Sprintf("(%d,%d,%g)", p.From, p.To, p.Value)
}

// Enumerate returns every candidate pair for n analysis frames. A pair
// (i+1, x+1) is emitted for each i in [0, n-skip) and x in
// [i+skip, min(n, i+skip+limit)), so every loop spans at least skip and fewer
// than skip+limit frames. All returned pairs are Unscored.
//
// An empty candidate set is a configuration error rather than a result.
func Enumerate(n, skip, limit int) ([]Pair, error) {
	if err := checkWindow(n, skip, limit); err != nil {
		return nil, err
	}
	count := PairCount(n, skip, limit)
	if count == 0 {
		return nil, services.Wrap(
			services.ErrConfiguration,
			"loop",
			"enumerate pairs",
			fmt.Sprintf("no candidate pairs for %d frames with skip %d and max %d", n, skip, limit),
			nil,
		)
	}

	pairs := make([]Pair, 0, count)
	for i := 0; i < n-skip; i++ {
		end := min(n, i+skip+limit)
		for x := i + skip; x < end; x++ {
			pairs = append(pairs, Pair{From: i + 1, To: x + 1, Value: Unscored})
		}
	}
	return pairs, nil
}

// PairCount returns len(Enumerate(n, skip, limit)) without allocating. Invalid
// windows count as zero.
func PairCount(n, skip, limit int) int {
	if checkWindow(n, skip, limit) != nil {
		return 0
	}
	total := 0
	for i := 0; i < n-skip; i++ {
		end := min(n, i+skip+limit)
		total += end - (i + skip)
	}
	return total
}

func checkWindow(n, skip, limit int) error {
	switch {
	case n < 0:
		return windowError(fmt.Sprintf("frame count %d is negative", n))
	case skip < 1:
		// skip 0 would pair a frame with itself
		return windowError(fmt.Sprintf("skip frames %d must be at least 1", skip))
	case limit < 1:
		return windowError(fmt.Sprintf("max frames %d must be at least 1", limit))
	}
	return nil
}

func windowError(message string) error {
	return services.Wrap(services.ErrConfiguration, "loop", "validate window", message, nil)
}
