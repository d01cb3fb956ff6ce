package loop

import (
	"fmt"
	"math"

	"gifloop/internal/services"
)

// BestLoop is the winning pair mapped onto the source video's timeline.
type BestLoop struct {
	Pair
	FromInput float64
	ToInput   float64
	SourceFPS float64
	OutputFPS float64
}

// Length is the loop duration in source frames.
func (b BestLoop) Length() float64 {
	return b.ToInput - b.FromInput
}

// Seconds is the loop duration in seconds.
func (b BestLoop) Seconds() float64 {
	if b.SourceFPS <= 0 {
		return 0
	}
	return b.Length() / b.SourceFPS
}

// OutputFrames is the number of frames the loop has at the output frame rate.
func (b BestLoop) OutputFrames() int {
	return int(math.Round(b.Seconds() * b.OutputFPS))
}

// InputFrame maps an analysis frame index onto the source timeline.
func InputFrame(idx int, sourceFPS, analysisFPS float64) float64 {
	return float64(idx) * (sourceFPS / analysisFPS)
}

// SelectBest returns the highest scoring pair. Ties go to the pair that was
// enumerated first. outputFPS of zero means the source frame rate.
func SelectBest(pairs []Pair, sourceFPS, analysisFPS, outputFPS float64) (BestLoop, error) {
	if len(pairs) == 0 {
		return BestLoop{}, services.Wrap(services.ErrConfiguration, "loop", "select best", "no candidate pairs", nil)
	}
	if sourceFPS <= 0 || analysisFPS <= 0 {
		return BestLoop{}, services.Wrap(
			services.ErrValidation,
			"loop",
			"select best",
			fmt.Sprintf("frame rates must be positive (source %g, analysis %g)", sourceFPS, analysisFPS),
			nil,
		)
	}

	best := -1
	for i, pair := range pairs {
		if !pair.Scored() {
			return BestLoop{}, services.Wrap(services.ErrValidation, "loop", "select best",
				fmt.Sprintf("pair %s has no score", pair), nil)
		}
		if math.IsNaN(pair.Value) {
			return BestLoop{}, services.Wrap(services.ErrValidation, "loop", "select best",
				fmt.Sprintf("pair (%d,%d) scored NaN", pair.From, pair.To), nil)
		}
		if best < 0 || pair.Value > pairs[best].Value {
			best = i
		}
	}

	winner := pairs[best]
	fps := outputFPS
	if fps <= 0 {
		fps = sourceFPS
	}
	return BestLoop{
		Pair:      winner,
		FromInput: InputFrame(winner.From, sourceFPS, analysisFPS),
		ToInput:   InputFrame(winner.To, sourceFPS, analysisFPS),
		SourceFPS: sourceFPS,
		OutputFPS: fps,
	}, nil
}
