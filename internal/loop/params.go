package loop

import (
	"fmt"

	"gifloop/internal/services"
)

// Params are the immutable inputs of one analysis run.
type Params struct {
	SourceFPS   float64
	AnalysisFPS float64
	SkipFrames  int
	MaxFrames   int
	Parallelism int
	// OutputFPS overrides the rendered frame rate; zero keeps SourceFPS.
	OutputFPS float64
}

// Validate rejects parameters that cannot describe a run.
func (p Params) Validate() error {
	switch {
	case p.SourceFPS <= 0:
		return paramError(fmt.Sprintf("source frame rate %g must be positive", p.SourceFPS))
	case p.AnalysisFPS <= 0:
		return paramError(fmt.Sprintf("analysis frame rate %g must be positive", p.AnalysisFPS))
	case p.SkipFrames < 1:
		return paramError(fmt.Sprintf("skip frames %d must be at least 1", p.SkipFrames))
	case p.MaxFrames < 1:
		return paramError(fmt.Sprintf("max frames %d must be at least 1", p.MaxFrames))
	case p.Parallelism < 0:
		return paramError(fmt.Sprintf("parallelism %d must not be negative", p.Parallelism))
	case p.OutputFPS < 0:
		return paramError(fmt.Sprintf("output frame rate %g must not be negative", p.OutputFPS))
	}
	return nil
}

func paramError(message string) error {
	return services.Wrap(services.ErrConfiguration, "loop", "validate params", message, nil)
}
