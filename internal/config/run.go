package config

import (
	"fmt"

	"gifloop/internal/loop"
	"gifloop/internal/scoring"
	"gifloop/internal/services"
)

// Run is the frozen configuration of one analysis, built once the source
// frame rate is known. It is passed by value and never modified.
type Run struct {
	Metric      scoring.Metric
	SourceFPS   float64
	AnalysisFPS float64
	SkipFrames  int
	// MaxFrames of zero lets a loop span every remaining analysis frame.
	MaxFrames   int
	Parallelism int

	FramesDir      string
	CachePath      string
	AnalysisHeight int

	GifPath      string
	PalettePath  string
	OutputFPS    float64 // 0 = source frame rate
	OutputHeight int     // 0 = source height

	FFmpeg  string
	FFprobe string
}

// Run resolves the analysis frame rate and the loop windows for a source
// video playing at sourceFPS.
func (c *Config) Run(sourceFPS float64) (Run, error) {
	if sourceFPS <= 0 {
		return Run{}, services.Wrap(services.ErrValidation, "config", "build run",
			fmt.Sprintf("source frame rate %g must be positive", sourceFPS), nil)
	}
	metric, err := scoring.ParseMetric(c.Analysis.Metric)
	if err != nil {
		return Run{}, err
	}

	analysisFPS := c.Analysis.FrameRate
	if analysisFPS <= 0 {
		analysisFPS = sourceFPS
	}
	skip := c.Analysis.SkipFrames
	if skip <= 0 {
		skip = DefaultSkipFrames(analysisFPS)
	}
	maxFrames := c.Analysis.MaxFrames
	if maxFrames <= 0 {
		maxFrames = DefaultMaxFrames(analysisFPS, c.Analysis.MaxLengthSeconds)
	}

	return Run{
		Metric:         metric,
		SourceFPS:      sourceFPS,
		AnalysisFPS:    analysisFPS,
		SkipFrames:     skip,
		MaxFrames:      maxFrames,
		Parallelism:    c.Analysis.Parallelism,
		FramesDir:      c.Analysis.FramesDir,
		CachePath:      c.Analysis.CachePath,
		AnalysisHeight: c.Analysis.FrameHeight,
		GifPath:        c.Output.GifPath,
		PalettePath:    c.Output.PalettePath,
		OutputFPS:      c.Output.FrameRate,
		OutputHeight:   c.Output.FrameHeight,
		FFmpeg:         c.Tools.FFmpeg,
		FFprobe:        c.Tools.FFprobe,
	}, nil
}

// Params returns the loop parameters for frameCount exported analysis frames.
func (r Run) Params(frameCount int) loop.Params {
	maxFrames := r.MaxFrames
	if maxFrames <= 0 {
		maxFrames = max(1, frameCount)
	}
	return loop.Params{
		SourceFPS:   r.SourceFPS,
		AnalysisFPS: r.AnalysisFPS,
		SkipFrames:  r.SkipFrames,
		MaxFrames:   maxFrames,
		Parallelism: r.Parallelism,
		OutputFPS:   r.OutputFPS,
	}
}

// PairCount is the number of candidate pairs for frameCount analysis frames.
func (r Run) PairCount(frameCount int) int {
	p := r.Params(frameCount)
	return loop.PairCount(frameCount, p.SkipFrames, p.MaxFrames)
}
