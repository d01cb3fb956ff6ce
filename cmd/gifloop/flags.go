package main

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"gifloop/internal/config"
)

// runFlags overrides config file values for the analysis commands. Only
// flags the user set are applied.
type runFlags struct {
	metric         string
	framesDir      string
	cachePath      string
	analysisFPS    float64
	analysisHeight int
	skipFrames     int
	maxFrames      int
	maxLength      float64
	parallelism    int

	gifPath      string
	palettePath  string
	outputFPS    float64
	outputHeight int

	ffmpeg  string
	ffprobe string
}

func (f *runFlags) bindAnalysis(fs *pflag.FlagSet) {
	fs.StringVarP(&f.metric, "metric", "m", "", "Similarity metric (psnr or ssim)")
	fs.StringVar(&f.framesDir, "frames-dir", "", "Directory holding the exported analysis frames")
	fs.StringVar(&f.cachePath, "cache", "", "Result cache database path")
	fs.Float64Var(&f.analysisFPS, "analysis-fps", 0, "Frame rate of the exported analysis frames (0 = source)")
	fs.IntVar(&f.analysisHeight, "analysis-height", 0, "Height of the exported analysis frames")
	fs.IntVarP(&f.skipFrames, "skip-frames", "s", 0, "Minimum loop length in analysis frames")
	fs.IntVarP(&f.maxFrames, "max-frames", "x", 0, "Maximum loop length in analysis frames")
	fs.Float64Var(&f.maxLength, "max-length", 0, "Maximum loop length in seconds when --max-frames is unset")
	fs.IntVarP(&f.parallelism, "jobs", "j", 0, "Concurrent comparisons (0 = one per CPU)")
	fs.StringVar(&f.ffmpeg, "ffmpeg", "", "ffmpeg binary")
	fs.StringVar(&f.ffprobe, "ffprobe", "", "ffprobe binary")
}

func (f *runFlags) bindOutput(fs *pflag.FlagSet) {
	fs.StringVarP(&f.gifPath, "output", "o", "", "Gif output path")
	fs.StringVar(&f.palettePath, "palette", "", "Palette image path")
	fs.Float64Var(&f.outputFPS, "output-fps", 0, "Gif frame rate (0 = source)")
	fs.IntVar(&f.outputHeight, "output-height", 0, "Gif height (0 = source)")
}

// apply copies changed flags onto cfg and re-validates it.
func (f *runFlags) apply(cmd *cobra.Command, cfg *config.Config) error {
	fs := cmd.Flags()
	set := func(name string, fn func()) {
		if flag := fs.Lookup(name); flag != nil && flag.Changed {
			fn()
		}
	}
	set("metric", func() { cfg.Analysis.Metric = f.metric })
	set("frames-dir", func() { cfg.Analysis.FramesDir = f.framesDir })
	set("cache", func() { cfg.Analysis.CachePath = f.cachePath })
	set("analysis-fps", func() { cfg.Analysis.FrameRate = f.analysisFPS })
	set("analysis-height", func() { cfg.Analysis.FrameHeight = f.analysisHeight })
	set("skip-frames", func() { cfg.Analysis.SkipFrames = f.skipFrames })
	set("max-frames", func() { cfg.Analysis.MaxFrames = f.maxFrames })
	set("max-length", func() { cfg.Analysis.MaxLengthSeconds = f.maxLength })
	set("jobs", func() { cfg.Analysis.Parallelism = f.parallelism })
	set("ffmpeg", func() { cfg.Tools.FFmpeg = f.ffmpeg })
	set("ffprobe", func() { cfg.Tools.FFprobe = f.ffprobe })
	set("output", func() { cfg.Output.GifPath = f.gifPath })
	set("palette", func() { cfg.Output.PalettePath = f.palettePath })
	set("output-fps", func() { cfg.Output.FrameRate = f.outputFPS })
	set("output-height", func() { cfg.Output.FrameHeight = f.outputHeight })
	return cfg.Finalize()
}

// resolve loads the shared config and applies the command's overrides.
func (f *runFlags) resolve(cmd *cobra.Command, ctx *commandContext) (*config.Config, error) {
	cfg, err := ctx.configCopy()
	if err != nil {
		return nil, err
	}
	if err := f.apply(cmd, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
