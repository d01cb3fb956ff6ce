package config

import "math"

const (
	defaultMetric           = "psnr"
	defaultFramesDir        = "frames"
	defaultCachePath        = "results.db"
	defaultAnalysisHeight   = 360
	defaultGifPath          = "output.gif"
	defaultPalettePath      = "palette.png"
	defaultFFmpegBinary     = "ffmpeg"
	defaultFFprobeBinary    = "ffprobe"
	defaultLogFormat        = "console"
	defaultLogLevel         = "info"
	defaultSkipWindowSecond = 0.5
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Analysis: Analysis{
			Metric:      defaultMetric,
			FramesDir:   defaultFramesDir,
			CachePath:   defaultCachePath,
			FrameHeight: defaultAnalysisHeight,
		},
		Output: Output{
			GifPath:     defaultGifPath,
			PalettePath: defaultPalettePath,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}

// DefaultSkipFrames is the minimum loop length, half a second of analysis
// frames and never less than one.
func DefaultSkipFrames(analysisFPS float64) int {
	return max(1, int(math.Round(defaultSkipWindowSecond*analysisFPS)))
}

// DefaultMaxFrames converts a maximum loop duration into analysis frames.
// Zero means the loop length is unbounded.
func DefaultMaxFrames(analysisFPS, maxLengthSeconds float64) int {
	if maxLengthSeconds <= 0 || analysisFPS <= 0 {
		return 0
	}
	return max(1, int(math.Round(analysisFPS*maxLengthSeconds)))
}
