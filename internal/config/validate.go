package config

import (
	"errors"
	"fmt"

	"gifloop/internal/scoring"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateAnalysis() error {
	if _, err := scoring.ParseMetric(c.Analysis.Metric); err != nil {
		return fmt.Errorf("analysis.metric: unsupported value %q (want psnr or ssim)", c.Analysis.Metric)
	}
	if c.Analysis.FrameHeight < 0 {
		return errors.New("analysis.frame_height must not be negative")
	}
	if c.Analysis.FrameRate < 0 {
		return errors.New("analysis.frame_rate must not be negative")
	}
	if c.Analysis.SkipFrames < 0 {
		return errors.New("analysis.skip_frames must not be negative")
	}
	if c.Analysis.MaxFrames < 0 {
		return errors.New("analysis.max_frames must not be negative")
	}
	if c.Analysis.MaxLengthSeconds < 0 {
		return errors.New("analysis.max_length_seconds must not be negative")
	}
	if c.Analysis.Parallelism < 0 {
		return errors.New("analysis.parallelism must not be negative")
	}
	if c.Analysis.FramesDir == c.Analysis.CachePath {
		return errors.New("analysis.frames_dir and analysis.cache_path must differ")
	}
	return nil
}

func (c *Config) validateOutput() error {
	if c.Output.FrameRate < 0 {
		return errors.New("output.frame_rate must not be negative")
	}
	if c.Output.FrameHeight < 0 {
		return errors.New("output.frame_height must not be negative")
	}
	if c.Output.GifPath == c.Output.PalettePath {
		return errors.New("output.gif_path and output.palette_path must differ")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json", "color":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (want console, json or color)", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "warning", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
