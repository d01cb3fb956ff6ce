package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizeAnalysis(); err != nil {
		return err
	}
	if err := c.normalizeOutput(); err != nil {
		return err
	}
	if err := c.normalizeTools(); err != nil {
		return err
	}
	return c.normalizeLogging()
}

func (c *Config) normalizeAnalysis() error {
	c.Analysis.Metric = strings.ToLower(strings.TrimSpace(c.Analysis.Metric))
	if c.Analysis.Metric == "" {
		c.Analysis.Metric = defaultMetric
	}
	var err error
	if c.Analysis.FramesDir, err = expandDefault(c.Analysis.FramesDir, defaultFramesDir); err != nil {
		return fmt.Errorf("analysis.frames_dir: %w", err)
	}
	if c.Analysis.CachePath, err = expandDefault(c.Analysis.CachePath, defaultCachePath); err != nil {
		return fmt.Errorf("analysis.cache_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() error {
	var err error
	if c.Output.GifPath, err = expandDefault(c.Output.GifPath, defaultGifPath); err != nil {
		return fmt.Errorf("output.gif_path: %w", err)
	}
	if c.Output.PalettePath, err = expandDefault(c.Output.PalettePath, defaultPalettePath); err != nil {
		return fmt.Errorf("output.palette_path: %w", err)
	}
	return nil
}

func (c *Config) normalizeTools() error {
	var err error
	if c.Tools.FFmpeg, err = normalizeBinary(c.Tools.FFmpeg, defaultFFmpegBinary); err != nil {
		return fmt.Errorf("tools.ffmpeg: %w", err)
	}
	if c.Tools.FFprobe, err = normalizeBinary(c.Tools.FFprobe, defaultFFprobeBinary); err != nil {
		return fmt.Errorf("tools.ffprobe: %w", err)
	}
	return nil
}

func (c *Config) normalizeLogging() error {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if strings.TrimSpace(c.Logging.File) == "" {
		c.Logging.File = ""
		return nil
	}
	var err error
	if c.Logging.File, err = expandPath(strings.TrimSpace(c.Logging.File)); err != nil {
		return fmt.Errorf("logging.file: %w", err)
	}
	return nil
}

func expandDefault(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		value = fallback
	}
	return expandPath(value)
}

// normalizeBinary keeps bare command names for PATH lookup and expands
// anything that looks like a path.
func normalizeBinary(value, fallback string) (string, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	if strings.HasPrefix(value, "~") || strings.ContainsAny(value, `/\`) {
		return expandPath(value)
	}
	return value, nil
}
