package scoring

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"gifloop/internal/logging"
	"gifloop/internal/media/ffmpeg"
	"gifloop/internal/services"
)

// Comparer scores the similarity of two image files.
type Comparer interface {
	Compare(ctx context.Context, fromPath, toPath string, m Metric) (float64, error)
}

// FFmpegComparer runs ffmpeg's quality filters to compare two images.
type FFmpegComparer struct {
	runner    ffmpeg.Runner
	binary    string
	logger    *slog.Logger
	logOutput bool
}

// ComparerOption configures an FFmpegComparer.
type ComparerOption func(*FFmpegComparer)

// WithRunner overrides the command runner.
func WithRunner(runner ffmpeg.Runner) ComparerOption {
	return func(c *FFmpegComparer) {
		if runner != nil {
			c.runner = runner
		}
	}
}

// WithLogger sets the comparer's logger.
func WithLogger(logger *slog.Logger) ComparerOption {
	return func(c *FFmpegComparer) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithOutputLogging logs the full ffmpeg output of every comparison at debug
// level.
func WithOutputLogging(enabled bool) ComparerOption {
	return func(c *FFmpegComparer) {
		c.logOutput = enabled
	}
}

// NewFFmpegComparer builds a comparer that invokes binary, defaulting to
// "ffmpeg" on PATH.
func NewFFmpegComparer(binary string, opts ...ComparerOption) *FFmpegComparer {
	if binary == "" {
		binary = "ffmpeg"
	}
	c := &FFmpegComparer{
		runner: ffmpeg.CommandRunner{},
		binary: binary,
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	c.logger = logging.NewComponentLogger(c.logger, "scoring")
	return c
}

// Compare implements Comparer.
func (c *FFmpegComparer) Compare(ctx context.Context, fromPath, toPath string, m Metric) (float64, error) {
	if !m.Valid() {
		return 0, services.Wrap(services.ErrValidation, "scoring", "compare", fmt.Sprintf("invalid metric %d", int(m)), nil)
	}
	output, err := c.runner.CombinedOutput(ctx, c.binary, ffmpeg.CompareArgs(fromPath, toPath, m.Filter())...)
	if c.logOutput {
		c.logger.Debug("ffmpeg compare output",
			logging.String("from", filepath.Base(fromPath)),
			logging.String("to", filepath.Base(toPath)),
			logging.String("output", string(output)),
		)
	}
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, services.Wrap(
			services.ErrExternalTool,
			"scoring",
			"compare",
			fmt.Sprintf("%s %s vs %s", m, filepath.Base(fromPath), filepath.Base(toPath)),
			err,
		)
	}
	return ExtractScore(string(output), m)
}
