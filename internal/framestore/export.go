package framestore

import (
	"context"
	"io"
	"log/slog"
	"os"
	"time"

	"gifloop/internal/logging"
	"gifloop/internal/media/ffmpeg"
	"gifloop/internal/progress"
	"gifloop/internal/services"
)

// Request describes the frames to extract from a source video.
type Request struct {
	Input     string
	Height    int
	FrameRate float64
	// Expected sizes the progress bar; zero shows a spinner.
	Expected int
}

// Exporter writes analysis frames with ffmpeg.
type Exporter struct {
	binary       string
	runner       ffmpeg.Runner
	logger       *slog.Logger
	progressOut  io.Writer
	engineOutput io.Writer
}

// ExportOption configures an Exporter.
type ExportOption func(*Exporter)

// WithRunner overrides the command runner.
func WithRunner(r ffmpeg.Runner) ExportOption {
	return func(e *Exporter) {
		if r != nil {
			e.runner = r
		}
	}
}

// WithLogger sets the exporter's logger.
func WithLogger(logger *slog.Logger) ExportOption {
	return func(e *Exporter) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithProgressOutput draws a progress bar on w while frames are written.
func WithProgressOutput(w io.Writer) ExportOption {
	return func(e *Exporter) {
		e.progressOut = w
	}
}

// WithEngineOutput forwards ffmpeg's stderr to w.
func WithEngineOutput(w io.Writer) ExportOption {
	return func(e *Exporter) {
		e.engineOutput = w
	}
}

// NewExporter constructs an exporter running the given ffmpeg binary.
func NewExporter(binary string, opts ...ExportOption) *Exporter {
	e := &Exporter{
		binary: binary,
		runner: ffmpeg.CommandRunner{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = logging.NewComponentLogger(e.logger, "framestore")
	return e
}

// Ensure returns the frame count of store, exporting frames first when the
// directory is absent or holds none. The boolean reports whether an export
// ran.
func (e *Exporter) Ensure(ctx context.Context, store Store, req Request) (int, bool, error) {
	count, err := store.Count()
	if err != nil {
		return 0, false, err
	}
	if count > 0 {
		logging.WithContext(ctx, e.logger).Info("reusing exported frames",
			logging.String("dir", store.Dir()),
			logging.Int("frames", count),
		)
		return count, false, nil
	}
	count, err = e.Export(ctx, store, req)
	return count, err == nil, err
}

// Export runs ffmpeg to write req as numbered frames into store and returns
// how many were written.
func (e *Exporter) Export(ctx context.Context, store Store, req Request) (int, error) {
	logger := logging.WithContext(ctx, e.logger)
	if _, err := store.Exists(); err != nil {
		return 0, err
	}
	if err := os.MkdirAll(store.Dir(), 0o755); err != nil {
		return 0, services.Wrap(services.ErrValidation, "framestore", "create dir", store.Dir(), err)
	}

	logger.Info("exporting frames",
		logging.String("input", req.Input),
		logging.String("dir", store.Dir()),
		logging.Int("height", req.Height),
		logging.Float64("fps", req.FrameRate),
	)
	start := time.Now()

	var stdout io.Writer
	var bar *progress.EngineBar
	if e.progressOut != nil {
		bar = progress.NewEngineBar(e.progressOut, "Exporting frames", req.Expected)
		stdout = bar.Writer()
	}
	args := ffmpeg.ExportFramesArgs(req.Input, store.Dir(), req.Height, req.FrameRate)
	if err := e.runner.Run(ctx, e.binary, args, stdout, e.engineOutput); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, services.Wrap(services.ErrExternalTool, "framestore", "export", req.Input, err)
	}
	if bar != nil {
		bar.Finish()
	}

	count, err := store.Count()
	if err != nil {
		return 0, err
	}
	if count == 0 {
		return 0, services.Wrap(services.ErrExternalTool, "framestore", "export", "ffmpeg wrote no frames from "+req.Input, nil)
	}
	logger.Info("frames exported",
		logging.Int("frames", count),
		logging.Duration("elapsed", time.Since(start)),
	)
	return count, nil
}
