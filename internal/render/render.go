package render

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"gifloop/internal/fileutil"
	"gifloop/internal/logging"
	"gifloop/internal/loop"
	"gifloop/internal/media/ffmpeg"
	"gifloop/internal/progress"
	"gifloop/internal/services"
)

// Job is one gif render.
type Job struct {
	Input       string
	PalettePath string
	GifPath     string
	Segment     ffmpeg.Segment
	// SourceFPS sizes the progress bar when Segment resamples the output.
	SourceFPS float64
}

// NewJob builds the job for best, trimming the source at the loop's input
// frames. height of zero keeps the source size.
func NewJob(input, palettePath, gifPath string, best loop.BestLoop, height int) Job {
	return Job{
		Input:       input,
		PalettePath: palettePath,
		GifPath:     gifPath,
		SourceFPS:   best.SourceFPS,
		Segment: ffmpeg.Segment{
			StartFrame: int(math.Round(best.FromInput)),
			EndFrame:   int(math.Round(best.ToInput)),
			FrameRate:  best.OutputFPS,
			Height:     height,
		},
	}
}

// OutputFrames estimates the number of frames in the gif.
func (j Job) OutputFrames() int {
	frames := float64(j.Segment.EndFrame - j.Segment.StartFrame)
	if j.Segment.FrameRate > 0 && j.SourceFPS > 0 {
		frames = frames * j.Segment.FrameRate / j.SourceFPS
	}
	return max(0, int(math.Round(frames)))
}

// Result summarizes a render.
type Result struct {
	Skipped bool
	Frames  int
	Elapsed time.Duration
}

// Renderer runs the two ffmpeg passes.
type Renderer struct {
	binary       string
	runner       ffmpeg.Runner
	logger       *slog.Logger
	progressOut  io.Writer
	engineOutput io.Writer
}

// Option configures a Renderer.
type Option func(*Renderer)

// WithRunner overrides the command runner.
func WithRunner(r ffmpeg.Runner) Option {
	return func(rd *Renderer) {
		if r != nil {
			rd.runner = r
		}
	}
}

// WithLogger sets the renderer's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(rd *Renderer) {
		if logger != nil {
			rd.logger = logger
		}
	}
}

// WithProgressOutput draws a progress bar on w while the gif is encoded.
func WithProgressOutput(w io.Writer) Option {
	return func(rd *Renderer) {
		rd.progressOut = w
	}
}

// WithEngineOutput forwards ffmpeg's stderr to w.
func WithEngineOutput(w io.Writer) Option {
	return func(rd *Renderer) {
		rd.engineOutput = w
	}
}

// New constructs a renderer running the given ffmpeg binary.
func New(binary string, opts ...Option) *Renderer {
	rd := &Renderer{
		binary: binary,
		runner: ffmpeg.CommandRunner{},
		logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(rd)
	}
	rd.logger = logging.NewComponentLogger(rd.logger, "render")
	return rd
}

// Render generates the palette and the gif for job.
func (rd *Renderer) Render(ctx context.Context, job Job) (Result, error) {
	logger := logging.WithContext(ctx, rd.logger)
	if job.Segment.EndFrame <= job.Segment.StartFrame {
		return Result{}, services.Wrap(services.ErrValidation, "render", "segment",
			fmt.Sprintf("empty segment %d..%d", job.Segment.StartFrame, job.Segment.EndFrame), nil)
	}

	paletteKind, err := outputKind(job.PalettePath)
	if err != nil {
		return Result{}, err
	}
	gifKind, err := outputKind(job.GifPath)
	if err != nil {
		return Result{}, err
	}
	if paletteKind == fileutil.RegularFile && gifKind == fileutil.RegularFile {
		logger.Info("gif already rendered",
			logging.String("gif", job.GifPath),
			logging.String("palette", job.PalettePath),
		)
		return Result{Skipped: true}, nil
	}

	for _, path := range []string{job.PalettePath, job.GifPath} {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return Result{}, services.Wrap(services.ErrValidation, "render", "create dir", path, err)
		}
	}

	start := time.Now()
	logger.Info("generating palette",
		logging.String("input", job.Input),
		logging.String("palette", job.PalettePath),
		logging.String("filter", job.Segment.Filter()),
	)
	if err := rd.run(ctx, "palettegen", ffmpeg.PaletteArgs(job.Input, job.PalettePath, job.Segment), nil); err != nil {
		return Result{}, err
	}

	frames := job.OutputFrames()
	logger.Info("rendering gif",
		logging.String("gif", job.GifPath),
		logging.Int("frames", frames),
	)
	var stdout io.Writer
	var bar *progress.EngineBar
	if rd.progressOut != nil {
		bar = progress.NewEngineBar(rd.progressOut, "Rendering gif", frames)
		stdout = bar.Writer()
	}
	if err := rd.run(ctx, "paletteuse", ffmpeg.RenderArgs(job.Input, job.PalettePath, job.GifPath, job.Segment), stdout); err != nil {
		return Result{}, err
	}
	if bar != nil {
		bar.Finish()
	}

	res := Result{Frames: frames, Elapsed: time.Since(start)}
	logger.Info("gif rendered",
		logging.String("gif", job.GifPath),
		logging.Duration("elapsed", res.Elapsed),
	)
	return res, nil
}

func (rd *Renderer) run(ctx context.Context, pass string, args []string, stdout io.Writer) error {
	if err := rd.runner.Run(ctx, rd.binary, args, stdout, rd.engineOutput); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		return services.Wrap(services.ErrExternalTool, "render", pass, "", err)
	}
	return nil
}

func outputKind(path string) (fileutil.Kind, error) {
	kind, err := fileutil.Stat(path)
	if err != nil {
		return kind, services.Wrap(services.ErrValidation, "render", "stat", path, err)
	}
	if kind != fileutil.Missing && kind != fileutil.RegularFile {
		return kind, services.Wrap(services.ErrValidation, "render", "stat",
			fmt.Sprintf("%s exists and is a %s, not a regular file", path, kind), nil)
	}
	return kind, nil
}
