package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math"

	"gifloop/internal/config"
	"gifloop/internal/fileutil"
	"gifloop/internal/framestore"
	"gifloop/internal/logging"
	"gifloop/internal/loop"
	"gifloop/internal/media/ffmpeg"
	"gifloop/internal/media/ffprobe"
	"gifloop/internal/progress"
	"gifloop/internal/render"
	"gifloop/internal/resultcache"
	"gifloop/internal/scoring"
	"gifloop/internal/services"
)

// pipeline wires the internal packages for one invocation.
type pipeline struct {
	cfg       *config.Config
	logger    *slog.Logger
	runner    ffmpeg.Runner
	stderr    io.Writer
	verbosity int
}

func newPipeline(cfg *config.Config, logger *slog.Logger, stderr io.Writer, verbosity int) *pipeline {
	return &pipeline{
		cfg:       cfg,
		logger:    logger,
		runner:    ffmpeg.CommandRunner{},
		stderr:    stderr,
		verbosity: verbosity,
	}
}

// engineOutput is where ffmpeg's own log goes during export and render.
func (p *pipeline) engineOutput() io.Writer {
	if p.verbosity >= 1 {
		return p.stderr
	}
	return nil
}

// probe inspects the source and freezes the run configuration for it.
func (p *pipeline) probe(ctx context.Context, input string) (ffprobe.Source, config.Run, error) {
	kind, err := fileutil.Stat(input)
	if err != nil {
		return ffprobe.Source{}, config.Run{}, services.Wrap(services.ErrValidation, "cli", "probe", input, err)
	}
	if kind != fileutil.RegularFile {
		return ffprobe.Source{}, config.Run{}, services.Wrap(services.ErrNotFound, "cli", "probe",
			fmt.Sprintf("input %s is not a readable file (%s)", input, kind), nil)
	}
	src, err := ffprobe.Probe(ctx, p.runner, p.cfg.Tools.FFprobe, input)
	if err != nil {
		return ffprobe.Source{}, config.Run{}, err
	}
	run, err := p.cfg.Run(src.FrameRate)
	if err != nil {
		return ffprobe.Source{}, config.Run{}, err
	}
	logging.WithContext(ctx, p.logger).Info("source probed",
		logging.String("input", input),
		logging.Float64("fps", src.FrameRate),
		logging.Int("frames", src.FrameCount),
		logging.Bool("counted", src.Counted),
		logging.Float64("analysis_fps", run.AnalysisFPS),
		logging.Int("skip_frames", run.SkipFrames),
		logging.Int("max_frames", run.MaxFrames),
	)
	return src, run, nil
}

// expectedFrames estimates how many analysis frames the export writes.
func expectedFrames(src ffprobe.Source, run config.Run) int {
	if src.FrameRate <= 0 {
		return src.FrameCount
	}
	return int(math.Round(float64(src.FrameCount) * run.AnalysisFPS / src.FrameRate))
}

// frames returns the analysis frame store, exporting it when absent.
func (p *pipeline) frames(ctx context.Context, input string, src ffprobe.Source, run config.Run) (framestore.Store, int, error) {
	store := framestore.New(run.FramesDir)
	exporter := framestore.NewExporter(run.FFmpeg,
		framestore.WithRunner(p.runner),
		framestore.WithLogger(p.logger),
		framestore.WithProgressOutput(p.stderr),
		framestore.WithEngineOutput(p.engineOutput()),
	)
	req := framestore.Request{
		Input:    input,
		Height:   run.AnalysisHeight,
		Expected: expectedFrames(src, run),
	}
	// resampling is skipped when analysis runs at the source rate
	if run.AnalysisFPS != run.SourceFPS {
		req.FrameRate = run.AnalysisFPS
	}
	count, _, err := exporter.Ensure(ctx, store, req)
	if err != nil {
		return store, 0, err
	}
	return store, count, nil
}

// existingFrames returns the analysis frame store without exporting.
func (p *pipeline) existingFrames(run config.Run) (framestore.Store, int, error) {
	store := framestore.New(run.FramesDir)
	count, err := store.Count()
	if err != nil {
		return store, 0, err
	}
	if count == 0 {
		return store, 0, services.Wrap(services.ErrNotAnalyzed, "cli", "frames",
			fmt.Sprintf("no analysis frames in %s", run.FramesDir), nil)
	}
	return store, count, nil
}

// framesForPlan returns the exported frame count, or the expected count when
// nothing has been exported yet.
func (p *pipeline) framesForPlan(src ffprobe.Source, run config.Run) (int, error) {
	count, err := framestore.New(run.FramesDir).Count()
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return count, nil
	}
	return expectedFrames(src, run), nil
}

func (p *pipeline) openCache(ctx context.Context, run config.Run) (*resultcache.Store, error) {
	return resultcache.Open(ctx, run.CachePath, resultcache.WithLogger(p.logger))
}

// analyze scores every candidate pair and selects the best loop.
func (p *pipeline) analyze(ctx context.Context, run config.Run, store framestore.Store, frameCount int) (loop.Result, error) {
	cache, err := p.openCache(ctx, run)
	if err != nil {
		return loop.Result{}, err
	}
	defer cache.Close()

	comparer := scoring.NewFFmpegComparer(run.FFmpeg,
		scoring.WithRunner(p.runner),
		scoring.WithLogger(p.logger),
		scoring.WithOutputLogging(p.verbosity >= 2),
	)
	scorer := scoring.NewScorer(comparer, store, run.Metric)
	analyzer := loop.NewAnalyzer(run.Params(frameCount), cache, scorer,
		loop.WithLogger(p.logger),
		loop.WithProgress(func(total int) loop.Progress {
			return progress.NewReporter(p.stderr, "Comparing frames", total, progress.WithLogger(p.logger))
		}),
	)
	return analyzer.Run(ctx, frameCount)
}

// cachedBest selects the best loop from scores already in the cache. Any
// candidate pair without a stored score fails the selection.
func (p *pipeline) cachedBest(ctx context.Context, run config.Run, frameCount int) (loop.Result, error) {
	cache, err := p.openCache(ctx, run)
	if err != nil {
		return loop.Result{}, err
	}
	defer cache.Close()

	analyzer := loop.NewAnalyzer(run.Params(frameCount), cache, cacheOnlyScorer{}, loop.WithLogger(p.logger))
	return analyzer.Run(ctx, frameCount)
}

// render writes the palette and the gif for best.
func (p *pipeline) render(ctx context.Context, input string, run config.Run, best loop.BestLoop) (render.Job, render.Result, error) {
	job := render.NewJob(input, run.PalettePath, run.GifPath, best, run.OutputHeight)
	rd := render.New(run.FFmpeg,
		render.WithRunner(p.runner),
		render.WithLogger(p.logger),
		render.WithProgressOutput(p.stderr),
		render.WithEngineOutput(p.engineOutput()),
	)
	res, err := rd.Render(ctx, job)
	return job, res, err
}

// cleanReport lists what clean removed.
type cleanReport struct {
	Frames int
	Files  []string
}

// clean removes the intermediate files of a run. The gif is kept.
func (p *pipeline) clean(run config.Run) (cleanReport, error) {
	var report cleanReport
	removed, err := framestore.New(run.FramesDir).Remove()
	report.Frames = removed
	if err != nil {
		return report, fmt.Errorf("remove frames: %w", err)
	}
	paths := append(resultcache.Files(run.CachePath), run.PalettePath)
	files, err := fileutil.RemoveFiles(paths...)
	report.Files = files
	if err != nil {
		return report, err
	}
	p.logger.Info("intermediate files removed",
		logging.Int("frames", report.Frames),
		logging.Int("files", len(report.Files)),
	)
	return report, nil
}

type cacheOnlyScorer struct{}

func (cacheOnlyScorer) Score(_ context.Context, pair loop.Pair) (loop.Pair, error) {
	return pair, services.Wrap(services.ErrNotAnalyzed, "cli", "render",
		fmt.Sprintf("pair %s has no cached score", pair), nil)
}
