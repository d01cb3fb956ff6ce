package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"gifloop/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*configBuilder)

type configBuilder struct {
	t       testing.TB
	baseDir string
	cfg     *config.Config
}

// NewConfig produces a config whose output and cache paths live in a unique
// temp directory per test. It applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Analysis.FramesDir = filepath.Join(base, "frames")
	cfgVal.Analysis.CachePath = filepath.Join(base, "results.db")
	cfgVal.Analysis.Parallelism = 2
	cfgVal.Output.GifPath = filepath.Join(base, "out", "loop.gif")
	cfgVal.Output.PalettePath = filepath.Join(base, "palette.png")
	cfgVal.Logging.Level = "error"

	builder := &configBuilder{
		t:       t,
		baseDir: base,
		cfg:     &cfgVal,
	}

	for _, opt := range opts {
		opt(builder)
	}

	return builder.cfg
}

// WithMetric selects the similarity metric on the test config.
func WithMetric(metric string) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.Metric = metric
	}
}

// WithWindow sets the skip and max frame windows on the test config.
func WithWindow(skip, maxFrames int) ConfigOption {
	return func(b *configBuilder) {
		b.cfg.Analysis.SkipFrames = skip
		b.cfg.Analysis.MaxFrames = maxFrames
	}
}

// WithStubbedMedia writes ffmpeg and ffprobe stand-ins into the test
// directory and points the config at them. See StubMedia for their behavior.
func WithStubbedMedia(media StubMedia) ConfigOption {
	return func(b *configBuilder) {
		ffmpegPath, ffprobePath := media.Install(b.t, filepath.Join(b.baseDir, "bin"))
		b.cfg.Tools.FFmpeg = ffmpegPath
		b.cfg.Tools.FFprobe = ffprobePath
	}
}

// WithStubbedBinaries writes no-op executables for the provided names and
// prepends them to PATH. If names is empty, ffmpeg and ffprobe are stubbed.
func WithStubbedBinaries(names ...string) ConfigOption {
	return func(b *configBuilder) {
		if len(names) == 0 {
			names = []string{"ffmpeg", "ffprobe"}
		}
		binDir := filepath.Join(b.baseDir, "path-bin")
		for _, name := range names {
			WriteExecutable(b.t, filepath.Join(binDir, name), "#!/bin/sh\nexit 0\n")
		}
		b.t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
	}
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Analysis.CachePath)
}
