package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gifloop/internal/config"
	"gifloop/internal/scoring"
	"gifloop/internal/services"
)

func TestLoadDefaultsWhenNoFileExists(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	work := t.TempDir()
	t.Chdir(work)

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.False(t, exists, "config file should be absent in temp HOME")
	assert.Equal(t, filepath.Join(tempHome, ".config", "gifloop", "config.toml"), resolved)
	assert.Equal(t, "psnr", cfg.Analysis.Metric)
	assert.Equal(t, filepath.Join(work, "frames"), cfg.Analysis.FramesDir)
	assert.Equal(t, filepath.Join(work, "results.db"), cfg.Analysis.CachePath)
	assert.Equal(t, 360, cfg.Analysis.FrameHeight)
	assert.Equal(t, filepath.Join(work, "output.gif"), cfg.Output.GifPath)
	assert.Equal(t, filepath.Join(work, "palette.png"), cfg.Output.PalettePath)
	assert.Equal(t, "ffmpeg", cfg.Tools.FFmpeg)
	assert.Equal(t, "ffprobe", cfg.Tools.FFprobe)
	assert.Equal(t, "console", cfg.Logging.Format)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoadProjectFile(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	work := t.TempDir()
	t.Chdir(work)

	content := `
[analysis]
metric = " SSIM "
frames_dir = "~/loops/frames"
frame_rate = 12.5
skip_frames = 4
parallelism = 3

[output]
frame_height = 240

[tools]
ffmpeg = "/opt/ffmpeg/bin/ffmpeg"

[logging]
format = "JSON"
level = "Debug"
`
	require.NoError(t, os.WriteFile(filepath.Join(work, "gifloop.toml"), []byte(content), 0o644))

	cfg, resolved, exists, err := config.Load("")
	require.NoError(t, err)
	assert.True(t, exists)
	assert.Equal(t, filepath.Join(work, "gifloop.toml"), resolved)

	home, err := os.UserHomeDir()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "loops", "frames"), cfg.Analysis.FramesDir, "tilde is expanded")
	assert.Equal(t, "ssim", cfg.Analysis.Metric, "metric is normalized")
	assert.Equal(t, 12.5, cfg.Analysis.FrameRate)
	assert.Equal(t, 4, cfg.Analysis.SkipFrames)
	assert.Equal(t, 3, cfg.Analysis.Parallelism)
	assert.Equal(t, 240, cfg.Output.FrameHeight)
	assert.Equal(t, "/opt/ffmpeg/bin/ffmpeg", cfg.Tools.FFmpeg)
	assert.Equal(t, "json", cfg.Logging.Format)
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadExplicitMissingPathUsesDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nope.toml")

	cfg, resolved, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Equal(t, path, resolved)
	assert.Equal(t, "psnr", cfg.Analysis.Metric)
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	cases := []struct {
		name    string
		content string
		want    string
	}{
		{"unknown metric", "[analysis]\nmetric = \"vmaf\"\n", "analysis.metric"},
		{"negative skip", "[analysis]\nskip_frames = -1\n", "analysis.skip_frames"},
		{"negative max length", "[analysis]\nmax_length_seconds = -2\n", "analysis.max_length_seconds"},
		{"negative parallelism", "[analysis]\nparallelism = -4\n", "analysis.parallelism"},
		{"negative output fps", "[output]\nframe_rate = -1\n", "output.frame_rate"},
		{"same output files", "[output]\ngif_path = \"x\"\npalette_path = \"x\"\n", "output.gif_path"},
		{"bad log format", "[logging]\nformat = \"xml\"\n", "logging.format"},
		{"unknown key", "[analysis]\nmetrics = \"psnr\"\n", "parse config"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			t.Setenv("HOME", t.TempDir())
			path := filepath.Join(t.TempDir(), "config.toml")
			require.NoError(t, os.WriteFile(path, []byte(tc.content), 0o644))

			_, _, _, err := config.Load(path)
			require.ErrorIs(t, err, services.ErrValidation)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestCreateSampleIsLoadable(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	require.NoError(t, config.CreateSample(path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	var parsed config.Config
	require.NoError(t, toml.Unmarshal(data, &parsed), "sample config is valid TOML")

	_, _, exists, err := config.Load(path)
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestEncodeRoundTripsThroughLoad(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Analysis.Metric = "ssim"
	cfg.Analysis.MaxLengthSeconds = 3
	require.NoError(t, cfg.Finalize())

	data, err := cfg.Encode()
	require.NoError(t, err)
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	loaded, _, _, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, *loaded)
}

func TestDefaultWindows(t *testing.T) {
	assert.Equal(t, 5, config.DefaultSkipFrames(10))
	assert.Equal(t, 15, config.DefaultSkipFrames(29.97))
	assert.Equal(t, 1, config.DefaultSkipFrames(1))
	assert.Equal(t, 25, config.DefaultMaxFrames(10, 2.5))
	assert.Equal(t, 0, config.DefaultMaxFrames(10, 0))
}

func TestRunResolvesWindows(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	cfg.Analysis.Metric = "ssim"
	cfg.Analysis.FrameRate = 10
	cfg.Analysis.MaxLengthSeconds = 3
	cfg.Output.FrameRate = 15
	require.NoError(t, cfg.Finalize())

	run, err := cfg.Run(30)
	require.NoError(t, err)
	assert.Equal(t, scoring.MetricSSIM, run.Metric)
	assert.Equal(t, 10.0, run.AnalysisFPS)
	assert.Equal(t, 30.0, run.SourceFPS)
	assert.Equal(t, 5, run.SkipFrames)
	assert.Equal(t, 30, run.MaxFrames)

	params := run.Params(100)
	assert.Equal(t, 30, params.MaxFrames)
	assert.Equal(t, 15.0, params.OutputFPS)
	assert.NoError(t, params.Validate())
}

func TestRunUnboundedMaxUsesFrameCount(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	cfg := config.Default()
	require.NoError(t, cfg.Finalize())

	run, err := cfg.Run(24)
	require.NoError(t, err)
	assert.Equal(t, 24.0, run.AnalysisFPS)
	assert.Equal(t, 12, run.SkipFrames)
	assert.Equal(t, 0, run.MaxFrames)
	assert.Equal(t, 48, run.Params(48).MaxFrames, "unbounded max covers all frames")
	// 36 starting frames, each pairing with every later frame past the skip window
	assert.Equal(t, 36*37/2, run.PairCount(48))
}

func TestRunRejectsNonPositiveSourceRate(t *testing.T) {
	cfg := config.Default()
	_, err := cfg.Run(0)
	assert.ErrorIs(t, err, services.ErrValidation)
}
