package ffprobe

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"strings"

	"gifloop/internal/media/ffmpeg"
	"gifloop/internal/services"
)

// Source summarizes the first video stream of an input file.
type Source struct {
	Path       string
	FrameRate  float64
	FrameCount int
	Width      int
	Height     int
	Duration   float64
	// Counted is true when FrameCount came from decoding the stream.
	Counted bool
}

// Probe inspects path and returns its video properties. When the container
// carries no frame count the stream is decoded once to count frames.
func Probe(ctx context.Context, runner ffmpeg.Runner, binary, path string) (Source, error) {
	if runner == nil {
		runner = ffmpeg.CommandRunner{}
	}
	result, err := Inspect(ctx, runner, binary, path)
	if err != nil {
		return Source{}, services.Wrap(services.ErrExternalTool, "ffprobe", "probe source", path, err)
	}
	stream, ok := result.VideoStream()
	if !ok {
		return Source{}, services.Wrap(services.ErrValidation, "ffprobe", "probe source",
			fmt.Sprintf("%s has no video stream", path), nil)
	}

	src := Source{
		Path:       path,
		FrameRate:  stream.FrameRate(),
		FrameCount: stream.FrameCount(),
		Width:      stream.Width,
		Height:     stream.Height,
		Duration:   result.DurationSeconds(),
	}
	if math.IsNaN(src.Duration) {
		src.Duration = 0
	}
	if src.FrameRate <= 0 {
		return Source{}, services.Wrap(services.ErrParse, "ffprobe", "probe source",
			fmt.Sprintf("%s reports no usable frame rate (avg %q, r %q)", path, stream.AvgFrameRate, stream.RFrameRate), nil)
	}
	if src.FrameCount == 0 {
		count, err := CountFrames(ctx, runner, binary, path)
		if err != nil {
			return Source{}, err
		}
		src.FrameCount = count
		src.Counted = true
	}
	return src, nil
}

// CountFrames decodes the first video stream and returns its frame count.
func CountFrames(ctx context.Context, runner ffmpeg.Runner, binary, path string) (int, error) {
	binary = strings.TrimSpace(binary)
	if binary == "" {
		binary = "ffprobe"
	}
	output, err := runner.CombinedOutput(ctx, binary,
		"-v", "error",
		"-select_streams", "v:0",
		"-count_frames",
		"-show_entries", "stream=nb_read_frames",
		"-of", "csv=p=0",
		"--", path,
	)
	if err != nil {
		return 0, services.Wrap(services.ErrExternalTool, "ffprobe", "count frames", path, err)
	}
	text := strings.TrimSpace(string(output))
	// some containers report one line per program; the first is the stream
	if line, _, ok := strings.Cut(text, "\n"); ok {
		text = strings.TrimSpace(line)
	}
	text = strings.TrimSuffix(text, ",")
	count, err := strconv.Atoi(text)
	if err != nil || count <= 0 {
		return 0, services.Wrap(services.ErrParse, "ffprobe", "count frames",
			fmt.Sprintf("unexpected frame count %q for %s", text, path), err)
	}
	return count, nil
}
