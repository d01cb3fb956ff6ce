package ffmpeg

import (
	"path/filepath"
	"strconv"
	"strings"
)

var baseArgs = []string{"-hide_banner", "-nostats"}

// CompareArgs returns the arguments that run the metric filter over two still
// images and discard the output, leaving the filter summary on stderr.
func CompareArgs(fromPath, toPath, filter string) []string {
	args := append([]string{}, baseArgs...)
	return append(args,
		"-i", fromPath,
		"-i", toPath,
		"-lavfi", filter,
		"-f", "null",
		"-",
	)
}

// ExportFramesArgs returns the arguments that downscale input to height pixels,
// resample it to fps and write one PNG per frame as dir/1.png, dir/2.png, ...
// A zero height keeps the source size; a zero fps keeps the source rate.
// Progress key=value lines are written to stdout.
func ExportFramesArgs(input, dir string, height int, fps float64) []string {
	var filters []string
	if height > 0 {
		filters = append(filters, "scale=-1:"+strconv.Itoa(height)+":flags=lanczos")
	}
	if fps > 0 {
		filters = append(filters, "fps="+FormatRate(fps))
	}
	args := append([]string{}, baseArgs...)
	args = append(args, "-progress", "pipe:1", "-i", input)
	if len(filters) > 0 {
		args = append(args, "-vf", strings.Join(filters, ","))
	}
	return append(args, filepath.Join(dir, "%d.png"))
}

// Segment describes the part of the source video that becomes the gif.
type Segment struct {
	StartFrame int
	EndFrame   int
	// FrameRate resamples the output when positive.
	FrameRate float64
	// Height scales the output when positive, keeping the aspect ratio.
	Height int
}

// Filter renders the trim/fps/scale filter chain for the segment.
func (s Segment) Filter() string {
	var b strings.Builder
	b.WriteString("trim=start_frame=")
	b.WriteString(strconv.Itoa(s.StartFrame))
	b.WriteString(":end_frame=")
	b.WriteString(strconv.Itoa(s.EndFrame))
	if s.FrameRate > 0 {
		b.WriteString(",fps=")
		b.WriteString(FormatRate(s.FrameRate))
	}
	if s.Height > 0 {
		b.WriteString(",scale=-1:")
		b.WriteString(strconv.Itoa(s.Height))
		b.WriteString(":flags=lanczos")
	}
	return b.String()
}

// PaletteArgs returns the arguments that generate an optimized gif palette
// for the segment.
func PaletteArgs(input, palettePath string, seg Segment) []string {
	args := append([]string{}, baseArgs...)
	return append(args,
		"-y",
		"-i", input,
		"-vf", seg.Filter()+",palettegen",
		palettePath,
	)
}

// RenderArgs returns the arguments that encode the segment as a gif using the
// palette. Progress key=value lines are written to stdout.
func RenderArgs(input, palettePath, outputPath string, seg Segment) []string {
	args := append([]string{}, baseArgs...)
	return append(args,
		"-y",
		"-progress", "pipe:1",
		"-i", input,
		"-i", palettePath,
		"-filter_complex", seg.Filter()+"[x];[x][1:v]paletteuse",
		outputPath,
	)
}

// FormatRate formats a frame rate without trailing zeros.
func FormatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}
