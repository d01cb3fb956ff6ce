package progress

import (
	"io"
	"time"

	"github.com/schollz/progressbar/v3"

	"gifloop/internal/media/ffmpeg"
)

// EngineBar shows ffmpeg's own frame progress while it exports or renders.
type EngineBar struct {
	bar   *progressbar.ProgressBar
	total int
}

// NewEngineBar returns a bar of total frames written to out. A non-positive
// total renders an indeterminate spinner.
func NewEngineBar(out io.Writer, description string, total int) *EngineBar {
	if out == nil {
		out = io.Discard
	}
	limit := total
	if limit <= 0 {
		limit = -1
	}
	bar := progressbar.NewOptions(limit,
		progressbar.OptionSetWriter(out),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "#",
			SaucerHead:    "#",
			SaucerPadding: "-",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(30),
		progressbar.OptionThrottle(100*time.Millisecond),
		progressbar.OptionSetRenderBlankState(true),
		progressbar.OptionOnCompletion(func() {
			_, _ = io.WriteString(out, "\n")
		}),
	)
	return &EngineBar{bar: bar, total: total}
}

// Set moves the bar to frame, clamped to the total.
func (b *EngineBar) Set(frame int) {
	if b.total > 0 {
		frame = min(frame, b.total)
	}
	_ = b.bar.Set(frame)
}

// Finish fills the bar.
func (b *EngineBar) Finish() {
	_ = b.bar.Finish()
}

// Writer returns a progress stream consumer that drives the bar. Pass it as
// stdout to a command built with "-progress pipe:1".
func (b *EngineBar) Writer() *ffmpeg.ProgressWriter {
	return &ffmpeg.ProgressWriter{
		OnFrame: b.Set,
		OnEnd:   b.Finish,
	}
}
