package progress

import (
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/mattn/go-isatty"

	"gifloop/internal/logging"
)

// Reporter writes monotonic progress for a fixed total.
type Reporter struct {
	mu          sync.Mutex
	out         io.Writer
	bar         Bar
	count       int
	rendered    bool
	finished    bool
	interactive bool
	sampler     *logging.ProgressSampler
	logger      *slog.Logger
}

// Option configures a Reporter.
type Option func(*Reporter)

// WithWidth overrides the bar width.
func WithWidth(width int) Option {
	return func(r *Reporter) {
		r.bar.Width = width
	}
}

// WithInteractive forces in-place rendering on or off instead of detecting a
// terminal.
func WithInteractive(interactive bool) Option {
	return func(r *Reporter) {
		r.interactive = interactive
	}
}

// WithLogger emits a debug record for every sampled update.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reporter) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReporter constructs a reporter writing to out.
func NewReporter(out io.Writer, label string, total int, opts ...Option) *Reporter {
	if out == nil {
		out = io.Discard
	}
	r := &Reporter{
		out:         out,
		bar:         Bar{Label: label, Width: DefaultWidth, Total: total},
		interactive: isTerminal(out),
		sampler:     logging.NewProgressSampler(10),
		logger:      logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Update sets the completed count and redraws. Counts lower than the current
// one are ignored so the display never moves backwards.
func (r *Reporter) Update(count int) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	if count < r.count && r.rendered {
		return
	}
	r.count = count
	r.draw()
}

// Increment advances the count by one and redraws.
func (r *Reporter) Increment() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	r.count++
	r.draw()
}

// Count returns the last reported count.
func (r *Reporter) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.count
}

// Abort ends an unfinished in-place line so later output starts on a fresh
// line. Updates after Abort are ignored.
func (r *Reporter) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.finished {
		return
	}
	if r.interactive && r.rendered {
		_, _ = io.WriteString(r.out, "\n")
	}
	r.finished = true
}

// Done reports whether the reporter stopped drawing, either because the count
// reached the total or because Abort was called.
func (r *Reporter) Done() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.finished
}

func (r *Reporter) draw() {
	r.rendered = true
	complete := r.count >= r.bar.Total
	percent := r.bar.Fraction(r.count) * 100
	if r.interactive {
		_, _ = io.WriteString(r.out, r.bar.Render(r.count))
		if complete {
			_, _ = io.WriteString(r.out, "\n")
		}
	} else if r.sampler.Sample(r.count, r.bar.Total) {
		_, _ = io.WriteString(r.out, r.bar.Line(r.count)+"\n")
	}
	r.logger.Debug("progress",
		logging.Int("count", r.count),
		logging.Int("total", r.bar.Total),
		logging.Float64("percent", percent))
	if complete {
		r.finished = true
	}
}

func isTerminal(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
