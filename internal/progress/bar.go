package progress

import (
	"fmt"
	"math"
	"strings"
)

// DefaultWidth is the number of segments in a bar when Width is unset.
const DefaultWidth = 30

const (
	filledSegment = "#"
	emptySegment  = "-"
)

// Bar describes a fixed-width progress bar.
type Bar struct {
	Label string
	Width int
	Total int
}

// Fraction returns count/total clamped to [0, 1]. A non-positive total counts
// as complete.
func (b Bar) Fraction(count int) float64 {
	if b.Total <= 0 {
		return 1
	}
	return math.Min(math.Max(float64(count)/float64(b.Total), 0), 1)
}

// Filled returns the number of filled segments for count.
func (b Bar) Filled(count int) int {
	return int(math.Round(float64(b.width()) * b.Fraction(count)))
}

// Line renders the bar without carriage return or newline, e.g.
// "Frames: [###---] 50.00% 3/6".
func (b Bar) Line(count int) string {
	width := b.width()
	filled := b.Filled(count)
	bar := strings.Repeat(filledSegment, filled) + strings.Repeat(emptySegment, width-filled)
	return fmt.Sprintf("%s: [%s] %6.2f%% %d/%d", b.Label, bar, b.Fraction(count)*100, count, b.Total)
}

// Render returns the in-place form of Line, prefixed with a carriage return.
func (b Bar) Render(count int) string {
	return "\r" + b.Line(count)
}

func (b Bar) width() int {
	if b.Width <= 0 {
		return DefaultWidth
	}
	return b.Width
}
