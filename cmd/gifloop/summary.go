package main

import (
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/fatih/color"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"gifloop/internal/config"
	"gifloop/internal/loop"
	"gifloop/internal/media/ffprobe"
)

var (
	labelColor = color.New(color.Bold)
	valueColor = color.New(color.FgGreen, color.Bold)
	printer    = message.NewPrinter(language.English)
)

// formatCount renders n with thousands separators.
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

func formatRate(fps float64) string {
	return strconv.FormatFloat(fps, 'f', -1, 64)
}

func summaryLine(out io.Writer, label, format string, args ...any) {
	fmt.Fprintf(out, "%s %s\n", labelColor.Sprintf("%-10s", label+":"), fmt.Sprintf(format, args...))
}

// printAnalysis writes the outcome of an analysis run.
func printAnalysis(out io.Writer, src ffprobe.Source, run config.Run, frameCount int, res loop.Result) {
	best := res.Best
	summaryLine(out, "Input", "%s frames at %s fps", formatCount(src.FrameCount), formatRate(src.FrameRate))
	summaryLine(out, "Analysis", "%s frames at %s fps (%s, skip %d, max %d)",
		formatCount(frameCount), formatRate(run.AnalysisFPS), run.Metric, run.SkipFrames, run.Params(frameCount).MaxFrames)
	summaryLine(out, "Pairs", "%s (%s cached, %s compared) in %s",
		formatCount(len(res.Pairs)), formatCount(res.Cached), formatCount(res.Computed), res.Elapsed.Round(10*time.Millisecond))
	summaryLine(out, "Output", "%s frames at %s fps (%.2fs)",
		formatCount(best.OutputFrames()), formatRate(best.OutputFPS), best.Seconds())
	summaryLine(out, "Best", "%s", valueColor.Sprint(strconv.FormatFloat(best.Value, 'f', -1, 64)))
	summaryLine(out, "Analyzed", "frames %d to %d", best.From, best.To)
	summaryLine(out, "Source", "frames %s to %s", formatRate(best.FromInput), formatRate(best.ToInput))
}
