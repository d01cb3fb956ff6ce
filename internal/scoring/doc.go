// Package scoring measures how similar two analysis frames are.
//
// A Metric names one of the ffmpeg quality filters gifloop understands and
// carries the marker that precedes its summary value. FFmpegComparer runs the
// filter over two PNG frames and extracts that value; Scorer adapts a
// Comparer to the loop.PairScorer interface used by the analyzer.
package scoring
