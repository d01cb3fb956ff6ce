// Package progress renders the scoring progress bar.
//
// Bar.Render is a pure function producing the fixed-width textual bar. Reporter
// owns the output stream: on a terminal every update rewrites the current line
// in place and a single newline is written once the count reaches the total;
// on other writers it falls back to sampled, newline-terminated lines so log
// files stay readable.
//
// EngineBar is the separate progressbar shown while ffmpeg exports frames or
// renders the gif; it is fed from ffmpeg's "-progress pipe:1" stream.
package progress
