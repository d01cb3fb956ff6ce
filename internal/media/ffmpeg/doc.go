// Package ffmpeg runs the ffmpeg binary as an opaque subprocess and builds the
// argument lists gifloop needs from it.
//
// Runner abstracts command execution so callers can be tested with stub
// implementations. CommandRunner is the production implementation built on
// exec.CommandContext. A non-zero exit is surfaced as *ExitError carrying the
// captured output so callers can log or classify it.
//
// Argument builders:
//   - CompareArgs: two still images through the ssim/psnr filter into the null muxer
//   - ExportFramesArgs: scale/fps filter writing numbered PNGs
//   - PaletteArgs / RenderArgs: trim + palettegen, then trim + paletteuse
//
// ProgressWriter parses the "-progress pipe:1" stream into frame callbacks.
package ffmpeg
