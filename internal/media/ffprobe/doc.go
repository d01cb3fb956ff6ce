// Package ffprobe provides a typed wrapper around ffprobe JSON output.
//
// Key types:
//   - Result: parsed ffprobe output containing streams and format metadata
//   - Stream: individual audio/video/subtitle stream properties
//   - Format: container-level metadata (duration, size, bitrate)
//   - Source: the frame rate, frame count and size of a video's first stream
//
// Primary entry points:
//   - Inspect: executes ffprobe and returns parsed Result
//   - Probe: inspects a video and resolves its Source, counting frames by
//     decoding when the container does not record them
package ffprobe
