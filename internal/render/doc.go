// Package render turns the selected loop into a gif with two ffmpeg passes:
// palettegen over the trimmed segment, then paletteuse to encode it.
//
// A render whose palette and gif both already exist is skipped, so rerunning
// a finished job is free. Either path being occupied by something other than
// a regular file is a validation error.
package render
