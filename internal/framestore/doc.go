// Package framestore owns the directory of numbered analysis frames.
//
// Frames are written by ffmpeg as 1.png, 2.png, ... at the analysis height
// and frame rate. Store maps frame indices to paths and counts what is on
// disk; Exporter fills an absent or empty directory from the source video.
package framestore
