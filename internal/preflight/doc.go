// Package preflight provides readiness checks for the external tools and
// filesystem paths a gifloop run depends on.
//
// The "gifloop check" command prints every result; "gifloop run" calls RunAll
// before probing the source so a missing ffmpeg or an unwritable output
// directory fails fast instead of after minutes of frame export.
package preflight
