// Package fileutil holds the small filesystem helpers shared by frame export,
// rendering and cleanup.
package fileutil
