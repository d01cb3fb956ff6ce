// Package resultcache persists pair similarity scores in a SQLite file so
// repeated runs against the same video only score what is missing.
//
// Rows are keyed by (from, to) and written with insert-if-absent semantics: a
// stored value is never replaced. Every Upsert commits on its own, so an
// interrupted run keeps everything it finished. An advisory lock on
// "<path>.lock" keeps a second process from writing the same cache.
//
// The table layout matches the results.db files written by earlier gifloop
// releases, which are adopted in place on first open.
package resultcache
