// Package deps checks that the external binaries gifloop drives are
// installed and reachable on PATH.
package deps
