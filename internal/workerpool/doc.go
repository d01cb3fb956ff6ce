// Package workerpool runs independent jobs on a bounded set of goroutines and
// hands their results back in submission order.
//
// Jobs execute concurrently and finish in any order; an internal reorder
// buffer holds early finishers until every earlier job has been delivered, so
// the caller observes a deterministic sequence. The first job or delivery
// error cancels the remaining work and is returned. There are no retries.
package workerpool
