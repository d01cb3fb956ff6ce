package workerpool

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"
)

// DefaultSize returns the pool size used when callers pass a non-positive size.
func DefaultSize() int {
	return runtime.NumCPU()
}

type result[Out any] struct {
	index int
	out   Out
}

// Ordered applies fn to every item using at most size concurrent workers and
// calls yield with each result in the order the items were submitted. yield is
// always called from the calling goroutine, never concurrently, so it may touch
// state that is not safe for concurrent use.
//
// A non-nil error from fn or yield stops submission, cancels the context passed
// to in-flight jobs and is returned once every started job has exited. A
// cancelled ctx behaves the same way.
func Ordered[In, Out any](
	ctx context.Context,
	size int,
	items []In,
	fn func(context.Context, In) (Out, error),
	yield func(index int, out Out) error,
) error {
	if size <= 0 {
		size = DefaultSize()
	}
	if len(items) == 0 {
		return ctx.Err()
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	group, groupCtx := errgroup.WithContext(runCtx)
	group.SetLimit(size)

	results := make(chan result[Out], size)
	waitErr := make(chan error, 1)

	go func() {
		for i, item := range items {
			if groupCtx.Err() != nil {
				break
			}
			group.Go(func() error {
				out, err := fn(groupCtx, item)
				if err != nil {
					return err
				}
				select {
				case results <- result[Out]{index: i, out: out}:
					return nil
				case <-groupCtx.Done():
					return groupCtx.Err()
				}
			})
		}
		waitErr <- group.Wait()
		close(results)
	}()

	pending := make(map[int]Out)
	next := 0
	var yieldErr error
	for res := range results {
		if yieldErr != nil {
			continue
		}
		pending[res.index] = res.out
		for {
			out, ok := pending[next]
			if !ok {
				break
			}
			delete(pending, next)
			if err := yield(next, out); err != nil {
				yieldErr = err
				cancel()
				break
			}
			next++
		}
	}

	err := <-waitErr
	if yieldErr != nil {
		return yieldErr
	}
	if err != nil {
		return err
	}
	return ctx.Err()
}
