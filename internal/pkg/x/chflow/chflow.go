// Package chflow holds context-aware channel helpers so goroutine loops can stop
// on cancellation without a select at every call site.
package chflow

import "context"

// Receive blocks until a value arrives on ch or ctx is done. The boolean is
// false when ctx ended first or ch was closed.
func Receive[T any](ctx context.Context, ch <-chan T) (T, bool) {
	var data T
	select {
	case <-ctx.Done():
		return data, false
	case data, ok := <-ch:
		return data, ok
	}
}
