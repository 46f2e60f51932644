package pollen

import (
	"context"
	"log"
)

// Result is the outcome of one refresh. Category is Unknown whenever Err is set.
type Result struct {
	Category Category
	Err      error
}

// Refresh runs one fetch in a detached goroutine and delivers exactly one
// Result on out. It never blocks the caller. If ctx is done before the
// result can be delivered it is dropped.
func Refresh(ctx context.Context, f Fetcher, out chan<- Result) {
	go func() {
		c, err := f.Fetch(ctx)
		if err != nil {
			log.Printf("pollen: refresh failed, using %s: %v", Unknown, err)
			c = Unknown
		}
		select {
		case out <- Result{Category: c, Err: err}:
		case <-ctx.Done():
		}
	}()
}
