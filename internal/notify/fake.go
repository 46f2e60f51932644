package notify

import (
	"context"
	"sync"
)

// FakeNotifier records every error it is given.
type FakeNotifier struct {
	mu     sync.Mutex
	errors []error

	// NotifyError, if set, will be returned by Notify.
	NotifyError error
}

// Notify records err.
func (f *FakeNotifier) Notify(_ context.Context, err error) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.errors = append(f.errors, err)
	return f.NotifyError
}

// Errors returns the recorded errors.
func (f *FakeNotifier) Errors() []error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]error(nil), f.errors...)
}
