package store

import "context"

// NullBackend stores nothing. Every record reads as absent and writes are
// discarded, so callers fall back to running the full check each time.
type NullBackend struct{}

func (NullBackend) Read(context.Context, string, string) ([]byte, error) {
	return nil, ErrNotFound
}

func (NullBackend) Write(context.Context, string, string, []byte) error {
	return nil
}

func (NullBackend) Remove(context.Context, string, string) error {
	return nil
}

func (NullBackend) RemoveIf(context.Context, string, string, func([]byte) bool) error {
	return nil
}

func (NullBackend) Services(context.Context) ([]string, error) {
	return nil, nil
}
