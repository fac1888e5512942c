package player

import (
	"context"
	"sync"
)

// MockRuntime is a Runtime for tests. Instantiate succeeds unless Err is set,
// and waits for Gate to close when Gate is non-nil.
type MockRuntime struct {
	Err  error
	Gate chan struct{}

	dispatcher *Dispatcher

	mu       sync.Mutex
	mounts   []Mount
	options  []Options
	released []string
}

// NewMockRuntime creates a MockRuntime with its own dispatcher.
func NewMockRuntime() *MockRuntime {
	return &MockRuntime{dispatcher: NewDispatcher()}
}

func (m *MockRuntime) Instantiate(ctx context.Context, mount Mount, opts Options) error {
	m.mu.Lock()
	m.mounts = append(m.mounts, mount)
	m.options = append(m.options, opts)
	gate := m.Gate
	m.mu.Unlock()

	if gate != nil {
		select {
		case <-gate:
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return m.Err
}

func (m *MockRuntime) Release(mountID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.released = append(m.released, mountID)
}

func (m *MockRuntime) Events() EventSource {
	return m.dispatcher
}

// Dispatcher returns the concrete dispatcher for emitting test events.
func (m *MockRuntime) Dispatcher() *Dispatcher {
	return m.dispatcher
}

// Mounts returns the mounts passed to Instantiate, in call order.
func (m *MockRuntime) Mounts() []Mount {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Mount(nil), m.mounts...)
}

// Options returns the options passed to Instantiate, in call order.
func (m *MockRuntime) Options() []Options {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Options(nil), m.options...)
}

// Released returns the mount ids passed to Release.
func (m *MockRuntime) Released() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.released...)
}
