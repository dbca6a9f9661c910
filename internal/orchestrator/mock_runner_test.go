package orchestrator

import (
	"context"
	"sync"

	"github.com/lunatic-fringers/wgbridge/internal/store"
)

// mockRunner simulates the external tunnel tool. The up map is keyed by
// configuration path and mutated by Up/Down like the real tool would.
type mockRunner struct {
	mu sync.Mutex

	up      map[string]bool
	upErr   error
	downErr error
	isUpErr error

	upCalls   []string
	downCalls []string
}

func newMockRunner() *mockRunner {
	return &mockRunner{up: make(map[string]bool)}
}

func (m *mockRunner) Up(ctx context.Context, confPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.upCalls = append(m.upCalls, confPath)
	if m.upErr != nil {
		return m.upErr
	}
	m.up[confPath] = true
	return nil
}

func (m *mockRunner) Down(ctx context.Context, confPath string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.downCalls = append(m.downCalls, confPath)
	if m.downErr != nil {
		return m.downErr
	}
	m.up[confPath] = false
	return nil
}

func (m *mockRunner) IsUp(ctx context.Context, confPath string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.isUpErr != nil {
		return false, m.isUpErr
	}
	return m.up[confPath], nil
}

func (m *mockRunner) setUp(confPath string, up bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.up[confPath] = up
}

func (m *mockRunner) upCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.upCalls)
}

func (m *mockRunner) downCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.downCalls)
}

// mockGate records challenges and returns a canned result.
type mockGate struct {
	mu    sync.Mutex
	err   error
	calls []store.Entry
}

func (m *mockGate) Challenge(e store.Entry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, e)
	return m.err
}

func (m *mockGate) callCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}
