package glow

import (
	"errors"
	"log/slog"
	"sync"
	"testing"
)

// mockBackend implements MaterialBackend for testing.
type mockBackend struct {
	name     string
	initErr  error
	closed   bool
	logger   *slog.Logger
	glow     []GlowParameters
	provider any
	mu       sync.Mutex
}

func (m *mockBackend) Name() string { return m.name }

func (m *mockBackend) Init() error { return m.initErr }

func (m *mockBackend) Close() {
	m.mu.Lock()
	m.closed = true
	m.mu.Unlock()
}

func (m *mockBackend) isClosed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

func (m *mockBackend) SetGlow(p GlowParameters) error {
	m.mu.Lock()
	m.glow = append(m.glow, p)
	m.mu.Unlock()
	return nil
}

func (m *mockBackend) SetDissolve(PortalDissolveParameters) error {
	return ErrFallbackToUnlit
}

func (m *mockBackend) SetLogger(l *slog.Logger) {
	m.mu.Lock()
	m.logger = l
	m.mu.Unlock()
}

func (m *mockBackend) currentLogger() *slog.Logger {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.logger
}

// providerBackend adds device sharing to mockBackend.
type providerBackend struct {
	mockBackend
}

func (p *providerBackend) SetDeviceProvider(provider any) error {
	p.mu.Lock()
	p.provider = provider
	p.mu.Unlock()
	return nil
}

// resetBackend clears the global backend state between tests.
func resetBackend() {
	backendMu.Lock()
	backend = nil
	backendMu.Unlock()
}

func TestRegisterBackendNil(t *testing.T) {
	resetBackend()
	t.Cleanup(resetBackend)

	if err := RegisterBackend(nil); err == nil {
		t.Fatal("expected error when registering nil backend")
	}
	if Backend() != nil {
		t.Error("backend should remain nil")
	}
}

func TestRegisterBackendInitError(t *testing.T) {
	resetBackend()
	t.Cleanup(resetBackend)

	initErr := errors.New("no device")
	err := RegisterBackend(&mockBackend{name: "failing", initErr: initErr})
	if !errors.Is(err, initErr) {
		t.Errorf("RegisterBackend() = %v, want %v", err, initErr)
	}
	if Backend() != nil {
		t.Error("backend should remain nil after Init failure")
	}
}

func TestRegisterBackendReplacesAndCloses(t *testing.T) {
	resetBackend()
	t.Cleanup(resetBackend)

	first := &mockBackend{name: "first"}
	second := &mockBackend{name: "second"}

	if err := RegisterBackend(first); err != nil {
		t.Fatalf("RegisterBackend(first) = %v", err)
	}
	if Backend() != first {
		t.Fatal("Backend() is not the first backend")
	}
	if err := RegisterBackend(second); err != nil {
		t.Fatalf("RegisterBackend(second) = %v", err)
	}
	if Backend() != second {
		t.Error("Backend() is not the second backend")
	}
	if !first.isClosed() {
		t.Error("replaced backend was not closed")
	}
	if second.isClosed() {
		t.Error("active backend was closed")
	}
}

func TestRegisterSameBackendTwiceKeepsItOpen(t *testing.T) {
	resetBackend()
	t.Cleanup(resetBackend)

	b := &mockBackend{name: "same"}
	_ = RegisterBackend(b)
	_ = RegisterBackend(b)
	if b.isClosed() {
		t.Error("re-registering the active backend closed it")
	}
}

func TestSetBackendDeviceProvider(t *testing.T) {
	resetBackend()
	t.Cleanup(resetBackend)

	if err := SetBackendDeviceProvider("anything"); err != nil {
		t.Errorf("no backend: err = %v, want nil", err)
	}

	plain := &mockBackend{name: "plain"}
	_ = RegisterBackend(plain)
	if err := SetBackendDeviceProvider("anything"); err != nil {
		t.Errorf("non-aware backend: err = %v, want nil", err)
	}

	aware := &providerBackend{mockBackend{name: "aware"}}
	_ = RegisterBackend(aware)
	if err := SetBackendDeviceProvider("device"); err != nil {
		t.Fatalf("SetBackendDeviceProvider() = %v", err)
	}
	if aware.provider != "device" {
		t.Errorf("provider = %v, want %q", aware.provider, "device")
	}
}

func TestBackendFallbackSignal(t *testing.T) {
	b := &mockBackend{name: "fallback"}
	if err := b.SetDissolve(DefaultPortalDissolveParameters()); !errors.Is(err, ErrFallbackToUnlit) {
		t.Errorf("SetDissolve() = %v, want ErrFallbackToUnlit", err)
	}
}
