package glow

import (
	"errors"
	"sync"
)

// ErrFallbackToUnlit indicates the backend could not build a shading
// program. The host should render an unlit solid-color material (see
// UnlitModel) instead of failing to render.
var ErrFallbackToUnlit = errors.New("glow: falling back to unlit material")

// MaterialBackend uploads parameter snapshots to whatever renders them.
//
// The backend owns program construction and GPU binding; the shading math
// is the same everywhere. Hosts call SetGlow or SetDissolve once per frame
// (or per UI edit) with a complete, validated parameter record.
//
// GPU backends are provided by separate packages and opt in by blank import:
//
//	import _ "github.com/gogpu/glow/gpu"
type MaterialBackend interface {
	// Name returns the backend name (e.g., "software", "wgpu").
	Name() string

	// Init builds the backend's programs. Called once during registration.
	Init() error

	// Close releases backend resources.
	Close()

	// SetGlow replaces the glow parameter snapshot.
	// Returns ErrFallbackToUnlit if the glow program is unavailable.
	SetGlow(p GlowParameters) error

	// SetDissolve replaces the portal dissolve parameter snapshot.
	// Returns ErrFallbackToUnlit if the dissolve program is unavailable.
	SetDissolve(p PortalDissolveParameters) error
}

// DeviceProviderAware is an optional interface for backends that can share
// a GPU device with the host application instead of creating their own.
type DeviceProviderAware interface {
	SetDeviceProvider(provider any) error
}

var (
	backendMu sync.RWMutex
	backend   MaterialBackend
)

// RegisterBackend registers the material backend.
//
// Only one backend can be registered. Subsequent calls replace (and Close)
// the previous one. Init is called during registration; if it fails the
// backend is not registered and the error is returned.
func RegisterBackend(b MaterialBackend) error {
	if b == nil {
		return errors.New("glow: backend must not be nil")
	}
	if err := b.Init(); err != nil {
		return err
	}
	propagateLogger(b, Logger())

	backendMu.Lock()
	old := backend
	backend = b
	backendMu.Unlock()
	if old != nil && old != b {
		old.Close()
	}
	Logger().Info("glow: material backend registered", "backend", b.Name())
	return nil
}

// Backend returns the registered material backend, or nil if none.
func Backend() MaterialBackend {
	backendMu.RLock()
	b := backend
	backendMu.RUnlock()
	return b
}

// SetBackendDeviceProvider passes a device provider to the registered
// backend. It is a no-op when no backend is registered or the backend does
// not share devices.
func SetBackendDeviceProvider(provider any) error {
	b := Backend()
	if b == nil {
		return nil
	}
	if dpa, ok := b.(DeviceProviderAware); ok {
		return dpa.SetDeviceProvider(provider)
	}
	return nil
}
