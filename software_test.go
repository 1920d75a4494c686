package glow

import (
	"errors"
	"sync"
	"testing"
)

func TestSoftwareBackendDefaults(t *testing.T) {
	b := NewSoftwareBackend()
	if b.Name() != "software" {
		t.Errorf("Name() = %q, want %q", b.Name(), "software")
	}
	if b.Glow() != DefaultGlowParameters() {
		t.Errorf("Glow() = %+v, want defaults", b.Glow())
	}
	if b.Dissolve() != DefaultPortalDissolveParameters() {
		t.Errorf("Dissolve() = %+v, want defaults", b.Dissolve())
	}
}

func TestSoftwareBackendZeroValueInit(t *testing.T) {
	var b SoftwareBackend
	if err := b.Init(); err != nil {
		t.Fatalf("Init() = %v", err)
	}
	if b.Glow() != DefaultGlowParameters() {
		t.Errorf("Glow() after Init = %+v", b.Glow())
	}
}

func TestSoftwareBackendSetGlow(t *testing.T) {
	b := NewSoftwareBackend()
	p := DefaultGlowParameters().WithIntensity(4)
	if err := b.SetGlow(p); err != nil {
		t.Fatalf("SetGlow() = %v", err)
	}
	if b.Glow() != p {
		t.Errorf("Glow() = %+v, want %+v", b.Glow(), p)
	}

	m, ok := b.GlowModel().(GlowModel)
	if !ok || m.Params != p {
		t.Errorf("GlowModel() = %#v", b.GlowModel())
	}

	// Invalid input keeps the previous snapshot.
	err := b.SetGlow(p.WithFalloff(0))
	if !errors.Is(err, ErrInvalidFalloff) {
		t.Errorf("SetGlow(invalid) = %v, want ErrInvalidFalloff", err)
	}
	if b.Glow() != p {
		t.Errorf("invalid SetGlow replaced the snapshot: %+v", b.Glow())
	}
}

func TestSoftwareBackendSetDissolve(t *testing.T) {
	b := NewSoftwareBackend()
	b.Octaves = 3
	p := DefaultPortalDissolveParameters().WithProgress(0.7)
	if err := b.SetDissolve(p); err != nil {
		t.Fatalf("SetDissolve() = %v", err)
	}

	m, ok := b.DissolveModel().(DissolveModel)
	if !ok {
		t.Fatalf("DissolveModel() = %T", b.DissolveModel())
	}
	if m.Params != p || m.Octaves != 3 {
		t.Errorf("DissolveModel() = %+v", m)
	}

	if err := b.SetDissolve(p.WithProgress(3)); !errors.Is(err, ErrInvalidProgress) {
		t.Errorf("SetDissolve(invalid) = %v, want ErrInvalidProgress", err)
	}
}

func TestSoftwareBackendConcurrentSnapshots(t *testing.T) {
	b := NewSoftwareBackend()
	a := DefaultGlowParameters().WithIntensity(1).WithRadius(0.5)
	c := DefaultGlowParameters().WithIntensity(4).WithRadius(1.5)

	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		for i := range 500 {
			p := a
			if i%2 == 1 {
				p = c
			}
			_ = b.SetGlow(p)
		}
	}()
	go func() {
		defer wg.Done()
		for range 500 {
			// A torn read would mix fields from both records.
			got := b.Glow()
			if got != a && got != c && got != DefaultGlowParameters() {
				t.Errorf("torn snapshot: %+v", got)
				return
			}
		}
	}()
	wg.Wait()
}

func TestSoftwareBackendRegisters(t *testing.T) {
	resetBackend()
	t.Cleanup(resetBackend)

	b := NewSoftwareBackend()
	if err := RegisterBackend(b); err != nil {
		t.Fatalf("RegisterBackend() = %v", err)
	}
	if Backend() != b {
		t.Error("Backend() is not the software backend")
	}
}
