package render

import (
	"errors"
	"testing"
)

// stubBackend is a registry entry for tests; its surfaces are never used.
type stubBackend struct {
	name string
}

func (b *stubBackend) Name() string { return b.name }

func (b *stubBackend) NewSurface(width, height int) (Surface, error) {
	return nil, errors.New("stub backend cannot allocate surfaces")
}

func (b *stubBackend) White() Texture { return nil }

func TestGetMissingBackend(t *testing.T) {
	_, err := Get("no-such-backend")
	if !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Expected ErrBackendNotAvailable, got %v", err)
	}
}

func TestDefaultWithNoBackends(t *testing.T) {
	// Nothing registers a backend in this test binary before this runs.
	if _, err := Default(); !errors.Is(err, ErrBackendNotAvailable) {
		t.Errorf("Expected ErrBackendNotAvailable, got %v", err)
	}
}

func TestRegisterAndGet(t *testing.T) {
	first := &stubBackend{name: "registry-test"}
	Register(first)

	got, err := Get("registry-test")
	if err != nil {
		t.Fatalf("Get failed after Register: %v", err)
	}
	if got != Backend(first) {
		t.Errorf("Expected the registered backend, got %v", got)
	}

	// Registering the same name again replaces the entry.
	second := &stubBackend{name: "registry-test"}
	Register(second)
	got, err = Get("registry-test")
	if err != nil {
		t.Fatalf("Get failed after re-Register: %v", err)
	}
	if got != Backend(second) {
		t.Errorf("Expected the replacement backend, got %v", got)
	}
}

func TestDefaultPrefersGPUBackend(t *testing.T) {
	cpu := &stubBackend{name: BackendSoft}
	Register(cpu)

	got, err := Default()
	if err != nil {
		t.Fatalf("Default failed with a registered backend: %v", err)
	}
	if got != Backend(cpu) {
		t.Errorf("Expected the software backend as the fallback, got %v", got)
	}

	gpu := &stubBackend{name: BackendEbiten}
	Register(gpu)
	got, err = Default()
	if err != nil {
		t.Fatalf("Default failed: %v", err)
	}
	if got != Backend(gpu) {
		t.Errorf("Expected the GPU backend to win, got %v", got)
	}
}

func TestAvailableListsRegistered(t *testing.T) {
	Register(&stubBackend{name: "available-test"})

	names := make(map[string]bool)
	for _, name := range Available() {
		names[name] = true
	}
	if !names["available-test"] {
		t.Errorf("Expected Available to list the registered backend, got %v", Available())
	}
}
