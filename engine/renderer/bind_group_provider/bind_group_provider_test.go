package bind_group_provider

import (
	"errors"
	"testing"
)

func TestNewBindGroupProviderLabel(t *testing.T) {
	p := NewBindGroupProvider("Shadow Cascade 2")
	if p.Label() != "Shadow Cascade 2" {
		t.Errorf("label = %q", p.Label())
	}
}

func TestBindGroupProviderEmpty(t *testing.T) {
	p := NewBindGroupProvider("empty")
	if p.BindGroup() != nil || p.Buffer(0) != nil || p.TextureView(0) != nil || p.Sampler(0) != nil {
		t.Error("new provider should hold no resources")
	}
	p.SetIndexCount(36)
	if p.IndexCount() != 36 {
		t.Errorf("index count = %d", p.IndexCount())
	}
	// Release on a provider without GPU objects must be safe.
	p.Release()
	p.Release()
}

func TestBufferWriteFits(t *testing.T) {
	p := NewBindGroupProvider("Lighting")
	tests := []struct {
		name   string
		offset uint64
		n      int
		size   uint64
		ok     bool
	}{
		{"exact", 0, 336, 336, true},
		{"tail", 320, 16, 336, true},
		{"empty at end", 336, 0, 336, true},
		{"one over", 0, 337, 336, false},
		{"offset past end", 400, 4, 336, false},
		{"offset wraps", ^uint64(0), 8, 336, false},
	}
	for _, tt := range tests {
		w := BufferWrite{Provider: p, Binding: 4, Offset: tt.offset, Data: make([]byte, tt.n)}
		err := w.Fits(tt.size)
		if (err == nil) != tt.ok {
			t.Errorf("%s: Fits = %v, want ok %v", tt.name, err, tt.ok)
		}
		if err != nil && !errors.Is(err, ErrWriteOutOfRange) {
			t.Errorf("%s: err = %v, want ErrWriteOutOfRange", tt.name, err)
		}
	}
}

func TestBufferWriteString(t *testing.T) {
	w := BufferWrite{Provider: NewBindGroupProvider("Lighting"), Binding: 1, Offset: 16, Data: make([]byte, 320)}
	if got := w.String(); got != "Lighting/1+16 (320 B)" {
		t.Errorf("String() = %q", got)
	}
	if got := (BufferWrite{}).String(); got != "<nil>/0+0 (0 B)" {
		t.Errorf("zero String() = %q", got)
	}
}
