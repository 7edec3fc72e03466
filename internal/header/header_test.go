package header

import (
	"bytes"
	"testing"
)

func TestNewDefaults(t *testing.T) {
	h := New(0, 0, 0)
	if h.Width != DefaultWidth {
		t.Fatalf("width = %d, want default %d", h.Width, DefaultWidth)
	}
	if h.MaxValue != DefaultMaxValue {
		t.Fatalf("max_value = %d, want default %d", h.MaxValue, DefaultMaxValue)
	}
	if h.ValueSize != ApproxValueSize {
		t.Fatalf("expected default max value to select approx mode, got value_size=%d", h.ValueSize)
	}
	if err := h.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}

func TestValueSizeSelection(t *testing.T) {
	cases := []struct {
		maxValue  uint64
		valueSize uint64
	}{
		{0, ApproxValueSize},
		{1, 1},
		{2, 2},
		{3, 2},
		{15, 4},
		{255, 8},
		{65535, 16},
		{1 << 31, 32},
		{1 << 33, ApproxValueSize},
	}
	for _, c := range cases {
		h := New(1024, c.maxValue, 0)
		if c.maxValue == 0 {
			continue // zero means "use default", tested separately
		}
		if h.ValueSize != c.valueSize {
			t.Fatalf("maxValue=%d: value_size = %d, want %d", c.maxValue, h.ValueSize, c.valueSize)
		}
	}
}

func TestWidthMaskPowerOfTwo(t *testing.T) {
	h := New(1024, 100, 0)
	if h.WidthMask != 1023 {
		t.Fatalf("width_mask = %d, want 1023", h.WidthMask)
	}
	h2 := New(1000, 100, 0)
	if h2.WidthMask != 0 {
		t.Fatalf("width_mask = %d, want 0 for non-power-of-two width", h2.WidthMask)
	}
}

func TestWriteToReadFromRoundTrip(t *testing.T) {
	h := New(4096, 1000, 0xdeadbeef)
	var buf bytes.Buffer
	if _, err := h.WriteTo(&buf); err != nil {
		t.Fatalf("WriteTo: %v", err)
	}
	if buf.Len() != Size {
		t.Fatalf("wrote %d bytes, want %d", buf.Len(), Size)
	}
	got, n, err := ReadFrom(&buf)
	if err != nil {
		t.Fatalf("ReadFrom: %v", err)
	}
	if n != Size {
		t.Fatalf("read %d bytes, want %d", n, Size)
	}
	if got != h {
		t.Fatalf("round trip mismatch: got %+v want %+v", got, h)
	}
}

func TestReadFromRejectsBadMagic(t *testing.T) {
	h := New(1024, 100, 0)
	var buf bytes.Buffer
	h.WriteTo(&buf)
	corrupt := buf.Bytes()
	corrupt[0] ^= 0xFF
	if _, _, err := ReadFrom(bytes.NewReader(corrupt)); err == nil {
		t.Fatalf("expected error for corrupted magic")
	}
}

func TestTableSizeIs64ByteAligned(t *testing.T) {
	for _, w := range []uint64{1, 3, 17, 1000, 1 << 20} {
		h := New(w, 1, 0)
		if h.TableSize%64 != 0 {
			t.Fatalf("width=%d: table_size %d not 64-byte aligned", w, h.TableSize)
		}
	}
}
