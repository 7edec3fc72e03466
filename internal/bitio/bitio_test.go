package bitio

import "testing"

func TestGetSetRoundTrip(t *testing.T) {
	words := make([]uint64, 4)
	for _, width := range []uint{1, 2, 4, 8, 16, 19, 32} {
		max := widthMask(width)
		for _, bitOff := range []uint64{0, 3, 19, 45, 61} {
			if bitOff+uint64(width) > uint64(len(words))*64 {
				continue
			}
			Set(words, bitOff, width, max)
			if got := Get(words, bitOff, width); got != max {
				t.Fatalf("width=%d bitOff=%d: got %d want %d", width, bitOff, got, max)
			}
			Set(words, bitOff, width, 0)
			if got := Get(words, bitOff, width); got != 0 {
				t.Fatalf("width=%d bitOff=%d: got %d want 0 after clear", width, bitOff, got)
			}
		}
	}
}

func TestSetDoesNotDisturbNeighbors(t *testing.T) {
	words := make([]uint64, 2)
	// three adjacent 19-bit cells starting at bit 0, 19, 38
	Set(words, 0, 19, 0x7FFFF)
	Set(words, 19, 19, 0)
	Set(words, 38, 19, 0x7FFFF)

	if got := Get(words, 0, 19); got != 0x7FFFF {
		t.Fatalf("cell 0: got %d", got)
	}
	if got := Get(words, 19, 19); got != 0 {
		t.Fatalf("cell 1 disturbed: got %d", got)
	}
	if got := Get(words, 38, 19); got != 0x7FFFF {
		t.Fatalf("cell 2: got %d", got)
	}
}

func TestStraddlesWordBoundary(t *testing.T) {
	words := make([]uint64, 2)
	// width 19 field at bit offset 55 straddles words[0]/words[1]
	const bitOff = 55
	const width = 19
	Set(words, bitOff, width, 0x54321)
	if got := Get(words, bitOff, width); got != 0x54321 {
		t.Fatalf("got %#x want %#x", got, 0x54321)
	}
}

func TestWordsForBits(t *testing.T) {
	cases := map[uint64]uint64{0: 0, 1: 1, 63: 1, 64: 1, 65: 2, 128: 2, 129: 3}
	for in, want := range cases {
		if got := WordsForBits(in); got != want {
			t.Fatalf("WordsForBits(%d) = %d, want %d", in, got, want)
		}
	}
}
