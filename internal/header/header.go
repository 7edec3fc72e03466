// Package header defines the sketch's fixed 80-byte on-disk metadata
// block and the derived-field arithmetic (value size, masks, table size)
// shared by construction, open, and load.
package header

import (
	"encoding/binary"
	"io"

	"github.com/countmin/madoka/internal/errs"
)

// Size is the fixed byte length of a Header on disk.
const Size = 80

// Magic identifies a sketch file. Chosen to be unlikely to collide with
// other binary formats while staying memorable: a format version of 1 in
// the low 32 bits and the ASCII bytes "MDK1" in the high 32 bits, so the
// little-endian file starts with the version and then reads "MDK1".
const Magic uint64 = 0x314b444d00000001

// ApproxValueSize is the sentinel value_size that marks approximate mode;
// it equals approx.CodeBits but is declared independently to keep this
// package free of a dependency on internal/approx.
const ApproxValueSize = 19

// MaxApproxValue is the largest value representable in approximate mode
// (2^45 - 1, mirroring internal/approx.MaxValue).
const MaxApproxValue = (uint64(1) << 45) - 1

// DefaultWidth and DefaultMaxValue are used when Create is called with a
// zero width or max value.
const (
	DefaultWidth    = 1 << 20
	DefaultMaxValue = MaxApproxValue
)

// Header is the sketch's fixed metadata block, stored little-endian.
type Header struct {
	Magic      uint64
	Width      uint64
	WidthMask  uint64
	Depth      uint64
	MaxValue   uint64
	ValueMask  uint64
	ValueSize  uint64
	Seed       uint64
	TableSize  uint64
	FileSize   uint64
}

// New computes a fully populated Header for a fresh sketch, applying
// defaults and clamping as Create's contract specifies.
func New(width, maxValue, seed uint64) Header {
	if width == 0 {
		width = DefaultWidth
	}
	if width > (1 << 43) {
		width = 1 << 43
	}
	if maxValue == 0 {
		maxValue = DefaultMaxValue
	}
	if maxValue > MaxApproxValue {
		maxValue = MaxApproxValue
	}

	h := Header{
		Magic:    Magic,
		Width:    width,
		Depth:    3,
		MaxValue: maxValue,
		Seed:     seed,
	}
	if width&(width-1) == 0 {
		h.WidthMask = width - 1
	}
	h.ValueSize = valueSizeFor(maxValue)
	h.ValueMask = maxValue
	h.TableSize = tableSizeBytes(width, h.ValueSize)
	h.FileSize = Size + h.TableSize
	return h
}

// valueSizeFor returns the smallest supported cell width that can hold
// every value in [0, maxValue], or ApproxValueSize once the exact widths
// run out of room.
func valueSizeFor(maxValue uint64) uint64 {
	for _, w := range []uint64{1, 2, 4, 8, 16, 32} {
		if maxValue <= (uint64(1)<<w)-1 || w == 64 {
			return w
		}
	}
	return ApproxValueSize
}

// tableSizeBytes returns the byte size of the three-row cell array,
// rounded up to the next 64-byte boundary.
func tableSizeBytes(width, valueSize uint64) uint64 {
	bits := width * valueSize * 3
	bytes := (bits + 7) / 8
	return (bytes + 63) &^ 63
}

// WordCount returns how many uint64 words TableSize occupies.
func (h Header) WordCount() uint64 {
	return h.TableSize / 8
}

// IsApprox reports whether this header describes an approximate-mode
// sketch.
func (h Header) IsApprox() bool {
	return h.ValueSize == ApproxValueSize
}

// WriteTo serializes h to w in the fixed 80-byte little-endian layout.
func (h Header) WriteTo(w io.Writer) (int64, error) {
	var buf [Size]byte
	binary.LittleEndian.PutUint64(buf[0:], h.Magic)
	binary.LittleEndian.PutUint64(buf[8:], h.Width)
	binary.LittleEndian.PutUint64(buf[16:], h.WidthMask)
	binary.LittleEndian.PutUint64(buf[24:], h.Depth)
	binary.LittleEndian.PutUint64(buf[32:], h.MaxValue)
	binary.LittleEndian.PutUint64(buf[40:], h.ValueMask)
	binary.LittleEndian.PutUint64(buf[48:], h.ValueSize)
	binary.LittleEndian.PutUint64(buf[56:], h.Seed)
	binary.LittleEndian.PutUint64(buf[64:], h.TableSize)
	binary.LittleEndian.PutUint64(buf[72:], h.FileSize)
	n, err := w.Write(buf[:])
	return int64(n), err
}

// ReadFrom deserializes a Header from r and validates it.
func ReadFrom(r io.Reader) (Header, int64, error) {
	var buf [Size]byte
	n, err := io.ReadFull(r, buf[:])
	if err != nil {
		return Header{}, int64(n), errs.Wrap(errs.IOFailure, "header.ReadFrom", err)
	}
	h := Header{
		Magic:     binary.LittleEndian.Uint64(buf[0:]),
		Width:     binary.LittleEndian.Uint64(buf[8:]),
		WidthMask: binary.LittleEndian.Uint64(buf[16:]),
		Depth:     binary.LittleEndian.Uint64(buf[24:]),
		MaxValue:  binary.LittleEndian.Uint64(buf[32:]),
		ValueMask: binary.LittleEndian.Uint64(buf[40:]),
		ValueSize: binary.LittleEndian.Uint64(buf[48:]),
		Seed:      binary.LittleEndian.Uint64(buf[56:]),
		TableSize: binary.LittleEndian.Uint64(buf[64:]),
		FileSize:  binary.LittleEndian.Uint64(buf[72:]),
	}
	if err := h.Validate(); err != nil {
		return Header{}, int64(n), err
	}
	return h, int64(n), nil
}

// Validate checks internal consistency: magic, depth, and that the sizes
// agree with width/valueSize.
func (h Header) Validate() error {
	if h.Magic != Magic {
		return errs.New(errs.CorruptFile, "header.Validate", "bad magic %#x", h.Magic)
	}
	if h.Depth != 3 {
		return errs.New(errs.CorruptFile, "header.Validate", "unsupported depth %d", h.Depth)
	}
	if h.Width == 0 {
		return errs.New(errs.CorruptFile, "header.Validate", "zero width")
	}
	wantTableSize := tableSizeBytes(h.Width, h.ValueSize)
	if h.TableSize != wantTableSize {
		return errs.New(errs.CorruptFile, "header.Validate", "table_size %d inconsistent with width/value_size (want %d)", h.TableSize, wantTableSize)
	}
	if h.FileSize != Size+h.TableSize {
		return errs.New(errs.CorruptFile, "header.Validate", "file_size %d inconsistent with header+table (want %d)", h.FileSize, Size+h.TableSize)
	}
	if h.WidthMask != 0 && h.WidthMask != h.Width-1 {
		return errs.New(errs.CorruptFile, "header.Validate", "width_mask %d inconsistent with width %d", h.WidthMask, h.Width)
	}
	if h.Width&(h.Width-1) == 0 && h.WidthMask != h.Width-1 {
		return errs.New(errs.CorruptFile, "header.Validate", "width %d is a power of two but width_mask is not set", h.Width)
	}
	return nil
}
