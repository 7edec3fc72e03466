package madoka

import (
	"github.com/countmin/madoka/internal/approx"
	"github.com/countmin/madoka/internal/backing"
	"github.com/countmin/madoka/internal/bitio"
	"github.com/countmin/madoka/internal/errs"
	"github.com/countmin/madoka/internal/header"
	"github.com/countmin/madoka/internal/xhash"
)

// payload returns the table words, skipping the fixed header.
func (s *Sketch) payload() []uint64 {
	return s.region.Words()[header.Size/8:]
}

func (s *Sketch) cellBitOff(row, cell uint64) uint64 {
	return row*s.hdr.Width*s.hdr.ValueSize + cell*s.hdr.ValueSize
}

func (s *Sketch) indices(key []byte) [Depth]uint64 {
	raw := xhash.Indices(key, s.hdr.Seed, s.hdr.Width, s.hdr.WidthMask)
	return [Depth]uint64{raw[0], raw[1], raw[2]}
}

func (s *Sketch) readRaw(row, cell uint64) uint64 {
	return bitio.Get(s.payload(), s.cellBitOff(row, cell), uint(s.hdr.ValueSize))
}

func (s *Sketch) writeRaw(row, cell, raw uint64) {
	bitio.Set(s.payload(), s.cellBitOff(row, cell), uint(s.hdr.ValueSize), raw)
}

// toValue interprets a raw cell as a decoded value: itself in exact mode,
// or its approx.Decode in approximate mode.
func (s *Sketch) toValue(raw uint64) uint64 {
	if s.hdr.IsApprox() {
		return approx.Decode(approx.Code(raw))
	}
	return raw
}

// fromValue encodes a logical value, already clamped to MaxValue, into the
// raw representation this sketch's cells store.
func (s *Sketch) fromValue(v uint64) uint64 {
	if s.hdr.IsApprox() {
		return uint64(approx.Encode(v))
	}
	return v
}

func (s *Sketch) clampValue(v uint64) uint64 {
	if v > s.hdr.MaxValue {
		return s.hdr.MaxValue
	}
	return v
}

// Get returns the estimated frequency of key: the minimum cell across the
// three rows, decoded if the sketch is in approximate mode.
func (s *Sketch) Get(key []byte) uint64 {
	idx := s.indices(key)
	minRaw := s.readRaw(0, idx[0])
	for r := uint64(1); r < Depth; r++ {
		if raw := s.readRaw(r, idx[r]); raw < minRaw {
			minRaw = raw
		}
	}
	return s.toValue(minRaw)
}

// Set performs a conservative-update floor: every row's cell is raised to
// v if it currently holds less, and left alone otherwise.
func (s *Sketch) Set(key []byte, v uint64) {
	v = s.clampValue(v)
	raw := s.fromValue(v)
	idx := s.indices(key)
	for r := uint64(0); r < Depth; r++ {
		if cur := s.readRaw(r, idx[r]); cur < raw {
			s.writeRaw(r, idx[r], raw)
		}
	}
}

// Inc increments key's estimated frequency by one (conservative update:
// only rows tied for the current minimum advance) and returns the new
// estimate.
func (s *Sketch) Inc(key []byte) uint64 {
	idx, raws, minRaw := s.readRows(key)

	var newRaw uint64
	if s.hdr.IsApprox() {
		encodedMax := uint64(approx.Encode(s.hdr.MaxValue))
		newRaw = uint64(approx.Inc(approx.Code(minRaw), s.rng.Next))
		if newRaw > encodedMax {
			newRaw = encodedMax
		}
	} else {
		newRaw = saturatingAdd(minRaw, 1, s.hdr.MaxValue)
	}

	s.writeIfMin(idx, raws, minRaw, newRaw)
	return s.toValue(newRaw)
}

// Add increments key's estimated frequency by delta (conservative update,
// no jitter even in approximate mode) and returns the new estimate.
func (s *Sketch) Add(key []byte, delta uint64) uint64 {
	idx, raws, minRaw := s.readRows(key)

	var newRaw uint64
	if s.hdr.IsApprox() {
		oldVal := approx.Decode(approx.Code(minRaw))
		newVal := s.clampValue(saturatingAdd(oldVal, delta, s.hdr.MaxValue))
		newRaw = uint64(approx.Encode(newVal))
	} else {
		newRaw = s.clampValue(saturatingAdd(minRaw, delta, s.hdr.MaxValue))
	}

	s.writeIfMin(idx, raws, minRaw, newRaw)
	return s.toValue(newRaw)
}

// readRows reads key's three cells and returns their indices, raw values,
// and the minimum raw value among them.
func (s *Sketch) readRows(key []byte) (idx [Depth]uint64, raws [Depth]uint64, minRaw uint64) {
	idx = s.indices(key)
	minRaw = ^uint64(0)
	for r := uint64(0); r < Depth; r++ {
		raws[r] = s.readRaw(r, idx[r])
		if raws[r] < minRaw {
			minRaw = raws[r]
		}
	}
	return idx, raws, minRaw
}

// writeIfMin writes newRaw to every row whose raw value equals minRaw
// (conservative update), skipping entirely when newRaw == minRaw.
func (s *Sketch) writeIfMin(idx, raws [Depth]uint64, minRaw, newRaw uint64) {
	if newRaw == minRaw {
		return
	}
	for r := uint64(0); r < Depth; r++ {
		if raws[r] == minRaw {
			s.writeRaw(r, idx[r], newRaw)
		}
	}
}

func saturatingAdd(a, delta, max uint64) uint64 {
	if delta > max-a {
		return max
	}
	return a + delta
}

// Clear zeroes every cell in every row.
func (s *Sketch) Clear() {
	p := s.payload()
	for i := range p {
		p[i] = 0
	}
}

// Filter replaces every cell's value with f(value), clamped to MaxValue.
// A nil f is a no-op.
func (s *Sketch) Filter(f func(uint64) uint64) {
	if f == nil {
		return
	}
	for r := uint64(0); r < Depth; r++ {
		for c := uint64(0); c < s.hdr.Width; c++ {
			v := s.toValue(s.readRaw(r, c))
			nv := s.clampValue(f(v))
			s.writeRaw(r, c, s.fromValue(nv))
		}
	}
}

// Copy creates a new sketch with the same width, max value, and seed,
// with an identical table, at path (or in memory if path is empty).
func (s *Sketch) Copy(path string, flags backing.Flags) (*Sketch, error) {
	dst, err := Create(s.hdr.Width, s.hdr.MaxValue, path, flags, s.hdr.Seed)
	if err != nil {
		return nil, err
	}
	copy(dst.payload(), s.payload())
	return dst, nil
}

// Shrink creates a new sketch whose width evenly divides this sketch's
// width (or equals it, if width is 0 or larger than this sketch's width),
// row-wise max-folding each group of
// source cells (after applying filter, or identity if filter is nil) into
// one destination cell: a merged bucket must remain an upper bound for
// every key any of its folded source buckets estimated, which a min-fold
// would violate. maxValue of 0 keeps the source's max value.
func (s *Sketch) Shrink(width, maxValue uint64, filter func(uint64) uint64, path string, flags backing.Flags) (*Sketch, error) {
	if width == 0 {
		width = s.hdr.Width
	}
	if width > s.hdr.Width {
		width = s.hdr.Width
	}
	if s.hdr.Width%width != 0 {
		return nil, errs.New(errs.InvalidArgument, "Shrink", "width %d does not evenly divide source width %d", width, s.hdr.Width)
	}
	if maxValue == 0 {
		maxValue = s.hdr.MaxValue
	}

	dst, err := Create(width, maxValue, path, flags, s.hdr.Seed)
	if err != nil {
		return nil, err
	}

	ratio := s.hdr.Width / width
	transform := filter
	if transform == nil {
		transform = func(v uint64) uint64 { return v }
	}

	for r := uint64(0); r < Depth; r++ {
		for c := uint64(0); c < width; c++ {
			var folded uint64
			for j := uint64(0); j < ratio; j++ {
				v := s.toValue(s.readRaw(r, c+j*width))
				v = dst.clampValue(transform(v))
				if j == 0 || v > folded {
					folded = v
				}
			}
			dst.writeRaw(r, c, dst.fromValue(folded))
		}
	}
	return dst, nil
}

// Merge combines other into s cell-by-cell: for each cell, self's value
// (after selfFilter, or identity if nil) plus other's value (after
// otherFilter, or identity if nil) is clamped to MaxValue and stored back
// into self. other must share this sketch's width, seed, and mode.
func (s *Sketch) Merge(other *Sketch, selfFilter, otherFilter func(uint64) uint64) error {
	if err := s.checkShapeMatch(other, "Merge"); err != nil {
		return err
	}
	if selfFilter == nil {
		selfFilter = identity
	}
	if otherFilter == nil {
		otherFilter = identity
	}

	for r := uint64(0); r < Depth; r++ {
		for c := uint64(0); c < s.hdr.Width; c++ {
			a := selfFilter(s.toValue(s.readRaw(r, c)))
			b := otherFilter(other.toValue(other.readRaw(r, c)))
			sum := s.clampValue(saturatingAddUnbounded(a, b, s.hdr.MaxValue))
			s.writeRaw(r, c, s.fromValue(sum))
		}
	}
	return nil
}

func saturatingAddUnbounded(a, b, max uint64) uint64 {
	if a > ^uint64(0)-b {
		return max
	}
	if sum := a + b; sum <= max {
		return sum
	}
	return max
}

func identity(v uint64) uint64 { return v }

// InnerProduct computes the row-wise minimum of the per-row dot products
// between s and other (as float64), along with each operand's own
// row-wise minimum squared L2 norm. other must share this sketch's width,
// seed, and mode.
func (s *Sketch) InnerProduct(other *Sketch) (ip, selfNormSq, otherNormSq float64, err error) {
	if err := s.checkShapeMatch(other, "InnerProduct"); err != nil {
		return 0, 0, 0, err
	}

	for r := uint64(0); r < Depth; r++ {
		var dot, selfSq, otherSq float64
		for c := uint64(0); c < s.hdr.Width; c++ {
			av := float64(s.toValue(s.readRaw(r, c)))
			bv := float64(other.toValue(other.readRaw(r, c)))
			dot += av * bv
			selfSq += av * av
			otherSq += bv * bv
		}
		if r == 0 || dot < ip {
			ip = dot
		}
		if r == 0 || selfSq < selfNormSq {
			selfNormSq = selfSq
		}
		if r == 0 || otherSq < otherNormSq {
			otherNormSq = otherSq
		}
	}
	return ip, selfNormSq, otherNormSq, nil
}

// Swap exchanges the full state (backing region, PRNG, cached header)
// of s and other. The caller must ensure no concurrent use of either
// sketch during the call.
func (s *Sketch) Swap(other *Sketch) {
	s.hdr, other.hdr = other.hdr, s.hdr
	s.region, other.region = other.region, s.region
	s.rng, other.rng = other.rng, s.rng
}

func (s *Sketch) checkShapeMatch(other *Sketch, op string) error {
	if other == nil {
		return errs.New(errs.InvalidArgument, op, "other sketch is nil")
	}
	if s.hdr.Width != other.hdr.Width {
		return errs.New(errs.InvalidArgument, op, "width mismatch: %d != %d", s.hdr.Width, other.hdr.Width)
	}
	if s.hdr.Seed != other.hdr.Seed {
		return errs.New(errs.InvalidArgument, op, "seed mismatch: %d != %d", s.hdr.Seed, other.hdr.Seed)
	}
	if s.hdr.IsApprox() != other.hdr.IsApprox() {
		return errs.New(errs.InvalidArgument, op, "mode mismatch: approx=%v != approx=%v", s.hdr.IsApprox(), other.hdr.IsApprox())
	}
	return nil
}
