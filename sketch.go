package madoka

import (
	"github.com/countmin/madoka/internal/backing"
	"github.com/countmin/madoka/internal/errs"
	"github.com/countmin/madoka/internal/header"
	"github.com/countmin/madoka/internal/prng"
)

// Depth is the fixed number of independent rows every sketch has.
const Depth = 3

// Sketch is a Count-Min frequency table: three rows of Width cells each,
// queried and updated through one keyed hash per key. See the package doc
// comment for the exact-vs-approximate mode tradeoff.
type Sketch struct {
	hdr    header.Header
	region *backing.Region
	rng    *prng.Source
}

// Create allocates a new sketch. width and maxValue of 0 select defaults
// (2^20 cells, and the largest representable approximate-mode value,
// respectively); width is clamped to [1, 2^43] and maxValue to [0,
// 2^45-1]. If path is empty, or flags includes backing.Anonymous, the
// sketch lives only in memory.
func Create(width, maxValue uint64, path string, flags backing.Flags, seed uint64) (*Sketch, error) {
	hdr := header.New(width, maxValue, seed)

	region, err := backing.Create(path, int64(hdr.FileSize), flags)
	if err != nil {
		return nil, err
	}
	if _, err := hdr.WriteTo(&regionWriter{region: region}); err != nil {
		region.Close()
		return nil, err
	}
	return &Sketch{hdr: hdr, region: region, rng: prng.New(seed)}, nil
}

// Open memory-maps an existing sketch file in place, validating its
// header.
func Open(path string, flags backing.Flags) (*Sketch, error) {
	region, err := backing.Open(path, flags)
	if err != nil {
		return nil, err
	}
	hdr, err := headerFromRegion(region)
	if err != nil {
		region.Close()
		return nil, err
	}
	return &Sketch{hdr: hdr, region: region, rng: prng.New(hdr.Seed)}, nil
}

// Load copies an existing sketch file into a fresh anonymous region;
// mutations never reach the original file.
func Load(path string, flags backing.Flags) (*Sketch, error) {
	region, err := backing.Load(path, flags)
	if err != nil {
		return nil, err
	}
	hdr, err := headerFromRegion(region)
	if err != nil {
		region.Close()
		return nil, err
	}
	return &Sketch{hdr: hdr, region: region, rng: prng.New(hdr.Seed)}, nil
}

func headerFromRegion(region *backing.Region) (header.Header, error) {
	b := region.Bytes()
	if len(b) < header.Size {
		return header.Header{}, errs.New(errs.CorruptFile, "Open", "file too small for header: %d bytes", len(b))
	}
	hdr, _, err := header.ReadFrom(&regionReader{data: b})
	if err != nil {
		return header.Header{}, err
	}
	if int64(len(b)) != int64(hdr.FileSize) {
		return header.Header{}, errs.New(errs.CorruptFile, "Open", "file length %d does not match header file_size %d", len(b), hdr.FileSize)
	}
	return hdr, nil
}

// Save writes the sketch's full byte image (header + table) to a new
// file at path.
func (s *Sketch) Save(path string, flags backing.Flags) error {
	return s.region.Save(path, flags)
}

// Close releases the sketch's backing region.
func (s *Sketch) Close() error {
	return s.region.Close()
}

// Width returns the number of cells per row.
func (s *Sketch) Width() uint64 { return s.hdr.Width }

// MaxValue returns the configured maximum representable value.
func (s *Sketch) MaxValue() uint64 { return s.hdr.MaxValue }

// Seed returns the sketch's hash/PRNG seed.
func (s *Sketch) Seed() uint64 { return s.hdr.Seed }

// ValueSize returns the bits-per-cell: one of 1, 2, 4, 8, 16, 32 in exact
// mode, or 19 in approximate mode.
func (s *Sketch) ValueSize() uint64 { return s.hdr.ValueSize }

// IsApprox reports whether the sketch is in approximate mode.
func (s *Sketch) IsApprox() bool { return s.hdr.IsApprox() }

// FileSize returns the total byte size of the header plus table.
func (s *Sketch) FileSize() uint64 { return s.hdr.FileSize }

// regionWriter and regionReader adapt a backing.Region's byte slice to
// io.Writer/io.Reader for header (de)serialization without an extra copy.
type regionWriter struct {
	region *backing.Region
	off    int
}

func (w *regionWriter) Write(p []byte) (int, error) {
	n := copy(w.region.Bytes()[w.off:], p)
	w.off += n
	return n, nil
}

type regionReader struct {
	data []byte
	off  int
}

func (r *regionReader) Read(p []byte) (int, error) {
	n := copy(p, r.data[r.off:])
	r.off += n
	return n, nil
}
