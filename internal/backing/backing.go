// Package backing implements the sketch's memory-mapped storage region:
// anonymous, file-backed shared, or file-backed private mappings, with the
// create/open/load/save/close lifecycle the sketch engine drives.
package backing

import (
	"io"
	"os"

	"github.com/countmin/madoka/internal/errs"
	"github.com/edsrzf/mmap-go"
)

// Flags is a bit-set controlling how a Region is created or opened.
type Flags uint32

const (
	// Create creates the backing file if it does not exist.
	Create Flags = 1 << iota
	// Truncate allows overwriting an existing file (Create implies
	// truncation only when Truncate is also set; otherwise Create fails
	// on an existing file).
	Truncate
	// ReadOnly maps the region without write access.
	ReadOnly
	// Writable maps the region with write access. Open maps read-only
	// unless Writable is given; Create always maps a new file read-write.
	Writable
	// Shared maps the region MAP_SHARED: writes are visible to other
	// processes and are written back to the file.
	Shared
	// Private maps the region MAP_PRIVATE: writes are copy-on-write and
	// never reach the file.
	Private
	// Anonymous creates a memory-only region with no backing file.
	Anonymous
	// HugeTLB is accepted but has no effect: regions are always mapped
	// with ordinary pages, and no huge-page mapping is attempted.
	HugeTLB
	// Preload touches every page of the region once after mapping, to
	// pull it fully into the page cache up front rather than fault it in
	// lazily on first access.
	Preload
)

const pageSize = 4096

// Region is a mapped block of memory, optionally backed by a file.
type Region struct {
	data []byte
	m    mmap.MMap
	file *os.File
	anon bool
}

// Create allocates a new region of size bytes. If path is empty the region
// is anonymous (never touches disk); otherwise the file is created (and
// truncated to size) per flags.
func Create(path string, size int64, flags Flags) (*Region, error) {
	if path == "" || flags&Anonymous != 0 {
		r := &Region{data: make([]byte, size), anon: true}
		if flags&Preload != 0 {
			r.preload()
		}
		return r, nil
	}

	openFlags := os.O_RDWR | os.O_CREATE
	if flags&Truncate == 0 {
		openFlags |= os.O_EXCL
	} else {
		openFlags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, openFlags, 0o644)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "backing.Create", err)
	}
	if err := f.Truncate(size); err != nil {
		f.Close()
		return nil, errs.Wrap(errs.IOFailure, "backing.Create", err)
	}
	r, err := mapFile(f, mmap.RDWR, flags)
	if err != nil {
		f.Close()
		return nil, err
	}
	if flags&Preload != 0 {
		r.preload()
	}
	return r, nil
}

// Open maps an existing file. Writable selects read-write access; the
// default is read-only.
func Open(path string, flags Flags) (*Region, error) {
	mode := os.O_RDONLY
	mmapMode := mmap.RDONLY
	if flags&Writable != 0 {
		mode = os.O_RDWR
		mmapMode = mmap.RDWR
	}
	f, err := os.OpenFile(path, mode, 0)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "backing.Open", err)
	}
	r, err := mapFile(f, mmapMode, flags)
	if err != nil {
		f.Close()
		return nil, err
	}
	if flags&Preload != 0 {
		r.preload()
	}
	return r, nil
}

// Load opens path, copies its bytes into a fresh anonymous region, and
// closes the file. Mutations to the returned Region never reach disk.
func Load(path string, flags Flags) (*Region, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "backing.Load", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "backing.Load", err)
	}

	r := &Region{data: make([]byte, info.Size()), anon: true}
	if _, err := io.ReadFull(f, r.data); err != nil {
		return nil, errs.Wrap(errs.IOFailure, "backing.Load", err)
	}
	if flags&Preload != 0 {
		r.preload()
	}
	return r, nil
}

// Save writes the region's bytes to a new file at path.
func (r *Region) Save(path string, flags Flags) error {
	openFlags := os.O_RDWR | os.O_CREATE
	if flags&Truncate == 0 {
		openFlags |= os.O_EXCL
	} else {
		openFlags |= os.O_TRUNC
	}
	f, err := os.OpenFile(path, openFlags, 0o644)
	if err != nil {
		return errs.Wrap(errs.IOFailure, "backing.Save", err)
	}
	defer f.Close()

	if _, err := f.Write(r.Bytes()); err != nil {
		return errs.Wrap(errs.IOFailure, "backing.Save", err)
	}
	return nil
}

// Close releases the region: unmapping it if file-backed, or simply
// dropping the reference if anonymous.
func (r *Region) Close() error {
	if r.anon {
		r.data = nil
		return nil
	}
	if err := r.m.Unmap(); err != nil {
		r.file.Close()
		return errs.Wrap(errs.IOFailure, "backing.Close", err)
	}
	if err := r.file.Close(); err != nil {
		return errs.Wrap(errs.IOFailure, "backing.Close", err)
	}
	return nil
}

// Bytes returns the region's contents as a byte slice. Mutations through
// it are reflected in the mapping (and, for Shared file-backed regions,
// eventually in the file).
func (r *Region) Bytes() []byte {
	if r.anon {
		return r.data
	}
	return r.m
}

// Words views the region as a []uint64. The region's length must already
// be a multiple of 8 bytes, which every sketch header/table layout
// guarantees.
func (r *Region) Words() []uint64 {
	b := r.Bytes()
	return unsafeWords(b)
}

func mapFile(f *os.File, mode int, flags Flags) (*Region, error) {
	if flags&Private != 0 {
		mode = mmap.COPY
	}
	m, err := mmap.MapRegion(f, -1, mode, 0, 0)
	if err != nil {
		return nil, errs.Wrap(errs.IOFailure, "backing.mapFile", err)
	}
	return &Region{m: m, file: f}, nil
}

// preload touches one byte per page to pull the whole region into
// physical memory. The reference implementation's preload loop
// dereferenced a stray pointer-plus-offset expression instead of indexing
// the array; that bug is not reproduced here.
func (r *Region) preload() {
	b := r.Bytes()
	var sink byte
	for off := 0; off < len(b); off += pageSize {
		sink += b[off]
	}
	_ = sink
}
