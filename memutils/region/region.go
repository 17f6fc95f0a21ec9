// Package region provides the fixed-size memory regions that region allocators carve their
// allocations from. A Region is acquired from a Source once, never resized, and released exactly
// once.
package region

import (
	"unsafe"

	"github.com/cockroachdb/errors"
	"github.com/vkngwrapper/hostmem/memutils"
)

// BaseAlignment is the alignment of every region's first byte
const BaseAlignment uint = 64

// Source is the underlying system allocator that regions acquire their memory from.
type Source interface {
	// AcquireRegion returns a byte slice of at least size bytes. The slice's backing memory must not
	// move for as long as the slice is held.
	AcquireRegion(size int) ([]byte, error)
	// ReleaseRegion returns memory previously produced by AcquireRegion. It is called exactly once
	// per acquired slice.
	ReleaseRegion(data []byte) error
	// Name identifies the source in diagnostics
	Name() string
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

// Region is a single contiguous, fixed-capacity block of memory owned by exactly one allocator.
// Regions must not be copied: pass the *Region returned by New.
type Region struct {
	noCopy noCopy

	source   Source
	acquired []byte
	base     unsafe.Pointer
	capacity int
}

// New acquires capacity bytes from source. If source is nil, DefaultSource is used.
func New(source Source, capacity int) (*Region, error) {
	if capacity <= 0 {
		return nil, errors.Wrapf(memutils.ErrInvalidCapacity, "requested capacity %d", capacity)
	}

	if source == nil {
		source = DefaultSource()
	}

	// Over-request so the base can always be shifted onto BaseAlignment
	acquired, err := source.AcquireRegion(capacity + int(BaseAlignment) - 1)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to acquire %d bytes from source %s", capacity, source.Name())
	}
	if len(acquired) < capacity+int(BaseAlignment)-1 {
		_ = source.ReleaseRegion(acquired)
		return nil, errors.Newf("source %s returned %d bytes, but %d were requested", source.Name(), len(acquired), capacity+int(BaseAlignment)-1)
	}

	start := unsafe.Pointer(unsafe.SliceData(acquired))
	shift := memutils.AlignmentAdjustment(BaseAlignment, start)

	return &Region{
		source:   source,
		acquired: acquired,
		base:     unsafe.Add(start, shift),
		capacity: capacity,
	}, nil
}

// Base returns the first byte of the region
func (r *Region) Base() unsafe.Pointer { return r.base }

// Capacity returns the size of the region in bytes
func (r *Region) Capacity() int { return r.capacity }

// Released returns true once Release has been called
func (r *Region) Released() bool { return r.base == nil }

// Bytes returns the region's memory as a byte slice
func (r *Region) Bytes() []byte {
	if r.base == nil {
		return nil
	}
	return unsafe.Slice((*byte)(r.base), r.capacity)
}

// Contains returns true if ptr falls within [base, base+capacity)
func (r *Region) Contains(ptr unsafe.Pointer) bool {
	if r.base == nil || ptr == nil {
		return false
	}

	address := uintptr(ptr)
	start := uintptr(r.base)
	return address >= start && address < start+uintptr(r.capacity)
}

// Offset returns the distance in bytes from the region's base to ptr. ptr must be contained in the region.
func (r *Region) Offset(ptr unsafe.Pointer) int {
	return int(uintptr(ptr) - uintptr(r.base))
}

// At returns a pointer offset bytes past the region's base
func (r *Region) At(offset int) unsafe.Pointer {
	return unsafe.Add(r.base, offset)
}

// Release returns the region's memory to its source. Pointers into the region must not be used afterward.
func (r *Region) Release() error {
	if r.base == nil {
		return memutils.ErrRegionReleased
	}

	acquired := r.acquired
	r.acquired = nil
	r.base = nil

	err := r.source.ReleaseRegion(acquired)
	if err != nil {
		return errors.Wrapf(err, "failed to release %d bytes to source %s", r.capacity, r.source.Name())
	}

	return nil
}
