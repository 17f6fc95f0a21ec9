package strategy

import (
	"unsafe"

	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/region"
)

// Stack is a LIFO allocator. It allocates exactly like Linear, but also accepts deallocation of the
// most recent live allocation, which rolls the cursor back to that allocation's address.
//
// Deallocation order is a caller contract and is not tracked: deallocating anything other than the
// most recent live allocation silently discards every allocation made after it.
type Stack struct {
	noCopy noCopy
	cursor cursor
}

// Marker records a position of a Stack's cursor so it can be rolled back with FreeToMarker
type Marker struct {
	top             int
	usedMemory      int
	allocationCount int
}

var _ Composable = &Stack{}
var _ Destroyer = &Stack{}
var _ StatisticsReporter = &Stack{}
var _ RegionVisitor = &Stack{}
var _ RegionHolder = &Stack{}
var _ memutils.Validatable = &Stack{}

// NewStack creates a Stack allocator over a new region of capacity bytes acquired from source.
// If source is nil, region.DefaultSource is used.
func NewStack(source region.Source, capacity int) (*Stack, error) {
	r, err := region.New(source, capacity)
	if err != nil {
		return nil, err
	}

	return &Stack{
		cursor: cursor{region: r},
	}, nil
}

// Allocate advances the top of the stack past any alignment padding plus size bytes and returns the
// aligned address, or nil if the region does not have room.
func (s *Stack) Allocate(size int, alignment uint) unsafe.Pointer {
	alignment, ok := checkRequest(size, alignment)
	if !ok {
		return nil
	}

	return s.cursor.allocate(size, alignment)
}

// Deallocate moves the top of the stack back to ptr. ptr must be the most recent live allocation.
func (s *Stack) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	memutils.DebugAssert(s.Owns(ptr), "%v: %p is not below the top of the stack", memutils.ErrNotOwned, ptr)

	offset := s.cursor.region.Offset(ptr)
	s.cursor.usedMemory -= s.cursor.top - offset
	s.cursor.top = offset
	s.cursor.allocationCount--
	memutils.DebugValidate(s)
}

// DeallocateAll resets the top of the stack to the start of the region
func (s *Stack) DeallocateAll() {
	s.cursor.reset()
}

// Owns returns true if ptr lies between the start of the region and the top of the stack
func (s *Stack) Owns(ptr unsafe.Pointer) bool {
	return s.cursor.owns(ptr)
}

// Marker returns the current top of the stack
func (s *Stack) Marker() Marker {
	return Marker{
		top:             s.cursor.top,
		usedMemory:      s.cursor.usedMemory,
		allocationCount: s.cursor.allocationCount,
	}
}

// FreeToMarker deallocates everything allocated since marker was taken. marker must not be above
// the current top of the stack.
func (s *Stack) FreeToMarker(marker Marker) {
	memutils.DebugAssert(marker.top <= s.cursor.top, "marker at offset %d is above the top of the stack (%d)", marker.top, s.cursor.top)

	s.cursor.top = marker.top
	s.cursor.usedMemory = marker.usedMemory
	s.cursor.allocationCount = marker.allocationCount
}

// Region returns the region allocations are carved from
func (s *Stack) Region() *region.Region { return s.cursor.region }

// Capacity returns the size of the region in bytes
func (s *Stack) Capacity() int { return s.cursor.region.Capacity() }

// UsedMemory returns the number of bytes consumed by live allocations and their alignment padding
func (s *Stack) UsedMemory() int { return s.cursor.usedMemory }

// AllocationCount returns the number of live allocations
func (s *Stack) AllocationCount() int { return s.cursor.allocationCount }

// Destroy releases the region. The allocator must not be used afterward.
func (s *Stack) Destroy() error {
	return s.cursor.region.Release()
}

func (s *Stack) Validate() error {
	return s.cursor.validate()
}

func (s *Stack) VisitAllRegions(visit func(offset int, size int, free bool) error) error {
	return s.cursor.visitAllRegions(visit)
}

func (s *Stack) AddStatistics(stats *memutils.Statistics) {
	s.cursor.addStatistics(stats)
}

func (s *Stack) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	s.cursor.addDetailedStatistics(stats)
}
