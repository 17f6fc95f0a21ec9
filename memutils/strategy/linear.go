package strategy

import (
	"unsafe"

	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/region"
)

// Linear is a bump (arena) allocator. Each allocation advances a cursor through the region, and
// memory is only ever released all at once by DeallocateAll. Allocation and reset are O(1).
type Linear struct {
	noCopy noCopy
	cursor cursor
}

var _ Composable = &Linear{}
var _ Destroyer = &Linear{}
var _ StatisticsReporter = &Linear{}
var _ RegionVisitor = &Linear{}
var _ RegionHolder = &Linear{}
var _ memutils.Validatable = &Linear{}

// NewLinear creates a Linear allocator over a new region of capacity bytes acquired from source.
// If source is nil, region.DefaultSource is used.
func NewLinear(source region.Source, capacity int) (*Linear, error) {
	r, err := region.New(source, capacity)
	if err != nil {
		return nil, err
	}

	return &Linear{
		cursor: cursor{region: r},
	}, nil
}

// Allocate advances the cursor past any alignment padding plus size bytes and returns the aligned
// address, or nil if the region does not have room.
func (l *Linear) Allocate(size int, alignment uint) unsafe.Pointer {
	alignment, ok := checkRequest(size, alignment)
	if !ok {
		return nil
	}

	return l.cursor.allocate(size, alignment)
}

// Deallocate does nothing: a Linear allocator does not track individual allocations. Use
// DeallocateAll to release memory.
func (l *Linear) Deallocate(ptr unsafe.Pointer) {
	memutils.DebugAssert(ptr == nil || l.Owns(ptr), "%v: %p", memutils.ErrNotOwned, ptr)
}

// DeallocateAll resets the cursor to the start of the region
func (l *Linear) DeallocateAll() {
	l.cursor.reset()
}

// Owns returns true if ptr lies within the allocated portion of the region
func (l *Linear) Owns(ptr unsafe.Pointer) bool {
	return l.cursor.owns(ptr)
}

// Region returns the region allocations are carved from
func (l *Linear) Region() *region.Region { return l.cursor.region }

// Capacity returns the size of the region in bytes
func (l *Linear) Capacity() int { return l.cursor.region.Capacity() }

// UsedMemory returns the number of bytes consumed by allocations and their alignment padding
func (l *Linear) UsedMemory() int { return l.cursor.usedMemory }

// AllocationCount returns the number of allocations made since the last reset
func (l *Linear) AllocationCount() int { return l.cursor.allocationCount }

// Destroy releases the region. The allocator must not be used afterward.
func (l *Linear) Destroy() error {
	return l.cursor.region.Release()
}

func (l *Linear) Validate() error {
	return l.cursor.validate()
}

func (l *Linear) VisitAllRegions(visit func(offset int, size int, free bool) error) error {
	return l.cursor.visitAllRegions(visit)
}

func (l *Linear) AddStatistics(stats *memutils.Statistics) {
	l.cursor.addStatistics(stats)
}

func (l *Linear) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	l.cursor.addDetailedStatistics(stats)
}
