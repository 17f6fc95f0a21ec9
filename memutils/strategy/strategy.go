// Package strategy contains the region allocators: Linear (bump/arena), Stack (LIFO) and FreeList
// (general purpose with coalescing), plus the composite Fallback allocator and the System allocator
// used as the fallback of last resort.
//
// None of the allocators are synchronized. Each instance owns its region exclusively and must be
// used from one goroutine at a time.
package strategy

import (
	"unsafe"

	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/region"
)

//go:generate mockgen -source strategy.go -destination ./mocks/strategy.go

// Strategy is the contract every allocator in this package satisfies.
type Strategy interface {
	// Allocate returns size bytes aligned to alignment, or nil if the allocator cannot satisfy the
	// request. alignment must be a power of two; 0 selects memutils.DefaultAlignment. Requests for
	// zero bytes or less are a contract violation and return nil.
	Allocate(size int, alignment uint) unsafe.Pointer
	// Deallocate returns memory produced by Allocate. Each strategy places its own restrictions on
	// which pointers may be deallocated and when.
	Deallocate(ptr unsafe.Pointer)
	// DeallocateAll releases every live allocation at once without returning the region.
	DeallocateAll()
}

// Owner is implemented by strategies that can tell whether they produced a pointer
type Owner interface {
	Owns(ptr unsafe.Pointer) bool
}

// Composable strategies can be combined by Fallback, which routes deallocation by ownership
type Composable interface {
	Strategy
	Owner
}

// Destroyer is implemented by strategies that hold a region which must be released
type Destroyer interface {
	Destroy() error
}

// StatisticsReporter is implemented by strategies that can report their memory usage
type StatisticsReporter interface {
	// AddStatistics sums this allocator's statistics into stats
	AddStatistics(stats *memutils.Statistics)
	// AddDetailedStatistics sums this allocator's detailed statistics into stats
	AddDetailedStatistics(stats *memutils.DetailedStatistics)
}

// RegionVisitor is implemented by strategies that can enumerate the used and free ranges of their
// region in address order.
type RegionVisitor interface {
	// VisitAllRegions calls visit for each range in the region. Used ranges may hold more than one
	// allocation. Iteration stops at the first error, which is returned.
	VisitAllRegions(visit func(offset int, size int, free bool) error) error
}

// RegionHolder is implemented by strategies that carve their allocations from a single region
type RegionHolder interface {
	// Region returns the region allocations are carved from, or nil if there is none
	Region() *region.Region
}

// noCopy may be embedded into structs which must not be copied after first use.
// See https://golang.org/issues/8005#issuecomment-190753527
type noCopy struct{}

func (*noCopy) Lock()   {}
func (*noCopy) Unlock() {}

func checkRequest(size int, alignment uint) (uint, bool) {
	memutils.DebugAssert(size > 0, "invalid allocation size %d: %v", size, memutils.ErrZeroSize)
	alignment = memutils.EffectiveAlignment(alignment)
	memutils.DebugCheckPow2(alignment, "alignment")

	return alignment, size > 0
}
