package strategy

import (
	"math/bits"
	"unsafe"

	"github.com/dolthub/swiss"
	"github.com/pkg/errors"
	"github.com/vkngwrapper/hostmem/memutils"
)

const systemInitialCapacity = 64

// maxSystemAllocation bounds a single request, including its alignment slack, below the largest
// slice the Go runtime will make.
const maxSystemAllocation = 1<<min(bits.UintSize-1, 47) - 1

// System allocates every request directly from the Go heap. It is meant to be the last allocator
// in a Fallback chain: it reports ownership of every pointer and only fails when the Go runtime does.
//
// Live allocations are kept in a table keyed by address so they stay reachable until deallocated.
type System struct {
	noCopy noCopy

	live      *swiss.Map[uintptr, []byte]
	liveBytes int
}

var _ Composable = &System{}
var _ Destroyer = &System{}
var _ StatisticsReporter = &System{}
var _ memutils.Validatable = &System{}

// NewSystem creates a System allocator
func NewSystem() *System {
	return &System{
		live: swiss.NewMap[uintptr, []byte](systemInitialCapacity),
	}
}

// Allocate over-allocates size+alignment-1 bytes from the Go heap and returns the first aligned
// address within them. It returns nil for requests too large for a single Go allocation.
func (s *System) Allocate(size int, alignment uint) unsafe.Pointer {
	alignment, ok := checkRequest(size, alignment)
	if !ok {
		return nil
	}

	if alignment > maxSystemAllocation || size > maxSystemAllocation-int(alignment)+1 {
		return nil
	}

	buffer := make([]byte, size+int(alignment)-1)
	start := unsafe.Pointer(unsafe.SliceData(buffer))
	shift := int(memutils.AlignmentAdjustment(alignment, start))
	payload := buffer[shift : shift+size : shift+size]

	ptr := unsafe.Pointer(unsafe.SliceData(payload))
	s.live.Put(uintptr(ptr), payload)
	s.liveBytes += size

	return ptr
}

// Deallocate drops the allocator's reference to ptr's memory so the garbage collector can reclaim it
func (s *System) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}

	payload, ok := s.live.Get(uintptr(ptr))
	memutils.DebugAssert(ok, "%v: %p was not allocated by this system allocator, or was already freed", memutils.ErrNotOwned, ptr)
	if !ok {
		return
	}

	s.live.Delete(uintptr(ptr))
	s.liveBytes -= len(payload)
}

// DeallocateAll drops every live allocation
func (s *System) DeallocateAll() {
	s.live = swiss.NewMap[uintptr, []byte](systemInitialCapacity)
	s.liveBytes = 0
}

// Owns always returns true
func (s *System) Owns(ptr unsafe.Pointer) bool {
	return true
}

// AllocationCount returns the number of live allocations
func (s *System) AllocationCount() int { return s.live.Count() }

// UsedMemory returns the number of bytes requested by live allocations
func (s *System) UsedMemory() int { return s.liveBytes }

// Destroy drops every live allocation
func (s *System) Destroy() error {
	s.DeallocateAll()
	return nil
}

func (s *System) Validate() error {
	if s.liveBytes < 0 {
		return errors.Errorf("the system allocator reports %d live bytes", s.liveBytes)
	}
	if s.live.Count() == 0 && s.liveBytes != 0 {
		return errors.Errorf("the system allocator has no live allocations, but reports %d live bytes", s.liveBytes)
	}

	return nil
}

// AddStatistics counts each live allocation as its own region, as it was made separately
func (s *System) AddStatistics(stats *memutils.Statistics) {
	count := s.live.Count()

	stats.RegionCount += count
	stats.RegionBytes += s.liveBytes
	stats.AllocationCount += count
	stats.AllocationBytes += s.liveBytes
}

func (s *System) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	s.AddStatistics(&stats.Statistics)

	s.live.Iter(func(_ uintptr, payload []byte) bool {
		stats.AddUsedRange(len(payload))
		return false
	})
}
