package strategy

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/metadata"
	"github.com/vkngwrapper/hostmem/memutils/region"
)

// FreeList is a general-purpose allocator. Free memory is tracked by an address-ordered list of
// blocks stored inside the free memory itself, and every allocation carries a
// metadata.AllocationHeader immediately before its payload. Allocation is first-fit, and freed
// blocks are merged with any free neighbors so adjacent free memory is always one block.
//
// Allocate and Deallocate are O(number of free blocks). DeallocateAll is O(1).
type FreeList struct {
	noCopy noCopy

	region     *region.Region
	freeBlocks metadata.FreeList

	usedMemory      int
	allocationCount int
}

var _ Composable = &FreeList{}
var _ Destroyer = &FreeList{}
var _ StatisticsReporter = &FreeList{}
var _ RegionVisitor = &FreeList{}
var _ RegionHolder = &FreeList{}
var _ memutils.Validatable = &FreeList{}

// NewFreeList creates a FreeList allocator over a new region of capacity bytes acquired from source.
// capacity is rounded up to the header alignment. If source is nil, region.DefaultSource is used.
func NewFreeList(source region.Source, capacity int) (*FreeList, error) {
	if capacity > 0 && capacity < int(metadata.MinBlockSize) {
		return nil, errors.Wrapf(memutils.ErrInvalidCapacity, "a free list needs at least %d bytes, but %d were requested", metadata.MinBlockSize, capacity)
	}

	r, err := region.New(source, memutils.AlignUp(capacity, uint(metadata.HeaderAlignment)))
	if err != nil {
		return nil, err
	}

	allocator := &FreeList{
		region: r,
	}
	allocator.freeBlocks.Init(r.Base(), uintptr(r.Capacity()))

	return allocator, nil
}

// Allocate finds the first free block that can hold a header, alignment padding and size bytes,
// carves the allocation from its start and returns the aligned payload address. It returns nil if no
// free block is large enough.
func (f *FreeList) Allocate(size int, alignment uint) unsafe.Pointer {
	alignment, ok := checkRequest(size, alignment)
	if !ok {
		return nil
	}

	if size > f.region.Capacity() {
		return nil
	}

	requiredAlignment := max(uint(metadata.HeaderAlignment), alignment)
	payloadSize := uintptr(memutils.AlignUp(size, uint(metadata.HeaderAlignment)) + memutils.DebugMargin)

	for offset := f.freeBlocks.Head(); offset != metadata.NoBlock; offset = f.freeBlocks.Block(offset).Next {
		blockStart := f.region.At(int(offset))
		blockSize := f.freeBlocks.Block(offset).Size

		adjustment := uintptr(memutils.AlignmentAdjustmentWithHeader(requiredAlignment, blockStart, uint(metadata.HeaderSize)))
		footprint := max(adjustment+payloadSize, metadata.MinBlockSize)
		if blockSize < footprint {
			continue
		}

		f.freeBlocks.Remove(offset)

		remainder := blockSize - footprint
		if remainder < metadata.MinBlockSize {
			// Too small to track on its own
			footprint = blockSize
		} else {
			f.freeBlocks.Insert(offset+footprint, remainder)
		}

		payload := unsafe.Add(blockStart, adjustment)
		header := metadata.HeaderFor(payload)
		header.Size = footprint - adjustment
		header.Adjustment = adjustment

		memutils.WriteMagicValue(payload, int(header.Size)-memutils.DebugMargin)

		f.usedMemory += int(footprint)
		f.allocationCount++
		memutils.DebugValidate(f)

		return payload
	}

	return nil
}

// Deallocate returns the block that ptr was carved from to the free list, merging it with any
// adjacent free blocks. ptr must be a live allocation produced by this allocator.
func (f *FreeList) Deallocate(ptr unsafe.Pointer) {
	if ptr == nil {
		return
	}
	memutils.DebugAssert(f.Owns(ptr), "%v: %p", memutils.ErrNotOwned, ptr)

	header := metadata.HeaderFor(ptr)
	memutils.DebugAssert(memutils.ValidateMagicValue(ptr, int(header.Size)-memutils.DebugMargin),
		"memory corruption detected after the allocation at offset %d", f.region.Offset(ptr))

	blockSize := header.Adjustment + header.Size
	blockStart := uintptr(f.region.Offset(ptr)) - header.Adjustment

	f.freeBlocks.Insert(blockStart, blockSize)

	f.usedMemory -= int(blockSize)
	f.allocationCount--
	memutils.DebugValidate(f)
}

// DeallocateAll resets the region to a single free block spanning its whole capacity, in place
func (f *FreeList) DeallocateAll() {
	f.freeBlocks.Reset()
	f.usedMemory = 0
	f.allocationCount = 0
}

// Owns returns true if ptr lies within the region
func (f *FreeList) Owns(ptr unsafe.Pointer) bool {
	return f.region.Contains(ptr)
}

// Region returns the region allocations are carved from
func (f *FreeList) Region() *region.Region { return f.region }

// Capacity returns the size of the region in bytes
func (f *FreeList) Capacity() int { return f.region.Capacity() }

// UsedMemory returns the number of bytes consumed by live allocations, including headers and
// alignment padding
func (f *FreeList) UsedMemory() int { return f.usedMemory }

// AllocationCount returns the number of live allocations
func (f *FreeList) AllocationCount() int { return f.allocationCount }

// FreeBlockCount returns the number of distinct runs of free memory
func (f *FreeList) FreeBlockCount() int { return f.freeBlocks.Count() }

// Destroy releases the region. The allocator must not be used afterward.
func (f *FreeList) Destroy() error {
	return f.region.Release()
}

// Validate performs internal consistency checks on the allocator. It walks the entire free list and
// so should only be used for diagnostics.
func (f *FreeList) Validate() error {
	if f.region.Released() {
		return errors.New("the allocator's region has been released")
	}

	err := f.freeBlocks.Validate()
	if err != nil {
		return err
	}

	if f.usedMemory+int(f.freeBlocks.FreeBytes()) != f.region.Capacity() {
		return errors.Errorf("the allocator reports %d bytes used and the free list holds %d bytes, but the region has %d bytes",
			f.usedMemory, f.freeBlocks.FreeBytes(), f.region.Capacity())
	}

	if f.allocationCount < 0 {
		return errors.Errorf("the allocator reports %d live allocations", f.allocationCount)
	}
	if f.allocationCount == 0 && f.usedMemory != 0 {
		return errors.Errorf("the allocator has no live allocations, but reports %d bytes used", f.usedMemory)
	}

	return nil
}

func (f *FreeList) VisitAllRegions(visit func(offset int, size int, free bool) error) error {
	var cursor int

	err := f.freeBlocks.VisitAll(func(offset, size uintptr) error {
		if int(offset) > cursor {
			err := visit(cursor, int(offset)-cursor, false)
			if err != nil {
				return err
			}
		}

		cursor = int(offset + size)
		return visit(int(offset), int(size), true)
	})
	if err != nil {
		return err
	}

	if cursor < f.region.Capacity() {
		return visit(cursor, f.region.Capacity()-cursor, false)
	}

	return nil
}

func (f *FreeList) AddStatistics(stats *memutils.Statistics) {
	stats.RegionCount++
	stats.RegionBytes += f.region.Capacity()
	stats.AllocationCount += f.allocationCount
	stats.AllocationBytes += f.usedMemory
}

func (f *FreeList) AddDetailedStatistics(stats *memutils.DetailedStatistics) {
	f.AddStatistics(&stats.Statistics)

	_ = f.VisitAllRegions(func(offset int, size int, free bool) error {
		if free {
			stats.AddUnusedRange(size)
		} else {
			stats.AddUsedRange(size)
		}
		return nil
	})
}
