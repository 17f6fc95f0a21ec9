package strategy

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/hostmem/memutils"
	"github.com/vkngwrapper/hostmem/memutils/region"
)

// cursor is the bump-pointer state shared by Linear and Stack
type cursor struct {
	region *region.Region

	top             int
	usedMemory      int
	allocationCount int
}

func (c *cursor) allocate(size int, alignment uint) unsafe.Pointer {
	remaining := c.region.Capacity() - c.top
	if size > remaining {
		return nil
	}

	current := c.region.At(c.top)
	padding := int(memutils.AlignmentAdjustment(alignment, current))
	if padding > remaining-size {
		return nil
	}

	c.top += padding + size
	c.usedMemory += padding + size
	c.allocationCount++

	return unsafe.Add(current, padding)
}

func (c *cursor) reset() {
	c.top = 0
	c.usedMemory = 0
	c.allocationCount = 0
}

func (c *cursor) owns(ptr unsafe.Pointer) bool {
	return c.region.Contains(ptr) && c.region.Offset(ptr) < c.top
}

func (c *cursor) validate() error {
	if c.region.Released() {
		return errors.New("the allocator's region has been released")
	}
	if c.top < 0 || c.top > c.region.Capacity() {
		return errors.Errorf("the cursor is at offset %d, outside of the region's %d bytes", c.top, c.region.Capacity())
	}
	if c.usedMemory != c.top {
		return errors.Errorf("the allocator reports %d bytes used, but the cursor is at offset %d", c.usedMemory, c.top)
	}
	if c.allocationCount < 0 {
		return errors.Errorf("the allocator reports %d live allocations", c.allocationCount)
	}

	return nil
}

func (c *cursor) visitAllRegions(visit func(offset int, size int, free bool) error) error {
	if c.top > 0 {
		err := visit(0, c.top, false)
		if err != nil {
			return err
		}
	}

	if c.top < c.region.Capacity() {
		return visit(c.top, c.region.Capacity()-c.top, true)
	}

	return nil
}

func (c *cursor) addStatistics(stats *memutils.Statistics) {
	stats.RegionCount++
	stats.RegionBytes += c.region.Capacity()
	stats.AllocationCount += c.allocationCount
	stats.AllocationBytes += c.usedMemory
}

func (c *cursor) addDetailedStatistics(stats *memutils.DetailedStatistics) {
	c.addStatistics(&stats.Statistics)

	_ = c.visitAllRegions(func(offset int, size int, free bool) error {
		if free {
			stats.AddUnusedRange(size)
		} else {
			stats.AddUsedRange(size)
		}
		return nil
	})
}
