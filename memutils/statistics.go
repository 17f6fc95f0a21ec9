package memutils

import "math"

// Statistics contains basic usage numbers for one or more regions
type Statistics struct {
	// RegionCount is the number of regions that contributed to these statistics
	RegionCount int
	// AllocationCount is the number of live allocations
	AllocationCount int
	// RegionBytes is the total capacity in bytes of the contributing regions
	RegionBytes int
	// AllocationBytes is the number of bytes consumed by live allocations, including headers and
	// alignment padding
	AllocationBytes int
}

func (s *Statistics) Clear() {
	s.RegionCount = 0
	s.AllocationCount = 0
	s.RegionBytes = 0
	s.AllocationBytes = 0
}

func (s *Statistics) AddStatistics(other *Statistics) {
	s.RegionCount += other.RegionCount
	s.AllocationCount += other.AllocationCount
	s.RegionBytes += other.RegionBytes
	s.AllocationBytes += other.AllocationBytes
}

// UnusedBytes is the number of bytes in the contributing regions that are not consumed by allocations
func (s *Statistics) UnusedBytes() int {
	return s.RegionBytes - s.AllocationBytes
}

// DetailedStatistics extends Statistics with the shape of the free space
type DetailedStatistics struct {
	Statistics
	// UsedRangeCount is the number of contiguous runs of allocated memory
	UsedRangeCount     int
	UsedRangeSizeMax   int
	UnusedRangeCount   int
	UnusedRangeSizeMin int
	UnusedRangeSizeMax int
}

func (s *DetailedStatistics) Clear() {
	s.Statistics.Clear()
	s.UsedRangeCount = 0
	s.UsedRangeSizeMax = 0
	s.UnusedRangeCount = 0
	s.UnusedRangeSizeMin = math.MaxInt
	s.UnusedRangeSizeMax = 0
}

func (s *DetailedStatistics) AddUnusedRange(size int) {
	s.UnusedRangeCount++

	if size < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = size
	}

	if size > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddUsedRange(size int) {
	s.UsedRangeCount++

	if size > s.UsedRangeSizeMax {
		s.UsedRangeSizeMax = size
	}
}

func (s *DetailedStatistics) AddDetailedStatistics(other *DetailedStatistics) {
	s.Statistics.AddStatistics(&other.Statistics)
	s.UsedRangeCount += other.UsedRangeCount
	s.UnusedRangeCount += other.UnusedRangeCount

	if other.UsedRangeSizeMax > s.UsedRangeSizeMax {
		s.UsedRangeSizeMax = other.UsedRangeSizeMax
	}

	if other.UnusedRangeSizeMin < s.UnusedRangeSizeMin {
		s.UnusedRangeSizeMin = other.UnusedRangeSizeMin
	}

	if other.UnusedRangeSizeMax > s.UnusedRangeSizeMax {
		s.UnusedRangeSizeMax = other.UnusedRangeSizeMax
	}
}

// Fragmentation returns a value between 0 and 1 describing how scattered the free space is:
// 0 when all free bytes sit in a single range, approaching 1 as the largest range shrinks
// relative to the total free bytes.
func (s *DetailedStatistics) Fragmentation() float64 {
	unused := s.UnusedBytes()
	if unused <= 0 || s.UnusedRangeCount == 0 {
		return 0
	}

	return 1 - float64(s.UnusedRangeSizeMax)/float64(unused)
}
