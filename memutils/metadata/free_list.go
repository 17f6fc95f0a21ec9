package metadata

import (
	"unsafe"

	"github.com/pkg/errors"
	"github.com/vkngwrapper/hostmem/memutils"
)

// FreeList is a doubly-linked list of FreeBlock nodes stored inside the memory they describe. The
// list is kept in ascending address order and memory-adjacent blocks are always merged, so every
// contiguous run of free memory is represented by exactly one node.
//
// FreeList does no allocation of its own: its only state outside the region is the head offset and
// a pair of counters.
type FreeList struct {
	base unsafe.Pointer
	size uintptr

	head       uintptr
	blockCount int
	freeBytes  uintptr
}

var _ memutils.Validatable = &FreeList{}

// Init prepares the list to manage size bytes starting at base and marks the whole range free.
// base must be aligned to at least HeaderAlignment.
func (l *FreeList) Init(base unsafe.Pointer, size uintptr) {
	l.base = base
	l.size = size
	l.Reset()
}

// Reset discards every node and marks the whole range free again, in place.
func (l *FreeList) Reset() {
	l.head = NoBlock
	l.blockCount = 0
	l.freeBytes = 0

	if l.size < FreeBlockSize {
		return
	}

	l.head = 0
	*l.Block(0) = FreeBlock{Size: l.size, Prev: NoBlock, Next: NoBlock}
	l.blockCount = 1
	l.freeBytes = l.size
}

// Block returns the node stored at offset
func (l *FreeList) Block(offset uintptr) *FreeBlock {
	return (*FreeBlock)(unsafe.Add(l.base, offset))
}

// Head returns the offset of the lowest-addressed free block, or NoBlock
func (l *FreeList) Head() uintptr { return l.head }

// Count returns the number of free blocks
func (l *FreeList) Count() int { return l.blockCount }

// FreeBytes returns the number of bytes covered by free blocks
func (l *FreeList) FreeBytes() uintptr { return l.freeBytes }

// Size returns the number of bytes managed by the list
func (l *FreeList) Size() uintptr { return l.size }

// Remove unlinks the block at offset from the list
func (l *FreeList) Remove(offset uintptr) {
	block := l.Block(offset)

	if block.Prev != NoBlock {
		l.Block(block.Prev).Next = block.Next
	} else {
		memutils.DebugAssert(l.head == offset, "free block at offset %d has no previous block but is not the list head", offset)
		l.head = block.Next
	}

	if block.Next != NoBlock {
		l.Block(block.Next).Prev = block.Prev
	}

	l.blockCount--
	l.freeBytes -= block.Size
}

// Insert marks size bytes at offset free. The new node is linked at its address-ordered position and
// merged with the blocks immediately before and after it when they are adjacent in memory. It returns
// the offset of the node that covers the range once merging is done.
func (l *FreeList) Insert(offset, size uintptr) uintptr {
	memutils.DebugAssert(size >= FreeBlockSize, "cannot insert a free block of %d bytes, the minimum is %d", size, FreeBlockSize)
	memutils.DebugAssert(offset+size <= l.size, "free block at offset %d with size %d runs past the end of the region (%d)", offset, size, l.size)

	prev := NoBlock
	next := l.head
	for next != NoBlock && next < offset {
		prev = next
		next = l.Block(next).Next
	}

	memutils.DebugAssert(prev == NoBlock || prev+l.Block(prev).Size <= offset,
		"free block at offset %d overlaps the free block at offset %d: double free or corrupted header", offset, prev)
	memutils.DebugAssert(next == NoBlock || offset+size <= next,
		"free block at offset %d overlaps the free block at offset %d: double free or corrupted header", offset, next)

	block := l.Block(offset)
	block.Size = size
	block.Prev = prev
	block.Next = next

	if prev != NoBlock {
		l.Block(prev).Next = offset
	} else {
		l.head = offset
	}
	if next != NoBlock {
		l.Block(next).Prev = offset
	}

	l.blockCount++
	l.freeBytes += size

	if next != NoBlock && offset+block.Size == next {
		l.merge(offset, next)
	}

	if prev != NoBlock && prev+l.Block(prev).Size == offset {
		l.merge(prev, offset)
		return prev
	}

	return offset
}

// merge absorbs the block at second into the block at first. The two must be neighbors in the list.
func (l *FreeList) merge(first, second uintptr) {
	firstBlock := l.Block(first)
	secondBlock := l.Block(second)

	firstBlock.Size += secondBlock.Size
	firstBlock.Next = secondBlock.Next
	if secondBlock.Next != NoBlock {
		l.Block(secondBlock.Next).Prev = first
	}

	l.blockCount--
}

// VisitAll calls visit once for each free block in address order
func (l *FreeList) VisitAll(visit func(offset, size uintptr) error) error {
	for offset := l.head; offset != NoBlock; offset = l.Block(offset).Next {
		err := visit(offset, l.Block(offset).Size)
		if err != nil {
			return err
		}
	}

	return nil
}

// Validate performs internal consistency checks on the list. It walks every node, so it should only
// be used for diagnostics.
func (l *FreeList) Validate() error {
	if l.freeBytes > l.size {
		return errors.Errorf("the list claims %d free bytes, but only manages %d", l.freeBytes, l.size)
	}

	var count int
	var freeBytes uintptr
	prev := NoBlock

	for offset := l.head; offset != NoBlock; offset = l.Block(offset).Next {
		block := l.Block(offset)

		if offset%HeaderAlignment != 0 {
			return errors.Errorf("free block at offset %d is not aligned to %d", offset, HeaderAlignment)
		}
		if block.Size < FreeBlockSize {
			return errors.Errorf("free block at offset %d has size %d, which is smaller than a free block header", offset, block.Size)
		}
		if offset+block.Size > l.size {
			return errors.Errorf("free block at offset %d with size %d runs past the end of the region (%d)", offset, block.Size, l.size)
		}
		if block.Prev != prev {
			return errors.Errorf("free block at offset %d lists %d as its previous block, but the previous block was %d", offset, block.Prev, prev)
		}

		if prev != NoBlock {
			prevBlock := l.Block(prev)
			if prev >= offset {
				return errors.Errorf("free block at offset %d follows the block at offset %d: the list is out of address order", offset, prev)
			}
			if prev+prevBlock.Size > offset {
				return errors.Errorf("free block at offset %d overlaps the block at offset %d", offset, prev)
			}
			if prev+prevBlock.Size == offset {
				return errors.Errorf("free blocks at offsets %d and %d are adjacent but were not merged", prev, offset)
			}
		}

		count++
		freeBytes += block.Size
		prev = offset

		if count > l.blockCount {
			return errors.Errorf("walked more free blocks than the %d the list claims, the list may contain a cycle", l.blockCount)
		}
	}

	if count != l.blockCount {
		return errors.Errorf("the list claims %d free blocks, but %d were found", l.blockCount, count)
	}

	if freeBytes != l.freeBytes {
		return errors.Errorf("the list claims %d free bytes, but the free blocks only added up to %d", l.freeBytes, freeBytes)
	}

	return nil
}
