package metadata

import "unsafe"

// AllocationHeader is written immediately before every payload handed out by a free-list
// allocator. It is read back on deallocation to recover the block the payload was carved from.
type AllocationHeader struct {
	// Size is the number of payload bytes usable by the caller. It can exceed the requested size
	// when the request was rounded up or a small remainder was absorbed into the allocation.
	Size uintptr
	// Adjustment is the distance in bytes from the start of the block to the payload, header included
	Adjustment uintptr
}

// FreeBlock describes an unused run of memory and lives at the first byte of that run. Prev and Next
// are region offsets of the neighboring free blocks in address order, or NoBlock.
type FreeBlock struct {
	Size uintptr
	Prev uintptr
	Next uintptr
}

// NoBlock marks the absence of a neighboring free block
const NoBlock = ^uintptr(0)

const (
	HeaderSize      = unsafe.Sizeof(AllocationHeader{})
	HeaderAlignment = unsafe.Alignof(AllocationHeader{})
	FreeBlockSize   = unsafe.Sizeof(FreeBlock{})

	// MinBlockSize is the smallest run of memory that can be tracked on its own: it must hold a
	// FreeBlock while free and a header plus at least one payload byte while allocated.
	MinBlockSize = (max(FreeBlockSize, HeaderSize+1) + HeaderAlignment - 1) &^ (HeaderAlignment - 1)
)

// HeaderFor returns the header that precedes payload
func HeaderFor(payload unsafe.Pointer) *AllocationHeader {
	return (*AllocationHeader)(unsafe.Add(payload, -int(HeaderSize)))
}

// BlockStart returns the first byte of the block that payload was carved from, based on its header
func BlockStart(payload unsafe.Pointer) unsafe.Pointer {
	return unsafe.Add(payload, -int(HeaderFor(payload).Adjustment))
}
