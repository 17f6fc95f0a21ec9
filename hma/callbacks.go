package hma

import "unsafe"

// AllocateCallback is called after the allocator successfully satisfies a request
type AllocateCallback func(
	allocator *Allocator,
	ptr unsafe.Pointer,
	size int,
	userData interface{},
)

// FreeCallback is called before the allocator hands memory back to its strategy
type FreeCallback func(
	allocator *Allocator,
	ptr unsafe.Pointer,
	userData interface{},
)

type MemoryCallbackOptions struct {
	Allocate AllocateCallback
	Free     FreeCallback
	UserData interface{}
}

type memoryCallbacks struct {
	Callbacks *MemoryCallbackOptions
	Allocator *Allocator
}

func (c *memoryCallbacks) Allocate(ptr unsafe.Pointer, size int) {
	if c.Callbacks != nil && c.Callbacks.Allocate != nil {
		c.Callbacks.Allocate(c.Allocator, ptr, size, c.Callbacks.UserData)
	}
}

func (c *memoryCallbacks) Free(ptr unsafe.Pointer) {
	if c.Callbacks != nil && c.Callbacks.Free != nil {
		c.Callbacks.Free(c.Allocator, ptr, c.Callbacks.UserData)
	}
}
