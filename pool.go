/*
 * Copyright 2026 The mempool Authors
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

// Package mempool is a fixed-size, segregated free-list memory pool for pointer-free element
// types. Small requests are served from per-size-class free lists refilled out of large chunks,
// large requests go straight to the system allocator.
//
// A Pool is not safe for concurrent use. Wrap it in a Locked when it is shared between
// goroutines.
package mempool

import (
	"io"
	"log"
	"math"
	"reflect"
	"unsafe"

	"github.com/pkg/errors"
)

// maxRefillRounds bounds the allocation loop: a miss is followed by at most a chunk acquisition
// and a carve, after which the free list is guaranteed to have a block.
const maxRefillRounds = 3

// Pool hands out memory for T. Requests of at most Threshold bytes are rounded up to a multiple
// of Align and served from the free list of that size class. Anything larger is allocated and
// freed directly through the system allocator.
type Pool[T any] struct {
	a         *arena
	elemSize  int
	elemAlign uintptr
}

// New creates a pool for T. A nil config picks all the defaults. T must not contain pointers.
func New[T any](config *Config) (*Pool[T], error) {
	if config == nil {
		config = &Config{}
	}
	typ := reflect.TypeFor[T]()
	l, err := resolve(config, typ)
	if err != nil {
		return nil, err
	}
	sys := config.System
	if sys == nil {
		sys = HeapAllocator{}
	}
	var metrics *Metrics
	if config.Metrics {
		metrics = newMetrics()
	}
	p := &Pool[T]{
		a:         newArena(l, sys, metrics),
		elemSize:  int(typ.Size()),
		elemAlign: uintptr(typ.Align()),
	}
	p.SetLogOutput(config.LogOutput)
	return p, nil
}

// Allocate returns zeroed memory for n elements. The returned slice has length n and a capacity
// of at least n: everything the underlying block can hold. Hand it back with Deallocate using the
// same n, or with Free.
func (p *Pool[T]) Allocate(n int) ([]T, error) {
	a := p.a
	a.init()
	switch {
	case n < 0:
		return nil, errors.Wrapf(ErrInvalidCount, "allocate %d elements", n)
	case n == 0:
		return nil, nil
	case n > math.MaxInt/p.elemSize:
		return nil, errors.Wrapf(ErrAllocationFailure, "%d elements overflow the address space", n)
	}
	bytes := n * p.elemSize
	a.metrics.trackRequest(bytes)

	if bytes > a.threshold {
		buf, err := a.sys.Alloc(bytes)
		if err == nil && len(buf) < bytes {
			err = errors.Errorf("system allocator returned %d bytes", len(buf))
		}
		if err != nil {
			return nil, errors.Wrapf(ErrAllocationFailure, "%d bytes: %v", bytes, err)
		}
		if at := uintptr(unsafe.Pointer(unsafe.SliceData(buf))); at%p.elemAlign != 0 {
			if err := a.sys.Free(buf); err != nil {
				return nil, errors.Wrapf(err, "while freeing misaligned buffer")
			}
			return nil, errors.Wrapf(ErrAllocationFailure,
				"%d bytes at %#x are not aligned to %d", bytes, at, p.elemAlign)
		}
		a.metrics.add(largeAlloc, 1)
		a.metrics.add(systemBytes, uint64(bytes))
		return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), n), nil
	}

	r, err := a.allocate(bytes)
	if err != nil {
		return nil, err
	}
	size := a.RoundUp(bytes)
	buf := a.block(r, size)
	return unsafe.Slice((*T)(unsafe.Pointer(unsafe.SliceData(buf))), size/p.elemSize)[:n], nil
}

// allocate returns a block of the class serving bytes, refilling its free list as needed.
func (a *arena) allocate(bytes int) (blockRef, error) {
	class := a.indexOf(bytes)
	size := a.classSize(class)
	for round := 0; round < maxRefillRounds; round++ {
		if r := a.pop(class); r != 0 {
			if round == 0 {
				a.metrics.add(poolHit, 1)
			} else {
				a.metrics.add(poolMiss, 1)
			}
			return r, nil
		}
		switch {
		case a.left >= size*a.refill:
			a.push(a.carve(size, a.refill), size, a.refill)
		case a.left >= size:
			a.push(a.carve(size, 1), size, 1)
		default:
			if err := a.acquire(); err != nil {
				return 0, err
			}
		}
	}
	return 0, errors.Wrapf(ErrAllocationFailure,
		"no block of %d bytes after %d refills", size, maxRefillRounds)
}

// Deallocate gives back memory obtained from Allocate. n must be the count passed to Allocate,
// or the capacity of the returned slice. Small blocks go back on their free list, large buffers
// back to the system allocator.
func (p *Pool[T]) Deallocate(s []T, n int) error {
	a := p.a
	switch {
	case !a.initialized():
		return ErrUninitializedPool
	case n < 0:
		return errors.Wrapf(ErrInvalidCount, "deallocate %d elements", n)
	case n == 0:
		return nil
	case cap(s) == 0:
		return errors.Wrapf(ErrForeignBlock, "empty slice for %d elements", n)
	}
	bytes := n * p.elemSize
	ptr := unsafe.Pointer(unsafe.SliceData(s))

	if bytes > a.threshold {
		if err := a.sys.Free(unsafe.Slice((*byte)(ptr), bytes)); err != nil {
			return errors.Wrapf(err, "while freeing %d bytes", bytes)
		}
		a.metrics.add(largeFree, 1)
		return nil
	}

	r, ok := a.locate(uintptr(ptr))
	if !ok {
		return errors.Wrapf(ErrForeignBlock, "block of %d bytes at %p", bytes, ptr)
	}
	a.push(r, a.RoundUp(bytes), 1)
	a.metrics.add(dealloc, 1)
	return nil
}

// Free is Deallocate with the capacity of s as the count.
func (p *Pool[T]) Free(s []T) error {
	return p.Deallocate(s, cap(s))
}

// Teardown hands every chunk back to the system allocator and resets the pool to the state it
// had right after New. Memory still held by callers becomes invalid. Oversized buffers are not
// tracked and must be freed before.
func (p *Pool[T]) Teardown() error {
	return p.a.teardown()
}

// RoundUp returns the smallest multiple of Align that is at least max(bytes, 1).
func (p *Pool[T]) RoundUp(bytes int) int {
	return p.a.RoundUp(bytes)
}

// Align returns the block granularity in bytes.
func (p *Pool[T]) Align() int { return p.a.align }

// Threshold returns the largest request in bytes served from the free lists.
func (p *Pool[T]) Threshold() int { return p.a.threshold }

// NumClasses returns the number of size classes.
func (p *Pool[T]) NumClasses() int { return p.a.numClasses }

// ChunkBytes returns the usable size of one chunk.
func (p *Pool[T]) ChunkBytes() int { return p.a.chunkBytes }

// Metrics returns the metrics of the pool, or nil if they are not collected.
func (p *Pool[T]) Metrics() *Metrics { return p.a.metrics }

// SetLogOutput redirects free-list dumps to w. A nil w silences them.
func (p *Pool[T]) SetLogOutput(w io.Writer) {
	if w == nil {
		p.a.log = nil
		return
	}
	p.a.log = log.New(w, "mempool: ", 0)
}
