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

package mempool

import (
	"github.com/pkg/errors"

	"github.com/tinywheels/mempool/z"
)

// SystemAllocator is where a pool gets its chunks and oversized buffers from. Alloc must return
// zeroed memory of exactly n bytes that does not move for its lifetime. The memory must start at
// an address aligned to 8 bytes and to the element alignment. A pool asks for Align extra bytes
// when Align is larger than 8 and aligns chunks itself. Misaligned memory is freed and reported as
// ErrAllocationFailure.
type SystemAllocator interface {
	Alloc(n int) ([]byte, error)
	Free(b []byte) error
}

// HeapAllocator allocates through z.Calloc, which is the Go heap unless the binary is built with
// the jemalloc tag.
type HeapAllocator struct{}

func (HeapAllocator) Alloc(n int) ([]byte, error) {
	b := z.Calloc(n)
	if b == nil && n > 0 {
		return nil, errors.Errorf("calloc of %d bytes returned nothing", n)
	}
	return b, nil
}

func (HeapAllocator) Free(b []byte) error {
	z.Free(b)
	return nil
}

// MmapAllocator allocates anonymous private mappings, keeping pool memory outside of the Go heap.
type MmapAllocator struct{}

func (MmapAllocator) Alloc(n int) ([]byte, error) {
	return z.Mmap(n)
}

func (MmapAllocator) Free(b []byte) error {
	return z.Munmap(b)
}

func systemAllocatorFor(name string) (SystemAllocator, error) {
	switch name {
	case "", "heap":
		return HeapAllocator{}, nil
	case "mmap":
		return MmapAllocator{}, nil
	}
	return nil, errors.Wrapf(ErrInvalidConfig, "unknown system allocator %q", name)
}
