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
	"sort"
	"unsafe"

	"github.com/pkg/errors"
)

// chunk is one region obtained from the system allocator. Chunks are only released together,
// on teardown.
type chunk struct {
	raw  []byte  // exactly what the system allocator returned
	data []byte  // the aligned chunkBytes carved into blocks
	base uintptr // address of data[0], for mapping block addresses back to references
}

// acquire gets a new chunk and makes it the cursor. Whatever the previous cursor had left is
// carved into free blocks first, largest class that fits first.
func (a *arena) acquire() error {
	need := a.chunkBytes
	if a.align > ptrBytes {
		need += a.align
	}
	raw, err := a.sys.Alloc(need)
	if err != nil {
		return errors.Wrapf(ErrAllocationFailure, "chunk of %d bytes: %v", need, err)
	}
	if len(raw) < need {
		return errors.Wrapf(ErrAllocationFailure,
			"chunk of %d bytes: system allocator returned %d", need, len(raw))
	}
	base := uintptr(unsafe.Pointer(unsafe.SliceData(raw)))
	pad := int(-base & uintptr(a.align-1))
	if pad+a.chunkBytes > len(raw) {
		if err := a.sys.Free(raw); err != nil {
			return errors.Wrapf(err, "while freeing misaligned chunk")
		}
		return errors.Wrapf(ErrAllocationFailure,
			"chunk of %d bytes at %#x is not aligned to %d", need, base, a.align)
	}
	a.metrics.add(chunkAcquire, 1)
	a.metrics.add(systemBytes, uint64(need))

	c := chunk{
		raw:  raw,
		data: raw[pad : pad+a.chunkBytes : pad+a.chunkBytes],
		base: base + uintptr(pad),
	}

	a.sliceLeftover()

	idx := len(a.chunks)
	a.chunks = append(a.chunks, c)
	pos := sort.Search(len(a.byAddr), func(i int) bool {
		return a.chunks[a.byAddr[i]].base > c.base
	})
	a.byAddr = append(a.byAddr, 0)
	copy(a.byAddr[pos+1:], a.byAddr[pos:])
	a.byAddr[pos] = idx

	a.cur, a.curOff, a.left = idx, 0, a.chunkBytes
	return nil
}

// sliceLeftover pushes the rest of the cursor onto the free lists one block at a time. Each
// step carves at least align bytes, so it runs at most left/align times. A tail shorter than
// align cannot form a block and is counted as waste.
func (a *arena) sliceLeftover() {
	for steps := a.left / a.align; steps > 0 && a.left >= a.align; steps-- {
		class := min(a.left/a.align, a.numClasses) - 1
		size := a.classSize(class)
		a.push(a.carve(size, 1), size, 1)
		a.metrics.add(leftoverBlock, 1)
	}
	if a.left > 0 {
		a.metrics.add(wasteBytes, uint64(a.left))
		a.curOff += a.left
		a.left = 0
	}
}

// carve takes count blocks of size bytes off the cursor and returns the first one. The caller
// makes sure the cursor has room.
func (a *arena) carve(size, count int) blockRef {
	r := makeRef(a.cur, a.curOff)
	a.curOff += size * count
	a.left -= size * count
	a.metrics.add(blockCarve, uint64(count))
	return r
}

// locate maps the address of a block back to its reference. Addresses inside a block are not
// block addresses.
func (a *arena) locate(addr uintptr) (blockRef, bool) {
	i := sort.Search(len(a.byAddr), func(i int) bool {
		return a.chunks[a.byAddr[i]].base > addr
	}) - 1
	if i < 0 {
		return 0, false
	}
	idx := a.byAddr[i]
	off := addr - a.chunks[idx].base
	if off >= uintptr(a.chunkBytes) || off%uintptr(a.align) != 0 {
		return 0, false
	}
	return makeRef(idx, int(off)), true
}
