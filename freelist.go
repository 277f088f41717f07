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

import "encoding/binary"

// A free block stores the blockRef of the next free block of its class in its first 8 bytes.
// The link only exists between push and pop; pop wipes the block before handing it out.

func (a *arena) next(r blockRef) blockRef {
	return blockRef(binary.LittleEndian.Uint64(a.block(r, ptrBytes)))
}

func (a *arena) setNext(r, next blockRef) {
	binary.LittleEndian.PutUint64(a.block(r, ptrBytes), uint64(next))
}

// push puts count contiguous blocks of size bytes, starting at first, in front of the free list
// of their class. The run keeps its order, so first is handed out next.
func (a *arena) push(first blockRef, size, count int) {
	if first == 0 || count <= 0 {
		return
	}
	class := size/a.align - 1
	r := first
	for i := 0; i < count-1; i++ {
		nr := r.advance(size)
		a.setNext(r, nr)
		r = nr
	}
	a.setNext(r, a.heads[class])
	a.heads[class] = first
}

// pop takes the first free block of class, or returns zero if there is none. The returned block
// is zeroed.
func (a *arena) pop(class int) blockRef {
	r := a.heads[class]
	if r == 0 {
		return 0
	}
	a.heads[class] = a.next(r)
	clear(a.block(r, a.classSize(class)))
	return r
}

// length walks the free list of class.
func (a *arena) length(class int) int {
	var n int
	for r := a.heads[class]; r != 0; r = a.next(r) {
		n++
	}
	return n
}
