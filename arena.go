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
	"fmt"
	"log"
)

// blockRef names a block by the chunk it was carved from and its byte offset in that chunk:
// (chunk index + 1) << 32 | offset. The zero blockRef names nothing and terminates free lists.
type blockRef uint64

func makeRef(chunk, offset int) blockRef {
	return blockRef(uint64(chunk+1)<<32 | uint64(offset))
}

func (r blockRef) chunk() int  { return int(r>>32) - 1 }
func (r blockRef) offset() int { return int(r & 0xffffffff) }

// advance returns the reference n bytes further into the same chunk.
func (r blockRef) advance(n int) blockRef { return r + blockRef(n) }

func (r blockRef) String() string {
	if r == 0 {
		return "nil"
	}
	return fmt.Sprintf("%d:%d", r.chunk(), r.offset())
}

// arena is the element-type agnostic state behind a Pool. It deals in bytes only.
type arena struct {
	layout
	refill int // blocks carved from the cursor per refill

	sys     SystemAllocator
	metrics *Metrics
	log     *log.Logger

	// heads is nil until the first allocation. heads[i] is the first free block of class i.
	heads []blockRef

	chunks []chunk
	byAddr []int // indices into chunks, ordered by base address

	// The cursor: the active chunk and how much of it has not been carved yet.
	cur    int
	curOff int
	left   int
}

func newArena(l layout, sys SystemAllocator, metrics *Metrics) *arena {
	return &arena{
		layout:  l,
		refill:  max(l.blockNumber/2, 1),
		sys:     sys,
		metrics: metrics,
		cur:     -1,
	}
}

func (a *arena) initialized() bool {
	return a.heads != nil
}

func (a *arena) init() {
	if a.heads == nil {
		a.heads = make([]blockRef, a.numClasses)
	}
}

// block returns the n bytes starting at r.
func (a *arena) block(r blockRef, n int) []byte {
	off := r.offset()
	return a.chunks[r.chunk()].data[off : off+n : off+n]
}

// teardown hands every chunk back to the system allocator and forgets all state. The first
// error is returned, but every chunk is still attempted.
func (a *arena) teardown() error {
	var firstErr error
	for i := range a.chunks {
		if err := a.sys.Free(a.chunks[i].raw); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if a.log != nil && len(a.chunks) > 0 {
		a.log.Printf("released %d chunks of %d bytes", len(a.chunks), a.chunkBytes)
	}
	a.heads = nil
	a.chunks = nil
	a.byAddr = nil
	a.cur, a.curOff, a.left = -1, 0, 0
	return firstErr
}
