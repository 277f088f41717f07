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
	"strconv"
	"strings"
	"unsafe"

	"github.com/dustin/go-humanize"
	"github.com/launchdarkly/go-jsonstream/v3/jwriter"
)

// Stats describes the state of a pool at one point in time.
type Stats struct {
	Initialized bool
	Chunks      int
	ChunkBytes  int
	// CursorLeft is how much of the active chunk has not been carved into blocks yet.
	CursorLeft int
	// FreeBlocks holds the length of the free list of every size class.
	FreeBlocks []int
}

// FreeBytes is the total size of all blocks sitting on free lists.
func (s Stats) FreeBytes(align int) int {
	var total int
	for i, n := range s.FreeBlocks {
		total += n * (i + 1) * align
	}
	return total
}

func (s Stats) String() string {
	if !s.Initialized {
		return "uninitialized"
	}
	var free int
	for _, n := range s.FreeBlocks {
		free += n
	}
	return fmt.Sprintf("chunks: %d (%s) cursor-left: %s free-blocks: %d",
		s.Chunks, humanize.IBytes(uint64(s.Chunks*s.ChunkBytes)),
		humanize.IBytes(uint64(s.CursorLeft)), free)
}

// Stats walks the free lists and reports the state of the pool.
func (p *Pool[T]) Stats() Stats {
	a := p.a
	s := Stats{
		Initialized: a.initialized(),
		Chunks:      len(a.chunks),
		ChunkBytes:  a.chunkBytes,
		CursorLeft:  a.left,
	}
	if s.Initialized {
		s.FreeBlocks = make([]int, a.numClasses)
		for i := range s.FreeBlocks {
			s.FreeBlocks[i] = a.length(i)
		}
	}
	return s
}

// DumpFreeLists writes the free list of class to the log output set by SetLogOutput, or every
// free list if class is negative. It does nothing without a log output.
func (p *Pool[T]) DumpFreeLists(class int) {
	a := p.a
	if a.log == nil {
		return
	}
	if !a.initialized() {
		a.log.Print("free list not initialized")
		return
	}
	if class >= a.numClasses {
		a.log.Printf("no size class %d, there are %d", class, a.numClasses)
		return
	}
	if class >= 0 {
		a.log.Print(a.describe(class))
	} else {
		for i := 0; i < a.numClasses; i++ {
			a.log.Print(a.describe(i))
		}
	}
	a.log.Print("=========================")
}

func (a *arena) describe(class int) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "free_list[%d] = ", class)
	for r := a.heads[class]; r != 0; r = a.next(r) {
		fmt.Fprintf(&sb, "%p -> ", unsafe.Pointer(unsafe.SliceData(a.block(r, ptrBytes))))
	}
	sb.WriteString("nil")
	return sb.String()
}

// WriteDetailedMap writes the layout, the chunks and the free blocks of every size class as a
// JSON object.
func (p *Pool[T]) WriteDetailedMap(w *jwriter.Writer) {
	a := p.a
	obj := w.Object()
	defer obj.End()

	obj.Name("Align").Int(a.align)
	obj.Name("Threshold").Int(a.threshold)
	obj.Name("BlockNumber").Int(a.blockNumber)
	obj.Name("ChunkBytes").Int(a.chunkBytes)
	obj.Name("Initialized").Bool(a.initialized())

	chunks := obj.Name("Chunks").Array()
	for i := range a.chunks {
		c := chunks.Object()
		c.Name("Index").Int(i)
		used := a.chunkBytes
		if i == a.cur {
			used = a.curOff
		}
		c.Name("Used").Int(used)
		c.End()
	}
	chunks.End()

	if !a.initialized() {
		return
	}
	lists := obj.Name("FreeLists").Object()
	for i := 0; i < a.numClasses; i++ {
		if a.heads[i] == 0 {
			continue
		}
		blocks := lists.Name(strconv.Itoa(a.classSize(i))).Array()
		for r := a.heads[i]; r != 0; r = a.next(r) {
			b := blocks.Object()
			b.Name("Chunk").Int(r.chunk())
			b.Name("Offset").Int(r.offset())
			b.End()
		}
		blocks.End()
	}
	lists.End()
}

// DetailedMapJSON returns WriteDetailedMap as a string.
func (p *Pool[T]) DetailedMapJSON() (string, error) {
	w := jwriter.NewWriter()
	p.WriteDetailedMap(&w)
	if err := w.Error(); err != nil {
		return "", err
	}
	return string(w.Bytes()), nil
}
