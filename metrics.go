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
	"bytes"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/dustin/go-humanize"

	"github.com/tinywheels/mempool/z"
)

type metricType int

const (
	// The following 2 keep track of requests served straight from a free list and requests that
	// needed a refill first.
	poolHit = iota
	poolMiss
	// The following 4 keep track of chunk usage.
	chunkAcquire
	blockCarve
	leftoverBlock
	wasteBytes
	// The following 2 keep track of requests bypassing the pool.
	largeAlloc
	largeFree
	// Small blocks handed back.
	dealloc
	// Bytes requested from the system allocator, chunks and oversized buffers alike.
	systemBytes
	// This should be the final enum. Other enums should be set before this.
	doNotUse
)

func stringFor(t metricType) string {
	switch t {
	case poolHit:
		return "hit"
	case poolMiss:
		return "miss"
	case chunkAcquire:
		return "chunks-acquired"
	case blockCarve:
		return "blocks-carved"
	case leftoverBlock:
		return "leftover-blocks"
	case wasteBytes:
		return "bytes-wasted"
	case largeAlloc:
		return "large-allocs"
	case largeFree:
		return "large-frees"
	case dealloc:
		return "deallocs"
	case systemBytes:
		return "system-bytes"
	default:
		return "unidentified"
	}
}

// Metrics is a snapshot of allocation statistics for the lifetime of a pool. A nil *Metrics is
// valid and reports zeroes.
type Metrics struct {
	all [doNotUse]uint64

	mu       sync.RWMutex
	requests *z.HistogramData // Tracks the byte size of allocation requests.
}

func newMetrics() *Metrics {
	return &Metrics{
		requests: z.NewHistogramData(z.HistogramBounds(3, 16)),
	}
}

func (p *Metrics) add(t metricType, delta uint64) {
	if p == nil {
		return
	}
	atomic.AddUint64(&p.all[t], delta)
}

func (p *Metrics) get(t metricType) uint64 {
	if p == nil {
		return 0
	}
	return atomic.LoadUint64(&p.all[t])
}

func (p *Metrics) trackRequest(bytes int) {
	if p == nil {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	p.requests.Update(int64(bytes))
}

// Hits is the number of small allocations served without touching a chunk.
func (p *Metrics) Hits() uint64 {
	return p.get(poolHit)
}

// Misses is the number of small allocations that needed a refill.
func (p *Metrics) Misses() uint64 {
	return p.get(poolMiss)
}

// ChunksAcquired is the number of chunks obtained from the system allocator.
func (p *Metrics) ChunksAcquired() uint64 {
	return p.get(chunkAcquire)
}

// BlocksCarved is the number of blocks sliced off chunks, leftovers included.
func (p *Metrics) BlocksCarved() uint64 {
	return p.get(blockCarve)
}

// LeftoverBlocks is the number of blocks made out of the remainder of a chunk when the next one
// was acquired.
func (p *Metrics) LeftoverBlocks() uint64 {
	return p.get(leftoverBlock)
}

// BytesWasted is the number of chunk bytes too small to form any block.
func (p *Metrics) BytesWasted() uint64 {
	return p.get(wasteBytes)
}

// LargeAllocs is the number of allocations that bypassed the pool.
func (p *Metrics) LargeAllocs() uint64 {
	return p.get(largeAlloc)
}

// LargeFrees is the number of oversized buffers handed back to the system allocator.
func (p *Metrics) LargeFrees() uint64 {
	return p.get(largeFree)
}

// Deallocs is the number of small blocks returned to a free list.
func (p *Metrics) Deallocs() uint64 {
	return p.get(dealloc)
}

// SystemBytes is the total number of bytes requested from the system allocator.
func (p *Metrics) SystemBytes() uint64 {
	return p.get(systemBytes)
}

// Ratio is the number of Hits over all small allocations.
func (p *Metrics) Ratio() float64 {
	if p == nil {
		return 0.0
	}
	hits, misses := p.get(poolHit), p.get(poolMiss)
	if hits == 0 && misses == 0 {
		return 0.0
	}
	return float64(hits) / float64(hits+misses)
}

// RequestSizes returns a copy of the histogram of requested byte sizes.
func (p *Metrics) RequestSizes() *z.HistogramData {
	if p == nil {
		return nil
	}
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.requests.Copy()
}

// Clear resets all the metrics.
func (p *Metrics) Clear() {
	if p == nil {
		return
	}
	for i := 0; i < doNotUse; i++ {
		atomic.StoreUint64(&p.all[i], 0)
	}
	p.mu.Lock()
	p.requests = z.NewHistogramData(z.HistogramBounds(3, 16))
	p.mu.Unlock()
}

// String returns a string representation of the metrics.
func (p *Metrics) String() string {
	if p == nil {
		return ""
	}
	var buf bytes.Buffer
	for i := 0; i < doNotUse; i++ {
		t := metricType(i)
		switch t {
		case wasteBytes, systemBytes:
			fmt.Fprintf(&buf, "%s: %s ", stringFor(t), humanize.IBytes(p.get(t)))
		default:
			fmt.Fprintf(&buf, "%s: %d ", stringFor(t), p.get(t))
		}
	}
	fmt.Fprintf(&buf, "hit-ratio: %.2f", p.Ratio())
	return buf.String()
}
