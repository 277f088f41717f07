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
	"io"
	"math"
	"reflect"

	"github.com/pkg/errors"

	"github.com/tinywheels/mempool/z"
)

const (
	// ptrBytes is the smallest Align. A free block holds a 64-bit blockRef link, so this stays 8
	// on 32-bit targets too.
	ptrBytes = 8
	// defaultBlockNumber is how many blocks of a size class a chunk is weighted for.
	defaultBlockNumber = 20
	// maxChunkBytes keeps every block offset addressable by the low half of a blockRef.
	maxChunkBytes = math.MaxUint32
)

// DefaultFlags lists every option ParseConfig understands. A zero align or threshold is derived
// from the element type.
const DefaultFlags = `align=0; threshold=0; block-number=20; system=heap; metrics=false;`

// FlagHelp documents DefaultFlags.
var FlagHelp = z.NewSuperFlagHelp(DefaultFlags).
	Flag("align", "Block granularity in bytes. A power of two, at least 8 and the element alignment.").
	Flag("threshold", "Requests above this many bytes go straight to the system allocator.").
	Flag("block-number", "Blocks per size class a chunk is weighted for. Refills carve half of it.").
	Flag("system", "Where chunks come from: heap or mmap.").
	Flag("metrics", "Collect allocation metrics.").
	String()

// Config is passed to New when creating a pool. Zero values pick defaults derived from the
// element type.
type Config struct {
	// Align is the block granularity in bytes. Every size class is a multiple of it. Defaults to
	// the larger of the element alignment and the size of a pointer.
	Align int
	// Threshold is the request size in bytes above which pooling is bypassed. It must be a
	// multiple of Align and determines the number of size classes, Threshold/Align. Defaults to
	// the larger of 16 pointers and the element alignment.
	Threshold int
	// BlockNumber weights the size of a chunk. A refill from the active chunk carves
	// BlockNumber/2 blocks at once.
	BlockNumber int
	// System provides chunks and oversized buffers. Defaults to HeapAllocator.
	System SystemAllocator
	// Metrics turns on allocation metrics collection.
	Metrics bool
	// LogOutput receives free-list dumps. Nil keeps the pool silent.
	LogOutput io.Writer
}

// ParseConfig builds a Config from a `key=value; key=value` string. See DefaultFlags for the
// options and FlagHelp for their meaning.
func ParseConfig(flag string) (*Config, error) {
	sf, err := z.NewSuperFlag(flag)
	if err != nil {
		return nil, errors.Wrap(err, "while parsing pool config")
	}
	if sf, err = sf.MergeAndCheckDefault(DefaultFlags); err != nil {
		return nil, errors.Wrap(err, "while parsing pool config")
	}

	config := &Config{}
	var v uint64
	if v, err = sf.GetUint64("align"); err != nil {
		return nil, err
	}
	config.Align = int(v)
	if v, err = sf.GetUint64("threshold"); err != nil {
		return nil, err
	}
	config.Threshold = int(v)
	if v, err = sf.GetUint64("block-number"); err != nil {
		return nil, err
	}
	config.BlockNumber = int(v)
	if config.Metrics, err = sf.GetBool("metrics"); err != nil {
		return nil, err
	}
	if config.System, err = systemAllocatorFor(sf.GetString("system")); err != nil {
		return nil, err
	}
	return config, nil
}

// layout is a Config resolved against an element type.
type layout struct {
	align       int
	threshold   int
	blockNumber int
	numClasses  int
	chunkBytes  int
}

func resolve(config *Config, typ reflect.Type) (layout, error) {
	var l layout
	elemAlign := typ.Align()
	switch {
	case typ.Size() == 0:
		return l, errors.Wrapf(ErrInvalidConfig, "zero-sized element type %s", typ)
	case hasPointers(typ):
		return l, errors.Wrapf(ErrPointerType, "%s", typ)
	case config.Align < 0 || config.Threshold < 0 || config.BlockNumber < 0:
		return l, errors.Wrapf(ErrInvalidConfig, "negative option in %+v", *config)
	}

	l.align = config.Align
	if l.align == 0 {
		l.align = max(elemAlign, ptrBytes)
	}
	switch {
	case l.align&(l.align-1) != 0:
		return l, errors.Wrapf(ErrInvalidConfig, "align %d is not a power of two", l.align)
	case l.align < ptrBytes || l.align < elemAlign:
		return l, errors.Wrapf(ErrInvalidConfig,
			"align %d is smaller than a pointer or the alignment of %s", l.align, typ)
	}

	l.threshold = config.Threshold
	if l.threshold == 0 {
		l.threshold = max(16*ptrBytes, elemAlign)
		l.threshold = (l.threshold + l.align - 1) &^ (l.align - 1)
	}
	if l.threshold < l.align || l.threshold%l.align != 0 {
		return l, errors.Wrapf(ErrInvalidConfig,
			"threshold %d is not a positive multiple of align %d", l.threshold, l.align)
	}

	l.blockNumber = config.BlockNumber
	if l.blockNumber == 0 {
		l.blockNumber = defaultBlockNumber
	}

	l.numClasses = l.threshold / l.align
	// Room for BlockNumber blocks of every class: a triangular number of Align*BlockNumber.
	chunk := uint64(l.align) * uint64(l.blockNumber) *
		uint64(1+l.numClasses) * uint64(l.numClasses) / 2
	if chunk+uint64(l.align) > maxChunkBytes {
		return l, errors.Wrapf(ErrInvalidConfig,
			"chunk of %d bytes is too large, lower threshold or block-number", chunk)
	}
	l.chunkBytes = int(chunk)
	return l, nil
}

// hasPointers reports whether values of typ hold anything the garbage collector has to trace.
func hasPointers(typ reflect.Type) bool {
	switch typ.Kind() {
	case reflect.Bool, reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Uintptr, reflect.Float32, reflect.Float64, reflect.Complex64, reflect.Complex128:
		return false
	case reflect.Array:
		return typ.Len() > 0 && hasPointers(typ.Elem())
	case reflect.Struct:
		for i := 0; i < typ.NumField(); i++ {
			if hasPointers(typ.Field(i).Type) {
				return true
			}
		}
		return false
	}
	return true
}
