// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build !jemalloc

package z

import (
	"fmt"
)

// Provides versions of Calloc and Free when cgo is not available (e.g. cross
// compilation). Memory comes from the Go heap and is reclaimed by the GC once
// nothing references it.

// Calloc allocates a zeroed slice of size n. It never returns nil for n > 0.
func Calloc(n int) []byte {
	track(n)
	return make([]byte, n)
}

// Free only drops the accounting in this mode. The GC takes the memory back.
func Free(b []byte) {
	if sz := cap(b); sz != 0 {
		track(-sz)
	}
}

func StatsPrint() {
	fmt.Println("Using Go memory")
}
