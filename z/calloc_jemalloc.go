// Copyright 2020 The LevelDB-Go and Pebble Authors. All rights reserved. Use
// of this source code is governed by a BSD-style license that can be found in
// the LICENSE file.

//go:build jemalloc

package z

/*
#cgo LDFLAGS: -L/usr/local/lib -Wl,-rpath,/usr/local/lib -ljemalloc -lm -lstdc++ -pthread -ldl
#include <stdlib.h>
#include <jemalloc/jemalloc.h>
*/
import "C"
import (
	"unsafe"
)

// Calloc allocates a zeroed slice of size n from jemalloc. The returned slice is manually
// managed memory and MUST be released by calling Free. Calloc returns nil when jemalloc
// cannot satisfy the request; callers turn that into an allocation failure.
//
// Compile jemalloc with ./configure --with-jemalloc-prefix="je_"
// and build with `go build -tags=jemalloc` to enable this.
func Calloc(n int) []byte {
	if n == 0 {
		return make([]byte, 0)
	}
	// Zero the memory in C before handing it to Go, see the cgo pointer passing rules.
	ptr := C.je_calloc(C.size_t(n), 1)
	if ptr == nil {
		return nil
	}
	track(n)
	return unsafe.Slice((*byte)(ptr), n)
}

// Free frees the specified slice.
func Free(b []byte) {
	if sz := cap(b); sz != 0 {
		b = b[:cap(b)]
		C.je_free(unsafe.Pointer(&b[0]))
		track(-sz)
	}
}

func StatsPrint() {
	opts := C.CString("mdablxe")
	C.je_malloc_stats_print(nil, nil, opts)
	C.free(unsafe.Pointer(opts))
}
