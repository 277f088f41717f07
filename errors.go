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

import "github.com/pkg/errors"

var (
	// ErrAllocationFailure is returned when the system allocator cannot hand out a chunk or an
	// oversized buffer. The pool never retries on its own.
	ErrAllocationFailure = errors.New("mempool: allocation failure")

	// ErrUninitializedPool is returned when memory is handed back to a pool that has not served
	// a single allocation since it was created or torn down.
	ErrUninitializedPool = errors.New("mempool: pool not initialized")

	// ErrInvalidConfig is returned by New for an unusable configuration.
	ErrInvalidConfig = errors.New("mempool: invalid config")

	// ErrPointerType is returned by New for element types holding Go pointers. Pool memory is
	// not scanned by the garbage collector.
	ErrPointerType = errors.New("mempool: element type contains pointers")

	// ErrInvalidCount is returned for negative element counts.
	ErrInvalidCount = errors.New("mempool: invalid element count")

	// ErrForeignBlock is returned when a small block handed back does not belong to any chunk
	// of the pool.
	ErrForeignBlock = errors.New("mempool: block does not belong to this pool")
)
