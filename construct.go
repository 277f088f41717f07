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

// Destroyer is implemented by element types that need to run cleanup when Destruct is called on
// them.
type Destroyer interface {
	Destroy()
}

// Construct zero-initializes the first n elements of s. No memory is allocated.
func (p *Pool[T]) Construct(s []T, n int) {
	clear(s[:n])
}

// ConstructWith copies v into each of the first n elements of s.
func (p *Pool[T]) ConstructWith(s []T, n int, v T) {
	s = s[:n]
	for i := range s {
		s[i] = v
	}
}

// ConstructFunc calls fn for each of the first n elements of s, in index order.
func (p *Pool[T]) ConstructFunc(s []T, n int, fn func(i int, elem *T)) {
	s = s[:n]
	for i := range s {
		fn(i, &s[i])
	}
}

// Destruct calls Destroy on each of the first n elements of s that implements Destroyer, in index
// order, and zeroes the element. The memory stays allocated; Deallocate it separately.
func (p *Pool[T]) Destruct(s []T, n int) {
	s = s[:n]
	var zero T
	for i := range s {
		if d, ok := any(&s[i]).(Destroyer); ok {
			d.Destroy()
		}
		s[i] = zero
	}
}
