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

import "sync"

// Locked is a Pool guarded by a mutex, for pools shared between goroutines.
type Locked[T any] struct {
	mu sync.Mutex
	p  *Pool[T]
}

// NewLocked creates a synchronized pool for T.
func NewLocked[T any](config *Config) (*Locked[T], error) {
	p, err := New[T](config)
	if err != nil {
		return nil, err
	}
	return &Locked[T]{p: p}, nil
}

func (l *Locked[T]) Allocate(n int) ([]T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Allocate(n)
}

func (l *Locked[T]) Deallocate(s []T, n int) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Deallocate(s, n)
}

func (l *Locked[T]) Free(s []T) error {
	return l.Deallocate(s, cap(s))
}

func (l *Locked[T]) Teardown() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Teardown()
}

func (l *Locked[T]) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.p.Stats()
}

func (l *Locked[T]) Metrics() *Metrics {
	return l.p.Metrics()
}
