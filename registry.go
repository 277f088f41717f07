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
	"reflect"

	"github.com/dolthub/swiss"
)

type tearer interface {
	Teardown() error
}

// Registry keeps one pool per element type, all created from the same Config. It is not safe
// for concurrent use.
type Registry struct {
	config Config
	pools  *swiss.Map[reflect.Type, tearer]
}

// NewRegistry creates an empty registry. A nil config picks all the defaults.
func NewRegistry(config *Config) *Registry {
	r := &Registry{pools: swiss.NewMap[reflect.Type, tearer](8)}
	if config != nil {
		r.config = *config
	}
	return r
}

// PoolFor returns the pool of T in r, creating it on first use.
func PoolFor[T any](r *Registry) (*Pool[T], error) {
	typ := reflect.TypeFor[T]()
	if p, ok := r.pools.Get(typ); ok {
		return p.(*Pool[T]), nil
	}
	config := r.config
	p, err := New[T](&config)
	if err != nil {
		return nil, err
	}
	r.pools.Put(typ, p)
	return p, nil
}

// Len returns the number of pools created so far.
func (r *Registry) Len() int {
	return r.pools.Count()
}

// Teardown tears down every pool. The pools stay registered and start over on their next
// allocation. The first error is returned after all pools have been torn down.
func (r *Registry) Teardown() error {
	var firstErr error
	r.pools.Iter(func(_ reflect.Type, p tearer) bool {
		if err := p.Teardown(); err != nil && firstErr == nil {
			firstErr = err
		}
		return false
	})
	return firstErr
}
