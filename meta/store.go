/*
   Copyright 2026 The DIRPX Authors.

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

package meta

import (
	"reflect"
	"sync"

	"dirpx.dev/tmx/apis"
)

// StoreTable maps configuration fingerprints to descriptor stores so that
// contexts built from structurally equal configurations share one store.
// Stores are created lazily on first use of a fingerprint and never
// evicted; the table is bounded by the number of distinct configurations a
// process constructs, not by the number of types.
//
// A package-default table serves the common case; tests and embedders that
// want isolated lifetimes construct their own and pass it via WithStores.
type StoreTable struct {
	mu sync.Mutex
	m  map[apis.Fingerprint]*store
}

// NewStoreTable constructs an empty, independent store table.
func NewStoreTable() *StoreTable {
	return &StoreTable{m: map[apis.Fingerprint]*store{}}
}

// defaultStores is the process-wide table used when none is supplied.
var defaultStores = NewStoreTable()

// DefaultStores returns the process-wide store table.
func DefaultStores() *StoreTable {
	return defaultStores
}

// Len returns the number of distinct fingerprints seen so far.
func (t *StoreTable) Len() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.m)
}

// storeFor returns the store for fp, creating it on first use.
func (t *StoreTable) storeFor(fp apis.Fingerprint) (*store, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if s, ok := t.m[fp]; ok {
		return s, false
	}
	s := &store{}
	t.m[fp] = s
	return s, true
}

// store is one fingerprint's descriptor map. Reads are lock-free; writes
// go through publish, an insert-if-absent primitive, so exactly one
// descriptor per type ever becomes reachable (publish-once discipline).
type store struct {
	m sync.Map // reflect.Type -> *Meta
}

func (s *store) load(t reflect.Type) (*Meta, bool) {
	v, ok := s.m.Load(t)
	if !ok {
		return nil, false
	}
	return v.(*Meta), true
}

// publish inserts m for t unless another descriptor got there first, in
// which case the incumbent is returned with raced=true and the caller must
// discard its own.
func (s *store) publish(t reflect.Type, m *Meta) (*Meta, bool) {
	v, raced := s.m.LoadOrStore(t, m)
	return v.(*Meta), raced
}
