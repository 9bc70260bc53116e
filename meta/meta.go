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
	"dirpx.dev/tmx/swaps"
	uref "dirpx.dev/tmx/utils/reflect"
)

// Meta is the immutable descriptor of one (type, configuration) pair.
//
// Identity-affecting fields (type, category, tag, swap lists) are fixed
// before the descriptor is published; nested-type fields (Elem, Key, Value)
// and the aggregate inventory are memoized exactly once on first access.
// Deferring nested resolution until after publication is what makes cyclic
// type graphs terminate: by the time a nested field resolves, the owning
// descriptor is already reachable in the store and a self-reference finds
// it by identity.
type Meta struct {
	typ reflect.Type
	ctx *Context
	cat apis.Category
	tag string

	swaps      []apis.Swap
	childSwaps []apis.Swap

	// done is the fully-initialized gate; closed once construction
	// completes. Resolution callers wait on it before returning the
	// descriptor.
	done chan struct{}

	elemOnce sync.Once
	elem     *Meta
	keyOnce  sync.Once
	key      *Meta
	valOnce  sync.Once
	val      *Meta
	args     []*Meta

	aggOnce   sync.Once
	agg       *Aggregate
	aggReason string
}

// Type returns the described reflect.Type.
func (m *Meta) Type() reflect.Type { return m.typ }

// Category returns the full classification bitset.
func (m *Meta) Category() apis.Category { return m.cat }

// Is reports whether all bits of c are set on this descriptor.
func (m *Meta) Is(c apis.Category) bool { return m.cat.Has(c) }

// Tag returns the polymorphic type tag declared by the type itself, or ""
// when none is declared. Dictionary-assigned tags live in the registry,
// not on the descriptor.
func (m *Meta) Tag() string { return m.tag }

// Context returns the metadata cache this descriptor belongs to.
func (m *Meta) Context() *Context { return m.ctx }

// Initialized returns the fully-initialized gate. The channel is closed
// once construction has completed; descriptors that are never published
// (non-cacheable types, parameterized views) are returned with the gate
// already closed.
func (m *Meta) Initialized() <-chan struct{} { return m.done }

// Swaps returns the directly applicable transformers: type-local swaps
// first, then globally registered ones, preserving registration order.
func (m *Meta) Swaps() []apis.Swap { return m.swaps }

// ChildSwaps returns transformers whose normal type satisfies this
// descriptor's (interface) type. They are consulted when the declared type
// of a value differs from its runtime type.
func (m *Meta) ChildSwaps() []apis.Swap { return m.childSwaps }

// Swap returns the best-matching directly applicable transformer for ctx,
// or nil when none applies.
func (m *Meta) Swap(ctx apis.MatchContext) apis.Swap {
	return swaps.Match(m.swaps, ctx)
}

// Elem resolves the element descriptor of collection, array and optional
// shapes. Non-container shapes yield the "any" descriptor.
func (m *Meta) Elem() *Meta {
	m.elemOnce.Do(func() {
		if m.elem == nil {
			m.elem = m.ctx.Resolve(structuralElem(m.typ))
		}
	})
	return m.elem
}

// Key resolves the key descriptor of map shapes. Non-map shapes yield the
// "any" descriptor.
func (m *Meta) Key() *Meta {
	m.keyOnce.Do(func() {
		if m.key == nil {
			if m.typ.Kind() == reflect.Map && !uref.IsSetLike(m.typ) {
				m.key = m.ctx.Resolve(m.typ.Key())
			} else {
				m.key = m.ctx.Resolve(nil)
			}
		}
	})
	return m.key
}

// Value resolves the value descriptor of map shapes. Non-map shapes yield
// the "any" descriptor.
func (m *Meta) Value() *Meta {
	m.valOnce.Do(func() {
		if m.val == nil {
			if m.typ.Kind() == reflect.Map && !uref.IsSetLike(m.typ) {
				m.val = m.ctx.Resolve(m.typ.Elem())
			} else {
				m.val = m.ctx.Resolve(nil)
			}
		}
	})
	return m.val
}

// Args returns the explicit argument descriptors of a synthetic CatArgs
// descriptor, or nil for all other shapes.
func (m *Meta) Args() []*Meta { return m.args }

// Aggregate returns the member inventory for aggregate shapes, or nil and
// a non-empty human-readable reason when the type does not qualify.
// Ineligibility is a diagnostic outcome, never an error.
func (m *Meta) Aggregate() (*Aggregate, string) {
	m.aggOnce.Do(func() {
		if m.agg != nil || m.aggReason != "" {
			return
		}
		if !m.cat.Has(apis.CatAggregate) {
			m.aggReason = "category " + m.cat.String() + " is not an aggregate"
			return
		}
		m.agg, m.aggReason = buildAggregate(m.ctx, m.typ)
	})
	return m.agg, m.aggReason
}

// String renders a short diagnostic form, e.g. "pkg.Foo [aggregate]".
func (m *Meta) String() string {
	return m.typ.String() + " [" + m.cat.String() + "]"
}

// structuralElem returns the structurally discovered element type of t, or
// nil when t has no element slot (degrades to the "any" descriptor).
func structuralElem(t reflect.Type) reflect.Type {
	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Pointer:
		return t.Elem()
	case reflect.Map:
		if uref.IsSetLike(t) {
			return t.Key()
		}
		return nil
	default:
		return nil
	}
}
