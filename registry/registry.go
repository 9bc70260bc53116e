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

// Package registry maps polymorphic tag names to type descriptors and
// back. A registry is built once per metadata context from the configured
// dictionary, optionally overlaying a parent registry, and is immutable
// afterwards; the serializer consults it to emit a tag for a concrete
// type, the parser to recover the concrete type from a tag.
package registry

import (
	"reflect"
	"sort"
	"strings"
	"sync"

	"github.com/cockroachdb/errors"

	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/meta"
)

// ArrayMarker is the tag suffix meaning "array of": resolving "foo^"
// yields a slice descriptor whose element is the type tagged "foo";
// markers stack ("foo^^").
const ArrayMarker = "^"

var (
	// ErrNilContext is returned when no metadata context is provided.
	ErrNilContext = errors.New("tmx(registry): nil metadata context")
	// ErrUntagged is returned for a bare dictionary entry whose type
	// declares no tag of its own.
	ErrUntagged = errors.New("tmx(registry): dictionary type declares no tag")
)

// Registry is an immutable tag registry. The zero value and nil are usable
// as an always-empty registry.
type Registry struct {
	ctx   *meta.Context
	names map[string]*meta.Meta
	tags  map[reflect.Type]string

	// arr caches array-marker resolutions per exact tag string so
	// repeated stripping is done once.
	arr sync.Map // string -> *meta.Meta
}

// Entry is one (tag, descriptor) association in a registry snapshot.
type Entry struct {
	Tag  string
	Meta *meta.Meta
}

// New builds a registry for ctx. Entries are applied in order: the parent
// registry's associations first (if any), then the configured dictionary,
// then extra local entries, so later entries take precedence on tag
// collision. Invalid entries are configuration errors.
func New(ctx *meta.Context, parent *Registry, extra ...apis.Entry) (*Registry, error) {
	if ctx == nil {
		return nil, ErrNilContext
	}
	r := &Registry{
		ctx:   ctx,
		names: map[string]*meta.Meta{},
		tags:  map[reflect.Type]string{},
	}
	if parent != nil {
		// Tag-sorted order keeps the reverse map deterministic when the
		// parent registers one type under several tags.
		for _, e := range parent.Entries() {
			r.put(e.Tag, e.Meta)
		}
	}
	if err := r.apply(ctx.Config().Dictionary); err != nil {
		return nil, err
	}
	if err := r.apply(extra); err != nil {
		return nil, err
	}
	return r, nil
}

func (r *Registry) apply(entries []apis.Entry) error {
	for _, e := range entries {
		if len(e.Entries) > 0 {
			if err := r.apply(e.Entries); err != nil {
				return err
			}
			continue
		}
		var m *meta.Meta
		if len(e.Args) > 0 {
			m = r.ctx.ResolveParameterized(e.Type, e.Args...)
		} else {
			m = r.ctx.Resolve(e.Type)
		}
		name := e.Name
		if name == "" {
			name = m.Tag()
		}
		if name == "" {
			return errors.Wrapf(ErrUntagged, "%s", e.Type)
		}
		r.put(name, m)
	}
	return nil
}

func (r *Registry) put(name string, m *meta.Meta) {
	if prev, ok := r.names[name]; ok && prev.Type() != m.Type() {
		r.dropReverse(prev.Type(), name)
	}
	r.names[name] = m
	r.tags[m.Type()] = name
}

// dropReverse retires the reverse entry of a superseded association so
// TagOf never emits a tag that Lookup resolves to a different type. When
// the superseded type survives under other tags, the reverse entry is
// re-pointed at the smallest of them.
func (r *Registry) dropReverse(t reflect.Type, overridden string) {
	if r.tags[t] != overridden {
		return
	}
	delete(r.tags, t)
	var repl string
	for name, m := range r.names {
		if name != overridden && m.Type() == t && (repl == "" || name < repl) {
			repl = name
		}
	}
	if repl != "" {
		r.tags[t] = repl
	}
}

// Lookup resolves a tag to its descriptor, or nil when the tag is
// unknown. Trailing array markers are stripped recursively and wrap the
// result in a slice descriptor; each exact tag string is resolved once.
func (r *Registry) Lookup(tag string) *meta.Meta {
	if r == nil || len(r.names) == 0 {
		return nil
	}
	if m, ok := r.names[tag]; ok {
		return m
	}
	if strings.HasSuffix(tag, ArrayMarker) {
		if v, ok := r.arr.Load(tag); ok {
			return v.(*meta.Meta)
		}
		base := r.Lookup(tag[:len(tag)-len(ArrayMarker)])
		if base == nil {
			return nil
		}
		m := r.ctx.Resolve(reflect.SliceOf(base.Type()))
		v, _ := r.arr.LoadOrStore(tag, m)
		return v.(*meta.Meta)
	}
	return nil
}

// TagOf returns the tag registered for the descriptor's type.
func (r *Registry) TagOf(m *meta.Meta) (string, bool) {
	if r == nil || m == nil || len(r.tags) == 0 {
		return "", false
	}
	tag, ok := r.tags[m.Type()]
	return tag, ok
}

// Count returns the number of registered tags.
func (r *Registry) Count() int {
	if r == nil {
		return 0
	}
	return len(r.names)
}

// Entries returns a tag-sorted snapshot for diagnostics/docs.
func (r *Registry) Entries() []Entry {
	if r == nil {
		return nil
	}
	out := make([]Entry, 0, len(r.names))
	for name, m := range r.names {
		out = append(out, Entry{Tag: name, Meta: m})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Tag < out[j].Tag })
	return out
}
