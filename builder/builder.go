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

// Package builder composes a metadata context and its tag registry from a
// configuration.
package builder

import (
	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/meta"
	"dirpx.dev/tmx/registry"
)

// New creates and returns a new Builder.
func New() *Builder {
	return &Builder{}
}

// Builder builds the metadata stack for a configuration. It carries no
// state of its own; it exists so embedders can substitute construction
// policy in one place.
type Builder struct{}

// BuildContext constructs the metadata cache for cfg. Contexts of equal
// fingerprint share one descriptor store.
func (b *Builder) BuildContext(cfg apis.Config, opts ...meta.ContextOption) (*meta.Context, error) {
	return meta.NewContext(cfg, opts...)
}

// BuildRegistry constructs the tag registry for ctx, optionally overlaying
// a parent registry and appending extra local entries (local entries win
// on tag collision).
func (b *Builder) BuildRegistry(ctx *meta.Context, parent *registry.Registry, extra ...apis.Entry) (*registry.Registry, error) {
	return registry.New(ctx, parent, extra...)
}

// Build is the one-shot composition: context plus registry for cfg.
func Build(cfg apis.Config, opts ...meta.ContextOption) (*meta.Context, *registry.Registry, error) {
	b := New()
	ctx, err := b.BuildContext(cfg, opts...)
	if err != nil {
		return nil, nil, err
	}
	reg, err := b.BuildRegistry(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	return ctx, reg, nil
}
