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

package registry_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/config"
	"dirpx.dev/tmx/meta"
	"dirpx.dev/tmx/registry"
)

type circle struct{ R float64 }

type square struct{ Side float64 }

type labelled struct{ V string }

func (labelled) TypeTag() string { return "lbl" }

func newCtx(t *testing.T, opts ...config.Option) *meta.Context {
	t.Helper()
	c, err := meta.NewContext(config.NewConfig(opts...), meta.WithStores(meta.NewStoreTable()))
	require.NoError(t, err)
	return c
}

func TestNewRequiresContext(t *testing.T) {
	_, err := registry.New(nil, nil)
	assert.ErrorIs(t, err, registry.ErrNilContext)
}

func TestLookupAndTagOf(t *testing.T) {
	ctx := newCtx(t, config.WithDictionary(
		apis.Entry{Name: "circle", Type: reflect.TypeOf(circle{})},
		apis.Entry{Name: "square", Type: reflect.TypeOf(square{})},
	))
	r, err := registry.New(ctx, nil)
	require.NoError(t, err)

	m := r.Lookup("circle")
	require.NotNil(t, m)
	assert.Equal(t, reflect.TypeOf(circle{}), m.Type())
	assert.Same(t, ctx.Resolve(reflect.TypeOf(circle{})), m)

	assert.Nil(t, r.Lookup("triangle"))

	tag, ok := r.TagOf(m)
	require.True(t, ok)
	assert.Equal(t, "circle", tag)

	_, ok = r.TagOf(ctx.Resolve(reflect.TypeOf(0)))
	assert.False(t, ok)

	assert.Equal(t, 2, r.Count())
}

func TestBareEntryUsesDeclaredTag(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil, apis.Entry{Type: reflect.TypeOf(labelled{})})
	require.NoError(t, err)
	require.NotNil(t, r.Lookup("lbl"))

	_, err = registry.New(ctx, nil, apis.Entry{Type: reflect.TypeOf(circle{})})
	assert.ErrorIs(t, err, registry.ErrUntagged)
}

func TestChildOverridesParent(t *testing.T) {
	ctx := newCtx(t)
	parent, err := registry.New(ctx, nil,
		apis.Entry{Name: "shape", Type: reflect.TypeOf(circle{})},
		apis.Entry{Name: "circle", Type: reflect.TypeOf(circle{})},
	)
	require.NoError(t, err)

	child, err := registry.New(ctx, parent,
		apis.Entry{Name: "shape", Type: reflect.TypeOf(square{})},
	)
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeOf(square{}), child.Lookup("shape").Type())
	assert.Equal(t, reflect.TypeOf(circle{}), child.Lookup("circle").Type(),
		"inherited associations survive")
	assert.Equal(t, reflect.TypeOf(circle{}), parent.Lookup("shape").Type(),
		"parent must not observe child overrides")
}

// Overriding a tag must retire the superseded type's reverse mapping:
// TagOf may never emit a tag that Lookup resolves to a different type.
func TestOverrideDropsStaleReverseMapping(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil,
		apis.Entry{Name: "shape", Type: reflect.TypeOf(circle{})},
		apis.Entry{Name: "shape", Type: reflect.TypeOf(square{})},
	)
	require.NoError(t, err)

	assert.Equal(t, reflect.TypeOf(square{}), r.Lookup("shape").Type())
	_, ok := r.TagOf(ctx.Resolve(reflect.TypeOf(circle{})))
	assert.False(t, ok, "superseded type must not keep the tag")

	tag, ok := r.TagOf(ctx.Resolve(reflect.TypeOf(square{})))
	require.True(t, ok)
	assert.Equal(t, "shape", tag)
}

func TestOverrideKeepsSurvivingAlias(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil,
		apis.Entry{Name: "circle", Type: reflect.TypeOf(circle{})},
		apis.Entry{Name: "shape", Type: reflect.TypeOf(circle{})},
		apis.Entry{Name: "shape", Type: reflect.TypeOf(square{})},
	)
	require.NoError(t, err)

	tag, ok := r.TagOf(ctx.Resolve(reflect.TypeOf(circle{})))
	require.True(t, ok)
	assert.Equal(t, "circle", tag, "surviving alias takes over the reverse mapping")
	assert.Equal(t, reflect.TypeOf(circle{}), r.Lookup(tag).Type(), "round-trip stays lossless")
}

func TestParentOverrideRoundTrips(t *testing.T) {
	ctx := newCtx(t)
	parent, err := registry.New(ctx, nil,
		apis.Entry{Name: "shape", Type: reflect.TypeOf(circle{})},
	)
	require.NoError(t, err)
	child, err := registry.New(ctx, parent,
		apis.Entry{Name: "shape", Type: reflect.TypeOf(square{})},
	)
	require.NoError(t, err)

	_, ok := child.TagOf(ctx.Resolve(reflect.TypeOf(circle{})))
	assert.False(t, ok)
	tag, ok := parent.TagOf(ctx.Resolve(reflect.TypeOf(circle{})))
	require.True(t, ok)
	assert.Equal(t, "shape", tag, "parent keeps its own mapping")
}

func TestNestedEntriesFlatten(t *testing.T) {
	ctx := newCtx(t, config.WithDictionary(apis.Entry{
		Entries: []apis.Entry{
			{Name: "circle", Type: reflect.TypeOf(circle{})},
			{Entries: []apis.Entry{{Name: "square", Type: reflect.TypeOf(square{})}}},
		},
	}))
	r, err := registry.New(ctx, nil)
	require.NoError(t, err)
	assert.NotNil(t, r.Lookup("circle"))
	assert.NotNil(t, r.Lookup("square"))
}

func TestParameterizedEntry(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil, apis.Entry{
		Name: "circles",
		Type: reflect.TypeOf([]any(nil)),
		Args: []reflect.Type{reflect.TypeOf(circle{})},
	})
	require.NoError(t, err)

	m := r.Lookup("circles")
	require.NotNil(t, m)
	assert.True(t, m.Is(apis.CatCollection))
	assert.Equal(t, reflect.TypeOf(circle{}), m.Elem().Type())
}

func TestArrayMarker(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil,
		apis.Entry{Name: "circle", Type: reflect.TypeOf(circle{})},
	)
	require.NoError(t, err)

	arr := r.Lookup("circle" + registry.ArrayMarker)
	require.NotNil(t, arr)
	assert.True(t, arr.Is(apis.CatArray))
	assert.Same(t, r.Lookup("circle"), arr.Elem())

	// Markers stack: "circle^^" is an array of arrays.
	arr2 := r.Lookup("circle^^")
	require.NotNil(t, arr2)
	assert.True(t, arr2.Is(apis.CatArray))
	assert.Same(t, arr, arr2.Elem())

	// Repeated lookups hit the marker cache.
	assert.Same(t, arr, r.Lookup("circle^"))

	assert.Nil(t, r.Lookup("unknown^"))
	assert.Nil(t, r.Lookup(registry.ArrayMarker))
}

func TestEmptyRegistry(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil)
	require.NoError(t, err)
	assert.Nil(t, r.Lookup("anything"))
	assert.Zero(t, r.Count())
	assert.Empty(t, r.Entries())

	var nilReg *registry.Registry
	assert.Nil(t, nilReg.Lookup("x"))
	assert.Zero(t, nilReg.Count())
}

func TestEntriesSnapshot(t *testing.T) {
	ctx := newCtx(t)
	r, err := registry.New(ctx, nil,
		apis.Entry{Name: "square", Type: reflect.TypeOf(square{})},
		apis.Entry{Name: "circle", Type: reflect.TypeOf(circle{})},
	)
	require.NoError(t, err)

	entries := r.Entries()
	require.Len(t, entries, 2)
	assert.Equal(t, "circle", entries[0].Tag)
	assert.Equal(t, "square", entries[1].Tag)
}
