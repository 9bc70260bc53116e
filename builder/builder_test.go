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

package builder_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/builder"
	"dirpx.dev/tmx/config"
	"dirpx.dev/tmx/meta"
)

type gadget struct{ Name string }

func TestBuild(t *testing.T) {
	cfg := config.NewConfig(config.WithDictionary(
		apis.Entry{Name: "gadget", Type: reflect.TypeOf(gadget{})},
	))
	ctx, reg, err := builder.Build(cfg, meta.WithStores(meta.NewStoreTable()))
	require.NoError(t, err)
	require.NotNil(t, ctx)
	require.NotNil(t, reg)
	assert.Same(t, ctx.Resolve(reflect.TypeOf(gadget{})), reg.Lookup("gadget"))
}

func TestBuildPropagatesConfigErrors(t *testing.T) {
	_, _, err := builder.Build(config.NewConfig(
		config.WithBeanRequireMarker(reflect.TypeOf(0)),
	))
	assert.ErrorIs(t, err, config.ErrMarkerNotInterface)
}

func TestBuildRegistryOverlay(t *testing.T) {
	b := builder.New()
	ctx, err := b.BuildContext(config.NewConfig(), meta.WithStores(meta.NewStoreTable()))
	require.NoError(t, err)

	parent, err := b.BuildRegistry(ctx, nil,
		apis.Entry{Name: "gadget", Type: reflect.TypeOf(gadget{})},
	)
	require.NoError(t, err)

	child, err := b.BuildRegistry(ctx, parent,
		apis.Entry{Name: "widget", Type: reflect.TypeOf(gadget{})},
	)
	require.NoError(t, err)
	assert.Equal(t, 2, child.Count())
	assert.NotNil(t, child.Lookup("gadget"))
	assert.NotNil(t, child.Lookup("widget"))
}
