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

package tmx_test

import (
	"reflect"
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dirpx.dev/tmx"
	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/config"
	"dirpx.dev/tmx/meta"
	"dirpx.dev/tmx/swaps"
)

type invoice struct {
	Number string
	Issued time.Time
	Lines  []line
}

type line struct {
	SKU   string
	Count int
}

func TestDefaultContext(t *testing.T) {
	c := tmx.DefaultContext()
	require.NotNil(t, c)
	assert.Same(t, c, tmx.DefaultContext())

	m := tmx.Resolve(reflect.TypeOf(invoice{}))
	require.NotNil(t, m)
	assert.True(t, m.Is(apis.CatAggregate))
	assert.Same(t, m, tmx.ResolveValue(invoice{}))
}

func TestNewEndToEnd(t *testing.T) {
	countSwap := swaps.Of(
		func(n int) (string, error) { return strconv.Itoa(n), nil },
		func(s string) (int, error) { return strconv.Atoi(s) },
	)
	ctx, reg, err := tmx.New(config.NewConfig(
		config.WithNaming(apis.NamingLowerCamel),
		config.WithSwaps(countSwap),
		config.WithDictionary(
			apis.Entry{Name: "invoice", Type: reflect.TypeOf(invoice{})},
			apis.Entry{Name: "line", Type: reflect.TypeOf(line{})},
		),
	), meta.WithStores(meta.NewStoreTable()))
	require.NoError(t, err)

	m := reg.Lookup("invoice")
	require.NotNil(t, m)
	assert.Same(t, ctx.Resolve(reflect.TypeOf(invoice{})), m)

	agg, reason := m.Aggregate()
	require.Empty(t, reason)
	lines := agg.Property("lines")
	require.NotNil(t, lines, "lower-camel naming applies to properties")

	lineMeta := lines.Meta().Elem()
	assert.Same(t, reg.Lookup("line"), lineMeta)
	tag, ok := reg.TagOf(lineMeta)
	require.True(t, ok)
	assert.Equal(t, "line", tag)

	// The registered swap surfaces on the descriptors it applies to.
	count := ctx.Resolve(reflect.TypeOf(0)).Swap(apis.MatchContext{})
	require.NotNil(t, count)
	out, err := count.Apply(7)
	require.NoError(t, err)
	assert.Equal(t, "7", out)

	arrays := reg.Lookup("line^")
	require.NotNil(t, arrays)
	assert.True(t, arrays.Is(apis.CatArray))
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	_, _, err := tmx.New(config.NewConfig(
		config.WithBeanRequireMarker(reflect.TypeOf("")),
	))
	assert.Error(t, err)
}
