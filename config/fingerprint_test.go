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

package config_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"

	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/config"
	"dirpx.dev/tmx/swaps"
)

func TestFingerprintDeterministic(t *testing.T) {
	cfg := config.NewConfig(
		config.WithTypePropertyName("@t"),
		config.WithDictionary(apis.Entry{Name: "w", Type: reflect.TypeOf(widget{})}),
	)
	assert.Equal(t, config.FingerprintOf(cfg), config.FingerprintOf(cfg))
}

// Structurally equal configurations assembled independently must
// fingerprint identically: fingerprints never depend on object identity.
func TestFingerprintIgnoresIdentity(t *testing.T) {
	build := func() apis.Config {
		return config.NewConfig(
			config.WithNaming(apis.NamingLowerCamel),
			config.WithSwaps(swaps.Of(func(w widget) (int, error) { return w.ID, nil }, nil)),
			config.WithDictionary(apis.Entry{Name: "w", Type: reflect.TypeOf(widget{})}),
		)
	}
	assert.Equal(t, config.FingerprintOf(build()), config.FingerprintOf(build()))
}

func TestFingerprintSensitivity(t *testing.T) {
	base := config.DefaultConfig()
	fp := config.FingerprintOf(base)

	variants := map[string]apis.Config{
		"type property": config.NewConfig(config.WithTypePropertyName("@t")),
		"naming":        config.NewConfig(config.WithNaming(apis.NamingSnake)),
		"sorting":       config.NewConfig(config.WithSortProperties(true)),
		"fields":        config.NewConfig(config.WithUseFields(false)),
		"swaps": config.NewConfig(config.WithSwaps(
			swaps.Of(func(w widget) (int, error) { return w.ID, nil }, nil),
		)),
		"dictionary": config.NewConfig(config.WithDictionary(
			apis.Entry{Name: "w", Type: reflect.TypeOf(widget{})},
		)),
	}
	for name, cfg := range variants {
		assert.NotEqual(t, fp, config.FingerprintOf(cfg), "variant %q must change the fingerprint", name)
	}
}

// Swaps differing only in declared filters must fingerprint differently:
// filters change match behavior and therefore descriptor contents, so the
// configs may not share a descriptor store. This covers disjoint filter
// sets on otherwise identical swaps, not just filtered vs unfiltered.
func TestFingerprintSeesSwapFilters(t *testing.T) {
	mk := func(opts ...swaps.SwapOption) apis.Fingerprint {
		return config.FingerprintOf(config.NewConfig(config.WithSwaps(
			swaps.Of(func(w widget) (int, error) { return w.ID, nil }, nil, opts...),
		)))
	}
	variants := map[string]apis.Fingerprint{
		"plain":     mk(),
		"json":      mk(swaps.Formats("json")),
		"xml":       mk(swaps.Formats("xml")),
		"json+xml":  mk(swaps.Formats("json", "xml")),
		"templated": mk(swaps.Formats("json"), swaps.Template("compact")),
	}
	for a, fa := range variants {
		for b, fb := range variants {
			if a == b {
				continue
			}
			assert.NotEqual(t, fa, fb, "variants %q and %q must not share a store", a, b)
		}
	}
	assert.Equal(t, mk(swaps.Formats("xml")), mk(swaps.Formats("xml")))
}

func TestFingerprintNestedDictionary(t *testing.T) {
	flat := config.NewConfig(config.WithDictionary(
		apis.Entry{Name: "w", Type: reflect.TypeOf(widget{})},
	))
	nested := config.NewConfig(config.WithDictionary(
		apis.Entry{Entries: []apis.Entry{{Name: "w", Type: reflect.TypeOf(widget{})}}},
	))
	assert.NotEqual(t, config.FingerprintOf(flat), config.FingerprintOf(nested))
}
