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

// Package tmx provides runtime type metadata resolution and caching for
// multi-format object marshalling.
//
// Given an arbitrary Go type, tmx produces a cached, immutable descriptor
// (meta.Meta) that classifies the type (map, collection, number, enum,
// temporal, char-sequence, stream, aggregate, ...), resolves nested
// element and key/value types, associates any registered value
// transformers ("swaps") for the type, and records its polymorphic type
// tag. A companion registry maps human-readable tags to descriptors and
// back, so a serializer/parser pair can round-trip values whose concrete
// type cannot be inferred from static context alone.
//
// # Design
//
// The core of tmx is the metadata cache (meta.Context). A context owns a
// configuration (apis.Config), the configuration's fingerprint, and a
// descriptor store mapping reflect.Type to *meta.Meta. Fingerprints make
// caches shareable: a process-wide table maps each distinct fingerprint to
// one store, so contexts built independently from structurally equal
// configurations resolve to reference-identical descriptors. Stores are
// created lazily and never evicted; descriptor construction is expensive
// (it walks members and evaluates transformer applicability), sharing it
// is the point.
//
// Descriptor resolution is publish-once: the first resolver of a type
// inserts a placeholder before computing anything, concurrent resolvers of
// the same type wait on its fully-initialized gate, and nested types
// (collection elements, map keys and values, aggregate members) are
// memoized lazily after publication. Deferring nested resolution is what
// makes self-referential and mutually recursive type graphs terminate.
//
// Unresolvable input never aborts a marshalling operation: a nil type, a
// bare interface, or an unsupported kind degrades to the shared "any"
// descriptor and resolution continues.
//
// # Usage
//
// A typical embedder builds one context and registry per configuration at
// startup:
//
//	cfg := config.NewConfig(
//	    config.WithSwaps(swaps.Of(timeToUnix, unixToTime)),
//	    config.WithDictionary(apis.Types(reflect.TypeOf(Order{}))...),
//	)
//	ctx, reg, err := tmx.New(cfg)
//
// and then drives an encoder off the descriptors:
//
//	m := ctx.ResolveValue(v)
//	switch {
//	case m.Is(apis.CatMap):        // write key/value pairs via m.Key(), m.Value()
//	case m.Is(apis.CatCollection): // write elements via m.Elem()
//	case m.Is(apis.CatAggregate):  // write properties via m.Aggregate()
//	}
//
// The package-level Resolve and ResolveValue helpers serve callers that
// are happy with the default configuration.
package tmx
