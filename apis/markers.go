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

package apis

// Tagger declares a polymorphic type tag on the type itself. It is the
// zero-reflection fast path for tag resolution: when a type implements
// Tagger, the declared tag is recorded on its descriptor and the type can
// be registered in a dictionary as a bare entry.
//
// The returned tag must be non-empty, deterministic for the type, and
// independent of instance state; the resolver invokes it on a zero value.
type Tagger interface {
	TypeTag() string
}

// Swapper declares type-local value transformers. Swaps returned here are
// evaluated before globally registered swaps, so type-local declarations
// win match-quality ties.
//
// The returned slice must be constant for the type; it is read once during
// descriptor construction on a zero value.
type Swapper interface {
	TypeSwaps() []Swap
}

// Delegate marks a wrapper type that serializes as its delegate value
// rather than by its own structure. Descriptors of such types carry the
// CatDelegate flag in addition to their structural shape.
type Delegate interface {
	DelegateValue() any
}

// URIer marks a type whose serialized form is a URI string. Descriptors of
// such types carry the CatURI flag in addition to their structural shape.
type URIer interface {
	URI() string
}
