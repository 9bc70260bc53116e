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

import "reflect"

// Entry is one dictionary element consumed by the tag registry. It takes
// one of three forms:
//
//   - bare type: Type set, Name empty; the type must declare its own tag
//     via Tagger;
//   - explicit mapping: Name and Type set, optionally with Args describing
//     a parameterized container ("a list of Foo");
//   - nested list: Entries set, flattened in order during registry build.
//
// Later entries overwrite earlier ones on tag collision.
type Entry struct {
	// Name is the explicit tag name, or empty for bare-type entries.
	Name string
	// Type is the concrete type registered under the tag.
	Type reflect.Type
	// Args optionally parameterizes Type's element/key/value slots.
	Args []reflect.Type
	// Entries optionally nests further dictionary elements.
	Entries []Entry
}

// Types builds bare-type entries for ts, preserving order.
func Types(ts ...reflect.Type) []Entry {
	out := make([]Entry, 0, len(ts))
	for _, t := range ts {
		out = append(out, Entry{Type: t})
	}
	return out
}
