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

// Config carries the read-only option bag that drives metadata resolution.
// It is passed by value and must be treated as immutable by implementations;
// two Configs with equal fingerprints produce structurally identical
// descriptors and may share one descriptor store.
type Config struct {
	// TypePropertyName is the attribute name used to carry a polymorphic
	// type tag in serialized output (e.g. "_type").
	TypePropertyName string

	// Naming selects how property names are derived from member names
	// when no explicit name is declared.
	Naming NamingStrategy

	// SortProperties orders aggregate properties alphabetically instead of
	// declaration order.
	SortProperties bool

	// UseFields includes exported struct fields as aggregate properties.
	UseFields bool

	// UseAccessors includes Get*/Set* accessor method pairs as aggregate
	// properties.
	UseAccessors bool

	// BeanRequireSomeProps rejects aggregate classification for types that
	// expose zero properties.
	BeanRequireSomeProps bool

	// BeanRequireMarker, when non-nil, must be an interface type that a
	// type has to implement to qualify as an aggregate.
	BeanRequireMarker reflect.Type

	// Swaps is the ordered list of registered value transformers.
	// Registration order is significant: it breaks match-quality ties.
	Swaps []Swap

	// Dictionary lists the types available for polymorphic tag resolution.
	Dictionary []Entry
}

// Fingerprint is a deterministic, comparable summary of a Config.
// Equal fingerprints guarantee that sharing one descriptor store is safe.
type Fingerprint string

// NamingStrategy selects how property names are derived.
type NamingStrategy int

const (
	// NamingAsDeclared keeps member names as declared.
	NamingAsDeclared NamingStrategy = iota
	// NamingLowerCamel lower-cases the leading runes ("UserID" -> "userID").
	NamingLowerCamel
	// NamingSnake converts to snake_case ("UserID" -> "user_id").
	NamingSnake
)

// String returns the canonical token for the strategy. Unknown values map
// to a diagnostic form; this must not panic.
func (n NamingStrategy) String() string {
	switch n {
	case NamingAsDeclared:
		return "as-declared"
	case NamingLowerCamel:
		return "lower-camel"
	case NamingSnake:
		return "snake"
	default:
		return "unknown"
	}
}
