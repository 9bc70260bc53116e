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

import "strings"

// Category is a bitset classification of a type. Exactly one primary shape
// bit is set per descriptor; refinement bits (List, Set, Array, Decimal,
// String) and secondary flags (URI, Delegate) may be set alongside it.
//
// Primary shapes: Map, Collection, Number, Bool, Enum, Temporal, CharSeq,
// Reader, Writer, Optional, Aggregate, Args, Any.
type Category uint32

const (
	// CatMap marks map types (except set-like maps, see CatSet).
	CatMap Category = 1 << iota
	// CatCollection marks ordered/unordered element containers
	// (slices, arrays, set-like maps). Always refined by CatList,
	// CatArray or CatSet.
	CatCollection
	// CatList refines CatCollection for resizable sequences (slices).
	CatList
	// CatSet refines CatCollection for set-like maps (map[T]struct{}).
	CatSet
	// CatArray refines CatCollection for array-shaped sequences: fixed
	// arrays and slices (slices carry CatList as well).
	CatArray
	// CatNumber marks integer and floating-point types.
	CatNumber
	// CatDecimal refines CatNumber for floating-point types.
	CatDecimal
	// CatBool marks boolean types.
	CatBool
	// CatEnum marks enumeration-like named scalar types.
	CatEnum
	// CatTemporal marks date/time/duration values.
	CatTemporal
	// CatCharSeq marks string-kinded types.
	CatCharSeq
	// CatString refines CatCharSeq for the builtin string type.
	CatString
	// CatReader marks types readable as a byte stream.
	CatReader
	// CatWriter marks types writable as a byte stream.
	CatWriter
	// CatOptional marks single-element wrapper types (pointers).
	CatOptional
	// CatAggregate marks user-defined composite ("bean") candidates.
	CatAggregate
	// CatArgs marks the synthetic multi-argument descriptor.
	CatArgs
	// CatAny marks the unknown/degenerate descriptor (interfaces,
	// unresolvable types).
	CatAny
	// CatURI is a secondary flag for URI-like types.
	CatURI
	// CatDelegate is a secondary flag for delegate/wrapper types.
	CatDelegate
)

// catNames is ordered by bit position for stable String output.
var catNames = []struct {
	bit  Category
	name string
}{
	{CatMap, "map"},
	{CatCollection, "collection"},
	{CatList, "list"},
	{CatSet, "set"},
	{CatArray, "array"},
	{CatNumber, "number"},
	{CatDecimal, "decimal"},
	{CatBool, "bool"},
	{CatEnum, "enum"},
	{CatTemporal, "temporal"},
	{CatCharSeq, "charseq"},
	{CatString, "string"},
	{CatReader, "reader"},
	{CatWriter, "writer"},
	{CatOptional, "optional"},
	{CatAggregate, "aggregate"},
	{CatArgs, "args"},
	{CatAny, "any"},
	{CatURI, "uri"},
	{CatDelegate, "delegate"},
}

// Has reports whether all bits of q are set in c.
func (c Category) Has(q Category) bool {
	return c&q == q
}

// String returns the set bits as a stable "+"-joined token list, e.g.
// "collection+list" or "number+decimal". The zero value renders as "none".
func (c Category) String() string {
	if c == 0 {
		return "none"
	}
	var parts []string
	for _, cn := range catNames {
		if c&cn.bit != 0 {
			parts = append(parts, cn.name)
		}
	}
	return strings.Join(parts, "+")
}
