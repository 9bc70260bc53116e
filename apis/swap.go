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

// MatchContext describes the marshalling request a swap is matched against.
// It is a plain value; the zero MatchContext matches swaps that declare no
// filters.
type MatchContext struct {
	// Format is the target wire format identifier (e.g. "json", "xml").
	Format string
	// Template is an optional variant discriminator supplied by the caller.
	Template string
}

// Swap is a bidirectional value transformer: it substitutes a type's native
// form ("normal") with an alternate serializable form ("swapped") during
// marshalling, and reverses the substitution during parsing.
//
// Implementations must be immutable after registration and safe for
// concurrent use.
type Swap interface {
	// NormalType is the unswapped type this transformer applies to. It may
	// be an interface type, in which case the swap applies to all types
	// satisfying it. A nil NormalType is a configuration error.
	NormalType() reflect.Type

	// SwappedType is the serialized-form type produced by Apply.
	SwappedType() reflect.Type

	// Match returns the match quality of this swap for ctx. Zero means
	// "not applicable"; among applicable swaps the highest quality wins,
	// ties broken by registration order.
	Match(ctx MatchContext) int

	// Apply converts a normal-form value to its swapped form.
	Apply(v any) (any, error)

	// Revert converts a swapped-form value back to its normal form.
	Revert(v any) (any, error)
}

// Filtered is optionally implemented by swaps that restrict applicability
// through declared filters. Configuration fingerprints include the
// declared filters, so configurations whose swaps differ only in filters
// never share a descriptor store.
type Filtered interface {
	// MatchFilters returns the declared format filters and template
	// discriminator; empty values mean unrestricted.
	MatchFilters() (formats []string, template string)
}
