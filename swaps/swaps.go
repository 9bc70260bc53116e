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

// Package swaps holds the per-configuration transformer registry and the
// match algorithm that picks the best applicable swap for a request
// context. The registry is built once and read-only afterwards.
package swaps

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"dirpx.dev/tmx/apis"
	uref "dirpx.dev/tmx/utils/reflect"
)

var (
	// ErrNilSwap is returned when a nil swap is registered.
	ErrNilSwap = errors.New("tmx(swaps): nil swap registered")
	// ErrNoNormalType is returned when a swap declares no normal type.
	ErrNoNormalType = errors.New("tmx(swaps): swap declares no normal type")
)

// Registry is the ordered, immutable list of registered swaps for one
// configuration. Registration order is significant: it breaks match-quality
// ties, first registered wins.
type Registry struct {
	swaps []apis.Swap
}

// NewRegistry validates and freezes the given swaps. Structural problems
// (nil swap, missing normal type) are configuration errors reported here,
// at construction time.
func NewRegistry(swaps ...apis.Swap) (*Registry, error) {
	for i, s := range swaps {
		if s == nil {
			return nil, errors.Wrapf(ErrNilSwap, "position %d", i)
		}
		if s.NormalType() == nil {
			return nil, errors.Wrapf(ErrNoNormalType, "position %d", i)
		}
	}
	out := make([]apis.Swap, len(swaps))
	copy(out, swaps)
	return &Registry{swaps: out}, nil
}

// All returns the registered swaps in registration order. Callers must not
// mutate the returned slice.
func (r *Registry) All() []apis.Swap {
	if r == nil {
		return nil
	}
	return r.swaps
}

// For partitions the registered swaps for type t. Direct swaps declare a
// normal type that t is or satisfies; child swaps declare a normal type
// that itself satisfies t (only possible when t is an interface) and are
// used when the declared type of a value differs from its runtime type.
func (r *Registry) For(t reflect.Type) (direct, child []apis.Swap) {
	if r == nil || t == nil {
		return nil, nil
	}
	for _, s := range r.swaps {
		nt := s.NormalType()
		switch {
		case uref.Satisfies(t, nt):
			direct = append(direct, s)
		case t.Kind() == reflect.Interface && nt != t && uref.ImplementsEither(nt, t):
			child = append(child, s)
		}
	}
	return direct, child
}

// Match returns the highest-quality applicable swap from list for ctx, or
// nil when none applies. Quality 0 means "not applicable" and is excluded;
// equal qualities resolve to the earliest listed swap.
func Match(list []apis.Swap, ctx apis.MatchContext) apis.Swap {
	var best apis.Swap
	bestQ := 0
	for _, s := range list {
		if q := s.Match(ctx); q > bestQ {
			best, bestQ = s, q
		}
	}
	return best
}
