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

package swaps

import (
	"reflect"

	"github.com/cockroachdb/errors"

	"dirpx.dev/tmx/apis"
)

// ErrOneWay is returned when Revert is called on a swap constructed
// without a revert function.
var ErrOneWay = errors.New("tmx(swaps): swap is one-way")

// Match quality contributions of the functional swap. An unfiltered swap
// matches everything at base quality; each declared-and-satisfied filter
// raises the quality, each declared-and-missed filter disqualifies.
const (
	qualityBase     = 1
	qualityFormat   = 2
	qualityTemplate = 4
)

// funcSwap is the functional apis.Swap implementation built by New and Of.
type funcSwap struct {
	normal, swapped reflect.Type
	apply, revert   func(any) (any, error)
	formats         []string
	template        string
	matchFn         func(apis.MatchContext) int
}

var (
	_ apis.Swap     = (*funcSwap)(nil)
	_ apis.Filtered = (*funcSwap)(nil)
)

// New builds a swap between the normal and swapped types from plain
// conversion functions. revert may be nil for one-way swaps.
func New(normal, swapped reflect.Type, apply, revert func(any) (any, error), opts ...SwapOption) apis.Swap {
	s := &funcSwap{normal: normal, swapped: swapped, apply: apply, revert: revert}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Of builds a type-safe swap between N and S. revert may be nil.
func Of[N, S any](apply func(N) (S, error), revert func(S) (N, error), opts ...SwapOption) apis.Swap {
	var applyAny, revertAny func(any) (any, error)
	if apply != nil {
		applyAny = func(v any) (any, error) {
			n, ok := v.(N)
			if !ok {
				return nil, errors.Newf("tmx(swaps): apply: value %T is not %s", v, reflect.TypeOf((*N)(nil)).Elem())
			}
			return apply(n)
		}
	}
	if revert != nil {
		revertAny = func(v any) (any, error) {
			s, ok := v.(S)
			if !ok {
				return nil, errors.Newf("tmx(swaps): revert: value %T is not %s", v, reflect.TypeOf((*S)(nil)).Elem())
			}
			return revert(s)
		}
	}
	return New(reflect.TypeOf((*N)(nil)).Elem(), reflect.TypeOf((*S)(nil)).Elem(), applyAny, revertAny, opts...)
}

// SwapOption tunes a functional swap during construction.
type SwapOption func(*funcSwap)

// Formats restricts the swap to the given target formats.
func Formats(formats ...string) SwapOption {
	return func(s *funcSwap) {
		s.formats = append(s.formats, formats...)
	}
}

// Template restricts the swap to requests carrying the given template
// discriminator.
func Template(tpl string) SwapOption {
	return func(s *funcSwap) {
		s.template = tpl
	}
}

// MatchFunc overrides the default quality computation entirely.
func MatchFunc(fn func(apis.MatchContext) int) SwapOption {
	return func(s *funcSwap) {
		s.matchFn = fn
	}
}

func (s *funcSwap) NormalType() reflect.Type  { return s.normal }
func (s *funcSwap) SwappedType() reflect.Type { return s.swapped }

// MatchFilters exposes the declared filters for fingerprinting.
func (s *funcSwap) MatchFilters() (formats []string, template string) {
	return s.formats, s.template
}

// Match computes quality against ctx: base quality for an unfiltered swap,
// raised per satisfied filter, zero when a declared filter misses.
func (s *funcSwap) Match(ctx apis.MatchContext) int {
	if s.matchFn != nil {
		return s.matchFn(ctx)
	}
	q := qualityBase
	if len(s.formats) > 0 {
		hit := false
		for _, f := range s.formats {
			if f == ctx.Format {
				hit = true
				break
			}
		}
		if !hit {
			return 0
		}
		q += qualityFormat
	}
	if s.template != "" {
		if s.template != ctx.Template {
			return 0
		}
		q += qualityTemplate
	}
	return q
}

func (s *funcSwap) Apply(v any) (any, error) {
	if s.apply == nil {
		return v, nil
	}
	return s.apply(v)
}

func (s *funcSwap) Revert(v any) (any, error) {
	if s.revert == nil {
		return nil, errors.Wrapf(ErrOneWay, "%s", s.normal)
	}
	return s.revert(v)
}
