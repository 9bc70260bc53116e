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

package config

import (
	"reflect"
	"strconv"
	"strings"

	"dirpx.dev/tmx/apis"
	uref "dirpx.dev/tmx/utils/reflect"
)

// FingerprintOf derives the deterministic fingerprint of cfg. Every option
// that can influence descriptor resolution contributes a canonical token;
// nothing contributes object identity, so two configs assembled
// independently from equal options fingerprint identically.
//
// Equal fingerprints are the contract for descriptor-store sharing.
func FingerprintOf(cfg apis.Config) apis.Fingerprint {
	var b strings.Builder
	b.WriteString("tp=")
	b.WriteString(cfg.TypePropertyName)
	b.WriteString(";nm=")
	b.WriteString(cfg.Naming.String())
	b.WriteString(";sp=")
	b.WriteString(strconv.FormatBool(cfg.SortProperties))
	b.WriteString(";uf=")
	b.WriteString(strconv.FormatBool(cfg.UseFields))
	b.WriteString(";ua=")
	b.WriteString(strconv.FormatBool(cfg.UseAccessors))
	b.WriteString(";rp=")
	b.WriteString(strconv.FormatBool(cfg.BeanRequireSomeProps))
	b.WriteString(";mk=")
	b.WriteString(uref.TypeString(cfg.BeanRequireMarker))

	b.WriteString(";sw=[")
	for i, s := range cfg.Swaps {
		if i > 0 {
			b.WriteByte(',')
		}
		if s == nil {
			b.WriteString("<nil>")
			continue
		}
		// Normal and swapped type names pin down the swap's structural
		// identity. The declared filters must contribute too: swaps
		// differing only in filters match differently, so configs carrying
		// them may not share a descriptor store. Swaps with an opaque match
		// policy contribute their implementation type and the sampled
		// empty-context quality instead.
		b.WriteString(uref.TypeString(s.NormalType()))
		b.WriteByte('>')
		b.WriteString(uref.TypeString(s.SwappedType()))
		b.WriteByte('@')
		b.WriteString(strconv.Itoa(s.Match(apis.MatchContext{})))
		if f, ok := s.(apis.Filtered); ok {
			formats, template := f.MatchFilters()
			b.WriteByte('~')
			b.WriteString(strings.Join(formats, "|"))
			b.WriteByte('#')
			b.WriteString(template)
		} else {
			b.WriteByte('!')
			b.WriteString(reflect.TypeOf(s).String())
		}
	}
	b.WriteString("];di=[")
	writeEntries(&b, cfg.Dictionary)
	b.WriteString("]")
	return apis.Fingerprint(b.String())
}

func writeEntries(b *strings.Builder, entries []apis.Entry) {
	for i, e := range entries {
		if i > 0 {
			b.WriteByte(',')
		}
		if len(e.Entries) > 0 {
			b.WriteByte('(')
			writeEntries(b, e.Entries)
			b.WriteByte(')')
			continue
		}
		b.WriteString(e.Name)
		b.WriteByte(':')
		b.WriteString(uref.TypeString(e.Type))
		for _, a := range e.Args {
			b.WriteByte('<')
			b.WriteString(uref.TypeString(a))
		}
	}
}
