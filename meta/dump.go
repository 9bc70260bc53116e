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

package meta

import (
	"github.com/davecgh/go-spew/spew"

	"dirpx.dev/tmx/apis"
)

// dumpConf avoids invoking user Stringer/marshaller methods while dumping.
var dumpConf = spew.ConfigState{Indent: "  ", DisableMethods: true, SortKeys: true}

// summary is the diagnostic projection of a descriptor rendered by Dump.
type summary struct {
	Type       string
	Category   string
	Tag        string
	Swaps      int
	ChildSwaps int
	Properties []string
	BeanReason string
}

// Dump renders a descriptor for diagnostics and test failure output. It
// forces aggregate computation on aggregate shapes; nested descriptors are
// referenced by type name only, so dumping a cyclic graph terminates.
func Dump(m *Meta) string {
	if m == nil {
		return "<nil>"
	}
	s := summary{
		Type:       m.typ.String(),
		Category:   m.cat.String(),
		Tag:        m.tag,
		Swaps:      len(m.swaps),
		ChildSwaps: len(m.childSwaps),
	}
	if m.Is(apis.CatAggregate) {
		agg, reason := m.Aggregate()
		s.BeanReason = reason
		if agg != nil {
			for _, p := range agg.Properties() {
				s.Properties = append(s.Properties, p.Name+" "+p.typ.String())
			}
		}
	}
	return dumpConf.Sdump(s)
}
