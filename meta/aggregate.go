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
	"encoding"
	"reflect"
	"sort"
	"strings"
	"unicode"

	"github.com/cockroachdb/errors"

	"dirpx.dev/tmx/apis"
	uref "dirpx.dev/tmx/utils/reflect"
)

var (
	// ErrNoSuchProperty is returned for property access by unknown name.
	ErrNoSuchProperty = errors.New("tmx(meta): no such property")
	// ErrNotWritable is returned when setting a read-only property or a
	// non-pointer target.
	ErrNotWritable = errors.New("tmx(meta): property not writable")
	// ErrNotReadable is returned when getting a write-only property or
	// when the getter needs an addressable receiver.
	ErrNotReadable = errors.New("tmx(meta): property not readable")
	// ErrNoTextForm is returned by FromText when the type does not
	// implement encoding.TextUnmarshaler.
	ErrNoTextForm = errors.New("tmx(meta): type has no textual form")
)

// Aggregate is the member inventory of a user-defined composite type:
// the exposed properties, their access paths, and the textual round-trip
// capability. It is built lazily, once, by Meta.Aggregate.
type Aggregate struct {
	typ    reflect.Type
	ctx    *Context
	props  []*Property
	byName map[string]*Property

	fromText bool
	toText   bool
}

// Property is one exposed member of an aggregate: a struct field, an
// accessor pair, or both merged under one name (the field wins access).
type Property struct {
	// Name is the resolved property name after tags and naming strategy.
	Name string
	// ReadOnly marks getter-only accessor properties and fields tagged ro.
	ReadOnly bool
	// WriteOnly marks setter-only accessor properties and fields tagged wo.
	WriteOnly bool
	// SubTag optionally names a dictionary entry overriding the declared
	// member type during parsing.
	SubTag string

	ctx    *Context
	typ    reflect.Type
	index  []int // field index path; nil for accessor-only properties
	getter string
	setter string
}

// buildAggregate computes the eligibility and member inventory of t under
// the context's configuration. An ineligible type yields a nil inventory
// and a short human-readable reason.
func buildAggregate(c *Context, t reflect.Type) (*Aggregate, string) {
	if t.Kind() != reflect.Struct {
		return nil, "kind " + t.Kind().String() + " is not an aggregate"
	}
	cfg := c.cfg
	if cfg.BeanRequireMarker != nil && !uref.ImplementsEither(t, cfg.BeanRequireMarker) {
		return nil, "does not implement " + uref.TypeString(cfg.BeanRequireMarker)
	}

	a := &Aggregate{
		typ:      t,
		ctx:      c,
		byName:   map[string]*Property{},
		fromText: uref.HasTextUnmarshaler(t),
		toText:   uref.HasTextMarshaler(t),
	}

	if cfg.UseFields {
		a.collectFields(cfg)
	}
	if cfg.UseAccessors {
		a.collectAccessors(cfg)
	}

	if cfg.BeanRequireSomeProps && len(a.props) == 0 {
		return nil, "no exposed properties"
	}
	if cfg.SortProperties {
		sort.Slice(a.props, func(i, j int) bool { return a.props[i].Name < a.props[j].Name })
	}
	return a, ""
}

func (a *Aggregate) collectFields(cfg apis.Config) {
	for _, f := range reflect.VisibleFields(a.typ) {
		if f.PkgPath != "" {
			continue // unexported
		}
		if f.Anonymous {
			k := f.Type.Kind()
			if k == reflect.Struct || (k == reflect.Pointer && f.Type.Elem().Kind() == reflect.Struct) {
				continue // container of promoted fields, not a property itself
			}
		}
		name, ro, wo, subTag, skip := parseMemberTag(f.Tag.Get("tmx"))
		if skip {
			continue
		}
		if name == "" {
			name = applyNaming(cfg.Naming, f.Name)
		}
		p := &Property{
			Name:      name,
			ReadOnly:  ro,
			WriteOnly: wo,
			SubTag:    subTag,
			ctx:       a.ctx,
			typ:       f.Type,
			index:     f.Index,
		}
		a.put(p)
	}
}

func (a *Aggregate) collectAccessors(cfg apis.Config) {
	pt := reflect.PointerTo(a.typ)
	type pair struct {
		getter string
		gType  reflect.Type
		setter string
		sType  reflect.Type
	}
	pairs := map[string]*pair{}
	for i := 0; i < pt.NumMethod(); i++ {
		m := pt.Method(i)
		switch {
		case strings.HasPrefix(m.Name, "Get") && len(m.Name) > 3 &&
			m.Type.NumIn() == 1 && m.Type.NumOut() == 1:
			key := m.Name[3:]
			p := pairs[key]
			if p == nil {
				p = &pair{}
				pairs[key] = p
			}
			p.getter, p.gType = m.Name, m.Type.Out(0)
		case strings.HasPrefix(m.Name, "Set") && len(m.Name) > 3 &&
			m.Type.NumIn() == 2 && m.Type.NumOut() <= 1:
			key := m.Name[3:]
			p := pairs[key]
			if p == nil {
				p = &pair{}
				pairs[key] = p
			}
			p.setter, p.sType = m.Name, m.Type.In(1)
		}
	}

	// Deterministic order regardless of method enumeration.
	keys := make([]string, 0, len(pairs))
	for k := range pairs {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		pr := pairs[k]
		name := applyNaming(cfg.Naming, k)
		if _, taken := a.byName[name]; taken {
			continue // field declaration wins over accessors of the same name
		}
		typ := pr.gType
		if typ == nil {
			typ = pr.sType
		}
		a.put(&Property{
			Name:      name,
			ReadOnly:  pr.setter == "",
			WriteOnly: pr.getter == "",
			ctx:       a.ctx,
			typ:       typ,
			getter:    pr.getter,
			setter:    pr.setter,
		})
	}
}

func (a *Aggregate) put(p *Property) {
	if prev, ok := a.byName[p.Name]; ok {
		// Later declaration under the same name replaces the earlier one
		// in place, preserving discovery order.
		*prev = *p
		return
	}
	a.byName[p.Name] = p
	a.props = append(a.props, p)
}

// Type returns the aggregate's struct type.
func (a *Aggregate) Type() reflect.Type { return a.typ }

// Properties returns the exposed properties in configured order. Callers
// must not mutate the returned slice.
func (a *Aggregate) Properties() []*Property { return a.props }

// Property returns the property of the given name, or nil.
func (a *Aggregate) Property(name string) *Property { return a.byName[name] }

// FromText reports whether the type supports textual reconstruction
// (encoding.TextUnmarshaler).
func (a *Aggregate) FromText() bool { return a.fromText }

// ToText reports whether the type supports a textual representation
// (encoding.TextMarshaler).
func (a *Aggregate) ToText() bool { return a.toText }

// New instantiates a pointer to a zero value of the aggregate type.
func (a *Aggregate) New() any {
	return reflect.New(a.typ).Interface()
}

// NewFromText instantiates the aggregate from its textual form. Failures
// propagate with the original cause: they reflect invalid input data, not
// a metadata problem.
func (a *Aggregate) NewFromText(text []byte) (any, error) {
	if !a.fromText {
		return nil, errors.Wrapf(ErrNoTextForm, "%s", a.typ)
	}
	v := reflect.New(a.typ).Interface()
	if err := v.(encoding.TextUnmarshaler).UnmarshalText(text); err != nil {
		return nil, errors.Wrapf(err, "tmx(meta): constructing %s from text", a.typ)
	}
	return v, nil
}

// Meta resolves the descriptor of the property's declared type.
func (p *Property) Meta() *Meta { return p.ctx.Resolve(p.typ) }

// Type returns the property's declared type.
func (p *Property) Type() reflect.Type { return p.typ }

// Get reads the property from v, which must be the aggregate value or a
// pointer to it.
func (p *Property) Get(v any) (any, error) {
	if p.WriteOnly {
		return nil, errors.Wrapf(ErrNotReadable, "%s", p.Name)
	}
	rv := reflect.ValueOf(v)
	if p.index != nil {
		if rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
		}
		if rv.Kind() != reflect.Struct {
			return nil, errors.Newf("tmx(meta): cannot read %s from %T", p.Name, v)
		}
		// The index path may traverse a nil embedded pointer.
		fv, err := rv.FieldByIndexErr(p.index)
		if err != nil {
			return nil, errors.Wrapf(err, "tmx(meta): reading %s", p.Name)
		}
		return fv.Interface(), nil
	}
	m := rv.MethodByName(p.getter)
	if !m.IsValid() {
		return nil, errors.Wrapf(ErrNotReadable, "%s requires an addressable receiver", p.Name)
	}
	return m.Call(nil)[0].Interface(), nil
}

// Set writes the property on v, which must be a pointer to the aggregate.
// Assignable and convertible values are accepted; anything else fails with
// the original cause attached.
func (p *Property) Set(v any, value any) error {
	if p.ReadOnly {
		return errors.Wrapf(ErrNotWritable, "%s is read-only", p.Name)
	}
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return errors.Wrapf(ErrNotWritable, "%s: target must be a non-nil pointer", p.Name)
	}
	val := reflect.ValueOf(value)
	if p.index == nil {
		m := rv.MethodByName(p.setter)
		if !m.IsValid() {
			return errors.Wrapf(ErrNotWritable, "%s", p.Name)
		}
		if !val.IsValid() || !val.Type().AssignableTo(p.typ) {
			if val.IsValid() && val.Type().ConvertibleTo(p.typ) {
				val = val.Convert(p.typ)
			} else {
				return errors.Newf("tmx(meta): cannot set %s: %T is not assignable to %s", p.Name, value, p.typ)
			}
		}
		m.Call([]reflect.Value{val})
		return nil
	}
	fv := fieldByIndexAlloc(rv.Elem(), p.index)
	if !fv.IsValid() {
		return errors.Wrapf(ErrNotWritable, "%s: nil embedded pointer cannot be allocated", p.Name)
	}
	if !val.IsValid() {
		fv.SetZero()
		return nil
	}
	switch {
	case val.Type().AssignableTo(fv.Type()):
	case val.Type().ConvertibleTo(fv.Type()):
		val = val.Convert(fv.Type())
	default:
		return errors.Newf("tmx(meta): cannot set %s: %T is not assignable to %s", p.Name, value, fv.Type())
	}
	fv.Set(val)
	return nil
}

// fieldByIndexAlloc walks an index path like Value.FieldByIndex but
// allocates nil embedded pointers along the way, so fields promoted
// through an embedded pointer stay settable on a fresh value. A nil
// pointer that cannot be allocated (embedded unexported type) yields the
// zero Value.
func fieldByIndexAlloc(v reflect.Value, index []int) reflect.Value {
	for i, x := range index {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				if !v.CanSet() {
					return reflect.Value{}
				}
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

// parseMemberTag parses a `tmx:"..."` member tag: an optional name (or "-"
// to skip), then comma-separated options "ro", "wo" and "type=<tag>".
func parseMemberTag(tag string) (name string, ro, wo bool, subTag string, skip bool) {
	if tag == "" {
		return "", false, false, "", false
	}
	parts := strings.Split(tag, ",")
	if parts[0] == "-" {
		return "", false, false, "", true
	}
	name = parts[0]
	for _, opt := range parts[1:] {
		switch {
		case opt == "ro":
			ro = true
		case opt == "wo":
			wo = true
		case strings.HasPrefix(opt, "type="):
			subTag = opt[len("type="):]
		}
	}
	return name, ro, wo, subTag, false
}

// applyNaming derives the external property name from a declared member
// name.
func applyNaming(n apis.NamingStrategy, name string) string {
	switch n {
	case apis.NamingLowerCamel:
		return lowerCamel(name)
	case apis.NamingSnake:
		return snakeCase(name)
	default:
		return name
	}
}

// lowerCamel lowers the leading uppercase run, keeping the last capital of
// the run when it starts a new word: "UserID" -> "userID", "URLValue" ->
// "urlValue".
func lowerCamel(s string) string {
	r := []rune(s)
	i := 0
	for i < len(r) && unicode.IsUpper(r[i]) {
		i++
	}
	if i == 0 {
		return s
	}
	if i < len(r) && i > 1 {
		i-- // keep the capital that starts the next word
	}
	for j := 0; j < i; j++ {
		r[j] = unicode.ToLower(r[j])
	}
	return string(r)
}

// snakeCase converts camel-case member names to snake_case:
// "UserID" -> "user_id", "HTMLBody" -> "html_body".
func snakeCase(s string) string {
	var b strings.Builder
	r := []rune(s)
	for i, c := range r {
		if unicode.IsUpper(c) {
			prevLower := i > 0 && !unicode.IsUpper(r[i-1])
			nextLower := i+1 < len(r) && !unicode.IsUpper(r[i+1])
			if i > 0 && (prevLower || nextLower) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(c))
			continue
		}
		b.WriteRune(c)
	}
	return b.String()
}
