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

// Package reflect holds the low-level type inspection helpers shared by the
// metadata resolver: cacheability and shape predicates, well-known type
// handles, and marker-interface probes. All functions are pure and safe for
// concurrent use.
package reflect

import (
	"encoding"
	"fmt"
	"io"
	"net/url"
	"reflect"
	"time"
)

// Well-known types consulted during classification.
var (
	// TimeType is the reflect.Type of time.Time.
	TimeType = reflect.TypeOf(time.Time{})
	// DurationType is the reflect.Type of time.Duration.
	DurationType = reflect.TypeOf(time.Duration(0))
	// URLType is the reflect.Type of url.URL.
	URLType = reflect.TypeOf(url.URL{})
	// AnyType is the reflect.Type of the empty interface.
	AnyType = reflect.TypeOf((*any)(nil)).Elem()

	stringerType        = reflect.TypeOf((*fmt.Stringer)(nil)).Elem()
	textMarshalerType   = reflect.TypeOf((*encoding.TextMarshaler)(nil)).Elem()
	textUnmarshalerType = reflect.TypeOf((*encoding.TextUnmarshaler)(nil)).Elem()
	readerType          = reflect.TypeOf((*io.Reader)(nil)).Elem()
	writerType          = reflect.TypeOf((*io.Writer)(nil)).Elem()
	emptyStructType     = reflect.TypeOf(struct{}{})
)

// IsCacheable reports whether descriptors for t may be published into a
// shared store. Synthetic types (unnamed structs, typically produced by
// reflect.StructOf or other code generation) and func/chan types are
// excluded so that generated-type churn cannot grow the store unboundedly.
func IsCacheable(t reflect.Type) bool {
	if t == nil {
		return false
	}
	switch t.Kind() {
	case reflect.Func, reflect.Chan, reflect.UnsafePointer:
		return false
	case reflect.Struct:
		return t.Name() != ""
	default:
		return true
	}
}

// IsSetLike reports whether t is a set-shaped map (map[K]struct{}).
func IsSetLike(t reflect.Type) bool {
	return t.Kind() == reflect.Map && t.Elem() == emptyStructType
}

// IsEnumLike reports whether t behaves as an enumeration: a named scalar
// (integer or string kind) that renders itself via fmt.Stringer and offers
// either textual parsing (encoding.TextUnmarshaler on the pointer) or an
// IsValid() bool probe.
func IsEnumLike(t reflect.Type) bool {
	if t.Name() == "" {
		return false
	}
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.String:
	default:
		return false
	}
	if !t.Implements(stringerType) {
		return false
	}
	if reflect.PointerTo(t).Implements(textUnmarshalerType) {
		return true
	}
	m, ok := t.MethodByName("IsValid")
	return ok && m.Type.NumIn() == 1 && m.Type.NumOut() == 1 && m.Type.Out(0).Kind() == reflect.Bool
}

// IsReader reports whether t (or *t) implements io.Reader.
func IsReader(t reflect.Type) bool { return ImplementsEither(t, readerType) }

// IsWriter reports whether t (or *t) implements io.Writer.
func IsWriter(t reflect.Type) bool { return ImplementsEither(t, writerType) }

// HasTextMarshaler reports whether t (or *t) implements encoding.TextMarshaler.
func HasTextMarshaler(t reflect.Type) bool { return ImplementsEither(t, textMarshalerType) }

// HasTextUnmarshaler reports whether *t implements encoding.TextUnmarshaler.
// Only the pointer form is useful: unmarshalling must mutate the receiver.
func HasTextUnmarshaler(t reflect.Type) bool {
	return reflect.PointerTo(t).Implements(textUnmarshalerType)
}

// ImplementsEither reports whether t or its pointer type implements the
// interface type iface.
func ImplementsEither(t, iface reflect.Type) bool {
	if t == nil || iface == nil || iface.Kind() != reflect.Interface {
		return false
	}
	if t.Implements(iface) {
		return true
	}
	return t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface)
}

// Satisfies reports whether a value of type t satisfies target: either the
// types are identical, or target is an interface implemented by t or *t.
func Satisfies(t, target reflect.Type) bool {
	if t == nil || target == nil {
		return false
	}
	if t == target {
		return true
	}
	if target.Kind() == reflect.Interface {
		return ImplementsEither(t, target)
	}
	return false
}

// ZeroOf returns a value of t usable for marker-interface probes. Pointer
// types yield a non-nil pointer to a zero element, so methods promoted
// from value receivers are invocable without a nil dereference. Interface
// and invalid types yield an untyped nil.
func ZeroOf(t reflect.Type) any {
	if t == nil || t.Kind() == reflect.Interface {
		return nil
	}
	if t.Kind() == reflect.Pointer {
		return reflect.New(t.Elem()).Interface()
	}
	return reflect.Zero(t).Interface()
}

// TypeString renders t in a stable, human-readable form for fingerprints
// and diagnostics. Unnamed types fall back to reflect's own rendering,
// which is deterministic for structural types.
func TypeString(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	if pkg := t.PkgPath(); pkg != "" {
		return pkg + "." + t.Name()
	}
	return t.String()
}
