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
	"reflect"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/config"
	"dirpx.dev/tmx/swaps"
	uref "dirpx.dev/tmx/utils/reflect"
)

// Context is the metadata cache: it owns a configuration, its fingerprint
// and the (possibly shared) descriptor store, and is the sole factory for
// descriptors. Contexts are created once per configuration and live for
// the process lifetime.
type Context struct {
	cfg     apis.Config
	fp      apis.Fingerprint
	store   *store
	swapReg *swaps.Registry
	log     *zap.Logger

	// anyMeta is the shared unknown/any descriptor that unresolvable
	// inputs degrade to.
	anyMeta *Meta
}

// ContextOption tunes context construction without affecting the
// fingerprint.
type ContextOption func(*contextOpts)

type contextOpts struct {
	log    *zap.Logger
	stores *StoreTable
}

// WithLogger attaches a structured logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) ContextOption {
	return func(o *contextOpts) {
		if l != nil {
			o.log = l
		}
	}
}

// WithStores selects the store table consulted for fingerprint sharing.
// The default is the process-wide table.
func WithStores(t *StoreTable) ContextOption {
	return func(o *contextOpts) {
		if t != nil {
			o.stores = t
		}
	}
}

// NewContext validates cfg and builds a metadata cache for it, sharing the
// descriptor store with any previously built context of equal fingerprint.
// Structural configuration problems are reported here as errors; they are
// programming errors in setup code, not per-value runtime conditions.
func NewContext(cfg apis.Config, opts ...ContextOption) (*Context, error) {
	o := contextOpts{log: zap.NewNop(), stores: DefaultStores()}
	for _, opt := range opts {
		opt(&o)
	}

	if err := config.Validate(cfg); err != nil {
		return nil, errors.Wrap(err, "tmx(meta): invalid configuration")
	}
	swapReg, err := swaps.NewRegistry(cfg.Swaps...)
	if err != nil {
		return nil, errors.Wrap(err, "tmx(meta): invalid configuration")
	}

	fp := config.FingerprintOf(cfg)
	st, created := o.stores.storeFor(fp)
	c := &Context{
		cfg:     cfg,
		fp:      fp,
		store:   st,
		swapReg: swapReg,
		log:     o.log,
	}
	c.anyMeta = c.Resolve(uref.AnyType)

	c.log.Debug("metadata context ready",
		zap.Bool("store_created", created),
		zap.Int("swaps", len(cfg.Swaps)),
		zap.Int("dictionary", len(cfg.Dictionary)))
	return c, nil
}

// Config returns the configuration this cache was built from.
func (c *Context) Config() apis.Config { return c.cfg }

// Fingerprint returns the configuration fingerprint.
func (c *Context) Fingerprint() apis.Fingerprint { return c.fp }

// Resolve returns the descriptor for t, constructing and publishing it on
// first use. It is idempotent and safe for concurrent use: exactly one
// descriptor per cacheable type ever becomes reachable, and callers never
// observe a partially constructed one. A nil t degrades to the "any"
// descriptor rather than failing.
func (c *Context) Resolve(t reflect.Type) *Meta {
	if t == nil {
		return c.anyMeta
	}
	if !uref.IsCacheable(t) {
		// Synthetic/generated types are built fresh every time so that
		// generated-type churn cannot grow the shared store.
		m := c.newMeta(t)
		c.classify(m)
		close(m.done)
		return m
	}
	if m, ok := c.store.load(t); ok {
		<-m.done
		return m
	}

	m := c.newMeta(t)
	// Self-registration before computation: the placeholder must be
	// reachable before anything else runs, so a concurrent resolver of the
	// same type waits on the gate instead of building a twin.
	if prev, raced := c.store.publish(t, m); raced {
		<-prev.done
		return prev
	}
	// The gate must close even if classification faults: a published
	// placeholder whose gate never closes would strand every later
	// resolver of this type.
	defer close(m.done)
	c.classify(m)
	if ce := c.log.Check(zap.DebugLevel, "descriptor constructed"); ce != nil {
		ce.Write(zap.Stringer("type", t), zap.Stringer("category", m.cat))
	}
	return m
}

// ResolveValue resolves the descriptor for v's dynamic type. A nil v
// degrades to the "any" descriptor.
func (c *Context) ResolveValue(v any) *Meta {
	if v == nil {
		return c.anyMeta
	}
	return c.Resolve(reflect.TypeOf(v))
}

// ResolveParameterized returns a descriptor for t with its element or
// key/value descriptors overridden by args. The returned descriptor is a
// cheap wrapper view and is not published into the shared store unless the
// arguments coincide with the structurally discovered ones, in which case
// the cached base descriptor is returned. Three or more arguments yield
// the synthetic argument-list descriptor.
func (c *Context) ResolveParameterized(t reflect.Type, args ...reflect.Type) *Meta {
	base := c.Resolve(t)
	if len(args) == 0 {
		return base
	}

	switch {
	case len(args) == 1 && hasElemSlot(base):
		if structuralElem(base.typ) == args[0] {
			return base
		}
		w := c.newMeta(base.typ)
		c.classify(w)
		w.elem = c.Resolve(args[0])
		close(w.done)
		return w
	case len(args) == 2 && base.Is(apis.CatMap):
		if base.typ.Key() == args[0] && base.typ.Elem() == args[1] {
			return base
		}
		w := c.newMeta(base.typ)
		c.classify(w)
		w.key = c.Resolve(args[0])
		w.val = c.Resolve(args[1])
		close(w.done)
		return w
	default:
		// Shape mismatch or 3+ arguments: synthesize an argument-list
		// descriptor carrying the resolved argument descriptors in order.
		w := c.newMeta(base.typ)
		w.cat = apis.CatArgs
		w.args = make([]*Meta, len(args))
		for i, a := range args {
			w.args[i] = c.Resolve(a)
		}
		close(w.done)
		return w
	}
}

func (c *Context) newMeta(t reflect.Type) *Meta {
	return &Meta{typ: t, ctx: c, done: make(chan struct{})}
}

func hasElemSlot(m *Meta) bool {
	return m.Is(apis.CatCollection) || m.Is(apis.CatOptional)
}

// classify fills every identity-affecting field of m: category bits, swap
// association and the declared tag. It never resolves nested types; those
// stay lazy so cyclic type graphs terminate.
func (c *Context) classify(m *Meta) {
	t := m.typ

	cat := primaryShape(t)
	if _, ok := probe[apis.Delegate](t); ok {
		cat |= apis.CatDelegate
	}
	if t == uref.URLType {
		cat |= apis.CatURI
	} else if _, ok := probe[apis.URIer](t); ok {
		cat |= apis.CatURI
	}
	m.cat = cat

	// Type-local swaps precede globally registered ones so type-local
	// declarations win match-quality ties.
	direct, child := c.swapReg.For(t)
	if sw, ok := probe[apis.Swapper](t); ok {
		if local := sw.TypeSwaps(); len(local) > 0 {
			merged := make([]apis.Swap, 0, len(local)+len(direct))
			merged = append(merged, local...)
			direct = append(merged, direct...)
		}
	}
	m.swaps = direct
	m.childSwaps = child

	if tg, ok := probe[apis.Tagger](t); ok {
		m.tag = tg.TypeTag()
	}
}

// primaryShape evaluates the classification predicates in fixed priority
// order; the first match governs the primary shape. Well-known concrete
// types go first because Go's structural kinds would misfile them (a
// time.Duration is an int64, a time.Time is a plain struct).
func primaryShape(t reflect.Type) apis.Category {
	switch t {
	case uref.TimeType, uref.DurationType:
		return apis.CatTemporal
	}
	if uref.IsEnumLike(t) {
		return apis.CatEnum
	}
	switch t.Kind() {
	case reflect.String:
		if t == reflect.TypeOf("") {
			return apis.CatCharSeq | apis.CatString
		}
		return apis.CatCharSeq
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return apis.CatNumber
	case reflect.Float32, reflect.Float64:
		return apis.CatNumber | apis.CatDecimal
	case reflect.Bool:
		return apis.CatBool
	case reflect.Slice:
		// Slices are Go's resizable arrays: they carry both refinements.
		return apis.CatCollection | apis.CatArray | apis.CatList
	case reflect.Array:
		return apis.CatCollection | apis.CatArray
	case reflect.Map:
		if uref.IsSetLike(t) {
			return apis.CatCollection | apis.CatSet
		}
		return apis.CatMap
	case reflect.Pointer:
		return apis.CatOptional
	}
	if uref.IsReader(t) {
		return apis.CatReader
	}
	if uref.IsWriter(t) {
		return apis.CatWriter
	}
	switch t.Kind() {
	case reflect.Interface:
		return apis.CatAny
	case reflect.Struct:
		return apis.CatAggregate
	default:
		return apis.CatAny
	}
}

// probe reports whether t (or *t) implements the marker interface T and
// returns an instance for invoking it. Marker methods are contractually
// state-independent, so a zero value suffices; uref.ZeroOf hands back a
// non-nil pointer for pointer types, as their method sets promote
// value-receiver methods that must not be called on nil.
func probe[T any](t reflect.Type) (T, bool) {
	var zero T
	iface := reflect.TypeOf((*T)(nil)).Elem()
	if t.Kind() == reflect.Interface {
		return zero, false
	}
	if t.Implements(iface) {
		return uref.ZeroOf(t).(T), true
	}
	if t.Kind() != reflect.Pointer && reflect.PointerTo(t).Implements(iface) {
		return reflect.New(t).Interface().(T), true
	}
	return zero, false
}
