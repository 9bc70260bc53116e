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

	"github.com/cockroachdb/errors"

	"dirpx.dev/tmx/apis"
)

const (
	// DefaultTypePropertyName is the default attribute carrying a
	// polymorphic type tag in serialized output.
	DefaultTypePropertyName = "_type"
	// DefaultUseFields makes exported struct fields aggregate properties.
	DefaultUseFields = true
	// DefaultUseAccessors makes Get*/Set* pairs aggregate properties.
	DefaultUseAccessors = true
	// DefaultBeanRequireSomeProps rejects property-less aggregates.
	DefaultBeanRequireSomeProps = true
)

// ErrMarkerNotInterface is returned when BeanRequireMarker is set to a
// non-interface type.
var ErrMarkerNotInterface = errors.New("tmx(config): bean marker must be an interface type")

// NewConfig constructs an apis.Config from the given options.
func NewConfig(opts ...Option) apis.Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}

// DefaultConfig is the default configuration used when none is provided.
func DefaultConfig() apis.Config {
	return apis.Config{
		TypePropertyName:     DefaultTypePropertyName,
		Naming:               apis.NamingAsDeclared,
		UseFields:            DefaultUseFields,
		UseAccessors:         DefaultUseAccessors,
		BeanRequireSomeProps: DefaultBeanRequireSomeProps,
	}
}

// Validate checks structural invariants that are programming errors in
// setup code: a registered swap with no normal type, a dictionary entry
// with neither a type nor nested entries, a non-interface bean marker.
// These are reported at construction time, not per value.
func Validate(cfg apis.Config) error {
	if cfg.BeanRequireMarker != nil && cfg.BeanRequireMarker.Kind() != reflect.Interface {
		return errors.Wrapf(ErrMarkerNotInterface, "got %s", cfg.BeanRequireMarker)
	}
	for i, s := range cfg.Swaps {
		if s == nil {
			return errors.Newf("tmx(config): swap %d is nil", i)
		}
		if s.NormalType() == nil {
			return errors.Newf("tmx(config): swap %d declares no normal type", i)
		}
	}
	return validateEntries(cfg.Dictionary, "dictionary")
}

func validateEntries(entries []apis.Entry, at string) error {
	for i, e := range entries {
		switch {
		case len(e.Entries) > 0:
			if e.Type != nil {
				return errors.Newf("tmx(config): %s[%d] mixes a type with nested entries", at, i)
			}
			if err := validateEntries(e.Entries, at+"[nested]"); err != nil {
				return err
			}
		case e.Type == nil:
			return errors.Newf("tmx(config): %s[%d] declares no type", at, i)
		case e.Name == "" && len(e.Args) > 0:
			return errors.Newf("tmx(config): %s[%d] parameterizes %s but declares no name", at, i, e.Type)
		}
	}
	return nil
}

// Option is a functional option that mutates an apis.Config during construction.
type Option func(*apis.Config)

// WithTypePropertyName sets the polymorphic tag attribute name.
// An empty name resets to the default.
func WithTypePropertyName(name string) Option {
	return func(c *apis.Config) {
		if name == "" {
			c.TypePropertyName = DefaultTypePropertyName
			return
		}
		c.TypePropertyName = name
	}
}

// WithNaming sets the property naming strategy.
func WithNaming(n apis.NamingStrategy) Option {
	return func(c *apis.Config) {
		c.Naming = n
	}
}

// WithSortProperties orders aggregate properties alphabetically.
func WithSortProperties(sort bool) Option {
	return func(c *apis.Config) {
		c.SortProperties = sort
	}
}

// WithUseFields controls whether exported fields become properties.
func WithUseFields(use bool) Option {
	return func(c *apis.Config) {
		c.UseFields = use
	}
}

// WithUseAccessors controls whether Get*/Set* pairs become properties.
func WithUseAccessors(use bool) Option {
	return func(c *apis.Config) {
		c.UseAccessors = use
	}
}

// WithBeanRequireSomeProps rejects property-less aggregate candidates.
func WithBeanRequireSomeProps(require bool) Option {
	return func(c *apis.Config) {
		c.BeanRequireSomeProps = require
	}
}

// WithBeanRequireMarker requires aggregate candidates to implement the
// given interface type.
func WithBeanRequireMarker(iface reflect.Type) Option {
	return func(c *apis.Config) {
		c.BeanRequireMarker = iface
	}
}

// WithSwaps appends value transformers in registration order.
func WithSwaps(swaps ...apis.Swap) Option {
	return func(c *apis.Config) {
		c.Swaps = append(c.Swaps, swaps...)
	}
}

// WithDictionary appends dictionary entries in registration order.
func WithDictionary(entries ...apis.Entry) Option {
	return func(c *apis.Config) {
		c.Dictionary = append(c.Dictionary, entries...)
	}
}
