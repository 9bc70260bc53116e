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

package tmx

import (
	"reflect"
	"sync"

	"dirpx.dev/tmx/apis"
	"dirpx.dev/tmx/builder"
	"dirpx.dev/tmx/config"
	"dirpx.dev/tmx/meta"
	"dirpx.dev/tmx/registry"
)

// New composes a metadata context and its tag registry for cfg. Contexts
// of equal fingerprint share one descriptor store.
func New(cfg apis.Config, opts ...meta.ContextOption) (*meta.Context, *registry.Registry, error) {
	return builder.Build(cfg, opts...)
}

var (
	defOnce sync.Once
	defCtx  *meta.Context
)

// DefaultContext returns the process-wide context for the default
// configuration, built lazily on first use.
func DefaultContext() *meta.Context {
	defOnce.Do(func() {
		ctx, err := meta.NewContext(config.DefaultConfig())
		if err != nil {
			// The default configuration is statically valid; failing to
			// build it is a programming error in this package.
			panic(err)
		}
		defCtx = ctx
	})
	return defCtx
}

// Resolve returns the descriptor of t under the default configuration.
func Resolve(t reflect.Type) *meta.Meta {
	return DefaultContext().Resolve(t)
}

// ResolveValue returns the descriptor of v's dynamic type under the
// default configuration.
func ResolveValue(v any) *meta.Meta {
	return DefaultContext().ResolveValue(v)
}
