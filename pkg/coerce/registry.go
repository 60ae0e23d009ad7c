// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"maps"
	"reflect"
	"sync"
	"time"

	"tailscale.com/util/mak"
)

// Handler coerces values of a custom type.
type Handler struct {
	// Get converts value into the custom type. name is the option or
	// parameter the value was given for.
	Get func(name, value string) (any, error)
	// Valid reports whether value is acceptable. required is true when the
	// option must be given.
	Valid func(name, value string, required bool) bool
}

// Registry maps custom Go types to their handlers. It is safe for concurrent
// use.
type Registry struct {
	mu       sync.RWMutex
	handlers map[reflect.Type]Handler
}

// NewRegistry returns a registry with handlers for the custom types every
// parser understands (currently time.Duration).
func NewRegistry() *Registry {
	r := new(Registry)
	r.Register(reflect.TypeFor[time.Duration](), Handler{
		Get: func(_, value string) (any, error) {
			return time.ParseDuration(value)
		},
		Valid: func(_, value string, _ bool) bool {
			_, err := time.ParseDuration(value)
			return err == nil
		},
	})
	return r
}

// Register installs h for t, replacing any previous handler. A nil Valid
// accepts every value Get accepts.
func (r *Registry) Register(t reflect.Type, h Handler) {
	if t == nil || h.Get == nil {
		panic(fmt.Sprintf("coerce: invalid handler registration for %v", t))
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if h.Valid == nil {
		get := h.Get
		h.Valid = func(name, value string, _ bool) bool {
			_, err := get(name, value)
			return err == nil
		}
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	mak.Set(&r.handlers, t, h)
}

// Lookup returns the handler for t.
func (r *Registry) Lookup(t reflect.Type) (Handler, bool) {
	if r == nil || t == nil {
		return Handler{}, false
	}
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	h, ok := r.handlers[t]
	return h, ok
}

// Clone returns an independent copy of r.
func (r *Registry) Clone() *Registry {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return &Registry{handlers: maps.Clone(r.handlers)}
}
