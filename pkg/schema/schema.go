// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema describes the options, positional parameters and commands
// that a configuration accepts.
//
// A Provider turns a configuration value into a Scope. The binder only ever
// talks to Scopes, so a configuration can be declared with struct tags
// (Reflect) or loaded from a TOML or YAML document (Document).
//
// Struct tags understood by Reflect:
//
//	type Config struct {
//	    Verbose bool      `flag:"v" long:"verbose" help:"Verbose output"`
//	    Out     string    `flag:"o" alt:"out" required:"true" usage:"path"`
//	    Help    bool      `flag:"h" alt:"?" long:"help" helpflag:"true"`
//	    Get     *GetCmd   `cmd:"g" long:"get" help:"Gets things"`
//	}
//
//	type GetCmd struct {
//	    Kind   string `pos:"1" name:"kind" help:"What to get"`
//	    Source string `pos:"2" name:"source"`
//	}
package schema

import (
	"reflect"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
)

// Provider produces the schema of a configuration value.
type Provider interface {
	// Schema returns the root scope bound to config. A malformed schema is
	// reported as a *Error.
	Schema(config any) (*Scope, error)
}

// Scope is one level of a schema: the root configuration or a command.
type Scope struct {
	Options    []*Option
	Parameters []*Parameter
	Commands   []*Command
}

// Option returns the option that has name as its name, alternative name or
// long name. Matching is exact.
func (s *Scope) Option(name string) *Option {
	if s == nil || name == "" {
		return nil
	}
	for _, o := range s.Options {
		if o.Name == name || o.AltName == name || o.LongName == name {
			return o
		}
	}
	return nil
}

// Parameter returns the parameter at ordinal, which starts at 1.
func (s *Scope) Parameter(ordinal int) *Parameter {
	if s == nil {
		return nil
	}
	for _, p := range s.Parameters {
		if p.Ordinal == ordinal {
			return p
		}
	}
	return nil
}

// Command returns the command called name, ignoring case. Both the name and
// the long name match.
func (s *Scope) Command(name string) *Command {
	if s == nil || name == "" {
		return nil
	}
	for _, c := range s.Commands {
		if strings.EqualFold(c.Name, name) || (c.LongName != "" && strings.EqualFold(c.LongName, name)) {
			return c
		}
	}
	return nil
}

// HelpOption returns the help option matching name.
func (s *Scope) HelpOption(name string) *Option {
	if o := s.Option(name); o != nil && o.Help {
		return o
	}
	return nil
}

// Option describes a named argument.
type Option struct {
	// Field is the struct field or document key the option came from.
	Field       string
	Name        string
	AltName     string
	LongName    string
	Description string
	// UsageType is the placeholder shown in usage text, "option" when empty.
	UsageType string
	Required  bool
	// Help marks an option that requests usage output.
	Help bool
	Type coerce.Type
	// GoType is the declared Go type; it selects the handler for Custom
	// options.
	GoType reflect.Type
	// Default is applied when the option is not given.
	Default    string
	HasDefault bool

	// Set stores a coerced value. It is nil on unbound schemas.
	Set func(v any) error
}

// DisplayName returns the first non-empty of Name, AltName and LongName.
func (o *Option) DisplayName() string {
	switch {
	case o.Name != "":
		return o.Name
	case o.AltName != "":
		return o.AltName
	}
	return o.LongName
}

// Names returns the non-empty names of o in declaration order.
func (o *Option) Names() []string {
	var names []string
	for _, n := range []string{o.Name, o.AltName, o.LongName} {
		if n != "" {
			names = append(names, n)
		}
	}
	return names
}

// Target returns the coercion target for o.
func (o *Option) Target() coerce.Target {
	return coerce.Target{Name: o.DisplayName(), Type: o.Type, GoType: o.GoType, Required: o.Required}
}

// Parameter describes a positional argument.
type Parameter struct {
	Field       string
	Ordinal     int
	Name        string
	Description string
	Type        coerce.Type
	GoType      reflect.Type

	Set func(v any) error
}

// Target returns the coercion target for p.
func (p *Parameter) Target() coerce.Target {
	return coerce.Target{Name: p.Name, Type: p.Type, GoType: p.GoType}
}

// Command describes a command and its nested scope.
type Command struct {
	Field       string
	Name        string
	LongName    string
	Description string
	// Nested is the unbound scope of the command, used for validation and
	// usage text.
	Nested *Scope

	// Select allocates the command object if needed and returns its scope
	// bound to it, along with the object itself. It is nil on unbound
	// schemas.
	Select func() (*Scope, any, error)
}

// DisplayName returns "name | long" or just the name.
func (c *Command) DisplayName() string {
	if c.LongName == "" {
		return c.Name
	}
	return c.Name + " | " + c.LongName
}
