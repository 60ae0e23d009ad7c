// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"strings"
	"time"

	"github.com/yeetrun/argbind/pkg/coerce"
	"tailscale.com/util/set"
)

// Validate checks s and the scopes of its commands. The first problem found
// is returned as a *Error.
//
// Option names, alternative names and long names share one namespace per
// scope and are compared without regard to case. Parameter ordinals must be
// unique and run from 1 without gaps. A scope may have parameters or commands
// but not both, and commands cannot nest.
func Validate(s *Scope) error {
	if err := validateScope(s, "", false); err != nil {
		return err
	}
	return nil
}

func validateScope(s *Scope, command string, nested bool) *Error {
	if s == nil {
		return nil
	}
	if err := checkScope(s, nested); err != nil {
		err.Command = command
		return err
	}
	for _, c := range s.Commands {
		if err := validateScope(c.Nested, c.Name, true); err != nil {
			return err
		}
	}
	return nil
}

// defaultsCoercer checks default values independently of the culture a
// parser is later configured with.
var defaultsCoercer = coerce.New(coerce.Invariant(), time.UTC, nil)

func checkScope(s *Scope, nested bool) *Error {
	if nested && len(s.Commands) > 0 {
		return errorf(NestedCommands, s.Commands[0].Field, "Nested commands are not allowed")
	}
	if len(s.Parameters) > 0 && len(s.Commands) > 0 {
		return errorf(ParametersWithCommands, s.Parameters[0].Field, "Parameters not allowed to combine with commands")
	}
	if err := checkOptions(s.Options); err != nil {
		return err
	}
	if err := checkParameters(s.Parameters); err != nil {
		return err
	}

	commands := make(set.Set[string])
	for _, c := range s.Commands {
		if c.Name == "" {
			return errorf(MissingName, c.Field, "Command for property %q is missing its required name", c.Field)
		}
		for _, n := range []string{c.Name, c.LongName} {
			if n == "" {
				continue
			}
			k := strings.ToUpper(n)
			if commands.Contains(k) {
				return errorf(DuplicateCommandName, c.Field, "Command name %q has already been used", n)
			}
			commands.Add(k)
		}
	}
	return nil
}

func checkOptions(options []*Option) *Error {
	names := make(set.Set[string])
	for _, o := range options {
		if len(o.Names()) == 0 {
			return errorf(MissingName, o.Field, "Option for property %q is missing its required name", o.Field)
		}
		slots := []struct {
			name   string
			kind   ErrorKind
			format string
		}{
			{o.Name, DuplicateName, "Option name %q has already been used"},
			{o.AltName, DuplicateAltName, "Option alternative name %q has already been used"},
			{o.LongName, DuplicateLongName, "Option long name %q has already been used"},
		}
		for _, slot := range slots {
			if slot.name == "" {
				continue
			}
			k := strings.ToUpper(slot.name)
			if names.Contains(k) {
				return errorf(slot.kind, o.Field, slot.format, slot.name)
			}
			names.Add(k)
		}

		if o.Type == coerce.Invalid {
			return errorf(UnsupportedType, o.Field, "Option %q has an unsupported type %v", o.DisplayName(), o.GoType)
		}
		if o.Help && o.Type != coerce.Bool {
			return errorf(InvalidTag, o.Field, "Help option %q must be a boolean", o.DisplayName())
		}
		if o.HasDefault && o.Type != coerce.Custom {
			tgt := o.Target()
			tgt.Required = false
			if _, err := defaultsCoercer.Coerce(tgt, o.Default, true); err != nil {
				e := errorf(InvalidDefault, o.Field, "Default %q is invalid for option %q", o.Default, o.DisplayName())
				e.Err = err
				return e
			}
		}
	}
	return nil
}

func checkParameters(params []*Parameter) *Error {
	names := make(set.Set[string])
	ordinals := make(set.Set[int])
	for _, p := range params {
		if p.Name == "" {
			return errorf(MissingName, p.Field, "Parameter for property %q is missing its required name", p.Field)
		}
		k := strings.ToUpper(p.Name)
		if names.Contains(k) {
			return errorf(DuplicateParameterName, p.Field, "Parameter name %q has already been used", p.Name)
		}
		names.Add(k)
		if ordinals.Contains(p.Ordinal) {
			return errorf(DuplicateOrdinal, p.Field, "Parameter ordinal number %d has already been used", p.Ordinal)
		}
		ordinals.Add(p.Ordinal)
		if p.Type == coerce.Invalid {
			return errorf(UnsupportedType, p.Field, "Parameter %q has an unsupported type %v", p.Name, p.GoType)
		}
	}
	if len(params) == 0 {
		return nil
	}
	lo, hi := params[0].Ordinal, params[0].Ordinal
	for _, p := range params[1:] {
		lo, hi = min(lo, p.Ordinal), max(hi, p.Ordinal)
	}
	if lo != 1 || hi != len(params) {
		return errorf(OrdinalSequence, "", "Parameter ordinal numbers are not used in sequence")
	}
	return nil
}
