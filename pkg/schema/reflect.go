// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
	"reflect"
	"strconv"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
	"tailscale.com/syncs"
)

// Reflect is a Provider that reads struct tags. Layouts are computed and
// validated once per struct type. The zero value is ready to use.
type Reflect struct {
	layouts syncs.Map[reflect.Type, *layout]
}

// DefaultReflect is the Reflect provider used when none is configured.
var DefaultReflect = new(Reflect)

// Schema implements Provider. config must be a non-nil pointer to a struct.
func (r *Reflect) Schema(config any) (*Scope, error) {
	rv := reflect.ValueOf(config)
	if !rv.IsValid() || rv.Kind() != reflect.Pointer || rv.IsNil() || rv.Elem().Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %T", ErrNotStruct, config)
	}
	l := r.layoutOf(rv.Elem().Type())
	if l.err != nil {
		return nil, l.err
	}
	return l.bind(rv.Elem()), nil
}

// Describe returns the unbound scope of a struct type, for usage text.
func (r *Reflect) Describe(t reflect.Type) (*Scope, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("%w: got %v", ErrNotStruct, t)
	}
	l := r.layoutOf(t)
	if l.err != nil {
		return nil, l.err
	}
	return l.scope, nil
}

func (r *Reflect) layoutOf(t reflect.Type) *layout {
	l, _ := r.layouts.LoadOrInit(t, func() *layout {
		l := buildLayout(t, true)
		if l.err == nil {
			l.err = validateScope(l.scope, "", false)
		}
		return l
	})
	return l
}

// layout is the cached, unbound schema of a struct type along with the field
// indexes needed to bind it to a value.
type layout struct {
	scope    *Scope
	options  [][]int
	params   [][]int
	commands []commandField
	err      *Error
}

type commandField struct {
	index  []int
	layout *layout
}

// buildLayout reads the tags of t. Nested command layouts are only built when
// allowCommands is true; deeper commands are kept as descriptors so that
// validation can reject them.
func buildLayout(t reflect.Type, allowCommands bool) *layout {
	l := &layout{scope: new(Scope)}
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		var err *Error
		switch {
		case hasTag(f, "cmd"):
			err = l.addCommand(f, allowCommands)
		case hasTag(f, "pos"):
			err = l.addParameter(f)
		case hasTag(f, "flag") || hasTag(f, "alt") || hasTag(f, "long"):
			err = l.addOption(f)
		}
		if err != nil {
			l.err = err
			return l
		}
	}
	return l
}

func hasTag(f reflect.StructField, key string) bool {
	_, ok := f.Tag.Lookup(key)
	return ok
}

func boolTag(f reflect.StructField, key string) (bool, *Error) {
	v, ok := f.Tag.Lookup(key)
	if !ok {
		return false, nil
	}
	if v == "" {
		return true, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, &Error{Kind: InvalidTag, Field: f.Name, Msg: fmt.Sprintf("tag %s:%q is not a boolean", key, v), Err: err}
	}
	return b, nil
}

// fieldType returns the coercion type of f, honoring a type tag override.
func fieldType(f reflect.StructField) (coerce.Type, *Error) {
	name, ok := f.Tag.Lookup("type")
	if !ok {
		t, _ := coerce.TypeOf(f.Type)
		return t, nil
	}
	t, ok := coerce.ParseType(name)
	if !ok {
		return coerce.Invalid, errorf(InvalidTag, f.Name, "unknown type %q", name)
	}
	dst := f.Type
	for dst.Kind() == reflect.Pointer {
		dst = dst.Elem()
	}
	src := coerce.GoType(t)
	for src.Kind() == reflect.Pointer {
		src = src.Elem()
	}
	if !src.AssignableTo(dst) && !(sameFamily(src.Kind(), dst.Kind()) && src.ConvertibleTo(dst)) {
		return coerce.Invalid, errorf(InvalidTag, f.Name, "type %q cannot be stored in %v", name, f.Type)
	}
	return t, nil
}

func (l *layout) addOption(f reflect.StructField) *Error {
	typ, err := fieldType(f)
	if err != nil {
		return err
	}
	required, err := boolTag(f, "required")
	if err != nil {
		return err
	}
	help, err := boolTag(f, "helpflag")
	if err != nil {
		return err
	}
	def, hasDef := f.Tag.Lookup("default")
	l.scope.Options = append(l.scope.Options, &Option{
		Field:       f.Name,
		Name:        f.Tag.Get("flag"),
		AltName:     f.Tag.Get("alt"),
		LongName:    f.Tag.Get("long"),
		Description: f.Tag.Get("help"),
		UsageType:   f.Tag.Get("usage"),
		Required:    required,
		Help:        help,
		Type:        typ,
		GoType:      f.Type,
		Default:     def,
		HasDefault:  hasDef,
	})
	l.options = append(l.options, f.Index)
	return nil
}

func (l *layout) addParameter(f reflect.StructField) *Error {
	pos := f.Tag.Get("pos")
	ordinal, err := strconv.Atoi(pos)
	if err != nil {
		return &Error{Kind: InvalidTag, Field: f.Name, Msg: fmt.Sprintf("tag pos:%q is not a number", pos), Err: err}
	}
	typ, terr := fieldType(f)
	if terr != nil {
		return terr
	}
	name := f.Tag.Get("name")
	if name == "" {
		name = strings.ToLower(f.Name)
	}
	l.scope.Parameters = append(l.scope.Parameters, &Parameter{
		Field:       f.Name,
		Ordinal:     ordinal,
		Name:        name,
		Description: f.Tag.Get("help"),
		Type:        typ,
		GoType:      f.Type,
	})
	l.params = append(l.params, f.Index)
	return nil
}

func (l *layout) addCommand(f reflect.StructField, allowCommands bool) *Error {
	st := f.Type
	if st.Kind() == reflect.Pointer {
		st = st.Elem()
	}
	if st.Kind() != reflect.Struct {
		return errorf(UnsupportedType, f.Name, "Command %q must be a struct or pointer to struct, not %v", f.Tag.Get("cmd"), f.Type)
	}
	c := &Command{
		Field:       f.Name,
		Name:        f.Tag.Get("cmd"),
		LongName:    f.Tag.Get("long"),
		Description: f.Tag.Get("help"),
	}
	cf := commandField{index: f.Index}
	if allowCommands {
		cf.layout = buildLayout(st, false)
		if err := cf.layout.err; err != nil {
			err.Command = c.Name
			return err
		}
		c.Nested = cf.layout.scope
	}
	l.scope.Commands = append(l.scope.Commands, c)
	l.commands = append(l.commands, cf)
	return nil
}

// bind returns a copy of the layout's scope whose setters write into v, an
// addressable struct value.
func (l *layout) bind(v reflect.Value) *Scope {
	s := &Scope{
		Options:    make([]*Option, len(l.scope.Options)),
		Parameters: make([]*Parameter, len(l.scope.Parameters)),
		Commands:   make([]*Command, len(l.scope.Commands)),
	}
	for i, o := range l.scope.Options {
		bo := *o
		bo.Set = setter(v, l.options[i])
		s.Options[i] = &bo
	}
	for i, p := range l.scope.Parameters {
		bp := *p
		bp.Set = setter(v, l.params[i])
		s.Parameters[i] = &bp
	}
	for i, c := range l.scope.Commands {
		bc := *c
		cf := l.commands[i]
		bc.Select = func() (*Scope, any, error) {
			if cf.layout == nil {
				return nil, nil, errorf(NestedCommands, bc.Field, "Nested commands are not allowed")
			}
			fv := v.FieldByIndex(cf.index)
			if fv.Kind() == reflect.Pointer {
				if fv.IsNil() {
					fv.Set(reflect.New(fv.Type().Elem()))
				}
				return cf.layout.bind(fv.Elem()), fv.Interface(), nil
			}
			return cf.layout.bind(fv), fv.Addr().Interface(), nil
		}
		s.Commands[i] = &bc
	}
	return s
}

func setter(v reflect.Value, index []int) func(any) error {
	return func(x any) error {
		return assign(v.FieldByIndex(index), x)
	}
}

var errNilValue = errors.New("cannot assign nil")

// assign stores x in dst, allocating pointers and converting between types of
// the same family (e.g. int64 into int, FileName into string).
func assign(dst reflect.Value, x any) error {
	if x == nil {
		return errNilValue
	}
	src := reflect.ValueOf(x)
	st, dt := src.Type(), dst.Type()
	switch {
	case st.AssignableTo(dt):
		dst.Set(src)
		return nil
	case dt.Kind() == reflect.Pointer:
		if dst.IsNil() {
			dst.Set(reflect.New(dt.Elem()))
		}
		return assign(dst.Elem(), x)
	case st.Kind() == reflect.Pointer && !src.IsNil() && st.Elem().AssignableTo(dt):
		dst.Set(src.Elem())
		return nil
	case sameFamily(st.Kind(), dt.Kind()) && st.ConvertibleTo(dt):
		dst.Set(src.Convert(dt))
		return nil
	}
	return fmt.Errorf("cannot assign %v to %v", st, dt)
}

func sameFamily(a, b reflect.Kind) bool {
	return family(a) != 0 && family(a) == family(b)
}

func family(k reflect.Kind) int {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return 1
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return 2
	case reflect.Float32, reflect.Float64:
		return 3
	case reflect.String:
		return 4
	case reflect.Bool:
		return 5
	}
	return 0
}
