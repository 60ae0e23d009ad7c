// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"bytes"
	"encoding"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"unicode/utf8"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/token"
	"gopkg.in/yaml.v3"
	"tailscale.com/types/lazy"
	"tailscale.com/util/mak"
	"tailscale.com/util/set"
)

// ErrNotValues is returned when a Document is asked to bind into anything
// other than *Values.
var ErrNotValues = errors.New("document schemas bind into *schema.Values")

// Format is the encoding of a schema document.
type Format string

const (
	FormatTOML Format = "toml"
	FormatYAML Format = "yaml"
)

// FormatOf picks the document format from the file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", fmt.Errorf("unknown schema format for %s (want .toml, .yaml or .yml)", path)
}

// Document is a schema declared in a TOML or YAML file. It is a Provider
// that binds into *Values.
type Document struct {
	Name        string          `toml:"name,omitempty" yaml:"name,omitempty"`
	Description string          `toml:"description,omitempty" yaml:"description,omitempty"`
	Culture     string          `toml:"culture,omitempty" yaml:"culture,omitempty"`
	Punctuation *Punctuation    `toml:"punctuation,omitempty" yaml:"punctuation,omitempty"`
	Options     []OptionSpec    `toml:"option,omitempty" yaml:"options,omitempty"`
	Parameters  []ParameterSpec `toml:"parameter,omitempty" yaml:"parameters,omitempty"`
	Commands    []CommandSpec   `toml:"command,omitempty" yaml:"commands,omitempty"`

	// Resolver maps custom type names to Go types. Values of custom types
	// are coerced by the handler registered for the resolved type.
	Resolver TypeResolver `toml:"-" yaml:"-"`

	scope lazy.SyncValue[*Scope]
}

// OptionSpec declares an option. At least one of Name, Alt and Long must be
// set; Type defaults to string.
type OptionSpec struct {
	// Key names the value in Values.Fields. It defaults to the long name,
	// then the name, then the alternative name.
	Key      string  `toml:"key,omitempty" yaml:"key,omitempty"`
	Name     string  `toml:"name,omitempty" yaml:"name,omitempty"`
	Alt      string  `toml:"alt,omitempty" yaml:"alt,omitempty"`
	Long     string  `toml:"long,omitempty" yaml:"long,omitempty"`
	Type     string  `toml:"type,omitempty" yaml:"type,omitempty"`
	Help     string  `toml:"help,omitempty" yaml:"help,omitempty"`
	Usage    string  `toml:"usage,omitempty" yaml:"usage,omitempty"`
	Required bool    `toml:"required,omitempty" yaml:"required,omitempty"`
	HelpFlag bool    `toml:"helpflag,omitempty" yaml:"helpflag,omitempty"`
	Default  *string `toml:"default,omitempty" yaml:"default,omitempty"`
}

// ParameterSpec declares the positional parameter at Ordinal, counted from 1.
// Name is also its key in Values.Fields.
type ParameterSpec struct {
	Ordinal int    `toml:"ordinal" yaml:"ordinal"`
	Name    string `toml:"name" yaml:"name"`
	Type    string `toml:"type,omitempty" yaml:"type,omitempty"`
	Help    string `toml:"help,omitempty" yaml:"help,omitempty"`
}

// CommandSpec declares a command and its own options and parameters. Only
// root commands may be declared; nested Commands are rejected.
type CommandSpec struct {
	Name       string          `toml:"name" yaml:"name"`
	Long       string          `toml:"long,omitempty" yaml:"long,omitempty"`
	Help       string          `toml:"help,omitempty" yaml:"help,omitempty"`
	Options    []OptionSpec    `toml:"option,omitempty" yaml:"options,omitempty"`
	Parameters []ParameterSpec `toml:"parameter,omitempty" yaml:"parameters,omitempty"`
	Commands   []CommandSpec   `toml:"command,omitempty" yaml:"commands,omitempty"`
}

// Punctuation overrides the tokenizer punctuation. Separators and
// Whitespace list one rune per character.
type Punctuation struct {
	Indicators     []string `toml:"indicators,omitempty" yaml:"indicators,omitempty"`
	LongIndicator  string   `toml:"long_indicator,omitempty" yaml:"long_indicator,omitempty"`
	Separators     string   `toml:"separators,omitempty" yaml:"separators,omitempty"`
	Quote          string   `toml:"quote,omitempty" yaml:"quote,omitempty"`
	Whitespace     string   `toml:"whitespace,omitempty" yaml:"whitespace,omitempty"`
	ExtraSeparator string   `toml:"extra_separator,omitempty" yaml:"extra_separator,omitempty"`
}

// TokenOptions returns the tokenizer options described by p. Unset fields
// keep their defaults.
func (p *Punctuation) TokenOptions() (token.Options, error) {
	opts := token.DefaultOptions()
	if p == nil {
		return opts, nil
	}
	if len(p.Indicators) > 0 {
		opts.Indicators = p.Indicators
	}
	if p.LongIndicator != "" {
		opts.LongIndicator = p.LongIndicator
	}
	if p.Separators != "" {
		opts.Separators = []rune(p.Separators)
	}
	if p.Whitespace != "" {
		opts.Whitespace = []rune(p.Whitespace)
	}
	if p.Quote != "" {
		r, err := singleRune("quote", p.Quote)
		if err != nil {
			return opts, err
		}
		opts.Quote = r
	}
	if p.ExtraSeparator != "" {
		r, err := singleRune("extra_separator", p.ExtraSeparator)
		if err != nil {
			return opts, err
		}
		opts.ExtraSeparator = r
	}
	return opts, nil
}

func singleRune(key, s string) (rune, error) {
	if utf8.RuneCountInString(s) != 1 {
		return 0, fmt.Errorf("punctuation %s must be a single character, got %q", key, s)
	}
	r, _ := utf8.DecodeRuneInString(s)
	return r, nil
}

// TypeResolver maps custom type names used in documents to Go types.
type TypeResolver interface {
	ResolveType(name string) (reflect.Type, bool)
}

// TypeResolverFunc adapts a function to a TypeResolver.
type TypeResolverFunc func(name string) (reflect.Type, bool)

func (f TypeResolverFunc) ResolveType(name string) (reflect.Type, bool) {
	return f(name)
}

// LoadDocument reads and validates a schema document. The format follows
// the file extension.
func LoadDocument(path string, resolver TypeResolver) (*Document, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	doc, err := DecodeDocument(data, format, resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return doc, nil
}

// DecodeDocument decodes and validates a schema document. Unknown keys are
// rejected.
func DecodeDocument(data []byte, format Format, resolver TypeResolver) (*Document, error) {
	doc := &Document{Resolver: resolver}
	switch format {
	case FormatTOML:
		md, err := toml.Decode(string(data), doc)
		if err != nil {
			return nil, err
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			return nil, fmt.Errorf("unknown keys: %v", undecoded)
		}
	case FormatYAML:
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)
		if err := dec.Decode(doc); err != nil && !errors.Is(err, io.EOF) {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unknown schema format %q", format)
	}
	if _, err := doc.Scope(); err != nil {
		return nil, err
	}
	return doc, nil
}

// Scope returns the unbound, validated scope of the document. It is built on
// first use; later changes to d are not seen. The returned scope is shared and
// must not be modified.
func (d *Document) Scope() (*Scope, error) {
	return d.scope.GetErr(func() (*Scope, error) {
		s, err := d.build(d.Options, d.Parameters, d.Commands, true)
		if err != nil {
			return nil, err
		}
		if err := validateScope(s, "", false); err != nil {
			return nil, err
		}
		if err := checkKeys(s, ""); err != nil {
			return nil, err
		}
		return s, nil
	})
}

// checkKeys reports two options or parameters of one scope that would store
// their values under the same key.
func checkKeys(s *Scope, command string) error {
	keys := make(set.Set[string])
	add := func(key string) error {
		if keys.Contains(key) {
			return &Error{Kind: DuplicateKey, Command: command, Field: key, Msg: fmt.Sprintf("key %q is used by more than one option or parameter", key)}
		}
		keys.Add(key)
		return nil
	}
	for _, o := range s.Options {
		if err := add(o.Field); err != nil {
			return err
		}
	}
	for _, p := range s.Parameters {
		if err := add(p.Field); err != nil {
			return err
		}
	}
	for _, c := range s.Commands {
		if c.Nested == nil {
			continue
		}
		if err := checkKeys(c.Nested, c.Name); err != nil {
			return err
		}
	}
	return nil
}

// Schema implements Provider. config must be a non-nil *Values.
func (d *Document) Schema(config any) (*Scope, error) {
	vals, ok := config.(*Values)
	if !ok || vals == nil {
		return nil, fmt.Errorf("%w: got %T", ErrNotValues, config)
	}
	s, err := d.Scope()
	if err != nil {
		return nil, err
	}
	return bindValues(s, vals), nil
}

func (d *Document) build(opts []OptionSpec, params []ParameterSpec, cmds []CommandSpec, allowCommands bool) (*Scope, error) {
	s := new(Scope)
	for i, o := range opts {
		field := o.Key
		if field == "" {
			field = firstNonEmpty(o.Long, o.Name, o.Alt)
		}
		if field == "" {
			field = fmt.Sprintf("option[%d]", i)
		}
		typ, goType, err := d.resolve(o.Type)
		if err != nil {
			return nil, errorf(UnsupportedType, field, "%v", err)
		}
		opt := &Option{
			Field:       field,
			Name:        o.Name,
			AltName:     o.Alt,
			LongName:    o.Long,
			Description: o.Help,
			UsageType:   o.Usage,
			Required:    o.Required,
			Help:        o.HelpFlag,
			Type:        typ,
			GoType:      goType,
		}
		if o.Default != nil {
			opt.Default, opt.HasDefault = *o.Default, true
		}
		s.Options = append(s.Options, opt)
	}
	for _, p := range params {
		typ, goType, err := d.resolve(p.Type)
		if err != nil {
			return nil, errorf(UnsupportedType, p.Name, "%v", err)
		}
		s.Parameters = append(s.Parameters, &Parameter{
			Field:       p.Name,
			Ordinal:     p.Ordinal,
			Name:        p.Name,
			Description: p.Help,
			Type:        typ,
			GoType:      goType,
		})
	}
	for _, c := range cmds {
		cmd := &Command{
			Field:       c.Name,
			Name:        c.Name,
			LongName:    c.Long,
			Description: c.Help,
		}
		if allowCommands {
			nested, err := d.build(c.Options, c.Parameters, c.Commands, false)
			if err != nil {
				var se *Error
				if errors.As(err, &se) {
					se.Command = c.Name
				}
				return nil, err
			}
			cmd.Nested = nested
		}
		s.Commands = append(s.Commands, cmd)
	}
	return s, nil
}

func (d *Document) resolve(name string) (coerce.Type, reflect.Type, error) {
	if name == "" {
		return coerce.String, coerce.GoType(coerce.String), nil
	}
	if t, ok := coerce.ParseType(name); ok {
		return t, coerce.GoType(t), nil
	}
	if d.Resolver != nil {
		if gt, ok := d.Resolver.ResolveType(name); ok {
			return coerce.Custom, gt, nil
		}
	}
	return coerce.Invalid, nil, fmt.Errorf("unknown type %q", name)
}

func firstNonEmpty(ss ...string) string {
	for _, s := range ss {
		if s != "" {
			return s
		}
	}
	return ""
}

// Values receives the values bound through a Document.
type Values struct {
	Fields map[string]any
	// Command is the name of the selected command and Sub its values.
	Command string
	Sub     *Values

	types map[string]coerce.Type
}

// Get returns the value stored under key.
func (v *Values) Get(key string) (any, bool) {
	if v == nil {
		return nil, false
	}
	x, ok := v.Fields[key]
	return x, ok
}

// Map returns the values in a form that encodes cleanly as TOML or YAML:
// characters, paths, URIs and custom values become strings, and the selected
// command is nested under its name.
func (v *Values) Map() map[string]any {
	m := make(map[string]any, len(v.Fields)+2)
	for k, x := range v.Fields {
		m[k] = plain(v.types[k], x)
	}
	if v.Command != "" {
		m["command"] = v.Command
		if v.Sub != nil {
			m[v.Command] = v.Sub.Map()
		}
	}
	return m
}

func plain(t coerce.Type, x any) any {
	switch t {
	case coerce.Char:
		if r, ok := x.(rune); ok {
			return string(r)
		}
	case coerce.DateTime:
		return x
	}
	switch x := x.(type) {
	case fmt.Stringer:
		return x.String()
	case encoding.TextMarshaler:
		if b, err := x.MarshalText(); err == nil {
			return string(b)
		}
	case coerce.FileName:
		return string(x)
	case coerce.DirName:
		return string(x)
	}
	return x
}

func bindValues(s *Scope, vals *Values) *Scope {
	b := &Scope{
		Options:    make([]*Option, len(s.Options)),
		Parameters: make([]*Parameter, len(s.Parameters)),
		Commands:   make([]*Command, len(s.Commands)),
	}
	for i, o := range s.Options {
		bo := *o
		key, typ := o.Field, o.Type
		bo.Set = func(x any) error {
			mak.Set(&vals.Fields, key, x)
			mak.Set(&vals.types, key, typ)
			return nil
		}
		b.Options[i] = &bo
	}
	for i, p := range s.Parameters {
		bp := *p
		key, typ := p.Name, p.Type
		bp.Set = func(x any) error {
			mak.Set(&vals.Fields, key, x)
			mak.Set(&vals.types, key, typ)
			return nil
		}
		b.Parameters[i] = &bp
	}
	for i, c := range s.Commands {
		bc := *c
		nested, name := c.Nested, c.Name
		bc.Select = func() (*Scope, any, error) {
			sub := new(Values)
			vals.Command, vals.Sub = name, sub
			return bindValues(nested, sub), sub, nil
		}
		b.Commands[i] = &bc
	}
	return b
}
