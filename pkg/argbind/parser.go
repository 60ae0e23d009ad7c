// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"reflect"
	"time"

	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/schema"
	"github.com/yeetrun/argbind/pkg/token"
)

// CommandAction is called with the selected command after a successful bind.
// name is the declared command name and command the value bound to it.
type CommandAction func(name string, command any)

// Executor is implemented by commands that run themselves once bound.
type Executor interface {
	Execute() error
}

// Parser binds arguments to configurations. Binding does not modify the
// Parser, so one Parser may be used from multiple goroutines as long as each
// call binds into its own configuration.
type Parser struct {
	tokOpts  token.Options
	tok      *token.Tokenizer
	culture  coerce.Culture
	loc      *time.Location
	registry *coerce.Registry
	coercer  *coerce.Coercer
	provider schema.Provider
	onHelp   func(command string)
}

// Option configures a Parser.
type Option func(*Parser)

// WithTokenOptions sets the punctuation used to tokenize arguments.
func WithTokenOptions(o token.Options) Option {
	return func(p *Parser) { p.tokOpts = o }
}

// WithCulture sets the culture used to parse numbers and dates.
func WithCulture(c coerce.Culture) Option {
	return func(p *Parser) { p.culture = c }
}

// WithLocation sets the time zone of dates given without one.
func WithLocation(loc *time.Location) Option {
	return func(p *Parser) { p.loc = loc }
}

// WithHelpHandler sets a function called when a help option is given. command
// is the selected command, or empty at the root.
func WithHelpHandler(f func(command string)) Option {
	return func(p *Parser) { p.onHelp = f }
}

// WithProvider sets how configurations are turned into schemas. The default
// reads struct tags.
func WithProvider(sp schema.Provider) Option {
	return func(p *Parser) { p.provider = sp }
}

// NewParser returns a Parser with the default punctuation, the process
// culture and the local time zone unless overridden by opts.
func NewParser(opts ...Option) *Parser {
	p := &Parser{
		tokOpts:  token.DefaultOptions(),
		culture:  coerce.Default(),
		loc:      time.Local,
		registry: coerce.NewRegistry(),
		provider: schema.DefaultReflect,
	}
	for _, o := range opts {
		o(p)
	}
	p.tok = token.New(p.tokOpts)
	p.coercer = coerce.New(p.culture, p.loc, p.registry)
	return p
}

// TokenOptions returns the punctuation p tokenizes with.
func (p *Parser) TokenOptions() token.Options {
	return p.tok.Options()
}

// Tokenize tokenizes args with the punctuation of p.
func (p *Parser) Tokenize(args []string) []token.Token {
	return p.tok.Tokenize(args)
}

// TokenizeLine tokenizes a single command line with the punctuation of p.
func (p *Parser) TokenizeLine(line string) []token.Token {
	return p.tok.TokenizeLine(line)
}

// RegisterType installs a handler for values of type t. valid may be nil.
func (p *Parser) RegisterType(t reflect.Type, get func(name, value string) (any, error), valid func(name, value string, required bool) bool) {
	p.registry.Register(t, coerce.Handler{Get: get, Valid: valid})
}

// RegisterType installs a typed handler for T on p. valid may be nil, in
// which case a value is valid when get accepts it.
func RegisterType[T any](p *Parser, get func(name, value string) (T, error), valid func(name, value string, required bool) bool) {
	p.RegisterType(reflect.TypeFor[T](), func(name, value string) (any, error) {
		return get(name, value)
	}, valid)
}

// Bind binds args to config, which is usually a pointer to a struct.
func (p *Parser) Bind(config any, args []string) (*ParseResult, error) {
	return p.BindTokens(config, p.tok.Tokenize(args), nil)
}

// BindLine splits line into arguments and binds them to config.
func (p *Parser) BindLine(config any, line string) (*ParseResult, error) {
	return p.BindTokens(config, p.tok.TokenizeLine(line), nil)
}

// BindCommand is like Bind and calls action with the selected command after
// a successful bind.
func (p *Parser) BindCommand(config any, args []string, action CommandAction) (*ParseResult, error) {
	return p.BindTokens(config, p.tok.Tokenize(args), action)
}

// BindTokens binds already tokenized input to config. The returned error is
// non-nil only when config is nil or its schema is invalid; problems with the
// input are reported in the ParseResult.
func (p *Parser) BindTokens(config any, toks []token.Token, action CommandAction) (*ParseResult, error) {
	if config == nil {
		return nil, ErrNilConfig
	}
	s, err := p.provider.Schema(config)
	if err != nil {
		return nil, err
	}
	return p.bind(s, toks, action), nil
}

// BindScope binds toks through the setters of s.
func (p *Parser) BindScope(s *schema.Scope, toks []token.Token, action CommandAction) (*ParseResult, error) {
	if s == nil {
		return nil, ErrNilConfig
	}
	if err := schema.Validate(s); err != nil {
		return nil, err
	}
	return p.bind(s, toks, action), nil
}

func (p *Parser) bind(s *schema.Scope, toks []token.Token, action CommandAction) *ParseResult {
	res := new(ParseResult)
	for _, t := range toks {
		if t.Failed() {
			res.add(ParseError{
				Kind:     InvalidCommandArgsFormat,
				Item:     t.Name,
				Value:    t.Value,
				HasValue: t.HasValue,
				Message:  t.Message,
				Err:      t.Failure(),
			})
		}
	}
	if res.Failed() {
		return res
	}

	b := newBinding(p.coercer, s)
	b.guard(func() { b.run(toks) })
	if !b.aborted {
		b.guard(b.applyDefaults)
		if b.help == nil {
			b.checkRequired()
		}
	}
	res.add(b.warnings...)
	res.add(b.errs...)
	res.Command = b.commandName()
	res.Help = b.help

	if b.help != nil && p.onHelp != nil {
		p.onHelp(b.help.Command)
	}
	if res.Failed() || b.help != nil || b.command == nil {
		return res
	}
	if action != nil {
		action(b.command.Name, b.target)
	}
	if ex, ok := b.target.(Executor); ok {
		if err := ex.Execute(); err != nil {
			res.add(ParseError{
				Kind:    UnknownError,
				Item:    b.command.Name,
				Message: err.Error(),
				Err:     fmt.Errorf("command %q failed: %w", b.command.Name, err),
			})
		}
	}
	return res
}

var defaultParser = NewParser()

// Bind binds args to config with the default parser.
func Bind(config any, args []string) (*ParseResult, error) {
	return defaultParser.Bind(config, args)
}

// BindLine binds a single command line to config with the default parser.
func BindLine(config any, line string) (*ParseResult, error) {
	return defaultParser.BindLine(config, line)
}

// MustBind is like Bind but panics if config is nil or its schema is
// invalid.
func MustBind(config any, args []string) *ParseResult {
	res, err := Bind(config, args)
	if err != nil {
		panic(err)
	}
	return res
}
