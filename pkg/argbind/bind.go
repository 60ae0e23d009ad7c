// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/schema"
	"github.com/yeetrun/argbind/pkg/token"
	"tailscale.com/util/set"
)

const notAvailable = "n/a"

// binding is the state of one bind call.
type binding struct {
	coercer *coerce.Coercer

	root    *schema.Scope
	scope   *schema.Scope
	command *schema.Command
	target  any

	ordinal   int
	sawOption bool
	assigned  set.Set[*schema.Option]
	help      *HelpRequest
	aborted   bool

	warnings []ParseError
	errs     []ParseError
}

func newBinding(c *coerce.Coercer, root *schema.Scope) *binding {
	return &binding{
		coercer:  c,
		root:     root,
		scope:    root,
		ordinal:  1,
		assigned: make(set.Set[*schema.Option]),
	}
}

func (b *binding) fail(kind ErrorKind, tok token.Token, item, msg string, err error) {
	b.errs = append(b.errs, ParseError{
		Kind:     kind,
		Item:     item,
		Value:    tok.Value,
		HasValue: tok.HasValue,
		Message:  msg,
		Err:      err,
	})
}

// guard runs f, recording a panic as an UnknownError that stops the bind.
func (b *binding) guard(f func()) {
	defer func() {
		if r := recover(); r != nil {
			b.errs = append(b.errs, ParseError{
				Kind:    UnknownError,
				Item:    notAvailable,
				Message: fmt.Sprint(r),
				Err:     fmt.Errorf("panic during binding: %v", r),
			})
			b.aborted = true
		}
	}()
	f()
}

// run walks toks left to right.
func (b *binding) run(toks []token.Token) {
	for i := 0; i < len(toks) && !b.aborted; i++ {
		tok := toks[i]
		if strings.TrimSpace(tok.Name) == "" {
			b.fail(InvalidCommandArgsFormat, tok, tok.Name, "Required name is missing", nil)
			continue
		}

		if tok.Kind == token.Parameter && b.command == nil && len(b.scope.Commands) > 0 {
			b.selectCommand(tok)
			continue
		}

		if tok.Kind.IsOption() {
			if opt := b.lookupOption(tok.Name); opt != nil {
				var next *token.Token
				if i+1 < len(toks) {
					next = &toks[i+1]
				}
				if b.bindOption(opt, tok, next) {
					i++
				}
				continue
			}
		}

		b.bindParameter(tok)
	}
}

// selectCommand switches to the scope of the command named by tok. An
// unknown command stops the walk.
func (b *binding) selectCommand(tok token.Token) {
	c := b.scope.Command(tok.Name)
	if c == nil {
		b.fail(InvalidCommandArgsFormat, tok, tok.Name, fmt.Sprintf(`Command "%s" does not exist`, tok.Name), nil)
		b.aborted = true
		return
	}
	nested, target, err := c.Select()
	if err != nil {
		b.fail(UnknownError, tok, c.Name, err.Error(), err)
		b.aborted = true
		return
	}
	b.command, b.target, b.scope = c, target, nested
	b.ordinal = 1
	b.sawOption = false
}

// lookupOption resolves name in the active scope and then, inside a command,
// in the root scope.
func (b *binding) lookupOption(name string) *schema.Option {
	if o := b.scope.Option(name); o != nil {
		return o
	}
	if b.command != nil {
		return b.root.Option(name)
	}
	return nil
}

// bindOption assigns tok to opt, taking the value from next when tok has
// none. It reports whether next was consumed.
func (b *binding) bindOption(opt *schema.Option, tok token.Token, next *token.Token) (consumed bool) {
	b.sawOption = true
	value, hasValue := tok.Value, tok.HasValue
	tgt := opt.Target()
	tgt.Quoted = tok.Quoted
	if !hasValue && next != nil {
		text := next.Text()
		if opt.Type != coerce.Bool || coerce.IsBoolLiteral(text) {
			value, hasValue, consumed = text, true, true
			tok = tok.WithValue(text)
			tgt.Quoted = next.Kind == token.Parameter && next.Quoted
		}
	}
	if !hasValue && opt.Type != coerce.Bool {
		tok = tok.WithValue("")
	}

	v, err := b.coercer.Coerce(tgt, value, hasValue)
	if err != nil {
		b.fail(InvalidOptionValue, tok, tok.Name, fmt.Sprintf(`Value "%s" is invalid for option "%s"`, value, tok.Name), err)
		return consumed
	}
	if err := opt.Set(v); err != nil {
		b.fail(UnknownError, tok, tok.Name, err.Error(), err)
		return consumed
	}
	b.assigned.Add(opt)
	if opt.Help && v == true {
		b.help = &HelpRequest{Command: b.commandName()}
	}
	return consumed
}

// bindParameter assigns tok to the parameter at the current ordinal.
func (b *binding) bindParameter(tok token.Token) {
	text := tok.Text()
	param := b.scope.Parameter(b.ordinal)
	if param == nil {
		b.fail(InvalidCommandArgsFormat, tok, text, "Argument does not match any option or parameter", nil)
		return
	}
	if b.sawOption {
		b.warnings = append(b.warnings, ParseError{
			Kind:     InvalidCommandArgsFormat,
			Item:     text,
			Value:    text,
			HasValue: true,
			Message:  "Parameters must precede any options",
		})
	}
	tgt := param.Target()
	tgt.Quoted = tok.Quoted
	v, err := b.coercer.Coerce(tgt, text, true)
	if err != nil {
		b.errs = append(b.errs, ParseError{
			Kind:     InvalidParameterValue,
			Item:     param.Name,
			Value:    text,
			HasValue: true,
			Message:  fmt.Sprintf(`Value "%s" is invalid for parameter "%s"`, text, param.Name),
			Err:      err,
		})
		return
	}
	if err := param.Set(v); err != nil {
		b.fail(UnknownError, tok, param.Name, err.Error(), err)
		return
	}
	b.ordinal++
}

func (b *binding) commandName() string {
	if b.command == nil {
		return ""
	}
	return b.command.Name
}

// scopes returns the root scope followed by the selected command's scope.
func (b *binding) scopes() []*schema.Scope {
	if b.command == nil {
		return []*schema.Scope{b.root}
	}
	return []*schema.Scope{b.root, b.scope}
}

// applyDefaults sets options that received no value to their default.
func (b *binding) applyDefaults() {
	for _, s := range b.scopes() {
		for _, opt := range s.Options {
			if !opt.HasDefault || b.assigned.Contains(opt) {
				continue
			}
			v, err := b.coercer.Coerce(opt.Target(), opt.Default, true)
			if err != nil {
				b.errs = append(b.errs, ParseError{
					Kind:     InvalidOptionValue,
					Item:     opt.DisplayName(),
					Value:    opt.Default,
					HasValue: true,
					Message:  fmt.Sprintf(`Default value "%s" is invalid for option "%s"`, opt.Default, opt.DisplayName()),
					Err:      err,
				})
				continue
			}
			if err := opt.Set(v); err != nil {
				b.errs = append(b.errs, ParseError{Kind: UnknownError, Item: opt.DisplayName(), Message: err.Error(), Err: err})
				continue
			}
			b.assigned.Add(opt)
		}
	}
}

// checkRequired reports every required option without a value, in
// declaration order.
func (b *binding) checkRequired() {
	for _, s := range b.scopes() {
		for _, opt := range s.Options {
			if !opt.Required || b.assigned.Contains(opt) {
				continue
			}
			name := opt.DisplayName()
			b.errs = append(b.errs, ParseError{
				Kind:    RequiredOptionValue,
				Item:    name,
				Message: fmt.Sprintf(`Option "%s" is missing a required value`, name),
			})
		}
	}
}
