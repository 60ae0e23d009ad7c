// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// State is a tokenizer scan state.
type State int

const (
	ScanName State = iota
	ScanBeginValue
	ScanValue
	ScanQuotedName
	ScanQuotedValue
)

func (s State) String() string {
	switch s {
	case ScanName:
		return "ScanName"
	case ScanBeginValue:
		return "ScanBeginValue"
	case ScanValue:
		return "ScanValue"
	case ScanQuotedName:
		return "ScanQuotedName"
	case ScanQuotedValue:
		return "ScanQuotedValue"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Tokenizer converts raw arguments into tokens. It holds only its
// punctuation and may be shared between goroutines.
type Tokenizer struct {
	opts       Options
	indicators []string
}

// New returns a Tokenizer for opts. Zero fields in opts take their defaults.
func New(opts Options) *Tokenizer {
	opts = opts.withDefaults()
	return &Tokenizer{opts: opts, indicators: sortedIndicators(opts)}
}

var defaultTokenizer = New(DefaultOptions())

// Tokenize tokenizes args with the default punctuation.
func Tokenize(args []string) []Token {
	return defaultTokenizer.Tokenize(args)
}

// TokenizeLine splits line and tokenizes it with the default punctuation.
func TokenizeLine(line string) []Token {
	return defaultTokenizer.TokenizeLine(line)
}

// Options returns the punctuation used by t.
func (t *Tokenizer) Options() Options {
	return t.opts
}

// Tokenize scans args in order. A value may span several raw arguments
// (`/name`, `:`, `value`, or a quoted text split by the shell); every other
// token is confined to one raw argument. Malformed arguments produce failed
// tokens and scanning continues with the next argument.
func (t *Tokenizer) Tokenize(args []string) []Token {
	s := &scanner{t: t}
	for _, arg := range args {
		s.scan(arg)
	}
	s.finish()
	return s.tokens
}

// TokenizeLine splits line with SplitCommandLine and tokenizes the result.
func (t *Tokenizer) TokenizeLine(line string) []Token {
	return t.Tokenize(SplitCommandLine(line, t.opts))
}

type scanner struct {
	t      *Tokenizer
	state  State
	tokens []Token

	cur     Token
	started bool
	buf     strings.Builder
	raw     strings.Builder

	// closed is set once a quotation closed inside the current argument.
	// Only whitespace may follow it.
	closed bool
}

func (s *scanner) scan(arg string) {
	runes := []rune(arg)
	i := 0
	defer func() {
		if r := recover(); r != nil {
			s.fail(Unknown, fmt.Sprintf("unexpected failure: %v", r), "")
		}
	}()

	opts := &s.t.opts
	if s.state == ScanQuotedName || s.state == ScanQuotedValue {
		s.buf.WriteByte(' ')
		s.raw.WriteByte(' ')
	}

	for i < len(runes) {
		c := runes[i]
		if s.closed {
			if opts.isWhitespace(c) {
				i++
				continue
			}
			kind := InvalidCharacterInValue
			if s.state == ScanQuotedName {
				kind = InvalidCharacterInName
			}
			s.fail(kind, fmt.Sprintf("unexpected character %q after quotation", c), string(runes[i:]))
			return
		}

		switch s.state {
		case ScanName:
			if !s.started {
				if opts.isWhitespace(c) {
					i++
					continue
				}
				s.started = true
				if c == opts.Quote {
					s.cur.Kind = Parameter
					s.cur.Quoted = true
					s.raw.WriteRune(c)
					s.state = ScanQuotedName
					i++
					continue
				}
				if ind := s.indicator(runes[i:]); ind != "" {
					s.cur.Kind = Option
					if ind == opts.LongIndicator {
						s.cur.Kind = LongOption
					}
					s.raw.WriteString(ind)
					i += utf8.RuneCountInString(ind)
					continue
				}
				s.cur.Kind = Parameter
			}
			if s.cur.Kind.IsOption() && (opts.isSeparator(c) || opts.isWhitespace(c)) {
				if s.buf.Len() == 0 {
					s.fail(InvalidCharacterInName, "option name is empty", string(runes[i:]))
					return
				}
				s.cur.Name = s.buf.String()
				s.buf.Reset()
				s.state = ScanBeginValue
				// c is handled again as the first character after the name.
				continue
			}
			if c == opts.Quote {
				if s.cur.Kind.IsOption() {
					s.fail(InvalidCharacterInName, "unexpected quotation in name", string(runes[i:]))
					return
				}
				// The quoted text continues the parameter: name="a b" is `name=a b`.
				s.cur.Quoted = true
				s.raw.WriteRune(c)
				s.state = ScanQuotedName
				i++
				continue
			}
			s.buf.WriteRune(c)
			s.raw.WriteRune(c)
			i++

		case ScanBeginValue:
			switch {
			case opts.isWhitespace(c):
				i++
			case opts.isSeparator(c):
				s.cur.HasValue = true
				s.raw.WriteRune(c)
				s.state = ScanValue
				i++
			default:
				// Not a value for the pending option; c starts a new token.
				s.emit()
			}

		case ScanValue:
			switch {
			case c == opts.Quote:
				if s.buf.Len() > 0 {
					s.fail(InvalidCharacterInName, "unexpected quotation in value", string(runes[i:]))
					return
				}
				s.cur.Quoted = true
				s.raw.WriteRune(c)
				s.state = ScanQuotedValue
			case s.buf.Len() == 0 && opts.isWhitespace(c):
			default:
				s.buf.WriteRune(c)
				s.raw.WriteRune(c)
			}
			i++

		case ScanQuotedName, ScanQuotedValue:
			s.raw.WriteRune(c)
			i++
			if c != opts.Quote {
				s.buf.WriteRune(c)
				continue
			}
			if s.state == ScanQuotedName {
				s.cur.Name = s.buf.String()
			} else {
				s.cur.Value = s.buf.String()
			}
			s.buf.Reset()
			s.closed = true
		}
	}

	if s.closed {
		s.emit()
		return
	}
	switch s.state {
	case ScanName:
		if !s.started {
			return
		}
		if s.cur.Kind.IsOption() {
			if s.buf.Len() == 0 {
				s.fail(InvalidCharacterInName, "option name is empty", "")
				return
			}
			// The value, if any, may arrive in the next argument.
			s.cur.Name = s.buf.String()
			s.buf.Reset()
			s.state = ScanBeginValue
			return
		}
		s.cur.Name = s.buf.String()
		s.emit()
	case ScanValue:
		if s.buf.Len() > 0 {
			s.cur.Value = s.buf.String()
			s.emit()
		}
	}
}

func (s *scanner) finish() {
	switch s.state {
	case ScanBeginValue:
		s.emit()
	case ScanValue:
		// A separator without a value: `/name:`.
		s.cur.Value = s.buf.String()
		s.emit()
	case ScanQuotedName, ScanQuotedValue:
		s.fail(IncompleteQuotation, "quotation is not closed", "")
	}
}

func (s *scanner) indicator(rest []rune) string {
	str := string(rest)
	for _, ind := range s.t.indicators {
		if strings.HasPrefix(str, ind) {
			return ind
		}
	}
	return ""
}

func (s *scanner) emit() {
	s.cur.Raw = s.raw.String()
	s.cur.Status = Success
	s.tokens = append(s.tokens, s.cur)
	s.reset()
}

// fail records the token under construction as failed. rest is the unscanned
// remainder of the current argument, kept in Raw for context.
func (s *scanner) fail(kind ErrorKind, msg, rest string) {
	tok := s.cur
	switch s.state {
	case ScanName, ScanQuotedName:
		if tok.Name == "" {
			tok.Name = s.buf.String()
		}
	case ScanValue, ScanQuotedValue:
		if tok.Value == "" {
			tok.Value = s.buf.String()
		}
		tok.HasValue = true
	}
	tok.Raw = s.raw.String() + rest
	tok.Status = Failure
	tok.Err = kind
	tok.Message = msg
	s.tokens = append(s.tokens, tok)
	s.reset()
}

func (s *scanner) reset() {
	s.cur = Token{}
	s.started = false
	s.closed = false
	s.buf.Reset()
	s.raw.Reset()
	s.state = ScanName
}
