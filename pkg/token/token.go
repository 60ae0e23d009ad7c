// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package token turns raw command-line arguments into name/value tokens.
//
// The tokenizer is a character-level state machine. It understands option
// name indicators (`/`, `-`, `--`), value separators (`:`, `=`) and a
// quotation character, and it records malformed input on the offending token
// instead of returning early:
//
//	toks := token.TokenizeLine(`/out:"C:\tmp dir" --verbose file.txt`)
//	for _, t := range toks {
//	    if t.Failed() {
//	        log.Printf("bad argument %q: %v", t.Raw, t.Failure())
//	    }
//	}
package token

import "fmt"

// Kind classifies a token by the indicator it was written with.
type Kind int

const (
	// Parameter is a token without an option indicator.
	Parameter Kind = iota
	// Option is a token written with a short indicator such as "/" or "-".
	Option
	// LongOption is a token written with the long indicator ("--").
	LongOption
)

func (k Kind) String() string {
	switch k {
	case Parameter:
		return "parameter"
	case Option:
		return "option"
	case LongOption:
		return "long-option"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// IsOption reports whether k is one of the option kinds.
func (k Kind) IsOption() bool {
	return k == Option || k == LongOption
}

// Status is the outcome of scanning a single token.
type Status int

const (
	Success Status = iota
	Failure
)

func (s Status) String() string {
	if s == Failure {
		return "failure"
	}
	return "success"
}

// ErrorKind identifies why a token failed.
type ErrorKind int

const (
	NoError ErrorKind = iota
	InvalidCharacterInName
	InvalidCharacterInValue
	IncompleteQuotation
	Unknown
)

func (k ErrorKind) String() string {
	switch k {
	case NoError:
		return "none"
	case InvalidCharacterInName:
		return "invalid character in name"
	case InvalidCharacterInValue:
		return "invalid character in value"
	case IncompleteQuotation:
		return "incomplete quotation"
	case Unknown:
		return "unknown"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Token is a single name with an optional value, or a recorded failure.
type Token struct {
	Kind Kind
	// Name is the option name with its indicator stripped, or the text of a
	// positional parameter with surrounding quotes removed.
	Name string
	// Value is the inline value of an option (`/name:value`).
	Value    string
	HasValue bool
	// Quoted is set when the name or value was written in quotes.
	Quoted bool
	// Raw is the source text of the token, indicator included.
	Raw string

	Status  Status
	Err     ErrorKind
	Message string
}

// Failed reports whether the tokenizer rejected t.
func (t Token) Failed() bool {
	return t.Status == Failure
}

// Text returns the text to use when t is consumed as the value of a
// preceding option. Parameters yield their unquoted name; options yield their
// raw text so that "-5" stays "-5".
func (t Token) Text() string {
	if t.Kind == Parameter {
		return t.Name
	}
	return t.Raw
}

// WithValue returns a copy of t carrying value.
func (t Token) WithValue(value string) Token {
	t.Value = value
	t.HasValue = true
	return t
}

// Failure returns the scan error recorded on t, or nil.
func (t Token) Failure() error {
	if !t.Failed() {
		return nil
	}
	return &ScanError{Kind: t.Err, Raw: t.Raw, Msg: t.Message}
}

func (t Token) String() string {
	if t.Failed() {
		return fmt.Sprintf("%s(%q: %s)", t.Kind, t.Raw, t.Message)
	}
	if t.HasValue {
		return fmt.Sprintf("%s(%s=%q)", t.Kind, t.Name, t.Value)
	}
	return fmt.Sprintf("%s(%s)", t.Kind, t.Name)
}

// ScanError describes a token the tokenizer could not accept.
type ScanError struct {
	Kind ErrorKind
	Raw  string
	Msg  string
}

func (e *ScanError) Error() string {
	if e.Raw == "" {
		return e.Msg
	}
	return fmt.Sprintf("%s: %q", e.Msg, e.Raw)
}
