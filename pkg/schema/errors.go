// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"errors"
	"fmt"
)

// ErrNotStruct is returned when a configuration is not a non-nil pointer to a
// struct.
var ErrNotStruct = errors.New("configuration must be a non-nil pointer to a struct")

// ErrorKind classifies a schema error.
type ErrorKind int

const (
	MissingName ErrorKind = iota + 1
	DuplicateName
	DuplicateAltName
	DuplicateLongName
	DuplicateCommandName
	DuplicateParameterName
	DuplicateOrdinal
	OrdinalSequence
	ParametersWithCommands
	NestedCommands
	UnsupportedType
	InvalidDefault
	InvalidTag
	// DuplicateKey is a document option key or parameter name used twice in
	// one scope.
	DuplicateKey
)

var errorKindNames = map[ErrorKind]string{
	MissingName:            "MissingName",
	DuplicateName:          "DuplicateName",
	DuplicateAltName:       "DuplicateAltName",
	DuplicateLongName:      "DuplicateLongName",
	DuplicateCommandName:   "DuplicateCommandName",
	DuplicateParameterName: "DuplicateParameterName",
	DuplicateOrdinal:       "DuplicateOrdinal",
	OrdinalSequence:        "OrdinalSequence",
	ParametersWithCommands: "ParametersWithCommands",
	NestedCommands:         "NestedCommands",
	UnsupportedType:        "UnsupportedType",
	InvalidDefault:         "InvalidDefault",
	InvalidTag:             "InvalidTag",
	DuplicateKey:           "DuplicateKey",
}

func (k ErrorKind) String() string {
	if s, ok := errorKindNames[k]; ok {
		return s
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// Error is a malformed schema. It is a programming error rather than bad
// user input.
type Error struct {
	Kind ErrorKind
	// Command is the command whose scope is malformed, empty for the root.
	Command string
	// Field is the struct field or document key at fault, if any.
	Field string
	Msg   string
	Err   error
}

func (e *Error) Error() string {
	var b []byte
	b = append(b, "invalid schema"...)
	if e.Command != "" {
		b = fmt.Appendf(b, " (command %q)", e.Command)
	}
	b = append(b, ": "...)
	b = append(b, e.Msg...)
	if e.Err != nil {
		b = fmt.Appendf(b, ": %v", e.Err)
	}
	return string(b)
}

func (e *Error) Unwrap() error {
	return e.Err
}

func errorf(kind ErrorKind, field, format string, args ...any) *Error {
	return &Error{Kind: kind, Field: field, Msg: fmt.Sprintf(format, args...)}
}

// Must returns s or panics with err.
func Must(s *Scope, err error) *Scope {
	if err != nil {
		panic(err)
	}
	return s
}
