// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"fmt"
)

// ErrNilConfig is returned when Bind is called without a configuration.
var ErrNilConfig = errors.New("argbind: configuration is nil")

// ErrorKind classifies a ParseError.
type ErrorKind int

const (
	// InvalidCommandArgsFormat covers malformed tokens, unknown commands,
	// arguments that match nothing and misplaced parameters.
	InvalidCommandArgsFormat ErrorKind = iota + 1
	InvalidOptionValue
	InvalidParameterValue
	// RequiredOptionValue is reported once per required option that received
	// no value.
	RequiredOptionValue
	// UnknownError wraps an unexpected failure during binding.
	UnknownError
)

func (k ErrorKind) String() string {
	switch k {
	case InvalidCommandArgsFormat:
		return "InvalidCommandArgsFormat"
	case InvalidOptionValue:
		return "InvalidOptionValue"
	case InvalidParameterValue:
		return "InvalidParameterValue"
	case RequiredOptionValue:
		return "RequiredOptionValue"
	case UnknownError:
		return "UnknownError"
	}
	return fmt.Sprintf("ErrorKind(%d)", int(k))
}

// ParseError is one problem found while binding user input.
type ParseError struct {
	Kind ErrorKind
	// Item is the option, parameter or command the error refers to.
	Item     string
	Value    string
	HasValue bool
	// Message is a user-facing description.
	Message string
	// Err is the underlying cause, if any, for errors.Is and verbose output.
	Err error
}

func (e *ParseError) Error() string {
	return e.Message
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Status is the overall outcome of a bind call.
type Status int

const (
	Success Status = iota
	Failure
)

func (s Status) String() string {
	if s == Failure {
		return "Failure"
	}
	return "Success"
}

// HelpRequest records that a help option was given.
type HelpRequest struct {
	// Command is the selected command when help was requested, empty at the
	// root.
	Command string
}

// ParseResult is the outcome of a bind call. Errors are in the order they
// were found, with misplaced-parameter warnings first.
type ParseResult struct {
	Status Status
	Errors []ParseError
	// Command is the name of the selected command, if any.
	Command string
	Help    *HelpRequest
}

// Failed reports whether any error was recorded.
func (r *ParseResult) Failed() bool {
	return r.Status == Failure
}

// Err returns the errors joined with errors.Join, or nil.
func (r *ParseResult) Err() error {
	if len(r.Errors) == 0 {
		return nil
	}
	errs := make([]error, len(r.Errors))
	for i := range r.Errors {
		errs[i] = &r.Errors[i]
	}
	return errors.Join(errs...)
}

// HelpRequested reports whether a help option was given.
func (r *ParseResult) HelpRequested() bool {
	return r.Help != nil
}

func (r *ParseResult) add(errs ...ParseError) {
	if len(errs) == 0 {
		return
	}
	r.Errors = append(r.Errors, errs...)
	r.Status = Failure
}
