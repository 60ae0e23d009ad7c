// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"slices"
	"strings"
)

// Options configures the punctuation understood by the tokenizer. Zero fields
// fall back to the values of DefaultOptions.
type Options struct {
	// Indicators are the prefixes that mark an option name.
	Indicators []string
	// LongIndicator marks a long option name. It must also be listed in
	// Indicators.
	LongIndicator string
	// Separators split an option name from its inline value.
	Separators []rune
	Quote      rune
	// Whitespace separates arguments in a single command-line string.
	Whitespace []rune
	// ExtraSeparator is an optional additional argument separator used by
	// SplitCommandLine.
	ExtraSeparator rune
}

// DefaultOptions returns the default punctuation: indicators "/", "-" and
// "--", value separators ':' and '=', the '"' quotation character, and space
// and tab as whitespace.
func DefaultOptions() Options {
	return Options{
		Indicators:    []string{"/", "-", "--"},
		LongIndicator: "--",
		Separators:    []rune{':', '='},
		Quote:         '"',
		Whitespace:    []rune{' ', '\t'},
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if len(o.Indicators) == 0 {
		o.Indicators = d.Indicators
	}
	if o.LongIndicator == "" {
		o.LongIndicator = d.LongIndicator
	}
	if len(o.Separators) == 0 {
		o.Separators = d.Separators
	}
	if o.Quote == 0 {
		o.Quote = d.Quote
	}
	if len(o.Whitespace) == 0 {
		o.Whitespace = d.Whitespace
	}
	return o
}

// NameIndicator returns the indicator used to print short option names: the
// first configured indicator that is not the long indicator.
func (o Options) NameIndicator() string {
	o = o.withDefaults()
	for _, ind := range o.Indicators {
		if ind != o.LongIndicator {
			return ind
		}
	}
	return o.LongIndicator
}

// LongNameIndicator returns the indicator used to print long option names.
func (o Options) LongNameIndicator() string {
	return o.withDefaults().LongIndicator
}

func (o *Options) isSeparator(r rune) bool {
	return slices.Contains(o.Separators, r)
}

func (o *Options) isWhitespace(r rune) bool {
	return slices.Contains(o.Whitespace, r)
}

// sortedIndicators returns the indicators longest first so that "--" wins
// over "-".
func sortedIndicators(o Options) []string {
	inds := slices.Clone(o.Indicators)
	if o.LongIndicator != "" && !slices.Contains(inds, o.LongIndicator) {
		inds = append(inds, o.LongIndicator)
	}
	slices.SortStableFunc(inds, func(a, b string) int {
		return len(b) - len(a)
	})
	return slices.DeleteFunc(inds, func(s string) bool {
		return strings.TrimSpace(s) == ""
	})
}
