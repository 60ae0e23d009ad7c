// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package token

import (
	"fmt"
	"strings"

	"github.com/kballard/go-shellquote"
)

// SplitCommandLine splits line into raw arguments at whitespace and at the
// optional extra separator. Text between quotation characters is never split,
// and the quotation characters are kept so the tokenizer can see them:
//
//	SplitCommandLine(`-s:"a b" c`, DefaultOptions()) // [`-s:"a b"` `c`]
func SplitCommandLine(line string, opts Options) []string {
	opts = opts.withDefaults()
	var (
		args    []string
		cur     strings.Builder
		quoted  bool
		pending bool
	)
	flush := func() {
		if pending {
			args = append(args, cur.String())
		}
		cur.Reset()
		pending = false
	}
	for _, r := range line {
		switch {
		case r == opts.Quote:
			quoted = !quoted
			cur.WriteRune(r)
			pending = true
		case !quoted && (opts.isWhitespace(r) || (opts.ExtraSeparator != 0 && r == opts.ExtraSeparator)):
			flush()
		default:
			cur.WriteRune(r)
			pending = true
		}
	}
	flush()
	return args
}

// SplitPOSIX splits line the way a POSIX shell splits words: quotes are
// removed and backslash escapes are honored. No expansion of any kind is
// performed.
func SplitPOSIX(line string) ([]string, error) {
	args, err := shellquote.Split(line)
	if err != nil {
		return nil, fmt.Errorf("split command line: %w", err)
	}
	return args, nil
}
