// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/language"
	"tailscale.com/types/lazy"
)

// Culture holds the locale conventions used to parse numbers and dates.
type Culture struct {
	Tag language.Tag
	// Decimal is the decimal separator; Group is the digit group separator.
	Decimal rune
	Group   rune
	// DateLayouts are tried in order before falling back to free-form date
	// parsing.
	DateLayouts []string
	// MonthFirst resolves ambiguous numeric dates such as 01/02/2006.
	MonthFirst bool
}

var isoLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Invariant returns the culture-neutral conventions: '.' decimal, ','
// grouping, ISO dates and month-first numeric dates.
func Invariant() Culture {
	return Culture{
		Tag:     language.Und,
		Decimal: '.',
		Group:   ',',
		DateLayouts: append(slices.Clone(isoLayouts),
			"01/02/2006 15:04:05",
			"01/02/2006",
		),
		MonthFirst: true,
	}
}

var cultures = []Culture{
	Invariant(),
	{
		Tag:         language.AmericanEnglish,
		Decimal:     '.',
		Group:       ',',
		DateLayouts: append(slices.Clone(isoLayouts), "1/2/2006 3:04:05 PM", "1/2/2006 15:04:05", "1/2/2006"),
		MonthFirst:  true,
	},
	{
		Tag:         language.BritishEnglish,
		Decimal:     '.',
		Group:       ',',
		DateLayouts: append(slices.Clone(isoLayouts), "02/01/2006 15:04:05", "02/01/2006"),
	},
	{
		Tag:         language.MustParse("de-DE"),
		Decimal:     ',',
		Group:       '.',
		DateLayouts: append(slices.Clone(isoLayouts), "02.01.2006 15:04:05", "02.01.2006", "2.1.2006"),
	},
	{
		Tag:         language.MustParse("fr-FR"),
		Decimal:     ',',
		Group:       ' ',
		DateLayouts: append(slices.Clone(isoLayouts), "02/01/2006 15:04:05", "02/01/2006"),
	},
}

var cultureMatcher = language.NewMatcher(func() []language.Tag {
	tags := make([]language.Tag, len(cultures))
	for i, c := range cultures {
		tags[i] = c.Tag
	}
	return tags
}())

// CultureFor returns the supported culture closest to the BCP 47 tag. An empty
// tag selects Invariant.
func CultureFor(tag string) (Culture, error) {
	tag = strings.TrimSpace(tag)
	if tag == "" || strings.EqualFold(tag, "invariant") {
		return Invariant(), nil
	}
	t, err := language.Parse(tag)
	if err != nil {
		return Culture{}, fmt.Errorf("invalid culture %q: %w", tag, err)
	}
	_, idx, conf := cultureMatcher.Match(t)
	if conf == language.No {
		return Culture{}, fmt.Errorf("unsupported culture %q", tag)
	}
	c := cultures[idx]
	c.DateLayouts = slices.Clone(c.DateLayouts)
	return c, nil
}

var defaultCulture lazy.SyncValue[Culture]

// Default returns the culture of the process environment (LC_ALL, LC_NUMERIC
// or LANG), or Invariant when none is set or supported. It is computed once.
func Default() Culture {
	return defaultCulture.Get(func() Culture {
		for _, env := range []string{"LC_ALL", "LC_NUMERIC", "LANG"} {
			v := os.Getenv(env)
			if v == "" {
				continue
			}
			c, err := CultureFor(posixLocaleTag(v))
			if err != nil {
				break
			}
			return c
		}
		return Invariant()
	})
}

// posixLocaleTag converts "de_DE.UTF-8@euro" to "de-DE". "C" and "POSIX"
// become the empty (invariant) tag.
func posixLocaleTag(v string) string {
	if i := strings.IndexAny(v, ".@"); i >= 0 {
		v = v[:i]
	}
	if v == "C" || v == "POSIX" {
		return ""
	}
	return strings.ReplaceAll(v, "_", "-")
}

// normalizeNumber rewrites s into the form accepted by strconv: group
// separators removed and the decimal separator replaced by '.'.
func (c Culture) normalizeNumber(s string) string {
	s = strings.TrimSpace(s)
	dec, grp := c.Decimal, c.Group
	if dec == 0 {
		dec = '.'
	}
	var b strings.Builder
	for _, r := range s {
		switch {
		case grp != 0 && r == grp:
		case r == dec:
			b.WriteByte('.')
		case r == '.':
			// '.' is neither the decimal nor the group separator here.
			b.WriteRune(utf8.RuneError)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}
