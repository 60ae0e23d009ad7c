// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package tui renders bind results for a terminal.
package tui

import (
	"os"

	"github.com/fatih/color"
	"golang.org/x/term"
)

// Colors used by the renderers.
const (
	ColorError   = color.FgRed
	ColorOK      = color.FgGreen
	ColorWarning = color.FgYellow
	ColorDim     = color.FgHiBlack
	ColorHeading = color.Bold
)

// Colorizer wraps text in ANSI colors when enabled.
type Colorizer struct {
	Enabled bool
}

// NewColorizer returns a Colorizer that is enabled only if enabled is set,
// NO_COLOR is unset and TERM names a capable terminal.
func NewColorizer(enabled bool) Colorizer {
	if !enabled {
		return Colorizer{}
	}
	if os.Getenv("NO_COLOR") != "" {
		return Colorizer{}
	}
	t := os.Getenv("TERM")
	if t == "" || t == "dumb" {
		return Colorizer{}
	}
	return Colorizer{Enabled: true}
}

// ForFile returns a Colorizer for output written to f.
func ForFile(f *os.File) Colorizer {
	return NewColorizer(isTerminalFn(int(f.Fd())))
}

var isTerminalFn = term.IsTerminal

// Wrap returns text in the given color.
func (c Colorizer) Wrap(attr color.Attribute, text string) string {
	if !c.Enabled {
		return text
	}
	cl := color.New(attr)
	cl.EnableColor()
	return cl.Sprint(text)
}

// Width returns the width of the terminal behind f, or 80.
func Width(f *os.File) int {
	fd := int(f.Fd())
	if !isTerminalFn(fd) {
		return 80
	}
	cols, _, err := term.GetSize(fd)
	if err != nil || cols <= 0 {
		return 80
	}
	return cols
}
