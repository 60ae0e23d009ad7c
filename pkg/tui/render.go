// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package tui

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/schema"
	"gopkg.in/yaml.v3"
)

// RenderErrors writes one line per error in res. With verbose set, the error
// kind, item and underlying cause follow the message.
func RenderErrors(w io.Writer, c Colorizer, res *argbind.ParseResult, verbose bool) {
	for _, e := range res.Errors {
		line := c.Wrap(ColorError, "error:") + " " + e.Message
		if verbose {
			detail := fmt.Sprintf("[%s item=%q]", e.Kind, e.Item)
			if e.Err != nil && e.Err.Error() != e.Message {
				detail += " " + e.Err.Error()
			}
			line += " " + c.Wrap(ColorDim, detail)
		}
		fmt.Fprintln(w, line)
	}
}

// RenderValues writes vals as a TOML or YAML document.
func RenderValues(w io.Writer, vals map[string]any, format schema.Format) error {
	switch format {
	case schema.FormatTOML:
		if err := toml.NewEncoder(w).Encode(vals); err != nil {
			return fmt.Errorf("failed to encode values: %w", err)
		}
		return nil
	case schema.FormatYAML:
		b, err := yaml.Marshal(vals)
		if err != nil {
			return fmt.Errorf("failed to encode values: %w", err)
		}
		_, err = w.Write(b)
		return err
	}
	return fmt.Errorf("unknown output format %q", format)
}

// RenderUsage writes usage text with its section headings highlighted.
func RenderUsage(w io.Writer, c Colorizer, usage string) {
	sc := bufio.NewScanner(strings.NewReader(usage))
	for sc.Scan() {
		line := sc.Text()
		if isHeading(line) {
			line = c.Wrap(ColorHeading, line)
		}
		fmt.Fprintln(w, line)
	}
}

func isHeading(line string) bool {
	name, ok := strings.CutSuffix(line, ":")
	return ok && name != "" && strings.ToUpper(name) == name && !strings.HasPrefix(name, " ")
}

// Rule writes a dim horizontal rule of the given width with title at its
// start, such as "── line 3 ─────".
func Rule(w io.Writer, c Colorizer, width int, title string) {
	head := "── " + title + " "
	n := width - len([]rune(head))
	if n < 3 {
		n = 3
	}
	fmt.Fprintln(w, c.Wrap(ColorDim, head+strings.Repeat("─", n)))
}
