// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/schema"
)

const defaultUsageType = "option"

// Usage returns the usage text for config as invoked by executable. If
// command is not empty the text describes that command instead of the root.
func (p *Parser) Usage(config any, executable, command string) (string, error) {
	if config == nil {
		return "", ErrNilConfig
	}
	s, err := p.provider.Schema(config)
	if err != nil {
		return "", err
	}
	return p.UsageScope(s, executable, command)
}

// UsageScope is like Usage for a schema that is already built.
func (p *Parser) UsageScope(s *schema.Scope, executable, command string) (string, error) {
	if s == nil {
		return "", ErrNilConfig
	}
	prefix := executable
	if command != "" {
		c := s.Command(command)
		if c == nil {
			return "", fmt.Errorf("command %q does not exist", command)
		}
		s = c.Nested
		prefix = strings.TrimSpace(executable + " " + command)
	}
	return p.usage(s, prefix), nil
}

// Usage returns the usage text for config using the default parser.
func Usage(config any, executable, command string) (string, error) {
	return defaultParser.Usage(config, executable, command)
}

func (p *Parser) usage(s *schema.Scope, prefix string) string {
	var syntax []string
	var optNames, optHelp []string
	for _, o := range s.Options {
		names := p.optionNames(o)
		optNames = append(optNames, names)
		optHelp = append(optHelp, orNA(o.Description))

		if o.Type != coerce.Bool {
			typ := o.UsageType
			if typ == "" {
				typ = defaultUsageType
			}
			names += " <" + typ + ">"
		}
		if !o.Required {
			names = "[" + names + "]"
		}
		syntax = append(syntax, names)
	}
	if len(s.Commands) > 0 {
		syntax = append(syntax, "<command> [<args>]")
	}

	params := slices.Clone(s.Parameters)
	slices.SortFunc(params, func(a, b *schema.Parameter) int {
		return a.Ordinal - b.Ordinal
	})

	var sb strings.Builder
	sb.WriteString("SYNTAX:\n")
	sb.WriteString("  " + prefix)
	for _, pa := range params {
		sb.WriteString(" <" + orNA(pa.Name) + ">")
	}
	if len(syntax) > 0 {
		sb.WriteString(" ")
		sb.WriteString(strings.Join(syntax, "\n"+strings.Repeat(" ", len(prefix)+3)))
	}
	sb.WriteString("\n")

	if len(params) > 0 {
		var names, help []string
		for _, pa := range params {
			names = append(names, orNA(pa.Name))
			help = append(help, orNA(pa.Description))
		}
		writeSection(&sb, "PARAMETERS", names, help)
	}
	if len(optNames) > 0 {
		writeSection(&sb, "OPTIONS", optNames, optHelp)
	}
	if len(s.Commands) > 0 {
		var names, help []string
		for _, c := range s.Commands {
			names = append(names, c.DisplayName())
			help = append(help, orNA(c.Description))
		}
		writeSection(&sb, "COMMANDS", names, help)
	}
	return sb.String()
}

// optionNames renders the names of o with their indicators, e.g.
// "/h | /? | --help".
func (p *Parser) optionNames(o *schema.Option) string {
	opts := p.TokenOptions()
	var names []string
	add := func(n string) {
		if !slices.Contains(names, n) {
			names = append(names, n)
		}
	}
	if o.Name != "" {
		add(opts.NameIndicator() + o.Name)
	}
	if o.AltName != "" {
		add(opts.NameIndicator() + o.AltName)
	}
	if o.LongName != "" {
		add(opts.LongNameIndicator() + o.LongName)
	}
	return strings.Join(names, " | ")
}

func writeSection(sb *strings.Builder, title string, names, help []string) {
	width := 0
	for _, n := range names {
		width = max(width, len(n))
	}
	fmt.Fprintf(sb, "\n%s:\n", title)
	for i, n := range names {
		fmt.Fprintf(sb, "  %-*s     %s\n", width, n, help[i])
	}
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}
