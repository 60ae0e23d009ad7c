// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/argtypes"
	"github.com/yeetrun/argbind/pkg/cli"
	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/env"
	"github.com/yeetrun/argbind/pkg/schema"
	"github.com/yeetrun/argbind/pkg/token"
	"github.com/yeetrun/argbind/pkg/tui"
)

// checker binds command lines against one schema document.
type checker struct {
	doc     *schema.Document
	parser  *argbind.Parser
	name    string
	posix   bool
	format  schema.Format
	verbose bool
}

func newChecker(flags cli.Flags) (*checker, error) {
	doc, err := schema.LoadDocument(flags.Schema, argtypes.Resolver)
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	tag := flags.CultureTag()
	if tag == "" {
		tag = doc.Culture
	}
	culture := coerce.Default()
	if tag != "" {
		culture, err = coerce.CultureFor(tag)
		if err != nil {
			return nil, err
		}
	}
	topts, err := doc.Punctuation.TokenOptions()
	if err != nil {
		return nil, fmt.Errorf("failed to load schema: %w", err)
	}
	p := argbind.NewParser(
		argbind.WithTokenOptions(topts),
		argbind.WithCulture(culture),
		argbind.WithProvider(doc),
	)
	argtypes.Register(p)

	name := doc.Name
	if name == "" {
		name = strings.TrimSuffix(filepath.Base(flags.Schema), filepath.Ext(flags.Schema))
	}
	return &checker{
		doc:     doc,
		parser:  p,
		name:    name,
		posix:   flags.POSIX,
		format:  flags.OutputFormat(),
		verbose: flags.Verbose,
	}, nil
}

// outcome is the result of binding one command line.
type outcome struct {
	vals *schema.Values
	res  *argbind.ParseResult
	err  error
}

func (c *checker) bindArgs(args []string) outcome {
	vals := new(schema.Values)
	res, err := c.parser.Bind(vals, args)
	return outcome{vals: vals, res: res, err: err}
}

func (c *checker) bindLine(line string) outcome {
	if c.posix {
		args, err := token.SplitPOSIX(line)
		if err != nil {
			return outcome{err: err}
		}
		return c.bindArgs(args)
	}
	vals := new(schema.Values)
	res, err := c.parser.BindLine(vals, line)
	return outcome{vals: vals, res: res, err: err}
}

// report prints o and returns the exit code it warrants.
func (c *checker) report(st streams, o outcome) int {
	return c.write(st, o, false)
}

// write prints o to st. In batch mode everything goes to st.out so that
// lines stay together.
func (c *checker) write(st streams, o outcome, batch bool) int {
	errOut := st.errOut
	if batch {
		errOut = st.out
	}
	printErr := func(err error) int {
		fmt.Fprintf(errOut, "%s %v\n", st.color.Wrap(tui.ColorError, "error:"), err)
		return exitFailed
	}
	switch {
	case o.err != nil:
		return printErr(o.err)
	case o.res.Failed():
		tui.RenderErrors(errOut, st.color, o.res, c.verbose)
		return exitFailed
	case o.res.HelpRequested():
		usage, err := c.parser.Usage(new(schema.Values), c.name, o.res.Help.Command)
		if err != nil {
			return printErr(err)
		}
		tui.RenderUsage(st.out, st.color, usage)
		return exitOK
	}
	if err := c.writeValues(st.out, o.vals); err != nil {
		return printErr(err)
	}
	return exitOK
}

func (c *checker) writeValues(w io.Writer, vals *schema.Values) error {
	if c.format == cli.FormatEnv {
		return env.Write(w, env.Name("", c.name)+"_", vals.Map())
	}
	return tui.RenderValues(w, vals.Map(), c.format)
}

func (c *checker) printUsage(st streams, command string) int {
	usage, err := c.parser.Usage(new(schema.Values), c.name, command)
	if err != nil {
		log.Printf("%v", err)
		return exitUsage
	}
	tui.RenderUsage(st.out, st.color, usage)
	return exitOK
}
