// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command argcheck binds command lines against a schema document and prints
// the bound values or the errors found.
//
//	argcheck --schema tool.yaml -- /v --count:3 input.txt
//	argcheck --schema tool.toml --line 'get "today" /utc'
//	argcheck --schema tool.yaml --batch lines.txt
//	argcheck --schema tool.yaml --usage --command get
//
// argcheck reads its own flags up to the first plain argument, the first
// unknown flag or "--". An argument that starts with "-" followed by the
// letter of an argcheck short flag is taken as that flag: -verbose is -v
// with more letters and -s1 is --schema 1. Put such arguments after "--":
//
//	argcheck --schema tool.yaml -- -verbose -s1
package main

import (
	"io"
	"log"
	"os"

	"github.com/yeetrun/argbind/pkg/cli"
	"github.com/yeetrun/argbind/pkg/tui"
)

const (
	exitOK      = 0
	exitFailed  = 1
	exitUsage   = 2
	defaultJobs = 8
)

// streams are the files argcheck reads and writes.
type streams struct {
	in       io.Reader
	out      io.Writer
	errOut   io.Writer
	color    tui.Colorizer
	width    int
	progress bool
}

func main() {
	log.SetFlags(0)
	log.SetPrefix("argcheck: ")

	flags, args, err := cli.Parse(os.Args[1:])
	if err != nil {
		log.Printf("%v", err)
		os.Exit(exitUsage)
	}
	st := streams{
		in:       os.Stdin,
		out:      os.Stdout,
		errOut:   os.Stderr,
		color:    colorizer(flags.Color),
		width:    tui.Width(os.Stdout),
		progress: tui.ForFile(os.Stderr).Enabled,
	}
	os.Exit(run(flags, args, st))
}

func colorizer(mode string) tui.Colorizer {
	switch mode {
	case "always":
		return tui.NewColorizer(true)
	case "never":
		return tui.Colorizer{}
	}
	return tui.ForFile(os.Stdout)
}

func run(flags cli.Flags, args []string, st streams) int {
	c, err := newChecker(flags)
	if err != nil {
		log.Printf("%v", err)
		return exitUsage
	}
	switch {
	case flags.Usage:
		return c.printUsage(st, flags.Command)
	case flags.Batch != "":
		return c.runBatch(st, flags.Batch, flags.Jobs)
	case flags.Line != "":
		return c.report(st, c.bindLine(flags.Line))
	}
	return c.report(st, c.bindArgs(args))
}
