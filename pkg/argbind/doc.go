// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argbind binds command-line arguments to a declared configuration.
//
// Arguments are tokenized (see package token), matched against the options,
// positional parameters and commands of a schema (see package schema), coerced
// to the declared field types (see package coerce) and stored in the
// configuration. Problems with the user's input never stop the bind early;
// they are collected in the returned ParseResult.
//
// # Basic Usage
//
//	type Config struct {
//	    Help    bool   `flag:"h" alt:"?" long:"help" helpflag:"true"`
//	    Verbose bool   `flag:"v" long:"verbose" help:"Verbose output"`
//	    Out     string `flag:"o" long:"out" required:"true" usage:"file"`
//	    Input   string `pos:"1" name:"input"`
//	}
//
//	var cfg Config
//	res, err := argbind.Bind(&cfg, os.Args[1:])
//	if err != nil {
//	    log.Fatal(err) // the Config declaration is invalid
//	}
//	if res.Failed() {
//	    for _, e := range res.Errors {
//	        fmt.Fprintln(os.Stderr, e.Message)
//	    }
//	    os.Exit(1)
//	}
//
// Values may be given inline (/out:file, --out=file) or as the next argument
// (/out file). A boolean option takes the next argument only if it is a
// boolean literal such as "false" or "nein".
//
// # Commands
//
// A field tagged with `cmd` declares a command. Once a command name is seen,
// later arguments resolve against the command's own options and parameters,
// falling back to the root options. After a successful bind the command is
// passed to the CommandAction given to BindCommand and, if it implements
// Executor, its Execute method is called.
//
//	type Get struct {
//	    Kind string `pos:"1" name:"calculation-type"`
//	    UTC  bool   `flag:"utc" long:"use-utc"`
//	}
//
//	type Config struct {
//	    Verbose bool `flag:"v" long:"verbose"`
//	    Get     *Get `cmd:"g" long:"get" help:"Gets date and time"`
//	}
//
// # Custom Types
//
// Types outside the built-in set are coerced by handlers registered on a
// Parser:
//
//	p := argbind.NewParser()
//	argbind.RegisterType(p, func(name, value string) (netip.Addr, error) {
//	    return netip.ParseAddr(value)
//	}, nil)
package argbind
