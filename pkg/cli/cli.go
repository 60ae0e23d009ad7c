// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cli parses the flags of the argcheck command.
//
// Flags end at "--" or at the first argument that is not a known flag, so
// the arguments being checked may use any punctuation, including a leading
// "-".
package cli

import (
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/shayne/yargs"
	"github.com/yeetrun/argbind/pkg/schema"
)

// CultureEnv names the environment variable consulted when --culture is not
// given.
const CultureEnv = "ARGCHECK_CULTURE"

// FormatEnv prints bound values as shell variable assignments.
const FormatEnv schema.Format = "env"

// FlagSpec describes how an argcheck flag is split from the arguments that
// follow it.
type FlagSpec struct {
	// ConsumesValue reports that the flag takes the next argument as its
	// value unless written as --flag=value.
	ConsumesValue bool
}

// Flags are the argcheck flags.
type Flags struct {
	Schema  string `flag:"schema" short:"s" help:"Schema document (.toml, .yaml or .yml)"`
	Culture string `flag:"culture" help:"Culture for numbers and dates (ARGCHECK_CULTURE)"`
	POSIX   bool   `flag:"posix" help:"Split lines with POSIX shell rules"`
	Format  string `flag:"format" short:"f" help:"Output format: yaml, toml or env"`
	Usage   bool   `flag:"usage" help:"Print usage and exit"`
	Command string `flag:"command" help:"Command to print usage for"`
	Line    string `flag:"line" short:"l" help:"Bind a single command line instead of ARGS"`
	Batch   string `flag:"batch" short:"b" help:"Bind each line of a file (- for stdin)"`
	Jobs    int    `flag:"jobs" short:"j" help:"Lines bound concurrently in batch mode"`
	Color   string `flag:"color" help:"Color output: auto, always or never"`
	Verbose bool   `flag:"verbose" short:"v" help:"Show error kinds and causes"`
}

// OutputFormat returns the format values are printed in.
func (f Flags) OutputFormat() schema.Format {
	if f.Format == "" {
		return schema.FormatYAML
	}
	return schema.Format(strings.ToLower(f.Format))
}

// CultureTag returns the culture named by --culture or ARGCHECK_CULTURE.
func (f Flags) CultureTag() string {
	if f.Culture != "" {
		return f.Culture
	}
	return os.Getenv(CultureEnv)
}

var errNoSchema = errors.New("missing required flag --schema")

// Parse parses the argcheck flags at the start of args and returns the
// arguments to bind.
func Parse(args []string) (Flags, []string, error) {
	head, tail := splitArgsForParsing(args, flagSpecsFromStruct(Flags{}))
	parsed, err := parseFlags[Flags](head)
	if err != nil {
		return Flags{}, nil, err
	}
	f := parsed.Flags
	if err := f.validate(len(parsed.Args)+len(tail) > 0); err != nil {
		return Flags{}, nil, err
	}
	return f, append(parsed.Args, tail...), nil
}

func (f Flags) validate(hasArgs bool) error {
	if f.Schema == "" {
		return errNoSchema
	}
	switch f.OutputFormat() {
	case schema.FormatYAML, schema.FormatTOML, FormatEnv:
	default:
		return fmt.Errorf("unknown --format %q (want yaml, toml or env)", f.Format)
	}
	switch f.Color {
	case "", "auto", "always", "never":
	default:
		return fmt.Errorf("unknown --color %q (want auto, always or never)", f.Color)
	}
	if f.Jobs < 0 {
		return fmt.Errorf("--jobs must not be negative, got %d", f.Jobs)
	}
	if f.Command != "" && !f.Usage {
		return errors.New("--command requires --usage")
	}
	sources := 0
	for _, set := range []bool{hasArgs, f.Line != "", f.Batch != ""} {
		if set {
			sources++
		}
	}
	if sources > 1 {
		return errors.New("ARGS, --line and --batch are mutually exclusive")
	}
	return nil
}

type parsedFlags[T any] struct {
	Flags T
	Args  []string
}

func parseFlags[T any](args []string) (parsedFlags[T], error) {
	result, err := yargs.ParseFlags[T](args)
	if err != nil {
		return parsedFlags[T]{}, err
	}
	argsOut := append([]string{}, result.Args...)
	if len(result.RemainingArgs) > 0 {
		argsOut = append(argsOut, result.RemainingArgs...)
	}
	return parsedFlags[T]{Flags: result.Flags, Args: argsOut}, nil
}

func splitArgsForParsing(args []string, specs map[string]FlagSpec) ([]string, []string) {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			if i+1 < len(args) {
				return args[:i], args[i+1:]
			}
			return args[:i], nil
		}
		if strings.HasPrefix(arg, "--") && len(arg) > 2 {
			name, _, hasValue := strings.Cut(arg, "=")
			spec, ok := specs[name]
			if !ok {
				return args[:i], args[i:]
			}
			if spec.ConsumesValue && !hasValue {
				i++
			}
			continue
		}
		if strings.HasPrefix(arg, "-") && arg != "-" {
			if name, _, ok := strings.Cut(arg, "="); ok {
				if _, known := specs[name]; known {
					continue
				}
				return args[:i], args[i:]
			}
			if len(arg) == 2 {
				spec, ok := specs[arg]
				if !ok {
					return args[:i], args[i:]
				}
				if spec.ConsumesValue {
					i++
				}
				continue
			}
			if _, ok := specs["-"+string(arg[1])]; !ok {
				return args[:i], args[i:]
			}
			continue
		}
		// The first plain argument starts the arguments to bind.
		return args[:i], args[i:]
	}
	return args, nil
}

func flagSpecsFromStruct(v any) map[string]FlagSpec {
	specs := make(map[string]FlagSpec)
	t := reflect.TypeOf(v)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return specs
	}
	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if !field.IsExported() {
			continue
		}
		name := field.Tag.Get("flag")
		if name == "" {
			name = strings.ToLower(field.Name)
		}
		spec := FlagSpec{ConsumesValue: consumesValue(field.Type)}
		specs["--"+name] = spec
		if short := field.Tag.Get("short"); short != "" {
			specs["-"+short] = spec
		}
	}
	return specs
}

func consumesValue(t reflect.Type) bool {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	return t.Kind() != reflect.Bool
}
