// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package cli

import (
	"reflect"
	"strings"
	"testing"

	"github.com/yeetrun/argbind/pkg/schema"
)

func TestParseFlagsAndArgs(t *testing.T) {
	args := []string{
		"--schema", "tool.yaml",
		"--culture", "de-DE",
		"--posix",
		"-f", "toml",
		"-j", "4",
		"--verbose",
		"/v", "-x:1", "name",
	}

	flags, outArgs, err := Parse(args)
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if flags.Schema != "tool.yaml" {
		t.Errorf("Schema = %q, want %q", flags.Schema, "tool.yaml")
	}
	if flags.Culture != "de-DE" {
		t.Errorf("Culture = %q, want %q", flags.Culture, "de-DE")
	}
	if !flags.POSIX {
		t.Errorf("POSIX = false, want true")
	}
	if flags.OutputFormat() != schema.FormatTOML {
		t.Errorf("OutputFormat = %q, want %q", flags.OutputFormat(), schema.FormatTOML)
	}
	if flags.Jobs != 4 {
		t.Errorf("Jobs = %d, want %d", flags.Jobs, 4)
	}
	if !flags.Verbose {
		t.Errorf("Verbose = false, want true")
	}
	if got := strings.Join(outArgs, " "); got != "/v -x:1 name" {
		t.Errorf("args = %q, want %q", got, "/v -x:1 name")
	}
}

func TestParseStopsAtDoubleDash(t *testing.T) {
	flags, outArgs, err := Parse([]string{"-s", "tool.toml", "--", "--verbose", "-v"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if flags.Verbose {
		t.Errorf("Verbose = true, want false")
	}
	if want := []string{"--verbose", "-v"}; !reflect.DeepEqual(outArgs, want) {
		t.Errorf("args = %v, want %v", outArgs, want)
	}
}

func TestSplitArgsForParsing(t *testing.T) {
	specs := flagSpecsFromStruct(&Flags{})
	tests := []struct {
		name      string
		args      []string
		wantFlags []string
		wantArgs  []string
	}{
		{
			name:      "short flag group is argcheck's",
			args:      []string{"-s", "tool.yaml", "-verbose"},
			wantFlags: []string{"-s", "tool.yaml", "-verbose"},
		},
		{
			name:      "short flag with attached value is argcheck's",
			args:      []string{"-s", "tool.yaml", "-s1"},
			wantFlags: []string{"-s", "tool.yaml", "-s1"},
		},
		{
			name:      "after double dash",
			args:      []string{"-s", "tool.yaml", "--", "-verbose", "-s1"},
			wantFlags: []string{"-s", "tool.yaml"},
			wantArgs:  []string{"-verbose", "-s1"},
		},
		{
			name:      "unknown short flag",
			args:      []string{"-s", "tool.yaml", "-x", "-v"},
			wantFlags: []string{"-s", "tool.yaml"},
			wantArgs:  []string{"-x", "-v"},
		},
		{
			name:      "plain argument",
			args:      []string{"--schema", "tool.yaml", "/v", "-s1"},
			wantFlags: []string{"--schema", "tool.yaml"},
			wantArgs:  []string{"/v", "-s1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flags, args := splitArgsForParsing(tt.args, specs)
			if !reflect.DeepEqual(flags, tt.wantFlags) {
				t.Errorf("flags = %v, want %v", flags, tt.wantFlags)
			}
			if len(args) != len(tt.wantArgs) || (len(args) > 0 && !reflect.DeepEqual(args, tt.wantArgs)) {
				t.Errorf("args = %v, want %v", args, tt.wantArgs)
			}
		})
	}
}

func TestParseStopsAtUnknownFlag(t *testing.T) {
	flags, outArgs, err := Parse([]string{"--schema=tool.yaml", "--unknown", "value", "-v"})
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if flags.Schema != "tool.yaml" {
		t.Errorf("Schema = %q, want %q", flags.Schema, "tool.yaml")
	}
	if flags.Verbose {
		t.Errorf("Verbose = true, want false")
	}
	if got := strings.Join(outArgs, " "); got != "--unknown value -v" {
		t.Errorf("args = %q, want %q", got, "--unknown value -v")
	}
}

func TestParseRejects(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no schema", []string{"/v"}, "--schema"},
		{"format", []string{"-s", "a.yaml", "--format", "json"}, "--format"},
		{"color", []string{"-s", "a.yaml", "--color", "sometimes"}, "--color"},
		{"jobs", []string{"-s", "a.yaml", "--jobs=-1"}, "--jobs"},
		{"command", []string{"-s", "a.yaml", "--command", "get"}, "--usage"},
		{"line and args", []string{"-s", "a.yaml", "--line", "/v", "--", "/x"}, "mutually exclusive"},
		{"batch and line", []string{"-s", "a.yaml", "--line", "/v", "--batch", "lines.txt"}, "mutually exclusive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.args)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Parse(%q) error = %v, want mention of %q", tt.args, err, tt.want)
			}
		})
	}
}

func TestCultureTag(t *testing.T) {
	t.Setenv(CultureEnv, "fr-FR")
	if got := (Flags{}).CultureTag(); got != "fr-FR" {
		t.Errorf("CultureTag = %q, want fr-FR", got)
	}
	if got := (Flags{Culture: "de"}).CultureTag(); got != "de" {
		t.Errorf("CultureTag = %q, want de", got)
	}
}

func TestFlagSpecsFromStruct(t *testing.T) {
	specs := flagSpecsFromStruct(&Flags{})
	tests := []struct {
		name string
		want bool
	}{
		{"--schema", true},
		{"-s", true},
		{"--posix", false},
		{"-v", false},
		{"--jobs", true},
	}
	for _, tt := range tests {
		spec, ok := specs[tt.name]
		if !ok {
			t.Errorf("specs[%q] missing", tt.name)
			continue
		}
		if spec.ConsumesValue != tt.want {
			t.Errorf("specs[%q].ConsumesValue = %v, want %v", tt.name, spec.ConsumesValue, tt.want)
		}
	}
}
