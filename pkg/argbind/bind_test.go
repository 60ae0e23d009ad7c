// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package argbind

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/yeetrun/argbind/pkg/coerce"
	"github.com/yeetrun/argbind/pkg/schema"
	"github.com/yeetrun/argbind/pkg/token"
)

type simpleConfig struct {
	Help    bool            `flag:"h" alt:"?" long:"help"`
	Verbose bool            `flag:"v" long:"verbose"`
	Str     string          `flag:"s" long:"string"`
	Char    rune            `flag:"c" long:"char" type:"char"`
	Double  float64         `flag:"dbl" long:"double"`
	Int16   int16           `flag:"i16" long:"int16"`
	Int32   int32           `flag:"i32" alt:"i" long:"int32"`
	Int64   int64           `flag:"i64" alt:"l" long:"int64"`
	Date    time.Time       `flag:"dt" long:"date"`
	File    coerce.FileName `flag:"file" long:"file-info"`
	Param2  string          `pos:"2" name:"TextParameter B" help:"Example Parameter #2"`
	Param1  string          `pos:"1" name:"TextParameter A" help:"Example Parameter #1"`
	Single  float32         `flag:"fl" long:"single"`
	UInt16  uint16          `flag:"ui16" long:"uint16"`
	UInt32  uint32          `flag:"ui32" long:"uint32"`
	UInt64  uint64          `flag:"ui64" long:"uint64"`
	Timeout time.Duration   `flag:"t" long:"timeout"`
}

type requiredConfig struct {
	Required1 string `flag:"required1" long:"required-option1" required:"true" help:"Example required option #1"`
	Required2 int    `flag:"required2" long:"required-option2" required:"true" help:"Example required option #2"`
	Optional  string `flag:"optional" long:"optional-option" help:"Example optional option"`
}

func newTestParser(opts ...Option) *Parser {
	opts = append([]Option{WithCulture(coerce.Invariant()), WithLocation(time.UTC)}, opts...)
	return NewParser(opts...)
}

func bindLine(t *testing.T, p *Parser, cfg any, line string) *ParseResult {
	t.Helper()
	res, err := p.BindLine(cfg, line)
	if err != nil {
		t.Fatalf("BindLine(%q) error: %v", line, err)
	}
	return res
}

func TestBindValidOptions(t *testing.T) {
	tests := []struct {
		line  string
		check func(c *simpleConfig) bool
	}{
		{"--help -v:yes", func(c *simpleConfig) bool { return c.Help && c.Verbose }},
		{"/?", func(c *simpleConfig) bool { return c.Help }},
		{"/?:yes", func(c *simpleConfig) bool { return c.Help }},
		{"/? false", func(c *simpleConfig) bool { return !c.Help }},
		{"-c a", func(c *simpleConfig) bool { return c.Char == 'a' }},
		{"-c A", func(c *simpleConfig) bool { return c.Char == 'A' }},
		{"-c 1", func(c *simpleConfig) bool { return c.Char == '1' }},
		{`-s:"Example Name"`, func(c *simpleConfig) bool { return c.Str == "Example Name" }},
		{"-i16 32767", func(c *simpleConfig) bool { return c.Int16 == 32767 }},
		{"-i 123", func(c *simpleConfig) bool { return c.Int32 == 123 }},
		{"-l 1234567890", func(c *simpleConfig) bool { return c.Int64 == 1234567890 }},
		{"--double 3.14159265358979", func(c *simpleConfig) bool { return c.Double == 3.14159265358979 }},
		{"--single 3.402823E+38", func(c *simpleConfig) bool { return c.Single == float32(3.402823e+38) }},
		{"-ui16 65535", func(c *simpleConfig) bool { return c.UInt16 == 65535 }},
		{"-ui32 65536", func(c *simpleConfig) bool { return c.UInt32 == 65536 }},
		{"-ui64 131072", func(c *simpleConfig) bool { return c.UInt64 == 131072 }},
		{"-i16 -5", func(c *simpleConfig) bool { return c.Int16 == -5 }},
		{"--timeout 1m30s", func(c *simpleConfig) bool { return c.Timeout == 90*time.Second }},
		{`-file "dir/report.txt"`, func(c *simpleConfig) bool { return c.File == "dir/report.txt" }},
		{`--date "1970-04-01 10:43:28"`, func(c *simpleConfig) bool {
			return c.Date.Equal(time.Date(1970, 4, 1, 10, 43, 28, 0, time.UTC))
		}},
		{`"First Parameter Value" "Second Parameter Value"`, func(c *simpleConfig) bool {
			return c.Param1 == "First Parameter Value" && c.Param2 == "Second Parameter Value"
		}},
		{`name="John Smith" path="C:\Program Files"`, func(c *simpleConfig) bool {
			return c.Param1 == "name=John Smith" && c.Param2 == `path=C:\Program Files`
		}},
		{`-s:""`, func(c *simpleConfig) bool { return c.Str == "" }},
		{`-s ""`, func(c *simpleConfig) bool { return c.Str == "" }},
		{`"First Parameter Value" "Second Parameter Value" --verbose:yes -i:123`, func(c *simpleConfig) bool {
			return c.Param1 == "First Parameter Value" && c.Param2 == "Second Parameter Value" && c.Verbose && c.Int32 == 123
		}},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var cfg simpleConfig
			res := bindLine(t, p, &cfg, tt.line)
			if res.Failed() {
				t.Fatalf("BindLine(%q) errors = %v", tt.line, res.Err())
			}
			if !tt.check(&cfg) {
				t.Errorf("BindLine(%q) config = %+v", tt.line, cfg)
			}
		})
	}
}

func TestBindInvalidOptions(t *testing.T) {
	tests := []struct {
		line  string
		item  string
		value string
	}{
		{"-c abc", "c", "abc"},
		{"-c 123", "c", "123"},
		{"-i16 32768", "i16", "32768"},
		{"-i 1.0", "i", "1.0"},
		{"-l abc", "l", "abc"},
		{"--double a", "double", "a"},
		{"--single 3.402823E+39", "single", "3.402823E+39"},
		{"-ui16 65536", "ui16", "65536"},
		{"-ui32 4294967296", "ui32", "4294967296"},
		{"-ui64 -1", "ui64", "-1"},
		{`-file "?;"`, "file", "?;"},
		{"-v:maybe", "v", "maybe"},
		{"--timeout soon", "timeout", "soon"},
		{"-i16", "i16", ""},
	}

	p := newTestParser()
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var cfg simpleConfig
			res := bindLine(t, p, &cfg, tt.line)
			if res.Status != Failure {
				t.Fatalf("Status = %v, want Failure", res.Status)
			}
			if len(res.Errors) != 1 {
				t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Err())
			}
			e := res.Errors[0]
			if e.Kind != InvalidOptionValue {
				t.Errorf("Kind = %v, want %v", e.Kind, InvalidOptionValue)
			}
			if e.Item != tt.item || e.Value != tt.value {
				t.Errorf("Item, Value = %q, %q, want %q, %q", e.Item, e.Value, tt.item, tt.value)
			}
			want := `Value "` + tt.value + `" is invalid for option "` + tt.item + `"`
			if e.Message != want {
				t.Errorf("Message = %q, want %q", e.Message, want)
			}
			var ve *coerce.ValueError
			if !errors.As(&e, &ve) {
				t.Errorf("error does not wrap *coerce.ValueError: %v", e.Err)
			}
		})
	}
}

func TestBindBoolDoesNotConsumeNonLiteral(t *testing.T) {
	var cfg simpleConfig
	res := bindLine(t, newTestParser(), &cfg, "/h Nein")
	if !cfg.Help {
		t.Errorf("Help = false, want true")
	}
	if len(res.Errors) != 1 || res.Errors[0].Kind != InvalidCommandArgsFormat {
		t.Fatalf("errors = %v, want one InvalidCommandArgsFormat", res.Errors)
	}
	// "Nein" became the first parameter above; with both parameters taken it
	// matches nothing.
	cfg = simpleConfig{}
	res = bindLine(t, newTestParser(), &cfg, `"a" "b" /h Nein`)
	e := res.Errors[len(res.Errors)-1]
	if e.Item != "Nein" || e.Message != "Argument does not match any option or parameter" {
		t.Errorf("last error = %+v", e)
	}
}

func TestBindParametersAfterOptions(t *testing.T) {
	t.Run("both parameters", func(t *testing.T) {
		var cfg simpleConfig
		res := bindLine(t, newTestParser(), &cfg, `--verbose "First Parameter Value" "Second Parameter Value" -i 123 `)
		if res.Status != Failure {
			t.Fatalf("Status = %v, want Failure", res.Status)
		}
		var items []string
		for _, e := range res.Errors {
			if e.Kind != InvalidCommandArgsFormat || e.Message != "Parameters must precede any options" {
				t.Errorf("unexpected error %+v", e)
			}
			items = append(items, e.Item)
		}
		if diff := cmp.Diff([]string{"First Parameter Value", "Second Parameter Value"}, items); diff != "" {
			t.Errorf("items mismatch (-want +got):\n%s", diff)
		}
		if !cfg.Verbose || cfg.Int32 != 123 || cfg.Param2 != "Second Parameter Value" {
			t.Errorf("cfg = %+v", cfg)
		}
	})
	t.Run("second parameter", func(t *testing.T) {
		var cfg simpleConfig
		res := bindLine(t, newTestParser(), &cfg, `"First Parameter Value" /i:123 --verbose "Second Parameter Value"`)
		if len(res.Errors) != 1 {
			t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Err())
		}
		if e := res.Errors[0]; e.Kind != InvalidCommandArgsFormat || e.Item != "Second Parameter Value" {
			t.Errorf("error = %+v", e)
		}
	})
	t.Run("warnings first", func(t *testing.T) {
		var cfg simpleConfig
		res := bindLine(t, newTestParser(), &cfg, `-i abc "p1"`)
		if len(res.Errors) != 2 {
			t.Fatalf("got %d errors, want 2: %v", len(res.Errors), res.Err())
		}
		if res.Errors[0].Message != "Parameters must precede any options" || res.Errors[1].Kind != InvalidOptionValue {
			t.Errorf("errors = %+v", res.Errors)
		}
	})
}

func TestBindInvalidParameter(t *testing.T) {
	type config struct {
		N int `pos:"1" name:"count"`
		M int `pos:"2" name:"more"`
	}
	var cfg config
	res := bindLine(t, newTestParser(), &cfg, "x 5 7")
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Err())
	}
	e := res.Errors[0]
	if e.Kind != InvalidParameterValue || e.Item != "count" || e.Message != `Value "x" is invalid for parameter "count"` {
		t.Errorf("error = %+v", e)
	}
	// The ordinal only advances on success, so 5 and 7 fill count and more.
	if cfg.N != 5 || cfg.M != 7 {
		t.Errorf("cfg = %+v, want {5 7}", cfg)
	}
}

func TestBindRequired(t *testing.T) {
	tests := []struct {
		line    string
		missing []string
	}{
		{`/required1:"abc" -required2:123`, nil},
		{`--required-option1 abc --required-option2 123 /optional x`, nil},
		{`-required2:123`, []string{"required1"}},
		{`/required1:abc`, []string{"required2"}},
		{``, []string{"required1", "required2"}},
		{`/optional:x`, []string{"required1", "required2"}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			var cfg requiredConfig
			res := bindLine(t, newTestParser(), &cfg, tt.line)
			var got []string
			for _, e := range res.Errors {
				if e.Kind != RequiredOptionValue {
					t.Errorf("unexpected error %+v", e)
					continue
				}
				if want := `Option "` + e.Item + `" is missing a required value`; e.Message != want {
					t.Errorf("Message = %q, want %q", e.Message, want)
				}
				got = append(got, e.Item)
			}
			if diff := cmp.Diff(tt.missing, got); diff != "" {
				t.Errorf("missing mismatch (-want +got):\n%s", diff)
			}
			if tt.missing == nil && res.Status != Success {
				t.Errorf("Status = %v, want Success", res.Status)
			}
		})
	}
}

func TestBindRebindsIndependently(t *testing.T) {
	p := newTestParser()
	for _, line := range []string{`/required1:"abc" -required2:123`, `/required1:abc /required2:123`} {
		var cfg requiredConfig
		res := bindLine(t, p, &cfg, line)
		if res.Failed() {
			t.Fatalf("BindLine(%q) errors = %v", line, res.Err())
		}
		if cfg.Required1 != "abc" || cfg.Required2 != 123 {
			t.Errorf("cfg = %+v", cfg)
		}
	}
	var cfg requiredConfig
	if res := bindLine(t, p, &cfg, ""); len(res.Errors) != 2 {
		t.Errorf("assigned options leaked between binds: %v", res.Errors)
	}
}

func TestBindDefaults(t *testing.T) {
	type config struct {
		Level int    `flag:"l" default:"3" required:"true"`
		Name  string `flag:"n" default:"anon"`
	}
	var cfg config
	res := bindLine(t, newTestParser(), &cfg, "/n bob")
	if res.Failed() {
		t.Fatalf("errors = %v", res.Err())
	}
	if cfg.Level != 3 || cfg.Name != "bob" {
		t.Errorf("cfg = %+v, want {3 bob}", cfg)
	}
}

func TestBindTokenizerFailures(t *testing.T) {
	var cfg simpleConfig
	res := bindLine(t, newTestParser(), &cfg, `-s:"abc`)
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Err())
	}
	e := res.Errors[0]
	if e.Kind != InvalidCommandArgsFormat || e.Item != "s" {
		t.Errorf("error = %+v", e)
	}
	var se *token.ScanError
	if !errors.As(&e, &se) || se.Kind != token.IncompleteQuotation {
		t.Errorf("error does not wrap an IncompleteQuotation ScanError: %v", e.Err)
	}
	if cfg.Str != "" {
		t.Errorf("Str = %q, want nothing bound", cfg.Str)
	}
}

func TestBindUnknownArgument(t *testing.T) {
	var cfg requiredConfig
	res := bindLine(t, newTestParser(), &cfg, "/bogus /required1:a /required2:1")
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Err())
	}
	if e := res.Errors[0]; e.Kind != InvalidCommandArgsFormat || e.Item != "/bogus" {
		t.Errorf("error = %+v", e)
	}
}

type color int

const (
	red color = iota + 1
	green
)

func TestBindCustomType(t *testing.T) {
	type config struct {
		Color color `flag:"color" long:"color-name"`
	}
	p := newTestParser()
	RegisterType(p, func(_, value string) (color, error) {
		switch strings.ToLower(value) {
		case "red":
			return red, nil
		case "green":
			return green, nil
		}
		return 0, errors.New("unknown color")
	}, nil)

	var cfg config
	res := bindLine(t, p, &cfg, `-color "Green"`)
	if res.Failed() {
		t.Fatalf("errors = %v", res.Err())
	}
	if cfg.Color != green {
		t.Errorf("Color = %v, want %v", cfg.Color, green)
	}

	res = bindLine(t, p, &cfg, `--color-name blue`)
	if len(res.Errors) != 1 || res.Errors[0].Kind != InvalidOptionValue {
		t.Errorf("errors = %v, want one InvalidOptionValue", res.Errors)
	}

	res = bindLine(t, newTestParser(), &cfg, `-color red`)
	if len(res.Errors) != 1 || !errors.Is(&res.Errors[0], coerce.ErrUnknownType) {
		t.Errorf("unregistered type errors = %v, want ErrUnknownType", res.Errors)
	}
}

func TestBindRecoversPanics(t *testing.T) {
	type config struct {
		Color color `flag:"c"`
	}
	p := newTestParser()
	RegisterType(p, func(_, _ string) (color, error) {
		panic("boom")
	}, func(_, _ string, _ bool) bool { return true })

	var cfg config
	res := bindLine(t, p, &cfg, "-c red")
	if len(res.Errors) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(res.Errors), res.Err())
	}
	if e := res.Errors[0]; e.Kind != UnknownError || e.Item != "n/a" {
		t.Errorf("error = %+v", e)
	}
}

func TestBindContractErrors(t *testing.T) {
	p := newTestParser()
	if _, err := p.Bind(nil, nil); !errors.Is(err, ErrNilConfig) {
		t.Errorf("Bind(nil) error = %v, want ErrNilConfig", err)
	}
	if _, err := p.Bind(simpleConfig{}, nil); !errors.Is(err, schema.ErrNotStruct) {
		t.Errorf("Bind(struct value) error = %v, want ErrNotStruct", err)
	}
	type bad struct {
		A string `pos:"1" name:"a"`
		B string `pos:"3" name:"b"`
	}
	_, err := p.Bind(&bad{}, nil)
	var se *schema.Error
	if !errors.As(err, &se) || se.Kind != schema.OrdinalSequence {
		t.Errorf("Bind(bad) error = %v, want OrdinalSequence", err)
	}

	defer func() {
		if r := recover(); r == nil {
			t.Errorf("MustBind did not panic")
		}
	}()
	MustBind(&bad{}, nil)
}

func TestBindArgsVector(t *testing.T) {
	var cfg simpleConfig
	res, err := newTestParser().Bind(&cfg, []string{"--date", "1970-04-01 10:43:28", "-s:two words"})
	if err != nil {
		t.Fatal(err)
	}
	if res.Failed() {
		t.Fatalf("errors = %v", res.Err())
	}
	if cfg.Str != "two words" || cfg.Date.Year() != 1970 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestBindCulture(t *testing.T) {
	de, err := coerce.CultureFor("de-DE")
	if err != nil {
		t.Fatal(err)
	}
	var cfg simpleConfig
	p := NewParser(WithCulture(de), WithLocation(time.UTC))
	res := bindLine(t, p, &cfg, `--double 1.234,5 --date "01.04.1970 10:43:28"`)
	if res.Failed() {
		t.Fatalf("errors = %v", res.Err())
	}
	if cfg.Double != 1234.5 {
		t.Errorf("Double = %v, want 1234.5", cfg.Double)
	}
	if want := time.Date(1970, 4, 1, 10, 43, 28, 0, time.UTC); !cfg.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", cfg.Date, want)
	}
}

func TestBindTokenOptions(t *testing.T) {
	var cfg simpleConfig
	p := newTestParser(WithTokenOptions(token.Options{
		Indicators:    []string{"+", "++"},
		LongIndicator: "++",
		Separators:    []rune{'='},
	}))
	res := bindLine(t, p, &cfg, "++verbose +i=7")
	if res.Failed() {
		t.Fatalf("errors = %v", res.Err())
	}
	if !cfg.Verbose || cfg.Int32 != 7 {
		t.Errorf("cfg = %+v", cfg)
	}
}

func TestParseResultErr(t *testing.T) {
	var r ParseResult
	if r.Err() != nil || r.Failed() {
		t.Errorf("empty result: Err = %v, Failed = %v", r.Err(), r.Failed())
	}
	r.add(ParseError{Kind: RequiredOptionValue, Message: "one"}, ParseError{Kind: UnknownError, Message: "two"})
	if !r.Failed() {
		t.Errorf("Failed = false after add")
	}
	if got := r.Err().Error(); got != "one\ntwo" {
		t.Errorf("Err() = %q, want %q", got, "one\ntwo")
	}
	if got := InvalidParameterValue.String(); got != "InvalidParameterValue" {
		t.Errorf("String() = %q", got)
	}
}
