// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package coerce

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

var (
	// ErrNoValue is returned when a non-boolean target gets no value.
	ErrNoValue = errors.New("a value is required")
	// ErrUnknownType is returned for custom types without a registered
	// handler.
	ErrUnknownType = errors.New("no handler registered for type")
	ErrInvalidPath = errors.New("invalid path")
	ErrNotExist    = errors.New("path does not exist")
)

// ValueError reports a value that could not be coerced.
type ValueError struct {
	Name  string
	Value string
	Type  Type
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("invalid %s value %q for %q: %v", e.Type, e.Value, e.Name, e.Err)
}

func (e *ValueError) Unwrap() error {
	return e.Err
}

// Target describes what a value is being coerced for.
type Target struct {
	// Name is the option or parameter name, passed to custom handlers.
	Name string
	Type Type
	// GoType selects the handler for Custom targets.
	GoType reflect.Type
	// Required enables existence checks for File and Dir targets.
	Required bool
	// Quoted reports that the value was written in quotation marks. A quoted
	// empty value is kept for String targets.
	Quoted bool
}

// Coercer converts argument text using a culture, a time zone and a registry
// of custom handlers.
type Coercer struct {
	Culture  Culture
	Location *time.Location
	Registry *Registry
}

// New returns a Coercer. A nil loc means time.Local and a nil reg means an
// empty NewRegistry.
func New(c Culture, loc *time.Location, reg *Registry) *Coercer {
	if loc == nil {
		loc = time.Local
	}
	if reg == nil {
		reg = NewRegistry()
	}
	return &Coercer{Culture: c, Location: loc, Registry: reg}
}

// Valid reports whether value can be coerced for tgt.
func (c *Coercer) Valid(tgt Target, value string, hasValue bool) bool {
	_, err := c.Coerce(tgt, value, hasValue)
	return err == nil
}

// Coerce validates value for tgt and converts it. A missing or blank value is
// only accepted for Bool targets, where it yields true, and as a quoted empty
// String. Errors are *ValueError.
func (c *Coercer) Coerce(tgt Target, value string, hasValue bool) (any, error) {
	v, err := c.coerce(tgt, value, hasValue)
	if err != nil {
		return nil, &ValueError{Name: tgt.Name, Value: value, Type: tgt.Type, Err: err}
	}
	return v, nil
}

func (c *Coercer) coerce(tgt Target, value string, hasValue bool) (any, error) {
	if !hasValue || strings.TrimSpace(value) == "" {
		if tgt.Type == Bool {
			return true, nil
		}
		if hasValue && value == "" && tgt.Quoted && tgt.Type == String {
			return "", nil
		}
		return nil, ErrNoValue
	}

	switch tgt.Type {
	case Bool:
		switch {
		case IsTrue(value):
			return true, nil
		case IsFalse(value):
			return false, nil
		}
		return nil, errors.New("not a boolean literal")

	case Char:
		if utf8.RuneCountInString(value) != 1 {
			return nil, errors.New("must be a single character")
		}
		r, _ := utf8.DecodeRuneInString(value)
		return r, nil

	case String:
		return value, nil

	case DateTime:
		return c.parseTime(value)

	case Int16:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 16)
		if err != nil {
			return nil, err
		}
		return int16(n), nil
	case Int32:
		n, err := strconv.ParseInt(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return nil, err
		}
		return int32(n), nil
	case Int64:
		return strconv.ParseInt(strings.TrimSpace(value), 10, 64)

	case Uint16:
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 16)
		if err != nil {
			return nil, err
		}
		return uint16(n), nil
	case Uint32:
		n, err := strconv.ParseUint(strings.TrimSpace(value), 10, 32)
		if err != nil {
			return nil, err
		}
		return uint32(n), nil
	case Uint64:
		return strconv.ParseUint(strings.TrimSpace(value), 10, 64)

	case Float32:
		f, err := strconv.ParseFloat(c.culture().normalizeNumber(value), 32)
		if err != nil {
			return nil, err
		}
		return float32(f), nil
	case Float64:
		return strconv.ParseFloat(c.culture().normalizeNumber(value), 64)

	case File:
		if err := checkFileName(value); err != nil {
			return nil, err
		}
		if tgt.Required {
			fi, err := os.Stat(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrNotExist, value)
			}
			if fi.IsDir() {
				return nil, fmt.Errorf("%s is a directory", value)
			}
		}
		return FileName(value), nil

	case Dir:
		if err := checkPath(value); err != nil {
			return nil, err
		}
		if tgt.Required {
			fi, err := os.Stat(value)
			if err != nil {
				return nil, fmt.Errorf("%w: %s", ErrNotExist, value)
			}
			if !fi.IsDir() {
				return nil, fmt.Errorf("%s is not a directory", value)
			}
		}
		return DirName(value), nil

	case URI:
		return parseURI(value)

	case Custom:
		h, ok := c.Registry.Lookup(tgt.GoType)
		if !ok {
			return nil, fmt.Errorf("%w %v", ErrUnknownType, tgt.GoType)
		}
		if !h.Valid(tgt.Name, value, tgt.Required) {
			return nil, errors.New("rejected by custom type handler")
		}
		return h.Get(tgt.Name, value)
	}
	return nil, fmt.Errorf("unsupported type %v", tgt.Type)
}

func (c *Coercer) culture() Culture {
	if c.Culture.Decimal == 0 && len(c.Culture.DateLayouts) == 0 {
		return Invariant()
	}
	return c.Culture
}

func (c *Coercer) parseTime(value string) (time.Time, error) {
	loc := c.Location
	if loc == nil {
		loc = time.Local
	}
	value = strings.TrimSpace(value)
	cul := c.culture()
	for _, layout := range cul.DateLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return dateparse.ParseIn(value, loc, dateparse.PreferMonthFirst(cul.MonthFirst))
}

// invalidPathChars are rejected on every platform so that a path accepted
// here is portable.
const invalidPathChars = `<>"|?*`

func checkPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("%w: empty", ErrInvalidPath)
	}
	for _, r := range p {
		if r < 0x20 || strings.ContainsRune(invalidPathChars, r) {
			return fmt.Errorf("%w: character %q", ErrInvalidPath, r)
		}
	}
	return nil
}

func checkFileName(p string) error {
	if err := checkPath(p); err != nil {
		return err
	}
	if strings.HasSuffix(p, "/") || strings.HasSuffix(p, string(filepath.Separator)) {
		return fmt.Errorf("%w: missing file name", ErrInvalidPath)
	}
	return nil
}

func parseURI(s string) (*url.URL, error) {
	if strings.ContainsAny(s, "\\ \t\r\n") {
		return nil, errors.New("not a well-formed URI")
	}
	u, err := url.Parse(s)
	if err != nil {
		return nil, err
	}
	return u, nil
}
