// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package coerce converts argument text into typed values.
//
// The set of built-in types is closed: booleans, characters, strings,
// date-times, signed and unsigned integers of 16, 32 and 64 bits, single and
// double precision floats, file and directory paths, and URIs. Anything else
// is a Custom type and is handled by a Registry.
package coerce

import (
	"fmt"
	"net/url"
	"reflect"
	"strings"
	"time"
)

// Type identifies an entry of the coercion table.
type Type int

const (
	Invalid Type = iota
	Bool
	Char
	String
	DateTime
	Float64
	Int16
	Int32
	Int64
	Uint16
	Uint32
	Uint64
	Float32
	File
	Dir
	URI
	Custom
)

var typeNames = map[Type]string{
	Bool:     "bool",
	Char:     "char",
	String:   "string",
	DateTime: "datetime",
	Float64:  "double",
	Int16:    "int16",
	Int32:    "int32",
	Int64:    "int64",
	Uint16:   "uint16",
	Uint32:   "uint32",
	Uint64:   "uint64",
	Float32:  "single",
	File:     "file",
	Dir:      "dir",
	URI:      "uri",
	Custom:   "custom",
}

// aliases accepted by ParseType in addition to the canonical names.
var typeAliases = map[string]Type{
	"boolean":   Bool,
	"rune":      Char,
	"date":      DateTime,
	"time":      DateTime,
	"float64":   Float64,
	"float":     Float64,
	"int":       Int64,
	"uint":      Uint64,
	"float32":   Float32,
	"path":      File,
	"directory": Dir,
	"url":       URI,
}

func (t Type) String() string {
	if s, ok := typeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("Type(%d)", int(t))
}

// ParseType returns the built-in type called name. Custom is never returned.
func ParseType(name string) (Type, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for t, s := range typeNames {
		if s == name && t != Custom {
			return t, true
		}
	}
	t, ok := typeAliases[name]
	return t, ok
}

// FileName is a path to a file. Fields of this type coerce as File.
type FileName string

// DirName is a path to a directory. Fields of this type coerce as Dir.
type DirName string

var (
	timeType     = reflect.TypeFor[time.Time]()
	urlType      = reflect.TypeFor[url.URL]()
	urlPtrType   = reflect.TypeFor[*url.URL]()
	fileNameType = reflect.TypeFor[FileName]()
	dirNameType  = reflect.TypeFor[DirName]()
)

// GoType returns the Go type produced by coercing to t, or nil for Custom.
func GoType(t Type) reflect.Type {
	switch t {
	case Bool:
		return reflect.TypeFor[bool]()
	case Char:
		return reflect.TypeFor[rune]()
	case String:
		return reflect.TypeFor[string]()
	case DateTime:
		return timeType
	case Float64:
		return reflect.TypeFor[float64]()
	case Int16:
		return reflect.TypeFor[int16]()
	case Int32:
		return reflect.TypeFor[int32]()
	case Int64:
		return reflect.TypeFor[int64]()
	case Uint16:
		return reflect.TypeFor[uint16]()
	case Uint32:
		return reflect.TypeFor[uint32]()
	case Uint64:
		return reflect.TypeFor[uint64]()
	case Float32:
		return reflect.TypeFor[float32]()
	case File:
		return fileNameType
	case Dir:
		return dirNameType
	case URI:
		return urlPtrType
	}
	return nil
}

// TypeOf maps a Go type to its table entry. Pointer types are dereferenced.
// Named types other than time.Time, url.URL, FileName and DirName map to
// Custom, as do unnamed composite types; ok is false for unnamed kinds with
// no table entry, such as int8 or func types.
func TypeOf(t reflect.Type) (typ Type, ok bool) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	switch t {
	case timeType:
		return DateTime, true
	case urlType:
		return URI, true
	case fileNameType:
		return File, true
	case dirNameType:
		return Dir, true
	}
	if t.PkgPath() != "" {
		return Custom, true
	}
	switch t.Kind() {
	case reflect.Bool:
		return Bool, true
	case reflect.String:
		return String, true
	case reflect.Int16:
		return Int16, true
	case reflect.Int32:
		return Int32, true
	case reflect.Int64, reflect.Int:
		return Int64, true
	case reflect.Uint16:
		return Uint16, true
	case reflect.Uint32:
		return Uint32, true
	case reflect.Uint64, reflect.Uint:
		return Uint64, true
	case reflect.Float32:
		return Float32, true
	case reflect.Float64:
		return Float64, true
	case reflect.Int8, reflect.Uint8, reflect.Uintptr, reflect.Complex64, reflect.Complex128,
		reflect.Chan, reflect.Func, reflect.UnsafePointer, reflect.Interface, reflect.Invalid:
		return Invalid, false
	}
	return Custom, true
}

var (
	trueLiterals  = []string{"y", "yes", "true", "on", "1"}
	falseLiterals = []string{"n", "no", "false", "off", "0"}
)

// IsTrue reports whether s is one of y, yes, true, on or 1, ignoring case.
func IsTrue(s string) bool {
	return hasFold(trueLiterals, s)
}

// IsFalse reports whether s is one of n, no, false, off or 0, ignoring case.
func IsFalse(s string) bool {
	return hasFold(falseLiterals, s)
}

// IsBoolLiteral reports whether s is a true or false literal.
func IsBoolLiteral(s string) bool {
	return IsTrue(s) || IsFalse(s)
}

func hasFold(list []string, s string) bool {
	for _, v := range list {
		if strings.EqualFold(v, s) {
			return true
		}
	}
	return false
}
