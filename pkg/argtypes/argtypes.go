// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package argtypes provides custom argument types for package argbind.
//
// Call Register on a Parser before binding configurations with fields of
// these types, and pass Resolver to schema documents that name them.
package argtypes

import (
	"fmt"
	"reflect"

	"github.com/Masterminds/semver/v3"
	"github.com/gobwas/glob"
	"github.com/google/uuid"
	"github.com/yeetrun/argbind/pkg/argbind"
	"github.com/yeetrun/argbind/pkg/schema"
)

// UUID is an RFC 4122 identifier in any of the forms uuid.Parse accepts.
type UUID = uuid.UUID

// Version is a semantic version. Fields should be *Version.
type Version = semver.Version

// Constraint is a semantic version range such as ">= 1.2, < 2". Fields should
// be *Constraint.
type Constraint = semver.Constraints

// Pattern is a compiled glob in which '*' does not cross '/'.
type Pattern struct {
	glob.Glob
	Source string
}

func (p Pattern) String() string {
	return p.Source
}

// CompilePattern compiles s into a Pattern.
func CompilePattern(s string) (Pattern, error) {
	g, err := glob.Compile(s, '/')
	if err != nil {
		return Pattern{}, fmt.Errorf("invalid pattern %q: %w", s, err)
	}
	return Pattern{Glob: g, Source: s}, nil
}

// Register installs handlers for UUID, *Version, *Constraint and Pattern on
// p.
func Register(p *argbind.Parser) {
	argbind.RegisterType(p, func(_, v string) (UUID, error) {
		return uuid.Parse(v)
	}, nil)
	argbind.RegisterType(p, func(_, v string) (*Version, error) {
		return semver.NewVersion(v)
	}, nil)
	argbind.RegisterType(p, func(_, v string) (*Constraint, error) {
		return semver.NewConstraint(v)
	}, nil)
	argbind.RegisterType(p, func(_, v string) (Pattern, error) {
		return CompilePattern(v)
	}, nil)
}

var names = map[string]reflect.Type{
	"uuid":              reflect.TypeFor[UUID](),
	"semver":            reflect.TypeFor[*Version](),
	"semver-constraint": reflect.TypeFor[*Constraint](),
	"glob":              reflect.TypeFor[Pattern](),
}

// Resolver resolves the document type names uuid, semver, semver-constraint
// and glob.
var Resolver schema.TypeResolver = schema.TypeResolverFunc(func(name string) (reflect.Type, bool) {
	t, ok := names[name]
	return t, ok
})
