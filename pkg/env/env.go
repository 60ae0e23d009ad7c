// Copyright (c) 2025 AUTHORS All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package env writes bound values as an environment file that a shell can
// source.
package env

import (
	"fmt"
	"io"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/kballard/go-shellquote"
)

// Write writes vals as sorted NAME=value lines. Names are upper-cased with
// dashes turned into underscores and prefixed by prefix. Nested maps, such as
// the values of a selected command, are flattened under their key.
func Write(w io.Writer, prefix string, vals map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(vals)) {
		name := Name(prefix, k)
		var s string
		switch v := vals[k].(type) {
		case map[string]any:
			if err := Write(w, name+"_", v); err != nil {
				return err
			}
			continue
		case nil:
			continue
		case time.Time:
			s = v.Format(time.RFC3339)
		default:
			s = fmt.Sprint(v)
		}
		if _, err := fmt.Fprintf(w, "%s=%s\n", name, shellquote.Join(s)); err != nil {
			return fmt.Errorf("failed to write env: %w", err)
		}
	}
	return nil
}

// Name returns the variable name for key.
func Name(prefix, key string) string {
	r := strings.NewReplacer("-", "_", ".", "_", " ", "_")
	return strings.ToUpper(prefix + r.Replace(key))
}
