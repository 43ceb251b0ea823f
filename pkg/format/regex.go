// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"

	"github.com/shiftjson/jsonschema/internal/regexsyntax"
)

// regexFormat requires a pattern this validator's own regex engine can
// compile — routed through internal/regexsyntax rather than
// regexp/syntax directly, so "format": "regex" rejects exactly the
// lookaround constructs that "pattern" would also reject at compile
// time (spec.md §9).
func regexFormat(s string) error {
	if _, err := regexsyntax.Compile(s); err != nil {
		return fmt.Errorf("%q is not a valid regexp: %w", s, err)
	}
	return nil
}
