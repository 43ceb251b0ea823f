// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regexsyntax prepares the ECMA 262 regex subset JSON Schema
// uses for "pattern" and "patternProperties" for Go's RE2 engine: patterns
// are passed to RE2 unchanged, and constructs RE2 cannot express
// (lookaround) are rejected instead
// of silently misinterpreting them, per spec.md §9: "Where the native
// engine does not [support lookaround], ... reject the schema at
// compile time with a typed error — never silently accept."
//
// Grounded on the *design*, not the code, of
// _examples/jacoelho-xsd/internal/types/facet_pattern.go: a
// dialect-to-Go-regex translator that records both the original pattern
// and the translated one, and fails ValidateSyntax with a wrapped error
// when translation or compilation fails.
package regexsyntax

import (
	"fmt"
	"regexp"
	"strings"
)

// UnsupportedError reports a regex construct RE2 cannot express.
type UnsupportedError struct {
	Pattern   string
	Construct string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("regexsyntax: pattern %q uses unsupported construct %s (lookaround is not representable in RE2)", e.Pattern, e.Construct)
}

// Translate checks an ECMA-262-subset pattern for RE2 use. It rejects
// lookahead/lookbehind with an *UnsupportedError rather than dropping or
// misinterpreting them, and otherwise returns the pattern unchanged: no
// construct is rewritten.
func Translate(pattern string) (string, error) {
	if err := checkUnsupported(pattern); err != nil {
		return "", err
	}
	return pattern, nil
}

// checkUnsupported scans for (?=...), (?!...), (?<=...), (?<!...), which
// Go's regexp/syntax silently parses differently from ECMA 262 (treating
// "?" specially after "(" is shared, but RE2 has no lookaround
// semantics at all; the construct's opening sequence is unambiguous).
func checkUnsupported(pattern string) error {
	for i := 0; i < len(pattern); i++ {
		if pattern[i] != '(' {
			continue
		}
		if i+2 >= len(pattern) || pattern[i+1] != '?' {
			continue
		}
		rest := pattern[i+2:]
		switch {
		case strings.HasPrefix(rest, "="):
			return &UnsupportedError{Pattern: pattern, Construct: "lookahead (?=...)"}
		case strings.HasPrefix(rest, "!"):
			return &UnsupportedError{Pattern: pattern, Construct: "negative lookahead (?!...)"}
		case strings.HasPrefix(rest, "<="):
			return &UnsupportedError{Pattern: pattern, Construct: "lookbehind (?<=...)"}
		case strings.HasPrefix(rest, "<!"):
			return &UnsupportedError{Pattern: pattern, Construct: "negative lookbehind (?<!...)"}
		}
	}
	return nil
}

// Compile translates and compiles pattern in one step.
func Compile(pattern string) (*regexp.Regexp, error) {
	translated, err := Translate(pattern)
	if err != nil {
		return nil, err
	}
	re, err := regexp.Compile(translated)
	if err != nil {
		return nil, fmt.Errorf("regexsyntax: %q failed to compile: %w", pattern, err)
	}
	return re, nil
}
