// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"
)

// uriOrIRI is an enum
type uriOrIRI int

const (
	isURI uriOrIRI = iota + 1
	isIRI
)

// uriFormat requires a valid absolute URI.
func uriFormat(s string) error {
	return uriIriFormat(s, isURI)
}

// iriFormat requires a valid absolute IRI.
func iriFormat(s string) error {
	return uriIriFormat(s, isIRI)
}

// uriIriFormat checks for an absolute URI or IRI.
func uriIriFormat(s string, ui uriOrIRI) error {
	uri, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%q is not a valid URI: %v", s, err)
	}
	if !uri.IsAbs() {
		return fmt.Errorf("%q is not an absolute URI", s)
	}
	if !checkURI(uri, ui) {
		return fmt.Errorf("%q failed JSON schema URI checks", s)
	}
	return nil
}

// uriReferenceFormat requires a valid URI, which may be a reference.
func uriReferenceFormat(s string) error {
	return uriIriReferenceFormat(s, isURI)
}

// iriReferenceFormat requires a valid IRI, which may be a reference.
func iriReferenceFormat(s string) error {
	return uriIriReferenceFormat(s, isIRI)
}

// uriIriReferenceFormat checks for a URI or IRI, which may be a reference.
func uriIriReferenceFormat(s string, ui uriOrIRI) error {
	// This keeps the testsuite happy, and avoids parsing what looks
	// like an absolute URI as a relative one.
	if strings.HasPrefix(s, `\\`) {
		return fmt.Errorf(`%q starts with \\`, s)
	}

	uri, err := url.Parse(s)
	if err != nil {
		return fmt.Errorf("%q is not a valid URI: %v", s, err)
	}
	if !checkURI(uri, ui) {
		return fmt.Errorf("%q failed JSON schema URI checks", s)
	}
	return nil
}

// checkURI reports whether the URI is valid for the JSON schema testsuite.
func checkURI(uri *url.URL, ui uriOrIRI) bool {
	// An IPv6 address should be in square brackets; otherwise the
	// colons can confuse the parse.
	if addr, err := netip.ParseAddr(uri.Host); err == nil && addr.Is6() {
		return false
	}

	// The testsuite does not want backslashes in fragments.
	if strings.Contains(uri.Fragment, `\`) {
		return false
	}

	// IRIs permit the broader Unicode repertoire everywhere below; URIs
	// are restricted to the unreserved/reserved ASCII subset in the path.
	if ui == isIRI {
		return true
	}

	for i := range uri.RawPath {
		c := uri.RawPath[i]
		if ('a' <= c && c <= 'z') || ('A' <= c && c <= 'Z') || ('0' <= c && c <= '9') {
			continue
		}
		switch c {
		case '-', '_', '.', '~', '@', '&', '=', '+', '$', '/', ';', ',', '(', ')', '#':
			continue
		default:
			return false
		}
	}

	return true
}

// uriTemplateFormat requires a syntactically valid RFC6570 URI
// Template: a URI-reference in which "{" and "}" delimit expressions
// whose content is a comma-separated list of varnames (with optional
// operators and modifiers), and braces never nest or go unbalanced.
func uriTemplateFormat(s string) error {
	depth := 0
	var expr strings.Builder
	for _, r := range s {
		switch r {
		case '{':
			if depth != 0 {
				return fmt.Errorf("%q is not a valid URI template: nested '{'", s)
			}
			depth = 1
			expr.Reset()
		case '}':
			if depth != 1 {
				return fmt.Errorf("%q is not a valid URI template: unmatched '}'", s)
			}
			depth = 0
			if !validTemplateExpression(expr.String()) {
				return fmt.Errorf("%q is not a valid URI template: bad expression %q", s, expr.String())
			}
		default:
			if depth == 1 {
				expr.WriteRune(r)
			}
		}
	}
	if depth != 0 {
		return fmt.Errorf("%q is not a valid URI template: unterminated '{'", s)
	}
	return nil
}

// validTemplateExpression checks the content of a single {...} block
// per RFC6570 §2.2: an optional operator, then a comma-separated list
// of varspecs (varname with an optional ":"prefix-length or "*" modifier).
func validTemplateExpression(expr string) bool {
	if expr == "" {
		return false
	}
	if strings.ContainsAny(expr[:1], "+#./;?&=,!@|") {
		expr = expr[1:]
	}
	if expr == "" {
		return false
	}
	for _, varspec := range strings.Split(expr, ",") {
		if !validVarspec(varspec) {
			return false
		}
	}
	return true
}

func validVarspec(varspec string) bool {
	varspec = strings.TrimSuffix(varspec, "*")
	if idx := strings.Index(varspec, ":"); idx >= 0 {
		prefix := varspec[idx+1:]
		if prefix == "" {
			return false
		}
		for i := range len(prefix) {
			if prefix[i] < '0' || prefix[i] > '9' {
				return false
			}
		}
		varspec = varspec[:idx]
	}
	if varspec == "" {
		return false
	}
	for i := range len(varspec) {
		c := varspec[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		case c == '_', c == '.', c == '%':
		default:
			return false
		}
	}
	return true
}
