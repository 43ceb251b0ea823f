// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package juri parses, joins, and normalizes the URIs used to identify
// schema resources, grounded on the ad hoc net/url usage in the
// teacher's draft202012 builder (resolveID): parse, reject a non-empty
// fragment on $id, and resolve relative references against the current
// base. This package generalizes that into the normalized-comparison
// contract spec.md §4.1 requires.
package juri

import (
	"fmt"
	"net/url"
	"strings"
)

// Parse parses s as a URI reference. It never fails on a syntactically
// valid URI reference; malformed input is reported as an error the
// caller should turn into a CompilationInvalidReference failure.
func Parse(s string) (*url.URL, error) {
	u, err := url.Parse(s)
	if err != nil {
		return nil, fmt.Errorf("juri: parse %q: %w", s, err)
	}
	return u, nil
}

// Join resolves ref against base, the way a schema's $ref is resolved
// against its enclosing resource's base URI.
func Join(base, ref *url.URL) *url.URL {
	if base == nil {
		return ref
	}
	return base.ResolveReference(ref)
}

// Normalize returns the canonical form of u: case-folded scheme and
// host, percent-encoding canonicalized by net/url's own escaping,
// dot-segments removed from the path, and an empty fragment treated as
// no fragment at all.
func Normalize(u *url.URL) *url.URL {
	n := *u
	n.Scheme = strings.ToLower(n.Scheme)
	if n.Host != "" {
		n.Host = strings.ToLower(n.Host)
	}
	n.Path = removeDotSegments(n.Path)
	if n.Fragment == "" {
		n.Fragment = ""
		n.RawFragment = ""
	}
	return &n
}

// removeDotSegments implements RFC 3986 §5.2.4.
func removeDotSegments(path string) string {
	if path == "" {
		return path
	}
	var out []string
	absolute := strings.HasPrefix(path, "/")
	for _, seg := range strings.Split(path, "/") {
		switch seg {
		case ".":
			// drop
		case "..":
			if len(out) > 0 {
				out = out[:len(out)-1]
			}
		default:
			out = append(out, seg)
		}
	}
	joined := strings.Join(out, "/")
	if absolute && !strings.HasPrefix(joined, "/") {
		joined = "/" + joined
	}
	return joined
}

// String returns the normalized absolute string form of u, suitable for
// use as a Registry key. Two URIs with equal String results are the same
// resource, per spec.md §3's "byte-equal normalized forms" rule.
func String(u *url.URL) string {
	return Normalize(u).String()
}

// WithFragment returns a copy of u with its fragment replaced.
func WithFragment(u *url.URL, fragment string) *url.URL {
	n := *u
	n.Fragment = fragment
	n.RawFragment = ""
	return &n
}

// Base returns a copy of u with its fragment removed, i.e. the resource
// URI that a fragment-bearing reference points into.
func Base(u *url.URL) *url.URL {
	return WithFragment(u, "")
}

// HasFragment reports whether u carries a non-empty fragment.
func HasFragment(u *url.URL) bool {
	return u.Fragment != ""
}

// IsPointerFragment reports whether fragment looks like a JSON Pointer
// (starts with "/") as opposed to a plain-name anchor.
func IsPointerFragment(fragment string) bool {
	return strings.HasPrefix(fragment, "/")
}
