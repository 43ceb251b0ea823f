// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package format implements the string checkers behind the "format"
// keyword (spec.md §4.6). Unlike the teacher's pkg/format, which
// registers validators through internal/validator's package-level map
// keyed on an any-typed instance plus a *schema.ValidationState, this
// package's instance type is always a Go string (the only JSON type
// "format" ever applies to per spec.md §4.6 — non-string instances are
// always valid), so each checker here is a plain func(string) error and
// the registry lives in this package directly rather than being poked
// through internal/validator.
package format

import "sync"

// Mode controls how a compiled validator treats the "format" keyword,
// per spec.md §4.6's note that format is "vocabulary-dependent and the
// implementation may choose to assert or merely annotate."
type Mode int

const (
	// Annotate evaluates every registered format but never fails the
	// instance on mismatch; it only contributes the format string as
	// an annotation. This is the default (the zero Mode), matching the
	// 2019-09/2020-12 specification's recommended stance for
	// general-purpose validators.
	Annotate Mode = iota
	// Off skips format validation entirely; "format" is neither
	// evaluated nor recorded as an annotation.
	Off
	// Assert evaluates every registered format and fails the instance
	// when it doesn't match, the draft-07-and-earlier default.
	Assert
)

// Checker reports whether s satisfies a named format, returning a
// descriptive error (not a boolean) when it doesn't, so callers can
// surface the mismatch reason directly in a ValidationError message.
type Checker func(s string) error

var (
	mu         sync.RWMutex
	validators = make(map[string]Checker)
)

func init() {
	Register("date", dateFormat)
	Register("date-time", dateTimeFormat)
	Register("duration", durationFormat)
	Register("email", emailFormat)
	Register("hostname", hostnameFormat)
	Register("idn-email", idnEmailFormat)
	Register("idn-hostname", idnHostnameFormat)
	Register("ipv4", ipv4Format)
	Register("ipv6", ipv6Format)
	Register("iri", iriFormat)
	Register("iri-reference", iriReferenceFormat)
	Register("json-pointer", jsonPointerFormat)
	Register("regex", regexFormat)
	Register("relative-json-pointer", relativeJSONPointerFormat)
	Register("time", timeFormat)
	Register("uri", uriFormat)
	Register("uri-reference", uriReferenceFormat)
	Register("uri-template", uriTemplateFormat)
	Register("uuid", uuidFormat)
}

// Register installs (or overrides) the checker used for a format name.
// Exported so callers can plug in vendor-specific formats the way
// RegisterFormatValidator does in the teacher, per spec.md §4.6's
// "implementations may support additional format values... a validator
// should allow registering custom checkers."
func Register(name string, check Checker) {
	mu.Lock()
	defer mu.Unlock()
	validators[name] = check
}

// Lookup returns the checker registered for name, and whether one
// exists. An unrecognized format name is not an error: per spec.md
// §4.6, an unknown format keyword value must be treated as always
// valid (annotation-only), never as a compile failure.
func Lookup(name string) (Checker, bool) {
	mu.RLock()
	defer mu.RUnlock()
	c, ok := validators[name]
	return c, ok
}
