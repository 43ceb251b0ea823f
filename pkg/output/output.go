// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package output defines the validation result types the evaluator
// driver returns: individual ValidationError values (spec.md §6, §7)
// and the aggregate BasicOutput format. Grounded on the teacher's
// internal/validerr.ValidationError/ValidationErrors — same three JSON
// fields, same "#/a/b" keywordLocation/instanceLocation rendering,
// same AddError prefix-composition trick for building nested locations
// as the recursive evaluator unwinds — generalized with an
// AbsoluteKeywordLocation field (spec.md §6's BasicOutput requires it
// whenever a schema was reached through an external reference) that the
// teacher's single-document validator never needed.
package output

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationError is one basic-output error entry (spec.md §6).
type ValidationError struct {
	Message                 string `json:"error"`
	KeywordLocation         string `json:"keywordLocation"`
	AbsoluteKeywordLocation string `json:"absoluteKeywordLocation,omitempty"`
	InstanceLocation        string `json:"instanceLocation"`
}

// Error implements the error interface.
func (ve *ValidationError) Error() string {
	kl := ve.KeywordLocation
	if kl == "" {
		kl = "#"
	}
	return fmt.Sprintf("%s: %s", kl, ve.Message)
}

// ValidationErrors collects every failure from one evaluation.
type ValidationErrors struct {
	Errs []*ValidationError
}

// Error implements the error interface.
func (ves *ValidationErrors) Error() string {
	if len(ves.Errs) == 1 {
		return ves.Errs[0].Error()
	}
	errs := make([]error, len(ves.Errs))
	for i, ve := range ves.Errs {
		errs[i] = ve
	}
	return errors.Join(errs...).Error()
}

// IsValidationError reports whether err (or something it wraps) is a
// validation failure rather than an operational error (bad schema,
// retrieval failure, depth limit).
func IsValidationError(err error) bool {
	var ve *ValidationError
	var ves *ValidationErrors
	return errors.As(err, &ve) || errors.As(err, &ves)
}

// PrefixKeywordLocation prepends kw to every error's KeywordLocation
// (and AbsoluteKeywordLocation, when set), used as the evaluator
// unwinds from a subschema back through the keyword that descended into
// it — e.g. from "#/type" to "#/properties/name/type" when unwinding
// through "properties"/"name".
func PrefixKeywordLocation(errs []*ValidationError, kw string) []*ValidationError {
	for _, ve := range errs {
		ve.KeywordLocation = prefixPointer(kw, ve.KeywordLocation)
		if ve.AbsoluteKeywordLocation != "" {
			ve.AbsoluteKeywordLocation = prefixAbsolute(kw, ve.AbsoluteKeywordLocation)
		}
	}
	return errs
}

// PrefixInstanceLocation prepends tok to every error's InstanceLocation,
// used as the evaluator unwinds through an object member or array index.
func PrefixInstanceLocation(errs []*ValidationError, tok string) []*ValidationError {
	for _, ve := range errs {
		ve.InstanceLocation = prefixPointer(tok, ve.InstanceLocation)
	}
	return errs
}

func prefixPointer(tok, existing string) string {
	tail := strings.TrimPrefix(existing, "#")
	return "#/" + tok + tail
}

func prefixAbsolute(tok, existing string) string {
	idx := strings.IndexByte(existing, '#')
	if idx < 0 {
		return existing + "#/" + tok
	}
	return existing[:idx] + prefixPointer(tok, existing[idx:])
}

// BasicOutput is the JSON Schema "basic" output format (spec.md §6):
// a top-level valid flag, every failure when invalid, and every
// collected annotation when valid.
type BasicOutput struct {
	Valid       bool              `json:"valid"`
	Errors      []*ValidationError `json:"errors,omitempty"`
	Annotations []Annotation       `json:"annotations,omitempty"`
}

// Annotation records a non-assertive keyword's contribution at one
// location. Only "format" produces annotations; title, description,
// unrecognized keywords and the other annotation keywords are not
// collected.
type Annotation struct {
	KeywordLocation  string `json:"keywordLocation"`
	InstanceLocation string `json:"instanceLocation"`
	Keyword          string `json:"keyword"`
	Value            any    `json:"value"`
}
