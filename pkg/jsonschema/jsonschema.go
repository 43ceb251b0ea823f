// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package jsonschema is the public entry point: Build compiles a schema
// document into a reusable Validator, whose IsValid/IterErrors/Apply
// methods check instances against it (spec.md §6). Grounded on the
// teacher's pkg/jsonschema.New (json.Unmarshal into a *schema.Schema),
// generalized from "decode one JSON document" into "resolve the
// document's full reference graph (internal/schema, internal/resolver),
// lower it into an arena (internal/compiler), and wrap an evaluator
// (internal/eval)" — the three stages spec.md §4 describes as Build.
package jsonschema

import (
	"fmt"
	"net/url"

	motmedelErrors "github.com/Motmedel/utils_go/pkg/errors"

	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/eval"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
	"github.com/shiftjson/jsonschema/internal/schema"
	"github.com/shiftjson/jsonschema/pkg/format"
	"github.com/shiftjson/jsonschema/pkg/output"
	"github.com/shiftjson/jsonschema/pkg/retrieve"
)

// Draft re-exports internal/schema.Draft so callers can name a draft
// hint without importing an internal package.
type Draft = schema.Draft

const (
	DraftUnknown = schema.DraftUnknown
	Draft4       = schema.Draft4
	Draft6       = schema.Draft6
	Draft7       = schema.Draft7
	Draft2019    = schema.Draft2019
	Draft2020    = schema.Draft2020
)

// FormatMode re-exports pkg/format.Mode.
type FormatMode = format.Mode

const (
	FormatOff      = format.Off
	FormatAnnotate = format.Annotate
	FormatAssert   = format.Assert
)

// Options configures Build (spec.md §6's Options).
type Options struct {
	// DraftHint names the draft to assume when a schema document has no
	// "$schema" keyword. Defaults to Draft7.
	DraftHint Draft
	// BaseURI is the base URI of the root schema document, used to
	// resolve any relative "$ref"/"$id" it contains. Defaults to the
	// empty URI.
	BaseURI string
	// Retriever fetches external schema resources named by "$ref" but
	// not supplied via Preregistered. A nil Retriever makes any
	// unresolved external reference a Build error.
	Retriever retrieve.Retriever
	// Preregistered seeds the registry with schema documents the caller
	// already has in hand, keyed by base URI string, so Build never
	// calls Retriever for them.
	Preregistered map[string]jsonvalue.Value
	// FormatMode controls whether "format" is asserted, annotated, or
	// skipped. Defaults to FormatAnnotate.
	FormatMode FormatMode
}

// Validator is a schema compiled once and checked against many
// instances (spec.md §4.5/§6).
type Validator struct {
	result *compiler.Result
	ev     *eval.Evaluator
}

// Build resolves root's reference graph, compiles it, and returns a
// Validator ready to check instances.
func Build(root jsonvalue.Value, opts Options) (*Validator, error) {
	var baseURI *url.URL
	if opts.BaseURI != "" {
		u, err := url.Parse(opts.BaseURI)
		if err != nil {
			return nil, motmedelErrors.NewWithTrace(fmt.Errorf("jsonschema: invalid base URI %q: %w", opts.BaseURI, err))
		}
		baseURI = u
	}

	reg, err := schema.Build(root, schema.BuildOptions{
		DraftHint:     opts.DraftHint,
		Retriever:     opts.Retriever,
		Preregistered: opts.Preregistered,
		BaseURI:       baseURI,
	})
	if err != nil {
		return nil, motmedelErrors.NewWithTrace(err)
	}

	rootURI := baseURI
	if rootURI == nil {
		rootURI = &url.URL{}
	}
	res := reg.Lookup(rootURI)
	if res == nil {
		return nil, motmedelErrors.NewWithTrace(fmt.Errorf("jsonschema: root resource %q not registered", rootURI))
	}

	result, err := compiler.Compile(reg, resolver.Location{Resource: res}, compiler.Options{FormatMode: opts.FormatMode})
	if err != nil {
		return nil, err
	}

	return &Validator{result: result, ev: eval.New(result, opts.FormatMode)}, nil
}

// MustBuild is Build, panicking on error — for package-level validators
// built from a constant schema document at init time.
func MustBuild(root jsonvalue.Value, opts Options) *Validator {
	v, err := Build(root, opts)
	if err != nil {
		panic(err)
	}
	return v
}

// IsValid reports whether instance satisfies v's schema.
func (v *Validator) IsValid(instance jsonvalue.Value) bool {
	return v.ev.IsValid(v.result.Root, instance)
}

// IterErrors returns every validation failure against instance, in
// document-evaluation order, or nil if instance is valid.
func (v *Validator) IterErrors(instance jsonvalue.Value) []*output.ValidationError {
	return v.ev.IterErrors(v.result.Root, instance)
}

// Apply validates instance and returns the "basic" output format
// (spec.md §6).
func (v *Validator) Apply(instance jsonvalue.Value) *output.BasicOutput {
	return v.ev.Apply(v.result.Root, instance)
}

// Validate checks instance and returns an error aggregating every
// failure (output.ValidationErrors), or nil if instance is valid — the
// shape an idiomatic Go caller reaches for before iterating errors
// individually.
func (v *Validator) Validate(instance jsonvalue.Value) error {
	errs := v.IterErrors(instance)
	if len(errs) == 0 {
		return nil
	}
	return &output.ValidationErrors{Errs: errs}
}

// IsValid is a one-shot convenience: parse schemaDoc, build a Validator
// with default options, and check instanceDoc against it.
func IsValid(schemaDoc, instanceDoc []byte) (bool, error) {
	s, err := jsonvalue.Parse(schemaDoc)
	if err != nil {
		return false, motmedelErrors.NewWithTrace(fmt.Errorf("jsonschema: parsing schema: %w", err))
	}
	i, err := jsonvalue.Parse(instanceDoc)
	if err != nil {
		return false, motmedelErrors.NewWithTrace(fmt.Errorf("jsonschema: parsing instance: %w", err))
	}
	v, err := Build(s, Options{})
	if err != nil {
		return false, err
	}
	return v.IsValid(i), nil
}
