// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package eval

import (
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/shiftjson/jsonschema/internal/compiler"
	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/resolver"
	"github.com/shiftjson/jsonschema/internal/schema"
	"github.com/shiftjson/jsonschema/pkg/format"
	"github.com/shiftjson/jsonschema/pkg/output"
)

// testValidator bundles an Evaluator with the root NodeIndex it was
// compiled for, since Evaluator itself is root-agnostic (one arena can
// hold more than one compiled schema).
type testValidator struct {
	*Evaluator
	root compiler.NodeIndex
}

func (tv *testValidator) IsValid(inst jsonvalue.Value) bool {
	return tv.Evaluator.IsValid(tv.root, inst)
}

func (tv *testValidator) IterErrors(inst jsonvalue.Value) []*output.ValidationError {
	return tv.Evaluator.IterErrors(tv.root, inst)
}

func mustEvaluator(t *testing.T, schemaDoc string) *testValidator {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(schemaDoc))
	if err != nil {
		t.Fatalf("parsing schema: %v", err)
	}
	reg, err := schema.Build(v, schema.BuildOptions{BaseURI: &url.URL{}})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	res := reg.Lookup(&url.URL{})
	if res == nil {
		t.Fatalf("root resource not registered")
	}
	result, err := compiler.Compile(reg, resolver.Location{Resource: res}, compiler.Options{FormatMode: format.Assert})
	if err != nil {
		t.Fatalf("compiling: %v", err)
	}
	return &testValidator{Evaluator: New(result, format.Assert), root: result.Root}
}

func mustValue(t *testing.T, doc string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing instance: %v", err)
	}
	return v
}

func TestMaxLength(t *testing.T) {
	v := mustEvaluator(t, `{"type":"string","maxLength":3}`)
	if !v.IsValid(mustValue(t, `"abc"`)) {
		t.Error("want valid for \"abc\"")
	}
	if v.IsValid(mustValue(t, `"abcd"`)) {
		t.Error("want invalid for \"abcd\"")
	}
}

func TestIntegerVsNumberType(t *testing.T) {
	v := mustEvaluator(t, `{"type":"integer"}`)
	if !v.IsValid(mustValue(t, `1`)) {
		t.Error("want valid for 1")
	}
	if !v.IsValid(mustValue(t, `1.0`)) {
		t.Error("want valid for 1.0 (integral float)")
	}
	if v.IsValid(mustValue(t, `1.5`)) {
		t.Error("want invalid for 1.5")
	}
}

func TestRecursiveRef(t *testing.T) {
	v := mustEvaluator(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"children": {"type": "array", "items": {"$ref": "#"}}
		},
		"required": ["name"]
	}`)
	ok := mustValue(t, `{"name":"a","children":[{"name":"b","children":[]}]}`)
	if !v.IsValid(ok) {
		t.Error("want valid nested structure")
	}
	bad := mustValue(t, `{"name":"a","children":[{"children":[]}]}`)
	if v.IsValid(bad) {
		t.Error("want invalid: nested child missing required name")
	}
}

func TestAdditionalPropertiesFalse(t *testing.T) {
	v := mustEvaluator(t, `{
		"type": "object",
		"properties": {"a": {"type": "string"}},
		"additionalProperties": false
	}`)
	if !v.IsValid(mustValue(t, `{"a":"x"}`)) {
		t.Error("want valid: only declared property present")
	}
	if v.IsValid(mustValue(t, `{"a":"x","b":1}`)) {
		t.Error("want invalid: undeclared property b")
	}
}

func TestOneOf(t *testing.T) {
	v := mustEvaluator(t, `{
		"oneOf": [
			{"type": "string"},
			{"type": "number", "multipleOf": 2}
		]
	}`)
	if !v.IsValid(mustValue(t, `"x"`)) {
		t.Error("want valid: matches only the string branch")
	}
	if v.IsValid(mustValue(t, `1`)) {
		t.Error("want invalid: matches neither branch (OneOfNotValid)")
	}

	v2 := mustEvaluator(t, `{
		"oneOf": [
			{"type": "number"},
			{"type": "integer"}
		]
	}`)
	if v2.IsValid(mustValue(t, `4`)) {
		t.Error("want invalid: matches both branches (OneOfMultipleValid)")
	}
}

func TestUnevaluatedProperties(t *testing.T) {
	v := mustEvaluator(t, `{
		"allOf": [
			{"properties": {"a": {"type": "string"}}}
		],
		"unevaluatedProperties": false
	}`)
	if !v.IsValid(mustValue(t, `{"a":"x"}`)) {
		t.Error("want valid: a is evaluated by the allOf branch's properties")
	}
	if v.IsValid(mustValue(t, `{"a":"x","b":1}`)) {
		t.Error("want invalid: b is never evaluated by anything")
	}
}

func TestErrorLocations(t *testing.T) {
	v := mustEvaluator(t, `{
		"type": "object",
		"properties": {"name": {"type": "string"}}
	}`)
	errs := v.IterErrors(mustValue(t, `{"name":1}`))
	if len(errs) != 1 {
		t.Fatalf("got %d errors, want 1: %v", len(errs), errs)
	}
	if got, want := errs[0].KeywordLocation, "#/properties/name/type"; got != want {
		t.Errorf("KeywordLocation = %q, want %q", got, want)
	}
	if got, want := errs[0].InstanceLocation, "#/name"; got != want {
		t.Errorf("InstanceLocation = %q, want %q", got, want)
	}
}

func TestMultipleErrorsShape(t *testing.T) {
	v := mustEvaluator(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"age": {"type": "integer", "minimum": 0}
		},
		"required": ["name", "age"]
	}`)
	errs := v.IterErrors(mustValue(t, `{"name":1,"age":-5}`))

	type loc struct{ KeywordLocation, InstanceLocation string }
	got := make([]loc, len(errs))
	for i, e := range errs {
		got[i] = loc{e.KeywordLocation, e.InstanceLocation}
	}
	want := []loc{
		{"#/properties/name/type", "#/name"},
		{"#/properties/age/minimum", "#/age"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("error locations mismatch (-want +got):\n%s", diff)
	}
}

func TestContainsMinMax(t *testing.T) {
	v := mustEvaluator(t, `{
		"type": "array",
		"contains": {"type": "number", "minimum": 5},
		"minContains": 2
	}`)
	if !v.IsValid(mustValue(t, `[1, 5, 6, 2]`)) {
		t.Error("want valid: two elements satisfy contains")
	}
	if v.IsValid(mustValue(t, `[1, 5, 2]`)) {
		t.Error("want invalid: only one element satisfies contains, need 2")
	}
}

func TestDynamicRefResolvesToRootAnchor(t *testing.T) {
	v := mustEvaluator(t, `{
		"$id": "https://example.com/root",
		"$dynamicAnchor": "node",
		"type": "object",
		"properties": {
			"children": {
				"type": "array",
				"items": {"$dynamicRef": "#node"}
			}
		}
	}`)
	if !v.IsValid(mustValue(t, `{"children":[{"children":[]}]}`)) {
		t.Error("want valid: dynamicRef resolves back to the root schema")
	}
}
