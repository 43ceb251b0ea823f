// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonschema

import (
	"strings"
	"testing"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
)

func TestIsValid_MaxLength(t *testing.T) {
	ok, err := IsValid([]byte(`{"type":"string","maxLength":3}`), []byte(`"abcd"`))
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if ok {
		t.Error("want invalid: string exceeds maxLength")
	}
}

func TestIsValid_IntegerVsFloat(t *testing.T) {
	ok, err := IsValid([]byte(`{"type":"integer"}`), []byte(`1.0`))
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if !ok {
		t.Error("want valid: 1.0 is an integral float, satisfies type integer")
	}

	ok, err = IsValid([]byte(`{"type":"integer"}`), []byte(`1.5`))
	if err != nil {
		t.Fatalf("IsValid: %v", err)
	}
	if ok {
		t.Error("want invalid: 1.5 is not an integer")
	}
}

func TestBuild_RecursiveRef(t *testing.T) {
	v, err := Build(mustParse(t, `{
		"type": "object",
		"properties": {
			"name": {"type": "string"},
			"self": {"$ref": "#"}
		}
	}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !v.IsValid(mustParse(t, `{"name":"a","self":{"name":"b","self":{"name":"c"}}}`)) {
		t.Error("want valid: recursive self-reference three levels deep")
	}
}

func TestValidator_AdditionalPropertiesFalse(t *testing.T) {
	v, err := Build(mustParse(t, `{
		"type": "object",
		"properties": {"a": {"type": "string"}},
		"additionalProperties": false
	}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if v.IsValid(mustParse(t, `{"a":"x","b":1}`)) {
		t.Error("want invalid: b is not declared and additionalProperties is false")
	}
}

func TestValidator_OneOfNotValid(t *testing.T) {
	v, err := Build(mustParse(t, `{
		"oneOf": [{"type": "string"}, {"type": "boolean"}]
	}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	errs := v.IterErrors(mustParse(t, `1`))
	if len(errs) == 0 {
		t.Fatal("want at least one error: neither oneOf branch matches")
	}
}

func TestValidator_OneOfMultipleValid(t *testing.T) {
	v, err := Build(mustParse(t, `{
		"oneOf": [{"type": "number"}, {"type": "integer"}]
	}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	errs := v.IterErrors(mustParse(t, `4`))
	if len(errs) == 0 {
		t.Fatal("want an error: 4 satisfies both oneOf branches")
	}
	found := false
	for _, e := range errs {
		if strings.Contains(e.Message, "one") || strings.Contains(e.KeywordLocation, "oneOf") {
			found = true
		}
	}
	if !found {
		t.Errorf("want an error referencing oneOf, got %v", errs)
	}
}

func TestValidator_UnevaluatedProperties(t *testing.T) {
	v, err := Build(mustParse(t, `{
		"allOf": [{"properties": {"a": {"type": "string"}}}],
		"unevaluatedProperties": false
	}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if !v.IsValid(mustParse(t, `{"a":"x"}`)) {
		t.Error("want valid: a is evaluated by the allOf branch")
	}
	if v.IsValid(mustParse(t, `{"a":"x","b":1}`)) {
		t.Error("want invalid: b is unevaluated")
	}
}

func TestValidator_Validate(t *testing.T) {
	v, err := Build(mustParse(t, `{"type":"string"}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := v.Validate(mustParse(t, `"ok"`)); err != nil {
		t.Errorf("Validate: got error %v, want nil", err)
	}
	if err := v.Validate(mustParse(t, `1`)); err == nil {
		t.Error("Validate: want an error for a non-string instance")
	}
}

func TestValidator_Apply(t *testing.T) {
	v, err := Build(mustParse(t, `{"type":"string"}`), Options{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	out := v.Apply(mustParse(t, `1`))
	if out.Valid {
		t.Error("Apply: want Valid=false")
	}
	if len(out.Errors) == 0 {
		t.Error("Apply: want at least one error in the basic output")
	}
}

func TestBuild_InvalidBaseURI(t *testing.T) {
	_, err := Build(mustParse(t, `{"type":"string"}`), Options{BaseURI: "://not-a-uri"})
	if err == nil {
		t.Error("want an error for a malformed base URI")
	}
}

func mustParse(t *testing.T, doc string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing %q: %v", doc, err)
	}
	return v
}
