// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package resolver

import (
	"testing"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/internal/schema"
	"github.com/shiftjson/jsonschema/pkg/retrieve"
)

func mustBuild(t *testing.T, doc string) *schema.Registry {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing fixture: %v", err)
	}
	reg, err := schema.Build(v, schema.BuildOptions{DraftHint: schema.Draft2020, Retriever: retrieve.Default()})
	if err != nil {
		t.Fatalf("building registry: %v", err)
	}
	return reg
}

func TestResolveJSONPointerRef(t *testing.T) {
	reg := mustBuild(t, `{
		"$id": "https://example.com/schema",
		"$defs": {"positiveInt": {"type": "integer", "minimum": 1}},
		"properties": {"count": {"$ref": "#/$defs/positiveInt"}}
	}`)
	var root *schema.Resource
	for _, r := range reg.All() {
		if r.BaseURI != nil && r.BaseURI.String() == "https://example.com/schema" {
			root = r
			break
		}
	}
	if root == nil {
		t.Fatal("root resource not found")
	}
	from := Location{Resource: root}
	loc, err := Resolve(reg, from, "#/$defs/positiveInt")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	sv, err := loc.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if tv, ok := sv.Lookup("type"); !ok || tv.Str != "integer" {
		t.Errorf("resolved schema = %v, want type integer", sv)
	}
}

func TestResolveAnchorRef(t *testing.T) {
	reg := mustBuild(t, `{
		"$id": "https://example.com/schema",
		"$defs": {"pos": {"$anchor": "positive", "type": "integer", "minimum": 1}},
		"properties": {"count": {"$ref": "#positive"}}
	}`)
	var root *schema.Resource
	for _, r := range reg.All() {
		if r.BaseURI != nil && r.BaseURI.String() == "https://example.com/schema" {
			root = r
			break
		}
	}
	if root == nil {
		t.Fatal("root resource not found")
	}
	from := Location{Resource: root}
	loc, err := Resolve(reg, from, "#positive")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	sv, err := loc.Schema()
	if err != nil {
		t.Fatalf("Schema: %v", err)
	}
	if tv, ok := sv.Lookup("type"); !ok || tv.Str != "integer" {
		t.Errorf("resolved schema = %v, want type integer", sv)
	}
}

func TestResolveDynamicFallsBackToStatic(t *testing.T) {
	reg := mustBuild(t, `{
		"$id": "https://example.com/schema",
		"$defs": {"item": {"$dynamicAnchor": "node", "type": "string"}},
		"$ref": "#/$defs/item"
	}`)
	var root *schema.Resource
	for _, r := range reg.All() {
		if r.BaseURI != nil && r.BaseURI.String() == "https://example.com/schema" {
			root = r
			break
		}
	}
	static, err := Resolve(reg, Location{Resource: root}, "#/$defs/item")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	var scope Scope
	got := ResolveDynamic(scope, "node", static)
	if got.Pointer.String() != static.Pointer.String() {
		t.Errorf("ResolveDynamic with empty scope = %v, want fallback %v", got, static)
	}

	scope = scope.Push(root)
	got = ResolveDynamic(scope, "node", static)
	want := "/$defs/item"
	if got.Pointer.String() != want {
		t.Errorf("ResolveDynamic(%q) = %q, want %q", "node", got.Pointer.String(), want)
	}
}
