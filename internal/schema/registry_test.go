// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package schema

import (
	"net/url"
	"testing"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
)

func mustParseDoc(t *testing.T, doc string) jsonvalue.Value {
	t.Helper()
	v, err := jsonvalue.Parse([]byte(doc))
	if err != nil {
		t.Fatalf("parsing %q: %v", doc, err)
	}
	return v
}

func TestBuildRecordsDynamicAnchor(t *testing.T) {
	reg, err := Build(mustParseDoc(t, `{
		"$id": "https://example.com/root",
		"$dynamicAnchor": "node"
	}`), BuildOptions{BaseURI: &url.URL{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := reg.Lookup(mustURL(t, "https://example.com/root"))
	if res == nil {
		t.Fatal("resource not registered")
	}
	found := false
	for _, a := range res.Anchors {
		if a.Dynamic {
			found = true
		}
	}
	if !found {
		t.Error("want a Dynamic anchor recorded for $dynamicAnchor")
	}
}

// Regression test: $recursiveAnchor's value is the JSON boolean true,
// never a string, so it can't go through the same name-keyed lookup as
// $anchor/$dynamicAnchor — a guard that only accepted string values
// silently dropped every $recursiveAnchor.
func TestBuildRecordsRecursiveAnchor(t *testing.T) {
	reg, err := Build(mustParseDoc(t, `{
		"$id": "https://example.com/root",
		"$recursiveAnchor": true
	}`), BuildOptions{BaseURI: &url.URL{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := reg.Lookup(mustURL(t, "https://example.com/root"))
	if res == nil {
		t.Fatal("resource not registered")
	}
	found := false
	for _, a := range res.Anchors {
		if a.Recursive {
			found = true
		}
	}
	if !found {
		t.Error("want a Recursive anchor recorded for $recursiveAnchor: true")
	}
}

func TestBuildSkipsFalseRecursiveAnchor(t *testing.T) {
	reg, err := Build(mustParseDoc(t, `{
		"$id": "https://example.com/root",
		"$recursiveAnchor": false
	}`), BuildOptions{BaseURI: &url.URL{}})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	res := reg.Lookup(mustURL(t, "https://example.com/root"))
	if res == nil {
		t.Fatal("resource not registered")
	}
	for _, a := range res.Anchors {
		if a.Recursive {
			t.Error("want no Recursive anchor recorded for $recursiveAnchor: false")
		}
	}
}

func mustURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parsing URL %q: %v", raw, err)
	}
	return u
}
