// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package jsonvalue

import "testing"

func TestParseDuplicateKeyRejected(t *testing.T) {
	_, err := Parse([]byte(`{"a":1,"a":2}`))
	if err == nil {
		t.Fatal("expected error for duplicate key")
	}
}

func TestParseIntFloatDistinct(t *testing.T) {
	vi, err := Parse([]byte(`1`))
	if err != nil {
		t.Fatal(err)
	}
	vf, err := Parse([]byte(`1.0`))
	if err != nil {
		t.Fatal(err)
	}
	if vi.Kind != KindInt {
		t.Errorf("1 decoded as Kind %v, want KindInt", vi.Kind)
	}
	if vf.Kind != KindFloat {
		t.Errorf("1.0 decoded as Kind %v, want KindFloat", vf.Kind)
	}
	if !Equal(vi, vf) {
		t.Error("1 and 1.0 should be structurally equal")
	}
	if !vi.IsInteger() || !vf.IsInteger() {
		t.Error("both 1 and 1.0 should satisfy IsInteger")
	}
}

func TestParseOrderPreserved(t *testing.T) {
	v, err := Parse([]byte(`{"z":1,"a":2,"m":3}`))
	if err != nil {
		t.Fatal(err)
	}
	got := v.Names()
	want := []string{"z", "a", "m"}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Names()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestUnicodeScalarStringLength(t *testing.T) {
	// U+1F4A9 PILE OF POO is one scalar value despite being a
	// surrogate pair in the JSON \u escape form and 4 UTF-8 bytes.
	v, err := Parse([]byte(`"💩"`))
	if err != nil {
		t.Fatal(err)
	}
	if got := []rune(v.Str); len(got) != 1 {
		t.Errorf("got %d runes, want 1", len(got))
	}
}

func TestEqualArraysOrderedObjectsNot(t *testing.T) {
	a, _ := Parse([]byte(`[1,2]`))
	b, _ := Parse([]byte(`[2,1]`))
	if Equal(a, b) {
		t.Error("arrays with different order should not be equal")
	}

	o1, _ := Parse([]byte(`{"a":1,"b":2}`))
	o2, _ := Parse([]byte(`{"b":2,"a":1}`))
	if !Equal(o1, o2) {
		t.Error("objects with same members in different order should be equal")
	}
}
