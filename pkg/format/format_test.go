// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"testing"
)

func TestCheckers(t *testing.T) {
	cases := []struct {
		format string
		value  string
		valid  bool
	}{
		{"date", "2020-02-29", true},
		{"date", "2021-02-29", false},
		{"date-time", "2020-02-29T12:00:00Z", true},
		{"date-time", "2020-02-29 12:00:00Z", false},
		{"time", "23:59:60Z", true},
		{"time", "24:00:00Z", false},
		{"duration", "P1Y2M3DT4H5M6S", true},
		{"duration", "P1Y2M3D", true},
		{"duration", "P", false},
		{"email", "foo@example.com", true},
		{"email", "foo@exämple.com", false},
		{"idn-email", "foo@exämple.com", true},
		{"hostname", "example.com", true},
		{"hostname", "exa_mple.com", false},
		{"idn-hostname", "日本語.jp", true},
		{"ipv4", "127.0.0.1", true},
		{"ipv4", "::1", false},
		{"ipv6", "::1", true},
		{"ipv6", "127.0.0.1", false},
		{"uri", "https://example.com/path", true},
		{"uri", "/relative/path", false},
		{"uri-reference", "/relative/path", true},
		{"uri-template", "https://example.com/dict/{term:1}/{term}", true},
		{"uri-template", "https://example.com/{dict{", false},
		{"json-pointer", "/a/b/c", true},
		{"json-pointer", "a/b", false},
		{"relative-json-pointer", "1/a/b", true},
		{"relative-json-pointer", "-1/a", false},
		{"regex", `^[a-z]+$`, true},
		{"regex", `(?=foo)`, false},
		{"uuid", "f81d4fae-7dec-11d0-a765-00a0c91e6bf6", true},
		{"uuid", "not-a-uuid", false},
	}

	for _, c := range cases {
		t.Run(c.format+"/"+c.value, func(t *testing.T) {
			check, ok := Lookup(c.format)
			if !ok {
				t.Fatalf("no checker registered for format %q", c.format)
			}
			err := check(c.value)
			if (err == nil) != c.valid {
				t.Errorf("check(%q) for format %q: err=%v, want valid=%v", c.value, c.format, err, c.valid)
			}
		})
	}
}

func TestLookupUnknownFormat(t *testing.T) {
	if _, ok := Lookup("not-a-real-format"); ok {
		t.Fatal("Lookup should report false for unregistered formats")
	}
}

func TestRegisterCustomFormat(t *testing.T) {
	Register("even-digits", func(s string) error {
		if len(s)%2 != 0 {
			return fmt.Errorf("%q has an odd number of digits", s)
		}
		return nil
	})
	check, ok := Lookup("even-digits")
	if !ok {
		t.Fatal("expected custom format to be registered")
	}
	if err := check("1234"); err != nil {
		t.Errorf("check(1234) = %v, want nil", err)
	}
	if err := check("123"); err == nil {
		t.Error("check(123) = nil, want error")
	}
}
