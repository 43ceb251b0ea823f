// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"net/netip"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/net/idna"
)

// hostnameFormat requires a valid hostname.
func hostnameFormat(s string) error {
	if !isValidHostname(s, false) {
		return fmt.Errorf("%q is not a valid hostname", s)
	}
	return nil
}

// idnHostnameFormat requires a valid internationalized hostname.
func idnHostnameFormat(s string) error {
	if !isValidHostname(s, true) {
		return fmt.Errorf("%q is not a valid internationalized hostname", s)
	}
	return nil
}

// hostnameProfile is the IDNA profile used for both hostname flavors;
// ToASCII is the cheapest available syntactic check for label length,
// LDH rules and punycode well-formedness shared by both.
var hostnameProfile = sync.OnceValue(func() *idna.Profile {
	return idna.New(idna.ValidateForRegistration())
})

// isValidHostname reports whether s is a valid hostname. If idn is
// true, this permits internationalized hostnames.
func isValidHostname(s string, idn bool) bool {
	if _, err := netip.ParseAddr(s); err == nil {
		// Valid IP address.
		return true
	}

	// Underscores are permitted by idna but rejected here, matching
	// the JSON Schema test suite's hostname expectations.
	if strings.Contains(s, "_") {
		return false
	}

	if !idn {
		for i := range len(s) {
			if s[i]&0x80 != 0 {
				return false
			}
		}
	} else {
		// Permit all stops (RFC3490 section 3.1).
		s = strings.ReplaceAll(s, "。", ".")
		s = strings.ReplaceAll(s, "．", ".")
		s = strings.ReplaceAll(s, "｡", ".")

		// RFC5892 rules the idna package doesn't itself check.
		var last, nextMustBe rune
		var nextMustBeGreek bool
		for _, c := range s {
			if nextMustBe != 0 && nextMustBe != c {
				return false
			}
			nextMustBe = 0

			if nextMustBeGreek {
				if !unicode.Is(unicode.Greek, c) {
					return false
				}
			}
			nextMustBeGreek = false

			switch c {
			case 'ـ', 'ߺ', '〮', '〯',
				'〱', '〲', '〳', '〴',
				'〵', '〻':
				return false

			case '·':
				if last != 'l' {
					return false
				}
				nextMustBe = 'l'

			case '͵':
				nextMustBeGreek = true

			case '׳', '״':
				if !unicode.Is(unicode.Hebrew, last) {
					return false
				}

			case '・':
				found := false
				for _, c := range s {
					if unicode.Is(unicode.Hiragana, c) || unicode.Is(unicode.Katakana, c) || unicode.Is(unicode.Han, c) {
						found = true
						break
					}
				}
				if !found {
					return false
				}
			}

			last = c
		}
		if nextMustBe != 0 || nextMustBeGreek {
			return false
		}
	}

	if _, err := hostnameProfile().ToASCII(s); err != nil {
		return false
	}

	return true
}
