// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package format

import (
	"fmt"
	"net/mail"
	"strings"
)

// emailFormat requires a valid email address.
func emailFormat(s string) error {
	if !isValidEmail(s, false) {
		return fmt.Errorf("%q is not a valid email address", s)
	}
	return nil
}

// idnEmailFormat requires a valid internationalized email address.
func idnEmailFormat(s string) error {
	if !isValidEmail(s, true) {
		return fmt.Errorf("%q is not a valid extended email address", s)
	}
	return nil
}

// isValidEmail reports whether s is a valid RFC5321 email address. If
// idn is true, this permits RFC6531 internationalized email addresses.
func isValidEmail(s string, idn bool) bool {
	// This is the syntax we are supposed to parse.
	// But in fact we don't bother, and just defer to
	// the net/mail package. That is more likely to implement
	// what the user expects anyhow.
	//
	// Mailbox          = Local-part "@" ( Domain / address-literal )
	// Local-part       = Dot-string / Quoted-string
	// Dot-string       = Atom *("."  Atom)
	// Atom             = 1*atext
	// Quoted-string    = DQUOTE *QcontentSMTP DQUOTE
	// QcontentSMTP     = qtextSMTP / quoted-pairSMTP
	// quoted-pairSMTP  = %d92 %d32-126
	//                  ; i.e., backslash followed by any ASCII
	//                  ; graphic (including itself) or SPace
	// qtextSMTP      = %d32-33 / %d35-91 / %d93-126
	//                  ; i.e., within a quoted string, any
	//                  ; ASCII graphic or space is permitted
	//                  ; without blackslash-quoting except
	//                  ; double-quote and the backslash itself.
	// Domain         = sub-domain *("." sub-domain)
	// sub-domain     = Let-dig [Ldh-str]
	// Let-dig        = ALPHA / DIGIT
	// Ldh-str        = *( ALPHA / DIGIT / "-" ) Let-dig
	//
	// address-literal  = "[" ( IPv4-address-literal / IPv6-address-literal / General-address-literal ) "]"

	// RFC5321 permits IPv6 literals as "IPv6:literal" but net/mail
	// doesn't parse that.
	s = strings.Replace(s, "[IPv6:", "[", 1)

	addr, err := mail.ParseAddress(s)
	if err != nil || addr.Name != "" {
		return false
	}

	// Email (not idn-email) must not accept non-ASCII in the domain.
	if !idn {
		idx := strings.LastIndex(addr.Address, "@")
		if idx >= 0 {
			domain := addr.Address[idx+1:]
			if len(domain) > 0 && domain[0] != '[' {
				if !isNonIDNDomain(domain) {
					return false
				}
			}
		}
	}

	return true
}

// isNonIDNDomain reports whether s might be a non-internationalized
// domain name.
func isNonIDNDomain(s string) bool {
	for i := range len(s) {
		c := s[i]
		switch {
		case c >= 'A' && c <= 'Z':
		case c >= 'a' && c <= 'z':
		case c >= '0' && c <= '9':
		case c == '.':
		case c == '-':
		default:
			return false
		}
	}
	return true
}
