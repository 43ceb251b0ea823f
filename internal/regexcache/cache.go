// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package regexcache is the validator's sole piece of global mutable
// state (spec.md §5, §9): a process-wide, read-mostly cache of compiled
// patterns keyed by source string, guarded by a sync.RWMutex. Grounded
// on internal/validator/validator.go's formatValidators map pattern (a
// package-level map behind a sync.Mutex, with a Register entry point),
// generalized to an RWMutex since lookups vastly outnumber inserts once
// a Validator is warm.
package regexcache

import (
	"regexp"
	"sync"

	"github.com/shiftjson/jsonschema/internal/regexsyntax"
)

var (
	mu    sync.RWMutex
	cache = make(map[string]*regexp.Regexp)
)

// Compile returns the compiled regexp for pattern, translating and
// compiling it once and reusing the result for every subsequent call
// with the same source string, across every Validator in the process.
func Compile(pattern string) (*regexp.Regexp, error) {
	mu.RLock()
	re, ok := cache[pattern]
	mu.RUnlock()
	if ok {
		return re, nil
	}

	re, err := regexsyntax.Compile(pattern)
	if err != nil {
		return nil, err
	}

	mu.Lock()
	cache[pattern] = re
	mu.Unlock()
	return re, nil
}

// Clear empties the cache. Exposed so tests can verify cold-cache
// compile-error behavior without cross-test contamination, per spec.md
// §9: "document its existence and provide a way to clear it in tests."
func Clear() {
	mu.Lock()
	defer mu.Unlock()
	cache = make(map[string]*regexp.Regexp)
}

// Len reports the number of distinct patterns currently cached, for
// tests asserting that a given pattern was (or wasn't) deduplicated.
func Len() int {
	mu.RLock()
	defer mu.RUnlock()
	return len(cache)
}
