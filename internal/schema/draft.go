// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package schema assembles the closed graph of schema resources a
// validator is compiled from: the Resource and Registry types of
// spec.md §3-§4.3. Grounded on the teacher's
// pkg/draft202012/builder.go resolveState (schemas/uris/anchors maps)
// and internal/metaschema's cached-load-by-URI pattern, generalized from
// "load the meta-schema from an embedded FS" to "load any external
// resource through an injected Retriever".
package schema

import "fmt"

// Draft identifies a JSON Schema specification revision.
type Draft int

const (
	DraftUnknown Draft = iota
	Draft4
	Draft6
	Draft7
	Draft2019
	Draft2020
)

// draftBySchemaURI maps the normalized $schema value to a Draft, the
// way the teacher's types.LookupVocabulary maps a $schema string to a
// *Vocabulary (pkg/types/vocabulary.go), but as a flat table instead of
// a registry of Go values, since drafts here are a closed set.
var draftBySchemaURI = map[string]Draft{
	"http://json-schema.org/schema#":               Draft7,
	"http://json-schema.org/draft-04/schema#":       Draft4,
	"https://json-schema.org/draft-04/schema#":      Draft4,
	"http://json-schema.org/draft-06/schema#":       Draft6,
	"https://json-schema.org/draft-06/schema#":      Draft6,
	"http://json-schema.org/draft-07/schema#":       Draft7,
	"https://json-schema.org/draft-07/schema#":      Draft7,
	"https://json-schema.org/draft/2019-09/schema":  Draft2019,
	"https://json-schema.org/draft/2020-12/schema":  Draft2020,
}

// DraftFromSchemaURI returns the Draft named by a $schema value, or
// DraftUnknown if it's not recognized.
func DraftFromSchemaURI(uri string) Draft {
	return draftBySchemaURI[uri]
}

func (d Draft) String() string {
	switch d {
	case Draft4:
		return "draft4"
	case Draft6:
		return "draft6"
	case Draft7:
		return "draft7"
	case Draft2019:
		return "2019-09"
	case Draft2020:
		return "2020-12"
	default:
		return "unknown"
	}
}

// SupportsDynamicRef reports whether d recognizes $dynamicRef/$dynamicAnchor.
func (d Draft) SupportsDynamicRef() bool { return d == Draft2020 }

// SupportsRecursiveRef reports whether d recognizes $recursiveRef/$recursiveAnchor.
func (d Draft) SupportsRecursiveRef() bool { return d == Draft2019 }

// SupportsIDFragment reports whether $id may itself be a bare fragment
// (legacy draft 4/6 behavior; spec.md §4.3).
func (d Draft) SupportsIDFragment() bool { return d == Draft4 || d == Draft6 }

// IDKeyword returns the keyword used for the $id concept: draft 4 used
// "id" (no dollar sign).
func (d Draft) IDKeyword() string {
	if d == Draft4 {
		return "id"
	}
	return "$id"
}

// ErrUnknownDraft names the failure to determine a draft. Build does not
// return it: without a recognized $schema it uses the draft hint, or
// Draft7 when no hint is given.
var ErrUnknownDraft = fmt.Errorf("schema: could not determine draft")
