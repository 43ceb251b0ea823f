// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package retrieve defines the pluggable collaborator that fetches
// external schema resources by URI (spec.md §4.2). The teacher has no
// equivalent interface; its closest analogue is the single settable
// package-level loader function in pkg/types/finalize.go (SetLoader).
// This package promotes that idea to a narrow, explicit interface so
// multiple retrieval strategies can be composed without global state.
package retrieve

import (
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"time"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
)

// Retriever fetches the document identified by uri (its fragment, if
// any, is ignored — retrieval always operates on the base resource).
// Called only at compile time, only for URIs not already present in the
// registry, per spec.md §4.2.
type Retriever interface {
	Retrieve(uri *url.URL) (jsonvalue.Value, error)
}

// Func adapts a function to a Retriever.
type Func func(uri *url.URL) (jsonvalue.Value, error)

// Retrieve implements Retriever.
func (f Func) Retrieve(uri *url.URL) (jsonvalue.Value, error) {
	return f(uri)
}

// File retrieves file: URIs from the local filesystem.
type File struct{}

// Retrieve implements Retriever.
func (File) Retrieve(uri *url.URL) (jsonvalue.Value, error) {
	if uri.Scheme != "file" && uri.Scheme != "" {
		return jsonvalue.Value{}, fmt.Errorf("retrieve: File cannot handle scheme %q", uri.Scheme)
	}
	data, err := os.ReadFile(uri.Path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("retrieve: reading %q: %w", uri.Path, err)
	}
	return jsonvalue.Parse(data)
}

// HTTP retrieves http:// and https:// URIs using the given client (or
// http.DefaultClient if nil).
type HTTP struct {
	Client  *http.Client
	Timeout time.Duration
}

// Retrieve implements Retriever.
func (h HTTP) Retrieve(uri *url.URL) (jsonvalue.Value, error) {
	client := h.Client
	if client == nil {
		client = http.DefaultClient
	}
	timeout := h.Timeout
	if timeout == 0 {
		timeout = 10 * time.Second
	}
	c := *client
	c.Timeout = timeout

	resp, err := c.Get(uri.String())
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("retrieve: fetching %q: %w", uri, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return jsonvalue.Value{}, fmt.Errorf("retrieve: fetching %q: status %s", uri, resp.Status)
	}
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("retrieve: reading body of %q: %w", uri, err)
	}
	return jsonvalue.Parse(data)
}

// Chain tries each Retriever in order, whatever the URI scheme, and
// returns the first success; earlier retrievers' errors are discarded.
type Chain []Retriever

// Retrieve implements Retriever.
func (c Chain) Retrieve(uri *url.URL) (jsonvalue.Value, error) {
	for _, r := range c {
		v, err := r.Retrieve(uri)
		if err == nil {
			return v, nil
		}
	}
	return jsonvalue.Value{}, fmt.Errorf("retrieve: no retriever in chain could fetch %q", uri)
}

// Default returns a Retriever that handles file:, http:, and https:
// schemes, the two default implementations named in spec.md §4.2.
func Default() Retriever {
	return Func(func(uri *url.URL) (jsonvalue.Value, error) {
		switch uri.Scheme {
		case "", "file":
			return File{}.Retrieve(uri)
		case "http", "https":
			return HTTP{}.Retrieve(uri)
		default:
			return jsonvalue.Value{}, fmt.Errorf("retrieve: unsupported scheme %q for %q", uri.Scheme, uri)
		}
	})
}
