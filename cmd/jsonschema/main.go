// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command jsonschema validates JSON instance documents against a JSON
// Schema (spec.md §6's CLI contract), grounded in shape on
// original_source/crates/jsonschema-cli/src/main.rs: a schema path, one
// or more instance paths, "<path> - VALID"/"<path> - INVALID. Errors:"
// output, and an exit code that's 0 only when every instance validated.
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/shiftjson/jsonschema/internal/jsonvalue"
	"github.com/shiftjson/jsonschema/pkg/jsonschema"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr *os.File) int {
	fs := flag.NewFlagSet("jsonschema", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.Usage = func() {
		fmt.Fprintf(stderr, "usage: jsonschema <schema.json> <instance.json>...\n")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 1
	}
	rest := fs.Args()
	if len(rest) < 1 {
		fs.Usage()
		return 1
	}
	schemaPath, instancePaths := rest[0], rest[1:]

	schemaDoc, err := readJSON(schemaPath)
	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	validator, err := jsonschema.Build(schemaDoc, jsonschema.Options{})
	if err != nil {
		fmt.Fprintf(stdout, "Schema is invalid. Error: %v\n", err)
		return 1
	}

	success := true
	for _, path := range instancePaths {
		instDoc, err := readJSON(path)
		if err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			success = false
			continue
		}
		errs := validator.IterErrors(instDoc)
		if len(errs) == 0 {
			fmt.Fprintf(stdout, "%s - VALID\n", path)
			continue
		}
		success = false
		fmt.Fprintf(stdout, "%s - INVALID. Errors:\n", path)
		for i, e := range errs {
			fmt.Fprintf(stdout, "%d. %s\n", i+1, e.Error())
		}
	}

	if !success {
		return 1
	}
	return 0
}

func readJSON(path string) (jsonvalue.Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return jsonvalue.Value{}, fmt.Errorf("reading %q: %w", path, err)
	}
	return jsonvalue.Parse(data)
}
