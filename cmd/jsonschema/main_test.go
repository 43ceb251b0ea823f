// Copyright 2025 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTemp(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

func runCapture(t *testing.T, args []string) (stdout, stderr string, code int) {
	t.Helper()
	dir := t.TempDir()
	outPath := filepath.Join(dir, "stdout")
	errPath := filepath.Join(dir, "stderr")
	outFile, err := os.Create(outPath)
	if err != nil {
		t.Fatalf("creating stdout capture: %v", err)
	}
	defer outFile.Close()
	errFile, err := os.Create(errPath)
	if err != nil {
		t.Fatalf("creating stderr capture: %v", err)
	}
	defer errFile.Close()

	code = run(args, outFile, errFile)

	outFile.Close()
	errFile.Close()
	outBytes, err := os.ReadFile(outPath)
	if err != nil {
		t.Fatalf("reading stdout capture: %v", err)
	}
	errBytes, err := os.ReadFile(errPath)
	if err != nil {
		t.Fatalf("reading stderr capture: %v", err)
	}
	return string(outBytes), string(errBytes), code
}

func TestRun_ValidInstance(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTemp(t, dir, "schema.json", `{"type":"string"}`)
	instPath := writeTemp(t, dir, "instance.json", `"hello"`)

	stdout, _, code := runCapture(t, []string{schemaPath, instPath})
	if code != 0 {
		t.Errorf("exit code = %d, want 0", code)
	}
	if !strings.Contains(stdout, "VALID") {
		t.Errorf("stdout = %q, want it to mention VALID", stdout)
	}
}

func TestRun_InvalidInstance(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTemp(t, dir, "schema.json", `{"type":"string"}`)
	instPath := writeTemp(t, dir, "instance.json", `1`)

	stdout, _, code := runCapture(t, []string{schemaPath, instPath})
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "INVALID") {
		t.Errorf("stdout = %q, want it to mention INVALID", stdout)
	}
}

func TestRun_MultipleInstances_MixedResult(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTemp(t, dir, "schema.json", `{"type":"string"}`)
	goodPath := writeTemp(t, dir, "good.json", `"ok"`)
	badPath := writeTemp(t, dir, "bad.json", `42`)

	stdout, _, code := runCapture(t, []string{schemaPath, goodPath, badPath})
	if code != 1 {
		t.Errorf("exit code = %d, want 1 (one of two instances is invalid)", code)
	}
	if !strings.Contains(stdout, goodPath+" - VALID") {
		t.Errorf("stdout missing VALID line for %s: %q", goodPath, stdout)
	}
	if !strings.Contains(stdout, badPath+" - INVALID") {
		t.Errorf("stdout missing INVALID line for %s: %q", badPath, stdout)
	}
}

func TestRun_InvalidSchema(t *testing.T) {
	dir := t.TempDir()
	schemaPath := writeTemp(t, dir, "schema.json", `{"$ref":"https://nowhere.example/unreachable.json"}`)
	instPath := writeTemp(t, dir, "instance.json", `"x"`)

	stdout, _, code := runCapture(t, []string{schemaPath, instPath})
	if code != 1 {
		t.Errorf("exit code = %d, want 1 for an unresolvable schema reference", code)
	}
	if !strings.Contains(stdout, "Schema is invalid") {
		t.Errorf("stdout = %q, want it to report the schema as invalid", stdout)
	}
}

func TestRun_NoArgs(t *testing.T) {
	_, stderr, code := runCapture(t, nil)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "usage:") {
		t.Errorf("stderr = %q, want usage message", stderr)
	}
}

func TestRun_MissingFile(t *testing.T) {
	dir := t.TempDir()
	_, stderr, code := runCapture(t, []string{filepath.Join(dir, "does-not-exist.json")})
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stderr, "Error:") {
		t.Errorf("stderr = %q, want an Error: line", stderr)
	}
}
