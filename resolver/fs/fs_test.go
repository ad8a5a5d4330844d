package fs

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("MkdirAll() error = %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
}

func TestResolver_ExtractsImportsAndRequires(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "app.js", `
import React from 'react'
import { useState } from "./hooks"
const fs = require('fs')
`)

	r := New(dir)
	var deps []string
	var err error
	r.Resolve(context.Background(), "./app.js", func(d []string, e error) {
		deps, err = d, e
	})

	if err != nil {
		t.Fatalf("Resolve() error = %v", err)
	}
	want := []string{"react", "./hooks", "fs"}
	if len(deps) != len(want) {
		t.Fatalf("deps = %v, want %v", deps, want)
	}
	for i, w := range want {
		if deps[i] != w {
			t.Errorf("deps[%d] = %q, want %q", i, deps[i], w)
		}
	}
}

func TestResolver_TriesExtensions(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "utils.ts", `import z from "zod"`)

	r := New(dir)
	var deps []string
	r.Resolve(context.Background(), "./utils", func(d []string, _ error) {
		deps = d
	})

	if len(deps) != 1 || deps[0] != "zod" {
		t.Errorf("deps = %v, want [zod]", deps)
	}
}

func TestResolver_ExternalSpecifierIsLeaf(t *testing.T) {
	r := New(t.TempDir())

	var deps []string
	var err error
	r.Resolve(context.Background(), "lodash", func(d []string, e error) {
		deps, err = d, e
	})

	if err != nil || deps != nil {
		t.Errorf("deps=%v err=%v, want nil nil for an external package", deps, err)
	}
}

func TestResolver_UnresolvableSpecifierErrors(t *testing.T) {
	r := New(t.TempDir())

	var err error
	r.Resolve(context.Background(), "./missing", func(_ []string, e error) {
		err = e
	})

	if err == nil {
		t.Error("expected an error for a specifier with no readable file")
	}
}

func TestResolver_NoImportsReturnsEmpty(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "leaf.js", `console.log("no deps here")`)

	r := New(dir)
	var deps []string
	r.Resolve(context.Background(), "./leaf.js", func(d []string, _ error) {
		deps = d
	})

	if len(deps) != 0 {
		t.Errorf("deps = %v, want empty", deps)
	}
}
