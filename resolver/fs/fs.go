// Package fs implements a static graph.GetDependencies that walks a
// local source tree and extracts import specifiers via regular
// expression, without executing or type-checking any code.
package fs

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
)

// ErrUnresolvedSource is returned when a node-id does not resolve to a
// readable file under Root, after trying every entry in Extensions.
var ErrUnresolvedSource = errors.New("fs: no readable source for node")

var importPattern = regexp.MustCompile(
	`(?:import\s+(?:[\w*{}\s,]+\s+from\s+)?|require\()\s*['"]([^'"]+)['"]`,
)

// Resolver walks files under Root to answer dependency queries.
// Node-ids are specifiers relative to Root (e.g. "./src/app.js") or
// bare package names, which Resolver treats as external (no further
// expansion — only the specifier itself is returned, never resolved
// to a file) per the bundler-tracer framing this package grounds.
type Resolver struct {
	// Root is the directory node-ids beginning with "." are resolved
	// against.
	Root string

	// Extensions are tried in order when a specifier has none, e.g.
	// []string{".js", ".ts", "/index.js"}. Defaults to a JS-like set.
	Extensions []string
}

// New returns a Resolver rooted at root with the default extension
// list.
func New(root string) *Resolver {
	return &Resolver{
		Root:       root,
		Extensions: []string{".js", ".ts", ".jsx", ".tsx", "/index.js", "/index.ts"},
	}
}

// Resolve implements graph.GetDependencies. External specifiers (those
// not starting with "." or "/") are reported as leaf nodes with no
// dependencies, since this resolver only has visibility into Root.
func (r *Resolver) Resolve(_ context.Context, id string, callback func(deps []string, err error)) {
	if !isRelative(id) {
		callback(nil, nil)
		return
	}

	path, err := r.locate(id)
	if err != nil {
		callback(nil, err)
		return
	}

	src, err := os.ReadFile(path)
	if err != nil {
		callback(nil, fmt.Errorf("fs: reading %s: %w", id, err))
		return
	}

	callback(extractImports(src), nil)
}

func isRelative(id string) bool {
	return len(id) > 0 && (id[0] == '.' || id[0] == '/')
}

// locate finds the file on disk a node-id refers to, trying each
// extension in turn when the bare specifier is not itself a file.
func (r *Resolver) locate(id string) (string, error) {
	candidate := filepath.Join(r.Root, id)
	if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
		return candidate, nil
	}
	for _, ext := range r.Extensions {
		withExt := filepath.Join(r.Root, id+ext)
		if info, err := os.Stat(withExt); err == nil && !info.IsDir() {
			return withExt, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnresolvedSource, id)
}

// extractImports returns every import/require specifier found in src,
// in the order they appear, duplicates included (the engine treats
// AddEdge as idempotent).
func extractImports(src []byte) []string {
	matches := importPattern.FindAllSubmatch(src, -1)
	deps := make([]string, 0, len(matches))
	for _, m := range matches {
		deps = append(deps, string(m[1]))
	}
	return deps
}
