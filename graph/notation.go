package graph

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ParseNotation reads the node-store text notation used by fixtures and
// tooling. Each line is either a bare node-id ("a") declaring a node, or
// a chain of one or more arrows ("a -> b -> c") declaring every
// consecutive edge in the chain. Blank lines are ignored; lines and
// chain segments are trimmed. Either endpoint of an edge is created if
// it is not already declared.
func ParseNotation(r io.Reader) (NodeStore, error) {
	store := NewNodeStore()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		parts := strings.Split(line, "->")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
			if parts[i] == "" {
				return nil, fmt.Errorf("graph: empty node-id in line %q", line)
			}
		}

		for _, id := range parts {
			if store.Has(id) {
				continue
			}
			var err error
			store, err = store.AddNode(id)
			if err != nil {
				return nil, err
			}
		}

		for i := 0; i < len(parts)-1; i++ {
			var err error
			store, err = store.AddEdge(parts[i], parts[i+1])
			if err != nil {
				return nil, fmt.Errorf("graph: parsing edge in %q: %w", line, err)
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return store, nil
}
