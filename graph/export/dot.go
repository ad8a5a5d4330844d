// Package export renders a graph.NodeStore snapshot to external
// visualization formats.
package export

import (
	"io"
	"sort"

	"github.com/emicklei/dot"

	"github.com/nodewalk/depgraph/graph"
)

// WriteDOT renders nodes as a Graphviz DOT document to w. Entry nodes
// are drawn as filled boxes; all other nodes as plain ellipses.
// Iteration order is sorted by node-id so the emitted DOT text is
// stable across runs.
func WriteDOT(w io.Writer, nodes graph.NodeStore) error {
	g := dot.NewGraph(dot.Directed)
	g.Attr("rankdir", "LR")

	ids := make([]string, 0, nodes.Len())
	for id := range nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	dotNodes := make(map[string]dot.Node, len(ids))
	for _, id := range ids {
		n, _ := nodes.Get(id)
		dn := g.Node(id)
		if n.IsEntry {
			dn = dn.Attr("style", "filled").Attr("shape", "box").Attr("fillcolor", "lightgrey")
		}
		dotNodes[id] = dn
	}

	for _, id := range ids {
		n, _ := nodes.Get(id)
		deps := make([]string, 0, len(n.Dependencies))
		for dep := range n.Dependencies {
			deps = append(deps, dep)
		}
		sort.Strings(deps)
		for _, dep := range deps {
			g.Edge(dotNodes[id], dotNodes[dep])
		}
	}

	_, err := io.WriteString(w, g.String())
	return err
}
