package depgraph

import (
	"fmt"

	"github.com/emicklei/dot"

	"github.com/kevinawalsh/reasoner/internal/value"
)

// ExportDOT renders the dependency graph as Graphviz DOT, for `reasonctl
// graph` (spec §6 CLI surface). names resolves a relation symbol to its
// printable name; negative edges are drawn dashed and red, matching the
// convention used for "forbidden" edges in AKJUS-bsc-erigon's txpool
// dependency dumps.
func (g *Graph) ExportDOT(names func(value.Symbol) string) string {
	graph := dot.NewGraph(dot.Directed)
	graph.Attr("rankdir", "LR")

	nodes := make([]dot.Node, len(g.Rules))
	for i, r := range g.Rules {
		label := fmt.Sprintf("r%d: %s", i, names(r.Head.Relation))
		nodes[i] = graph.Node(fmt.Sprintf("r%d", i)).Label(label)
	}

	for _, e := range g.Edges {
		edge := graph.Edge(nodes[e.From], nodes[e.To])
		if !e.Positive {
			edge.Attr("style", "dashed").Attr("color", "red")
		}
	}

	return graph.String()
}
