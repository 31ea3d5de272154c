// Package depgraph implements the Rule Dependency Graph (spec §4.7, C10):
// nodes are rules, edges connect a rule whose head defines a relation to
// every rule whose body mentions that relation, labeled with the body
// atom's polarity. Strongly connected components are computed (Tarjan) and
// a component is stratified iff it contains no negative internal edge.
//
// Grounded on original_source/src/misc/rule_graph.rs
// (generate_rule_dependency_graph, stratify, sort_program), which uses
// petgraph + Kosaraju; no pack repo vendors a Go graph/SCC library (see
// DESIGN.md), so this is implemented directly against the standard library
// with Tarjan's algorithm (tarjan.go).
package depgraph

import (
	"github.com/kevinawalsh/reasoner/internal/ast"
	"github.com/kevinawalsh/reasoner/internal/value"
)

// Edge is one dependency-graph edge: from the rule defining Relation, to
// every rule whose body mentions it, carrying that body atom's polarity.
type Edge struct {
	From     int // index into Graph.Rules
	To       int
	Positive bool
}

// Graph is the rule dependency graph over a program (spec §4.7).
type Graph struct {
	Rules []ast.Rule
	Edges []Edge

	adj [][]int // rule index -> indices of edges in Edges originating there
}

// Build constructs the dependency graph for program: an edge r -> r' with
// the body atom's polarity exists iff some body atom of r' has the same
// relation as r's head (spec §4.7).
func Build(program []ast.Rule) *Graph {
	g := &Graph{Rules: program, adj: make([][]int, len(program))}

	headOf := make(map[value.Symbol][]int)
	for i, r := range program {
		headOf[r.Head.Relation] = append(headOf[r.Head.Relation], i)
	}

	for j, r := range program {
		for _, b := range r.Body {
			for _, i := range headOf[b.Relation] {
				eidx := len(g.Edges)
				g.Edges = append(g.Edges, Edge{From: i, To: j, Positive: bool(b.Polarity)})
				g.adj[i] = append(g.adj[i], eidx)
			}
		}
	}
	return g
}

// Component is one strongly connected component: rule indices, and whether
// the component contains a negative internal edge.
type Component struct {
	RuleIndices []int
	Stratified  bool
}

// StratifyResult is C10's reported contract: overall stratified?, and the
// SCCs in reverse topological order (spec §4.7: "Report stratified?: bool
// and a stratification order (components in reverse topological order)").
type StratifyResult struct {
	Stratified bool
	Order      []Component
}

// Stratify computes the graph's SCCs (Tarjan) and reports whether the
// whole program is stratified (no SCC contains a negative internal edge),
// together with the components in reverse topological order: every
// component comes before the components it depends on, so an evaluator
// running one component to fixpoint at a time walks Order from last to
// first (spec §4.7).
func (g *Graph) Stratify() StratifyResult {
	sccs := tarjanSCC(g) // already in reverse topological order, see tarjan.go

	inComponent := make(map[int]int, len(g.Rules))
	for ci, scc := range sccs {
		for _, ri := range scc {
			inComponent[ri] = ci
		}
	}

	result := StratifyResult{Stratified: true}
	for ci, scc := range sccs {
		relations := make(map[value.Symbol]bool, len(scc))
		for _, ri := range scc {
			relations[g.Rules[ri].Head.Relation] = true
		}
		stratified := true
		for _, ri := range scc {
			for _, b := range g.Rules[ri].Body {
				if relations[b.Relation] && b.Polarity == ast.Negative {
					stratified = false
					break
				}
			}
			if !stratified {
				break
			}
		}
		if !stratified {
			result.Stratified = false
		}
		result.Order = append(result.Order, Component{RuleIndices: scc, Stratified: stratified})
		_ = ci
	}
	return result
}
