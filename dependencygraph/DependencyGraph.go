// Package dependencygraph keeps a set of ordered (dependee, dependent) pairs
// and answers adjacency questions in both directions.
//
// For the pair (s, t) t is a dependent of s and s is a dependee of t:
// t's value depends on s's value.
package dependencygraph

import "sort"

type nodeSet map[string]struct{}

type DependencyGraph struct {
	// dependee -> dependents
	dependents map[string]nodeSet
	// dependent -> dependees
	dependees map[string]nodeSet
	size      int
}

func New() *DependencyGraph {
	return &DependencyGraph{
		dependents: map[string]nodeSet{},
		dependees:  map[string]nodeSet{},
	}
}

// Size is the number of distinct ordered pairs in the graph.
func (g *DependencyGraph) Size() int {
	return g.size
}

func (g *DependencyGraph) HasDependents(node string) bool {
	_, ok := g.dependents[node]
	return ok
}

func (g *DependencyGraph) HasDependees(node string) bool {
	_, ok := g.dependees[node]
	return ok
}

// GetDependents returns the sorted dependents of node, empty for unknown nodes.
func (g *DependencyGraph) GetDependents(node string) []string {
	return sortedNodes(g.dependents[node])
}

// GetDependees returns the sorted dependees of node, empty for unknown nodes.
func (g *DependencyGraph) GetDependees(node string) []string {
	return sortedNodes(g.dependees[node])
}

func (g *DependencyGraph) HasDependency(dependee string, dependent string) bool {
	_, ok := g.dependents[dependee][dependent]
	return ok
}

// AddDependency adds the pair (dependee, dependent). Adding an existing pair
// changes nothing.
func (g *DependencyGraph) AddDependency(dependee string, dependent string) {
	if g.HasDependency(dependee, dependent) {
		return
	}

	link(g.dependents, dependee, dependent)
	link(g.dependees, dependent, dependee)
	g.size++
}

// RemoveDependency removes the pair (dependee, dependent) if present.
func (g *DependencyGraph) RemoveDependency(dependee string, dependent string) {
	if !g.HasDependency(dependee, dependent) {
		return
	}

	unlink(g.dependents, dependee, dependent)
	unlink(g.dependees, dependent, dependee)
	g.size--
}

// ReplaceDependents removes every (node, r) pair, then adds (node, t) for each
// t in newDependents.
func (g *DependencyGraph) ReplaceDependents(node string, newDependents []string) {
	for _, dependent := range g.GetDependents(node) {
		g.RemoveDependency(node, dependent)
	}

	for _, dependent := range newDependents {
		g.AddDependency(node, dependent)
	}
}

// ReplaceDependees removes every (r, node) pair, then adds (s, node) for each
// s in newDependees.
func (g *DependencyGraph) ReplaceDependees(node string, newDependees []string) {
	for _, dependee := range g.GetDependees(node) {
		g.RemoveDependency(dependee, node)
	}

	for _, dependee := range newDependees {
		g.AddDependency(dependee, node)
	}
}

// Nodes returns every node that takes part in at least one pair.
func (g *DependencyGraph) Nodes() []string {
	nodes := make(nodeSet, len(g.dependents)+len(g.dependees))
	for node := range g.dependents {
		nodes[node] = struct{}{}
	}
	for node := range g.dependees {
		nodes[node] = struct{}{}
	}

	return sortedNodes(nodes)
}

func (g *DependencyGraph) Clone() *DependencyGraph {
	clone := New()
	for dependee, dependents := range g.dependents {
		for dependent := range dependents {
			clone.AddDependency(dependee, dependent)
		}
	}

	return clone
}

func link(adjacency map[string]nodeSet, from string, to string) {
	bucket, ok := adjacency[from]
	if !ok {
		bucket = nodeSet{}
		adjacency[from] = bucket
	}
	bucket[to] = struct{}{}
}

// unlink drops the bucket once it is empty so Has* report false
func unlink(adjacency map[string]nodeSet, from string, to string) {
	bucket, ok := adjacency[from]
	if !ok {
		return
	}

	delete(bucket, to)
	if len(bucket) == 0 {
		delete(adjacency, from)
	}
}

func sortedNodes(set nodeSet) []string {
	nodes := make([]string, 0, len(set))
	for node := range set {
		nodes = append(nodes, node)
	}
	sort.Strings(nodes)

	return nodes
}
