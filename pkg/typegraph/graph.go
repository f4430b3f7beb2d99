package typegraph

import "slices"

// Kind classifies a relationship edge.
type Kind int

const (
	ComposedOf Kind = iota
	Encloses
	Implements
	Inherits
	References
	Extends
)

type kindInfo struct {
	name  string
	label string
	arrow string
}

var kindTable = [...]kindInfo{
	ComposedOf: {"ComposedOf", "Composed Of", "--*"},
	Encloses:   {"Encloses", "Encloses", "*--"},
	Implements: {"Implements", "Implements", "-[dashed]->"},
	Inherits:   {"Inherits", "Inherits", "--|>"},
	References: {"References", "References", "-->"},
	Extends:    {"Extends", "Extends", "-[dashed]->"},
}

// Kinds returns every kind in emission order.
func Kinds() []Kind {
	return []Kind{ComposedOf, Encloses, Implements, Inherits, References, Extends}
}

func (k Kind) valid() bool { return k >= 0 && int(k) < len(kindTable) }

// String returns the identifier-style kind name.
func (k Kind) String() string {
	if !k.valid() {
		return "Unknown"
	}
	return kindTable[k].name
}

// Label returns the human-readable label written after the edge.
func (k Kind) Label() string {
	if !k.valid() {
		return ""
	}
	return kindTable[k].label
}

// Arrow returns the diagram arrow token.
func (k Kind) Arrow() string {
	if !k.valid() {
		return "--"
	}
	return kindTable[k].arrow
}

// Edge is a directed, typed relationship between two known types.
type Edge struct {
	From string
	To   string
	Kind Kind
}

type adjacency struct {
	byKind  map[Kind][]string
	targets map[Kind]map[string]bool
}

// Graph is the relationship graph over canonical type names.
type Graph struct {
	known    map[string]bool
	order    []string
	out      map[string]*adjacency
	incoming map[string]int
	edges    int
}

// New returns a graph whose known type set is names, in that order.
func New(names ...string) *Graph {
	g := &Graph{
		known:    make(map[string]bool),
		out:      make(map[string]*adjacency),
		incoming: make(map[string]int),
	}
	for _, n := range names {
		g.AddKnown(n)
	}
	return g
}

// AddKnown adds name to the known type set. It reports false when the name
// was already known.
func (g *Graph) AddKnown(name string) bool {
	if name == "" || g.known[name] {
		return false
	}
	g.known[name] = true
	g.order = append(g.order, name)
	return true
}

// Known reports whether name is in the known type set.
func (g *Graph) Known(name string) bool { return g.known[name] }

// Names returns the known type set in insertion order.
func (g *Graph) Names() []string { return g.order }

// Len returns the number of known types.
func (g *Graph) Len() int { return len(g.order) }

// EdgeCount returns the number of recorded edges.
func (g *Graph) EdgeCount() int { return g.edges }

// AddEdge records from→to with the given kind. It reports whether the edge
// was recorded: self-loops, targets outside the known set and duplicates
// are dropped.
func (g *Graph) AddEdge(from, to string, kind Kind) bool {
	if from == "" || from == to || !g.known[to] || !kind.valid() {
		return false
	}
	adj := g.out[from]
	if adj == nil {
		adj = &adjacency{byKind: make(map[Kind][]string), targets: make(map[Kind]map[string]bool)}
		g.out[from] = adj
	}
	seen := adj.targets[kind]
	if seen == nil {
		seen = make(map[string]bool)
		adj.targets[kind] = seen
	}
	if seen[to] {
		return false
	}
	seen[to] = true
	adj.byKind[kind] = append(adj.byKind[kind], to)
	g.incoming[to]++
	g.edges++
	return true
}

// Outgoing returns the edges leaving name in kind order, then insertion
// order.
func (g *Graph) Outgoing(name string) []Edge {
	adj := g.out[name]
	if adj == nil {
		return nil
	}
	var edges []Edge
	for _, k := range Kinds() {
		for _, to := range adj.byKind[k] {
			edges = append(edges, Edge{From: name, To: to, Kind: k})
		}
	}
	return edges
}

// Edges returns every edge, grouped by source in known-name order. Sources
// that are not known types come last, in first-edge order.
func (g *Graph) Edges() []Edge {
	var edges []Edge
	for _, from := range g.sources() {
		edges = append(edges, g.Outgoing(from)...)
	}
	return edges
}

func (g *Graph) sources() []string {
	srcs := make([]string, 0, len(g.out))
	listed := make(map[string]bool, len(g.out))
	for _, n := range g.order {
		if g.out[n] != nil {
			srcs = append(srcs, n)
			listed[n] = true
		}
	}
	if len(srcs) == len(g.out) {
		return srcs
	}
	var rest []string
	for n := range g.out {
		if !listed[n] {
			rest = append(rest, n)
		}
	}
	slices.Sort(rest)
	return append(srcs, rest...)
}

// HasEdges reports whether name has at least one edge in either direction.
func (g *Graph) HasEdges(name string) bool {
	if adj := g.out[name]; adj != nil {
		for _, ts := range adj.byKind {
			if len(ts) > 0 {
				return true
			}
		}
	}
	return g.incoming[name] > 0
}
