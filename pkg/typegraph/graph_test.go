package typegraph

import "testing"

func TestKindTokens(t *testing.T) {
	tests := []struct {
		kind  Kind
		arrow string
		label string
	}{
		{ComposedOf, "--*", "Composed Of"},
		{Encloses, "*--", "Encloses"},
		{Implements, "-[dashed]->", "Implements"},
		{Inherits, "--|>", "Inherits"},
		{References, "-->", "References"},
		{Extends, "-[dashed]->", "Extends"},
	}
	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			if got := tt.kind.Arrow(); got != tt.arrow {
				t.Errorf("Arrow() = %q, want %q", got, tt.arrow)
			}
			if got := tt.kind.Label(); got != tt.label {
				t.Errorf("Label() = %q, want %q", got, tt.label)
			}
		})
	}

	if Kind(99).String() != "Unknown" {
		t.Error("out-of-range kind should stringify as Unknown")
	}
}

func TestAddEdge(t *testing.T) {
	g := New("A", "B", "C")

	tests := []struct {
		name     string
		from, to string
		kind     Kind
		want     bool
	}{
		{"known target", "B", "A", ComposedOf, true},
		{"duplicate", "B", "A", ComposedOf, false},
		{"same pair other kind", "B", "A", References, true},
		{"self loop", "A", "A", Inherits, false},
		{"unknown target", "A", "System.Object", Inherits, false},
		{"empty source", "", "A", Inherits, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := g.AddEdge(tt.from, tt.to, tt.kind); got != tt.want {
				t.Errorf("AddEdge(%q, %q, %v) = %v, want %v", tt.from, tt.to, tt.kind, got, tt.want)
			}
		})
	}

	if g.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", g.EdgeCount())
	}
	for _, e := range g.Edges() {
		if e.From == e.To {
			t.Errorf("self loop recorded: %+v", e)
		}
	}
}

func TestOutgoingOrder(t *testing.T) {
	g := New("S", "T1", "T2", "T3")
	g.AddEdge("S", "T3", References)
	g.AddEdge("S", "T2", References)
	g.AddEdge("S", "T1", Inherits)
	g.AddEdge("S", "T2", ComposedOf)

	want := []Edge{
		{"S", "T2", ComposedOf},
		{"S", "T1", Inherits},
		{"S", "T3", References},
		{"S", "T2", References},
	}
	got := g.Outgoing("S")
	if len(got) != len(want) {
		t.Fatalf("Outgoing() returned %d edges, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestHasEdges(t *testing.T) {
	g := New("A", "B", "C")
	g.AddEdge("B", "A", ComposedOf)

	for name, want := range map[string]bool{"A": true, "B": true, "C": false} {
		if got := g.HasEdges(name); got != want {
			t.Errorf("HasEdges(%q) = %v, want %v", name, got, want)
		}
	}
}
