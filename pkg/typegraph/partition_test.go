package typegraph

import (
	"fmt"
	"slices"
	"testing"
)

func TestPartitionScenario(t *testing.T) {
	g := New("A", "B", "C")
	g.AddEdge("B", "A", ComposedOf)

	res, err := Partition(g.Names(), g)
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}
	if len(res.Groups) != 1 {
		t.Fatalf("got %d groups, want 1", len(res.Groups))
	}
	grp := res.Groups[0]
	if grp.Label != "Reference Group 1" {
		t.Errorf("Label = %q, want Reference Group 1", grp.Label)
	}
	if !slices.Equal(grp.Members, []string{"A", "B"}) {
		t.Errorf("Members = %v, want [A B]", grp.Members)
	}
	if !slices.Equal(res.Unconnected, []string{"C"}) {
		t.Errorf("Unconnected = %v, want [C]", res.Unconnected)
	}

	all := res.All()
	if len(all) != 2 || all[1].Label != UnconnectedLabel {
		t.Errorf("All() = %+v, want numbered group then %q", all, UnconnectedLabel)
	}
	if all[1].FileLabel() != "NoReferences" {
		t.Errorf("FileLabel() = %q, want NoReferences", all[1].FileLabel())
	}
}

func TestPartitionTransitive(t *testing.T) {
	// D→E and F→E join through E; G→H stays separate; I is isolated.
	g := New("D", "E", "F", "G", "H", "I")
	g.AddEdge("D", "E", References)
	g.AddEdge("F", "E", Inherits)
	g.AddEdge("H", "G", Encloses)

	res, err := Partition(g.Names(), g)
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}

	want := [][]string{{"D", "E", "F"}, {"G", "H"}}
	if len(res.Groups) != len(want) {
		t.Fatalf("got %d groups, want %d", len(res.Groups), len(want))
	}
	for i, w := range want {
		if !slices.Equal(res.Groups[i].Members, w) {
			t.Errorf("group %d = %v, want %v", i, res.Groups[i].Members, w)
		}
		if res.Groups[i].Label != fmt.Sprintf("Reference Group %d", i+1) {
			t.Errorf("group %d label = %q", i, res.Groups[i].Label)
		}
	}
	if !slices.Equal(res.Unconnected, []string{"I"}) {
		t.Errorf("Unconnected = %v, want [I]", res.Unconnected)
	}
}

func TestPartitionCompleteness(t *testing.T) {
	names := make([]string, 40)
	for i := range names {
		names[i] = fmt.Sprintf("T%02d", i)
	}
	g := New(names...)
	// Chain every third type to its successor, leaving the rest isolated.
	for i := 0; i+1 < len(names); i += 3 {
		g.AddEdge(names[i], names[i+1], References)
	}
	g.AddEdge(names[4], names[0], References)

	res, err := Partition(names, g)
	if err != nil {
		t.Fatalf("Partition() error: %v", err)
	}

	count := make(map[string]int)
	for _, grp := range res.All() {
		for _, m := range grp.Members {
			count[m]++
		}
	}
	for _, n := range names {
		if count[n] != 1 {
			t.Errorf("%s appears %d times, want exactly 1", n, count[n])
		}
	}

	// Connectivity: group membership must match reachability.
	g0, _ := res.Find("T00")
	for _, n := range []string{"T01", "T03", "T04"} {
		if !g0.Contains(n) {
			t.Errorf("%s should share a group with T00", n)
		}
	}
	if g0.Contains("T06") {
		t.Error("T06 is not connected to T00")
	}
}

func TestPartitionDeterministicIDs(t *testing.T) {
	build := func() Result {
		g := New("A", "B", "C")
		g.AddEdge("A", "B", Implements)
		res, err := Partition(g.Names(), g)
		if err != nil {
			t.Fatalf("Partition() error: %v", err)
		}
		return res
	}
	first, second := build(), build()
	if first.Groups[0].ID != second.Groups[0].ID {
		t.Error("group IDs should be stable across runs")
	}
}

func TestDisjointSetDiverged(t *testing.T) {
	ds := newDisjointSet(3)
	ds.parent[0], ds.parent[1], ds.parent[2] = 1, 2, 0
	if _, err := ds.find(0); err != ErrPartitionDiverged {
		t.Errorf("find() error = %v, want ErrPartitionDiverged", err)
	}
}
