package typegraph

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	// GroupLabelPrefix prefixes the sequential group labels.
	GroupLabelPrefix = "Reference Group"

	// UnconnectedLabel labels the bucket of types without relationships.
	UnconnectedLabel = "No References"
)

// ErrPartitionDiverged is returned when the disjoint-set forest stops
// converging. It signals a defect, never a property of the input.
var ErrPartitionDiverged = errors.New("typegraph: partition did not converge")

// groupNamespace scopes the deterministic group IDs.
var groupNamespace = uuid.MustParse("5b0c6a43-7c1e-4f5e-9a53-6f1d3c2b8e11")

// Group is a maximal set of types connected by relationships.
type Group struct {
	// ID is derived from the member list and is stable across runs over the
	// same input.
	ID      uuid.UUID
	Label   string
	Members []string
}

// Contains reports whether name is a member of the group.
func (g Group) Contains(name string) bool {
	for _, m := range g.Members {
		if m == name {
			return true
		}
	}
	return false
}

// FileLabel returns the label with spaces removed, as used in file names.
func (g Group) FileLabel() string {
	return strings.ReplaceAll(g.Label, " ", "")
}

// Result is the outcome of [Partition].
type Result struct {
	Groups      []Group
	Unconnected []string
}

// UnconnectedGroup returns the bucket as a Group, or false when it is empty.
func (r Result) UnconnectedGroup() (Group, bool) {
	if len(r.Unconnected) == 0 {
		return Group{}, false
	}
	return Group{
		ID:      groupID(r.Unconnected),
		Label:   UnconnectedLabel,
		Members: r.Unconnected,
	}, true
}

// All returns the numbered groups followed by the unconnected bucket when
// it is not empty.
func (r Result) All() []Group {
	all := append([]Group(nil), r.Groups...)
	if g, ok := r.UnconnectedGroup(); ok {
		all = append(all, g)
	}
	return all
}

// Find returns the group holding name, including the unconnected bucket.
func (r Result) Find(name string) (Group, bool) {
	for _, g := range r.All() {
		if g.Contains(name) {
			return g, true
		}
	}
	return Group{}, false
}

// Partition splits known into connected groups over the undirected view of
// g. Every name in known lands in exactly one group or in the unconnected
// bucket. Members keep the order of known, and groups are ordered by their
// earliest member.
func Partition(known []string, g *Graph) (Result, error) {
	index := make(map[string]int, len(known))
	names := make([]string, 0, len(known))
	for _, n := range known {
		if _, dup := index[n]; dup || n == "" {
			continue
		}
		index[n] = len(names)
		names = append(names, n)
	}

	ds := newDisjointSet(len(names))
	var res Result
	connected := make([]bool, len(names))
	for i, n := range names {
		if !g.HasEdges(n) {
			res.Unconnected = append(res.Unconnected, n)
			continue
		}
		connected[i] = true
		for _, e := range g.Outgoing(n) {
			j, ok := index[e.To]
			if !ok {
				continue
			}
			connected[j] = true
			if err := ds.union(i, j); err != nil {
				return Result{}, err
			}
		}
	}

	slot := make(map[int]int)
	for i, n := range names {
		if !connected[i] {
			continue
		}
		root, err := ds.find(i)
		if err != nil {
			return Result{}, err
		}
		k, ok := slot[root]
		if !ok {
			k = len(res.Groups)
			slot[root] = k
			res.Groups = append(res.Groups, Group{})
		}
		res.Groups[k].Members = append(res.Groups[k].Members, n)
	}
	for k := range res.Groups {
		res.Groups[k].Label = fmt.Sprintf("%s %d", GroupLabelPrefix, k+1)
		res.Groups[k].ID = groupID(res.Groups[k].Members)
	}
	return res, nil
}

func groupID(members []string) uuid.UUID {
	return uuid.NewSHA1(groupNamespace, []byte(strings.Join(members, "\x00")))
}

// disjointSet is a union-find forest with path compression and union by
// size.
type disjointSet struct {
	parent []int
	size   []int
}

func newDisjointSet(n int) *disjointSet {
	ds := &disjointSet{parent: make([]int, n), size: make([]int, n)}
	for i := range ds.parent {
		ds.parent[i] = i
		ds.size[i] = 1
	}
	return ds
}

// find returns the root of x. A parent chain longer than the element count
// can only come from a corrupted forest and fails with ErrPartitionDiverged.
func (ds *disjointSet) find(x int) (int, error) {
	root := x
	for steps := 0; ds.parent[root] != root; steps++ {
		if steps > len(ds.parent) {
			return 0, ErrPartitionDiverged
		}
		root = ds.parent[root]
	}
	for ds.parent[x] != root {
		ds.parent[x], x = root, ds.parent[x]
	}
	return root, nil
}

func (ds *disjointSet) union(a, b int) error {
	ra, err := ds.find(a)
	if err != nil {
		return err
	}
	rb, err := ds.find(b)
	if err != nil {
		return err
	}
	if ra == rb {
		return nil
	}
	if ds.size[ra] < ds.size[rb] {
		ra, rb = rb, ra
	}
	ds.parent[rb] = ra
	ds.size[ra] += ds.size[rb]
	return nil
}
