package golang

import (
	"go/ast"
	"go/parser"
	"go/token"
	"go/types"
	"slices"
	"testing"

	"github.com/pcleckler/UmlConversion/pkg/typegraph"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

const shopSrc = `package shop

// Order is a customer order. It holds [Line] values
// and reports its [Status].
//
// This paragraph is not part of the summary.
type Order struct {
	Base
	Lines   []Line
	Tags    map[string]string
	State   Status
	Updates chan Status
	note    string
}

// Base carries identity.
type Base struct{ ID int }

type Line struct {
	SKU string
	Qty int
}

type Status int

const (
	Open Status = iota
	Closed
	Archived Status = 1000
)

type Pricer interface{ Price() int }

type Closer interface {
	Close() error
	seal()
}

type Handler func(o *Order) error

type Box[T any] struct{ Item T }

type Holder struct{ Boxes Box[Line] }

type Failure struct{ Msg string }

func (f Failure) Error() string { return f.Msg }

func NewOrder(lines ...Line) *Order { return nil }

func (o *Order) Price() int { return 0 }

func (o *Order) Add(l Line, _ int) (*Order, error) { return o, nil }

func (o *Order) reset() {}

type hidden struct{ X int }
`

func buildShop(t *testing.T, opts Options) *uml.Context {
	t.Helper()
	fset := token.NewFileSet()
	f, err := parser.ParseFile(fset, "shop.go", shopSrc, parser.ParseComments)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	pkg, err := (&types.Config{}).Check("example.com/shop", fset, []*ast.File{f}, nil)
	if err != nil {
		t.Fatalf("type-check: %v", err)
	}

	described, docs := convert([]pkgInput{{types: pkg, fset: fset, syntax: []*ast.File{f}}}, opts)
	c, err := uml.Build(described, docs, uml.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return c
}

func TestSelection(t *testing.T) {
	c := buildShop(t, Options{})
	want := []string{"Order", "Base", "Line", "Status", "Pricer", "Closer", "Handler", "Box<T>", "Holder", "Failure"}
	var got []string
	for _, b := range c.Blocks() {
		got = append(got, b.Name)
	}
	if !slices.Equal(got, want) {
		t.Errorf("blocks = %q, want %q", got, want)
	}

	c = buildShop(t, Options{IncludeUnexported: true})
	if _, ok := c.Block("hidden"); !ok {
		t.Error("IncludeUnexported did not select the unexported type")
	}
}

func TestHeaders(t *testing.T) {
	c := buildShop(t, Options{})
	tests := []struct {
		name string
		want string
	}{
		{"Order", `class "Order"`},
		{"Status", `enum "Status" <<int>> <<sealed>>`},
		{"Pricer", `interface "Pricer"`},
		{"Closer", `interface "Closer" <<sealed>>`},
		{"Handler", `interface "Handler" <<delegate>>`},
		{"Failure", `exception "Failure"`},
		{"Box<T>", `class "Box<T>"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b, ok := c.Block(tt.name)
			if !ok {
				t.Fatalf("no block %q", tt.name)
			}
			if b.Header != tt.want {
				t.Errorf("header = %q, want %q", b.Header, tt.want)
			}
		})
	}
}

func TestOrderSegments(t *testing.T) {
	c := buildShop(t, Options{})
	b, _ := c.Block("Order")

	tests := []struct {
		seg  uml.Segment
		want []string
	}{
		{uml.SegmentSummary, []string{"Order is a customer order. It holds Line values and reports its Status."}},
		{uml.SegmentEvents, []string{"+ Updates : chan Status <<signal>>"}},
		{uml.SegmentFields, []string{"+ Lines : []Line", "+ State : Status", "+ Tags : map[string]string"}},
		{uml.SegmentConstructors, []string{"+ NewOrder(...Line lines) : *Order"}},
		{uml.SegmentMethods, []string{"+ Add(Line l, int) : (*Order, error)", "+ Price() : int"}},
	}
	for _, tt := range tests {
		t.Run(tt.seg.String(), func(t *testing.T) {
			if got := b.Lines(tt.seg); !slices.Equal(got, tt.want) {
				t.Errorf("%s = %q, want %q", tt.seg, got, tt.want)
			}
		})
	}
}

func TestEnumAndDelegate(t *testing.T) {
	c := buildShop(t, Options{})

	status, _ := c.Block("Status")
	want := []string{"+ Open = 0", "+ Closed = 1", "+ Archived = 1,000"}
	if got := status.Lines(uml.SegmentFields); !slices.Equal(got, want) {
		t.Errorf("Status values = %q, want %q", got, want)
	}

	handler, _ := c.Block("Handler")
	if got := handler.Lines(uml.SegmentMethods); !slices.Equal(got, []string{"+ Handler(*Order o) : error"}) {
		t.Errorf("Handler invoke = %q", got)
	}
}

func TestRelationships(t *testing.T) {
	c := buildShop(t, Options{})
	edges := c.Graph.Edges()

	want := []typegraph.Edge{
		{From: "Order", To: "Base", Kind: typegraph.Inherits},
		{From: "Order", To: "Pricer", Kind: typegraph.Implements},
		{From: "Order", To: "Line", Kind: typegraph.ComposedOf},
		{From: "Order", To: "Status", Kind: typegraph.ComposedOf},
		{From: "Handler", To: "Order", Kind: typegraph.References},
		{From: "Holder", To: "Box<T>", Kind: typegraph.ComposedOf},
		{From: "Holder", To: "Line", Kind: typegraph.ComposedOf},
		{From: "Box<T>", To: "Line", Kind: typegraph.ComposedOf},
	}
	for _, e := range want[:len(want)-1] {
		if !slices.Contains(edges, e) {
			t.Errorf("missing edge %+v", e)
		}
	}
	if slices.Contains(edges, want[len(want)-1]) {
		t.Error("generic declaration linked to an argument of one of its instances")
	}
	for _, e := range edges {
		if e.From == e.To {
			t.Errorf("self loop %+v", e)
		}
	}
}

func TestFirstParagraph(t *testing.T) {
	tests := []struct{ in, want string }{
		{"One line.\n", "One line."},
		{"First\nstill first.\n\nSecond.", "First\nstill first."},
		{"", ""},
	}
	for _, tt := range tests {
		if got := firstParagraph(tt.in); got != tt.want {
			t.Errorf("firstParagraph(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestSplitPattern(t *testing.T) {
	tests := []struct{ in, dir, pattern string }{
		{"./internal/shop", "./internal/shop", "."},
		{"./...", ".", "./..."},
		{"...", ".", "./..."},
		{"pkg/...", "pkg", "./..."},
	}
	for _, tt := range tests {
		dir, pattern := splitPattern(tt.in)
		if dir != tt.dir || pattern != tt.pattern {
			t.Errorf("splitPattern(%q) = %q, %q, want %q, %q", tt.in, dir, pattern, tt.dir, tt.pattern)
		}
	}
}
