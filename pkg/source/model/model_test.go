package model

import (
	"bytes"
	"context"
	"slices"
	"strings"
	"testing"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

func TestLoadJSON(t *testing.T) {
	set, err := Loader{}.Load(context.Background(), "testdata/shop.json")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if set.Module != "Shop" || set.Dir != "testdata" {
		t.Errorf("Module, Dir = %q, %q", set.Module, set.Dir)
	}
	if len(set.Types) != 5 {
		t.Fatalf("len(Types) = %d, want 5 (externals excluded)", len(set.Types))
	}

	c, err := uml.Build(set.Types, set.Docs, uml.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}

	order, ok := c.Block("Order")
	if !ok {
		t.Fatal("no Order block")
	}
	wantFields := []string{"+ Lines : []Line", "+ Tags : map[String]String"}
	if got := order.Lines(uml.SegmentFields); !slices.Equal(got, wantFields) {
		t.Errorf("Order fields = %q, want %q", got, wantFields)
	}
	if got := order.Lines(uml.SegmentSummary); !slices.Equal(got, []string{"An order of Line items."}) {
		t.Errorf("Order summary = %q", got)
	}

	wantEdges := []typegraph.Edge{
		{From: "Order", To: "Line", Kind: typegraph.ComposedOf},
		{From: "Order", To: "Status", Kind: typegraph.ComposedOf},
		{From: "Order", To: "IPriced", Kind: typegraph.Implements},
	}
	if got := c.Graph.Outgoing("Order"); !slices.Equal(got, wantEdges) {
		t.Errorf("Order edges = %+v, want %+v", got, wantEdges)
	}

	if b, _ := c.Block("OrderError"); b.Header != `exception "OrderError"` {
		t.Errorf("OrderError header = %q", b.Header)
	}
	if b, _ := c.Block("Status"); b.Header != `enum "Status" <<Int32>> <<sealed>>` {
		t.Errorf("Status header = %q", b.Header)
	}
}

func TestLoadYAML(t *testing.T) {
	set, err := Loader{}.Load(context.Background(), "testdata/shop.yaml")
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	c, err := uml.Build(set.Types, set.Docs, uml.Options{})
	if err != nil {
		t.Fatal(err)
	}
	b, _ := c.Block("Order")
	want := []string{"+ Callback : func(Line)", "+ Lines : []Line"}
	if got := b.Lines(uml.SegmentFields); !slices.Equal(got, want) {
		t.Errorf("fields = %q, want %q", got, want)
	}
}

func TestBuildErrors(t *testing.T) {
	tests := []struct {
		name  string
		model string
	}{
		{"unknown reference", `{"types":[{"id":"A","name":"A","base":"B"}]}`},
		{"duplicate id", `{"types":[{"id":"A","name":"A"},{"id":"A","name":"A"}]}`},
		{"unknown kind", `{"types":[{"name":"A","kind":"record"}]}`},
		{"no name", `{"types":[{"kind":"class"}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := Decode(strings.NewReader(tt.model), FormatJSON)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			if _, err := m.Build(); !errors.Is(err, errors.ErrCodeInvalidModel) {
				t.Errorf("Build() error = %v, want %s", err, errors.ErrCodeInvalidModel)
			}
		})
	}
}

func TestDecodeRejectsUnknownFields(t *testing.T) {
	_, err := Decode(strings.NewReader(`{"types":[{"name":"A","colour":"red"}]}`), FormatJSON)
	if !errors.Is(err, errors.ErrCodeInvalidModel) {
		t.Errorf("Decode() error = %v", err)
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile("testdata/missing.json"); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("ReadFile() error = %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	str := &descriptor.Type{NS: "System", RawName: "String"}
	param := &descriptor.Type{RawName: "T"}
	def := &descriptor.Type{NS: "Lib", RawName: "Box`1", Args: []descriptor.TypeDescriptor{param}}
	item := &descriptor.Type{NS: "Lib", RawName: "Item", TypeKind: descriptor.KindStruct}
	box := &descriptor.Type{NS: "Lib", RawName: "Box`1", Definition: def,
		Args: []descriptor.TypeDescriptor{&descriptor.Compound{Shape: descriptor.ShapePointer, Parts: []descriptor.TypeDescriptor{item}}}}
	holder := &descriptor.Type{NS: "Lib", RawName: "Holder",
		FieldList:  []descriptor.Member{{Name: "Box", Type: box}},
		MethodList: []descriptor.Method{{Name: "Name", Returns: str}},
	}
	docs := uml.DocMap{holder: {Text: "Holds a [Lib.Item]."}}
	in := []descriptor.TypeDescriptor{item, holder, def}

	m, err := Export("Lib", in, docs)
	if err != nil {
		t.Fatalf("Export() error: %v", err)
	}

	var ids []string
	for _, s := range m.Types {
		ids = append(ids, s.ID)
	}
	wantIDs := []string{"Lib.Item", "Lib.Holder", "Lib.Box`1", "Lib.Box`1#2", "System.String", "T"}
	if !slices.Equal(ids, wantIDs) {
		t.Errorf("ids = %q, want %q", ids, wantIDs)
	}

	for _, format := range []Format{FormatJSON, FormatYAML} {
		t.Run(string(format), func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, m, format); err != nil {
				t.Fatalf("Encode() error: %v", err)
			}
			back, err := Decode(&buf, format)
			if err != nil {
				t.Fatalf("Decode() error: %v", err)
			}
			set, err := back.Build()
			if err != nil {
				t.Fatalf("Build() error: %v", err)
			}

			want := render(t, in, docs)
			if got := render(t, set.Types, set.Docs); got != want {
				t.Errorf("round trip changed the diagram:\n%s\nwant\n%s", got, want)
			}
		})
	}
}

func render(t *testing.T, types []descriptor.TypeDescriptor, docs uml.DocStore) string {
	t.Helper()
	c, err := uml.Build(types, docs, uml.Options{})
	if err != nil {
		t.Fatal(err)
	}
	var sb strings.Builder
	for _, b := range c.Blocks() {
		sb.WriteString(b.Header + "\n")
		for _, seg := range uml.Segments() {
			for _, l := range b.Lines(seg) {
				sb.WriteString(l + "\n")
			}
		}
	}
	for _, e := range c.Graph.Edges() {
		sb.WriteString(e.From + " " + e.Kind.String() + " " + e.To + "\n")
	}
	return sb.String()
}
