package plantuml

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

func build(t *testing.T, ts ...*descriptor.Type) *uml.Context {
	t.Helper()
	in := make([]descriptor.TypeDescriptor, len(ts))
	for i, d := range ts {
		in[i] = d
	}
	c, err := uml.Build(in, nil, uml.Options{})
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return c
}

func scenario() (a, b *descriptor.Type) {
	a = &descriptor.Type{NS: "Shop", RawName: "A", TypeKind: descriptor.KindStruct}
	b = &descriptor.Type{NS: "Shop", RawName: "B",
		FieldList: []descriptor.Member{{Name: "Value", Type: a}}}
	return a, b
}

func TestRenderScenario(t *testing.T) {
	a, b := scenario()
	c := build(t, b, a)

	got := Render(c, Document{Module: "Shop", Label: AllTypesLabel})
	want := strings.Join([]string{
		"@startUml",
		`title "Shop (All Exported Types)"`,
		`struct "A"`,
		"{",
		"}",
		"",
		`class "B"`,
		"{",
		"<i>Fields</i>",
		"+ Value : A",
		"}",
		`"B" --* "A" : Composed Of`,
		"",
		"@endUml",
		"",
	}, "\n")
	if got != want {
		t.Errorf("Render() =\n%s\nwant\n%s", got, want)
	}
}

func TestRenderSeparators(t *testing.T) {
	tInt := &descriptor.Type{NS: "System", RawName: "Int32", TypeKind: descriptor.KindStruct}
	w := &descriptor.Type{NS: "App", RawName: "W",
		FieldList:  []descriptor.Member{{Name: "N", Type: tInt}},
		MethodList: []descriptor.Method{{Name: "Run"}},
	}
	got := Render(build(t, w), Document{Module: "App", Label: "x"})

	if !strings.Contains(got, "+ N : Int32\n--\n<i>Methods</i>\n+ Run()\n}") {
		t.Errorf("separator missing between fields and methods:\n%s", got)
	}
	if strings.Contains(got, "+ Run()\n--") {
		t.Errorf("trailing separator after last segment:\n%s", got)
	}
}

func TestPagination(t *testing.T) {
	tests := []struct {
		types, perPage, breaks int
	}{
		{301, 250, 1},
		{250, 250, 0},
		{251, 250, 1},
		{10, 3, 3},
		{5, 0, 0},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("%d/%d", tt.types, tt.perPage), func(t *testing.T) {
			ts := make([]*descriptor.Type, tt.types)
			for i := range ts {
				ts[i] = &descriptor.Type{NS: "P", RawName: fmt.Sprintf("T%03d", i)}
			}
			got := Render(build(t, ts...), Document{Module: "P", Label: "All", MaxTypesPerPage: tt.perPage})
			if n := strings.Count(got, "\n"+PageBreak+"\n"); n != tt.breaks {
				t.Errorf("page breaks = %d, want %d", n, tt.breaks)
			}
		})
	}
}

func TestTierOrder(t *testing.T) {
	cls := &descriptor.Type{NS: "N", RawName: "Cls"}
	enum := &descriptor.Type{NS: "N", RawName: "Level", TypeKind: descriptor.KindEnum}
	st1 := &descriptor.Type{NS: "N", RawName: "S1", TypeKind: descriptor.KindStruct}
	iface := &descriptor.Type{NS: "N", RawName: "I", TypeKind: descriptor.KindInterface}
	st2 := &descriptor.Type{NS: "N", RawName: "S2", TypeKind: descriptor.KindStruct}

	c := build(t, cls, enum, st1, iface, st2)
	var names []string
	for _, b := range Select(c, nil) {
		names = append(names, b.Name)
	}
	want := "S1 S2 Level Cls I"
	if got := strings.Join(names, " "); got != want {
		t.Errorf("order = %q, want %q", got, want)
	}
}

func TestFooter(t *testing.T) {
	a, _ := scenario()
	at := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	got := Render(build(t, a), Document{Module: "Shop", Label: "All", GeneratedAt: at})
	if !strings.Contains(got, "footer //Generated March 5, 2024 2:07 PM//\n@endUml\n") {
		t.Errorf("footer missing:\n%s", got)
	}
	if strings.Contains(Render(build(t, a), Document{Module: "Shop", Label: "All"}), "footer") {
		t.Error("footer written without a timestamp")
	}
}

func TestSelect(t *testing.T) {
	a, b := scenario()
	c := build(t, a, b)

	got := Render(c, Document{Module: "Shop", Label: "Only B", Select: func(n string) bool { return n == "B" }})
	if strings.Contains(got, `struct "A"`) {
		t.Error("unselected type rendered")
	}
	if !strings.Contains(got, `"B" --* "A" : Composed Of`) {
		t.Error("edge to a known type outside the selection dropped")
	}
	if Render(c, Document{Select: func(string) bool { return false }}) != "" {
		t.Error("empty selection produced output")
	}
}

func TestWriteTo(t *testing.T) {
	a, b := scenario()
	var buf bytes.Buffer
	n, err := WriteTo(&buf, build(t, a, b), Document{Module: "Shop", Label: "All"})
	if err != nil {
		t.Fatalf("WriteTo() error: %v", err)
	}
	if n != 2 {
		t.Errorf("WriteTo() = %d blocks, want 2", n)
	}
	if !strings.HasPrefix(buf.String(), "@startUml\n") {
		t.Errorf("unexpected output %q", buf.String())
	}
}

func TestPlan(t *testing.T) {
	one := typegraph.Result{Groups: []typegraph.Group{{Label: "Reference Group 1", Members: []string{"A", "B"}}}}
	if got := Plan(one, PlanOptions{Module: "Shop"}); len(got) != 1 {
		t.Fatalf("single group: %d documents, want 1", len(got))
	}

	two := typegraph.Result{
		Groups:      []typegraph.Group{{Label: "Reference Group 1", Members: []string{"A", "B"}}},
		Unconnected: []string{"C"},
	}
	got := Plan(two, PlanOptions{Module: "Shop", MaxTypesPerPage: 10})
	if len(got) != 3 {
		t.Fatalf("len(Plan()) = %d, want 3", len(got))
	}

	wantFiles := []string{"Shop.All.uml", "Shop.ReferenceGroup1.uml", "Shop.NoReferences.uml"}
	for i, p := range got {
		if f := p.FileName("Shop"); f != wantFiles[i] {
			t.Errorf("doc %d file = %q, want %q", i, f, wantFiles[i])
		}
		if p.MaxTypesPerPage != 10 {
			t.Errorf("doc %d MaxTypesPerPage = %d", i, p.MaxTypesPerPage)
		}
	}
	if got[0].Select != nil || got[0].Label != AllTypesLabel {
		t.Error("first document is not the unfiltered all-types document")
	}
	if !got[2].Select("C") || got[2].Select("A") {
		t.Error("bucket document selects the wrong types")
	}
}

func TestDocumentFileName(t *testing.T) {
	d := Document{Label: "Reference Group 12"}
	if got := d.FileName("Lib"); got != "Lib.ReferenceGroup12.uml" {
		t.Errorf("FileName() = %q", got)
	}
}
