package naming

import (
	"errors"
	"testing"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
)

func TestResolveNil(t *testing.T) {
	r := New()
	name, found := r.Resolve(nil)
	if name != "" {
		t.Errorf("Resolve(nil) = %q, want empty", name)
	}
	if len(found) != 0 {
		t.Errorf("Resolve(nil) discovered %d types, want 0", len(found))
	}
	if r.Len() != 0 {
		t.Errorf("Resolve(nil) registered %d types, want 0", r.Len())
	}
}

func TestResolve(t *testing.T) {
	str := &descriptor.Type{NS: "System", RawName: "String"}
	i32 := &descriptor.Type{NS: "System", RawName: "Int32"}
	tParam := &descriptor.Type{RawName: "T"}
	kParam := &descriptor.Type{RawName: "K"}

	outer := &descriptor.Type{NS: "App.Model", RawName: "Outer"}
	genericOuter := &descriptor.Type{NS: "App", RawName: "Cache`1", Args: []descriptor.TypeDescriptor{tParam}}

	tests := []struct {
		name string
		typ  descriptor.TypeDescriptor
		want string
	}{
		{
			name: "namespace stripped",
			typ:  &descriptor.Type{NS: "App.Model", RawName: "Order"},
			want: "Order",
		},
		{
			name: "nesting separator normalized",
			typ:  &descriptor.Type{NS: "App", RawName: "Outer+Inner"},
			want: "Outer.Inner",
		},
		{
			name: "declaring type prefix",
			typ:  &descriptor.Type{NS: "App.Model", RawName: "Line", Declaring: outer},
			want: "Outer.Line",
		},
		{
			name: "generic arguments",
			typ: &descriptor.Type{
				NS:      "System.Collections.Generic",
				RawName: "Dictionary`2",
				Args:    []descriptor.TypeDescriptor{str, i32},
			},
			want: "Dictionary<String, Int32>",
		},
		{
			name: "nested generic argument",
			typ: &descriptor.Type{
				RawName: "List`1",
				Args: []descriptor.TypeDescriptor{&descriptor.Type{
					RawName: "Nullable`1",
					Args:    []descriptor.TypeDescriptor{i32},
				}},
			},
			want: "List<Nullable<Int32>>",
		},
		{
			name: "nested generic excludes enclosing arguments",
			typ: &descriptor.Type{
				NS:        "App",
				RawName:   "Cache`1+Entry`1",
				Declaring: genericOuter,
				Args:      []descriptor.TypeDescriptor{tParam, kParam},
			},
			want: "Cache<T>.Entry<K>",
		},
		{
			name: "nested generic with only bound arguments",
			typ: &descriptor.Type{
				NS:        "App",
				RawName:   "Cache`1+Node",
				Declaring: genericOuter,
				Args:      []descriptor.TypeDescriptor{tParam},
			},
			want: "Cache<T>.Node",
		},
		{
			name: "composite",
			typ: &descriptor.Compound{
				Shape: descriptor.ShapeMap,
				Parts: []descriptor.TypeDescriptor{str, &descriptor.Compound{
					Shape: descriptor.ShapeSlice,
					Parts: []descriptor.TypeDescriptor{i32},
				}},
			},
			want: "map[String][]Int32",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := New()
			got, _ := r.Resolve(tt.typ)
			if got != tt.want {
				t.Errorf("Resolve() = %q, want %q", got, tt.want)
			}
			again, _ := r.Resolve(tt.typ)
			if again != got {
				t.Errorf("second Resolve() = %q, first = %q", again, got)
			}
		})
	}
}

func TestResolveDiscoveries(t *testing.T) {
	elem := &descriptor.Type{NS: "App", RawName: "Item"}
	tParam := &descriptor.Type{RawName: "T"}
	def := &descriptor.Type{NS: "App", RawName: "Box`1", Args: []descriptor.TypeDescriptor{tParam}}
	box := &descriptor.Type{NS: "App", RawName: "Box`1", Args: []descriptor.TypeDescriptor{elem}, Definition: def}

	r := New()
	name, found := r.Resolve(box)
	if name != "Box<Item>" {
		t.Fatalf("Resolve() = %q, want Box<Item>", name)
	}

	want := []string{"T", "Box<T>", "Item", "Box<Item>"}
	if len(found) != len(want) {
		t.Fatalf("discovered %d types, want %d: %v", len(found), len(want), found)
	}
	for i, d := range found {
		if d.Name != want[i] {
			t.Errorf("discovery %d = %q, want %q", i, d.Name, want[i])
		}
	}

	// Discoveries are reported again on a cached resolution.
	_, again := r.Resolve(box)
	if len(again) != len(want) {
		t.Errorf("cached Resolve() discovered %d types, want %d", len(again), len(want))
	}
}

func TestLookup(t *testing.T) {
	outside := &descriptor.Type{NS: "Vendor.Lib", RawName: "Widget"}
	holder := &descriptor.Type{NS: "App", RawName: "List`1", Args: []descriptor.TypeDescriptor{outside}}

	r := New()
	r.Resolve(holder)

	got, ok := r.Lookup("Vendor.Lib.Widget")
	if !ok || got != descriptor.TypeDescriptor(outside) {
		t.Errorf("Lookup(Vendor.Lib.Widget) = %v, %v; want registered argument", got, ok)
	}
	if _, ok := r.ByName("Widget"); !ok {
		t.Error("ByName(Widget) not found")
	}
	if name, ok := r.Name(outside); !ok || name != "Widget" {
		t.Errorf("Name() = %q, %v; want Widget, true", name, ok)
	}
}

func TestResolveCycle(t *testing.T) {
	self := &descriptor.Type{NS: "App", RawName: "Node`1"}
	self.Args = []descriptor.TypeDescriptor{self}

	r := New()
	if _, _, err := r.ResolveChecked(self); !errors.Is(err, ErrResolutionCycle) {
		t.Fatalf("ResolveChecked() error = %v, want ErrResolutionCycle", err)
	}

	name, _ := New().Resolve(self)
	if name != "Node<Node>" {
		t.Errorf("Resolve() = %q, want Node<Node>", name)
	}
}

func TestStripArity(t *testing.T) {
	tests := map[string]string{
		"List`1":          "List",
		"Outer`2+Inner`1": "Outer+Inner",
		"Plain":           "Plain",
		"Dictionary`10":   "Dictionary",
	}
	for in, want := range tests {
		if got := StripArity(in); got != want {
			t.Errorf("StripArity(%q) = %q, want %q", in, got, want)
		}
	}
}
