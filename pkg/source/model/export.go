package model

import (
	"strconv"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// Export serializes types and every named type they reach. Types outside
// the given list are marked external. Building the result yields a
// descriptor graph with the same shape.
func Export(module string, types []descriptor.TypeDescriptor, docs uml.DocStore) (*Model, error) {
	e := exporter{
		ids:    map[descriptor.TypeDescriptor]string{},
		used:   map[string]bool{},
		inputs: map[descriptor.TypeDescriptor]bool{},
	}
	for _, t := range types {
		e.inputs[t] = true
	}
	for _, t := range types {
		e.id(t)
	}
	// e.queue grows while specs are built.
	m := &Model{Module: module}
	for i := 0; i < len(e.queue); i++ {
		d := e.queue[i]
		spec := e.spec(d)
		if docs != nil {
			if doc, ok := docs.Doc(d); ok {
				spec.Summary = docSpec(doc)
			}
		}
		m.Types = append(m.Types, spec)
	}
	if e.err != nil {
		return nil, e.err
	}
	return m, nil
}

type exporter struct {
	ids    map[descriptor.TypeDescriptor]string
	used   map[string]bool
	inputs map[descriptor.TypeDescriptor]bool
	queue  []descriptor.TypeDescriptor
	err    error
}

// id assigns the raw full name, suffixed with "#n" when a different
// descriptor already holds it (constructed generics share raw names).
func (e *exporter) id(d descriptor.TypeDescriptor) string {
	if d == nil {
		return ""
	}
	if id, ok := e.ids[d]; ok {
		return id
	}
	base := descriptor.FullName(d)
	id := base
	for n := 2; e.used[id]; n++ {
		id = base + "#" + strconv.Itoa(n)
	}
	e.ids[d] = id
	e.used[id] = true
	e.queue = append(e.queue, d)
	return id
}

func (e *exporter) ref(d descriptor.TypeDescriptor) *Ref {
	if d == nil {
		return nil
	}
	if _, ok := d.(descriptor.Composite); !ok {
		return IDRef(e.id(d))
	}
	c, ok := d.(*descriptor.Compound)
	if !ok {
		if e.err == nil {
			e.err = errors.New(errors.ErrCodeUnsupported, "cannot export composite %T", d)
		}
		return nil
	}
	r := &Ref{Shape: string(c.Shape), Len: c.Len}
	for _, p := range c.Parts {
		r.Parts = append(r.Parts, e.ref(p))
	}
	return r
}

func (e *exporter) spec(d descriptor.TypeDescriptor) TypeSpec {
	s := TypeSpec{
		ID:         e.ids[d],
		Kind:       d.Kind().String(),
		Namespace:  d.Namespace(),
		Name:       d.Name(),
		Sealed:     d.Sealed(),
		Abstract:   d.Abstract(),
		External:   !e.inputs[d],
		Declaring:  e.id(d.DeclaringType()),
		Base:       e.id(d.BaseType()),
		Definition: e.id(d.GenericDefinition()),
		Underlying: e.id(d.UnderlyingType()),
	}
	for _, it := range d.Interfaces() {
		s.Interfaces = append(s.Interfaces, e.id(it))
	}
	for _, a := range d.TypeArgs() {
		s.TypeArgs = append(s.TypeArgs, e.ref(a))
	}
	for _, v := range d.EnumValues() {
		s.EnumValues = append(s.EnumValues, EnumValueSpec{Name: v.Name, Value: v.Value})
	}
	s.Fields = e.members(d.Fields())
	s.Events = e.members(d.Events())
	for _, p := range d.Properties() {
		s.Properties = append(s.Properties, PropertySpec{
			Name:      p.Name,
			Type:      e.ref(p.Type),
			CanRead:   p.CanRead,
			CanWrite:  p.CanWrite,
			Inherited: p.Inherited,
		})
	}
	s.Constructors = e.methods(d.Constructors())
	s.Methods = e.methods(d.Methods())
	return s
}

func (e *exporter) members(ms []descriptor.Member) []MemberSpec {
	var out []MemberSpec
	for _, m := range ms {
		out = append(out, MemberSpec{Name: m.Name, Type: e.ref(m.Type), Inherited: m.Inherited})
	}
	return out
}

func (e *exporter) methods(ms []descriptor.Method) []MethodSpec {
	var out []MethodSpec
	for _, m := range ms {
		spec := MethodSpec{
			Name:      m.Name,
			Returns:   e.ref(m.Returns),
			Extension: m.Extension,
			Accessor:  m.Accessor,
			Inherited: m.Inherited,
		}
		for _, p := range m.Params {
			spec.Params = append(spec.Params, ParamSpec{Name: p.Name, Type: e.ref(p.Type)})
		}
		out = append(out, spec)
	}
	return out
}

func docSpec(doc uml.Doc) *DocSpec {
	s := &DocSpec{Text: doc.Text, Returns: doc.Returns}
	for _, p := range doc.Params {
		s.Params = append(s.Params, ParamDocSpec{Name: p.Name, Text: p.Text})
	}
	return s
}
