package model

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/source"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// Format is a model encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatOf picks the format from a file extension. Anything but .yaml and
// .yml is read as JSON.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	}
	return FormatJSON
}

// Decode reads a model.
func Decode(r io.Reader, format Format) (*Model, error) {
	var m Model
	switch format {
	case FormatYAML:
		dec := yaml.NewDecoder(r)
		dec.KnownFields(true)
		if err := dec.Decode(&m); err != nil && err != io.EOF {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode yaml model")
		}
	default:
		dec := json.NewDecoder(r)
		dec.DisallowUnknownFields()
		if err := dec.Decode(&m); err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, err, "decode json model")
		}
	}
	return &m, nil
}

// ReadFile reads a model file.
func ReadFile(path string) (*Model, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.New(errors.ErrCodeFileNotFound, "model not found: %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read %s", path)
	}
	return Decode(bytes.NewReader(data), FormatOf(path))
}

// Encode writes m in the given format.
func Encode(w io.Writer, m *Model, format Format) error {
	if format == FormatYAML {
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(m); err != nil {
			return err
		}
		return enc.Close()
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(m)
}

// Loader loads model files.
type Loader struct{}

// Load reads the model at input and builds its types. The module name
// defaults to the file name without extension.
func (Loader) Load(ctx context.Context, input string) (*source.Set, error) {
	m, err := ReadFile(input)
	if err != nil {
		return nil, err
	}
	set, err := m.Build()
	if err != nil {
		return nil, err
	}
	if set.Module == "" {
		set.Module = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
	}
	set.Dir = filepath.Dir(input)
	return set, nil
}

var _ source.Loader = Loader{}

// Build turns the model into descriptors. Every referenced ID must be
// declared; each ID yields exactly one descriptor.
func (m *Model) Build() (*source.Set, error) {
	b := builder{byID: make(map[string]*descriptor.Type, len(m.Types))}
	for i := range m.Types {
		spec := &m.Types[i]
		if spec.ID == "" {
			spec.ID = joinName(spec.Namespace, spec.Name)
		}
		if spec.ID == "" {
			return nil, errors.New(errors.ErrCodeInvalidModel, "type %d has neither id nor name", i)
		}
		if _, dup := b.byID[spec.ID]; dup {
			return nil, errors.New(errors.ErrCodeInvalidModel, "duplicate type id %q", spec.ID)
		}
		kind, ok := descriptor.KindClass, true
		if spec.Kind != "" {
			kind, ok = descriptor.ParseKind(spec.Kind)
		}
		if !ok {
			return nil, errors.New(errors.ErrCodeInvalidModel, "type %q: unknown kind %q", spec.ID, spec.Kind)
		}
		b.byID[spec.ID] = &descriptor.Type{
			TypeKind:   kind,
			IsSealed:   spec.Sealed,
			IsAbstract: spec.Abstract,
			NS:         spec.Namespace,
			RawName:    spec.Name,
		}
	}

	set := &source.Set{Module: m.Module, Docs: uml.DocMap{}}
	for i := range m.Types {
		spec := &m.Types[i]
		t := b.byID[spec.ID]
		b.link(t, spec)
		if b.err != nil {
			return nil, errors.Wrap(errors.ErrCodeInvalidModel, b.err, "type %q", spec.ID)
		}
		if spec.Summary != nil {
			set.Docs[t] = spec.Summary.doc()
		}
		if !spec.External {
			set.Types = append(set.Types, t)
		}
	}
	return set, nil
}

type builder struct {
	byID map[string]*descriptor.Type
	err  error
}

func (b *builder) named(id string) *descriptor.Type {
	if id == "" || b.err != nil {
		return nil
	}
	t, ok := b.byID[id]
	if !ok {
		b.err = errors.Newf("unknown type id %q", id)
	}
	return t
}

func (b *builder) ref(r *Ref) descriptor.TypeDescriptor {
	if r == nil || b.err != nil {
		return nil
	}
	if r.Shape == "" {
		return descriptor.Ref(b.named(r.ID))
	}
	c := &descriptor.Compound{Shape: descriptor.Shape(r.Shape), Len: r.Len}
	for _, p := range r.Parts {
		c.Parts = append(c.Parts, b.ref(p))
	}
	return c
}

func (b *builder) link(t *descriptor.Type, spec *TypeSpec) {
	t.Declaring = b.named(spec.Declaring)
	t.Base = b.named(spec.Base)
	t.Definition = b.named(spec.Definition)
	t.Underlying = b.named(spec.Underlying)
	for _, id := range spec.Interfaces {
		if it := b.named(id); it != nil {
			t.Ifaces = append(t.Ifaces, it)
		}
	}
	for _, a := range spec.TypeArgs {
		if d := b.ref(a); d != nil {
			t.Args = append(t.Args, d)
		}
	}
	for _, v := range spec.EnumValues {
		t.Values = append(t.Values, descriptor.EnumValue{Name: v.Name, Value: v.Value})
	}
	t.FieldList = b.members(spec.Fields)
	t.EventList = b.members(spec.Events)
	for _, p := range spec.Properties {
		t.PropertyList = append(t.PropertyList, descriptor.Property{
			Name:      p.Name,
			Type:      b.ref(p.Type),
			CanRead:   p.CanRead,
			CanWrite:  p.CanWrite,
			Inherited: p.Inherited,
		})
	}
	t.ConstructorList = b.methods(spec.Constructors)
	t.MethodList = b.methods(spec.Methods)
}

func (b *builder) members(specs []MemberSpec) []descriptor.Member {
	var out []descriptor.Member
	for _, m := range specs {
		out = append(out, descriptor.Member{Name: m.Name, Type: b.ref(m.Type), Inherited: m.Inherited})
	}
	return out
}

func (b *builder) methods(specs []MethodSpec) []descriptor.Method {
	var out []descriptor.Method
	for _, m := range specs {
		method := descriptor.Method{
			Name:      m.Name,
			Returns:   b.ref(m.Returns),
			Extension: m.Extension,
			Accessor:  m.Accessor,
			Inherited: m.Inherited,
		}
		for _, p := range m.Params {
			method.Params = append(method.Params, descriptor.Parameter{Name: p.Name, Type: b.ref(p.Type)})
		}
		out = append(out, method)
	}
	return out
}

func (d *DocSpec) doc() uml.Doc {
	doc := uml.Doc{Text: d.Text, Returns: d.Returns}
	for _, p := range d.Params {
		doc.Params = append(doc.Params, uml.ParamDoc{Name: p.Name, Text: p.Text})
	}
	return doc
}

func joinName(ns, name string) string {
	if ns == "" {
		return name
	}
	return ns + "." + name
}
