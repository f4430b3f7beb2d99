// Package model reads and writes type models: a serialized form of a type
// set for tools that describe types from other ecosystems, and the cache
// format of loaded Go packages.
//
// A model lists named types by ID. Links between types use the ID, or an
// inline shape object for unnamed types:
//
//	{"shape": "map", "parts": ["System.String", {"shape": "slice", "parts": ["Shop.Order"]}]}
//
// Types marked external are referenced by the input but not diagrammed.
// Models are read from JSON or YAML; both use the same field names.
package model

import (
	"encoding/json"

	"gopkg.in/yaml.v3"
)

// Model is the serialized form of a type set.
type Model struct {
	Module string     `json:"module" yaml:"module"`
	Types  []TypeSpec `json:"types" yaml:"types"`
}

// TypeSpec describes one named type.
type TypeSpec struct {
	ID        string `json:"id" yaml:"id"`
	Kind      string `json:"kind,omitempty" yaml:"kind,omitempty"`
	Namespace string `json:"namespace,omitempty" yaml:"namespace,omitempty"`
	Name      string `json:"name" yaml:"name"`
	Sealed    bool   `json:"sealed,omitempty" yaml:"sealed,omitempty"`
	Abstract  bool   `json:"abstract,omitempty" yaml:"abstract,omitempty"`
	External  bool   `json:"external,omitempty" yaml:"external,omitempty"`

	Declaring  string   `json:"declaring,omitempty" yaml:"declaring,omitempty"`
	Base       string   `json:"base,omitempty" yaml:"base,omitempty"`
	Definition string   `json:"definition,omitempty" yaml:"definition,omitempty"`
	Underlying string   `json:"underlying,omitempty" yaml:"underlying,omitempty"`
	Interfaces []string `json:"interfaces,omitempty" yaml:"interfaces,omitempty"`
	TypeArgs   []*Ref   `json:"typeArgs,omitempty" yaml:"typeArgs,omitempty"`

	EnumValues   []EnumValueSpec `json:"enumValues,omitempty" yaml:"enumValues,omitempty"`
	Fields       []MemberSpec    `json:"fields,omitempty" yaml:"fields,omitempty"`
	Properties   []PropertySpec  `json:"properties,omitempty" yaml:"properties,omitempty"`
	Events       []MemberSpec    `json:"events,omitempty" yaml:"events,omitempty"`
	Constructors []MethodSpec    `json:"constructors,omitempty" yaml:"constructors,omitempty"`
	Methods      []MethodSpec    `json:"methods,omitempty" yaml:"methods,omitempty"`

	Summary *DocSpec `json:"summary,omitempty" yaml:"summary,omitempty"`
}

// EnumValueSpec is one enum constant.
type EnumValueSpec struct {
	Name  string  `json:"name" yaml:"name"`
	Value float64 `json:"value" yaml:"value"`
}

// MemberSpec is a field or event.
type MemberSpec struct {
	Name      string `json:"name" yaml:"name"`
	Type      *Ref   `json:"type" yaml:"type"`
	Inherited bool   `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}

// PropertySpec is a property.
type PropertySpec struct {
	Name      string `json:"name" yaml:"name"`
	Type      *Ref   `json:"type" yaml:"type"`
	CanRead   bool   `json:"get,omitempty" yaml:"get,omitempty"`
	CanWrite  bool   `json:"set,omitempty" yaml:"set,omitempty"`
	Inherited bool   `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}

// ParamSpec is a method parameter.
type ParamSpec struct {
	Name string `json:"name" yaml:"name"`
	Type *Ref   `json:"type" yaml:"type"`
}

// MethodSpec is a constructor or method.
type MethodSpec struct {
	Name      string      `json:"name,omitempty" yaml:"name,omitempty"`
	Params    []ParamSpec `json:"params,omitempty" yaml:"params,omitempty"`
	Returns   *Ref        `json:"returns,omitempty" yaml:"returns,omitempty"`
	Extension bool        `json:"extension,omitempty" yaml:"extension,omitempty"`
	Accessor  bool        `json:"accessor,omitempty" yaml:"accessor,omitempty"`
	Inherited bool        `json:"inherited,omitempty" yaml:"inherited,omitempty"`
}

// DocSpec is a type's documentation.
type DocSpec struct {
	Text    string         `json:"text,omitempty" yaml:"text,omitempty"`
	Params  []ParamDocSpec `json:"params,omitempty" yaml:"params,omitempty"`
	Returns string         `json:"returns,omitempty" yaml:"returns,omitempty"`
}

// ParamDocSpec documents one parameter.
type ParamDocSpec struct {
	Name string `json:"name" yaml:"name"`
	Text string `json:"text" yaml:"text"`
}

// Ref points at a named type by ID, or describes an unnamed type by shape.
// A nil part stands for an absent func result.
type Ref struct {
	ID    string `json:"id,omitempty" yaml:"id,omitempty"`
	Shape string `json:"shape,omitempty" yaml:"shape,omitempty"`
	Len   int64  `json:"len,omitempty" yaml:"len,omitempty"`
	Parts []*Ref `json:"parts,omitempty" yaml:"parts,omitempty"`
}

// IDRef returns a reference to a named type.
func IDRef(id string) *Ref { return &Ref{ID: id} }

// refFields breaks the marshal recursion.
type refFields Ref

// MarshalJSON writes a named reference as a bare string.
func (r *Ref) MarshalJSON() ([]byte, error) {
	if r.Shape == "" {
		return json.Marshal(r.ID)
	}
	return json.Marshal((*refFields)(r))
}

// UnmarshalJSON accepts a bare string or a shape object.
func (r *Ref) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		*r = Ref{}
		return json.Unmarshal(data, &r.ID)
	}
	return json.Unmarshal(data, (*refFields)(r))
}

// MarshalYAML writes a named reference as a bare scalar.
func (r *Ref) MarshalYAML() (any, error) {
	if r.Shape == "" {
		return r.ID, nil
	}
	return (*refFields)(r), nil
}

// UnmarshalYAML accepts a scalar or a shape mapping.
func (r *Ref) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind == yaml.ScalarNode {
		*r = Ref{}
		return value.Decode(&r.ID)
	}
	return value.Decode((*refFields)(r))
}
