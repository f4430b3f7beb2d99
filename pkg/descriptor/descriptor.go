package descriptor

import "strings"

// Kind classifies a described type.
type Kind int

const (
	KindClass Kind = iota
	KindInterface
	KindStruct
	KindEnum
	KindDelegate
)

var kindNames = map[Kind]string{
	KindClass:     "class",
	KindInterface: "interface",
	KindStruct:    "struct",
	KindEnum:      "enum",
	KindDelegate:  "delegate",
}

// String returns the lower-case kind name.
func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// ParseKind maps a kind name back to a Kind. Unknown names yield KindClass
// and false.
func ParseKind(s string) (Kind, bool) {
	for k, name := range kindNames {
		if strings.EqualFold(name, s) {
			return k, true
		}
	}
	return KindClass, false
}

// IsValueType reports whether values of the kind are copied rather than
// referenced. Structs and enums are value types.
func (k Kind) IsValueType() bool {
	return k == KindStruct || k == KindEnum
}

// TypeDescriptor is the capability interface over a described type.
//
// Accessors that return a single descriptor return a nil interface when the
// relationship is absent.
type TypeDescriptor interface {
	Kind() Kind
	Sealed() bool
	Abstract() bool

	// Namespace is the qualifying prefix of the raw name (package path,
	// namespace). It may be empty.
	Namespace() string
	// Name is the raw simple name. It may carry arity markers ("List`1")
	// and nesting separators ("Outer+Inner").
	Name() string

	DeclaringType() TypeDescriptor
	BaseType() TypeDescriptor
	// Interfaces returns every implemented interface, inherited ones
	// included, in a stable order without duplicates.
	Interfaces() []TypeDescriptor
	TypeArgs() []TypeDescriptor
	// GenericDefinition returns the open definition of a constructed
	// generic type, or nil.
	GenericDefinition() TypeDescriptor
	// UnderlyingType returns the primitive behind an enum, or nil.
	UnderlyingType() TypeDescriptor
	EnumValues() []EnumValue

	Fields() []Member
	Properties() []Property
	Events() []Member
	Constructors() []Method
	Methods() []Method
}

// Composite is implemented by unnamed structural types whose display name is
// built from their element types.
type Composite interface {
	TypeDescriptor
	Elements() []TypeDescriptor
	// Format assembles the display name from the already resolved element
	// names, given in Elements order.
	Format(elems []string) string
}

// Member is a field or event.
type Member struct {
	Name      string
	Type      TypeDescriptor
	Inherited bool
}

// Property is a member with accessor availability.
type Property struct {
	Name      string
	Type      TypeDescriptor
	CanRead   bool
	CanWrite  bool
	Inherited bool
}

// Parameter is a named constructor or method parameter.
type Parameter struct {
	Name string
	Type TypeDescriptor
}

// Method describes a constructor or method. Returns is nil when the method
// produces no value.
type Method struct {
	Name    string
	Params  []Parameter
	Returns TypeDescriptor

	// Extension marks a method that is declared on one type but extends the
	// type of its first parameter.
	Extension bool
	// Accessor marks compiler-generated property or event accessors.
	Accessor  bool
	Inherited bool
}

// EnumValue is a single enumerant.
type EnumValue struct {
	Name  string
	Value float64
}

// FullName returns the raw, namespace-qualified identifier of d. It is the
// form documentation cross-references use. FullName(nil) is "".
func FullName(d TypeDescriptor) string {
	if d == nil {
		return ""
	}
	if ns := d.Namespace(); ns != "" {
		return ns + "." + d.Name()
	}
	return d.Name()
}

// Implements reports whether iface appears in d's interface set.
func Implements(d, iface TypeDescriptor) bool {
	if d == nil || iface == nil {
		return false
	}
	for _, i := range d.Interfaces() {
		if i == iface {
			return true
		}
	}
	return false
}
