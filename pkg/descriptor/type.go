package descriptor

// Type is a plain-data TypeDescriptor.
//
// Single-descriptor links use *Type so that the zero value means "absent";
// the accessor methods convert a nil pointer into a nil interface. Generic
// arguments and member types are TypeDescriptor values and may point at any
// implementation, including [Compound].
type Type struct {
	TypeKind   Kind
	IsSealed   bool
	IsAbstract bool

	NS      string
	RawName string

	Declaring  *Type
	Base       *Type
	Ifaces     []*Type
	Args       []TypeDescriptor
	Definition *Type
	Underlying *Type
	Values     []EnumValue

	FieldList       []Member
	PropertyList    []Property
	EventList       []Member
	ConstructorList []Method
	MethodList      []Method
}

func (t *Type) Kind() Kind        { return t.TypeKind }
func (t *Type) Sealed() bool      { return t.IsSealed }
func (t *Type) Abstract() bool    { return t.IsAbstract }
func (t *Type) Namespace() string { return t.NS }
func (t *Type) Name() string      { return t.RawName }

func (t *Type) DeclaringType() TypeDescriptor     { return ref(t.Declaring) }
func (t *Type) BaseType() TypeDescriptor          { return ref(t.Base) }
func (t *Type) GenericDefinition() TypeDescriptor { return ref(t.Definition) }
func (t *Type) UnderlyingType() TypeDescriptor    { return ref(t.Underlying) }

func (t *Type) Interfaces() []TypeDescriptor { return refs(t.Ifaces) }
func (t *Type) TypeArgs() []TypeDescriptor   { return compact(t.Args) }
func (t *Type) EnumValues() []EnumValue      { return t.Values }

func (t *Type) Fields() []Member       { return t.FieldList }
func (t *Type) Properties() []Property { return t.PropertyList }
func (t *Type) Events() []Member       { return t.EventList }
func (t *Type) Constructors() []Method { return t.ConstructorList }
func (t *Type) Methods() []Method      { return t.MethodList }

// String returns the raw full name.
func (t *Type) String() string { return FullName(t) }

// Ref converts t to a TypeDescriptor, mapping a nil pointer to a nil
// interface.
func Ref(t *Type) TypeDescriptor { return ref(t) }

func ref(t *Type) TypeDescriptor {
	if t == nil {
		return nil
	}
	return t
}

func refs(ts []*Type) []TypeDescriptor {
	if len(ts) == 0 {
		return nil
	}
	out := make([]TypeDescriptor, 0, len(ts))
	for _, t := range ts {
		if t != nil {
			out = append(out, t)
		}
	}
	return out
}

func compact(ds []TypeDescriptor) []TypeDescriptor {
	if len(ds) == 0 {
		return nil
	}
	out := make([]TypeDescriptor, 0, len(ds))
	for _, d := range ds {
		if d != nil {
			out = append(out, d)
		}
	}
	return out
}

var _ TypeDescriptor = (*Type)(nil)
