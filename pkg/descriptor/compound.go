package descriptor

import (
	"strconv"
	"strings"
)

// Shape names the structural constructor of a [Compound].
type Shape string

const (
	ShapePointer  Shape = "pointer"
	ShapeSlice    Shape = "slice"
	ShapeArray    Shape = "array"
	ShapeMap      Shape = "map"
	ShapeChan     Shape = "chan"
	ShapeTuple    Shape = "tuple"
	ShapeVariadic Shape = "variadic"
	ShapeFunc     Shape = "func"
)

// Compound is an unnamed structural type. For ShapeFunc the last part is
// the result (nil when there is none) and the rest are parameters.
type Compound struct {
	Shape Shape
	Len   int64
	Parts []TypeDescriptor
}

func (c *Compound) Kind() Kind                        { return KindClass }
func (c *Compound) Sealed() bool                      { return false }
func (c *Compound) Abstract() bool                    { return false }
func (c *Compound) Namespace() string                 { return "" }
func (c *Compound) DeclaringType() TypeDescriptor     { return nil }
func (c *Compound) BaseType() TypeDescriptor          { return nil }
func (c *Compound) Interfaces() []TypeDescriptor      { return nil }
func (c *Compound) TypeArgs() []TypeDescriptor        { return nil }
func (c *Compound) GenericDefinition() TypeDescriptor { return nil }
func (c *Compound) UnderlyingType() TypeDescriptor    { return nil }
func (c *Compound) EnumValues() []EnumValue           { return nil }
func (c *Compound) Fields() []Member                  { return nil }
func (c *Compound) Properties() []Property            { return nil }
func (c *Compound) Events() []Member                  { return nil }
func (c *Compound) Constructors() []Method            { return nil }
func (c *Compound) Methods() []Method                 { return nil }

// Name formats the compound from the raw full names of its parts.
func (c *Compound) Name() string {
	names := make([]string, len(c.Parts))
	for i, p := range c.Parts {
		names[i] = FullName(p)
	}
	return c.Format(names)
}

// Elements returns the non-nil parts.
func (c *Compound) Elements() []TypeDescriptor {
	out := make([]TypeDescriptor, 0, len(c.Parts))
	for _, p := range c.Parts {
		if p != nil {
			out = append(out, p)
		}
	}
	return out
}

// Format assembles the display name. elems lines up with Elements, so a nil
// func result is skipped on both sides.
func (c *Compound) Format(elems []string) string {
	at := func(i int) string {
		if i < len(elems) {
			return elems[i]
		}
		return "?"
	}
	switch c.Shape {
	case ShapePointer:
		return "*" + at(0)
	case ShapeSlice:
		return "[]" + at(0)
	case ShapeArray:
		return "[" + strconv.FormatInt(c.Len, 10) + "]" + at(0)
	case ShapeMap:
		return "map[" + at(0) + "]" + at(1)
	case ShapeChan:
		return "chan " + at(0)
	case ShapeVariadic:
		return "..." + at(0)
	case ShapeTuple:
		return "(" + strings.Join(elems, ", ") + ")"
	case ShapeFunc:
		n := len(c.Parts) - 1
		if n < 0 {
			return "func()"
		}
		if c.Parts[n] == nil {
			return "func(" + strings.Join(elems, ", ") + ")"
		}
		if len(elems) == 0 {
			return "func()"
		}
		return "func(" + strings.Join(elems[:len(elems)-1], ", ") + ") " + elems[len(elems)-1]
	}
	return strings.Join(elems, " ")
}

var _ Composite = (*Compound)(nil)
