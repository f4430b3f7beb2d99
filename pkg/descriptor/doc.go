// Package descriptor defines the structural view of a program type that the
// diagram builder consumes.
//
// # Overview
//
// A [TypeDescriptor] is an opaque handle to a described type. It exposes the
// type's kind, modifiers, naming parts, its declaring (enclosing) type, base
// type, implemented interfaces, generic arguments, and its members. Source
// adapters implement it on top of whatever introspection facility they have:
// go/types for Go packages, a JSON model for descriptions produced elsewhere.
//
// Identity is by reference. Adapters must intern descriptors so that the same
// described type always yields the same TypeDescriptor value, and must never
// return a typed nil through an interface-valued accessor.
//
// # Plain Types
//
// [Type] is a plain-data implementation with exported fields. It is what the
// model adapter builds and what tests use as hand-built fakes:
//
//	a := &descriptor.Type{TypeKind: descriptor.KindStruct, RawName: "A"}
//	b := &descriptor.Type{TypeKind: descriptor.KindClass, RawName: "B"}
//	b.FieldList = []descriptor.Member{{Name: "Value", Type: a}}
//
// # Composite Types
//
// Unnamed structural types (pointers, slices, maps, tuples, variadic
// parameters) implement [Composite]. Their display name is assembled from the
// resolved names of their elements, and their elements take part in
// relationship discovery the same way generic arguments do. [Compound] is the
// stock implementation.
package descriptor
