// Package uml turns type descriptors into class-diagram building blocks.
//
// One call to [Build] runs a complete pass over an input type set and
// returns a [Context] holding everything the pass derived:
//
//   - the name resolver with every canonical name assigned on the way
//   - the relationship graph between the input types
//   - one [Block] per input type with its header and segment lines
//
// The pass walks the types in input order. For each type it records the
// relationships implied by its base type, declaring type, interface delta,
// member types and signatures, and formats its header and members. Summaries
// are attached in a second walk, once every type has a name, so that
// documentation cross-references can point forward.
//
// A Context is read-only once Build returns. It is not safe for concurrent
// mutation, but concurrent reads are fine.
package uml
