// Package typegraph holds the typed relationship graph between diagram types
// and partitions it into connected groups.
//
// # Relationships
//
// Edges are directed and typed by [Kind]. Each kind carries the arrow and the
// label used when it is written into a class diagram:
//
//	ComposedOf  --*          field, property or event type
//	Encloses    *--          nested type to its declaring type
//	Implements  -[dashed]->  interface not already implemented by the base
//	Inherits    --|>         base type, or an enum's underlying type
//	References  -->          constructor/method parameter or return type
//	Extends     -[dashed]->  extension method target
//
// A [Graph] only records edges whose target is a known type and whose source
// differs from the target. Edges are kept per source in kind order, then in
// insertion order, and duplicates are ignored.
//
// # Partitioning
//
// [Partition] treats the graph as undirected and splits the known types into
// maximal connected groups, plus an unconnected bucket holding every type
// with no edge in either direction. Groups are labeled "Reference Group N"
// in order of their earliest member.
package typegraph
