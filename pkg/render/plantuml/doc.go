// Package plantuml writes class-diagram documents in PlantUML text form.
//
// # Document Layout
//
// Every document has the same frame:
//
//	@startUml
//	title "<module> (<label>)"
//	<type block>*
//	[footer //Generated <timestamp>//]
//	@endUml
//
// A type block is the header line, an opening brace, each populated segment
// as an italic label line followed by its lines, a closing brace, one line
// per outgoing relationship and a blank line. A segment is followed by its
// separator only when a later segment of the same block is populated.
//
// # Ordering and Pages
//
// Structs are written first, then enums, then everything else, keeping the
// input order within each tier. PlantUML rejects a struct that is declared
// after a type which already referenced it, which is what the tiering
// avoids. When more types are selected than fit on a page, a newpage marker
// is written between two blocks and counting restarts.
//
// # Planning
//
// [Plan] turns a partition into the list of documents to write: the
// all-types document always, and one document per group when there is more
// than one group.
package plantuml
