package plantuml

import (
	"io"
	"slices"
	"strings"
	"time"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// DefaultMaxTypesPerPage is the page size used when none is configured.
const DefaultMaxTypesPerPage = 250

// FooterLayout is the time layout of the generation footer.
const FooterLayout = "January 2, 2006 3:04 PM"

// PageBreak is the marker line between pages.
const PageBreak = "newpage"

// Document describes one diagram document.
type Document struct {
	// Module is the input module's base name, shown in the title.
	Module string
	// Label is the title suffix and, without spaces, the file name part.
	Label string
	// Select reports whether a type belongs in the document. Nil selects
	// every type.
	Select func(name string) bool
	// MaxTypesPerPage bounds the blocks per page. Zero means
	// DefaultMaxTypesPerPage.
	MaxTypesPerPage int
	// GeneratedAt adds a generation footer when non-zero.
	GeneratedAt time.Time
}

// FileName returns "{base}.{label without spaces}.uml".
func (d Document) FileName(base string) string {
	return base + "." + strings.ReplaceAll(d.Label, " ", "") + ".uml"
}

// Title returns the title line's quoted text.
func (d Document) Title() string {
	return d.Module + " (" + d.Label + ")"
}

// Render returns the document text. It returns "" when no type is
// selected.
func Render(c *uml.Context, doc Document) string {
	var sb strings.Builder
	if n := write(&sb, c, doc); n == 0 {
		return ""
	}
	return sb.String()
}

// WriteTo writes the document to w and reports how many type blocks it
// holds. Nothing is written when no type is selected.
func WriteTo(w io.Writer, c *uml.Context, doc Document) (int, error) {
	text := Render(c, doc)
	if text == "" {
		return 0, nil
	}
	if _, err := io.WriteString(w, text); err != nil {
		return 0, err
	}
	return len(Select(c, doc.Select)), nil
}

// Select returns the selected blocks in output order: structs, then enums,
// then the rest, stable within each tier.
func Select(c *uml.Context, sel func(string) bool) []*uml.Block {
	var blocks []*uml.Block
	for _, b := range c.Blocks() {
		if sel == nil || sel(b.Name) {
			blocks = append(blocks, b)
		}
	}
	slices.SortStableFunc(blocks, func(a, b *uml.Block) int {
		return tier(a.Kind()) - tier(b.Kind())
	})
	return blocks
}

func tier(k descriptor.Kind) int {
	switch k {
	case descriptor.KindStruct:
		return 0
	case descriptor.KindEnum:
		return 1
	}
	return 2
}

func write(sb *strings.Builder, c *uml.Context, doc Document) int {
	blocks := Select(c, doc.Select)
	if len(blocks) == 0 {
		return 0
	}
	perPage := doc.MaxTypesPerPage
	if perPage <= 0 {
		perPage = DefaultMaxTypesPerPage
	}

	line := func(s string) {
		sb.WriteString(s)
		sb.WriteByte('\n')
	}

	line("@startUml")
	line(`title "` + doc.Title() + `"`)

	count := 0
	for _, b := range blocks {
		if count == perPage {
			line("")
			line(PageBreak)
			line("")
			count = 0
		}
		count++
		writeBlock(line, c, b)
	}

	if !doc.GeneratedAt.IsZero() {
		line("footer //Generated " + doc.GeneratedAt.Format(FooterLayout) + "//")
	}
	line("@endUml")
	return len(blocks)
}

func writeBlock(line func(string), c *uml.Context, b *uml.Block) {
	line(b.Header)
	line("{")
	for _, seg := range uml.Segments() {
		if !b.Populated(seg) {
			continue
		}
		line("<i>" + seg.String() + "</i>")
		for _, l := range b.Lines(seg) {
			line(l)
		}
		if b.PopulatedAfter(seg) {
			line(seg.Separator())
		}
	}
	line("}")
	for _, e := range c.Graph.Outgoing(b.Name) {
		if c.Graph.Known(e.To) {
			line(`"` + e.From + `" ` + e.Kind.Arrow() + ` "` + e.To + `" : ` + e.Kind.Label())
		}
	}
	line("")
}
