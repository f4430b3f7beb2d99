package uml

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
)

// header formats `{keyword} "{name}"` followed by the type's annotations.
// Resolving an enum's underlying type records it as an Inherits edge.
func (c *Context) header(b *Block) string {
	d := b.Type
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s \"%s\"", c.keyword(d), b.Name)

	if d.Kind() == descriptor.KindEnum {
		if u := d.UnderlyingType(); u != nil {
			fmt.Fprintf(&sb, " <<%s>>", c.resolve(u, b, typegraph.Inherits))
		}
	}
	if d.Sealed() {
		sb.WriteString(" <<sealed>>")
	}
	if d.Kind() == descriptor.KindDelegate {
		sb.WriteString(" <<delegate>>")
	}
	return sb.String()
}

// keyword picks the diagram keyword. Delegates are drawn as interfaces.
func (c *Context) keyword(d descriptor.TypeDescriptor) string {
	switch {
	case d.Kind() == descriptor.KindInterface, d.Kind() == descriptor.KindDelegate:
		return "interface"
	case c.isException(d):
		return "exception"
	case d.Abstract():
		return "abstract class"
	case d.Kind() == descriptor.KindEnum:
		return "enum"
	case d.Kind() == descriptor.KindStruct:
		return "struct"
	}
	return "class"
}

// isException reports whether an ancestor of d, or one of its interfaces,
// is a designated exception base.
func (c *Context) isException(d descriptor.TypeDescriptor) bool {
	seen := make(map[descriptor.TypeDescriptor]bool)
	for base := d.BaseType(); base != nil && !seen[base]; base = base.BaseType() {
		if c.exceptions[descriptor.FullName(base)] {
			return true
		}
		seen[base] = true
	}
	for _, i := range d.Interfaces() {
		if c.exceptions[descriptor.FullName(i)] {
			return true
		}
	}
	return false
}

var (
	crossRefRe = regexp.MustCompile(`\[([^\[\]\s]+)\]`)
	spaceRe    = regexp.MustCompile(`\s+`)
)

// qualifiedRe matches a namespace-qualified type identifier such as
// "Shop.Invoice`1". Bracketed text of any other shape is not a marker.
var qualifiedRe = regexp.MustCompile("^[\\pL_][\\pL\\pN_`]*(\\.[\\pL_][\\pL\\pN_`]*)+$")

// summary builds the one-line Summary segment. Cross-reference markers
// naming a resolved type become its canonical name. Unresolved qualified
// markers keep their identifier without brackets; other bracketed text,
// like m[key], is left alone.
func (c *Context) summary(d descriptor.TypeDescriptor) string {
	doc, ok := c.docs.Doc(d)
	if !ok {
		return ""
	}
	parts := []string{c.expand(doc.Text)}
	for _, p := range doc.Params {
		parts = append(parts, fmt.Sprintf("//%s//: %s", p.Name, c.expand(p.Text)))
	}
	if doc.Returns != "" {
		parts = append(parts, "//Returns//: "+c.expand(doc.Returns))
	}
	return strings.TrimSpace(spaceRe.ReplaceAllString(strings.Join(parts, " "), " "))
}

func (c *Context) expand(text string) string {
	text = crossRefRe.ReplaceAllStringFunc(text, func(m string) string {
		raw := m[1 : len(m)-1]
		if ref, ok := c.Names.Lookup(raw); ok {
			if name, ok := c.Names.Name(ref); ok {
				return name
			}
		}
		if qualifiedRe.MatchString(raw) {
			return raw
		}
		return m
	})
	return strings.TrimSpace(spaceRe.ReplaceAllString(text, " "))
}

// groupThousands formats v rounded to an integer with comma grouping, as
// in "1,234,567".
func groupThousands(v float64) string {
	s := strconv.FormatFloat(math.Round(v), 'f', 0, 64)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	var sb strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	if neg && s != "0" {
		return "-" + sb.String()
	}
	return sb.String()
}
