package uml

import (
	"fmt"
	"regexp"
	"slices"
	"strings"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/naming"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
)

var accessorRe = regexp.MustCompile(`^(get_|set_|add_|remove_)`)

// resolve names d and, when src is set, records an edge of the given kind
// from src to every discovered input type.
func (c *Context) resolve(d descriptor.TypeDescriptor, src *Block, kind typegraph.Kind) string {
	if c.err != nil || d == nil {
		return ""
	}
	var (
		name  string
		found []naming.Discovery
	)
	if c.opts.Strict {
		n, disc, err := c.Names.ResolveChecked(d)
		if err != nil {
			c.err = fmt.Errorf("resolve %s: %w", descriptor.FullName(d), err)
			return ""
		}
		name, found = n, disc
	} else {
		name, found = c.Names.Resolve(d)
	}
	if src != nil {
		for _, f := range found {
			if f.Type != src.Type && c.inputs[f.Type] {
				c.Graph.AddEdge(src.Name, f.Name, kind)
			}
		}
	}
	return name
}

func (c *Context) collect(b *Block) {
	d := b.Type

	c.resolve(d.BaseType(), b, typegraph.Inherits)
	c.resolve(d.DeclaringType(), b, typegraph.Encloses)
	for _, iface := range interfaceDelta(d) {
		c.resolve(iface, b, typegraph.Implements)
	}

	b.Header = c.header(b)

	switch {
	case d.Kind() == descriptor.KindDelegate:
		if invoke, ok := findMethod(d, "Invoke"); ok {
			b.add(SegmentMethods, c.methodLine(b, invoke, b.Name))
		}
	case d.Kind() == descriptor.KindEnum:
		for _, v := range d.EnumValues() {
			b.add(SegmentFields, fmt.Sprintf("+ %s = %s", v.Name, groupThousands(v.Value)))
		}
	case d.Kind().IsValueType():
		c.collectFields(b)
	default:
		c.collectEvents(b)
		c.collectFields(b)
		c.collectProperties(b)
		c.collectConstructors(b)
		c.collectMethods(b)
	}
}

// interfaceDelta returns the interfaces of d that its base type does not
// already implement.
func interfaceDelta(d descriptor.TypeDescriptor) []descriptor.TypeDescriptor {
	ifaces := d.Interfaces()
	base := d.BaseType()
	if base == nil {
		return ifaces
	}
	inherited := base.Interfaces()
	delta := make([]descriptor.TypeDescriptor, 0, len(ifaces))
	for _, i := range ifaces {
		if !slices.Contains(inherited, i) {
			delta = append(delta, i)
		}
	}
	return delta
}

func (c *Context) collectEvents(b *Block) {
	for _, e := range declared(b.Type.Events(), func(m descriptor.Member) (string, bool) { return m.Name, m.Inherited }) {
		typ := c.resolve(e.Type, b, typegraph.ComposedOf)
		b.add(SegmentEvents, fmt.Sprintf("+ %s : %s <<signal>>", e.Name, typ))
	}
}

func (c *Context) collectFields(b *Block) {
	for _, f := range declared(b.Type.Fields(), func(m descriptor.Member) (string, bool) { return m.Name, m.Inherited }) {
		typ := c.resolve(f.Type, b, typegraph.ComposedOf)
		b.add(SegmentFields, fmt.Sprintf("+ %s : %s", f.Name, typ))
	}
}

func (c *Context) collectProperties(b *Block) {
	for _, p := range declared(b.Type.Properties(), func(p descriptor.Property) (string, bool) { return p.Name, p.Inherited }) {
		line := fmt.Sprintf("+ %s : %s", p.Name, c.resolve(p.Type, b, typegraph.ComposedOf))
		if p.CanRead {
			line += " <<get>>"
		}
		if p.CanWrite {
			line += " <<set>>"
		}
		b.add(SegmentProperties, line)
	}
}

func (c *Context) collectConstructors(b *Block) {
	for _, m := range declared(b.Type.Constructors(), methodKey) {
		name := m.Name
		if name == "" {
			name = b.Name
		}
		line := fmt.Sprintf("+ %s(%s)", name, c.argText(b, m.Params))
		if m.Returns != nil {
			line += " : " + c.resolve(m.Returns, b, typegraph.References)
		}
		b.add(SegmentConstructors, line)
	}
}

func (c *Context) collectMethods(b *Block) {
	for _, m := range declared(b.Type.Methods(), methodKey) {
		if m.Accessor || accessorRe.MatchString(m.Name) {
			continue
		}
		b.add(SegmentMethods, c.methodLine(b, m, ""))
	}
}

// methodLine formats m, recording its signature relationships. A non-empty
// name overrides the method name.
func (c *Context) methodLine(b *Block, m descriptor.Method, name string) string {
	if name == "" {
		name = m.Name
	}
	ret := c.resolve(m.Returns, b, typegraph.References)

	params := m.Params
	if m.Extension && len(params) > 0 {
		target := c.resolve(params[0].Type, b, typegraph.Extends)
		name = target + "." + name
		params = params[1:]
	}

	line := fmt.Sprintf("+ %s(%s)", name, c.argText(b, params))
	if m.Returns != nil {
		line += " : " + ret
	}
	return line
}

// argText renders a parameter list. Lists up to MaxArgs long show
// "type name" pairs; longer lists show the first MaxArgs names and "...".
// Every parameter type is recorded as a reference either way.
func (c *Context) argText(b *Block, params []descriptor.Parameter) string {
	parts := make([]string, 0, min(len(params), c.opts.MaxArgs+1))
	long := len(params) > c.opts.MaxArgs
	for i, p := range params {
		typ := c.resolve(p.Type, b, typegraph.References)
		switch {
		case !long:
			parts = append(parts, strings.TrimSpace(typ+" "+p.Name))
		case i < c.opts.MaxArgs:
			parts = append(parts, p.Name)
		case i == c.opts.MaxArgs:
			parts = append(parts, "...")
		}
	}
	return strings.Join(parts, ", ")
}

// declared filters out inherited members and sorts the rest by name,
// case-insensitively and stably.
func declared[T any](items []T, key func(T) (string, bool)) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if _, inherited := key(it); !inherited {
			out = append(out, it)
		}
	}
	slices.SortStableFunc(out, func(a, b T) int {
		ka, _ := key(a)
		kb, _ := key(b)
		return strings.Compare(strings.ToLower(ka), strings.ToLower(kb))
	})
	return out
}

func methodKey(m descriptor.Method) (string, bool) { return m.Name, m.Inherited }

func findMethod(d descriptor.TypeDescriptor, name string) (descriptor.Method, bool) {
	for _, m := range d.Methods() {
		if m.Name == name {
			return m, true
		}
	}
	return descriptor.Method{}, false
}
