package uml

import (
	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/naming"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
)

// DefaultMaxArgs is the longest parameter list rendered with types.
const DefaultMaxArgs = 5

// DefaultExceptionBases names the base types that turn a class into an
// exception: the .NET root exception and Go's error interface.
var DefaultExceptionBases = []string{"System.Exception", "error"}

// Doc is the documentation attached to one type. Text may contain
// cross-reference markers of the form [RawFullName].
type Doc struct {
	Text    string
	Params  []ParamDoc
	Returns string
}

// ParamDoc documents one parameter.
type ParamDoc struct {
	Name string
	Text string
}

// DocStore supplies type documentation.
type DocStore interface {
	// Doc returns the documentation of d, if any.
	Doc(d descriptor.TypeDescriptor) (Doc, bool)
}

// NoDocs is a DocStore without documentation.
type NoDocs struct{}

// Doc always reports no documentation.
func (NoDocs) Doc(descriptor.TypeDescriptor) (Doc, bool) { return Doc{}, false }

// DocMap is a DocStore keyed by descriptor identity.
type DocMap map[descriptor.TypeDescriptor]Doc

// Doc returns the entry for d.
func (m DocMap) Doc(d descriptor.TypeDescriptor) (Doc, bool) {
	doc, ok := m[d]
	return doc, ok
}

// Options tune a build pass.
type Options struct {
	// ExceptionBases lists raw full names of types whose descendants and
	// implementers are headed "exception". Nil means DefaultExceptionBases.
	ExceptionBases []string

	// MaxArgs is the longest parameter list rendered as "type name" pairs.
	// Zero means DefaultMaxArgs.
	MaxArgs int

	// Strict fails the pass on a generic resolution cycle instead of
	// falling back to raw names.
	Strict bool
}

func (o Options) withDefaults() Options {
	if o.ExceptionBases == nil {
		o.ExceptionBases = DefaultExceptionBases
	}
	if o.MaxArgs <= 0 {
		o.MaxArgs = DefaultMaxArgs
	}
	return o
}

// Context holds every artifact of one build pass.
type Context struct {
	Names *naming.Resolver
	Graph *typegraph.Graph

	opts       Options
	docs       DocStore
	inputs     map[descriptor.TypeDescriptor]bool
	exceptions map[string]bool
	blocks     []*Block
	byName     map[string]*Block
	err        error
}

func newContext(docs DocStore, opts Options) *Context {
	opts = opts.withDefaults()
	if docs == nil {
		docs = NoDocs{}
	}
	exc := make(map[string]bool, len(opts.ExceptionBases))
	for _, b := range opts.ExceptionBases {
		exc[b] = true
	}
	return &Context{
		Names:      naming.New(),
		Graph:      typegraph.New(),
		opts:       opts,
		docs:       docs,
		inputs:     make(map[descriptor.TypeDescriptor]bool),
		exceptions: exc,
		byName:     make(map[string]*Block),
	}
}

// Build runs a full pass over types, which must be in a deterministic
// order. Types that resolve to an already used canonical name share the
// first type's block.
func Build(types []descriptor.TypeDescriptor, docs DocStore, opts Options) (*Context, error) {
	c := newContext(docs, opts)

	for _, d := range types {
		if d != nil {
			c.inputs[d] = true
		}
	}

	// Names first, so that the known set is complete before any edge is
	// considered.
	for _, d := range types {
		if d == nil {
			continue
		}
		name := c.resolve(d, nil, 0)
		if c.err != nil {
			return nil, c.err
		}
		if c.Graph.AddKnown(name) {
			b := &Block{Type: d, Name: name}
			c.blocks = append(c.blocks, b)
			c.byName[name] = b
		}
	}

	for _, b := range c.blocks {
		c.collect(b)
		if c.err != nil {
			return nil, c.err
		}
	}
	for _, b := range c.blocks {
		b.add(SegmentSummary, c.summary(b.Type))
	}
	return c, nil
}

// Blocks returns one block per distinct input type, in input order.
func (c *Context) Blocks() []*Block { return c.blocks }

// Block returns the block named name.
func (c *Context) Block(name string) (*Block, bool) {
	b, ok := c.byName[name]
	return b, ok
}

// KnownNames returns the canonical names of the input types in input order.
func (c *Context) KnownNames() []string { return c.Graph.Names() }
