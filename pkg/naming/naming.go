// Package naming assigns canonical display names to type descriptors.
//
// A canonical name drops the namespace, joins nested types to their
// enclosing type with ".", strips generic arity markers and spells generic
// arguments out recursively:
//
//	Outer+Inner`1[T]   →  Outer.Inner<T>
//	Dictionary`2[K,V]  →  Dictionary<K, V>
//
// Resolution reports every descriptor it touched as a [Discovery] so the
// caller can decide which of them become relationship edges.
package naming

import (
	"errors"
	"regexp"
	"strings"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
)

// ErrResolutionCycle is returned by [Resolver.ResolveChecked] when a type's
// name depends on itself through its generic arguments.
var ErrResolutionCycle = errors.New("naming: generic resolution cycle")

var arityRe = regexp.MustCompile("`[0-9]+")

// Discovery is a descriptor encountered while resolving a name, paired with
// its canonical name.
type Discovery struct {
	Type descriptor.TypeDescriptor
	Name string
}

// Resolver computes and memoizes canonical names. It is not safe for
// concurrent use.
type Resolver struct {
	names     map[descriptor.TypeDescriptor]string
	byRaw     map[string]descriptor.TypeDescriptor
	byName    map[string]descriptor.TypeDescriptor
	seen      []descriptor.TypeDescriptor
	resolving map[descriptor.TypeDescriptor]bool
}

// New returns an empty Resolver.
func New() *Resolver {
	return &Resolver{
		names:     make(map[descriptor.TypeDescriptor]string),
		byRaw:     make(map[string]descriptor.TypeDescriptor),
		byName:    make(map[string]descriptor.TypeDescriptor),
		resolving: make(map[descriptor.TypeDescriptor]bool),
	}
}

// Resolve returns the canonical name of d along with every descriptor
// discovered on the way, in discovery order: the generic definition first,
// then arguments depth-first, then d itself. Resolve(nil) returns "" and no
// discoveries and leaves the resolver untouched.
//
// A generic argument that would recurse into a type already being resolved
// is rendered by its stripped raw name instead.
func (r *Resolver) Resolve(d descriptor.TypeDescriptor) (string, []Discovery) {
	var found []Discovery
	name, _ := r.resolve(d, &found, false)
	return name, found
}

// ResolveChecked is Resolve, failing with ErrResolutionCycle instead of
// falling back when a resolution cycle is found.
func (r *Resolver) ResolveChecked(d descriptor.TypeDescriptor) (string, []Discovery, error) {
	var found []Discovery
	name, err := r.resolve(d, &found, true)
	if err != nil {
		return "", nil, err
	}
	return name, found, nil
}

// Name returns the cached canonical name of d without resolving it.
func (r *Resolver) Name(d descriptor.TypeDescriptor) (string, bool) {
	name, ok := r.names[d]
	return name, ok
}

// Lookup finds a resolved descriptor by its raw full name, the form used by
// documentation cross-references.
func (r *Resolver) Lookup(rawFullName string) (descriptor.TypeDescriptor, bool) {
	d, ok := r.byRaw[rawFullName]
	return d, ok
}

// ByName finds the first descriptor that was assigned the canonical name.
func (r *Resolver) ByName(name string) (descriptor.TypeDescriptor, bool) {
	d, ok := r.byName[name]
	return d, ok
}

// Seen returns every resolved descriptor in first-resolution order.
func (r *Resolver) Seen() []descriptor.TypeDescriptor {
	return r.seen
}

// Len returns the number of resolved descriptors.
func (r *Resolver) Len() int { return len(r.seen) }

func (r *Resolver) resolve(d descriptor.TypeDescriptor, found *[]Discovery, strict bool) (string, error) {
	if d == nil {
		return "", nil
	}
	if r.resolving[d] {
		if strict {
			return "", ErrResolutionCycle
		}
		return StripArity(d.Name()), nil
	}
	r.resolving[d] = true
	defer delete(r.resolving, d)

	if def := d.GenericDefinition(); def != nil && def != d {
		if _, err := r.resolve(def, found, strict); err != nil {
			return "", err
		}
	}

	var name string
	if c, ok := d.(descriptor.Composite); ok {
		elems := c.Elements()
		parts := make([]string, len(elems))
		for i, e := range elems {
			n, err := r.resolve(e, found, strict)
			if err != nil {
				return "", err
			}
			parts[i] = n
		}
		name = c.Format(parts)
	} else {
		base, err := r.baseName(d, found, strict)
		if err != nil {
			return "", err
		}
		name = base
		if args := ownArgs(d); len(args) > 0 {
			parts := make([]string, len(args))
			for i, a := range args {
				n, err := r.resolve(a, found, strict)
				if err != nil {
					return "", err
				}
				parts[i] = n
			}
			name = StripArity(base) + "<" + strings.Join(parts, ", ") + ">"
		}
	}

	if cached, ok := r.names[d]; ok {
		name = cached
	} else {
		r.register(d, name)
	}
	*found = append(*found, Discovery{Type: d, Name: name})
	return name, nil
}

// baseName is the name before generic arguments: the enclosing type's
// canonical name joined with the simple name, or the simple name with
// nesting separators normalized.
func (r *Resolver) baseName(d descriptor.TypeDescriptor, found *[]Discovery, strict bool) (string, error) {
	simple := d.Name()
	if outer := d.DeclaringType(); outer != nil {
		var scratch []Discovery
		outerName, err := r.resolve(outer, &scratch, strict)
		if err != nil {
			return "", err
		}
		if outerName != "" {
			if i := strings.LastIndex(simple, "+"); i >= 0 {
				simple = simple[i+1:]
			}
			return outerName + "." + StripArity(simple), nil
		}
	}
	return strings.ReplaceAll(simple, "+", "."), nil
}

func (r *Resolver) register(d descriptor.TypeDescriptor, name string) {
	r.names[d] = name
	r.seen = append(r.seen, d)
	if raw := descriptor.FullName(d); raw != "" {
		if _, ok := r.byRaw[raw]; !ok {
			r.byRaw[raw] = d
		}
	}
	if _, ok := r.byName[name]; !ok {
		r.byName[name] = d
	}
}

// ownArgs returns the generic arguments introduced at d's own nesting level:
// arguments whose raw full name also appears among the declaring type's
// arguments are bound by the enclosing type and dropped.
func ownArgs(d descriptor.TypeDescriptor) []descriptor.TypeDescriptor {
	args := d.TypeArgs()
	if len(args) == 0 {
		return nil
	}
	outer := d.DeclaringType()
	if outer == nil {
		return args
	}
	bound := make(map[string]bool)
	for _, a := range outer.TypeArgs() {
		bound[descriptor.FullName(a)] = true
	}
	own := make([]descriptor.TypeDescriptor, 0, len(args))
	for _, a := range args {
		if !bound[descriptor.FullName(a)] {
			own = append(own, a)
		}
	}
	return own
}

// StripArity removes generic arity markers such as "`2" from a raw name.
func StripArity(raw string) string {
	return arityRe.ReplaceAllString(raw, "")
}
