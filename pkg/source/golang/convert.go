package golang

import (
	"cmp"
	"go/ast"
	"go/constant"
	"go/token"
	"go/types"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/tools/go/types/typeutil"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// pkgInput is one type-checked package.
type pkgInput struct {
	types  *types.Package
	fset   *token.FileSet
	syntax []*ast.File
}

type converter struct {
	opts   Options
	inputs map[*types.Package]bool

	// seen interns descriptors by type identity.
	seen typeutil.Map

	ifaces []*types.Named
	consts map[*types.TypeName][]*types.Const
	ctors  map[*types.TypeName][]*types.Func
}

// convert describes the selected named types of pkgs, in package order and
// declaration order within a package.
func convert(pkgs []pkgInput, opts Options) ([]descriptor.TypeDescriptor, uml.DocMap) {
	c := &converter{
		opts:   opts,
		inputs: make(map[*types.Package]bool, len(pkgs)),
		consts: map[*types.TypeName][]*types.Const{},
		ctors:  map[*types.TypeName][]*types.Func{},
	}
	for _, p := range pkgs {
		c.inputs[p.types] = true
	}

	selected := make([][]*types.TypeName, len(pkgs))
	for i, p := range pkgs {
		selected[i] = c.scan(p)
	}
	c.ifaces = append(c.ifaces, types.Universe.Lookup("error").Type().(*types.Named))

	var out []descriptor.TypeDescriptor
	for _, names := range selected {
		for _, tn := range names {
			out = append(out, c.typeOf(tn.Type()))
		}
	}

	docs := uml.DocMap{}
	for i, p := range pkgs {
		c.docs(p, selected[i], docs)
	}
	return out, docs
}

// scan indexes one package: its selected type names in declaration order,
// interface candidates, enum constants and constructors.
func (c *converter) scan(p pkgInput) []*types.TypeName {
	scope := p.types.Scope()
	var names []*types.TypeName
	for _, name := range scope.Names() {
		switch obj := scope.Lookup(name).(type) {
		case *types.TypeName:
			if obj.IsAlias() || !c.visible(obj) {
				continue
			}
			names = append(names, obj)
		case *types.Const:
			if named, ok := obj.Type().(*types.Named); ok && named.Obj().Pkg() == p.types {
				c.consts[named.Obj()] = append(c.consts[named.Obj()], obj)
			}
		case *types.Func:
			if tn := constructed(obj); tn != nil && tn.Pkg() == p.types && c.visible(obj) {
				c.ctors[tn] = append(c.ctors[tn], obj)
			}
		}
	}

	byPos := func(a, b types.Object) int { return cmp.Compare(a.Pos(), b.Pos()) }
	slices.SortFunc(names, func(a, b *types.TypeName) int { return byPos(a, b) })
	for _, tn := range names {
		slices.SortFunc(c.consts[tn], func(a, b *types.Const) int { return byPos(a, b) })
		slices.SortFunc(c.ctors[tn], func(a, b *types.Func) int { return byPos(a, b) })

		named, ok := tn.Type().(*types.Named)
		if !ok || named.TypeParams().Len() > 0 {
			continue
		}
		if iface, ok := named.Underlying().(*types.Interface); ok && iface.NumMethods() > 0 {
			c.ifaces = append(c.ifaces, named)
		}
	}
	return names
}

func (c *converter) visible(obj types.Object) bool {
	return obj.Exported() || c.opts.IncludeUnexported
}

// constructed returns the type a New* function constructs, or nil.
func constructed(fn *types.Func) *types.TypeName {
	sig, ok := fn.Type().(*types.Signature)
	if !ok || sig.Recv() != nil || !strings.HasPrefix(fn.Name(), "New") || sig.Results().Len() == 0 {
		return nil
	}
	t := sig.Results().At(0).Type()
	if ptr, ok := t.(*types.Pointer); ok {
		t = ptr.Elem()
	}
	if named, ok := types.Unalias(t).(*types.Named); ok {
		return named.Origin().Obj()
	}
	return nil
}

// typeOf returns the interned descriptor for t.
func (c *converter) typeOf(t types.Type) descriptor.TypeDescriptor {
	if t == nil {
		return nil
	}
	t = types.Unalias(t)
	if d, ok := c.seen.At(t).(descriptor.TypeDescriptor); ok {
		return d
	}

	switch t := t.(type) {
	case *types.Named:
		return c.named(t)
	case *types.Pointer:
		return c.compound(t, descriptor.ShapePointer, 0, t.Elem())
	case *types.Slice:
		return c.compound(t, descriptor.ShapeSlice, 0, t.Elem())
	case *types.Array:
		return c.compound(t, descriptor.ShapeArray, t.Len(), t.Elem())
	case *types.Map:
		return c.compound(t, descriptor.ShapeMap, 0, t.Key(), t.Elem())
	case *types.Chan:
		return c.compound(t, descriptor.ShapeChan, 0, t.Elem())
	case *types.Signature:
		parts := c.params(t)
		fn := &descriptor.Compound{Shape: descriptor.ShapeFunc}
		for _, p := range parts {
			fn.Parts = append(fn.Parts, p.Type)
		}
		fn.Parts = append(fn.Parts, c.results(t))
		c.seen.Set(t, fn)
		return fn
	}

	d := &descriptor.Type{RawName: typeString(t), TypeKind: descriptor.KindStruct}
	switch t := t.(type) {
	case *types.TypeParam:
		d.RawName, d.TypeKind = t.Obj().Name(), descriptor.KindClass
	case *types.Interface:
		d.TypeKind = descriptor.KindInterface
		if t.Empty() {
			d.RawName = "any"
		}
	case *types.Struct:
		d.TypeKind = descriptor.KindClass
	}
	c.seen.Set(t, d)
	return d
}

func (c *converter) compound(t types.Type, shape descriptor.Shape, n int64, parts ...types.Type) descriptor.TypeDescriptor {
	d := &descriptor.Compound{Shape: shape, Len: n}
	for _, p := range parts {
		d.Parts = append(d.Parts, c.typeOf(p))
	}
	c.seen.Set(t, d)
	return d
}

// named describes a named type. The descriptor is interned before its
// links are filled, so recursive types terminate.
func (c *converter) named(t *types.Named) *descriptor.Type {
	if d, ok := c.seen.At(t).(*descriptor.Type); ok {
		return d
	}
	obj := t.Obj()
	d := &descriptor.Type{RawName: obj.Name()}
	if obj.Pkg() != nil {
		d.NS = obj.Pkg().Path()
	}
	c.seen.Set(t, d)

	tparams := t.TypeParams()
	if tparams.Len() > 0 {
		d.RawName += "`" + strconv.Itoa(tparams.Len())
	}
	if targs := t.TypeArgs(); targs.Len() > 0 {
		for i := range targs.Len() {
			d.Args = append(d.Args, c.typeOf(targs.At(i)))
		}
		if origin := t.Origin(); origin != t {
			d.Definition = c.named(origin)
		}
	} else {
		for i := range tparams.Len() {
			d.Args = append(d.Args, c.typeOf(tparams.At(i)))
		}
	}

	// Members are only described for declarations of the loaded packages.
	own := c.inputs[obj.Pkg()] && t.Origin() == t

	switch u := t.Underlying().(type) {
	case *types.Interface:
		d.TypeKind = descriptor.KindInterface
		for i := range u.NumEmbeddeds() {
			if e, ok := types.Unalias(u.EmbeddedType(i)).(*types.Named); ok {
				d.Ifaces = append(d.Ifaces, c.named(e))
			}
		}
		for i := range u.NumExplicitMethods() {
			m := u.ExplicitMethod(i)
			if !m.Exported() {
				d.IsSealed = true
			}
			if own && c.visible(m) {
				d.MethodList = append(d.MethodList, c.method(m))
			}
		}
		return d
	case *types.Struct:
		d.TypeKind = descriptor.KindClass
		if own {
			c.fillStruct(d, u)
		}
	case *types.Signature:
		d.TypeKind = descriptor.KindDelegate
		d.MethodList = []descriptor.Method{{Name: "Invoke", Params: c.params(u), Returns: c.results(u)}}
	case *types.Basic:
		d.TypeKind = descriptor.KindStruct
		if consts := c.consts[obj]; len(consts) > 0 && u.Info()&types.IsInteger != 0 {
			d.TypeKind = descriptor.KindEnum
			d.IsSealed = true
			d.Underlying = c.typeOf(u).(*descriptor.Type)
			for _, k := range consts {
				v, _ := constant.Float64Val(constant.ToFloat(k.Val()))
				d.Values = append(d.Values, descriptor.EnumValue{Name: k.Name(), Value: v})
			}
		}
	default:
		d.TypeKind = descriptor.KindStruct
	}

	d.Ifaces = c.implemented(t)
	if own {
		for i := range t.NumMethods() {
			if m := t.Method(i); c.visible(m) {
				d.MethodList = append(d.MethodList, c.method(m))
			}
		}
		for _, fn := range c.ctors[obj] {
			d.ConstructorList = append(d.ConstructorList, c.method(fn))
		}
	}
	return d
}

// fillStruct lists the fields of a struct. The first embedded struct is the
// base type; channel fields are events.
func (c *converter) fillStruct(d *descriptor.Type, u *types.Struct) {
	base := -1
	for i := range u.NumFields() {
		f := u.Field(i)
		if !f.Embedded() {
			continue
		}
		t := f.Type()
		if ptr, ok := t.(*types.Pointer); ok {
			t = ptr.Elem()
		}
		if named, ok := types.Unalias(t).(*types.Named); ok {
			if _, ok := named.Underlying().(*types.Struct); ok {
				d.Base = c.named(named)
				base = i
				break
			}
		}
	}

	for i := range u.NumFields() {
		f := u.Field(i)
		if i == base || !c.visible(f) {
			continue
		}
		m := descriptor.Member{Name: f.Name(), Type: c.typeOf(f.Type())}
		if _, ok := f.Type().Underlying().(*types.Chan); ok {
			d.EventList = append(d.EventList, m)
			continue
		}
		d.FieldList = append(d.FieldList, m)
	}
}

// implemented returns the candidate interfaces t or *t satisfies. Generic
// declarations are skipped; only their instances have method sets.
func (c *converter) implemented(t *types.Named) []*descriptor.Type {
	if t.TypeParams().Len() > 0 && t.TypeArgs().Len() == 0 {
		return nil
	}
	var out []*descriptor.Type
	for _, it := range c.ifaces {
		if it == t {
			continue
		}
		iface := it.Underlying().(*types.Interface)
		if types.Implements(t, iface) || types.Implements(types.NewPointer(t), iface) {
			out = append(out, c.named(it))
		}
	}
	return out
}

func (c *converter) method(fn *types.Func) descriptor.Method {
	sig := fn.Type().(*types.Signature)
	return descriptor.Method{Name: fn.Name(), Params: c.params(sig), Returns: c.results(sig)}
}

func (c *converter) params(sig *types.Signature) []descriptor.Parameter {
	ps := sig.Params()
	out := make([]descriptor.Parameter, 0, ps.Len())
	for i := range ps.Len() {
		v := ps.At(i)
		var typ descriptor.TypeDescriptor
		if s, ok := v.Type().(*types.Slice); ok && sig.Variadic() && i == ps.Len()-1 {
			typ = &descriptor.Compound{Shape: descriptor.ShapeVariadic, Parts: []descriptor.TypeDescriptor{c.typeOf(s.Elem())}}
		} else {
			typ = c.typeOf(v.Type())
		}
		name := v.Name()
		if name == "_" {
			name = ""
		}
		out = append(out, descriptor.Parameter{Name: name, Type: typ})
	}
	return out
}

// results returns nil for no results, the type for one, a tuple for more.
func (c *converter) results(sig *types.Signature) descriptor.TypeDescriptor {
	rs := sig.Results()
	switch rs.Len() {
	case 0:
		return nil
	case 1:
		return c.typeOf(rs.At(0).Type())
	}
	tuple := &descriptor.Compound{Shape: descriptor.ShapeTuple}
	for i := range rs.Len() {
		tuple.Parts = append(tuple.Parts, c.typeOf(rs.At(i).Type()))
	}
	return tuple
}

// typeString names an unnamed type by its Go spelling, qualifying foreign
// types with their package name only.
func typeString(t types.Type) string {
	return types.TypeString(t, func(p *types.Package) string { return p.Name() })
}

// docLinkRe matches Go doc links to a package-local name.
var docLinkRe = regexp.MustCompile(`\[([A-Za-z_][A-Za-z0-9_]*)\]`)

// docs records the doc comment of every selected type. Only the first
// paragraph is kept.
func (c *converter) docs(p pkgInput, selected []*types.TypeName, out uml.DocMap) {
	want := make(map[string]bool, len(selected))
	for _, tn := range selected {
		want[tn.Name()] = true
	}
	for _, f := range p.syntax {
		for _, decl := range f.Decls {
			gd, ok := decl.(*ast.GenDecl)
			if !ok || gd.Tok != token.TYPE {
				continue
			}
			for _, spec := range gd.Specs {
				ts := spec.(*ast.TypeSpec)
				cg := ts.Doc
				if cg == nil && len(gd.Specs) == 1 {
					cg = gd.Doc
				}
				if cg == nil || !want[ts.Name.Name] {
					continue
				}
				tn, ok := p.types.Scope().Lookup(ts.Name.Name).(*types.TypeName)
				if !ok {
					continue
				}
				text := c.linkDocs(p.types, firstParagraph(cg.Text()))
				out[c.typeOf(tn.Type())] = uml.Doc{Text: text}
			}
		}
	}
}

// linkDocs rewrites [Name] links to package-local types as [FullName].
func (c *converter) linkDocs(pkg *types.Package, text string) string {
	return docLinkRe.ReplaceAllStringFunc(text, func(m string) string {
		name := m[1 : len(m)-1]
		tn, ok := pkg.Scope().Lookup(name).(*types.TypeName)
		if !ok {
			return m
		}
		d, ok := c.seen.At(types.Unalias(tn.Type())).(descriptor.TypeDescriptor)
		if !ok {
			return m
		}
		return "[" + descriptor.FullName(d) + "]"
	})
}

func firstParagraph(text string) string {
	text = strings.TrimSpace(text)
	if i := strings.Index(text, "\n\n"); i >= 0 {
		text = text[:i]
	}
	return text
}
