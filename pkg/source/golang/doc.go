// Package golang describes Go packages as diagram types.
//
// Packages are loaded with golang.org/x/tools/go/packages and converted from
// their go/types view. Go has no classes, so the mapping is by shape:
//
//	struct type            class
//	interface type         interface (sealed when it has unexported methods)
//	func type              delegate, its signature shown as an Invoke line
//	integer type + consts  enum, one value per typed constant
//	any other named type   struct
//
// The first embedded struct of a struct is its base type. A named type
// implements every non-empty interface of the loaded packages that it, or
// a pointer to it, satisfies; the predeclared error interface is always a
// candidate, so error implementations are drawn as exceptions.
//
// Fields of channel type are listed as events. Package functions named New*
// whose first result is the type, or a pointer to it, are its
// constructors. Generic types carry an arity marker in their raw name, the
// same way .NET tooling does, so the diagram shows Box<T> and Box<Line>.
//
// Doc comments become summaries. Go doc links to types of the same package,
// such as [Order], are rewritten to the type's full name so the diagram
// shows the canonical name.
package golang
