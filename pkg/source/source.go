// Package source defines the loaded input of a diagram run and picks a
// loader for an input path.
//
// Two loaders exist:
//   - [golang]: Go packages, type-checked through golang.org/x/tools/go/packages
//   - [model]: JSON or YAML type models written by other tools
//
// [golang]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/source/golang
// [model]: https://pkg.go.dev/github.com/pcleckler/UmlConversion/pkg/source/model
package source

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/pcleckler/UmlConversion/pkg/descriptor"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// Set is one loaded input.
type Set struct {
	// Module names the input in document titles and file names.
	Module string
	// Dir is the directory the UML output directory is created in.
	Dir string
	// Types are the types to diagram, in scan order.
	Types []descriptor.TypeDescriptor
	// Docs holds type documentation. It may be nil.
	Docs uml.DocMap
}

// Loader produces a Set from an input path.
type Loader interface {
	Load(ctx context.Context, input string) (*Set, error)
}

// Kind names a loader.
type Kind string

const (
	KindGo    Kind = "go"
	KindModel Kind = "model"
)

// Detect picks the loader for input: model files by extension, Go packages
// for everything else.
func Detect(input string) Kind {
	switch strings.ToLower(filepath.Ext(input)) {
	case ".json", ".yaml", ".yml":
		return KindModel
	}
	return KindGo
}
