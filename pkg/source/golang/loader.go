package golang

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"golang.org/x/tools/go/packages"

	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/source"
)

// Options configure the Go loader.
type Options struct {
	// IncludeUnexported describes unexported types and members too.
	IncludeUnexported bool
}

// Loader loads Go packages.
type Loader struct {
	Options
	Logger *log.Logger
}

// New creates a Loader. A nil logger discards package warnings.
func New(opts Options, logger *log.Logger) *Loader {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Loader{Options: opts, Logger: logger}
}

const loadMode = packages.NeedName | packages.NeedFiles | packages.NeedImports |
	packages.NeedTypes | packages.NeedSyntax | packages.NeedTypesInfo

// Load type-checks the package in directory input, or every package below
// it when input ends in "/...". Packages with errors are described as far
// as they type-check.
func (l *Loader) Load(ctx context.Context, input string) (*source.Set, error) {
	_, pattern := splitPattern(input)
	abs, err := Dir(input)
	if err != nil {
		return nil, err
	}

	cfg := &packages.Config{
		Context: ctx,
		Mode:    loadMode,
		Dir:     abs,
	}
	pkgs, err := packages.Load(cfg, pattern)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "load %s", input)
	}

	slices.SortFunc(pkgs, func(a, b *packages.Package) int { return strings.Compare(a.PkgPath, b.PkgPath) })

	var inputs []pkgInput
	for _, p := range pkgs {
		for _, e := range p.Errors {
			l.Logger.Warn("package error (continuing)", "pkg", p.PkgPath, "err", e.Msg)
		}
		if p.Types == nil || len(p.Syntax) == 0 {
			continue
		}
		inputs = append(inputs, pkgInput{types: p.Types, fset: p.Fset, syntax: p.Syntax})
	}
	if len(inputs) == 0 {
		return nil, errors.WithHint(
			errors.New(errors.ErrCodeLoadFailed, "no Go packages found in %s", input),
			"pass a package directory, a pattern ending in /..., or a .json/.yaml model")
	}

	described, docs := convert(inputs, l.Options)
	l.Logger.Debug("loaded go packages", "packages", len(inputs), "types", len(described))

	module := filepath.Base(abs)
	if pattern == "." {
		module = path.Base(inputs[0].types.Path())
	}
	return &source.Set{Module: module, Dir: abs, Types: described, Docs: docs}, nil
}

var _ source.Loader = (*Loader)(nil)

// splitPattern separates a directory from the package pattern to load in it.
func splitPattern(input string) (dir, pattern string) {
	if input == "..." || strings.HasSuffix(input, "/...") {
		dir = strings.TrimSuffix(strings.TrimSuffix(input, "..."), "/")
		if dir == "" {
			dir = "."
		}
		return dir, "./..."
	}
	return input, "."
}

// SourceHash hashes the Go sources a Load of input reads: non-test .go
// files plus go.mod and go.sum, recursively for "/..." patterns.
func SourceHash(input string) (string, error) {
	dir, pattern := splitPattern(input)
	recursive := pattern == "./..."

	h := sha256.New()
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if p != dir && (!recursive || skipDir(d.Name())) {
				return filepath.SkipDir
			}
			return nil
		}
		if !hashed(d.Name()) {
			return nil
		}
		data, err := os.ReadFile(p)
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(dir, p)
		fmt.Fprintf(h, "%s\x00%d\x00", filepath.ToSlash(rel), len(data))
		h.Write(data)
		return nil
	})
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeLoadFailed, err, "hash sources of %s", input)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}

// Dir returns the absolute directory a Load of input starts in.
func Dir(input string) (string, error) {
	dir, _ := splitPattern(input)
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", errors.Wrap(errors.ErrCodeInvalidInput, err, "resolve %s", input)
	}
	return abs, nil
}

// SourceDirs lists the directories whose files feed a Load of input: the
// package directory, plus every package directory below it for "/..."
// patterns.
func SourceDirs(input string) ([]string, error) {
	dir, pattern := splitPattern(input)
	if pattern == "." {
		return []string{dir}, nil
	}
	var dirs []string
	err := filepath.WalkDir(dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if p != dir && skipDir(d.Name()) {
			return filepath.SkipDir
		}
		dirs = append(dirs, p)
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "list sources of %s", input)
	}
	return dirs, nil
}

// IsSource reports whether a file named name is read by a Load.
func IsSource(name string) bool { return hashed(filepath.Base(name)) }

func skipDir(name string) bool {
	return name == "testdata" || name == "vendor" || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_")
}

func hashed(name string) bool {
	if name == "go.mod" || name == "go.sum" {
		return true
	}
	return strings.HasSuffix(name, ".go") && !strings.HasSuffix(name, "_test.go")
}
