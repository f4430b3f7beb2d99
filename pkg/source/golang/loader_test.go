package golang

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

func TestLoad(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}

	tests := []struct {
		input  string
		module string
		blocks []string
	}{
		{"testdata/inventory", "inventory", []string{"Item", "Shelf"}},
		{"testdata/inventory/...", "inventory", []string{"Item", "Shelf", "Store"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			set, err := New(Options{}, nil).Load(context.Background(), tt.input)
			if err != nil {
				t.Fatalf("Load() error: %v", err)
			}
			if set.Module != tt.module {
				t.Errorf("Module = %q, want %q", set.Module, tt.module)
			}
			if !filepath.IsAbs(set.Dir) {
				t.Errorf("Dir %q is not absolute", set.Dir)
			}

			c, err := uml.Build(set.Types, set.Docs, uml.Options{})
			if err != nil {
				t.Fatal(err)
			}
			var names []string
			for _, b := range c.Blocks() {
				names = append(names, b.Name)
			}
			if !slices.Equal(names, tt.blocks) {
				t.Errorf("blocks = %q, want %q", names, tt.blocks)
			}
		})
	}
}

func TestLoadEmptyDir(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "go.mod"), []byte("module example.com/empty\n\ngo 1.22\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := New(Options{}, nil).Load(context.Background(), dir)
	if !errors.Is(err, errors.ErrCodeLoadFailed) {
		t.Errorf("Load() error = %v, want %s", err, errors.ErrCodeLoadFailed)
	}
}

func TestSourceHash(t *testing.T) {
	dir := t.TempDir()
	write := func(name, body string) {
		t.Helper()
		p := filepath.Join(dir, name)
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	hash := func(input string) string {
		t.Helper()
		h, err := SourceHash(input)
		if err != nil {
			t.Fatalf("SourceHash(%q) error: %v", input, err)
		}
		return h
	}

	write("a.go", "package a\n")
	write("sub/b.go", "package b\n")
	flat, deep := hash(dir), hash(dir+"/...")
	if flat == deep {
		t.Error("recursive hash ignores subpackages")
	}

	write("a_test.go", "package a\n")
	write("README.md", "docs")
	write("testdata/x.go", "package x\n")
	if hash(dir) != flat || hash(dir+"/...") != deep {
		t.Error("tests, non-Go files or testdata changed the hash")
	}

	write("a.go", "package a\n\ntype T int\n")
	if hash(dir) == flat {
		t.Error("source change did not change the hash")
	}
}

func TestSourceDirs(t *testing.T) {
	dirs, err := SourceDirs("testdata/inventory")
	if err != nil {
		t.Fatal(err)
	}
	if !slices.Equal(dirs, []string{"testdata/inventory"}) {
		t.Errorf("SourceDirs(single) = %q", dirs)
	}

	dirs, err = SourceDirs("testdata/inventory/...")
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"testdata/inventory", filepath.Join("testdata/inventory", "store")}
	if !slices.Equal(dirs, want) {
		t.Errorf("SourceDirs(recursive) = %q, want %q", dirs, want)
	}
}

func TestIsSource(t *testing.T) {
	tests := []struct {
		name string
		want bool
	}{
		{"a/b/order.go", true},
		{"order_test.go", false},
		{"go.mod", true},
		{"go.sum", true},
		{"UML/shop.All.uml", false},
		{"README.md", false},
	}
	for _, tt := range tests {
		if got := IsSource(tt.name); got != tt.want {
			t.Errorf("IsSource(%q) = %v, want %v", tt.name, got, tt.want)
		}
	}
}
