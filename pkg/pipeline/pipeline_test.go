package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/pcleckler/UmlConversion/pkg/cache"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/render/nodelink"
)

// memCache is an in-memory cache.Cache for tests.
type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
	sets int
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	c.sets++
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

const catalogInput = "testdata/catalog.json"

func TestValidateFormat(t *testing.T) {
	tests := []struct {
		format  string
		wantErr bool
	}{
		{"dot", false},
		{"svg", false},
		{"png", false},
		{"pdf", false},
		{"json", true},
		{"SVG", true}, // case-sensitive
		{"", true},
	}

	for _, tt := range tests {
		err := ValidateFormat(tt.format)
		if (err != nil) != tt.wantErr {
			t.Errorf("ValidateFormat(%q) error = %v, wantErr %v", tt.format, err, tt.wantErr)
		}
	}
}

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"dot", "svg"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "invalid"}); err == nil {
		t.Error("Invalid format should fail")
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestValidateAndSetDefaults(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"missing input", Options{}, errors.ErrCodeInvalidInput},
		{"input not found", Options{Input: "testdata/nope.json"}, errors.ErrCodeFileNotFound},
		{"negative page size", Options{Input: catalogInput, MaxTypesPerPage: -1}, errors.ErrCodeInvalidInput},
		{"bad overview", Options{Input: catalogInput, Overview: []string{"gif"}}, errors.ErrCodeInvalidConfig},
		{"valid", Options{Input: catalogInput}, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if tt.code == "" {
				if err != nil {
					t.Fatalf("ValidateAndSetDefaults() error = %v", err)
				}
				return
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() error = %v, want %s", err, tt.code)
			}
		})
	}
}

func TestSetRenderDefaults(t *testing.T) {
	opts := Options{Input: catalogInput}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MaxTypesPerPage != DefaultMaxTypesPerPage {
		t.Errorf("MaxTypesPerPage = %d, want %d", opts.MaxTypesPerPage, DefaultMaxTypesPerPage)
	}
	if opts.Logger == nil || opts.Now == nil {
		t.Error("runtime defaults not set")
	}

	// Idempotent
	opts.MaxTypesPerPage = 7
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.MaxTypesPerPage != 7 {
		t.Errorf("second call changed MaxTypesPerPage to %d", opts.MaxTypesPerPage)
	}
}

func TestExecuteModel(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Input: catalogInput, OutputDir: t.TempDir()}

	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute() error: %v", err)
	}

	if result.Stats.TypeCount != 3 || result.Stats.EdgeCount != 1 || result.Stats.GroupCount != 2 {
		t.Errorf("Stats = %+v, want 3 types, 1 edge, 2 groups", result.Stats)
	}
	if result.ModelHash == "" {
		t.Error("ModelHash is empty")
	}

	var names []string
	for _, d := range result.Documents {
		names = append(names, d.FileName)
	}
	want := []string{"catalog.All.uml", "catalog.ReferenceGroup1.uml", "catalog.NoReferences.uml"}
	if !slices.Equal(names, want) {
		t.Fatalf("documents = %q, want %q", names, want)
	}

	all := result.Documents[0].Text
	for _, s := range []string{
		"@startUml\n",
		`title "catalog (All Exported Types)"`,
		"struct \"A\"\n{",
		"class \"B\"\n{",
		`"B" --* "A" : Composed Of`,
		"@endUml\n",
	} {
		if !strings.Contains(all, s) {
			t.Errorf("all-types document missing %q\n%s", s, all)
		}
	}
	if strings.Index(all, `struct "A"`) > strings.Index(all, `class "B"`) {
		t.Error("struct A should precede class B")
	}

	group := result.Documents[1]
	if group.Types != 2 || group.Group == nil || group.Group.Label != "Reference Group 1" {
		t.Errorf("group document = %d types, group %+v", group.Types, group.Group)
	}
	bucket := result.Documents[2].Text
	if !strings.Contains(bucket, "class \"C\"\n{") || strings.Contains(bucket, "-->") || strings.Contains(bucket, "--*") {
		t.Errorf("bucket document:\n%s", bucket)
	}

	paths, err := r.Write(result, opts)
	if err != nil {
		t.Fatalf("Write() error: %v", err)
	}
	if len(paths) != 3 {
		t.Fatalf("Write() wrote %d files, want 3", len(paths))
	}
	data, err := os.ReadFile(filepath.Join(opts.OutputDir, "catalog.All.uml"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != all {
		t.Error("written all-types document differs from rendered text")
	}
}

func TestWriteDefaultOutputDir(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "catalog.json")
	copyFile(t, catalogInput, input)

	r := NewRunner(nil, nil, nil)
	opts := Options{Input: input}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := r.Write(result, opts); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, OutputDirName, "catalog.All.uml")); err != nil {
		t.Errorf("all-types document not written beside the input: %v", err)
	}
}

func TestTimestampFooter(t *testing.T) {
	at := time.Date(2024, time.March, 5, 14, 7, 0, 0, time.UTC)
	r := NewRunner(nil, nil, nil)
	opts := Options{
		Input:           catalogInput,
		TimestampFooter: true,
		Now:             func() time.Time { return at },
	}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	want := "footer //Generated March 5, 2024 2:07 PM//\n@endUml\n"
	for _, d := range result.Documents {
		if !strings.HasSuffix(d.Text, want) {
			t.Errorf("%s does not end with footer:\n%s", d.FileName, d.Text)
		}
	}
}

func TestMaxTypesPerPage(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	result, err := r.Execute(context.Background(), Options{Input: catalogInput, MaxTypesPerPage: 1})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(result.Documents[0].Text, "\nnewpage\n"); got != 2 {
		t.Errorf("page breaks = %d, want 2", got)
	}
}

func TestOverviewDOT(t *testing.T) {
	r := NewRunner(nil, nil, nil)
	opts := Options{Input: catalogInput, Overview: []string{FormatDOT}, OutputDir: t.TempDir()}
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	dot := string(result.Overview[FormatDOT])
	if !strings.Contains(dot, `"B" -> "A"`) {
		t.Errorf("overview missing edge:\n%s", dot)
	}

	paths, err := r.Write(result, opts)
	if err != nil {
		t.Fatal(err)
	}
	if last := paths[len(paths)-1]; filepath.Base(last) != "catalog.Overview.dot" {
		t.Errorf("last written = %s, want catalog.Overview.dot", last)
	}
}

func TestOverviewCacheHit(t *testing.T) {
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	opts := Options{Input: catalogInput, Overview: []string{FormatSVG}}

	loaded, err := r.Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	built, err := r.Build(context.Background(), loaded.Set, opts)
	if err != nil {
		t.Fatal(err)
	}

	dot := nodelink.ToDOT(built.Context.Graph, built.Partition, nodelink.Options{Title: loaded.Set.Module})
	key := r.Keyer.OverviewKey(cache.Hash([]byte(dot)), cache.OverviewKeyOpts{Format: FormatSVG})
	_ = mc.Set(context.Background(), key, []byte("<svg/>"), time.Hour)

	out, hit, err := r.RenderOverview(context.Background(), built, loaded.Set.Module, opts)
	if err != nil {
		t.Fatal(err)
	}
	if !hit || string(out[FormatSVG]) != "<svg/>" {
		t.Errorf("RenderOverview() = %q, hit %v; want cached svg", out[FormatSVG], hit)
	}
}

func TestLoadGoCached(t *testing.T) {
	if testing.Short() {
		t.Skip("loads packages through the go command")
	}
	mc := newMemCache()
	r := NewRunner(mc, nil, nil)
	opts := Options{Input: "../source/golang/testdata/inventory/..."}

	first, err := r.Load(context.Background(), opts)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if first.CacheHit || mc.sets != 1 {
		t.Fatalf("first load: hit %v, sets %d", first.CacheHit, mc.sets)
	}

	second, err := r.Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if !second.CacheHit {
		t.Fatal("second load missed the cache")
	}
	if second.Set.Module != first.Set.Module || second.Set.Dir != first.Set.Dir {
		t.Errorf("cached set = %s in %s, want %s in %s",
			second.Set.Module, second.Set.Dir, first.Set.Module, first.Set.Dir)
	}

	blocks := func(l *Loaded) []string {
		b, err := r.Build(context.Background(), l.Set, opts)
		if err != nil {
			t.Fatal(err)
		}
		return b.Context.KnownNames()
	}
	if a, b := blocks(first), blocks(second); !slices.Equal(a, b) {
		t.Errorf("cached build = %q, want %q", b, a)
	}

	opts.Refresh = true
	third, err := r.Load(context.Background(), opts)
	if err != nil {
		t.Fatal(err)
	}
	if third.CacheHit {
		t.Error("refresh load should bypass the cache")
	}
}

func TestOverviewFileName(t *testing.T) {
	if got := OverviewFileName("shop", "svg"); got != "shop.Overview.svg" {
		t.Errorf("OverviewFileName() = %q", got)
	}
}

func copyFile(t *testing.T, from, to string) {
	t.Helper()
	data, err := os.ReadFile(from)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(to, data, 0o644); err != nil {
		t.Fatal(err)
	}
}
