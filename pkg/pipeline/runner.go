package pipeline

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pcleckler/UmlConversion/pkg/cache"
	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/observability"
	"github.com/pcleckler/UmlConversion/pkg/render/nodelink"
	"github.com/pcleckler/UmlConversion/pkg/render/plantuml"
	"github.com/pcleckler/UmlConversion/pkg/source"
	"github.com/pcleckler/UmlConversion/pkg/source/golang"
	"github.com/pcleckler/UmlConversion/pkg/source/model"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// pngScale is the resolution factor of overview PNGs.
const pngScale = 2.0

// Runner encapsulates pipeline execution with caching.
// Both the CLI and the preview server use it.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger

	// TTL is the lifetime of cached models and overviews.
	TTL time.Duration
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
		TTL:    cache.DefaultTTL,
	}
}

// Loaded is the outcome of the load stage.
type Loaded struct {
	Set       *source.Set
	ModelHash string
	CacheHit  bool
}

// Execute runs the complete load → build → render pipeline with caching.
// Nothing is written; see [Runner.Write].
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}

	result := &Result{}

	// Stage 1: Load
	loadStart := time.Now()
	loaded, err := r.Load(ctx, opts)
	if err != nil {
		return nil, err
	}
	result.Set = loaded.Set
	result.ModelHash = loaded.ModelHash
	result.Stats.LoadTime = time.Since(loadStart)
	result.CacheInfo.LoadHit = loaded.CacheHit

	r.Logger.Info("loaded types",
		"input", opts.Input,
		"types", len(loaded.Set.Types),
		"cached", loaded.CacheHit,
		"duration", result.Stats.LoadTime)

	// Stage 2: Build and partition
	buildStart := time.Now()
	built, err := r.Build(ctx, loaded.Set, opts)
	if err != nil {
		return nil, err
	}
	result.Build = built
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.TypeCount = len(built.Context.Blocks())
	result.Stats.EdgeCount = built.Context.Graph.EdgeCount()
	result.Stats.GroupCount = len(built.Partition.All())

	r.Logger.Info("built diagram model",
		"types", result.Stats.TypeCount,
		"edges", result.Stats.EdgeCount,
		"groups", result.Stats.GroupCount,
		"duration", result.Stats.BuildTime)

	// Stage 3: Render
	renderStart := time.Now()
	result.Documents = r.Render(ctx, built, loaded.Set.Module, opts)
	overview, hit, err := r.RenderOverview(ctx, built, loaded.Set.Module, opts)
	if err != nil {
		return nil, err
	}
	result.Overview = overview
	result.CacheInfo.OverviewHit = hit
	result.Stats.RenderTime = time.Since(renderStart)

	if len(result.Documents) == 0 {
		r.Logger.Warn("no types to diagram", "input", opts.Input)
	}
	r.Logger.Info("rendered documents",
		"documents", len(result.Documents),
		"overview", opts.Overview,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// =============================================================================
// Load
// =============================================================================

// Load describes the input's types. Go package loads are cached as JSON
// models keyed by the package sources; model files are read directly.
func (r *Runner) Load(ctx context.Context, opts Options) (*Loaded, error) {
	r.applyLogger(&opts)
	if err := opts.ValidateForLoad(); err != nil {
		return nil, err
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageLoad, opts.Input)
	start := time.Now()

	var loaded *Loaded
	var err error
	if opts.SourceKind() == source.KindModel {
		loaded, err = r.loadModel(ctx, opts)
	} else {
		loaded, err = r.loadGo(ctx, opts)
	}

	ev := observability.StageEvent{Stage: observability.StageLoad, Subject: opts.Input, Duration: time.Since(start), Err: err}
	if loaded != nil {
		ev.Types = len(loaded.Set.Types)
		ev.Cached = loaded.CacheHit
	}
	hooks.OnStageDone(ctx, ev)
	return loaded, err
}

func (r *Runner) loadModel(ctx context.Context, opts Options) (*Loaded, error) {
	data, err := os.ReadFile(opts.Input)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeLoadFailed, err, "read %s", opts.Input)
	}
	set, err := model.Loader{}.Load(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	return &Loaded{Set: set, ModelHash: cache.Hash(data)}, nil
}

func (r *Runner) loadGo(ctx context.Context, opts Options) (*Loaded, error) {
	dir, err := golang.Dir(opts.Input)
	if err != nil {
		return nil, err
	}
	srcHash, err := golang.SourceHash(opts.Input)
	if err != nil {
		return nil, err
	}
	pattern := filepath.ToSlash(dir)
	if strings.HasSuffix(opts.Input, "...") {
		pattern += "/..."
	}
	key := r.Keyer.ModelKey(pattern, cache.ModelKeyOpts{
		SourceHash:        srcHash,
		IncludeUnexported: opts.IncludeUnexported,
		Loader:            string(source.KindGo),
	})

	// Try cache first (unless refresh requested)
	if !opts.Refresh {
		if loaded, ok := r.cachedModel(ctx, key, dir, opts.Logger); ok {
			return loaded, nil
		}
	}

	loader := golang.New(golang.Options{IncludeUnexported: opts.IncludeUnexported}, opts.Logger)
	set, err := loader.Load(ctx, opts.Input)
	if err != nil {
		return nil, err
	}
	loaded := &Loaded{Set: set}

	m, err := model.Export(set.Module, set.Types, set.Docs)
	if err != nil {
		opts.Logger.Debug("model not cacheable", "err", err)
		return loaded, nil
	}
	var buf bytes.Buffer
	if err := model.Encode(&buf, m, model.FormatJSON); err != nil {
		opts.Logger.Debug("model not cacheable", "err", err)
		return loaded, nil
	}
	loaded.ModelHash = cache.Hash(buf.Bytes())

	if err := r.Cache.Set(ctx, key, buf.Bytes(), r.TTL); err != nil {
		r.Logger.Warn("cache write failed", "key", key, "err", err)
	} else {
		observability.Cache().OnCache(ctx, observability.CacheEvent{Op: observability.CacheSet, Kind: "model", Key: key, Size: buf.Len()})
	}
	return loaded, nil
}

// cachedModel rebuilds a set from a cached model. Unreadable entries are
// treated as misses.
func (r *Runner) cachedModel(ctx context.Context, key, dir string, logger *log.Logger) (*Loaded, bool) {
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		r.Logger.Warn("cache read failed", "key", key, "err", err)
		return nil, false
	}
	if !hit {
		observability.Cache().OnCache(ctx, observability.CacheEvent{Op: observability.CacheMiss, Kind: "model", Key: key})
		return nil, false
	}
	m, err := model.Decode(bytes.NewReader(data), model.FormatJSON)
	if err != nil {
		logger.Debug("discarding cached model", "key", key, "err", err)
		return nil, false
	}
	set, err := m.Build()
	if err != nil {
		logger.Debug("discarding cached model", "key", key, "err", err)
		return nil, false
	}
	set.Dir = dir
	observability.Cache().OnCache(ctx, observability.CacheEvent{Op: observability.CacheHit, Kind: "model", Key: key, Size: len(data)})
	return &Loaded{Set: set, ModelHash: cache.Hash(data), CacheHit: true}, true
}

// =============================================================================
// Build
// =============================================================================

// Build runs a build pass over the set's types and partitions the result.
func (r *Runner) Build(ctx context.Context, set *source.Set, opts Options) (*Build, error) {
	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageBuild, set.Module)
	start := time.Now()
	done := func(c *uml.Context, groups int, err error) {
		ev := observability.StageEvent{Stage: observability.StageBuild, Subject: set.Module, Groups: groups, Duration: time.Since(start), Err: err}
		if c != nil {
			ev.Types, ev.Edges = len(c.Blocks()), c.Graph.EdgeCount()
		}
		hooks.OnStageDone(ctx, ev)
	}

	c, err := uml.Build(set.Types, set.Docs, opts.UMLOptions())
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInvalidInput, err, "build %s", set.Module)
		if opts.Strict {
			err = errors.WithHint(err, "rerun without --strict to name cyclic generic arguments by their raw names")
		}
		done(nil, 0, err)
		return nil, err
	}

	part, err := typegraph.Partition(c.KnownNames(), c.Graph)
	if err != nil {
		err = errors.Wrap(errors.ErrCodeInternal, err, "partition %s", set.Module)
		done(c, 0, err)
		return nil, err
	}

	done(c, len(part.All()), nil)
	return &Build{Context: c, Partition: part}, nil
}

// =============================================================================
// Render
// =============================================================================

// Render produces the class diagram documents of a build. Documents that
// select no type are skipped.
func (r *Runner) Render(ctx context.Context, b *Build, module string, opts Options) []Document {
	opts.SetRenderDefaults()
	hooks := observability.Pipeline()
	start := time.Now()

	hooks.OnStageStart(ctx, observability.StageRender, module)
	planned := plantuml.Plan(b.Partition, opts.PlanOptions(module))

	docs := make([]Document, 0, len(planned))
	for _, p := range planned {
		text := plantuml.Render(b.Context, p.Document)
		if text == "" {
			continue
		}
		docs = append(docs, Document{
			Planned:  p,
			FileName: p.FileName(module),
			Text:     text,
			Types:    len(plantuml.Select(b.Context, p.Select)),
		})
	}

	hooks.OnStageDone(ctx, observability.StageEvent{
		Stage:     observability.StageRender,
		Subject:   module,
		Groups:    len(b.Partition.All()),
		Documents: len(docs),
		Duration:  time.Since(start),
	})
	return docs
}

// RenderOverview renders the relationship overview in every requested
// format. Graphviz renders are cached by the hash of their DOT source. The
// returned flag reports whether every rendered format came from cache.
func (r *Runner) RenderOverview(ctx context.Context, b *Build, module string, opts Options) (map[string][]byte, bool, error) {
	if !opts.WantsOverview() {
		return nil, false, nil
	}
	if err := ValidateFormats(opts.Overview); err != nil {
		return nil, false, err
	}

	hooks := observability.Pipeline()
	hooks.OnStageStart(ctx, observability.StageOverview, module)
	start := time.Now()
	out, cached, err := r.renderOverview(ctx, b, module, opts)
	hooks.OnStageDone(ctx, observability.StageEvent{
		Stage:    observability.StageOverview,
		Subject:  module,
		Groups:   len(b.Partition.All()),
		Cached:   cached,
		Duration: time.Since(start),
		Err:      err,
	})
	return out, cached, err
}

func (r *Runner) renderOverview(ctx context.Context, b *Build, module string, opts Options) (map[string][]byte, bool, error) {
	dot := nodelink.ToDOT(b.Context.Graph, b.Partition, nodelink.Options{
		EdgeLabels: opts.EdgeLabels,
		Title:      module,
	})
	dotHash := cache.Hash([]byte(dot))

	out := make(map[string][]byte, len(opts.Overview))
	allCached := true
	for _, format := range opts.Overview {
		if format == FormatDOT {
			out[format] = []byte(dot)
			continue
		}

		keyOpts := cache.OverviewKeyOpts{Format: format}
		if format == FormatPNG {
			keyOpts.Scale = pngScale
		}
		key := r.Keyer.OverviewKey(dotHash, keyOpts)
		if data, hit, err := r.Cache.Get(ctx, key); err == nil && hit {
			observability.Cache().OnCache(ctx, observability.CacheEvent{Op: observability.CacheHit, Kind: "overview", Key: key, Size: len(data)})
			out[format] = data
			continue
		}
		allCached = false

		data, err := renderDOT(ctx, dot, format)
		if err != nil {
			return nil, false, errors.Wrap(errors.ErrCodeRenderFailed, err, "render %s overview", format)
		}
		out[format] = data
		if err := r.Cache.Set(ctx, key, data, r.TTL); err == nil {
			observability.Cache().OnCache(ctx, observability.CacheEvent{Op: observability.CacheSet, Kind: "overview", Key: key, Size: len(data)})
		}
	}
	return out, allCached, nil
}

func renderDOT(ctx context.Context, dot, format string) ([]byte, error) {
	switch format {
	case FormatSVG:
		return nodelink.RenderSVG(ctx, dot)
	case FormatPNG:
		return nodelink.RenderPNG(ctx, dot, pngScale)
	case FormatPDF:
		return nodelink.RenderPDF(ctx, dot)
	}
	return nil, errors.New(errors.ErrCodeUnsupported, "unsupported overview format: %s", format)
}

// =============================================================================
// Output
// =============================================================================

// OutputDir returns the directory documents are written to: opts.OutputDir
// when set, else UML beside the loaded input.
func OutputDir(set *source.Set, opts Options) string {
	if opts.OutputDir != "" {
		return opts.OutputDir
	}
	return filepath.Join(set.Dir, OutputDirName)
}

// Write writes the documents and overviews of result and returns the
// written paths. Existing files are overwritten.
func (r *Runner) Write(result *Result, opts Options) ([]string, error) {
	dir := OutputDir(result.Set, opts)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(errors.ErrCodeExportFailed, err, "create %s", dir)
	}

	var paths []string
	write := func(name string, data []byte) error {
		p := filepath.Join(dir, name)
		if err := os.WriteFile(p, data, 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeExportFailed, err, "write %s", p)
		}
		paths = append(paths, p)
		return nil
	}

	for _, d := range result.Documents {
		if err := write(d.FileName, []byte(d.Text)); err != nil {
			return paths, err
		}
	}
	for _, format := range opts.Overview {
		data, ok := result.Overview[format]
		if !ok {
			continue
		}
		if err := write(OverviewFileName(result.Set.Module, format), data); err != nil {
			return paths, err
		}
	}

	r.Logger.Debug("wrote outputs", "dir", dir, "files", len(paths))
	return paths, nil
}

// OverviewFileName returns "{base}.Overview.{format}".
func OverviewFileName(base, format string) string {
	return base + "." + OverviewLabel + "." + format
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}
