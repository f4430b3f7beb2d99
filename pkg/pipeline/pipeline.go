// Package pipeline provides the diagram pipeline shared by the CLI commands
// and the preview server.
//
// # Architecture
//
// The pipeline consists of four stages:
//
//  1. Load: describe the input's types, from Go packages or a model file
//  2. Build: resolve names, collect relationships and build type blocks
//  3. Partition: split the types into connected reference groups
//  4. Render: produce one class diagram document per group, plus an
//     optional relationship overview
//
// Loading Go packages is by far the slowest stage. Its output is exported
// as a JSON model and cached, keyed by a hash of the package sources.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    Input:           "./internal/store",
//	    MaxTypesPerPage: 100,
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	paths, err := runner.Write(result, opts)
//
// Run individual stages:
//
//	loaded, err := runner.Load(ctx, opts)
//	built, err := runner.Build(ctx, loaded.Set, opts)
//	docs := runner.Render(ctx, built, loaded.Set.Module, opts)
package pipeline

import (
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/pcleckler/UmlConversion/pkg/errors"
	"github.com/pcleckler/UmlConversion/pkg/render/plantuml"
	"github.com/pcleckler/UmlConversion/pkg/source"
	"github.com/pcleckler/UmlConversion/pkg/typegraph"
	"github.com/pcleckler/UmlConversion/pkg/uml"
)

// =============================================================================
// Default Values - Single Source of Truth for CLI and Server
// =============================================================================

const (
	// DefaultMaxTypesPerPage is the number of type blocks per diagram page.
	DefaultMaxTypesPerPage = plantuml.DefaultMaxTypesPerPage

	// OutputDirName is the directory created beside the input for documents.
	OutputDirName = "UML"

	// OverviewLabel is the file name part of the relationship overview.
	OverviewLabel = "Overview"

	// DefaultWatchDebounce is how long Watch waits for changes to settle.
	DefaultWatchDebounce = 500 * time.Millisecond
)

// Format constants for overview outputs.
const (
	FormatDOT = "dot"
	FormatSVG = "svg"
	FormatPNG = "png"
	FormatPDF = "pdf"
)

// ValidFormats is the set of supported overview formats.
var ValidFormats = map[string]bool{
	FormatDOT: true,
	FormatSVG: true,
	FormatPNG: true,
	FormatPDF: true,
}

// =============================================================================
// Options - Pipeline Configuration
// =============================================================================

// Options contains all configuration for the diagram pipeline.
// This struct supports JSON serialization for server requests.
type Options struct {
	// Load options
	Input             string `json:"input"`
	IncludeUnexported bool   `json:"include_unexported,omitempty"`
	Refresh           bool   `json:"refresh,omitempty"` // Ignore cached models

	// Build options
	ExceptionBases []string `json:"exception_bases,omitempty"`
	Strict         bool     `json:"strict,omitempty"` // Fail on generic resolution cycles

	// Render options
	MaxTypesPerPage int      `json:"max_types_per_page,omitempty"`
	TimestampFooter bool     `json:"timestamp_footer,omitempty"`
	Overview        []string `json:"overview,omitempty"` // Overview formats, none by default
	EdgeLabels      bool     `json:"edge_labels,omitempty"`

	// Output options
	OutputDir string `json:"output_dir,omitempty"` // Defaults to UML beside the input

	// Runtime options (not serialized)
	Logger *log.Logger       `json:"-"`
	Now    func() time.Time `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Set is the loaded input.
	Set *source.Set

	// ModelHash is the content hash of the loaded type model. It is empty
	// when the model could not be exported.
	ModelHash string

	// Build holds the build context and the partition.
	Build *Build

	// Documents are the rendered class diagrams, all-types document first.
	Documents []Document

	// Overview contains rendered overviews keyed by format.
	Overview map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Build is the outcome of the build and partition stages.
type Build struct {
	Context   *uml.Context
	Partition typegraph.Result
}

// Document is one rendered class diagram.
type Document struct {
	plantuml.Planned
	// FileName is the output file name, without directory.
	FileName string
	// Text is the diagram text.
	Text string
	// Types is the number of type blocks in the document.
	Types int
}

// Stats contains pipeline execution statistics.
type Stats struct {
	TypeCount  int
	EdgeCount  int
	GroupCount int
	LoadTime   time.Duration
	BuildTime  time.Duration
	RenderTime time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	LoadHit     bool // Whether the type model came from cache
	OverviewHit bool // Whether every overview format came from cache
}

// =============================================================================
// Validation Functions
// =============================================================================

// ValidateFormat checks that an overview format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return errors.New(errors.ErrCodeInvalidConfig,
			"invalid overview format: %q (must be one of: dot, svg, png, pdf)", format)
	}
	return nil
}

// ValidateFormats checks that all overview formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// =============================================================================
// Options Methods
// =============================================================================

// ValidateAndSetDefaults checks required fields and applies defaults for the full pipeline.
// This method is idempotent - calling it multiple times has the same effect as calling it once.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForLoad(); err != nil {
		return err
	}
	if err := o.ValidateForRender(); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForLoad checks that the input exists.
func (o *Options) ValidateForLoad() error {
	if err := errors.ValidateInputPath(o.Input); err != nil {
		return err
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if o.MaxTypesPerPage == 0 {
		o.MaxTypesPerPage = DefaultMaxTypesPerPage
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetRenderDefaults()
	if err := errors.ValidateMaxTypesPerPage(o.MaxTypesPerPage); err != nil {
		return err
	}
	return ValidateFormats(o.Overview)
}

// SourceKind returns the loader kind for the input.
func (o *Options) SourceKind() source.Kind {
	return source.Detect(o.Input)
}

// WantsOverview reports whether any overview format is requested.
func (o *Options) WantsOverview() bool {
	return len(o.Overview) > 0
}

// WantsFormat reports whether the overview format f is requested.
func (o *Options) WantsFormat(f string) bool {
	return slices.Contains(o.Overview, f)
}

// UMLOptions returns the build options.
func (o *Options) UMLOptions() uml.Options {
	return uml.Options{
		ExceptionBases: o.ExceptionBases,
		Strict:         o.Strict,
	}
}

// PlanOptions returns the document settings for module.
func (o *Options) PlanOptions(module string) plantuml.PlanOptions {
	p := plantuml.PlanOptions{
		Module:          module,
		MaxTypesPerPage: o.MaxTypesPerPage,
	}
	if o.TimestampFooter {
		now := time.Now
		if o.Now != nil {
			now = o.Now
		}
		p.GeneratedAt = now()
	}
	return p
}
