// Package observability reports what the diagram pipeline, the cache and the
// preview server are doing.
//
// Each area has one hook interface fed with small event structs. Every hook
// starts as a no-op; main registers real ones before the first run:
//
//	observability.Register(observability.Hooks{
//	    Pipeline: observability.NewLogHooks(logger),
//	    Cache:    observability.NewLogHooks(logger),
//	})
//
// Libraries emit through the accessors:
//
//	observability.Pipeline().OnStageDone(ctx, observability.StageEvent{
//	    Stage: observability.StageBuild, Subject: module, Types: 42,
//	})
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Pipeline
// =============================================================================

// Stage names one pass of a pipeline run.
type Stage string

const (
	StageLoad     Stage = "load"
	StageBuild    Stage = "build"
	StageRender   Stage = "render"
	StageOverview Stage = "overview"
)

// StageEvent describes a finished stage. Counts a stage does not produce
// stay zero.
type StageEvent struct {
	Stage     Stage
	Subject   string // input path or module name
	Types     int
	Edges     int
	Groups    int
	Documents int
	Cached    bool
	Duration  time.Duration
	Err       error
}

// PipelineHooks receives stage events from pipeline runs.
type PipelineHooks interface {
	OnStageStart(ctx context.Context, stage Stage, subject string)
	OnStageDone(ctx context.Context, ev StageEvent)
}

// =============================================================================
// Cache
// =============================================================================

// CacheOp is the outcome of one cache access.
type CacheOp string

const (
	CacheHit  CacheOp = "hit"
	CacheMiss CacheOp = "miss"
	CacheSet  CacheOp = "set"
)

// CacheEvent describes one cache access. Kind is "model" or "overview".
type CacheEvent struct {
	Op   CacheOp
	Kind string
	Key  string
	Size int
}

// CacheHooks receives cache accesses.
type CacheHooks interface {
	OnCache(ctx context.Context, ev CacheEvent)
}

// =============================================================================
// HTTP
// =============================================================================

// RequestEvent describes a preview server request. Status and Duration are
// set once the response is written; Err only for handler failures.
type RequestEvent struct {
	Method   string
	Path     string
	Status   int
	Duration time.Duration
	Err      error
}

// HTTPHooks receives preview server requests.
type HTTPHooks interface {
	OnRequest(ctx context.Context, method, path string)
	OnResponse(ctx context.Context, ev RequestEvent)
	OnError(ctx context.Context, ev RequestEvent)
}

// =============================================================================
// No-op Implementations
// =============================================================================

type NoopPipelineHooks struct{}

func (NoopPipelineHooks) OnStageStart(context.Context, Stage, string) {}
func (NoopPipelineHooks) OnStageDone(context.Context, StageEvent)     {}

type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCache(context.Context, CacheEvent) {}

type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string) {}
func (NoopHTTPHooks) OnResponse(context.Context, RequestEvent)  {}
func (NoopHTTPHooks) OnError(context.Context, RequestEvent)     {}

// =============================================================================
// Registry
// =============================================================================

// Hooks groups the hooks to register. Nil fields leave the current hook in
// place.
type Hooks struct {
	Pipeline PipelineHooks
	Cache    CacheHooks
	HTTP     HTTPHooks
}

var (
	mu      sync.RWMutex
	current = defaults()
)

func defaults() Hooks {
	return Hooks{Pipeline: NoopPipelineHooks{}, Cache: NoopCacheHooks{}, HTTP: NoopHTTPHooks{}}
}

// Register installs the non-nil hooks of h.
func Register(h Hooks) {
	mu.Lock()
	defer mu.Unlock()
	if h.Pipeline != nil {
		current.Pipeline = h.Pipeline
	}
	if h.Cache != nil {
		current.Cache = h.Cache
	}
	if h.HTTP != nil {
		current.HTTP = h.HTTP
	}
}

// Reset restores the no-op hooks.
func Reset() {
	mu.Lock()
	defer mu.Unlock()
	current = defaults()
}

func Pipeline() PipelineHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Pipeline
}

func Cache() CacheHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.Cache
}

func HTTP() HTTPHooks {
	mu.RLock()
	defer mu.RUnlock()
	return current.HTTP
}
