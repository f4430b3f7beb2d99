package observability

import (
	"context"

	"github.com/charmbracelet/log"
)

// LogHooks writes pipeline and cache events to a logger at debug level.
// Failed stages are logged as warnings.
type LogHooks struct {
	logger *log.Logger
}

// NewLogHooks returns hooks that log through logger.
func NewLogHooks(logger *log.Logger) *LogHooks {
	return &LogHooks{logger: logger}
}

func (h *LogHooks) OnStageStart(_ context.Context, stage Stage, subject string) {
	h.logger.Debug("stage started", "stage", stage, "subject", subject)
}

func (h *LogHooks) OnStageDone(_ context.Context, ev StageEvent) {
	kv := []any{"stage", ev.Stage, "subject", ev.Subject, "duration", ev.Duration}
	for _, c := range []struct {
		key string
		n   int
	}{{"types", ev.Types}, {"edges", ev.Edges}, {"groups", ev.Groups}, {"documents", ev.Documents}} {
		if c.n > 0 {
			kv = append(kv, c.key, c.n)
		}
	}
	if ev.Cached {
		kv = append(kv, "cached", true)
	}
	if ev.Err != nil {
		h.logger.Warn("stage failed", append(kv, "err", ev.Err)...)
		return
	}
	h.logger.Debug("stage done", kv...)
}

func (h *LogHooks) OnCache(_ context.Context, ev CacheEvent) {
	kv := []any{"kind", ev.Kind, "key", ev.Key}
	if ev.Op == CacheSet {
		kv = append(kv, "bytes", ev.Size)
	}
	h.logger.Debug("cache "+string(ev.Op), kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ CacheHooks    = (*LogHooks)(nil)
)
