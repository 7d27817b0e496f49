package observability

import (
	"context"
	"time"

	"github.com/charmbracelet/log"
)

// LogHooks reports pipeline, store and HTTP events to a logger at debug
// level, and failures at warn level.
type LogHooks struct {
	Logger *log.Logger
}

// NewLogHooks returns hooks writing to logger, or to the default logger if nil.
func NewLogHooks(logger *log.Logger) *LogHooks {
	if logger == nil {
		logger = log.Default()
	}
	return &LogHooks{Logger: logger}
}

func (h *LogHooks) OnLayoutStart(_ context.Context, mapID string, nodeCount int) {
	h.Logger.Debug("layout started", "map", mapID, "nodes", nodeCount)
}

func (h *LogHooks) OnLayoutComplete(_ context.Context, mapID string, d time.Duration, err error) {
	h.done("layout", err, "map", mapID, "duration", d)
}

func (h *LogHooks) OnRenderStart(_ context.Context, mapID string, formats []string) {
	h.Logger.Debug("render started", "map", mapID, "formats", formats)
}

func (h *LogHooks) OnRenderComplete(_ context.Context, mapID string, formats []string, d time.Duration, err error) {
	h.done("render", err, "map", mapID, "formats", formats, "duration", d)
}

func (h *LogHooks) OnRead(_ context.Context, op string, d time.Duration, err error) {
	h.done("store "+op, err, "duration", d)
}

func (h *LogHooks) OnWrite(_ context.Context, op string, d time.Duration, err error) {
	h.done("store "+op, err, "duration", d)
}

func (h *LogHooks) OnRequest(_ context.Context, method, route string) {
	h.Logger.Debug("request", "method", method, "route", route)
}

func (h *LogHooks) OnResponse(_ context.Context, method, route string, status int, d time.Duration) {
	if status >= 500 {
		h.Logger.Warn("response", "method", method, "route", route, "status", status, "duration", d)
		return
	}
	h.Logger.Debug("response", "method", method, "route", route, "status", status, "duration", d)
}

func (h *LogHooks) done(what string, err error, kv ...any) {
	if err != nil {
		h.Logger.Warn(what+" failed", append(kv, "err", err)...)
		return
	}
	h.Logger.Debug(what+" complete", kv...)
}

var (
	_ PipelineHooks = (*LogHooks)(nil)
	_ StoreHooks    = (*LogHooks)(nil)
	_ HTTPHooks     = (*LogHooks)(nil)
)
