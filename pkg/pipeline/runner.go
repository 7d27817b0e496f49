package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/mindmap/pkg/errors"
	"github.com/matzehuels/mindmap/pkg/layout"
	"github.com/matzehuels/mindmap/pkg/mindmap"
	"github.com/matzehuels/mindmap/pkg/observability"
	"github.com/matzehuels/mindmap/pkg/store"
)

// Runner executes the pipeline against a store.
//
// The Runner is stateless except for the store and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Store  store.Store
	Logger *log.Logger
}

// NewRunner creates a runner. A nil store is allowed when only
// RenderRecord and RenderConfig are used.
func NewRunner(st store.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{Store: st, Logger: logger}
}

// RenderMap loads a stored map and renders it.
func (r *Runner) RenderMap(ctx context.Context, user, mapID string, opts Options) (*Result, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeInternal, "runner has no store")
	}
	rec, err := r.Store.Get(ctx, user, mapID)
	if err != nil {
		return nil, err
	}
	return r.RenderRecord(ctx, rec, opts)
}

// RenderAll renders every map of a user, in listing order.
// The first failure cancels the remaining renders.
func (r *Runner) RenderAll(ctx context.Context, user string, opts Options) ([]*Result, error) {
	if r.Store == nil {
		return nil, errors.New(errors.ErrCodeInternal, "runner has no store")
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	recs, err := r.Store.List(ctx, user)
	if err != nil {
		return nil, err
	}

	results := make([]*Result, len(recs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(opts.Concurrency)
	for i, rec := range recs {
		g.Go(func() error {
			res, err := r.RenderRecord(gctx, rec, opts)
			if err != nil {
				return fmt.Errorf("%s: %w", rec.ID, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	r.Logger.Info("rendered mind maps", "user", user, "maps", len(results), "formats", opts.Formats)
	return results, nil
}

// RenderRecord translates rec and renders it.
func (r *Runner) RenderRecord(ctx context.Context, rec *mindmap.Record, opts Options) (*Result, error) {
	cfg, err := mindmap.FromRecord(rec)
	if err != nil {
		return nil, err
	}
	res, err := r.RenderConfig(ctx, rec.ID, cfg, opts)
	if err != nil {
		return nil, err
	}
	res.Name = rec.Name
	res.Hash = store.Fingerprint(rec)
	return res, nil
}

// RenderConfig runs layout and render for an already translated config.
// mapID is only used for logging and hooks.
func (r *Runner) RenderConfig(ctx context.Context, mapID string, cfg mindmap.Config, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, err
	}
	hooks := observability.Pipeline()
	res := &Result{MapID: mapID, Config: cfg}

	// Stage 1: Layout
	hooks.OnLayoutStart(ctx, mapID, cfg.NodeCount())
	layoutStart := time.Now()
	p, err := layout.Place(cfg)
	res.Stats.LayoutTime = time.Since(layoutStart)
	hooks.OnLayoutComplete(ctx, mapID, res.Stats.LayoutTime, err)
	if err != nil {
		return nil, fmt.Errorf("layout: %w", err)
	}
	res.Placement = p
	res.Stats.NodeCount = len(p.Nodes)
	res.Stats.EdgeCount = len(p.Edges())
	res.Stats.Rings = p.Rings
	res.Stats.Size = p.Width

	r.Logger.Debug("computed layout",
		"map", mapID,
		"nodes", res.Stats.NodeCount,
		"rings", res.Stats.Rings,
		"duration", res.Stats.LayoutTime)

	// Stage 2: Render
	hooks.OnRenderStart(ctx, mapID, opts.Formats)
	renderStart := time.Now()
	artifacts, err := r.render(ctx, cfg, p, opts)
	res.Stats.RenderTime = time.Since(renderStart)
	hooks.OnRenderComplete(ctx, mapID, opts.Formats, res.Stats.RenderTime, err)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	res.Artifacts = artifacts

	r.Logger.Debug("rendered outputs",
		"map", mapID,
		"formats", opts.Formats,
		"duration", res.Stats.RenderTime)
	return res, nil
}

// Close releases the store.
func (r *Runner) Close() error {
	if r.Store != nil {
		return r.Store.Close()
	}
	return nil
}
