package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tracemetro/tracemetro/pkg/cache"
	"github.com/tracemetro/tracemetro/pkg/diagram"
	"github.com/tracemetro/tracemetro/pkg/metro"
	"github.com/tracemetro/tracemetro/pkg/observability"
	"github.com/tracemetro/tracemetro/pkg/trace"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger - it doesn't
// store pipeline results. Multiple goroutines can safely use the same
// Runner with different documents.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Layout is the positioned, serializable metro layout.
	Layout diagram.Layout

	// TraceHash is the content hash of the trace document.
	TraceHash string

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
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
	return &Runner{Cache: c, Keyer: keyer, Logger: logger}
}

// Execute runs the complete trace → layout pipeline with caching.
func (r *Runner) Execute(ctx context.Context, doc trace.Document, opts Options) (*Result, error) {
	opts.setDefaults()

	result := &Result{}
	result.Stats.StepCount = len(doc.Steps)

	traceHash, err := hashDocument(doc)
	if err != nil {
		return nil, err
	}
	result.TraceHash = traceHash

	start := time.Now()
	layout, hit, err := r.layoutWithCache(ctx, doc, traceHash, opts)
	if err != nil {
		return nil, err
	}
	result.Layout = layout
	result.Stats.LayoutTime = time.Since(start)
	result.Stats.StopCount = len(layout.Stops)
	result.Stats.TrackCount = len(layout.Tracks)
	result.Stats.LaneCount = layout.LaneCount
	result.CacheInfo.LayoutHit = hit

	opts.Logger.Info("computed layout",
		"steps", result.Stats.StepCount,
		"stops", result.Stats.StopCount,
		"lanes", result.Stats.LaneCount,
		"cached", hit,
		"duration", result.Stats.LayoutTime)

	return result, nil
}

// layoutWithCache computes the layout, serving it from the cache when the
// same trace document has been laid out before.
func (r *Runner) layoutWithCache(ctx context.Context, doc trace.Document, traceHash string, opts Options) (diagram.Layout, bool, error) {
	key := r.Keyer.LayoutKey(traceHash, cache.LayoutKeyOpts{})

	if !opts.NoCache {
		if data, ok, err := r.Cache.Get(ctx, key); err == nil && ok {
			if layout, err := diagram.UnmarshalLayout(data); err == nil {
				observability.Cache().OnCacheHit(ctx, "layout")
				return layout, true, nil
			}
			// Corrupt entry: fall through and recompute.
			_ = r.Cache.Delete(ctx, key)
		}
		observability.Cache().OnCacheMiss(ctx, "layout")
	}

	observability.Layout().OnBuildStart(ctx, len(doc.Steps))
	start := time.Now()
	layout := diagram.Export(metro.BuildLayout(doc.Steps, doc.AgentNames))
	observability.Layout().OnBuildComplete(ctx, len(layout.Stops), layout.LaneCount, time.Since(start))

	if !opts.NoCache {
		if data, err := diagram.MarshalLayout(layout); err == nil {
			if err := r.Cache.Set(ctx, key, data, opts.CacheTTL); err != nil {
				r.Logger.Debug("layout cache write failed", "err", err)
			} else {
				observability.Cache().OnCacheSet(ctx, "layout", len(data))
			}
		}
	}
	return layout, false, nil
}

// hashDocument computes the content hash of a trace document. The hash
// covers the step stream and the agent-name table, since both influence
// the layout.
func hashDocument(doc trace.Document) (string, error) {
	data, err := trace.MarshalDocument(doc)
	if err != nil {
		return "", err
	}
	return cache.Hash(data), nil
}
