// Package pipeline provides the trace → layout pipeline for tracemetro.
//
// This package implements the decode → build → export flow shared by the
// CLI and the HTTP service. Centralizing it keeps caching and logging
// behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of two stages:
//
//  1. Decode: read the trace document (step stream + agent names)
//  2. Layout: fold the steps into a positioned metro layout
//
// Layout computation is deterministic, so results are cached by the content
// hash of the trace document.
//
// # Usage
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	doc, err := trace.ReadDocumentFile("trace.json")
//	if err != nil {
//	    return err
//	}
//	result, err := runner.Execute(ctx, doc, pipeline.Options{})
//	if err != nil {
//	    return err
//	}
//	_ = result.Layout // positioned, serializable
package pipeline

import (
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/tracemetro/tracemetro/pkg/cache"
)

// DefaultCacheTTL is how long computed layouts stay cached.
const DefaultCacheTTL = cache.DefaultTTL

// Options contains configuration for a pipeline run.
// The zero value is valid: caching on, discard logger.
type Options struct {
	// NoCache bypasses the cache for this run.
	NoCache bool `json:"no_cache,omitempty"`

	// CacheTTL overrides the layout cache TTL. Zero means DefaultCacheTTL.
	CacheTTL time.Duration `json:"cache_ttl,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`
}

// setDefaults fills in the zero-value fields.
func (o *Options) setDefaults() {
	if o.CacheTTL == 0 {
		o.CacheTTL = DefaultCacheTTL
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Stats contains pipeline execution statistics.
type Stats struct {
	StepCount  int
	StopCount  int
	TrackCount int
	LaneCount  int
	LayoutTime time.Duration
}

// CacheInfo tracks cache hits for the pipeline stages.
type CacheInfo struct {
	LayoutHit bool // Whether the layout came from cache
}
