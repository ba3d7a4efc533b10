// Package pkg provides the core libraries for tracemetro trace layout.
//
// # Overview
//
// tracemetro converts flat agent-execution traces into positioned metro-map
// diagrams: each task rides a colored lane, delegations fork onto new lanes
// and merge back, workflows group their nodes. The pkg directory is
// organized into these areas:
//
//  1. [trace] - Input contract (step records, agent-name table)
//  2. [metro] - Layout engine (fold, measure, position, tracks)
//  3. [diagram] - Serialized layout format for renderers
//  4. [pipeline] - Orchestration with content-hash caching
//  5. [cache], [store] - Infrastructure (layout cache, run persistence)
//
// # Architecture
//
// The typical data flow:
//
//	trace.json (ordered step stream)
//	         ↓ trace.ReadDocumentFile
//	[]trace.Step
//	         ↓ metro.BuildLayout
//	*metro.Layout (absolute coordinates)
//	         ↓ diagram.Export
//	diagram.Layout → layout.json / HTTP response / MongoDB run
//
// The engine is a pure function over the step stream: identical traces
// always produce identical layouts, which is what makes content-hash
// caching in [pipeline] sound.
package pkg
