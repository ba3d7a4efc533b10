// Package metro converts a linear stream of agent-execution trace steps into
// a positioned metro-map layout: a tree of containers (agent invocations and
// workflow groups) holding stops (user turns, LLM calls, tool calls,
// conditionals), connected by per-lane track segments with fork/join branch
// points where execution splits into or merges from parallel lanes.
//
// # Pipeline
//
// Layout construction runs in four strictly ordered phases:
//
//  1. Interpret: fold over the step stream once, in order, building the
//     container tree, the flat stop list and the lane assignments.
//  2. Measure: bottom-up computation of every container's width and height
//     from its stops, children and parallel branch groups.
//  3. Position: top-down assignment of absolute coordinates; a node is
//     placed only after its parent's position is known.
//  4. Tracks: derive per-lane connector segments and branch points from the
//     final stop and container positions.
//
// The whole computation is a pure function of (steps, names): single
// threaded, no I/O, deterministic. Re-running it on the same input yields a
// structurally identical layout.
//
// # Partial traces
//
// Traces are frequently captured mid-execution, so lookups during the fold
// are soft: a step referencing an unknown task, lane or container is skipped
// rather than reported. BuildLayout never fails; it returns the best layout
// the trace supports.
//
// # Usage
//
//	doc, _ := trace.ReadDocumentFile("trace.json")
//	layout := metro.BuildLayout(doc.Steps, doc.AgentNames)
//	for _, s := range layout.Stops {
//	    // s.Lane, s.Y and s.Color are final; ready for rendering
//	}
package metro
