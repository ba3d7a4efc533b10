package metro

import "github.com/tracemetro/tracemetro/pkg/trace"

// BuildLayout folds the ordered step stream into a fully positioned metro
// layout. The computation is deterministic and never fails: steps that
// reference unknown tasks, lanes or containers are skipped so a partial
// trace still yields the best layout it supports.
//
// names resolves internal agent identifiers to display labels; missing
// entries fall back to the raw identifier. A nil map is valid.
func BuildLayout(steps []trace.Step, names trace.Names) *Layout {
	b := newBuilder(names)
	for _, s := range steps {
		b.apply(s)
	}

	for _, r := range b.roots {
		measure(r)
	}
	width, height := positionRoots(b.roots, b.anchors)

	return &Layout{
		Roots:     b.roots,
		Stops:     b.stops,
		Tracks:    buildTracks(b.stops),
		Branches:  buildBranchPoints(b.branchRefs),
		Lanes:     b.lanes.Lanes(),
		LaneCount: b.lanes.Count(),
		Width:     width,
		Height:    height,
	}
}
