package metro

import "sort"

// buildTracks groups stops by lane, orders each lane by final vertical
// position and emits one solid segment between every consecutive pair.
// Segments take the destination stop's color and step id so the consumer
// can correlate highlights with trace steps.
func buildTracks(stops []*Stop) []TrackSegment {
	byLane := make(map[int][]*Stop)
	for _, s := range stops {
		byLane[s.Lane] = append(byLane[s.Lane], s)
	}

	lanes := make([]int, 0, len(byLane))
	for lane := range byLane {
		lanes = append(lanes, lane)
	}
	sort.Ints(lanes)

	var tracks []TrackSegment
	for _, lane := range lanes {
		group := byLane[lane]
		sort.SliceStable(group, func(i, j int) bool { return group[i].Y < group[j].Y })
		for i := 1; i < len(group); i++ {
			from, to := group[i-1], group[i]
			tracks = append(tracks, TrackSegment{
				FromY:    from.Y,
				ToY:      to.Y,
				FromLane: lane,
				ToLane:   lane,
				Color:    to.Color,
				Style:    TrackSolid,
				StepID:   to.StepID,
			})
		}
	}
	return tracks
}

// buildBranchPoints resolves the forks and joins recorded during the fold
// against final container positions. A fork sits at the top edge of the
// spawned container, a join at its bottom edge. Markers sharing a kind,
// source lane and vertical position merge into one multi-target point.
func buildBranchPoints(refs []branchRef) []BranchPoint {
	type pointKey struct {
		kind BranchKind
		from int
		y    float64
	}

	var out []BranchPoint
	index := make(map[pointKey]int)

	for _, r := range refs {
		y := r.at.Y
		if r.kind == BranchJoin {
			y = r.at.Y + r.at.Height
		}
		k := pointKey{kind: r.kind, from: r.fromLane, y: y}
		if i, ok := index[k]; ok {
			out[i].ToLanes = append(out[i].ToLanes, r.toLane)
			continue
		}
		index[k] = len(out)
		out = append(out, BranchPoint{
			Kind:     r.kind,
			FromLane: r.fromLane,
			ToLanes:  []int{r.toLane},
			Y:        y,
			Color:    r.color,
		})
	}
	return out
}
