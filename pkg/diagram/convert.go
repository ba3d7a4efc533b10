package diagram

import (
	"github.com/tracemetro/tracemetro/pkg/metro"
)

// Export converts an internal metro layout to its serialization format.
// This is the single point of conversion for all engine→wire operations.
func Export(l *metro.Layout) Layout {
	out := Layout{
		Containers: make([]Container, len(l.Roots)),
		Stops:      make([]Stop, len(l.Stops)),
		Tracks:     make([]Track, len(l.Tracks)),
		Branches:   make([]Branch, len(l.Branches)),
		Lanes:      make([]Lane, len(l.Lanes)),
		LaneCount:  l.LaneCount,
		Width:      l.Width,
		Height:     l.Height,
	}
	for i, r := range l.Roots {
		out.Containers[i] = containerFromMetro(r)
	}
	for i, s := range l.Stops {
		out.Stops[i] = stopFromMetro(s)
	}
	for i, t := range l.Tracks {
		out.Tracks[i] = Track{
			FromY:    t.FromY,
			ToY:      t.ToY,
			FromLane: t.FromLane,
			ToLane:   t.ToLane,
			Color:    t.Color,
			Style:    string(t.Style),
			StepID:   t.StepID,
		}
	}
	for i, b := range l.Branches {
		out.Branches[i] = Branch{
			Kind:     string(b.Kind),
			FromLane: b.FromLane,
			ToLanes:  append([]int(nil), b.ToLanes...),
			Y:        b.Y,
			Color:    b.Color,
		}
	}
	for i, ln := range l.Lanes {
		out.Lanes[i] = Lane{Index: ln.Index, Active: ln.Active, TaskID: ln.TaskID, Color: ln.Color}
	}
	return out
}

func stopFromMetro(s *metro.Stop) Stop {
	return Stop{
		ID:              s.ID,
		Kind:            string(s.Kind),
		Label:           s.Label,
		StepID:          s.StepID,
		Lane:            s.Lane,
		Color:           s.Color,
		Status:          string(s.Status),
		Y:               s.Y,
		Condition:       s.Condition,
		ConditionResult: s.ConditionResult,
	}
}

func containerFromMetro(c *metro.Container) Container {
	out := Container{
		ID:           c.ID,
		Kind:         string(c.Kind),
		Label:        c.Label,
		StepID:       c.StepID,
		Lane:         c.Lane,
		Color:        c.Color,
		WorkflowName: c.WorkflowName,
		X:            c.X,
		Y:            c.Y,
		Width:        c.Width,
		Height:       c.Height,
	}
	for _, s := range c.Stops {
		out.StopIDs = append(out.StopIDs, s.ID)
	}
	for _, ch := range c.Children {
		out.Children = append(out.Children, containerFromMetro(ch))
	}
	for _, g := range c.Branches {
		wg := BranchGroup{ID: g.ID, Columns: make([][]Container, len(g.Columns))}
		for i, col := range g.Columns {
			for _, ch := range col {
				wg.Columns[i] = append(wg.Columns[i], containerFromMetro(ch))
			}
		}
		out.Branches = append(out.Branches, wg)
	}
	return out
}
