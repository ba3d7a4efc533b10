package metro

// LaneAllocator manages the pool of parallel execution lanes. Lanes are
// acquired per task (or workflow execution) id and reclaimed on release;
// the pool only ever grows, so its final size records the peak concurrency
// observed in the stream.
//
// The allocator is not safe for concurrent use. The engine owns one
// allocator per BuildLayout call.
type LaneAllocator struct {
	lanes []*Lane
	owner map[string]int // task id -> lane index
}

// NewLaneAllocator creates an empty lane pool.
func NewLaneAllocator() *LaneAllocator {
	return &LaneAllocator{owner: make(map[string]int)}
}

// Acquire returns the lane owned by taskID, activating the first inactive
// lane (or appending a new one) when the task has none yet. Acquire is
// idempotent: repeated calls for the same active task return the same index
// and leave the lane untouched.
//
// color sets the lane color on activation; pass "" to keep the default.
func (a *LaneAllocator) Acquire(taskID, color string) int {
	if idx, ok := a.owner[taskID]; ok {
		return idx
	}

	idx := -1
	for i, l := range a.lanes {
		if !l.Active {
			idx = i
			break
		}
	}
	if idx < 0 {
		a.lanes = append(a.lanes, &Lane{Index: len(a.lanes)})
		idx = len(a.lanes) - 1
	}

	l := a.lanes[idx]
	l.Active = true
	l.TaskID = taskID
	l.TipID = ""
	if color != "" {
		l.Color = color
	} else if l.Color == "" {
		l.Color = DefaultLaneColor
	}
	a.owner[taskID] = idx
	return idx
}

// Release marks taskID's lane inactive and clears its occupancy, making it
// reusable by a later task. Releasing an id with no owned lane is a no-op.
func (a *LaneAllocator) Release(taskID string) {
	idx, ok := a.owner[taskID]
	if !ok {
		return
	}
	delete(a.owner, taskID)
	l := a.lanes[idx]
	l.Active = false
	l.TaskID = ""
	l.TipID = ""
}

// Lane returns the lane index owned by taskID, if any.
func (a *LaneAllocator) Lane(taskID string) (int, bool) {
	idx, ok := a.owner[taskID]
	return idx, ok
}

// Color returns the color of the lane at index, or the default color for an
// out-of-range index.
func (a *LaneAllocator) Color(index int) string {
	if index < 0 || index >= len(a.lanes) {
		return DefaultLaneColor
	}
	return a.lanes[index].Color
}

// SetTip records the most recent stop or container id placed on taskID's
// lane. Unknown task ids are ignored.
func (a *LaneAllocator) SetTip(taskID, id string) {
	if idx, ok := a.owner[taskID]; ok {
		a.lanes[idx].TipID = id
	}
}

// Count returns the total number of lanes ever allocated.
func (a *LaneAllocator) Count() int { return len(a.lanes) }

// ActiveCount returns the number of currently occupied lanes.
func (a *LaneAllocator) ActiveCount() int {
	n := 0
	for _, l := range a.lanes {
		if l.Active {
			n++
		}
	}
	return n
}

// Lanes returns a snapshot of the pool in index order.
func (a *LaneAllocator) Lanes() []Lane {
	out := make([]Lane, len(a.lanes))
	for i, l := range a.lanes {
		out[i] = *l
	}
	return out
}
