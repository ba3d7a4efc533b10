package metro

import "testing"

func TestMeasureEmptyContainer(t *testing.T) {
	c := &Container{Kind: KindAgent}
	measure(c)
	if c.Width != ContainerMinWidth {
		t.Errorf("width = %v, want %v", c.Width, ContainerMinWidth)
	}
	if c.Height != ContainerMinHeight {
		t.Errorf("height = %v, want %v", c.Height, ContainerMinHeight)
	}
}

func TestMeasureStops(t *testing.T) {
	c := &Container{Kind: KindAgent, Stops: []*Stop{
		{Label: "a"},
		{Label: "b"},
	}}
	measure(c)

	want := ContainerHeader + ContainerPadding + 2*(StopHeight+StopGap) + ContainerPadding
	if want < ContainerMinHeight {
		want = ContainerMinHeight
	}
	if c.Height != want {
		t.Errorf("height = %v, want %v", c.Height, want)
	}
}

func TestMeasureLongLabelWidensContainer(t *testing.T) {
	short := &Container{Kind: KindAgent, Stops: []*Stop{{Label: "x"}}}
	long := &Container{Kind: KindAgent, Stops: []*Stop{
		{Label: "a_tool_with_a_rather_long_display_name"},
	}}
	measure(short)
	measure(long)
	if long.Width <= short.Width {
		t.Errorf("long label width %v not greater than %v", long.Width, short.Width)
	}
}

func TestMeasureNestedChild(t *testing.T) {
	child := &Container{Kind: KindAgent}
	parent := &Container{Kind: KindAgent, Children: []*Container{child}}
	measure(parent)

	if parent.Height <= child.Height {
		t.Errorf("parent height %v not greater than child %v", parent.Height, child.Height)
	}
	if parent.Width < child.Width+2*ContainerPadding {
		t.Errorf("parent width %v too small for child %v", parent.Width, child.Width)
	}
}

func TestMeasureWorkflowMinimums(t *testing.T) {
	wg := &Container{Kind: KindWorkflowGroup}
	measure(wg)
	if wg.Width != WorkflowMinWidth {
		t.Errorf("workflow width = %v, want %v", wg.Width, WorkflowMinWidth)
	}
}

func TestMeasureGroupTallestColumn(t *testing.T) {
	// Two columns: one with two stacked containers, one with a single
	// container. Group height follows the tallest column, not the sum.
	a, b, c := &Container{Kind: KindAgent}, &Container{Kind: KindAgent}, &Container{Kind: KindAgent}
	measure(a)
	measure(b)
	measure(c)

	g := BranchGroup{Columns: [][]*Container{{a, b}, {c}}}
	w, h := measureGroup(&g)

	wantH := a.Height + ChildGap + b.Height
	if h != wantH {
		t.Errorf("group height = %v, want tallest column %v", h, wantH)
	}
	wantW := a.Width + BranchGap + c.Width
	if w != wantW {
		t.Errorf("group width = %v, want %v", w, wantW)
	}
}

func TestStopWidthMinimum(t *testing.T) {
	if got := stopWidth(&Stop{Label: "x"}); got != StopMinWidth {
		t.Errorf("narrow stop width = %v, want %v", got, StopMinWidth)
	}
	long := &Stop{Label: "a label long enough to exceed the minimum"}
	if got := stopWidth(long); got <= StopMinWidth {
		t.Errorf("long stop width = %v, want > %v", got, StopMinWidth)
	}
}
