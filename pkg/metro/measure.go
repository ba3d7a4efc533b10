package metro

// measure computes Width and Height for c and its entire subtree. Children
// and branch columns are measured first; the parent then folds their
// extents into its own. Containers never reference an ancestor, so the
// recursion terminates.
func measure(c *Container) {
	for _, ch := range c.Children {
		measure(ch)
	}
	for gi := range c.Branches {
		for _, col := range c.Branches[gi].Columns {
			for _, ch := range col {
				measure(ch)
			}
		}
	}

	width := float64(ContainerMinWidth)
	height := ContainerHeader + ContainerPadding

	for _, s := range c.Stops {
		if w := stopWidth(s) + 2*ContainerPadding; w > width {
			width = w
		}
		height += StopHeight + StopGap
	}
	for _, ch := range c.Children {
		if w := ch.Width + 2*ContainerPadding; w > width {
			width = w
		}
		height += ch.Height + ChildGap
	}
	for gi := range c.Branches {
		gw, gh := measureGroup(&c.Branches[gi])
		if w := gw + 2*ContainerPadding; w > width {
			width = w
		}
		height += gh + ChildGap
	}
	height += ContainerPadding

	if c.Kind == KindWorkflowGroup {
		if width < WorkflowMinWidth {
			width = WorkflowMinWidth
		}
		height += WorkflowExtraHeight
	}
	if height < ContainerMinHeight {
		height = ContainerMinHeight
	}

	c.Width = width
	c.Height = height
}

// measureGroup returns the footprint of one parallel group: columns laid
// side by side, so the width is the sum of column widths plus gaps while
// the height is bounded by the tallest column, not the sum of all columns.
func measureGroup(g *BranchGroup) (w, h float64) {
	for i, col := range g.Columns {
		var colW, colH float64
		for j, ch := range col {
			if ch.Width > colW {
				colW = ch.Width
			}
			if j > 0 {
				colH += ChildGap
			}
			colH += ch.Height
		}
		if i > 0 {
			w += BranchGap
		}
		w += colW
		if colH > h {
			h = colH
		}
	}
	return w, h
}

// stopWidth estimates the rendered width of a stop from its label length.
func stopWidth(s *Stop) float64 {
	w := StopCharWidth*float64(len([]rune(s.Label))) + StopLabelPad
	if w < StopMinWidth {
		w = StopMinWidth
	}
	return w
}
