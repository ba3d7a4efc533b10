package metro

// positionRoots stacks the root containers vertically, each horizontally
// centered within the widest root, with the anchored user stops interleaved
// above and below the container they bracket. Returns the canvas size.
//
// Positioning requires completed measurement of every subtree: the walk is
// pre-order, the inverse of the measure pass.
func positionRoots(roots []*Container, anchors []anchoredStop) (width, height float64) {
	if len(roots) == 0 {
		return 2 * CanvasMargin, 2 * CanvasMargin
	}

	var maxW float64
	for _, r := range roots {
		if r.Width > maxW {
			maxW = r.Width
		}
	}

	opening := make(map[*Container][]*Stop)
	closing := make(map[*Container][]*Stop)
	for _, a := range anchors {
		if a.closing {
			closing[a.owner] = append(closing[a.owner], a.stop)
		} else {
			opening[a.owner] = append(opening[a.owner], a.stop)
		}
	}

	y := float64(CanvasMargin)
	for _, r := range roots {
		for _, s := range opening[r] {
			s.Y = y + StopHeight/2
			y += StopHeight + StopGap
		}

		r.X = CanvasMargin + (maxW-r.Width)/2
		r.Y = y
		place(r)
		y += r.Height

		for _, s := range closing[r] {
			y += StopGap
			s.Y = y + StopHeight/2
			y += StopHeight
		}
		y += RootGap
	}
	y -= RootGap

	return maxW + 2*CanvasMargin, y + CanvasMargin
}

// place assigns absolute coordinates to everything inside c. c's own X and
// Y must already be set: stops stack below the header, child containers
// below the stops, and parallel branch columns last, with following content
// resuming below the tallest column.
func place(c *Container) {
	y := c.Y + ContainerHeader + ContainerPadding

	for _, s := range c.Stops {
		s.Y = y + StopHeight/2
		y += StopHeight + StopGap
	}
	for _, ch := range c.Children {
		ch.X = c.X + (c.Width-ch.Width)/2
		ch.Y = y
		place(ch)
		y += ch.Height + ChildGap
	}
	for gi := range c.Branches {
		y = placeGroup(c, &c.Branches[gi], y) + ChildGap
	}
}

// placeGroup lays the group's columns out left to right starting after the
// container padding, each column stacked independently. Returns the bottom
// edge of the tallest column.
func placeGroup(c *Container, g *BranchGroup, top float64) (bottom float64) {
	x := c.X + ContainerPadding
	bottom = top

	for _, col := range g.Columns {
		var colW float64
		for _, ch := range col {
			if ch.Width > colW {
				colW = ch.Width
			}
		}

		y := top
		for i, ch := range col {
			if i > 0 {
				y += ChildGap
			}
			ch.X = x + (colW-ch.Width)/2
			ch.Y = y
			place(ch)
			y += ch.Height
		}
		if y > bottom {
			bottom = y
		}
		x += colW + BranchGap
	}
	return bottom
}
