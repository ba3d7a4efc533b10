package metro

// Geometry constants for measurement and positioning.
// All values are in user units (typically pixels for the renderer).
const (
	// StopHeight is the vertical band allocated to every stop.
	StopHeight = 36.0

	// StopMinWidth is the minimum horizontal extent of a stop.
	StopMinWidth = 120.0

	// StopGap is the vertical spacing between consecutive stops.
	StopGap = 12.0

	// StopCharWidth approximates the rendered width of one label character.
	StopCharWidth = 7.2

	// StopLabelPad is the horizontal padding around a stop label.
	StopLabelPad = 24.0

	// ContainerPadding is the inner padding on every container side.
	ContainerPadding = 16.0

	// ContainerHeader is the height reserved for a container's title row.
	ContainerHeader = 28.0

	// ContainerMinWidth and ContainerMinHeight bound empty containers.
	ContainerMinWidth  = 180.0
	ContainerMinHeight = 64.0

	// ChildGap is the vertical spacing between stacked child containers
	// (and between the stop block and the first child).
	ChildGap = 16.0

	// BranchGap is the horizontal spacing between parallel branch columns.
	BranchGap = 24.0

	// WorkflowMinWidth widens workflow groups beyond the generic minimum.
	WorkflowMinWidth = 220.0

	// WorkflowExtraHeight is the fixed padding added to workflow groups
	// after the generic measurement.
	WorkflowExtraHeight = 8.0

	// RootGap is the vertical spacing between stacked root containers.
	RootGap = 40.0

	// CanvasMargin is the outer margin on every canvas side.
	CanvasMargin = 24.0
)

// maxLabelRunes truncates stop and container labels for measurement and
// display. Longer text is cut with an ellipsis.
const maxLabelRunes = 40
