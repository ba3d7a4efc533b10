package metro

// StopKind classifies leaf diagram nodes.
type StopKind string

// Stop kinds.
const (
	StopUser        StopKind = "user"
	StopAgent       StopKind = "agent"
	StopTool        StopKind = "tool"
	StopLLM         StopKind = "llm"
	StopConditional StopKind = "conditional"
)

// Status tracks the execution state a stop had when the trace was captured.
type Status string

// Stop statuses.
const (
	StatusIdle       Status = "idle"
	StatusInProgress Status = "in-progress"
	StatusCompleted  Status = "completed"
	StatusError      Status = "error"
)

// ContainerKind classifies composite diagram nodes.
type ContainerKind string

// Container kinds.
const (
	KindAgent         ContainerKind = "agent"
	KindWorkflowGroup ContainerKind = "workflow-group"
)

// TrackStyle selects the stroke style of a track segment.
type TrackStyle string

// Track styles.
const (
	TrackSolid  TrackStyle = "solid"
	TrackDashed TrackStyle = "dashed"
)

// BranchKind distinguishes lane splits from lane merges.
type BranchKind string

// Branch kinds.
const (
	BranchFork BranchKind = "fork"
	BranchJoin BranchKind = "join"
)

// Stop is a leaf visual unit: one execution event pinned to a lane.
// Y is assigned during the position pass; all other fields are final once
// the interpret pass created the stop.
type Stop struct {
	ID     string
	Kind   StopKind
	Label  string
	StepID string
	Lane   int
	Color  string
	Status Status
	Y      float64

	// Condition carries the branch expression for conditional stops;
	// ConditionResult its evaluated outcome.
	Condition       string
	ConditionResult bool
}

// Container is a composite visual unit: an agent invocation or a workflow
// group. It holds ordered stops, nested child containers and optional
// parallel branch groups, and nests to unbounded depth.
//
// Width and Height are computed bottom-up by the measure pass; X and Y are
// assigned top-down by the position pass, strictly after the parent's
// position is known.
type Container struct {
	ID     string
	Kind   ContainerKind
	Label  string
	StepID string
	Lane   int
	Color  string

	// WorkflowName is set for workflow-group containers.
	WorkflowName string

	Stops    []*Stop
	Children []*Container
	// Branches holds parallel branch groups: each group is a set of
	// columns of containers that ran concurrently.
	Branches []BranchGroup

	X, Y          float64
	Width, Height float64
}

// BranchGroup is one parallel section of a workflow: a list of columns,
// each column an ordered stack of containers.
type BranchGroup struct {
	ID      string
	Columns [][]*Container
}

// Lane is a reusable execution track. At most one task occupies a lane at a
// time; a released lane keeps its index and becomes eligible for reuse.
type Lane struct {
	Index  int
	Active bool
	TaskID string
	TipID  string
	Color  string
}

// TrackSegment connects two consecutive stops on a lane. FromLane and
// ToLane differ only for cross-lane connectors.
type TrackSegment struct {
	FromY    float64
	ToY      float64
	FromLane int
	ToLane   int
	Color    string
	Style    TrackStyle
	// StepID is the originating step of the destination stop, kept for
	// highlight/selection correlation in the consumer.
	StepID string
}

// BranchPoint marks where a lane splits into (fork) or merges from (join)
// one or more other lanes.
type BranchPoint struct {
	Kind     BranchKind
	FromLane int
	ToLanes  []int
	Y        float64
	Color    string
}

// Layout is the final engine output: every coordinate is absolute and
// final, ready for direct rendering with no further layout computation.
type Layout struct {
	Roots    []*Container
	Stops    []*Stop
	Tracks   []TrackSegment
	Branches []BranchPoint
	Lanes    []Lane
	// LaneCount is the peak number of lanes ever allocated.
	LaneCount int
	Width     float64
	Height    float64
}
