package metro

import (
	"fmt"
	"strings"

	"github.com/tracemetro/tracemetro/pkg/trace"
)

// Tool-name conventions used to classify tool invocations when the payload
// flags are absent. Delegation tools carry the peer prefix; workflow-internal
// tools are skipped entirely because the workflow events cover them.
const (
	peerToolPrefix     = "transfer_to_"
	workflowToolPrefix = "workflow_"
)

// anchoredStop ties a flat user stop to the root container it brackets: the
// opening request sits above the container, the closing response below it.
// Their Y coordinates resolve during the position pass.
type anchoredStop struct {
	stop    *Stop
	owner   *Container
	closing bool
}

// branchRef records a lane split or merge observed during the fold. The
// vertical position resolves in the track pass, once the referenced
// container has been placed.
type branchRef struct {
	kind     BranchKind
	fromLane int
	toLane   int
	at       *Container
	color    string
}

// builder is the mutable build context threaded through one fold over the
// step stream. It is constructed fresh per BuildLayout call and discarded
// once the layout is returned.
type builder struct {
	names trace.Names
	lanes *LaneAllocator

	roots      []*Container
	stops      []*Stop
	anchors    []anchoredStop
	branchRefs []branchRef

	ownerByTask   map[string]*Container // task id -> owning container
	ownerByExec   map[string]*Container // execution id -> workflow group
	currentByExec map[string]*Container // execution id -> node target
	parentOf      map[*Container]*Container
	groupIndex    map[string]int // container id + group id -> Branches index

	wfColors *paletteCycle
	seq      int
	stepSeq  int
}

func newBuilder(names trace.Names) *builder {
	return &builder{
		names:         names,
		lanes:         NewLaneAllocator(),
		ownerByTask:   make(map[string]*Container),
		ownerByExec:   make(map[string]*Container),
		currentByExec: make(map[string]*Container),
		parentOf:      make(map[*Container]*Container),
		groupIndex:    make(map[string]int),
		wfColors:      newPaletteCycle(),
	}
}

// apply folds one step into the build context. Every lookup is soft: steps
// referencing unknown tasks, lanes or containers are skipped so that
// partial traces still yield a usable layout.
func (b *builder) apply(s trace.Step) {
	b.stepSeq++

	switch s.Type {
	case trace.StepUserRequest:
		b.userRequest(s)
	case trace.StepAgentLLMCall:
		b.llmCall(s)
	case trace.StepToolInvocationStart:
		b.toolStart(s)
	case trace.StepToolExecutionResult:
		b.toolResult(s)
	case trace.StepAgentResponseText:
		b.responseText(s)
	case trace.StepWorkflowExecutionStart:
		b.workflowStart(s)
	case trace.StepWorkflowNodeExecutionStart:
		b.workflowNode(s)
	case trace.StepWorkflowExecutionResult:
		b.workflowResult(s)
	case trace.StepTaskCompleted:
		b.lanes.Release(s.TaskID)
	default:
		// Unrecognized step kinds from newer producers are ignored.
	}
}

// userRequest opens a task: a user stop on a fresh (or reused) lane and a
// root agent container owning the task.
func (b *builder) userRequest(s trace.Step) {
	lane := b.lanes.Acquire(s.TaskID, "")
	color := b.lanes.Color(lane)

	stop := b.newStop(StopUser, labelOr(s.Message, "Request"), s, lane, color, StatusCompleted)
	b.stops = append(b.stops, stop)

	label := b.names.Resolve(s.Target)
	if label == "" {
		label = "Agent"
	}
	c := b.newContainer(KindAgent, label, s, lane, color)
	b.roots = append(b.roots, c)
	b.ownerByTask[s.TaskID] = c
	b.anchors = append(b.anchors, anchoredStop{stop: stop, owner: c})
	b.lanes.SetTip(s.TaskID, c.ID)
}

func (b *builder) llmCall(s trace.Step) {
	c := b.ownerByTask[s.TaskID]
	if c == nil {
		return
	}
	stop := b.newStop(StopLLM, labelOr(s.Model, "LLM call"), s, c.Lane, c.Color, StatusInProgress)
	c.Stops = append(c.Stops, stop)
	b.stops = append(b.stops, stop)
	b.lanes.SetTip(s.TaskID, stop.ID)
}

// toolStart handles both peer delegations (nested agent container on its
// own lane) and regular tool calls (a tool stop on the parent's lane).
func (b *builder) toolStart(s trace.Step) {
	if strings.HasPrefix(s.ToolName, workflowToolPrefix) {
		// Workflow launches surface as WORKFLOW_EXECUTION_START instead.
		return
	}
	parent := b.ownerByTask[s.TaskID]
	if parent == nil {
		return
	}

	if s.IsPeer || strings.HasPrefix(s.ToolName, peerToolPrefix) {
		sub := s.SubTaskID
		if sub == "" {
			sub = s.TaskID
		}
		lane := b.lanes.Acquire(sub, parent.Color)

		target := s.Target
		if target == "" {
			target = strings.TrimPrefix(s.ToolName, peerToolPrefix)
		}
		child := b.newContainer(KindAgent, b.names.Resolve(target), s, lane, b.lanes.Color(lane))
		parent.Children = append(parent.Children, child)
		b.parentOf[child] = parent
		b.ownerByTask[sub] = child
		b.lanes.SetTip(sub, child.ID)

		if lane != parent.Lane {
			b.branchRefs = append(b.branchRefs, branchRef{
				kind: BranchFork, fromLane: parent.Lane, toLane: lane, at: child, color: child.Color,
			})
		}
		return
	}

	stop := b.newStop(StopTool, labelOr(s.ToolName, "Tool call"), s, parent.Lane, parent.Color, StatusInProgress)
	parent.Stops = append(parent.Stops, stop)
	b.stops = append(b.stops, stop)
	b.lanes.SetTip(s.TaskID, stop.ID)
}

// toolResult closes a tool call. Peer responses merge the sub-task's lane
// back into the parent's; regular results complete the pending tool stop.
func (b *builder) toolResult(s trace.Step) {
	if s.IsPeerResponse {
		child := b.ownerByTask[s.TaskID]
		if lane, ok := b.lanes.Lane(s.TaskID); ok && child != nil {
			if parent := b.parentOf[child]; parent != nil && parent.Lane != lane {
				b.branchRefs = append(b.branchRefs, branchRef{
					kind: BranchJoin, fromLane: lane, toLane: parent.Lane, at: child, color: child.Color,
				})
			}
		}
		b.lanes.Release(s.TaskID)
		return
	}

	c := b.ownerByTask[s.TaskID]
	if c == nil {
		return
	}
	for i := len(c.Stops) - 1; i >= 0; i-- {
		if st := c.Stops[i]; st.Kind == StopTool && st.Status == StatusInProgress {
			st.Status = StatusCompleted
			break
		}
	}
}

// responseText closes the user turn. Only a top-level response (nesting
// level zero) emits the closing user stop and frees the task's lane.
func (b *builder) responseText(s trace.Step) {
	if s.NestingLevel != 0 {
		return
	}
	if c := b.ownerByTask[s.TaskID]; c != nil {
		if lane, ok := b.lanes.Lane(s.TaskID); ok {
			stop := b.newStop(StopUser, labelOr(s.Message, "Response"), s, lane, b.lanes.Color(lane), StatusCompleted)
			b.stops = append(b.stops, stop)
			b.anchors = append(b.anchors, anchoredStop{stop: stop, owner: b.rootOf(c), closing: true})
		}
	}
	b.lanes.Release(s.TaskID)
}

// workflowStart opens a workflow execution on its own lane with a palette
// color memoized per execution id.
func (b *builder) workflowStart(s trace.Step) {
	color := b.wfColors.colorFor(s.ExecutionID)
	lane := b.lanes.Acquire(s.ExecutionID, color)

	wg := b.newContainer(KindWorkflowGroup, labelOr(s.WorkflowName, "Workflow"), s, lane, b.lanes.Color(lane))
	wg.WorkflowName = s.WorkflowName

	if parent := b.ownerByTask[s.TaskID]; parent != nil {
		parent.Children = append(parent.Children, wg)
		b.parentOf[wg] = parent
		if parent.Lane != lane {
			b.branchRefs = append(b.branchRefs, branchRef{
				kind: BranchFork, fromLane: parent.Lane, toLane: lane, at: wg, color: wg.Color,
			})
		}
	} else {
		b.roots = append(b.roots, wg)
	}

	b.ownerByExec[s.ExecutionID] = wg
	b.currentByExec[s.ExecutionID] = wg
	b.lanes.SetTip(s.ExecutionID, wg.ID)
}

// workflowNode routes one node start into the owning workflow group:
// agent nodes become nested containers (parallel ones into branch columns),
// conditional nodes become conditional stops, everything else a generic stop.
func (b *builder) workflowNode(s trace.Step) {
	wg := b.currentByExec[s.ExecutionID]
	if wg == nil {
		return
	}

	switch s.NodeType {
	case trace.NodeTypeAgent:
		label := b.names.Resolve(s.NodeAgent)
		if label == "" {
			label = labelOr(s.NodeID, "Agent")
		}
		child := b.newContainer(KindAgent, label, s, wg.Lane, wg.Color)
		if s.ParallelGroup != "" {
			b.addBranchNode(wg, s.ParallelGroup, s.Branch, child)
		} else {
			wg.Children = append(wg.Children, child)
		}
		b.parentOf[child] = wg
		if s.SubTaskID != "" {
			// Later task events (LLM calls, tool calls) route into this node.
			b.ownerByTask[s.SubTaskID] = child
		}

	case trace.NodeTypeConditional:
		stop := b.newStop(StopConditional, labelOr(s.NodeID, "Condition"), s, wg.Lane, wg.Color, StatusCompleted)
		stop.Condition = s.Condition
		stop.ConditionResult = s.ConditionResult
		wg.Stops = append(wg.Stops, stop)
		b.stops = append(b.stops, stop)

	default:
		stop := b.newStop(StopAgent, labelOr(s.NodeID, s.NodeType), s, wg.Lane, wg.Color, StatusCompleted)
		wg.Stops = append(wg.Stops, stop)
		b.stops = append(b.stops, stop)
	}
	b.lanes.SetTip(s.ExecutionID, wg.ID)
}

// workflowResult merges the execution's lane back into the lane it was
// invoked from. The lane closes even if node starts are still outstanding.
func (b *builder) workflowResult(s trace.Step) {
	wg := b.ownerByExec[s.ExecutionID]
	if lane, ok := b.lanes.Lane(s.ExecutionID); ok && wg != nil {
		if parent := b.parentOf[wg]; parent != nil && parent.Lane != lane {
			b.branchRefs = append(b.branchRefs, branchRef{
				kind: BranchJoin, fromLane: lane, toLane: parent.Lane, at: wg, color: wg.Color,
			})
		}
	}
	b.lanes.Release(s.ExecutionID)
}

// addBranchNode appends child to the given parallel group, creating the
// group and any missing columns on demand.
func (b *builder) addBranchNode(wg *Container, group string, column int, child *Container) {
	key := wg.ID + "\x00" + group
	gi, ok := b.groupIndex[key]
	if !ok {
		gi = len(wg.Branches)
		wg.Branches = append(wg.Branches, BranchGroup{ID: group})
		b.groupIndex[key] = gi
	}
	g := &wg.Branches[gi]
	if column < 0 {
		column = 0
	}
	for len(g.Columns) <= column {
		g.Columns = append(g.Columns, nil)
	}
	g.Columns[column] = append(g.Columns[column], child)
}

func (b *builder) newStop(kind StopKind, label string, s trace.Step, lane int, color string, status Status) *Stop {
	b.seq++
	return &Stop{
		ID:     fmt.Sprintf("stop-%d", b.seq),
		Kind:   kind,
		Label:  truncateLabel(label),
		StepID: b.stepID(s),
		Lane:   lane,
		Color:  color,
		Status: status,
	}
}

func (b *builder) newContainer(kind ContainerKind, label string, s trace.Step, lane int, color string) *Container {
	b.seq++
	return &Container{
		ID:     fmt.Sprintf("container-%d", b.seq),
		Kind:   kind,
		Label:  truncateLabel(label),
		StepID: b.stepID(s),
		Lane:   lane,
		Color:  color,
	}
}

// stepID returns the step's own id, or a positional fallback so stops stay
// correlatable even when the producer omits ids.
func (b *builder) stepID(s trace.Step) string {
	if s.ID != "" {
		return s.ID
	}
	return fmt.Sprintf("step-%d", b.stepSeq)
}

// rootOf walks up to the top-level container holding c.
func (b *builder) rootOf(c *Container) *Container {
	for {
		p := b.parentOf[c]
		if p == nil {
			return c
		}
		c = p
	}
}

func labelOr(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}

func truncateLabel(s string) string {
	r := []rune(s)
	if len(r) <= maxLabelRunes {
		return s
	}
	return string(r[:maxLabelRunes-1]) + "…"
}
