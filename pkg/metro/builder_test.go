package metro

import (
	"testing"

	"github.com/tracemetro/tracemetro/pkg/trace"
)

// simpleTrace is a single request/response turn with no tool activity.
func simpleTrace() []trace.Step {
	return []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "orchestrator", Message: "Plan a trip"},
		{Type: trace.StepAgentResponseText, TaskID: "t1", Message: "Here is the plan"},
		{Type: trace.StepTaskCompleted, TaskID: "t1"},
	}
}

// delegationTrace is a turn where the root agent hands off to a peer and the
// peer's result merges back.
func delegationTrace() []trace.Step {
	return []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "orchestrator", Message: "Research X"},
		{Type: trace.StepAgentLLMCall, TaskID: "t1", Model: "gpt-4o"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "transfer_to_researcher", IsPeer: true, SubTaskID: "t2", Target: "researcher"},
		{Type: trace.StepAgentLLMCall, TaskID: "t2", Model: "gpt-4o-mini"},
		{Type: trace.StepToolExecutionResult, TaskID: "t2", IsPeerResponse: true},
		{Type: trace.StepAgentResponseText, TaskID: "t1", Message: "Done"},
		{Type: trace.StepTaskCompleted, TaskID: "t1"},
	}
}

func TestBuildLayoutSimple(t *testing.T) {
	names := trace.Names{"orchestrator": "Orchestrator"}
	l := BuildLayout(simpleTrace(), names)

	if got := len(l.Roots); got != 1 {
		t.Fatalf("roots = %d, want 1", got)
	}
	root := l.Roots[0]
	if root.Label != "Orchestrator" {
		t.Errorf("root label = %q, want Orchestrator", root.Label)
	}
	if root.Kind != KindAgent {
		t.Errorf("root kind = %q, want %q", root.Kind, KindAgent)
	}
	if got := len(root.Stops); got != 0 {
		t.Errorf("container stops = %d, want 0", got)
	}

	// The request and response are flat user stops, not container content.
	if got := len(l.Stops); got != 2 {
		t.Fatalf("flat stops = %d, want 2", got)
	}
	for _, s := range l.Stops {
		if s.Kind != StopUser {
			t.Errorf("stop %s kind = %q, want %q", s.ID, s.Kind, StopUser)
		}
		if s.Lane != 0 {
			t.Errorf("stop %s lane = %d, want 0", s.ID, s.Lane)
		}
	}

	// Both stops share a lane, so exactly one track connects them.
	if got := len(l.Tracks); got != 1 {
		t.Errorf("tracks = %d, want 1", got)
	}
	if got := l.LaneCount; got != 1 {
		t.Errorf("lane count = %d, want 1", got)
	}
	for _, lane := range l.Lanes {
		if lane.Active {
			t.Errorf("lane %d still active after the turn closed", lane.Index)
		}
	}
}

func TestBuildLayoutDelegation(t *testing.T) {
	names := trace.Names{"orchestrator": "Orchestrator", "researcher": "Researcher"}
	l := BuildLayout(delegationTrace(), names)

	if got := len(l.Roots); got != 1 {
		t.Fatalf("roots = %d, want 1", got)
	}
	root := l.Roots[0]
	if got := len(root.Children); got != 1 {
		t.Fatalf("root children = %d, want 1", got)
	}
	child := root.Children[0]
	if child.Label != "Researcher" {
		t.Errorf("child label = %q, want Researcher", child.Label)
	}
	if child.Lane == root.Lane {
		t.Error("peer delegation must run on its own lane")
	}

	// The peer inherits the parent's lane color.
	if child.Color != root.Color {
		t.Errorf("child color = %q, want parent color %q", child.Color, root.Color)
	}

	if got := l.LaneCount; got != 2 {
		t.Errorf("lane count = %d, want 2", got)
	}
	for _, lane := range l.Lanes {
		if lane.Active {
			t.Errorf("lane %d still active after the turn closed", lane.Index)
		}
	}

	// One fork where the delegation splits off, one join where it merges.
	var forks, joins int
	for _, bp := range l.Branches {
		switch bp.Kind {
		case BranchFork:
			forks++
			if bp.Y != child.Y {
				t.Errorf("fork y = %v, want child top %v", bp.Y, child.Y)
			}
		case BranchJoin:
			joins++
			if bp.Y != child.Y+child.Height {
				t.Errorf("join y = %v, want child bottom %v", bp.Y, child.Y+child.Height)
			}
		}
	}
	if forks != 1 || joins != 1 {
		t.Errorf("forks/joins = %d/%d, want 1/1", forks, joins)
	}
}

func TestBuildLayoutPeerPrefixFallback(t *testing.T) {
	// Without the is_peer flag, the transfer_to_ prefix still marks a
	// delegation, and the tool name supplies the target.
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "orchestrator"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "transfer_to_coder", SubTaskID: "t2"},
	}
	l := BuildLayout(steps, trace.Names{"coder": "Coder"})

	root := l.Roots[0]
	if got := len(root.Children); got != 1 {
		t.Fatalf("root children = %d, want 1", got)
	}
	if got := root.Children[0].Label; got != "Coder" {
		t.Errorf("child label = %q, want Coder", got)
	}
}

func TestBuildLayoutToolCall(t *testing.T) {
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "a"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "web_search"},
		{Type: trace.StepToolExecutionResult, TaskID: "t1", ToolName: "web_search"},
	}
	l := BuildLayout(steps, nil)

	root := l.Roots[0]
	if got := len(root.Stops); got != 1 {
		t.Fatalf("container stops = %d, want 1", got)
	}
	s := root.Stops[0]
	if s.Kind != StopTool || s.Label != "web_search" {
		t.Errorf("tool stop = %q/%q", s.Kind, s.Label)
	}
	if s.Status != StatusCompleted {
		t.Errorf("tool stop status = %q, want completed after result", s.Status)
	}
	if s.Lane != root.Lane {
		t.Errorf("tool stop lane = %d, want parent lane %d", s.Lane, root.Lane)
	}
}

func TestBuildLayoutToolResultMatchesLatest(t *testing.T) {
	// Two overlapping tool calls: the result completes the most recent
	// in-progress stop.
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "a"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "first"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "second"},
		{Type: trace.StepToolExecutionResult, TaskID: "t1"},
	}
	l := BuildLayout(steps, nil)

	stops := l.Roots[0].Stops
	if got := len(stops); got != 2 {
		t.Fatalf("container stops = %d, want 2", got)
	}
	if stops[0].Status != StatusInProgress {
		t.Errorf("first tool status = %q, want in-progress", stops[0].Status)
	}
	if stops[1].Status != StatusCompleted {
		t.Errorf("second tool status = %q, want completed", stops[1].Status)
	}
}

func TestBuildLayoutWorkflowToolSkipped(t *testing.T) {
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "a"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "workflow_deploy"},
	}
	l := BuildLayout(steps, nil)
	if got := len(l.Roots[0].Stops); got != 0 {
		t.Errorf("container stops = %d, want 0 (workflow tools are skipped)", got)
	}
}

func TestBuildLayoutNestedResponseIgnored(t *testing.T) {
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "a"},
		{Type: trace.StepAgentResponseText, TaskID: "t1", NestingLevel: 1, Message: "partial"},
	}
	l := BuildLayout(steps, nil)

	// Only the opening user stop exists; the nested response neither closes
	// the turn nor frees the lane.
	if got := len(l.Stops); got != 1 {
		t.Errorf("flat stops = %d, want 1", got)
	}
	var active int
	for _, lane := range l.Lanes {
		if lane.Active {
			active++
		}
	}
	if active != 1 {
		t.Errorf("active lanes = %d, want 1", active)
	}
}

func TestBuildLayoutWorkflow(t *testing.T) {
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "orchestrator"},
		{Type: trace.StepWorkflowExecutionStart, TaskID: "t1", ExecutionID: "e1", WorkflowName: "deploy"},
		{Type: trace.StepWorkflowNodeExecutionStart, ExecutionID: "e1", NodeID: "build", NodeType: trace.NodeTypeAgent, NodeAgent: "builder"},
		{Type: trace.StepWorkflowNodeExecutionStart, ExecutionID: "e1", NodeID: "check", NodeType: trace.NodeTypeConditional, Condition: "tests_green", ConditionResult: true},
		{Type: trace.StepWorkflowExecutionResult, ExecutionID: "e1"},
		{Type: trace.StepAgentResponseText, TaskID: "t1", Message: "deployed"},
	}
	l := BuildLayout(steps, trace.Names{"builder": "Builder"})

	root := l.Roots[0]
	if got := len(root.Children); got != 1 {
		t.Fatalf("root children = %d, want 1", got)
	}
	wg := root.Children[0]
	if wg.Kind != KindWorkflowGroup {
		t.Fatalf("child kind = %q, want workflow-group", wg.Kind)
	}
	if wg.WorkflowName != "deploy" {
		t.Errorf("workflow name = %q, want deploy", wg.WorkflowName)
	}

	// Workflow lanes take a palette color, not the parent's.
	if wg.Color == root.Color || wg.Color == "" {
		t.Errorf("workflow color = %q, want a distinct palette color", wg.Color)
	}

	if got := len(wg.Children); got != 1 {
		t.Fatalf("workflow children = %d, want 1 (agent node)", got)
	}
	if got := wg.Children[0].Label; got != "Builder" {
		t.Errorf("node label = %q, want Builder", got)
	}

	if got := len(wg.Stops); got != 1 {
		t.Fatalf("workflow stops = %d, want 1 (conditional)", got)
	}
	cond := wg.Stops[0]
	if cond.Kind != StopConditional || cond.Condition != "tests_green" || !cond.ConditionResult {
		t.Errorf("conditional stop = %+v", cond)
	}

	for _, lane := range l.Lanes {
		if lane.Active {
			t.Errorf("lane %d still active after workflow result and response", lane.Index)
		}
	}
}

func TestBuildLayoutParallelGroups(t *testing.T) {
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "a"},
		{Type: trace.StepWorkflowExecutionStart, TaskID: "t1", ExecutionID: "e1", WorkflowName: "fanout"},
		{Type: trace.StepWorkflowNodeExecutionStart, ExecutionID: "e1", NodeID: "left", NodeType: trace.NodeTypeAgent, ParallelGroup: "g1", Branch: 0},
		{Type: trace.StepWorkflowNodeExecutionStart, ExecutionID: "e1", NodeID: "right", NodeType: trace.NodeTypeAgent, ParallelGroup: "g1", Branch: 1},
		{Type: trace.StepWorkflowNodeExecutionStart, ExecutionID: "e1", NodeID: "left2", NodeType: trace.NodeTypeAgent, ParallelGroup: "g1", Branch: 0},
		{Type: trace.StepWorkflowExecutionResult, ExecutionID: "e1"},
	}
	l := BuildLayout(steps, nil)

	wg := l.Roots[0].Children[0]
	if got := len(wg.Branches); got != 1 {
		t.Fatalf("branch groups = %d, want 1", got)
	}
	g := wg.Branches[0]
	if g.ID != "g1" {
		t.Errorf("group id = %q, want g1", g.ID)
	}
	if got := len(g.Columns); got != 2 {
		t.Fatalf("columns = %d, want 2", got)
	}
	if got := len(g.Columns[0]); got != 2 {
		t.Errorf("column 0 size = %d, want 2", got)
	}
	if got := len(g.Columns[1]); got != 1 {
		t.Errorf("column 1 size = %d, want 1", got)
	}

	// Columns sit side by side, stacked entries top to bottom.
	left, right := g.Columns[0][0], g.Columns[1][0]
	if left.X >= right.X {
		t.Errorf("column x order: left %v, right %v", left.X, right.X)
	}
	if got := g.Columns[0][1].Y; got <= left.Y {
		t.Errorf("stacked node y = %v, want below %v", got, left.Y)
	}
}

func TestBuildLayoutWorkflowColorMemoized(t *testing.T) {
	steps := []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "a"},
		{Type: trace.StepWorkflowExecutionStart, TaskID: "t1", ExecutionID: "e1", WorkflowName: "one"},
		{Type: trace.StepWorkflowExecutionResult, ExecutionID: "e1"},
		{Type: trace.StepWorkflowExecutionStart, TaskID: "t1", ExecutionID: "e2", WorkflowName: "two"},
		{Type: trace.StepWorkflowExecutionResult, ExecutionID: "e2"},
	}
	l := BuildLayout(steps, nil)

	kids := l.Roots[0].Children
	if got := len(kids); got != 2 {
		t.Fatalf("workflow groups = %d, want 2", got)
	}
	if kids[0].Color == kids[1].Color {
		t.Errorf("distinct executions share color %q", kids[0].Color)
	}
}

func TestBuildLayoutMalformedTrace(t *testing.T) {
	tests := []struct {
		name  string
		steps []trace.Step
	}{
		{
			name:  "LLMCallUnknownTask",
			steps: []trace.Step{{Type: trace.StepAgentLLMCall, TaskID: "ghost", Model: "gpt"}},
		},
		{
			name:  "ToolResultUnknownTask",
			steps: []trace.Step{{Type: trace.StepToolExecutionResult, TaskID: "ghost"}},
		},
		{
			name:  "NodeUnknownExecution",
			steps: []trace.Step{{Type: trace.StepWorkflowNodeExecutionStart, ExecutionID: "ghost", NodeID: "n"}},
		},
		{
			name:  "WorkflowResultUnknownExecution",
			steps: []trace.Step{{Type: trace.StepWorkflowExecutionResult, ExecutionID: "ghost"}},
		},
		{
			name:  "UnrecognizedType",
			steps: []trace.Step{{Type: "FUTURE_STEP", TaskID: "t"}},
		},
		{
			name:  "ResponseWithoutRequest",
			steps: []trace.Step{{Type: trace.StepAgentResponseText, TaskID: "ghost", Message: "hi"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := BuildLayout(tt.steps, nil)
			if got := len(l.Roots); got != 0 {
				t.Errorf("roots = %d, want 0", got)
			}
			if got := len(l.Stops); got != 0 {
				t.Errorf("stops = %d, want 0", got)
			}
		})
	}
}

func TestBuildLayoutEmpty(t *testing.T) {
	l := BuildLayout(nil, nil)
	if l.Width != 2*CanvasMargin || l.Height != 2*CanvasMargin {
		t.Errorf("empty canvas = %v×%v, want %v×%v", l.Width, l.Height, 2*CanvasMargin, 2*CanvasMargin)
	}
	if len(l.Roots) != 0 || len(l.Stops) != 0 || len(l.Tracks) != 0 {
		t.Error("empty trace produced shapes")
	}
}
