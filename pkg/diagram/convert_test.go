package diagram

import (
	"encoding/json"
	"path/filepath"
	"testing"

	"github.com/tracemetro/tracemetro/pkg/metro"
	"github.com/tracemetro/tracemetro/pkg/trace"
)

func delegationSteps() []trace.Step {
	return []trace.Step{
		{Type: trace.StepUserRequest, TaskID: "t1", Target: "orchestrator", Message: "go"},
		{Type: trace.StepAgentLLMCall, TaskID: "t1", Model: "gpt-4o"},
		{Type: trace.StepToolInvocationStart, TaskID: "t1", ToolName: "transfer_to_researcher", IsPeer: true, SubTaskID: "t2", Target: "researcher"},
		{Type: trace.StepToolExecutionResult, TaskID: "t2", IsPeerResponse: true},
		{Type: trace.StepAgentResponseText, TaskID: "t1", Message: "done"},
	}
}

func TestExport(t *testing.T) {
	ml := metro.BuildLayout(delegationSteps(), trace.Names{"orchestrator": "Orchestrator"})
	l := Export(ml)

	if got := len(l.Containers); got != len(ml.Roots) {
		t.Fatalf("containers = %d, want %d", got, len(ml.Roots))
	}
	if got := len(l.Stops); got != len(ml.Stops) {
		t.Fatalf("stops = %d, want %d", got, len(ml.Stops))
	}
	if l.Width != ml.Width || l.Height != ml.Height {
		t.Errorf("canvas = %v×%v, want %v×%v", l.Width, l.Height, ml.Width, ml.Height)
	}
	if l.LaneCount != ml.LaneCount {
		t.Errorf("lane count = %d, want %d", l.LaneCount, ml.LaneCount)
	}

	// Containers reference their stops by id; every reference must resolve
	// against the flat stop list.
	byID := make(map[string]bool, len(l.Stops))
	for _, s := range l.Stops {
		byID[s.ID] = true
	}
	var check func(cs []Container)
	check = func(cs []Container) {
		for _, c := range cs {
			for _, id := range c.StopIDs {
				if !byID[id] {
					t.Errorf("container %s references unknown stop %s", c.ID, id)
				}
			}
			check(c.Children)
			for _, g := range c.Branches {
				for _, col := range g.Columns {
					check(col)
				}
			}
		}
	}
	check(l.Containers)

	// The nested child survives conversion.
	if got := len(l.Containers[0].Children); got != 1 {
		t.Errorf("root children = %d, want 1", got)
	}
}

func TestLayoutRoundTrip(t *testing.T) {
	ml := metro.BuildLayout(delegationSteps(), nil)
	l := Export(ml)

	data, err := MarshalLayout(l)
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	got, err := UnmarshalLayout(data)
	if err != nil {
		t.Fatalf("UnmarshalLayout: %v", err)
	}

	if len(got.Containers) != len(l.Containers) || len(got.Stops) != len(l.Stops) {
		t.Errorf("round trip changed shape counts")
	}
	if len(got.Tracks) != len(l.Tracks) || len(got.Branches) != len(l.Branches) {
		t.Errorf("round trip changed track/branch counts")
	}
	if got.Width != l.Width || got.Height != l.Height {
		t.Errorf("round trip changed canvas size")
	}
}

func TestLayoutFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.layout.json")
	l := Export(metro.BuildLayout(delegationSteps(), nil))

	if err := WriteLayoutFile(l, path); err != nil {
		t.Fatalf("WriteLayoutFile: %v", err)
	}
	got, err := ReadLayoutFile(path)
	if err != nil {
		t.Fatalf("ReadLayoutFile: %v", err)
	}
	if len(got.Stops) != len(l.Stops) {
		t.Errorf("stops = %d, want %d", len(got.Stops), len(l.Stops))
	}
}

func TestUnmarshalLayoutInvalid(t *testing.T) {
	if _, err := UnmarshalLayout([]byte("nope")); err == nil {
		t.Error("UnmarshalLayout accepted malformed JSON")
	}
}

func TestExportDeterministicJSON(t *testing.T) {
	steps := delegationSteps()
	a, err := MarshalLayout(Export(metro.BuildLayout(steps, nil)))
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	b, err := MarshalLayout(Export(metro.BuildLayout(steps, nil)))
	if err != nil {
		t.Fatalf("MarshalLayout: %v", err)
	}
	if string(a) != string(b) {
		t.Error("identical traces produced different serialized layouts")
	}
	if !json.Valid(a) {
		t.Error("serialized layout is not valid JSON")
	}
}
