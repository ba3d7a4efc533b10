package diagram

import (
	"encoding/json"
	"fmt"
	"os"
)

// Layout is the serialized form of a computed metro layout.
//
// Stops are flat: every stop in the diagram appears here exactly once, with
// absolute coordinates. Containers are nested and reference their stops by
// id, mirroring the visual hierarchy without duplicating stop data.
type Layout struct {
	Containers []Container `json:"containers" bson:"containers"`
	Stops      []Stop      `json:"stops" bson:"stops"`
	Tracks     []Track     `json:"tracks,omitempty" bson:"tracks,omitempty"`
	Branches   []Branch    `json:"branches,omitempty" bson:"branches,omitempty"`
	Lanes      []Lane      `json:"lanes,omitempty" bson:"lanes,omitempty"`
	LaneCount  int         `json:"lane_count" bson:"lane_count"`
	Width      float64     `json:"width" bson:"width"`
	Height     float64     `json:"height" bson:"height"`
}

// Stop is a positioned leaf element.
type Stop struct {
	ID     string  `json:"id" bson:"id"`
	Kind   string  `json:"kind" bson:"kind"`
	Label  string  `json:"label,omitempty" bson:"label,omitempty"`
	StepID string  `json:"step_id,omitempty" bson:"step_id,omitempty"`
	Lane   int     `json:"lane" bson:"lane"`
	Color  string  `json:"color,omitempty" bson:"color,omitempty"`
	Status string  `json:"status,omitempty" bson:"status,omitempty"`
	Y      float64 `json:"y" bson:"y"`

	Condition       string `json:"condition,omitempty" bson:"condition,omitempty"`
	ConditionResult bool   `json:"condition_result,omitempty" bson:"condition_result,omitempty"`
}

// Container is a positioned composite element. Children nest to arbitrary
// depth; Branches holds parallel branch groups as columns of containers.
type Container struct {
	ID           string        `json:"id" bson:"id"`
	Kind         string        `json:"kind" bson:"kind"`
	Label        string        `json:"label,omitempty" bson:"label,omitempty"`
	StepID       string        `json:"step_id,omitempty" bson:"step_id,omitempty"`
	Lane         int           `json:"lane" bson:"lane"`
	Color        string        `json:"color,omitempty" bson:"color,omitempty"`
	WorkflowName string        `json:"workflow_name,omitempty" bson:"workflow_name,omitempty"`
	StopIDs      []string      `json:"stop_ids,omitempty" bson:"stop_ids,omitempty"`
	Children     []Container   `json:"children,omitempty" bson:"children,omitempty"`
	Branches     []BranchGroup `json:"branch_groups,omitempty" bson:"branch_groups,omitempty"`

	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// BranchGroup is one parallel section: side-by-side columns of containers.
type BranchGroup struct {
	ID      string        `json:"id,omitempty" bson:"id,omitempty"`
	Columns [][]Container `json:"columns" bson:"columns"`
}

// Track is a connector between two consecutive stops on a lane.
type Track struct {
	FromY    float64 `json:"from_y" bson:"from_y"`
	ToY      float64 `json:"to_y" bson:"to_y"`
	FromLane int     `json:"from_lane" bson:"from_lane"`
	ToLane   int     `json:"to_lane" bson:"to_lane"`
	Color    string  `json:"color,omitempty" bson:"color,omitempty"`
	Style    string  `json:"style,omitempty" bson:"style,omitempty"`
	StepID   string  `json:"step_id,omitempty" bson:"step_id,omitempty"`
}

// Branch is a fork or join marker between lanes.
type Branch struct {
	Kind     string  `json:"kind" bson:"kind"`
	FromLane int     `json:"from_lane" bson:"from_lane"`
	ToLanes  []int   `json:"to_lanes" bson:"to_lanes"`
	Y        float64 `json:"y" bson:"y"`
	Color    string  `json:"color,omitempty" bson:"color,omitempty"`
}

// Lane records the final state of one execution lane.
type Lane struct {
	Index  int    `json:"index" bson:"index"`
	Active bool   `json:"active" bson:"active"`
	TaskID string `json:"task_id,omitempty" bson:"task_id,omitempty"`
	Color  string `json:"color,omitempty" bson:"color,omitempty"`
}

// MarshalLayout serializes a Layout to pretty-printed JSON bytes.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// UnmarshalLayout deserializes JSON bytes into a Layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	return l, nil
}

// WriteLayoutFile writes a Layout to a JSON file.
func WriteLayoutFile(l Layout, path string) error {
	data, err := MarshalLayout(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadLayoutFile reads a Layout from a JSON file.
func ReadLayoutFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return UnmarshalLayout(data)
}
