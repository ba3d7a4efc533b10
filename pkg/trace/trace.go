// Package trace defines the step-record input contract of the layout engine.
//
// A trace is an ordered array of step records produced by the agent runtime:
// user requests, LLM calls, tool invocations, peer delegations, workflow
// executions and their nodes. The engine consumes the array exactly once, in
// order, and tolerates partial traces (a snapshot taken mid-execution is a
// valid input).
//
// The wire format is a JSON document:
//
//	{
//	  "steps": [
//	    {"type": "USER_REQUEST", "task_id": "t1", "target": "orchestrator"},
//	    {"type": "AGENT_RESPONSE_TEXT", "task_id": "t1", "nesting_level": 0}
//	  ],
//	  "agent_names": {"orchestrator": "Orchestrator"}
//	}
package trace

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// Document is the serialized trace: the ordered step stream plus the
// display-name table for agent identifiers.
type Document struct {
	Steps      []Step `json:"steps" bson:"steps"`
	AgentNames Names  `json:"agent_names,omitempty" bson:"agent_names,omitempty"`
}

// MarshalDocument serializes a trace document to pretty-printed JSON bytes.
func MarshalDocument(d Document) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return nil, fmt.Errorf("encode trace: %w", err)
	}
	return buf.Bytes(), nil
}

// ReadDocument decodes a trace document from an io.Reader.
func ReadDocument(r io.Reader) (Document, error) {
	var d Document
	if err := json.NewDecoder(r).Decode(&d); err != nil {
		return Document{}, fmt.Errorf("decode trace: %w", err)
	}
	return d, nil
}

// UnmarshalDocument decodes a trace document from JSON bytes.
func UnmarshalDocument(data []byte) (Document, error) {
	return ReadDocument(bytes.NewReader(data))
}

// ReadDocumentFile reads a trace document from a JSON file.
func ReadDocumentFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadDocument(f)
}

// WriteDocumentFile writes a trace document to a JSON file.
// The file is created with 0644 permissions.
func WriteDocumentFile(d Document, path string) error {
	data, err := MarshalDocument(d)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
