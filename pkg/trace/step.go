package trace

// StepType identifies the kind of execution event a step records.
// The set is closed: unrecognized types are ignored by the layout engine
// to stay forward-compatible with producers that emit newer step kinds.
type StepType string

// Step types emitted by the trace producer.
const (
	// StepUserRequest opens a task: the user addressed an agent.
	StepUserRequest StepType = "USER_REQUEST"
	// StepAgentLLMCall records a model invocation by the task's agent.
	StepAgentLLMCall StepType = "AGENT_LLM_CALL"
	// StepToolInvocationStart records a tool call or a peer delegation.
	StepToolInvocationStart StepType = "AGENT_TOOL_INVOCATION_START"
	// StepToolExecutionResult records a tool or peer finishing.
	StepToolExecutionResult StepType = "AGENT_TOOL_EXECUTION_RESULT"
	// StepAgentResponseText records response text streamed back to the user.
	StepAgentResponseText StepType = "AGENT_RESPONSE_TEXT"
	// StepWorkflowExecutionStart opens a workflow execution.
	StepWorkflowExecutionStart StepType = "WORKFLOW_EXECUTION_START"
	// StepWorkflowNodeExecutionStart records one workflow node starting.
	StepWorkflowNodeExecutionStart StepType = "WORKFLOW_NODE_EXECUTION_START"
	// StepWorkflowExecutionResult closes a workflow execution.
	StepWorkflowExecutionResult StepType = "WORKFLOW_EXECUTION_RESULT"
	// StepTaskCompleted closes a task regardless of earlier releases.
	StepTaskCompleted StepType = "TASK_COMPLETED"
)

// Workflow node types recognized by the layout engine. Any other node type
// yields a generic stop.
const (
	NodeTypeAgent       = "agent"
	NodeTypeConditional = "conditional"
)

// Step is one record of the ordered execution trace. Only the fields
// relevant to the step's Type are populated; the rest stay zero.
//
// Steps are consumed strictly in stream order and never mutated.
type Step struct {
	ID   string   `json:"id,omitempty" bson:"id,omitempty"`
	Type StepType `json:"type" bson:"type"`

	// TaskID is the task that owns this step. Always set by well-formed
	// producers; the engine tolerates it missing.
	TaskID string `json:"task_id" bson:"task_id"`
	// ParentTaskID links a sub-task step back to the delegating task.
	ParentTaskID string `json:"parent_task_id,omitempty" bson:"parent_task_id,omitempty"`

	// Target is the internal identifier of the addressed agent
	// (USER_REQUEST) or delegated peer (AGENT_TOOL_INVOCATION_START).
	Target string `json:"target,omitempty" bson:"target,omitempty"`
	// Message is the user-visible text for USER_REQUEST and
	// AGENT_RESPONSE_TEXT steps.
	Message string `json:"message,omitempty" bson:"message,omitempty"`
	// Model is the model name for AGENT_LLM_CALL steps.
	Model string `json:"model,omitempty" bson:"model,omitempty"`
	// NestingLevel is the delegation depth at which a response was
	// produced. Only level zero closes the user turn.
	NestingLevel int `json:"nesting_level,omitempty" bson:"nesting_level,omitempty"`

	// Tool invocation payload.
	ToolName       string `json:"tool_name,omitempty" bson:"tool_name,omitempty"`
	IsPeer         bool   `json:"is_peer,omitempty" bson:"is_peer,omitempty"`
	IsPeerResponse bool   `json:"is_peer_response,omitempty" bson:"is_peer_response,omitempty"`
	SubTaskID      string `json:"sub_task_id,omitempty" bson:"sub_task_id,omitempty"`

	// Workflow payload.
	WorkflowName string `json:"workflow_name,omitempty" bson:"workflow_name,omitempty"`
	ExecutionID  string `json:"execution_id,omitempty" bson:"execution_id,omitempty"`

	// Workflow node payload.
	NodeID          string `json:"node_id,omitempty" bson:"node_id,omitempty"`
	NodeType        string `json:"node_type,omitempty" bson:"node_type,omitempty"`
	NodeAgent       string `json:"node_agent,omitempty" bson:"node_agent,omitempty"`
	Condition       string `json:"condition,omitempty" bson:"condition,omitempty"`
	ConditionResult bool   `json:"condition_result,omitempty" bson:"condition_result,omitempty"`
	// ParallelGroup marks nodes that run as concurrent branches of the
	// same group; Branch is the column index within that group.
	ParallelGroup string `json:"parallel_group,omitempty" bson:"parallel_group,omitempty"`
	Branch        int    `json:"branch,omitempty" bson:"branch,omitempty"`
}

// Names maps internal agent identifiers to display names.
type Names map[string]string

// Resolve returns the display name for id, falling back to the raw
// identifier when no mapping exists.
func (n Names) Resolve(id string) string {
	if name, ok := n[id]; ok && name != "" {
		return name
	}
	return id
}
