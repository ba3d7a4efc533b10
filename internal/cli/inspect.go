package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tracemetro/tracemetro/pkg/trace"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// newInspectCmd creates the inspect command: an interactive browser for the
// raw step stream of a trace file, useful when a layout looks wrong and the
// question is what the producer actually emitted.
func newInspectCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "inspect [trace.json]",
		Short: "Browse the steps of an execution trace interactively",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			doc, err := trace.ReadDocumentFile(args[0])
			if err != nil {
				return fmt.Errorf("load trace %s: %w", args[0], err)
			}
			model := newStepListModel(doc)
			_, err = tea.NewProgram(model).Run()
			return err
		},
	}
}

// =============================================================================
// StepListModel - Interactive step browsing
// =============================================================================

// stepListModel is the bubbletea model for step-stream browsing.
type stepListModel struct {
	steps  []trace.Step
	names  trace.Names
	cursor int
	offset int
	height int
}

func newStepListModel(doc trace.Document) stepListModel {
	return stepListModel{
		steps:  doc.Steps,
		names:  doc.AgentNames,
		height: 15,
	}
}

func (m stepListModel) Init() tea.Cmd {
	return nil
}

func (m stepListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.steps)-1 {
				m.cursor++
			}
		case "g":
			m.cursor = 0
		case "G":
			m.cursor = len(m.steps) - 1
		}

		// Keep the cursor inside the visible window.
		if m.cursor < m.offset {
			m.offset = m.cursor
		}
		if m.cursor >= m.offset+m.height {
			m.offset = m.cursor - m.height + 1
		}
	case tea.WindowSizeMsg:
		if h := msg.Height - 8; h > 3 {
			m.height = h
		}
	}
	return m, nil
}

func (m stepListModel) View() string {
	var b strings.Builder
	b.WriteString(styleTitle.Render(fmt.Sprintf("Trace steps (%d)", len(m.steps))) + "\n\n")

	if len(m.steps) == 0 {
		b.WriteString(listDimStyle.Render("  empty trace") + "\n")
		return b.String()
	}

	end := m.offset + m.height
	if end > len(m.steps) {
		end = len(m.steps)
	}
	for i := m.offset; i < end; i++ {
		line := fmt.Sprintf("%4d  %-32s %s", i+1, m.steps[i].Type, m.stepSummary(m.steps[i]))
		if i == m.cursor {
			b.WriteString(listSelectedStyle.Render("> "+line) + "\n")
		} else {
			b.WriteString(listNormalStyle.Render("  "+line) + "\n")
		}
	}

	b.WriteString("\n" + m.stepDetail(m.steps[m.cursor]))
	b.WriteString(listDimStyle.Render("\n  ↑/↓ move · g/G jump · q quit\n"))
	return b.String()
}

// stepSummary renders the one-line list entry for a step.
func (m stepListModel) stepSummary(s trace.Step) string {
	switch s.Type {
	case trace.StepUserRequest:
		return fmt.Sprintf("%s → %s", s.TaskID, m.names.Resolve(s.Target))
	case trace.StepAgentLLMCall:
		return fmt.Sprintf("%s (%s)", s.TaskID, s.Model)
	case trace.StepToolInvocationStart, trace.StepToolExecutionResult:
		return fmt.Sprintf("%s %s", s.TaskID, s.ToolName)
	case trace.StepWorkflowExecutionStart, trace.StepWorkflowExecutionResult:
		return fmt.Sprintf("%s %s", s.ExecutionID, s.WorkflowName)
	case trace.StepWorkflowNodeExecutionStart:
		return fmt.Sprintf("%s %s/%s", s.ExecutionID, s.NodeType, s.NodeID)
	default:
		return s.TaskID
	}
}

// stepDetail renders the payload of the selected step.
func (m stepListModel) stepDetail(s trace.Step) string {
	var fields []string
	add := func(k, v string) {
		if v != "" {
			fields = append(fields, fmt.Sprintf("%s=%s", k, v))
		}
	}
	add("task", s.TaskID)
	add("parent", s.ParentTaskID)
	add("target", m.names.Resolve(s.Target))
	add("tool", s.ToolName)
	add("sub_task", s.SubTaskID)
	add("workflow", s.WorkflowName)
	add("execution", s.ExecutionID)
	add("node", s.NodeID)
	add("condition", s.Condition)
	if s.IsPeer {
		fields = append(fields, "peer")
	}
	if s.IsPeerResponse {
		fields = append(fields, "peer_response")
	}
	if s.ParallelGroup != "" {
		fields = append(fields, fmt.Sprintf("parallel=%s#%d", s.ParallelGroup, s.Branch))
	}
	return listDimStyle.Render("  " + strings.Join(fields, "  "))
}
