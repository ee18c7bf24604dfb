package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jonwraymond/ragteam/search"
)

// Tool is a function an agent may call.
type Tool interface {
	Name() string
	Description() string
	Parameters() map[string]any
	// Call runs the tool and returns its output as text for the model.
	Call(ctx context.Context, args json.RawMessage) (string, error)
}

// Agent is a named set of instructions and tools.
type Agent struct {
	// ID is a short machine name used in telemetry, e.g. "research".
	ID string
	// Name is the display name, e.g. "Research Agent".
	Name         string
	Instructions string
	Tools        []Tool
}

// Tool returns the tool registered under name.
func (a *Agent) Tool(name string) (Tool, bool) {
	for _, t := range a.Tools {
		if t.Name() == name {
			return t, true
		}
	}
	return nil, false
}

// Runner executes an agent on a single input.
type Runner interface {
	Run(ctx context.Context, a *Agent, input string) (*Result, error)
}

// Usage counts model tokens across every turn of a run.
type Usage struct {
	PromptTokens     int64
	CompletionTokens int64
	TotalTokens      int64
}

// Add accumulates u2 into u.
func (u *Usage) Add(u2 Usage) {
	u.PromptTokens += u2.PromptTokens
	u.CompletionTokens += u2.CompletionTokens
	u.TotalTokens += u2.TotalTokens
}

// ToolCall records one tool invocation made during a run.
type ToolCall struct {
	ID        string
	Name      string
	Arguments string
	Output    string
	Duration  time.Duration
}

// Result is the outcome of a run.
type Result struct {
	Agent       string
	Model       string
	FinalOutput string
	Turns       int
	ToolCalls   []ToolCall
	Usage       Usage
	Duration    time.Duration
}

// String renders a multi-line summary of the run for verbose output.
func (r *Result) String() string {
	if r == nil {
		return "<nil result>"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Agent: %s\n", r.Agent)
	if r.Model != "" {
		fmt.Fprintf(&b, "Model: %s\n", r.Model)
	}
	fmt.Fprintf(&b, "Turns: %d\n", r.Turns)
	fmt.Fprintf(&b, "Duration: %s\n", r.Duration.Round(time.Millisecond))
	fmt.Fprintf(&b, "Usage: prompt=%d completion=%d total=%d\n",
		r.Usage.PromptTokens, r.Usage.CompletionTokens, r.Usage.TotalTokens)
	fmt.Fprintf(&b, "Tool calls: %d\n", len(r.ToolCalls))
	for _, tc := range r.ToolCalls {
		fmt.Fprintf(&b, "  - %s(%s) %s\n", tc.Name, tc.Arguments, tc.Duration.Round(time.Millisecond))
	}
	return b.String()
}

// searchTool exposes a search.Provider as a Tool.
type searchTool struct {
	search.Provider
}

// SearchTool adapts p so its results are returned to the model as JSON.
func SearchTool(p search.Provider) Tool {
	return searchTool{p}
}

// SearchTools adapts every provider in ps.
func SearchTools(ps ...search.Provider) []Tool {
	tools := make([]Tool, 0, len(ps))
	for _, p := range ps {
		tools = append(tools, SearchTool(p))
	}
	return tools
}

func (t searchTool) Call(ctx context.Context, args json.RawMessage) (string, error) {
	data, err := json.Marshal(t.Invoke(ctx, args))
	if err != nil {
		return "", err
	}
	return string(data), nil
}
