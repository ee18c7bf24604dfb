package observe

import "fmt"

// Kind classifies an observed call.
type Kind string

const (
	// KindSearch is one upstream search request (web, OpenAlex, CrossRef).
	KindSearch Kind = "search"
	// KindAgent is one agent run, covering every model turn and tool call.
	KindAgent Kind = "agent"
	// KindStage is one pipeline stage.
	KindStage Kind = "stage"
)

// CallMeta describes a unit of work for telemetry purposes.
type CallMeta struct {
	Kind  Kind   // What sort of call this is (required)
	Name  string // Tool, agent or stage name (required)
	Model string // Model name for agent calls (optional)
}

// SpanName returns the deterministic span name for this call.
// Format: ragteam.<kind>.<name>
func (m CallMeta) SpanName() string {
	return "ragteam." + string(m.Kind) + "." + m.Name
}

// ID returns the call identifier used in logs and metric attributes.
// Format: <kind>.<name>
func (m CallMeta) ID() string {
	return string(m.Kind) + "." + m.Name
}

// Validate checks that the metadata names a known kind and a call.
func (m CallMeta) Validate() error {
	switch m.Kind {
	case KindSearch, KindAgent, KindStage:
	default:
		return fmt.Errorf("%w: %q", ErrInvalidCallKind, m.Kind)
	}
	if m.Name == "" {
		return ErrMissingCallName
	}
	return nil
}
