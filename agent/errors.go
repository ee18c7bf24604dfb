package agent

import "errors"

var (
	// ErrNilAgent is returned when Run is called without an agent.
	ErrNilAgent = errors.New("agent: agent is nil")

	// ErrMissingAPIKey is returned when no model credentials are configured.
	ErrMissingAPIKey = errors.New("agent: api key is required")

	// ErrMissingModel is returned when no model name is configured.
	ErrMissingModel = errors.New("agent: model is required")

	// ErrMaxTurns is returned when the model keeps requesting tools past the
	// turn budget.
	ErrMaxTurns = errors.New("agent: max turns exceeded")

	// ErrEmptyResponse is returned when the model answers without choices.
	ErrEmptyResponse = errors.New("agent: model returned no choices")

	// ErrUnknownTool is reported to the model when it calls a tool the agent
	// does not have.
	ErrUnknownTool = errors.New("agent: unknown tool")
)
