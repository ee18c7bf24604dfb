// Package agent defines the four pipeline agents and the runtime that
// executes them against a chat-completions model.
//
// An Agent is static configuration: a name, its instructions and the tools it
// may call. A Runner executes one agent on one text input and returns the
// final text output. OpenAIRunner is the production Runner; it loops over
// model turns, dispatching the tool calls of each turn concurrently, until
// the model answers without requesting tools.
package agent
