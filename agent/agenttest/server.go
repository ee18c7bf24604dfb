// Package agenttest provides a scripted Chat Completions server for tests.
package agenttest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// Request is the part of a chat completion request the server inspects.
type Request struct {
	Model    string    `json:"model"`
	Messages []Message `json:"messages"`
	Tools    []struct {
		Type     string `json:"type"`
		Function struct {
			Name        string         `json:"name"`
			Description string         `json:"description"`
			Parameters  map[string]any `json:"parameters"`
		} `json:"function"`
	} `json:"tools"`
}

// Message is one request message.
type Message struct {
	Role       string          `json:"role"`
	Content    json.RawMessage `json:"content"`
	ToolCallID string          `json:"tool_call_id"`
	ToolCalls  []ToolCall      `json:"tool_calls"`
}

// Text returns the message content whether it was sent as a string or as
// an array of text parts.
func (m Message) Text() string {
	var s string
	if err := json.Unmarshal(m.Content, &s); err == nil {
		return s
	}
	var parts []struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(m.Content, &parts); err != nil {
		return ""
	}
	var out string
	for _, p := range parts {
		out += p.Text
	}
	return out
}

// System returns the text of the first system message.
func (r Request) System() string {
	for _, m := range r.Messages {
		if m.Role == "system" || m.Role == "developer" {
			return m.Text()
		}
	}
	return ""
}

// LastUser returns the text of the last user message.
func (r Request) LastUser() string {
	for i := len(r.Messages) - 1; i >= 0; i-- {
		if r.Messages[i].Role == "user" {
			return r.Messages[i].Text()
		}
	}
	return ""
}

// ToolOutputs returns tool message contents keyed by tool call id.
func (r Request) ToolOutputs() map[string]string {
	out := map[string]string{}
	for _, m := range r.Messages {
		if m.Role == "tool" {
			out[m.ToolCallID] = m.Text()
		}
	}
	return out
}

// ToolCall is a function call requested by the model.
type ToolCall struct {
	ID       string `json:"id"`
	Type     string `json:"type"`
	Function struct {
		Name      string `json:"name"`
		Arguments string `json:"arguments"`
	} `json:"function"`
}

// Call builds a ToolCall with JSON-encoded arguments.
func Call(id, name string, args any) ToolCall {
	data, err := json.Marshal(args)
	if err != nil {
		panic(err)
	}
	tc := ToolCall{ID: id, Type: "function"}
	tc.Function.Name = name
	tc.Function.Arguments = string(data)
	return tc
}

// Reply is the assistant message the server answers with.
type Reply struct {
	Content   string
	ToolCalls []ToolCall
	// Status overrides the HTTP status; the body is then an API error.
	Status int
}

// Text is a final answer.
func Text(content string) Reply {
	return Reply{Content: content}
}

// Tools is a turn that requests tool calls.
func Tools(calls ...ToolCall) Reply {
	return Reply{ToolCalls: calls}
}

// Responder decides the reply to each request.
type Responder func(req Request) Reply

// Server is a fake Chat Completions endpoint.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request
}

// NewServer starts a server answering with respond. It is closed when the
// test ends.
func NewServer(t testing.TB, respond Responder) *Server {
	t.Helper()
	s := &Server{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/chat/completions" {
			http.NotFound(w, r)
			return
		}
		var req Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		s.mu.Lock()
		s.requests = append(s.requests, req)
		n := len(s.requests)
		s.mu.Unlock()

		reply := respond(req)
		w.Header().Set("Content-Type", "application/json")
		if reply.Status != 0 && reply.Status != http.StatusOK {
			w.WriteHeader(reply.Status)
			_ = json.NewEncoder(w).Encode(map[string]any{
				"error": map[string]any{"message": "scripted failure", "type": "server_error"},
			})
			return
		}
		_ = json.NewEncoder(w).Encode(completion(n, req.Model, reply))
	}))
	t.Cleanup(s.Close)
	return s
}

// BaseURL returns the API root, suitable for OpenAIConfig.BaseURL.
func (s *Server) BaseURL() string {
	return s.URL + "/"
}

// Requests returns a copy of every request received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

func completion(n int, model string, reply Reply) map[string]any {
	msg := map[string]any{"role": "assistant", "content": reply.Content, "refusal": ""}
	finish := "stop"
	if len(reply.ToolCalls) > 0 {
		msg["content"] = nil
		msg["tool_calls"] = reply.ToolCalls
		finish = "tool_calls"
	}
	return map[string]any{
		"id":      fmt.Sprintf("chatcmpl-%d", n),
		"object":  "chat.completion",
		"created": 1700000000,
		"model":   model,
		"choices": []map[string]any{{
			"index":         0,
			"message":       msg,
			"finish_reason": finish,
			"logprobs":      nil,
		}},
		"usage": map[string]any{
			"prompt_tokens":     10,
			"completion_tokens": 5,
			"total_tokens":      15,
		},
	}
}
