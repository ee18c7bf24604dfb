package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"golang.org/x/sync/errgroup"

	"github.com/jonwraymond/ragteam/observe"
)

const (
	// DefaultModel is used when OpenAIConfig.Model is empty.
	DefaultModel = "gpt-4o-mini"

	// DefaultMaxTurns bounds the number of model calls in one run.
	DefaultMaxTurns = 10

	// DefaultRequestTimeout bounds a single model call.
	DefaultRequestTimeout = 5 * time.Minute
)

// OpenAIConfig configures an OpenAIRunner.
type OpenAIConfig struct {
	APIKey  string
	BaseURL string
	Model   string

	// MaxTurns bounds model calls per run. Default: 10
	MaxTurns int

	// RequestTimeout bounds each model call. Default: 5 minutes
	RequestTimeout time.Duration

	// MaxRetries is passed to the client. Default: 0
	MaxRetries int

	// MaxParallelTools caps concurrent tool calls within a turn.
	// Zero means unlimited.
	MaxParallelTools int

	HTTPClient *http.Client
}

// Validate checks required fields.
func (c OpenAIConfig) Validate() error {
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}
	if c.Model == "" {
		return ErrMissingModel
	}
	return nil
}

// OpenAIRunner runs agents through the Chat Completions API.
//
// Contract:
//   - Concurrency: safe for concurrent use; runs share no state.
//   - Tools: every tool call of one model turn runs concurrently and the
//     outputs are returned to the model in call order.
//   - Errors: transport and API errors end the run; tool errors are
//     reported to the model as tool output.
type OpenAIRunner struct {
	client *openai.Client
	cfg    OpenAIConfig
	obs    *observe.Middleware
}

var _ Runner = (*OpenAIRunner)(nil)

// NewOpenAIRunner creates a runner. obs may be nil.
func NewOpenAIRunner(cfg OpenAIConfig, obs *observe.Middleware) (*OpenAIRunner, error) {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.MaxTurns <= 0 {
		cfg.MaxTurns = DefaultMaxTurns
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = DefaultRequestTimeout
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxRetries),
		option.WithRequestTimeout(cfg.RequestTimeout),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	if cfg.HTTPClient != nil {
		opts = append(opts, option.WithHTTPClient(cfg.HTTPClient))
	}

	client := openai.NewClient(opts...)
	return &OpenAIRunner{
		client: &client,
		cfg:    cfg,
		obs:    obs,
	}, nil
}

// Model returns the configured model name.
func (r *OpenAIRunner) Model() string {
	return r.cfg.Model
}

// Run implements Runner.
func (r *OpenAIRunner) Run(ctx context.Context, a *Agent, input string) (*Result, error) {
	if a == nil {
		return nil, ErrNilAgent
	}
	meta := observe.CallMeta{Kind: observe.KindAgent, Name: a.ID, Model: r.cfg.Model}
	return observe.Call(ctx, r.obs, meta, func(ctx context.Context) (*Result, error) {
		return r.run(ctx, a, input)
	})
}

func (r *OpenAIRunner) run(ctx context.Context, a *Agent, input string) (*Result, error) {
	start := time.Now()
	res := &Result{Agent: a.Name, Model: r.cfg.Model}
	defer func() { res.Duration = time.Since(start) }()

	messages := []openai.ChatCompletionMessageParamUnion{
		openai.SystemMessage(a.Instructions),
		openai.UserMessage(input),
	}
	tools := toolParams(a.Tools)

	for turn := 1; turn <= r.cfg.MaxTurns; turn++ {
		params := openai.ChatCompletionNewParams{
			Model:    shared.ChatModel(r.cfg.Model),
			Messages: messages,
		}
		if len(tools) > 0 {
			params.Tools = tools
		}

		resp, err := r.client.Chat.Completions.New(ctx, params)
		if err != nil {
			return nil, fmt.Errorf("%s turn %d: %w", a.Name, turn, err)
		}
		res.Turns = turn
		res.Usage.Add(Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		})
		if len(resp.Choices) == 0 {
			return nil, fmt.Errorf("%s turn %d: %w", a.Name, turn, ErrEmptyResponse)
		}

		msg := resp.Choices[0].Message
		if len(msg.ToolCalls) == 0 {
			res.FinalOutput = msg.Content
			return res, nil
		}

		calls := r.callTools(ctx, a, msg.ToolCalls)
		res.ToolCalls = append(res.ToolCalls, calls...)

		messages = append(messages, msg.ToParam())
		for _, c := range calls {
			messages = append(messages, openai.ToolMessage(c.Output, c.ID))
		}
	}
	return nil, fmt.Errorf("%s: %w (%d)", a.Name, ErrMaxTurns, r.cfg.MaxTurns)
}

// callTools runs the requested tools concurrently and returns their records
// in request order.
func (r *OpenAIRunner) callTools(ctx context.Context, a *Agent, requested []openai.ChatCompletionMessageToolCall) []ToolCall {
	calls := make([]ToolCall, len(requested))
	g, gctx := errgroup.WithContext(ctx)
	if r.cfg.MaxParallelTools > 0 {
		g.SetLimit(r.cfg.MaxParallelTools)
	}

	log := r.obs.Logger()
	for i, tc := range requested {
		g.Go(func() error {
			start := time.Now()
			out := r.callTool(gctx, a, tc.Function.Name, tc.Function.Arguments)
			calls[i] = ToolCall{
				ID:        tc.ID,
				Name:      tc.Function.Name,
				Arguments: tc.Function.Arguments,
				Output:    out,
				Duration:  time.Since(start),
			}
			log.Debug(gctx, "tool call",
				observe.F("agent", a.ID),
				observe.F("tool", tc.Function.Name),
				observe.F("duration_ms", time.Since(start).Milliseconds()),
			)
			return nil
		})
	}
	_ = g.Wait()
	return calls
}

// callTool returns the tool output, or a JSON error object the model can read.
func (r *OpenAIRunner) callTool(ctx context.Context, a *Agent, name, args string) string {
	tool, ok := a.Tool(name)
	if !ok {
		return toolError(fmt.Errorf("%w: %s", ErrUnknownTool, name))
	}
	out, err := tool.Call(ctx, json.RawMessage(args))
	if err != nil {
		return toolError(err)
	}
	return out
}

func toolError(err error) string {
	data, mErr := json.Marshal(map[string]string{"error": err.Error()})
	if mErr != nil {
		return `{"error":"tool failed"}`
	}
	return string(data)
}

func toolParams(tools []Tool) []openai.ChatCompletionToolParam {
	if len(tools) == 0 {
		return nil
	}
	out := make([]openai.ChatCompletionToolParam, 0, len(tools))
	for _, t := range tools {
		out = append(out, openai.ChatCompletionToolParam{
			Function: shared.FunctionDefinitionParam{
				Name:        t.Name(),
				Description: openai.String(t.Description()),
				Parameters:  shared.FunctionParameters(t.Parameters()),
			},
		})
	}
	return out
}
