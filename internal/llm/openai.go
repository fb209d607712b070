package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/voicedesk/voicedesk/internal/logging"
)

// OpenAIClient talks to the Chat Completions API via the official SDK.
// A non-empty baseURL points it at an OpenAI-compatible endpoint instead.
type OpenAIClient struct {
	apiKey  string
	baseURL string
	model   string
	log     *logging.Logger

	mu     sync.Mutex
	client *openai.Client
}

// NewOpenAIClient creates an OpenAI provider with lazy SDK initialization.
func NewOpenAIClient(apiKey, baseURL, model string, log *logging.Logger) *OpenAIClient {
	return &OpenAIClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		model:   model,
		log:     log.Sub("llm.openai"),
	}
}

func (c *OpenAIClient) Name() string { return "openai" }

func (c *OpenAIClient) ensureClient() (*openai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		// 401 so the failover chain treats a missing key as retryable
		return nil, &ProviderError{Provider: "openai", Message: "API key not configured", Code: 401}
	}
	opts := []option.RequestOption{option.WithAPIKey(c.apiKey)}
	if c.baseURL != "" {
		opts = append(opts, option.WithBaseURL(c.baseURL))
	}
	client := openai.NewClient(opts...)
	c.client = &client
	return c.client, nil
}

// Complete sends a chat completion and maps the first choice back into a
// CompletionResponse.
func (c *OpenAIClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	client, err := c.ensureClient()
	if err != nil {
		return nil, err
	}

	if req.Model == "" {
		req.Model = c.model
	}
	params, err := openaiParams(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	completion, err := client.Chat.Completions.New(ctx, params)
	if err != nil {
		return nil, openaiError(err)
	}

	resp := openaiResponse(completion)
	resp.Model = req.Model
	resp.Duration = time.Since(start)
	return resp, nil
}

// Stream completes the request and replays it as a single-chunk stream.
func (c *OpenAIClient) Stream(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error) {
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return singleChunkStream(resp), nil
}

func openaiParams(req CompletionRequest) (openai.ChatCompletionNewParams, error) {
	msgs := make([]openai.ChatCompletionMessageParamUnion, 0, len(req.Messages)+1)
	if req.System != "" {
		msgs = append(msgs, openai.SystemMessage(req.System))
	}
	for _, m := range req.Messages {
		switch m.Role {
		case RoleAssistant:
			msgs = append(msgs, openai.AssistantMessage(m.Content))
		case RoleSystem:
			msgs = append(msgs, openai.SystemMessage(m.Content))
		default:
			msgs = append(msgs, openai.UserMessage(m.Content))
		}
	}

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(req.Model),
		Messages: msgs,
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(req.MaxTokens))
	}
	if req.Temperature != nil {
		params.Temperature = openai.Float(*req.Temperature)
	}
	if len(req.Tools) > 0 {
		tools, err := openaiTools(req.Tools)
		if err != nil {
			return params, err
		}
		params.Tools = tools
	}
	return params, nil
}

func openaiTools(defs []ToolDefinition) ([]openai.ChatCompletionToolParam, error) {
	out := make([]openai.ChatCompletionToolParam, 0, len(defs))
	for _, def := range defs {
		var schema map[string]any
		if err := json.Unmarshal([]byte(def.InputSchema), &schema); err != nil {
			return nil, fmt.Errorf("tool %s: invalid input schema: %w", def.Name, err)
		}
		out = append(out, openai.ChatCompletionToolParam{
			Function: openai.FunctionDefinitionParam{
				Name:        def.Name,
				Description: openai.String(def.Description),
				Parameters:  openai.FunctionParameters(schema),
			},
		})
	}
	return out, nil
}

func openaiResponse(completion *openai.ChatCompletion) *CompletionResponse {
	resp := &CompletionResponse{
		Usage: Usage{
			InputTokens:  int(completion.Usage.PromptTokens),
			OutputTokens: int(completion.Usage.CompletionTokens),
		},
	}
	if len(completion.Choices) == 0 {
		return resp
	}

	choice := completion.Choices[0]
	resp.Content = choice.Message.Content
	resp.StopReason = string(choice.FinishReason)
	for _, tc := range choice.Message.ToolCalls {
		resp.ToolCalls = append(resp.ToolCalls, ToolCall{
			ID:    tc.ID,
			Name:  tc.Function.Name,
			Input: tc.Function.Arguments,
		})
	}
	return resp
}

func openaiError(err error) error {
	var apierr *openai.Error
	if errors.As(err, &apierr) {
		return &ProviderError{Provider: "openai", Message: apierr.Message, Code: apierr.StatusCode}
	}
	return &ProviderError{Provider: "openai", Message: err.Error()}
}
