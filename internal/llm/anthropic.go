package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/voicedesk/voicedesk/internal/logging"
)

// anthropicMaxTokens is the request cap when the caller doesn't set one;
// the Messages API requires max_tokens on every request.
const anthropicMaxTokens = 1024

// AnthropicClient talks to the Anthropic Messages API via the official SDK.
type AnthropicClient struct {
	apiKey string
	model  string
	log    *logging.Logger

	mu     sync.Mutex
	client *anthropic.Client
}

// NewAnthropicClient creates an Anthropic provider with lazy SDK initialization.
func NewAnthropicClient(apiKey, model string, log *logging.Logger) *AnthropicClient {
	return &AnthropicClient{
		apiKey: apiKey,
		model:  model,
		log:    log.Sub("llm.anthropic"),
	}
}

func (c *AnthropicClient) Name() string { return "anthropic" }

func (c *AnthropicClient) ensureClient() (*anthropic.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		// 401 so the failover chain treats a missing key as retryable
		return nil, &ProviderError{Provider: "anthropic", Message: "API key not configured", Code: 401}
	}
	client := anthropic.NewClient(option.WithAPIKey(c.apiKey))
	c.client = &client
	return c.client, nil
}

// Complete sends a messages request and maps the content blocks back into
// a CompletionResponse.
func (c *AnthropicClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	client, err := c.ensureClient()
	if err != nil {
		return nil, err
	}

	if req.Model == "" {
		req.Model = c.model
	}
	params, err := anthropicParams(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	message, err := client.Messages.New(ctx, params)
	if err != nil {
		return nil, anthropicError(err)
	}

	resp := anthropicResponse(message)
	resp.Model = req.Model
	resp.Duration = time.Since(start)
	return resp, nil
}

// Stream completes the request and replays it as a single-chunk stream.
func (c *AnthropicClient) Stream(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error) {
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return singleChunkStream(resp), nil
}

func anthropicParams(req CompletionRequest) (anthropic.MessageNewParams, error) {
	msgs := make([]anthropic.MessageParam, 0, len(req.Messages))
	for _, m := range req.Messages {
		switch m.Role {
		case RoleAssistant:
			msgs = append(msgs, anthropic.NewAssistantMessage(anthropic.NewTextBlock(m.Content)))
		default:
			msgs = append(msgs, anthropic.NewUserMessage(anthropic.NewTextBlock(m.Content)))
		}
	}

	maxTokens := int64(req.MaxTokens)
	if maxTokens <= 0 {
		maxTokens = anthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		MaxTokens: maxTokens,
		Messages:  msgs,
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}
	if len(req.Tools) > 0 {
		tools, err := anthropicTools(req.Tools)
		if err != nil {
			return params, err
		}
		params.Tools = tools
	}
	return params, nil
}

func anthropicTools(defs []ToolDefinition) ([]anthropic.ToolUnionParam, error) {
	out := make([]anthropic.ToolUnionParam, 0, len(defs))
	for _, def := range defs {
		var schema struct {
			Properties map[string]any `json:"properties"`
			Required   []string       `json:"required"`
		}
		if err := json.Unmarshal([]byte(def.InputSchema), &schema); err != nil {
			return nil, fmt.Errorf("tool %s: invalid input schema: %w", def.Name, err)
		}
		out = append(out, anthropic.ToolUnionParam{
			OfTool: &anthropic.ToolParam{
				Name:        def.Name,
				Description: anthropic.String(def.Description),
				InputSchema: anthropic.ToolInputSchemaParam{
					Properties: schema.Properties,
					Required:   schema.Required,
				},
			},
		})
	}
	return out, nil
}

func anthropicResponse(message *anthropic.Message) *CompletionResponse {
	resp := &CompletionResponse{
		StopReason: string(message.StopReason),
		Usage: Usage{
			InputTokens:  int(message.Usage.InputTokens),
			OutputTokens: int(message.Usage.OutputTokens),
			CacheRead:    int(message.Usage.CacheReadInputTokens),
			CacheWrite:   int(message.Usage.CacheCreationInputTokens),
		},
	}

	var text strings.Builder
	for _, block := range message.Content {
		switch variant := block.AsAny().(type) {
		case anthropic.TextBlock:
			text.WriteString(variant.Text)
		case anthropic.ToolUseBlock:
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{
				ID:    variant.ID,
				Name:  variant.Name,
				Input: variant.JSON.Input.Raw(),
			})
		}
	}
	resp.Content = text.String()
	return resp
}

func anthropicError(err error) error {
	var apierr *anthropic.Error
	if errors.As(err, &apierr) {
		return &ProviderError{Provider: "anthropic", Message: err.Error(), Code: apierr.StatusCode}
	}
	return &ProviderError{Provider: "anthropic", Message: err.Error()}
}
