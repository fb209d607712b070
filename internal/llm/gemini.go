package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"google.golang.org/genai"

	"github.com/voicedesk/voicedesk/internal/logging"
)

// GeminiClient talks to the Gemini API via the official genai SDK.
type GeminiClient struct {
	apiKey string
	model  string // default model when the request doesn't name one
	log    *logging.Logger

	mu     sync.Mutex
	client *genai.Client
}

// NewGeminiClient creates a Gemini provider. The SDK client is initialized
// lazily on first use so construction never needs network access.
func NewGeminiClient(apiKey, model string, log *logging.Logger) *GeminiClient {
	return &GeminiClient{
		apiKey: apiKey,
		model:  model,
		log:    log.Sub("llm.gemini"),
	}
}

func (c *GeminiClient) Name() string { return "gemini" }

func (c *GeminiClient) ensureClient(ctx context.Context) (*genai.Client, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.client != nil {
		return c.client, nil
	}
	if c.apiKey == "" {
		// 401 so the failover chain treats a missing key as retryable
		return nil, &ProviderError{Provider: "gemini", Message: "API key not configured", Code: 401}
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: c.apiKey})
	if err != nil {
		return nil, &ProviderError{Provider: "gemini", Message: err.Error()}
	}
	c.client = client
	return client, nil
}

// Complete sends a generate-content request and maps the first candidate
// back into a CompletionResponse.
func (c *GeminiClient) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	client, err := c.ensureClient(ctx)
	if err != nil {
		return nil, err
	}

	model := req.Model
	if model == "" {
		model = c.model
	}

	config, err := geminiConfig(req)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	result, err := client.Models.GenerateContent(ctx, model, geminiContents(req.Messages), config)
	if err != nil {
		return nil, geminiError(err)
	}

	resp := geminiResponse(result)
	resp.Model = model
	resp.Duration = time.Since(start)
	return resp, nil
}

// Stream completes the request and replays it as a single-chunk stream.
func (c *GeminiClient) Stream(ctx context.Context, req CompletionRequest) (<-chan StreamEvent, error) {
	resp, err := c.Complete(ctx, req)
	if err != nil {
		return nil, err
	}
	return singleChunkStream(resp), nil
}

// geminiContents converts shared messages into Gemini content turns.
// Gemini has no system role in history, so stray system messages are
// inlined as user content.
func geminiContents(msgs []Message) []*genai.Content {
	out := make([]*genai.Content, 0, len(msgs))
	for _, m := range msgs {
		switch m.Role {
		case RoleAssistant:
			out = append(out, genai.NewContentFromText(m.Content, genai.RoleModel))
		case RoleSystem:
			out = append(out, genai.NewContentFromText("System: "+m.Content, genai.RoleUser))
		default:
			out = append(out, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}
	return out
}

func geminiConfig(req CompletionRequest) (*genai.GenerateContentConfig, error) {
	config := &genai.GenerateContentConfig{}
	if req.System != "" {
		config.SystemInstruction = genai.NewContentFromText(req.System, genai.RoleUser)
	}
	if req.Temperature != nil {
		temp := float32(*req.Temperature)
		config.Temperature = &temp
	}
	if req.MaxTokens > 0 {
		config.MaxOutputTokens = int32(req.MaxTokens)
	}
	if len(req.Tools) > 0 {
		tools, err := geminiTools(req.Tools)
		if err != nil {
			return nil, err
		}
		config.Tools = tools
	}
	return config, nil
}

// geminiTools groups all function declarations under a single Tool entry.
func geminiTools(defs []ToolDefinition) ([]*genai.Tool, error) {
	decls := make([]*genai.FunctionDeclaration, 0, len(defs))
	for _, def := range defs {
		schema, err := geminiSchema([]byte(def.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("tool %s: invalid input schema: %w", def.Name, err)
		}
		decls = append(decls, &genai.FunctionDeclaration{
			Name:        def.Name,
			Description: def.Description,
			Parameters:  schema,
		})
	}
	return []*genai.Tool{{FunctionDeclarations: decls}}, nil
}

// jsonSchema is the subset of JSON Schema that tool definitions use.
type jsonSchema struct {
	Type        string                 `json:"type"`
	Description string                 `json:"description,omitempty"`
	Enum        []string               `json:"enum,omitempty"`
	Properties  map[string]*jsonSchema `json:"properties,omitempty"`
	Items       *jsonSchema            `json:"items,omitempty"`
	Required    []string               `json:"required,omitempty"`
}

// geminiSchema converts a JSON Schema document into the SDK's typed Schema.
func geminiSchema(raw []byte) (*genai.Schema, error) {
	var js jsonSchema
	if err := json.Unmarshal(raw, &js); err != nil {
		return nil, err
	}
	return convertSchema(&js), nil
}

func convertSchema(js *jsonSchema) *genai.Schema {
	if js == nil {
		return nil
	}
	s := &genai.Schema{
		Type:        geminiType(js.Type),
		Description: js.Description,
		Enum:        js.Enum,
		Required:    js.Required,
		Items:       convertSchema(js.Items),
	}
	if len(js.Properties) > 0 {
		s.Properties = make(map[string]*genai.Schema, len(js.Properties))
		for name, prop := range js.Properties {
			s.Properties[name] = convertSchema(prop)
		}
	}
	return s
}

func geminiType(t string) genai.Type {
	switch t {
	case "object":
		return genai.TypeObject
	case "string":
		return genai.TypeString
	case "number":
		return genai.TypeNumber
	case "integer":
		return genai.TypeInteger
	case "boolean":
		return genai.TypeBoolean
	case "array":
		return genai.TypeArray
	default:
		return genai.TypeUnspecified
	}
}

// geminiResponse maps the first candidate's parts onto the shared response.
// Thought parts are dropped; function calls without an ID get a synthetic
// one derived from the function name.
func geminiResponse(result *genai.GenerateContentResponse) *CompletionResponse {
	resp := &CompletionResponse{}
	if result.UsageMetadata != nil {
		resp.Usage.InputTokens = int(result.UsageMetadata.PromptTokenCount)
		resp.Usage.OutputTokens = int(result.UsageMetadata.CandidatesTokenCount)
	}
	if len(result.Candidates) == 0 || result.Candidates[0].Content == nil {
		return resp
	}

	candidate := result.Candidates[0]
	resp.StopReason = string(candidate.FinishReason)

	var text strings.Builder
	for _, part := range candidate.Content.Parts {
		if part == nil || part.Thought {
			continue
		}
		if part.Text != "" {
			text.WriteString(part.Text)
		}
		if part.FunctionCall != nil {
			input := "{}"
			if len(part.FunctionCall.Args) > 0 {
				if b, err := json.Marshal(part.FunctionCall.Args); err == nil {
					input = string(b)
				}
			}
			id := part.FunctionCall.ID
			if id == "" {
				id = "call_" + part.FunctionCall.Name
			}
			resp.ToolCalls = append(resp.ToolCalls, ToolCall{
				ID:    id,
				Name:  part.FunctionCall.Name,
				Input: input,
			})
		}
	}
	resp.Content = text.String()
	return resp
}

func geminiError(err error) error {
	var aerr genai.APIError
	if errors.As(err, &aerr) {
		return &ProviderError{Provider: "gemini", Message: aerr.Message, Code: aerr.Code}
	}
	return &ProviderError{Provider: "gemini", Message: err.Error()}
}
