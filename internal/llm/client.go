// Package llm wraps the chat model behind a one-method interface so the
// planner and classifier can be tested with stubs.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/mbenedetti/viaggio/internal/domain"
)

// Request carries one completion call. MaxTokens of zero means the
// provider default.
type Request struct {
	Prompt      string
	System      string
	Temperature float64
	MaxTokens   int64
	// JSONMode asks the provider to constrain output to a JSON object.
	// Callers must still tolerate malformed output.
	JSONMode bool
}

// Client is the generation collaborator. Implementations fail with
// domain.ErrModel on transport, auth, or quota problems; callers are
// responsible for their own fallback behavior.
type Client interface {
	Complete(ctx context.Context, req Request) (string, error)
}

// OpenAI is the production Client backed by the OpenAI chat completions API.
type OpenAI struct {
	client openai.Client
	model  openai.ChatModel
}

// NewOpenAI constructs an OpenAI client for the given API key and model name.
func NewOpenAI(apiKey, model string) *OpenAI {
	return &OpenAI{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  openai.ChatModel(model),
	}
}

// Complete performs one chat completion. Any provider failure, and an
// empty completion, are reported as domain.ErrModel.
func (o *OpenAI) Complete(ctx context.Context, req Request) (string, error) {
	params := openai.ChatCompletionNewParams{
		Model: o.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(req.System),
			openai.UserMessage(req.Prompt),
		},
		Temperature: openai.Float(req.Temperature),
	}
	if req.MaxTokens > 0 {
		params.MaxTokens = openai.Int(req.MaxTokens)
	}
	if req.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	resp, err := o.client.Chat.Completions.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("llm.OpenAI.Complete: %w: %v", domain.ErrModel, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("llm.OpenAI.Complete: %w: no choices returned", domain.ErrModel)
	}
	text := strings.TrimSpace(resp.Choices[0].Message.Content)
	if text == "" {
		return "", fmt.Errorf("llm.OpenAI.Complete: %w: empty completion", domain.ErrModel)
	}
	return text, nil
}
