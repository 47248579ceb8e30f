package bundle

import (
	"context"
	"errors"
	"strings"

	openai "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"briefboard/internal/domain"
)

// OpenAIGenerator is the alternate bundle provider, selected with
// BUNDLE_PROVIDER=openai. It speaks chat completions through the official
// SDK and funnels the reply through the same JSON-fragment parser as the
// Gemini path.
type OpenAIGenerator struct {
	model string
	opts  []option.RequestOption
}

type OpenAIOptions struct {
	APIKey  string
	Model   string
	BaseURL string
}

func NewOpenAIGenerator(cfg OpenAIOptions) (*OpenAIGenerator, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, errors.New("openai api key is required")
	}
	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = "gpt-4o-mini"
	}
	opts := []option.RequestOption{option.WithAPIKey(cfg.APIKey)}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}
	return &OpenAIGenerator{model: model, opts: opts}, nil
}

func (o *OpenAIGenerator) GenerateBundle(ctx context.Context, prompt string) (*domain.Bundle, error) {
	client := openai.NewClient(o.opts...)

	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: openai.ChatModel(o.model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage("You are a creative direction assistant that only responds with valid JSON."),
			openai.UserMessage(buildInstruction(prompt)),
		},
	})
	if err != nil {
		return nil, domain.Upstreamf("openai chat completion for model %q: %v", o.model, err)
	}
	if len(resp.Choices) == 0 {
		return nil, domain.Upstreamf("openai response has no choices")
	}
	return parseBundle(resp.Choices[0].Message.Content)
}

var _ Generator = (*OpenAIGenerator)(nil)
