package brain

import (
	"context"

	"github.com/openai/openai-go/v3"
	"github.com/openai/openai-go/v3/option"
	"github.com/rotisserie/eris"
)

const defaultDeepSeekBaseURL = "https://api.deepseek.com"

// deepseekCompleter talks to DeepSeek through its OpenAI-compatible API.
type deepseekCompleter struct {
	client    openai.Client
	model     string
	maxTokens int64
}

func newDeepSeekCompleter(opts Options) *deepseekCompleter {
	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = defaultDeepSeekBaseURL
	}
	model := opts.Model
	if model == "" {
		model = "deepseek-reasoner"
	}
	return &deepseekCompleter{
		client: openai.NewClient(
			option.WithAPIKey(opts.APIKey),
			option.WithBaseURL(baseURL),
		),
		model:     model,
		maxTokens: opts.MaxTokens,
	}
}

func (c *deepseekCompleter) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	req := openai.ChatCompletionNewParams{
		Model: c.model,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature: openai.Float(temperature),
	}
	if c.maxTokens > 0 {
		req.MaxCompletionTokens = openai.Int(c.maxTokens)
	}

	resp, err := c.client.Chat.Completions.New(ctx, req)
	if err != nil {
		return "", eris.Wrap(err, "brain: deepseek completion")
	}
	if len(resp.Choices) == 0 {
		return "", eris.New("brain: deepseek returned no choices")
	}
	return resp.Choices[0].Message.Content, nil
}
