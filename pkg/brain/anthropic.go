package brain

import (
	"context"
	"strings"

	sdk "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/rotisserie/eris"
)

// anthropicCompleter talks to the Anthropic Messages API.
type anthropicCompleter struct {
	client    sdk.Client
	model     string
	maxTokens int64
}

func newAnthropicCompleter(opts Options) *anthropicCompleter {
	model := opts.Model
	if model == "" {
		model = "claude-sonnet-4-5-20250929"
	}
	maxTokens := opts.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 4096
	}
	return &anthropicCompleter{
		client:    sdk.NewClient(option.WithAPIKey(opts.APIKey)),
		model:     model,
		maxTokens: maxTokens,
	}
}

func (c *anthropicCompleter) complete(ctx context.Context, system, user string, temperature float64) (string, error) {
	msg, err := c.client.Messages.New(ctx, sdk.MessageNewParams{
		Model:     sdk.Model(c.model),
		MaxTokens: c.maxTokens,
		System: []sdk.TextBlockParam{
			{Text: system},
		},
		Messages: []sdk.MessageParam{
			sdk.NewUserMessage(sdk.NewTextBlock(user)),
		},
		Temperature: sdk.Float(temperature),
	})
	if err != nil {
		return "", eris.Wrap(err, "brain: anthropic completion")
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			sb.WriteString(block.Text)
		}
	}
	if sb.Len() == 0 {
		return "", eris.New("brain: anthropic returned no text content")
	}
	return sb.String(), nil
}
