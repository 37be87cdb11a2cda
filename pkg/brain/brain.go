// Package brain is the reasoning collaborator of the investigation pipeline.
// It wraps an LLM provider behind three operations: planning search queries,
// selecting URLs worth crawling, and synthesizing the final dossier. Every
// reply is expected to be a single JSON object; anything else is reported as
// ErrMalformedReply so the caller can decide how the phase fails.
package brain

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
)

// ErrMalformedReply marks replies that could not be parsed as the expected
// JSON object.
var ErrMalformedReply = eris.New("brain: malformed model reply")

// Client defines the reasoning operations used by the pipeline.
type Client interface {
	Plan(ctx context.Context, target TargetInfo) (*Plan, error)
	SelectURLs(ctx context.Context, results []SearchResult) (*Selection, error)
	Synthesize(ctx context.Context, payload any) (*Dossier, error)
}

// TargetInfo is the classified target sent to the planner.
type TargetInfo struct {
	Raw   string `json:"target_raw"`
	Type  string `json:"target_type"`
	Clean string `json:"clean_value"`
}

// SearchResult is one search hit offered to the URL selector.
type SearchResult struct {
	Title   string `json:"title"`
	Link    string `json:"link"`
	Snippet string `json:"snippet"`
	Source  string `json:"source"`
}

// Plan is the planner's reply: a strategy note plus the queries to run.
type Plan struct {
	ThoughtProcess string   `json:"thought_process"`
	Dorks          []string `json:"dorks"`
}

// Selection is the URL selector's reply.
type Selection struct {
	SelectedURLs []string `json:"selected_urls"`
	Reasoning    string   `json:"reasoning"`
}

// Dossier is the synthesized final report.
type Dossier struct {
	Summary           string   `json:"summary"`
	KeyFacts          []string `json:"key_facts"`
	ExtractedContacts []string `json:"extracted_contacts"`
	ConfidenceScore   int      `json:"confidence_score"`
}

// Options configures the provider backing a Client.
type Options struct {
	Provider  string // "deepseek" or "anthropic"
	APIKey    string
	BaseURL   string // deepseek only
	Model     string
	MaxTokens int64
}

// completer is one chat turn against whatever provider backs the client.
type completer interface {
	complete(ctx context.Context, system, user string, temperature float64) (string, error)
}

type client struct {
	c completer
}

// NewClient creates a reasoning client for the configured provider.
func NewClient(opts Options) (Client, error) {
	if opts.APIKey == "" {
		return nil, eris.New("brain: missing API key")
	}
	switch opts.Provider {
	case "", "deepseek":
		return &client{c: newDeepSeekCompleter(opts)}, nil
	case "anthropic":
		return &client{c: newAnthropicCompleter(opts)}, nil
	}
	return nil, eris.Errorf("brain: unknown provider %q", opts.Provider)
}

func (b *client) Plan(ctx context.Context, target TargetInfo) (*Plan, error) {
	zap.S().Infow("brain: planning queries", "type", target.Type, "clean", target.Clean)

	user, err := json.Marshal(target)
	if err != nil {
		return nil, eris.Wrap(err, "brain: marshal plan payload")
	}

	raw, err := b.c.complete(ctx, planPrompt, string(user), 0.5)
	if err != nil {
		return nil, err
	}

	var plan Plan
	if err := decodeReply(raw, &plan); err != nil {
		return nil, err
	}
	if plan.Dorks == nil {
		plan.Dorks = []string{}
	}
	return &plan, nil
}

func (b *client) SelectURLs(ctx context.Context, results []SearchResult) (*Selection, error) {
	zap.S().Infow("brain: selecting urls", "candidates", len(results))

	user, err := json.Marshal(map[string]any{"results": results})
	if err != nil {
		return nil, eris.Wrap(err, "brain: marshal selection payload")
	}

	raw, err := b.c.complete(ctx, selectPrompt, string(user), 0.3)
	if err != nil {
		return nil, err
	}

	var sel Selection
	if err := decodeReply(raw, &sel); err != nil {
		return nil, err
	}
	if sel.SelectedURLs == nil {
		sel.SelectedURLs = []string{}
	}
	return &sel, nil
}

func (b *client) Synthesize(ctx context.Context, payload any) (*Dossier, error) {
	zap.S().Info("brain: synthesizing dossier")

	user, err := json.Marshal(payload)
	if err != nil {
		return nil, eris.Wrap(err, "brain: marshal synthesis payload")
	}

	raw, err := b.c.complete(ctx, synthesizePrompt, string(user), 0.35)
	if err != nil {
		return nil, err
	}

	var d Dossier
	if err := decodeReply(raw, &d); err != nil {
		return nil, err
	}
	if d.KeyFacts == nil {
		d.KeyFacts = []string{}
	}
	if d.ExtractedContacts == nil {
		d.ExtractedContacts = []string{}
	}
	return &d, nil
}

// decodeReply parses the model's reply into v. Models occasionally wrap the
// JSON in markdown fences or preamble text despite instructions, so the
// object is located between the first '{' and the last '}'.
func decodeReply(raw string, v any) error {
	s := strings.TrimSpace(raw)
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return eris.Wrapf(ErrMalformedReply, "no JSON object in reply: %.200s", s)
	}
	if err := json.Unmarshal([]byte(s[start:end+1]), v); err != nil {
		return eris.Wrapf(ErrMalformedReply, "decode reply: %v", err)
	}
	return nil
}
