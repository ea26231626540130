package recommend

import (
	"context"
	"errors"
	"os"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

const systemPrompt = "You are an e-commerce merchandising analyst. You propose product bundles and upsell offers that increase average order value, grounded strictly in the catalog and order data provided. Return strict JSON only."

const (
	completionMaxTokens   = 1500
	completionTemperature = 0.7
)

var DefaultModel = string(anthropic.ModelClaudeSonnet4_20250514)

// Completer is the external text-completion capability. A single call, no
// retries: any failure makes the caller fall through to the heuristic path.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
	ModelName() string
}

// AnthropicMessager is the subset of the Anthropic client the completer uses.
type AnthropicMessager interface {
	New(ctx context.Context, params anthropic.MessageNewParams, opts ...option.RequestOption) (*anthropic.Message, error)
}

type AnthropicCompleter struct {
	messages AnthropicMessager
	model    string
}

type AnthropicClientCreator func(apiKey string) AnthropicMessager

func defaultAnthropicCreator(apiKey string) AnthropicMessager {
	c := anthropic.NewClient(option.WithAPIKey(apiKey))
	return &c.Messages
}

// newAnthropicClient is the package-level creator, overridable in tests.
var newAnthropicClient AnthropicClientCreator = defaultAnthropicCreator

// NewAnthropicCompleterFromEnv returns an error when ANTHROPIC_API_KEY is
// absent; callers treat that as "generative path disabled" rather than fatal.
func NewAnthropicCompleterFromEnv() (*AnthropicCompleter, error) {
	apiKey := strings.TrimSpace(os.Getenv("ANTHROPIC_API_KEY"))
	if apiKey == "" {
		return nil, errors.New("ANTHROPIC_API_KEY not configured")
	}
	model := strings.TrimSpace(os.Getenv("AOVLIFT_LLM_MODEL"))
	if model == "" {
		model = DefaultModel
	}
	return &AnthropicCompleter{messages: newAnthropicClient(apiKey), model: model}, nil
}

func (a *AnthropicCompleter) ModelName() string { return a.model }

func (a *AnthropicCompleter) Complete(ctx context.Context, prompt string) (string, error) {
	resp, err := a.messages.New(ctx, anthropic.MessageNewParams{
		Model:       anthropic.Model(a.model),
		MaxTokens:   completionMaxTokens,
		System:      []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages:    []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(prompt))},
		Temperature: anthropic.Float(completionTemperature),
	})
	if err != nil {
		return "", err
	}
	var sb strings.Builder
	for _, b := range resp.Content {
		if b.Type == "text" {
			sb.WriteString(b.Text)
		}
	}
	return sb.String(), nil
}

func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "```") {
		parts := strings.SplitN(s, "\n", 2)
		if len(parts) == 2 {
			s = parts[1]
		}
		s = strings.TrimPrefix(s, "json")
		s = strings.TrimSpace(strings.TrimSuffix(s, "```"))
	}
	return s
}
