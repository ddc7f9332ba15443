// Package llm provides the language model clients behind the reference
// inference endpoint.
package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

const defaultMaxTokens = 1024

// CompletionRequest represents a completion request. System carries the
// merged system prompt; Messages hold only user and assistant turns.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []model.ChatMessage
	MaxTokens   int
	Temperature float64
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// NewClient creates a new LLM client based on provider.
func NewClient(provider Provider, apiKey, baseURL string) (Client, error) {
	switch provider {
	case ProviderAnthropic:
		return NewAnthropicClient(apiKey, baseURL)
	case ProviderOpenAI:
		return NewOpenAIClient(apiKey, baseURL)
	default:
		return nil, fmt.Errorf("unknown llm provider %q", provider)
	}
}

// NewCompletionRequest turns a widget history into a completion request:
// system entries are merged into System and the rest keep their order.
func NewCompletionRequest(modelName string, messages []model.ChatMessage) *CompletionRequest {
	req := &CompletionRequest{Model: modelName}

	var system []string
	for _, m := range messages {
		if m.Role == model.RoleSystem {
			if s := strings.TrimSpace(m.Content); s != "" {
				system = append(system, s)
			}
			continue
		}
		req.Messages = append(req.Messages, m)
	}
	req.System = strings.Join(system, "\n\n")
	return req
}

func maxTokens(req *CompletionRequest) int {
	if req.MaxTokens > 0 {
		return req.MaxTokens
	}
	return defaultMaxTokens
}
