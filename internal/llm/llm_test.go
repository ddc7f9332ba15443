package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luckylabs-yuno/yuno/internal/model"
)

func TestNewCompletionRequestSplitsSystem(t *testing.T) {
	req := NewCompletionRequest("m", []model.ChatMessage{
		{Role: model.RoleSystem, Content: "You are Yuno."},
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleSystem, Content: "  "},
		{Role: model.RoleAssistant, Content: "hello"},
		{Role: model.RoleSystem, Content: "Be brief."},
	})

	assert.Equal(t, "m", req.Model)
	assert.Equal(t, "You are Yuno.\n\nBe brief.", req.System)
	assert.Equal(t, []model.ChatMessage{
		{Role: model.RoleUser, Content: "hi"},
		{Role: model.RoleAssistant, Content: "hello"},
	}, req.Messages)
}

func TestNewClient(t *testing.T) {
	c, err := NewClient(ProviderOpenAI, "sk-test", "")
	require.NoError(t, err)
	assert.Equal(t, "openai", c.Name())

	c, err = NewClient(ProviderAnthropic, "sk-ant-test", "")
	require.NoError(t, err)
	assert.Equal(t, "anthropic", c.Name())

	_, err = NewClient("mistral", "key", "")
	assert.Error(t, err)

	_, err = NewClient(ProviderOpenAI, "", "")
	assert.Error(t, err)
}

func TestOpenAIComplete(t *testing.T) {
	var body struct {
		Model    string `json:"model"`
		Messages []struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"messages"`
	}

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"model": "gpt-4o-mini",
			"choices": [{"index": 0, "message": {"role": "assistant", "content": "We open at 9."}, "finish_reason": "stop"}],
			"usage": {"prompt_tokens": 12, "completion_tokens": 5, "total_tokens": 17}
		}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", srv.URL)
	require.NoError(t, err)

	resp, err := c.Complete(context.Background(), &CompletionRequest{
		System:   "You are Yuno.",
		Messages: []model.ChatMessage{{Role: model.RoleUser, Content: "When do you open?"}},
	})
	require.NoError(t, err)

	assert.Equal(t, "We open at 9.", resp.Content)
	assert.Equal(t, "gpt-4o-mini", resp.Model)
	assert.Equal(t, 12, resp.TokensIn)
	assert.Equal(t, 5, resp.TokensOut)
	assert.Equal(t, "stop", resp.StopReason)

	assert.Equal(t, defaultOpenAIModel, body.Model)
	require.Len(t, body.Messages, 2)
	assert.Equal(t, "system", body.Messages[0].Role)
	assert.Equal(t, "You are Yuno.", body.Messages[0].Content)
	assert.Equal(t, "user", body.Messages[1].Role)
}

func TestOpenAICompleteError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error": {"message": "slow down", "type": "rate_limit"}}`))
	}))
	defer srv.Close()

	c, err := NewOpenAIClient("sk-test", srv.URL)
	require.NoError(t, err)

	_, err = c.Complete(context.Background(), &CompletionRequest{
		Messages: []model.ChatMessage{{Role: model.RoleUser, Content: "hi"}},
	})
	assert.Error(t, err)
}
