package services

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenRouterClientComplete(t *testing.T) {
	var got RequestPayload
	var auth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth = r.Header.Get("Authorization")
		_ = json.NewDecoder(r.Body).Decode(&got)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"the answer"}}]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient("secret", "")
	client.URL = server.URL

	text, err := client.Complete(context.Background(), "be brief", "what now?")
	require.NoError(t, err)
	assert.Equal(t, "the answer", text)

	assert.Equal(t, "Bearer secret", auth)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, DefaultMaxTokens, got.MaxTokens)
	assert.Equal(t, []ChatMessage{
		{Role: "system", Content: "be brief"},
		{Role: "user", Content: "what now?"},
	}, got.Messages)
}

func TestOpenRouterClientNoChoices(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[]}`))
	}))
	defer server.Close()

	client := NewOpenRouterClient("secret", "some/model")
	client.URL = server.URL

	_, err := client.Complete(context.Background(), "s", "u")
	assert.ErrorIs(t, err, ErrNoChoices)
}

func TestOpenRouterClientRequiresKey(t *testing.T) {
	_, err := NewOpenRouterClient("", "").Complete(context.Background(), "s", "u")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENROUTER_API_KEY")
}
