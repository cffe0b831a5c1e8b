package llm

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewGeminiClient(t *testing.T) {
	_, err := newGeminiClient(context.Background(), Config{})
	require.Error(t, err)

	client, err := newGeminiClient(context.Background(), Config{APIKey: "test-key"})
	require.NoError(t, err)
	assert.Equal(t, "gemini-2.0-flash", client.Model())
	assert.Equal(t, ProviderGemini, client.Provider())
}

func TestGeminiClient_Complete(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.True(t, strings.HasSuffix(r.URL.Path, "/models/gemini-2.0-flash:generateContent"), r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"candidates": [{
				"content": {"role": "model", "parts": [{"text": "Urgency: high."}]},
				"finishReason": "STOP"
			}]
		}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(context.Background(), Config{APIKey: "test-key", BaseURL: server.URL})
	require.NoError(t, err)

	reply, err := client.Complete(context.Background(), "Urgency?")
	require.NoError(t, err)
	assert.Equal(t, "Urgency: high.", reply)
}

func TestGeminiClient_CompleteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid", "status": "PERMISSION_DENIED"}}`))
	}))
	defer server.Close()

	client, err := newGeminiClient(context.Background(), Config{APIKey: "bad-key", BaseURL: server.URL})
	require.NoError(t, err)

	_, err = client.Complete(context.Background(), "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "generate content")
}
