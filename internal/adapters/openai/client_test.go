package openai

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/devbush/lecturenotes/internal/domain"
)

var testPrompt = domain.PromptTemplate{ID: "standard", Name: "Standard Notes", Body: "Make notes:\n"}

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return NewClient(append([]Option{WithBaseURL(srv.URL)}, opts...)...)
}

func TestGenerate_Success(t *testing.T) {
	var got chatRequest
	var auth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, http.MethodPost, r.Method)
		auth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(body, &got))

		_, _ = w.Write([]byte(`{
			"choices": [{"message": {"role": "assistant", "content": "# Intro to Graphs\n- vertices"}}],
			"usage": {"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150}
		}`))
	})

	result, err := client.Generate(context.Background(), "graphs are fun", testPrompt, "sk-test")
	require.NoError(t, err)

	assert.Equal(t, "# Intro to Graphs\n- vertices", result.Content)
	assert.Equal(t, 150, result.TokensUsed)
	assert.InDelta(t, 0.00003, result.EstimatedCost, 1e-12)
	assert.Equal(t, DefaultModel, result.Model)

	assert.Equal(t, "Bearer sk-test", auth)
	assert.Equal(t, DefaultModel, got.Model)
	assert.Equal(t, 0.3, got.Temperature)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Equal(t, "Make notes:\ngraphs are fun", got.Messages[1].Content)
}

func TestGenerate_HTTPStatusWithEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	})

	_, err := client.Generate(context.Background(), "t", testPrompt, "sk-test")

	var statusErr *domain.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 429, statusErr.StatusCode)
	assert.Equal(t, "rate limited", statusErr.Message)
}

func TestGenerate_HTTPStatusWithoutEnvelope(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`<html>bad gateway</html>`))
	})

	_, err := client.Generate(context.Background(), "t", testPrompt, "sk-test")

	var statusErr *domain.HTTPStatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, 502, statusErr.StatusCode)
	assert.Empty(t, statusErr.Message)
}

func TestGenerate_Classification(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantErr error
	}{
		{"empty body", http.StatusOK, "", domain.ErrProtocol},
		{"empty body beats status", http.StatusInternalServerError, "  ", domain.ErrProtocol},
		{"not json", http.StatusOK, "hello", domain.ErrMalformedResponse},
		{"no choices", http.StatusOK, `{"choices": [], "usage": {"prompt_tokens": 1, "completion_tokens": 1}}`, domain.ErrMalformedResponse},
		{"no content", http.StatusOK, `{"choices": [{"message": {}}], "usage": {"prompt_tokens": 1, "completion_tokens": 1}}`, domain.ErrMalformedResponse},
		{"no usage", http.StatusOK, `{"choices": [{"message": {"content": "x"}}]}`, domain.ErrMalformedResponse},
		{"error envelope on 200", http.StatusOK, `{"error": {"message": "oops"}}`, domain.ErrMalformedResponse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})

			_, err := client.Generate(context.Background(), "t", testPrompt, "sk-test")
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestGenerate_NetworkError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	_, err := NewClient(WithBaseURL(url)).Generate(context.Background(), "t", testPrompt, "sk-test")
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestGenerate_MissingCredential(t *testing.T) {
	called := false
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	_, err := client.Generate(context.Background(), "t", testPrompt, "  ")
	assert.ErrorIs(t, err, domain.ErrCredentialMissing)
	assert.False(t, called, "no request may be sent without a key")
}

func TestGenerate_UnknownModelCostsZero(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"choices":[{"message":{"content":"notes"}}],"usage":{"prompt_tokens":10,"completion_tokens":5}}`))
	}, WithModel("local-llama"))

	result, err := client.Generate(context.Background(), "t", testPrompt, "sk-test")
	require.NoError(t, err)
	assert.Equal(t, 15, result.TokensUsed)
	assert.Zero(t, result.EstimatedCost)
}

func TestCost(t *testing.T) {
	assert.InDelta(t, 0.00003, Cost("gpt-4.1-nano", 100, 50), 1e-12)
	assert.InDelta(t, 0.000025, Cost("gpt-5-nano", 100, 50), 1e-12)
	assert.Zero(t, Cost("unknown", 100, 50))
}

func TestEstimateInput(t *testing.T) {
	text := strings.Repeat("a", 4000)
	est := EstimateInput("gpt-4.1-nano", text)

	assert.Equal(t, 1000, est.Tokens)
	assert.InDelta(t, 0.0001, est.Cost, 1e-12)
}

func TestWithBaseURLTrimsSlash(t *testing.T) {
	c := NewClient(WithBaseURL("http://localhost:8080/v1/"))
	assert.Equal(t, "http://localhost:8080/v1", c.baseURL)
}
