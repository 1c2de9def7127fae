// Package openai talks to a chat-completion endpoint to turn transcripts into notes.
package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/devbush/lecturenotes/internal/domain"
	"github.com/devbush/lecturenotes/internal/ports"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://api.openai.com/v1"
	// DefaultModel is used when no model is configured.
	DefaultModel = "gpt-4.1-nano"
	// DefaultTimeout bounds one request, long transcripts included.
	DefaultTimeout = 5 * time.Minute

	systemMessage = "Your role is to take transcripts from lectures and transform them into studyable notes."
	temperature   = 0.3
)

// Client implements ports.NoteGenerator.
type Client struct {
	baseURL    string
	model      string
	httpClient *http.Client
	logger     *slog.Logger
}

// Option configures the Client.
type Option func(*Client)

// WithBaseURL points the client at a compatible endpoint.
func WithBaseURL(url string) Option {
	return func(c *Client) {
		if url != "" {
			c.baseURL = strings.TrimRight(url, "/")
		}
	}
}

// WithModel sets the model identifier.
func WithModel(model string) Option {
	return func(c *Client) {
		if model != "" {
			c.model = model
		}
	}
}

// WithTimeout sets the HTTP request timeout.
func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.httpClient.Timeout = d
		}
	}
}

// WithHTTPClient sets a custom HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		c.httpClient = client
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// NewClient creates a notes client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		baseURL:    DefaultBaseURL,
		model:      DefaultModel,
		httpClient: &http.Client{Timeout: DefaultTimeout},
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Model returns the configured model.
func (c *Client) Model() string {
	return c.model
}

type message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string    `json:"model"`
	Messages    []message `json:"messages"`
	Temperature float64   `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message *struct {
			Content *string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage *struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

type errorEnvelope struct {
	Error struct {
		Message string `json:"message"`
	} `json:"error"`
}

// Generate sends one chat-completion request. Failures are classified as
// ErrNetwork, ErrProtocol, *HTTPStatusError or ErrMalformedResponse, checked
// in that order. Nothing is retried.
func (c *Client) Generate(ctx context.Context, transcript string, prompt domain.PromptTemplate, apiKey string) (*domain.NoteResult, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, domain.ErrCredentialMissing
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []message{
			{Role: "system", Content: systemMessage},
			{Role: "user", Content: prompt.UserMessage(transcript)},
		},
		Temperature: temperature,
	})
	if err != nil {
		return nil, fmt.Errorf("encode request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+apiKey)

	c.logger.Info("requesting notes", "model", c.model, "prompt", prompt.ID, "transcript_chars", len(transcript))

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrNetwork, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: reading body: %v", domain.ErrNetwork, err)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, fmt.Errorf("%w (HTTP %d)", domain.ErrProtocol, resp.StatusCode)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		statusErr := &domain.HTTPStatusError{StatusCode: resp.StatusCode}
		var env errorEnvelope
		if json.Unmarshal(data, &env) == nil {
			statusErr.Message = env.Error.Message
		}
		c.logger.Warn("notes request rejected", "status", resp.StatusCode, "message", statusErr.Message)
		return nil, statusErr
	}

	result, err := c.parse(data)
	if err != nil {
		return nil, err
	}

	c.logger.Info("notes generated", "tokens", result.TokensUsed, "cost", result.EstimatedCost)
	return result, nil
}

func (c *Client) parse(data []byte) (*domain.NoteResult, error) {
	var parsed chatResponse
	if err := json.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrMalformedResponse, err)
	}
	if len(parsed.Choices) == 0 || parsed.Choices[0].Message == nil || parsed.Choices[0].Message.Content == nil {
		return nil, fmt.Errorf("%w: missing choices[0].message.content", domain.ErrMalformedResponse)
	}
	if parsed.Usage == nil {
		return nil, fmt.Errorf("%w: missing usage", domain.ErrMalformedResponse)
	}
	if parsed.Usage.PromptTokens < 0 || parsed.Usage.CompletionTokens < 0 {
		return nil, fmt.Errorf("%w: negative token counts", domain.ErrMalformedResponse)
	}

	if _, ok := PriceFor(c.model); !ok {
		c.logger.Warn("no price for model, reporting zero cost", "model", c.model)
	}

	usage := parsed.Usage
	return &domain.NoteResult{
		Content:       *parsed.Choices[0].Message.Content,
		Model:         c.model,
		TokensUsed:    usage.PromptTokens + usage.CompletionTokens,
		EstimatedCost: Cost(c.model, usage.PromptTokens, usage.CompletionTokens),
	}, nil
}

var _ ports.NoteGenerator = (*Client)(nil)
