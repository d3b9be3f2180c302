// Package yandex implements the completion gateway against a Yandex
// foundation-model endpoint. It issues exactly one HTTP call per
// request and maps every failure to an explicit pipeline code so the
// caller can tell a retryable upstream fault from bad input.
package yandex

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

const (
	defaultEndpoint = "https://llm.api.cloud.yandex.net/foundationModels/v1/completion"

	// sampling is pinned low to favor reproducible structured output
	temperature = 0.1
	maxTokens   = 2000

	// Timeout bounds the whole upstream exchange
	Timeout = 30 * time.Second

	// upstream bodies are logged truncated, never returned to callers
	maxLoggedBody = 1024
)

type Client struct {
	httpc    *http.Client
	endpoint string
	apiKey   string
	folderID string
	log      zerolog.Logger
}

func New(apiKey, folderID string, log zerolog.Logger) *Client {
	return &Client{
		httpc:    &http.Client{Timeout: Timeout},
		endpoint: defaultEndpoint,
		apiKey:   apiKey,
		folderID: folderID,
		log:      log,
	}
}

// NewWithEndpoint is for tests and non-default deployments
func NewWithEndpoint(apiKey, folderID, endpoint string, log zerolog.Logger) *Client {
	c := New(apiKey, folderID, log)
	c.endpoint = endpoint
	return c
}

type completionOptions struct {
	Stream      bool    `json:"stream"`
	Temperature float64 `json:"temperature"`
	MaxTokens   int     `json:"maxTokens"`
}

type message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

type completionRequest struct {
	ModelURI          string            `json:"modelUri"`
	CompletionOptions completionOptions `json:"completionOptions"`
	Messages          []message         `json:"messages"`
}

// completionResponse is the nested reply envelope; only the first
// alternative's message text is extracted, everything else discarded.
type completionResponse struct {
	Result struct {
		Alternatives []struct {
			Message struct {
				Role string `json:"role"`
				Text string `json:"text"`
			} `json:"message"`
		} `json:"alternatives"`
	} `json:"result"`
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	payload := completionRequest{
		ModelURI: fmt.Sprintf("gpt://%s/yandexgpt", c.folderID),
		CompletionOptions: completionOptions{
			Stream:      false,
			Temperature: temperature,
			MaxTokens:   maxTokens,
		},
		Messages: []message{
			{Role: "system", Text: "You are a helpful assistant that always responds with valid JSON."},
			{Role: "user", Text: prompt},
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", domain.Wrap(domain.CodeNetworkError, err, "marshal completion payload")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", domain.Wrap(domain.CodeNetworkError, err, "build completion request")
	}
	req.Header.Set("Authorization", "Api-Key "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpc.Do(req)
	if err != nil {
		return "", domain.Wrap(domain.CodeNetworkError, err, "completion call")
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", domain.Wrap(domain.CodeNetworkError, err, "read completion response")
	}

	if resp.StatusCode != http.StatusOK {
		c.log.Error().
			Int("status", resp.StatusCode).
			Str("body", truncate(string(raw), maxLoggedBody)).
			Msg("upstream returned non-success status")
		return "", domain.Ef(domain.CodeUpstreamError, "status %d", resp.StatusCode)
	}

	var envelope completionResponse
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return "", domain.Wrap(domain.CodeUpstreamError, err, "decode response envelope")
	}

	if len(envelope.Result.Alternatives) == 0 {
		return "", domain.E(domain.CodeEmptyReply, "no alternatives in reply")
	}
	text := envelope.Result.Alternatives[0].Message.Text
	if text == "" {
		return "", domain.E(domain.CodeEmptyReply, "empty message text")
	}
	return text, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
