// Package openai implements the completion gateway on an
// OpenAI-compatible chat endpoint, for deployments that prefer it over
// the Yandex foundation-model API. Same port, same sampling knobs.
package openai

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/sashabaranov/go-openai"

	domain "github.com/bryanwahyu/mindanalyzer/internal/domain/analysis"
)

const (
	defaultModel = "gpt-4o-mini"
	temperature  = 0.1
	maxTokens    = 2000
	timeout      = 30 * time.Second
)

type Client struct {
	cli   *openai.Client
	model string
	log   zerolog.Logger
}

func NewClient(apiKey, model string, log zerolog.Logger) *Client {
	cfg := openai.DefaultConfig(apiKey)
	cfg.HTTPClient = &http.Client{Timeout: timeout}
	return &Client{cli: openai.NewClientWithConfig(cfg), model: model, log: log}
}

func (c *Client) Complete(ctx context.Context, prompt string) (string, error) {
	model := c.model
	if model == "" {
		model = defaultModel
	}
	req := openai.ChatCompletionRequest{
		Model:       model,
		Temperature: temperature,
		MaxTokens:   maxTokens,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: "You are a helpful assistant that always responds with valid JSON."},
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := c.cli.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			c.log.Error().
				Int("status", apiErr.HTTPStatusCode).
				Str("type", apiErr.Type).
				Msg("upstream returned an API error")
			return "", domain.Ef(domain.CodeUpstreamError, "status %d", apiErr.HTTPStatusCode)
		}
		return "", domain.Wrap(domain.CodeNetworkError, err, "chat completion call")
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return "", domain.E(domain.CodeEmptyReply, "no message content in reply")
	}
	return resp.Choices[0].Message.Content, nil
}
