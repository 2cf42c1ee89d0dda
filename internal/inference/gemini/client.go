// Package gemini implements inference.Completer with the Gemini generateContent API.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/avast/retry-go"
	"resty.dev/v3"

	"github.com/at-ishikawa/wordlog/internal/config"
	"github.com/at-ishikawa/wordlog/internal/inference"
)

type Client struct {
	httpClient       *resty.Client
	model            string
	maxRetryAttempts uint
}

func NewClient(cfg config.GeminiConfig) *Client {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetHeader("x-goog-api-key", cfg.APIKey)
	client.SetHeader("Content-Type", "application/json")
	if cfg.Timeout > 0 {
		client.SetTimeout(cfg.Timeout)
	}

	return &Client{
		httpClient:       client,
		model:            cfg.Model,
		maxRetryAttempts: cfg.MaxRetryAttempts,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

// GetModel returns the model name configured for this client
func (client *Client) GetModel() string {
	return client.model
}

type GenerateContentRequest struct {
	Contents []Content `json:"contents"`
}

type Content struct {
	Role  string `json:"role,omitempty"`
	Parts []Part `json:"parts"`
}

type Part struct {
	Text string `json:"text"`
}

type GenerateContentResponse struct {
	Candidates    []Candidate    `json:"candidates"`
	UsageMetadata *UsageMetadata `json:"usageMetadata,omitempty"`
}

type Candidate struct {
	Content      Content `json:"content"`
	FinishReason string  `json:"finishReason"`
}

type UsageMetadata struct {
	PromptTokenCount     int `json:"promptTokenCount"`
	CandidatesTokenCount int `json:"candidatesTokenCount"`
	TotalTokenCount      int `json:"totalTokenCount"`
}

// text returns the first part of the first candidate, or "" when there is none.
func (r *GenerateContentResponse) text() string {
	if r == nil || len(r.Candidates) == 0 {
		return ""
	}
	parts := r.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}

// isRetryableError reports rate limiting, server errors and transport failures.
func isRetryableError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	if errors.Is(err, inference.ErrEmptyResponse) {
		return false
	}
	var httpErr *inference.HTTPError
	if errors.As(err, &httpErr) {
		return httpErr.StatusCode == http.StatusTooManyRequests || httpErr.StatusCode >= http.StatusInternalServerError
	}
	return true
}

// Complete implements the inference.Completer interface.
// Failed calls are only retried when maxRetryAttempts is positive.
func (client *Client) Complete(ctx context.Context, prompt string) (string, error) {
	var result string
	if err := retry.Do(
		func() error {
			text, err := client.complete(ctx, prompt)
			if err != nil {
				return err
			}
			result = text
			return nil
		},
		retry.Context(ctx),
		retry.Attempts(client.maxRetryAttempts+1),
		retry.RetryIf(isRetryableError),
		retry.LastErrorOnly(true),
		retry.DelayType(func(n uint, err error, config *retry.Config) time.Duration {
			return retry.BackOffDelay(n, err, config)
		}),
	); err != nil {
		return "", err
	}
	return result, nil
}

func (client *Client) complete(ctx context.Context, prompt string) (string, error) {
	requestBody := GenerateContentRequest{
		Contents: []Content{
			{Parts: []Part{{Text: prompt}}},
		},
	}

	response, err := client.httpClient.R().
		SetContext(ctx).
		SetPathParam("model", client.model).
		SetBody(requestBody).
		SetResult(&GenerateContentResponse{}).
		Post("/models/{model}:generateContent")
	if err != nil {
		return "", fmt.Errorf("httpClient.Post > %w", err)
	}
	if !response.IsSuccess() {
		return "", &inference.HTTPError{
			StatusCode: response.StatusCode(),
			Body:       response.String(),
		}
	}

	responseBody, _ := response.Result().(*GenerateContentResponse)
	slog.Default().Debug("gemini response content",
		"model", client.model,
		"request", requestBody,
		"response", responseBody,
	)

	text := responseBody.text()
	if text == "" {
		return "", inference.ErrEmptyResponse
	}
	return text, nil
}
