// Package supabase implements the word and category repositories on the Supabase PostgREST API.
package supabase

import (
	"fmt"
	"strconv"
	"strings"

	"resty.dev/v3"
)

// ResponseError is returned when PostgREST answers with a non-2xx status.
type ResponseError struct {
	StatusCode int
	Body       string
}

func (e *ResponseError) Error() string {
	return fmt.Sprintf("supabase response error %d: %s", e.StatusCode, e.Body)
}

// Client is a PostgREST client authenticated with a project API key.
type Client struct {
	httpClient *resty.Client
}

func NewClient(projectURL, apiKey string) *Client {
	client := resty.New()
	client.SetBaseURL(strings.TrimRight(projectURL, "/") + "/rest/v1")
	client.SetHeader("apikey", apiKey)
	client.SetHeader("Authorization", "Bearer "+apiKey)
	client.SetHeader("Content-Type", "application/json")

	return &Client{
		httpClient: client,
	}
}

func (client *Client) Close() error {
	return client.httpClient.Close()
}

func (client *Client) R() *resty.Request {
	return client.httpClient.R()
}

func checkResponse(response *resty.Response, err error) error {
	if err != nil {
		return fmt.Errorf("httpClient.Execute > %w", err)
	}
	if !response.IsSuccess() {
		return &ResponseError{
			StatusCode: response.StatusCode(),
			Body:       response.String(),
		}
	}
	return nil
}

// parseContentRangeTotal reads the total from a header such as "0-24/3573" or "*/0".
func parseContentRangeTotal(contentRange string) (int, error) {
	_, total, ok := strings.Cut(contentRange, "/")
	if !ok || total == "*" {
		return 0, fmt.Errorf("no total in Content-Range %q", contentRange)
	}
	count, err := strconv.Atoi(total)
	if err != nil {
		return 0, fmt.Errorf("strconv.Atoi(%s) > %w", total, err)
	}
	return count, nil
}

func eq(value string) string {
	return "eq." + value
}
