package inference

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyResponse is returned when a successful reply carries no text.
	ErrEmptyResponse = errors.New("LLM API returned empty response")
	// ErrMalformedResponse matches every MalformedResponseError.
	ErrMalformedResponse = errors.New("malformed categorization response")
)

// HTTPError is returned when the text generation endpoint answers with a non-2xx status.
type HTTPError struct {
	StatusCode int
	Body       string
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("LLM API error: %d", e.StatusCode)
}

// MalformedResponseError is returned when a categorization reply is not a JSON array of results.
type MalformedResponseError struct {
	Reply string
	Err   error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("%v: %v", ErrMalformedResponse, e.Err)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Err
}

func (e *MalformedResponseError) Is(target error) bool {
	return target == ErrMalformedResponse
}
