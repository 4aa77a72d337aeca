package ai

import (
	"errors"
	"fmt"
	"net/http"
)

var (
	ErrCredentialMissing = errors.New("API key not set in environment")
	ErrFileNotFound      = errors.New("file not found")
	ErrFileRead          = errors.New("failed to read file")
	ErrTransport         = errors.New("request failed")
	ErrAPI               = errors.New("gemini API error")
	ErrMalformedResponse = errors.New("no text in response")
)

// APIError is returned for a non-success HTTP status. Body is empty when the
// caller asked for status-only reporting.
type APIError struct {
	StatusCode int
	Body       string
}

func (e *APIError) Error() string {
	status := fmt.Sprintf("%d %s", e.StatusCode, http.StatusText(e.StatusCode))
	if e.Body == "" {
		return fmt.Sprintf("%v: %s", ErrAPI, status)
	}
	return fmt.Sprintf("%v: %s | Body: %s", ErrAPI, status, e.Body)
}

// Is makes errors.Is(err, ErrAPI) match any APIError.
func (e *APIError) Is(target error) bool { return target == ErrAPI }
