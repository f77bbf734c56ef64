package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ErrServiceUnavailable is returned without a network call while the
// circuit breaker is open
var ErrServiceUnavailable = errors.New("flashcard service unavailable")

// APIError is a non-2xx reply from the service
type APIError struct {
	Status  int
	Message string
}

// Error returns the server-provided message, or a generic one
func (e *APIError) Error() string {
	return e.Message
}

// IsNotFound reports whether err is a 404 reply
func IsNotFound(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound
}

// newAPIError builds an APIError from a failed response, preferring the
// "error" (or "message") field of a JSON body
func newAPIError(resp *http.Response) *APIError {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))

	var payload struct {
		Error   string `json:"error"`
		Message string `json:"message"`
	}
	msg := ""
	if err := json.Unmarshal(body, &payload); err == nil {
		msg = strings.TrimSpace(payload.Error)
		if msg == "" {
			msg = strings.TrimSpace(payload.Message)
		}
	}
	if msg == "" {
		msg = fmt.Sprintf("Request failed with status code %d", resp.StatusCode)
	}

	return &APIError{Status: resp.StatusCode, Message: msg}
}
