package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/alfredjeanlab/hrms/internal/model"
)

// APIError represents a non-2xx response from the server.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.StatusCode, e.Message)
}

// ServerMessage returns the message the server supplied, or "" when the
// body carried none and Message was filled from the status text.
func (e *APIError) ServerMessage() string {
	if e.Message == http.StatusText(e.StatusCode) {
		return ""
	}
	return e.Message
}

// newAPIError builds an APIError from a response body. The message comes
// from "message", then "error", then the raw body, then the status text.
func newAPIError(status int, body []byte) *APIError {
	var errResp struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &errResp) == nil {
		if errResp.Message != "" {
			return &APIError{StatusCode: status, Message: errResp.Message}
		}
		if errResp.Error != "" {
			return &APIError{StatusCode: status, Message: errResp.Error}
		}
	} else if text := strings.TrimSpace(string(body)); text != "" && len(text) < 512 && !strings.HasPrefix(text, "<") {
		return &APIError{StatusCode: status, Message: text}
	}
	return &APIError{StatusCode: status, Message: http.StatusText(status)}
}

func hasStatus(err error, code int) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == code
}

// IsForbidden reports whether err is an HTTP 403.
func IsForbidden(err error) bool { return hasStatus(err, http.StatusForbidden) }

// IsUnauthorized reports whether err is an HTTP 401.
func IsUnauthorized(err error) bool { return hasStatus(err, http.StatusUnauthorized) }

// IsNotFound reports whether err is an HTTP 404.
func IsNotFound(err error) bool { return hasStatus(err, http.StatusNotFound) }

// IgnoreForbidden turns a 403 on optional reference data into an empty page
// so the caller can degrade to an empty list for that one dependency.
func IgnoreForbidden[T any](p *model.Page[T], err error) (*model.Page[T], error) {
	if IsForbidden(err) {
		return &model.Page[T]{}, nil
	}
	return p, err
}
