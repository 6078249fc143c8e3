package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound matches any 404 APIError via errors.Is
var ErrNotFound = errors.New("not found")

// APIError is a non-2xx response. Detail is the server's message verbatim.
type APIError struct {
	Method     string
	Path       string
	StatusCode int
	Detail     string
}

func (e *APIError) Error() string {
	if e.Detail != "" {
		return e.Detail
	}
	return fmt.Sprintf("API error: %s %s returned %d %s",
		e.Method, e.Path, e.StatusCode, http.StatusText(e.StatusCode))
}

// Is lets errors.Is(err, ErrNotFound) match 404 responses
func (e *APIError) Is(target error) bool {
	return target == ErrNotFound && e.StatusCode == http.StatusNotFound
}

// errorBody covers both {"detail": "msg"} and validation lists
// {"detail": [{"loc": [...], "msg": "..."}]}
type errorBody struct {
	Detail json.RawMessage `json:"detail"`
}

func newAPIError(method, path string, status int, body []byte) *APIError {
	apiErr := &APIError{Method: method, Path: path, StatusCode: status}
	apiErr.Detail = parseDetail(body)
	if apiErr.Detail == "" && status == http.StatusForbidden {
		apiErr.Detail = "authentication failed: invalid API key"
	}
	return apiErr
}

func parseDetail(body []byte) string {
	var eb errorBody
	if err := json.Unmarshal(body, &eb); err != nil || len(eb.Detail) == 0 {
		return ""
	}

	var msg string
	if err := json.Unmarshal(eb.Detail, &msg); err == nil {
		return msg
	}

	var list []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(eb.Detail, &list); err == nil {
		msgs := make([]string, 0, len(list))
		for _, item := range list {
			if item.Msg != "" {
				msgs = append(msgs, item.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return strings.TrimSpace(string(eb.Detail))
}
