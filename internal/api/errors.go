package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Error is a non-2xx response. Message is the server's text, possibly empty.
type Error struct {
	Op      string
	Status  int
	Message string
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("%s failed: %d %s", e.Op, e.Status, http.StatusText(e.Status))
}

func (e *Error) NotFound() bool     { return e.Status == http.StatusNotFound }
func (e *Error) Unauthorized() bool { return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden }

func newError(op string, status int, body []byte) *Error {
	e := &Error{Op: op, Status: status}
	var payload struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	if json.Unmarshal(body, &payload) == nil {
		e.Message = strings.TrimSpace(payload.Message)
		if e.Message == "" {
			e.Message = strings.TrimSpace(payload.Error)
		}
	}
	return e
}

// Message picks the text a user should see for err: the server-provided
// message when there is one, otherwise fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	var verr interface{ For(string) string }
	if errors.As(err, &verr) {
		return err.Error()
	}
	return fallback
}
