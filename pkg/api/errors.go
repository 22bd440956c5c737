package api

import (
	"encoding/json"
	"net/http"
)

// ErrorKind classifies how a request failed.
type ErrorKind string

const (
	// KindNetworkFailure means the transport could not complete the call.
	KindNetworkFailure ErrorKind = "network_failure"
	// KindUnauthorized means the server rejected the credentials and the
	// refresh cycle did not recover the call.
	KindUnauthorized ErrorKind = "unauthorized"
	// KindServerRejected means a non-2xx response with a structured reason.
	KindServerRejected ErrorKind = "server_rejected"
	// KindMalformedResponse means a 2xx body that failed to parse.
	KindMalformedResponse ErrorKind = "malformed_response"
	// KindNoRefreshToken means a refresh was attempted with no session.
	KindNoRefreshToken ErrorKind = "no_refresh_token"
)

// Error is the single failure shape surfaced by every API operation.
// Message is human-readable, server-sourced when the server provided one.
type Error struct {
	Kind    ErrorKind
	Status  int
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func networkError(err error) *Error {
	return &Error{Kind: KindNetworkFailure, Message: "network error: " + err.Error()}
}

func malformedError() *Error {
	return &Error{Kind: KindMalformedResponse, Message: "unexpected response from server"}
}

// statusError normalizes a non-2xx response: the message comes from a
// structured body field when present, else from the status text.
func statusError(status int, body []byte) *Error {
	kind := KindServerRejected
	if status == http.StatusUnauthorized {
		kind = KindUnauthorized
	}
	return &Error{Kind: kind, Status: status, Message: errorMessage(body, status)}
}

func errorMessage(body []byte, status int) string {
	var payload struct {
		Detail  string `json:"detail"`
		Err     string `json:"error"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &payload); err == nil {
		switch {
		case payload.Detail != "":
			return payload.Detail
		case payload.Err != "":
			return payload.Err
		case payload.Message != "":
			return payload.Message
		}
	}
	if text := http.StatusText(status); text != "" {
		return text
	}
	return "request failed"
}

// decode parses a 2xx body into the expected shape, collapsing parse
// failures into the uniform malformed-response error.
func decode[T any](body []byte) (T, error) {
	var out T
	if err := json.Unmarshal(body, &out); err != nil {
		return out, malformedError()
	}
	return out, nil
}
