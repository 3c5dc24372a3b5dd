package client

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
)

// FallbackMessage is shown when the server gave no usable detail.
const FallbackMessage = "An error occurred. Please try again."

var (
	ErrUnavailable  = errors.New("server unavailable")
	ErrUnauthorized = errors.New("unauthorized")
	ErrNotFound     = errors.New("not found")
)

// RemoteError is a non-2xx answer from the server.
type RemoteError struct {
	StatusCode int
	Detail     string
}

func (e *RemoteError) Error() string {
	if e.Detail == "" {
		return FallbackMessage
	}
	return e.Detail
}

// Is lets a RemoteError match the sentinel implied by its status code.
func (e *RemoteError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == http.StatusUnauthorized || e.StatusCode == http.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	}
	return false
}

// Message returns the user-facing text for err: the server's detail when
// there is one, otherwise FallbackMessage.
func Message(err error) string {
	var re *RemoteError
	if errors.As(err, &re) {
		return re.Error()
	}
	return FallbackMessage
}

// parseDetail extracts "detail" from an error body. It accepts the plain
// string form and the list-of-objects form used for request validation.
func parseDetail(body []byte) string {
	var envelope struct {
		Detail json.RawMessage `json:"detail"`
	}
	if err := json.Unmarshal(body, &envelope); err != nil || len(envelope.Detail) == 0 {
		return ""
	}

	var s string
	if err := json.Unmarshal(envelope.Detail, &s); err == nil {
		return s
	}

	var items []struct {
		Msg string `json:"msg"`
	}
	if err := json.Unmarshal(envelope.Detail, &items); err == nil {
		msgs := make([]string, 0, len(items))
		for _, it := range items {
			if it.Msg != "" {
				msgs = append(msgs, it.Msg)
			}
		}
		return strings.Join(msgs, "; ")
	}

	return ""
}
