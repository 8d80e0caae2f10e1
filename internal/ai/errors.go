package ai

import (
	"encoding/json"
	"fmt"
)

// FailureKind classifies a completion failure.
type FailureKind string

const (
	// FailureNetwork covers transport-level errors: the request never got a
	// response.
	FailureNetwork FailureKind = "network"
	// FailureProvider covers non-2xx responses from the provider.
	FailureProvider FailureKind = "provider"
	// FailureMalformed covers 2xx responses missing the expected completion
	// field.
	FailureMalformed FailureKind = "malformed_response"
)

type CompletionError struct {
	Kind    FailureKind
	Message string
	Status  int // HTTP status for provider failures, zero otherwise
	cause   error
}

func (e *CompletionError) Error() string {
	if e.Status != 0 {
		return fmt.Sprintf("%s (%s, status %d)", e.Message, e.Kind, e.Status)
	}
	return fmt.Sprintf("%s (%s)", e.Message, e.Kind)
}

func (e *CompletionError) Unwrap() error { return e.cause }

func networkError(message string, cause error) *CompletionError {
	if cause != nil {
		message = message + ": " + cause.Error()
	}
	return &CompletionError{Kind: FailureNetwork, Message: message, cause: cause}
}

func providerError(status int, raw []byte) *CompletionError {
	msg := providerMessage(raw)
	if msg == "" {
		msg = fmt.Sprintf("provider request failed with status %d", status)
	}
	return &CompletionError{Kind: FailureProvider, Message: msg, Status: status}
}

func malformedError(message string, cause error) *CompletionError {
	return &CompletionError{Kind: FailureMalformed, Message: message, cause: cause}
}

// providerMessage pulls the provider-supplied error message out of an
// {"error":{"message":...}} body, if there is one.
func providerMessage(raw []byte) string {
	var parsed struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return ""
	}
	return parsed.Error.Message
}
