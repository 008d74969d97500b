package api

import (
	"fmt"
	"strings"
)

// ErrorKind classifies a failure returned to the client.
type ErrorKind string

const (
	ErrorKindBadRequest        ErrorKind = "bad_request"
	ErrorKindUnknownModel      ErrorKind = "unknown_model"
	ErrorKindMissingCredential ErrorKind = "missing_credential"
	ErrorKindUpstreamError     ErrorKind = "upstream_error"
	ErrorKindInternalError     ErrorKind = "internal_error"
)

// APIError is a classified failure. Status is only meaningful for
// ErrorKindUpstreamError, where it carries the provider's HTTP status.
type APIError struct {
	Kind    ErrorKind
	Message string
	Status  int
}

// Error implements the error interface.
func (e *APIError) Error() string {
	if e.Kind == ErrorKindUpstreamError {
		return fmt.Sprintf("%s (%d): %s", e.Kind, e.Status, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// ErrorResponse is the JSON body written for every failed request.
type ErrorResponse struct {
	Error string `json:"error"`
}

// NewBadRequestError creates an APIError for a structurally invalid request.
func NewBadRequestError(message string) *APIError {
	return &APIError{Kind: ErrorKindBadRequest, Message: message}
}

// NewUnknownModelError creates an APIError for a model id with no adapter.
func NewUnknownModelError() *APIError {
	return &APIError{Kind: ErrorKindUnknownModel, Message: "Unknown model"}
}

// NewMissingCredentialError creates an APIError naming the absent credential.
func NewMissingCredentialError(name string) *APIError {
	return &APIError{
		Kind:    ErrorKindMissingCredential,
		Message: name + " not set in environment",
	}
}

// NewUpstreamError creates an APIError carrying a provider's error body
// verbatim together with its HTTP status.
func NewUpstreamError(status int, body string) *APIError {
	return &APIError{Kind: ErrorKindUpstreamError, Message: body, Status: status}
}

// NewInternalError creates an APIError for unexpected failures.
// An empty message becomes "Internal error".
func NewInternalError(message string) *APIError {
	if strings.TrimSpace(message) == "" {
		message = "Internal error"
	}
	return &APIError{Kind: ErrorKindInternalError, Message: message}
}
