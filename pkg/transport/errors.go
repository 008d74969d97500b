package transport

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rhuss/chatproxy/pkg/api"
)

// HTTPStatusFromError maps an APIError kind to the HTTP status code sent to
// the client. Upstream errors keep the provider's status.
func HTTPStatusFromError(err *api.APIError) int {
	switch err.Kind {
	case api.ErrorKindBadRequest, api.ErrorKindUnknownModel:
		return http.StatusBadRequest
	case api.ErrorKindUpstreamError:
		if err.Status >= 100 && err.Status <= 999 {
			return err.Status
		}
		return http.StatusBadGateway
	case api.ErrorKindMissingCredential, api.ErrorKindInternalError:
		return http.StatusInternalServerError
	default:
		return http.StatusInternalServerError
	}
}

// AsAPIError returns err as an *api.APIError, classifying any other error
// as an internal error carrying its message.
func AsAPIError(err error) *api.APIError {
	var apiErr *api.APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	return api.NewInternalError(err.Error())
}

// WriteErrorResponse writes {"error": message} with the given status code.
func WriteErrorResponse(w http.ResponseWriter, apiErr *api.APIError, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(api.ErrorResponse{Error: apiErr.Message})
}

// WriteAPIError writes an APIError response, deriving the HTTP status code
// from the error kind.
func WriteAPIError(w http.ResponseWriter, apiErr *api.APIError) {
	WriteErrorResponse(w, apiErr, HTTPStatusFromError(apiErr))
}

// WriteError writes any error as an APIError response.
func WriteError(w http.ResponseWriter, err error) {
	WriteAPIError(w, AsAPIError(err))
}
