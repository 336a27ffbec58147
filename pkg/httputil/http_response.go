package httputil

import (
	"net/http"

	"github.com/bytedance/sonic"
)

// ErrorResponse is the envelope for every non-2xx answer. Kind carries the
// failure class the handlers map sentinel errors into, so the client can react
// without parsing messages: a validation problem is retryable after edit, a
// busy decomposition after the running one finishes, an assist outage any time.
type ErrorResponse struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
	Details string `json:"details,omitempty"`
}

const (
	KindValidation        = "validation"
	KindNotFound          = "not_found"
	KindBusy              = "busy"
	KindAssistUnavailable = "assist_unavailable"
	KindInternal          = "internal"
)

func kindFor(statusCode int) string {
	switch {
	case statusCode == http.StatusNotFound:
		return KindNotFound
	case statusCode == http.StatusConflict:
		return KindBusy
	case statusCode == http.StatusBadGateway:
		return KindAssistUnavailable
	case statusCode >= http.StatusInternalServerError:
		return KindInternal
	default:
		return KindValidation
	}
}

func WriteErrorResponse(w http.ResponseWriter, statusCode int, message string, details error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	resp := ErrorResponse{
		Code:    statusCode,
		Kind:    kindFor(statusCode),
		Message: message,
	}
	if details != nil {
		resp.Details = details.Error()
	}

	sonic.ConfigFastest.NewEncoder(w).Encode(resp)
}

func WriteJSONResponse(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if body != nil {
		sonic.ConfigDefault.NewEncoder(w).Encode(body)
	}
}
