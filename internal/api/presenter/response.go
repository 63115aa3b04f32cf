package presenter

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/skaut/skautis-gate/internal/api/middleware"
	"github.com/skaut/skautis-gate/internal/service"
)

// ErrorResponse is the JSON body of every failed request. The
// correlation ID lets a user quote the denial to an administrator, who
// can then find it in the audit trail.
type ErrorResponse struct {
	Error         string `json:"error"`
	CorrelationID string `json:"correlation_id"`

	// RetryURL points the user somewhere to try again, e.g. the
	// registration endpoint after a fresh skautIS login.
	RetryURL string `json:"retry_url,omitempty"`
}

func JSON(w http.ResponseWriter, r *http.Request, data any, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Ctx(r.Context()).Error().Err(err).Msg("failed to write json response")
	}
}

func Error(w http.ResponseWriter, r *http.Request, msg string, status int) {
	ErrorWithRetry(w, r, msg, "", status)
}

// ErrorWithRetry is Error plus a retry link for user-facing denials.
func ErrorWithRetry(w http.ResponseWriter, r *http.Request, msg, retryURL string, status int) {
	JSON(w, r, ErrorResponse{
		Error:         msg,
		CorrelationID: middleware.CorrelationCtx(r.Context()),
		RetryURL:      retryURL,
	}, status)
}

// Err renders a service error, honoring the status it carries. Errors
// without an explicit status render as 400.
func Err(w http.ResponseWriter, r *http.Request, err error, short string) {
	status := http.StatusBadRequest
	var httpErr *service.HTTPError
	if errors.As(err, &httpErr) {
		status = httpErr.StatusCode
	}
	Error(w, r, short+": "+err.Error(), status)
}
