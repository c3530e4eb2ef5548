package httpserver

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/Juan-Andres-Motta/proyecto-2-backend-sub002/internal/errs"
)

// Respond writes a JSON response with the given status code.
func Respond(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encoding response", "error", err)
	}
}

// ErrorResponse is the single JSON error envelope written at every edge:
// error_code (machine-readable, specific), message (human-readable), type
// (the broad error category), details (field-level validation failures,
// only present on a validation response).
type ErrorResponse struct {
	ErrorCode string            `json:"error_code"`
	Message   string            `json:"message"`
	Type      string            `json:"type"`
	Details   []ValidationError `json:"details,omitempty"`
}

// RespondError writes a JSON error response with an explicit status and
// error type (e.g. "bad_request", "unavailable"). error_code defaults to
// the upper-cased type when the caller has no finer-grained code.
func RespondError(w http.ResponseWriter, status int, errType string, message string) {
	Respond(w, status, ErrorResponse{
		ErrorCode: strings.ToUpper(errType),
		Message:   message,
		Type:      errType,
	})
}

// RespondErr translates an error into the single JSON error envelope (C10).
// Every handler that returns early on error should call this exactly once
// at the edge, rather than writing its own status/body pair. If err does
// not carry an *errs.Error, it is treated as Internal and logged with its
// full detail; the client never sees anything but the generic message.
func RespondErr(w http.ResponseWriter, logger *slog.Logger, err error) {
	e, ok := errs.As(err)
	if !ok {
		logger.Error("unhandled error reaching edge", "error", err)
		Respond(w, http.StatusInternalServerError, ErrorResponse{
			ErrorCode: strings.ToUpper(string(errs.Internal)),
			Message:   "internal error",
			Type:      string(errs.Internal),
		})
		return
	}

	if e.Kind == errs.Internal {
		logger.Error("internal error", "error", e, "code", e.Code)
		Respond(w, e.HTTPStatus(), ErrorResponse{
			ErrorCode: errorCode(e),
			Message:   "internal error",
			Type:      string(e.Kind),
		})
		return
	}

	Respond(w, e.HTTPStatus(), ErrorResponse{
		ErrorCode: errorCode(e),
		Message:   e.Message,
		Type:      string(e.Kind),
	})
}

// errorCode picks the envelope's error_code: the error's specific
// sub-code when one was attached with WithCode, otherwise the upper-cased
// Kind.
func errorCode(e *errs.Error) string {
	if e.Code != "" {
		return e.Code
	}
	return strings.ToUpper(string(e.Kind))
}
