package httpapi

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"time-tracker-gateway/internal/errors"
)

type errorBody struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// decodeJSON reads the request body into v. An empty body decodes as {};
// unknown members are ignored.
func (h *Handler) decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, h.maxBodyBytes))
	if err != nil {
		return errors.NewValidationError("request body too large or unreadable", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(body, v); err != nil {
		return errors.NewValidationError("invalid JSON body", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps err onto a status and an {error, details?} body.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := errors.HTTPStatus(err)
	body := errorBody{Error: "internal server error"}

	if appErr, ok := errors.AsAppError(err); ok {
		body.Error = appErr.Message
		if details, ok := appErr.GetContext(errors.ContextGraphQLErrors); ok {
			body.Details = details
		}
	}

	if errors.ShouldLogError(err) {
		h.logger.WithFields(logrus.Fields{
			"rid":             RequestID(r.Context()),
			"error_code":      errors.GetErrorCode(err),
			"upstream_status": errors.TransportStatus(err),
		}).WithError(err).Error("request failed")
	}

	writeJSON(w, status, body)
}
