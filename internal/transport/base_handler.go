package transport

import (
	"encoding/json"
	stderrors "errors"
	"io"
	"log/slog"
	"net/http"

	errors "github.com/frahmantamala/expense-tracker/internal"
	"github.com/frahmantamala/expense-tracker/pkg/logger"
)

// BaseHandler provides common functionality for HTTP handlers
type BaseHandler struct {
	Logger *slog.Logger
}

// NewBaseHandler creates a base handler with logger
func NewBaseHandler(lg *slog.Logger) *BaseHandler {
	if lg == nil {
		lg = logger.L()
	}
	return &BaseHandler{Logger: lg}
}

// WriteJSON writes a JSON response
func (h *BaseHandler) WriteJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.Logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteMessage writes the {"message": ...} acknowledgement used by mutations.
func (h *BaseHandler) WriteMessage(w http.ResponseWriter, message string) {
	h.WriteJSON(w, http.StatusOK, map[string]string{"message": message})
}

// WriteError flattens err into {"error": ...}. The status is always 200.
func (h *BaseHandler) WriteError(w http.ResponseWriter, err error) {
	appErr, ok := errors.IsAppError(err)
	if !ok {
		appErr = errors.NewInternalError("Internal server error", err)
	}

	switch appErr.Type {
	case errors.ErrorTypeInternal:
		h.Logger.Error("request failed", "code", appErr.Code, "error", err)
	default:
		h.Logger.Warn("request rejected", "code", appErr.Code, "message", appErr.GetDetailedMessage())
	}

	h.WriteJSON(w, http.StatusOK, appErr.ToResponse())
}

// DecodeJSON reads a JSON object from the request body into dst. An empty
// body leaves dst untouched.
func (h *BaseHandler) DecodeJSON(r *http.Request, dst interface{}) error {
	if r.Body == nil {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if stderrors.Is(err, io.EOF) {
			return nil
		}
		return errors.ErrInvalidRequestBody.WithCause(err)
	}
	return nil
}
