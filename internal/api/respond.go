package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"gwi.com/voicepilot/internal/core"
	"gwi.com/voicepilot/internal/store"
)

// errBadRequest marks malformed requests detected by the handlers.
var errBadRequest = errors.New("bad request")

func errorf(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, core.ErrConversationNotFound),
		errors.Is(err, core.ErrProjectNotFound),
		errors.Is(err, core.ErrTodoNotFound),
		errors.Is(err, core.ErrConfigNotFound),
		store.IsNotFound(err):
		return http.StatusNotFound
	case errors.Is(err, core.ErrConversationArchived),
		store.IsUniqueViolation(err),
		store.IsForeignKeyViolation(err):
		return http.StatusConflict
	case errors.Is(err, errBadRequest),
		errors.Is(err, core.ErrInvalidRole),
		errors.Is(err, core.ErrEmptyContent),
		errors.Is(err, core.ErrEmptyTitle),
		errors.Is(err, core.ErrEmptyName),
		store.IsValidation(err):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func (h *APIHandler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusOf(err)
	resp := errorResponse{Error: err.Error()}
	var known *store.KnownRequestError
	if errors.As(err, &known) {
		resp.Code = known.Code
	}
	if status == http.StatusInternalServerError {
		h.log.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		resp.Error = "internal server error"
	}
	writeJSON(w, status, resp)
}

func decode(r *http.Request, v any) error {
	if r.Body == nil || r.Body == http.NoBody {
		return nil
	}
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		return errors.Join(errBadRequest, err)
	}
	return nil
}
