package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/baharkarakas/classifieds-backend/internal/models"
	"github.com/baharkarakas/classifieds-backend/internal/permissions"
	"github.com/baharkarakas/classifieds-backend/internal/validate"
)

type APIError struct {
	Error   string      `json:"error"`
	Code    string      `json:"code"`
	Details interface{} `json:"details,omitempty"`
}

func WriteJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func WriteError(w http.ResponseWriter, status int, code, msg string, details interface{}) {
	WriteJSON(w, status, APIError{
		Error:   msg,
		Code:    code,
		Details: details,
	})
}

// WriteServiceError maps errors returned by services and repositories to
// HTTP responses. Anything unrecognised is logged and reported as 500.
func WriteServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var verrs validate.Errs
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &verrs):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request", verrs)
	case errors.As(err, &tooLarge):
		WriteError(w, http.StatusRequestEntityTooLarge, "payload_too_large", "request body too large", nil)
	case errors.Is(err, models.ErrUnauthenticated):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "authentication required", nil)
	case errors.Is(err, models.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", permissions.DeniedMessage, nil)
	case errors.Is(err, models.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", err.Error(), nil)
	case errors.Is(err, models.ErrConflict):
		WriteError(w, http.StatusConflict, "conflict", err.Error(), nil)
	default:
		slog.ErrorContext(r.Context(), "request failed", "method", r.Method, "path", r.URL.Path, "err", err)
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal error", nil)
	}
}

// MaxJSONBytes caps request bodies read by DecodeJSON.
const MaxJSONBytes = 1 << 20

// DecodeJSON reads a JSON body of at most MaxJSONBytes into dst. Decoding
// failures come back as validation errors; an oversized body as
// *http.MaxBytesError.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Field("body", "required")
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return err
		}
		return validate.Field("body", "invalid JSON: "+err.Error())
	}
	return nil
}

// PathID parses the named integer URL parameter. A malformed id matches no
// object, so it is reported as not found.
func PathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, models.ErrNotFound
	}
	return id, nil
}
