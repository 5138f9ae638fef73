package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	pkgerrors "github.com/pkg/errors"
	"github.com/worldatlas/worldatlas-go/internal/apperror"
	"github.com/worldatlas/worldatlas-go/internal/countries"
	"github.com/worldatlas/worldatlas-go/internal/middleware"
	"github.com/worldatlas/worldatlas-go/internal/model"
	"github.com/worldatlas/worldatlas-go/internal/repository"
)

const maxBodyBytes = 1 << 20 // 1MB

var (
	errInvalidBody  = apperror.Validation("invalid request body")
	errBodyTooLarge = &apperror.Error{Kind: apperror.KindValidation, Message: "request body too large", StatusCode: http.StatusRequestEntityTooLarge}
)

// WriteError translates err into a status and a {message, stack} body.
// The stack is only rendered in development.
func WriteError(w http.ResponseWriter, r *http.Request, err error, devMode bool) {
	status, message := classify(err)

	if status >= http.StatusInternalServerError {
		slog.ErrorContext(r.Context(), "request failed",
			"method", r.Method, "path", r.URL.Path, "status", status, "error", err)
	}

	resp := model.ErrorResponse{Message: message}
	if devMode {
		if apperror.Stack(err) == "" {
			err = pkgerrors.WithStack(err)
		}
		stack := fmt.Sprintf("%+v", err)
		resp.Stack = &stack
	}
	writeJSON(w, status, resp)
}

// ErrorWriter returns WriteError bound to devMode, for use by middleware.
func ErrorWriter(devMode bool) middleware.ErrorWriter {
	return func(w http.ResponseWriter, r *http.Request, err error) {
		WriteError(w, r, err, devMode)
	}
}

func classify(err error) (int, string) {
	var verrs model.ValidationErrors
	var statusErr *countries.StatusError

	if appErr, ok := apperror.As(err); ok {
		return appErr.StatusCode, appErr.Message
	}
	switch {
	case errors.Is(err, repository.ErrDuplicateEmail):
		return http.StatusBadRequest, "User already exists"
	case errors.Is(err, repository.ErrInvalidID):
		return http.StatusNotFound, "Resource not found"
	case errors.As(err, &verrs):
		return http.StatusBadRequest, verrs.Error()
	case errors.Is(err, countries.ErrNotFound):
		return http.StatusNotFound, "Country not found"
	case errors.Is(err, countries.ErrEmptyQuery):
		return http.StatusBadRequest, err.Error()
	case errors.As(err, &statusErr), errors.Is(err, countries.ErrUpstreamDown):
		return http.StatusBadGateway, countries.ErrUpstreamDown.Error()
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// notFound handles unmatched routes.
func notFound(devMode bool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		WriteError(w, r, apperror.NotFound("Not Found - "+r.URL.RequestURI()), devMode)
	}
}

// decodeJSON reads a size-limited JSON body into v.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return errBodyTooLarge
		}
		return errInvalidBody
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
