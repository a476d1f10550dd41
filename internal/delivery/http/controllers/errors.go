package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	"evently/internal/delivery/http/helpers"
	"evently/internal/domain"
)

// writeServiceError maps domain sentinel errors to the API error vocabulary.
// Anything unmapped is a 500 and gets logged; sentinel failures are the
// caller's fault and stay quiet.
func writeServiceError(logger *slog.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, domain.ErrUserNotFound):
		helpers.WriteJSONError(w, http.StatusNotFound, helpers.ErrCodeNotFound, "resource not found")
	case errors.Is(err, domain.ErrForbidden), errors.Is(err, domain.ErrOrganizerNotApproved),
		errors.Is(err, domain.ErrUserBlocked):
		helpers.WriteJSONError(w, http.StatusForbidden, helpers.ErrCodeForbidden, err.Error())
	case errors.Is(err, domain.ErrInvalidInput):
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrAlreadyRegistered), errors.Is(err, domain.ErrDuplicateEmail):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeConflict, err.Error())
	case errors.Is(err, domain.ErrSoldOut):
		helpers.WriteJSONError(w, http.StatusConflict, helpers.ErrCodeSoldOut, err.Error())
	case errors.Is(err, domain.ErrEventStarted):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeTooLate, err.Error())
	case errors.Is(err, domain.ErrLocked):
		helpers.WriteJSONError(w, http.StatusUnprocessableEntity, helpers.ErrCodeLocked, err.Error())
	default:
		logger.ErrorContext(r.Context(), "request failed",
			"path", r.URL.Path, "method", r.Method, "err", err)
		helpers.WriteJSONError(w, http.StatusInternalServerError, helpers.ErrCodeInternalError, "internal server error")
	}
}
