package http

import (
	"errors"
	"net/http"

	"noskip/internal/core"
	"noskip/internal/log"
	"noskip/internal/storage"
)

// errBadRequest marks malformed input: unreadable JSON, bad query values.
var errBadRequest = errors.New("bad request")

var validationErrors = []error{
	core.ErrMissingDate,
	core.ErrInvalidDay,
	core.ErrInvalidMonth,
	core.ErrInvalidAmount,
	core.ErrEmptyName,
	core.ErrNameTooLong,
	core.ErrInvalidFrequency,
	core.ErrNoCustomDays,
	core.ErrInvalidPreferredTime,
	core.ErrEmptyCategory,
	core.ErrUnknownCategory,
	core.ErrInvalidSource,
	core.ErrNoteTooLong,
	core.ErrInvalidColor,
	core.ErrInvalidCycleType,
	core.ErrInvalidPayday,
	core.ErrDateBeforeStart,
	core.ErrDateInFuture,
}

// statusFor maps a service error to its HTTP status.
func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, core.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, storage.ErrDuplicate):
		return http.StatusConflict
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return http.StatusUnprocessableEntity
		}
	}
	return http.StatusInternalServerError
}

// writeError logs err and writes the mapped response. Internal details are
// never sent to the client.
func writeError(w http.ResponseWriter, r *http.Request, component, op string, err error) {
	ctx := r.Context()
	status := statusFor(err)
	fields := log.NewFields().WithOperation(op).WithError(err)
	logger := log.FromContext(ctx).WithComponent(component)

	if status == http.StatusInternalServerError {
		logger.ErrorContext(ctx, "Request failed", fields.ToSlice()...)
		InternalServerError().Write(w)
		return
	}
	logger.DebugContext(ctx, "Request rejected", append(fields.ToSlice(), log.FieldStatusCode, status)...)
	ErrorResponse(status, err.Error()).Write(w)
}
