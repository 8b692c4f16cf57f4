package endpoints

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/Nixie-Tech-LLC/iftar/internal/anchor"
	"github.com/Nixie-Tech-LLC/iftar/internal/http/api"
	"github.com/Nixie-Tech-LLC/iftar/internal/schedule"
)

// serviceError maps scheduling errors onto HTTP statuses.
func serviceError(err error, msg string) *api.APIError {
	switch {
	case errors.Is(err, schedule.ErrNotFound):
		return &api.APIError{Code: http.StatusNotFound, Message: err.Error()}
	case errors.Is(err, schedule.ErrInvalidMedication),
		errors.Is(err, schedule.ErrInvalidSettings),
		errors.Is(err, schedule.ErrInvalidDate),
		errors.Is(err, anchor.ErrUnknownMethod):
		return &api.APIError{Code: http.StatusBadRequest, Message: err.Error()}
	case errors.Is(err, schedule.ErrInvalidTransition):
		return &api.APIError{Code: http.StatusConflict, Message: err.Error()}
	case errors.Is(err, schedule.ErrNoLocation):
		return &api.APIError{Code: http.StatusUnprocessableEntity, Message: err.Error()}
	case schedule.IsAnchorUnavailable(err), errors.Is(err, schedule.ErrExportDisabled):
		return &api.APIError{Code: http.StatusServiceUnavailable, Message: err.Error()}
	}
	log.Error().Err(err).Msg(msg)
	return &api.APIError{Code: http.StatusInternalServerError, Message: msg}
}
