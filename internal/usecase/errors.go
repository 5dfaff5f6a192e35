package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/league-sheets/internal/domain/sheet"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// QueryStatus tells a caller how to render a query result.
type QueryStatus string

const (
	StatusOK                 QueryStatus = "ok"
	StatusNotAvailable       QueryStatus = "not_available"
	StatusConfigurationError QueryStatus = "configuration_error"
	StatusUnavailable        QueryStatus = "unavailable"
	StatusInvalidRequest     QueryStatus = "invalid_request"
)

const notAvailableMessage = "not available yet"

// classifyFetchError maps an adapter error onto a usecase sentinel and the
// status shown to callers.
func classifyFetchError(err error) (QueryStatus, error) {
	switch {
	case err == nil:
		return StatusOK, nil
	case errors.Is(err, ErrInvalidInput):
		return StatusInvalidRequest, err
	case errors.Is(err, sheet.ErrNotFound):
		return StatusNotAvailable, fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, sheet.ErrAuth):
		return StatusConfigurationError, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	default:
		return StatusUnavailable, fmt.Errorf("%w: %w", ErrDependencyUnavailable, err)
	}
}

func fetchErrorMessage(status QueryStatus, err error) string {
	switch status {
	case StatusOK:
		return ""
	case StatusNotAvailable:
		return notAvailableMessage
	case StatusConfigurationError:
		return "data source is misconfigured"
	case StatusInvalidRequest:
		return err.Error()
	default:
		return "data source is unavailable"
	}
}
