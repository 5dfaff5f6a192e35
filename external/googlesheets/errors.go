package googlesheets

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/riskibarqy/league-sheets/internal/domain/sheet"
	"golang.org/x/oauth2"
	"google.golang.org/api/googleapi"
)

func markAuth(err error) error {
	return fmt.Errorf("%w: %w", sheet.ErrAuth, err)
}

// classify tags a raw API error with one of the sheet error kinds.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, sheet.ErrAuth) || errors.Is(err, sheet.ErrNotFound) || errors.Is(err, sheet.ErrTransient) {
		return err
	}

	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return markAuth(crerr.WithHint(err, "the service account token exchange was rejected"))
	}

	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == http.StatusUnauthorized || apiErr.Code == http.StatusForbidden:
			return markAuth(crerr.WithHint(err, "share the spreadsheet with the service account email"))
		case apiErr.Code == http.StatusNotFound:
			return fmt.Errorf("%w: %w", sheet.ErrNotFound, err)
		case apiErr.Code == http.StatusBadRequest && strings.Contains(apiErr.Message, "Unable to parse range"):
			return fmt.Errorf("%w: %w", sheet.ErrNotFound, err)
		}
	}

	return fmt.Errorf("%w: %w", sheet.ErrTransient, err)
}

// isRetryable reports whether a raw API error is worth another attempt.
func isRetryable(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

// isBreakerFailure counts only dependency-health failures against the breaker.
// Auth and not-found outcomes mean the API answered.
func isBreakerFailure(err error) bool {
	return errors.Is(err, sheet.ErrTransient)
}
