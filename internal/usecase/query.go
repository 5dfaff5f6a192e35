package usecase

import (
	"context"
	"errors"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/league-sheets/internal/domain/sheet"
	"github.com/riskibarqy/league-sheets/internal/platform/cache"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
)

// SheetLoader loads one spreadsheet tab.
type SheetLoader interface {
	LoadSheet(ctx context.Context, spreadsheetID string, matcher sheet.TabMatcher) (sheet.Sheet, error)
}

// QueryResult is the only shape the query services return. Failures are
// reported through Status and FetchError; Err keeps the classified error for
// logs and tests.
type QueryResult[T any] struct {
	Data       []T
	FromCache  bool
	CachedAt   time.Time
	Status     QueryStatus
	FetchError string
	Err        error
}

// HasCachedAt reports whether the result carries a fetch timestamp.
func (r QueryResult[T]) HasCachedAt() bool {
	return !r.CachedAt.IsZero()
}

func newQueryResult[T any](res cache.Result[T]) QueryResult[T] {
	data := res.Data
	if data == nil {
		data = []T{}
	}
	status, err := classifyFetchError(res.Err)
	return QueryResult[T]{
		Data:       data,
		FromCache:  res.FromCache,
		CachedAt:   res.FetchedAt,
		Status:     status,
		FetchError: fetchErrorMessage(status, err),
		Err:        err,
	}
}

func invalidRequest[T any](err error) QueryResult[T] {
	return QueryResult[T]{
		Data:       []T{},
		Status:     StatusInvalidRequest,
		FetchError: err.Error(),
		Err:        err,
	}
}

func normalizeDivision(v string) string {
	return strings.ToLower(strings.TrimSpace(v))
}

func normalizeSpreadsheetIDs(in map[string]string) map[string]string {
	out := make(map[string]string, len(in))
	for division, id := range in {
		division = normalizeDivision(division)
		id = strings.TrimSpace(id)
		if division == "" || id == "" {
			continue
		}
		out[division] = id
	}
	return out
}

func sortedDivisions(ids map[string]string) []string {
	out := make([]string, 0, len(ids))
	for division := range ids {
		out = append(out, division)
	}
	slices.Sort(out)
	return out
}

// logQueryFailure logs at the severity each failure kind deserves. Missing
// tabs are an expected state early in the season.
func logQueryFailure(ctx context.Context, logger *logging.Logger, msg string, status QueryStatus, err error, args ...any) {
	args = append(args, "status", string(status), "error", err)
	switch {
	case errors.Is(err, ErrNotFound):
		logger.InfoContext(ctx, msg, args...)
	case errors.Is(err, ErrUnauthorized):
		logger.ErrorContext(ctx, msg, args...)
	default:
		logger.WarnContext(ctx, msg, args...)
	}
}
