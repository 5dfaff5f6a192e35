package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/league-sheets/internal/domain/standing"
	"github.com/riskibarqy/league-sheets/internal/platform/cache"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type StandingsService struct {
	loader       SheetLoader
	spreadsheets map[string]string
	layout       StandingsLayout
	cache        *cache.Store[standing.Standing]
	logger       *logging.Logger
}

// NewStandingsService serves division tables. spreadsheetIDs maps a division
// name to its spreadsheet id.
func NewStandingsService(
	loader SheetLoader,
	spreadsheetIDs map[string]string,
	layout StandingsLayout,
	store *cache.Store[standing.Standing],
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}
	return &StandingsService{
		loader:       loader,
		spreadsheets: normalizeSpreadsheetIDs(spreadsheetIDs),
		layout:       layout,
		cache:        store,
		logger:       logger.Named("standings"),
	}
}

// Divisions lists configured divisions in name order.
func (s *StandingsService) Divisions() []string {
	return sortedDivisions(s.spreadsheets)
}

func (s *StandingsService) GetStandings(ctx context.Context, division string) QueryResult[standing.Standing] {
	ctx, span := startQuerySpan(ctx, "usecase.StandingsService.GetStandings")
	defer span.End()

	division = normalizeDivision(division)
	spreadsheetID, ok := s.spreadsheets[division]
	if !ok {
		return invalidRequest[standing.Standing](fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division))
	}
	span.SetAttributes(attribute.String("league.division", division))

	res := newQueryResult(s.cache.Query(ctx, standingsKey(division), func(ctx context.Context) ([]standing.Standing, error) {
		return s.fetch(ctx, division, spreadsheetID)
	}))
	span.SetAttributes(
		attribute.String("league.query_status", string(res.Status)),
		attribute.Bool("league.from_cache", res.FromCache),
	)
	if res.Err != nil {
		span.RecordError(res.Err)
		logQueryFailure(ctx, s.logger, "standings query failed", res.Status, res.Err, "division", division)
	}
	return res
}

func (s *StandingsService) fetch(ctx context.Context, division, spreadsheetID string) ([]standing.Standing, error) {
	tab, err := s.loader.LoadSheet(ctx, spreadsheetID, StandingsTabs(division))
	if err != nil {
		return nil, fmt.Errorf("load standings sheet division=%s: %w", division, err)
	}

	rows := AssembleStandings(ExtractStandings(tab, s.layout))
	s.logger.DebugContext(ctx, "standings fetched", "division", division, "tab", tab.Title, "teams", len(rows))
	return rows, nil
}

func standingsKey(division string) string {
	return "standings:" + division
}
