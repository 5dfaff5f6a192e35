package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/platform/cache"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

const (
	MinWeek = 1
	MaxWeek = 52
)

type PowerRankingLayouts struct {
	Team   RankingsLayout
	Player RankingsLayout
}

func DefaultPowerRankingLayouts() PowerRankingLayouts {
	return PowerRankingLayouts{
		Team:   DefaultTeamRankingsLayout(),
		Player: DefaultPlayerRankingsLayout(),
	}
}

type PowerRankingService struct {
	loader       SheetLoader
	spreadsheets map[string]string
	layouts      PowerRankingLayouts
	cache        *cache.Store[ranking.Entry]
	logger       *logging.Logger
}

func NewPowerRankingService(
	loader SheetLoader,
	spreadsheetIDs map[string]string,
	layouts PowerRankingLayouts,
	store *cache.Store[ranking.Entry],
	logger *logging.Logger,
) *PowerRankingService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PowerRankingService{
		loader:       loader,
		spreadsheets: normalizeSpreadsheetIDs(spreadsheetIDs),
		layouts:      layouts,
		cache:        store,
		logger:       logger.Named("power_rankings"),
	}
}

func (s *PowerRankingService) Divisions() []string {
	return sortedDivisions(s.spreadsheets)
}

func (s *PowerRankingService) GetPowerRankings(ctx context.Context, division string, week int, subject ranking.Subject) QueryResult[ranking.Entry] {
	ctx, span := startQuerySpan(ctx, "usecase.PowerRankingService.GetPowerRankings")
	defer span.End()

	division = normalizeDivision(division)
	spreadsheetID, ok := s.spreadsheets[division]
	if !ok {
		return invalidRequest[ranking.Entry](fmt.Errorf("%w: unknown division %q", ErrInvalidInput, division))
	}
	if week < MinWeek || week > MaxWeek {
		return invalidRequest[ranking.Entry](fmt.Errorf("%w: week must be between %d and %d", ErrInvalidInput, MinWeek, MaxWeek))
	}
	layout, err := s.layoutFor(subject)
	if err != nil {
		return invalidRequest[ranking.Entry](err)
	}
	span.SetAttributes(
		attribute.String("league.division", division),
		attribute.Int("league.week", week),
		attribute.String("league.subject", string(subject)),
	)

	key := powerRankingKey(division, subject, week)
	res := newQueryResult(s.cache.Query(ctx, key, func(ctx context.Context) ([]ranking.Entry, error) {
		tab, err := s.loader.LoadSheet(ctx, spreadsheetID, PowerRankingTabs(division, week, subject))
		if err != nil {
			return nil, fmt.Errorf("load power rankings sheet division=%s week=%d subject=%s: %w", division, week, subject, err)
		}
		entries := AssembleRankings(ExtractRankings(tab, layout, subject))
		s.logger.DebugContext(ctx, "power rankings fetched", "division", division, "week", week, "tab", tab.Title, "entries", len(entries))
		return entries, nil
	}))
	span.SetAttributes(
		attribute.String("league.query_status", string(res.Status)),
		attribute.Bool("league.from_cache", res.FromCache),
	)
	if res.Err != nil {
		span.RecordError(res.Err)
		logQueryFailure(ctx, s.logger, "power rankings query failed", res.Status, res.Err,
			"division", division, "week", week, "subject", string(subject))
	}
	return res
}

func (s *PowerRankingService) layoutFor(subject ranking.Subject) (RankingsLayout, error) {
	switch subject {
	case ranking.SubjectTeam:
		return s.layouts.Team, nil
	case ranking.SubjectPlayer:
		return s.layouts.Player, nil
	default:
		return RankingsLayout{}, fmt.Errorf("%w: unknown subject %q", ErrInvalidInput, subject)
	}
}

func powerRankingKey(division string, subject ranking.Subject, week int) string {
	return fmt.Sprintf("power-rankings:%s:%s:w%d", division, subject, week)
}
