package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/riskibarqy/league-sheets/internal/domain/ranking"
	"github.com/riskibarqy/league-sheets/internal/domain/standing"
	"github.com/riskibarqy/league-sheets/internal/platform/logging"
	"github.com/riskibarqy/league-sheets/internal/usecase"
)

type StandingsQuerier interface {
	Divisions() []string
	GetStandings(ctx context.Context, division string) usecase.QueryResult[standing.Standing]
}

type PowerRankingQuerier interface {
	Divisions() []string
	GetPowerRankings(ctx context.Context, division string, week int, subject ranking.Subject) usecase.QueryResult[ranking.Entry]
}

type Handler struct {
	standings     StandingsQuerier
	powerRankings PowerRankingQuerier
	logger        *logging.Logger
	validator     *validator.Validate
}

func NewHandler(standings StandingsQuerier, powerRankings PowerRankingQuerier, logger *logging.Logger) *Handler {
	if logger == nil {
		logger = logging.Default()
	}

	v := validator.New()
	_ = v.RegisterValidation("division", validDivision)

	return &Handler{
		standings:     standings,
		powerRankings: powerRankings,
		logger:        logger.Named("httpapi"),
		validator:     v,
	}
}

// validDivision accepts the short slugs used as keys in the spreadsheet maps.
func validDivision(fl validator.FieldLevel) bool {
	for _, r := range fl.Field().String() {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '-', r == '_', r == ' ':
		default:
			return false
		}
	}
	return true
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type standingsRequest struct {
	Division string `validate:"required,max=64,division"`
}

type powerRankingsRequest struct {
	Division string `validate:"required,max=64,division"`
	Week     int    `validate:"min=1,max=52"`
	Subject  string `validate:"omitempty,oneof=team player"`
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListDivisions(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "ListDivisions")
	defer span.End()

	byName := make(map[string]*divisionDTO)
	var names []string
	entry := func(name string) *divisionDTO {
		if d, ok := byName[name]; ok {
			return d
		}
		d := &divisionDTO{Name: name}
		byName[name] = d
		names = append(names, name)
		return d
	}
	if h.standings != nil {
		for _, name := range h.standings.Divisions() {
			entry(name).Standings = true
		}
	}
	if h.powerRankings != nil {
		for _, name := range h.powerRankings.Divisions() {
			entry(name).PowerRankings = true
		}
	}
	slices.Sort(names)

	items := make([]divisionDTO, 0, len(names))
	for _, name := range names {
		items = append(items, *byName[name])
	}
	writeSuccess(ctx, w, http.StatusOK, listDTO[divisionDTO]{Items: items})
}

func (h *Handler) GetStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetStandings")
	defer span.End()

	req := standingsRequest{Division: strings.TrimSpace(r.PathValue("division"))}
	if err := h.validateRequest(ctx, req); err != nil {
		h.logger.DebugContext(ctx, "request rejected", "error", err)
		writeError(ctx, w, err)
		return
	}

	res := h.standings.GetStandings(ctx, req.Division)
	if res.Status == usecase.StatusInvalidRequest {
		writeError(ctx, w, res.Err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toQueryResultDTO(res, toStandingDTO))
}

func (h *Handler) GetPowerRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := handlerSpan(r, "GetPowerRankings")
	defer span.End()

	week, err := parseWeek(r.PathValue("week"))
	if err != nil {
		writeError(ctx, w, err)
		return
	}

	req := powerRankingsRequest{
		Division: strings.TrimSpace(r.PathValue("division")),
		Week:     week,
		Subject:  strings.ToLower(strings.TrimSpace(r.URL.Query().Get("subject"))),
	}
	if err := h.validateRequest(ctx, req); err != nil {
		h.logger.DebugContext(ctx, "request rejected", "error", err)
		writeError(ctx, w, err)
		return
	}
	subject, err := ranking.ParseSubject(req.Subject)
	if err != nil {
		writeError(ctx, w, fmt.Errorf("%w: %v", usecase.ErrInvalidInput, err))
		return
	}

	res := h.powerRankings.GetPowerRankings(ctx, req.Division, req.Week, subject)
	if res.Status == usecase.StatusInvalidRequest {
		writeError(ctx, w, res.Err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, toQueryResultDTO(res, toRankingEntryDTO))
}

// parseWeek accepts "3" as well as the "w3" shorthand used in tab names.
func parseWeek(raw string) (int, error) {
	value := strings.TrimPrefix(strings.ToLower(strings.TrimSpace(raw)), "w")
	week, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%w: week must be a number, got %q", usecase.ErrInvalidInput, raw)
	}
	return week, nil
}

type listDTO[T any] struct {
	Items []T `json:"items"`
}

type divisionDTO struct {
	Name          string `json:"name"`
	Standings     bool   `json:"standings"`
	PowerRankings bool   `json:"powerRankings"`
}

type queryResultDTO[T any] struct {
	Items      []T    `json:"items"`
	FromCache  bool   `json:"fromCache"`
	CachedAt   string `json:"cachedAt,omitempty"`
	Status     string `json:"status"`
	FetchError string `json:"fetchError,omitempty"`
}

type standingDTO struct {
	Position      int    `json:"position"`
	Team          string `json:"team"`
	SheetRank     *int   `json:"sheetRank,omitempty"`
	Wins          int    `json:"wins"`
	Losses        int    `json:"losses"`
	GamesPlayed   int    `json:"gamesPlayed"`
	GameDiff      int    `json:"gameDiff"`
	GoalDiff      int    `json:"goalDiff"`
	WinPercentage string `json:"winPercentage"`
	InPlayoffs    bool   `json:"inPlayoffs"`
}

type rankingEntryDTO struct {
	Subject  string  `json:"subject"`
	Name     string  `json:"name"`
	Rank     *int    `json:"rank"`
	Points   float64 `json:"points"`
	History  []*int  `json:"history"`
	Movement *int    `json:"movement"`
}

func toQueryResultDTO[T, D any](res usecase.QueryResult[T], convert func(T) D) queryResultDTO[D] {
	items := make([]D, 0, len(res.Data))
	for _, item := range res.Data {
		items = append(items, convert(item))
	}

	out := queryResultDTO[D]{
		Items:      items,
		FromCache:  res.FromCache,
		Status:     string(res.Status),
		FetchError: res.FetchError,
	}
	if res.HasCachedAt() {
		out.CachedAt = res.CachedAt.UTC().Format(time.RFC3339)
	}
	return out
}

func toStandingDTO(s standing.Standing) standingDTO {
	return standingDTO{
		Position:      s.Position,
		Team:          s.Team,
		SheetRank:     s.SheetRank,
		Wins:          s.Wins,
		Losses:        s.Losses,
		GamesPlayed:   s.GamesPlayed(),
		GameDiff:      s.GameDiff,
		GoalDiff:      s.GoalDiff,
		WinPercentage: s.WinPercentage,
		InPlayoffs:    s.InPlayoffs,
	}
}

func toRankingEntryDTO(e ranking.Entry) rankingEntryDTO {
	history := e.History
	if history == nil {
		history = []*int{}
	}
	return rankingEntryDTO{
		Subject:  string(e.Subject),
		Name:     e.Name,
		Rank:     e.Rank,
		Points:   e.Points,
		History:  history,
		Movement: e.Movement,
	}
}
