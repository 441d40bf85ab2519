package httpapi

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pickwise/survivor-league/internal/domain/competition"
	"github.com/pickwise/survivor-league/internal/domain/match"
	"github.com/pickwise/survivor-league/internal/domain/membership"
	"github.com/pickwise/survivor-league/internal/usecase"
)

type Handler struct {
	reconciliationService *usecase.ReconciliationService
	competitionService    *usecase.CompetitionService
	logger                *slog.Logger
	validator             *validator.Validate
}

func NewHandler(
	reconciliationService *usecase.ReconciliationService,
	competitionService *usecase.CompetitionService,
	logger *slog.Logger,
) *Handler {
	if logger == nil {
		logger = slog.Default()
	}

	return &Handler{
		reconciliationService: reconciliationService,
		competitionService:    competitionService,
		logger:                logger,
		validator:             validator.New(),
	}
}

func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.Healthz")
	defer span.End()

	writeSuccess(ctx, w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) ListCompetitions(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListCompetitions")
	defer span.End()

	comps, err := h.competitionService.ListCompetitions(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list competitions failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]competitionDTO, 0, len(comps))
	for _, c := range comps {
		items = append(items, competitionToDTO(c))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListMatchesByCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListMatchesByCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	matches, err := h.competitionService.ListMatches(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list matches failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]matchDTO, 0, len(matches))
	for _, m := range matches {
		items = append(items, matchToDTO(m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListStandingsByCompetition(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListStandingsByCompetition")
	defer span.End()

	competitionID := r.PathValue("competitionID")
	standings, err := h.competitionService.Standings(ctx, competitionID)
	if err != nil {
		h.logger.WarnContext(ctx, "list standings failed", "competition_id", competitionID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]standingDTO, 0, len(standings))
	for rank, m := range standings {
		items = append(items, standingToDTO(rank+1, m))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) validateRequest(ctx context.Context, payload any) error {
	ctx, span := startSpan(ctx, "httpapi.Handler.validateRequest")
	defer span.End()

	if err := h.validator.StructCtx(ctx, payload); err != nil {
		return fmt.Errorf("%w: validation failed: %v", usecase.ErrInvalidInput, err)
	}

	return nil
}

type competitionDTO struct {
	ID                string `json:"id"`
	Name              string `json:"name"`
	Code              string `json:"code"`
	Season            string `json:"season"`
	CurrentGameWeek   *int   `json:"currentGameWeek"`
	CurrentPickWeek   *int   `json:"currentPickWeek"`
	LastCompletedWeek *int   `json:"lastCompletedWeek"`
}

func competitionToDTO(c competition.Competition) competitionDTO {
	return competitionDTO{
		ID:                c.ID,
		Name:              c.Name,
		Code:              c.Code,
		Season:            c.Season,
		CurrentGameWeek:   c.Markers.CurrentGameWeek,
		CurrentPickWeek:   c.Markers.CurrentPickWeek,
		LastCompletedWeek: c.Markers.LastCompletedWeek,
	}
}

type matchDTO struct {
	ID         int64      `json:"id"`
	Week       int        `json:"week"`
	HomeTeam   string     `json:"homeTeam"`
	AwayTeam   string     `json:"awayTeam"`
	HomeScore  *int       `json:"homeScore"`
	AwayScore  *int       `json:"awayScore"`
	Status     string     `json:"status"`
	KickoffAt  time.Time  `json:"kickoffAt"`
	ExternalID int64      `json:"externalId,omitempty"`
	SyncedAt   *time.Time `json:"syncedAt,omitempty"`
}

func matchToDTO(m match.Match) matchDTO {
	return matchDTO{
		ID:         m.ID,
		Week:       m.Week,
		HomeTeam:   m.HomeTeam,
		AwayTeam:   m.AwayTeam,
		HomeScore:  m.HomeScore,
		AwayScore:  m.AwayScore,
		Status:     string(m.Status),
		KickoffAt:  m.KickoffAt,
		ExternalID: m.ExternalID,
		SyncedAt:   m.SyncedAt,
	}
}

type standingDTO struct {
	Rank     int    `json:"rank"`
	MemberID string `json:"memberId"`
	Points   int    `json:"points"`
	Strikes  int    `json:"strikes"`
	Active   bool   `json:"active"`
}

func standingToDTO(rank int, m membership.Membership) standingDTO {
	return standingDTO{
		Rank:     rank,
		MemberID: m.MemberID,
		Points:   m.Points,
		Strikes:  m.Strikes,
		Active:   m.Active,
	}
}
