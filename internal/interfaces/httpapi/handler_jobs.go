package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/pickwise/survivor-league/internal/domain/runlog"
	"github.com/pickwise/survivor-league/internal/usecase"
)

type runReconciliationRequest struct {
	LookBackDays    int  `json:"lookBackDays" validate:"gte=0,lte=90"`
	LookForwardDays int  `json:"lookForwardDays" validate:"gte=0,lte=90"`
	DryRun          bool `json:"dryRun"`
}

// RunReconciliation triggers one reconciliation pass. An empty body runs
// with the configured defaults; the optional body can widen or narrow the
// bulk window or request a dry run.
func (h *Handler) RunReconciliation(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunReconciliation")
	defer span.End()

	req, err := decodeRunReconciliationRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	summary, err := h.reconciliationService.Run(ctx, usecase.RunOptions{
		LookBackDays:    req.LookBackDays,
		LookForwardDays: req.LookForwardDays,
		DryRun:          req.DryRun,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "reconciliation run failed",
			"dry_run", req.DryRun,
			"error", err,
		)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, summary)
}

// GetLatestReconciliationRun returns the most recent persisted run record.
func (h *Handler) GetLatestReconciliationRun(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestReconciliationRun")
	defer span.End()

	run, err := h.reconciliationService.LatestRun(ctx)
	if err != nil {
		h.logger.WarnContext(ctx, "get latest reconciliation run failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, runToDTO(run))
}

func decodeRunReconciliationRequest(r *http.Request) (runReconciliationRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req runReconciliationRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return runReconciliationRequest{}, nil
		}
		return runReconciliationRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}

type runDTO struct {
	ID                  int64     `json:"id"`
	StartedAt           time.Time `json:"startedAt"`
	FinishedAt          time.Time `json:"finishedAt"`
	DryRun              bool      `json:"dryRun"`
	Status              string    `json:"status"`
	Error               string    `json:"error,omitempty"`
	BulkCount           int       `json:"bulkRecordsProcessed"`
	OverdueCount        int       `json:"overdueRecordsFound"`
	IndividualCalls     int       `json:"individualCallsMade"`
	UpdatedCount        int       `json:"recordsUpdated"`
	CompletedCount      int       `json:"recordsNewlyCompleted"`
	PicksResolved       int       `json:"picksResolved"`
	MembershipsUpdated  int       `json:"membershipsUpdated"`
	CompetitionsUpdated int       `json:"competitionsUpdated"`
}

func runToDTO(run runlog.Run) runDTO {
	return runDTO{
		ID:                  run.ID,
		StartedAt:           run.StartedAt,
		FinishedAt:          run.FinishedAt,
		DryRun:              run.DryRun,
		Status:              string(run.Status),
		Error:               run.Error,
		BulkCount:           run.BulkCount,
		OverdueCount:        run.OverdueCount,
		IndividualCalls:     run.IndividualCalls,
		UpdatedCount:        run.UpdatedCount,
		CompletedCount:      run.CompletedCount,
		PicksResolved:       run.PicksResolved,
		MembershipsUpdated:  run.MembershipsUpdated,
		CompetitionsUpdated: run.CompetitionsUpdated,
	}
}
