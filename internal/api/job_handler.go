package api

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/api/shared"
	"github.com/cardifyai-code/cardifyai/internal/domain"
)

// JobHandler handles job polling and export requests.
type JobHandler struct {
	jobService JobService
}

// NewJobHandler creates a new JobHandler.
func NewJobHandler(jobService JobService) *JobHandler {
	return &JobHandler{
		jobService: jobService,
	}
}

// GetJob handles GET /api/jobs/{id} requests. Clients poll this until
// the job reaches a terminal status.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	found, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, jobToResponse(found))
}

// ExportCSV handles GET /api/jobs/{id}/export.csv requests. Only
// complete jobs can be exported; a job still in flight yields 409.
func (h *JobHandler) ExportCSV(w http.ResponseWriter, r *http.Request) {
	jobID, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	found, err := h.jobService.GetJob(r.Context(), jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	if !found.IsTerminal() {
		shared.RespondWithError(w, r, http.StatusConflict, "Job has not finished yet")
		return
	}
	if found.Status == domain.JobStatusError {
		shared.RespondWithError(w, r, http.StatusConflict, "Job failed; nothing to export")
		return
	}

	cards, err := h.jobService.GetJobCards(r.Context(), jobID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", "cards-"+jobID.String()+".csv"))
	w.WriteHeader(http.StatusOK)

	writer := csv.NewWriter(w)
	if err := writer.Write([]string{"front", "back"}); err != nil {
		slog.Error("failed to write CSV header", "error", err)
		return
	}
	for _, card := range cards {
		if err := writer.Write([]string{card.Front, card.Back}); err != nil {
			slog.Error("failed to write CSV row", "error", err)
			return
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		slog.Error("failed to flush CSV output", "error", err)
	}
}
