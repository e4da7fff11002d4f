package api

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/api/shared"
	"github.com/cardifyai-code/cardifyai/internal/config"
	"github.com/cardifyai-code/cardifyai/internal/ingest"
)

// GenerateHandler handles requests that start generation jobs.
type GenerateHandler struct {
	jobService JobService
	cfg        config.GenerationConfig
	validator  *validator.Validate
}

// NewGenerateHandler creates a new GenerateHandler.
func NewGenerateHandler(jobService JobService, cfg config.GenerationConfig) *GenerateHandler {
	return &GenerateHandler{
		jobService: jobService,
		cfg:        cfg,
		validator:  validator.New(),
	}
}

// Generate handles POST /api/generate requests. On success the job is
// accepted for asynchronous processing and the client polls
// /api/jobs/{id} for the result.
func (h *GenerateHandler) Generate(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(shared.AccountIDContextKey).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account ID not found or invalid")
		return
	}

	var req GenerateRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}

	if err := h.validator.Struct(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	h.enqueue(w, r, accountID, req.Text, req.RequestedCount)
}

// GenerateFromUpload handles POST /api/generate/upload requests. The
// multipart form carries an optional text field and an optional
// document file; extracted document text is appended to the text with
// a blank line between them.
func (h *GenerateHandler) GenerateFromUpload(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(shared.AccountIDContextKey).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account ID not found or invalid")
		return
	}

	if err := r.ParseMultipartForm(h.cfg.MaxUploadBytes); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid multipart form")
		return
	}

	parts := make([]string, 0, 2)
	if text := strings.TrimSpace(r.FormValue("text")); text != "" {
		parts = append(parts, text)
	}

	file, header, err := r.FormFile("file")
	if err == nil {
		defer func() {
			if cerr := file.Close(); cerr != nil {
				slog.Warn("failed to close uploaded file", "error", cerr)
			}
		}()

		extracted, err := ingest.ExtractText(file, header.Filename, h.cfg.MaxUploadBytes)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r,
				MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
			return
		}
		parts = append(parts, extracted)
	} else if err != http.ErrMissingFile {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid file upload")
		return
	}

	if len(parts) == 0 {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Either text or a file is required")
		return
	}

	requestedCount := 0
	if raw := r.FormValue("requested_count"); raw != "" {
		requestedCount, err = strconv.Atoi(raw)
		if err != nil || requestedCount < 1 {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid requested_count")
			return
		}
	}

	h.enqueue(w, r, accountID, strings.Join(parts, "\n\n"), requestedCount)
}

// enqueue applies the request defaults and limits, starts the job and
// writes the accepted response.
func (h *GenerateHandler) enqueue(w http.ResponseWriter, r *http.Request, accountID uuid.UUID, text string, requestedCount int) {
	if h.cfg.MaxSourceChars > 0 && len(text) > h.cfg.MaxSourceChars {
		shared.RespondWithError(w, r, http.StatusRequestEntityTooLarge,
			"Source text exceeds the maximum length")
		return
	}

	if requestedCount < 1 {
		requestedCount = h.cfg.DefaultCardCount
	}
	if h.cfg.MaxCardCount > 0 && requestedCount > h.cfg.MaxCardCount {
		requestedCount = h.cfg.MaxCardCount
	}

	newJob, err := h.jobService.Enqueue(r.Context(), accountID, text, requestedCount)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	slog.InfoContext(r.Context(), "generation job accepted",
		slog.String("job_id", newJob.ID.String()),
		slog.String("account_id", accountID.String()),
		slog.Int("requested_count", newJob.RequestedCount))

	shared.RespondWithJSON(w, r, http.StatusAccepted, JobAcceptedResponse{
		JobID:          newJob.ID.String(),
		Status:         string(newJob.Status),
		RequestedCount: newJob.RequestedCount,
	})
}
