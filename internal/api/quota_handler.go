package api

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/cardifyai-code/cardifyai/internal/api/shared"
)

// QuotaHandler reports the authenticated account's quota state.
type QuotaHandler struct {
	quotaService QuotaService
}

// NewQuotaHandler creates a new QuotaHandler.
func NewQuotaHandler(quotaService QuotaService) *QuotaHandler {
	return &QuotaHandler{
		quotaService: quotaService,
	}
}

// GetQuota handles GET /api/quota requests.
func (h *QuotaHandler) GetQuota(w http.ResponseWriter, r *http.Request) {
	accountID, ok := r.Context().Value(shared.AccountIDContextKey).(uuid.UUID)
	if !ok || accountID == uuid.Nil {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Account ID not found or invalid")
		return
	}

	snapshot, err := h.quotaService.Usage(r.Context(), accountID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r,
			MapErrorToStatusCode(err), GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, snapshotToResponse(snapshot))
}
