package handlers

import (
	"net/http"

	"github.com/lvasseur/factures/internal/httpx"
	"github.com/lvasseur/factures/internal/services"
)

// SyncHandler surfaces the offline snapshot state.
type SyncHandler struct {
	Sync *services.SyncService
}

func NewSyncHandler(s *services.SyncService) *SyncHandler { return &SyncHandler{Sync: s} }

// Status reports the pending-sync marker and the last snapshot run.
func (h *SyncHandler) Status(w http.ResponseWriter, _ *http.Request) {
	status, err := h.Sync.Status()
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "internal_error", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, status)
}

// Run triggers an immediate snapshot refresh.
func (h *SyncHandler) Run(w http.ResponseWriter, r *http.Request) {
	n, err := h.Sync.SyncClients(r.Context())
	if err != nil {
		httpx.JSONError(w, http.StatusInternalServerError, "sync_failed", nil)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"synced": n})
}
