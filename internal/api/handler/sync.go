package handler

import (
	"net/http"

	"github.com/ollieshotz/shotz/internal/api/apierr"
	"github.com/ollieshotz/shotz/internal/api/response"
	"github.com/ollieshotz/shotz/internal/services/offline"
)

// SyncHandler serves the offline reconciliation endpoints
type SyncHandler struct {
	reconciler *offline.Reconciler
	monitor    *offline.Monitor
}

// NewSyncHandler creates a new sync handler
func NewSyncHandler(reconciler *offline.Reconciler, monitor *offline.Monitor) *SyncHandler {
	return &SyncHandler{reconciler: reconciler, monitor: monitor}
}

// Sync handles POST /sync
func (h *SyncHandler) Sync(w http.ResponseWriter, r *http.Request) {
	result, err := h.reconciler.Sync(r.Context())
	if err != nil {
		h.monitor.ObserveError(err)
		apierr.WriteError(w, err)
		return
	}
	h.monitor.SetOnline(!result.Unreachable)

	response.JSON(w, http.StatusOK, response.SyncResult{
		Synced: result.Synced,
		Failed: result.Failed,
	})
}

// Status handles GET /sync/status
func (h *SyncHandler) Status(w http.ResponseWriter, r *http.Request) {
	pending, err := h.reconciler.PendingCount(r.Context())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	response.JSON(w, http.StatusOK, response.SyncStatus{
		Online:  h.monitor.IsOnline(),
		Pending: pending,
	})
}
