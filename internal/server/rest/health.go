package rest

import (
	"net/http"

	"github.com/dmitrijs2005/photoalbum/internal/server/supervisor"
)

type healthResponse struct {
	Status string `json:"status"`
	Store  string `json:"store,omitempty"`
}

// healthLive answers as long as the process serves HTTP.
func (h *handlers) healthLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "ok"})
}

// healthReady is 503 unless the store connection is up.
func (h *handlers) healthReady(w http.ResponseWriter, _ *http.Request) {
	state := h.Store.State()
	if state != supervisor.Connected {
		writeJSON(w, http.StatusServiceUnavailable, healthResponse{Status: "not ready", Store: state.String()})
		return
	}
	writeJSON(w, http.StatusOK, healthResponse{Status: "ready", Store: state.String()})
}

// reconcile runs a reconciliation pass now and returns its report.
func (h *handlers) reconcile(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reconciler.Run(r.Context())
	if err != nil {
		h.writeServiceError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, report)
}
