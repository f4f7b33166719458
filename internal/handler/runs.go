package handler

import (
	"log/slog"
	"net/http"
)

// HandleRuns returns the recorded reconciliation runs.
func (d *Dependencies) HandleRuns(w http.ResponseWriter, r *http.Request) {
	runs, err := d.Runs.ListRuns(r.Context())
	if err != nil {
		slog.Error("failed to list runs", "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to list runs: "+err.Error())
		return
	}
	slog.Info("listed runs", "count", len(runs))
	WriteJSON(w, http.StatusOK, runs)
}
