package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"stmtrecon/internal/services"
)

// reconcileJob is the queue message that triggers a run.
type reconcileJob struct {
	RunID          string `json:"run_id"`
	StatementsBlob string `json:"statements_blob"`
	RegisterBlob   string `json:"register_blob"`
}

// HandleUpload accepts a statements archive and register export, stores
// both in blob storage, and enqueues a reconciliation job.
func (d *Dependencies) HandleUpload(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		slog.Warn("upload attempt with invalid method", "method", r.Method, "path", r.URL.Path)
		WriteError(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	// 50MB limit; statement archives for a month stay well under this.
	if err := r.ParseMultipartForm(50 << 20); err != nil {
		slog.Warn("failed to parse multipart form", "error", err)
		WriteError(w, http.StatusBadRequest, "File too large or invalid form")
		return
	}

	runID := uuid.New().String()

	statementsBlob := fmt.Sprintf("runs/%s/statements.zip", runID)
	if err := d.storeFormFile(r, "statements", statementsBlob); err != nil {
		slog.Warn("failed to store statements upload", "run_id", runID, "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to store statements: "+err.Error())
		return
	}

	registerBlob := fmt.Sprintf("runs/%s/register.csv", runID)
	if err := d.storeFormFile(r, "register", registerBlob); err != nil {
		slog.Warn("failed to store register upload", "run_id", runID, "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to store register: "+err.Error())
		return
	}

	job := reconcileJob{
		RunID:          runID,
		StatementsBlob: statementsBlob,
		RegisterBlob:   registerBlob,
	}
	if err := d.Queue.EnqueueMessage(r.Context(), services.ReconcileQueue, job); err != nil {
		slog.Error("failed to enqueue reconcile job", "run_id", runID, "error", err)
		WriteError(w, http.StatusInternalServerError, "Failed to enqueue job: "+err.Error())
		return
	}

	slog.Info("queued reconciliation run", "run_id", runID,
		"statements_blob", statementsBlob, "register_blob", registerBlob)
	WriteJSON(w, http.StatusOK, map[string]string{
		"status": "queued",
		"run_id": runID,
	})
}

func (d *Dependencies) storeFormFile(r *http.Request, field, blobName string) error {
	file, header, err := r.FormFile(field)
	if err != nil {
		return fmt.Errorf("missing %q file: %w", field, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return fmt.Errorf("failed to read %q upload %s: %w", field, header.Filename, err)
	}
	return d.Blob.Upload(r.Context(), services.StatementsContainer, blobName, data)
}
