// Package handler implements the hosted reconciler's Functions custom
// handler endpoints.
package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	"stmtrecon/internal/models"
	"stmtrecon/internal/recon"
	"stmtrecon/internal/services"
)

// RunClient persists run summaries and commission mismatches.
type RunClient interface {
	SaveRun(ctx context.Context, run services.RunRecord, mismatches []models.CommissionCheck) error
	ListRuns(ctx context.Context) ([]services.RunRecord, error)
}

// BlobClient stores and retrieves run artifacts.
type BlobClient interface {
	Upload(ctx context.Context, containerName, blobName string, data []byte) error
	Download(ctx context.Context, containerName, blobName string) ([]byte, error)
}

// QueueClient enqueues reconciliation jobs.
type QueueClient interface {
	EnqueueMessage(ctx context.Context, queueName string, message any) error
}

// EmailClient sends run summary emails.
type EmailClient interface {
	SendSummaryEmail(ctx context.Context, recipients []string, runID string, res recon.Result) error
}

// Dependencies holds the services required by the handlers.
type Dependencies struct {
	Runs  RunClient
	Blob  BlobClient
	Queue QueueClient
	Email EmailClient
}

// WriteJSON writes a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			slog.Error("failed to encode JSON response", "error", err)
		}
	}
}

// WriteError writes an error response.
func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, map[string]string{"error": message})
}
