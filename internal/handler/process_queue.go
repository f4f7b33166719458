package handler

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"stmtrecon/internal/archive"
	"stmtrecon/internal/models"
	"stmtrecon/internal/ratecard"
	"stmtrecon/internal/recon"
	"stmtrecon/internal/register"
	"stmtrecon/internal/report"
	"stmtrecon/internal/services"
	"stmtrecon/internal/statement"
)

// rateCardBlob is where the contractual rate card lives in the config
// container.
const rateCardBlob = "ratecard.yaml"

// invokeRequest represents the payload from the Functions custom handler
// host for queue triggers.
type invokeRequest struct {
	Data     map[string]any `json:"Data"`
	Metadata map[string]any `json:"Metadata"`
}

// ProcessQueue handles the queue trigger: it downloads the run's inputs,
// executes the reconciliation, stores the three report tables, persists
// the run summary, and emails it.
func (d *Dependencies) ProcessQueue(w http.ResponseWriter, r *http.Request) {
	job, ok := decodeJob(w, r)
	if !ok {
		return
	}

	started := time.Now()
	slog.Info("processing reconcile job", "run_id", job.RunID)

	res, err := d.runReconciliation(r, job)
	if err != nil {
		slog.Error("reconciliation failed", "run_id", job.RunID, "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	if err := d.storeReports(r, job, res); err != nil {
		slog.Error("failed to store reports", "run_id", job.RunID, "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	run := services.RunRecord{
		ID:                   job.RunID,
		StartedAt:            started,
		FinishedAt:           time.Now(),
		ArchiveBlob:          job.StatementsBlob,
		Transactions:         len(res.Transactions),
		CreditTransactions:   len(res.Matches),
		Matched:              res.Matched(),
		CommissionMismatches: res.CommissionMismatches(),
		ValidationErrors:     len(res.TransactionErrors) + len(res.RegisterErrors),
	}
	if err := d.Runs.SaveRun(r.Context(), run, incorrectChecks(res)); err != nil {
		slog.Error("failed to save run", "run_id", job.RunID, "error", err)
		WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}

	d.sendSummary(r, job.RunID, res)

	slog.Info("reconcile job complete", "run_id", job.RunID,
		"matched", run.Matched, "commission_mismatches", run.CommissionMismatches)
	w.WriteHeader(http.StatusOK)
}

func incorrectChecks(res recon.Result) []models.CommissionCheck {
	var incorrect []models.CommissionCheck
	for _, c := range res.Checks {
		if !c.IsCorrectCommission {
			incorrect = append(incorrect, c)
		}
	}
	return incorrect
}

func decodeJob(w http.ResponseWriter, r *http.Request) (reconcileJob, bool) {
	var job reconcileJob

	bodyBytes, err := io.ReadAll(r.Body)
	if err != nil {
		slog.Error("failed to read queue request body", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return job, false
	}

	var invokeReq invokeRequest
	if err := json.Unmarshal(bodyBytes, &invokeReq); err != nil {
		slog.Error("failed to unmarshal queue request", "error", err)
		WriteError(w, http.StatusBadRequest, "Failed to unmarshal request")
		return job, false
	}

	queueItemVal, ok := invokeReq.Data["queueItem"]
	if !ok {
		queueItemVal, ok = invokeReq.Data["queueitem"]
		if !ok {
			WriteError(w, http.StatusBadRequest, "Missing queueItem in Data")
			return job, false
		}
	}
	queueItemStr, ok := queueItemVal.(string)
	if !ok {
		WriteError(w, http.StatusBadRequest, "queueItem is not a string")
		return job, false
	}

	if err := json.Unmarshal([]byte(queueItemStr), &job); err != nil {
		slog.Error("failed to unmarshal queueItem", "error", err)
		WriteError(w, http.StatusBadRequest, fmt.Sprintf("Invalid queueItem JSON: %v", err))
		return job, false
	}
	if job.RunID == "" || job.StatementsBlob == "" || job.RegisterBlob == "" {
		WriteError(w, http.StatusBadRequest, "Incomplete reconcile job")
		return job, false
	}
	return job, true
}

func (d *Dependencies) runReconciliation(r *http.Request, job reconcileJob) (recon.Result, error) {
	ctx := r.Context()

	archiveData, err := d.Blob.Download(ctx, services.StatementsContainer, job.StatementsBlob)
	if err != nil {
		return recon.Result{}, fmt.Errorf("failed to download statements: %w", err)
	}
	registerData, err := d.Blob.Download(ctx, services.StatementsContainer, job.RegisterBlob)
	if err != nil {
		return recon.Result{}, fmt.Errorf("failed to download register: %w", err)
	}
	cardData, err := d.Blob.Download(ctx, services.ConfigContainer, rateCardBlob)
	if err != nil {
		return recon.Result{}, fmt.Errorf("failed to download rate card: %w", err)
	}

	transactions, err := archive.Parse(archiveData, statement.Options{})
	if err != nil {
		return recon.Result{}, err
	}
	entries, err := register.Parse(string(registerData))
	if err != nil {
		return recon.Result{}, err
	}
	card, err := ratecard.Parse(cardData)
	if err != nil {
		return recon.Result{}, err
	}

	return recon.Run(transactions, entries, card), nil
}

func (d *Dependencies) storeReports(r *http.Request, job reconcileJob, res recon.Result) error {
	tables := []struct {
		name   string
		encode func() ([]byte, error)
	}{
		{"transactions.csv", func() ([]byte, error) { return report.EncodeTransactions(res.Transactions) }},
		{"matches.csv", func() ([]byte, error) { return report.EncodeMatches(res.Matches) }},
		{"commissions.csv", func() ([]byte, error) { return report.EncodeCommissions(res.Checks) }},
	}

	for _, table := range tables {
		data, err := table.encode()
		if err != nil {
			return fmt.Errorf("failed to encode %s: %w", table.name, err)
		}
		blobName := fmt.Sprintf("runs/%s/%s", job.RunID, table.name)
		if err := d.Blob.Upload(r.Context(), services.ReportsContainer, blobName, data); err != nil {
			return err
		}
	}
	return nil
}

func (d *Dependencies) sendSummary(r *http.Request, runID string, res recon.Result) {
	if d.Email == nil {
		return
	}
	recipientsEnv := os.Getenv("REPORT_RECIPIENTS")
	if recipientsEnv == "" {
		return
	}
	recipients := strings.Split(recipientsEnv, ",")
	if err := d.Email.SendSummaryEmail(r.Context(), recipients, runID, res); err != nil {
		// The run already succeeded; a failed email is not worth a retry.
		slog.Error("failed to send summary email", "run_id", runID, "error", err)
	}
}
