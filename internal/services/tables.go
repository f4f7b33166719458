package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/data/aztables"

	"stmtrecon/internal/models"
)

// RunRecord summarizes one hosted reconciliation run.
type RunRecord struct {
	ID                   string    `json:"id"`
	StartedAt            time.Time `json:"started_at"`
	FinishedAt           time.Time `json:"finished_at"`
	ArchiveBlob          string    `json:"archive_blob"`
	Transactions         int       `json:"transactions"`
	CreditTransactions   int       `json:"credit_transactions"`
	Matched              int       `json:"matched"`
	CommissionMismatches int       `json:"commission_mismatches"`
	ValidationErrors     int       `json:"validation_errors"`
}

// TableService persists run summaries and commission mismatches to Azure
// Table Storage.
type TableService struct {
	serviceClient   *aztables.ServiceClient
	runsTable       string
	mismatchesTable string
}

// NewTableService creates a TableService from the TABLE_SERVICE_URL
// environment variable and ensures the tables exist.
func NewTableService() (*TableService, error) {
	tableURL := os.Getenv("TABLE_SERVICE_URL")
	if tableURL == "" {
		return nil, fmt.Errorf("TABLE_SERVICE_URL environment variable is required")
	}

	runsTable := os.Getenv("RUNS_TABLE")
	if runsTable == "" {
		runsTable = "runs"
	}
	mismatchesTable := os.Getenv("MISMATCHES_TABLE")
	if mismatchesTable == "" {
		mismatchesTable = "mismatches"
	}

	var client *aztables.ServiceClient
	if isLocal(tableURL) {
		name, key := azuriteCredentials()
		cred, err := aztables.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = aztables.NewServiceClientWithSharedKey(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = aztables.NewServiceClient(tableURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create table service client: %w", err)
		}
	}

	svc := &TableService{
		serviceClient:   client,
		runsTable:       runsTable,
		mismatchesTable: mismatchesTable,
	}
	if err := svc.createTables(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to create tables: %w", err)
	}

	slog.Info("table service initialized", "table_url", tableURL,
		"runs_table", runsTable, "mismatches_table", mismatchesTable)
	return svc, nil
}

func (s *TableService) createTables(ctx context.Context) error {
	for _, tableName := range []string{s.runsTable, s.mismatchesTable} {
		_, err := s.serviceClient.CreateTable(ctx, tableName, nil)
		if err != nil {
			var azErr *azcore.ResponseError
			if errors.As(err, &azErr) && azErr.ErrorCode == "TableAlreadyExists" {
				continue
			}
			return fmt.Errorf("failed to create table %s: %w", tableName, err)
		}
	}
	return nil
}

// SaveRun persists a run summary plus one mismatch row per incorrect
// commission, batched 100 entities per transaction.
func (s *TableService) SaveRun(ctx context.Context, run RunRecord, mismatches []models.CommissionCheck) error {
	runsClient := s.serviceClient.NewClient(s.runsTable)

	entity := map[string]any{
		"PartitionKey":         "RUNS",
		"RowKey":               run.ID,
		"StartedAt":            run.StartedAt.UTC().Format(time.RFC3339),
		"FinishedAt":           run.FinishedAt.UTC().Format(time.RFC3339),
		"ArchiveBlob":          run.ArchiveBlob,
		"Transactions":         run.Transactions,
		"CreditTransactions":   run.CreditTransactions,
		"Matched":              run.Matched,
		"CommissionMismatches": run.CommissionMismatches,
		"ValidationErrors":     run.ValidationErrors,
	}
	entityJSON, _ := json.Marshal(entity)
	if _, err := runsClient.UpsertEntity(ctx, entityJSON, nil); err != nil {
		return fmt.Errorf("failed to save run %s: %w", run.ID, err)
	}

	if len(mismatches) == 0 {
		return nil
	}

	mismatchClient := s.serviceClient.NewClient(s.mismatchesTable)
	var batch []aztables.TransactionAction
	for i, check := range mismatches {
		t := check.Match.Transaction
		dict := ""
		if check.DictCommission != nil {
			dict = check.DictCommission.String()
		}
		row := map[string]any{
			"PartitionKey":       run.ID,
			"RowKey":             fmt.Sprintf("%06d", i),
			"TransactionID":      t.TransactionID,
			"ClientName":         t.ClientName,
			"ProviderName":       t.ProviderName,
			"Currency":           t.Currency,
			"Credit":             t.Credit.String(),
			"Commission":         t.Commission.String(),
			"BankFactCommission": check.BankFactCommission.String(),
			"DictCommission":     dict,
		}
		rowJSON, _ := json.Marshal(row)
		batch = append(batch, aztables.TransactionAction{
			ActionType: aztables.TransactionTypeInsertReplace,
			Entity:     rowJSON,
		})
	}

	const batchSize = 100
	for i := 0; i < len(batch); i += batchSize {
		end := i + batchSize
		if end > len(batch) {
			end = len(batch)
		}
		if _, err := mismatchClient.SubmitTransaction(ctx, batch[i:end], nil); err != nil {
			return fmt.Errorf("failed to submit mismatch batch %d-%d: %w", i, end, err)
		}
	}
	return nil
}

// ListRuns retrieves all recorded run summaries.
func (s *TableService) ListRuns(ctx context.Context) ([]RunRecord, error) {
	client := s.serviceClient.NewClient(s.runsTable)

	filter := "PartitionKey eq 'RUNS'"
	pager := client.NewListEntitiesPager(&aztables.ListEntitiesOptions{Filter: &filter})

	var runs []RunRecord
	for pager.More() {
		resp, err := pager.NextPage(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list runs: %w", err)
		}
		for _, entity := range resp.Entities {
			var parsed map[string]any
			if err := json.Unmarshal(entity, &parsed); err != nil {
				continue
			}
			runs = append(runs, runFromEntity(parsed))
		}
	}
	return runs, nil
}

func runFromEntity(parsed map[string]any) RunRecord {
	getString := func(key string) string {
		if v, ok := parsed[key].(string); ok {
			return v
		}
		return ""
	}
	getInt := func(key string) int {
		if v, ok := parsed[key].(float64); ok {
			return int(v)
		}
		return 0
	}
	getTime := func(key string) time.Time {
		t, _ := time.Parse(time.RFC3339, getString(key))
		return t
	}

	return RunRecord{
		ID:                   getString("RowKey"),
		StartedAt:            getTime("StartedAt"),
		FinishedAt:           getTime("FinishedAt"),
		ArchiveBlob:          getString("ArchiveBlob"),
		Transactions:         getInt("Transactions"),
		CreditTransactions:   getInt("CreditTransactions"),
		Matched:              getInt("Matched"),
		CommissionMismatches: getInt("CommissionMismatches"),
		ValidationErrors:     getInt("ValidationErrors"),
	}
}
