package handler

import (
	"context"
	"fmt"

	"stmtrecon/internal/models"
	"stmtrecon/internal/recon"
	"stmtrecon/internal/services"
)

// MockRunClient implements RunClient for tests.
type MockRunClient struct {
	SaveRunFunc  func(ctx context.Context, run services.RunRecord, mismatches []models.CommissionCheck) error
	ListRunsFunc func(ctx context.Context) ([]services.RunRecord, error)
}

func (m *MockRunClient) SaveRun(ctx context.Context, run services.RunRecord, mismatches []models.CommissionCheck) error {
	if m.SaveRunFunc != nil {
		return m.SaveRunFunc(ctx, run, mismatches)
	}
	return nil
}

func (m *MockRunClient) ListRuns(ctx context.Context) ([]services.RunRecord, error) {
	if m.ListRunsFunc != nil {
		return m.ListRunsFunc(ctx)
	}
	return nil, nil
}

// MockBlobClient implements BlobClient for tests.
type MockBlobClient struct {
	UploadFunc   func(ctx context.Context, containerName, blobName string, data []byte) error
	DownloadFunc func(ctx context.Context, containerName, blobName string) ([]byte, error)
}

func (m *MockBlobClient) Upload(ctx context.Context, containerName, blobName string, data []byte) error {
	if m.UploadFunc != nil {
		return m.UploadFunc(ctx, containerName, blobName, data)
	}
	return nil
}

func (m *MockBlobClient) Download(ctx context.Context, containerName, blobName string) ([]byte, error) {
	if m.DownloadFunc != nil {
		return m.DownloadFunc(ctx, containerName, blobName)
	}
	return nil, fmt.Errorf("no blob %s/%s", containerName, blobName)
}

// MockQueueClient implements QueueClient for tests.
type MockQueueClient struct {
	EnqueueMessageFunc func(ctx context.Context, queueName string, message any) error
}

func (m *MockQueueClient) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	if m.EnqueueMessageFunc != nil {
		return m.EnqueueMessageFunc(ctx, queueName, message)
	}
	return nil
}

// MockEmailClient implements EmailClient for tests.
type MockEmailClient struct {
	SendSummaryEmailFunc func(ctx context.Context, recipients []string, runID string, res recon.Result) error
}

func (m *MockEmailClient) SendSummaryEmail(ctx context.Context, recipients []string, runID string, res recon.Result) error {
	if m.SendSummaryEmailFunc != nil {
		return m.SendSummaryEmailFunc(ctx, recipients, runID, res)
	}
	return nil
}
