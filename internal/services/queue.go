package services

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azqueue"
)

// ReconcileQueue is the queue that triggers reconciliation runs.
const ReconcileQueue = "reconcile-jobs"

// QueueService enqueues reconciliation job messages.
type QueueService struct {
	serviceClient *azqueue.ServiceClient
}

// NewQueueService creates a QueueService from the QUEUE_SERVICE_URL
// environment variable.
func NewQueueService() (*QueueService, error) {
	queueURL := os.Getenv("QUEUE_SERVICE_URL")
	if queueURL == "" {
		return nil, fmt.Errorf("QUEUE_SERVICE_URL environment variable is required")
	}

	slog.Info("initializing queue service", "queue_url", queueURL)
	var client *azqueue.ServiceClient
	if isLocal(queueURL) {
		name, key := azuriteCredentials()
		cred, err := azqueue.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azqueue.NewServiceClientWithSharedKeyCredential(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azqueue.NewServiceClient(queueURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create queue service client: %w", err)
		}
	}

	return &QueueService{serviceClient: client}, nil
}

// EnqueueMessage JSON-encodes a message and adds it to the queue. Messages
// are base64 encoded because the Functions host expects that by default.
func (s *QueueService) EnqueueMessage(ctx context.Context, queueName string, message any) error {
	queueClient := s.serviceClient.NewQueueClient(queueName)

	// Create queue if not exists (mostly for dev)
	_, err := queueClient.Create(ctx, nil)
	if err != nil && !strings.Contains(err.Error(), "QueueAlreadyExists") {
		slog.Warn("failed to create queue (may already exist)", "queue", queueName, "error", err)
	}

	msgBytes, err := json.Marshal(message)
	if err != nil {
		return fmt.Errorf("failed to marshal message: %w", err)
	}

	encoded := base64.StdEncoding.EncodeToString(msgBytes)
	if _, err := queueClient.EnqueueMessage(ctx, encoded, nil); err != nil {
		return fmt.Errorf("failed to enqueue message to %s: %w", queueName, err)
	}
	slog.Info("enqueued message", "queue", queueName)
	return nil
}
