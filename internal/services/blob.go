package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
)

// Containers used by the hosted reconciler.
const (
	StatementsContainer = "statements"
	ReportsContainer    = "reports"
	ConfigContainer     = "config"
)

// BlobService stores statement archives, register files and report tables
// in Azure Blob Storage.
type BlobService struct {
	client *azblob.Client
}

// NewBlobService creates a BlobService from the BLOB_SERVICE_URL
// environment variable, using Azurite shared-key credentials for local
// endpoints and managed identity otherwise.
func NewBlobService() (*BlobService, error) {
	blobURL := os.Getenv("BLOB_SERVICE_URL")
	if blobURL == "" {
		return nil, fmt.Errorf("BLOB_SERVICE_URL environment variable is required")
	}

	slog.Info("initializing blob service", "blob_url", blobURL)
	var client *azblob.Client
	if isLocal(blobURL) {
		name, key := azuriteCredentials()
		cred, err := azblob.NewSharedKeyCredential(name, key)
		if err != nil {
			return nil, fmt.Errorf("failed to create shared key credential: %w", err)
		}
		client, err = azblob.NewClientWithSharedKeyCredential(blobURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client with shared key: %w", err)
		}
	} else {
		cred, err := newDefaultAzureCredential()
		if err != nil {
			return nil, fmt.Errorf("failed to create default azure credential: %w", err)
		}
		client, err = azblob.NewClient(blobURL, cred, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create blob client: %w", err)
		}
	}

	return &BlobService{client: client}, nil
}

// Upload writes data to a blob. Statement archives are binary, so the API
// takes bytes rather than text.
func (s *BlobService) Upload(ctx context.Context, containerName, blobName string, data []byte) error {
	slog.Info("uploading blob", "container", containerName, "blob_name", blobName, "size_bytes", len(data))

	// Create container if not exists (mostly for dev)
	_, err := s.client.CreateContainer(ctx, containerName, nil)
	if err != nil && !strings.Contains(err.Error(), "ContainerAlreadyExists") {
		slog.Warn("failed to create container (may already exist)", "container", containerName, "error", err)
	}

	if _, err := s.client.UploadBuffer(ctx, containerName, blobName, data, nil); err != nil {
		return fmt.Errorf("failed to upload blob %s/%s: %w", containerName, blobName, err)
	}
	return nil
}

// Download reads a blob's full content.
func (s *BlobService) Download(ctx context.Context, containerName, blobName string) ([]byte, error) {
	slog.Info("downloading blob", "container", containerName, "blob_name", blobName)
	resp, err := s.client.DownloadStream(ctx, containerName, blobName, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to download blob %s/%s: %w", containerName, blobName, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read blob %s/%s: %w", containerName, blobName, err)
	}
	return data, nil
}
