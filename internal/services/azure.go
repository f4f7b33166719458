// Package services wraps the Azure storage, queue, table and email
// clients used by the hosted reconciler deployment.
package services

import (
	"log/slog"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
)

// Standard Azurite development-storage account.
const (
	azuriteAccountName = "devstoreaccount1"
	azuriteAccountKey  = "Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw=="
)

// isLocal reports whether a service URL points at a local Azurite
// endpoint (plain http) rather than a real Azure account.
func isLocal(serviceURL string) bool {
	return strings.HasPrefix(serviceURL, "http://")
}

func azuriteCredentials() (string, string) {
	return azuriteAccountName, azuriteAccountKey
}

func newDefaultAzureCredential() (azcore.TokenCredential, error) {
	slog.Info("using default Azure credentials")
	return azidentity.NewDefaultAzureCredential(nil)
}
