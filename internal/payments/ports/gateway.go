package ports

import (
	"context"

	"github.com/payvault-go/internal/domain/payment"
)

// Gateway is the capability surface one payment provider kind
// implements. Implementations are stateless per call and read the
// tenant's configuration fresh on every call.
type Gateway interface {
	// ProviderKey identifies the provider kind this gateway serves.
	ProviderKey() string

	// ProcessPayment sends a single payment request using the tenant's
	// active configuration and returns the gateway's response
	// unmodified. It never retries.
	ProcessPayment(ctx context.Context, tenantID int64, req payment.Request) (*payment.GatewayResponse, error)

	// ValidateCredentials reports whether the tenant has an active
	// configuration with the credential fields this gateway requires.
	// No network call is made.
	ValidateCredentials(ctx context.Context, tenantID int64) (bool, error)

	// GetPaymentStatus looks up the status of a prior transaction.
	GetPaymentStatus(ctx context.Context, tenantID int64, transactionID string) (string, error)
}

// CertificateStore persists client TLS material under a tenant-scoped
// directory and hands back path references.
type CertificateStore interface {
	Save(tenantID int64, fileBytes []byte, ext string) (string, error)
	Remove(path string) error
}
