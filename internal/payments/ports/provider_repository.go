package ports

import (
	"context"

	"github.com/payvault-go/internal/domain/provider"
)

type ProviderConfigRepository interface {
	Add(ctx context.Context, cfg *provider.Config) error
	Update(ctx context.Context, cfg *provider.Config) error
	Remove(ctx context.Context, tenantID int64, id string) error
	GetByID(ctx context.Context, tenantID int64, id string) (*provider.Config, error)
	GetActiveByTenantAndKind(ctx context.Context, tenantID int64, providerKey string) (*provider.Config, error)
	List(ctx context.Context, tenantID int64) ([]*provider.Config, error)
	ExistsByTenantAndKind(ctx context.Context, tenantID int64, providerKey string) (bool, error)
}
