package repository

import (
	"context"
	"errors"

	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/pkg/database"
	"gorm.io/gorm"
)

type ProviderConfigRepository struct {
	db *database.DB
}

func NewProviderConfigRepository(db *database.DB) *ProviderConfigRepository {
	return &ProviderConfigRepository{db: db}
}

func (r *ProviderConfigRepository) Add(ctx context.Context, cfg *provider.Config) error {
	return r.db.WithContext(ctx).Create(cfg).Error
}

func (r *ProviderConfigRepository) Update(ctx context.Context, cfg *provider.Config) error {
	return r.db.WithContext(ctx).Save(cfg).Error
}

func (r *ProviderConfigRepository) Remove(ctx context.Context, tenantID int64, id string) error {
	result := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		Delete(&provider.Config{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return provider.ErrNotFound
	}
	return nil
}

func (r *ProviderConfigRepository) GetByID(ctx context.Context, tenantID int64, id string) (*provider.Config, error) {
	var cfg provider.Config
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND id = ?", tenantID, id).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ProviderConfigRepository) GetActiveByTenantAndKind(ctx context.Context, tenantID int64, providerKey string) (*provider.Config, error) {
	var cfg provider.Config
	err := r.db.WithContext(ctx).
		Where("tenant_id = ? AND provider_key = ? AND is_active = ?", tenantID, providerKey, true).
		First(&cfg).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, provider.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (r *ProviderConfigRepository) List(ctx context.Context, tenantID int64) ([]*provider.Config, error) {
	var configs []*provider.Config
	err := r.db.WithContext(ctx).
		Where("tenant_id = ?", tenantID).
		Order("provider_key").
		Find(&configs).Error
	return configs, err
}

func (r *ProviderConfigRepository) ExistsByTenantAndKind(ctx context.Context, tenantID int64, providerKey string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&provider.Config{}).
		Where("tenant_id = ? AND provider_key = ?", tenantID, providerKey).
		Count(&count).Error
	return count > 0, err
}
