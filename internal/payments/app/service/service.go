package service

import (
	"context"
	"fmt"
	"time"

	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/internal/payments/ports"
	"github.com/payvault-go/pkg/logger"
	"github.com/payvault-go/pkg/metrics"
)

// ProviderConfigService is the administrative surface over payment
// provider configurations: CRUD with encryption of secret fields and
// certificate file management as side effects. Callers only ever see
// sanitized views; decrypted secrets exist transiently inside gateway
// calls.
type ProviderConfigService struct {
	repo   ports.ProviderConfigRepository
	cipher ports.Cipher
	certs  ports.CertificateStore
	logger logger.Logger
}

func NewProviderConfigService(
	repo ports.ProviderConfigRepository,
	cipher ports.Cipher,
	certs ports.CertificateStore,
	logger logger.Logger,
) *ProviderConfigService {
	return &ProviderConfigService{
		repo:   repo,
		cipher: cipher,
		certs:  certs,
		logger: logger,
	}
}

type CreateConfigRequest struct {
	ProviderKey           string  `json:"providerKey" binding:"required"`
	DisplayName           string  `json:"displayName"`
	LogoRef               string  `json:"logoRef"`
	IsActive              bool    `json:"isActive"`
	IsManual              bool    `json:"isManual"`
	IsTestMode            bool    `json:"isTestMode"`
	TransactionFeePercent float64 `json:"transactionFeePercent"`
	MerchantID            string  `json:"merchantId"`
	Auth1                 string  `json:"auth1"`
	Auth2                 string  `json:"auth2"`
	APIKey                string  `json:"apiKey"`
	SecretKey             string  `json:"secretKey"`
	ClientID              string  `json:"clientId"`
	ClientSecret          string  `json:"clientSecret"`
	WebhookSecret         string  `json:"webhookSecret"`
}

// UpdateConfigRequest carries a partial update. A nil pointer means
// "leave unchanged"; see the policy table for what a supplied blank
// means per field.
type UpdateConfigRequest struct {
	DisplayName           *string  `json:"displayName"`
	LogoRef               *string  `json:"logoRef"`
	IsActive              *bool    `json:"isActive"`
	IsManual              *bool    `json:"isManual"`
	IsTestMode            *bool    `json:"isTestMode"`
	TransactionFeePercent *float64 `json:"transactionFeePercent"`
	MerchantID            *string  `json:"merchantId"`
	Auth1                 *string  `json:"auth1"`
	Auth2                 *string  `json:"auth2"`
	APIKey                *string  `json:"apiKey"`
	SecretKey             *string  `json:"secretKey"`
	ClientID              *string  `json:"clientId"`
	ClientSecret          *string  `json:"clientSecret"`
	WebhookSecret         *string  `json:"webhookSecret"`
}

func (s *ProviderConfigService) List(ctx context.Context, tenantID int64) ([]*provider.View, error) {
	configs, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider configs: %w", err)
	}

	views := make([]*provider.View, 0, len(configs))
	for _, cfg := range configs {
		views = append(views, cfg.ToView())
	}
	return views, nil
}

func (s *ProviderConfigService) GetByID(ctx context.Context, tenantID int64, id string) (*provider.View, error) {
	cfg, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}
	return cfg.ToView(), nil
}

func (s *ProviderConfigService) Create(ctx context.Context, tenantID int64, req CreateConfigRequest) (*provider.View, error) {
	if _, ok := provider.CatalogEntryFor(req.ProviderKey); !ok {
		return nil, provider.ErrUnknownProviderKind
	}

	exists, err := s.repo.ExistsByTenantAndKind(ctx, tenantID, req.ProviderKey)
	if err != nil {
		return nil, fmt.Errorf("failed to check for existing config: %w", err)
	}
	if exists {
		return nil, provider.ErrDuplicateProvider
	}

	cfg := provider.NewConfig(tenantID, req.ProviderKey)
	cfg.DisplayName = req.DisplayName
	cfg.LogoRef = req.LogoRef
	cfg.IsActive = req.IsActive
	cfg.IsManual = req.IsManual
	cfg.IsTestMode = req.IsTestMode
	cfg.TransactionFeePercent = req.TransactionFeePercent
	cfg.MerchantID = req.MerchantID

	secrets := []struct {
		plaintext string
		dst       *string
	}{
		{req.Auth1, &cfg.Auth1},
		{req.Auth2, &cfg.Auth2},
		{req.APIKey, &cfg.APIKey},
		{req.SecretKey, &cfg.SecretKey},
		{req.ClientID, &cfg.ClientID},
		{req.ClientSecret, &cfg.ClientSecret},
		{req.WebhookSecret, &cfg.WebhookSecret},
	}
	for _, secret := range secrets {
		if secret.plaintext == "" {
			continue
		}
		encrypted, err := s.cipher.Encrypt(secret.plaintext)
		if err != nil {
			return nil, fmt.Errorf("failed to encrypt secret: %w", err)
		}
		*secret.dst = encrypted
	}

	if err := s.repo.Add(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to store provider config: %w", err)
	}

	s.logger.Info("Created provider config",
		"tenantId", tenantID, "providerKey", req.ProviderKey, "id", cfg.ID)

	return cfg.ToView(), nil
}

func (s *ProviderConfigService) Update(ctx context.Context, tenantID int64, id string, req UpdateConfigRequest) (*provider.View, error) {
	cfg, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	if err := applyUpdate(cfg, &req, s.cipher); err != nil {
		return nil, err
	}
	cfg.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to update provider config: %w", err)
	}

	return cfg.ToView(), nil
}

// Delete removes the config row and best-effort deletes its
// certificate and private-key files. File cleanup failures are logged
// but never fail the delete.
func (s *ProviderConfigService) Delete(ctx context.Context, tenantID int64, id string) error {
	cfg, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return err
	}

	if err := s.repo.Remove(ctx, tenantID, id); err != nil {
		return fmt.Errorf("failed to delete provider config: %w", err)
	}

	for _, path := range []string{cfg.CertificatePath, cfg.PrivateKeyPath} {
		if path == "" {
			continue
		}
		if err := s.certs.Remove(path); err != nil {
			s.logger.Warn("Failed to remove certificate file",
				"tenantId", tenantID, "id", id, "error", err)
		}
	}

	s.logger.Info("Deleted provider config",
		"tenantId", tenantID, "providerKey", cfg.ProviderKey, "id", id)

	return nil
}

func (s *ProviderConfigService) ToggleActive(ctx context.Context, tenantID int64, id string) (*provider.View, error) {
	cfg, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	cfg.IsActive = !cfg.IsActive
	cfg.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, cfg); err != nil {
		return nil, fmt.Errorf("failed to toggle provider config: %w", err)
	}

	return cfg.ToView(), nil
}

func (s *ProviderConfigService) UploadCertificate(ctx context.Context, tenantID int64, id string, fileBytes []byte) (*provider.View, error) {
	return s.uploadFile(ctx, tenantID, id, fileBytes, certificateSlot)
}

func (s *ProviderConfigService) UploadPrivateKey(ctx context.Context, tenantID int64, id string, fileBytes []byte) (*provider.View, error) {
	return s.uploadFile(ctx, tenantID, id, fileBytes, privateKeySlot)
}

type fileSlot struct {
	name string
	ext  string
	get  func(*provider.Config) string
	set  func(*provider.Config, string)
}

var (
	certificateSlot = fileSlot{
		name: "certificate",
		ext:  ".pem",
		get:  func(c *provider.Config) string { return c.CertificatePath },
		set:  func(c *provider.Config, p string) { c.CertificatePath = p },
	}
	privateKeySlot = fileSlot{
		name: "private_key",
		ext:  ".key",
		get:  func(c *provider.Config) string { return c.PrivateKeyPath },
		set:  func(c *provider.Config, p string) { c.PrivateKeyPath = p },
	}
)

// uploadFile writes the new file before touching the old one, so a
// failed upload leaves the prior file and reference intact. After a
// successful upload exactly one file exists for the slot.
func (s *ProviderConfigService) uploadFile(ctx context.Context, tenantID int64, id string, fileBytes []byte, slot fileSlot) (*provider.View, error) {
	cfg, err := s.repo.GetByID(ctx, tenantID, id)
	if err != nil {
		return nil, err
	}

	newPath, err := s.certs.Save(tenantID, fileBytes, slot.ext)
	if err != nil {
		metrics.CertificateUploadsTotal.WithLabelValues(slot.name, "error").Inc()
		return nil, fmt.Errorf("failed to store %s: %w", slot.name, err)
	}

	oldPath := slot.get(cfg)
	slot.set(cfg, newPath)
	cfg.UpdatedAt = time.Now()

	if err := s.repo.Update(ctx, cfg); err != nil {
		if removeErr := s.certs.Remove(newPath); removeErr != nil {
			s.logger.Warn("Failed to remove orphaned upload",
				"path", newPath, "error", removeErr)
		}
		metrics.CertificateUploadsTotal.WithLabelValues(slot.name, "error").Inc()
		return nil, fmt.Errorf("failed to update config reference: %w", err)
	}

	if oldPath != "" {
		if err := s.certs.Remove(oldPath); err != nil {
			s.logger.Warn("Failed to remove replaced file",
				"path", oldPath, "error", err)
		}
	}

	metrics.CertificateUploadsTotal.WithLabelValues(slot.name, "ok").Inc()
	s.logger.Info("Uploaded file for provider config",
		"tenantId", tenantID, "id", id, "slot", slot.name)

	return cfg.ToView(), nil
}

// ListAvailableProviderKinds returns the catalog entries the tenant has
// not configured yet.
func (s *ProviderConfigService) ListAvailableProviderKinds(ctx context.Context, tenantID int64) ([]provider.CatalogEntry, error) {
	configs, err := s.repo.List(ctx, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list provider configs: %w", err)
	}

	configured := make(map[string]bool, len(configs))
	for _, cfg := range configs {
		configured[cfg.ProviderKey] = true
	}

	available := make([]provider.CatalogEntry, 0)
	for _, entry := range provider.Catalog() {
		if !configured[entry.Key] {
			available = append(available, entry)
		}
	}
	return available, nil
}

// SeedDefaults inserts one inactive, test-mode stub config per catalog
// kind the tenant does not have yet. Existing configs are never
// touched; calling it repeatedly is a no-op after the first run.
func (s *ProviderConfigService) SeedDefaults(ctx context.Context, tenantID int64) (int, error) {
	missing, err := s.ListAvailableProviderKinds(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	created := 0
	for _, entry := range missing {
		cfg := provider.NewConfig(tenantID, entry.Key)
		cfg.DisplayName = entry.DisplayName
		cfg.LogoRef = entry.LogoRef
		cfg.TransactionFeePercent = entry.TransactionFeePercent
		cfg.IsManual = entry.IsManual
		cfg.IsActive = false
		cfg.IsTestMode = true

		if err := s.repo.Add(ctx, cfg); err != nil {
			return created, fmt.Errorf("failed to seed %s: %w", entry.Key, err)
		}
		created++
	}

	if created > 0 {
		s.logger.Info("Seeded default provider configs",
			"tenantId", tenantID, "created", created)
	}
	return created, nil
}
