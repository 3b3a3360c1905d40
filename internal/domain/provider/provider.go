package provider

import (
	"time"

	"github.com/google/uuid"
)

// Config is one payment provider configuration row, scoped to a tenant.
// Secret columns (Auth1, Auth2, APIKey, SecretKey, ClientID, ClientSecret,
// WebhookSecret) only ever hold ciphertext; MerchantID is plaintext.
// CertificatePath and PrivateKeyPath reference PEM files on disk, never
// the raw bytes.
type Config struct {
	ID                    string  `json:"id" gorm:"primaryKey"`
	TenantID              int64   `json:"tenantId" gorm:"not null;uniqueIndex:idx_tenant_provider"`
	ProviderKey           string  `json:"providerKey" gorm:"not null;uniqueIndex:idx_tenant_provider"`
	DisplayName           string  `json:"displayName"`
	LogoRef               string  `json:"logoRef"`
	IsActive              bool    `json:"isActive" gorm:"default:false"`
	IsManual              bool    `json:"isManual" gorm:"default:false"`
	IsTestMode            bool    `json:"isTestMode" gorm:"default:true"`
	TransactionFeePercent float64 `json:"transactionFeePercent"`

	MerchantID string `json:"merchantId"`

	Auth1         string `json:"-"`
	Auth2         string `json:"-"`
	APIKey        string `json:"-"`
	SecretKey     string `json:"-"`
	ClientID      string `json:"-"`
	ClientSecret  string `json:"-"`
	WebhookSecret string `json:"-"`

	CertificatePath string `json:"-"`
	PrivateKeyPath  string `json:"-"`

	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (Config) TableName() string {
	return "payment_provider_configs"
}

// View is the sanitized shape handed to callers outside the credential
// store. Secrets are reduced to presence flags.
type View struct {
	ID                    string    `json:"id"`
	TenantID              int64     `json:"tenantId"`
	ProviderKey           string    `json:"providerKey"`
	DisplayName           string    `json:"displayName"`
	LogoRef               string    `json:"logoRef"`
	IsActive              bool      `json:"isActive"`
	IsManual              bool      `json:"isManual"`
	IsTestMode            bool      `json:"isTestMode"`
	TransactionFeePercent float64   `json:"transactionFeePercent"`
	MerchantID            string    `json:"merchantId"`
	HasAuth1              bool      `json:"hasAuth1"`
	HasAuth2              bool      `json:"hasAuth2"`
	HasAPIKey             bool      `json:"hasApiKey"`
	HasSecretKey          bool      `json:"hasSecretKey"`
	HasClientID           bool      `json:"hasClientId"`
	HasClientSecret       bool      `json:"hasClientSecret"`
	HasWebhookSecret      bool      `json:"hasWebhookSecret"`
	HasCertificate        bool      `json:"hasCertificate"`
	HasPrivateKey         bool      `json:"hasPrivateKey"`
	CreatedAt             time.Time `json:"createdAt"`
	UpdatedAt             time.Time `json:"updatedAt"`
}

// ToView strips secret material down to presence flags.
func (c *Config) ToView() *View {
	return &View{
		ID:                    c.ID,
		TenantID:              c.TenantID,
		ProviderKey:           c.ProviderKey,
		DisplayName:           c.DisplayName,
		LogoRef:               c.LogoRef,
		IsActive:              c.IsActive,
		IsManual:              c.IsManual,
		IsTestMode:            c.IsTestMode,
		TransactionFeePercent: c.TransactionFeePercent,
		MerchantID:            c.MerchantID,
		HasAuth1:              c.Auth1 != "",
		HasAuth2:              c.Auth2 != "",
		HasAPIKey:             c.APIKey != "",
		HasSecretKey:          c.SecretKey != "",
		HasClientID:           c.ClientID != "",
		HasClientSecret:       c.ClientSecret != "",
		HasWebhookSecret:      c.WebhookSecret != "",
		HasCertificate:        c.CertificatePath != "",
		HasPrivateKey:         c.PrivateKeyPath != "",
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

// NewConfig creates a provider config with a fresh id.
func NewConfig(tenantID int64, providerKey string) *Config {
	now := time.Now()
	return &Config{
		ID:          uuid.New().String(),
		TenantID:    tenantID,
		ProviderKey: providerKey,
		IsTestMode:  true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
