package service

import (
	"fmt"

	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/internal/payments/ports"
)

// Partial-update semantics are field-specific. The asymmetry between
// merchantId and the secret fields is deliberate policy, not an
// oversight: a UI that echoes masked or blank secret inputs must never
// erase a stored secret, while clearing the merchant id with an
// explicit blank is a supported administrative action.
type updatePolicy int

const (
	// setIfSupplied: absent leaves the stored value unchanged, any
	// supplied value (including blank) is written as-is.
	setIfSupplied updatePolicy = iota

	// encryptIfNonBlank: only a supplied non-blank value replaces the
	// stored ciphertext; blank and absent both leave it untouched.
	encryptIfNonBlank
)

type stringFieldRule struct {
	name   string
	policy updatePolicy
	get    func(*UpdateConfigRequest) *string
	set    func(*provider.Config, string)
}

var stringFieldRules = []stringFieldRule{
	{
		name:   "displayName",
		policy: setIfSupplied,
		get:    func(r *UpdateConfigRequest) *string { return r.DisplayName },
		set:    func(c *provider.Config, v string) { c.DisplayName = v },
	},
	{
		name:   "logoRef",
		policy: setIfSupplied,
		get:    func(r *UpdateConfigRequest) *string { return r.LogoRef },
		set:    func(c *provider.Config, v string) { c.LogoRef = v },
	},
	{
		name:   "merchantId",
		policy: setIfSupplied,
		get:    func(r *UpdateConfigRequest) *string { return r.MerchantID },
		set:    func(c *provider.Config, v string) { c.MerchantID = v },
	},
	{
		name:   "auth1",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.Auth1 },
		set:    func(c *provider.Config, v string) { c.Auth1 = v },
	},
	{
		name:   "auth2",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.Auth2 },
		set:    func(c *provider.Config, v string) { c.Auth2 = v },
	},
	{
		name:   "apiKey",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.APIKey },
		set:    func(c *provider.Config, v string) { c.APIKey = v },
	},
	{
		name:   "secretKey",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.SecretKey },
		set:    func(c *provider.Config, v string) { c.SecretKey = v },
	},
	{
		name:   "clientId",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.ClientID },
		set:    func(c *provider.Config, v string) { c.ClientID = v },
	},
	{
		name:   "clientSecret",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.ClientSecret },
		set:    func(c *provider.Config, v string) { c.ClientSecret = v },
	},
	{
		name:   "webhookSecret",
		policy: encryptIfNonBlank,
		get:    func(r *UpdateConfigRequest) *string { return r.WebhookSecret },
		set:    func(c *provider.Config, v string) { c.WebhookSecret = v },
	},
}

// applyUpdate mutates cfg in place according to the per-field policy
// table. Secret values pass through the cipher before being stored.
func applyUpdate(cfg *provider.Config, req *UpdateConfigRequest, cipher ports.Cipher) error {
	for _, rule := range stringFieldRules {
		value := rule.get(req)
		if value == nil {
			continue
		}

		switch rule.policy {
		case setIfSupplied:
			rule.set(cfg, *value)
		case encryptIfNonBlank:
			if *value == "" {
				continue
			}
			encrypted, err := cipher.Encrypt(*value)
			if err != nil {
				return fmt.Errorf("failed to encrypt %s: %w", rule.name, err)
			}
			rule.set(cfg, encrypted)
		}
	}

	if req.IsActive != nil {
		cfg.IsActive = *req.IsActive
	}
	if req.IsManual != nil {
		cfg.IsManual = *req.IsManual
	}
	if req.IsTestMode != nil {
		cfg.IsTestMode = *req.IsTestMode
	}
	if req.TransactionFeePercent != nil {
		cfg.TransactionFeePercent = *req.TransactionFeePercent
	}

	return nil
}
