package provider

import "errors"

var (
	// ErrDuplicateProvider is returned when a tenant already has a
	// configuration for the requested provider kind.
	ErrDuplicateProvider = errors.New("provider already configured for tenant")

	// ErrNotFound is returned when no configuration exists for the
	// given tenant and id.
	ErrNotFound = errors.New("provider configuration not found")

	// ErrProviderNotConfigured is returned by gateway operations when
	// the tenant has no active configuration for the provider kind.
	ErrProviderNotConfigured = errors.New("provider not configured or inactive for tenant")

	// ErrIncompleteCredentials is returned when an active configuration
	// is missing credential fields the gateway requires.
	ErrIncompleteCredentials = errors.New("provider credentials incomplete")

	// ErrUnknownProviderKind is returned when a provider key is not in
	// the catalog.
	ErrUnknownProviderKind = errors.New("unknown provider kind")
)
