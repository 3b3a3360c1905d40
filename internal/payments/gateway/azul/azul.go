package azul

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/payvault-go/internal/domain/payment"
	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/internal/payments/ports"
	"github.com/payvault-go/pkg/logger"
	"github.com/payvault-go/pkg/metrics"
)

const (
	defaultSandboxURL    = "https://pruebas.azul.com.do"
	defaultProductionURL = "https://pagos.azul.com.do"
	defaultTimeout       = 30 * time.Second

	paymentPath = "/api/payment"
)

// Config carries the gateway endpoints and transport settings. Zero
// values fall back to the documented defaults.
type Config struct {
	SandboxURL    string
	ProductionURL string
	Timeout       time.Duration
}

// Gateway is the Azul variant of the payment gateway capability. It is
// stateless per call: the tenant's configuration is read fresh on every
// call so administrative toggles take effect immediately, and decrypted
// credentials never outlive the call that needed them.
type Gateway struct {
	repo      ports.ProviderConfigRepository
	cipher    ports.Cipher
	config    Config
	transport http.RoundTripper
	logger    logger.Logger
}

type Option func(*Gateway)

// WithTransport overrides the HTTP transport. When set it is used even
// for client-TLS calls; tests use this to intercept outbound requests.
func WithTransport(rt http.RoundTripper) Option {
	return func(g *Gateway) { g.transport = rt }
}

func New(repo ports.ProviderConfigRepository, cipher ports.Cipher, config Config, log logger.Logger, opts ...Option) *Gateway {
	if config.SandboxURL == "" {
		config.SandboxURL = defaultSandboxURL
	}
	if config.ProductionURL == "" {
		config.ProductionURL = defaultProductionURL
	}
	if config.Timeout == 0 {
		config.Timeout = defaultTimeout
	}

	g := &Gateway{
		repo:   repo,
		cipher: cipher,
		config: config,
		logger: log,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

func (g *Gateway) ProviderKey() string {
	return provider.KindAzul
}

func (g *Gateway) ProcessPayment(ctx context.Context, tenantID int64, req payment.Request) (*payment.GatewayResponse, error) {
	cfg, err := g.activeConfig(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if cfg.MerchantID == "" || cfg.Auth1 == "" || cfg.Auth2 == "" {
		return nil, provider.ErrIncompleteCredentials
	}

	clientCert := g.loadClientCertificate(cfg)

	// Decrypted tokens live only for this call.
	auth1, err := g.cipher.Decrypt(cfg.Auth1)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt auth1: %w", err)
	}
	auth2, err := g.cipher.Decrypt(cfg.Auth2)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt auth2: %w", err)
	}

	baseURL := g.config.ProductionURL
	if cfg.IsTestMode {
		baseURL = g.config.SandboxURL
	}

	req.Store = cfg.MerchantID

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payment request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, baseURL+paymentPath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to build gateway request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Accept", "application/json")
	httpReq.Header.Set("Auth1", auth1)
	httpReq.Header.Set("Auth2", auth2)

	started := time.Now()
	resp, err := g.httpClient(clientCert).Do(httpReq)
	metrics.GatewayRequestDuration.WithLabelValues(provider.KindAzul).Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.PaymentAttemptsTotal.WithLabelValues(provider.KindAzul, "transport_error").Inc()
		return nil, fmt.Errorf("gateway request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.PaymentAttemptsTotal.WithLabelValues(provider.KindAzul, "transport_error").Inc()
		return nil, fmt.Errorf("failed to read gateway response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		metrics.PaymentAttemptsTotal.WithLabelValues(provider.KindAzul, "http_error").Inc()
		return nil, &payment.GatewayHTTPError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	parsed, err := parseResponse(respBody)
	if err != nil {
		metrics.PaymentAttemptsTotal.WithLabelValues(provider.KindAzul, "protocol_error").Inc()
		return nil, err
	}

	result := "declined"
	if parsed.Approved() {
		result = "approved"
	}
	metrics.PaymentAttemptsTotal.WithLabelValues(provider.KindAzul, result).Inc()

	g.logger.Info("Processed payment",
		"tenantId", tenantID, "orderNumber", req.OrderNumber,
		"testMode", cfg.IsTestMode, "responseCode", parsed.ResponseCode)

	return parsed, nil
}

func (g *Gateway) ValidateCredentials(ctx context.Context, tenantID int64) (bool, error) {
	cfg, err := g.activeConfig(ctx, tenantID)
	if errors.Is(err, provider.ErrProviderNotConfigured) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return cfg.MerchantID != "" && cfg.Auth1 != "" && cfg.Auth2 != "", nil
}

// GetPaymentStatus returns the documented StatusUnknown sentinel.
// TODO: call the Azul VerifyPayment endpoint once its contract is
// confirmed with the processor.
func (g *Gateway) GetPaymentStatus(ctx context.Context, tenantID int64, transactionID string) (string, error) {
	if _, err := g.activeConfig(ctx, tenantID); err != nil {
		return "", err
	}
	return payment.StatusUnknown, nil
}

func (g *Gateway) activeConfig(ctx context.Context, tenantID int64) (*provider.Config, error) {
	cfg, err := g.repo.GetActiveByTenantAndKind(ctx, tenantID, provider.KindAzul)
	if errors.Is(err, provider.ErrNotFound) {
		return nil, provider.ErrProviderNotConfigured
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load provider config: %w", err)
	}
	if !cfg.IsActive {
		return nil, provider.ErrProviderNotConfigured
	}
	return cfg, nil
}

// loadClientCertificate prepares client TLS material when both file
// references are present. Unreadable files downgrade to a plain TLS
// call rather than failing the payment.
func (g *Gateway) loadClientCertificate(cfg *provider.Config) *tls.Certificate {
	if cfg.CertificatePath == "" || cfg.PrivateKeyPath == "" {
		return nil
	}

	cert, err := tls.LoadX509KeyPair(cfg.CertificatePath, cfg.PrivateKeyPath)
	if err != nil {
		g.logger.Warn("Failed to load client certificate, proceeding without client TLS",
			"tenantId", cfg.TenantID, "error", err)
		return nil
	}
	return &cert
}

func (g *Gateway) httpClient(clientCert *tls.Certificate) *http.Client {
	if g.transport != nil {
		return &http.Client{Transport: g.transport, Timeout: g.config.Timeout}
	}
	if clientCert != nil {
		return &http.Client{
			Transport: &http.Transport{
				TLSClientConfig: &tls.Config{
					Certificates: []tls.Certificate{*clientCert},
					MinVersion:   tls.VersionTLS12,
				},
			},
			Timeout: g.config.Timeout,
		}
	}
	return &http.Client{Timeout: g.config.Timeout}
}

func parseResponse(body []byte) (*payment.GatewayResponse, error) {
	var raw map[string]interface{}
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %v", payment.ErrGatewayProtocol, err)
	}
	if len(raw) == 0 {
		return nil, payment.ErrGatewayProtocol
	}

	resp := &payment.GatewayResponse{Raw: raw}
	if code, ok := raw["responseCode"].(string); ok {
		resp.ResponseCode = code
	}
	if msg, ok := raw["responseMessage"].(string); ok {
		resp.ResponseMessage = msg
	}
	return resp, nil
}
