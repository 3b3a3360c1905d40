package azul

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/payvault-go/internal/domain/payment"
	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/internal/payments/vault"
	"github.com/payvault-go/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockProviderConfigRepository is a mock implementation of
// ports.ProviderConfigRepository.
type MockProviderConfigRepository struct {
	mock.Mock
}

func (m *MockProviderConfigRepository) Add(ctx context.Context, cfg *provider.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockProviderConfigRepository) Update(ctx context.Context, cfg *provider.Config) error {
	args := m.Called(ctx, cfg)
	return args.Error(0)
}

func (m *MockProviderConfigRepository) Remove(ctx context.Context, tenantID int64, id string) error {
	args := m.Called(ctx, tenantID, id)
	return args.Error(0)
}

func (m *MockProviderConfigRepository) GetByID(ctx context.Context, tenantID int64, id string) (*provider.Config, error) {
	args := m.Called(ctx, tenantID, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Config), args.Error(1)
}

func (m *MockProviderConfigRepository) GetActiveByTenantAndKind(ctx context.Context, tenantID int64, providerKey string) (*provider.Config, error) {
	args := m.Called(ctx, tenantID, providerKey)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*provider.Config), args.Error(1)
}

func (m *MockProviderConfigRepository) List(ctx context.Context, tenantID int64) ([]*provider.Config, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*provider.Config), args.Error(1)
}

func (m *MockProviderConfigRepository) ExistsByTenantAndKind(ctx context.Context, tenantID int64, providerKey string) (bool, error) {
	args := m.Called(ctx, tenantID, providerKey)
	return args.Bool(0), args.Error(1)
}

// capturingTransport records the single outbound request and returns a
// canned response.
type capturingTransport struct {
	calls    int
	request  *http.Request
	body     []byte
	status   int
	response string
}

func (t *capturingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	t.calls++
	t.request = req
	if req.Body != nil {
		t.body, _ = io.ReadAll(req.Body)
	}
	return &http.Response{
		StatusCode: t.status,
		Body:       io.NopCloser(strings.NewReader(t.response)),
		Header:     make(http.Header),
	}, nil
}

func newTestVault(t *testing.T) *vault.Vault {
	t.Helper()
	v, err := vault.New("test-vault-key")
	require.NoError(t, err)
	return v
}

func encrypt(t *testing.T, v *vault.Vault, plaintext string) string {
	t.Helper()
	ciphertext, err := v.Encrypt(plaintext)
	require.NoError(t, err)
	return ciphertext
}

func activeConfig(t *testing.T, v *vault.Vault) *provider.Config {
	cfg := provider.NewConfig(7, provider.KindAzul)
	cfg.IsActive = true
	cfg.IsTestMode = true
	cfg.MerchantID = "39038540035"
	cfg.Auth1 = encrypt(t, v, "auth-one")
	cfg.Auth2 = encrypt(t, v, "auth-two")
	return cfg
}

func TestProcessPaymentProviderNotConfigured(t *testing.T) {
	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(nil, provider.ErrNotFound)

	transport := &capturingTransport{status: http.StatusOK, response: `{}`}
	g := New(repo, newTestVault(t), Config{}, logger.NewNop(), WithTransport(transport))

	_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})
	assert.ErrorIs(t, err, provider.ErrProviderNotConfigured)
	assert.Zero(t, transport.calls, "no network call may be attempted")
}

func TestProcessPaymentInactiveConfig(t *testing.T) {
	v := newTestVault(t)
	cfg := activeConfig(t, v)
	cfg.IsActive = false

	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(cfg, nil)

	transport := &capturingTransport{status: http.StatusOK, response: `{}`}
	g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

	_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})
	assert.ErrorIs(t, err, provider.ErrProviderNotConfigured)
	assert.Zero(t, transport.calls)
}

func TestProcessPaymentIncompleteCredentials(t *testing.T) {
	v := newTestVault(t)

	cases := map[string]func(*provider.Config){
		"missing merchant id": func(c *provider.Config) { c.MerchantID = "" },
		"missing auth1":       func(c *provider.Config) { c.Auth1 = "" },
		"missing auth2":       func(c *provider.Config) { c.Auth2 = "" },
	}

	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			cfg := activeConfig(t, v)
			mutate(cfg)

			repo := new(MockProviderConfigRepository)
			repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
				Return(cfg, nil)

			transport := &capturingTransport{status: http.StatusOK, response: `{}`}
			g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

			_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})
			assert.ErrorIs(t, err, provider.ErrIncompleteCredentials)
			assert.Zero(t, transport.calls, "no network call may be attempted")
		})
	}
}

func TestProcessPaymentSandboxEndToEnd(t *testing.T) {
	v := newTestVault(t)
	cfg := activeConfig(t, v)

	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(cfg, nil)

	transport := &capturingTransport{
		status:   http.StatusOK,
		response: `{"responseCode":"00","responseMessage":"APPROVED"}`,
	}
	g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

	resp, err := g.ProcessPayment(context.Background(), 7, payment.Request{
		OrderNumber: "ORD-0001",
		Amount:      1500,
	})
	require.NoError(t, err)

	assert.Equal(t, "00", resp.ResponseCode)
	assert.Equal(t, "APPROVED", resp.ResponseMessage)
	assert.Len(t, resp.Raw, 2)
	assert.True(t, resp.Approved())

	// sandbox, not production
	require.Equal(t, 1, transport.calls)
	assert.Equal(t, "https://pruebas.azul.com.do/api/payment", transport.request.URL.String())

	// decrypted tokens travel as headers, never in the body
	assert.Equal(t, "auth-one", transport.request.Header.Get("Auth1"))
	assert.Equal(t, "auth-two", transport.request.Header.Get("Auth2"))
	assert.Equal(t, "application/json", transport.request.Header.Get("Accept"))

	var sent map[string]interface{}
	require.NoError(t, json.Unmarshal(transport.body, &sent))
	assert.Equal(t, "39038540035", sent["store"])
	assert.Equal(t, "ORD-0001", sent["orderNumber"])
	assert.NotContains(t, string(transport.body), "auth-one")
	assert.NotContains(t, string(transport.body), "auth-two")
}

func TestProcessPaymentUsesProductionWhenLive(t *testing.T) {
	v := newTestVault(t)
	cfg := activeConfig(t, v)
	cfg.IsTestMode = false

	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(cfg, nil)

	transport := &capturingTransport{
		status:   http.StatusOK,
		response: `{"responseCode":"00","responseMessage":"APPROVED"}`,
	}
	g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

	_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0002"})
	require.NoError(t, err)
	assert.Equal(t, "https://pagos.azul.com.do/api/payment", transport.request.URL.String())
}

func TestProcessPaymentGatewayHTTPError(t *testing.T) {
	v := newTestVault(t)

	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(activeConfig(t, v), nil)

	transport := &capturingTransport{status: http.StatusServiceUnavailable, response: `upstream down`}
	g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

	_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})

	var httpErr *payment.GatewayHTTPError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusServiceUnavailable, httpErr.StatusCode)
	assert.Equal(t, "upstream down", httpErr.Body)
}

func TestProcessPaymentProtocolError(t *testing.T) {
	v := newTestVault(t)

	for name, body := range map[string]string{
		"not json":     `<html>error</html>`,
		"null result":  `null`,
		"empty object": `{}`,
		"empty body":   ``,
	} {
		t.Run(name, func(t *testing.T) {
			repo := new(MockProviderConfigRepository)
			repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
				Return(activeConfig(t, v), nil)

			transport := &capturingTransport{status: http.StatusOK, response: body}
			g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

			_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})
			assert.ErrorIs(t, err, payment.ErrGatewayProtocol)
		})
	}
}

func TestProcessPaymentDecryptionFailureIsFatal(t *testing.T) {
	v := newTestVault(t)
	cfg := activeConfig(t, v)
	cfg.Auth1 = "not-a-valid-ciphertext"

	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(cfg, nil)

	transport := &capturingTransport{status: http.StatusOK, response: `{}`}
	g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

	_, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})
	assert.ErrorIs(t, err, vault.ErrDecryptionFailed)
	assert.Zero(t, transport.calls)
}

func TestProcessPaymentUnreadableCertificateDowngrades(t *testing.T) {
	v := newTestVault(t)
	cfg := activeConfig(t, v)
	cfg.CertificatePath = "/nonexistent/client.pem"
	cfg.PrivateKeyPath = "/nonexistent/client.key"

	repo := new(MockProviderConfigRepository)
	repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
		Return(cfg, nil)

	transport := &capturingTransport{
		status:   http.StatusOK,
		response: `{"responseCode":"00","responseMessage":"APPROVED"}`,
	}
	g := New(repo, v, Config{}, logger.NewNop(), WithTransport(transport))

	// Missing client TLS material must not abort the payment.
	resp, err := g.ProcessPayment(context.Background(), 7, payment.Request{OrderNumber: "ORD-0001"})
	require.NoError(t, err)
	assert.Equal(t, "00", resp.ResponseCode)
	assert.Equal(t, 1, transport.calls)
}

func TestValidateCredentials(t *testing.T) {
	v := newTestVault(t)

	t.Run("complete and active", func(t *testing.T) {
		repo := new(MockProviderConfigRepository)
		repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
			Return(activeConfig(t, v), nil)

		g := New(repo, v, Config{}, logger.NewNop())
		valid, err := g.ValidateCredentials(context.Background(), 7)
		require.NoError(t, err)
		assert.True(t, valid)
	})

	t.Run("not configured", func(t *testing.T) {
		repo := new(MockProviderConfigRepository)
		repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
			Return(nil, provider.ErrNotFound)

		g := New(repo, v, Config{}, logger.NewNop())
		valid, err := g.ValidateCredentials(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, valid)
	})

	t.Run("missing auth token", func(t *testing.T) {
		cfg := activeConfig(t, v)
		cfg.Auth2 = ""

		repo := new(MockProviderConfigRepository)
		repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
			Return(cfg, nil)

		g := New(repo, v, Config{}, logger.NewNop())
		valid, err := g.ValidateCredentials(context.Background(), 7)
		require.NoError(t, err)
		assert.False(t, valid)
	})
}

func TestGetPaymentStatus(t *testing.T) {
	v := newTestVault(t)

	t.Run("returns the documented sentinel", func(t *testing.T) {
		repo := new(MockProviderConfigRepository)
		repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
			Return(activeConfig(t, v), nil)

		g := New(repo, v, Config{}, logger.NewNop())
		status, err := g.GetPaymentStatus(context.Background(), 7, "txn-1234")
		require.NoError(t, err)
		assert.Equal(t, payment.StatusUnknown, status)
	})

	t.Run("not configured", func(t *testing.T) {
		repo := new(MockProviderConfigRepository)
		repo.On("GetActiveByTenantAndKind", mock.Anything, int64(7), provider.KindAzul).
			Return(nil, provider.ErrNotFound)

		g := New(repo, v, Config{}, logger.NewNop())
		_, err := g.GetPaymentStatus(context.Background(), 7, "txn-1234")
		assert.ErrorIs(t, err, provider.ErrProviderNotConfigured)
	})
}
