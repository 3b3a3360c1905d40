package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/payvault-go/internal/domain/payment"
	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/internal/payments/app/service"
	"github.com/payvault-go/internal/payments/gateway"
	"github.com/payvault-go/pkg/logger"
)

// maxUploadBytes bounds certificate and key uploads; PEM material is
// small.
const maxUploadBytes = 1 << 20

type PaymentHandlers struct {
	service  *service.ProviderConfigService
	registry *gateway.Registry
	logger   logger.Logger
}

func NewPaymentHandlers(service *service.ProviderConfigService, registry *gateway.Registry, logger logger.Logger) *PaymentHandlers {
	return &PaymentHandlers{
		service:  service,
		registry: registry,
		logger:   logger,
	}
}

func (h *PaymentHandlers) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "healthy"})
}

func (h *PaymentHandlers) Ready(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ready"})
}

func tenantID(c *gin.Context) (int64, bool) {
	raw := c.GetHeader("X-Tenant-ID")
	if raw == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "tenant ID required"})
		return 0, false
	}
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tenant ID"})
		return 0, false
	}
	return id, true
}

func (h *PaymentHandlers) writeError(c *gin.Context, err error) {
	var httpErr *payment.GatewayHTTPError

	switch {
	case errors.Is(err, provider.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "provider configuration not found"})
	case errors.Is(err, provider.ErrDuplicateProvider):
		c.JSON(http.StatusConflict, gin.H{"error": "provider already configured"})
	case errors.Is(err, provider.ErrUnknownProviderKind):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown provider kind"})
	case errors.Is(err, provider.ErrProviderNotConfigured):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "provider not configured or inactive"})
	case errors.Is(err, provider.ErrIncompleteCredentials):
		c.JSON(http.StatusPreconditionFailed, gin.H{"error": "provider credentials incomplete"})
	case errors.As(err, &httpErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway rejected the request", "gatewayStatus": httpErr.StatusCode})
	case errors.Is(err, payment.ErrGatewayProtocol):
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway returned an unexpected response"})
	default:
		h.logger.Error("Request failed", "error", err, "path", c.FullPath())
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *PaymentHandlers) ListConfigs(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	views, err := h.service.List(c.Request.Context(), tenant)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": views})
}

func (h *PaymentHandlers) GetConfig(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	view, err := h.service.GetByID(c.Request.Context(), tenant, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PaymentHandlers) CreateConfig(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req service.CreateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Create(c.Request.Context(), tenant, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, view)
}

func (h *PaymentHandlers) UpdateConfig(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	var req service.UpdateConfigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	view, err := h.service.Update(c.Request.Context(), tenant, c.Param("id"), req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PaymentHandlers) DeleteConfig(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), tenant, c.Param("id")); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *PaymentHandlers) ToggleConfig(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	view, err := h.service.ToggleActive(c.Request.Context(), tenant, c.Param("id"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PaymentHandlers) UploadCertificate(c *gin.Context) {
	h.upload(c, h.service.UploadCertificate)
}

func (h *PaymentHandlers) UploadPrivateKey(c *gin.Context) {
	h.upload(c, h.service.UploadPrivateKey)
}

func (h *PaymentHandlers) upload(c *gin.Context, save func(ctx context.Context, tenantID int64, id string, fileBytes []byte) (*provider.View, error)) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	data, ok := readUpload(c)
	if !ok {
		return
	}

	view, err := save(c.Request.Context(), tenant, c.Param("id"), data)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, view)
}

func (h *PaymentHandlers) AvailableKinds(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	kinds, err := h.service.ListAvailableProviderKinds(c.Request.Context(), tenant)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"providers": kinds})
}

func (h *PaymentHandlers) SeedDefaults(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	created, err := h.service.SeedDefaults(c.Request.Context(), tenant)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"created": created})
}

func (h *PaymentHandlers) ProcessPayment(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	g, err := h.registry.Resolve(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var req payment.Request
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	resp, err := g.ProcessPayment(c.Request.Context(), tenant, req)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (h *PaymentHandlers) ValidateCredentials(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	g, err := h.registry.Resolve(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	valid, err := g.ValidateCredentials(c.Request.Context(), tenant)
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"valid": valid})
}

func (h *PaymentHandlers) PaymentStatus(c *gin.Context) {
	tenant, ok := tenantID(c)
	if !ok {
		return
	}

	g, err := h.registry.Resolve(c.Param("provider"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	status, err := g.GetPaymentStatus(c.Request.Context(), tenant, c.Param("transactionId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"transactionId": c.Param("transactionId"), "status": status})
}

func readUpload(c *gin.Context) ([]byte, bool) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return nil, false
	}
	if fileHeader.Size > maxUploadBytes {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"error": "file too large"})
		return nil, false
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to open upload"})
		return nil, false
	}
	defer f.Close()

	data, err := io.ReadAll(io.LimitReader(f, maxUploadBytes+1))
	if err != nil || int64(len(data)) > maxUploadBytes {
		c.JSON(http.StatusBadRequest, gin.H{"error": "failed to read upload"})
		return nil, false
	}
	return data, true
}
