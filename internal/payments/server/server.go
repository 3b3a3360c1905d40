package server

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/payvault-go/internal/domain/provider"
	"github.com/payvault-go/internal/payments/adapters/db/repository"
	"github.com/payvault-go/internal/payments/adapters/http/handlers"
	"github.com/payvault-go/internal/payments/app/certstore"
	"github.com/payvault-go/internal/payments/app/service"
	"github.com/payvault-go/internal/payments/gateway"
	"github.com/payvault-go/internal/payments/gateway/azul"
	"github.com/payvault-go/internal/payments/vault"
	"github.com/payvault-go/pkg/config"
	"github.com/payvault-go/pkg/database"
	"github.com/payvault-go/pkg/logger"
	"github.com/payvault-go/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Server struct {
	config     *config.Config
	logger     logger.Logger
	httpServer *http.Server
	db         *database.DB
}

func New(cfg *config.Config, log logger.Logger) (*Server, error) {
	db, err := database.New(cfg.Database.ToDatabaseConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if err := db.Migrate(&provider.Config{}); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	secretVault, err := vault.New(cfg.Vault.Key)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize vault: %w", err)
	}

	repo := repository.NewProviderConfigRepository(db)
	certs := certstore.New(cfg.Certificates.Dir)
	configService := service.NewProviderConfigService(repo, secretVault, certs, log)

	registry := gateway.NewRegistry()
	registry.Register(azul.New(repo, secretVault, azul.Config{
		SandboxURL:    cfg.Gateways.Azul.SandboxURL,
		ProductionURL: cfg.Gateways.Azul.ProductionURL,
		Timeout:       time.Duration(cfg.Gateways.RequestTimeout) * time.Second,
	}, log))

	paymentHandlers := handlers.NewPaymentHandlers(configService, registry, log)

	router := setupRouter(paymentHandlers, log)

	httpServer := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	return &Server{
		config:     cfg,
		logger:     log,
		httpServer: httpServer,
		db:         db,
	}, nil
}

func setupRouter(h *handlers.PaymentHandlers, log logger.Logger) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(loggingMiddleware(log))

	router.GET("/health", h.Health)
	router.GET("/ready", h.Ready)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	v1 := router.Group("/api/v1")
	{
		providers := v1.Group("/providers")
		{
			providers.GET("", h.ListConfigs)
			providers.GET("/available", h.AvailableKinds)
			providers.POST("/seed", h.SeedDefaults)
			providers.GET("/:id", h.GetConfig)
			providers.POST("", h.CreateConfig)
			providers.PUT("/:id", h.UpdateConfig)
			providers.DELETE("/:id", h.DeleteConfig)
			providers.POST("/:id/toggle", h.ToggleConfig)
			providers.POST("/:id/certificate", h.UploadCertificate)
			providers.POST("/:id/private-key", h.UploadPrivateKey)
		}

		payments := v1.Group("/payments")
		{
			payments.POST("/:provider", h.ProcessPayment)
			payments.GET("/:provider/credentials", h.ValidateCredentials)
			payments.GET("/:provider/status/:transactionId", h.PaymentStatus)
		}
	}

	return router
}

func (s *Server) Start() error {
	s.logger.Info("Starting HTTP server", "port", s.config.Server.Port)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("Shutting down server...")

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	if err := s.db.Close(); err != nil {
		s.logger.Error("Failed to close database", "error", err)
	}

	return nil
}

func loggingMiddleware(log logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		latency := time.Since(start)
		status := c.Writer.Status()

		metrics.HTTPRequestsTotal.WithLabelValues(c.Request.Method, c.FullPath(), strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Request.Method, c.FullPath()).Observe(latency.Seconds())

		log.Info("HTTP Request",
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"latency", latency,
			"ip", c.ClientIP(),
		)
	}
}
