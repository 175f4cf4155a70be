package bootstrap

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/target/odoo-school-client/config"
	"github.com/target/odoo-school-client/internal/adapters/authroles"
	"github.com/target/odoo-school-client/internal/observability/statsd"
	"github.com/target/odoo-school-client/internal/odoo"
	"github.com/target/odoo-school-client/internal/ports"
	"github.com/target/odoo-school-client/internal/service"
	"github.com/target/odoo-school-client/internal/session"
)

// AuthConfig contains configuration for the auth stack.
type AuthConfig struct {
	App    config.AppConfig
	KV     ports.KeyValueStore
	Logger *slog.Logger
}

// AuthStack is the wired client, stores and services sharing one session.
type AuthStack struct {
	Client      *odoo.Client
	Notifier    *odoo.ExpiryNotifier
	Credentials *session.CredentialStore
	Sessions    *session.UserStore
	Auth        *service.AuthService
	// Metrics is nil unless METRICS_ENABLED is set and the agent address dialled.
	Metrics *statsd.Client
}

// Close releases the metrics connection.
func (s *AuthStack) Close() error {
	return s.Metrics.Close()
}

// BuildAuthStack wires the Odoo client and the authentication service on kv.
func BuildAuthStack(cfg AuthConfig) (*AuthStack, error) {
	if cfg.KV == nil {
		return nil, fmt.Errorf("auth stack: key/value store is required")
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	overrides, err := cfg.App.Auth.ParseRoleMap()
	if err != nil {
		return nil, fmt.Errorf("parse AUTH_ROLE_MAP: %w", err)
	}

	creds := session.NewCredentialStore(session.CredentialStoreOptions{
		KV:     cfg.KV,
		Key:    cfg.App.Storage.CredentialKey,
		Logger: logger,
	})
	users := session.NewUserStore(session.UserStoreOptions{
		KV:     cfg.KV,
		Key:    cfg.App.Storage.UserSessionKey,
		Logger: logger,
	})
	notifier := odoo.NewExpiryNotifier()
	metrics := buildMetrics(cfg.App.Metrics, cfg.App.Odoo.Database, logger)

	var sink odoo.MetricsSink
	if metrics != nil {
		sink = metrics
	}
	client, err := odoo.NewClient(odoo.Config{
		Host:        cfg.App.Odoo.Host,
		Database:    cfg.App.Odoo.Database,
		HTTPClient:  &http.Client{Timeout: cfg.App.Odoo.Timeout},
		Credentials: creds,
		Notifier:    notifier,
		Logger:      logger.With("component", "odoo_client"),
		Metrics:     sink,
	})
	if err != nil {
		_ = metrics.Close()
		return nil, fmt.Errorf("create odoo client: %w", err)
	}

	auth, err := service.NewAuthService(service.AuthServiceOptions{
		Gateway:  client,
		Sessions: users,
		Roles:    authroles.NewStaticRoleMapper(overrides),
		Logger:   logger,
	})
	if err != nil {
		_ = metrics.Close()
		return nil, fmt.Errorf("create auth service: %w", err)
	}

	return &AuthStack{
		Client:      client,
		Notifier:    notifier,
		Credentials: creds,
		Sessions:    users,
		Auth:        auth,
		Metrics:     metrics,
	}, nil
}

// buildMetrics returns nil when metrics are off. A dial failure is logged and
// the stack runs without metrics.
func buildMetrics(cfg config.MetricsConfig, database string, logger *slog.Logger) *statsd.Client {
	if !cfg.IsEnabled() {
		return nil
	}
	obsLogger := logger.With("component", "metrics")
	client, err := statsd.NewClient(statsd.Config{
		Enabled: true,
		Address: cfg.StatsdAddress,
		Prefix:  cfg.Prefix,
		Tags:    map[string]string{"db": database},
		Logger:  obsLogger,
	})
	if err != nil {
		obsLogger.Error("failed to initialise statsd client", "error", err)
		return nil
	}
	return client
}

// RecordService returns a model-scoped service sharing the stack's session.
func (s *AuthStack) RecordService(model string, fields []string, logger *slog.Logger) (*service.RecordService, error) {
	return service.NewRecordService(model, fields, service.RecordServiceOptions{
		Gateway: s.Client,
		Health:  s.Auth,
		Logger:  logger,
	})
}
