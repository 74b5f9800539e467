// Package app provides dependency injection container for assembling application components.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"

	cipherService "github.com/allisson/encryptor/internal/cipher/service"
	"github.com/allisson/encryptor/internal/config"
	"github.com/allisson/encryptor/internal/database"
	documentUsecase "github.com/allisson/encryptor/internal/document/usecase"
	"github.com/allisson/encryptor/internal/metrics"
)

// Container holds all application dependencies and provides methods to access them.
// It follows the lazy initialization pattern - components are created on first access.
type Container struct {
	// Configuration
	config *config.Config

	// Infrastructure
	logger          *slog.Logger
	db              *sql.DB
	metricsProvider *metrics.Provider
	businessMetrics metrics.BusinessMetrics

	// Managers
	txManager database.TxManager

	// Ciphers
	kmsService    cipherService.KMSService
	cipherFactory cipherService.CipherFactory

	// Repositories
	documentRepo documentUsecase.DocumentRepository

	// Initialization flags and mutex for thread-safety
	mu                sync.Mutex
	loggerInit        sync.Once
	dbInit            sync.Once
	metricsInit       sync.Once
	txManagerInit     sync.Once
	kmsServiceInit    sync.Once
	cipherFactoryInit sync.Once
	documentRepoInit  sync.Once
	initErrors        map[string]error
	initErrorsMu      sync.Mutex
}

// NewContainer creates a new dependency injection container with the provided configuration.
func NewContainer(cfg *config.Config) *Container {
	return &Container{
		config:     cfg,
		initErrors: make(map[string]error),
	}
}

// Config returns the application configuration.
func (c *Container) Config() *config.Config {
	return c.config
}

func (c *Container) setInitError(name string, err error) {
	c.initErrorsMu.Lock()
	defer c.initErrorsMu.Unlock()
	c.initErrors[name] = err
}

func (c *Container) initError(name string) error {
	c.initErrorsMu.Lock()
	defer c.initErrorsMu.Unlock()
	return c.initErrors[name]
}

// Logger returns the configured logger instance.
// It creates a new logger on first access based on the log level in configuration.
func (c *Container) Logger() *slog.Logger {
	c.loggerInit.Do(func() {
		c.logger = c.initLogger()
	})
	return c.logger
}

// DB returns the database connection.
// It creates and configures the database connection on first access.
func (c *Container) DB() (*sql.DB, error) {
	c.dbInit.Do(func() {
		db, err := c.initDB()
		if err != nil {
			c.setInitError("db", err)
			return
		}
		c.mu.Lock()
		c.db = db
		c.mu.Unlock()
	})
	if err := c.initError("db"); err != nil {
		return nil, err
	}
	return c.db, nil
}

// TxManager returns the transaction manager.
// It requires a database connection to be initialized first.
func (c *Container) TxManager() (database.TxManager, error) {
	c.txManagerInit.Do(func() {
		txManager, err := c.initTxManager()
		if err != nil {
			c.setInitError("txManager", err)
			return
		}
		c.txManager = txManager
	})
	if err := c.initError("txManager"); err != nil {
		return nil, err
	}
	return c.txManager, nil
}

// MetricsProvider returns the Prometheus-backed meter provider, or nil when metrics are disabled.
func (c *Container) MetricsProvider() (*metrics.Provider, error) {
	if err := c.initMetricsOnce(); err != nil {
		return nil, err
	}
	return c.metricsProvider, nil
}

// BusinessMetrics returns the business metrics recorder. It is a no-op when metrics are disabled.
func (c *Container) BusinessMetrics() (metrics.BusinessMetrics, error) {
	if err := c.initMetricsOnce(); err != nil {
		return nil, err
	}
	return c.businessMetrics, nil
}

func (c *Container) initMetricsOnce() error {
	c.metricsInit.Do(func() {
		if err := c.initMetrics(); err != nil {
			c.setInitError("metrics", err)
		}
	})
	return c.initError("metrics")
}

// Shutdown performs cleanup of all initialized resources.
// It should be called when the application is shutting down.
func (c *Container) Shutdown(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	var shutdownErrors []error

	if c.kmsService != nil {
		if err := c.kmsService.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("kms service close: %w", err))
		}
	}

	if c.metricsProvider != nil {
		if err := c.metricsProvider.Shutdown(ctx); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("metrics provider shutdown: %w", err))
		}
	}

	if c.db != nil {
		if err := c.db.Close(); err != nil {
			shutdownErrors = append(shutdownErrors, fmt.Errorf("database close: %w", err))
		}
	}

	if len(shutdownErrors) > 0 {
		return fmt.Errorf("shutdown errors: %w", errors.Join(shutdownErrors...))
	}

	return nil
}

// initLogger creates and configures a structured logger based on the log level.
func (c *Container) initLogger() *slog.Logger {
	var logLevel slog.Level
	switch c.config.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	// Logs go to stderr so command output on stdout stays parseable.
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level: logLevel,
	})

	return slog.New(handler)
}

// initDB creates and configures the database connection.
func (c *Container) initDB() (*sql.DB, error) {
	db, err := database.Connect(database.Config{
		Driver:             c.config.DBDriver,
		ConnectionString:   c.config.DBConnectionString,
		MaxOpenConnections: c.config.DBMaxOpenConnections,
		MaxIdleConnections: c.config.DBMaxIdleConnections,
		ConnMaxLifetime:    c.config.DBConnMaxLifetime,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	return db, nil
}

// initTxManager creates the transaction manager using the database connection.
func (c *Container) initTxManager() (database.TxManager, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for tx manager: %w", err)
	}
	return database.NewTxManager(db), nil
}

// initMetrics creates the metrics provider and business metrics.
func (c *Container) initMetrics() error {
	if !c.config.MetricsEnabled {
		c.businessMetrics = metrics.NewNoOpBusinessMetrics()
		return nil
	}

	var opts []metrics.ProviderOption
	if c.config.MetricsRuntimeCollectors {
		opts = append(opts, metrics.WithRuntimeCollectors())
	}

	provider, err := metrics.NewProvider(c.config.MetricsNamespace, opts...)
	if err != nil {
		return fmt.Errorf("failed to create metrics provider: %w", err)
	}

	businessMetrics, err := metrics.NewBusinessMetrics(provider.MeterProvider(), c.config.MetricsNamespace)
	if err != nil {
		return fmt.Errorf("failed to create business metrics: %w", err)
	}

	c.mu.Lock()
	c.metricsProvider = provider
	c.mu.Unlock()
	c.businessMetrics = businessMetrics
	return nil
}
