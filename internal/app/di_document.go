package app

import (
	"fmt"

	"github.com/allisson/encryptor/internal/database"
	documentDomain "github.com/allisson/encryptor/internal/document/domain"
	documentRepository "github.com/allisson/encryptor/internal/document/repository"
	documentUsecase "github.com/allisson/encryptor/internal/document/usecase"
	fieldUsecase "github.com/allisson/encryptor/internal/field/usecase"
)

// DocumentRepository returns the document repository for the configured driver.
func (c *Container) DocumentRepository() (documentUsecase.DocumentRepository, error) {
	c.documentRepoInit.Do(func() {
		repo, err := c.initDocumentRepository()
		if err != nil {
			c.setInitError("documentRepo", err)
			return
		}
		c.documentRepo = repo
	})
	if err := c.initError("documentRepo"); err != nil {
		return nil, err
	}
	return c.documentRepo, nil
}

// Gateway returns a transform gateway over the schema's field registry.
// Gateways are cheap; the cipher factory behind them is shared.
func (c *Container) Gateway(schema *documentDomain.Schema) (fieldUsecase.Gateway, error) {
	if !schema.Sealed() {
		return nil, fmt.Errorf("schema %q must be sealed before use", schema.Collection())
	}

	gateway := fieldUsecase.NewGateway(schema.Registry(), c.CipherFactory(), c.Logger())

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for gateway: %w", err)
		}
		return fieldUsecase.NewGatewayWithMetrics(gateway, businessMetrics), nil
	}

	return gateway, nil
}

// DocumentUseCase returns a document use case bound to schema.
func (c *Container) DocumentUseCase(schema *documentDomain.Schema) (documentUsecase.DocumentUseCase, error) {
	gateway, err := c.Gateway(schema)
	if err != nil {
		return nil, fmt.Errorf("failed to get gateway for document use case: %w", err)
	}

	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for document use case: %w", err)
	}

	repo, err := c.DocumentRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get document repository for document use case: %w", err)
	}

	baseUseCase, err := documentUsecase.NewDocumentUseCase(schema, gateway, txManager, repo, c.Logger())
	if err != nil {
		return nil, fmt.Errorf("failed to create document use case: %w", err)
	}

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for document use case: %w", err)
		}
		return documentUsecase.NewDocumentUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initDocumentRepository creates the document repository instance.
func (c *Container) initDocumentRepository() (documentUsecase.DocumentRepository, error) {
	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for document repository: %w", err)
	}

	// Select the appropriate repository based on the database driver
	switch c.config.DBDriver {
	case database.DriverMySQL:
		return documentRepository.NewMySQLDocumentRepository(db), nil
	case database.DriverPostgres:
		return documentRepository.NewPostgreSQLDocumentRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}
