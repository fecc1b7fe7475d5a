// Package app wires configuration, storage, the event bus and every
// application service into one embeddable engine. Integration tests
// and any UI hosting the engine construct an App and call services
// through its fields.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	catalogapp "github.com/fabshop/backend/internal/application/catalog"
	invoicingapp "github.com/fabshop/backend/internal/application/invoicing"
	lifecycleapp "github.com/fabshop/backend/internal/application/lifecycle"
	partnerapp "github.com/fabshop/backend/internal/application/partner"
	printingapp "github.com/fabshop/backend/internal/application/printing"
	productionapp "github.com/fabshop/backend/internal/application/production"
	quotingapp "github.com/fabshop/backend/internal/application/quoting"
	"github.com/fabshop/backend/internal/domain/pricing"
	"github.com/fabshop/backend/internal/infrastructure/config"
	"github.com/fabshop/backend/internal/infrastructure/event"
	"github.com/fabshop/backend/internal/infrastructure/geometry"
	"github.com/fabshop/backend/internal/infrastructure/logger"
	"github.com/fabshop/backend/internal/infrastructure/persistence"
	"github.com/fabshop/backend/internal/infrastructure/rendering"
)

// App is the assembled engine. Fields are exported so an embedding
// program can reach any service directly.
type App struct {
	Config *config.Config
	Logger *zap.Logger

	Store persistence.Store
	Bus   *event.InMemoryEventBus

	Catalog    *catalogapp.CatalogService
	Customers  *partnerapp.CustomerService
	Quoting    *quotingapp.QuotingService
	Invoicing  *invoicingapp.InvoiceService
	Production *productionapp.OrderService
	Lifecycle  *lifecycleapp.LifecycleService
	Printing   *printingapp.PrintService
}

// New builds the engine from configuration. The store driver decides
// the backend; everything above it is wired the same way regardless.
// A nil logger is built from the configured [log] section.
func New(cfg *config.Config, log *zap.Logger) (*App, error) {
	if log == nil {
		var err error
		log, err = logger.New(&logger.Config{
			Level:      cfg.Log.Level,
			Format:     cfg.Log.Format,
			Output:     cfg.Log.Output,
			TimeFormat: cfg.Log.TimeFormat,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to build logger: %w", err)
		}
	}

	store, err := openStore(cfg, log)
	if err != nil {
		return nil, err
	}

	taxEngine, err := pricing.NewTaxEngineWithRate(
		cfg.App.HomeJurisdiction,
		decimal.NewFromInt(int64(cfg.Tax.CombinedRate)),
	)
	if err != nil {
		return nil, err
	}

	allocator, err := persistence.NewNumberAllocator(store, cfg.Numbering, log)
	if err != nil {
		return nil, err
	}

	processRepo := persistence.NewProcessRepository(store, log)
	materialRepo := persistence.NewMaterialRepository(store, log)
	customerRepo := persistence.NewCustomerRepository(store, log)
	quotationRepo := persistence.NewQuotationRepository(store, log)
	invoiceRepo := persistence.NewInvoiceRepository(store, log)
	orderRepo := persistence.NewOrderRepository(store, log)
	draftRepo := persistence.NewDraftRepository(store, cfg.Draft.TTL, log)

	bus := event.NewInMemoryEventBus(log)

	catalogService := catalogapp.NewCatalogService(processRepo, materialRepo, log)
	customerService := partnerapp.NewCustomerService(customerRepo, log)
	quotingService := quotingapp.NewQuotingService(
		draftRepo,
		quotationRepo,
		customerRepo,
		catalogService,
		geometry.NewStubMeasurer(),
		allocator,
		taxEngine,
		log,
	)
	invoiceService := invoicingapp.NewInvoiceService(invoiceRepo, log)
	orderService := productionapp.NewOrderService(orderRepo, log)
	lifecycleService := lifecycleapp.NewLifecycleService(
		quotationRepo,
		invoiceRepo,
		orderRepo,
		customerRepo,
		allocator,
		log,
	)
	printService := printingapp.NewPrintService(
		quotationRepo,
		invoiceRepo,
		orderRepo,
		customerRepo,
		rendering.NewStubRenderer(),
		log,
	)

	catalogService.SetEventPublisher(bus)
	customerService.SetEventPublisher(bus)
	quotingService.SetEventPublisher(bus)
	invoiceService.SetEventPublisher(bus)
	orderService.SetEventPublisher(bus)
	lifecycleService.SetEventPublisher(bus)

	if err := bus.Start(context.Background()); err != nil {
		return nil, fmt.Errorf("failed to start event bus: %w", err)
	}

	log.Info("engine assembled",
		zap.String("store", cfg.Store.Driver),
		zap.String("home_jurisdiction", cfg.App.HomeJurisdiction),
	)

	return &App{
		Config:     cfg,
		Logger:     log,
		Store:      store,
		Bus:        bus,
		Catalog:    catalogService,
		Customers:  customerService,
		Quoting:    quotingService,
		Invoicing:  invoiceService,
		Production: orderService,
		Lifecycle:  lifecycleService,
		Printing:   printService,
	}, nil
}

// Close stops the bus and releases the store's backing handle when it
// holds one (sqlite file, postgres pool, redis client)
func (a *App) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := a.Bus.Stop(ctx); err != nil {
		a.Logger.Warn("event bus did not stop cleanly", zap.Error(err))
	}
	_ = logger.Sync(a.Logger)

	if closer, ok := a.Store.(interface{ Close() error }); ok {
		return closer.Close()
	}
	return nil
}

// openStore builds the Store named by cfg.Store.Driver
func openStore(cfg *config.Config, log *zap.Logger) (persistence.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		return persistence.NewMemoryStore(), nil
	case "sqlite", "postgres":
		return persistence.OpenGormStore(cfg.Store, log)
	case "redis":
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return persistence.NewRedisStore(ctx, cfg.Store)
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}
}
