// Package container is the composition root: it builds the infrastructure,
// repositories, services and event reactions in dependency order and tears
// them down in reverse.
package container

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/garagehub/repair-workflow/internal/application/dispatcher"
	"github.com/garagehub/repair-workflow/internal/application/handler"
	"github.com/garagehub/repair-workflow/internal/application/port"
	"github.com/garagehub/repair-workflow/internal/application/service"
	appwf "github.com/garagehub/repair-workflow/internal/application/workflow"
	"github.com/garagehub/repair-workflow/internal/config"
	"github.com/garagehub/repair-workflow/internal/domain/entity"
	"github.com/garagehub/repair-workflow/internal/infrastructure/mail"
	"github.com/garagehub/repair-workflow/internal/infrastructure/persistence/repository"
	"github.com/garagehub/repair-workflow/internal/infrastructure/persistence/sqlite"
	"github.com/garagehub/repair-workflow/internal/infrastructure/stock"
	"github.com/garagehub/repair-workflow/pkg/database"
	"github.com/garagehub/repair-workflow/pkg/logging"
)

// Repositories groups the persistence ports
type Repositories struct {
	Orders      port.ServiceOrderRepository
	Budgets     port.BudgetRepository
	BudgetItems port.BudgetItemRepository
	Clients     port.ClientRepository
	StockItems  port.StockItemRepository
	History     port.HistoryRepository
}

// Services groups the application use cases
type Services struct {
	Orders   service.OrderService
	Budgets  service.BudgetService
	Approval service.ApprovalService
}

// Container wires and owns the application components
type Container struct {
	cfg    *config.Config
	logger *zap.Logger

	db    *database.DB
	txDB  *sqlite.DB
	redis *redis.Client
	bus   dispatcher.Dispatcher

	Repos    Repositories
	Services Services
}

// New creates an empty container; call Start to build it
func New(cfg *config.Config, logger *zap.Logger) *Container {
	return &Container{cfg: cfg, logger: logger}
}

// Start builds every component in dependency order: database and
// migrations, redis, repositories, dispatcher, services, reactions.
func (c *Container) Start(ctx context.Context) error {
	db, err := database.New(database.Config{
		Path:            c.cfg.Database.Path,
		MaxOpenConns:    c.cfg.Database.MaxOpenConns,
		MaxIdleConns:    c.cfg.Database.MaxIdleConns,
		ConnMaxLifetime: c.cfg.Database.ConnMaxLifetime,
	}, c.logger)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	c.db = db

	migrator := database.NewMigrator(db, c.logger)
	if err := migrator.RunMigrations(c.cfg.Database.MigrationsDir); err != nil {
		return fmt.Errorf("migrations: %w", err)
	}

	c.txDB = sqlite.NewDB(db.DB, c.logger)

	if addr := c.cfg.Redis.Addr; addr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: addr})

		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
		c.redis = rdb
		c.logger.Info("Redis connection established", zap.String("addr", addr))
	} else {
		c.logger.Info("Redis disabled, stock checks use persisted levels only")
	}

	c.Repos = Repositories{
		Orders:      repository.NewServiceOrderRepository(c.db.DB, c.logger),
		Budgets:     repository.NewBudgetRepository(c.db.DB, c.logger),
		BudgetItems: repository.NewBudgetItemRepository(c.db.DB, c.logger),
		Clients:     repository.NewClientRepository(c.db.DB, c.logger),
		StockItems:  repository.NewStockItemRepository(c.db.DB, c.logger),
		History:     repository.NewHistoryRepository(c.db.DB, c.logger),
	}

	slog := logging.NewSugared(c.logger)
	c.bus = dispatcher.New(dispatcher.WithLogger(slog))

	engine := appwf.NewOrderEngine(c.Repos.Orders, c.Repos.History, c.txDB, c.bus)
	checker := stock.NewChecker(c.Repos.StockItems, c.redis, c.logger)

	c.Services = Services{
		Orders: service.NewOrderService(c.Repos.Orders, engine, slog),
		Budgets: service.NewBudgetService(
			c.Repos.Budgets, c.Repos.BudgetItems, c.Repos.History, c.txDB, c.bus, slog,
		),
		Approval: service.NewApprovalService(
			c.Repos.Budgets, c.Repos.BudgetItems, c.Repos.Clients, c.Repos.History,
			c.txDB, checker, c.bus, slog,
		),
	}

	mailer := mail.NewLogMailer(c.logger)
	handler.Register(c.bus,
		handler.NewServiceOrderReceivedReaction(
			c.Services.Budgets,
			c.cfg.Budget.ValidityDays,
			entity.DeliveryMethod(c.cfg.Budget.DeliveryMethod),
			slog,
		),
		handler.NewBudgetApprovedReaction(mailer, slog),
	)

	c.logger.Info("Container started")
	return nil
}

// Bus exposes the event dispatcher
func (c *Container) Bus() dispatcher.Dispatcher {
	return c.bus
}

// Health pings the stateful dependencies
func (c *Container) Health() error {
	if c.db == nil {
		return fmt.Errorf("container not started")
	}
	if err := c.db.Ping(); err != nil {
		return fmt.Errorf("database: %w", err)
	}
	if c.redis != nil {
		if err := c.redis.Ping(context.Background()).Err(); err != nil {
			return fmt.Errorf("redis: %w", err)
		}
	}
	return nil
}

// Close tears down components in reverse start order
func (c *Container) Close() error {
	var firstErr error

	if c.bus != nil {
		if err := c.bus.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.redis != nil {
		if err := c.redis.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if c.db != nil {
		if err := c.db.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}

	c.logger.Info("Container closed")
	return firstErr
}
