package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/contrib/swagger"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/jhoicas/wholesale-trade/internal/application/inventory"
	"github.com/jhoicas/wholesale-trade/internal/application/usecase"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/cache"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/memory"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/postgres"
	httpRouter "github.com/jhoicas/wholesale-trade/internal/interfaces/http"
	"github.com/jhoicas/wholesale-trade/pkg/config"
	"github.com/jhoicas/wholesale-trade/pkg/logger"
)

// storage agrupa lo que el resto de la app necesita del driver elegido.
type storage struct {
	txRunner inventory.TxRunner
	products repository.ProductRepository
	lines    repository.InvoiceLineRepository
	ping     func(ctx context.Context) error
	close    func()
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("cargar configuración: " + err.Error())
	}

	log := logger.New(logger.Config{
		Env:   cfg.App.Env,
		Level: cfg.App.LogLevel,
	})
	log.Info().
		Str("env", cfg.App.Env).
		Str("app", cfg.App.Name).
		Str("store", cfg.App.StoreDriver).
		Msg("iniciando aplicación")

	ctx := context.Background()
	store, err := openStorage(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("almacenamiento")
	}
	defer store.close()

	// Cache del catálogo: opcional, sin REDIS_ADDR se lee siempre del almacenamiento.
	var catalogCache usecase.CatalogCache
	if cfg.Redis.Addr != "" {
		client, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, catálogo sin cache")
		} else {
			defer func() { _ = client.Close() }()
			catalogCache = cache.NewCatalogCache(client, cfg.Redis.TTL)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	engine := inventory.NewProcessTransactionUseCase(store.txRunner, log.Named("engine"), inventory.NewMetrics(reg))
	productUC := usecase.NewProductUseCase(store.products, catalogCache, log.Named("catalog"))
	ledgerUC := usecase.NewLedgerUseCase(store.products, store.lines)
	reportUC := usecase.NewReportUseCase(store.lines)

	app := fiber.New(fiber.Config{
		AppName:      cfg.App.Name,
		ReadTimeout:  time.Second * 10,
		WriteTimeout: time.Second * 10,
		IdleTimeout:  time.Second * 60,
	})
	app.Use(recover.New())
	app.Use(cors.New())
	app.Use(httpRouter.RequestID())
	app.Use(httpRouter.RequestLogger(log.Named("http")))

	// Swagger UI en local: http://localhost:<port>/docs
	if _, err := os.Stat(cfg.App.SwaggerFile); err == nil {
		app.Use(swagger.New(swagger.Config{
			BasePath: "/",
			FilePath: cfg.App.SwaggerFile,
			Path:     "docs",
			Title:    "Wholesale Trade API",
		}))
	} else {
		log.Warn().Str("file", cfg.App.SwaggerFile).Msg("swagger.json no encontrado, /docs deshabilitado")
	}

	app.Get("/health", func(c *fiber.Ctx) error {
		pingCtx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
		defer cancel()
		if err := store.ping(pingCtx); err != nil {
			return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{"status": "degraded", "service": cfg.App.Name})
		}
		return c.JSON(fiber.Map{"status": "ok", "service": cfg.App.Name})
	})
	if cfg.Metrics.Enabled {
		httpRouter.MountMetrics(app, reg)
	}

	httpRouter.Router(app, httpRouter.RouterDeps{
		ProductUC: productUC,
		LedgerUC:  ledgerUC,
		ReportUC:  reportUC,
		Engine:    engine,
	})

	go func() {
		if err := app.Listen(cfg.HTTP.Addr()); err != nil {
			log.Error().Err(err).Msg("servidor HTTP finalizado")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("señal de apagado recibida, cerrando servidor...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("apagado del servidor")
	}

	log.Info().Msg("aplicación detenida")
}

func openStorage(ctx context.Context, cfg *config.Config, log *logger.Logger) (*storage, error) {
	if cfg.App.StoreDriver == config.StoreDriverMemory {
		log.Warn().Msg("STORE_DRIVER=memory: el libro se pierde al reiniciar")
		st := memory.NewStore()
		return &storage{
			txRunner: st,
			products: st.Products(),
			lines:    st.Lines(),
			ping:     func(context.Context) error { return nil },
			close:    func() {},
		}, nil
	}

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
			return nil, err
		}
		log.Info().Msg("migraciones aplicadas")
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		return nil, err
	}
	return &storage{
		txRunner: postgres.NewTxRunner(pool),
		products: postgres.NewProductRepository(pool),
		lines:    postgres.NewInvoiceLineRepository(pool),
		ping:     pool.Ping,
		close:    pool.Close,
	}, nil
}
