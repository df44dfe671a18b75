// seed carga el catálogo de productos desde un .xlsx (o .csv) con columnas
// id, product_name, price, hace upsert en products e invalida la cache del catálogo.
//
// Uso: go run ./cmd/seed [-latin1] ruta/productos.xlsx
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/jhoicas/wholesale-trade/internal/application/usecase"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/cache"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/catalogfile"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/postgres"
	"github.com/jhoicas/wholesale-trade/pkg/config"
	"github.com/jhoicas/wholesale-trade/pkg/logger"
)

func main() {
	latin1 := flag.Bool("latin1", false, "el .csv está codificado en ISO-8859-1")
	flag.Parse()
	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "uso: seed [-latin1] productos.xlsx|productos.csv")
		os.Exit(2)
	}
	path := flag.Arg(0)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "cargar configuración: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	products, err := readCatalog(path, *latin1)
	if err != nil {
		log.Fatal().Err(err).Str("file", path).Msg("leer catálogo")
	}

	ctx := context.Background()
	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, cfg.DB.ConnectionString()); err != nil {
			log.Fatal().Err(err).Msg("migraciones")
		}
	}
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		log.Fatal().Err(err).Msg("conexión a PostgreSQL")
	}
	defer pool.Close()

	var catalogCache usecase.CatalogCache
	if cfg.Redis.Addr != "" {
		client, err := cache.New(ctx, cfg.Redis.Addr)
		if err != nil {
			log.Warn().Err(err).Msg("redis no disponible, la cache expirará por TTL")
		} else {
			defer func() { _ = client.Close() }()
			catalogCache = cache.NewCatalogCache(client, cfg.Redis.TTL)
		}
	}

	uc := usecase.NewProductUseCase(postgres.NewProductRepository(pool), catalogCache, log.Named("seed"))
	n, err := uc.Import(ctx, products)
	if err != nil {
		log.Fatal().Err(err).Int("written", n).Msg("importar catálogo")
	}
	log.Info().Int("products", n).Str("file", path).Msg("catálogo cargado")
}

func readCatalog(path string, latin1 bool) ([]*entity.Product, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		return catalogfile.ReadXLSX(f)
	case ".csv":
		return catalogfile.ReadCSV(f, latin1)
	}
	return nil, fmt.Errorf("extensión no soportada: %s", filepath.Ext(path))
}
