package usecase

import (
	"context"
	"fmt"
	"strconv"

	"github.com/rs/zerolog"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

// CatalogCache cache versionada de lecturas del catálogo (ver infrastructure/cache).
type CatalogCache interface {
	BuildKey(ctx context.Context, parts ...string) (string, error)
	FetchJSON(ctx context.Context, key string, dest any, loader func(context.Context) (any, error)) error
	Bump(ctx context.Context) error
}

// ProductUseCase lecturas del catálogo y su importación.
type ProductUseCase struct {
	repo  repository.ProductRepository
	cache CatalogCache
	log   zerolog.Logger
}

// NewProductUseCase construye el caso de uso. cache puede ser nil.
func NewProductUseCase(repo repository.ProductRepository, cache CatalogCache, log zerolog.Logger) *ProductUseCase {
	return &ProductUseCase{repo: repo, cache: cache, log: log}
}

// List devuelve el catálogo completo ordenado por id.
func (uc *ProductUseCase) List(ctx context.Context) ([]dto.ProductResponse, error) {
	return fetchCached(ctx, uc, func(ctx context.Context) ([]dto.ProductResponse, error) {
		list, err := uc.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		items := make([]dto.ProductResponse, 0, len(list))
		for _, p := range list {
			items = append(items, toProductResponse(p))
		}
		return items, nil
	}, "products")
}

// Names devuelve el mapa id → nombre usado por los formularios de captura.
func (uc *ProductUseCase) Names(ctx context.Context) (map[string]string, error) {
	return fetchCached(ctx, uc, func(ctx context.Context) (map[string]string, error) {
		list, err := uc.repo.List(ctx)
		if err != nil {
			return nil, err
		}
		names := make(map[string]string, len(list))
		for _, p := range list {
			names[strconv.FormatInt(p.ID, 10)] = p.Name
		}
		return names, nil
	}, "products", "names")
}

// Import inserta o reemplaza productos y luego invalida la cache del catálogo.
// Devuelve cuántos productos se escribieron antes del primer error.
func (uc *ProductUseCase) Import(ctx context.Context, products []*entity.Product) (int, error) {
	written := 0
	for i, p := range products {
		if p == nil || p.ID <= 0 || p.Name == "" || p.Price < 0 {
			return written, fmt.Errorf("fila %d: %w", i+1, domain.ErrInvalidInput)
		}
		if err := uc.repo.Upsert(ctx, p); err != nil {
			return written, fmt.Errorf("producto %d: %w", p.ID, err)
		}
		written++
	}
	if written > 0 && uc.cache != nil {
		if err := uc.cache.Bump(ctx); err != nil {
			return written, fmt.Errorf("invalidar cache del catálogo: %w", err)
		}
	}
	uc.log.Info().Int("products", written).Msg("catálogo importado")
	return written, nil
}

// fetchCached lee de la cache y cae al repositorio si Redis no responde.
func fetchCached[T any](ctx context.Context, uc *ProductUseCase, load func(context.Context) (T, error), parts ...string) (T, error) {
	if uc.cache == nil {
		return load(ctx)
	}
	key, err := uc.cache.BuildKey(ctx, parts...)
	if err != nil {
		uc.log.Warn().Err(err).Msg("cache del catálogo no disponible")
		return load(ctx)
	}
	var out T
	err = uc.cache.FetchJSON(ctx, key, &out, func(ctx context.Context) (any, error) { return load(ctx) })
	if err != nil {
		uc.log.Warn().Err(err).Str("key", key).Msg("lectura de cache fallida")
		return load(ctx)
	}
	return out, nil
}

func toProductResponse(p *entity.Product) dto.ProductResponse {
	return dto.ProductResponse{ID: p.ID, Price: p.Price, ProductName: p.Name}
}
