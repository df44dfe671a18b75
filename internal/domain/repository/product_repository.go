package repository

import (
	"context"

	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
)

// ProductRepository define el puerto de persistencia para Product (DIP).
type ProductRepository interface {
	List(ctx context.Context) ([]*entity.Product, error)
	// ExistingIDs devuelve el subconjunto de ids que existen en el catálogo.
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
	// Upsert inserta o actualiza por ID (usado por la herramienta de carga del catálogo).
	Upsert(ctx context.Context, product *entity.Product) error
}
