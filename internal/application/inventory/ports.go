package inventory

import (
	"context"

	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción de almacenamiento, pasando repositorios
// atados a esa tx. Si fn devuelve error se hace rollback completo; si no, Commit.
// Las implementaciones deben serializar las transacciones de escritura entre sí (asignación de
// batch_id y validación de stock) y no exponer escrituras sin confirmar a los lectores.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		ctx context.Context,
		productRepo repository.ProductRepository,
		lineRepo repository.InvoiceLineRepository,
	) error) error
}
