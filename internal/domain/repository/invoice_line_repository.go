package repository

import (
	"context"
	"time"

	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
)

// InvoiceLineRepository define el puerto de persistencia del libro de líneas de factura.
// Las implementaciones deben poder atarse a una transacción (ver inventory.TxRunner).
type InvoiceLineRepository interface {
	// NextBatchID devuelve max(batch_id)+1, o 1 si el libro está vacío.
	NextBatchID(ctx context.Context) (int64, error)
	// Create persiste la línea y asigna line.ID.
	Create(ctx context.Context, line *entity.InvoiceLine) error
	UpdateQuantity(ctx context.Context, id, quantity int64) error

	// StockPosition suma las cantidades de las líneas con existencias del producto (0 si no hay filas).
	StockPosition(ctx context.Context, productID int64) (int64, error)
	// ListStockLines devuelve las líneas con existencias > 0 del producto en orden FIFO
	// (created_at ascendente, id ascendente).
	ListStockLines(ctx context.Context, productID int64) ([]*entity.InvoiceLine, error)

	ListByBatch(ctx context.Context, batchID int64) ([]*entity.InvoiceLine, error)
	// ListAll devuelve todas las líneas ordenadas por batch_id e id.
	ListAll(ctx context.Context) ([]*entity.InvoiceLine, error)
	// ListForReport devuelve las líneas del tipo indicado con created_at en [from, to], con datos del producto.
	ListForReport(ctx context.Context, kind entity.InvoiceKind, from, to time.Time) ([]*entity.ReportLine, error)

	// DeleteAll purga el libro completo y devuelve el número de filas eliminadas.
	DeleteAll(ctx context.Context) (int64, error)
}
