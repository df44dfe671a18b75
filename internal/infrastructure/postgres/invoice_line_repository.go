package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

var _ repository.InvoiceLineRepository = (*InvoiceLineRepo)(nil)

const lineColumns = `i.id, i.invoice_type, i.product_id, i.quantity, i.batch_id, i.created_at`

// InvoiceLineRepo persistencia del libro en la tabla invoices (usable con pool o tx).
type InvoiceLineRepo struct {
	q Querier
}

// NewInvoiceLineRepository construye el repositorio. Pasar pool o tx (Querier).
func NewInvoiceLineRepository(q Querier) *InvoiceLineRepo {
	return &InvoiceLineRepo{q: q}
}

// NextBatchID max(batch_id)+1, o 1 si no hay filas.
func (r *InvoiceLineRepo) NextBatchID(ctx context.Context) (int64, error) {
	var next int64
	if err := r.q.QueryRow(ctx, `SELECT COALESCE(MAX(batch_id), 0) + 1 FROM invoices`).Scan(&next); err != nil {
		return 0, fmt.Errorf("next batch id: %w", err)
	}
	return next, nil
}

// Create inserta la línea. created_at usa clock_timestamp() para que las líneas de una misma
// transacción queden ordenadas entre sí.
func (r *InvoiceLineRepo) Create(ctx context.Context, line *entity.InvoiceLine) error {
	query := `
		INSERT INTO invoices (invoice_type, product_id, quantity, batch_id, created_at)
		VALUES ($1, $2, $3, $4, clock_timestamp())
		RETURNING id, created_at`
	err := r.q.QueryRow(ctx, query, string(line.Kind), line.ProductID, line.Quantity, line.BatchID).
		Scan(&line.ID, &line.CreatedAt)
	switch {
	case err == nil:
		return nil
	case isForeignKeyViolation(err):
		return fmt.Errorf("producto %d: %w", line.ProductID, domain.ErrUnknownProduct)
	case isCheckViolation(err):
		return fmt.Errorf("insert invoice line: %w", domain.ErrInvalidInput)
	}
	return fmt.Errorf("insert invoice line: %w", err)
}

// UpdateQuantity fija la cantidad de una línea existente.
func (r *InvoiceLineRepo) UpdateQuantity(ctx context.Context, id, quantity int64) error {
	tag, err := r.q.Exec(ctx, `UPDATE invoices SET quantity = $2 WHERE id = $1`, id, quantity)
	if err != nil {
		if isCheckViolation(err) {
			return fmt.Errorf("update invoice %d: %w", id, domain.ErrInvalidInput)
		}
		return fmt.Errorf("update invoice %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// StockPosition suma las entradas del producto.
func (r *InvoiceLineRepo) StockPosition(ctx context.Context, productID int64) (int64, error) {
	var pos int64
	err := r.q.QueryRow(ctx, `
		SELECT COALESCE(SUM(quantity), 0)::BIGINT
		FROM invoices
		WHERE product_id = $1 AND invoice_type = $2`,
		productID, string(entity.InvoiceKindReceipt),
	).Scan(&pos)
	if err != nil {
		return 0, fmt.Errorf("stock position: %w", err)
	}
	return pos, nil
}

// ListStockLines entradas con cantidad > 0 en orden FIFO, bloqueadas para la tx en curso.
func (r *InvoiceLineRepo) ListStockLines(ctx context.Context, productID int64) ([]*entity.InvoiceLine, error) {
	return r.list(ctx, `
		SELECT `+lineColumns+`
		FROM invoices i
		WHERE i.product_id = $1 AND i.invoice_type = $2 AND i.quantity > 0
		ORDER BY i.created_at, i.id
		FOR UPDATE`,
		productID, string(entity.InvoiceKindReceipt))
}

// ListByBatch líneas del lote ordenadas por id.
func (r *InvoiceLineRepo) ListByBatch(ctx context.Context, batchID int64) ([]*entity.InvoiceLine, error) {
	return r.list(ctx, `SELECT `+lineColumns+` FROM invoices i WHERE i.batch_id = $1 ORDER BY i.id`, batchID)
}

// ListAll todas las líneas ordenadas por batch_id e id.
func (r *InvoiceLineRepo) ListAll(ctx context.Context) ([]*entity.InvoiceLine, error) {
	return r.list(ctx, `SELECT `+lineColumns+` FROM invoices i ORDER BY i.batch_id, i.id`)
}

// ListForReport líneas del tipo en [from, to] unidas con el producto.
func (r *InvoiceLineRepo) ListForReport(ctx context.Context, kind entity.InvoiceKind, from, to time.Time) ([]*entity.ReportLine, error) {
	rows, err := r.q.Query(ctx, `
		SELECT `+lineColumns+`, p.product_name, p.price
		FROM invoices i
		JOIN products p ON p.id = i.product_id
		WHERE i.invoice_type = $1 AND i.created_at BETWEEN $2 AND $3
		ORDER BY i.created_at, i.id`,
		string(kind), from, to)
	if err != nil {
		return nil, fmt.Errorf("report lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.ReportLine
	for rows.Next() {
		var (
			rl   entity.ReportLine
			kind string
		)
		if err := rows.Scan(&rl.ID, &kind, &rl.ProductID, &rl.Quantity, &rl.BatchID, &rl.CreatedAt,
			&rl.ProductName, &rl.Price); err != nil {
			return nil, fmt.Errorf("scan report line: %w", err)
		}
		rl.Kind = entity.InvoiceKind(kind)
		out = append(out, &rl)
	}
	return out, rows.Err()
}

// DeleteAll vacía invoices y devuelve las filas borradas.
func (r *InvoiceLineRepo) DeleteAll(ctx context.Context) (int64, error) {
	tag, err := r.q.Exec(ctx, `DELETE FROM invoices`)
	if err != nil {
		return 0, fmt.Errorf("delete invoices: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (r *InvoiceLineRepo) list(ctx context.Context, query string, args ...any) ([]*entity.InvoiceLine, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list invoice lines: %w", err)
	}
	defer rows.Close()

	var out []*entity.InvoiceLine
	for rows.Next() {
		var (
			l    entity.InvoiceLine
			kind string
		)
		if err := rows.Scan(&l.ID, &kind, &l.ProductID, &l.Quantity, &l.BatchID, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan invoice line: %w", err)
		}
		l.Kind = entity.InvoiceKind(kind)
		out = append(out, &l)
	}
	return out, rows.Err()
}
