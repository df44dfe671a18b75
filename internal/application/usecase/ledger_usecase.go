package usecase

import (
	"context"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

// LedgerUseCase consultas sobre el libro de facturas. Nunca escribe.
type LedgerUseCase struct {
	products repository.ProductRepository
	lines    repository.InvoiceLineRepository
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(products repository.ProductRepository, lines repository.InvoiceLineRepository) *LedgerUseCase {
	return &LedgerUseCase{products: products, lines: lines}
}

// ListByBatch líneas del lote; lista vacía si no existe.
func (uc *LedgerUseCase) ListByBatch(ctx context.Context, batchID int64) ([]dto.InvoiceLineResponse, error) {
	list, err := uc.lines.ListByBatch(ctx, batchID)
	if err != nil {
		return nil, err
	}
	out := make([]dto.InvoiceLineResponse, 0, len(list))
	for _, l := range list {
		out = append(out, toInvoiceLineResponse(l))
	}
	return out, nil
}

// Grouped todo el libro agrupado por batch_id ascendente.
func (uc *LedgerUseCase) Grouped(ctx context.Context) ([][]dto.InvoiceLineResponse, error) {
	list, err := uc.lines.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	groups := [][]dto.InvoiceLineResponse{}
	for i, l := range list {
		if i == 0 || list[i-1].BatchID != l.BatchID {
			groups = append(groups, nil)
		}
		groups[len(groups)-1] = append(groups[len(groups)-1], toInvoiceLineResponse(l))
	}
	return groups, nil
}

// StockPosition posición de stock derivada del producto. domain.ErrNotFound si no existe.
func (uc *LedgerUseCase) StockPosition(ctx context.Context, productID int64) (*dto.StockResponse, error) {
	found, err := uc.products.ExistingIDs(ctx, []int64{productID})
	if err != nil {
		return nil, err
	}
	if !found[productID] {
		return nil, domain.ErrNotFound
	}
	pos, err := uc.lines.StockPosition(ctx, productID)
	if err != nil {
		return nil, err
	}
	return &dto.StockResponse{ProductID: productID, Stock: pos}, nil
}

func toInvoiceLineResponse(l *entity.InvoiceLine) dto.InvoiceLineResponse {
	return dto.InvoiceLineResponse{
		ID:          l.ID,
		InvoiceType: string(l.Kind),
		ProductID:   l.ProductID,
		Quantity:    l.Quantity,
		BatchID:     l.BatchID,
		Date:        l.CreatedAt,
	}
}
