package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"

	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/inventory"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

// TransactionInput entrada de ProcessTransaction. Items conserva el orden de la solicitud;
// un mismo producto puede aparecer varias veces.
type TransactionInput struct {
	Kind  entity.InvoiceKind
	Items []inventory.Item
}

// TransactionResult resultado de una transacción aplicada.
type TransactionResult struct {
	BatchID int64
	Kind    entity.InvoiceKind
	Lines   []*entity.InvoiceLine // líneas creadas por el lote, en orden de la solicitud
}

// ProcessTransactionUseCase es el motor de inventario: asigna el batch_id, valida el stock de
// un TRANSFER completo antes de tocar nada y aplica el agotamiento FIFO.
// Todas las operaciones de escritura pasan por un único escritor (mu) y por una sola
// transacción del TxRunner, de modo que un error deja el libro intacto.
type ProcessTransactionUseCase struct {
	mu       sync.Mutex
	txRunner TxRunner
	log      zerolog.Logger
	metrics  *Metrics
}

// NewProcessTransactionUseCase construye el caso de uso. metrics puede ser nil.
func NewProcessTransactionUseCase(txRunner TxRunner, log zerolog.Logger, metrics *Metrics) *ProcessTransactionUseCase {
	return &ProcessTransactionUseCase{
		txRunner: txRunner,
		log:      log,
		metrics:  metrics,
	}
}

// ProcessTransaction registra una transacción RECEIPT o TRANSFER como un nuevo lote.
//
// Retorna:
//   - domain.ErrInvalidInput      tipo desconocido, sin ítems, producto o cantidad inválidos.
//   - *UnknownProductError        algún producto no existe en el catálogo.
//   - *OutOfStockError            un TRANSFER pide más que la posición de stock de algún producto.
//   - cualquier otro error        fallo de almacenamiento; la transacción se revierte por completo.
func (uc *ProcessTransactionUseCase) ProcessTransaction(ctx context.Context, in TransactionInput) (*TransactionResult, error) {
	if err := validateInput(in); err != nil {
		return nil, err
	}

	uc.mu.Lock()
	defer uc.mu.Unlock()

	var result *TransactionResult
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		productRepo repository.ProductRepository,
		lineRepo repository.InvoiceLineRepository,
	) error {
		// 1) batch_id bajo el mismo candado que la validación y la aplicación
		batchID, err := lineRepo.NextBatchID(ctx)
		if err != nil {
			return err
		}

		order, totals := inventory.RequestedTotals(in.Items)

		// 2) Los productos deben existir en el catálogo
		existing, err := productRepo.ExistingIDs(ctx, order)
		if err != nil {
			return err
		}
		for _, id := range order {
			if !existing[id] {
				return &UnknownProductError{ProductID: id}
			}
		}

		// 3) TRANSFER: validación única de toda la transacción antes de cualquier escritura
		if in.Kind == entity.InvoiceKindTransfer {
			positions := make(map[int64]int64, len(order))
			for _, id := range order {
				pos, err := lineRepo.StockPosition(ctx, id)
				if err != nil {
					return err
				}
				positions[id] = pos
			}
			if id, short := inventory.FirstShortage(order, totals, positions); short {
				return &OutOfStockError{ProductID: id, Requested: totals[id], Available: positions[id]}
			}
		}

		// 4) Aplicación en el orden de la solicitud
		result = &TransactionResult{BatchID: batchID, Kind: in.Kind, Lines: make([]*entity.InvoiceLine, 0, len(in.Items))}
		for _, item := range in.Items {
			line := &entity.InvoiceLine{
				Kind:      in.Kind,
				ProductID: item.ProductID,
				Quantity:  item.Quantity,
				BatchID:   batchID,
			}
			if err := lineRepo.Create(ctx, line); err != nil {
				return err
			}
			result.Lines = append(result.Lines, line)

			if in.Kind == entity.InvoiceKindTransfer {
				if err := uc.deplete(ctx, lineRepo, item); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		uc.metrics.observe(string(in.Kind), outcomeOf(err))
		var oos *OutOfStockError
		if errors.As(err, &oos) {
			uc.log.Info().
				Str("kind", string(in.Kind)).
				Int64("product_id", oos.ProductID).
				Int64("requested", oos.Requested).
				Int64("available", oos.Available).
				Msg("transacción rechazada por stock insuficiente")
		}
		return nil, err
	}

	uc.metrics.observe(string(in.Kind), "success")
	for _, item := range in.Items {
		uc.metrics.units(string(in.Kind), item.Quantity)
	}
	uc.log.Info().
		Int64("batch_id", result.BatchID).
		Str("kind", string(result.Kind)).
		Int("items", len(in.Items)).
		Msg("lote registrado")
	return result, nil
}

// deplete descuenta item.Quantity de las entradas del producto, de la más antigua a la más
// reciente. Las lecturas ven las escrituras previas de la misma transacción.
func (uc *ProcessTransactionUseCase) deplete(ctx context.Context, lineRepo repository.InvoiceLineRepository, item inventory.Item) error {
	if item.Quantity == 0 {
		return nil
	}
	stock, err := lineRepo.ListStockLines(ctx, item.ProductID)
	if err != nil {
		return err
	}
	mutated, remaining := inventory.DepleteFIFO(stock, item.Quantity)
	for _, l := range mutated {
		if err := lineRepo.UpdateQuantity(ctx, l.ID, l.Quantity); err != nil {
			return err
		}
	}
	uc.metrics.depleted(len(mutated))
	if remaining > 0 {
		// La validación previa garantiza cobertura; llegar aquí indica un libro inconsistente.
		return fmt.Errorf("producto %d: faltan %d unidades tras agotar el stock: %w",
			item.ProductID, remaining, domain.ErrConflict)
	}
	return nil
}

// PurgeLedger elimina todas las líneas del libro. El siguiente lote vuelve a batch_id 1.
// Los errores de almacenamiento se devuelven al llamador.
func (uc *ProcessTransactionUseCase) PurgeLedger(ctx context.Context) (int64, error) {
	uc.mu.Lock()
	defer uc.mu.Unlock()

	var deleted int64
	err := uc.txRunner.Run(ctx, func(
		ctx context.Context,
		_ repository.ProductRepository,
		lineRepo repository.InvoiceLineRepository,
	) error {
		n, err := lineRepo.DeleteAll(ctx)
		if err != nil {
			return err
		}
		deleted = n
		return nil
	})
	if err != nil {
		return 0, fmt.Errorf("purgar libro: %w", err)
	}
	uc.log.Warn().Int64("deleted", deleted).Msg("libro de facturas purgado")
	return deleted, nil
}

func validateInput(in TransactionInput) error {
	if !in.Kind.Valid() || len(in.Items) == 0 {
		return domain.ErrInvalidInput
	}
	for _, it := range in.Items {
		if it.ProductID <= 0 || it.Quantity < 0 {
			return domain.ErrInvalidInput
		}
	}
	return nil
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, domain.ErrInsufficientStock):
		return "out_of_stock"
	case errors.Is(err, domain.ErrUnknownProduct):
		return "unknown_product"
	}
	return "error"
}
