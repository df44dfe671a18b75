package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
)

func tickingClock() func() time.Time {
	t := time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Second)
		return t
	}
}

func seeded(t *testing.T) *Store {
	t.Helper()
	s := NewStore(WithClock(tickingClock()))
	ctx := context.Background()
	require.NoError(t, s.Products().Upsert(ctx, &entity.Product{ID: 1, Name: "Harina", Price: 30}))
	require.NoError(t, s.Products().Upsert(ctx, &entity.Product{ID: 2, Name: "Azúcar", Price: 20}))
	return s
}

func TestRun_RollbackNoPublicaCambios(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	boom := errors.New("boom")
	err := s.Run(ctx, func(ctx context.Context, _ repository.ProductRepository, lines repository.InvoiceLineRepository) error {
		require.NoError(t, lines.Create(ctx, &entity.InvoiceLine{Kind: entity.InvoiceKindReceipt, ProductID: 1, Quantity: 5, BatchID: 1}))
		return boom
	})
	require.ErrorIs(t, err, boom)

	all, err := s.Lines().ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)

	next, err := s.Lines().NextBatchID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), next)
}

func TestRun_LecturaDespuesDeEscrituraDentroDeLaTx(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	err := s.Run(ctx, func(ctx context.Context, _ repository.ProductRepository, lines repository.InvoiceLineRepository) error {
		l := &entity.InvoiceLine{Kind: entity.InvoiceKindReceipt, ProductID: 1, Quantity: 5, BatchID: 1}
		require.NoError(t, lines.Create(ctx, l))
		require.NoError(t, lines.UpdateQuantity(ctx, l.ID, 2))

		pos, err := lines.StockPosition(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(2), pos)
		return nil
	})
	require.NoError(t, err)
}

func TestInvoiceLineRepo_OrdenFIFOYFiltros(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	lines := s.Lines()

	for _, l := range []*entity.InvoiceLine{
		{Kind: entity.InvoiceKindReceipt, ProductID: 1, Quantity: 5, BatchID: 1},
		{Kind: entity.InvoiceKindReceipt, ProductID: 2, Quantity: 9, BatchID: 1},
		{Kind: entity.InvoiceKindReceipt, ProductID: 1, Quantity: 0, BatchID: 2},
		{Kind: entity.InvoiceKindTransfer, ProductID: 1, Quantity: 3, BatchID: 3},
		{Kind: entity.InvoiceKindReceipt, ProductID: 1, Quantity: 4, BatchID: 4},
	} {
		require.NoError(t, lines.Create(ctx, l))
	}

	stock, err := lines.ListStockLines(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stock, 2, "solo entradas con cantidad > 0")
	assert.Equal(t, int64(1), stock[0].BatchID)
	assert.Equal(t, int64(4), stock[1].BatchID)

	pos, err := lines.StockPosition(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(9), pos, "las líneas de traslado no cuentan como existencias")

	next, err := lines.NextBatchID(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), next)

	batch, err := lines.ListByBatch(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, batch, 2)

	n, err := lines.DeleteAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(5), n)
}

func TestInvoiceLineRepo_ProductoDesconocido(t *testing.T) {
	s := seeded(t)
	err := s.Lines().Create(context.Background(), &entity.InvoiceLine{Kind: entity.InvoiceKindReceipt, ProductID: 99, Quantity: 1, BatchID: 1})
	assert.ErrorIs(t, err, domain.ErrUnknownProduct)
}

func TestInvoiceLineRepo_Reporte(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()
	lines := s.Lines()

	require.NoError(t, lines.Create(ctx, &entity.InvoiceLine{Kind: entity.InvoiceKindReceipt, ProductID: 1, Quantity: 5, BatchID: 1}))
	require.NoError(t, lines.Create(ctx, &entity.InvoiceLine{Kind: entity.InvoiceKindTransfer, ProductID: 1, Quantity: 2, BatchID: 2}))
	require.NoError(t, lines.Create(ctx, &entity.InvoiceLine{Kind: entity.InvoiceKindTransfer, ProductID: 2, Quantity: 7, BatchID: 2}))

	from := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	report, err := lines.ListForReport(ctx, entity.InvoiceKindTransfer, from, to)
	require.NoError(t, err)
	require.Len(t, report, 2)
	assert.Equal(t, "Harina", report[0].ProductName)
	assert.Equal(t, int64(20), report[1].Price)

	report, err = lines.ListForReport(ctx, entity.InvoiceKindTransfer, to, to.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, report)
}

func TestProductRepo_ListYExistingIDs(t *testing.T) {
	s := seeded(t)
	ctx := context.Background()

	list, err := s.Products().List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, int64(1), list[0].ID)

	found, err := s.Products().ExistingIDs(ctx, []int64{1, 3})
	require.NoError(t, err)
	assert.Equal(t, map[int64]bool{1: true}, found)

	assert.ErrorIs(t, s.Products().Upsert(ctx, &entity.Product{ID: 0}), domain.ErrInvalidInput)
}
