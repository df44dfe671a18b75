package usecase

import (
	"context"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wholesale-trade/internal/domain"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	"github.com/jhoicas/wholesale-trade/internal/domain/repository"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/cache"
	"github.com/jhoicas/wholesale-trade/internal/infrastructure/memory"
)

func newStore(t *testing.T) *memory.Store {
	t.Helper()
	at := time.Date(2024, 6, 10, 12, 0, 0, 0, time.UTC)
	store := memory.NewStore(memory.WithClock(func() time.Time {
		at = at.Add(time.Hour)
		return at
	}))
	ctx := context.Background()
	require.NoError(t, store.Products().Upsert(ctx, &entity.Product{ID: 1, Name: "Arroz", Price: 12}))
	require.NoError(t, store.Products().Upsert(ctx, &entity.Product{ID: 2, Name: "Aceite", Price: 40}))
	return store
}

func addLine(t *testing.T, store *memory.Store, kind entity.InvoiceKind, productID, qty, batchID int64) {
	t.Helper()
	require.NoError(t, store.Lines().Create(context.Background(), &entity.InvoiceLine{
		Kind: kind, ProductID: productID, Quantity: qty, BatchID: batchID,
	}))
}

func TestProductUseCase_ListYNombres(t *testing.T) {
	uc := NewProductUseCase(newStore(t).Products(), nil, zerolog.Nop())
	ctx := context.Background()

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "Arroz", list[0].ProductName)
	assert.Equal(t, int64(40), list[1].Price)

	names, err := uc.Names(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"1": "Arroz", "2": "Aceite"}, names)
}

func TestProductUseCase_ImportInvalidaLaCache(t *testing.T) {
	store := newStore(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	uc := NewProductUseCase(store.Products(), cache.NewCatalogCache(client, time.Minute), zerolog.Nop())
	ctx := context.Background()

	list, err := uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Escritura directa al repositorio: la cache sigue sirviendo la versión anterior.
	require.NoError(t, store.Products().Upsert(ctx, &entity.Product{ID: 3, Name: "Sal", Price: 5}))
	list, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	n, err := uc.Import(ctx, []*entity.Product{{ID: 4, Name: "Lentejas", Price: 9}})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	list, err = uc.List(ctx)
	require.NoError(t, err)
	assert.Len(t, list, 4)
}

func TestProductUseCase_ImportRechazaFilasInvalidas(t *testing.T) {
	uc := NewProductUseCase(newStore(t).Products(), nil, zerolog.Nop())

	n, err := uc.Import(context.Background(), []*entity.Product{
		{ID: 5, Name: "Frijol", Price: 7},
		{ID: 0, Name: "sin id", Price: 1},
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 1, n)
}

func TestLedgerUseCase_LoteYAgrupado(t *testing.T) {
	store := newStore(t)
	addLine(t, store, entity.InvoiceKindReceipt, 1, 10, 1)
	addLine(t, store, entity.InvoiceKindReceipt, 2, 5, 1)
	addLine(t, store, entity.InvoiceKindTransfer, 1, 4, 2)
	uc := NewLedgerUseCase(store.Products(), store.Lines())
	ctx := context.Background()

	batch, err := uc.ListByBatch(ctx, 1)
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, "receipt", batch[0].InvoiceType)

	empty, err := uc.ListByBatch(ctx, 99)
	require.NoError(t, err)
	assert.NotNil(t, empty)
	assert.Empty(t, empty)

	groups, err := uc.Grouped(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 2)
	assert.Len(t, groups[0], 2)
	assert.Equal(t, "transfer", groups[1][0].InvoiceType)
}

func TestLedgerUseCase_StockPosition(t *testing.T) {
	store := newStore(t)
	addLine(t, store, entity.InvoiceKindReceipt, 1, 10, 1)
	addLine(t, store, entity.InvoiceKindTransfer, 1, 4, 2)
	uc := NewLedgerUseCase(store.Products(), store.Lines())
	ctx := context.Background()

	got, err := uc.StockPosition(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(10), got.Stock)

	got, err = uc.StockPosition(ctx, 2)
	require.NoError(t, err)
	assert.Zero(t, got.Stock)

	_, err = uc.StockPosition(ctx, 77)
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestReportUseCase_SeparaTiposYSumaPrecios(t *testing.T) {
	store := newStore(t)
	addLine(t, store, entity.InvoiceKindReceipt, 1, 10, 1)
	addLine(t, store, entity.InvoiceKindTransfer, 1, 3, 2)
	addLine(t, store, entity.InvoiceKindTransfer, 2, 6, 2)
	uc := NewReportUseCase(store.Lines())

	from, to, err := ParseDateRange("2024-06-10", "2024-06-10")
	require.NoError(t, err)
	report, err := uc.Report(context.Background(), from, to)
	require.NoError(t, err)

	require.Len(t, report.Receipt, 1)
	require.Len(t, report.Transfer, 2)
	assert.Equal(t, "Aceite", report.Transfer[1].ProductName)
	assert.Equal(t, int64(52), report.TransferPriceSum, "12 + 40, sin multiplicar por cantidad")
	assert.Equal(t, report.Transfer[0].Price+report.Transfer[1].Price, report.TransferPriceSum)
}

// lateCommitLines inserta un traslado justo después de leer los traslados del reporte,
// como lo haría otra transacción confirmada entre dos consultas.
type lateCommitLines struct {
	repository.InvoiceLineRepository
	commit func()
}

func (r lateCommitLines) ListForReport(ctx context.Context, kind entity.InvoiceKind, from, to time.Time) ([]*entity.ReportLine, error) {
	out, err := r.InvoiceLineRepository.ListForReport(ctx, kind, from, to)
	if kind == entity.InvoiceKindTransfer {
		r.commit()
	}
	return out, err
}

func TestReportUseCase_SumaCoincideConLosTraslados(t *testing.T) {
	store := newStore(t)
	addLine(t, store, entity.InvoiceKindReceipt, 2, 10, 1)
	addLine(t, store, entity.InvoiceKindTransfer, 1, 3, 2)
	addLine(t, store, entity.InvoiceKindTransfer, 2, 6, 2)

	lines := lateCommitLines{
		InvoiceLineRepository: store.Lines(),
		commit: func() {
			err := store.Lines().Create(context.Background(), &entity.InvoiceLine{
				Kind: entity.InvoiceKindTransfer, ProductID: 2, Quantity: 1, BatchID: 3,
			})
			assert.NoError(t, err)
		},
	}
	uc := NewReportUseCase(lines)

	from, to, err := ParseDateRange("2024-06-10", "2024-06-10")
	require.NoError(t, err)
	report, err := uc.Report(context.Background(), from, to)
	require.NoError(t, err)

	var listed int64
	for _, l := range report.Transfer {
		listed += l.Price
	}
	require.Len(t, report.Transfer, 2)
	assert.Equal(t, listed, report.TransferPriceSum)
	assert.Equal(t, int64(52), report.TransferPriceSum)
}

func TestReportUseCase_RangoVacio(t *testing.T) {
	store := newStore(t)
	addLine(t, store, entity.InvoiceKindTransfer, 1, 3, 1)
	uc := NewReportUseCase(store.Lines())

	from, to, err := ParseDateRange("2023-01-01", "2023-12-31")
	require.NoError(t, err)
	report, err := uc.Report(context.Background(), from, to)
	require.NoError(t, err)
	assert.Empty(t, report.Receipt)
	assert.Empty(t, report.Transfer)
	assert.Zero(t, report.TransferPriceSum)
}

func TestParseDateRange(t *testing.T) {
	from, to, err := ParseDateRange("2024-01-31", "2024-01-31")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 1, 31, 0, 0, 0, 0, time.UTC), from)
	assert.Equal(t, time.Date(2024, 1, 31, 23, 59, 59, 999999999, time.UTC), to)

	_, to, err = ParseDateRange("2024-01-01", "2024-01-02T10:00:00Z")
	require.NoError(t, err)
	assert.Equal(t, 10, to.Hour())

	_, _, err = ParseDateRange("ayer", "2024-01-02")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = ParseDateRange("2024-02-01", "2024-01-01")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
