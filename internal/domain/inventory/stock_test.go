package inventory

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
)

func receiptLines(qtys ...int64) []*entity.InvoiceLine {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	lines := make([]*entity.InvoiceLine, 0, len(qtys))
	for i, q := range qtys {
		lines = append(lines, &entity.InvoiceLine{
			ID:        int64(i + 1),
			Kind:      entity.InvoiceKindReceipt,
			ProductID: 1,
			Quantity:  q,
			BatchID:   int64(i + 1),
			CreatedAt: base.Add(time.Duration(i) * time.Hour),
		})
	}
	return lines
}

func TestRequestedTotals_SumaDuplicadosYConservaOrden(t *testing.T) {
	order, totals := RequestedTotals([]Item{
		{ProductID: 7, Quantity: 2},
		{ProductID: 3, Quantity: 1},
		{ProductID: 7, Quantity: 5},
	})
	assert.Equal(t, []int64{7, 3}, order)
	assert.Equal(t, map[int64]int64{7: 7, 3: 1}, totals)
}

func TestRequestedTotals_SaturaSinDesbordar(t *testing.T) {
	order, totals := RequestedTotals([]Item{
		{ProductID: 1, Quantity: math.MaxInt64},
		{ProductID: 1, Quantity: math.MaxInt64},
		{ProductID: 1, Quantity: 3},
	})
	assert.Equal(t, []int64{1}, order)
	assert.Equal(t, int64(math.MaxInt64), totals[1])

	id, short := FirstShortage(order, totals, map[int64]int64{1: 10})
	require.True(t, short)
	assert.Equal(t, int64(1), id)
}

func TestFirstShortage(t *testing.T) {
	order := []int64{1, 2, 3}
	totals := map[int64]int64{1: 5, 2: 4, 3: 1}

	id, short := FirstShortage(order, totals, map[int64]int64{1: 5, 2: 3})
	require.True(t, short)
	assert.Equal(t, int64(2), id, "el primer producto insuficiente en orden de la solicitud")

	// Producto sin filas: stock 0, no se ignora.
	id, short = FirstShortage([]int64{3}, totals, map[int64]int64{})
	require.True(t, short)
	assert.Equal(t, int64(3), id)

	_, short = FirstShortage(order, totals, map[int64]int64{1: 5, 2: 4, 3: 1})
	assert.False(t, short, "igualar el stock exacto es válido")
}

func TestDepleteFIFO_ConsumeLasMasAntiguasPrimero(t *testing.T) {
	lines := receiptLines(5, 3, 2)

	mutated, remaining := DepleteFIFO(lines, 6)

	assert.Zero(t, remaining)
	require.Len(t, mutated, 2)
	assert.Equal(t, int64(1), mutated[0].ID)
	assert.Equal(t, int64(0), mutated[0].Quantity)
	assert.Equal(t, int64(2), mutated[1].ID)
	assert.Equal(t, int64(2), mutated[1].Quantity)

	// La entrada no se modifica.
	assert.Equal(t, int64(5), lines[0].Quantity)
	assert.Equal(t, int64(3), lines[1].Quantity)
}

func TestDepleteFIFO_CantidadCeroNoModificaNada(t *testing.T) {
	mutated, remaining := DepleteFIFO(receiptLines(4), 0)
	assert.Empty(t, mutated)
	assert.Zero(t, remaining)
}

func TestDepleteFIFO_SaltaLineasVaciasYNuncaQuedaNegativo(t *testing.T) {
	mutated, remaining := DepleteFIFO(receiptLines(0, 2, 1), 10)

	assert.Equal(t, int64(7), remaining)
	require.Len(t, mutated, 2)
	for _, m := range mutated {
		assert.Equal(t, int64(0), m.Quantity)
	}
}

func TestPosition_SoloCuentaEntradas(t *testing.T) {
	lines := receiptLines(6, 4)
	lines = append(lines, &entity.InvoiceLine{ID: 9, Kind: entity.InvoiceKindTransfer, ProductID: 1, Quantity: 4})
	assert.Equal(t, int64(10), Position(lines))
}
