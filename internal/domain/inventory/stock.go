package inventory

import (
	"math"

	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
)

// Item cantidad solicitada de un producto dentro de una transacción.
type Item struct {
	ProductID int64
	Quantity  int64
}

// RequestedTotals acumula la cantidad solicitada por producto (los duplicados se suman)
// y devuelve los ids distintos en el orden en que aparecen por primera vez. La suma se
// satura en math.MaxInt64 en lugar de desbordar.
func RequestedTotals(items []Item) (order []int64, totals map[int64]int64) {
	totals = make(map[int64]int64, len(items))
	for _, it := range items {
		if _, seen := totals[it.ProductID]; !seen {
			order = append(order, it.ProductID)
		}
		totals[it.ProductID] = addSaturated(totals[it.ProductID], it.Quantity)
	}
	return order, totals
}

func addSaturated(a, b int64) int64 {
	if b > 0 && a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}

// FirstShortage devuelve el primer producto (según order) cuyo total solicitado supera
// su posición de stock. Un producto ausente de positions tiene stock 0.
func FirstShortage(order []int64, totals, positions map[int64]int64) (int64, bool) {
	for _, id := range order {
		if totals[id] < 0 || totals[id] > positions[id] {
			return id, true
		}
	}
	return 0, false
}

// DepleteFIFO descuenta qty de las líneas recibidas, que deben venir ya ordenadas de la más
// antigua a la más reciente. Una línea consumida por completo queda en 0; una consumida en
// parte conserva el resto. Devuelve solo las líneas modificadas (copias, la entrada no se
// altera) y la cantidad que quedó sin cubrir.
func DepleteFIFO(lines []*entity.InvoiceLine, qty int64) (mutated []*entity.InvoiceLine, remaining int64) {
	remaining = qty
	for _, l := range lines {
		if remaining <= 0 {
			break
		}
		if l.Quantity <= 0 {
			continue
		}
		taken := min(l.Quantity, remaining)
		updated := *l
		updated.Quantity = l.Quantity - taken
		remaining -= taken
		mutated = append(mutated, &updated)
	}
	if remaining < 0 {
		remaining = 0
	}
	return mutated, remaining
}

// Position suma las cantidades de las líneas que representan existencias.
func Position(lines []*entity.InvoiceLine) int64 {
	var total int64
	for _, l := range lines {
		if l.Kind.HoldsStock() {
			total = addSaturated(total, l.Quantity)
		}
	}
	return total
}
