package entity

import (
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/wholesale-trade/internal/domain"
)

// InvoiceKind tipo de transacción de una línea de factura.
type InvoiceKind string

// Tipos de factura. El valor textual es el que se persiste y viaja por la API.
const (
	InvoiceKindReceipt  InvoiceKind = "receipt"  // entrada de mercancía
	InvoiceKindTransfer InvoiceKind = "transfer" // salida (traslado) con agotamiento FIFO
)

// ParseInvoiceKind valida el tipo recibido en la frontera.
func ParseInvoiceKind(s string) (InvoiceKind, error) {
	switch k := InvoiceKind(strings.ToLower(strings.TrimSpace(s))); k {
	case InvoiceKindReceipt, InvoiceKindTransfer:
		return k, nil
	}
	return "", fmt.Errorf("tipo de factura %q: %w", s, domain.ErrInvalidInput)
}

// Valid indica si el tipo es uno de los soportados.
func (k InvoiceKind) Valid() bool {
	return k == InvoiceKindReceipt || k == InvoiceKindTransfer
}

// HoldsStock indica si las líneas de este tipo forman parte de la posición de stock.
// Las líneas TRANSFER son el registro del traslado, no existencias.
func (k InvoiceKind) HoldsStock() bool {
	return k == InvoiceKindReceipt
}

// InvoiceLine es una fila del libro: un producto afectado por un lote (batch).
// Todas las líneas creadas por una misma transacción comparten BatchID.
type InvoiceLine struct {
	ID        int64
	Kind      InvoiceKind
	ProductID int64
	Quantity  int64 // nunca negativo
	BatchID   int64
	CreatedAt time.Time
}

// ReportLine línea de factura enriquecida con nombre y precio del producto.
type ReportLine struct {
	InvoiceLine
	ProductName string
	Price       int64
}
