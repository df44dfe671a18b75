package inventory

import (
	"fmt"

	"github.com/jhoicas/wholesale-trade/internal/domain"
)

// OutOfStockError se devuelve cuando un TRANSFER pide más de lo que hay en stock.
// errors.Is(err, domain.ErrInsufficientStock) es verdadero.
type OutOfStockError struct {
	ProductID int64
	Requested int64
	Available int64
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("producto %d: solicitado %d, disponible %d: %v",
		e.ProductID, e.Requested, e.Available, domain.ErrInsufficientStock)
}

func (e *OutOfStockError) Unwrap() error { return domain.ErrInsufficientStock }

// UnknownProductError producto inexistente en el catálogo.
type UnknownProductError struct {
	ProductID int64
}

func (e *UnknownProductError) Error() string {
	return fmt.Sprintf("producto %d: %v", e.ProductID, domain.ErrUnknownProduct)
}

func (e *UnknownProductError) Unwrap() error { return domain.ErrUnknownProduct }
