package dto

import "time"

// CreateInvoiceRequest body para POST /api/invoices.
type CreateInvoiceRequest struct {
	InvoiceType string               `json:"invoice_type" validate:"required,oneof=receipt transfer"`
	Products    []InvoiceItemRequest `json:"products" validate:"required,min=1,dive"`
}

// InvoiceItemRequest un producto dentro de la transacción.
type InvoiceItemRequest struct {
	ID  int64 `json:"id" validate:"gt=0"`
	Qty int64 `json:"qty" validate:"gt=0,lte=1000000000"`
}

// CreateInvoiceResponse respuesta 201 de una transacción aplicada.
type CreateInvoiceResponse struct {
	Status      string `json:"status"`
	BatchID     int64  `json:"batch_id"`
	InvoiceType string `json:"invoice_type"`
}

// OutOfStockResponse respuesta 409 cuando un TRANSFER excede el stock.
type OutOfStockResponse struct {
	Status    string `json:"status"`
	ProductID int64  `json:"product_id"`
}

// InvoiceLineResponse una línea del libro.
type InvoiceLineResponse struct {
	ID          int64     `json:"id"`
	InvoiceType string    `json:"invoice_type"`
	ProductID   int64     `json:"product_id"`
	Quantity    int64     `json:"quantity"`
	BatchID     int64     `json:"batch_id"`
	Date        time.Time `json:"date"`
}
