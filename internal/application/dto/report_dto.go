package dto

// ReportQuery parámetros de GET /api/report. Aceptan YYYY-MM-DD o RFC 3339.
type ReportQuery struct {
	StartDate string `query:"start_date" validate:"required"`
	EndDate   string `query:"end_date" validate:"required"`
}

// ReportLineResponse línea del reporte con datos del producto.
type ReportLineResponse struct {
	InvoiceLineResponse
	ProductName string `json:"product_name"`
	Price       int64  `json:"price"`
}

// ReportResponse entradas y traslados del rango, con la suma de precios de los traslados.
type ReportResponse struct {
	Receipt          []ReportLineResponse `json:"receipt"`
	Transfer         []ReportLineResponse `json:"transfer"`
	TransferPriceSum int64                `json:"transfer_price_sum"`
}
