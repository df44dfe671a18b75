package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wholesale-trade/internal/application/inventory"
	"github.com/jhoicas/wholesale-trade/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	LedgerUC  *usecase.LedgerUseCase
	ReportUC  *usecase.ReportUseCase
	Engine    *inventory.ProcessTransactionUseCase
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	productHandler := NewProductHandler(deps.ProductUC, deps.LedgerUC)
	api.Get("/products", productHandler.List)
	api.Get("/products/names", productHandler.Names)
	api.Get("/stock/:product_id", productHandler.Stock)

	invoiceHandler := NewInvoiceHandler(deps.Engine, deps.LedgerUC)
	invoices := api.Group("/invoices")
	invoices.Post("/", invoiceHandler.Create)
	invoices.Get("/", invoiceHandler.ListByBatch)
	invoices.Get("/grouped", invoiceHandler.Grouped)
	invoices.Delete("/", invoiceHandler.Purge)

	reportHandler := NewReportHandler(deps.ReportUC)
	api.Get("/report", reportHandler.Report)
}
