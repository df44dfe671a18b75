package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/application/inventory"
	"github.com/jhoicas/wholesale-trade/internal/application/usecase"
	"github.com/jhoicas/wholesale-trade/internal/domain/entity"
	domaininv "github.com/jhoicas/wholesale-trade/internal/domain/inventory"
)

// InvoiceHandler maneja la captura de transacciones y las consultas del libro.
type InvoiceHandler struct {
	engine *inventory.ProcessTransactionUseCase
	ledger *usecase.LedgerUseCase
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(engine *inventory.ProcessTransactionUseCase, ledger *usecase.LedgerUseCase) *InvoiceHandler {
	return &InvoiceHandler{engine: engine, ledger: ledger}
}

// Create godoc
// @Summary      Registrar una entrada o un traslado
// @Description  Crea un lote nuevo. Un traslado se valida completo contra el stock antes de aplicarse.
// @Tags         invoices
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInvoiceRequest  true  "invoice_type y productos"
// @Success      201   {object}  dto.CreateInvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.OutOfStockResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	if ok, err := validateStruct(c, in); !ok {
		return err
	}
	kind, err := entity.ParseInvoiceKind(in.InvoiceType)
	if err != nil {
		return writeError(c, err)
	}

	items := make([]domaininv.Item, 0, len(in.Products))
	for _, p := range in.Products {
		items = append(items, domaininv.Item{ProductID: p.ID, Quantity: p.Qty})
	}
	res, err := h.engine.ProcessTransaction(c.UserContext(), inventory.TransactionInput{Kind: kind, Items: items})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.CreateInvoiceResponse{
		Status:      "success",
		BatchID:     res.BatchID,
		InvoiceType: string(res.Kind),
	})
}

// ListByBatch godoc
// @Summary      Líneas de un lote
// @Tags         invoices
// @Produce      json
// @Param        batch_id  query  int  true  "ID del lote"
// @Success      200  {object}  dto.ListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/invoices [get]
func (h *InvoiceHandler) ListByBatch(c *fiber.Ctx) error {
	batchID, err := strconv.ParseInt(c.Query("batch_id"), 10, 64)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "batch_id inválido"})
	}
	list, err := h.ledger.ListByBatch(c.UserContext(), batchID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse{JSONList: list})
}

// Grouped godoc
// @Summary      Libro agrupado por lote
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.ListResponse
// @Router       /api/invoices/grouped [get]
func (h *InvoiceHandler) Grouped(c *fiber.Ctx) error {
	groups, err := h.ledger.Grouped(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse{JSONList: groups})
}

// Purge godoc
// @Summary      Purgar el libro de facturas
// @Tags         invoices
// @Produce      json
// @Success      200  {object}  dto.ListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/invoices [delete]
func (h *InvoiceHandler) Purge(c *fiber.Ctx) error {
	n, err := h.engine.PurgeLedger(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	requestLogger(c).Warn().Int64("deleted", n).Msg("libro purgado vía API")
	return c.JSON(dto.ListResponse{JSONList: n})
}
