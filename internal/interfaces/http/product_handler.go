package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/application/usecase"
)

// ProductHandler maneja las lecturas del catálogo y la posición de stock.
type ProductHandler struct {
	products *usecase.ProductUseCase
	ledger   *usecase.LedgerUseCase
}

// NewProductHandler construye el handler.
func NewProductHandler(products *usecase.ProductUseCase, ledger *usecase.LedgerUseCase) *ProductHandler {
	return &ProductHandler{products: products, ledger: ledger}
}

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ListResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	list, err := h.products.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse{JSONList: list})
}

// Names godoc
// @Summary      Mapa id → nombre de productos
// @Tags         products
// @Produce      json
// @Success      200  {object}  dto.ListResponse
// @Router       /api/products/names [get]
func (h *ProductHandler) Names(c *fiber.Ctx) error {
	names, err := h.products.Names(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ListResponse{JSONList: names})
}

// Stock godoc
// @Summary      Posición de stock de un producto
// @Tags         stock
// @Produce      json
// @Param        product_id  path  int  true  "ID del producto"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/stock/{product_id} [get]
func (h *ProductHandler) Stock(c *fiber.Ctx) error {
	id, err := c.ParamsInt("product_id")
	if err != nil || id <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "product_id inválido"})
	}
	out, err := h.ledger.StockPosition(c.UserContext(), int64(id))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(out)
}
