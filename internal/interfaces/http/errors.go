package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/wholesale-trade/internal/application/dto"
	"github.com/jhoicas/wholesale-trade/internal/application/inventory"
	"github.com/jhoicas/wholesale-trade/internal/domain"
)

var validate = validator.New()

// validateStruct aplica las etiquetas validate del DTO. Con ok=false la respuesta 400 ya
// quedó escrita y el handler debe devolver err sin seguir.
func validateStruct(c *fiber.Ctx, in any) (ok bool, err error) {
	verr := validate.Struct(in)
	if verr == nil {
		return true, nil
	}
	msg := "datos inválidos"
	var verrs validator.ValidationErrors
	if errors.As(verr, &verrs) && len(verrs) > 0 {
		msg = verrs[0].Namespace() + ": " + verrs[0].Tag()
	}
	return false, c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: msg})
}

// writeError traduce errores de dominio a la respuesta HTTP.
func writeError(c *fiber.Ctx, err error) error {
	var (
		oos     *inventory.OutOfStockError
		unknown *inventory.UnknownProductError
	)
	switch {
	case errors.As(err, &oos):
		return c.Status(fiber.StatusConflict).JSON(dto.OutOfStockResponse{Status: "out_of_stock", ProductID: oos.ProductID})
	case errors.As(err, &unknown):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
			"code":       "UNKNOWN_PRODUCT",
			"message":    "producto inexistente",
			"product_id": unknown.ProductID,
		})
	case errors.Is(err, domain.ErrUnknownProduct):
		return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{Code: "UNKNOWN_PRODUCT", Message: err.Error()})
	case errors.Is(err, domain.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: err.Error()})
	case errors.Is(err, domain.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: err.Error()})
	}
	requestLogger(c).Error().Err(err).Str("path", c.Path()).Msg("error interno")
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: "error interno"})
}

func badBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
}
